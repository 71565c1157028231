// Package media owns the upload pipeline: locally staged previews, the
// multipart upload calls, and the list of server-confirmed media.
package media

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"glimpse/internal/api"
)

// Store tracks staged previews and uploaded media.
type Store struct {
	mu        sync.Mutex
	client    *api.Client
	uploaded  []Media
	previews  []*PreviewMedia
	uploading bool
	progress  int
	err       string
}

// NewStore creates a media store backed by client.
func NewStore(client *api.Client) *Store {
	return &Store{client: client}
}

// AddPreview stages a file locally and returns its preview record. No network
// traffic happens until the preview is committed.
func (s *Store) AddPreview(name string, size int64, src Source) PreviewMedia {
	preview := &PreviewMedia{
		ID:   uuid.New().String(),
		Name: name,
		Size: size,
		src:  src,
	}

	s.mu.Lock()
	s.previews = append(s.previews, preview)
	s.mu.Unlock()

	return *preview
}

// RemovePreview discards one staged preview, releasing its backing resource
// before it leaves the store.
func (s *Store) RemovePreview(id string) error {
	s.mu.Lock()
	var removed *PreviewMedia
	kept := s.previews[:0]
	for _, p := range s.previews {
		if p.ID == id {
			removed = p
			continue
		}
		kept = append(kept, p)
	}
	s.previews = kept
	s.mu.Unlock()

	if removed == nil {
		return nil
	}
	return release(removed)
}

// ClearPreviews discards every staged preview, releasing each backing
// resource first.
func (s *Store) ClearPreviews() error {
	s.mu.Lock()
	dropped := s.previews
	s.previews = nil
	s.mu.Unlock()

	var errs []error
	for _, p := range dropped {
		if err := release(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// UploadAllPreviews commits every staged preview to the server, one at a
// time, updating batch progress after each item. A failed item is logged and
// skipped; the returned slice holds the subset that succeeded. All previews
// are discarded afterwards, including failed ones.
func (s *Store) UploadAllPreviews(ctx context.Context, opts UploadOptions) []Media {
	s.mu.Lock()
	s.uploading = true
	s.progress = 0
	s.err = ""
	pending := make([]*PreviewMedia, len(s.previews))
	copy(pending, s.previews)
	s.mu.Unlock()

	var committed []Media
	total := len(pending)

	for i, preview := range pending {
		if !preview.Uploaded {
			item, err := s.uploadPreview(ctx, preview, opts)
			if err != nil {
				slog.Warn("Preview upload failed, skipping item",
					"preview_id", preview.ID,
					"name", preview.Name,
					"error", err,
				)
				s.mu.Lock()
				s.err = api.Message(err, "Some files failed to upload. Please try again.")
				s.mu.Unlock()
			} else {
				committed = append(committed, *item)
				s.mu.Lock()
				preview.Uploaded = true
				s.mu.Unlock()
			}
		}

		s.mu.Lock()
		s.progress = (i + 1) * 100 / total
		s.mu.Unlock()
	}

	if err := s.ClearPreviews(); err != nil {
		slog.Warn("Failed to release staged previews", "error", err)
	}

	s.mu.Lock()
	s.uploading = false
	s.progress = 100
	s.mu.Unlock()

	return committed
}

// File is one named input for UploadMany.
type File struct {
	Name string
	Data io.Reader
}

// UploadMany sends files to the server one at a time, updating batch progress
// after each item. Mirrors UploadAllPreviews: a failed item is logged and
// skipped, and the returned slice holds the subset that succeeded.
func (s *Store) UploadMany(ctx context.Context, files []File, opts UploadOptions) []Media {
	s.mu.Lock()
	s.uploading = true
	s.progress = 0
	s.err = ""
	s.mu.Unlock()

	var committed []Media
	total := len(files)

	for i, f := range files {
		item, err := s.upload(ctx, f.Name, f.Data, opts, nil)
		if err != nil {
			slog.Warn("Upload failed, skipping item", "name", f.Name, "error", err)
			s.mu.Lock()
			s.err = api.Message(err, "Some files failed to upload. Please try again.")
			s.mu.Unlock()
		} else {
			committed = append(committed, *item)
		}

		s.mu.Lock()
		s.progress = (i + 1) * 100 / total
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.uploading = false
	s.progress = 100
	s.mu.Unlock()

	return committed
}

// uploadPreview opens a preview's source and sends it through Upload without
// touching the batch-level flags.
func (s *Store) uploadPreview(ctx context.Context, preview *PreviewMedia, opts UploadOptions) (*Media, error) {
	r, err := preview.src.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return s.upload(ctx, preview.Name, r, opts, nil)
}

// Upload sends one file to the server as multipart form data, tracking
// byte-level progress for that request, and records the confirmed media.
func (s *Store) Upload(ctx context.Context, name string, r io.Reader, opts UploadOptions) (*Media, error) {
	s.mu.Lock()
	s.uploading = true
	s.progress = 0
	s.err = ""
	s.mu.Unlock()

	item, err := s.upload(ctx, name, r, opts, func(percent int) {
		s.mu.Lock()
		s.progress = percent
		s.mu.Unlock()
	})
	if err != nil {
		s.mu.Lock()
		s.uploading = false
		s.err = api.Message(err, "Failed to upload media")
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.uploading = false
	s.progress = 100
	s.mu.Unlock()
	return item, nil
}

func (s *Store) upload(ctx context.Context, name string, r io.Reader, opts UploadOptions, onProgress api.ProgressFunc) (*Media, error) {
	fields := map[string]string{"type": opts.Type}
	if opts.PostID != "" {
		fields["postId"] = opts.PostID
	}
	if opts.Resize != nil {
		directive, err := json.Marshal(opts.Resize)
		if err != nil {
			return nil, err
		}
		fields["resize"] = string(directive)
	}

	var resp UploadResponse
	file := api.FormFile{Field: "image", Name: name, Data: r}
	if err := s.client.Upload(ctx, "/media/upload", fields, file, &resp, onProgress); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.uploaded = append(s.uploaded, resp.Media)
	s.mu.Unlock()

	return &resp.Media, nil
}

// Delete removes media on the server, then locally. The path-parameter form
// of the endpoint is the authoritative one.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, "/media/"+id, nil); err != nil {
		s.mu.Lock()
		s.err = api.Message(err, "Failed to delete media")
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	kept := s.uploaded[:0]
	for _, m := range s.uploaded {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.uploaded = kept
	s.mu.Unlock()
	return nil
}

// Uploaded returns the server-confirmed media accumulated so far.
func (s *Store) Uploaded() []Media {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Media, len(s.uploaded))
	copy(out, s.uploaded)
	return out
}

// Previews returns the currently staged previews.
func (s *Store) Previews() []PreviewMedia {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PreviewMedia, 0, len(s.previews))
	for _, p := range s.previews {
		out = append(out, *p)
	}
	return out
}

// Uploading reports whether an upload is in flight.
func (s *Store) Uploading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploading
}

// Progress returns the current upload progress, 0-100.
func (s *Store) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// ClearUploaded forgets the accumulated uploaded media. Server state is
// untouched.
func (s *Store) ClearUploaded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploaded = nil
}

// Err returns the last recorded error message.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ClearError resets the recorded error message.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// release invokes a preview's Release hook, guarding against double release.
func release(p *PreviewMedia) error {
	if p.released || p.src == nil {
		return nil
	}
	p.released = true
	return p.src.Release()
}
