// Package comments caches per-post comment threads. Comment ids are globally
// unique across posts, so update and delete scan every thread rather than
// tracking which post a comment belongs to.
package comments

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	"glimpse/internal/api"
)

// Store holds the comment threads and mediates the /comments endpoints.
type Store struct {
	mu      sync.RWMutex
	client  *api.Client
	threads map[string]*Thread
	loading bool
	err     string
}

// NewStore creates a comment store backed by client.
func NewStore(client *api.Client) *Store {
	return &Store{
		client:  client,
		threads: make(map[string]*Thread),
	}
}

// Fetch loads one page of postID's comments. Page 1 replaces the thread;
// later pages append.
func (s *Store) Fetch(ctx context.Context, postID string, page, limit int) ([]Comment, error) {
	if page < 1 {
		page = 1
	}
	s.begin()

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var resp CommentsResponse
	if err := s.client.Get(ctx, "/comments/post/"+postID, query, &resp); err != nil {
		s.fail(api.Message(err, "Failed to fetch comments"))
		return nil, err
	}

	s.mu.Lock()
	thread := s.threads[postID]
	if page == 1 || thread == nil {
		thread = &Thread{}
		s.threads[postID] = thread
	}
	thread.Items = append(thread.Items, resp.Comments...)
	thread.TotalPages = resp.Meta.TotalPages
	thread.CurrentPage = page
	s.loading = false
	s.mu.Unlock()

	return resp.Comments, nil
}

// Create posts a comment and prepends it to its thread.
func (s *Store) Create(ctx context.Context, data CreateCommentData) (*Comment, error) {
	s.begin()

	var resp CommentResponse
	if err := s.client.Post(ctx, "/comments", data, &resp); err != nil {
		s.fail(api.Message(err, "Failed to create comment"))
		return nil, err
	}

	s.mu.Lock()
	thread := s.threads[data.PostID]
	if thread == nil {
		thread = &Thread{TotalPages: 1, CurrentPage: 1}
		s.threads[data.PostID] = thread
	}
	thread.Items = append([]Comment{resp.Comment}, thread.Items...)
	s.loading = false
	s.mu.Unlock()

	comment := resp.Comment
	return &comment, nil
}

// Update edits a comment and patches it in whichever thread holds it.
func (s *Store) Update(ctx context.Context, commentID, content string) (*Comment, error) {
	s.begin()

	var resp CommentResponse
	if err := s.client.Put(ctx, "/comments/"+commentID, map[string]string{"content": content}, &resp); err != nil {
		s.fail(api.Message(err, "Failed to update comment"))
		return nil, err
	}

	s.mu.Lock()
	for _, thread := range s.threads {
		for i := range thread.Items {
			if thread.Items[i].ID == commentID {
				thread.Items[i] = resp.Comment
			}
		}
	}
	s.loading = false
	s.mu.Unlock()

	comment := resp.Comment
	return &comment, nil
}

// Delete removes a comment on the server and drops it from whichever thread
// holds it.
func (s *Store) Delete(ctx context.Context, commentID string) error {
	s.begin()

	if err := s.client.Delete(ctx, "/comments/"+commentID, nil); err != nil {
		s.fail(api.Message(err, "Failed to delete comment"))
		return err
	}

	s.mu.Lock()
	for _, thread := range s.threads {
		kept := thread.Items[:0]
		for _, c := range thread.Items {
			if c.ID != commentID {
				kept = append(kept, c)
			}
		}
		thread.Items = kept
	}
	s.loading = false
	s.mu.Unlock()
	return nil
}

// Clear resets one post's thread, or every thread when postID is empty.
// Called on unmount-style cleanup such as closing a detail view.
func (s *Store) Clear(postID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if postID == "" {
		s.threads = make(map[string]*Thread)
		return
	}
	s.threads[postID] = &Thread{TotalPages: 1, CurrentPage: 1}
}

// Comments returns a copy of the cached thread for postID.
func (s *Store) Comments(postID string) (Thread, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	thread, ok := s.threads[postID]
	if !ok {
		return Thread{}, false
	}
	out := Thread{
		Items:       make([]Comment, len(thread.Items)),
		TotalPages:  thread.TotalPages,
		CurrentPage: thread.CurrentPage,
	}
	copy(out.Items, thread.Items)
	return out, true
}

// Loading reports whether a comment operation is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last recorded error message.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// ClearError resets the recorded error message.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *Store) fail(msg string) {
	s.mu.Lock()
	s.loading = false
	s.err = msg
	s.mu.Unlock()
}
