package media

import (
	"fmt"
	"io"
	"os"
)

// Source provides the bytes of a staged file and owns the resource backing
// them. Release must be called exactly once when the preview is discarded;
// skipping it leaks storage for the rest of the session.
type Source interface {
	Open() (io.ReadCloser, error)
	Release() error
}

// tempSource stages file contents in a temporary file on disk.
type tempSource struct {
	path string
}

// NewTempSource copies r into a temporary file under dir (the OS temp dir
// when dir is empty) and returns the source plus the staged size.
func NewTempSource(dir string, r io.Reader) (Source, int64, error) {
	f, err := os.CreateTemp(dir, "staged-*")
	if err != nil {
		return nil, 0, fmt.Errorf("media: create staging file: %w", err)
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return nil, 0, fmt.Errorf("media: stage file: %w", err)
	}

	return &tempSource{path: f.Name()}, size, nil
}

// Open returns a reader over the staged contents.
func (s *tempSource) Open() (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("media: open staged file: %w", err)
	}
	return f, nil
}

// Release deletes the staging file.
func (s *tempSource) Release() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("media: remove staged file: %w", err)
	}
	return nil
}
