// Package token persists the session bearer token between runs. It is the
// only client-side state that survives a restart.
package token

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store defines the interface for bearer-token persistence.
type Store interface {
	// Token returns the stored token, or "" when none is present.
	Token() string
	Save(token string) error
	Clear() error
}

// fileStore keeps the token in a single file on disk.
type fileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed token store at path. The file is created
// on the first Save.
func NewFileStore(path string) Store {
	return &fileStore{path: path}
}

// Token reads the stored token. Any read failure is treated as "no token".
func (s *fileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Save writes the token, creating parent directories as needed.
func (s *fileStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("token: create directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("token: write file: %w", err)
	}
	return nil
}

// Clear removes the stored token. A missing file is not an error.
func (s *fileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("token: remove file: %w", err)
	}
	return nil
}

// memoryStore holds the token in memory only. Used by tests and callers that
// do not want persistence.
type memoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore creates an in-memory token store.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (s *memoryStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *memoryStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *memoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
