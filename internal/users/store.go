// Package users caches profile lookups by username.
package users

import (
	"context"
	"sync"

	"glimpse/internal/api"
)

// Store caches user profiles fetched from the backend.
type Store struct {
	mu       sync.RWMutex
	client   *api.Client
	profiles map[string]User
	loading  bool
	err      string
}

// NewStore creates a profile store backed by client.
func NewStore(client *api.Client) *Store {
	return &Store{
		client:   client,
		profiles: make(map[string]User),
	}
}

// Fetch retrieves the profile for username and caches it.
func (s *Store) Fetch(ctx context.Context, username string) (*User, error) {
	s.setLoading(true)

	var resp ProfileResponse
	if err := s.client.Get(ctx, "/users/"+username, nil, &resp); err != nil {
		s.fail(api.Message(err, "Failed to fetch profile"))
		return nil, err
	}

	s.mu.Lock()
	s.profiles[username] = resp.User
	s.loading = false
	s.mu.Unlock()

	user := resp.User
	return &user, nil
}

// Cached returns the cached profile for username, if present.
func (s *Store) Cached(username string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.profiles[username]
	return user, ok
}

// Loading reports whether a fetch is in flight.
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

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.err = ""
	s.mu.Unlock()
}

func (s *Store) fail(msg string) {
	s.mu.Lock()
	s.loading = false
	s.err = msg
	s.mu.Unlock()
}
