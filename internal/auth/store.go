// Package auth owns the session: the current user, the persisted bearer
// token, and the login, register, logout, and rehydration flows.
package auth

import (
	"context"
	"log/slog"
	"sync"

	"glimpse/internal/api"
	"glimpse/internal/token"
	"glimpse/internal/users"
)

// Store holds session state and mediates the /auth endpoints.
type Store struct {
	mu            sync.RWMutex
	client        *api.Client
	tokens        token.Store
	user          *users.User
	authenticated bool
	loading       bool
	err           string
}

// NewStore creates the auth store. The authenticated flag starts as plain
// token presence and is corrected by the first CheckAuth.
func NewStore(client *api.Client, tokens token.Store) *Store {
	return &Store{
		client:        client,
		tokens:        tokens,
		authenticated: tokens.Token() != "",
	}
}

// Login exchanges credentials for a session. On success the token is
// persisted and the user becomes the current user.
func (s *Store) Login(ctx context.Context, credentials LoginCredentials) (*users.User, error) {
	s.begin()

	var resp Response
	if err := s.client.Post(ctx, "/auth/login", credentials, &resp); err != nil {
		s.fail(api.Message(err, "Login failed. Please try again."))
		return nil, err
	}

	s.establishSession(resp)
	user := resp.User
	return &user, nil
}

// Register creates an account and signs it in, mirroring Login.
func (s *Store) Register(ctx context.Context, data RegisterData) (*users.User, error) {
	s.begin()

	var resp Response
	if err := s.client.Post(ctx, "/auth/register", data, &resp); err != nil {
		s.fail(api.Message(err, "Registration failed. Please try again."))
		return nil, err
	}

	s.establishSession(resp)
	user := resp.User
	return &user, nil
}

// Logout ends the session. Local state is cleared even when the server call
// fails: the client can always drop its own session. The server error, if
// any, is still returned.
func (s *Store) Logout(ctx context.Context) error {
	s.begin()

	err := s.client.Post(ctx, "/auth/logout", nil, nil)
	if err != nil {
		slog.Warn("Server logout failed, clearing session locally", "error", err)
	}

	s.dropSession()
	return err
}

// CheckAuth rehydrates the session from the persisted token. Without a token
// it simply marks the store unauthenticated. A failed identity call evicts
// the token and downgrades to unauthenticated before the error is returned,
// so an expired token never leaves partial state behind.
func (s *Store) CheckAuth(ctx context.Context) error {
	if s.tokens.Token() == "" {
		s.mu.Lock()
		s.authenticated = false
		s.mu.Unlock()
		return nil
	}

	s.begin()

	var resp Response
	if err := s.client.Get(ctx, "/auth/me", nil, &resp); err != nil {
		s.dropSession()
		s.mu.Lock()
		s.err = api.Message(err, "Session check failed")
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	user := resp.User
	s.user = &user
	s.authenticated = true
	s.loading = false
	s.mu.Unlock()
	return nil
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Store) CurrentUser() *users.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// IsAuthenticated reports whether a session is active.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Loading reports whether an auth operation is in flight.
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

// establishSession persists the token and records the signed-in user.
func (s *Store) establishSession(resp Response) {
	if err := s.tokens.Save(resp.Token); err != nil {
		slog.Warn("Failed to persist session token", "error", err)
	}

	s.mu.Lock()
	user := resp.User
	s.user = &user
	s.authenticated = true
	s.loading = false
	s.mu.Unlock()
}

// dropSession clears the token and every piece of session state.
func (s *Store) dropSession() {
	if err := s.tokens.Clear(); err != nil {
		slog.Warn("Failed to clear persisted token", "error", err)
	}

	s.mu.Lock()
	s.user = nil
	s.authenticated = false
	s.loading = false
	s.mu.Unlock()
}
