// Package bookmarks caches per-post bookmark status and the saved-posts
// list, propagating confirmed changes into the post store.
package bookmarks

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	"glimpse/internal/api"
	"glimpse/internal/posts"
)

// PostPatcher receives confirmed bookmark-state changes. Satisfied by the
// post store.
type PostPatcher interface {
	SetBookmarkStatus(postID string, bookmarked bool)
}

// Store holds the bookmark caches and mediates the /bookmarks endpoints.
type Store struct {
	mu          sync.RWMutex
	client      *api.Client
	posts       PostPatcher
	status      map[string]bool
	bookmarks   []posts.Post
	totalPages  int
	currentPage int
	loading     bool
	err         string
}

// NewStore creates a bookmark store. posts may be nil in tests.
func NewStore(client *api.Client, posts PostPatcher) *Store {
	return &Store{
		client:      client,
		posts:       posts,
		status:      make(map[string]bool),
		totalPages:  1,
		currentPage: 1,
	}
}

// Add bookmarks postID, updating the cache only after server confirmation.
func (s *Store) Add(ctx context.Context, postID string) error {
	s.begin()

	var resp BookmarkResponse
	if err := s.client.Post(ctx, "/bookmarks", map[string]string{"postId": postID}, &resp); err != nil {
		s.fail(api.Message(err, "Failed to bookmark post"))
		return err
	}

	s.setStatus(postID, true)
	s.propagate(postID, true)
	return nil
}

// Remove deletes the bookmark for postID.
func (s *Store) Remove(ctx context.Context, postID string) error {
	s.begin()

	var resp BookmarkResponse
	if err := s.client.Delete(ctx, "/bookmarks/"+postID, &resp); err != nil {
		s.fail(api.Message(err, "Failed to remove bookmark"))
		return err
	}

	s.setStatus(postID, false)
	s.propagate(postID, false)
	return nil
}

// CheckStatus fetches whether postID is bookmarked. The loading flag is only
// raised on a cold cache entry; the result is pushed into the post store.
func (s *Store) CheckStatus(ctx context.Context, postID string) (bool, error) {
	s.mu.Lock()
	_, cached := s.status[postID]
	s.loading = !cached
	s.err = ""
	s.mu.Unlock()

	var resp StatusResponse
	if err := s.client.Get(ctx, "/bookmarks/status/"+postID, nil, &resp); err != nil {
		s.fail(api.Message(err, "Failed to check bookmark status"))
		return false, err
	}

	s.setStatus(postID, resp.Bookmarked)
	s.propagate(postID, resp.Bookmarked)
	return resp.Bookmarked, nil
}

// Fetch loads one page of the saved-posts list. Page 1 replaces; later pages
// append.
func (s *Store) Fetch(ctx context.Context, page, limit int) ([]posts.Post, error) {
	if page < 1 {
		page = 1
	}
	s.begin()

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var resp ListResponse
	if err := s.client.Get(ctx, "/bookmarks", query, &resp); err != nil {
		s.fail(api.Message(err, "Failed to fetch bookmarks"))
		return nil, err
	}

	s.mu.Lock()
	if page == 1 {
		s.bookmarks = resp.Posts
	} else {
		s.bookmarks = append(s.bookmarks, resp.Posts...)
	}
	s.totalPages = resp.Meta.TotalPages
	s.currentPage = page
	s.loading = false
	s.mu.Unlock()

	return resp.Posts, nil
}

// Status returns the cached bookmark flag for postID.
func (s *Store) Status(postID string) (bookmarked, cached bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bookmarked, cached = s.status[postID]
	return bookmarked, cached
}

// Bookmarks returns a copy of the accumulated saved-posts list.
func (s *Store) Bookmarks() []posts.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]posts.Post, len(s.bookmarks))
	copy(out, s.bookmarks)
	return out
}

// Page returns the pagination cursor: current page and total pages.
func (s *Store) Page() (current, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentPage, s.totalPages
}

// Loading reports whether a bookmark operation is in flight.
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

func (s *Store) setStatus(postID string, bookmarked bool) {
	s.mu.Lock()
	s.status[postID] = bookmarked
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) propagate(postID string, bookmarked bool) {
	if s.posts != nil {
		s.posts.SetBookmarkStatus(postID, bookmarked)
	}
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
