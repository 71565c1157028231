// Package likes caches per-post like status and liked-by lists, and pushes
// confirmed status changes into the post store so its denormalized fields
// stay consistent.
package likes

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	"glimpse/internal/api"
	"glimpse/internal/users"
)

// PostPatcher receives confirmed like-state changes. Satisfied by the post
// store; injected so the coupling stays an explicit method call.
type PostPatcher interface {
	SetLikeStatus(postID string, liked bool, likeCount *int)
}

// Store holds the like caches and mediates the /likes endpoints.
type Store struct {
	mu      sync.RWMutex
	client  *api.Client
	posts   PostPatcher
	status  map[string]bool
	byPost  map[string]*UserList
	loading bool
	err     string
}

// NewStore creates a like store. posts may be nil in tests that do not care
// about propagation.
func NewStore(client *api.Client, posts PostPatcher) *Store {
	return &Store{
		client: client,
		posts:  posts,
		status: make(map[string]bool),
		byPost: make(map[string]*UserList),
	}
}

// Like records a like for postID. The cache is updated only after the server
// confirms, so the UI reflects server truth with request latency and never
// needs a rollback. Returns the confirmed like count.
func (s *Store) Like(ctx context.Context, postID string) (int, error) {
	s.begin()

	var resp LikeResponse
	if err := s.client.Post(ctx, "/likes", map[string]string{"postId": postID}, &resp); err != nil {
		s.fail(api.Message(err, "Failed to like post"))
		return 0, err
	}

	s.setStatus(postID, true)
	s.propagate(postID, true, &resp.LikeCount)
	return resp.LikeCount, nil
}

// Unlike mirrors Like.
func (s *Store) Unlike(ctx context.Context, postID string) (int, error) {
	s.begin()

	var resp LikeResponse
	if err := s.client.Delete(ctx, "/likes/"+postID, &resp); err != nil {
		s.fail(api.Message(err, "Failed to unlike post"))
		return 0, err
	}

	s.setStatus(postID, false)
	s.propagate(postID, false, &resp.LikeCount)
	return resp.LikeCount, nil
}

// CheckStatus fetches whether the current user likes postID. The loading flag
// is only raised when the cache has no entry yet, so repeat checks do not
// flicker spinners. The fetched value is pushed into the post store.
func (s *Store) CheckStatus(ctx context.Context, postID string) (bool, error) {
	s.mu.Lock()
	_, cached := s.status[postID]
	s.loading = !cached
	s.err = ""
	s.mu.Unlock()

	var resp StatusResponse
	if err := s.client.Get(ctx, "/likes/status/"+postID, nil, &resp); err != nil {
		s.fail(api.Message(err, "Failed to check like status"))
		return false, err
	}

	s.setStatus(postID, resp.Liked)
	s.propagate(postID, resp.Liked, nil)
	return resp.Liked, nil
}

// FetchUsers loads one page of the liked-by list for postID. Page 1 replaces
// the cached list; later pages append. HasMore comes from the server's page
// count.
func (s *Store) FetchUsers(ctx context.Context, postID string, page, limit int) ([]users.User, error) {
	if page < 1 {
		page = 1
	}
	s.begin()

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var resp ListResponse
	if err := s.client.Get(ctx, "/likes/post/"+postID, query, &resp); err != nil {
		s.fail(api.Message(err, "Failed to fetch likes"))
		return nil, err
	}

	s.mu.Lock()
	list := s.byPost[postID]
	if page == 1 || list == nil {
		list = &UserList{}
		s.byPost[postID] = list
	}
	list.Users = append(list.Users, resp.Likes...)
	list.HasMore = resp.Meta.HasMore(page)
	list.Total = resp.Meta.Total
	s.loading = false
	s.mu.Unlock()

	return resp.Likes, nil
}

// Status returns the cached like flag for postID.
func (s *Store) Status(postID string) (liked, cached bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	liked, cached = s.status[postID]
	return liked, cached
}

// Users returns the cached liked-by list for postID.
func (s *Store) Users(postID string) (UserList, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.byPost[postID]
	if !ok {
		return UserList{}, false
	}
	out := UserList{
		Users:   make([]users.User, len(list.Users)),
		HasMore: list.HasMore,
		Total:   list.Total,
	}
	copy(out.Users, list.Users)
	return out, true
}

// Loading reports whether a like operation is in flight.
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

func (s *Store) setStatus(postID string, liked bool) {
	s.mu.Lock()
	s.status[postID] = liked
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) propagate(postID string, liked bool, count *int) {
	if s.posts != nil {
		s.posts.SetLikeStatus(postID, liked, count)
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
