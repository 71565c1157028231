// Package follows caches follow relationships keyed by username: membership
// status, follower/following lists, and aggregate counts.
package follows

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	"glimpse/internal/api"
	"glimpse/internal/users"
)

// Store holds the follow caches and mediates the /follows endpoints.
type Store struct {
	mu        sync.RWMutex
	client    *api.Client
	status    map[string]bool
	followers map[string]*UserList
	following map[string]*UserList
	counts    map[string]Counts
	loading   bool
	err       string
}

// NewStore creates a follow store backed by client.
func NewStore(client *api.Client) *Store {
	return &Store{
		client:    client,
		status:    make(map[string]bool),
		followers: make(map[string]*UserList),
		following: make(map[string]*UserList),
		counts:    make(map[string]Counts),
	}
}

// Follow creates a follow edge to username, recorded only after the server
// confirms.
func (s *Store) Follow(ctx context.Context, username string) error {
	s.begin()

	var resp FollowResponse
	if err := s.client.Post(ctx, "/follows", map[string]string{"username": username}, &resp); err != nil {
		s.fail(api.Message(err, "Failed to follow user"))
		return err
	}

	s.setStatus(username, true)
	return nil
}

// Unfollow removes the follow edge to username. A failed call leaves the
// cached status at whatever the last successful call established.
func (s *Store) Unfollow(ctx context.Context, username string) error {
	s.begin()

	var resp FollowResponse
	if err := s.client.Delete(ctx, "/follows/"+username, &resp); err != nil {
		s.fail(api.Message(err, "Failed to unfollow user"))
		return err
	}

	s.setStatus(username, false)
	return nil
}

// CheckStatus fetches whether the current user follows username. The loading
// flag is only raised when the cache has no entry yet.
func (s *Store) CheckStatus(ctx context.Context, username string) (bool, error) {
	s.mu.Lock()
	_, cached := s.status[username]
	s.loading = !cached
	s.err = ""
	s.mu.Unlock()

	var resp StatusResponse
	if err := s.client.Get(ctx, "/follows/status/"+username, nil, &resp); err != nil {
		s.fail(api.Message(err, "Failed to check follow status"))
		return false, err
	}

	s.setStatus(username, resp.Following)
	return resp.Following, nil
}

// Followers loads one page of username's followers. Page 1 replaces the
// cached list; later pages append.
func (s *Store) Followers(ctx context.Context, username string, page, limit int) ([]users.User, error) {
	var resp FollowersResponse
	err := s.fetchList(ctx, "/follows/followers/"+username, page, limit, &resp,
		"Failed to get followers")
	if err != nil {
		return nil, err
	}

	s.applyPage(s.followers, username, resp.Followers, resp.Meta, page)
	return resp.Followers, nil
}

// Following loads one page of the users username follows.
func (s *Store) Following(ctx context.Context, username string, page, limit int) ([]users.User, error) {
	var resp FollowingResponse
	err := s.fetchList(ctx, "/follows/following/"+username, page, limit, &resp,
		"Failed to get following")
	if err != nil {
		return nil, err
	}

	s.applyPage(s.following, username, resp.Following, resp.Meta, page)
	return resp.Following, nil
}

// FetchCounts loads and caches the follower/following totals for username.
func (s *Store) FetchCounts(ctx context.Context, username string) (Counts, error) {
	s.begin()

	var resp CountsResponse
	if err := s.client.Get(ctx, "/follows/counts/"+username, nil, &resp); err != nil {
		s.fail(api.Message(err, "Failed to get follow counts"))
		return Counts{}, err
	}

	counts := Counts{Followers: resp.FollowersCount, Following: resp.FollowingCount}
	s.mu.Lock()
	s.counts[username] = counts
	s.loading = false
	s.mu.Unlock()

	return counts, nil
}

// Status returns the cached follow flag for username.
func (s *Store) Status(username string) (following, cached bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	following, cached = s.status[username]
	return following, cached
}

// CachedFollowers returns the cached follower list for username.
func (s *Store) CachedFollowers(username string) (UserList, bool) {
	return s.cachedList(s.followers, username)
}

// CachedFollowing returns the cached following list for username.
func (s *Store) CachedFollowing(username string) (UserList, bool) {
	return s.cachedList(s.following, username)
}

// CachedCounts returns the cached totals for username.
func (s *Store) CachedCounts(username string) (Counts, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts, ok := s.counts[username]
	return counts, ok
}

// Loading reports whether a follow operation is in flight.
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

func (s *Store) fetchList(ctx context.Context, path string, page, limit int, out any, failMsg string) error {
	if page < 1 {
		page = 1
	}
	s.begin()

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	if err := s.client.Get(ctx, path, query, out); err != nil {
		s.fail(api.Message(err, failMsg))
		return err
	}
	return nil
}

func (s *Store) applyPage(cache map[string]*UserList, username string, items []users.User, meta api.Meta, page int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := cache[username]
	if page == 1 || list == nil {
		list = &UserList{}
		cache[username] = list
	}
	list.Users = append(list.Users, items...)
	list.HasMore = meta.HasMore(page)
	list.Total = meta.Total
	s.loading = false
}

func (s *Store) cachedList(cache map[string]*UserList, username string) (UserList, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := cache[username]
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

func (s *Store) setStatus(username string, following bool) {
	s.mu.Lock()
	s.status[username] = following
	s.loading = false
	s.mu.Unlock()
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
