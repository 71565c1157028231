// Package posts owns the feed: the page-accumulated post list, the current
// post for the detail view, and the denormalized like/bookmark fields that
// the status stores push into it.
package posts

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"sync"

	"glimpse/internal/api"
)

var (
	// ErrNoMedia is returned when a post is created without any uploaded media.
	// The request is rejected before any network call.
	ErrNoMedia = errors.New("post requires at least one uploaded media")
	// ErrNoLikeService is returned when Like/Unlike is called before a like
	// service has been attached.
	ErrNoLikeService = errors.New("no like service attached")
)

// LikeService performs the like network calls on the store's behalf and
// returns the server-confirmed like count.
type LikeService interface {
	Like(ctx context.Context, postID string) (int, error)
	Unlike(ctx context.Context, postID string) (int, error)
}

// Store holds feed state and mediates the /posts endpoints.
type Store struct {
	mu          sync.RWMutex
	client      *api.Client
	likes       LikeService
	posts       []Post
	current     *Post
	totalPages  int
	currentPage int
	pageSize    int
	loading     bool
	err         string
}

// NewStore creates a post store backed by client. pageSize is the limit sent
// with list fetches.
func NewStore(client *api.Client, pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Store{
		client:      client,
		pageSize:    pageSize,
		totalPages:  1,
		currentPage: 1,
	}
}

// AttachLikes wires in the like service. Done after construction because the
// like store needs this store first.
func (s *Store) AttachLikes(likes LikeService) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likes = likes
}

// FetchPosts loads one page of the feed. Page 1 replaces the list; later
// pages append, giving infinite-scroll semantics. A non-empty userID scopes
// the feed to that author.
func (s *Store) FetchPosts(ctx context.Context, page int, userID string) ([]Post, error) {
	if page < 1 {
		page = 1
	}
	s.begin()

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(s.pageSize))
	if userID != "" {
		query.Set("userId", userID)
	}

	var resp PostsResponse
	if err := s.client.Get(ctx, "/posts", query, &resp); err != nil {
		s.fail(api.Message(err, "Failed to fetch posts"))
		return nil, err
	}

	s.mu.Lock()
	if page == 1 {
		s.posts = resp.Posts
	} else {
		s.posts = append(s.posts, resp.Posts...)
	}
	s.totalPages = resp.Meta.TotalPages
	s.currentPage = page
	s.loading = false
	s.mu.Unlock()

	return resp.Posts, nil
}

// FetchPost loads one post into the detail slot. The list is untouched.
func (s *Store) FetchPost(ctx context.Context, id string) (*Post, error) {
	s.begin()

	var resp PostResponse
	if err := s.client.Get(ctx, "/posts/"+id, nil, &resp); err != nil {
		s.fail(api.Message(err, "Failed to fetch post"))
		return nil, err
	}

	s.mu.Lock()
	post := resp.Post
	s.current = &post
	s.loading = false
	s.mu.Unlock()

	result := resp.Post
	return &result, nil
}

// Create publishes a new post and prepends it to the list without a refetch.
// Zero media ids is rejected locally before any request goes out.
func (s *Store) Create(ctx context.Context, data CreatePostData) (*Post, error) {
	if len(data.MediaIDs) == 0 {
		s.mu.Lock()
		s.err = "At least one image is required"
		s.mu.Unlock()
		return nil, ErrNoMedia
	}

	s.begin()

	var resp PostResponse
	if err := s.client.Post(ctx, "/posts", data, &resp); err != nil {
		s.fail(api.Message(err, "Failed to create post"))
		return nil, err
	}

	s.mu.Lock()
	s.posts = append([]Post{resp.Post}, s.posts...)
	s.loading = false
	s.mu.Unlock()

	post := resp.Post
	return &post, nil
}

// Update edits a post. The backend uses POST for updates, not PUT. The
// returned post replaces the list entry and, when it matches, the current
// post.
func (s *Store) Update(ctx context.Context, id string, data UpdatePostData) (*Post, error) {
	s.begin()

	var resp PostResponse
	if err := s.client.Post(ctx, "/posts/"+id, data, &resp); err != nil {
		s.fail(api.Message(err, "Failed to update post"))
		return nil, err
	}

	s.replace(resp.Post)
	post := resp.Post
	return &post, nil
}

// Delete removes a post on the server and filters it out locally. There is
// no undo.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.begin()

	if err := s.client.Delete(ctx, "/posts/"+id, nil); err != nil {
		s.fail(api.Message(err, "Failed to delete post"))
		return err
	}

	s.mu.Lock()
	kept := s.posts[:0]
	for _, p := range s.posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.posts = kept
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.loading = false
	s.mu.Unlock()
	return nil
}

// UpdateMediaOrder persists a new carousel order and applies the returned
// post.
func (s *Store) UpdateMediaOrder(ctx context.Context, postID string, order []MediaOrder) (*Post, error) {
	s.begin()

	var resp PostResponse
	if err := s.client.Put(ctx, "/posts/"+postID+"/media-order", order, &resp); err != nil {
		s.fail(api.Message(err, "Failed to update media order"))
		return nil, err
	}

	s.replace(resp.Post)
	post := resp.Post
	return &post, nil
}

// Like delegates the network call to the like service, then patches both the
// list entry and the current post with the confirmed count. Every mutation of
// like state must flow back through SetLikeStatus or these copies go stale.
func (s *Store) Like(ctx context.Context, postID string) error {
	likes := s.likeService()
	if likes == nil {
		return ErrNoLikeService
	}

	count, err := likes.Like(ctx, postID)
	if err != nil {
		return err
	}

	s.SetLikeStatus(postID, true, &count)
	return nil
}

// Unlike mirrors Like.
func (s *Store) Unlike(ctx context.Context, postID string) error {
	likes := s.likeService()
	if likes == nil {
		return ErrNoLikeService
	}

	count, err := likes.Unlike(ctx, postID)
	if err != nil {
		return err
	}

	s.SetLikeStatus(postID, false, &count)
	return nil
}

// SetLikeStatus patches the denormalized like fields on every copy of the
// post this store holds. A nil likeCount keeps the current count. Called by
// the like store after confirmed mutations and status checks.
func (s *Store) SetLikeStatus(postID string, liked bool, likeCount *int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID == postID {
			s.posts[i].IsLiked = liked
			if likeCount != nil {
				s.posts[i].LikeCount = *likeCount
			}
		}
	}
	if s.current != nil && s.current.ID == postID {
		s.current.IsLiked = liked
		if likeCount != nil {
			s.current.LikeCount = *likeCount
		}
	}
}

// SetBookmarkStatus patches the denormalized bookmark flag on every copy of
// the post this store holds. Called by the bookmark store.
func (s *Store) SetBookmarkStatus(postID string, bookmarked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID == postID {
			s.posts[i].IsBookmarked = bookmarked
		}
	}
	if s.current != nil && s.current.ID == postID {
		s.current.IsBookmarked = bookmarked
	}
}

// LikeStatus returns the denormalized like state for postID, when the store
// holds a copy of it.
func (s *Store) LikeStatus(postID string) (liked bool, count int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current != nil && s.current.ID == postID {
		return s.current.IsLiked, s.current.LikeCount, true
	}
	for i := range s.posts {
		if s.posts[i].ID == postID {
			return s.posts[i].IsLiked, s.posts[i].LikeCount, true
		}
	}
	return false, 0, false
}

// Posts returns a copy of the accumulated list.
func (s *Store) Posts() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// CurrentPost returns a copy of the detail-view post, or nil.
func (s *Store) CurrentPost() *Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	post := *s.current
	return &post
}

// ClearCurrent resets the detail slot.
func (s *Store) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Page returns the pagination cursor: current page and total pages.
func (s *Store) Page() (current, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentPage, s.totalPages
}

// Loading reports whether a post operation is in flight.
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

func (s *Store) likeService() LikeService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.likes
}

// replace swaps in an updated post wherever this store holds a copy of it.
func (s *Store) replace(post Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID == post.ID {
			s.posts[i] = post
		}
	}
	if s.current != nil && s.current.ID == post.ID {
		current := post
		s.current = &current
	}
	s.loading = false
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
