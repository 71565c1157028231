package posts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"glimpse/internal/api"
	"glimpse/internal/token"
)

// mockLikes implements LikeService with function fields
type mockLikes struct {
	likeFunc   func(ctx context.Context, postID string) (int, error)
	unlikeFunc func(ctx context.Context, postID string) (int, error)
}

func (m *mockLikes) Like(ctx context.Context, postID string) (int, error) {
	return m.likeFunc(ctx, postID)
}

func (m *mockLikes) Unlike(ctx context.Context, postID string) (int, error) {
	return m.unlikeFunc(ctx, postID)
}

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.New(server.URL, token.NewMemoryStore())
	if err != nil {
		t.Fatalf("api.New failed: %v", err)
	}
	return NewStore(client, 2)
}

// feedHandler serves a deterministic paginated feed of 3 posts, 2 per page.
func feedHandler(t *testing.T, hits *atomic.Int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		page := r.URL.Query().Get("page")
		switch page {
		case "1":
			fmt.Fprint(w, `{"posts":[{"id":"p1","caption":"one"},{"id":"p2","caption":"two"}],"meta":{"total":3,"totalPages":2,"page":1,"limit":2}}`)
		case "2":
			fmt.Fprint(w, `{"posts":[{"id":"p3","caption":"three"}],"meta":{"total":3,"totalPages":2,"page":2,"limit":2}}`)
		default:
			t.Errorf("Unexpected page %q", page)
		}
	}
}

func TestFetchPosts_PageAccumulation(t *testing.T) {
	store := newTestStore(t, feedHandler(t, nil))
	ctx := context.Background()

	if _, err := store.FetchPosts(ctx, 1, ""); err != nil {
		t.Fatalf("FetchPosts page 1 failed: %v", err)
	}
	if got := store.Posts(); len(got) != 2 || got[0].ID != "p1" {
		t.Fatalf("Expected [p1 p2], got %+v", got)
	}

	if _, err := store.FetchPosts(ctx, 2, ""); err != nil {
		t.Fatalf("FetchPosts page 2 failed: %v", err)
	}
	if got := store.Posts(); len(got) != 3 || got[2].ID != "p3" {
		t.Fatalf("Expected [p1 p2 p3] after page 2, got %+v", got)
	}

	current, total := store.Page()
	if current != 2 || total != 2 {
		t.Errorf("Expected page cursor 2/2, got %d/%d", current, total)
	}

	// Refreshing page 1 replaces rather than duplicates
	if _, err := store.FetchPosts(ctx, 1, ""); err != nil {
		t.Fatalf("FetchPosts refresh failed: %v", err)
	}
	if got := store.Posts(); len(got) != 2 {
		t.Errorf("Expected page 1 refresh to replace the list, got %d posts", len(got))
	}
}

func TestFetchPosts_UserScope(t *testing.T) {
	var gotUserID string
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotUserID = r.URL.Query().Get("userId")
		fmt.Fprint(w, `{"posts":[],"meta":{"total":0,"totalPages":0,"page":1,"limit":2}}`)
	})

	if _, err := store.FetchPosts(context.Background(), 1, "u7"); err != nil {
		t.Fatalf("FetchPosts failed: %v", err)
	}
	if gotUserID != "u7" {
		t.Errorf("Expected userId query u7, got %q", gotUserID)
	}
}

func TestFetchPost_DetailSlot(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/posts/p1" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"post":{"id":"p1","caption":"one"}}`)
	})

	post, err := store.FetchPost(context.Background(), "p1")
	if err != nil {
		t.Fatalf("FetchPost failed: %v", err)
	}
	if post.ID != "p1" {
		t.Errorf("Expected post p1, got %q", post.ID)
	}
	if current := store.CurrentPost(); current == nil || current.ID != "p1" {
		t.Errorf("Expected current post p1, got %+v", current)
	}

	store.ClearCurrent()
	if store.CurrentPost() != nil {
		t.Error("Expected current post cleared")
	}
}

func TestCreate_RequiresMedia(t *testing.T) {
	var hits atomic.Int32
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	_, err := store.Create(context.Background(), CreatePostData{Caption: "no pics"})
	if !errors.Is(err, ErrNoMedia) {
		t.Fatalf("Expected ErrNoMedia, got %v", err)
	}
	if got := hits.Load(); got != 0 {
		t.Errorf("Expected no network request, got %d", got)
	}
	if got := store.Err(); got != "At least one image is required" {
		t.Errorf("Expected local validation message, got %q", got)
	}
}

func TestCreate_PrependsToList(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			fmt.Fprint(w, `{"posts":[{"id":"p1"}],"meta":{"total":1,"totalPages":1,"page":1,"limit":2}}`)
		case r.Method == http.MethodPost:
			var data CreatePostData
			json.NewDecoder(r.Body).Decode(&data)
			if len(data.MediaIDs) != 1 || data.MediaIDs[0] != "m1" {
				t.Errorf("Expected mediaIds [m1], got %+v", data.MediaIDs)
			}
			fmt.Fprint(w, `{"post":{"id":"p2","caption":"new"}}`)
		}
	})
	ctx := context.Background()

	store.FetchPosts(ctx, 1, "")
	post, err := store.Create(ctx, CreatePostData{Caption: "new", MediaIDs: []string{"m1"}})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if post.ID != "p2" {
		t.Errorf("Expected created post p2, got %q", post.ID)
	}

	got := store.Posts()
	if len(got) != 2 || got[0].ID != "p2" || got[1].ID != "p1" {
		t.Errorf("Expected new post prepended, got %+v", got)
	}
}

func TestUpdate_UsesPostAndReplaces(t *testing.T) {
	var gotMethod string
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/posts":
			fmt.Fprint(w, `{"posts":[{"id":"p1","caption":"old"}],"meta":{"total":1,"totalPages":1,"page":1,"limit":2}}`)
		case "/posts/p1":
			gotMethod = r.Method
			fmt.Fprint(w, `{"post":{"id":"p1","caption":"edited"}}`)
		}
	})
	ctx := context.Background()

	store.FetchPosts(ctx, 1, "")
	store.FetchPost(ctx, "p1")

	if _, err := store.Update(ctx, "p1", UpdatePostData{Caption: "edited"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// The backend updates via POST, not PUT
	if gotMethod != http.MethodPost {
		t.Errorf("Expected POST for update, got %s", gotMethod)
	}
	if got := store.Posts(); got[0].Caption != "edited" {
		t.Errorf("Expected list entry updated, got %q", got[0].Caption)
	}
	if current := store.CurrentPost(); current == nil || current.Caption != "edited" {
		t.Errorf("Expected current post updated, got %+v", current)
	}
}

func TestDelete_FiltersListAndCurrent(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/posts":
			fmt.Fprint(w, `{"posts":[{"id":"p1"},{"id":"p2"}],"meta":{"total":2,"totalPages":1,"page":1,"limit":2}}`)
		case r.Method == http.MethodGet:
			fmt.Fprint(w, `{"post":{"id":"p1"}}`)
		case r.Method == http.MethodDelete:
			fmt.Fprint(w, `{"message":"deleted"}`)
		}
	})
	ctx := context.Background()

	store.FetchPosts(ctx, 1, "")
	store.FetchPost(ctx, "p1")

	if err := store.Delete(ctx, "p1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := store.Posts(); len(got) != 1 || got[0].ID != "p2" {
		t.Errorf("Expected only p2 left, got %+v", got)
	}
	if store.CurrentPost() != nil {
		t.Error("Expected matching current post cleared")
	}
}

func TestUpdateMediaOrder(t *testing.T) {
	var gotOrder []MediaOrder
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/posts/p1/media-order" && r.Method == http.MethodPut {
			json.NewDecoder(r.Body).Decode(&gotOrder)
			fmt.Fprint(w, `{"post":{"id":"p1"}}`)
			return
		}
		t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
	})

	order := []MediaOrder{{MediaID: "m2", Order: 0}, {MediaID: "m1", Order: 1}}
	if _, err := store.UpdateMediaOrder(context.Background(), "p1", order); err != nil {
		t.Fatalf("UpdateMediaOrder failed: %v", err)
	}
	if len(gotOrder) != 2 || gotOrder[0].MediaID != "m2" {
		t.Errorf("Expected order payload sent, got %+v", gotOrder)
	}
}

func TestLike_PatchesEveryCopy(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/posts":
			fmt.Fprint(w, `{"posts":[{"id":"p1","likeCount":4}],"meta":{"total":1,"totalPages":1,"page":1,"limit":2}}`)
		case "/posts/p1":
			fmt.Fprint(w, `{"post":{"id":"p1","likeCount":4}}`)
		}
	})
	ctx := context.Background()

	store.FetchPosts(ctx, 1, "")
	store.FetchPost(ctx, "p1")
	store.AttachLikes(&mockLikes{
		likeFunc: func(ctx context.Context, postID string) (int, error) {
			if postID != "p1" {
				t.Errorf("Expected like for p1, got %q", postID)
			}
			return 5, nil
		},
		unlikeFunc: func(ctx context.Context, postID string) (int, error) {
			return 4, nil
		},
	})

	if err := store.Like(ctx, "p1"); err != nil {
		t.Fatalf("Like failed: %v", err)
	}

	// List entry and detail slot carry the same confirmed state
	if got := store.Posts(); !got[0].IsLiked || got[0].LikeCount != 5 {
		t.Errorf("Expected list entry liked with count 5, got %+v", got[0])
	}
	if current := store.CurrentPost(); !current.IsLiked || current.LikeCount != 5 {
		t.Errorf("Expected current post liked with count 5, got %+v", current)
	}

	if err := store.Unlike(ctx, "p1"); err != nil {
		t.Fatalf("Unlike failed: %v", err)
	}
	if got := store.Posts(); got[0].IsLiked || got[0].LikeCount != 4 {
		t.Errorf("Expected list entry unliked with count 4, got %+v", got[0])
	}
}

func TestLike_WithoutService(t *testing.T) {
	store := NewStore(nil, 2)
	if err := store.Like(context.Background(), "p1"); !errors.Is(err, ErrNoLikeService) {
		t.Errorf("Expected ErrNoLikeService, got %v", err)
	}
}

func TestSetLikeStatus_NilCountKeepsCount(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"posts":[{"id":"p1","likeCount":7}],"meta":{"total":1,"totalPages":1,"page":1,"limit":2}}`)
	})
	store.FetchPosts(context.Background(), 1, "")

	store.SetLikeStatus("p1", true, nil)

	liked, count, ok := store.LikeStatus("p1")
	if !ok || !liked || count != 7 {
		t.Errorf("Expected liked with untouched count 7, got liked=%v count=%d ok=%v", liked, count, ok)
	}
}

func TestSetBookmarkStatus(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/posts":
			fmt.Fprint(w, `{"posts":[{"id":"p1"}],"meta":{"total":1,"totalPages":1,"page":1,"limit":2}}`)
		case "/posts/p1":
			fmt.Fprint(w, `{"post":{"id":"p1"}}`)
		}
	})
	ctx := context.Background()

	store.FetchPosts(ctx, 1, "")
	store.FetchPost(ctx, "p1")

	store.SetBookmarkStatus("p1", true)
	if got := store.Posts(); !got[0].IsBookmarked {
		t.Error("Expected list entry bookmarked")
	}
	if current := store.CurrentPost(); !current.IsBookmarked {
		t.Error("Expected current post bookmarked")
	}

	store.SetBookmarkStatus("p1", false)
	if got := store.Posts(); got[0].IsBookmarked {
		t.Error("Expected bookmark removed from list entry")
	}
}

func TestFetchPosts_ServerError(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message":"feed unavailable"}`)
	})

	_, err := store.FetchPosts(context.Background(), 1, "")
	if err == nil {
		t.Fatal("Expected fetch to fail")
	}
	if got := store.Err(); got != "feed unavailable" {
		t.Errorf("Expected server message recorded, got %q", got)
	}
	if store.Loading() {
		t.Error("Expected loading reset after failure")
	}
}
