package bookmarks

import (
	"glimpse/internal/api"
	"glimpse/internal/posts"
)

// StatusResponse is the payload of GET /bookmarks/status/:postId.
type StatusResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

// BookmarkResponse is the payload of bookmark mutations.
type BookmarkResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListResponse is the paginated bookmarked-posts payload of GET /bookmarks.
type ListResponse struct {
	Posts []posts.Post `json:"posts"`
	Meta  api.Meta     `json:"meta"`
}
