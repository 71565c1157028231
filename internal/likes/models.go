package likes

import (
	"glimpse/internal/api"
	"glimpse/internal/users"
)

// StatusResponse is the payload of GET /likes/status/:postId.
type StatusResponse struct {
	Liked bool `json:"liked"`
}

// LikeResponse is the payload of like/unlike mutations.
type LikeResponse struct {
	Success   bool   `json:"success"`
	LikeCount int    `json:"likeCount"`
	Message   string `json:"message,omitempty"`
}

// ListResponse is the paginated liked-by list of GET /likes/post/:postId.
type ListResponse struct {
	Likes []users.User `json:"likes"`
	Meta  api.Meta     `json:"meta"`
}

// UserList is the cached liked-by list for one post.
type UserList struct {
	Users   []users.User
	HasMore bool
	Total   int
}
