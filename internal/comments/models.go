package comments

import (
	"time"

	"glimpse/internal/api"
	"glimpse/internal/users"
)

// Comment represents a comment as the backend reports it.
type Comment struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	User      users.User `json:"user"`
	PostID    string     `json:"postId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CreateCommentData is the request payload for POST /comments.
type CreateCommentData struct {
	PostID  string `json:"postId"`
	Content string `json:"content"`
}

// CommentResponse wraps a single comment.
type CommentResponse struct {
	Comment Comment `json:"comment"`
	Message string  `json:"message,omitempty"`
}

// CommentsResponse is the paginated payload of GET /comments/post/:postId.
type CommentsResponse struct {
	Comments []Comment `json:"comments"`
	Meta     api.Meta  `json:"meta"`
}

// Thread is the cached comment list for one post.
type Thread struct {
	Items       []Comment
	TotalPages  int
	CurrentPage int
}
