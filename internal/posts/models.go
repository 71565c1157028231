package posts

import (
	"time"

	"glimpse/internal/api"
	"glimpse/internal/media"
	"glimpse/internal/users"
)

// Post represents a post as the backend reports it, plus the denormalized
// like/bookmark fields the status stores keep in sync.
type Post struct {
	ID        string        `json:"id"`
	Caption   string        `json:"caption,omitempty"`
	Location  string        `json:"location,omitempty"`
	User      users.User    `json:"user"`
	Media     []media.Media `json:"media"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`

	LikeCount    int  `json:"likeCount,omitempty"`
	IsLiked      bool `json:"isLiked,omitempty"`
	IsBookmarked bool `json:"isBookmarked,omitempty"`
}

// CreatePostData is the request payload for POST /posts. At least one
// uploaded media id is required.
type CreatePostData struct {
	Caption  string   `json:"caption,omitempty"`
	Location string   `json:"location,omitempty"`
	MediaIDs []string `json:"mediaIds"`
}

// UpdatePostData is the request payload for updating a post. MediaIDs attach
// newly uploaded media; RemoveMediaIDs detach existing media.
type UpdatePostData struct {
	Caption        string   `json:"caption,omitempty"`
	Location       string   `json:"location,omitempty"`
	MediaIDs       []string `json:"mediaIds,omitempty"`
	RemoveMediaIDs []string `json:"removeMediaIds,omitempty"`
}

// MediaOrder is one entry of the carousel reorder payload.
type MediaOrder struct {
	MediaID string `json:"mediaId"`
	Order   int    `json:"order"`
}

// PostResponse wraps a single post.
type PostResponse struct {
	Post    Post   `json:"post"`
	Message string `json:"message,omitempty"`
}

// PostsResponse is the paginated list payload of GET /posts.
type PostsResponse struct {
	Posts []Post   `json:"posts"`
	Meta  api.Meta `json:"meta"`
}
