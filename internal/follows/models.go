package follows

import (
	"glimpse/internal/api"
	"glimpse/internal/users"
)

// StatusResponse is the payload of GET /follows/status/:username.
type StatusResponse struct {
	Following bool `json:"following"`
}

// FollowResponse is the payload of follow/unfollow mutations.
type FollowResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// FollowersResponse is the paginated payload of GET /follows/followers/:username.
type FollowersResponse struct {
	Followers []users.User `json:"followers"`
	Meta      api.Meta     `json:"meta"`
}

// FollowingResponse is the paginated payload of GET /follows/following/:username.
type FollowingResponse struct {
	Following []users.User `json:"following"`
	Meta      api.Meta     `json:"meta"`
}

// CountsResponse is the payload of GET /follows/counts/:username.
type CountsResponse struct {
	Username       string `json:"username"`
	FollowersCount int    `json:"followersCount"`
	FollowingCount int    `json:"followingCount"`
}

// UserList is one cached page-accumulated follower or following list.
type UserList struct {
	Users   []users.User
	HasMore bool
	Total   int
}

// Counts is the cached follower/following totals for one user.
type Counts struct {
	Followers int
	Following int
}
