package users

// User represents an account as the backend reports it. The same shape is
// used for the authenticated user, post authors, follower lists, and
// liked-by lists.
type User struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email,omitempty"`
	FullName        string `json:"fullName,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	Bio             string `json:"bio,omitempty"`
	Website         string `json:"website,omitempty"`
}

// ProfileResponse is the payload of GET /users/:username.
type ProfileResponse struct {
	User User `json:"user"`
}
