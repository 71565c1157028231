package auth

import "glimpse/internal/users"

// LoginCredentials is the request payload for POST /auth/login.
type LoginCredentials struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

// RegisterData is the request payload for POST /auth/register.
type RegisterData struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// Response is the payload returned by login, register, and the identity
// endpoint.
type Response struct {
	User    users.User `json:"user"`
	Token   string     `json:"token"`
	Message string     `json:"message,omitempty"`
}
