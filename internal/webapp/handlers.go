// Package webapp is the presentation surface of the client: a thin HTTP
// facade that translates browser requests into store calls. It holds no
// state of its own; every piece of data lives in a store.
package webapp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"glimpse/internal/api"
	"glimpse/internal/auth"
	"glimpse/internal/bookmarks"
	"glimpse/internal/comments"
	"glimpse/internal/follows"
	"glimpse/internal/likes"
	"glimpse/internal/media"
	"glimpse/internal/posts"
	"glimpse/internal/users"
)

// Stores bundles every store the facade serves.
type Stores struct {
	Auth      *auth.Store
	Users     *users.Store
	Media     *media.Store
	Posts     *posts.Store
	Likes     *likes.Store
	Bookmarks *bookmarks.Store
	Follows   *follows.Store
	Comments  *comments.Store
}

// Handler translates HTTP requests into store operations.
type Handler struct {
	stores     Stores
	stagingDir string
	pageSize   int
}

// NewHandler creates the facade handler. stagingDir receives staged media
// previews; empty means the OS temp dir.
func NewHandler(stores Stores, stagingDir string, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Handler{stores: stores, stagingDir: stagingDir, pageSize: pageSize}
}

// ErrorResponse is the error body every failing facade endpoint returns.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Health handles GET /healthz
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"service":       "glimpse",
		"authenticated": h.stores.Auth.IsAuthenticated(),
	})
}

// Login handles POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var credentials auth.LoginCredentials
	if err := c.ShouldBindJSON(&credentials); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.stores.Auth.Login(c.Request.Context(), credentials)
	if err != nil {
		storeError(c, err, h.stores.Auth.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Register handles POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	var data auth.RegisterData
	if err := c.ShouldBindJSON(&data); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.stores.Auth.Register(c.Request.Context(), data)
	if err != nil {
		storeError(c, err, h.stores.Auth.Err())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Logout handles POST /auth/logout. The session is gone locally whatever the
// backend said, so the response is always a success with a note when the
// server call failed.
func (h *Handler) Logout(c *gin.Context) {
	err := h.stores.Auth.Logout(c.Request.Context())

	resp := gin.H{"loggedOut": true}
	if err != nil {
		resp["warning"] = "server logout failed; session cleared locally"
	}
	c.JSON(http.StatusOK, resp)
}

// Me handles GET /auth/me
func (h *Handler) Me(c *gin.Context) {
	if err := h.stores.Auth.CheckAuth(c.Request.Context()); err != nil {
		storeError(c, err, h.stores.Auth.Err())
		return
	}

	user := h.stores.Auth.CurrentUser()
	if user == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Profile handles GET /users/:username
func (h *Handler) Profile(c *gin.Context) {
	user, err := h.stores.Users.Fetch(c.Request.Context(), c.Param("username"))
	if err != nil {
		storeError(c, err, h.stores.Users.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// pageParams reads page/limit query parameters with defaults.
func (h *Handler) pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.pageSize)))
	if limit < 1 {
		limit = h.pageSize
	}
	return page, limit
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
}

// storeError maps a store failure onto a facade response: backend statuses
// pass through, decode failures become 502, and transport failures 503.
func storeError(c *gin.Context, err error, message string) {
	if message == "" {
		message = err.Error()
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.StatusCode, ErrorResponse{Error: message})
		return
	}

	var decodeErr *api.DecodeError
	if errors.As(err, &decodeErr) {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "unexpected backend response"})
		return
	}

	c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: message})
}
