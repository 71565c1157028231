package webapp

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"glimpse/internal/posts"
)

// ListPosts handles GET /posts?page=1&userId=...
func (h *Handler) ListPosts(c *gin.Context) {
	page, _ := h.pageParams(c)

	if _, err := h.stores.Posts.FetchPosts(c.Request.Context(), page, c.Query("userId")); err != nil {
		storeError(c, err, h.stores.Posts.Err())
		return
	}

	current, total := h.stores.Posts.Page()
	c.JSON(http.StatusOK, gin.H{
		"posts":      h.stores.Posts.Posts(),
		"page":       current,
		"totalPages": total,
	})
}

// GetPost handles GET /posts/:id
func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.stores.Posts.FetchPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err, h.stores.Posts.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreatePost handles POST /posts. When no media ids are supplied, every
// staged preview is committed first and its ids are used.
func (h *Handler) CreatePost(c *gin.Context) {
	var data posts.CreatePostData
	if err := c.ShouldBindJSON(&data); err != nil {
		badRequest(c, err)
		return
	}

	if len(data.MediaIDs) == 0 {
		for _, m := range h.stores.Media.UploadAllPreviews(c.Request.Context(), mediaPostOptions()) {
			data.MediaIDs = append(data.MediaIDs, m.ID)
		}
	}

	post, err := h.stores.Posts.Create(c.Request.Context(), data)
	if err != nil {
		if errors.Is(err, posts.ErrNoMedia) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}
		storeError(c, err, h.stores.Posts.Err())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// UpdatePost handles POST /posts/:id
func (h *Handler) UpdatePost(c *gin.Context) {
	var data posts.UpdatePostData
	if err := c.ShouldBindJSON(&data); err != nil {
		badRequest(c, err)
		return
	}

	post, err := h.stores.Posts.Update(c.Request.Context(), c.Param("id"), data)
	if err != nil {
		storeError(c, err, h.stores.Posts.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeletePost handles DELETE /posts/:id
func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.stores.Posts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		storeError(c, err, h.stores.Posts.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateMediaOrder handles PUT /posts/:id/media-order
func (h *Handler) UpdateMediaOrder(c *gin.Context) {
	var order []posts.MediaOrder
	if err := c.ShouldBindJSON(&order); err != nil {
		badRequest(c, err)
		return
	}

	post, err := h.stores.Posts.UpdateMediaOrder(c.Request.Context(), c.Param("id"), order)
	if err != nil {
		storeError(c, err, h.stores.Posts.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}
