package webapp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"glimpse/internal/comments"
)

type postIDBody struct {
	PostID string `json:"postId" binding:"required"`
}

// LikePost handles POST /likes. The call goes through the post store so the
// denormalized like fields on every cached copy are patched in the same step.
func (h *Handler) LikePost(c *gin.Context) {
	var body postIDBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.stores.Posts.Like(c.Request.Context(), body.PostID); err != nil {
		storeError(c, err, h.stores.Likes.Err())
		return
	}

	_, count, _ := h.stores.Posts.LikeStatus(body.PostID)
	c.JSON(http.StatusOK, gin.H{"success": true, "likeCount": count})
}

// UnlikePost handles DELETE /likes/:postId
func (h *Handler) UnlikePost(c *gin.Context) {
	postID := c.Param("postId")

	if err := h.stores.Posts.Unlike(c.Request.Context(), postID); err != nil {
		storeError(c, err, h.stores.Likes.Err())
		return
	}

	_, count, _ := h.stores.Posts.LikeStatus(postID)
	c.JSON(http.StatusOK, gin.H{"success": true, "likeCount": count})
}

// LikeStatus handles GET /likes/status/:postId
func (h *Handler) LikeStatus(c *gin.Context) {
	liked, err := h.stores.Likes.CheckStatus(c.Request.Context(), c.Param("postId"))
	if err != nil {
		storeError(c, err, h.stores.Likes.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// LikeUsers handles GET /likes/post/:postId
func (h *Handler) LikeUsers(c *gin.Context) {
	page, limit := h.pageParams(c)
	postID := c.Param("postId")

	if _, err := h.stores.Likes.FetchUsers(c.Request.Context(), postID, page, limit); err != nil {
		storeError(c, err, h.stores.Likes.Err())
		return
	}

	list, _ := h.stores.Likes.Users(postID)
	c.JSON(http.StatusOK, gin.H{"likes": list.Users, "hasMore": list.HasMore, "total": list.Total})
}

// AddBookmark handles POST /bookmarks
func (h *Handler) AddBookmark(c *gin.Context) {
	var body postIDBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.stores.Bookmarks.Add(c.Request.Context(), body.PostID); err != nil {
		storeError(c, err, h.stores.Bookmarks.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RemoveBookmark handles DELETE /bookmarks/:postId
func (h *Handler) RemoveBookmark(c *gin.Context) {
	if err := h.stores.Bookmarks.Remove(c.Request.Context(), c.Param("postId")); err != nil {
		storeError(c, err, h.stores.Bookmarks.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// BookmarkStatus handles GET /bookmarks/status/:postId
func (h *Handler) BookmarkStatus(c *gin.Context) {
	bookmarked, err := h.stores.Bookmarks.CheckStatus(c.Request.Context(), c.Param("postId"))
	if err != nil {
		storeError(c, err, h.stores.Bookmarks.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarked": bookmarked})
}

// ListBookmarks handles GET /bookmarks
func (h *Handler) ListBookmarks(c *gin.Context) {
	page, limit := h.pageParams(c)

	if _, err := h.stores.Bookmarks.Fetch(c.Request.Context(), page, limit); err != nil {
		storeError(c, err, h.stores.Bookmarks.Err())
		return
	}

	current, total := h.stores.Bookmarks.Page()
	c.JSON(http.StatusOK, gin.H{
		"posts":      h.stores.Bookmarks.Bookmarks(),
		"page":       current,
		"totalPages": total,
	})
}

type usernameBody struct {
	Username string `json:"username" binding:"required"`
}

// FollowUser handles POST /follows
func (h *Handler) FollowUser(c *gin.Context) {
	var body usernameBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.stores.Follows.Follow(c.Request.Context(), body.Username); err != nil {
		storeError(c, err, h.stores.Follows.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UnfollowUser handles DELETE /follows/:username
func (h *Handler) UnfollowUser(c *gin.Context) {
	if err := h.stores.Follows.Unfollow(c.Request.Context(), c.Param("username")); err != nil {
		storeError(c, err, h.stores.Follows.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// FollowStatus handles GET /follows/status/:username
func (h *Handler) FollowStatus(c *gin.Context) {
	following, err := h.stores.Follows.CheckStatus(c.Request.Context(), c.Param("username"))
	if err != nil {
		storeError(c, err, h.stores.Follows.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": following})
}

// Followers handles GET /follows/followers/:username
func (h *Handler) Followers(c *gin.Context) {
	page, limit := h.pageParams(c)
	username := c.Param("username")

	if _, err := h.stores.Follows.Followers(c.Request.Context(), username, page, limit); err != nil {
		storeError(c, err, h.stores.Follows.Err())
		return
	}

	list, _ := h.stores.Follows.CachedFollowers(username)
	c.JSON(http.StatusOK, gin.H{"followers": list.Users, "hasMore": list.HasMore, "total": list.Total})
}

// Following handles GET /follows/following/:username
func (h *Handler) Following(c *gin.Context) {
	page, limit := h.pageParams(c)
	username := c.Param("username")

	if _, err := h.stores.Follows.Following(c.Request.Context(), username, page, limit); err != nil {
		storeError(c, err, h.stores.Follows.Err())
		return
	}

	list, _ := h.stores.Follows.CachedFollowing(username)
	c.JSON(http.StatusOK, gin.H{"following": list.Users, "hasMore": list.HasMore, "total": list.Total})
}

// FollowCounts handles GET /follows/counts/:username
func (h *Handler) FollowCounts(c *gin.Context) {
	counts, err := h.stores.Follows.FetchCounts(c.Request.Context(), c.Param("username"))
	if err != nil {
		storeError(c, err, h.stores.Follows.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"username":       c.Param("username"),
		"followersCount": counts.Followers,
		"followingCount": counts.Following,
	})
}

// ListComments handles GET /comments/post/:postId
func (h *Handler) ListComments(c *gin.Context) {
	page, limit := h.pageParams(c)
	postID := c.Param("postId")

	if _, err := h.stores.Comments.Fetch(c.Request.Context(), postID, page, limit); err != nil {
		storeError(c, err, h.stores.Comments.Err())
		return
	}

	thread, _ := h.stores.Comments.Comments(postID)
	c.JSON(http.StatusOK, gin.H{
		"comments":   thread.Items,
		"page":       thread.CurrentPage,
		"totalPages": thread.TotalPages,
	})
}

// CreateComment handles POST /comments
func (h *Handler) CreateComment(c *gin.Context) {
	var data comments.CreateCommentData
	if err := c.ShouldBindJSON(&data); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := h.stores.Comments.Create(c.Request.Context(), data)
	if err != nil {
		storeError(c, err, h.stores.Comments.Err())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// UpdateComment handles PUT /comments/:id
func (h *Handler) UpdateComment(c *gin.Context) {
	var body struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := h.stores.Comments.Update(c.Request.Context(), c.Param("id"), body.Content)
	if err != nil {
		storeError(c, err, h.stores.Comments.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// DeleteComment handles DELETE /comments/:id
func (h *Handler) DeleteComment(c *gin.Context) {
	if err := h.stores.Comments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		storeError(c, err, h.stores.Comments.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
