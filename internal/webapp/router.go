package webapp

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures and returns the facade router.
func SetupRouter(handler *Handler, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())

	collector := NewCollector()
	r.Use(collector.Middleware())

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", handler.Health)
	r.GET("/metrics", collector.Handler())

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/logout", handler.Logout)
		authGroup.GET("/me", handler.Me)
	}

	r.GET("/users/:username", handler.Profile)

	postsGroup := r.Group("/posts")
	{
		postsGroup.GET("", handler.ListPosts)
		postsGroup.POST("", handler.CreatePost)
		postsGroup.GET("/:id", handler.GetPost)
		postsGroup.POST("/:id", handler.UpdatePost)
		postsGroup.DELETE("/:id", handler.DeletePost)
		postsGroup.PUT("/:id/media-order", handler.UpdateMediaOrder)
	}

	mediaGroup := r.Group("/media")
	{
		mediaGroup.POST("/upload", handler.UploadMedia)
		mediaGroup.GET("/previews", handler.ListPreviews)
		mediaGroup.POST("/previews", handler.StagePreviews)
		mediaGroup.POST("/previews/commit", handler.CommitPreviews)
		mediaGroup.DELETE("/previews", handler.ClearPreviews)
		mediaGroup.DELETE("/previews/:id", handler.RemovePreview)
		mediaGroup.DELETE("/:id", handler.DeleteMedia)
	}

	likesGroup := r.Group("/likes")
	{
		likesGroup.POST("", handler.LikePost)
		likesGroup.DELETE("/:postId", handler.UnlikePost)
		likesGroup.GET("/status/:postId", handler.LikeStatus)
		likesGroup.GET("/post/:postId", handler.LikeUsers)
	}

	bookmarksGroup := r.Group("/bookmarks")
	{
		bookmarksGroup.GET("", handler.ListBookmarks)
		bookmarksGroup.POST("", handler.AddBookmark)
		bookmarksGroup.GET("/status/:postId", handler.BookmarkStatus)
		bookmarksGroup.DELETE("/:postId", handler.RemoveBookmark)
	}

	followsGroup := r.Group("/follows")
	{
		followsGroup.POST("", handler.FollowUser)
		followsGroup.DELETE("/:username", handler.UnfollowUser)
		followsGroup.GET("/status/:username", handler.FollowStatus)
		followsGroup.GET("/followers/:username", handler.Followers)
		followsGroup.GET("/following/:username", handler.Following)
		followsGroup.GET("/counts/:username", handler.FollowCounts)
	}

	commentsGroup := r.Group("/comments")
	{
		commentsGroup.GET("/post/:postId", handler.ListComments)
		commentsGroup.POST("", handler.CreateComment)
		commentsGroup.PUT("/:id", handler.UpdateComment)
		commentsGroup.DELETE("/:id", handler.DeleteComment)
	}

	return r
}
