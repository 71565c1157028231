package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glimpse/internal/api"
	"glimpse/internal/auth"
	"glimpse/internal/bookmarks"
	"glimpse/internal/comments"
	"glimpse/internal/config"
	"glimpse/internal/follows"
	"glimpse/internal/likes"
	"glimpse/internal/logger"
	"glimpse/internal/media"
	"glimpse/internal/posts"
	"glimpse/internal/token"
	"glimpse/internal/users"
	"glimpse/internal/webapp"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	// Initialize structured logger
	log := logger.New()
	logger.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting glimpse",
		"port", cfg.Port,
		"api_base_url", cfg.APIBaseURL,
	)

	tokens := token.NewFileStore(cfg.TokenPath)

	client, err := api.New(cfg.APIBaseURL, tokens)
	if err != nil {
		slog.Error("Failed to create API client", "error", err)
		os.Exit(1)
	}

	// Wire the stores. The post store and the status stores reference each
	// other through narrow interfaces, so construction order matters: posts
	// first, then the stores that patch it, then the like service hookup.
	postStore := posts.NewStore(client, cfg.PageSize)
	likeStore := likes.NewStore(client, postStore)
	postStore.AttachLikes(likeStore)

	stores := webapp.Stores{
		Auth:      auth.NewStore(client, tokens),
		Users:     users.NewStore(client),
		Media:     media.NewStore(client),
		Posts:     postStore,
		Likes:     likeStore,
		Bookmarks: bookmarks.NewStore(client, postStore),
		Follows:   follows.NewStore(client),
		Comments:  comments.NewStore(client),
	}

	// Rehydrate the session from the persisted token before serving
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := stores.Auth.CheckAuth(ctx); err != nil {
		slog.Warn("Session rehydration failed, starting unauthenticated", "error", err)
	}
	cancel()

	handler := webapp.NewHandler(stores, cfg.StagingDir, cfg.PageSize)
	router := webapp.SetupRouter(handler, cfg.CORSOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Facade listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// Staged previews are a disk resource; drop them before exit
	if err := stores.Media.ClearPreviews(); err != nil {
		slog.Warn("Failed to release staged previews", "error", err)
	}

	slog.Info("Stopped")
}
