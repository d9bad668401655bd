package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clipstream/clipstream/internal/cache"
	"github.com/clipstream/clipstream/internal/cooldown"
	"github.com/clipstream/clipstream/internal/database"
	"github.com/clipstream/clipstream/internal/handlers"
	"github.com/clipstream/clipstream/internal/logger"
	"github.com/clipstream/clipstream/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables; .env is optional and the system
	// environment still applies without it
	_ = godotenv.Load()

	if err := logger.Initialize(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FILE")); err != nil {
		os.Exit(1)
	}
	defer logger.Close()

	logger.Log.Info("=== Clipstream engagement server starting ===")

	// Initialize database
	if err := database.Initialize(); err != nil {
		logger.FatalWithFields("Failed to initialize database", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}

	// Cooldown store: Redis when configured so windows hold across
	// instances, in-memory otherwise
	var cooldowns cooldown.Store
	if host := os.Getenv("REDIS_HOST"); host != "" {
		redisClient, err := cache.NewRedisClient(host, os.Getenv("REDIS_PORT"), os.Getenv("REDIS_PASSWORD"))
		if err != nil {
			logger.FatalWithFields("Failed to connect to redis", err)
		}
		defer redisClient.Close()
		cooldowns = cooldown.NewRedisStore(redisClient)
		logger.Log.Info("Cooldown store: redis", zap.String("host", host))
	} else {
		memStore := cooldown.NewMemoryStore()
		defer memStore.Stop()
		cooldowns = memStore
		logger.Log.Info("Cooldown store: in-memory (single instance)")
	}

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		logger.Log.Fatal("JWT_SECRET environment variable is required")
	}

	h := handlers.NewHandlers(cooldowns)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.MetricsMiddleware())

	// CORS middleware
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"} // Configure properly for production
	config.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(config))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if err := database.Health(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
			"service":   "clipstream-engagement",
		})
	})

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit())
	{
		videos := api.Group("/videos")
		{
			// Public reads; viewer state fills in when a token is present
			videos.GET("/:id", middleware.AuthOptional(jwtSecret), h.GetVideo)
			videos.GET("/:id/comments", middleware.AuthOptional(jwtSecret), h.GetComments)

			// Player-reported metadata
			videos.PATCH("/:id/metadata", h.PatchVideoMetadata)

			// Engagement toggles
			authed := videos.Group("")
			authed.Use(middleware.AuthRequired(jwtSecret))
			authed.POST("/:id/like", h.LikeVideo)
			authed.POST("/:id/dislike", h.DislikeVideo)
			authed.POST("/:id/star", h.StarVideo)

			// Comment writes get the stricter per-IP limiter on top of
			// the per-user cooldowns
			writes := videos.Group("")
			writes.Use(middleware.AuthRequired(jwtSecret), middleware.RateLimitCommentWrites())
			writes.POST("/:id/comment", h.CreateComment)
			writes.POST("/:id/comments/:commentId/reply", h.CreateReply)
			writes.DELETE("/:id/comments/:commentId", h.DeleteComment)

			authed.POST("/:id/comments/:commentId/like", h.LikeComment)
			authed.POST("/:id/comments/:commentId/dislike", h.DislikeComment)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Log.Info("Server listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithFields("Server failed", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorWithFields("Forced shutdown", err)
	}
	logger.Log.Info("Server stopped")
}
