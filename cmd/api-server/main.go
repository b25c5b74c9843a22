package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"bookvault/database"
	"bookvault/internal/api/cache"
	"bookvault/internal/api/handler"
	"bookvault/internal/api/middleware"
	"bookvault/internal/api/repository"
	"bookvault/internal/api/service"
	"bookvault/internal/config"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Setup structured logging
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// Connect to the database
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Redis-backed analytics cache. The API works without it, reads just hit
	// the database every time.
	analyticsCache, err := cache.NewAnalyticsCache(cfg.RedisURL, cfg.CacheTTL, logger)
	if err != nil {
		logger.Warn("analytics cache unavailable, continuing without it", "error", err)
		analyticsCache = nil
	} else {
		defer analyticsCache.Close()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	bookRepo := repository.NewBookRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	sessionRepo := repository.NewReadingSessionRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	bookService := service.NewBookService(bookRepo, analyticsCache)
	favoriteService := service.NewFavoriteService(favoriteRepo, bookRepo, analyticsCache)
	analyticsService := service.NewAnalyticsService(bookRepo, sessionRepo, favoriteRepo, analyticsCache)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	bookHandler := handler.NewBookHandler(bookService)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	r.Use(rateLimiter.Middleware())
	r.Use(corsMiddleware(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		authHandler.RegisterRoutes(api.Group("/auth"))

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(authService))
		{
			bookHandler.RegisterRoutes(protected.Group("/books"))
			favoriteHandler.RegisterRoutes(protected.Group("/favorites"))
			analyticsHandler.RegisterRoutes(protected.Group("/analytics"))
		}
	}

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting_api_server", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := allowed[origin]; ok {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
