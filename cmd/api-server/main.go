package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"jokehub/database"
	"jokehub/internal/ai"
	"jokehub/internal/cache"
	"jokehub/internal/config"
	"jokehub/internal/http-api/handler"
	"jokehub/internal/http-api/middleware"
	"jokehub/internal/http-api/repository"
	"jokehub/internal/http-api/service"
	"jokehub/internal/live"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger := newLogger(cfg)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	rdb, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("could not connect to redis: %v", err)
	}

	// Repositories
	jokeRepo := repository.NewJokeRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	// Live category fan-out
	hub := live.NewHub(rdb, categoryRepo.GetAll, logger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	// Services
	categorySvc := service.NewCategoryService(categoryRepo, hub)
	jokeSvc := service.NewJokeService(jokeRepo, categorySvc)
	summaries := cache.NewRatingSummaryCache(rdb, cfg.RatingCacheTTL)
	ratingSvc := service.NewRatingService(ratingRepo, jokeRepo, summaries, logger)
	importSvc := service.NewImportService(jokeRepo, categorySvc, logger)
	generationSvc := service.NewGenerationService(ai.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel))

	// Handlers
	jokeHandler := handler.NewJokeHandler(jokeSvc)
	ratingHandler := handler.NewRatingHandler(ratingSvc)
	categoryHandler := handler.NewCategoryHandler(categorySvc)
	importHandler := handler.NewImportHandler(importSvc)
	generateHandler := handler.NewGenerateHandler(generationSvc)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(corsMiddleware(cfg.CORSOrigins))

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	jokesPublic := api.Group("/jokes")
	jokesPublic.Use(middleware.OptionalAuthMiddleware(cfg.JWTSecret))
	jokesAuthed := api.Group("/jokes")
	jokesAuthed.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	jokeHandler.RegisterRoutes(jokesPublic, jokesAuthed)
	ratingHandler.RegisterRoutes(jokesPublic, jokesAuthed)
	importHandler.RegisterRoutes(jokesAuthed)

	categories := api.Group("/categories")
	categories.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	categoryHandler.RegisterRoutes(categories)

	aiLimiter := middleware.NewRateLimiter(cfg.AIRateLimitPerMinute)
	aiGroup := api.Group("")
	aiGroup.Use(middleware.AuthMiddleware(cfg.JWTSecret), aiLimiter.Middleware())
	generateHandler.RegisterRoutes(aiGroup)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("Server starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelDebug
	switch cfg.LogLevel {
	case "info":
		level = slog.LevelInfo
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
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
