package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/foodshare/backend/config"
	"github.com/foodshare/backend/internal/api"
	"github.com/foodshare/backend/internal/database"
	"github.com/foodshare/backend/internal/middleware"
	"github.com/foodshare/backend/internal/router"
	"github.com/foodshare/backend/internal/server"
	"github.com/foodshare/backend/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Rate limiting is best-effort: the API runs without Redis.
	var limiter *middleware.RateLimiter
	if cfg.RedisHost != "" || cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		} else {
			limiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
				Window:    time.Minute,
				Limit:     120,
				KeyPrefix: "ratelimit",
			})
		}
	}

	s3Config, err := config.NewS3Config(context.Background())
	if err != nil {
		logger.Fatal("failed to configure S3 storage", zap.Error(err))
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	engagementService := service.NewEngagementService(db)
	followService := service.NewFollowService(db)
	catalogService := service.NewCatalogService(db)
	shoppingService := service.NewShoppingListService(db)
	imageService := service.NewImageService(s3Config)

	views := api.NewViews(engagementService, followService, recipeService)

	handlers := router.Handlers{
		Auth:    api.NewAuthHandler(authService, views),
		Users:   api.NewUserHandler(authService, followService, views),
		Catalog: api.NewCatalogHandler(catalogService),
		Recipes: api.NewRecipeHandler(recipeService, engagementService, shoppingService, imageService, views),
	}

	engine := router.SetupRouter(handlers, authService, limiter)
	srv := server.New(cfg, engine, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server shutdown error", zap.Error(err))
	}
}
