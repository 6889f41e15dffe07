package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/server"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/storage"
	"github.com/foodgram/backend/internal/validation"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Pretty:      cfg.LogPretty,
		ServiceName: "foodgram-api",
	})
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(ctx, db, migrationsDir()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	var createLimiter *middleware.RateLimiter
	if cfg.RedisEnabled() {
		client, err := database.NewRedisClient(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, recipe creation is not rate limited")
		} else {
			defer client.Close()
			createLimiter = middleware.NewRecipeCreationRateLimiter(client, cfg.RecipeCreateLimit, cfg.RecipeCreateWindow)
		}
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise image storage")
	}

	if err := validation.RegisterGin(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	auth := service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL)
	svc := api.NewServices(db, auth, service.NewImageService(store))

	srv := server.New(cfg, db, svc, createLimiter)
	if err := srv.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server stopped")
}

func migrationsDir() string {
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		return dir
	}
	return "migrations"
}
