package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"gorm.io/gorm"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/apperr"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

var defaultTags = []types.TagRequest{
	{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
	{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
}

func main() {
	email := flag.String("email", "admin@example.com", "Admin email")
	username := flag.String("username", "admin", "Admin username")
	withTags := flag.Bool("tags", true, "Also create the default breakfast/lunch/dinner tags")
	flag.Parse()

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		logger.L().Fatal().Msg("ADMIN_PASSWORD environment variable is not set")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Pretty: true, ServiceName: "foodgram-seed"})
	log := logger.L()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	ctx := context.Background()
	if err := database.RunMigrations(ctx, db, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	auth := service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL)
	_, err = auth.Register(ctx, &types.RegisterRequest{
		Email:     *email,
		Username:  *username,
		FirstName: "Admin",
		LastName:  "Foodgram",
		Password:  password,
	})
	switch {
	case errors.Is(err, apperr.ErrValidation):
		log.Info().Str("email", *email).Msg("user already exists, promoting")
	case err != nil:
		log.Fatal().Err(err).Msg("failed to create admin")
	}

	var admin models.User
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", *email).First(&admin).Error; err != nil {
			return err
		}
		return tx.Model(&admin).Updates(map[string]interface{}{
			"role":         models.RoleAdmin,
			"is_superuser": true,
		}).Error
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to promote admin")
	}
	log.Info().Uint("user_id", admin.ID).Str("email", admin.Email).Msg("admin ready")

	if !*withTags {
		return
	}
	catalog := service.NewCatalogService(db)
	for i := range defaultTags {
		tag, err := catalog.CreateTag(ctx, admin.ID, &defaultTags[i])
		if errors.Is(err, apperr.ErrAlreadyExists) {
			log.Info().Str("slug", defaultTags[i].Slug).Msg("tag already exists")
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Str("slug", defaultTags[i].Slug).Msg("failed to create tag")
		}
		log.Info().Uint("tag_id", tag.ID).Str("slug", tag.Slug).Msg("tag created")
	}
}
