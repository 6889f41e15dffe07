// Command importcsv loads ingredients from a "name,measurement_unit" CSV file.
// Rows that already exist are left untouched, so the import can be re-run.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/service"
)

func main() {
	path := flag.String("file", "data/ingredients.csv", "CSV file with name,measurement_unit rows")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Pretty: true, ServiceName: "foodgram-importcsv"})
	log := logger.L()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	ctx := context.Background()
	if err := database.RunMigrations(ctx, db, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("failed to open csv")
	}
	defer f.Close()

	res, err := service.NewCatalogService(db).ImportIngredients(ctx, f)
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("import failed")
	}
	log.Info().
		Int("read", res.Read).
		Int64("inserted", res.Inserted).
		Msg("ingredients imported")
}
