package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/models"
)

// MigrationsTable records applied migration files. cmd/migrate shares it.
const MigrationsTable = "schema_migrations"

// RunMigrations brings the schema up to date. SQLite databases, used for
// local runs and tests, are auto-migrated from the models; PostgreSQL applies
// the SQL files in migrationsDir in lexical order, each once.
func RunMigrations(ctx context.Context, db *gorm.DB, migrationsDir string) error {
	log := logger.Ctx(ctx)
	if db.Dialector.Name() == "sqlite" {
		log.Debug().Msg("using gorm auto-migration for sqlite")
		return AutoMigrate(db)
	}

	files, err := MigrationFiles(migrationsDir)
	if err != nil {
		return err
	}

	db = db.WithContext(ctx)
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS ` + MigrationsTable + ` (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, name := range files {
		var count int64
		if err := db.Table(MigrationsTable).Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			log.Debug().Str("migration", name).Msg("already applied")
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", name, err)
			}
			return tx.Exec("INSERT INTO "+MigrationsTable+" (name) VALUES (?)", name).Error
		})
		if err != nil {
			return err
		}

		log.Info().Str("migration", name).Msg("applied migration")
	}

	return nil
}

// AutoMigrate creates or updates every table from the gorm models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// MigrationFiles lists forward migrations in dir, skipping rollback files.
func MigrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") || strings.HasSuffix(name, "_rollback.sql") {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}
