package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/logger"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "migrations", "Directory holding the SQL migrations")
	flag.Parse()

	logger.Init(logger.Config{Level: "info", Pretty: true, ServiceName: "foodgram-migrate"})
	log := logger.L()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("DATABASE_URL is not set and configuration could not be loaded")
		}
		dsn = cfg.PostgresDSN()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if *rollback {
		err = rollbackLast(ctx, db, *dir, log)
	} else {
		err = applyAll(ctx, db, *dir, log)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}

func ensureTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+database.MigrationsTable+` (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func applyAll(ctx context.Context, db *sql.DB, dir string, log *zerolog.Logger) error {
	if err := ensureTable(ctx, db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	files, err := database.MigrationFiles(dir)
	if err != nil {
		return err
	}

	for _, file := range files {
		var applied bool
		err := db.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM "+database.MigrationsTable+" WHERE name = $1)", file,
		).Scan(&applied)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if applied {
			log.Info().Str("migration", file).Msg("already applied")
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		err = inTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(content)); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", file, err)
			}
			_, err := tx.ExecContext(ctx, "INSERT INTO "+database.MigrationsTable+" (name) VALUES ($1)", file)
			return err
		})
		if err != nil {
			return err
		}
		log.Info().Str("migration", file).Msg("applied migration")
	}

	log.Info().Int("files", len(files)).Msg("all migrations applied")
	return nil
}

func rollbackLast(ctx context.Context, db *sql.DB, dir string, log *zerolog.Logger) error {
	if err := ensureTable(ctx, db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var name string
	err := db.QueryRowContext(ctx,
		"SELECT name FROM "+database.MigrationsTable+" ORDER BY name DESC LIMIT 1",
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info().Msg("no migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get last migration: %w", err)
	}

	path := filepath.Join(dir, strings.TrimSuffix(name, ".sql")+"_rollback.sql")
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read rollback file: %w", err)
	}

	err = inTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute rollback: %w", err)
		}
		_, err := tx.ExecContext(ctx, "DELETE FROM "+database.MigrationsTable+" WHERE name = $1", name)
		return err
	})
	if err != nil {
		return err
	}

	log.Info().Str("migration", name).Msg("rolled back migration")
	return nil
}

func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
