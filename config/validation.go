package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig collects every problem with cfg into a single error.
func ValidateConfig(cfg *Config) error {
	var problems []ValidationError

	require := func(field, value string) {
		if value == "" {
			problems = append(problems, ValidationError{Field: field, Message: "is required"})
		}
	}

	require("SERVER_PORT", cfg.ServerPort)

	if cfg.JWTSecret == "" {
		if cfg.Environment.usesSecrets() {
			problems = append(problems, ValidationError{Field: "jwt_secret", Message: "secret or JWT_SECRET is required"})
		} else {
			problems = append(problems, ValidationError{Field: "JWT_SECRET", Message: "is required in CI environment"})
		}
	}

	switch cfg.DBDriver {
	case "postgres":
		require("DB_HOST", cfg.DBHost)
		require("DB_PORT", cfg.DBPort)
		require("DB_NAME", cfg.DBName)
		if cfg.Environment == Production {
			require("db_password", cfg.DBPassword)
		}
	case "sqlite":
		require("SQLITE_PATH", cfg.SQLitePath)
	default:
		problems = append(problems, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	switch cfg.Storage.Driver {
	case StorageS3:
		require("S3_BUCKET_NAME", cfg.Storage.Bucket)
	case StorageLocal:
		require("MEDIA_ROOT", cfg.Storage.LocalPath)
	default:
		problems = append(problems, ValidationError{Field: "STORAGE_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.Storage.Driver)})
	}

	if cfg.TokenTTL <= 0 {
		problems = append(problems, ValidationError{Field: "TOKEN_TTL", Message: "must be positive"})
	}
	if cfg.RecipeCreateLimit <= 0 {
		problems = append(problems, ValidationError{Field: "RECIPE_CREATE_LIMIT", Message: "must be positive"})
	}

	if len(problems) == 0 {
		return nil
	}

	lines := make([]string, len(problems))
	for i, p := range problems {
		lines[i] = p.Error()
	}
	return fmt.Errorf("configuration validation failed:\n%s", strings.Join(lines, "\n"))
}
