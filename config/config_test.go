package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points config loading at an empty secrets dir and a scratch
// working directory so no stray .env file leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	secrets := t.TempDir()
	t.Setenv("SECRETS_DIR", secrets)
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	for _, key := range []string{"JWT_SECRET", "DB_DRIVER", "STORAGE_DRIVER", "REDIS_URL", "REDIS_HOST", "TOKEN_TTL"} {
		t.Setenv(key, "")
	}

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return secrets
}

func writeSecret(t *testing.T, dir, name, value string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value+"\n"), 0o600))
}

func TestLoadConfig(t *testing.T) {
	isolate(t)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "recipes")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "recipes", cfg.DBName)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Contains(t, cfg.PostgresDSN(), "dbname=recipes")
}

func TestLoadConfigWithDefaults(t *testing.T) {
	secrets := isolate(t)
	writeSecret(t, secrets, "jwt_secret", "from-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "foodgram", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "from-secret", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, StorageLocal, cfg.Storage.Driver)
	assert.False(t, cfg.RedisEnabled())
}

func TestSecretsOverrideEnvironment(t *testing.T) {
	secrets := isolate(t)
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DB_PASSWORD", "env-pass")
	writeSecret(t, secrets, "jwt_secret", "secret-file")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "secret-file", cfg.JWTSecret)
	assert.Equal(t, "env-pass", cfg.DBPassword)
}

func TestLoadConfigCollectsProblems(t *testing.T) {
	isolate(t)
	t.Setenv("CI", "true")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("STORAGE_DRIVER", "ftp")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "DB_DRIVER")
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	isolate(t)
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("TOKEN_TTL", "forever")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "TOKEN_TTL")
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}
