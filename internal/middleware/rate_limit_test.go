package middleware_test

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/foodgram/backend/internal/middleware"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRateLimiter_Middleware(t *testing.T) {
	client := setupRedis(t)
	limiter := middleware.NewRecipeCreationRateLimiter(client, 2, time.Hour)

	r := gin.New()
	r.POST("/recipes", middleware.AuthMiddleware(stubValidator{}), limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	auth := map[string]string{"Authorization": "Bearer good"}
	for i := 0; i < 2; i++ {
		w := perform(r, http.MethodPost, "/recipes", auth)
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	w := perform(r, http.MethodPost, "/recipes", auth)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	limiter := middleware.NewRecipeCreationRateLimiter(client, 1, time.Hour)

	r := gin.New()
	r.POST("/recipes", middleware.AuthMiddleware(stubValidator{}), limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	for i := 0; i < 3; i++ {
		w := perform(r, http.MethodPost, "/recipes", map[string]string{"Authorization": "Bearer good"})
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}
