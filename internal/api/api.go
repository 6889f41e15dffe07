package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth     service.IAuthService
	Users    service.IUserService
	Follows  service.IFollowService
	Toggles  service.IToggleService
	Recipes  service.IRecipeService
	Shopping service.IShoppingService
	Catalog  service.ICatalogService
}

// NewServices wires the gorm-backed services.
func NewServices(db *gorm.DB, auth *service.AuthService, images *service.ImageService) *Services {
	return &Services{
		Auth:     auth,
		Users:    service.NewUserService(db),
		Follows:  service.NewFollowService(db, images),
		Toggles:  service.NewToggleService(db, images),
		Recipes:  service.NewRecipeService(db, images),
		Shopping: service.NewShoppingService(db),
		Catalog:  service.NewCatalogService(db),
	}
}

// RegisterRoutes mounts /health and the /api tree. createLimiter may be nil.
func RegisterRoutes(router *gin.Engine, db *gorm.DB, svc *Services, createLimiter *middleware.RateLimiter) {
	router.GET("/health", HealthCheck(db))

	root := router.Group("/api")
	NewAuthHandler(svc.Auth).RegisterRoutes(root)
	NewUserHandler(svc.Auth, svc.Users, svc.Follows).RegisterRoutes(root)
	NewCatalogHandler(svc.Auth, svc.Catalog).RegisterRoutes(root)
	NewRecipeHandler(svc.Auth, svc.Recipes, svc.Toggles, svc.Shopping).
		WithCreateLimiter(createLimiter).
		RegisterRoutes(root)
}

// HealthCheck reports whether the database answers.
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			logger.Ctx(c.Request.Context()).Error().Err(err).Msg("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
