package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

// UserHandler serves /users: registration, profiles, passwords and
// subscriptions.
type UserHandler struct {
	authService   service.IAuthService
	userService   service.IUserService
	followService service.IFollowService
}

func NewUserHandler(auth service.IAuthService, users service.IUserService, follows service.IFollowService) *UserHandler {
	return &UserHandler{authService: auth, userService: users, followService: follows}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.authService)

	users := router.Group("/users")
	{
		users.GET("", middleware.OptionalAuth(h.authService), h.List)
		users.POST("", h.Register)
		users.GET("/me", requireAuth, h.Me)
		users.POST("/set_password", requireAuth, h.SetPassword)
		users.GET("/subscriptions", requireAuth, h.Subscriptions)
		users.GET("/:id", middleware.OptionalAuth(h.authService), h.Get)
		users.POST("/:id/subscribe", requireAuth, h.Subscribe)
		users.DELETE("/:id/subscribe", requireAuth, h.Unsubscribe)
	}
}

func (h *UserHandler) List(c *gin.Context) {
	page := pageFromQuery(c)
	result, err := h.userService.List(c.Request.Context(), middleware.UserID(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page, result)
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"email":      user.Email,
		"id":         user.ID,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	view, err := h.userService.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) Me(c *gin.Context) {
	view, err := h.userService.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authService.SetPassword(c.Request.Context(), middleware.UserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	recipesLimit, ok := intQuery(c, "recipes_limit")
	if !ok {
		return
	}
	page := pageFromQuery(c)
	result, err := h.followService.Subscriptions(c.Request.Context(), middleware.UserID(c), page, recipesLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page, result)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	recipesLimit, ok := intQuery(c, "recipes_limit")
	if !ok {
		return
	}
	view, err := h.followService.Subscribe(c.Request.Context(), middleware.UserID(c), id, recipesLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.followService.Unsubscribe(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
