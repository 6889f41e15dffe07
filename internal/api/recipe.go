package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/apperr"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

const shoppingListFilename = "my_shopping_cart.txt"

type RecipeHandler struct {
	authService     service.IAuthService
	recipeService   service.IRecipeService
	toggleService   service.IToggleService
	shoppingService service.IShoppingService
	createLimiter   *middleware.RateLimiter
}

func NewRecipeHandler(
	auth service.IAuthService,
	recipes service.IRecipeService,
	toggles service.IToggleService,
	shopping service.IShoppingService,
) *RecipeHandler {
	return &RecipeHandler{
		authService:     auth,
		recipeService:   recipes,
		toggleService:   toggles,
		shoppingService: shopping,
	}
}

// WithCreateLimiter throttles recipe creation per user.
func (h *RecipeHandler) WithCreateLimiter(limiter *middleware.RateLimiter) *RecipeHandler {
	h.createLimiter = limiter
	return h
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.authService)

	create := []gin.HandlerFunc{requireAuth}
	if h.createLimiter != nil {
		create = append(create, h.createLimiter.Middleware())
	}
	create = append(create, h.CreateRecipe)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuth(h.authService), h.ListRecipes)
		recipes.POST("", create...)
		recipes.GET("/download_shopping_cart", requireAuth, h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.OptionalAuth(h.authService), h.GetRecipe)
		recipes.PUT("/:id", requireAuth, h.UpdateRecipe)
		recipes.PATCH("/:id", requireAuth, h.UpdateRecipe)
		recipes.DELETE("/:id", requireAuth, h.DeleteRecipe)
		recipes.POST("/:id/favorite", requireAuth, h.add(service.CollectionFavorites))
		recipes.DELETE("/:id/favorite", requireAuth, h.remove(service.CollectionFavorites))
		recipes.POST("/:id/shopping_cart", requireAuth, h.add(service.CollectionShoppingCart))
		recipes.DELETE("/:id/shopping_cart", requireAuth, h.remove(service.CollectionShoppingCart))
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter, err := recipeFilterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	page := pageFromQuery(c)
	result, err := h.recipeService.List(c.Request.Context(), middleware.UserID(c), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page, result)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	view, err := h.recipeService.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.recipeService.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req types.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.recipeService.Update(c.Request.Context(), middleware.UserID(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.recipeService.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) add(collection service.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		view, err := h.toggleService.Add(c.Request.Context(), middleware.UserID(c), id, collection)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, view)
	}
}

func (h *RecipeHandler) remove(collection service.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := h.toggleService.Remove(c.Request.Context(), middleware.UserID(c), id, collection); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	report, err := h.shoppingService.Report(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+shoppingListFilename)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report))
}

// recipeFilterFromQuery reads tags=<slug>&tags=..., author=<id>&author=...,
// is_favorited and is_in_shopping_cart (0/1/true/false).
func recipeFilterFromQuery(c *gin.Context) (types.RecipeFilter, error) {
	var filter types.RecipeFilter

	for _, slug := range c.QueryArray("tags") {
		if slug = strings.TrimSpace(slug); slug != "" {
			filter.TagSlugs = append(filter.TagSlugs, slug)
		}
	}
	for _, raw := range c.QueryArray("author") {
		id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return filter, apperr.Validation("author", "author must be a user id")
		}
		filter.AuthorIDs = append(filter.AuthorIDs, uint(id))
	}

	var err error
	if filter.IsFavorited, err = boolQuery(c, "is_favorited"); err != nil {
		return filter, err
	}
	if filter.IsInShoppingCart, err = boolQuery(c, "is_in_shopping_cart"); err != nil {
		return filter, err
	}
	return filter, nil
}

func boolQuery(c *gin.Context, name string) (*bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperr.Validation(name, "%s must be 0, 1, true or false", name)
	}
	return &v, nil
}
