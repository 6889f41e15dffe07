package service

import (
	"context"
	"io"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// Every operation takes the acting user's id explicitly. A zero viewerID
// means an anonymous caller; per-viewer flags are then false.

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	SetPassword(ctx context.Context, actorID uint, currentPassword, newPassword string) error
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IUserService defines read operations on user profiles
type IUserService interface {
	List(ctx context.Context, viewerID uint, page types.Page) (*types.PageResult[types.UserView], error)
	Get(ctx context.Context, viewerID, userID uint) (*types.UserView, error)
	Me(ctx context.Context, actorID uint) (*types.UserView, error)
}

// IFollowService defines subscribe/unsubscribe and the subscriptions feed
type IFollowService interface {
	Subscribe(ctx context.Context, actorID, authorID uint, recipesLimit int) (*types.SubscriptionView, error)
	Unsubscribe(ctx context.Context, actorID, authorID uint) error
	Subscriptions(ctx context.Context, actorID uint, page types.Page, recipesLimit int) (*types.PageResult[types.SubscriptionView], error)
}

// IToggleService defines add/remove of favorites and cart entries
type IToggleService interface {
	Add(ctx context.Context, actorID, recipeID uint, c Collection) (*types.RecipeShortView, error)
	Remove(ctx context.Context, actorID, recipeID uint, c Collection) error
}

// IRecipeService defines recipe reads and the write pipeline
type IRecipeService interface {
	Create(ctx context.Context, actorID uint, req *types.RecipeRequest) (*types.RecipeView, error)
	Update(ctx context.Context, actorID, recipeID uint, req *types.RecipeRequest) (*types.RecipeView, error)
	Delete(ctx context.Context, actorID, recipeID uint) error
	Get(ctx context.Context, viewerID, recipeID uint) (*types.RecipeView, error)
	List(ctx context.Context, viewerID uint, filter types.RecipeFilter, page types.Page) (*types.PageResult[types.RecipeView], error)
}

// IShoppingService builds the aggregated shopping list
type IShoppingService interface {
	Aggregate(ctx context.Context, userID uint) ([]ShoppingLine, error)
	Report(ctx context.Context, userID uint) (string, error)
}

// ICatalogService defines tag and ingredient reference data operations
type ICatalogService interface {
	ListTags(ctx context.Context) ([]types.TagView, error)
	GetTag(ctx context.Context, id uint) (*types.TagView, error)
	CreateTag(ctx context.Context, actorID uint, req *types.TagRequest) (*types.TagView, error)
	ListIngredients(ctx context.Context, namePrefix string) ([]types.IngredientView, error)
	GetIngredient(ctx context.Context, id uint) (*types.IngredientView, error)
	ImportIngredients(ctx context.Context, r io.Reader) (*ImportResult, error)
}

// ImageURLResolver renders a stored image key as a client-facing reference.
type ImageURLResolver interface {
	URL(key string) string
}

var (
	_ IAuthService     = (*AuthService)(nil)
	_ IUserService     = (*UserService)(nil)
	_ IFollowService   = (*FollowService)(nil)
	_ IToggleService   = (*ToggleService)(nil)
	_ IRecipeService   = (*RecipeService)(nil)
	_ IShoppingService = (*ShoppingService)(nil)
	_ ICatalogService  = (*CatalogService)(nil)
	_ ImageURLResolver = (*ImageService)(nil)
)
