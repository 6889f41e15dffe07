package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodgram/backend/internal/apperr"
	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// Collection names a per-user set of recipes backed by a marker table.
type Collection int

const (
	CollectionFavorites Collection = iota + 1
	CollectionShoppingCart
)

func (c Collection) String() string {
	switch c {
	case CollectionFavorites:
		return "favorites"
	case CollectionShoppingCart:
		return "shopping cart"
	default:
		return fmt.Sprintf("collection(%d)", int(c))
	}
}

// model returns an empty row of the collection's table.
func (c Collection) model() interface{} {
	switch c {
	case CollectionFavorites:
		return &models.FavoriteRecipe{}
	case CollectionShoppingCart:
		return &models.ShoppingCartItem{}
	default:
		panic(fmt.Sprintf("unknown collection %d", int(c)))
	}
}

// marker returns a new row linking userID to recipeID.
func (c Collection) marker(userID, recipeID uint) interface{} {
	switch c {
	case CollectionFavorites:
		return &models.FavoriteRecipe{UserID: userID, RecipeID: recipeID}
	case CollectionShoppingCart:
		return &models.ShoppingCartItem{UserID: userID, RecipeID: recipeID}
	default:
		panic(fmt.Sprintf("unknown collection %d", int(c)))
	}
}

// ToggleService adds recipes to and removes them from a user's collections.
type ToggleService struct {
	db *gorm.DB
	presenter
}

// NewToggleService creates a new ToggleService instance
func NewToggleService(db *gorm.DB, images ImageURLResolver) *ToggleService {
	return &ToggleService{db: db, presenter: presenter{images: images}}
}

// Add puts recipeID into actorID's collection. Adding twice is an error.
func (s *ToggleService) Add(ctx context.Context, actorID, recipeID uint, c Collection) (*types.RecipeShortView, error) {
	var recipe *models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if recipe, err = loadRecipe(ctx, tx, recipeID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(c.model()).Where("user_id = ? AND recipe_id = ?", actorID, recipeID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.AlreadyExists("recipe %d is already in your %s", recipeID, c)
		}

		if err := tx.Omit(clause.Associations).Create(c.marker(actorID, recipeID)).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.AlreadyExists("recipe %d is already in your %s", recipeID, c)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Debug().Uint("recipe_id", recipeID).Stringer("collection", c).Msg("recipe added")
	view := s.shortView(recipe)
	return &view, nil
}

// Remove takes recipeID out of actorID's collection. Removing an absent
// entry is an error.
func (s *ToggleService) Remove(ctx context.Context, actorID, recipeID uint, c Collection) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadRecipe(ctx, tx, recipeID); err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND recipe_id = ?", actorID, recipeID).Delete(c.model())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("recipe %d is not in your %s", recipeID, c)
		}
		return nil
	})
}
