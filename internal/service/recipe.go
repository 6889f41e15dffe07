package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodgram/backend/internal/apperr"
	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
	"github.com/foodgram/backend/internal/validation"
)

// ImageStore persists recipe images.
type ImageStore interface {
	ImageURLResolver
	SaveDataURI(ctx context.Context, dataURI string) (string, error)
	Delete(ctx context.Context, key string)
}

// RecipeService handles recipe operations
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
	presenter
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return &RecipeService{db: db, images: images, presenter: presenter{images: images}}
}

// Create validates req, stores its image and inserts the recipe with its tag
// and ingredient rows in one transaction.
func (s *RecipeService) Create(ctx context.Context, actorID uint, req *types.RecipeRequest) (*types.RecipeView, error) {
	if strings.TrimSpace(req.Image) == "" {
		return nil, apperr.Validation("image", "image is required")
	}
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}
	if _, err := loadUser(ctx, s.db, actorID); err != nil {
		return nil, err
	}

	key, err := s.images.SaveDataURI(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    actorID,
		Name:        req.Name,
		Image:       key,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		PubDate:     time.Now().UTC(),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		return insertRecipeLinks(tx, recipe.ID, req)
	})
	if err != nil {
		s.images.Delete(ctx, key)
		return nil, err
	}

	logger.Ctx(ctx).Info().Uint("recipe_id", recipe.ID).Uint("author_id", actorID).Msg("recipe created")
	return s.Get(ctx, actorID, recipe.ID)
}

// Update replaces every field of the recipe, including its full tag and
// ingredient sets. The image is kept when req.Image is empty.
func (s *RecipeService) Update(ctx context.Context, actorID, recipeID uint, req *types.RecipeRequest) (*types.RecipeView, error) {
	recipe, err := loadRecipe(ctx, s.db, recipeID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actorID, recipe); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	var newKey string
	if strings.TrimSpace(req.Image) != "" {
		if newKey, err = s.images.SaveDataURI(ctx, req.Image); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{
		"name":         req.Name,
		"text":         req.Text,
		"cooking_time": req.CookingTime,
	}
	if newKey != "" {
		updates["image"] = newKey
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		return insertRecipeLinks(tx, recipeID, req)
	})
	if err != nil {
		s.images.Delete(ctx, newKey)
		return nil, err
	}
	if newKey != "" {
		s.images.Delete(ctx, recipe.Image)
	}

	logger.Ctx(ctx).Info().Uint("recipe_id", recipeID).Msg("recipe updated")
	return s.Get(ctx, actorID, recipeID)
}

// Delete removes the recipe and every row that references it.
func (s *RecipeService) Delete(ctx context.Context, actorID, recipeID uint) error {
	recipe, err := loadRecipe(ctx, s.db, recipeID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actorID, recipe); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&models.FavoriteRecipe{},
			&models.ShoppingCartItem{},
			&models.RecipeTag{},
			&models.RecipeIngredient{},
		} {
			if err := tx.Where("recipe_id = ?", recipeID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Recipe{}, recipeID).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	s.images.Delete(ctx, recipe.Image)
	logger.Ctx(ctx).Info().Uint("recipe_id", recipeID).Msg("recipe deleted")
	return nil
}

// Get returns one recipe as seen by viewerID.
func (s *RecipeService) Get(ctx context.Context, viewerID, recipeID uint) (*types.RecipeView, error) {
	db := s.db.WithContext(ctx)
	var recipes []models.Recipe
	if err := preloadRecipe(db).Where("id = ?", recipeID).Limit(1).Find(&recipes).Error; err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, apperr.NotFound("recipe %d not found", recipeID)
	}
	views, err := s.recipeViews(db, viewerID, recipes)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List returns recipes newest first, narrowed by filter. The favorited and
// cart filters only apply to authenticated viewers.
func (s *RecipeService) List(ctx context.Context, viewerID uint, filter types.RecipeFilter, page types.Page) (*types.PageResult[types.RecipeView], error) {
	db := s.db.WithContext(ctx)

	result := &types.PageResult[types.RecipeView]{}
	if err := s.filterQuery(db, viewerID, filter).Model(&models.Recipe{}).Count(&result.Count).Error; err != nil {
		return nil, err
	}

	var recipes []models.Recipe
	err := preloadRecipe(s.filterQuery(db, viewerID, filter)).
		Order("pub_date DESC, id DESC").
		Limit(page.Size()).Offset(page.Offset()).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}

	views, err := s.recipeViews(db, viewerID, recipes)
	if err != nil {
		return nil, err
	}
	result.Results = views
	return result, nil
}

func (s *RecipeService) filterQuery(db *gorm.DB, viewerID uint, f types.RecipeFilter) *gorm.DB {
	q := db.Session(&gorm.Session{NewDB: true}).Model(&models.Recipe{})

	if len(f.TagSlugs) > 0 {
		tagged := db.Session(&gorm.Session{NewDB: true}).
			Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("id IN (?)", tagged)
	}
	if len(f.AuthorIDs) > 0 {
		q = q.Where("author_id IN ?", f.AuthorIDs)
	}
	if viewerID != 0 {
		q = markerFilter(db, q, viewerID, f.IsFavorited, CollectionFavorites)
		q = markerFilter(db, q, viewerID, f.IsInShoppingCart, CollectionShoppingCart)
	}
	return q
}

func markerFilter(db, q *gorm.DB, viewerID uint, want *bool, c Collection) *gorm.DB {
	if want == nil {
		return q
	}
	marked := db.Session(&gorm.Session{NewDB: true}).
		Model(c.model()).
		Select("recipe_id").
		Where("user_id = ?", viewerID)
	if *want {
		return q.Where("id IN (?)", marked)
	}
	return q.Where("id NOT IN (?)", marked)
}

// authorize allows the recipe's author and administrators.
func (s *RecipeService) authorize(ctx context.Context, actorID uint, recipe *models.Recipe) error {
	if actorID == recipe.AuthorID {
		return nil
	}
	actor, err := loadUser(ctx, s.db, actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return apperr.PermissionDenied("only the author can change this recipe")
	}
	return nil
}

// validate checks every rule a recipe write must satisfy before anything is
// written.
func (s *RecipeService) validate(ctx context.Context, req *types.RecipeRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperr.Validation("name", "name is required")
	}
	if strings.TrimSpace(req.Text) == "" {
		return apperr.Validation("text", "text is required")
	}
	if err := validation.ValidateCookingTime(req.CookingTime); err != nil {
		return err
	}

	if len(req.Ingredients) == 0 {
		return apperr.Validation("ingredients", "at least one ingredient is required")
	}
	ingredientIDs := make([]uint, 0, len(req.Ingredients))
	seen := make(map[uint]bool, len(req.Ingredients))
	for _, ia := range req.Ingredients {
		if seen[ia.ID] {
			return apperr.Validation("ingredients", "ingredient %d is listed more than once", ia.ID)
		}
		seen[ia.ID] = true
		if err := validation.ValidateAmount(ia.Amount); err != nil {
			return apperr.Validation("ingredients", "ingredient %d: amount must be between %d and %d",
				ia.ID, validation.MinAmount, validation.MaxAmount)
		}
		ingredientIDs = append(ingredientIDs, ia.ID)
	}

	if len(req.Tags) == 0 {
		return apperr.Validation("tags", "at least one tag is required")
	}
	seenTags := make(map[uint]bool, len(req.Tags))
	for _, id := range req.Tags {
		if seenTags[id] {
			return apperr.Validation("tags", "tag %d is listed more than once", id)
		}
		seenTags[id] = true
	}

	db := s.db.WithContext(ctx)
	if missing, err := missingIDs(db, &models.Ingredient{}, ingredientIDs); err != nil {
		return err
	} else if len(missing) > 0 {
		return apperr.Validation("ingredients", "ingredient %d does not exist", missing[0])
	}
	if missing, err := missingIDs(db, &models.Tag{}, req.Tags); err != nil {
		return err
	} else if len(missing) > 0 {
		return apperr.Validation("tags", "tag %d does not exist", missing[0])
	}
	return nil
}

// missingIDs returns the ids with no row in model's table, in input order.
func missingIDs(db *gorm.DB, model interface{}, ids []uint) ([]uint, error) {
	var found []uint
	if err := db.Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	present := make(map[uint]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	var missing []uint
	for _, id := range ids {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func insertRecipeLinks(tx *gorm.DB, recipeID uint, req *types.RecipeRequest) error {
	tags := make([]models.RecipeTag, len(req.Tags))
	for i, id := range req.Tags {
		tags[i] = models.RecipeTag{RecipeID: recipeID, TagID: id}
	}
	if err := tx.Omit(clause.Associations).Create(&tags).Error; err != nil {
		return fmt.Errorf("failed to link tags: %w", err)
	}

	ingredients := make([]models.RecipeIngredient, len(req.Ingredients))
	for i, ia := range req.Ingredients {
		ingredients[i] = models.RecipeIngredient{RecipeID: recipeID, IngredientID: ia.ID, Amount: ia.Amount}
	}
	if err := tx.Omit(clause.Associations).CreateInBatches(&ingredients, 100).Error; err != nil {
		return fmt.Errorf("failed to link ingredients: %w", err)
	}
	return nil
}
