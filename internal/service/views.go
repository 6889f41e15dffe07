package service

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/apperr"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// presenter turns models into the read views returned to callers.
type presenter struct {
	images ImageURLResolver
}

func (p presenter) imageURL(key string) string {
	if p.images == nil || key == "" {
		return key
	}
	return p.images.URL(key)
}

func userView(u *models.User, subscribed bool) types.UserView {
	return types.UserView{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func tagView(t *models.Tag) types.TagView {
	return types.TagView{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func ingredientView(i *models.Ingredient) types.IngredientView {
	return types.IngredientView{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func (p presenter) shortView(r *models.Recipe) types.RecipeShortView {
	return types.RecipeShortView{
		ID:          r.ID,
		Name:        r.Name,
		Image:       p.imageURL(r.Image),
		CookingTime: r.CookingTime,
	}
}

// followedAmong returns which of authorIDs viewerID follows.
func followedAmong(db *gorm.DB, viewerID uint, authorIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool)
	if viewerID == 0 || len(authorIDs) == 0 {
		return out, nil
	}
	var ids []uint
	err := db.Model(&models.Follow{}).
		Where("user_id = ? AND following_id IN ?", viewerID, authorIDs).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// markedAmong returns which of recipeIDs carry viewerID's marker in c.
func markedAmong(db *gorm.DB, viewerID uint, recipeIDs []uint, c Collection) (map[uint]bool, error) {
	out := make(map[uint]bool)
	if viewerID == 0 || len(recipeIDs) == 0 {
		return out, nil
	}
	var ids []uint
	err := db.Model(c.model()).
		Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (p presenter) userViews(db *gorm.DB, viewerID uint, users []models.User) ([]types.UserView, error) {
	ids := make([]uint, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	followed, err := followedAmong(db, viewerID, ids)
	if err != nil {
		return nil, err
	}

	views := make([]types.UserView, len(users))
	for i := range users {
		views[i] = userView(&users[i], followed[users[i].ID])
	}
	return views, nil
}

// recipeViews expects Author, Tags.Tag and Ingredients.Ingredient preloaded.
func (p presenter) recipeViews(db *gorm.DB, viewerID uint, recipes []models.Recipe) ([]types.RecipeView, error) {
	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, len(recipes))
	for i := range recipes {
		recipeIDs[i] = recipes[i].ID
		authorIDs[i] = recipes[i].AuthorID
	}

	favorited, err := markedAmong(db, viewerID, recipeIDs, CollectionFavorites)
	if err != nil {
		return nil, err
	}
	inCart, err := markedAmong(db, viewerID, recipeIDs, CollectionShoppingCart)
	if err != nil {
		return nil, err
	}
	followed, err := followedAmong(db, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]types.RecipeView, len(recipes))
	for i := range recipes {
		r := &recipes[i]

		sort.Slice(r.Tags, func(a, b int) bool { return r.Tags[a].TagID < r.Tags[b].TagID })
		tags := make([]types.TagView, len(r.Tags))
		for j := range r.Tags {
			tags[j] = tagView(&r.Tags[j].Tag)
		}

		sort.Slice(r.Ingredients, func(a, b int) bool { return r.Ingredients[a].ID < r.Ingredients[b].ID })
		ingredients := make([]types.RecipeIngredientView, len(r.Ingredients))
		for j, ri := range r.Ingredients {
			ingredients[j] = types.RecipeIngredientView{
				ID:              ri.IngredientID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			}
		}

		views[i] = types.RecipeView{
			ID:               r.ID,
			Tags:             tags,
			Author:           userView(&r.Author, followed[r.AuthorID]),
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            p.imageURL(r.Image),
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
	}
	return views, nil
}

// subscriptionView renders author with up to recipesLimit of their newest
// recipes; recipesLimit <= 0 means all.
func (p presenter) subscriptionView(db *gorm.DB, author *models.User, subscribed bool, recipesLimit int) (types.SubscriptionView, error) {
	view := types.SubscriptionView{UserView: userView(author, subscribed)}

	if err := db.Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&view.RecipesCount).Error; err != nil {
		return view, err
	}

	q := db.Where("author_id = ?", author.ID).Order("pub_date DESC, id DESC")
	if recipesLimit > 0 {
		q = q.Limit(recipesLimit)
	}
	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return view, err
	}

	view.Recipes = make([]types.RecipeShortView, len(recipes))
	for i := range recipes {
		view.Recipes[i] = p.shortView(&recipes[i])
	}
	return view, nil
}

// preloadRecipe adds the associations recipeViews needs.
func preloadRecipe(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Tags.Tag").Preload("Ingredients.Ingredient")
}

// loadUser fetches a user or returns NotFound.
func loadUser(ctx context.Context, db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %d not found", id)
		}
		return nil, err
	}
	return &user, nil
}

// loadRecipe fetches a recipe or returns NotFound.
func loadRecipe(ctx context.Context, db *gorm.DB, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("recipe %d not found", id)
		}
		return nil, err
	}
	return &recipe, nil
}
