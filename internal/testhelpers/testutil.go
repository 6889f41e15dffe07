package testhelpers

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// TestPassword is the plain-text password of every user made by CreateTestUser.
const TestPassword = "testpassword123"

var seq atomic.Int64

func next() int64 {
	return seq.Add(1)
}

// CreateTestUser inserts a user with a unique email and username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return createUser(t, db, models.RoleUser)
}

// CreateTestAdmin inserts a user with the admin role.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return createUser(t, db, models.RoleAdmin)
}

func createUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	n := next()
	user := &models.User{
		Email:        fmt.Sprintf("cook%d@example.com", n),
		Username:     fmt.Sprintf("cook%d", n),
		FirstName:    "Test",
		LastName:     fmt.Sprintf("Cook %d", n),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTag inserts a tag with the given slug.
func CreateTestTag(t *testing.T, db *gorm.DB, slug string) *models.Tag {
	t.Helper()
	n := next()
	tag := &models.Tag{
		Name:  fmt.Sprintf("Tag %s", slug),
		Color: fmt.Sprintf("#%06x", n%0xffffff),
		Slug:  slug,
	}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create test tag: %v", err)
	}
	return tag
}

// CreateTestIngredient inserts an ingredient.
func CreateTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ing).Error; err != nil {
		t.Fatalf("failed to create test ingredient: %v", err)
	}
	return ing
}

// RecipeFixture describes a recipe inserted directly, bypassing services.
type RecipeFixture struct {
	Name        string
	Tags        []*models.Tag
	Ingredients map[*models.Ingredient]int
	PubDate     time.Time
}

// CreateTestRecipe inserts a recipe with its join rows.
func CreateTestRecipe(t *testing.T, db *gorm.DB, author *models.User, f RecipeFixture) *models.Recipe {
	t.Helper()
	if f.Name == "" {
		f.Name = fmt.Sprintf("Recipe %d", next())
	}
	if f.PubDate.IsZero() {
		f.PubDate = time.Now().UTC()
	}

	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        f.Name,
		Image:       "recipes/images/test.png",
		Text:        "Mix and bake.",
		CookingTime: 30,
		PubDate:     f.PubDate,
	}
	if err := db.Omit("Author", "Tags", "Ingredients").Create(recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}
	for _, tag := range f.Tags {
		if err := db.Omit("Tag").Create(&models.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}).Error; err != nil {
			t.Fatalf("failed to tag test recipe: %v", err)
		}
	}
	for ing, amount := range f.Ingredients {
		row := &models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: ing.ID, Amount: amount}
		if err := db.Omit("Ingredient").Create(row).Error; err != nil {
			t.Fatalf("failed to add test ingredient: %v", err)
		}
	}
	return recipe
}
