package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const (
	shoppingListHeader = "Foodgram has prepared a shopping list for the selected recipes:"
	shoppingListEmpty  = "No recipes in your shopping cart yet."
)

// ShoppingLine is one aggregated ingredient of a shopping list.
type ShoppingLine struct {
	IngredientID    uint
	Name            string
	MeasurementUnit string
	Total           int64
}

// ShoppingService builds shopping lists from a user's cart.
type ShoppingService struct {
	db *gorm.DB
}

// NewShoppingService creates a new ShoppingService instance
func NewShoppingService(db *gorm.DB) *ShoppingService {
	return &ShoppingService{db: db}
}

// Aggregate sums ingredient amounts over every recipe in userID's cart,
// one line per ingredient, ordered by name.
func (s *ShoppingService) Aggregate(ctx context.Context, userID uint) ([]ShoppingLine, error) {
	var lines []ShoppingLine
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients AS ri").
		Select("i.id AS ingredient_id, i.name AS name, i.measurement_unit AS measurement_unit, SUM(ri.amount) AS total").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Joins("JOIN shopping_cart_items AS sc ON sc.recipe_id = ri.recipe_id").
		Where("sc.user_id = ?", userID).
		Group("i.id, i.name, i.measurement_unit").
		Order("i.name, i.id").
		Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate shopping list: %w", err)
	}
	return lines, nil
}

// Report renders userID's shopping list as plain text.
func (s *ShoppingService) Report(ctx context.Context, userID uint) (string, error) {
	lines, err := s.Aggregate(ctx, userID)
	if err != nil {
		return "", err
	}
	return RenderShoppingList(lines), nil
}

// RenderShoppingList formats lines as the downloadable shopping list.
func RenderShoppingList(lines []ShoppingLine) string {
	var b strings.Builder
	b.WriteString(shoppingListHeader)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("_", 50))
	b.WriteString("\n\n")
	if len(lines) == 0 {
		b.WriteString(shoppingListEmpty + "\n")
		return b.String()
	}
	for _, l := range lines {
		fmt.Fprintf(&b, "• %s (%s) — %d\n", l.Name, l.MeasurementUnit, l.Total)
	}
	return b.String()
}
