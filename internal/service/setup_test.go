package service_test

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/types"
)

// fakeImages records stored and deleted keys without touching storage.
type fakeImages struct {
	mu      sync.Mutex
	n       int
	saved   []string
	deleted []string
}

func (f *fakeImages) SaveDataURI(_ context.Context, dataURI string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	key := fmt.Sprintf("recipes/images/%d.png", f.n)
	f.saved = append(f.saved, key)
	return key, nil
}

func (f *fakeImages) Delete(_ context.Context, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if key != "" {
		f.deleted = append(f.deleted, key)
	}
}

func (f *fakeImages) URL(key string) string {
	return "/media/" + key
}

func pngDataURI(payload string) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(payload))
}

func recipeRequest(tags []uint, ingredients ...types.IngredientAmount) *types.RecipeRequest {
	return &types.RecipeRequest{
		Ingredients: ingredients,
		Tags:        tags,
		Image:       pngDataURI("image"),
		Name:        "Pancakes",
		Text:        "Whisk and fry.",
		CookingTime: 20,
	}
}

func boolPtr(b bool) *bool {
	return &b
}

// missNextCount makes the next COUNT on table report zero, as if the rows it
// would have seen were committed by another writer right after the check.
func missNextCount(t *testing.T, db *gorm.DB, table string) {
	t.Helper()
	var armed atomic.Bool
	armed.Store(true)
	err := db.Callback().Query().After("gorm:query").Register("test:miss_next_count", func(tx *gorm.DB) {
		if tx.Statement.Table != table {
			return
		}
		if n, ok := tx.Statement.Dest.(*int64); ok && armed.CompareAndSwap(true, false) {
			*n = 0
		}
	})
	require.NoError(t, err)
}
