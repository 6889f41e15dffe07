package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/apperr"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
)

func TestToggleService_AddRemove(t *testing.T) {
	for _, c := range []service.Collection{service.CollectionFavorites, service.CollectionShoppingCart} {
		t.Run(c.String(), func(t *testing.T) {
			db := testhelpers.SetupSQLiteDB(t)
			svc := service.NewToggleService(db, &fakeImages{})
			ctx := context.Background()

			user := testhelpers.CreateTestUser(t, db)
			recipe := testhelpers.CreateTestRecipe(t, db, testhelpers.CreateTestUser(t, db), testhelpers.RecipeFixture{Name: "Soup"})

			view, err := svc.Add(ctx, user.ID, recipe.ID, c)
			require.NoError(t, err)
			assert.Equal(t, recipe.ID, view.ID)
			assert.Equal(t, "Soup", view.Name)
			assert.Equal(t, "/media/recipes/images/test.png", view.Image)

			_, err = svc.Add(ctx, user.ID, recipe.ID, c)
			assert.ErrorIs(t, err, apperr.ErrAlreadyExists)

			require.NoError(t, svc.Remove(ctx, user.ID, recipe.ID, c))

			err = svc.Remove(ctx, user.ID, recipe.ID, c)
			assert.ErrorIs(t, err, apperr.ErrNotFound)
		})
	}
}

func TestToggleService_UnknownRecipe(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewToggleService(db, &fakeImages{})
	user := testhelpers.CreateTestUser(t, db)

	_, err := svc.Add(context.Background(), user.ID, 999, service.CollectionFavorites)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = svc.Remove(context.Background(), user.ID, 999, service.CollectionShoppingCart)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestToggleService_CollectionsAreIndependent(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewToggleService(db, &fakeImages{})
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, user, testhelpers.RecipeFixture{})

	_, err := svc.Add(ctx, user.ID, recipe.ID, service.CollectionFavorites)
	require.NoError(t, err)
	_, err = svc.Add(ctx, user.ID, recipe.ID, service.CollectionShoppingCart)
	require.NoError(t, err)

	var favorites, cart int64
	db.Model(&models.FavoriteRecipe{}).Count(&favorites)
	db.Model(&models.ShoppingCartItem{}).Count(&cart)
	assert.Equal(t, int64(1), favorites)
	assert.Equal(t, int64(1), cart)
}

func TestToggleService_AddLosesRaceToUniqueConstraint(t *testing.T) {
	for _, c := range []service.Collection{service.CollectionFavorites, service.CollectionShoppingCart} {
		t.Run(c.String(), func(t *testing.T) {
			db := testhelpers.SetupSQLiteDB(t)
			svc := service.NewToggleService(db, &fakeImages{})
			ctx := context.Background()

			user := testhelpers.CreateTestUser(t, db)
			recipe := testhelpers.CreateTestRecipe(t, db, user, testhelpers.RecipeFixture{})

			_, err := svc.Add(ctx, user.ID, recipe.ID, c)
			require.NoError(t, err)

			table := "favorite_recipes"
			if c == service.CollectionShoppingCart {
				table = "shopping_cart_items"
			}
			missNextCount(t, db, table)

			_, err = svc.Add(ctx, user.ID, recipe.ID, c)
			assert.ErrorIs(t, err, apperr.ErrAlreadyExists)

			var rows int64
			require.NoError(t, db.Table(table).Count(&rows).Error)
			assert.Equal(t, int64(1), rows)
		})
	}
}

func TestToggleService_ConcurrentAdd(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewToggleService(db, &fakeImages{})
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, user, testhelpers.RecipeFixture{})

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Add(ctx, user.ID, recipe.ID, service.CollectionFavorites)
		}(i)
	}
	wg.Wait()

	var ok, exists int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, apperr.ErrAlreadyExists):
			exists++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, exists)

	var rows int64
	require.NoError(t, db.Model(&models.FavoriteRecipe{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}
