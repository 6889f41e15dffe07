package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/apperr"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

func TestCatalogService_Tags(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewCatalogService(db)
	ctx := context.Background()

	admin := testhelpers.CreateTestAdmin(t, db)
	user := testhelpers.CreateTestUser(t, db)

	req := &types.TagRequest{Name: "Breakfast", Color: "#e26c2d", Slug: "breakfast"}
	_, err := svc.CreateTag(ctx, user.ID, req)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	tag, err := svc.CreateTag(ctx, admin.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "#E26C2D", tag.Color)

	_, err = svc.CreateTag(ctx, admin.ID, req)
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)

	_, err = svc.CreateTag(ctx, admin.ID, &types.TagRequest{Name: "Bad", Color: "red", Slug: "bad"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	got, err := svc.GetTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, *tag, *got)

	tags, err := svc.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1)

	_, err = svc.GetTag(ctx, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCatalogService_ListIngredients(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewCatalogService(db)
	ctx := context.Background()

	for _, name := range []string{"Sugar", "salt", "butter", "sour cream", "100%_juice"} {
		testhelpers.CreateTestIngredient(t, db, name, "g")
	}

	names := func(prefix string) []string {
		list, err := svc.ListIngredients(ctx, prefix)
		require.NoError(t, err)
		out := make([]string, len(list))
		for i, ing := range list {
			out[i] = ing.Name
		}
		return out
	}

	assert.Len(t, names(""), 5)
	assert.Equal(t, []string{"Sugar", "salt", "sour cream"}, names("s"))
	assert.Equal(t, []string{"sour cream"}, names("so"))
	assert.Equal(t, []string{"Sugar"}, names("SU"))
	assert.Equal(t, []string{"100%_juice"}, names("100%_"))
	assert.Empty(t, names("%"))
	assert.Empty(t, names("cream"))
}

func TestCatalogService_GetIngredient(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewCatalogService(db)
	ing := testhelpers.CreateTestIngredient(t, db, "eggs", "pcs")

	got, err := svc.GetIngredient(context.Background(), ing.ID)
	require.NoError(t, err)
	assert.Equal(t, types.IngredientView{ID: ing.ID, Name: "eggs", MeasurementUnit: "pcs"}, *got)

	_, err = svc.GetIngredient(context.Background(), 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCatalogService_ImportIngredients(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewCatalogService(db)
	ctx := context.Background()

	testhelpers.CreateTestIngredient(t, db, "flour", "g")

	csv := "name,measurement_unit\nflour,g\nmilk,ml\n\"salt, sea\",g\n"
	res, err := svc.ImportIngredients(ctx, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Read)
	assert.Equal(t, int64(2), res.Inserted)

	res, err = svc.ImportIngredients(ctx, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Inserted)

	all, err := svc.ListIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCatalogService_ImportIngredientsRejectsBadRows(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewCatalogService(db)

	_, err := svc.ImportIngredients(context.Background(), strings.NewReader("flour,g\nmilk\n"))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.ImportIngredients(context.Background(), strings.NewReader("flour,\n"))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCatalogService_ListIngredientsFoldsNonASCII(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewCatalogService(db)

	for _, name := range []string{"Сахар", "сахарная пудра", "соль", "Äpfel"} {
		testhelpers.CreateTestIngredient(t, db, name, "г")
	}

	names := func(prefix string) []string {
		list, err := svc.ListIngredients(context.Background(), prefix)
		require.NoError(t, err)
		out := make([]string, len(list))
		for i, ing := range list {
			out[i] = ing.Name
		}
		return out
	}

	assert.ElementsMatch(t, []string{"Сахар", "сахарная пудра"}, names("САХ"))
	assert.Equal(t, []string{"соль"}, names("Со"))
	assert.Equal(t, []string{"Äpfel"}, names("äp"))
}
