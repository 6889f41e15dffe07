package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

func TestTags(t *testing.T) {
	a := setupAPI(t)
	admin := testhelpers.CreateTestAdmin(t, a.db)
	user := testhelpers.CreateTestUser(t, a.db)
	body := map[string]string{"name": "Breakfast", "color": "#E26C2D", "slug": "breakfast"}

	w := a.do(http.MethodPost, "/api/tags", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, "/api/tags", body, a.token(user))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodPost, "/api/tags", map[string]string{"name": "X", "color": "orange", "slug": "x"}, a.token(admin))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/api/tags", body, a.token(admin))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var tag types.TagView
	decode(t, w, &tag)

	w = a.do(http.MethodGet, "/api/tags", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var tags []types.TagView
	decode(t, w, &tags)
	assert.Equal(t, []types.TagView{tag}, tags)

	w = a.do(http.MethodGet, fmt.Sprintf("/api/tags/%d", tag.ID), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/api/tags/999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIngredients(t *testing.T) {
	a := setupAPI(t)
	flour := testhelpers.CreateTestIngredient(t, a.db, "flour", "g")
	testhelpers.CreateTestIngredient(t, a.db, "fennel", "g")
	testhelpers.CreateTestIngredient(t, a.db, "milk", "ml")

	w := a.do(http.MethodGet, "/api/ingredients?name=F", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []types.IngredientView
	decode(t, w, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "fennel", list[0].Name)
	assert.Equal(t, "flour", list[1].Name)

	w = a.do(http.MethodGet, fmt.Sprintf("/api/ingredients/%d", flour.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var one types.IngredientView
	decode(t, w, &one)
	assert.Equal(t, "g", one.MeasurementUnit)
}
