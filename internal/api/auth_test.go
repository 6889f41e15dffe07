package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/types"
)

func TestRegisterLoginFlow(t *testing.T) {
	a := setupAPI(t)

	w := a.do(http.MethodPost, "/api/users", map[string]string{
		"email":      "julia@example.com",
		"username":   "julia",
		"first_name": "Julia",
		"last_name":  "Child",
		"password":   "bon-appetit",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]interface{}
	decode(t, w, &created)
	assert.Equal(t, "julia", created["username"])
	assert.NotContains(t, created, "password")

	w = a.do(http.MethodPost, "/api/auth/token/login", map[string]string{
		"email":    "julia@example.com",
		"password": "bon-appetit",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var token types.TokenResponse
	decode(t, w, &token)
	require.NotEmpty(t, token.AuthToken)

	w = a.do(http.MethodGet, "/api/users/me", nil, token.AuthToken)
	require.Equal(t, http.StatusOK, w.Code)
	var me types.UserView
	decode(t, w, &me)
	assert.Equal(t, "julia@example.com", me.Email)

	w = a.do(http.MethodPost, "/api/users/set_password", map[string]string{
		"current_password": "bon-appetit",
		"new_password":     "mastering-the-art",
	}, token.AuthToken)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(http.MethodPost, "/api/auth/token/logout", nil, token.AuthToken)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(http.MethodPost, "/api/auth/token/login", map[string]string{
		"email":    "julia@example.com",
		"password": "bon-appetit",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	a := setupAPI(t)

	tests := []struct {
		name  string
		body  map[string]string
		field string
	}{
		{
			name:  "reserved username",
			body:  map[string]string{"email": "me@example.com", "username": "me", "first_name": "A", "last_name": "B", "password": "pw"},
			field: "username",
		},
		{
			name:  "bad charset",
			body:  map[string]string{"email": "x@example.com", "username": "chef@home", "first_name": "A", "last_name": "B", "password": "pw"},
			field: "username",
		},
		{
			name:  "bad email",
			body:  map[string]string{"email": "nope", "username": "chef", "first_name": "A", "last_name": "B", "password": "pw"},
			field: "email",
		},
		{
			name:  "missing first name",
			body:  map[string]string{"email": "a@example.com", "username": "chef", "last_name": "B", "password": "pw"},
			field: "first_name",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.do(http.MethodPost, "/api/users", tt.body, "")
			require.Equal(t, http.StatusBadRequest, w.Code)
			var body struct {
				Details map[string][]string `json:"details"`
			}
			decode(t, w, &body)
			assert.Contains(t, body.Details, tt.field)
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := setupAPI(t)

	for _, path := range []string{"/api/users/me", "/api/users/subscriptions", "/api/recipes/download_shopping_cart"} {
		w := a.do(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		var body middleware.ErrorResponse
		decode(t, w, &body)
		assert.NotEmpty(t, body.Errors)
	}

	w := a.do(http.MethodGet, "/api/users/me", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
