package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/apperr"
	"github.com/foodgram/backend/internal/types"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// AuthMiddleware creates a middleware that rejects requests without a valid token
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			AbortWithError(c, apperr.Unauthorized("authentication credentials were not provided"))
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through otherwise. A malformed or expired token is
// still rejected.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			AbortWithError(c, apperr.Unauthorized("invalid authorization header format"))
			return
		}
		claims, err := validator.ValidateToken(token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// UserID returns the authenticated user's id, or 0 for anonymous requests.
func UserID(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}

func setClaims(c *gin.Context, claims *types.TokenClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
}

// bearerToken accepts both "Bearer <jwt>" and "Token <jwt>".
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}
	if !strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
