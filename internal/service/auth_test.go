package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/foodgram/backend/internal/apperr"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

func newAuthService(t *testing.T) *service.AuthService {
	db := testhelpers.SetupSQLiteDB(t)
	return service.NewAuthService(db, "test-secret", time.Hour).WithBcryptCost(bcrypt.MinCost)
}

func registerRequest() *types.RegisterRequest {
	return &types.RegisterRequest{
		Email:     "Chef@Example.com",
		Username:  "chef",
		FirstName: "Julia",
		LastName:  "Child",
		Password:  "s3cret-pass",
	}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.Equal(t, "chef@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	token, err := svc.Login(ctx, "chef@example.com", "s3cret-pass")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "chef", claims.Username)
}

func TestAuthService_RegisterDuplicates(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	sameEmail := registerRequest()
	sameEmail.Username = "other"
	_, err = svc.Register(ctx, sameEmail)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	sameName := registerRequest()
	sameName.Email = "other@example.com"
	_, err = svc.Register(ctx, sameName)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestAuthService_RegisterRejectsReservedUsername(t *testing.T) {
	svc := newAuthService(t)

	req := registerRequest()
	req.Username = "me"
	_, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(ctx, "chef@example.com", "nope")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestAuthService_SetPassword(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	err = svc.SetPassword(ctx, user.ID, "wrong", "new-pass-123")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, svc.SetPassword(ctx, user.ID, "s3cret-pass", "new-pass-123"))

	_, err = svc.Login(ctx, "chef@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.Login(ctx, "chef@example.com", "new-pass-123")
	assert.NoError(t, err)
}

func TestAuthService_ValidateTokenRejects(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	user := testhelpers.CreateTestUser(t, db)

	svc := service.NewAuthService(db, "test-secret", time.Hour)
	other := service.NewAuthService(db, "other-secret", time.Hour)
	expired := service.NewAuthService(db, "test-secret", -time.Minute)

	_, err := svc.ValidateToken("invalid.token")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	foreign, err := other.GenerateToken(user)
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	stale, err := expired.GenerateToken(user)
	require.NoError(t, err)
	_, err = svc.ValidateToken(stale)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
