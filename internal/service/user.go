package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// UserService serves user profile reads.
type UserService struct {
	db *gorm.DB
	presenter
}

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// List returns users ordered by username.
func (s *UserService) List(ctx context.Context, viewerID uint, page types.Page) (*types.PageResult[types.UserView], error) {
	db := s.db.WithContext(ctx)

	result := &types.PageResult[types.UserView]{}
	if err := db.Model(&models.User{}).Count(&result.Count).Error; err != nil {
		return nil, err
	}

	var users []models.User
	if err := db.Order("username").Limit(page.Size()).Offset(page.Offset()).Find(&users).Error; err != nil {
		return nil, err
	}

	views, err := s.userViews(db, viewerID, users)
	if err != nil {
		return nil, err
	}
	result.Results = views
	return result, nil
}

// Get returns one user as seen by viewerID.
func (s *UserService) Get(ctx context.Context, viewerID, userID uint) (*types.UserView, error) {
	user, err := loadUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	views, err := s.userViews(s.db.WithContext(ctx), viewerID, []models.User{*user})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Me returns the caller's own profile.
func (s *UserService) Me(ctx context.Context, actorID uint) (*types.UserView, error) {
	user, err := loadUser(ctx, s.db, actorID)
	if err != nil {
		return nil, err
	}
	view := userView(user, false)
	return &view, nil
}
