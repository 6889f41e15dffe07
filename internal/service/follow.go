package service

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodgram/backend/internal/apperr"
	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// FollowService manages author subscriptions.
type FollowService struct {
	db *gorm.DB
	presenter
}

// NewFollowService creates a new FollowService instance
func NewFollowService(db *gorm.DB, images ImageURLResolver) *FollowService {
	return &FollowService{db: db, presenter: presenter{images: images}}
}

// Subscribe makes actorID follow authorID and returns the author's
// subscription view with up to recipesLimit recipe previews.
func (s *FollowService) Subscribe(ctx context.Context, actorID, authorID uint, recipesLimit int) (*types.SubscriptionView, error) {
	var view types.SubscriptionView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		author, err := loadUser(ctx, tx, authorID)
		if err != nil {
			return err
		}
		if actorID == authorID {
			return apperr.InvalidOperation("you cannot subscribe to yourself")
		}

		var count int64
		if err := tx.Model(&models.Follow{}).Where("user_id = ? AND following_id = ?", actorID, authorID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.AlreadyExists("you are already subscribed to %s", author.Username)
		}

		follow := &models.Follow{UserID: actorID, FollowingID: authorID}
		if err := tx.Omit(clause.Associations).Create(follow).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.AlreadyExists("you are already subscribed to %s", author.Username)
			}
			return err
		}

		view, err = s.subscriptionView(tx, author, true, recipesLimit)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Debug().Uint("author_id", authorID).Msg("subscribed")
	return &view, nil
}

// Unsubscribe removes actorID's subscription to authorID.
func (s *FollowService) Unsubscribe(ctx context.Context, actorID, authorID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		author, err := loadUser(ctx, tx, authorID)
		if err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND following_id = ?", actorID, authorID).Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("you are not subscribed to %s", author.Username)
		}
		return nil
	})
}

// Subscriptions lists the authors actorID follows, ordered by username.
func (s *FollowService) Subscriptions(ctx context.Context, actorID uint, page types.Page, recipesLimit int) (*types.PageResult[types.SubscriptionView], error) {
	db := s.db.WithContext(ctx)
	followed := db.Model(&models.Follow{}).Select("following_id").Where("user_id = ?", actorID)

	result := &types.PageResult[types.SubscriptionView]{}
	if err := db.Model(&models.User{}).Where("id IN (?)", followed).Count(&result.Count).Error; err != nil {
		return nil, err
	}

	var authors []models.User
	err := db.Where("id IN (?)", followed).
		Order("username").
		Limit(page.Size()).Offset(page.Offset()).
		Find(&authors).Error
	if err != nil {
		return nil, err
	}

	result.Results = make([]types.SubscriptionView, len(authors))
	for i := range authors {
		view, err := s.subscriptionView(db, &authors[i], true, recipesLimit)
		if err != nil {
			return nil, err
		}
		result.Results[i] = view
	}
	return result, nil
}
