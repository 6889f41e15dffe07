package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

// MockRecipeService is a mock implementation of service.IRecipeService
type MockRecipeService struct {
	mock.Mock
}

var _ service.IRecipeService = (*MockRecipeService)(nil)

func (m *MockRecipeService) Create(ctx context.Context, actorID uint, req *types.RecipeRequest) (*types.RecipeView, error) {
	args := m.Called(ctx, actorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeView), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, actorID, recipeID uint, req *types.RecipeRequest) (*types.RecipeView, error) {
	args := m.Called(ctx, actorID, recipeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeView), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, actorID, recipeID uint) error {
	args := m.Called(ctx, actorID, recipeID)
	return args.Error(0)
}

func (m *MockRecipeService) Get(ctx context.Context, viewerID, recipeID uint) (*types.RecipeView, error) {
	args := m.Called(ctx, viewerID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeView), args.Error(1)
}

func (m *MockRecipeService) List(ctx context.Context, viewerID uint, filter types.RecipeFilter, page types.Page) (*types.PageResult[types.RecipeView], error) {
	args := m.Called(ctx, viewerID, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PageResult[types.RecipeView]), args.Error(1)
}

// MockToggleService is a mock implementation of service.IToggleService
type MockToggleService struct {
	mock.Mock
}

var _ service.IToggleService = (*MockToggleService)(nil)

func (m *MockToggleService) Add(ctx context.Context, actorID, recipeID uint, c service.Collection) (*types.RecipeShortView, error) {
	args := m.Called(ctx, actorID, recipeID, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeShortView), args.Error(1)
}

func (m *MockToggleService) Remove(ctx context.Context, actorID, recipeID uint, c service.Collection) error {
	args := m.Called(ctx, actorID, recipeID, c)
	return args.Error(0)
}

// MockShoppingService is a mock implementation of service.IShoppingService
type MockShoppingService struct {
	mock.Mock
}

var _ service.IShoppingService = (*MockShoppingService)(nil)

func (m *MockShoppingService) Aggregate(ctx context.Context, userID uint) ([]service.ShoppingLine, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ShoppingLine), args.Error(1)
}

func (m *MockShoppingService) Report(ctx context.Context, userID uint) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}
