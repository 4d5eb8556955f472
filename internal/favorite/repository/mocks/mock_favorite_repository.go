package mocks

import (
	"context"

	"github.com/ridloal/meoris-storefront/internal/favorite/domain"
	"github.com/stretchr/testify/mock"
)

type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) GetByUser(ctx context.Context, userID string) ([]domain.FavoriteItem, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]domain.FavoriteItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFavoriteRepository) GetByID(ctx context.Context, id string) (*domain.FavoriteLine, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.FavoriteLine), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFavoriteRepository) IsFavorite(ctx context.Context, userID, productID string) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) Add(ctx context.Context, userID, productID string) (*domain.FavoriteLine, error) {
	args := m.Called(ctx, userID, productID)
	if v := args.Get(0); v != nil {
		return v.(*domain.FavoriteLine), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFavoriteRepository) Remove(ctx context.Context, userID, favoriteID string) (*domain.FavoriteLine, error) {
	args := m.Called(ctx, userID, favoriteID)
	if v := args.Get(0); v != nil {
		return v.(*domain.FavoriteLine), args.Error(1)
	}
	return nil, args.Error(1)
}
