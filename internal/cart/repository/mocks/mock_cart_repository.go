package mocks

import (
	"context"

	"github.com/ridloal/meoris-storefront/internal/cart/domain"
	"github.com/stretchr/testify/mock"
)

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]domain.CartItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartRepository) GetItem(ctx context.Context, userID, lineID string) (*domain.CartItem, error) {
	args := m.Called(ctx, userID, lineID)
	if v := args.Get(0); v != nil {
		return v.(*domain.CartItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartRepository) AddItem(ctx context.Context, userID, productID string, quantity int, size *string) (*domain.CartLine, error) {
	args := m.Called(ctx, userID, productID, quantity, size)
	if v := args.Get(0); v != nil {
		return v.(*domain.CartLine), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartRepository) UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.CartLine, error) {
	args := m.Called(ctx, userID, lineID, quantity)
	if v := args.Get(0); v != nil {
		return v.(*domain.CartLine), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartRepository) RemoveItem(ctx context.Context, userID, lineID string) (*domain.CartLine, error) {
	args := m.Called(ctx, userID, lineID)
	if v := args.Get(0); v != nil {
		return v.(*domain.CartLine), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartRepository) ClearCart(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
