package mocks

import (
	"context"

	"github.com/ridloal/meoris-storefront/internal/product/domain"
	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	args := m.Called(ctx, limit, offset)
	if p := args.Get(0); p != nil {
		return p.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) ListByCategory(ctx context.Context, kategori string, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, kategori, limit)
	if p := args.Get(0); p != nil {
		return p.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}
