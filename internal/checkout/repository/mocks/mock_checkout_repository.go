package mocks

import (
	"context"
	"time"

	"github.com/ridloal/meoris-storefront/internal/checkout/domain"
	"github.com/stretchr/testify/mock"
)

type MockPreCheckoutRepository struct {
	mock.Mock
}

func (m *MockPreCheckoutRepository) CreateWithItems(ctx context.Context, header *domain.PreCheckout, items []domain.PreCheckoutItem) error {
	args := m.Called(ctx, header, items)
	if args.Error(0) == nil {
		header.ID = "mocked-pra-checkout-id"
		if header.Status == "" {
			header.Status = domain.StatusDraft
		}
		header.Items = items
	}
	return args.Error(0)
}

func (m *MockPreCheckoutRepository) GetByID(ctx context.Context, id string) (*domain.PreCheckout, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.PreCheckout), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPreCheckoutRepository) ListByUser(ctx context.Context, userID string, status domain.Status) ([]domain.PreCheckout, error) {
	args := m.Called(ctx, userID, status)
	if v := args.Get(0); v != nil {
		return v.([]domain.PreCheckout), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPreCheckoutRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) (*domain.PreCheckout, error) {
	args := m.Called(ctx, id, from, to)
	if v := args.Get(0); v != nil {
		return v.(*domain.PreCheckout), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPreCheckoutRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPreCheckoutRepository) ExpireDraftsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPreCheckoutRepository) InvalidateEmptyDrafts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) GetValid(ctx context.Context, code string, now time.Time) (*domain.Voucher, error) {
	args := m.Called(ctx, code, now)
	if v := args.Get(0); v != nil {
		return v.(*domain.Voucher), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVoucherRepository) ListActive(ctx context.Context, now time.Time) ([]domain.Voucher, error) {
	args := m.Called(ctx, now)
	if v := args.Get(0); v != nil {
		return v.([]domain.Voucher), args.Error(1)
	}
	return nil, args.Error(1)
}
