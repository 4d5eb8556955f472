package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ridloal/meoris-storefront/internal/cart/domain"
	"github.com/ridloal/meoris-storefront/internal/cart/repository"
	"github.com/ridloal/meoris-storefront/internal/cart/repository/mocks"
	"github.com/ridloal/meoris-storefront/internal/platform/apperr"
	productdomain "github.com/ridloal/meoris-storefront/internal/product/domain"
	productrepo "github.com/ridloal/meoris-storefront/internal/product/repository"
	productmocks "github.com/ridloal/meoris-storefront/internal/product/repository/mocks"
	rtdomain "github.com/ridloal/meoris-storefront/internal/realtime/domain"
	realtime "github.com/ridloal/meoris-storefront/internal/realtime/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func kemeja() *productdomain.Product {
	return &productdomain.Product{ID: "p1", NamaProduk: "Kemeja", Harga: 100000, Size1: strPtr("M"), Size2: strPtr("L")}
}

type fixture struct {
	repo     *mocks.MockCartRepository
	products *productmocks.MockProductRepository
	hub      *realtime.Hub
	events   <-chan rtdomain.Event
	svc      CartService
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		repo:     new(mocks.MockCartRepository),
		products: new(productmocks.MockProductRepository),
		hub:      realtime.NewHub(8),
	}
	sub := f.hub.Subscribe(rtdomain.Filter{Table: Table, Column: "user_id", Value: "u1"})
	t.Cleanup(sub.Close)
	f.events = sub.Events()
	f.svc = NewCartService(f.repo, f.products, f.hub)
	return f
}

func TestCartService_AddItem(t *testing.T) {
	ctx := realtime.WithOrigin(context.TODO(), "client-a")

	t.Run("New line publishes an insert with the caller origin", func(t *testing.T) {
		f := newFixture(t)
		f.products.On("GetProductByID", ctx, "p1").Return(kemeja(), nil).Once()
		f.repo.On("AddItem", ctx, "u1", "p1", 2, strPtr("M")).
			Return(&domain.CartLine{ID: "l1", UserID: "u1", ProdukID: "p1", Quantity: 2, Size: strPtr("M")}, nil).Once()

		item, err := f.svc.AddItem(ctx, "u1", domain.AddItemRequest{ProdukID: "p1", Quantity: 2, Size: strPtr(" M ")})

		require.NoError(t, err)
		assert.Equal(t, 2, item.Quantity)
		require.NotNil(t, item.Produk)
		assert.Equal(t, int64(100000), item.Produk.Harga)

		ev := <-f.events
		assert.Equal(t, rtdomain.EventInsert, ev.Type)
		assert.Equal(t, "client-a", ev.Origin)
		f.repo.AssertExpectations(t)
		f.products.AssertExpectations(t)
	})

	t.Run("Existing line publishes an update", func(t *testing.T) {
		f := newFixture(t)
		f.products.On("GetProductByID", ctx, "p1").Return(kemeja(), nil).Once()
		f.repo.On("AddItem", ctx, "u1", "p1", 1, (*string)(nil)).
			Return(&domain.CartLine{ID: "l1", UserID: "u1", ProdukID: "p1", Quantity: 3}, nil).Once()

		item, err := f.svc.AddItem(ctx, "u1", domain.AddItemRequest{ProdukID: "p1"})

		require.NoError(t, err)
		assert.Equal(t, 3, item.Quantity)
		assert.Equal(t, rtdomain.EventUpdate, (<-f.events).Type)
	})

	t.Run("Blank size means no size", func(t *testing.T) {
		f := newFixture(t)
		f.products.On("GetProductByID", ctx, "p1").Return(kemeja(), nil).Once()
		f.repo.On("AddItem", ctx, "u1", "p1", 1, (*string)(nil)).
			Return(&domain.CartLine{ID: "l1", UserID: "u1", ProdukID: "p1", Quantity: 1}, nil).Once()

		_, err := f.svc.AddItem(ctx, "u1", domain.AddItemRequest{ProdukID: "p1", Size: strPtr("  ")})
		require.NoError(t, err)
		f.repo.AssertExpectations(t)
	})

	t.Run("Validation", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.AddItem(ctx, "u1", domain.AddItemRequest{ProdukID: ""})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = f.svc.AddItem(ctx, "u1", domain.AddItemRequest{ProdukID: "p1", Quantity: -1})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		f.products.On("GetProductByID", ctx, "p1").Return(kemeja(), nil).Once()
		_, err = f.svc.AddItem(ctx, "u1", domain.AddItemRequest{ProdukID: "p1", Size: strPtr("XXL")})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		f.products.On("GetProductByID", ctx, "gone").Return(nil, productrepo.ErrProductNotFound).Once()
		_, err = f.svc.AddItem(ctx, "u1", domain.AddItemRequest{ProdukID: "gone"})
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		f.repo.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.events)
	})

	t.Run("Backend failure publishes nothing", func(t *testing.T) {
		f := newFixture(t)
		f.products.On("GetProductByID", ctx, "p1").Return(kemeja(), nil).Once()
		f.repo.On("AddItem", ctx, "u1", "p1", 1, (*string)(nil)).Return(nil, errors.New("db down")).Once()

		_, err := f.svc.AddItem(ctx, "u1", domain.AddItemRequest{ProdukID: "p1"})

		assert.ErrorIs(t, err, apperr.ErrBackend)
		assert.Empty(t, f.events)
	})
}

func TestCartService_UpdateQuantity(t *testing.T) {
	ctx := context.TODO()

	t.Run("Rejects non-positive quantities", func(t *testing.T) {
		f := newFixture(t)
		for _, q := range []int{0, -3} {
			_, err := f.svc.UpdateQuantity(ctx, "u1", "l1", q)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		}
		f.repo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Updates and returns the joined line", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("UpdateQuantity", ctx, "u1", "l1", 5).Return(&domain.CartLine{ID: "l1", UserID: "u1", Quantity: 5}, nil).Once()
		f.repo.On("GetItem", ctx, "u1", "l1").Return(&domain.CartItem{
			CartLine: domain.CartLine{ID: "l1", UserID: "u1", Quantity: 5},
			Produk:   &productdomain.Summary{ID: "p1", Harga: 1000},
		}, nil).Once()

		item, err := f.svc.UpdateQuantity(ctx, "u1", "l1", 5)

		require.NoError(t, err)
		assert.Equal(t, int64(5000), item.LineTotal())
		assert.Equal(t, rtdomain.EventUpdate, (<-f.events).Type)
		f.repo.AssertExpectations(t)
	})

	t.Run("Missing line", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("UpdateQuantity", ctx, "u1", "nope", 2).Return(nil, repository.ErrCartLineNotFound).Once()

		_, err := f.svc.UpdateQuantity(ctx, "u1", "nope", 2)
		assert.ErrorIs(t, err, repository.ErrCartLineNotFound)
	})
}

func TestCartService_RemoveItem(t *testing.T) {
	ctx := context.TODO()
	f := newFixture(t)

	f.repo.On("RemoveItem", ctx, "u1", "l1").Return(&domain.CartLine{ID: "l1", UserID: "u1"}, nil).Once()
	removed, err := f.svc.RemoveItem(ctx, "u1", "l1")
	require.NoError(t, err)
	assert.True(t, removed)
	ev := <-f.events
	assert.Equal(t, rtdomain.EventDelete, ev.Type)
	assert.JSONEq(t, `"l1"`, mustField(t, ev.OldRecord, "id"))

	// absent line is not an error
	f.repo.On("RemoveItem", ctx, "u1", "l1").Return(nil, nil).Once()
	removed, err = f.svc.RemoveItem(ctx, "u1", "l1")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Empty(t, f.events)

	f.repo.On("RemoveItem", ctx, "u1", "l2").Return(nil, errors.New("timeout")).Once()
	_, err = f.svc.RemoveItem(ctx, "u1", "l2")
	assert.ErrorIs(t, err, apperr.ErrBackend)
	f.repo.AssertExpectations(t)
}

func mustField(t *testing.T, raw []byte, key string) string {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	b, err := json.Marshal(m[key])
	require.NoError(t, err)
	return string(b)
}
