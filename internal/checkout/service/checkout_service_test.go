package service

import (
	"context"
	"errors"
	"testing"
	"time"

	cartdomain "github.com/ridloal/meoris-storefront/internal/cart/domain"
	"github.com/ridloal/meoris-storefront/internal/checkout/domain"
	"github.com/ridloal/meoris-storefront/internal/checkout/repository"
	"github.com/ridloal/meoris-storefront/internal/checkout/repository/mocks"
	"github.com/ridloal/meoris-storefront/internal/platform/apperr"
	productdomain "github.com/ridloal/meoris-storefront/internal/product/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubCart struct {
	items []cartdomain.CartItem
	err   error
}

func (s stubCart) GetByUser(ctx context.Context, userID string) ([]cartdomain.CartItem, error) {
	return s.items, s.err
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newService(pr *mocks.MockPreCheckoutRepository, vr *mocks.MockVoucherRepository, cart CartReader) *checkoutService {
	s := NewCheckoutService(pr, vr, cart).(*checkoutService)
	s.now = func() time.Time { return fixedNow }
	return s
}

func strPtr(s string) *string { return &s }

func TestAssemble(t *testing.T) {
	lines := []domain.SnapshotLine{
		{ProdukID: "p1", Quantity: 2, UnitPrice: 100000, Size: strPtr("M")},
		{ProdukID: "p2", Quantity: 1, UnitPrice: 25000},
	}

	totals, items := Assemble(lines, 50000)
	assert.Equal(t, domain.Totals{Subtotal: 225000, DiscountAmount: 50000, TotalAmount: 175000}, totals)
	require.Len(t, items, 2)
	assert.Equal(t, int64(200000), items[0].SubtotalItem)
	assert.Equal(t, "M", *items[0].Size)
	assert.Nil(t, items[1].Size)

	t.Run("Discount above subtotal clamps to zero", func(t *testing.T) {
		totals, _ := Assemble(lines, 1000000)
		assert.Equal(t, int64(0), totals.TotalAmount)
		assert.Equal(t, int64(1000000), totals.DiscountAmount)
	})

	t.Run("Negative discount counts as zero", func(t *testing.T) {
		totals, _ := Assemble(lines, -10)
		assert.Equal(t, int64(0), totals.DiscountAmount)
		assert.Equal(t, totals.Subtotal, totals.TotalAmount)
	})
}

func TestCheckoutService_Create_ScenarioB(t *testing.T) {
	ctx := context.TODO()
	pr := new(mocks.MockPreCheckoutRepository)
	svc := newService(pr, new(mocks.MockVoucherRepository), stubCart{})

	pr.On("CreateWithItems", ctx, mock.MatchedBy(func(h *domain.PreCheckout) bool {
		return h.Subtotal == 200000 && h.DiscountAmount == 50000 && h.TotalAmount == 150000 && h.Status == domain.StatusDraft
	}), mock.Anything).Return(nil).Once()

	pc, err := svc.Create(ctx, "u1", []domain.SnapshotLine{{ProdukID: "p1", Quantity: 2, UnitPrice: 100000}}, strPtr("DISC50"), 50000)

	require.NoError(t, err)
	assert.Equal(t, int64(150000), pc.TotalAmount)
	assert.Equal(t, "DISC50", *pc.VoucherCode)
	require.Len(t, pc.Items, 1)
	assert.Equal(t, int64(200000), pc.Items[0].SubtotalItem)
	pr.AssertExpectations(t)
}

func TestCheckoutService_Create_Failures(t *testing.T) {
	ctx := context.TODO()
	pr := new(mocks.MockPreCheckoutRepository)
	svc := newService(pr, new(mocks.MockVoucherRepository), stubCart{})

	_, err := svc.Create(ctx, "u1", nil, nil, 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(ctx, "u1", []domain.SnapshotLine{{ProdukID: "p1", Quantity: 0, UnitPrice: 1}}, nil, 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	pr.On("CreateWithItems", ctx, mock.Anything, mock.Anything).Return(errors.New("tx aborted")).Once()
	_, err = svc.Create(ctx, "u1", []domain.SnapshotLine{{ProdukID: "p1", Quantity: 1, UnitPrice: 1}}, nil, 0)
	assert.ErrorIs(t, err, apperr.ErrBackend)
	pr.AssertExpectations(t)
}

func TestCheckoutService_ValidateVoucher(t *testing.T) {
	ctx := context.TODO()
	vr := new(mocks.MockVoucherRepository)
	svc := newService(new(mocks.MockPreCheckoutRepository), vr, stubCart{})

	vr.On("GetValid", ctx, "DISC50", fixedNow).Return(&domain.Voucher{Code: "DISC50", TotalPotongan: 50000}, nil).Once()
	v, err := svc.ValidateVoucher(ctx, " disc50 ")
	require.NoError(t, err)
	assert.Equal(t, int64(50000), v.TotalPotongan)

	vr.On("GetValid", ctx, "OLD", fixedNow).Return(nil, nil).Once()
	v, err = svc.ValidateVoucher(ctx, "old")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = svc.ValidateVoucher(ctx, "  ")
	require.NoError(t, err)
	assert.Nil(t, v)

	vr.On("GetValid", ctx, "X", fixedNow).Return(nil, errors.New("down")).Once()
	_, err = svc.ValidateVoucher(ctx, "x")
	assert.ErrorIs(t, err, apperr.ErrBackend)
	vr.AssertExpectations(t)
}

func TestCheckoutService_CreateFromCart(t *testing.T) {
	ctx := context.TODO()
	cart := stubCart{items: []cartdomain.CartItem{
		{CartLine: cartdomain.CartLine{ID: "l1", ProdukID: "p1", Quantity: 2, Size: strPtr("M")}, Produk: &productdomain.Summary{ID: "p1", Harga: 100000}},
		{CartLine: cartdomain.CartLine{ID: "l2", ProdukID: "p2", Quantity: 1}, Produk: &productdomain.Summary{ID: "p2", Harga: 30000}},
	}}

	t.Run("Selected lines with a valid voucher", func(t *testing.T) {
		pr := new(mocks.MockPreCheckoutRepository)
		vr := new(mocks.MockVoucherRepository)
		svc := newService(pr, vr, cart)

		vr.On("GetValid", ctx, "DISC50", fixedNow).Return(&domain.Voucher{Code: "DISC50", TotalPotongan: 50000}, nil).Once()
		pr.On("CreateWithItems", ctx, mock.Anything, mock.MatchedBy(func(items []domain.PreCheckoutItem) bool {
			return len(items) == 1 && items[0].ProdukID == "p1" && items[0].HargaSatuan == 100000
		})).Return(nil).Once()

		pc, err := svc.CreateFromCart(ctx, "u1", domain.CreateFromCartRequest{LineIDs: []string{"l1", "l1"}, VoucherCode: strPtr("disc50")})

		require.NoError(t, err)
		assert.Equal(t, int64(200000), pc.Subtotal)
		assert.Equal(t, int64(150000), pc.TotalAmount)
		pr.AssertExpectations(t)
		vr.AssertExpectations(t)
	})

	t.Run("Unknown voucher means no discount", func(t *testing.T) {
		pr := new(mocks.MockPreCheckoutRepository)
		vr := new(mocks.MockVoucherRepository)
		svc := newService(pr, vr, cart)

		vr.On("GetValid", ctx, "NOPE", fixedNow).Return(nil, nil).Once()
		pr.On("CreateWithItems", ctx, mock.Anything, mock.Anything).Return(nil).Once()

		pc, err := svc.CreateFromCart(ctx, "u1", domain.CreateFromCartRequest{VoucherCode: strPtr("nope")})

		require.NoError(t, err)
		assert.Nil(t, pc.VoucherCode)
		assert.Equal(t, int64(0), pc.DiscountAmount)
		assert.Equal(t, int64(230000), pc.TotalAmount)
	})

	t.Run("Voucher backend failure also means no discount", func(t *testing.T) {
		pr := new(mocks.MockPreCheckoutRepository)
		vr := new(mocks.MockVoucherRepository)
		svc := newService(pr, vr, cart)

		vr.On("GetValid", ctx, "DISC50", fixedNow).Return(nil, errors.New("down")).Once()
		pr.On("CreateWithItems", ctx, mock.Anything, mock.Anything).Return(nil).Once()

		pc, err := svc.CreateFromCart(ctx, "u1", domain.CreateFromCartRequest{VoucherCode: strPtr("DISC50")})

		require.NoError(t, err)
		assert.Equal(t, int64(0), pc.DiscountAmount)
	})

	t.Run("Empty cart and unknown line", func(t *testing.T) {
		svc := newService(new(mocks.MockPreCheckoutRepository), new(mocks.MockVoucherRepository), stubCart{})
		_, err := svc.CreateFromCart(ctx, "u1", domain.CreateFromCartRequest{})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		svc = newService(new(mocks.MockPreCheckoutRepository), new(mocks.MockVoucherRepository), cart)
		_, err = svc.CreateFromCart(ctx, "u1", domain.CreateFromCartRequest{LineIDs: []string{"l9"}})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestCheckoutService_UpdateStatus(t *testing.T) {
	ctx := context.TODO()
	pr := new(mocks.MockPreCheckoutRepository)
	svc := newService(pr, new(mocks.MockVoucherRepository), stubCart{})

	draft := &domain.PreCheckout{ID: "pc1", UserID: "u1", Status: domain.StatusDraft}
	submitted := &domain.PreCheckout{ID: "pc1", UserID: "u1", Status: domain.StatusSubmitted}

	pr.On("GetByID", ctx, "pc1").Return(draft, nil).Once()
	pr.On("UpdateStatus", ctx, "pc1", domain.StatusDraft, domain.StatusSubmitted).Return(submitted, nil).Once()
	pc, err := svc.Submit(ctx, "u1", "pc1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSubmitted, pc.Status)

	pr.On("GetByID", ctx, "pc1").Return(submitted, nil).Once()
	_, err = svc.UpdateStatus(ctx, "u1", "pc1", domain.StatusCancelled)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.UpdateStatus(ctx, "u1", "pc1", domain.Status("paid"))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// another user's snapshot is invisible
	pr.On("GetByID", ctx, "pc1").Return(draft, nil).Once()
	_, err = svc.UpdateStatus(ctx, "u2", "pc1", domain.StatusCancelled)
	assert.ErrorIs(t, err, repository.ErrPreCheckoutNotFound)
	pr.AssertExpectations(t)
}

func TestCheckoutService_ListDefaultsToDraft(t *testing.T) {
	ctx := context.TODO()
	pr := new(mocks.MockPreCheckoutRepository)
	svc := newService(pr, new(mocks.MockVoucherRepository), stubCart{})

	pr.On("ListByUser", ctx, "u1", domain.StatusDraft).Return([]domain.PreCheckout{}, nil).Once()
	_, err := svc.ListByUser(ctx, "u1", "")
	require.NoError(t, err)

	_, err = svc.ListByUser(ctx, "u1", "bogus")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	pr.AssertExpectations(t)
}

func TestCheckoutService_ProcessStaleDrafts(t *testing.T) {
	ctx := context.TODO()
	pr := new(mocks.MockPreCheckoutRepository)
	svc := newService(pr, new(mocks.MockVoucherRepository), stubCart{})

	pr.On("InvalidateEmptyDrafts", ctx).Return(int64(1), nil).Once()
	pr.On("ExpireDraftsOlderThan", ctx, fixedNow.Add(-time.Hour)).Return(int64(3), nil).Once()

	expired, invalidated, err := svc.ProcessStaleDrafts(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), expired)
	assert.Equal(t, int64(1), invalidated)
	pr.AssertExpectations(t)
}
