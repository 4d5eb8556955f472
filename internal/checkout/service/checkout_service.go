package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	cartdomain "github.com/ridloal/meoris-storefront/internal/cart/domain"
	"github.com/ridloal/meoris-storefront/internal/checkout/domain"
	"github.com/ridloal/meoris-storefront/internal/checkout/repository"
	"github.com/ridloal/meoris-storefront/internal/platform/apperr"
	"github.com/ridloal/meoris-storefront/internal/platform/database"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
)

var ErrIllegalTransition = apperr.Conflict("illegal pre-checkout status transition")

// CartReader is the part of the cart repository a snapshot is built from.
type CartReader interface {
	GetByUser(ctx context.Context, userID string) ([]cartdomain.CartItem, error)
}

type CheckoutService interface {
	ValidateVoucher(ctx context.Context, code string) (*domain.Voucher, error)
	ActiveVouchers(ctx context.Context) ([]domain.Voucher, error)

	Create(ctx context.Context, userID string, lines []domain.SnapshotLine, voucherCode *string, discount int64) (*domain.PreCheckout, error)
	CreateFromCart(ctx context.Context, userID string, req domain.CreateFromCartRequest) (*domain.PreCheckout, error)
	Get(ctx context.Context, userID, id string) (*domain.PreCheckout, error)
	ListByUser(ctx context.Context, userID string, status domain.Status) ([]domain.PreCheckout, error)
	UpdateStatus(ctx context.Context, userID, id string, status domain.Status) (*domain.PreCheckout, error)
	Submit(ctx context.Context, userID, id string) (*domain.PreCheckout, error)
	Delete(ctx context.Context, userID, id string) (bool, error)

	// ProcessStaleDrafts expires drafts older than ttl and invalidates drafts without items.
	ProcessStaleDrafts(ctx context.Context, ttl time.Duration) (expired, invalidated int64, err error)
}

type checkoutService struct {
	preCheckouts repository.PreCheckoutRepository
	vouchers     repository.VoucherRepository
	cart         CartReader
	now          func() time.Time
}

func NewCheckoutService(pr repository.PreCheckoutRepository, vr repository.VoucherRepository, cart CartReader) CheckoutService {
	return &checkoutService{
		preCheckouts: pr,
		vouchers:     vr,
		cart:         cart,
		now:          database.Now,
	}
}

// Assemble prices lines: subtotal is the sum of unit price times quantity and the total is
// subtotal minus discount, never below zero. A negative discount counts as zero.
func Assemble(lines []domain.SnapshotLine, discount int64) (domain.Totals, []domain.PreCheckoutItem) {
	if discount < 0 {
		discount = 0
	}
	items := make([]domain.PreCheckoutItem, len(lines))
	var subtotal int64
	for i, l := range lines {
		lineTotal := l.UnitPrice * int64(l.Quantity)
		subtotal += lineTotal
		items[i] = domain.PreCheckoutItem{
			ProdukID:     l.ProdukID,
			Quantity:     l.Quantity,
			Size:         l.Size,
			HargaSatuan:  l.UnitPrice,
			SubtotalItem: lineTotal,
		}
	}
	total := subtotal - discount
	if total < 0 {
		total = 0
	}
	return domain.Totals{Subtotal: subtotal, DiscountAmount: discount, TotalAmount: total}, items
}

// ValidateVoucher returns the unexpired voucher for code, or nil when there is none.
func (s *checkoutService) ValidateVoucher(ctx context.Context, code string) (*domain.Voucher, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, nil
	}
	v, err := s.vouchers.GetValid(ctx, code, s.now())
	if err != nil {
		return nil, apperr.Backend(err)
	}
	return v, nil
}

func (s *checkoutService) ActiveVouchers(ctx context.Context) ([]domain.Voucher, error) {
	vs, err := s.vouchers.ListActive(ctx, s.now())
	if err != nil {
		return nil, apperr.Backend(err)
	}
	return vs, nil
}

func (s *checkoutService) Create(ctx context.Context, userID string, lines []domain.SnapshotLine, voucherCode *string, discount int64) (*domain.PreCheckout, error) {
	if userID == "" {
		return nil, apperr.Validation("user id is required")
	}
	if len(lines) == 0 {
		return nil, apperr.Validation("at least one line is required")
	}
	for _, l := range lines {
		if l.ProdukID == "" || l.Quantity < 1 || l.UnitPrice < 0 {
			return nil, apperr.Validationf("invalid line for product %q: quantity %d, price %d", l.ProdukID, l.Quantity, l.UnitPrice)
		}
	}

	totals, items := Assemble(lines, discount)
	header := &domain.PreCheckout{
		UserID:         userID,
		Subtotal:       totals.Subtotal,
		VoucherCode:    voucherCode,
		DiscountAmount: totals.DiscountAmount,
		TotalAmount:    totals.TotalAmount,
		Status:         domain.StatusDraft,
	}
	if err := s.preCheckouts.CreateWithItems(ctx, header, items); err != nil {
		logger.Error("Create: failed to store pre-checkout", err, logger.Fields{"user_id": userID})
		return nil, apperr.Backend(fmt.Errorf("could not save pre-checkout: %w", err))
	}
	logger.Info("Pre-checkout created", logger.Fields{"id": header.ID, "user_id": userID, "total": header.TotalAmount})
	return header, nil
}

// CreateFromCart snapshots the user's cart, or the selected lines of it, at current prices.
// An unknown or expired voucher simply gives no discount.
func (s *checkoutService) CreateFromCart(ctx context.Context, userID string, req domain.CreateFromCartRequest) (*domain.PreCheckout, error) {
	cartItems, err := s.cart.GetByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Backend(err)
	}
	selected, err := selectLines(cartItems, req.LineIDs)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.SnapshotLine, 0, len(selected))
	for _, it := range selected {
		if it.Produk == nil {
			return nil, apperr.Validationf("product %s is no longer available", it.ProdukID)
		}
		lines = append(lines, domain.SnapshotLine{
			ProdukID:  it.ProdukID,
			Quantity:  it.Quantity,
			Size:      it.Size,
			UnitPrice: it.Produk.Harga,
		})
	}

	var (
		code     *string
		discount int64
	)
	if req.VoucherCode != nil {
		v, err := s.ValidateVoucher(ctx, *req.VoucherCode)
		if err != nil {
			logger.Warn("CreateFromCart: voucher lookup failed, continuing without discount", logger.Fields{"user_id": userID})
		} else if v != nil {
			code, discount = &v.Code, v.TotalPotongan
		}
	}
	return s.Create(ctx, userID, lines, code, discount)
}

func selectLines(items []cartdomain.CartItem, lineIDs []string) ([]cartdomain.CartItem, error) {
	if len(items) == 0 {
		return nil, apperr.Validation("cart is empty")
	}
	if len(lineIDs) == 0 {
		return items, nil
	}
	byID := make(map[string]cartdomain.CartItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	out := make([]cartdomain.CartItem, 0, len(lineIDs))
	seen := make(map[string]bool, len(lineIDs))
	for _, id := range lineIDs {
		it, ok := byID[id]
		if !ok {
			return nil, apperr.Validationf("cart line %s not found", id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, it)
	}
	return out, nil
}

func (s *checkoutService) Get(ctx context.Context, userID, id string) (*domain.PreCheckout, error) {
	pc, err := s.preCheckouts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPreCheckoutNotFound) {
			return nil, err
		}
		return nil, apperr.Backend(err)
	}
	if pc.UserID != userID {
		return nil, repository.ErrPreCheckoutNotFound
	}
	return pc, nil
}

func (s *checkoutService) ListByUser(ctx context.Context, userID string, status domain.Status) ([]domain.PreCheckout, error) {
	if status == "" {
		status = domain.StatusDraft
	}
	if !status.Valid() {
		return nil, apperr.Validationf("unknown status %q", status)
	}
	list, err := s.preCheckouts.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, apperr.Backend(err)
	}
	return list, nil
}

func (s *checkoutService) UpdateStatus(ctx context.Context, userID, id string, status domain.Status) (*domain.PreCheckout, error) {
	if !status.Valid() {
		return nil, apperr.Validationf("unknown status %q", status)
	}
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(current.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current.Status, status)
	}
	updated, err := s.preCheckouts.UpdateStatus(ctx, id, current.Status, status)
	if err != nil {
		if errors.Is(err, repository.ErrStatusChanged) || errors.Is(err, repository.ErrPreCheckoutNotFound) {
			return nil, err
		}
		return nil, apperr.Backend(err)
	}
	return updated, nil
}

// Submit hands a draft to payment. Payment itself is outside this service, so submitting only
// records the transition.
func (s *checkoutService) Submit(ctx context.Context, userID, id string) (*domain.PreCheckout, error) {
	return s.UpdateStatus(ctx, userID, id, domain.StatusSubmitted)
}

func (s *checkoutService) Delete(ctx context.Context, userID, id string) (bool, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrPreCheckoutNotFound) {
			return false, nil
		}
		return false, err
	}
	ok, err := s.preCheckouts.Delete(ctx, id)
	if err != nil {
		return false, apperr.Backend(err)
	}
	return ok, nil
}

func (s *checkoutService) ProcessStaleDrafts(ctx context.Context, ttl time.Duration) (int64, int64, error) {
	invalidated, err := s.preCheckouts.InvalidateEmptyDrafts(ctx)
	if err != nil {
		return 0, 0, apperr.Backend(err)
	}
	expired, err := s.preCheckouts.ExpireDraftsOlderThan(ctx, s.now().Add(-ttl))
	if err != nil {
		return 0, invalidated, apperr.Backend(err)
	}
	return expired, invalidated, nil
}
