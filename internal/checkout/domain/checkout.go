package domain

import (
	"time"

	productdomain "github.com/ridloal/meoris-storefront/internal/product/domain"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
	StatusInvalid   Status = "invalid"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusCancelled, StatusExpired, StatusInvalid:
		return true
	}
	return false
}

// CanTransition reports whether a snapshot may move from one status to another.
// Only drafts move; every other status is terminal.
func CanTransition(from, to Status) bool {
	return from == StatusDraft && to != StatusDraft && to.Valid()
}

type Voucher struct {
	Code          string    `json:"voucher"`
	TotalPotongan int64     `json:"total_potongan"`
	Expired       time.Time `json:"expired"`
}

// PreCheckout is a price-locked snapshot of selected cart lines. Pricing fields never change
// after creation.
type PreCheckout struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	Subtotal       int64             `json:"subtotal"`
	VoucherCode    *string           `json:"voucher_code"`
	DiscountAmount int64             `json:"discount_amount"`
	TotalAmount    int64             `json:"total_amount"`
	Status         Status            `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Items          []PreCheckoutItem `json:"pra_checkout_items"`
}

type PreCheckoutItem struct {
	ID            string                 `json:"id"`
	PraCheckoutID string                 `json:"pra_checkout_id"`
	ProdukID      string                 `json:"produk_id"`
	Quantity      int                    `json:"quantity"`
	Size          *string                `json:"size"`
	HargaSatuan   int64                  `json:"harga_satuan"`
	SubtotalItem  int64                  `json:"subtotal_item"`
	CreatedAt     time.Time              `json:"created_at"`
	Produk        *productdomain.Summary `json:"produk,omitempty"`
}

// SnapshotLine is one input line of a snapshot with the unit price captured by the caller.
type SnapshotLine struct {
	ProdukID  string
	Quantity  int
	Size      *string
	UnitPrice int64
}

type Totals struct {
	Subtotal       int64
	DiscountAmount int64
	TotalAmount    int64
}

type CreateFromCartRequest struct {
	LineIDs     []string `json:"lineIds"`
	VoucherCode *string  `json:"voucherCode"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required"`
}
