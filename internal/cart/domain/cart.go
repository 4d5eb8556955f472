package domain

import (
	"time"

	productdomain "github.com/ridloal/meoris-storefront/internal/product/domain"
)

// Table is the cart table name; realtime events of cart lines carry it.
const Table = "keranjang"

// CartLine is one keranjang row. A nil Size is the "no size" line of a product.
type CartLine struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProdukID  string    `json:"produk_id"`
	Quantity  int       `json:"quantity"`
	Size      *string   `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItem is a line joined with its product. Produk is nil when the product has gone away.
type CartItem struct {
	CartLine
	Produk *productdomain.Summary `json:"produk"`
}

// LineTotal is the price of the line at the current product price.
func (i CartItem) LineTotal() int64 {
	if i.Produk == nil {
		return 0
	}
	return i.Produk.Harga * int64(i.Quantity)
}

type AddItemRequest struct {
	ProdukID string  `json:"produkId" binding:"required"`
	Quantity int     `json:"quantity"`
	Size     *string `json:"size"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SizeKey is the stored form of size: the empty string stands for "no size".
func SizeKey(size *string) string {
	if size == nil {
		return ""
	}
	return *size
}

// SizeFromKey is the inverse of SizeKey.
func SizeFromKey(key string) *string {
	if key == "" {
		return nil
	}
	return &key
}

// SameSize compares two optional sizes, treating nil only equal to nil.
func SameSize(a, b *string) bool {
	return SizeKey(a) == SizeKey(b)
}

// Count sums the quantities of items.
func Count(items []CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// Subtotal sums the line totals of items.
func Subtotal(items []CartItem) int64 {
	var total int64
	for _, it := range items {
		total += it.LineTotal()
	}
	return total
}
