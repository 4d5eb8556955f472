package domain

import (
	"time"

	productdomain "github.com/ridloal/meoris-storefront/internal/product/domain"
)

// Table is the favorites table name; realtime events of favorites carry it.
const Table = "favorit"

type FavoriteLine struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProdukID  string    `json:"produk_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteItem is a favorite joined with its product summary.
type FavoriteItem struct {
	FavoriteLine
	Produk *productdomain.Summary `json:"produk,omitempty"`
}

type AddFavoriteRequest struct {
	UserID   string `json:"userId"`
	ProdukID string `json:"produkId"`
}

type RemoveFavoriteRequest struct {
	FavoriteID string `json:"favoriteId"`
}

type ToggleResult struct {
	Favorite bool          `json:"favorite"`
	Line     *FavoriteLine `json:"favorit,omitempty"`
}

// Find returns the favorite of productID in items, or nil.
func Find(items []FavoriteItem, productID string) *FavoriteItem {
	for i := range items {
		if items[i].ProdukID == productID {
			return &items[i]
		}
	}
	return nil
}
