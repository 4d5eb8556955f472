package client

import (
	"context"
	"net/http"
	"net/url"

	favdomain "github.com/ridloal/meoris-storefront/internal/favorite/domain"
)

func (c *Client) Favorites(ctx context.Context) ([]favdomain.FavoriteItem, error) {
	var resp struct {
		Favorites []favdomain.FavoriteItem `json:"favorites"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/favorites", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Favorites, nil
}

func (c *Client) AddFavorite(ctx context.Context, productID string) (*favdomain.FavoriteLine, error) {
	var resp struct {
		Favorit favdomain.FavoriteLine `json:"favorit"`
	}
	req := favdomain.AddFavoriteRequest{ProdukID: productID}
	if err := c.do(ctx, http.MethodPost, "/api/v1/favorites", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Favorit, nil
}

func (c *Client) RemoveFavorite(ctx context.Context, favoriteID string) (bool, error) {
	var resp struct {
		Removed bool `json:"removed"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/v1/favorites/"+url.PathEscape(favoriteID), nil, nil, &resp); err != nil {
		return false, err
	}
	return resp.Removed, nil
}

func (c *Client) ToggleFavorite(ctx context.Context, productID string) (*favdomain.ToggleResult, error) {
	var resp favdomain.ToggleResult
	req := favdomain.AddFavoriteRequest{ProdukID: productID}
	if err := c.do(ctx, http.MethodPost, "/api/v1/favorites/toggle", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
