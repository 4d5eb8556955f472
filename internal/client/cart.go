package client

import (
	"context"
	"net/http"
	"net/url"

	cartdomain "github.com/ridloal/meoris-storefront/internal/cart/domain"
)

type cartItemResponse struct {
	Item cartdomain.CartItem `json:"item"`
}

func (c *Client) Cart(ctx context.Context) ([]cartdomain.CartItem, error) {
	var resp struct {
		Items []cartdomain.CartItem `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/cart", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) AddToCart(ctx context.Context, productID string, quantity int, size *string) (*cartdomain.CartItem, error) {
	var resp cartItemResponse
	req := cartdomain.AddItemRequest{ProdukID: productID, Quantity: quantity, Size: size}
	if err := c.do(ctx, http.MethodPost, "/api/v1/cart/items", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

func (c *Client) UpdateCartQuantity(ctx context.Context, lineID string, quantity int) (*cartdomain.CartItem, error) {
	var resp cartItemResponse
	req := cartdomain.UpdateQuantityRequest{Quantity: quantity}
	if err := c.do(ctx, http.MethodPatch, "/api/v1/cart/items/"+url.PathEscape(lineID), nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

// RemoveFromCart deletes a line. Removing an absent line is not an error.
func (c *Client) RemoveFromCart(ctx context.Context, lineID string) (bool, error) {
	var resp struct {
		Removed bool `json:"removed"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/v1/cart/items/"+url.PathEscape(lineID), nil, nil, &resp); err != nil {
		return false, err
	}
	return resp.Removed, nil
}

func (c *Client) ClearCart(ctx context.Context) (int64, error) {
	var resp struct {
		Removed int64 `json:"removed"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/v1/cart", nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Removed, nil
}
