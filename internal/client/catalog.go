package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	productdomain "github.com/ridloal/meoris-storefront/internal/product/domain"
)

type productList struct {
	Products []productdomain.Product `json:"products"`
}

func (c *Client) Products(ctx context.Context, limit, offset int) ([]productdomain.Product, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	var resp productList
	if err := c.do(ctx, http.MethodGet, "/api/v1/products", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func (c *Client) SearchProducts(ctx context.Context, query string) ([]productdomain.Product, error) {
	var resp productList
	if err := c.do(ctx, http.MethodGet, "/api/v1/products/search", url.Values{"q": {query}}, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func (c *Client) ProductsByCategory(ctx context.Context, kategori string) ([]productdomain.Product, error) {
	var resp productList
	if err := c.do(ctx, http.MethodGet, "/api/v1/products/category/"+url.PathEscape(kategori), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func (c *Client) Product(ctx context.Context, id string) (*productdomain.Product, error) {
	var resp struct {
		Product productdomain.Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/products/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}
