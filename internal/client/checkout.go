package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/ridloal/meoris-storefront/internal/checkout/domain"
	"github.com/ridloal/meoris-storefront/internal/platform/apperr"
)

type preCheckoutResponse struct {
	PraCheckout domain.PreCheckout `json:"pra_checkout"`
}

func (c *Client) Vouchers(ctx context.Context) ([]domain.Voucher, error) {
	var resp struct {
		Vouchers []domain.Voucher `json:"vouchers"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/vouchers", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Vouchers, nil
}

// Voucher returns the valid voucher for code, or nil when it is unknown or expired.
func (c *Client) Voucher(ctx context.Context, code string) (*domain.Voucher, error) {
	var resp struct {
		Voucher domain.Voucher `json:"voucher"`
	}
	err := c.do(ctx, http.MethodGet, "/api/v1/vouchers/"+url.PathEscape(code), nil, nil, &resp)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &resp.Voucher, nil
}

func (c *Client) CreatePreCheckout(ctx context.Context, req domain.CreateFromCartRequest) (*domain.PreCheckout, error) {
	var resp preCheckoutResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/pra-checkout", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.PraCheckout, nil
}

func (c *Client) PreCheckout(ctx context.Context, id string) (*domain.PreCheckout, error) {
	var resp preCheckoutResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/pra-checkout/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.PraCheckout, nil
}

// PreCheckouts lists the user's snapshots in status; empty status means drafts.
func (c *Client) PreCheckouts(ctx context.Context, status domain.Status) ([]domain.PreCheckout, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	var resp struct {
		PraCheckouts []domain.PreCheckout `json:"pra_checkouts"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/pra-checkout", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.PraCheckouts, nil
}

func (c *Client) SubmitPreCheckout(ctx context.Context, id string) (*domain.PreCheckout, error) {
	var resp preCheckoutResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/pra-checkout/"+url.PathEscape(id)+"/submit", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.PraCheckout, nil
}

func (c *Client) UpdatePreCheckoutStatus(ctx context.Context, id string, status domain.Status) (*domain.PreCheckout, error) {
	var resp preCheckoutResponse
	req := domain.UpdateStatusRequest{Status: status}
	if err := c.do(ctx, http.MethodPatch, "/api/v1/pra-checkout/"+url.PathEscape(id)+"/status", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.PraCheckout, nil
}

func (c *Client) DeletePreCheckout(ctx context.Context, id string) (bool, error) {
	var resp struct {
		Deleted bool `json:"deleted"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/v1/pra-checkout/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return false, err
	}
	return resp.Deleted, nil
}
