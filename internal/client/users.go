package client

import (
	"context"
	"net/http"

	"github.com/ridloal/meoris-storefront/internal/session"
	userdomain "github.com/ridloal/meoris-storefront/internal/user/domain"
)

func (c *Client) Register(ctx context.Context, email, password, nama string) (*userdomain.User, error) {
	var resp struct {
		User userdomain.User `json:"user"`
	}
	req := userdomain.RegisterRequest{Email: email, Password: password, Nama: nama}
	if err := c.do(ctx, http.MethodPost, "/api/v1/users/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login exchanges credentials for a token and keeps the token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*session.SessionUser, error) {
	var resp userdomain.LoginResponse
	req := userdomain.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/users/login", nil, req, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &session.SessionUser{
		ID:    resp.User.ID,
		Email: resp.User.Email,
		Nama:  resp.User.Nama,
		Token: resp.Token,
	}, nil
}

func (c *Client) Me(ctx context.Context) (*userdomain.User, error) {
	var resp struct {
		User userdomain.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/me", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}
