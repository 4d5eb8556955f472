// Package client is the Go SDK for the storefront service. One Client represents one client
// session: it carries the bearer token and a client id that the service echoes on realtime
// events, so a client can recognize its own writes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ridloal/meoris-storefront/internal/platform/apperr"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
)

const (
	ClientIDHeader = "X-Client-ID"

	defaultTimeout = 10 * time.Second
	maxAttempts    = 3
	initialBackoff = 100 * time.Millisecond
)

// APIError is a non-2xx answer. It unwraps to the apperr kind of its status, so callers can
// test errors.Is(err, apperr.ErrNotFound).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("storefront returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("storefront returned status %d - %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return apperr.ErrValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperr.ErrUnauthorized
	case http.StatusNotFound:
		return apperr.ErrNotFound
	case http.StatusConflict:
		return apperr.ErrConflict
	default:
		return apperr.ErrBackend
	}
}

type Client struct {
	BaseURL    string
	ClientID   string
	HTTPClient *http.Client

	backoff time.Duration

	mu    sync.RWMutex
	token string
}

// New returns a client for the service at baseURL with a fresh client id.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		ClientID: uuid.NewString(),
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
		backoff: initialBackoff,
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do sends one API call and decodes the JSON answer into out. GETs are retried on transport
// errors and 5xx answers; writes are sent once.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal %s %s request: %w", method, path, err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts = maxAttempts
	}
	wait := c.backoff

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		retry, err := c.send(ctx, method, path, query, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || attempt == attempts {
			break
		}
		logger.Warn(fmt.Sprintf("StorefrontClient: %s %s failed, retrying", method, path), logger.Fields{"attempt": attempt, "error": err.Error()})
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return lastErr
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, out interface{}) (retry bool, err error) {
	reqURL := c.BaseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return false, fmt.Errorf("failed to create %s %s request: %w", method, path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(ClientIDHeader, c.ClientID)
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		logger.Error(fmt.Sprintf("StorefrontClient: %s %s failed", method, path), err)
		return true, apperr.Backend(fmt.Errorf("failed to call storefront service: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp struct {
			Error string `json:"error"`
		}
		// the body may not be JSON; the status alone still describes the failure
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return resp.StatusCode >= 500, &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}
	if out == nil {
		return false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, apperr.Backend(fmt.Errorf("failed to decode %s %s response: %w", method, path, err))
	}
	return false, nil
}
