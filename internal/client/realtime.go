package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
	"github.com/ridloal/meoris-storefront/internal/realtime/domain"
)

const feedBuffer = 32

// Subscribe opens the change feed of table narrowed by filter (for example "user_id=eq.<id>").
// The returned channel is closed when ctx ends or the connection drops.
func (c *Client) Subscribe(ctx context.Context, table, filter string) (<-chan domain.Event, error) {
	u, err := url.Parse(c.BaseURL + "/api/v1/realtime")
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", c.BaseURL, err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	q := url.Values{"table": {table}}
	if filter != "" {
		q.Set("filter", filter)
	}
	u.RawQuery = q.Encode()

	header := http.Header{}
	header.Set(ClientIDHeader, c.ClientID)
	if token := c.Token(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(resp.Status)}
		}
		logger.Error("StorefrontClient: realtime dial failed", err, logger.Fields{"table": table})
		return nil, fmt.Errorf("failed to open realtime feed: %w", err)
	}

	events := make(chan domain.Event, feedBuffer)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()
	go func() {
		defer close(events)
		defer close(done)
		for {
			var ev domain.Event
			if err := conn.ReadJSON(&ev); err != nil {
				if ctx.Err() == nil {
					logger.Debug("StorefrontClient: realtime feed closed", logger.Fields{"table": table, "error": err.Error()})
				}
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}
