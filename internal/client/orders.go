package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Ejaz0000/bike-gear-client/internal/domain/order"
)

// CreateOrder submits an order payload. The idempotency key, when
// non-empty, is sent as X-Idempotency-Key so the backend can deduplicate
// a double-submitted checkout.
func (c *Client) CreateOrder(ctx context.Context, req order.CreateRequest, idempotencyKey string) (*order.Order, error) {
	var header http.Header
	if idempotencyKey != "" {
		header = http.Header{"X-Idempotency-Key": []string{idempotencyKey}}
	}
	var out order.Order
	if err := c.sendJSON(ctx, http.MethodPost, "/orders/create/", req, &out, header); err != nil {
		return nil, err
	}
	return &out, nil
}

// Orders lists the authenticated user's orders, newest first.
func (c *Client) Orders(ctx context.Context) ([]order.Order, error) {
	var out struct {
		Orders []order.Order `json:"orders"`
	}
	data, err := c.do(ctx, http.MethodGet, "/orders/", nil, "", nil)
	if err != nil {
		return nil, err
	}
	// Some list payloads wrap the slice under "orders", some are bare.
	if err := decodeInto(data, &out); err == nil && out.Orders != nil {
		return out.Orders, nil
	}
	var bare []order.Order
	if err := decodeInto(data, &bare); err != nil {
		return nil, err
	}
	return bare, nil
}

// OrderByNumber fetches a single order by its order number.
func (c *Client) OrderByNumber(ctx context.Context, number string) (*order.Order, error) {
	var out order.Order
	if err := c.getJSON(ctx, "/orders/"+url.PathEscape(number)+"/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
