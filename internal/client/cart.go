package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/Ejaz0000/bike-gear-client/internal/domain/cart"
)

// Cart fetches the current cart. The backend serves two payload shapes
// (summary nested under "summary" or flattened at the top level); both
// decode to the same normalized Cart.
func (c *Client) Cart(ctx context.Context) (*cart.Cart, error) {
	data, err := c.do(ctx, http.MethodGet, "/cart/", nil, "", nil)
	if err != nil {
		return nil, err
	}
	crt, err := cart.DecodeCart(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}
	crt.Summary = cart.NormalizeSummary(crt.Summary)
	return crt, nil
}

// AddItemParams identifies what to add to the cart. Exactly one of
// VariantID or ProductID must be set.
type AddItemParams struct {
	VariantID int64
	ProductID int64
	Quantity  int
}

// AddItem adds a variant or a standalone product to the cart.
func (c *Client) AddItem(ctx context.Context, p AddItemParams) (*cart.Cart, error) {
	if p.VariantID != 0 && p.ProductID != 0 {
		return nil, errors.New("variant and product are mutually exclusive")
	}
	if p.VariantID == 0 && p.ProductID == 0 {
		return nil, errors.New("variant or product required")
	}
	if p.Quantity <= 0 {
		p.Quantity = 1
	}

	body := map[string]any{"quantity": p.Quantity}
	if p.VariantID != 0 {
		body["variant_id"] = p.VariantID
	} else {
		body["product_id"] = p.ProductID
	}
	data, err := c.do(ctx, http.MethodPost, "/cart/items/", jsonBody(body), "application/json", nil)
	if err != nil {
		return nil, err
	}
	return decodeCartPayload(data)
}

// UpdateItem sets the quantity of a cart line.
func (c *Client) UpdateItem(ctx context.Context, itemID int64, quantity int) (*cart.Cart, error) {
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	path := fmt.Sprintf("/cart/items/%d/", itemID)
	data, err := c.do(ctx, http.MethodPatch, path, jsonBody(map[string]any{"quantity": quantity}), "application/json", nil)
	if err != nil {
		return nil, err
	}
	return decodeCartPayload(data)
}

// RemoveItem deletes a single cart line.
func (c *Client) RemoveItem(ctx context.Context, itemID int64) error {
	return c.delete(ctx, fmt.Sprintf("/cart/items/%d/", itemID))
}

// ClearCart empties the cart in one call.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.delete(ctx, "/cart/clear/")
}

func decodeCartPayload(data []byte) (*cart.Cart, error) {
	if len(data) == 0 {
		return &cart.Cart{}, nil
	}
	crt, err := cart.DecodeCart(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}
	crt.Summary = cart.NormalizeSummary(crt.Summary)
	return crt, nil
}
