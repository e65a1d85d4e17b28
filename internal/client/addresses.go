package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Ejaz0000/bike-gear-client/internal/domain/user"
	"github.com/Ejaz0000/bike-gear-client/internal/forms"
)

// AddressParams carries an address form plus the flags that only some
// calls set. The default flags are appended to the multipart body only
// when true, matching how the storefront builds these forms.
type AddressParams struct {
	Form              forms.Address
	AddressType       user.AddressType
	IsDefaultBilling  bool
	IsDefaultShipping bool
}

func (p AddressParams) fields() map[string]string {
	f := map[string]string{
		"label":        p.Form.Label,
		"phone":        p.Form.Phone,
		"street":       p.Form.AddressLine1,
		"city":         p.Form.City,
		"state":        p.Form.State,
		"postal_code":  p.Form.PostalCode,
		"country":      p.Form.Country,
		"address_type": string(p.AddressType),
	}
	if p.Form.AddressLine2 != "" {
		f["address_line2"] = p.Form.AddressLine2
	}
	if p.IsDefaultBilling {
		f["is_default_billing"] = "true"
	}
	if p.IsDefaultShipping {
		f["is_default_shipping"] = "true"
	}
	return f
}

// CreateAddress saves a new address on the profile.
func (c *Client) CreateAddress(ctx context.Context, p AddressParams) (*user.Address, error) {
	var out user.Address
	if err := c.sendForm(ctx, http.MethodPost, "/auth/addresses/", p.fields(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAddress patches an existing address.
func (c *Client) UpdateAddress(ctx context.Context, id int64, p AddressParams) (*user.Address, error) {
	var out user.Address
	path := fmt.Sprintf("/auth/addresses/%d/", id)
	if err := c.sendForm(ctx, http.MethodPatch, path, p.fields(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAddress removes a saved address.
func (c *Client) DeleteAddress(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/auth/addresses/%d/", id))
}

// SetDefaultAddress marks an address as the default for its type without
// touching the other fields.
func (c *Client) SetDefaultAddress(ctx context.Context, id int64, t user.AddressType) (*user.Address, error) {
	fields := map[string]string{}
	switch t {
	case user.AddressBilling:
		fields["is_default_billing"] = "true"
	case user.AddressShipping:
		fields["is_default_shipping"] = "true"
	}
	var out user.Address
	path := fmt.Sprintf("/auth/addresses/%d/", id)
	if err := c.sendForm(ctx, http.MethodPatch, path, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
