package order

import (
	"github.com/shopspring/decimal"

	"github.com/Ejaz0000/bike-gear-client/internal/domain/user"
	"github.com/Ejaz0000/bike-gear-client/internal/forms"
)

// Order is the canonical order record returned by the backend after
// creation. CreatedAt is kept as the raw wire string so the value survives
// the confirmation URL round trip untouched.
type Order struct {
	OrderNumber   string          `json:"order_number"`
	CreatedAt     string          `json:"created_at"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	PaymentMethod string          `json:"payment_method"`
	TotalItems    int             `json:"total_items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	ShippingCost  decimal.Decimal `json:"shipping_cost"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Notes         string          `json:"notes,omitempty"`
}

// GuestAddress is the inline address embedded in guest order payloads.
// The backend expects "street" where the form uses address_line1.
type GuestAddress struct {
	Label      string `json:"label"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// CreateRequest is the order-creation payload. Authenticated users reference
// saved addresses by ID; guests embed full addresses plus contact details.
// The two sets of fields are mutually exclusive.
type CreateRequest struct {
	PaymentMethod        string        `json:"payment_method"`
	BillingAddressID     *int64        `json:"billing_address_id,omitempty"`
	ShippingAddressID    *int64        `json:"shipping_address_id,omitempty"`
	GuestEmail           string        `json:"guest_email,omitempty"`
	GuestPhone           string        `json:"guest_phone,omitempty"`
	GuestBillingAddress  *GuestAddress `json:"guest_billing_address,omitempty"`
	GuestShippingAddress *GuestAddress `json:"guest_shipping_address,omitempty"`
}

// AssembleParams carries everything payload assembly needs. User is nil for
// guest checkout.
type AssembleParams struct {
	PaymentMethod        string
	User                 *user.User
	Details              forms.UserDetails
	Billing              forms.Address
	Shipping             forms.Address
	UseBillingAsShipping bool
}

// BuildCreateRequest assembles the order payload, branching on
// authentication state.
//
// Authenticated: address IDs are re-derived from the user's default-flagged
// addresses at submit time, not cached from the address step. When no
// default is flagged the corresponding ID is simply omitted (the backend
// decides what that means).
//
// Guest: full address objects are embedded inline, with the form's
// address_line1 renamed to street.
func BuildCreateRequest(p AssembleParams) CreateRequest {
	req := CreateRequest{PaymentMethod: p.PaymentMethod}

	if p.User.IsAuthenticated() {
		if billing, ok := user.FindDefault(p.User.Addresses, user.AddressBilling); ok {
			req.BillingAddressID = &billing.ID
		}
		if p.UseBillingAsShipping {
			req.ShippingAddressID = req.BillingAddressID
		} else if shipping, ok := user.FindDefault(p.User.Addresses, user.AddressShipping); ok {
			req.ShippingAddressID = &shipping.ID
		}
		return req
	}

	req.GuestEmail = p.Details.Email
	req.GuestPhone = p.Details.Phone
	billing := guestAddress(p.Billing)
	req.GuestBillingAddress = &billing
	if p.UseBillingAsShipping {
		req.GuestShippingAddress = req.GuestBillingAddress
	} else {
		shipping := guestAddress(p.Shipping)
		req.GuestShippingAddress = &shipping
	}
	return req
}

func guestAddress(f forms.Address) GuestAddress {
	return GuestAddress{
		Label:      f.Label,
		Street:     f.AddressLine1,
		City:       f.City,
		State:      f.State,
		PostalCode: f.PostalCode,
		Country:    f.Country,
		Phone:      f.Phone,
	}
}
