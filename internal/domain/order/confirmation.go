package order

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ConfirmationPath is the client route that renders the confirmation view.
const ConfirmationPath = "/order-confirmation"

// Confirmation is the order record handed to the confirmation view through
// the URL, plus the guest flag that controls the Track Order link.
//
// Passing the full record in the query string avoids a follow-up fetch, at
// the cost of URL length limits and loss of state on refresh beyond the
// initial redirect.
type Confirmation struct {
	Order
	IsGuest bool `json:"isGuest"`
}

// ConfirmationURL serializes the order into the ?order= query parameter of
// the confirmation route (JSON, URL-encoded).
func ConfirmationURL(o Order, isGuest bool) (string, error) {
	payload, err := json.Marshal(Confirmation{Order: o, IsGuest: isGuest})
	if err != nil {
		return "", errors.Wrap(err, "marshal confirmation")
	}
	return ConfirmationPath + "?order=" + url.QueryEscape(string(payload)), nil
}

// ParseConfirmation decodes a confirmation from a confirmation-page URL or
// from its raw query string.
func ParseConfirmation(rawURL string) (*Confirmation, error) {
	rawQuery := rawURL
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		rawQuery = rawURL[i+1:]
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, errors.Wrap(err, "parse query")
	}

	param := values.Get("order")
	if param == "" {
		return nil, errors.New("missing order parameter")
	}

	var c Confirmation
	if err := json.Unmarshal([]byte(param), &c); err != nil {
		return nil, errors.Wrap(err, "decode order data")
	}
	return &c, nil
}

// TrackOrderVisible reports whether the confirmation view should offer the
// Track Order link. Guests have no account to track orders from.
func (c *Confirmation) TrackOrderVisible() bool {
	return !c.IsGuest
}

// Receipt renders the pricing breakdown the confirmation view displays.
// Discount and shipping rows appear only when non-zero, matching the page.
func (c *Confirmation) Receipt() []string {
	lines := []string{
		fmt.Sprintf("Order Number: %s", c.OrderNumber),
		fmt.Sprintf("Subtotal: %s", FormatTaka(c.Subtotal)),
	}
	if c.Discount.IsPositive() {
		lines = append(lines, fmt.Sprintf("Discount: -%s", FormatTaka(c.Discount)))
	}
	if c.ShippingCost.IsPositive() {
		lines = append(lines, fmt.Sprintf("Shipping Cost: +%s", FormatTaka(c.ShippingCost)))
	}
	lines = append(lines, fmt.Sprintf("Total Amount: %s", FormatTaka(c.TotalPrice)))
	return lines
}

// FormatTaka renders a monetary amount the way the storefront displays it.
func FormatTaka(d decimal.Decimal) string {
	return "Tk. " + d.StringFixed(2)
}
