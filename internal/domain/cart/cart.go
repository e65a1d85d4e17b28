package cart

import (
	"github.com/shopspring/decimal"
)

// ItemType distinguishes variant-backed line items from plain product items.
type ItemType string

const (
	ItemVariant ItemType = "variant"
	ItemProduct ItemType = "product"
)

// Product is the catalog product referenced by a cart line.
type Product struct {
	ID    int64
	Title string
	Slug  string
	Image string
	Price decimal.Decimal
}

// Variant is a purchasable SKU of a product with its own price and image.
type Variant struct {
	ID         int64
	Price      decimal.Decimal
	Image      string
	Attributes map[string]string
	Product    *Product
}

// Item is a single cart line. PriceSnapshot is the unit price captured when
// the item was added; Total and Savings come precomputed from the backend.
type Item struct {
	ID            int64
	ItemType      ItemType
	Quantity      int
	PriceSnapshot decimal.Decimal
	Total         decimal.Decimal
	Savings       decimal.Decimal
	Variant       *Variant
	Product       *Product
}

// product resolves the underlying catalog product regardless of item type.
func (i *Item) product() *Product {
	if i.ItemType == ItemVariant && i.Variant != nil {
		return i.Variant.Product
	}
	return i.Product
}

// Title returns the display title of the line item.
func (i *Item) Title() string {
	if p := i.product(); p != nil {
		return p.Title
	}
	return ""
}

// Image returns the display image, preferring the variant's own image.
func (i *Item) Image() string {
	if i.ItemType == ItemVariant && i.Variant != nil && i.Variant.Image != "" {
		return i.Variant.Image
	}
	if p := i.product(); p != nil {
		return p.Image
	}
	return ""
}

// UnitPrice returns the price snapshot, falling back to the current variant
// or product price when the snapshot is missing.
func (i *Item) UnitPrice() decimal.Decimal {
	if !i.PriceSnapshot.IsZero() {
		return i.PriceSnapshot
	}
	if i.ItemType == ItemVariant && i.Variant != nil {
		return i.Variant.Price
	}
	if i.Product != nil {
		return i.Product.Price
	}
	return decimal.Zero
}

// LineTotal returns the backend-computed line total, falling back to
// unit price times quantity.
func (i *Item) LineTotal() decimal.Decimal {
	if !i.Total.IsZero() {
		return i.Total
	}
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Summary is the normalized pricing breakdown of a cart. All cart consumers
// read this one shape regardless of which wire shape the backend produced.
type Summary struct {
	TotalItems   int
	Subtotal     decimal.Decimal
	TotalSavings decimal.Decimal
	Tax          decimal.Decimal
	Shipping     decimal.Decimal
	GrandTotal   decimal.Decimal
}

// NormalizeSummary applies the display fallbacks to a summary: a missing
// grand total falls back to the subtotal. The function is idempotent.
func NormalizeSummary(s Summary) Summary {
	if s.GrandTotal.IsZero() {
		s.GrandTotal = s.Subtotal
	}
	return s
}

// Cart is the customer's cart with its normalized summary.
type Cart struct {
	Items   []Item
	Summary Summary
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}
