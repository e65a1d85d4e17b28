// Package product models the storefront catalog: products with optional
// variants, plus the category and brand taxonomies used for filtering.
package product

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product slug does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a catalog item. Variant-style products carry one or more
// purchasable variants; simple products are purchasable directly.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	DiscountPrice decimal.Decimal `json:"discount_price"`
	Image         string          `json:"image"`
	Images        []string        `json:"images"`
	Category      *Category       `json:"category"`
	Brand         *Brand          `json:"brand"`
	Variants      []Variant       `json:"variants"`
	InStock       bool            `json:"in_stock"`
}

// Variant is a purchasable SKU of a product, distinguished by attributes
// such as color or size.
type Variant struct {
	ID            int64             `json:"id"`
	SKU           string            `json:"sku"`
	Price         decimal.Decimal   `json:"price"`
	DiscountPrice decimal.Decimal   `json:"discount_price"`
	Attributes    map[string]string `json:"attributes"`
	InStock       bool              `json:"in_stock"`
}

// HasVariants reports whether the product must be purchased through a
// variant selection.
func (p *Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// EffectivePrice returns the discount price when one is set, otherwise the
// list price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice.IsPositive() {
		return p.DiscountPrice
	}
	return p.Price
}

// Category is a catalog taxonomy node.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Brand is a manufacturer taxonomy node.
type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
