package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nestedCartJSON = `{
	"items": [
		{
			"id": 11,
			"item_type": "variant",
			"quantity": 2,
			"price_snapshot": "450.00",
			"total": "900.00",
			"savings": "100.00",
			"variant": {
				"id": 5,
				"price": "500.00",
				"image": "/media/variants/5.jpg",
				"attributes": {"color": "Red", "size": "M"},
				"product": {"id": 3, "title": "Riding Gloves", "slug": "riding-gloves"}
			}
		},
		{
			"id": 12,
			"item_type": "product",
			"quantity": 1,
			"price_snapshot": "100.00",
			"total": "100.00",
			"savings": "0.00",
			"product": {"id": 9, "title": "Chain Lube", "slug": "chain-lube", "price": "100.00"}
		}
	],
	"summary": {
		"total_items": 3,
		"subtotal": "1000.00",
		"total_savings": "100.00",
		"tax": "0.00",
		"shipping": "0.00",
		"grand_total": "1000.00"
	}
}`

const flatCartJSON = `{
	"items": [
		{
			"id": 11,
			"item_type": "variant",
			"quantity": 2,
			"price_snapshot": 450,
			"total": 900,
			"savings": 100,
			"variant": {
				"id": 5,
				"price": 500,
				"image": "/media/variants/5.jpg",
				"attributes": {"color": "Red", "size": "M"},
				"product": {"id": 3, "title": "Riding Gloves", "slug": "riding-gloves"}
			}
		},
		{
			"id": 12,
			"item_type": "product",
			"quantity": 1,
			"price_snapshot": 100,
			"total": 100,
			"savings": 0,
			"product": {"id": 9, "title": "Chain Lube", "slug": "chain-lube", "price": 100}
		}
	],
	"total_items": 3,
	"subtotal": 1000,
	"total_savings": 100,
	"tax": 0,
	"shipping": 0,
	"grand_total": 1000
}`

func TestDecodeCart_NestedSummary(t *testing.T) {
	c, err := DecodeCart([]byte(nestedCartJSON))
	require.NoError(t, err)

	require.Len(t, c.Items, 2)
	assert.Equal(t, 3, c.Summary.TotalItems)
	assert.True(t, c.Summary.Subtotal.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, c.Summary.TotalSavings.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, c.Summary.GrandTotal.Equal(decimal.RequireFromString("1000.00")))
}

func TestDecodeCart_FlatAndNestedAgree(t *testing.T) {
	nested, err := DecodeCart([]byte(nestedCartJSON))
	require.NoError(t, err)
	flat, err := DecodeCart([]byte(flatCartJSON))
	require.NoError(t, err)

	assert.Equal(t, nested.Summary.TotalItems, flat.Summary.TotalItems)
	assert.True(t, nested.Summary.Subtotal.Equal(flat.Summary.Subtotal))
	assert.True(t, nested.Summary.TotalSavings.Equal(flat.Summary.TotalSavings))
	assert.True(t, nested.Summary.Tax.Equal(flat.Summary.Tax))
	assert.True(t, nested.Summary.Shipping.Equal(flat.Summary.Shipping))
	assert.True(t, nested.Summary.GrandTotal.Equal(flat.Summary.GrandTotal))
}

func TestDecodeCart_NestedSummaryWinsOverFlatFields(t *testing.T) {
	// Both shapes in one payload, flat fields after the nested object. The
	// nested summary is authoritative regardless of field order.
	nestedFirst := `{
		"items": [],
		"summary": {"total_items": 3, "subtotal": "1000.00", "grand_total": "1000.00"},
		"total_items": 1,
		"subtotal": "1.00",
		"grand_total": "1.00"
	}`
	flatFirst := `{
		"items": [],
		"total_items": 1,
		"subtotal": "1.00",
		"grand_total": "1.00",
		"summary": {"total_items": 3, "subtotal": "1000.00", "grand_total": "1000.00"}
	}`

	for _, payload := range []string{nestedFirst, flatFirst} {
		c, err := DecodeCart([]byte(payload))
		require.NoError(t, err)
		assert.Equal(t, 3, c.Summary.TotalItems)
		assert.True(t, c.Summary.Subtotal.Equal(decimal.RequireFromString("1000.00")))
		assert.True(t, c.Summary.GrandTotal.Equal(decimal.RequireFromString("1000.00")))
	}
}

func TestNormalizeSummary_GrandTotalFallback(t *testing.T) {
	s := NormalizeSummary(Summary{Subtotal: decimal.RequireFromString("250.00")})
	assert.True(t, s.GrandTotal.Equal(decimal.RequireFromString("250.00")))
}

func TestNormalizeSummary_Idempotent(t *testing.T) {
	s := Summary{
		TotalItems:   2,
		Subtotal:     decimal.RequireFromString("1000.00"),
		TotalSavings: decimal.RequireFromString("50.00"),
	}
	once := NormalizeSummary(s)
	twice := NormalizeSummary(once)
	assert.Equal(t, once, twice)
}

func TestItem_DisplayFallbacks(t *testing.T) {
	variantItem := Item{
		ItemType: ItemVariant,
		Quantity: 2,
		Variant: &Variant{
			Price:   decimal.RequireFromString("500.00"),
			Image:   "/v.jpg",
			Product: &Product{Title: "Riding Gloves", Image: "/p.jpg"},
		},
	}
	assert.Equal(t, "Riding Gloves", variantItem.Title())
	assert.Equal(t, "/v.jpg", variantItem.Image())
	// No snapshot: unit price falls back to the variant price.
	assert.True(t, variantItem.UnitPrice().Equal(decimal.RequireFromString("500.00")))
	// No backend total: line total falls back to unit * quantity.
	assert.True(t, variantItem.LineTotal().Equal(decimal.RequireFromString("1000.00")))

	productItem := Item{
		ItemType:      ItemProduct,
		Quantity:      1,
		PriceSnapshot: decimal.RequireFromString("90.00"),
		Total:         decimal.RequireFromString("90.00"),
		Product:       &Product{Title: "Chain Lube", Image: "/c.jpg"},
	}
	assert.Equal(t, "Chain Lube", productItem.Title())
	assert.Equal(t, "/c.jpg", productItem.Image())
	assert.True(t, productItem.UnitPrice().Equal(decimal.RequireFromString("90.00")))
}

func TestCart_IsEmpty(t *testing.T) {
	assert.True(t, (*Cart)(nil).IsEmpty())
	assert.True(t, (&Cart{}).IsEmpty())
	assert.False(t, (&Cart{Items: []Item{{ID: 1}}}).IsEmpty())
}

func TestDecodeCart_IgnoresUnknownFields(t *testing.T) {
	c, err := DecodeCart([]byte(`{"items": [], "currency": "BDT", "summary": {"subtotal": "10.00", "promo": null}}`))
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Summary.Subtotal.Equal(decimal.RequireFromString("10.00")))
}
