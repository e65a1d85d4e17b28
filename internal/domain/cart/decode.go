package cart

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// DecodeCart parses the cart payload from the API envelope's data field.
//
// The backend has been observed to return the pricing summary in two shapes:
// a nested "summary" object, or the same fields flattened onto the cart
// object itself. Both are folded into one Summary here, at the client
// boundary, so no display site ever sees the raw union. Prices arrive as
// either JSON strings ("1234.00") or numbers; both are accepted.
func DecodeCart(data []byte) (*Cart, error) {
	d := jx.DecodeBytes(data)

	c := &Cart{}
	var acc summaryAccumulator

	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				item, err := decodeItem(d)
				if err != nil {
					return err
				}
				c.Items = append(c.Items, item)
				return nil
			})
		case "summary":
			if d.Next() == jx.Null {
				return d.Null()
			}
			return acc.decodeNested(d)
		case "total_items", "subtotal", "total_savings", "tax", "shipping", "grand_total":
			return acc.flatField(d, key)
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}

	c.Summary = NormalizeSummary(acc.result())
	return c, nil
}

// summaryAccumulator collects summary fields from whichever shape they
// arrive in. The two shapes accumulate separately so that a nested summary
// object, when present, wins over flat top-level fields no matter which
// appears first in the document.
type summaryAccumulator struct {
	nested    Summary
	flat      Summary
	hasNested bool
}

func (a *summaryAccumulator) decodeNested(d *jx.Decoder) error {
	a.hasNested = true
	return d.Obj(func(d *jx.Decoder, key string) error {
		return a.field(d, &a.nested, key)
	})
}

func (a *summaryAccumulator) flatField(d *jx.Decoder, key string) error {
	return a.field(d, &a.flat, key)
}

func (a *summaryAccumulator) result() Summary {
	if a.hasNested {
		return a.nested
	}
	return a.flat
}

func (a *summaryAccumulator) field(d *jx.Decoder, dst *Summary, key string) error {
	switch key {
	case "total_items":
		n, err := decodeInt(d)
		if err != nil {
			return errors.Wrap(err, key)
		}
		dst.TotalItems = n
	case "subtotal":
		return a.money(d, key, &dst.Subtotal)
	case "total_savings":
		return a.money(d, key, &dst.TotalSavings)
	case "tax":
		return a.money(d, key, &dst.Tax)
	case "shipping":
		return a.money(d, key, &dst.Shipping)
	case "grand_total":
		return a.money(d, key, &dst.GrandTotal)
	default:
		return d.Skip()
	}
	return nil
}

func (a *summaryAccumulator) money(d *jx.Decoder, key string, dst *decimal.Decimal) error {
	v, err := decodeDecimal(d)
	if err != nil {
		return errors.Wrap(err, key)
	}
	*dst = v
	return nil
}

func decodeItem(d *jx.Decoder) (Item, error) {
	var item Item
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Int64()
			if err != nil {
				return err
			}
			item.ID = v
		case "item_type":
			s, err := d.Str()
			if err != nil {
				return err
			}
			item.ItemType = ItemType(s)
		case "quantity":
			v, err := decodeInt(d)
			if err != nil {
				return err
			}
			item.Quantity = v
		case "price_snapshot":
			v, err := decodeDecimal(d)
			if err != nil {
				return err
			}
			item.PriceSnapshot = v
		case "total":
			v, err := decodeDecimal(d)
			if err != nil {
				return err
			}
			item.Total = v
		case "savings":
			v, err := decodeDecimal(d)
			if err != nil {
				return err
			}
			item.Savings = v
		case "variant":
			if d.Next() == jx.Null {
				return d.Null()
			}
			v, err := decodeVariant(d)
			if err != nil {
				return err
			}
			item.Variant = v
		case "product":
			if d.Next() == jx.Null {
				return d.Null()
			}
			p, err := decodeProduct(d)
			if err != nil {
				return err
			}
			item.Product = p
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return Item{}, errors.Wrap(err, "decode item")
	}
	return item, nil
}

func decodeVariant(d *jx.Decoder) (*Variant, error) {
	v := &Variant{}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			id, err := d.Int64()
			if err != nil {
				return err
			}
			v.ID = id
		case "price":
			p, err := decodeDecimal(d)
			if err != nil {
				return err
			}
			v.Price = p
		case "image":
			s, err := decodeStr(d)
			if err != nil {
				return err
			}
			v.Image = s
		case "attributes":
			if d.Next() == jx.Null {
				return d.Null()
			}
			v.Attributes = map[string]string{}
			return d.Obj(func(d *jx.Decoder, attr string) error {
				s, err := decodeStr(d)
				if err != nil {
					return err
				}
				v.Attributes[attr] = s
				return nil
			})
		case "product":
			if d.Next() == jx.Null {
				return d.Null()
			}
			p, err := decodeProduct(d)
			if err != nil {
				return err
			}
			v.Product = p
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode variant")
	}
	return v, nil
}

func decodeProduct(d *jx.Decoder) (*Product, error) {
	p := &Product{}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			id, err := d.Int64()
			if err != nil {
				return err
			}
			p.ID = id
		case "title":
			s, err := decodeStr(d)
			if err != nil {
				return err
			}
			p.Title = s
		case "slug":
			s, err := decodeStr(d)
			if err != nil {
				return err
			}
			p.Slug = s
		case "image":
			s, err := decodeStr(d)
			if err != nil {
				return err
			}
			p.Image = s
		case "price":
			v, err := decodeDecimal(d)
			if err != nil {
				return err
			}
			p.Price = v
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode product")
	}
	return p, nil
}

// decodeDecimal accepts a price as a JSON string, number, or null.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		if s == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(s)
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(n.String())
	case jx.Null:
		return decimal.Zero, d.Null()
	default:
		return decimal.Zero, errors.Errorf("unexpected token %v for amount", d.Next())
	}
}

// decodeInt accepts an integer as a JSON number, string, or null.
func decodeInt(d *jx.Decoder) (int, error) {
	switch d.Next() {
	case jx.Number:
		return d.Int()
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
		v, err := decimal.NewFromString(s)
		if err != nil {
			return 0, err
		}
		return int(v.IntPart()), nil
	case jx.Null:
		return 0, d.Null()
	default:
		return 0, errors.Errorf("unexpected token %v for integer", d.Next())
	}
}

// decodeStr accepts a string or null.
func decodeStr(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Null {
		return "", d.Null()
	}
	return d.Str()
}
