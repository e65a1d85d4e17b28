package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/Ejaz0000/bike-gear-client/internal/domain/product"
)

// ProductFilters narrows a catalog listing. Zero values are omitted from
// the query string.
type ProductFilters struct {
	Category   string
	Brand      string
	MinPrice   string
	MaxPrice   string
	Search     string
	Ordering   string
	IsFeatured bool
	OnSale     bool
	Page       int
	PageSize   int
}

func (f ProductFilters) query() url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Brand != "" {
		q.Set("brand", f.Brand)
	}
	if f.MinPrice != "" {
		q.Set("min_price", f.MinPrice)
	}
	if f.MaxPrice != "" {
		q.Set("max_price", f.MaxPrice)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Ordering != "" {
		q.Set("ordering", f.Ordering)
	}
	if f.IsFeatured {
		q.Set("is_featured", "true")
	}
	if f.OnSale {
		q.Set("on_sale", "true")
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(f.PageSize))
	}
	return q
}

// ProductPage is one page of a catalog listing.
type ProductPage struct {
	Items      []product.Product `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
}

// Products lists catalog products with optional filters. The backend nests
// the page under data.data for this endpoint; a flat data payload is
// accepted as a fallback.
func (c *Client) Products(ctx context.Context, f ProductFilters) (*ProductPage, error) {
	path := "/products/"
	if q := f.query(); len(q) > 0 {
		path += "?" + q.Encode()
	}
	data, err := c.do(ctx, http.MethodGet, path, nil, "", nil)
	if err != nil {
		return nil, err
	}
	return decodeProductPage(data)
}

func decodeProductPage(data json.RawMessage) (*ProductPage, error) {
	var nested struct {
		Data *ProductPage `json:"data"`
	}
	if err := json.Unmarshal(data, &nested); err == nil && nested.Data != nil && nested.Data.Items != nil {
		return nested.Data, nil
	}
	var page ProductPage
	if err := decodeInto(data, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ProductBySlug fetches a single product. A 404 maps to
// product.ErrNotFound so callers can show the not-found panel.
func (c *Client) ProductBySlug(ctx context.Context, slug string) (*product.Product, error) {
	var out product.Product
	if err := c.getJSON(ctx, "/products/"+url.PathEscape(slug)+"/", &out); err != nil {
		if IsNotFound(err) {
			return nil, product.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// Categories lists the category taxonomy. The payload is either a bare
// array or wrapped under "items".
func (c *Client) Categories(ctx context.Context) ([]product.Category, error) {
	var out []product.Category
	if err := c.getTaxonomy(ctx, "/categories/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Brands lists the brand taxonomy with the same payload tolerance as
// Categories.
func (c *Client) Brands(ctx context.Context) ([]product.Brand, error) {
	var out []product.Brand
	if err := c.getTaxonomy(ctx, "/brands/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getTaxonomy(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil, "", nil)
	if err != nil {
		return err
	}
	var wrapped struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Items) > 0 {
		data = wrapped.Items
	}
	return decodeInto(data, out)
}

// Search runs a catalog search. The type parameter restricts results to
// "product", "category" or "brand" when non-empty.
func (c *Client) Search(ctx context.Context, query, typ string) (*ProductPage, error) {
	q := url.Values{"q": []string{query}}
	if typ != "" {
		q.Set("type", typ)
	}
	data, err := c.do(ctx, http.MethodGet, "/search?"+q.Encode(), nil, "", nil)
	if err != nil {
		return nil, err
	}
	return decodeProductPage(data)
}

// FilterData holds the taxonomy lists the product listing page needs for
// its filter sidebar.
type FilterData struct {
	Categories []product.Category
	Brands     []product.Brand
}

// FetchFilterData loads categories and brands concurrently. Either failure
// fails the whole call.
func (c *Client) FetchFilterData(ctx context.Context) (*FilterData, error) {
	var fd FilterData
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cats, err := c.Categories(ctx)
		if err != nil {
			return err
		}
		fd.Categories = cats
		return nil
	})
	g.Go(func() error {
		brands, err := c.Brands(ctx)
		if err != nil {
			return err
		}
		fd.Brands = brands
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &fd, nil
}
