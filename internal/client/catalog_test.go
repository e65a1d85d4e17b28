package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ejaz0000/bike-gear-client/internal/domain/product"
)

func TestProductsDecodesDoubleNestedPage(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "road-bikes", r.URL.Query().Get("category"))
		w.Write([]byte(`{
			"status": true,
			"message": "ok",
			"status_code": 200,
			"data": {"data": {"items": [{"id": 1, "name": "Drivetrain", "slug": "drivetrain"}], "total": 1, "page": 1, "total_pages": 1}}
		}`))
	}))

	page, err := c.Products(context.Background(), ProductFilters{Category: "road-bikes"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "drivetrain", page.Items[0].Slug)
	assert.Equal(t, 1, page.Total)
}

func TestProductsDecodesFlatPage(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": true,
			"message": "ok",
			"status_code": 200,
			"data": {"items": [{"id": 2, "name": "Helmet", "slug": "helmet"}], "total": 1}
		}`))
	}))

	page, err := c.Products(context.Background(), ProductFilters{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "helmet", page.Items[0].Slug)
}

func TestProductBySlugNotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":false,"message":"Not found","status_code":404,"data":null}`))
	}))

	_, err := c.ProductBySlug(context.Background(), "missing-slug")
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestTaxonomyAcceptsBareAndWrappedArrays(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/categories/":
			w.Write([]byte(`{"status":true,"message":"ok","status_code":200,"data":[{"id":1,"name":"Bikes","slug":"bikes"}]}`))
		case "/api/brands/":
			w.Write([]byte(`{"status":true,"message":"ok","status_code":200,"data":{"items":[{"id":2,"name":"Shimano","slug":"shimano"}]}}`))
		default:
			http.NotFound(w, r)
		}
	}))

	fd, err := c.FetchFilterData(context.Background())
	require.NoError(t, err)
	require.Len(t, fd.Categories, 1)
	require.Len(t, fd.Brands, 1)
	assert.Equal(t, "bikes", fd.Categories[0].Slug)
	assert.Equal(t, "shimano", fd.Brands[0].Slug)
}
