package catalog

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/p1":
			io.WriteString(w, `{"id":"p1","name":"Mug","price":12.5,"category":"kitchen"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)

	product, err := client.Product(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Mug", product.Name)
	assert.InDelta(t, 12.5, product.Price, 1e-9)

	_, err = client.Product(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductsPassesQueryThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "kitchen", r.URL.Query().Get("category"))
		io.WriteString(w, `[{"id":"p1","name":"Mug","price":12.5}]`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	products, err := client.Products(context.Background(), map[string][]string{"category": {"kitchen"}})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
}

func TestCategoriesAndBrands(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/categories":
			io.WriteString(w, `[{"id":"c1","name":"Kitchen"}]`)
		case "/brands":
			io.WriteString(w, `[{"id":"b1","name":"Acme"}]`)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)

	categories, err := client.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Kitchen", categories[0].Name)

	brands, err := client.Brands(context.Background())
	require.NoError(t, err)
	require.Len(t, brands, 1)
	assert.Equal(t, "Acme", brands[0].Name)
}
