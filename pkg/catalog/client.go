// Package catalog is the read-only client for the product catalog API,
// with an optional Redis read-through cache for single-product lookups.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shopfront/pkg/models"
)

// ErrNotFound is returned when the catalog has no product with the
// requested id.
var ErrNotFound = errors.New("catalog: product not found")

type Client struct {
	baseURL string
	http    *http.Client
	cache   *Cache
}

// NewClient builds a catalog client. cache may be nil, in which case every
// lookup goes to the catalog API.
func NewClient(baseURL string, cache *Cache) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		cache:   cache,
	}
}

// Product fetches one product by id, consulting the cache first. Cache
// write failures are logged, never surfaced.
func (c *Client) Product(ctx context.Context, id string) (*models.Product, error) {
	if c.cache != nil {
		if product, err := c.cache.Product(ctx, id); err == nil {
			return product, nil
		}
	}

	var product models.Product
	if err := c.getJSON(ctx, "/products/"+url.PathEscape(id), &product); err != nil {
		return nil, err
	}
	if product.ID == "" {
		product.ID = id
	}

	if c.cache != nil {
		if err := c.cache.Store(ctx, &product); err != nil {
			log.Printf("warning: failed to cache product %s: %v", id, err)
		}
	}
	return &product, nil
}

// Products lists products, passing query parameters (category, brand,
// search, pagination) straight through to the catalog API.
func (c *Client) Products(ctx context.Context, query url.Values) ([]models.Product, error) {
	path := "/products"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var products []models.Product
	if err := c.getJSON(ctx, path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.getJSON(ctx, "/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) Brands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	if err := c.getJSON(ctx, "/brands", &brands); err != nil {
		return nil, err
	}
	return brands, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog api returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
