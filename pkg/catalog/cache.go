package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shopfront/pkg/models"
)

const cacheTTL = 24 * time.Hour

// Cache keeps catalog lookups in Redis so repeated add-to-cart and detail
// requests skip the catalog API.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func productKey(id string) string {
	return "product:" + id
}

// Product returns the cached record for id, or an error on a miss or a
// stale unreadable entry.
func (c *Cache) Product(ctx context.Context, id string) (*models.Product, error) {
	raw, err := c.client.Get(ctx, productKey(id)).Result()
	if err != nil {
		return nil, err
	}
	var product models.Product
	if err := json.Unmarshal([]byte(raw), &product); err != nil {
		return nil, fmt.Errorf("unmarshal cached product: %w", err)
	}
	return &product, nil
}

// Store caches a product and maintains the category and recent-products
// lists the shop pages read.
func (c *Cache) Store(ctx context.Context, product *models.Product) error {
	raw, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal product %s: %w", product.ID, err)
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, productKey(product.ID), raw, cacheTTL)

	if product.Category != "" {
		categoryKey := "category:" + product.Category
		pipe.LPush(ctx, categoryKey, product.ID)
		pipe.Expire(ctx, categoryKey, cacheTTL)
	}

	pipe.LPush(ctx, "products:recent", product.ID)
	pipe.LTrim(ctx, "products:recent", 0, 99)
	pipe.Expire(ctx, "products:recent", cacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache product %s: %w", product.ID, err)
	}
	return nil
}
