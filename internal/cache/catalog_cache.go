package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	keyCategories       = "catalog:categories"
	keyProductsCategory = "catalog:products:category:%s"
	keyProductsPattern  = "catalog:products:*"
)

// CatalogCache caches the public read projections as JSON. A nil
// *CatalogCache is valid and caches nothing, so the API runs without Redis.
// Cache failures are logged and treated as misses.
type CatalogCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewCatalogCache creates a new CatalogCache. A nil client yields a nil cache.
func NewCatalogCache(redis *RedisClient, ttl time.Duration) *CatalogCache {
	if redis == nil {
		return nil
	}
	return &CatalogCache{redis: redis, ttl: ttl}
}

// Categories loads the cached category list into dst. It reports whether
// the entry was present.
func (c *CatalogCache) Categories(ctx context.Context, dst interface{}) bool {
	return c.get(ctx, keyCategories, dst)
}

// SetCategories stores the category list.
func (c *CatalogCache) SetCategories(ctx context.Context, v interface{}) {
	c.set(ctx, keyCategories, v)
}

// ProductsByCategory loads the cached product list of a category slug into dst.
func (c *CatalogCache) ProductsByCategory(ctx context.Context, slug string, dst interface{}) bool {
	return c.get(ctx, fmt.Sprintf(keyProductsCategory, slug), dst)
}

// SetProductsByCategory stores the product list of a category slug.
func (c *CatalogCache) SetProductsByCategory(ctx context.Context, slug string, v interface{}) {
	c.set(ctx, fmt.Sprintf(keyProductsCategory, slug), v)
}

// Invalidate drops every cached projection. Writers call it after any
// catalog mutation.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.redis.Delete(ctx, keyCategories); err != nil {
		return fmt.Errorf("invalidate categories: %w", err)
	}
	if _, err := c.redis.DeletePattern(ctx, keyProductsPattern); err != nil {
		return fmt.Errorf("invalidate products: %w", err)
	}
	return nil
}

func (c *CatalogCache) get(ctx context.Context, key string, dst interface{}) bool {
	if c == nil {
		return false
	}
	raw, err := c.redis.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache entry corrupt")
		return false
	}
	return true
}

func (c *CatalogCache) set(ctx context.Context, key string, v interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := c.redis.Set(ctx, key, string(data), c.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
