// Package cache provides the Redis-backed projection cache.
//
// Projections are display-only and tolerate staleness by contract; the cache
// is cache-aside with a short TTL plus explicit invalidation after lot
// ingestion and transfers. Every failure degrades to a cache miss.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"almacen/internal/core/id"
	"almacen/internal/domain/warehouse/projection"
	"almacen/pkg/logger"
)

const projectionKeyPrefix = "almacen:projection:"

// ProjectionCache implements projection.Cache and the mutation-side
// invalidation interfaces over Redis.
type ProjectionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProjectionCache creates a cache with the given TTL.
func NewProjectionCache(client *redis.Client, ttl time.Duration) *ProjectionCache {
	return &ProjectionCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached projection for a product, if any.
func (c *ProjectionCache) Get(ctx context.Context, productID id.ID) (*projection.Projection, bool) {
	raw, err := c.client.Get(ctx, projectionKey(productID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn(ctx, "projection cache read failed", "product_id", productID, "error", err)
		}
		return nil, false
	}

	var p projection.Projection
	if err := json.Unmarshal(raw, &p); err != nil {
		logger.Warn(ctx, "projection cache entry corrupt", "product_id", productID, "error", err)
		return nil, false
	}
	return &p, true
}

// Set stores a projection with the configured TTL.
func (c *ProjectionCache) Set(ctx context.Context, p projection.Projection) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, projectionKey(p.ProductID), raw, c.ttl).Err(); err != nil {
		logger.Warn(ctx, "projection cache write failed", "product_id", p.ProductID, "error", err)
	}
}

// Invalidate drops a product's cached projection after a stock mutation.
func (c *ProjectionCache) Invalidate(ctx context.Context, productID id.ID) {
	if err := c.client.Del(ctx, projectionKey(productID)).Err(); err != nil {
		logger.Warn(ctx, "projection cache invalidation failed", "product_id", productID, "error", err)
	}
}

func projectionKey(productID id.ID) string {
	return projectionKeyPrefix + productID.String()
}
