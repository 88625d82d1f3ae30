package client

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/storefront/pkg/logger"
)

// SnapshotCache stores catalog snapshots in Redis. A nil client disables it.
type SnapshotCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewSnapshotCache creates a new snapshot cache
func NewSnapshotCache(redisClient *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{redis: redisClient, ttl: ttl}
}

func snapshotKey(productID int64) string {
	return "storefront:catalog:product:" + strconv.FormatInt(productID, 10)
}

// Get returns a cached snapshot. Any cache failure is reported as a miss.
func (c *SnapshotCache) Get(ctx context.Context, productID int64) (*Product, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}

	data, err := c.redis.Get(ctx, snapshotKey(productID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx).Err(err).Int64("product_id", productID).Msg("Catalog cache read failed")
		}
		return nil, false
	}

	var product Product
	if err := json.Unmarshal(data, &product); err != nil {
		logger.Warn(ctx).Err(err).Int64("product_id", productID).Msg("Discarding corrupt catalog cache entry")
		return nil, false
	}
	return &product, true
}

// Set stores a snapshot. Failures are logged and otherwise ignored.
func (c *SnapshotCache) Set(ctx context.Context, product *Product) {
	if c == nil || c.redis == nil || product == nil {
		return
	}

	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, snapshotKey(product.ID), data, c.ttl).Err(); err != nil {
		logger.Warn(ctx).Err(err).Int64("product_id", product.ID).Msg("Catalog cache write failed")
	}
}
