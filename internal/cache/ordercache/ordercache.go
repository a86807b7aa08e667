package ordercache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	redisclient "github.com/funtech-labs/orders-backend/internal/dal/redis"
	"github.com/funtech-labs/orders-backend/internal/service/models/order"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

const (
	keyPrefix  = "order:"
	defaultTTL = 300 * time.Second
)

// Cache is the Redis-backed side cache for order reads. It is not
// authoritative: every error is treated as a miss or a no-op so the store
// path never depends on cache health.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache creates an order cache over the given Redis client.
func NewCache(client *redisclient.Client) *Cache {
	ttl := defaultTTL
	if seconds := viper.GetInt("cache.order_ttl_seconds"); seconds > 0 {
		ttl = time.Duration(seconds) * time.Second
	}

	return &Cache{
		rdb: client.DB(),
		ttl: ttl,
	}
}

func key(id uuid.UUID) string {
	return keyPrefix + id.String()
}

// Get returns the cached order, or nil on miss or any cache error.
func (c *Cache) Get(ctx context.Context, id uuid.UUID) *order.Order {
	data, err := c.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Error("Failed to read order cache", "key", key(id), "error", err)
		}

		return nil
	}

	var o order.Order
	if err := json.Unmarshal(data, &o); err != nil {
		slog.Error("Failed to decode cached order", "key", key(id), "error", err)

		return nil
	}

	return &o
}

// Set stores the order's response representation with the configured TTL.
// Errors are logged and swallowed.
func (c *Cache) Set(ctx context.Context, o *order.Order) {
	data, err := json.Marshal(o)
	if err != nil {
		slog.Error("Failed to encode order for cache", "order_id", o.ID, "error", err)

		return
	}

	if err := c.rdb.Set(ctx, key(o.ID), data, c.ttl).Err(); err != nil {
		slog.Error("Failed to write order cache", "key", key(o.ID), "error", err)
	}
}

// Invalidate deletes the cache entry for the given order id.
func (c *Cache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.rdb.Del(ctx, key(id)).Err(); err != nil {
		slog.Error("Failed to invalidate order cache", "key", key(id), "error", err)

		return
	}

	slog.Info("Order cache invalidated", "key", key(id))
}
