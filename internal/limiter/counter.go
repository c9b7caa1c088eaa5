// Package limiter holds the Redis-backed request counters used for per-tenant
// rate limiting.
package limiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter counts events in expiring windows.
// Implementations must be safe for concurrent use.
type Counter interface {
	IncrWithExpiry(ctx context.Context, key string, window time.Duration) (int64, error)
	Ping(ctx context.Context) error
}

// RedisCounter implements Counter using go-redis/v9.
type RedisCounter struct {
	client *redis.Client
}

// NewRedisCounter creates a RedisCounter from a Redis URL.
func NewRedisCounter(redisURL string) (*RedisCounter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisCounter{client: redis.NewClient(opts)}, nil
}

func (c *RedisCounter) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCounter) Close() error {
	return c.client.Close()
}

// IncrWithExpiry increments key and starts its window on the first hit. Later
// hits in the same window do not push the expiry out.
func (c *RedisCounter) IncrWithExpiry(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Key returns the counter key for a tenant.
func Key(tenantID string) string {
	return "ratelimit:tenant:" + tenantID
}
