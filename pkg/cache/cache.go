// Package cache is a thin JSON-over-Redis helper. When Redis is not
// connected every call degrades to a miss or a no-op, so callers never
// need to branch on availability.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/canteen/config"
	"github.com/shashiranjanraj/canteen/pkg/logger"
	"github.com/shashiranjanraj/canteen/pkg/metrics"
)

var RDB *redis.Client

// Connect dials the configured Redis and pings it. On failure RDB stays nil.
func Connect() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		RDB = nil
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	RDB = client
	return nil
}

// Use installs an existing client. Passing nil disables the cache.
func Use(c *redis.Client) { RDB = c }

// Available reports whether a Redis client is installed.
func Available() bool { return RDB != nil }

// Get unmarshals key into dest and reports whether it was a hit.
func Get(ctx context.Context, key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}
	raw, err := RDB.Get(ctx, key).Bytes()
	if err != nil || json.Unmarshal(raw, dest) != nil {
		metrics.CacheMiss()
		return false
	}
	metrics.CacheHit()
	return true
}

func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return RDB.Set(ctx, key, data, ttl).Err()
}

// Has reports whether key exists.
func Has(ctx context.Context, key string) bool {
	if RDB == nil {
		return false
	}
	n, err := RDB.Exists(ctx, key).Result()
	return err == nil && n > 0
}

func Forget(ctx context.Context, keys ...string) error {
	if RDB == nil || len(keys) == 0 {
		return nil
	}
	return RDB.Del(ctx, keys...).Err()
}

// Remember returns the cached value for key or fills it from fn. A failed
// write-back is logged, not returned; the caller already has its value.
func Remember(ctx context.Context, key string, ttl time.Duration, dest interface{}, fn func() error) error {
	if Get(ctx, key, dest) {
		return nil
	}
	if err := fn(); err != nil {
		return err
	}
	if err := Set(ctx, key, dest, ttl); err != nil {
		logger.WithCtx(ctx).Warn("cache: write-back failed", "key", key, "error", err)
	}
	return nil
}

// Version reads a generation counter, 0 when absent. Bump it to invalidate
// every key derived from it.
func Version(ctx context.Context, key string) int64 {
	if RDB == nil {
		return 0
	}
	n, err := RDB.Get(ctx, key).Int64()
	if err != nil {
		return 0
	}
	return n
}

// Bump increments the generation counter at key.
func Bump(ctx context.Context, key string) error {
	if RDB == nil {
		return nil
	}
	return RDB.Incr(ctx, key).Err()
}
