package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements Cache backed by a Redis instance. Values are
// stored as JSON under a key prefix; expiry is delegated to Redis TTLs,
// so CleanExpired is a no-op.
type RedisCache[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects a cache to the given Redis address.
func NewRedisCache[T any](addr, prefix string, ttl time.Duration) *RedisCache[T] {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache[T]{
		client: rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Get retrieves a value from the cache
func (c *RedisCache[T]) Get(key string) (T, bool) {
	var zero T
	val, err := c.client.Get(context.Background(), c.prefix+key).Result()
	if err != nil {
		return zero, false
	}
	var data T
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		slog.Warn("Discarding unreadable cache entry", "key", key, "error", err)
		c.Delete(key)
		return zero, false
	}
	return data, true
}

// Set stores a value in the cache
func (c *RedisCache[T]) Set(key string, data T) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Warn("Failed to marshal cache entry", "key", key, "error", err)
		return
	}
	if err := c.client.Set(context.Background(), c.prefix+key, body, c.ttl).Err(); err != nil {
		slog.Warn("Failed to write cache entry", "key", key, "error", err)
	}
}

// Delete removes a key from the cache
func (c *RedisCache[T]) Delete(key string) {
	if err := c.client.Del(context.Background(), c.prefix+key).Err(); err != nil {
		slog.Warn("Failed to delete cache entry", "key", key, "error", err)
	}
}

// Close releases the underlying Redis connection.
func (c *RedisCache[T]) Close() error {
	return c.client.Close()
}
