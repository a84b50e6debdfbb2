package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/timmy/pvhub/internal/logger"
)

// KeyPrefix namespaces every key this service writes.
const KeyPrefix = "pvhub:"

// RedisCache is a small byte cache on top of Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects using a redis:// URL and pings the server. A failed
// ping is logged, not returned, so the API can start while Redis is down.
func NewRedisCache(ctx context.Context, rawURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.CtxWarn(ctx, "Failed to connect to Redis at %s: %v", opts.Addr, err)
	} else {
		logger.CtxInfo(ctx, "Connected to Redis at %s", opts.Addr)
	}

	return &RedisCache{client: client}, nil
}

// Get returns the cached value. A miss or a Redis error both report ok=false.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, KeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.CtxWarn(ctx, "Redis GET %s failed: %v", key, err)
		}
		return nil, false
	}
	return val, true
}

// Set stores value for ttl. Errors are logged.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, KeyPrefix+key, value, ttl).Err(); err != nil {
		logger.CtxWarn(ctx, "Redis SET %s failed: %v", key, err)
	}
}

// Delete removes keys. Errors are logged.
func (c *RedisCache) Delete(ctx context.Context, keys ...string) {
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = KeyPrefix + k
	}
	if err := c.client.Del(ctx, prefixed...).Err(); err != nil {
		logger.CtxWarn(ctx, "Redis DEL failed: %v", err)
	}
}

// Close closes the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
