package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements the engine's Cache contract over a shared redis
// client, grounded on the teacher's getCachedResults/cacheResults helpers
// in recommendation_algorithms.go.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) SetEX(ctx context.Context, key string, ttl time.Duration, value []byte) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}
