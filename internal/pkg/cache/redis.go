package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache keeps session scratch values in Redis so that several API replicas
// share them. Each session keeps an index set of its keys for purging.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache wraps an existing client
func NewRedisCache(client *redis.Client, ttl time.Duration, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "nnpgpt"
	}
	return &RedisCache{client: client, ttl: ttl, prefix: prefix}
}

func (c *RedisCache) valueKey(sessionID, key string) string {
	return fmt.Sprintf("%s:session:%s:v:%s", c.prefix, sessionID, key)
}

func (c *RedisCache) indexKey(sessionID string) string {
	return fmt.Sprintf("%s:session:%s:keys", c.prefix, sessionID)
}

// Put stores value under key for the session
func (c *RedisCache) Put(ctx context.Context, sessionID, key string, value []byte) error {
	vk := c.valueKey(sessionID, key)
	ik := c.indexKey(sessionID)

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, vk, value, c.ttl)
	pipe.SAdd(ctx, ik, vk)
	if c.ttl > 0 {
		pipe.Expire(ctx, ik, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache put %s: %w", key, err)
	}
	return nil
}

// Get returns the value stored under key for the session
func (c *RedisCache) Get(ctx context.Context, sessionID, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, c.valueKey(sessionID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return value, true, nil
}

// Purge deletes every value indexed for the session and the index itself
func (c *RedisCache) Purge(ctx context.Context, sessionID string) error {
	ik := c.indexKey(sessionID)
	keys, err := c.client.SMembers(ctx, ik).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("cache purge %s: %w", sessionID, err)
	}
	keys = append(keys, ik)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache purge %s: %w", sessionID, err)
	}
	return nil
}

// Close closes the underlying client
func (c *RedisCache) Close() error {
	return c.client.Close()
}
