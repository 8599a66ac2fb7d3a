package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the configuration for the Redis client.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Namespace is prepended to every key so several deployments can share a
	// server. Default: "pcokit:"
	Namespace string

	// ScanCount is the COUNT hint for prefix scans. Default: 100
	ScanCount int64
}

// RedisCache is a Cache backed by Redis, shared by every process pointing
// at the same server. TTLs are enforced by Redis itself.
type RedisCache struct {
	client    redis.UniversalClient
	policy    Policy
	namespace string
	scanCount int64
}

// NewRedisCache connects to Redis and pings it before returning.
func NewRedisCache(ctx context.Context, cfg RedisConfig, policy Policy) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: failed to connect to redis: %w", err)
	}

	return NewRedisCacheFromClient(rdb, cfg, policy), nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client redis.UniversalClient, cfg RedisConfig, policy Policy) *RedisCache {
	if cfg.Namespace == "" {
		cfg.Namespace = "pcokit:"
	}
	if cfg.ScanCount <= 0 {
		cfg.ScanCount = 100
	}
	return &RedisCache{
		client:    client,
		policy:    policy,
		namespace: cfg.Namespace,
		scanCount: cfg.ScanCount,
	}
}

// Get retrieves a value. Any Redis failure is reported as a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, c.namespace+key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores a value with the effective TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	ttl = c.policy.EffectiveTTL(ttl)
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, c.namespace+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set: %w", err)
	}
	return nil
}

// Delete removes a value. Idempotent.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.namespace+key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("cache: redis del: %w", err)
	}
	return nil
}

// DeletePrefix scans for keys starting with prefix and deletes them.
func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	return c.deleteMatching(ctx, escapeGlob(c.namespace+prefix)+"*")
}

// Clear removes every key in the namespace.
func (c *RedisCache) Clear(ctx context.Context) error {
	_, err := c.deleteMatching(ctx, escapeGlob(c.namespace)+"*")
	return err
}

// Close closes the Redis client connection.
func (c *RedisCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Ping reports whether the server is reachable.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) deleteMatching(ctx context.Context, pattern string) (int, error) {
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, c.scanCount).Result()
		if err != nil {
			return deleted, fmt.Errorf("cache: redis scan: %w", err)
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("cache: redis del: %w", err)
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// escapeGlob quotes the characters SCAN MATCH treats as pattern syntax.
// Cache keys carry JSON arrays, so '[' and ']' are common.
func escapeGlob(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Ensure RedisCache implements Cache
var _ Cache = (*RedisCache)(nil)
