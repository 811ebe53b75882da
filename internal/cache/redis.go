package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/eun2ce/uha-backend/pkg/config"
	"github.com/eun2ce/uha-backend/pkg/logging"
)

var (
	// ErrCacheDisabled is returned when cache operations are attempted but cache is disabled
	ErrCacheDisabled = fmt.Errorf("cache is disabled")
	// ErrCacheMiss is returned when a key does not exist
	ErrCacheMiss = fmt.Errorf("cache miss")
)

// Cache wraps Redis client. A nil *Cache is valid and behaves as disabled, so
// callers never need to branch on whether Redis is configured.
type Cache struct {
	client *redis.Client
	ctx    context.Context
}

// New creates a new Redis cache client
func New(cfg *config.RedisConfig) (*Cache, error) {
	if !cfg.Enabled {
		logging.GetLogger().Info("Redis cache disabled")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.GetLogger().Info("Redis connection established")

	return &Cache{
		client: client,
		ctx:    context.Background(),
	}, nil
}

// namespaceKey prefixes keys so multiple services can share one Redis
func (c *Cache) namespaceKey(key string) string {
	return "uha:" + key
}

// HashKey builds a stable MD5 hex digest from key parts
func HashKey(parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])
}

// Get retrieves a value from cache
func (c *Cache) Get(key string) (string, error) {
	if c == nil || c.client == nil {
		return "", ErrCacheDisabled
	}
	val, err := c.client.Get(c.ctx, c.namespaceKey(key)).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	return val, err
}

// Set sets a value in cache with TTL
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Set(c.ctx, c.namespaceKey(key), value, ttl).Err()
}

// GetJSON retrieves and unmarshals a cached JSON value into dest
func (c *Cache) GetJSON(key string, dest interface{}) error {
	raw, err := c.Get(key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), dest)
}

// SetJSON marshals value to JSON and stores it with TTL
func (c *Cache) SetJSON(key string, value interface{}, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return c.Set(key, raw, ttl)
}

// Delete removes a key from cache
func (c *Cache) Delete(key string) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Del(c.ctx, c.namespaceKey(key)).Err()
}

// DeleteByPattern removes all namespaced keys matching the glob pattern
func (c *Cache) DeleteByPattern(pattern string) (int64, error) {
	if c == nil || c.client == nil {
		return 0, ErrCacheDisabled
	}
	keys, err := c.client.Keys(c.ctx, c.namespaceKey(pattern)).Result()
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	return c.client.Del(c.ctx, keys...).Result()
}

// Exists checks if a key exists
func (c *Cache) Exists(key string) (bool, error) {
	if c == nil || c.client == nil {
		return false, ErrCacheDisabled
	}
	count, err := c.client.Exists(c.ctx, c.namespaceKey(key)).Result()
	return count > 0, err
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Health checks Redis health
func (c *Cache) Health(ctx context.Context) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Ping(ctx).Err()
}
