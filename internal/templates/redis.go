package templates

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces template keys in a shared Redis
const DefaultKeyPrefix = "resume:template:"

// RedisCache shares resolved templates between processes. Lookups that fail
// for any reason are treated as misses; the store stays the source of truth.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache wraps an existing client
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisCache{client: client, prefix: prefix}
}

// Init implements Cache by checking connectivity
func (c *RedisCache) Init(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Lookup implements Cache
func (c *RedisCache) Lookup(ctx context.Context, id string) (TemplateAsset, bool) {
	skeleton, err := c.client.Get(ctx, c.prefix+id).Result()
	if err != nil {
		return TemplateAsset{}, false
	}
	return TemplateAsset{ID: id, Skeleton: skeleton}, true
}

// Insert implements Cache. SETNX keeps the first writer's value.
func (c *RedisCache) Insert(ctx context.Context, asset TemplateAsset) error {
	if err := c.client.SetNX(ctx, c.prefix+asset.ID, asset.Skeleton, 0).Err(); err != nil {
		return fmt.Errorf("failed to cache template %s: %w", asset.ID, err)
	}
	return nil
}

// Close releases the underlying client
func (c *RedisCache) Close() error {
	return c.client.Close()
}
