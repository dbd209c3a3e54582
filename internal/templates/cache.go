package templates

import (
	"context"
	"sync"
)

// Cache holds resolved assets. Entries are never updated or evicted once
// inserted: reloading an id yields the same skeleton, so a duplicate insert
// after a concurrent first-use race is harmless.
type Cache interface {
	Init(ctx context.Context) error
	Lookup(ctx context.Context, id string) (TemplateAsset, bool)
	Insert(ctx context.Context, asset TemplateAsset) error
}

// MemoryCache is a process-local Cache
type MemoryCache struct {
	mu     sync.RWMutex
	assets map[string]TemplateAsset
}

// NewMemoryCache returns an initialized, empty cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{assets: make(map[string]TemplateAsset)}
}

// Init implements Cache. It resets nothing; an initialized cache stays as is.
func (c *MemoryCache) Init(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.assets == nil {
		c.assets = make(map[string]TemplateAsset)
	}
	return nil
}

// Lookup implements Cache
func (c *MemoryCache) Lookup(_ context.Context, id string) (TemplateAsset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.assets[id]
	return a, ok
}

// Insert implements Cache. The first insert for an id wins.
func (c *MemoryCache) Insert(_ context.Context, asset TemplateAsset) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.assets == nil {
		c.assets = make(map[string]TemplateAsset)
	}
	if _, exists := c.assets[asset.ID]; !exists {
		c.assets[asset.ID] = asset
	}
	return nil
}

// Len returns the number of cached assets
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.assets)
}
