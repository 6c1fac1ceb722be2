package dataset

import (
	"context"
	"sync"

	"github.com/DachengChen/liturgiAI/applog"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes Source loads per Source.Key until invalidated.
// Concurrent first loads of one key share a single call; failed loads
// are not cached. Callers must treat returned datasets as read-only.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Dataset
	gen     map[string]uint64
	epoch   uint64
	group   singleflight.Group
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*Dataset),
		gen:     make(map[string]uint64),
	}
}

// Get returns the cached dataset for src, loading it on a miss.
func (c *Cache) Get(ctx context.Context, src Source) (*Dataset, error) {
	key := src.Key()

	c.mu.Lock()
	if ds, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return ds, nil
	}
	gen, epoch := c.gen[key], c.epoch
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		ds, err := src.Load(ctx)
		if err != nil {
			applog.Error("load %s: %v", key, err)
			return nil, err
		}
		c.mu.Lock()
		// Drop the result if Invalidate ran while we were loading.
		if c.gen[key] == gen && c.epoch == epoch {
			c.entries[key] = ds
		}
		c.mu.Unlock()
		applog.Event("dataset", "loaded %s: %d rows, %d columns", key, ds.Len(), len(ds.Columns))
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Dataset), nil
}

// Invalidate drops the cached value for key; the next Get reloads.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.gen[key]++
	c.mu.Unlock()
	c.group.Forget(key)
	applog.Event("dataset", "cache invalidated: %s", key)
}

// InvalidateAll empties the cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.epoch++
	c.entries = make(map[string]*Dataset)
	c.mu.Unlock()
	for _, k := range keys {
		c.group.Forget(k)
	}
}

// Len returns the number of cached datasets.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
