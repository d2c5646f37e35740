package memory

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shruggr/inventory/cache"
)

var (
	_ cache.CategoryCache = (*CategoryCache)(nil)
	_ cache.PrefixCache   = (*PrefixCache)(nil)
)

// DefaultCategorySize is the category cache capacity used when none is given
const DefaultCategorySize = 1024

// CategoryCache is an in-memory LRU cache of category listings
type CategoryCache struct {
	lru *lru.Cache[string, []string]
	mu  sync.RWMutex
}

// NewCategoryCache creates a new in-memory LRU cache with the specified size
func NewCategoryCache(size int) (*CategoryCache, error) {
	if size <= 0 {
		size = DefaultCategorySize
	}
	l, err := lru.New[string, []string](size)
	if err != nil {
		return nil, err
	}

	return &CategoryCache{
		lru: l,
	}, nil
}

// Get retrieves a copy of the cached IDs for a category
func (c *CategoryCache) Get(category string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids, ok := c.lru.Get(category)
	if !ok {
		return nil, false
	}
	return clone(ids), true
}

// Put stores a copy of the IDs for a category
func (c *CategoryCache) Put(category string, ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(category, clone(ids))
}

// Delete removes the cached IDs for a category
func (c *CategoryCache) Delete(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Remove(category)
}

// Clear removes all cached entries
func (c *CategoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Purge()
}

// Len returns the number of cached categories
func (c *CategoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lru.Len()
}

func clone(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
