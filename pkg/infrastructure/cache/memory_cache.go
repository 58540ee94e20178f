package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCache is a bounded LRU cache with an optional per-entry TTL
type MemoryCache struct {
	lru *expirable.LRU[string, []byte]
}

var _ ResultCache = (*MemoryCache)(nil)

// NewMemoryCache creates a cache holding at most maxEntries values. A zero ttl
// keeps entries until they are evicted.
func NewMemoryCache(maxEntries int, ttl time.Duration) *MemoryCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &MemoryCache{
		lru: expirable.NewLRU[string, []byte](maxEntries, nil, ttl),
	}
}

// Get decodes the live entry for key into dest and marks it recently used
func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	payload, ok := c.lru.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key, evicting the least recently used entry when full
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s for cache: %w", key, err)
	}
	c.lru.Add(key, payload)
	return nil
}

// Len returns the number of entries currently held
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

// Close drops every entry
func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return nil
}
