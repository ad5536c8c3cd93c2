// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache is a thread-safe in-memory cache implementation.
// Expired entries are hidden on read and removed by PurgeExpired.
type MemoryCache struct {
	data       sync.Map
	defaultTTL time.Duration
	now        func() time.Time
	closed     atomic.Bool

	// Statistics
	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

// memoryCacheEntry holds a cached value with its expiration time.
type memoryCacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCacheOptions configures the memory cache.
type MemoryCacheOptions struct {
	DefaultTTL time.Duration
	// Clock overrides time.Now, mostly for tests.
	Clock func() time.Time
}

// NewMemoryCache creates a new memory cache with the given options.
func NewMemoryCache(opts MemoryCacheOptions) *MemoryCache {
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = time.Hour
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &MemoryCache{
		defaultTTL: opts.DefaultTTL,
		now:        opts.Clock,
	}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	entry, ok := c.load(key)
	if !ok {
		c.misses.Add(1)
		return nil, ErrCacheMiss
	}

	c.hits.Add(1)
	// Return a copy to prevent mutation
	result := make([]byte, len(entry.value))
	copy(result, entry.value)
	return result, nil
}

// Set stores a value in the cache with the specified TTL.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	c.data.Store(key, &memoryCacheEntry{
		value:     valueCopy,
		expiresAt: c.now().Add(ttl),
	})
	c.sets.Add(1)
	return nil
}

// Delete removes a key from the cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.data.Delete(key)
	return nil
}

// Has checks if a key exists in the cache (and is not expired).
func (c *MemoryCache) Has(_ context.Context, key string) (bool, error) {
	if c.closed.Load() {
		return false, ErrCacheClosed
	}
	_, ok := c.load(key)
	return ok, nil
}

// Close marks the cache closed. Later calls fail with ErrCacheClosed.
func (c *MemoryCache) Close() error {
	c.closed.Store(true)
	return nil
}

// All returns every live entry whose key starts with prefix.
func (c *MemoryCache) All(_ context.Context, prefix string) (map[string][]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	now := c.now()
	out := make(map[string][]byte)
	c.data.Range(func(key, value any) bool {
		k := key.(string)
		entry := value.(*memoryCacheEntry)
		if strings.HasPrefix(k, prefix) && now.Before(entry.expiresAt) {
			out[strings.TrimPrefix(k, prefix)] = append([]byte(nil), entry.value...)
		}
		return true
	})
	return out, nil
}

// PurgeExpired removes all expired entries and returns how many were removed.
func (c *MemoryCache) PurgeExpired() int {
	now := c.now()
	removed := 0
	c.data.Range(func(key, value any) bool {
		entry := value.(*memoryCacheEntry)
		if !now.Before(entry.expiresAt) {
			if c.data.CompareAndDelete(key, entry) {
				removed++
			}
		}
		return true
	})
	return removed
}

// Stats returns current cache statistics.
func (c *MemoryCache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	return Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		Items:   c.count(),
		HitRate: hitRate(hits, misses),
	}
}

// load returns a live entry, deleting it if it has expired.
func (c *MemoryCache) load(key string) (*memoryCacheEntry, bool) {
	val, ok := c.data.Load(key)
	if !ok {
		return nil, false
	}
	entry := val.(*memoryCacheEntry)
	if !c.now().Before(entry.expiresAt) {
		c.data.CompareAndDelete(key, entry)
		return nil, false
	}
	return entry, true
}

// count returns the number of items in the cache, including expired ones.
func (c *MemoryCache) count() int {
	count := 0
	c.data.Range(func(key, value any) bool {
		count++
		return true
	})
	return count
}

// Ensure MemoryCache implements Cache, StatsProvider and Purger.
var (
	_ Cache         = (*MemoryCache)(nil)
	_ StatsProvider = (*MemoryCache)(nil)
	_ Purger        = (*MemoryCache)(nil)
)
