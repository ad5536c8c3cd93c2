// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis connection settings applied on top of the URL.
const (
	redisPoolSize     = 10
	redisDialTimeout  = 5 * time.Second
	redisIOTimeout    = 3 * time.Second
	redisScanPageSize = 100
)

// RedisCache keeps entries in Redis under a key prefix. Redis expires keys
// itself, so it does not implement Purger.
type RedisCache struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
	closed     atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

// NewRedisCache connects to the Redis server at rawURL and checks it answers
// within the dial timeout. Keys are stored as prefix+key.
func NewRedisCache(rawURL, prefix string, defaultTTL time.Duration) (*RedisCache, error) {
	if rawURL == "" {
		return nil, errors.New("redis URL is required")
	}

	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	opts.PoolSize = redisPoolSize
	opts.DialTimeout = redisDialTimeout
	opts.ReadTimeout = redisIOTimeout
	opts.WriteTimeout = redisIOTimeout

	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	c := &RedisCache{
		client:     redis.NewClient(opts),
		prefix:     prefix,
		defaultTTL: defaultTTL,
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := c.client.Ping(ctx).Err(); err != nil {
		_ = c.client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return c, nil
}

// Get returns the value for key or ErrCacheMiss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.misses.Add(1)
		return nil, ErrCacheMiss
	case err != nil:
		return nil, err
	}
	c.hits.Add(1)
	return val, nil
}

// Set stores value under key for ttl, or the default TTL when ttl is 0.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return err
	}
	c.sets.Add(1)
	return nil
}

// Delete removes key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return c.client.Del(ctx, c.prefix+key).Err()
}

// Has reports whether key exists.
func (c *RedisCache) Has(ctx context.Context, key string) (bool, error) {
	if c.closed.Load() {
		return false, ErrCacheClosed
	}
	n, err := c.client.Exists(ctx, c.prefix+key).Result()
	return n > 0, err
}

// All returns every entry whose key starts with prefix. Keys are walked
// with SCAN and read back in one MGET per page.
func (c *RedisCache) All(ctx context.Context, prefix string) (map[string][]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	full := c.prefix + prefix
	out := make(map[string][]byte)
	page := make([]string, 0, redisScanPageSize)

	flush := func() error {
		if len(page) == 0 {
			return nil
		}
		vals, err := c.client.MGet(ctx, page...).Result()
		if err != nil {
			return err
		}
		for i, v := range vals {
			// Keys that expired between SCAN and MGET come back nil.
			if s, ok := v.(string); ok {
				out[strings.TrimPrefix(page[i], full)] = []byte(s)
			}
		}
		page = page[:0]
		return nil
	}

	iter := c.client.Scan(ctx, 0, full+"*", redisScanPageSize).Iterator()
	for iter.Next(ctx) {
		page = append(page, iter.Val())
		if len(page) == redisScanPageSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

// Ping checks the connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return c.client.Ping(ctx).Err()
}

// Close closes the connection pool. It is safe to call more than once.
func (c *RedisCache) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.client.Close()
}

// Stats returns hit counters for this process. Items counts the keys under
// the prefix across all processes.
func (c *RedisCache) Stats() Stats {
	ctx, cancel := context.WithTimeout(context.Background(), redisIOTimeout)
	defer cancel()

	items := 0
	iter := c.client.Scan(ctx, 0, c.prefix+"*", redisScanPageSize).Iterator()
	for iter.Next(ctx) {
		items++
	}

	hits, misses := c.hits.Load(), c.misses.Load()
	return Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		Items:   items,
		HitRate: hitRate(hits, misses),
	}
}

var (
	_ Cache         = (*RedisCache)(nil)
	_ StatsProvider = (*RedisCache)(nil)
	_ Pinger        = (*RedisCache)(nil)
)
