// Package redis provides a newsdoc.Cache shared between processes, backed by
// Redis. Entries expire through Redis's native key TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/newsdoc"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces cache keys.
const keyPrefix = "newsdoc:query:"

var _ newsdoc.Cache = (*Cache)(nil)

// Cache stores aggregated results as JSON values with a TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration

	// Now returns the current time recorded on stored entries.
	Now func() time.Time
}

// NewCache returns a cache using client. A ttl of zero or less uses
// newsdoc.DefaultCacheTTL.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = newsdoc.DefaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl, Now: time.Now}
}

// Open connects to the Redis server at addr and verifies the connection.
func Open(ctx context.Context, addr string, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return NewCache(client, ttl), nil
}

// Key returns the Redis key for a normalized search term.
func Key(term string) string {
	return keyPrefix + strconv.FormatUint(xxhash.Sum64String(newsdoc.NormalizeTerm(term)), 16)
}

// Get returns the live entry for term, or ENOTFOUND.
func (c *Cache) Get(ctx context.Context, term string) (*newsdoc.CacheEntry, error) {
	data, err := c.client.Get(ctx, Key(term)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, newsdoc.Errorf(newsdoc.ENOTFOUND, "no cached result for %q", newsdoc.NormalizeTerm(term))
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry newsdoc.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	// Hash collisions are possible in principle; never serve another term.
	if entry.Term != newsdoc.NormalizeTerm(term) {
		return nil, newsdoc.Errorf(newsdoc.ENOTFOUND, "no cached result for %q", newsdoc.NormalizeTerm(term))
	}
	return &entry, nil
}

// Put replaces the entry for term and resets its TTL.
func (c *Cache) Put(ctx context.Context, term string, articles []*newsdoc.Article) error {
	entry := newsdoc.CacheEntry{
		Term:      newsdoc.NormalizeTerm(term),
		Articles:  articles,
		CreatedAt: c.Now(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return c.client.Set(ctx, Key(term), data, c.ttl).Err()
}

// Expire removes the entry for term.
func (c *Cache) Expire(ctx context.Context, term string) error {
	return c.client.Del(ctx, Key(term)).Err()
}

// Close closes the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}
