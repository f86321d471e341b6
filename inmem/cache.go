// Package inmem provides a process-local newsdoc.Cache.
package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/newsdoc"
)

var _ newsdoc.Cache = (*Cache)(nil)

// Cache keeps aggregated results in a map guarded by a RWMutex.
// Entries are dropped lazily when read after their TTL. There is no
// capacity bound.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*newsdoc.CacheEntry
	ttl     time.Duration

	// Now returns the current time. Tests replace it to control expiry.
	Now func() time.Time
}

// NewCache returns an empty cache. A ttl of zero or less uses
// newsdoc.DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = newsdoc.DefaultCacheTTL
	}
	return &Cache{
		entries: make(map[string]*newsdoc.CacheEntry),
		ttl:     ttl,
		Now:     time.Now,
	}
}

// Get returns the live entry for term, or ENOTFOUND.
func (c *Cache) Get(_ context.Context, term string) (*newsdoc.CacheEntry, error) {
	term = newsdoc.NormalizeTerm(term)

	c.mu.RLock()
	entry, ok := c.entries[term]
	c.mu.RUnlock()

	if !ok {
		return nil, newsdoc.Errorf(newsdoc.ENOTFOUND, "no cached result for %q", term)
	}
	if !entry.Valid(c.Now(), c.ttl) {
		c.mu.Lock()
		// Only drop the entry we saw; a concurrent Put may have replaced it.
		if c.entries[term] == entry {
			delete(c.entries, term)
		}
		c.mu.Unlock()
		return nil, newsdoc.Errorf(newsdoc.ENOTFOUND, "cached result for %q expired", term)
	}
	return entry, nil
}

// Put replaces the entry for term and resets its creation time.
func (c *Cache) Put(_ context.Context, term string, articles []*newsdoc.Article) error {
	term = newsdoc.NormalizeTerm(term)
	entry := &newsdoc.CacheEntry{
		Term:      term,
		Articles:  articles,
		CreatedAt: c.Now(),
	}

	c.mu.Lock()
	c.entries[term] = entry
	c.mu.Unlock()
	return nil
}

// Expire removes the entry for term.
func (c *Cache) Expire(_ context.Context, term string) error {
	term = newsdoc.NormalizeTerm(term)

	c.mu.Lock()
	delete(c.entries, term)
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, including expired ones not yet
// read.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
