package newsdoc

import (
	"context"
	"strings"
	"time"
)

// DefaultCacheTTL is how long an aggregated search result is served from cache.
const DefaultCacheTTL = time.Hour

// CacheEntry is the cached aggregate for one normalized search term.
// Entries are replaced wholesale, never modified.
type CacheEntry struct {
	Term      string     `json:"term"`
	Articles  []*Article `json:"articles"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Valid reports whether the entry is still live at now for the given TTL.
func (e *CacheEntry) Valid(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CreatedAt) < ttl
}

// Cache stores aggregated results per search term with a time-to-live.
type Cache interface {
	// Get returns the live entry for term.
	// Returns ENOTFOUND if the term was never stored or its TTL elapsed.
	Get(ctx context.Context, term string) (*CacheEntry, error)

	// Put stores articles for term, replacing any existing entry and
	// resetting its creation time.
	Put(ctx context.Context, term string, articles []*Article) error

	// Expire removes the entry for term. Expiring a missing term is not an error.
	Expire(ctx context.Context, term string) error
}

// NormalizeTerm trims a search term and collapses internal whitespace
// so that equivalent queries share a cache entry.
func NormalizeTerm(term string) string {
	return strings.Join(strings.Fields(term), " ")
}
