package thresholds

import (
	"sync"
	"time"

	"github.com/rgehrsitz/fuyou/internal/domain"
)

// Source names the tier a threshold map was resolved from
type Source string

const (
	SourceDatabase    Source = "database"
	SourceEnvFallback Source = "env_fallback"
	SourceFallback    Source = "fallback"
)

// Entry is one cached resolution. Thresholds is never mutated after Put.
type Entry struct {
	Year       int
	Thresholds domain.ThresholdMap
	Source     Source
	StoredAt   time.Time
	ExpiresAt  time.Time
}

// Cache holds resolved threshold maps per year with TTL expiry. Entries are
// replaced whole, so readers see either the old map or the new one.
type Cache struct {
	mu         sync.RWMutex
	entries    map[int]Entry
	generation uint64
	now        func() time.Time
}

// NewCache creates an empty cache reading time from now. A nil now uses time.Now.
func NewCache(now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		entries: make(map[int]Entry),
		now:     now,
	}
}

// Get returns the live entry for a year. Expired entries are reported as absent.
func (c *Cache) Get(year int) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[year]
	if !ok || !c.now().Before(e.ExpiresAt) {
		return Entry{}, false
	}
	return e, true
}

// Generation returns the invalidation counter. Capture it before a
// resolution and hand it back to Put.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Put stores a resolution for ttl. The write is dropped when the cache was
// cleared after generation was captured, so a resolution that raced an
// invalidation cannot repopulate the cache with data from before it.
func (c *Cache) Put(generation uint64, year int, thresholds domain.ThresholdMap, source Source, ttl time.Duration) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	e := Entry{
		Year:       year,
		Thresholds: thresholds,
		Source:     source,
		StoredAt:   now,
		ExpiresAt:  now.Add(ttl),
	}
	if generation != c.generation || ttl <= 0 {
		return e, false
	}
	c.entries[year] = e
	return e, true
}

// Clear drops every entry and bumps the generation
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int]Entry)
	c.generation++
}

// Len counts stored entries, expired ones included
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
