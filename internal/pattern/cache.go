package pattern

import (
	"sync"
	"time"
)

// ResultTTL is how long a cached outcome stays servable without revalidation.
const ResultTTL = 5 * time.Minute

// CacheEntry is the one memo slot kept per journal: the fingerprint of the
// entry snapshot that produced it, when it was produced, and the outcome.
type CacheEntry struct {
	Fingerprint string
	Timestamp   time.Time
	Value       Outcome
}

// Cache is an explicit per-journal result cache service, injected into the
// engine for testability. One slot per journal, no eviction: growth is
// bounded by the number of distinct journals, an accepted tradeoff.
//
// The mutex guards the map itself. Two concurrent requests for the same
// journal still race on the slot's contents with last-writer-wins semantics;
// outcomes for a stable fingerprint are idempotent, so a stale overwrite
// self-corrects on the next TTL-expired call.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]CacheEntry
}

// NewCache creates an empty result cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]CacheEntry)}
}

// Get returns the cached entry for a journal, if any.
func (c *Cache) Get(journalName string) (CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[journalName]
	return entry, ok
}

// Put stores the entry for a journal, replacing any prior slot.
func (c *Cache) Put(journalName string, entry CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[journalName] = entry
}

// Usable reports whether the entry can be served for the given snapshot
// fingerprint at the given time.
func (e CacheEntry) Usable(fingerprint string, now time.Time) bool {
	return e.Fingerprint == fingerprint && now.Sub(e.Timestamp) <= ResultTTL
}
