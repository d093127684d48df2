// Package query provides the client-side read cache and the read/mutation
// bindings that keep it consistent with server state.
package query

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is the freshness window for cached reads.
const DefaultTTL = 60 * time.Second

// Key derives the canonical string for a cache tuple (resource kind plus
// identifying parameters). Parts are sanitized so a parameter cannot fake
// a key separator.
func Key(resource string, params ...string) string {
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, resource)
	for _, p := range params {
		parts = append(parts, strings.ReplaceAll(p, "/", "_"))
	}
	return strings.Join(parts, "/")
}

type entry struct {
	value     any
	fetchedAt time.Time
	stale     bool
}

// Cache is a mutex-guarded read cache keyed by canonical key strings.
// Entries expire after the freshness window and can be flagged stale by
// mutations; both conditions surface as a miss so the next read refetches.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*entry

	// flight shares in-flight fetches across bindings of this cache,
	// keyed by cache key, so concurrent readers of the same tuple issue
	// one request.
	flight singleflight.Group
}

// NewCache creates a cache with the given freshness window
// (DefaultTTL when zero).
func NewCache(ttl time.Duration) *Cache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Get returns the cached value for key. Absent, stale, and expired
// entries all miss.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || e.stale || c.now().Sub(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	return e.value, true
}

// Put stores a freshly fetched value. A later write to the same key wins
// unconditionally; racing mutations are not conflict-detected.
func (c *Cache) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{value: value, fetchedAt: c.now()}
}

// matchesPrefix reports whether key equals prefix or lies under it. The
// match respects the / separator, so the prefix for folder "a" does not
// cover folder "ab".
func matchesPrefix(key, prefix string) bool {
	return key == prefix || strings.HasPrefix(key, prefix+"/")
}

// Invalidate flags every entry at or under prefix as stale and returns how
// many were flagged.
func (c *Cache) Invalidate(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key, e := range c.entries {
		if matchesPrefix(key, prefix) && !e.stale {
			e.stale = true
			n++
		}
	}
	return n
}

// Remove deletes every entry at or under prefix and returns how many were
// removed.
func (c *Cache) Remove(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key := range c.entries {
		if matchesPrefix(key, prefix) {
			delete(c.entries, key)
			n++
		}
	}
	return n
}

// Len returns the number of entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
