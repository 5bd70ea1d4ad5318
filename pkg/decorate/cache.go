package decorate

import "sync"

// RefreshCache holds per-key reload counters, e.g. one per resource address.
// Rules fold the counter into their widgets so a bump yields a widget that
// is no longer equal to the previous one.
type RefreshCache interface {
	Get(key string) int
	Bump(key string)
}

// CounterCache is a RefreshCache safe for use from several goroutines.
// The zero value is ready to use.
type CounterCache struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewCounterCache returns an empty CounterCache.
func NewCounterCache() *CounterCache {
	return &CounterCache{}
}

// Get returns the counter for key, zero if it was never bumped.
func (c *CounterCache) Get(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[key]
}

// Bump increments the counter for key.
func (c *CounterCache) Bump(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[key]++
}
