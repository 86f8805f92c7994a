package services

import (
	"log/slog"
	"sync"
	"time"
)

// cacheEntry holds one cached response with its expiry.
type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
	cachedAt  time.Time
}

// responseCache is a TTL cache in front of the sheet pipeline so repeated
// dashboard loads within the TTL window do not re-fetch the spreadsheet.
type responseCache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheEntry
	ttl      time.Duration
	maxSize  int
	hits     int64
	misses   int64
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *slog.Logger
}

// newResponseCache creates a cache with the given TTL and size bound and
// starts its background cleanup loop.
func newResponseCache(ttl time.Duration, maxSize int, logger *slog.Logger) *responseCache {
	if logger == nil {
		logger = slog.Default()
	}
	if maxSize <= 0 {
		maxSize = 128
	}
	c := &responseCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		maxSize: maxSize,
		stopCh:  make(chan struct{}),
		logger:  logger,
	}
	go c.cleanupLoop()
	return c
}

// Get returns the cached value for key if present and unexpired.
func (c *responseCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		c.misses++
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	return entry.value, true
}

// Set stores a value under key, evicting the oldest entry when full.
func (c *responseCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		if _, exists := c.entries[key]; !exists {
			c.evictOldest()
		}
	}

	now := time.Now()
	c.entries[key] = &cacheEntry{
		value:     value,
		expiresAt: now.Add(c.ttl),
		cachedAt:  now,
	}
}

// Invalidate removes a single key.
func (c *responseCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes all entries.
func (c *responseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// Stats returns hit and miss counters with the current entry count.
func (c *responseCache) Stats() (hits, misses int64, size int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses, len(c.entries)
}

// Stop terminates the cleanup goroutine.
func (c *responseCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

// evictOldest removes the entry cached earliest. Caller holds the lock.
func (c *responseCache) evictOldest() {
	var oldestKey string
	var oldestAt time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.cachedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.cachedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// cleanupLoop periodically drops expired entries so the map does not grow
// with stale keys between requests.
func (c *responseCache) cleanupLoop() {
	interval := c.ttl
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCh:
			return
		}
	}
}

func (c *responseCache) removeExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		c.logger.Debug("cache cleanup", slog.Int("removed", removed), slog.Int("remaining", len(c.entries)))
	}
}
