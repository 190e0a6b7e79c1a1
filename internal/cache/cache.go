// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/chronoterra/internal/metrics"
)

// Entry represents a cached item with expiration
type Entry struct {
	Data      interface{}
	ExpiresAt time.Time
}

// Cache provides a thread-safe in-memory cache with TTL support.
//
// Earth Engine round trips dominate analysis latency, so identical requests
// inside the TTL window are served from memory instead of recomputing five
// thumbnails and a histogram reduction. Expired entries are removed lazily
// on read and by a background sweep.
//
// Each cache carries a name used as the cache_type label on the Prometheus
// cache metrics, so hit rates for separate caches stay distinguishable.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration
	name    string
	stats   Stats

	done      chan struct{}
	closeOnce sync.Once
}

// Stats tracks cache performance counters
type Stats struct {
	mu          sync.RWMutex
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// New creates a cache with the given metric name and default entry TTL.
//
// A background goroutine sweeps expired entries; the sweep interval follows
// the TTL, clamped between one and five minutes. Call Close to stop the
// sweeper when the cache is discarded.
//
// Example:
//
//	c := cache.New("analysis", 5*time.Minute)
//	defer c.Close()
//	c.Set(key, result)
//	if data, ok := c.Get(key); ok {
//	    return data.(*models.AnalysisResult), nil
//	}
func New(name string, ttl time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		name:    name,
		stats: Stats{
			LastCleanup: time.Now(),
		},
		done: make(chan struct{}),
	}

	go c.cleanupLoop(sweepInterval(ttl))

	return c
}

// sweepInterval clamps the cleanup period to [1m, 5m]
func sweepInterval(ttl time.Duration) time.Duration {
	switch {
	case ttl < time.Minute:
		return time.Minute
	case ttl > 5*time.Minute:
		return 5 * time.Minute
	default:
		return ttl
	}
}

// Get retrieves a value by key. Expired entries are deleted on access and
// reported as a miss plus an eviction.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss()
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		size := len(c.entries)
		c.mu.Unlock()

		c.recordMiss()
		c.recordEvictions(1)
		c.setSize(size)
		return nil, false
	}

	c.recordHit()
	return entry.Data, true
}

// Set stores a value with the cache's default TTL
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL, overwriting any existing entry
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = Entry{
		Data:      value,
		ExpiresAt: time.Now().Add(ttl),
	}
	size := len(c.entries)
	c.mu.Unlock()

	c.setSize(size)
}

// Delete removes a single entry. Removing an absent key is a no-op and does
// not count as an eviction.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	_, existed := c.entries[key]
	delete(c.entries, key)
	size := len(c.entries)
	c.mu.Unlock()

	if existed {
		c.recordEvictions(1)
	}
	c.setSize(size)
}

// Clear removes all entries in one map swap
func (c *Cache) Clear() {
	c.mu.Lock()
	evicted := int64(len(c.entries))
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.recordEvictions(evicted)
	c.setSize(0)
}

// Close stops the background sweeper. Safe to call more than once.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// GetStats returns a snapshot of the cache counters
func (c *Cache) GetStats() Stats {
	c.stats.mu.RLock()
	defer c.stats.mu.RUnlock()

	return Stats{
		Hits:        c.stats.Hits,
		Misses:      c.stats.Misses,
		Evictions:   c.stats.Evictions,
		TotalKeys:   c.stats.TotalKeys,
		LastCleanup: c.stats.LastCleanup,
	}
}

// HitRate returns the cache hit rate as a percentage
func (c *Cache) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// cleanupLoop periodically removes expired entries until Close
func (c *Cache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.done:
			return
		}
	}
}

// cleanup removes all expired entries in one pass
func (c *Cache) cleanup() {
	now := time.Now()
	c.mu.Lock()
	evicted := int64(0)
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	c.stats.mu.Lock()
	c.stats.Evictions += evicted
	c.stats.TotalKeys = int64(size)
	c.stats.LastCleanup = now
	c.stats.mu.Unlock()

	if evicted > 0 {
		metrics.CacheEvictions.WithLabelValues(c.name).Add(float64(evicted))
	}
	metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
}

func (c *Cache) recordHit() {
	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()

	metrics.CacheHits.WithLabelValues(c.name).Inc()
}

func (c *Cache) recordMiss() {
	c.stats.mu.Lock()
	c.stats.Misses++
	c.stats.mu.Unlock()

	metrics.CacheMisses.WithLabelValues(c.name).Inc()
}

func (c *Cache) recordEvictions(n int64) {
	c.stats.mu.Lock()
	c.stats.Evictions += n
	c.stats.mu.Unlock()

	metrics.CacheEvictions.WithLabelValues(c.name).Add(float64(n))
}

func (c *Cache) setSize(n int) {
	c.stats.mu.Lock()
	c.stats.TotalKeys = int64(n)
	c.stats.mu.Unlock()

	metrics.CacheSize.WithLabelValues(c.name).Set(float64(n))
}

// GenerateKey derives a deterministic cache key from an operation name and
// its parameters. Parameters are serialized to JSON and hashed, so any two
// requests that normalize to the same values share a key.
func GenerateKey(op string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		// Fallback to a formatted key
		return fmt.Sprintf("%s:%v", op, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", op, hash[:16])
}
