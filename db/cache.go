/*
 * Copyright 2025 Kwabena Amoako
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"sync"
	"time"
)

// CountCache caches dashboard counters for a fixed TTL so the stats
// endpoint does not hammer the database on every poll. Values are
// whole-map swapped; partial updates are not supported.
type CountCache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	values    map[string]int64
	expiresAt time.Time

	// now is swappable for tests.
	now func() time.Time
}

// NewCountCache returns a cache whose entries expire ttl after each Set.
func NewCountCache(ttl time.Duration) *CountCache {
	return &CountCache{
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns the cached counters, or nil and false when the cache is
// empty or expired.
func (c *CountCache) Get() (map[string]int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.values == nil || c.now().After(c.expiresAt) {
		return nil, false
	}

	return c.values, true
}

// Set replaces the cached counters and restarts the TTL clock.
func (c *CountCache) Set(values map[string]int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values = values
	c.expiresAt = c.now().Add(c.ttl)
}

// Invalidate drops the cached counters immediately.
func (c *CountCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values = nil
}
