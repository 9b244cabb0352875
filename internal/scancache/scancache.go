// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package scancache memoizes analysis results by raw payload. The engine
// is deterministic, so serving a cached result is indistinguishable from
// re-running the analysis; the cache only saves the history-store round
// trip when the same QR code is scanned repeatedly.
package scancache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"linkguard/internal/engine"
)

// Stats is the cache health snapshot surfaced by the stats endpoint.
type Stats struct {
	Size    int    `json:"size"`
	MaxSize int    `json:"maxSize"`
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
	HitRate string `json:"hitRate"`
}

type entry struct {
	result    engine.AnalysisResult
	expiresAt time.Time
}

// Cache is a bounded TTL cache of analysis results. Safe for concurrent
// use. Entries past their TTL are dropped lazily on read and swept by a
// background loop.
type Cache struct {
	mu      sync.RWMutex
	items   map[string]entry
	maxSize int
	ttl     time.Duration
	hits    int64
	misses  int64
	stop    chan struct{}
}

// New builds a cache holding at most maxSize entries for ttl each and
// starts its sweep loop. Call Close on shutdown.
func New(maxSize int, ttl time.Duration) *Cache {
	c := &Cache{
		items:   make(map[string]entry),
		maxSize: maxSize,
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	go c.sweepLoop()
	return c
}

// Close stops the sweep loop.
func (c *Cache) Close() { close(c.stop) }

// key trims surrounding whitespace so a re-scan of the same code with
// stray padding still hits. No other normalization: the engine itself is
// the authority on payload equivalence.
func key(payload string) string { return strings.TrimSpace(payload) }

// Get returns the cached result for payload, if present and fresh.
func (c *Cache) Get(payload string) (engine.AnalysisResult, bool) {
	k := key(payload)

	c.mu.RLock()
	e, ok := c.items[k]
	c.mu.RUnlock()

	if ok && time.Now().Before(e.expiresAt) {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return e.result, true
	}

	c.dropIfExpired(k)
	return engine.AnalysisResult{}, false
}

// dropIfExpired records a miss and removes the entry for k only if the
// entry currently stored is past its TTL. The caller's read snapshot may
// be stale: a Set can refresh the key between the read and this call, and
// that fresh entry must survive.
func (c *Cache) dropIfExpired(k string) {
	c.mu.Lock()
	if cur, ok := c.items[k]; ok && !time.Now().Before(cur.expiresAt) {
		delete(c.items, k)
	}
	c.misses++
	c.mu.Unlock()
}

// Set stores a result, evicting the entry closest to expiry when full.
func (c *Cache) Set(payload string, result engine.AnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) >= c.maxSize {
		c.evictOldestLocked()
	}
	c.items[key(payload)] = entry{
		result:    result,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Stats returns a point-in-time snapshot.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rate := "0%"
	if total := c.hits + c.misses; total > 0 {
		rate = fmt.Sprintf("%.1f%%", float64(c.hits)/float64(total)*100)
	}
	return Stats{
		Size:    len(c.items),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: rate,
	}
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for k, e := range c.items {
		if first || e.expiresAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.expiresAt
			first = false
		}
	}
	if !first {
		delete(c.items, oldestKey)
	}
}

func (c *Cache) sweepLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for k, e := range c.items {
				if now.After(e.expiresAt) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
