// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package scancache

import (
	"testing"
	"time"

	"linkguard/internal/engine"
)

func TestDropIfExpiredRemovesStaleEntry(t *testing.T) {
	c := New(10, time.Minute)
	defer c.Close()

	c.mu.Lock()
	c.items["k"] = entry{expiresAt: time.Now().Add(-time.Second)}
	c.mu.Unlock()

	c.dropIfExpired("k")

	c.mu.RLock()
	_, ok := c.items["k"]
	c.mu.RUnlock()
	if ok {
		t.Fatal("expired entry should have been removed")
	}
}

func TestDropIfExpiredKeepsRefreshedEntry(t *testing.T) {
	c := New(10, time.Minute)
	defer c.Close()

	// A reader can observe an expired snapshot, then lose the race to a
	// Set that refreshes the key before the expiry delete runs. The delete
	// must judge the entry currently stored, not the snapshot.
	c.Set("k", engine.AnalysisResult{URL: "k", Verdict: engine.VerdictSafe})
	c.dropIfExpired("k")

	if _, ok := c.Get("k"); !ok {
		t.Fatal("fresh entry dropped on a stale expiry snapshot")
	}
}
