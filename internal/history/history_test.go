// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package history_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"linkguard/internal/db"
	"linkguard/internal/engine"
	"linkguard/internal/history"
	"linkguard/internal/rules"
)

func getTestStore(t *testing.T) *history.Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	database, err := db.Connect(dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := history.NewStore(database.Pool)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return store
}

func TestRecordAndGet(t *testing.T) {
	store := getTestStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result := engine.New(rules.Default()).Analyze("https://bit.ly/3xYz")
	item, err := store.Record(ctx, history.SourceClipboard, "https://bit.ly/3xYz", result)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := store.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Result.Verdict != result.Verdict || got.Source != history.SourceClipboard {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.Result.Flags) != len(result.Flags) {
		t.Errorf("flags lost in storage: %d != %d", len(got.Result.Flags), len(result.Flags))
	}
}

func TestRecord_RejectsUnknownSource(t *testing.T) {
	store := getTestStore(t)
	ctx := context.Background()

	_, err := store.Record(ctx, "webhook", "x", engine.AnalysisResult{})
	if err == nil {
		t.Fatal("expected error for unknown source")
	}
}

func TestGet_NotFound(t *testing.T) {
	store := getTestStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, uuid.New()); err != history.ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListAndCounts(t *testing.T) {
	store := getTestStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	e := engine.New(rules.Default())
	for _, raw := range []string{"https://github.com/torvalds/linux", "http://185.22.10.4/login"} {
		if _, err := store.Record(ctx, history.SourceManual, raw, e.Analyze(raw)); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	items, err := store.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) < 2 {
		t.Fatalf("expected at least 2 items, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].ScannedAt.Before(items[i].ScannedAt) {
			t.Fatal("list is not newest first")
		}
	}

	counts, err := store.VerdictCounts(ctx)
	if err != nil {
		t.Fatalf("VerdictCounts: %v", err)
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	if total < 2 {
		t.Errorf("counts look wrong: %+v", counts)
	}
}
