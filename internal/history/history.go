// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package history persists scan results to Postgres. The classification
// engine never imports this package; history is a write-behind record of
// what the engine said, kept so users can review and export past scans.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"linkguard/internal/engine"
)

// Source records how a payload entered the app.
type Source string

const (
	SourceCamera    Source = "camera"
	SourceGallery   Source = "gallery"
	SourceClipboard Source = "clipboard"
	SourceManual    Source = "manual"
)

// ValidSource reports whether s is one of the known scan sources.
func ValidSource(s Source) bool {
	switch s {
	case SourceCamera, SourceGallery, SourceClipboard, SourceManual:
		return true
	}
	return false
}

// ErrNotFound is returned by Get for ids with no stored scan.
var ErrNotFound = errors.New("scan not found")

// Item is one stored scan. Result is the engine output verbatim; the
// store never reinterprets it.
type Item struct {
	ID         uuid.UUID             `json:"id"`
	Source     Source                `json:"source"`
	RawContent string                `json:"rawContent"`
	Result     engine.AnalysisResult `json:"result"`
	ScannedAt  time.Time             `json:"scannedAt"`
}

// Store is the Postgres-backed scan history.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps an existing connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS scan_history (
	id         UUID PRIMARY KEY,
	source     TEXT NOT NULL,
	raw_content TEXT NOT NULL,
	result     JSONB NOT NULL,
	verdict    TEXT NOT NULL,
	scanned_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS scan_history_scanned_at_idx ON scan_history (scanned_at DESC);
CREATE INDEX IF NOT EXISTS scan_history_verdict_idx ON scan_history (verdict);
`

// EnsureSchema creates the history table and indexes if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create history schema: %w", err)
	}
	return nil
}

// Record stores one scan and returns the persisted item.
func (s *Store) Record(ctx context.Context, source Source, raw string, result engine.AnalysisResult) (Item, error) {
	if !ValidSource(source) {
		return Item{}, fmt.Errorf("unknown scan source %q", source)
	}

	item := Item{
		ID:         uuid.New(),
		Source:     source,
		RawContent: raw,
		Result:     result,
		ScannedAt:  result.AnalyzedAt,
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return Item{}, fmt.Errorf("failed to encode analysis result: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO scan_history (id, source, raw_content, result, verdict, scanned_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, string(item.Source), item.RawContent, payload, string(result.Verdict), item.ScannedAt,
	)
	if err != nil {
		return Item{}, fmt.Errorf("failed to record scan: %w", err)
	}
	return item, nil
}

// List returns stored scans newest first.
func (s *Store) List(ctx context.Context, limit, offset int) ([]Item, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, source, raw_content, result, scanned_at
		 FROM scan_history ORDER BY scanned_at DESC, id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scan history: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// Get fetches one scan by id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Item, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, source, raw_content, result, scanned_at
		 FROM scan_history WHERE id = $1`, id,
	)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	if err != nil {
		return Item{}, fmt.Errorf("failed to load scan %s: %w", id, err)
	}
	return item, nil
}

// VerdictCounts tallies stored scans per verdict for the stats endpoint.
func (s *Store) VerdictCounts(ctx context.Context) (map[engine.Verdict]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT verdict, COUNT(*) FROM scan_history GROUP BY verdict`)
	if err != nil {
		return nil, fmt.Errorf("failed to count verdicts: %w", err)
	}
	defer rows.Close()

	counts := make(map[engine.Verdict]int)
	for rows.Next() {
		var verdict string
		var n int
		if err := rows.Scan(&verdict, &n); err != nil {
			return nil, fmt.Errorf("failed to scan verdict count: %w", err)
		}
		counts[engine.Verdict(verdict)] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var item Item
	var source string
	var payload []byte
	if err := row.Scan(&item.ID, &source, &item.RawContent, &payload, &item.ScannedAt); err != nil {
		return Item{}, err
	}
	item.Source = Source(source)
	if err := json.Unmarshal(payload, &item.Result); err != nil {
		return Item{}, fmt.Errorf("stored result for %s is corrupt: %w", item.ID, err)
	}
	return item, nil
}

func scanItems(rows pgx.Rows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
