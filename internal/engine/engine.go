// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package engine

import (
	"time"

	"linkguard/internal/rules"
)

// Engine is the offline classifier. It holds only read-only state (rule
// tables, detector registry), so a single Engine is safe for concurrent
// use from any goroutine without synchronization.
type Engine struct {
	tables    *rules.Tables
	detectors []Detector
	now       func() time.Time
}

// Option customizes an Engine at construction.
type Option func(*Engine)

// WithClock replaces the timestamp source, which keeps golden tests
// byte-for-byte reproducible. Classification itself never reads the clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New builds an engine over the given rule tables. The tables must already
// be validated (rules.Load fails fast on malformed data) and are never
// mutated afterwards.
func New(tables *rules.Tables, opts ...Option) *Engine {
	e := &Engine{
		tables:    tables,
		detectors: defaultDetectors(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tables exposes the loaded rule tables (read-only), mainly so callers can
// surface the table version.
func (e *Engine) Tables() *rules.Tables { return e.tables }

// Analyze classifies one raw scanned payload. It never fails: malformed
// input degrades to an UNKNOWN verdict rather than an error. Given the
// same rule tables, identical input yields identical output on every call.
func (e *Engine) Analyze(raw string) AnalysisResult {
	u := Normalize(raw)

	flags := make([]Flag, 0, 8)
	for _, d := range e.detectors {
		flags = append(flags, d.Detect(u, e.tables)...)
	}
	sortFlags(flags)

	confidence, verdict := scoreFlags(u, flags)

	return AnalysisResult{
		URL:        raw,
		Verdict:    verdict,
		Confidence: confidence,
		Flags:      flags,
		AnalyzedAt: e.now().UTC(),
	}
}
