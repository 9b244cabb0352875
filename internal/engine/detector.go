// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package engine

import "linkguard/internal/rules"

// Detector is one independent heuristic. Detectors are pure functions of
// the normalized URL plus the static rule tables: no detector may observe
// another's output, so the registry can run them in any order (or in
// parallel) without changing the result.
type Detector interface {
	Name() string
	Detect(u NormalizedURL, tables *rules.Tables) []Flag
}

// defaultDetectors returns the registry in registration order, which is
// the tie-break order for flags of equal severity.
func defaultDetectors() []Detector {
	return []Detector{
		homographDetector{},
		typosquatDetector{},
		ipLiteralDetector{},
		riskyTLDDetector{},
		shortenerDetector{},
		structureDetector{},
		trustedDetector{},
	}
}

func newFlag(category FlagCategory, severity Severity, title, evidence string) Flag {
	return Flag{
		Category: category,
		Severity: severity,
		Title:    title,
		Evidence: evidence,
		Weight:   weightFor(category, severity),
	}
}
