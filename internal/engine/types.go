// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
// Classification intelligence — also maintained under separate proprietary license.

// Package engine implements the offline URL threat classification engine:
// a deterministic, rule-based classifier that turns a raw scanned payload
// into a verdict, a bounded confidence score, and human-readable evidence
// flags, entirely without network access.
package engine

import "time"

// Verdict is the engine's top-level classification output.
type Verdict string

const (
	VerdictSafe       Verdict = "SAFE"
	VerdictSuspicious Verdict = "SUSPICIOUS"
	VerdictMalicious  Verdict = "MALICIOUS"
	// VerdictUnknown is reserved for inputs that fail normalization or
	// produce zero signal either way.
	VerdictUnknown Verdict = "UNKNOWN"
)

// FlagCategory identifies which detector produced a flag. The set is
// closed: new detection families add a constant here, never a free-form
// string.
type FlagCategory string

const (
	CategoryHomograph           FlagCategory = "homograph"
	CategoryTyposquat           FlagCategory = "typosquat"
	CategoryIPLiteral           FlagCategory = "ip_literal"
	CategoryRiskyTLD            FlagCategory = "risky_tld"
	CategoryShortener           FlagCategory = "shortener"
	CategorySuspiciousStructure FlagCategory = "suspicious_structure"
	// CategoryTrustedDomain is the only suppressing category: its presence
	// caps how far the weaker heuristics can escalate a verdict.
	CategoryTrustedDomain FlagCategory = "trusted_domain"
)

// Categories lists every flag category in registration order.
var Categories = []FlagCategory{
	CategoryHomograph,
	CategoryTyposquat,
	CategoryIPLiteral,
	CategoryRiskyTLD,
	CategoryShortener,
	CategorySuspiciousStructure,
	CategoryTrustedDomain,
}

// Severity grades a single flag.
type Severity string

const (
	SeverityInfo   Severity = "info"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank orders severities for flag sorting; higher is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	case SeverityInfo:
		return 0
	}
	return -1
}

// Flag is a single piece of evidence produced by one detector.
type Flag struct {
	Category FlagCategory `json:"category"`
	Severity Severity     `json:"severity"`
	Title    string       `json:"title"`
	Evidence string       `json:"evidence"`
	Weight   float64      `json:"-"`
}

// NormalizedURL is the structured view of a raw scanned payload. It is
// immutable once produced; detectors are pure functions over it.
type NormalizedURL struct {
	// Raw is the original scanned text, preserved for display.
	Raw string
	// Scheme is the lowercase scheme the payload carried. When the payload
	// had none, Scheme holds the https placeholder used for shape
	// inspection and HadScheme is false.
	Scheme    string
	HadScheme bool
	// Host is the lowercase ASCII (IDNA) hostname, without port. Empty
	// when the payload has no recognizable host.
	Host string
	// UnicodeHost is the display form of the host, for confusable-script
	// inspection of internationalized names.
	UnicodeHost string
	// Registrable is the effective TLD+1 of Host, or "" when it cannot be
	// derived (IP literals, unlisted suffixes, non-URLs).
	Registrable string
	Path        string
	// Query holds best-effort decoded key/value pairs. RawQuery keeps the
	// undecoded text so malformed encodings still get substring matching.
	Query    map[string]string
	RawQuery string
	// IsWellFormed is a field, not a failure mode: normalization never
	// rejects input.
	IsWellFormed bool
}

// AnalysisResult is the engine's complete output for one payload,
// serializable as-is for the history and export subsystems.
type AnalysisResult struct {
	URL        string    `json:"url"`
	Verdict    Verdict   `json:"verdict"`
	Confidence float64   `json:"confidence"`
	Flags      []Flag    `json:"flags"`
	AnalyzedAt time.Time `json:"analyzedAt"`
}

// ExplanationKind drives presentation of an explanation entry. It is
// derived from flag severity, with contextual (social-engineering) flags
// mapped to Psychology.
type ExplanationKind string

const (
	KindWarning    ExplanationKind = "warning"
	KindSuspicious ExplanationKind = "suspicious"
	KindNotice     ExplanationKind = "notice"
	KindPsychology ExplanationKind = "psychology"
)

// Explanation is one short title/body pair rendered from a flag. The
// scan-result view and the training analysis report consume the same
// entries.
type Explanation struct {
	Kind  ExplanationKind `json:"kind"`
	Title string          `json:"title"`
	Body  string          `json:"body"`
}
