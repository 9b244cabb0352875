// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package engine

import (
	"math"
	"sort"
)

// Flag weights by severity. TrustedDomain contributes nothing regardless
// of severity; it acts through the threshold ladder instead.
const (
	weightHigh   = 2.4
	weightMedium = 1.2
	weightLow    = 0.5

	// saturationK shapes 1-exp(-sum/k): one high flag alone lands around
	// 0.70, one high plus one medium clears the malicious threshold.
	saturationK = 2.0

	thresholdMalicious  = 0.75
	thresholdSuspicious = 0.35
)

func weightFor(category FlagCategory, severity Severity) float64 {
	if category == CategoryTrustedDomain {
		return 0
	}
	switch severity {
	case SeverityHigh:
		return weightHigh
	case SeverityMedium:
		return weightMedium
	case SeverityLow:
		return weightLow
	}
	return 0
}

// scoreFlags combines flags into a bounded confidence and maps it onto a
// verdict through the fixed threshold ladder. It is a pure function of its
// inputs: no randomness, no wall clock.
func scoreFlags(u NormalizedURL, flags []Flag) (float64, Verdict) {
	var sum float64
	trusted := false
	high := false
	for _, f := range flags {
		sum += f.Weight
		if f.Category == CategoryTrustedDomain {
			trusted = true
		}
		if f.Severity == SeverityHigh {
			high = true
		}
	}

	raw := 1 - math.Exp(-sum/saturationK)
	// Large weight sums round the exponential to exactly 1 in float64;
	// confidence is asymptotic and must stay strictly below 1.
	if raw >= 1 {
		raw = math.Nextafter(1, 0)
	}

	switch {
	case trusted && !high:
		// Allow-listed and nothing severe: confidence is inverted to mean
		// "confidently low risk".
		return 1 - raw, VerdictSafe
	case raw >= thresholdMalicious:
		return raw, VerdictMalicious
	case raw >= thresholdSuspicious:
		return raw, VerdictSuspicious
	case len(flags) == 0 && !u.IsWellFormed:
		return 0, VerdictUnknown
	default:
		return raw, VerdictSafe
	}
}

// sortFlags orders flags by descending severity, keeping registration
// order within equal severities so output is deterministic.
func sortFlags(flags []Flag) {
	sort.SliceStable(flags, func(i, j int) bool {
		return flags[i].Severity.Rank() > flags[j].Severity.Rank()
	})
}
