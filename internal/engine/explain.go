// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package engine

// Explain renders flags into short title/body pairs, one entry per flag,
// preserving the flags' order. The live scan-result view and the training
// analysis report consume these entries identically; there is no second
// explanation format to drift out of sync.
func Explain(flags []Flag) []Explanation {
	out := make([]Explanation, 0, len(flags))
	for _, f := range flags {
		out = append(out, Explanation{
			Kind:  kindFor(f),
			Title: f.Title,
			Body:  f.Evidence,
		})
	}
	return out
}

// kindFor derives the presentation kind from severity. Informational
// flags describe social-engineering context rather than a technical
// signal, so they render as psychology notes.
func kindFor(f Flag) ExplanationKind {
	switch f.Severity {
	case SeverityHigh:
		return KindWarning
	case SeverityMedium:
		return KindSuspicious
	case SeverityInfo:
		return KindPsychology
	}
	return KindNotice
}
