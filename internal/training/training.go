// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package training drives the phishing-awareness training mode: a curated
// set of scenario payloads the trainee classifies by hand, scored against
// what the real engine says. The package never re-implements any detection
// logic; every verdict a trainee is graded against comes from the same
// engine that scores live scans.
package training

import (
	"fmt"

	"linkguard/internal/engine"
)

// Scenario is one training payload. Focus names the detection family the
// scenario teaches; it is empty for malformed-payload drills where the
// lesson is the UNKNOWN verdict itself.
type Scenario struct {
	ID      string              `json:"id"`
	Title   string              `json:"title"`
	Payload string              `json:"payload"`
	Focus   engine.FlagCategory `json:"focus,omitempty"`
	Hint    string              `json:"hint"`
}

// Service exposes the scenario catalog and grading over a shared engine.
type Service struct {
	engine    *engine.Engine
	scenarios []Scenario
}

// NewService builds a training service over e. It fails when the built-in
// catalog disagrees with the engine about any scenario's focus category,
// which would mean the rule tables and the catalog have drifted apart.
func NewService(e *engine.Engine) (*Service, error) {
	s := &Service{engine: e, scenarios: catalog}
	for _, sc := range s.scenarios {
		if sc.Focus == "" {
			continue
		}
		r := e.Analyze(sc.Payload)
		if !hasCategory(r.Flags, sc.Focus) {
			return nil, fmt.Errorf("training scenario %s no longer triggers %s under the loaded rule tables", sc.ID, sc.Focus)
		}
	}
	return s, nil
}

// Scenarios returns the catalog in its fixed order.
func (s *Service) Scenarios() []Scenario {
	out := make([]Scenario, len(s.scenarios))
	copy(out, s.scenarios)
	return out
}

// Scenario looks up one scenario by id.
func (s *Service) Scenario(id string) (Scenario, bool) {
	for _, sc := range s.scenarios {
		if sc.ID == id {
			return sc, true
		}
	}
	return Scenario{}, false
}

// Classify grades a payload with the live engine. Handlers call this for
// the reveal step after a trainee answers, so the analysis a trainee sees
// is identical to what a real scan of the same payload would show.
func (s *Service) Classify(payload string) engine.AnalysisResult {
	return s.engine.Analyze(payload)
}

func hasCategory(flags []engine.Flag, c engine.FlagCategory) bool {
	for _, f := range flags {
		if f.Category == c {
			return true
		}
	}
	return false
}
