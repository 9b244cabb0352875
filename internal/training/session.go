// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package training

import (
	"time"

	"linkguard/internal/engine"
)

// Answer is one trainee guess for a scenario.
type Answer struct {
	ScenarioID string         `json:"scenarioId"`
	Guess      engine.Verdict `json:"guess"`
}

// GradedAnswer pairs a guess with the engine's verdict and the full
// analysis, so the reveal view can show the same flags a live scan would.
type GradedAnswer struct {
	ScenarioID string                `json:"scenarioId"`
	Title      string                `json:"title"`
	Focus      engine.FlagCategory   `json:"focus,omitempty"`
	Guess      engine.Verdict        `json:"guess"`
	Actual     engine.Verdict        `json:"actual"`
	Correct    bool                  `json:"correct"`
	Analysis   engine.AnalysisResult `json:"analysis"`
	Why        []engine.Explanation  `json:"why"`
}

// CategoryScore is the per-category tally in a session summary.
type CategoryScore struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

// SessionSummary reports one completed training round.
type SessionSummary struct {
	RulesVersion string                                 `json:"rulesVersion"`
	Total        int                                    `json:"total"`
	Correct      int                                    `json:"correct"`
	Accuracy     float64                                `json:"accuracy"`
	Passed       bool                                   `json:"passed"`
	ByFocus      map[engine.FlagCategory]*CategoryScore `json:"byFocus"`
	Answers      []GradedAnswer                         `json:"answers"`
	GradedAt     time.Time                              `json:"gradedAt"`
}

// Grade scores one answer. Unknown scenario ids report ok=false; the
// handler turns that into a 404 rather than guessing.
func (s *Service) Grade(a Answer) (GradedAnswer, bool) {
	sc, ok := s.Scenario(a.ScenarioID)
	if !ok {
		return GradedAnswer{}, false
	}
	r := s.Classify(sc.Payload)
	return GradedAnswer{
		ScenarioID: sc.ID,
		Title:      sc.Title,
		Focus:      sc.Focus,
		Guess:      a.Guess,
		Actual:     r.Verdict,
		Correct:    a.Guess == r.Verdict,
		Analysis:   r,
		Why:        engine.Explain(r.Flags),
	}, true
}

// GradeSession scores a full round of answers. Answers for unknown
// scenario ids are skipped; they count neither for nor against the
// trainee. passScore is the accuracy needed to pass, in [0,1].
func (s *Service) GradeSession(answers []Answer, passScore float64) SessionSummary {
	summary := SessionSummary{
		RulesVersion: s.engine.Tables().Version,
		ByFocus:      map[engine.FlagCategory]*CategoryScore{},
		GradedAt:     time.Now().UTC(),
	}

	for _, a := range answers {
		graded, ok := s.Grade(a)
		if !ok {
			continue
		}
		summary.Total++
		if graded.Correct {
			summary.Correct++
		}
		if graded.Focus != "" {
			cs := summary.ByFocus[graded.Focus]
			if cs == nil {
				cs = &CategoryScore{}
				summary.ByFocus[graded.Focus] = cs
			}
			cs.Total++
			if graded.Correct {
				cs.Correct++
			}
		}
		summary.Answers = append(summary.Answers, graded)
	}

	if summary.Total > 0 {
		summary.Accuracy = float64(summary.Correct) / float64(summary.Total)
	}
	summary.Passed = summary.Total > 0 && summary.Accuracy >= passScore
	return summary
}
