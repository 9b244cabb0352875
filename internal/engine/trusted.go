// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package engine

import (
	"fmt"

	"linkguard/internal/rules"
)

// trustedDetector is the only suppressing detector: an allow-list match
// emits an informational flag whose presence caps escalation from the
// weaker structural heuristics.
type trustedDetector struct{}

func (trustedDetector) Name() string { return "Trusted domain" }

func (trustedDetector) Detect(u NormalizedURL, tables *rules.Tables) []Flag {
	if u.Host == "" {
		return nil
	}
	match := tables.TrustedMatch(u.Host)
	if match == "" {
		return nil
	}
	return []Flag{newFlag(CategoryTrustedDomain, SeverityInfo,
		"Allow-listed domain",
		fmt.Sprintf("%s is on the trusted-domain allow-list. Stay alert for look-alikes: attackers imitate trusted names precisely because people relax when they see them.", match),
	)}
}
