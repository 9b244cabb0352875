// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package engine

import (
	"fmt"
	"net"
	"strings"

	"golang.org/x/net/publicsuffix"

	"linkguard/internal/rules"
)

// riskyTLDDetector performs a suffix membership test against the
// risk-weighted TLD table. Severity comes from the table: the free and
// file-extension TLDs are graded higher than merely uncommon ones.
type riskyTLDDetector struct{}

func (riskyTLDDetector) Name() string { return "Risky TLD" }

func (riskyTLDDetector) Detect(u NormalizedURL, tables *rules.Tables) []Flag {
	if u.Host == "" || net.ParseIP(u.Host) != nil {
		return nil
	}

	suffix, _ := publicsuffix.PublicSuffix(u.Host)
	candidates := []string{suffix}
	if last := lastLabel(u.Host); last != suffix {
		candidates = append(candidates, last)
	}

	for _, tld := range candidates {
		sev, ok := tables.RiskyTLDs[tld]
		if !ok {
			continue
		}
		return []Flag{newFlag(CategoryRiskyTLD, tableSeverity(sev),
			"Domain uses the high-abuse ."+tld+" TLD",
			fmt.Sprintf("The .%s top-level domain is disproportionately represented in phishing feeds because registrations are cheap or free.", tld),
		)}
	}
	return nil
}

func lastLabel(host string) string {
	if idx := strings.LastIndexByte(host, '.'); idx >= 0 {
		return host[idx+1:]
	}
	return host
}

// tableSeverity maps the lowercase severity names used in the rule tables
// onto the engine's closed Severity set, defaulting to medium for any
// future table value this binary predates.
func tableSeverity(s string) Severity {
	switch s {
	case "info":
		return SeverityInfo
	case "low":
		return SeverityLow
	case "medium":
		return SeverityMedium
	case "high":
		return SeverityHigh
	}
	return SeverityMedium
}
