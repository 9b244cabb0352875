// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package engine

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"linkguard/internal/rules"
)

// typosquatDetector measures edit distance between the registrable domain
// and each brand entry. Distance 1 is almost always a deliberate
// registration; distance 2 still warrants suspicion when the lengths are
// close.
type typosquatDetector struct{}

func (typosquatDetector) Name() string { return "Typosquat / brand distance" }

const (
	typosquatMaxDistance   = 2
	typosquatLengthWindow  = 2
	typosquatMinLabelRunes = 4
)

func (typosquatDetector) Detect(u NormalizedURL, tables *rules.Tables) []Flag {
	reg := u.Registrable
	if reg == "" || tables.IsBrandDomain(reg) {
		return nil
	}

	bestDistance := typosquatMaxDistance + 1
	var bestBrand rules.Brand

	sld, _, _ := strings.Cut(reg, ".")
	for _, b := range tables.Brands {
		d := levenshtein.ComputeDistance(reg, b.Domain)
		if abs(len(reg)-len(b.Domain)) <= typosquatLengthWindow && d < bestDistance {
			bestDistance = d
			bestBrand = b
		}

		// Same trick on the second-level label alone, so paypal.com
		// look-alikes on a different TLD still register.
		brandSLD, _, _ := strings.Cut(b.Domain, ".")
		if len(brandSLD) < typosquatMinLabelRunes {
			continue
		}
		if d := levenshtein.ComputeDistance(sld, brandSLD); d < bestDistance &&
			abs(len(sld)-len(brandSLD)) <= typosquatLengthWindow {
			bestDistance = d
			bestBrand = b
		}
	}

	if bestDistance < 1 || bestDistance > typosquatMaxDistance {
		return nil
	}

	severity := SeverityMedium
	if bestDistance == 1 {
		severity = SeverityHigh
	}
	return []Flag{newFlag(CategoryTyposquat, severity,
		"Domain is one small edit away from "+bestBrand.Domain,
		fmt.Sprintf("The domain %q differs from the real %s domain %q by %d character edit(s) — a classic typosquatting registration.", reg, bestBrand.Name, bestBrand.Domain, bestDistance),
	)}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
