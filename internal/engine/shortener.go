// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package engine

import (
	"fmt"

	"linkguard/internal/rules"
)

// shortenerDetector flags link-shortening services. Shorteners are not
// inherently malicious, but they hide the real destination, so they
// contribute to confidence without ever reaching MALICIOUS on their own.
type shortenerDetector struct{}

func (shortenerDetector) Name() string { return "URL shortener" }

func (shortenerDetector) Detect(u NormalizedURL, tables *rules.Tables) []Flag {
	if u.Host == "" || !tables.IsShortener(u.Host) {
		return nil
	}
	return []Flag{newFlag(CategoryShortener, SeverityLow,
		"Shortened link hides the destination",
		fmt.Sprintf("%s is a link-shortening service: the address you see is not the address you will land on.", u.Host),
	)}
}
