// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package engine

import (
	"fmt"
	"net"
	"strings"

	"linkguard/internal/rules"
)

// ipLiteralDetector flags hosts expressed as raw IPv4/IPv6 addresses.
// Legitimate services almost never present bare IPs to end users; phishing
// kits hosted on compromised boxes frequently do.
type ipLiteralDetector struct{}

func (ipLiteralDetector) Name() string { return "IP-literal host" }

func (ipLiteralDetector) Detect(u NormalizedURL, _ *rules.Tables) []Flag {
	if u.Host == "" {
		return nil
	}
	ip := net.ParseIP(u.Host)
	if ip == nil {
		return nil
	}

	version := "IPv4"
	if strings.Contains(u.Host, ":") {
		version = "IPv6"
	}
	return []Flag{newFlag(CategoryIPLiteral, SeverityMedium,
		"Raw IP address instead of a domain name",
		fmt.Sprintf("The link points at the %s address %s rather than a named website — there is no registered domain to hold accountable.", version, ip.String()),
	)}
}
