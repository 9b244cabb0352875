// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package engine

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"linkguard/internal/rules"
)

// structureDetector inspects the shape of the URL itself: credential and
// urgency vocabulary in host, path, and query, hyphen stuffing, deceptive
// brand-bearing subdomains, deep nesting, and heavy percent encoding. For
// payloads that are not URLs at all, it scans the raw text so a known
// malicious-pattern signature still surfaces instead of a blank UNKNOWN.
type structureDetector struct{}

func (structureDetector) Name() string { return "Suspicious structure" }

func (structureDetector) Detect(u NormalizedURL, tables *rules.Tables) []Flag {
	if !u.IsWellFormed {
		return rawTextFlags(u.Raw, tables)
	}

	var flags []Flag

	hostTokens := tokenize(u.Host)
	if matched := matchKeywords(hostTokens, u.Host, tables.CredentialKeywords); len(matched) > 0 {
		flags = append(flags, newFlag(CategorySuspiciousStructure, SeverityMedium,
			"Credential-harvest wording in the domain name",
			"The domain itself advertises "+quoteList(matched)+" — real sign-in pages live on the brand's own domain, not on domains named after the act of logging in.",
		))
	}

	pathAndQuery := strings.ToLower(u.Path + " " + u.RawQuery + " " + flattenQuery(u.Query))
	pqTokens := tokenize(pathAndQuery)
	if matched := matchKeywords(pqTokens, pathAndQuery, tables.CredentialKeywords); len(matched) > 0 {
		flags = append(flags, newFlag(CategorySuspiciousStructure, SeverityMedium,
			"Credential-harvest wording in the link",
			"The link's path or parameters mention "+quoteList(matched)+" — wording that pressures you toward entering credentials.",
		))
	}
	if matched := matchKeywords(pqTokens, pathAndQuery, tables.UrgencyKeywords); len(matched) > 0 {
		flags = append(flags, newFlag(CategorySuspiciousStructure, SeverityMedium,
			"Urgency pressure in the link",
			"The link contains urgency wording ("+quoteList(matched)+") — a hallmark of social engineering designed to rush the decision.",
		))
	}

	if net.ParseIP(u.Host) == nil {
		if n := strings.Count(u.Host, "-"); n > tables.Structure.MaxHostHyphens {
			flags = append(flags, newFlag(CategorySuspiciousStructure, SeverityLow,
				"Unusually hyphenated domain",
				fmt.Sprintf("The host contains %d hyphens; legitimate domains rarely chain this many words together.", n),
			))
		}
		if f, ok := deceptiveSubdomain(u, tables); ok {
			flags = append(flags, f)
		}
		if u.Registrable != "" {
			depth := len(strings.Split(u.Host, ".")) - len(strings.Split(u.Registrable, "."))
			if depth > tables.Structure.MaxSubdomainDepth {
				flags = append(flags, newFlag(CategorySuspiciousStructure, SeverityMedium,
					"Deeply nested subdomains",
					fmt.Sprintf("The host stacks %d subdomain levels — a pattern used to push a familiar-looking name into the visible part of the address.", depth),
				))
			}
		}
	}

	if overEncoded(u.Raw) {
		flags = append(flags, newFlag(CategorySuspiciousStructure, SeverityLow,
			"Heavily encoded URL",
			"The link hides a large share of its content behind percent encoding, which is commonly used to defeat casual inspection.",
		))
	}

	return flags
}

// rawTextFlags is the non-URL path: QR payloads of arbitrary text can
// still carry phishing signatures. One keyword alone stays low severity so
// benign text degrades to UNKNOWN-adjacent SAFE rather than escalating.
func rawTextFlags(raw string, tables *rules.Tables) []Flag {
	lower := strings.ToLower(raw)
	tokens := tokenize(lower)
	matched := matchKeywords(tokens, lower, tables.CredentialKeywords)
	matched = append(matched, matchKeywords(tokens, lower, tables.UrgencyKeywords)...)
	if len(matched) == 0 {
		return nil
	}

	severity := SeverityLow
	if len(matched) >= 2 {
		severity = SeverityMedium
	}
	return []Flag{newFlag(CategorySuspiciousStructure, severity,
		"Phishing wording in a non-URL payload",
		"The scanned text is not a link but contains "+quoteList(matched)+" — vocabulary typical of credential-harvest lures.",
	)}
}

// deceptiveSubdomain flags brand names parked in the subdomain of an
// unrelated registrable domain (paypal.example-pay.com).
func deceptiveSubdomain(u NormalizedURL, tables *rules.Tables) (Flag, bool) {
	if u.Registrable == "" || u.Host == u.Registrable || tables.IsBrandDomain(u.Registrable) {
		return Flag{}, false
	}
	sub := strings.TrimSuffix(u.Host, "."+u.Registrable)
	for _, label := range strings.Split(sub, ".") {
		for _, b := range tables.Brands {
			if label == b.Name {
				return newFlag(CategorySuspiciousStructure, SeverityMedium,
					"Brand name buried in the subdomain",
					fmt.Sprintf("%q appears as a subdomain, but the site actually belongs to %q — the familiar name is bait.", b.Name, u.Registrable),
				), true
			}
		}
	}
	return Flag{}, false
}

// quoteList renders matched keywords as quoted, comma-separated prose
// ("verify", "account") for evidence strings.
func quoteList(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = `"` + w + `"`
	}
	return strings.Join(quoted, ", ")
}

// tokenize splits text into lowercase alphanumeric words.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}

// matchKeywords returns the keywords found in the text. Hyphenated
// keywords ("sign-in", "act-now") are matched as substrings of the joined
// text since tokenization splits them apart; plain keywords must match a
// whole token to keep "auth" from firing inside "author".
func matchKeywords(tokens []string, joined string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(kw, "-") {
			if strings.Contains(joined, kw) {
				matched = append(matched, kw)
			}
			continue
		}
		for _, tok := range tokens {
			if tok == kw {
				matched = append(matched, kw)
				break
			}
		}
	}
	return matched
}

func flattenQuery(q map[string]string) string {
	if len(q) == 0 {
		return ""
	}
	parts := make([]string, 0, len(q)*2)
	for k, v := range q {
		parts = append(parts, k, v)
	}
	return strings.Join(parts, " ")
}

const encodedRunThreshold = 5

func overEncoded(raw string) bool {
	if strings.Count(raw, "%") <= encodedRunThreshold {
		return false
	}
	decoded, err := url.QueryUnescape(raw)
	return err == nil && decoded != raw
}
