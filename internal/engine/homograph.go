// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package engine

import (
	"fmt"
	"net"
	"strings"

	"github.com/Zamiell/confusables"
	"github.com/agnivade/levenshtein"

	"linkguard/internal/rules"
)

// homographDetector catches visual impersonation: hosts whose characters
// read as a known brand once confusable characters (digit look-alikes,
// Cyrillic/Latin twins) are mapped to their canonical form.
type homographDetector struct{}

func (homographDetector) Name() string { return "Homograph / confusable characters" }

func (homographDetector) Detect(u NormalizedURL, tables *rules.Tables) []Flag {
	if u.Host == "" || net.ParseIP(u.Host) != nil {
		return nil
	}

	domain := u.Registrable
	if domain == "" {
		domain = u.Host
	}
	if tables.IsBrandDomain(domain) {
		return nil
	}

	// ASCII skeleton: digit and symbol look-alikes from the rule table.
	skeleton := tables.Deconfuse(domain)
	if skeleton != domain {
		for _, b := range tables.Brands {
			if levenshtein.ComputeDistance(skeleton, b.Domain) <= 1 {
				return []Flag{newFlag(CategoryHomograph, SeverityHigh,
					"Domain imitates "+b.Domain,
					fmt.Sprintf("The domain %q reads as %q once look-alike characters are canonicalized — visually indistinguishable from the real %s domain.", domain, skeleton, b.Name),
				)}
			}
		}
		if f, ok := brandTokenMatch(domain, tables); ok {
			return []Flag{f}
		}
	}

	// Unicode homoglyphs: internationalized hosts whose confusable
	// skeleton collapses onto a brand domain.
	if u.UnicodeHost != u.Host && confusables.ContainsHomoglyphs(u.UnicodeHost) {
		uniSkeleton := strings.ToLower(confusables.Normalize(u.UnicodeHost))
		for _, b := range tables.Brands {
			// Both sides go through the same skeleton so visually identical
			// strings compare equal regardless of script.
			brandSkeleton := strings.ToLower(confusables.Normalize(b.Domain))
			if uniSkeleton == brandSkeleton || strings.HasSuffix(uniSkeleton, "."+brandSkeleton) ||
				levenshtein.ComputeDistance(registrableOf(uniSkeleton), brandSkeleton) <= 1 {
				return []Flag{newFlag(CategoryHomograph, SeverityHigh,
					"Internationalized domain imitates "+b.Domain,
					fmt.Sprintf("The displayed name %q uses characters from another script that render like %s's domain, while the real address is %q.", u.UnicodeHost, b.Name, u.Host),
				)}
			}
		}
	}

	return nil
}

// brandTokenMatch checks the hyphen-separated tokens of the registrable
// domain's first label: "app1e-id-verify.com" carries the token "app1e",
// which canonicalizes to the brand name "apple".
func brandTokenMatch(domain string, tables *rules.Tables) (Flag, bool) {
	label, _, _ := strings.Cut(domain, ".")
	for _, token := range strings.Split(label, "-") {
		canon := tables.Deconfuse(token)
		if canon == token {
			continue
		}
		for _, b := range tables.Brands {
			if canon == b.Name {
				return newFlag(CategoryHomograph, SeverityHigh,
					"Domain imitates the "+b.Name+" brand",
					fmt.Sprintf("The domain %q contains %q, which reads as the brand name %q once look-alike characters are canonicalized.", domain, token, b.Name),
				), true
			}
		}
	}
	return Flag{}, false
}

// registrableOf approximates the registrable domain of an already
// lowercased dotted name by keeping its last two labels. Used only for
// comparing confusable skeletons, where the public-suffix list may not
// recognize the mixed-script form.
func registrableOf(host string) string {
	labels := strings.Split(host, ".")
	if len(labels) <= 2 {
		return host
	}
	return strings.Join(labels[len(labels)-2:], ".")
}
