// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package engine

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// Normalize canonicalizes raw scanned text into a NormalizedURL. It never
// fails: payloads with no recognizable host come back with IsWellFormed
// set to false and an empty Host, which the scorer maps to UNKNOWN when no
// detector finds signal in the raw text.
func Normalize(raw string) NormalizedURL {
	n := NormalizedURL{
		Raw:   raw,
		Query: map[string]string{},
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return n
	}

	// A scheme is only prepended for URL-shape inspection; it claims
	// nothing about the link actually being served over TLS.
	n.HadScheme = hasScheme(text)
	parseText := text
	if !n.HadScheme {
		parseText = "https://" + text
	}

	parsed, err := url.Parse(parseText)
	if err != nil || parsed.Hostname() == "" {
		return n
	}

	host := strings.ToLower(parsed.Hostname())
	if !plausibleHost(host, n.HadScheme) {
		return n
	}

	n.Scheme = strings.ToLower(parsed.Scheme)
	n.UnicodeHost = host
	n.Host = host
	if ascii, err := idna.Lookup.ToASCII(host); err == nil && ascii != "" {
		n.Host = ascii
	}
	if uni, err := idna.Lookup.ToUnicode(n.Host); err == nil && uni != "" {
		n.UnicodeHost = uni
	}
	if net.ParseIP(n.Host) == nil {
		if etld1, err := publicsuffix.EffectiveTLDPlusOne(n.Host); err == nil {
			n.Registrable = strings.ToLower(etld1)
		}
	}

	n.Path = parsed.EscapedPath()
	n.RawQuery = parsed.RawQuery
	n.Query = splitQuery(parsed.RawQuery)
	n.IsWellFormed = true
	return n
}

func hasScheme(text string) bool {
	idx := strings.Index(text, "://")
	if idx <= 0 {
		return false
	}
	for _, r := range text[:idx] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.') {
			return false
		}
	}
	return true
}

// plausibleHost filters the bare words a QR payload like "hello" would
// otherwise produce once a scheme is prepended. Dotted names, IP literals,
// and anything the payload explicitly addressed with a scheme pass.
func plausibleHost(host string, hadScheme bool) bool {
	if hadScheme {
		return true
	}
	if strings.Contains(host, ".") {
		return true
	}
	return net.ParseIP(host) != nil
}

// splitQuery decodes key/value pairs tolerantly: pairs whose percent
// encoding is malformed are kept with their raw text rather than dropped,
// so keyword matching still sees them.
func splitQuery(rawQuery string) map[string]string {
	q := map[string]string{}
	if rawQuery == "" {
		return q
	}
	for _, pair := range strings.FieldsFunc(rawQuery, func(r rune) bool { return r == '&' || r == ';' }) {
		key, value, _ := strings.Cut(pair, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		if key != "" {
			q[key] = value
		}
	}
	return q
}
