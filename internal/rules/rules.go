// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package rules loads the static rule tables the classification engine
// evaluates against: brand domains, confusable-character mappings, a
// risk-weighted TLD table, shortener and trusted-domain lists, and the
// keyword vocabularies used by the structural heuristics.
//
// Tables are versioned data, loaded once at process start and treated as
// read-only for the lifetime of the engine. A load failure is the one
// fatal condition in the system; the engine assumes valid tables once
// constructed.
package rules

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultTables []byte

// Brand is one allow-listed brand the impersonation detectors compare
// hosts against.
type Brand struct {
	Name   string `yaml:"name"`
	Domain string `yaml:"domain"`
}

// StructureLimits bounds the structural heuristics so a single noisy URL
// cannot emit an unbounded number of flags.
type StructureLimits struct {
	MaxHostHyphens    int `yaml:"max_host_hyphens"`
	MaxSubdomainDepth int `yaml:"max_subdomain_depth"`
}

// Tables is the full immutable rule set. Severity values in RiskyTLDs are
// the lowercase names used throughout the tables ("info", "low", "medium",
// "high").
type Tables struct {
	Version            string            `yaml:"version"`
	Brands             []Brand           `yaml:"brands"`
	Confusables        map[string]string `yaml:"confusables"`
	RiskyTLDs          map[string]string `yaml:"risky_tlds"`
	Shorteners         []string          `yaml:"shorteners"`
	TrustedDomains     []string          `yaml:"trusted_domains"`
	CredentialKeywords []string          `yaml:"credential_keywords"`
	UrgencyKeywords    []string          `yaml:"urgency_keywords"`
	Structure          StructureLimits   `yaml:"structure"`

	deconfuser *strings.Replacer
}

var validSeverities = map[string]bool{
	"info":   true,
	"low":    true,
	"medium": true,
	"high":   true,
}

// Load reads rule tables from path, or the embedded defaults when path is
// empty. The returned tables are validated and ready for concurrent reads.
func Load(path string) (*Tables, error) {
	data := defaultTables
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read rule tables %s: %w", path, err)
		}
		data = b
	}
	return Parse(data)
}

// Default returns the embedded rule tables. It panics on a malformed
// embed, which can only happen at build time.
func Default() *Tables {
	t, err := Parse(defaultTables)
	if err != nil {
		panic(fmt.Sprintf("embedded rule tables are invalid: %v", err))
	}
	return t
}

// Parse decodes and validates a YAML rule-table document.
func Parse(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse rule tables: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("invalid rule tables: %w", err)
	}
	t.buildDeconfuser()
	return &t, nil
}

func (t *Tables) validate() error {
	if t.Version == "" {
		return fmt.Errorf("version is required")
	}
	if len(t.Brands) == 0 {
		return fmt.Errorf("brand list is empty")
	}
	for _, b := range t.Brands {
		if b.Name == "" || b.Domain == "" {
			return fmt.Errorf("brand entries need both name and domain: %+v", b)
		}
		if b.Domain != strings.ToLower(b.Domain) {
			return fmt.Errorf("brand domain must be lowercase: %s", b.Domain)
		}
	}
	for tld, sev := range t.RiskyTLDs {
		if !validSeverities[sev] {
			return fmt.Errorf("risky TLD %q has unknown severity %q", tld, sev)
		}
	}
	if len(t.Confusables) == 0 {
		return fmt.Errorf("confusable-character map is empty")
	}
	if len(t.CredentialKeywords) == 0 || len(t.UrgencyKeywords) == 0 {
		return fmt.Errorf("keyword lists are empty")
	}
	if t.Structure.MaxHostHyphens <= 0 || t.Structure.MaxSubdomainDepth <= 0 {
		return fmt.Errorf("structure limits must be positive")
	}
	return nil
}

// buildDeconfuser compiles the confusable map into a replacer. Keys are
// ordered longest-first so multi-character look-alikes ("rn" for "m") win
// over their single-character prefixes.
func (t *Tables) buildDeconfuser() {
	keys := make([]string, 0, len(t.Confusables))
	for k := range t.Confusables {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, t.Confusables[k])
	}
	t.deconfuser = strings.NewReplacer(pairs...)
}

// Deconfuse maps a host through the confusable-character table, producing
// the canonical "skeleton" the homograph detector compares against brand
// domains.
func (t *Tables) Deconfuse(s string) string {
	return t.deconfuser.Replace(s)
}

// IsBrandDomain reports whether domain exactly matches a brand entry.
func (t *Tables) IsBrandDomain(domain string) bool {
	for _, b := range t.Brands {
		if b.Domain == domain {
			return true
		}
	}
	return false
}

// IsShortener reports whether host exactly matches a known link-shortening
// service.
func (t *Tables) IsShortener(host string) bool {
	for _, s := range t.Shorteners {
		if host == s {
			return true
		}
	}
	return false
}

// TrustedMatch returns the allow-list entry host belongs to, either by
// exact match or as a subdomain of the entry, or "" when none matches.
func (t *Tables) TrustedMatch(host string) string {
	for _, d := range t.TrustedDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return d
		}
	}
	return ""
}
