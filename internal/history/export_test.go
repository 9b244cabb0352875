// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package history

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"linkguard/internal/engine"
)

func sampleItems(t *testing.T) []Item {
	t.Helper()
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return []Item{
		{
			ID:         uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			Source:     SourceCamera,
			RawContent: "https://github.com/torvalds/linux",
			Result: engine.AnalysisResult{
				URL:        "https://github.com/torvalds/linux",
				Verdict:    engine.VerdictSafe,
				Confidence: 1,
				Flags: []engine.Flag{
					{Category: engine.CategoryTrustedDomain, Severity: engine.SeverityInfo, Title: "Known domain", Evidence: "github.com"},
				},
				AnalyzedAt: at,
			},
			ScannedAt: at,
		},
		{
			ID:         uuid.MustParse("22222222-2222-2222-2222-222222222222"),
			Source:     SourceClipboard,
			RawContent: "http://185.22.10.4/login",
			Result: engine.AnalysisResult{
				URL:        "http://185.22.10.4/login",
				Verdict:    engine.VerdictSuspicious,
				Confidence: 0.6988,
				Flags: []engine.Flag{
					{Category: engine.CategoryIPLiteral, Severity: engine.SeverityMedium, Title: "Raw IP address", Evidence: "185.22.10.4"},
					{Category: engine.CategorySuspiciousStructure, Severity: engine.SeverityMedium, Title: "Credential wording", Evidence: "login"},
				},
				AnalyzedAt: at,
			},
			ScannedAt: at,
		},
	}
}

func TestWriteNDJSON(t *testing.T) {
	items := sampleItems(t)
	var buf bytes.Buffer
	if err := WriteNDJSON(&buf, items); err != nil {
		t.Fatalf("WriteNDJSON: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	var decoded []Item
	for scanner.Scan() {
		var item Item
		if err := json.Unmarshal(scanner.Bytes(), &item); err != nil {
			t.Fatalf("line is not valid JSON: %v\n%s", err, scanner.Text())
		}
		decoded = append(decoded, item)
	}
	if len(decoded) != len(items) {
		t.Fatalf("got %d lines, want %d", len(decoded), len(items))
	}
	if decoded[1].Result.Verdict != engine.VerdictSuspicious {
		t.Errorf("round-tripped verdict = %s", decoded[1].Result.Verdict)
	}
	if decoded[0].ID != items[0].ID {
		t.Errorf("round-tripped id = %s", decoded[0].ID)
	}
}

func TestWriteCSV(t *testing.T) {
	items := sampleItems(t)
	var buf bytes.Buffer
	if err := WriteCSV(&buf, items); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != len(items)+1 {
		t.Fatalf("got %d records, want header + %d rows", len(records), len(items))
	}
	if strings.Join(records[0], ",") != strings.Join(CSVHeader, ",") {
		t.Errorf("header = %v", records[0])
	}

	row := records[2]
	if row[2] != "clipboard" || row[4] != "SUSPICIOUS" {
		t.Errorf("row = %v", row)
	}
	if row[6] != "ip_literal;suspicious_structure" {
		t.Errorf("flag categories = %q", row[6])
	}
	if row[1] != "2026-08-01T12:00:00Z" {
		t.Errorf("scanned_at = %q", row[1])
	}
}

func TestValidSource(t *testing.T) {
	for _, s := range []Source{SourceCamera, SourceGallery, SourceClipboard, SourceManual} {
		if !ValidSource(s) {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []Source{"", "webhook", "CAMERA"} {
		if ValidSource(s) {
			t.Errorf("%q should be rejected", s)
		}
	}
}
