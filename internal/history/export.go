// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package history

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// exportPageSize bounds memory during export; pages stream to the writer
// as they are read.
const exportPageSize = 200

// WriteNDJSON encodes items as newline-delimited JSON, one scan per line.
func WriteNDJSON(w io.Writer, items []Item) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return fmt.Errorf("failed to encode scan %s: %w", item.ID, err)
		}
	}
	return nil
}

// CSVHeader is the column set of a CSV export. Flags collapse to their
// categories; the full detail lives in the NDJSON export.
var CSVHeader = []string{"id", "scanned_at", "source", "url", "verdict", "confidence", "flag_categories"}

func csvRow(item Item) []string {
	categories := make([]string, 0, len(item.Result.Flags))
	for _, f := range item.Result.Flags {
		categories = append(categories, string(f.Category))
	}
	return []string{
		item.ID.String(),
		item.ScannedAt.UTC().Format(time.RFC3339),
		string(item.Source),
		item.Result.URL,
		string(item.Result.Verdict),
		strconv.FormatFloat(item.Result.Confidence, 'f', 4, 64),
		strings.Join(categories, ";"),
	}
}

// WriteCSV encodes items as CSV rows under CSVHeader.
func WriteCSV(w io.Writer, items []Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, item := range items {
		if err := cw.Write(csvRow(item)); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", item.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportNDJSON streams the full history to w, paging through the store.
func (s *Store) ExportNDJSON(ctx context.Context, w io.Writer) error {
	return s.exportPages(ctx, func(items []Item) error {
		return WriteNDJSON(w, items)
	})
}

// ExportCSV streams the full history to w as CSV.
func (s *Store) ExportCSV(ctx context.Context, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	err := s.exportPages(ctx, func(items []Item) error {
		for _, item := range items {
			if err := cw.Write(csvRow(item)); err != nil {
				return fmt.Errorf("failed to write CSV row for %s: %w", item.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func (s *Store) exportPages(ctx context.Context, emit func([]Item) error) error {
	for offset := 0; ; offset += exportPageSize {
		items, err := s.List(ctx, exportPageSize, offset)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		if err := emit(items); err != nil {
			return err
		}
		if len(items) < exportPageSize {
			return nil
		}
	}
}
