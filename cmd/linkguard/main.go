// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// linkguard is the offline companion CLI: it classifies URLs with the
// same engine and rule tables the server uses, with no database and no
// network access.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"linkguard/internal/engine"
	"linkguard/internal/rules"
	"linkguard/internal/training"
)

var exitCode int

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

func newRootCmd() *cobra.Command {
	var rulesPath string

	root := &cobra.Command{
		Use:           "linkguard",
		Short:         "Classify URLs for phishing signals, entirely offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&rulesPath, "rules", "", "path to a rule-table YAML file (default: built-in tables)")

	root.AddCommand(newScanCmd(&rulesPath))
	root.AddCommand(newScenariosCmd(&rulesPath))
	root.AddCommand(newRulesCmd(&rulesPath))
	return root
}

func loadTables(path string) (*rules.Tables, error) {
	tables, err := rules.Load(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load rule tables: %w", err)
	}
	return tables, nil
}

// verdictExitCode maps verdicts onto exit statuses so shell scripts can
// branch on the result: 0 safe, 1 suspicious, 2 malicious, 3 unknown.
func verdictExitCode(v engine.Verdict) int {
	switch v {
	case engine.VerdictSuspicious:
		return 1
	case engine.VerdictMalicious:
		return 2
	case engine.VerdictUnknown:
		return 3
	}
	return 0
}

func newScanCmd(rulesPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan <url>...",
		Short: "Classify one or more URLs or scanned payloads",
		Long: "Classify payloads with the rule-based engine. The exit status reflects\n" +
			"the worst verdict seen: 0 safe, 1 suspicious, 2 malicious, 3 unknown.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := loadTables(*rulesPath)
			if err != nil {
				return err
			}
			classifier := engine.New(tables)

			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, raw := range args {
				result := classifier.Analyze(raw)
				if code := verdictExitCode(result.Verdict); code > exitCode {
					exitCode = code
				}
				if asJSON {
					if err := enc.Encode(result); err != nil {
						return err
					}
					continue
				}
				printResult(cmd, result)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit one JSON result per line")
	return cmd
}

func printResult(cmd *cobra.Command, result engine.AnalysisResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", result.URL)
	fmt.Fprintf(out, "  verdict:    %s (confidence %.2f)\n", result.Verdict, result.Confidence)
	if len(result.Flags) == 0 {
		fmt.Fprintf(out, "  flags:      none\n\n")
		return
	}
	fmt.Fprintf(out, "  flags:\n")
	for _, e := range engine.Explain(result.Flags) {
		fmt.Fprintf(out, "    [%s] %s\n", e.Kind, e.Title)
		fmt.Fprintf(out, "      %s\n", e.Body)
	}
	fmt.Fprintln(out)
}

func newScenariosCmd(rulesPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List the training scenarios with the engine's verdict for each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := loadTables(*rulesPath)
			if err != nil {
				return err
			}
			trainer, err := training.NewService(engine.New(tables))
			if err != nil {
				return err
			}

			type row struct {
				training.Scenario
				Verdict engine.Verdict `json:"verdict"`
			}
			var listing []row
			for _, sc := range trainer.Scenarios() {
				listing = append(listing, row{Scenario: sc, Verdict: trainer.Classify(sc.Payload).Verdict})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(listing)
			}
			for _, r := range listing {
				focus := string(r.Focus)
				if focus == "" {
					focus = "-"
				}
				fmt.Fprintf(out, "%-20s %-10s %-22s %s\n", r.ID, r.Verdict, focus, r.Payload)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the listing as JSON")
	return cmd
}

func newRulesCmd(rulesPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show the loaded rule-table version and sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := loadTables(*rulesPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version:             %s\n", tables.Version)
			fmt.Fprintf(out, "brands:              %d\n", len(tables.Brands))
			fmt.Fprintf(out, "confusables:         %d\n", len(tables.Confusables))
			fmt.Fprintf(out, "risky TLDs:          %d\n", len(tables.RiskyTLDs))
			fmt.Fprintf(out, "shorteners:          %d\n", len(tables.Shorteners))
			fmt.Fprintf(out, "trusted domains:     %d\n", len(tables.TrustedDomains))
			fmt.Fprintf(out, "credential keywords: %d\n", len(tables.CredentialKeywords))
			fmt.Fprintf(out, "urgency keywords:    %d\n", len(tables.UrgencyKeywords))
			source := "built-in"
			if *rulesPath != "" {
				source = *rulesPath
			}
			fmt.Fprintf(out, "source:              %s\n", source)
			return nil
		},
	}
}
