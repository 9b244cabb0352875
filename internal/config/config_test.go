// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATABASE_URL", "PORT", "RULES_PATH", "TRAINING_PASS_SCORE", "SCAN_CACHE_SIZE", "SCAN_CACHE_TTL"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.HistoryEnabled() {
		t.Error("history must be disabled without DATABASE_URL")
	}
	if cfg.TrainingPassScore != 0.8 {
		t.Errorf("pass score = %v, want 0.8", cfg.TrainingPassScore)
	}
	if cfg.ScanCacheSize != 1024 || cfg.ScanCacheTTL != 15*time.Minute {
		t.Errorf("cache defaults = %d/%v", cfg.ScanCacheSize, cfg.ScanCacheTTL)
	}
	if cfg.AppVersion == "" {
		t.Error("app version missing")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("PORT", "9090")
	t.Setenv("RULES_PATH", "/etc/linkguard/tables.yaml")
	t.Setenv("TRAINING_PASS_SCORE", "0.9")
	t.Setenv("SCAN_CACHE_SIZE", "16")
	t.Setenv("SCAN_CACHE_TTL", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.HistoryEnabled() {
		t.Error("history should be enabled")
	}
	if cfg.Port != "9090" || cfg.RulesPath != "/etc/linkguard/tables.yaml" {
		t.Errorf("overrides lost: %+v", cfg)
	}
	if cfg.TrainingPassScore != 0.9 || cfg.ScanCacheSize != 16 || cfg.ScanCacheTTL != time.Minute {
		t.Errorf("overrides lost: %+v", cfg)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"TRAINING_PASS_SCORE": "1.5",
		"SCAN_CACHE_SIZE":     "-3",
		"SCAN_CACHE_TTL":      "soon",
	}
	for key, value := range cases {
		clearEnv(t)
		t.Setenv(key, value)
		if _, err := Load(); err == nil {
			t.Errorf("expected error for %s=%s", key, value)
		}
	}
}
