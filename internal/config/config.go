// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL       string
	Port              string
	AppVersion        string
	RulesPath         string
	TrainingPassScore float64
	ScanCacheSize     int
	ScanCacheTTL      time.Duration
}

// Load reads configuration from the environment, after merging a local
// .env file when one exists. DATABASE_URL is optional: without it the
// server runs with history and export disabled, which is the normal mode
// for the offline CLI and for development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	passScore := 0.8
	if v := os.Getenv("TRAINING_PASS_SCORE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			return nil, fmt.Errorf("TRAINING_PASS_SCORE must be a number in [0,1], got %q", v)
		}
		passScore = f
	}

	cacheSize := 1024
	if v := os.Getenv("SCAN_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("SCAN_CACHE_SIZE must be a positive integer, got %q", v)
		}
		cacheSize = n
	}

	cacheTTL := 15 * time.Minute
	if v := os.Getenv("SCAN_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("SCAN_CACHE_TTL must be a positive duration, got %q", v)
		}
		cacheTTL = d
	}

	return &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		Port:              port,
		AppVersion:        "26.8.2",
		RulesPath:         os.Getenv("RULES_PATH"),
		TrainingPassScore: passScore,
		ScanCacheSize:     cacheSize,
		ScanCacheTTL:      cacheTTL,
	}, nil
}

// HistoryEnabled reports whether a database was configured.
func (c *Config) HistoryEnabled() bool { return c.DatabaseURL != "" }
