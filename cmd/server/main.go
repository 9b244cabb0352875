// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"linkguard/internal/config"
	"linkguard/internal/db"
	"linkguard/internal/engine"
	"linkguard/internal/handlers"
	"linkguard/internal/history"
	"linkguard/internal/middleware"
	"linkguard/internal/rules"
	"linkguard/internal/scancache"
	"linkguard/internal/training"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	tables, err := rules.Load(cfg.RulesPath)
	if err != nil {
		slog.Error("Failed to load rule tables", "error", err, "path", cfg.RulesPath)
		os.Exit(1)
	}
	slog.Info("Rule tables loaded", "version", tables.Version, "brands", len(tables.Brands))

	classifier := engine.New(tables)

	trainer, err := training.NewService(classifier)
	if err != nil {
		slog.Error("Failed to build training service", "error", err)
		os.Exit(1)
	}

	var database *db.Database
	var store *history.Store
	if cfg.HistoryEnabled() {
		database, err = db.Connect(cfg.DatabaseURL)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer database.Close()

		store = history.NewStore(database.Pool)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := store.EnsureSchema(ctx); err != nil {
			cancel()
			slog.Error("Failed to prepare history schema", "error", err)
			os.Exit(1)
		}
		cancel()
	} else {
		slog.Info("DATABASE_URL not set; history and export are disabled")
	}

	cache := scancache.New(cfg.ScanCacheSize, cfg.ScanCacheTTL)
	defer cache.Close()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(middleware.RequestContext())
	router.Use(middleware.SecurityHeaders())

	rateLimiter := middleware.NewInMemoryRateLimiter()
	slog.Info("Rate limiter initialized", "backend", "in-memory", "max_requests", middleware.ScanRateLimitMax, "window_seconds", middleware.ScanRateLimitWindow)

	scanHandler := handlers.NewScanHandler(classifier, cache, store, rateLimiter)
	historyHandler := handlers.NewHistoryHandler(store)
	exportHandler := handlers.NewExportHandler(store)
	trainingHandler := handlers.NewTrainingHandler(trainer, cfg.TrainingPassScore)
	statsHandler := handlers.NewStatsHandler(store, cache)
	healthHandler := handlers.NewHealthHandler(database, tables, cfg.AppVersion)

	router.GET("/healthz", healthHandler.HealthCheck)

	router.POST("/api/scan", scanHandler.Scan)
	router.GET("/api/history", historyHandler.List)
	router.GET("/api/history/:id", historyHandler.Get)
	router.GET("/api/export/ndjson", exportHandler.ExportNDJSON)
	router.GET("/api/export/csv", exportHandler.ExportCSV)
	router.GET("/api/training/scenarios", trainingHandler.Scenarios)
	router.POST("/api/training/answer", trainingHandler.Answer)
	router.POST("/api/training/session", trainingHandler.Session)
	router.GET("/api/stats", statsHandler.Stats)

	addr := fmt.Sprintf("0.0.0.0:%s", cfg.Port)
	slog.Info("Starting linkguard server", "address", addr, "version", cfg.AppVersion)

	if err := router.Run(addr); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
