// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"linkguard/internal/db"
	"linkguard/internal/rules"
)

type HealthHandler struct {
	DB         *db.Database
	Tables     *rules.Tables
	AppVersion string
	StartTime  time.Time
}

func NewHealthHandler(database *db.Database, tables *rules.Tables, appVersion string) *HealthHandler {
	return &HealthHandler{
		DB:         database,
		Tables:     tables,
		AppVersion: appVersion,
		StartTime:  time.Now(),
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := gin.H{
		"status":        "ok",
		"runtime":       "go",
		"version":       h.AppVersion,
		"rules_version": h.Tables.Version,
		"uptime":        time.Since(h.StartTime).String(),
		"memory": gin.H{
			"alloc_mb":       memStats.Alloc / 1024 / 1024,
			"sys_mb":         memStats.Sys / 1024 / 1024,
			"num_goroutines": runtime.NumGoroutine(),
		},
	}

	if h.DB != nil {
		dbStatus := "healthy"
		if err := h.DB.HealthCheck(c.Request.Context()); err != nil {
			dbStatus = "unhealthy: " + err.Error()
			response["status"] = "degraded"
		}
		response["database"] = gin.H{"status": dbStatus}
	} else {
		response["database"] = gin.H{"status": "disabled"}
	}

	c.JSON(http.StatusOK, response)
}
