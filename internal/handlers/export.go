// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"linkguard/internal/history"
)

type ExportHandler struct {
	Store *history.Store
}

func NewExportHandler(store *history.Store) *ExportHandler {
	return &ExportHandler{Store: store}
}

func (h *ExportHandler) requireStore(c *gin.Context) bool {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scan history is not configured on this server"})
		return false
	}
	return true
}

func exportFilename(ext string) string {
	return fmt.Sprintf("linkguard_export_%s.%s", time.Now().UTC().Format("20060102_150405"), ext)
}

// ExportNDJSON streams the full history, one scan per line. Errors past
// the first byte can only be logged; the status line is already gone.
func (h *ExportHandler) ExportNDJSON(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportFilename("ndjson")))
	c.Status(http.StatusOK)

	if err := h.Store.ExportNDJSON(c.Request.Context(), c.Writer); err != nil {
		traceID, _ := c.Get("trace_id")
		slog.Error("NDJSON export aborted", "trace_id", traceID, "error", err)
	}
	c.Writer.Flush()
}

// ExportCSV streams the full history as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportFilename("csv")))
	c.Status(http.StatusOK)

	if err := h.Store.ExportCSV(c.Request.Context(), c.Writer); err != nil {
		traceID, _ := c.Get("trace_id")
		slog.Error("CSV export aborted", "trace_id", traceID, "error", err)
	}
	c.Writer.Flush()
}
