// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"linkguard/internal/engine"
	"linkguard/internal/history"
	"linkguard/internal/middleware"
	"linkguard/internal/scancache"
)

// maxPayloadBytes caps scanned content; QR payloads top out well below
// this even at version 40.
const maxPayloadBytes = 8192

type ScanHandler struct {
	Engine  *engine.Engine
	Cache   *scancache.Cache
	Store   *history.Store
	Limiter middleware.RateLimiter
}

func NewScanHandler(e *engine.Engine, cache *scancache.Cache, store *history.Store, limiter middleware.RateLimiter) *ScanHandler {
	return &ScanHandler{Engine: e, Cache: cache, Store: store, Limiter: limiter}
}

type scanRequest struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

// Scan classifies one payload and, when history is enabled, records it.
// A history write failure never hides the verdict from the user; the
// response reports persisted=false instead.
func (h *ScanHandler) Scan(c *gin.Context) {
	if h.Limiter != nil {
		if result := h.Limiter.CheckAndRecord(c.ClientIP()); !result.Allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":        fmt.Sprintf("Rate limit reached. Please wait %d seconds before scanning again.", result.WaitSeconds),
				"wait_seconds": result.WaitSeconds,
			})
			return
		}
	}

	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON with a content field"})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}
	if len(req.Content) > maxPayloadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "content exceeds the maximum payload size"})
		return
	}

	source := history.Source(req.Source)
	if req.Source == "" {
		source = history.SourceManual
	}
	if !history.ValidSource(source) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source must be one of camera, gallery, clipboard, manual"})
		return
	}

	result, cached := h.Cache.Get(req.Content)
	if !cached {
		result = h.Engine.Analyze(req.Content)
		h.Cache.Set(req.Content, result)
	}

	response := gin.H{
		"result":    result,
		"why":       engine.Explain(result.Flags),
		"cached":    cached,
		"persisted": false,
	}

	if h.Store != nil {
		item, err := h.Store.Record(c.Request.Context(), source, req.Content, result)
		if err != nil {
			traceID, _ := c.Get("trace_id")
			slog.Error("Failed to record scan", "trace_id", traceID, "error", err)
		} else {
			response["persisted"] = true
			response["historyId"] = item.ID
		}
	}

	c.JSON(http.StatusOK, response)
}
