// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linkguard/internal/history"
	"linkguard/internal/scancache"
)

type StatsHandler struct {
	Store *history.Store
	Cache *scancache.Cache
}

func NewStatsHandler(store *history.Store, cache *scancache.Cache) *StatsHandler {
	return &StatsHandler{Store: store, Cache: cache}
}

func (h *StatsHandler) Stats(c *gin.Context) {
	response := gin.H{
		"cache": h.Cache.Stats(),
	}

	if h.Store != nil {
		counts, err := h.Store.VerdictCounts(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch verdict counts"})
			return
		}
		total := 0
		for _, n := range counts {
			total += n
		}
		response["verdicts"] = counts
		response["total_scans"] = total
	}

	c.JSON(http.StatusOK, response)
}
