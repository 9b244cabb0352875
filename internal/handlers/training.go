// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linkguard/internal/training"
)

type TrainingHandler struct {
	Service   *training.Service
	PassScore float64
}

func NewTrainingHandler(service *training.Service, passScore float64) *TrainingHandler {
	return &TrainingHandler{Service: service, PassScore: passScore}
}

// Scenarios lists the catalog. Verdicts are deliberately absent: the
// trainee sees them only after answering.
func (h *TrainingHandler) Scenarios(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"scenarios": h.Service.Scenarios()})
}

// Answer grades one guess and reveals the engine's analysis.
func (h *TrainingHandler) Answer(c *gin.Context) {
	var answer training.Answer
	if err := c.ShouldBindJSON(&answer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON with scenarioId and guess"})
		return
	}

	graded, ok := h.Service.Grade(answer)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown scenario id"})
		return
	}
	c.JSON(http.StatusOK, graded)
}

// Session grades a full round of answers at once.
func (h *TrainingHandler) Session(c *gin.Context) {
	var req struct {
		Answers []training.Answer `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON with an answers array"})
		return
	}
	if len(req.Answers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "answers must not be empty"})
		return
	}

	c.JSON(http.StatusOK, h.Service.GradeSession(req.Answers, h.PassScore))
}
