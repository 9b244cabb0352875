// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"linkguard/internal/engine"
	"linkguard/internal/handlers"
	"linkguard/internal/middleware"
	"linkguard/internal/rules"
	"linkguard/internal/scancache"
	"linkguard/internal/training"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testRouter wires the API without a database, the same shape the server
// runs in when DATABASE_URL is unset.
func testRouter(t *testing.T) *gin.Engine {
	t.Helper()

	tables := rules.Default()
	classifier := engine.New(tables)
	trainer, err := training.NewService(classifier)
	if err != nil {
		t.Fatalf("training.NewService: %v", err)
	}
	cache := scancache.New(64, time.Minute)
	t.Cleanup(cache.Close)

	scanHandler := handlers.NewScanHandler(classifier, cache, nil, middleware.NewInMemoryRateLimiter())
	historyHandler := handlers.NewHistoryHandler(nil)
	exportHandler := handlers.NewExportHandler(nil)
	trainingHandler := handlers.NewTrainingHandler(trainer, 0.8)
	statsHandler := handlers.NewStatsHandler(nil, cache)
	healthHandler := handlers.NewHealthHandler(nil, tables, "test")

	router := gin.New()
	router.GET("/healthz", healthHandler.HealthCheck)
	router.POST("/api/scan", scanHandler.Scan)
	router.GET("/api/history", historyHandler.List)
	router.GET("/api/history/:id", historyHandler.Get)
	router.GET("/api/export/ndjson", exportHandler.ExportNDJSON)
	router.GET("/api/training/scenarios", trainingHandler.Scenarios)
	router.POST("/api/training/answer", trainingHandler.Answer)
	router.POST("/api/training/session", trainingHandler.Session)
	router.GET("/api/stats", statsHandler.Stats)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)

	decoded := map[string]any{}
	if strings.Contains(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("%s %s: response is not JSON: %v\n%s", method, path, err, w.Body.String())
		}
	}
	return w, decoded
}

func TestScan(t *testing.T) {
	router := testRouter(t)

	w, body := doJSON(t, router, "POST", "/api/scan", `{"content":"https://g00gle.com/signin","source":"camera"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	result, _ := body["result"].(map[string]any)
	if result["verdict"] != "MALICIOUS" {
		t.Errorf("verdict = %v", result["verdict"])
	}
	if body["persisted"] != false {
		t.Error("no store configured, persisted should be false")
	}
	why, _ := body["why"].([]any)
	if len(why) == 0 {
		t.Error("explanations missing")
	}

	// Second scan of the same payload is served from cache with the same
	// result.
	w, body = doJSON(t, router, "POST", "/api/scan", `{"content":"https://g00gle.com/signin","source":"camera"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body["cached"] != true {
		t.Error("repeat scan should be served from cache")
	}
	again, _ := body["result"].(map[string]any)
	if again["verdict"] != result["verdict"] {
		t.Error("cached verdict differs from original")
	}
}

func TestScan_BadRequests(t *testing.T) {
	router := testRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"not json", "not json"},
		{"empty content", `{"content":"   "}`},
		{"unknown source", `{"content":"https://example.com","source":"webhook"}`},
	}
	for _, c := range cases {
		w, _ := doJSON(t, router, "POST", "/api/scan", c.body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", c.name, w.Code)
		}
	}

	w, _ := doJSON(t, router, "POST", "/api/scan", `{"content":"`+strings.Repeat("a", 9000)+`"}`)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized payload: status = %d", w.Code)
	}
}

func TestScan_DefaultSourceManual(t *testing.T) {
	router := testRouter(t)
	w, _ := doJSON(t, router, "POST", "/api/scan", `{"content":"https://example.com"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
}

func TestHistoryWithoutDatabase(t *testing.T) {
	router := testRouter(t)

	for _, path := range []string{"/api/history", "/api/history/2b1c8a04-0000-0000-0000-000000000000", "/api/export/ndjson"} {
		w, _ := doJSON(t, router, "GET", path, "")
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status = %d, want 503", path, w.Code)
		}
	}
}

func TestTrainingScenarios(t *testing.T) {
	router := testRouter(t)

	w, body := doJSON(t, router, "GET", "/api/training/scenarios", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	scenarios, _ := body["scenarios"].([]any)
	if len(scenarios) == 0 {
		t.Fatal("no scenarios returned")
	}
	first, _ := scenarios[0].(map[string]any)
	if _, ok := first["verdict"]; ok {
		t.Error("scenario listing must not reveal verdicts")
	}
	if first["payload"] == "" || first["id"] == "" {
		t.Errorf("scenario incomplete: %+v", first)
	}
}

func TestTrainingAnswer(t *testing.T) {
	router := testRouter(t)

	w, body := doJSON(t, router, "POST", "/api/training/answer", `{"scenarioId":"bare-ip-login","guess":"SUSPICIOUS"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if body["correct"] != true {
		t.Errorf("guess should be correct: %v", body)
	}
	analysis, _ := body["analysis"].(map[string]any)
	if analysis["verdict"] != "SUSPICIOUS" {
		t.Errorf("revealed verdict = %v", analysis["verdict"])
	}

	w, _ = doJSON(t, router, "POST", "/api/training/answer", `{"scenarioId":"nope","guess":"SAFE"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown scenario: status = %d", w.Code)
	}
}

func TestTrainingSession(t *testing.T) {
	router := testRouter(t)

	w, body := doJSON(t, router, "POST", "/api/training/session",
		`{"answers":[{"scenarioId":"trusted-repo","guess":"SAFE"},{"scenarioId":"bare-ip-login","guess":"SAFE"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if body["total"] != float64(2) || body["correct"] != float64(1) {
		t.Errorf("summary = %v", body)
	}
	if body["passed"] != false {
		t.Error("50% accuracy must not pass at a 0.8 threshold")
	}

	w, _ = doJSON(t, router, "POST", "/api/training/session", `{"answers":[]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty session: status = %d", w.Code)
	}
}

func TestStatsAndHealth(t *testing.T) {
	router := testRouter(t)

	doJSON(t, router, "POST", "/api/scan", `{"content":"https://example.com"}`)

	w, body := doJSON(t, router, "GET", "/api/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d", w.Code)
	}
	if _, ok := body["cache"]; !ok {
		t.Error("cache stats missing")
	}
	if _, ok := body["verdicts"]; ok {
		t.Error("verdict counts require a database")
	}

	w, body = doJSON(t, router, "GET", "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
	if body["status"] != "ok" || body["rules_version"] == "" {
		t.Errorf("health = %v", body)
	}
	database, _ := body["database"].(map[string]any)
	if database["status"] != "disabled" {
		t.Errorf("database status = %v", database["status"])
	}
}
