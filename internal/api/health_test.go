package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/3GHCRE/atlas-sub000/internal/api"
)

func healthRouter(checker api.HealthChecker) *gin.Engine {
	h := api.NewHealthHandler(checker, testLogger(), "test-v1")

	r := gin.New()
	r.GET("/health", h.Liveness)
	r.GET("/ready", h.Readiness)

	return r
}

func TestLiveness_ReturnsOK(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		checker  api.HealthChecker
		database string
	}{
		{"connected", &mockHealth{}, "connected"},
		{"disconnected", &mockHealth{healthErr: errors.New("down")}, "disconnected"},
		{"not configured", nil, "not_configured"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			w := doRequest(healthRouter(tc.checker), http.MethodGet, "/health", "")
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}

			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}

			if body["status"] != "ok" || body["version"] != "test-v1" {
				t.Errorf("body = %v", body)
			}
			if body["database"] != tc.database {
				t.Errorf("database = %v, want %s", body["database"], tc.database)
			}
		})
	}
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		checker api.HealthChecker
		status  int
		checks  map[string]string
	}{
		{"ready", &mockHealth{}, http.StatusOK, map[string]string{"database": "ok", "schema": "ok"}},
		{"database down", &mockHealth{healthErr: errors.New("down")}, http.StatusServiceUnavailable, map[string]string{"database": "error", "schema": "unknown"}},
		{"not migrated", &mockHealth{schemaErr: errors.New("missing")}, http.StatusServiceUnavailable, map[string]string{"database": "ok", "schema": "error"}},
		{"not configured", nil, http.StatusServiceUnavailable, map[string]string{"database": "not_configured", "schema": "unknown"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			w := doRequest(healthRouter(tc.checker), http.MethodGet, "/ready", "")
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d", w.Code, tc.status)
			}

			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}

			for k, want := range tc.checks {
				if body.Checks[k] != want {
					t.Errorf("checks[%s] = %q, want %q", k, body.Checks[k], want)
				}
			}
		})
	}
}
