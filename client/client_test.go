package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestServer creates a test server that routes to the given handler map.
// Keys are "METHOD /path", values are handler funcs.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := New(srv.URL+"/", WithAPIKey("test-key"))
	return srv, c
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func TestHealth(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/health": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, HealthResponse{Status: "ok", Version: "1.0.0", Database: "connected"})
		},
	})
	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if resp.Status != "ok" || resp.Version != "1.0.0" || resp.Database != "connected" {
		t.Errorf("got %+v", resp)
	}
}

func TestReady_NotReady(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/ready": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 503, map[string]any{"status": "not_ready", "checks": map[string]string{"database": "error"}})
		},
	})
	_, err := c.Ready(context.Background())
	if !IsUnavailable(err) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestTraverse(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/network/traverse": func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer test-key" {
				t.Errorf("missing auth header")
			}
			q := r.URL.Query()
			if q.Get("start_type") != "company" || q.Get("start_id") != "42" {
				t.Errorf("query = %v", q)
			}
			if q.Get("max_depth") != "2" || q.Get("direction") != "down" {
				t.Errorf("query = %v", q)
			}
			jsonResponse(w, 200, TraverseResult{
				Graph: Graph{
					Nodes: []Node{
						{ID: "company_42", Type: "company", RecordID: 42, Name: "Company 42"},
						{ID: "entity_7", Type: "entity", RecordID: 7, Name: "Sunrise PropCo LLC", Depth: 1},
					},
					Edges: []Edge{{Source: "company_42", Target: "entity_7", Relationship: "has_entity"}},
				},
				Statistics: Statistics{TotalNodes: 2, TotalEdges: 1, MaxDepthReached: 1, NodesByType: NodeCounts{Company: 1, Entity: 1}},
				Parameters: Parameters{StartType: "company", StartID: 42, MaxDepth: 2, Direction: "down"},
			})
		},
	})

	res, err := c.Network.Traverse(context.Background(), TraverseRequest{
		StartType: NodeCompany, StartID: 42, MaxDepth: 2, Direction: DirectionDown,
	})
	if err != nil {
		t.Fatalf("Traverse() error: %v", err)
	}
	if len(res.Graph.Nodes) != 2 || len(res.Graph.Edges) != 1 {
		t.Fatalf("graph = %+v", res.Graph)
	}
	if res.Statistics.NodesByType.Entity != 1 || res.Parameters.Direction != "down" {
		t.Errorf("result = %+v", res)
	}
}

func TestTraverse_OmitsDefaults(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/network/traverse": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Has("max_depth") || q.Has("direction") {
				t.Errorf("defaults should be omitted, got %v", q)
			}
			jsonResponse(w, 200, TraverseResult{})
		},
	})

	if _, err := c.Network.Traverse(context.Background(), TraverseRequest{StartType: NodeEntity, StartID: 7}); err != nil {
		t.Fatalf("Traverse() error: %v", err)
	}
}

func TestTraverse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"invalid", 400, `{"code":"invalid_request","message":"start_id is required"}`, IsInvalidRequest},
		{"unauthorized", 401, `{"code":"unauthorized","message":"invalid api key"}`, IsUnauthorized},
		{"rate limited", 429, `{"code":"rate_limited","message":"rate limit exceeded"}`, IsRateLimited},
		{"unavailable", 503, `{"code":"store_unavailable","message":"ownership store unavailable"}`, IsUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, c := newTestServer(t, map[string]http.HandlerFunc{
				"GET /api/v1/network/traverse": func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(tc.status)
					w.Write([]byte(tc.body)) //nolint:errcheck
				},
			})

			_, err := c.Network.Traverse(context.Background(), TraverseRequest{StartType: NodeCompany})
			if !tc.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNode(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/network/nodes/{type}/{id}": func(w http.ResponseWriter, r *http.Request) {
			if r.PathValue("id") == "404" {
				jsonResponse(w, 404, map[string]string{"code": "not_found", "message": "node not found"})
				return
			}
			jsonResponse(w, 200, NodeRecord{ID: r.PathValue("type") + "_" + r.PathValue("id"), Type: r.PathValue("type"), RecordID: 7, Name: "Sunrise PropCo LLC"})
		},
	})

	rec, err := c.Network.Node(context.Background(), NodeEntity, 7)
	if err != nil {
		t.Fatalf("Node() error: %v", err)
	}
	if rec.ID != "entity_7" || rec.Name != "Sunrise PropCo LLC" {
		t.Errorf("record = %+v", rec)
	}

	if _, err := c.Network.Node(context.Background(), NodeEntity, 404); !IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestParseAPIError_RawBody(t *testing.T) {
	err := parseAPIError(502, []byte("bad gateway"))
	if err.Code != "unknown" || err.Message != "bad gateway" {
		t.Errorf("got %+v", err)
	}
}
