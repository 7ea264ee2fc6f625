package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/3GHCRE/atlas-sub000/internal/api"
	"github.com/3GHCRE/atlas-sub000/internal/httputil"
	"github.com/3GHCRE/atlas-sub000/internal/models"
)

func newNetworkRouter(svc *mockNetwork) *gin.Engine {
	h := api.NewNetworkHandler(svc, testLogger())

	r := gin.New()
	r.GET("/network/traverse", h.Traverse)
	r.GET("/network/nodes/:type/:id", h.Node)
	r.GET("/network/:type/:id", h.TraverseFrom)

	return r
}

// resolvingService runs the real request resolution so handler tests see the
// same validation errors as production.
func resolvingService() *mockNetwork {
	return &mockNetwork{
		traverseFn: func(_ context.Context, req models.TraverseRequest) (*models.TraverseResult, error) {
			p, err := req.Resolve()
			if err != nil {
				return nil, err
			}

			return &models.TraverseResult{
				Graph: models.Graph{
					Nodes: []models.Node{{Key: p.Start(), Name: p.Start().FallbackName()}},
					Edges: []models.Edge{},
				},
				Statistics: models.Statistics{TotalNodes: 1},
				Parameters: p,
			}, nil
		},
	}
}

func TestTraverse_Status(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"defaults", "/network/traverse?start_type=company&start_id=42", http.StatusOK, ""},
		{"all params", "/network/traverse?start_type=entity&start_id=7&max_depth=5&direction=up", http.StatusOK, ""},
		{"path form", "/network/company/42?direction=down", http.StatusOK, ""},
		{"missing start_id", "/network/traverse?start_type=company", http.StatusBadRequest, api.ErrCodeInvalidRequest},
		{"non numeric start_id", "/network/traverse?start_type=company&start_id=abc", http.StatusBadRequest, api.ErrCodeInvalidRequest},
		{"negative start_id", "/network/traverse?start_type=company&start_id=-1", http.StatusBadRequest, api.ErrCodeInvalidRequest},
		{"bad type", "/network/traverse?start_type=deal&start_id=1", http.StatusBadRequest, api.ErrCodeInvalidRequest},
		{"depth zero", "/network/traverse?start_type=company&start_id=1&max_depth=0", http.StatusBadRequest, api.ErrCodeInvalidRequest},
		{"depth six", "/network/traverse?start_type=company&start_id=1&max_depth=6", http.StatusBadRequest, api.ErrCodeInvalidRequest},
		{"depth not int", "/network/traverse?start_type=company&start_id=1&max_depth=two", http.StatusBadRequest, api.ErrCodeInvalidRequest},
		{"bad direction", "/network/traverse?start_type=company&start_id=1&direction=sideways", http.StatusBadRequest, api.ErrCodeInvalidRequest},
		{"path form bad type", "/network/deal/1", http.StatusBadRequest, api.ErrCodeInvalidRequest},
	}

	r := newNetworkRouter(resolvingService())

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(r, http.MethodGet, tc.path, "")
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d; body %s", w.Code, tc.status, w.Body.String())
			}

			if tc.code == "" {
				return
			}

			var body httputil.ErrorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body.Code != tc.code {
				t.Errorf("code = %q, want %q", body.Code, tc.code)
			}
		})
	}
}

func TestTraverse_ForwardsParameters(t *testing.T) {
	svc := resolvingService()
	r := newNetworkRouter(svc)

	w := doRequest(r, http.MethodGet, "/network/traverse?start_type=principal&start_id=3&max_depth=2&direction=up", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	req := svc.lastReq
	if req.StartType != models.NodePrincipal || req.StartID != 3 || req.Direction != models.DirectionUp {
		t.Errorf("request = %+v", req)
	}
	if req.MaxDepth == nil || *req.MaxDepth != 2 {
		t.Errorf("max depth = %v, want 2", req.MaxDepth)
	}

	var res models.TraverseResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	want := models.TraverseParams{StartType: models.NodePrincipal, StartID: 3, MaxDepth: 2, Direction: models.DirectionUp}
	if res.Parameters != want {
		t.Errorf("parameters = %+v, want %+v", res.Parameters, want)
	}
}

func TestTraverse_ResponseShape(t *testing.T) {
	r := newNetworkRouter(resolvingService())

	w := doRequest(r, http.MethodGet, "/network/traverse?start_type=company&start_id=42", "")

	var body map[string]map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	for _, key := range []string{"graph", "statistics", "parameters"} {
		if _, ok := body[key]; !ok {
			t.Errorf("response missing %q", key)
		}
	}

	if body["parameters"]["max_depth"] != float64(3) || body["parameters"]["direction"] != "both" {
		t.Errorf("parameters = %v", body["parameters"])
	}
}

func TestTraverse_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"store unavailable", fmt.Errorf("traversing: %w", models.ErrStoreUnavailable), http.StatusServiceUnavailable, api.ErrCodeStoreUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, api.ErrCodeInternalError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockNetwork{
				traverseFn: func(context.Context, models.TraverseRequest) (*models.TraverseResult, error) {
					return nil, tc.err
				},
			}

			w := doRequest(newNetworkRouter(svc), http.MethodGet, "/network/traverse?start_type=company&start_id=42", "")
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d", w.Code, tc.status)
			}

			var body httputil.ErrorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body.Code != tc.code {
				t.Errorf("code = %q, want %q", body.Code, tc.code)
			}
		})
	}
}

func TestNode(t *testing.T) {
	svc := &mockNetwork{
		nodeFn: func(_ context.Context, key models.NodeKey) (*models.NodeRecord, error) {
			if key.ID == 404 {
				return nil, models.ErrNodeNotFound
			}
			if !key.Type.Valid() {
				return nil, models.ErrInvalidStartType
			}

			return &models.NodeRecord{
				ID:        key,
				Type:      key.Type,
				RecordID:  key.ID,
				NodeAttrs: models.NodeAttrs{Name: "Sunrise PropCo LLC", Subtype: "propco"},
			}, nil
		},
	}
	r := newNetworkRouter(svc)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"found", "/network/nodes/entity/7", http.StatusOK},
		{"missing", "/network/nodes/entity/404", http.StatusNotFound},
		{"bad id", "/network/nodes/entity/x", http.StatusBadRequest},
		{"bad type", "/network/nodes/deal/7", http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(r, http.MethodGet, tc.path, "")
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d", w.Code, tc.status)
			}
		})
	}

	w := doRequest(r, http.MethodGet, "/network/nodes/entity/7", "")

	var rec models.NodeRecord
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if rec.ID != (models.NodeKey{Type: models.NodeEntity, ID: 7}) || rec.Name != "Sunrise PropCo LLC" {
		t.Errorf("record = %+v", rec)
	}
}
