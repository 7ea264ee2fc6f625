package api_test

import (
	"context"

	"github.com/3GHCRE/atlas-sub000/internal/models"
)

// mockNetwork implements api.NetworkService for testing.
type mockNetwork struct {
	traverseFn func(ctx context.Context, req models.TraverseRequest) (*models.TraverseResult, error)
	nodeFn     func(ctx context.Context, key models.NodeKey) (*models.NodeRecord, error)

	lastReq models.TraverseRequest
}

func (m *mockNetwork) Traverse(ctx context.Context, req models.TraverseRequest) (*models.TraverseResult, error) {
	m.lastReq = req
	return m.traverseFn(ctx, req)
}

func (m *mockNetwork) Node(ctx context.Context, key models.NodeKey) (*models.NodeRecord, error) {
	return m.nodeFn(ctx, key)
}

// mockHealth implements api.HealthChecker for testing.
type mockHealth struct {
	healthErr error
	schemaErr error
}

func (m *mockHealth) HealthCheck(context.Context) error { return m.healthErr }

func (m *mockHealth) CheckSchema(context.Context) error { return m.schemaErr }
