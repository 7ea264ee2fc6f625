package service

import (
	"context"
	"sync"

	"github.com/3GHCRE/atlas-sub000/internal/models"
)

// mockTraverser records calls and returns configured responses.
type mockTraverser struct {
	mu    sync.Mutex
	calls []models.TraverseParams

	traverse func(ctx context.Context, p models.TraverseParams) (*models.TraverseResult, error)
}

func (m *mockTraverser) Traverse(ctx context.Context, p models.TraverseParams) (*models.TraverseResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, p)
	m.mu.Unlock()

	return m.traverse(ctx, p)
}

// mockLookup records calls and returns configured responses.
type mockLookup struct {
	mu    sync.Mutex
	calls []models.NodeKey

	lookup func(ctx context.Context, key models.NodeKey) (models.NodeAttrs, error)
}

func (m *mockLookup) Lookup(ctx context.Context, key models.NodeKey) (models.NodeAttrs, error) {
	m.mu.Lock()
	m.calls = append(m.calls, key)
	m.mu.Unlock()

	return m.lookup(ctx, key)
}
