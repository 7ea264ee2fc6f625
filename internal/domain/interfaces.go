// Package domain defines the canonical service interfaces shared across API
// layers (REST, MCP). Consumers should depend on these interfaces rather than
// re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/3GHCRE/atlas-sub000/internal/models"
)

// NetworkService defines ownership-network read operations.
type NetworkService interface {
	// Traverse validates req, applies defaults and returns the reachable
	// subgraph. Invalid input yields an error wrapping models.ErrInvalidRequest.
	Traverse(ctx context.Context, req models.TraverseRequest) (*models.TraverseResult, error)
	// Node returns the display record of a single node or models.ErrNodeNotFound.
	Node(ctx context.Context, key models.NodeKey) (*models.NodeRecord, error)
}

// HealthChecker reports storage readiness.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
	CheckSchema(ctx context.Context) error
}
