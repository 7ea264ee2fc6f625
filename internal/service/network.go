// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/3GHCRE/atlas-sub000/internal/domain"
	"github.com/3GHCRE/atlas-sub000/internal/metrics"
	"github.com/3GHCRE/atlas-sub000/internal/models"
)

// Traverser runs a traversal for validated parameters. *traverse.Engine
// implements it.
type Traverser interface {
	Traverse(ctx context.Context, p models.TraverseParams) (*models.TraverseResult, error)
}

// NodeLookup resolves display attributes of a single node.
type NodeLookup interface {
	Lookup(ctx context.Context, key models.NodeKey) (models.NodeAttrs, error)
}

// Compile-time check: *NetworkService must satisfy domain.NetworkService.
var _ domain.NetworkService = (*NetworkService)(nil)

// NetworkService validates requests, bounds traversal time and records
// traversal metrics.
type NetworkService struct {
	engine  Traverser
	lookup  NodeLookup
	log     *logrus.Logger
	timeout time.Duration
}

// NewNetworkService creates a NetworkService. A zero timeout leaves the
// caller's deadline untouched.
func NewNetworkService(engine Traverser, lookup NodeLookup, log *logrus.Logger, timeout time.Duration) *NetworkService {
	return &NetworkService{engine: engine, lookup: lookup, log: log, timeout: timeout}
}

// Traverse returns the ownership subgraph reachable from the requested start
// node. When the timeout expires the partial graph is returned with
// Truncated set.
func (s *NetworkService) Traverse(ctx context.Context, req models.TraverseRequest) (*models.TraverseResult, error) {
	p, err := req.Resolve()
	if err != nil {
		return nil, err
	}

	log := s.log.WithFields(logrus.Fields{
		"start":     p.Start().String(),
		"max_depth": p.MaxDepth,
		"direction": string(p.Direction),
	})
	log.Debug("network.traverse")

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()

	res, err := s.engine.Traverse(ctx, p)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("traverse").Inc()

		return nil, fmt.Errorf("traversing from %s: %w", p.Start(), err)
	}

	metrics.TraversalDuration.WithLabelValues(string(p.StartType), string(p.Direction)).Observe(time.Since(start).Seconds())
	metrics.TraversalNodes.Observe(float64(res.Statistics.TotalNodes))

	if res.Truncated {
		metrics.TraversalsTruncated.Inc()
		log.WithField("nodes", res.Statistics.TotalNodes).Warn("traversal truncated")
	}

	log.WithFields(logrus.Fields{
		"nodes":    res.Statistics.TotalNodes,
		"edges":    res.Statistics.TotalEdges,
		"duration": time.Since(start),
	}).Debug("network.traverse done")

	return res, nil
}

// Node returns the display record of key.
func (s *NetworkService) Node(ctx context.Context, key models.NodeKey) (*models.NodeRecord, error) {
	if !key.Type.Valid() {
		return nil, models.ErrInvalidStartType
	}

	if key.ID <= 0 {
		return nil, models.ErrInvalidStartID
	}

	s.log.WithField("node", key.String()).Debug("network.node")

	attrs, err := s.lookup.Lookup(ctx, key)
	if err != nil {
		return nil, err
	}

	if attrs.Name == "" {
		attrs.Name = key.FallbackName()
	}

	return &models.NodeRecord{
		ID:        key,
		Type:      key.Type,
		RecordID:  key.ID,
		NodeAttrs: attrs,
	}, nil
}
