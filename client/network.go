package client

import (
	"context"
	"net/url"
	"strconv"
)

// NetworkService handles ownership network operations.
type NetworkService struct {
	c *Client
}

// Traverse returns the ownership subgraph reachable from the start node.
func (s *NetworkService) Traverse(ctx context.Context, req TraverseRequest) (*TraverseResult, error) {
	params := url.Values{}
	params.Set("start_type", req.StartType)
	params.Set("start_id", strconv.FormatInt(req.StartID, 10))
	if req.MaxDepth != 0 {
		params.Set("max_depth", strconv.Itoa(req.MaxDepth))
	}
	if req.Direction != "" {
		params.Set("direction", req.Direction)
	}

	var resp TraverseResult
	if err := s.c.get(ctx, "/api/v1/network/traverse", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Node returns the display record of a single node.
func (s *NetworkService) Node(ctx context.Context, nodeType string, id int64) (*NodeRecord, error) {
	path := "/api/v1/network/nodes/" + url.PathEscape(nodeType) + "/" + strconv.FormatInt(id, 10)

	var resp NodeRecord
	if err := s.c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
