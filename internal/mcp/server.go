// Package mcp exposes the ownership network traversal as a Model Context
// Protocol tool.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/3GHCRE/atlas-sub000/internal/domain"
	"github.com/3GHCRE/atlas-sub000/internal/models"
)

// ToolTraverse is the name of the traversal tool.
const ToolTraverse = "traverse_ownership_network"

const traverseDescription = "Multi-hop traversal of the ownership network starting from a property, " +
	"entity, company or principal. Returns graph nodes and edges suitable for a force-directed " +
	"layout, plus per-type statistics."

// TraverseArgs is the tool input.
type TraverseArgs struct {
	StartType string `json:"start_type" jsonschema:"Type of starting node: property, entity, company or principal"`
	StartID   int64  `json:"start_id" jsonschema:"ID of the starting node"`
	MaxDepth  *int   `json:"max_depth,omitempty" jsonschema:"Maximum traversal depth (default 3, max 5)"`
	Direction string `json:"direction,omitempty" jsonschema:"Traversal direction: up (toward owners), down (toward properties) or both (default)"`
}

// traverseInputSchema is the schema inferred from TraverseArgs with the
// allowed start types and directions listed as enums.
func traverseInputSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[TraverseArgs](nil)
	if err != nil {
		return nil, fmt.Errorf("inferring %s input schema: %w", ToolTraverse, err)
	}

	schema.Properties["start_type"].Enum = enumOf(models.NodeTypes)
	schema.Properties["direction"].Enum = enumOf(models.Directions)

	return schema, nil
}

func enumOf[T ~string](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = string(v)
	}

	return out
}

// Handler serves the tool calls.
type Handler struct {
	svc domain.NetworkService
	log *logrus.Logger
}

// NewServer creates an MCP server with the traversal tool registered.
func NewServer(svc domain.NetworkService, log *logrus.Logger, version string) *mcp.Server {
	h := &Handler{svc: svc, log: log}

	s := mcp.NewServer(&mcp.Implementation{
		Name:    "atlas",
		Version: version,
	}, nil)

	tool := &mcp.Tool{
		Name:        ToolTraverse,
		Description: traverseDescription,
	}

	schema, err := traverseInputSchema()
	if err != nil {
		log.WithError(err).Warn("using inferred tool schema")
	} else {
		tool.InputSchema = schema
	}

	mcp.AddTool(s, tool, h.Traverse)

	return s
}

// Traverse runs a traversal and returns the result as JSON text. Invalid
// input comes back as a tool error rather than a protocol error.
func (h *Handler) Traverse(ctx context.Context, _ *mcp.CallToolRequest, args TraverseArgs) (*mcp.CallToolResult, any, error) {
	req := models.TraverseRequest{
		StartType: models.NodeType(args.StartType),
		StartID:   args.StartID,
		MaxDepth:  args.MaxDepth,
		Direction: models.Direction(args.Direction),
	}

	res, err := h.svc.Traverse(ctx, req)
	if err != nil {
		if models.IsClientError(err) {
			return toolError(err.Error()), nil, nil
		}

		h.log.WithError(err).WithField("tool", ToolTraverse).Error("tool call failed")

		return nil, nil, fmt.Errorf("traverse: %w", err)
	}

	body, err := json.Marshal(res)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding traverse result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(body)}},
	}, nil, nil
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

// RunStdio serves s over stdin/stdout until ctx is cancelled or the client
// disconnects.
func RunStdio(ctx context.Context, s *mcp.Server) error {
	if err := s.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp stdio: %w", err)
	}

	return nil
}
