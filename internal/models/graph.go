package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Traversal depth bounds accepted from callers.
const (
	MinTraverseDepth     = 1
	MaxTraverseDepth     = 5
	DefaultTraverseDepth = 3
)

// Direction selects which way a traversal expands from each node.
type Direction string

// Traversal directions. Up walks toward owners and parents, Down toward
// owned records.
const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionBoth Direction = "both"
)

// Directions lists every accepted direction.
var Directions = []Direction{DirectionUp, DirectionDown, DirectionBoth}

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionUp || d == DirectionDown || d == DirectionBoth
}

// Steps decomposes d into the single-direction expansions it implies.
// Both always yields up then down.
func (d Direction) Steps() []Direction {
	switch d {
	case DirectionUp:
		return []Direction{DirectionUp}
	case DirectionDown:
		return []Direction{DirectionDown}
	case DirectionBoth:
		return []Direction{DirectionUp, DirectionDown}
	default:
		return nil
	}
}

// TraverseRequest is the caller-facing traversal input. MaxDepth and
// Direction are optional and default to 3 and both.
type TraverseRequest struct {
	StartType NodeType  `json:"start_type"`
	StartID   int64     `json:"start_id"`
	MaxDepth  *int      `json:"max_depth,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// TraverseParams is a validated request with defaults applied. It is echoed
// back in every result.
type TraverseParams struct {
	StartType NodeType  `json:"start_type" validate:"required,oneof=property entity company principal"`
	StartID   int64     `json:"start_id" validate:"required,gt=0"`
	MaxDepth  int       `json:"max_depth" validate:"min=1,max=5"`
	Direction Direction `json:"direction" validate:"oneof=up down both"`
}

// Start returns the composite key of the start node.
func (p TraverseParams) Start() NodeKey {
	return NodeKey{Type: p.StartType, ID: p.StartID}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Resolve applies defaults to r and validates the result.
func (r *TraverseRequest) Resolve() (TraverseParams, error) {
	p := TraverseParams{
		StartType: r.StartType,
		StartID:   r.StartID,
		MaxDepth:  DefaultTraverseDepth,
		Direction: r.Direction,
	}

	if r.MaxDepth != nil {
		p.MaxDepth = *r.MaxDepth
	}

	if p.Direction == "" {
		p.Direction = DirectionBoth
	}

	if err := p.Validate(); err != nil {
		return TraverseParams{}, err
	}

	return p, nil
}

// Validate checks p against the request contract and maps the first
// violation to its sentinel error.
func (p *TraverseParams) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	fe := verrs[0]

	switch fe.StructField() {
	case "StartID":
		if fe.Tag() == "required" {
			return ErrMissingStartID
		}

		return ErrInvalidStartID
	case "StartType":
		return ErrInvalidStartType
	case "MaxDepth":
		return ErrMaxDepthOutOfRange
	case "Direction":
		return ErrInvalidDirection
	default:
		return fmt.Errorf("%w: %s failed %s", ErrInvalidRequest, fe.Field(), fe.Tag())
	}
}

// Graph is the node/edge payload of a traversal, shaped for direct use by a
// force-directed visualisation.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeCounts is the per-type node histogram. All four types are always present.
type NodeCounts struct {
	Property  int `json:"property"`
	Entity    int `json:"entity"`
	Company   int `json:"company"`
	Principal int `json:"principal"`
}

// Add increments the counter for t.
func (c *NodeCounts) Add(t NodeType) {
	switch t {
	case NodeProperty:
		c.Property++
	case NodeEntity:
		c.Entity++
	case NodeCompany:
		c.Company++
	case NodePrincipal:
		c.Principal++
	}
}

// Statistics summarises a traversal result.
type Statistics struct {
	TotalNodes      int        `json:"total_nodes"`
	TotalEdges      int        `json:"total_edges"`
	MaxDepthReached int        `json:"max_depth_reached"`
	NodesByType     NodeCounts `json:"nodes_by_type"`
}

// TraverseResult is the response of a traversal. Truncated is set when the
// traversal stopped early (cancellation, node cap or neighbor cap); the graph
// is still well formed in that case.
type TraverseResult struct {
	Graph      Graph          `json:"graph"`
	Statistics Statistics     `json:"statistics"`
	Parameters TraverseParams `json:"parameters"`
	Truncated  bool           `json:"truncated,omitempty"`
}

// NodeRecord is the response of a single display lookup.
type NodeRecord struct {
	ID       NodeKey  `json:"id"`
	Type     NodeType `json:"type"`
	RecordID int64    `json:"record_id"`
	NodeAttrs
}
