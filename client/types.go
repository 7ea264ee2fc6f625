package client

// Node types accepted as traversal start points.
const (
	NodeProperty  = "property"
	NodeEntity    = "entity"
	NodeCompany   = "company"
	NodePrincipal = "principal"
)

// Traversal directions.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
	DirectionBoth = "both"
)

// TraverseRequest selects the start node and bounds of a traversal. Zero
// MaxDepth and empty Direction leave the server defaults (3, both).
type TraverseRequest struct {
	StartType string
	StartID   int64
	MaxDepth  int
	Direction string
}

// Node is a vertex of a traversal result. ID has the form "<type>_<id>".
type Node struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	RecordID int64  `json:"record_id"`
	Name     string `json:"name"`
	Subtype  string `json:"subtype,omitempty"`
	Depth    int    `json:"depth"`
}

// Edge is a relationship between two nodes of a traversal result.
type Edge struct {
	Source       string   `json:"source"`
	Target       string   `json:"target"`
	Relationship string   `json:"relationship"`
	Confidence   *float64 `json:"confidence,omitempty"`
}

// Graph holds the nodes and edges of a traversal.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeCounts is the per-type node histogram.
type NodeCounts struct {
	Property  int `json:"property"`
	Entity    int `json:"entity"`
	Company   int `json:"company"`
	Principal int `json:"principal"`
}

// Statistics summarises a traversal.
type Statistics struct {
	TotalNodes      int        `json:"total_nodes"`
	TotalEdges      int        `json:"total_edges"`
	MaxDepthReached int        `json:"max_depth_reached"`
	NodesByType     NodeCounts `json:"nodes_by_type"`
}

// Parameters echoes the effective traversal parameters.
type Parameters struct {
	StartType string `json:"start_type"`
	StartID   int64  `json:"start_id"`
	MaxDepth  int    `json:"max_depth"`
	Direction string `json:"direction"`
}

// TraverseResult is returned by the traverse endpoint.
type TraverseResult struct {
	Graph      Graph      `json:"graph"`
	Statistics Statistics `json:"statistics"`
	Parameters Parameters `json:"parameters"`
	Truncated  bool       `json:"truncated,omitempty"`
}

// NodeRecord is returned by the node lookup endpoint.
type NodeRecord struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	RecordID int64  `json:"record_id"`
	Name     string `json:"name"`
	Subtype  string `json:"subtype,omitempty"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadinessResponse is returned by the readiness endpoint.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
