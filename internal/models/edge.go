package models

// Relationship labels synthesised for derived links. Other labels come
// straight from the relationship tables (e.g. "property_owner",
// "facility_operator", "lender", or a principal's role string).
const (
	RelationParentCompany = "parent_company"
	RelationHasEntity     = "has_entity"
)

// Edge is a directed relationship between two nodes of a traversal result.
// A nil Confidence means the score is unknown, which is not the same as 1.0.
type Edge struct {
	Source       NodeKey  `json:"source"`
	Target       NodeKey  `json:"target"`
	Relationship string   `json:"relationship"`
	Confidence   *float64 `json:"confidence,omitempty"`
}

// EdgeKey is the dedup identity of an edge.
type EdgeKey struct {
	Source       NodeKey
	Target       NodeKey
	Relationship string
}

// Key returns the dedup identity of e.
func (e Edge) Key() EdgeKey {
	return EdgeKey{Source: e.Source, Target: e.Target, Relationship: e.Relationship}
}

// Neighbor is one adjacency returned by a resolver: the neighbor's identity
// and display attributes plus the relationship leading to it.
type Neighbor struct {
	Key          NodeKey
	Attrs        NodeAttrs
	Relationship string
	Confidence   *float64
}

// Certain returns a confidence pointer of 1.0 for synthetic derived links.
func Certain() *float64 {
	v := 1.0
	return &v
}
