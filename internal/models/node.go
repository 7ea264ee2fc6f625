// Package models defines data types for the ownership network.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NodeType identifies one of the four kinds of record in the ownership network.
type NodeType string

// Known node types.
const (
	NodeProperty  NodeType = "property"
	NodeEntity    NodeType = "entity"
	NodeCompany   NodeType = "company"
	NodePrincipal NodeType = "principal"
)

// NodeTypes lists every node type in canonical order.
var NodeTypes = []NodeType{NodeProperty, NodeEntity, NodeCompany, NodePrincipal}

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	switch t {
	case NodeProperty, NodeEntity, NodeCompany, NodePrincipal:
		return true
	default:
		return false
	}
}

// Title returns the capitalised type name used in fallback display names.
func (t NodeType) Title() string {
	if t == "" {
		return ""
	}

	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// NodeKey is the composite identity of a node. Two nodes are the same node
// only when both type and id match, so a property and an entity sharing a
// numeric id never collide.
type NodeKey struct {
	Type NodeType
	ID   int64
}

// String returns the wire form of the key, e.g. "company_42".
func (k NodeKey) String() string {
	return string(k.Type) + "_" + strconv.FormatInt(k.ID, 10)
}

// FallbackName returns the display name used when a record lookup misses.
func (k NodeKey) FallbackName() string {
	return k.Type.Title() + " " + strconv.FormatInt(k.ID, 10)
}

// MarshalText implements encoding.TextMarshaler using the wire form.
func (k NodeKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *NodeKey) UnmarshalText(b []byte) error {
	parsed, err := ParseNodeKey(string(b))
	if err != nil {
		return err
	}

	*k = parsed

	return nil
}

// ParseNodeKey parses the wire form produced by NodeKey.String.
func ParseNodeKey(s string) (NodeKey, error) {
	i := strings.LastIndexByte(s, '_')
	if i <= 0 || i == len(s)-1 {
		return NodeKey{}, fmt.Errorf("malformed node key %q", s)
	}

	t := NodeType(s[:i])
	if !t.Valid() {
		return NodeKey{}, fmt.Errorf("malformed node key %q: %w", s, ErrInvalidStartType)
	}

	id, err := strconv.ParseInt(s[i+1:], 10, 64)
	if err != nil || id <= 0 {
		return NodeKey{}, fmt.Errorf("malformed node key %q: bad id", s)
	}

	return NodeKey{Type: t, ID: id}, nil
}

// NodeAttrs holds the minimal display attributes of a record.
type NodeAttrs struct {
	Name    string `json:"name"`
	Subtype string `json:"subtype,omitempty"`
}

// Node is a vertex of a traversal result.
type Node struct {
	Key     NodeKey
	Name    string
	Subtype string
	Depth   int
}

// nodeJSON is the force-directed-graph friendly shape of a Node.
type nodeJSON struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	RecordID int64    `json:"record_id"`
	Name     string   `json:"name"`
	Subtype  string   `json:"subtype,omitempty"`
	Depth    int      `json:"depth"`
}

// MarshalJSON flattens the composite key into id, type and record_id.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeJSON{
		ID:       n.Key.String(),
		Type:     n.Key.Type,
		RecordID: n.Key.ID,
		Name:     n.Name,
		Subtype:  n.Subtype,
		Depth:    n.Depth,
	})
}

// UnmarshalJSON restores a Node from its wire shape.
func (n *Node) UnmarshalJSON(b []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	n.Key = NodeKey{Type: raw.Type, ID: raw.RecordID}
	n.Name = raw.Name
	n.Subtype = raw.Subtype
	n.Depth = raw.Depth

	return nil
}
