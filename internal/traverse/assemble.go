package traverse

import "github.com/3GHCRE/atlas-sub000/internal/models"

// Assemble turns a raw run into the response shape: edges deduplicated,
// statistics computed, parameters echoed. Slices are never nil so they
// encode as empty JSON arrays.
func Assemble(p models.TraverseParams, run *Run) *models.TraverseResult {
	nodes := run.Nodes
	if nodes == nil {
		nodes = []models.Node{}
	}

	edges := DedupEdges(run.Edges)

	return &models.TraverseResult{
		Graph:      models.Graph{Nodes: nodes, Edges: edges},
		Statistics: Summarize(nodes, edges),
		Parameters: p,
		Truncated:  run.Truncated,
	}
}
