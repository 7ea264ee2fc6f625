package traverse

import "github.com/3GHCRE/atlas-sub000/internal/models"

// Summarize computes the statistics block for a deduplicated graph.
func Summarize(nodes []models.Node, edges []models.Edge) models.Statistics {
	s := models.Statistics{
		TotalNodes: len(nodes),
		TotalEdges: len(edges),
	}

	for _, n := range nodes {
		s.NodesByType.Add(n.Key.Type)

		if n.Depth > s.MaxDepthReached {
			s.MaxDepthReached = n.Depth
		}
	}

	return s
}
