package traverse

import "github.com/3GHCRE/atlas-sub000/internal/models"

// DedupEdges drops repeated (source, target, relationship) triples, keeping
// the first occurrence and the original order. The input is not modified.
func DedupEdges(edges []models.Edge) []models.Edge {
	seen := make(map[models.EdgeKey]struct{}, len(edges))
	out := make([]models.Edge, 0, len(edges))

	for _, e := range edges {
		k := e.Key()
		if _, dup := seen[k]; dup {
			continue
		}

		seen[k] = struct{}{}
		out = append(out, e)
	}

	return out
}
