package store

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/3GHCRE/atlas-sub000/internal/models"
)

// Every adjacency query selects these five columns in this order:
// neighbor id, display name, subtype, relationship label, confidence.
func scanNeighbor(nt models.NodeType, scan func(dest ...any) error) (models.Neighbor, error) {
	var (
		n          models.Neighbor
		name       *string
		subtype    *string
		confidence *float64
	)

	n.Key.Type = nt

	if err := scan(&n.Key.ID, &name, &subtype, &n.Relationship, &confidence); err != nil {
		return models.Neighbor{}, err
	}

	if name != nil {
		n.Attrs.Name = *name
	}

	if subtype != nil {
		n.Attrs.Subtype = *subtype
	}

	n.Confidence = confidence

	return n, nil
}

// collectNeighbors scans all rows into a neighbor slice of type nt.
func collectNeighbors(nt models.NodeType, rows pgx.Rows) ([]models.Neighbor, error) {
	out := make([]models.Neighbor, 0, 8)

	for rows.Next() {
		n, err := scanNeighbor(nt, rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning neighbor row: %w", err)
		}

		out = append(out, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating neighbor rows: %w", err)
	}

	return out, nil
}
