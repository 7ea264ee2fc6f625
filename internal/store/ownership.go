package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/3GHCRE/atlas-sub000/internal/dbpool"
	"github.com/3GHCRE/atlas-sub000/internal/domain"
	"github.com/3GHCRE/atlas-sub000/internal/models"
	"github.com/3GHCRE/atlas-sub000/internal/traverse"
)

// maxNeighborRows caps a single adjacency query when no neighbor limit is
// configured.
const maxNeighborRows = 10000

// Companies folded into another record keep their row with this name prefix.
const mergedPrefix = "[MERGED]%"

// activeCompany filters out soft-deleted and merged companies aliased as c.
const activeCompany = `c.deleted_at IS NULL AND c.company_name NOT LIKE '` + mergedPrefix + `'`

const (
	propertyOperatorsSQL = `SELECT e.id, e.entity_name, e.entity_type, per.relationship_type, NULL::float8
		FROM property_entity_relationships per
		JOIN entities e ON e.id = per.entity_id
		WHERE per.property_master_id = $1 AND per.end_date IS NULL
		ORDER BY per.id LIMIT $2`

	entityParentSQL = `SELECT c.id, c.company_name, c.company_type, '` + models.RelationParentCompany + `', 1.0::float8
		FROM entities e
		JOIN companies c ON c.id = e.company_id
		WHERE e.id = $1 AND ` + activeCompany + `
		LIMIT $2`

	entityPropertiesSQL = `SELECT pm.id, pm.facility_name, NULL::text, per.relationship_type, NULL::float8
		FROM property_entity_relationships per
		JOIN property_master pm ON pm.id = per.property_master_id
		WHERE per.entity_id = $1 AND per.end_date IS NULL
		ORDER BY per.id LIMIT $2`

	companyPrincipalsSQL = `SELECT p.id, p.full_name, NULL::text, pcr.role, NULL::float8
		FROM principal_company_relationships pcr
		JOIN principals p ON p.id = pcr.principal_id
		WHERE pcr.company_id = $1 AND pcr.end_date IS NULL
		ORDER BY pcr.id LIMIT $2`

	companyEntitiesSQL = `SELECT e.id, e.entity_name, e.entity_type, '` + models.RelationHasEntity + `', 1.0::float8
		FROM entities e
		WHERE e.company_id = $1
		ORDER BY e.id LIMIT $2`

	principalCompaniesSQL = `SELECT c.id, c.company_name, c.company_type, pcr.role, NULL::float8
		FROM principal_company_relationships pcr
		JOIN companies c ON c.id = pcr.company_id
		WHERE pcr.principal_id = $1 AND pcr.end_date IS NULL AND ` + activeCompany + `
		ORDER BY pcr.id LIMIT $2`
)

// lookupSQL selects (name, subtype) for one record of each node type.
var lookupSQL = map[models.NodeType]string{
	models.NodeProperty:  `SELECT facility_name, NULL::text FROM property_master WHERE id = $1`,
	models.NodeEntity:    `SELECT entity_name, entity_type FROM entities WHERE id = $1`,
	models.NodeCompany:   `SELECT company_name, company_type FROM companies WHERE id = $1`,
	models.NodePrincipal: `SELECT full_name, NULL::text FROM principals WHERE id = $1`,
}

// OwnershipStore answers display lookups and one-hop adjacency queries over
// the ownership tables. It implements traverse.Source.
type OwnershipStore struct {
	Base
	rowLimit int
}

// Compile-time checks for the interfaces *OwnershipStore serves.
var (
	_ traverse.Source      = (*OwnershipStore)(nil)
	_ domain.HealthChecker = (*OwnershipStore)(nil)
)

// NewOwnershipStore creates an OwnershipStore. neighborLimit should match the
// engine's per-call cap; one extra row is fetched so the engine can tell that
// the cap was hit.
func NewOwnershipStore(pool *dbpool.Pool, log *logrus.Logger, neighborLimit int) *OwnershipStore {
	rowLimit := maxNeighborRows
	if neighborLimit > 0 && neighborLimit < maxNeighborRows {
		rowLimit = neighborLimit + 1
	}

	return &OwnershipStore{
		Base:     Base{Pool: pool, Log: log},
		rowLimit: rowLimit,
	}
}

// Lookup returns the display attributes of a single record.
func (s *OwnershipStore) Lookup(ctx context.Context, key models.NodeKey) (models.NodeAttrs, error) {
	query, ok := lookupSQL[key.Type]
	if !ok {
		return models.NodeAttrs{}, fmt.Errorf("looking up %s: %w", key, models.ErrInvalidStartType)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var name, subtype *string

	if err := s.Pool.QueryRow(ctx, query, key.ID).Scan(&name, &subtype); err != nil {
		return models.NodeAttrs{}, fmt.Errorf("looking up %s: %w", key, classify(err))
	}

	var attrs models.NodeAttrs
	if name != nil {
		attrs.Name = *name
	}

	if subtype != nil {
		attrs.Subtype = *subtype
	}

	return attrs, nil
}

// PropertyOperators returns the entities owning or operating a property.
func (s *OwnershipStore) PropertyOperators(ctx context.Context, propertyID int64) ([]models.Neighbor, error) {
	return s.neighbors(ctx, "property operators", models.NodeEntity, propertyOperatorsSQL, propertyID)
}

// EntityParent returns the parent company of an entity.
func (s *OwnershipStore) EntityParent(ctx context.Context, entityID int64) ([]models.Neighbor, error) {
	return s.neighbors(ctx, "entity parent", models.NodeCompany, entityParentSQL, entityID)
}

// EntityProperties returns the properties an entity is related to.
func (s *OwnershipStore) EntityProperties(ctx context.Context, entityID int64) ([]models.Neighbor, error) {
	return s.neighbors(ctx, "entity properties", models.NodeProperty, entityPropertiesSQL, entityID)
}

// CompanyPrincipals returns the principals holding an active role in a company.
func (s *OwnershipStore) CompanyPrincipals(ctx context.Context, companyID int64) ([]models.Neighbor, error) {
	return s.neighbors(ctx, "company principals", models.NodePrincipal, companyPrincipalsSQL, companyID)
}

// CompanyEntities returns the entities a company owns.
func (s *OwnershipStore) CompanyEntities(ctx context.Context, companyID int64) ([]models.Neighbor, error) {
	return s.neighbors(ctx, "company entities", models.NodeEntity, companyEntitiesSQL, companyID)
}

// PrincipalCompanies returns the active companies a principal holds a role in.
func (s *OwnershipStore) PrincipalCompanies(ctx context.Context, principalID int64) ([]models.Neighbor, error) {
	return s.neighbors(ctx, "principal companies", models.NodeCompany, principalCompaniesSQL, principalID)
}

func (s *OwnershipStore) neighbors(ctx context.Context, what string, nt models.NodeType, query string, id int64) ([]models.Neighbor, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, query, id, s.rowLimit)
	if err != nil {
		return nil, fmt.Errorf("querying %s of %d: %w", what, id, classify(err))
	}
	defer rows.Close()

	ns, err := collectNeighbors(nt, rows)
	if err != nil {
		return nil, fmt.Errorf("collecting %s of %d: %w", what, id, classify(err))
	}

	return ns, nil
}

// HealthCheck verifies the database answers queries.
func (s *OwnershipStore) HealthCheck(ctx context.Context) error {
	if err := s.Pool.HealthCheck(ctx); err != nil {
		return classify(err)
	}

	return nil
}

// CheckSchema verifies the ownership tables exist.
func (s *OwnershipStore) CheckSchema(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var ok bool

	err := s.Pool.QueryRow(ctx, `SELECT to_regclass('property_master') IS NOT NULL
		AND to_regclass('principal_company_relationships') IS NOT NULL`).Scan(&ok)
	if err != nil {
		return fmt.Errorf("checking ownership schema: %w", classify(err))
	}

	if !ok {
		return errors.New("ownership schema not migrated")
	}

	return nil
}
