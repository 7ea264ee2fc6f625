// Package traverse implements breadth-first traversal of the ownership network.
//
// The engine never touches storage directly. It consumes an Expander, which
// resolves display attributes and one-hop adjacencies on demand. Resolver is
// the standard Expander: a dispatch table from (node type, direction) to the
// Source query implementing that expansion rule.
package traverse

import (
	"context"
	"fmt"

	"github.com/3GHCRE/atlas-sub000/internal/models"
)

// Source is the data-access boundary the resolver family is built on.
// Implementations return only active relationships, skip merged or deleted
// parent records, and have no side effects.
type Source interface {
	Lookup(ctx context.Context, key models.NodeKey) (models.NodeAttrs, error)

	// PropertyOperators returns the entities owning or operating a property.
	PropertyOperators(ctx context.Context, propertyID int64) ([]models.Neighbor, error)
	// EntityParent returns the parent company of an entity.
	EntityParent(ctx context.Context, entityID int64) ([]models.Neighbor, error)
	// EntityProperties returns the properties an entity is related to.
	EntityProperties(ctx context.Context, entityID int64) ([]models.Neighbor, error)
	// CompanyPrincipals returns the principals holding a role in a company.
	CompanyPrincipals(ctx context.Context, companyID int64) ([]models.Neighbor, error)
	// CompanyEntities returns the entities a company owns.
	CompanyEntities(ctx context.Context, companyID int64) ([]models.Neighbor, error)
	// PrincipalCompanies returns the companies a principal holds a role in.
	PrincipalCompanies(ctx context.Context, principalID int64) ([]models.Neighbor, error)
}

// ExpandFunc resolves one expansion rule for the record with the given id.
type ExpandFunc func(ctx context.Context, id int64) ([]models.Neighbor, error)

type ruleKey struct {
	nodeType  models.NodeType
	direction models.Direction
}

// Resolver dispatches expansions through a per-type, per-direction rule table.
type Resolver struct {
	src   Source
	rules map[ruleKey]ExpandFunc
}

// Compile-time check: *Resolver must satisfy Expander.
var _ Expander = (*Resolver)(nil)

// NewResolver builds the eight expansion rules over src.
func NewResolver(src Source) *Resolver {
	return &Resolver{
		src: src,
		rules: map[ruleKey]ExpandFunc{
			{models.NodeProperty, models.DirectionUp}:    src.PropertyOperators,
			{models.NodeProperty, models.DirectionDown}:  noNeighbors,
			{models.NodeEntity, models.DirectionUp}:      src.EntityParent,
			{models.NodeEntity, models.DirectionDown}:    src.EntityProperties,
			{models.NodeCompany, models.DirectionUp}:     src.CompanyPrincipals,
			{models.NodeCompany, models.DirectionDown}:   src.CompanyEntities,
			{models.NodePrincipal, models.DirectionUp}:   src.PrincipalCompanies,
			{models.NodePrincipal, models.DirectionDown}: noNeighbors,
		},
	}
}

// Properties are leaves going down and principals are roots going up.
func noNeighbors(context.Context, int64) ([]models.Neighbor, error) {
	return nil, nil
}

// Lookup returns the display attributes of key.
func (r *Resolver) Lookup(ctx context.Context, key models.NodeKey) (models.NodeAttrs, error) {
	return r.src.Lookup(ctx, key)
}

// Expand returns the one-hop neighbors of key in a single direction.
func (r *Resolver) Expand(ctx context.Context, key models.NodeKey, dir models.Direction) ([]models.Neighbor, error) {
	fn, ok := r.rules[ruleKey{key.Type, dir}]
	if !ok {
		return nil, fmt.Errorf("no expansion rule for %s going %s", key.Type, dir)
	}

	return fn(ctx, key.ID)
}
