package traverse

import (
	"context"
	"sync"

	"github.com/3GHCRE/atlas-sub000/internal/models"
)

// fakeSource is an in-memory Source. Adjacency maps are keyed by record id;
// fail forces an error for a given (key, direction) expansion.
type fakeSource struct {
	mu    sync.Mutex
	calls []string

	names map[models.NodeKey]string

	propertyOperators  map[int64][]models.Neighbor
	entityParent       map[int64][]models.Neighbor
	entityProperties   map[int64][]models.Neighbor
	companyPrincipals  map[int64][]models.Neighbor
	companyEntities    map[int64][]models.Neighbor
	principalCompanies map[int64][]models.Neighbor

	fail      map[string]error
	lookupErr error
	// onExpand runs before every expansion call.
	onExpand func(call string)
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		names:              map[models.NodeKey]string{},
		propertyOperators:  map[int64][]models.Neighbor{},
		entityParent:       map[int64][]models.Neighbor{},
		entityProperties:   map[int64][]models.Neighbor{},
		companyPrincipals:  map[int64][]models.Neighbor{},
		companyEntities:    map[int64][]models.Neighbor{},
		principalCompanies: map[int64][]models.Neighbor{},
		fail:               map[string]error{},
	}
}

func (f *fakeSource) record(call string) error {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	hook := f.onExpand
	err := f.fail[call]
	f.mu.Unlock()

	if hook != nil {
		hook(call)
	}

	return err
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.calls)
}

func (f *fakeSource) neighbor(t models.NodeType, id int64, rel string, conf *float64) models.Neighbor {
	k := models.NodeKey{Type: t, ID: id}

	return models.Neighbor{
		Key:          k,
		Attrs:        models.NodeAttrs{Name: f.names[k]},
		Relationship: rel,
		Confidence:   conf,
	}
}

// ownsEntity links company c to entity e in both directions.
func (f *fakeSource) ownsEntity(c, e int64) {
	f.companyEntities[c] = append(f.companyEntities[c], f.neighbor(models.NodeEntity, e, models.RelationHasEntity, models.Certain()))
	f.entityParent[e] = append(f.entityParent[e], f.neighbor(models.NodeCompany, c, models.RelationParentCompany, models.Certain()))
}

// relatesProperty links entity e to property p with label rel.
func (f *fakeSource) relatesProperty(e, p int64, rel string) {
	f.entityProperties[e] = append(f.entityProperties[e], f.neighbor(models.NodeProperty, p, rel, nil))
	f.propertyOperators[p] = append(f.propertyOperators[p], f.neighbor(models.NodeEntity, e, rel, nil))
}

// holdsRole links principal p to company c with label role.
func (f *fakeSource) holdsRole(p, c int64, role string) {
	f.principalCompanies[p] = append(f.principalCompanies[p], f.neighbor(models.NodeCompany, c, role, nil))
	f.companyPrincipals[c] = append(f.companyPrincipals[c], f.neighbor(models.NodePrincipal, p, role, nil))
}

func (f *fakeSource) Lookup(_ context.Context, key models.NodeKey) (models.NodeAttrs, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lookupErr != nil {
		return models.NodeAttrs{}, f.lookupErr
	}

	name, ok := f.names[key]
	if !ok {
		return models.NodeAttrs{}, models.ErrNodeNotFound
	}

	return models.NodeAttrs{Name: name}, nil
}

func (f *fakeSource) expand(call string, m map[int64][]models.Neighbor, id int64) ([]models.Neighbor, error) {
	if err := f.record(call); err != nil {
		return nil, err
	}

	return m[id], nil
}

func (f *fakeSource) PropertyOperators(_ context.Context, id int64) ([]models.Neighbor, error) {
	return f.expand(callName(models.NodeProperty, id, models.DirectionUp), f.propertyOperators, id)
}

func (f *fakeSource) EntityParent(_ context.Context, id int64) ([]models.Neighbor, error) {
	return f.expand(callName(models.NodeEntity, id, models.DirectionUp), f.entityParent, id)
}

func (f *fakeSource) EntityProperties(_ context.Context, id int64) ([]models.Neighbor, error) {
	return f.expand(callName(models.NodeEntity, id, models.DirectionDown), f.entityProperties, id)
}

func (f *fakeSource) CompanyPrincipals(_ context.Context, id int64) ([]models.Neighbor, error) {
	return f.expand(callName(models.NodeCompany, id, models.DirectionUp), f.companyPrincipals, id)
}

func (f *fakeSource) CompanyEntities(_ context.Context, id int64) ([]models.Neighbor, error) {
	return f.expand(callName(models.NodeCompany, id, models.DirectionDown), f.companyEntities, id)
}

func (f *fakeSource) PrincipalCompanies(_ context.Context, id int64) ([]models.Neighbor, error) {
	return f.expand(callName(models.NodePrincipal, id, models.DirectionUp), f.principalCompanies, id)
}

func callName(t models.NodeType, id int64, dir models.Direction) string {
	return models.NodeKey{Type: t, ID: id}.String() + "/" + string(dir)
}
