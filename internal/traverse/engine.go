package traverse

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/3GHCRE/atlas-sub000/internal/metrics"
	"github.com/3GHCRE/atlas-sub000/internal/models"
)

// Expander resolves display attributes and one-hop adjacencies. Expand is
// only ever called with DirectionUp or DirectionDown.
type Expander interface {
	Lookup(ctx context.Context, key models.NodeKey) (models.NodeAttrs, error)
	Expand(ctx context.Context, key models.NodeKey, dir models.Direction) ([]models.Neighbor, error)
}

// Options tunes an Engine. Zero values mean serial expansion and no caps.
type Options struct {
	// Concurrency is the number of frontier entries of one depth level
	// expanded in parallel. Values below 2 select the serial engine.
	Concurrency int
	// NeighborLimit caps the neighbors consumed from one expansion call.
	NeighborLimit int
	// MaxNodes caps the number of nodes in a result.
	MaxNodes int
}

// Query describes one traversal.
type Query struct {
	Start     models.NodeKey
	MaxDepth  int
	Direction models.Direction
}

// Run is the raw outcome of a traversal before dedup and assembly. Nodes
// are in discovery order; Edges may hold duplicates.
type Run struct {
	Nodes     []models.Node
	Edges     []models.Edge
	Truncated bool
}

// Engine runs breadth-first traversals over an Expander.
type Engine struct {
	exp  Expander
	log  *logrus.Logger
	opts Options
}

// NewEngine creates an Engine.
func NewEngine(exp Expander, log *logrus.Logger, opts Options) *Engine {
	return &Engine{exp: exp, log: log, opts: opts}
}

// Traverse runs a traversal for validated params and assembles the response.
func (e *Engine) Traverse(ctx context.Context, p models.TraverseParams) (*models.TraverseResult, error) {
	run, err := e.Run(ctx, Query{Start: p.Start(), MaxDepth: p.MaxDepth, Direction: p.Direction})
	if err != nil {
		return nil, err
	}

	return Assemble(p, run), nil
}

type state int

const (
	stateSeeded state = iota
	stateExpanding
	stateDrained
)

func (s state) String() string {
	switch s {
	case stateSeeded:
		return "seeded"
	case stateExpanding:
		return "expanding"
	case stateDrained:
		return "drained"
	default:
		return "unknown"
	}
}

type frontierEntry struct {
	key   models.NodeKey
	depth int
}

// traversal is the per-call mutable state. It is never shared between calls.
type traversal struct {
	index     map[models.NodeKey]int
	nodes     []models.Node
	edges     []models.Edge
	visited   map[models.NodeKey]struct{}
	frontier  []frontierEntry
	truncated bool
	state     state
}

// expansion is what one frontier entry produced.
type expansion struct {
	neighbors []models.Neighbor
	truncated bool
	skipped   bool
}

// Run executes the traversal described by q. A cancelled ctx is not an
// error: the graph accumulated so far is returned with Truncated set. Only
// ErrStoreUnavailable aborts the call.
func (e *Engine) Run(ctx context.Context, q Query) (*Run, error) {
	t := &traversal{
		index:   make(map[models.NodeKey]int),
		visited: make(map[models.NodeKey]struct{}),
	}

	if err := e.seed(ctx, t, q.Start); err != nil {
		return nil, err
	}

	steps := q.Direction.Steps()
	t.setState(e.log, stateExpanding, q)

	for len(t.frontier) > 0 {
		if ctx.Err() != nil {
			t.truncated = true

			break
		}

		batch := t.nextLevel(q.MaxDepth)
		if len(batch) == 0 {
			continue
		}

		results, err := e.expandLevel(ctx, batch, steps)
		if err != nil {
			return nil, err
		}

		for i, fe := range batch {
			r := results[i]
			if r.skipped {
				t.truncated = true

				continue
			}

			if r.truncated {
				t.truncated = true
			}

			t.merge(fe, r.neighbors, e.opts.MaxNodes)
		}
	}

	t.setState(e.log, stateDrained, q)

	return &Run{Nodes: t.nodes, Edges: t.edges, Truncated: t.truncated}, nil
}

// seed creates the start node at depth 0. A missing or failing display
// lookup falls back to a synthesised name, as does one cut short by ctx.
func (e *Engine) seed(ctx context.Context, t *traversal, start models.NodeKey) error {
	attrs, err := e.exp.Lookup(ctx, start)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, models.ErrStoreUnavailable) {
			return fmt.Errorf("looking up start node %s: %w", start, err)
		}

		if ctx.Err() == nil && !errors.Is(err, models.ErrNodeNotFound) {
			e.log.WithError(err).WithField("node", start.String()).Warn("start node lookup failed, using fallback name")
		}

		attrs = models.NodeAttrs{}
	}

	t.addNode(start, attrs, 0)
	t.frontier = append(t.frontier, frontierEntry{key: start, depth: 0})
	t.state = stateSeeded

	return nil
}

// nextLevel pops every frontier entry sharing the depth of the head entry
// (FIFO order keeps depths non-decreasing) and marks the expandable ones
// visited.
func (t *traversal) nextLevel(maxDepth int) []frontierEntry {
	depth := t.frontier[0].depth

	n := 0
	for n < len(t.frontier) && t.frontier[n].depth == depth {
		n++
	}

	level := t.frontier[:n]
	t.frontier = t.frontier[n:]

	batch := make([]frontierEntry, 0, len(level))

	for _, fe := range level {
		if _, done := t.visited[fe.key]; done || fe.depth >= maxDepth {
			continue
		}

		t.visited[fe.key] = struct{}{}
		batch = append(batch, fe)
	}

	return batch
}

// expandLevel fetches neighbors for every entry of batch. Results are
// positional so merging stays in frontier order whatever the concurrency.
func (e *Engine) expandLevel(ctx context.Context, batch []frontierEntry, steps []models.Direction) ([]expansion, error) {
	out := make([]expansion, len(batch))

	if e.opts.Concurrency < 2 || len(batch) < 2 {
		for i, fe := range batch {
			if ctx.Err() != nil {
				out[i].skipped = true

				continue
			}

			r, err := e.expandNode(ctx, fe.key, steps)
			if err != nil {
				return nil, err
			}

			out[i] = r
		}

		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)

	for i, fe := range batch {
		g.Go(func() error {
			if gctx.Err() != nil {
				out[i].skipped = true

				return nil
			}

			r, err := e.expandNode(gctx, fe.key, steps)
			if err != nil {
				return err
			}

			out[i] = r

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// expandNode calls the expander once per direction step. A failed call is a
// dead end for that step; only ErrStoreUnavailable is returned.
func (e *Engine) expandNode(ctx context.Context, key models.NodeKey, steps []models.Direction) (expansion, error) {
	var r expansion

	for _, dir := range steps {
		ns, err := e.exp.Expand(ctx, key, dir)
		if err != nil {
			// A cancelled call can surface as a connect failure.
			if ctx.Err() != nil {
				return expansion{skipped: true}, nil
			}

			if errors.Is(err, models.ErrStoreUnavailable) {
				metrics.ResolverCalls.WithLabelValues(string(key.Type), string(dir), "unavailable").Inc()

				return expansion{}, fmt.Errorf("expanding %s %s: %w", key, dir, err)
			}

			metrics.ResolverCalls.WithLabelValues(string(key.Type), string(dir), "error").Inc()
			e.log.WithError(err).WithFields(logrus.Fields{
				"node":      key.String(),
				"direction": string(dir),
			}).Warn("expansion failed, treating branch as dead end")

			continue
		}

		metrics.ResolverCalls.WithLabelValues(string(key.Type), string(dir), "ok").Inc()

		if e.opts.NeighborLimit > 0 && len(ns) > e.opts.NeighborLimit {
			ns = ns[:e.opts.NeighborLimit]
			r.truncated = true
		}

		r.neighbors = append(r.neighbors, ns...)
	}

	return r, nil
}

// merge records the neighbors reached from fe. Unknown neighbors become
// nodes at fe.depth+1 and join the frontier; every edge is kept, including
// edges to known nodes. Neighbors dropped by the node cap lose their edge
// too, so every edge endpoint stays in the node set.
func (t *traversal) merge(fe frontierEntry, ns []models.Neighbor, maxNodes int) {
	for _, n := range ns {
		if _, known := t.index[n.Key]; !known {
			if maxNodes > 0 && len(t.nodes) >= maxNodes {
				t.truncated = true

				continue
			}

			t.addNode(n.Key, n.Attrs, fe.depth+1)
			t.frontier = append(t.frontier, frontierEntry{key: n.Key, depth: fe.depth + 1})
		}

		t.edges = append(t.edges, models.Edge{
			Source:       fe.key,
			Target:       n.Key,
			Relationship: n.Relationship,
			Confidence:   n.Confidence,
		})
	}
}

func (t *traversal) addNode(key models.NodeKey, attrs models.NodeAttrs, depth int) {
	name := attrs.Name
	if name == "" {
		name = key.FallbackName()
	}

	t.index[key] = len(t.nodes)
	t.nodes = append(t.nodes, models.Node{
		Key:     key,
		Name:    name,
		Subtype: attrs.Subtype,
		Depth:   depth,
	})
}

func (t *traversal) setState(log *logrus.Logger, s state, q Query) {
	t.state = s
	log.WithFields(logrus.Fields{
		"start":     q.Start.String(),
		"max_depth": q.MaxDepth,
		"direction": string(q.Direction),
		"state":     s.String(),
		"nodes":     len(t.nodes),
		"edges":     len(t.edges),
	}).Debug("traverse.state")
}
