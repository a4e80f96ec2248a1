package runner

import (
	"context"
	"fmt"
	"time"

	entity "github.com/hanpama/attrgraph/internal/entity"
	eventbus "github.com/hanpama/attrgraph/internal/eventbus"
	events "github.com/hanpama/attrgraph/internal/events"
	graph "github.com/hanpama/attrgraph/internal/graph"
	language "github.com/hanpama/attrgraph/internal/language"
	runid "github.com/hanpama/attrgraph/internal/runid"
	shape "github.com/hanpama/attrgraph/internal/shape"
)

// NodeStats records one resolver node invocation: elapsed wall time and the
// exact input snapshot the resolver was called with.
type NodeStats struct {
	Duration time.Duration
	Input    map[string]any
}

// RunSummary is what a run returns. The resolved data itself is read back
// from the entity store, not from the summary.
type RunSummary struct {
	Graph    *graph.Graph
	Duration time.Duration
	Nodes    map[graph.NodeID]NodeStats
}

// Runner drives resolution graphs obtained from the planner against entity
// stores. A Runner is stateless across runs and safe for concurrent use as
// long as each run owns a distinct store.
type Runner struct {
	planner  Planner
	registry Registry
}

func New(planner Planner, registry Registry) *Runner {
	return &Runner{planner: planner, registry: registry}
}

// runState is the per-run mutable state.
type runState struct {
	runner    *Runner
	ctx       context.Context
	graph     *graph.Graph
	store     entity.Store
	fragments language.FragmentDefinitionList
	stats     map[graph.NodeID]NodeStats
}

// RunGraph resolves query against store: it derives the shape of the data
// already present, asks the planner for an executable graph, interprets it,
// and returns the run summary. The store is mutated in place; planner and
// resolver failures propagate unchanged.
func (r *Runner) RunGraph(ctx context.Context, query language.SelectionSet, fragments language.FragmentDefinitionList, store entity.Store) (*RunSummary, error) {
	_, nested := runid.FromContext(ctx)
	ctx, _ = runid.NewContext(ctx)

	queryStr := shape.ToQuery(shape.FromSelectionSet(query, fragments))
	eventbus.Publish(ctx, events.RunStart{Query: queryStr, Nested: nested})

	start := time.Now()
	summary, err := r.runGraph(ctx, query, fragments, store)
	eventbus.Publish(ctx, events.RunFinish{
		Query:    queryStr,
		Nested:   nested,
		Duration: time.Since(start),
		Err:      err,
	})
	return summary, err
}

func (r *Runner) runGraph(ctx context.Context, query language.SelectionSet, fragments language.FragmentDefinitionList, store entity.Store) (*RunSummary, error) {
	start := time.Now()

	available := shape.FromValue(store.Snapshot())
	g, err := r.planner.ComputeRunGraph(ctx, PlanContext{
		Query:     query,
		Fragments: fragments,
		Available: available,
	})
	if err != nil {
		return nil, err
	}

	st := &runState{
		runner:    r,
		ctx:       ctx,
		graph:     g,
		store:     store,
		fragments: fragments,
		stats:     make(map[graph.NodeID]NodeStats),
	}

	// Data the planner flagged as already structurally available goes through
	// the normal merge path up front so its nested sub-queries still run.
	if len(g.AvailableNested) > 0 {
		seed, _ := shape.Select(store.Snapshot(), g.AvailableNested).(map[string]any)
		if err := st.mergeResponse(seed); err != nil {
			return nil, err
		}
	}

	if root := g.Node(g.Root); root != nil {
		if err := st.runNode(root); err != nil {
			return nil, err
		}
	}

	return &RunSummary{Graph: g, Duration: time.Since(start), Nodes: st.stats}, nil
}

func (st *runState) runNode(node *graph.Node) error {
	switch node.Kind {
	case graph.KindResolver:
		return st.runResolverNode(node)
	case graph.KindAnd:
		return st.runAndNode(node)
	case graph.KindOr:
		return st.runOrNode(node)
	default:
		// The planner is trusted to emit only the known kinds.
		return nil
	}
}

func (st *runState) runNext(id graph.NodeID) error {
	next := st.graph.Node(id)
	if next == nil {
		return nil
	}
	return st.runNode(next)
}

func (st *runState) runResolverNode(node *graph.Node) error {
	if st.requiresReady(node.Requires) {
		// A prior branch already satisfied this node's consumer.
		return st.runNext(node.Next)
	}

	resolver, err := st.runner.registry.Lookup(node.Resolver)
	if err != nil {
		return fmt.Errorf("lookup resolver %q for node %d: %w", node.Resolver, node.ID, err)
	}

	input, _ := shape.Select(st.store.Snapshot(), node.Input).(map[string]any)

	eventbus.Publish(st.ctx, events.ResolverStart{Node: node.ID, Resolver: node.Resolver, Input: input})
	start := time.Now()
	response, err := resolver.Resolve(st.ctx, input)
	elapsed := time.Since(start)
	eventbus.Publish(st.ctx, events.ResolverFinish{Node: node.ID, Resolver: node.Resolver, Duration: elapsed, Err: err})

	st.stats[node.ID] = NodeStats{Duration: elapsed, Input: input}

	if err != nil {
		return err
	}
	if response != nil {
		if err := st.mergeResponse(response); err != nil {
			return err
		}
	}
	return st.runNext(node.Next)
}

func (st *runState) runAndNode(node *graph.Node) error {
	for _, id := range node.Run {
		child := st.graph.Node(id)
		if child == nil {
			continue
		}
		if err := st.runNode(child); err != nil {
			return err
		}
	}
	return st.runNext(node.Next)
}

func (st *runState) runOrNode(node *graph.Node) error {
	for _, id := range node.Run {
		child := st.graph.Node(id)
		if child == nil {
			continue
		}
		if err := st.runNode(child); err != nil {
			return err
		}
		if st.requiresReady(node.Requires) {
			break
		}
	}
	// Next runs whether or not the alternatives satisfied Requires; an
	// unsatisfied or node surfaces as absent attributes, not as an error.
	return st.runNext(node.Next)
}

// requiresReady reports whether every leaf path of requires is present in the
// entity. Nodes without declared requirements always run.
func (st *runState) requiresReady(requires shape.Shape) bool {
	if len(requires) == 0 {
		return false
	}
	available := shape.FromValue(st.store.Snapshot())
	return shape.Missing(available, requires) == nil
}
