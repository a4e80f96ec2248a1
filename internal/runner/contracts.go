package runner

import (
	"context"

	graph "github.com/hanpama/attrgraph/internal/graph"
	language "github.com/hanpama/attrgraph/internal/language"
	shape "github.com/hanpama/attrgraph/internal/shape"
)

// Resolver computes one or more attributes from a set of input attributes.
//
// The runner invokes a resolver with exactly the input attributes its graph
// node declares, never more: a resolver must not come to depend on incidental
// attributes that happen to be present because of execution order. A nil
// result map with a nil error is valid and merges nothing.
//
// Errors are not caught by the runner; they propagate to the caller and abort
// the run at the failing node. Attributes merged before the failure stay in
// the entity. Implementations must not mutate the input map.
type Resolver interface {
	Resolve(ctx context.Context, input map[string]any) (map[string]any, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, input map[string]any) (map[string]any, error)

func (f ResolverFunc) Resolve(ctx context.Context, input map[string]any) (map[string]any, error) {
	return f(ctx, input)
}

// Registry resolves resolver names recorded in graph nodes. An unknown name
// is a planner/registry inconsistency and fatal to the run.
type Registry interface {
	Lookup(name string) (Resolver, error)
}

// PlanContext is what the runner hands to the planner: the requested query
// and the shape of the data already present in the entity.
type PlanContext struct {
	Query     language.SelectionSet
	Fragments language.FragmentDefinitionList
	Available shape.Shape
}

// Planner turns a query plus currently-available data into an executable
// resolution graph. Planning failures (no viable resolver path) are the
// planner's contract; the runner propagates them to its caller unchanged and
// the run never starts.
type Planner interface {
	ComputeRunGraph(ctx context.Context, pc PlanContext) (*graph.Graph, error)
}

// MapContainer marks a resolved value whose sub-query applies to each of the
// map's values rather than to the map itself. Resolvers return it explicitly
// in place of a plain map; the marker travels with the value instead of being
// attached out of band.
type MapContainer map[string]any
