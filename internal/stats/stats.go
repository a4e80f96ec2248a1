// Package stats derives summary metrics from a run's raw per-node statistics
// by re-feeding them through the same resolution mechanism that produced
// them: a fixed registry of metric resolvers and a fixed, hand-built graph
// executed by the runner against an entity seeded with the raw numbers. The
// set of metrics is closed, so nothing here is extensible on purpose.
package stats

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	entity "github.com/hanpama/attrgraph/internal/entity"
	graph "github.com/hanpama/attrgraph/internal/graph"
	runner "github.com/hanpama/attrgraph/internal/runner"
	shape "github.com/hanpama/attrgraph/internal/shape"
)

// Raw attributes seeded from a RunSummary and the derived attributes the
// fixed graph computes from them.
const (
	AttrRunDurationNS   = "run-duration-ns"
	AttrNodeDurationsNS = "node-durations-ns"
	AttrAccumulatedNS   = "resolver-accumulated-duration-ns"
	AttrOverheadNS      = "overhead-duration-ns"
	AttrOverheadPct     = "overhead-pct"
)

// unitSteps is the ns→ms→s→mins→hours conversion chain applied to every
// duration metric by name convention: "X-duration-ns" gains "X-duration-ms"
// and so on, each step scaling the previous with rounding.
var unitSteps = []struct {
	from string
	to   string
	div  float64
}{
	{"ns", "ms", 1e6},
	{"ms", "s", 1e3},
	{"s", "mins", 60},
	{"mins", "hours", 60},
}

// Derive computes the derived metrics for summary and returns the full metric
// entity, raw attributes included.
//
// Overhead percentage is overhead over total run duration as a float; a zero
// total duration yields a non-finite value, which is a known degenerate edge
// rather than an error.
func Derive(ctx context.Context, summary *runner.RunSummary) (map[string]any, error) {
	durations := make([]any, 0, len(summary.Nodes))
	for _, ns := range summary.Nodes {
		durations = append(durations, ns.Duration.Nanoseconds())
	}
	store := entity.NewStore(map[string]any{
		AttrRunDurationNS:   summary.Duration.Nanoseconds(),
		AttrNodeDurationsNS: durations,
	})

	g, reg := derivation()
	r := runner.New(runner.PlannerFunc(func(context.Context, runner.PlanContext) (*graph.Graph, error) {
		return g, nil
	}), reg)

	query := shape.ToSelectionSet(providedShape(g))
	if _, err := r.RunGraph(ctx, query, nil, store); err != nil {
		return nil, err
	}
	return store.Snapshot(), nil
}

// registry is the fixed name→resolver table the derivation graph refers to.
type registry map[string]runner.Resolver

func (r registry) Lookup(name string) (runner.Resolver, error) {
	resolver, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("unknown resolver %q", name)
	}
	return resolver, nil
}

// derivation builds the fixed derivation graph: a linear resolver chain, each
// node consuming attributes produced upstream.
func derivation() (*graph.Graph, registry) {
	g := &graph.Graph{Nodes: map[graph.NodeID]*graph.Node{}}
	reg := registry{}

	var last *graph.Node
	add := func(name string, r runner.Resolver, input, provides shape.Shape) {
		reg[name] = r
		id := graph.NodeID(len(g.Nodes) + 1)
		node := &graph.Node{
			ID:       id,
			Kind:     graph.KindResolver,
			Resolver: name,
			Input:    input,
			Provides: provides,
		}
		g.Nodes[id] = node
		if last == nil {
			g.Root = id
		} else {
			last.Next = id
		}
		last = node
	}

	add("accumulated-resolver-duration", runner.ResolverFunc(accumulated),
		shape.Shape{AttrNodeDurationsNS: nil}, shape.Shape{AttrAccumulatedNS: nil})
	add("overhead-duration", runner.ResolverFunc(overhead),
		shape.Shape{AttrRunDurationNS: nil, AttrAccumulatedNS: nil}, shape.Shape{AttrOverheadNS: nil})
	add("overhead-percentage", runner.ResolverFunc(overheadPct),
		shape.Shape{AttrRunDurationNS: nil, AttrOverheadNS: nil}, shape.Shape{AttrOverheadPct: nil})

	for _, base := range []string{AttrRunDurationNS, AttrAccumulatedNS, AttrOverheadNS} {
		prefix := strings.TrimSuffix(base, "-ns")
		for _, step := range unitSteps {
			from := prefix + "-" + step.from
			to := prefix + "-" + step.to
			add("convert-"+to, convert(from, to, step.div),
				shape.Shape{from: nil}, shape.Shape{to: nil})
		}
	}
	return g, reg
}

// providedShape is the union of every node's Provides, i.e. the full derived
// metric set the graph computes.
func providedShape(g *graph.Graph) shape.Shape {
	var out shape.Shape
	for _, node := range g.Nodes {
		out = shape.Merge(out, node.Provides)
	}
	return out
}

func accumulated(_ context.Context, input map[string]any) (map[string]any, error) {
	items, _ := input[AttrNodeDurationsNS].([]any)
	var sum int64
	for _, item := range items {
		sum += asInt64(item)
	}
	return map[string]any{AttrAccumulatedNS: sum}, nil
}

func overhead(_ context.Context, input map[string]any) (map[string]any, error) {
	total := asInt64(input[AttrRunDurationNS])
	acc := asInt64(input[AttrAccumulatedNS])
	return map[string]any{AttrOverheadNS: total - acc}, nil
}

func overheadPct(_ context.Context, input map[string]any) (map[string]any, error) {
	total := asInt64(input[AttrRunDurationNS])
	over := asInt64(input[AttrOverheadNS])
	return map[string]any{AttrOverheadPct: float64(over) / float64(total)}, nil
}

func convert(from, to string, div float64) runner.Resolver {
	return runner.ResolverFunc(func(_ context.Context, input map[string]any) (map[string]any, error) {
		scaled := math.Round(asFloat64(input[from]) / div)
		return map[string]any{to: int64(scaled)}, nil
	})
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case time.Duration:
		return n.Nanoseconds()
	default:
		return 0
	}
}

func asFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case time.Duration:
		return float64(n.Nanoseconds())
	default:
		return 0
	}
}
