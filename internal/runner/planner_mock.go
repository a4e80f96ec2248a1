package runner

import (
	"context"
	"sync"

	graph "github.com/hanpama/attrgraph/internal/graph"
	language "github.com/hanpama/attrgraph/internal/language"
	shape "github.com/hanpama/attrgraph/internal/shape"
)

// PlannerFunc adapts a function to the Planner interface.
type PlannerFunc func(ctx context.Context, pc PlanContext) (*graph.Graph, error)

func (f PlannerFunc) ComputeRunGraph(ctx context.Context, pc PlanContext) (*graph.Graph, error) {
	return f(ctx, pc)
}

// StaticPlanner serves prebuilt graphs keyed by the canonical form of the
// requested query shape. Queries without a registered graph plan to nothing,
// which is what nested runs over already-complete data expect. Every plan
// request is logged.
type StaticPlanner struct {
	mu     sync.Mutex
	graphs map[string]*graph.Graph
	calls  []PlanContext
}

func NewStaticPlanner() *StaticPlanner {
	return &StaticPlanner{graphs: make(map[string]*graph.Graph)}
}

// Set registers g for the given query source, e.g. "{a {b}}". The key is
// canonicalized through the same shape conversion the planner lookup uses.
func (p *StaticPlanner) Set(query string, g *graph.Graph) error {
	doc, err := language.ParseQuery(query)
	if err != nil {
		return err
	}
	sel := doc.Operations[0].SelectionSet
	key := shape.ToQuery(shape.FromSelectionSet(sel, doc.Fragments))
	p.mu.Lock()
	p.graphs[key] = g
	p.mu.Unlock()
	return nil
}

func (p *StaticPlanner) ComputeRunGraph(ctx context.Context, pc PlanContext) (*graph.Graph, error) {
	key := shape.ToQuery(shape.FromSelectionSet(pc.Query, pc.Fragments))

	p.mu.Lock()
	p.calls = append(p.calls, pc)
	g := p.graphs[key]
	p.mu.Unlock()

	if g == nil {
		g = &graph.Graph{}
	}
	if g.IndexAST == nil {
		g.IndexAST = indexAST(pc.Query, pc.Fragments)
	}
	if g.Nodes == nil {
		g.Nodes = map[graph.NodeID]*graph.Node{}
	}
	return g, nil
}

// Calls returns a copy of the recorded plan requests in order.
func (p *StaticPlanner) Calls() []PlanContext {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PlanContext, len(p.calls))
	copy(out, p.calls)
	return out
}

// indexAST records the query node for every top-level attribute, flattening
// fragments the same way shape conversion does.
func indexAST(sel language.SelectionSet, fragments language.FragmentDefinitionList) map[string]*language.Field {
	out := make(map[string]*language.Field)
	var walk func(language.SelectionSet)
	walk = func(sel language.SelectionSet) {
		for _, selection := range sel {
			switch node := selection.(type) {
			case *language.Field:
				if _, ok := out[node.Name]; !ok {
					out[node.Name] = node
				}
			case *language.InlineFragment:
				walk(node.SelectionSet)
			case *language.FragmentSpread:
				if def := fragments.ForName(node.Name); def != nil {
					walk(def.SelectionSet)
				}
			}
		}
	}
	walk(sel)
	return out
}
