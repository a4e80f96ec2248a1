package runner

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	entity "github.com/hanpama/attrgraph/internal/entity"
	graph "github.com/hanpama/attrgraph/internal/graph"
	shape "github.com/hanpama/attrgraph/internal/shape"
)

func TestAndNode_RunsAllChildren(t *testing.T) {
	planner := NewStaticPlanner()
	mustSetGraph(t, planner, `{p q}`, &graph.Graph{
		Root: 1,
		Nodes: map[graph.NodeID]*graph.Node{
			1: {ID: 1, Kind: graph.KindAnd, Run: []graph.NodeID{2, 3}},
			2: {ID: 2, Kind: graph.KindResolver, Resolver: "rp", Provides: shape.Shape{"p": nil}},
			3: {ID: 3, Kind: graph.KindResolver, Resolver: "rq", Provides: shape.Shape{"q": nil}},
		},
	})
	registry := NewMockRegistry(map[string]Resolver{
		"rp": NewValueResolver(map[string]any{"p": 1}),
		"rq": NewValueResolver(map[string]any{"q": 2}),
	})
	store := entity.NewStore(nil)

	runQuery(t, New(planner, registry), `{p q}`, store)

	want := map[string]any{"p": 1, "q": 2}
	if diff := cmp.Diff(want, store.Snapshot()); diff != "" {
		t.Fatalf("entity mismatch (-want +got):\n%s", diff)
	}
}

func TestAndNode_NextRunsAfterChildren(t *testing.T) {
	planner := NewStaticPlanner()
	mustSetGraph(t, planner, `{p sum}`, &graph.Graph{
		Root: 1,
		Nodes: map[graph.NodeID]*graph.Node{
			1: {ID: 1, Kind: graph.KindAnd, Run: []graph.NodeID{2}, Next: 3},
			2: {ID: 2, Kind: graph.KindResolver, Resolver: "rp", Provides: shape.Shape{"p": nil}},
			3: {ID: 3, Kind: graph.KindResolver, Resolver: "rsum", Input: shape.Shape{"p": nil}},
		},
	})
	registry := NewMockRegistry(map[string]Resolver{
		"rp":   NewValueResolver(map[string]any{"p": 1}),
		"rsum": NewValueResolver(map[string]any{"sum": 10}),
	})
	store := entity.NewStore(nil)

	runQuery(t, New(planner, registry), `{p sum}`, store)

	wantCalls := []ResolverCall{
		{Resolver: "rp", Input: map[string]any{}},
		{Resolver: "rsum", Input: map[string]any{"p": 1}},
	}
	if diff := cmp.Diff(wantCalls, registry.Calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestOrNode_StopsOnceSatisfied(t *testing.T) {
	planner := NewStaticPlanner()
	mustSetGraph(t, planner, `{p q}`, &graph.Graph{
		Root: 1,
		Nodes: map[graph.NodeID]*graph.Node{
			1: {ID: 1, Kind: graph.KindOr, Run: []graph.NodeID{2, 3, 4}, Requires: shape.Shape{"p": nil, "q": nil}},
			2: {ID: 2, Kind: graph.KindResolver, Resolver: "r1", Provides: shape.Shape{"p": nil}},
			3: {ID: 3, Kind: graph.KindResolver, Resolver: "r2", Provides: shape.Shape{"q": nil}},
			4: {ID: 4, Kind: graph.KindResolver, Resolver: "r3", Provides: shape.Shape{"z": nil}},
		},
	})
	registry := NewMockRegistry(map[string]Resolver{
		"r1": NewValueResolver(map[string]any{"p": 1}),
		"r2": NewValueResolver(map[string]any{"q": 2}),
		"r3": NewValueResolver(map[string]any{"z": 3}),
	})
	store := entity.NewStore(nil)

	runQuery(t, New(planner, registry), `{p q}`, store)

	// The first alternative satisfies only part of the requirement, so the
	// second runs; once satisfied, the third is never attempted.
	wantCalls := []ResolverCall{
		{Resolver: "r1", Input: map[string]any{}},
		{Resolver: "r2", Input: map[string]any{}},
	}
	if diff := cmp.Diff(wantCalls, registry.Calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	want := map[string]any{"p": 1, "q": 2}
	if diff := cmp.Diff(want, store.Snapshot()); diff != "" {
		t.Fatalf("entity mismatch (-want +got):\n%s", diff)
	}
}

func TestOrNode_NextRunsEvenWhenExhausted(t *testing.T) {
	planner := NewStaticPlanner()
	mustSetGraph(t, planner, `{p after}`, &graph.Graph{
		Root: 1,
		Nodes: map[graph.NodeID]*graph.Node{
			1: {ID: 1, Kind: graph.KindOr, Run: []graph.NodeID{2}, Requires: shape.Shape{"p": nil}, Next: 3},
			2: {ID: 2, Kind: graph.KindResolver, Resolver: "rother", Provides: shape.Shape{"other": nil}},
			3: {ID: 3, Kind: graph.KindResolver, Resolver: "rafter"},
		},
	})
	registry := NewMockRegistry(map[string]Resolver{
		"rother": NewValueResolver(map[string]any{"other": 1}),
		"rafter": NewValueResolver(map[string]any{"after": true}),
	})
	store := entity.NewStore(nil)

	runQuery(t, New(planner, registry), `{p after}`, store)

	// p stays absent; that is not an error and downstream work still runs.
	snap := store.Snapshot()
	if _, ok := snap["p"]; ok {
		t.Fatalf("p should be absent, got %v", snap["p"])
	}
	if snap["after"] != true {
		t.Fatalf("next node did not run: %v", snap)
	}
}

func TestUnknownKind_IsNoOp(t *testing.T) {
	planner := NewStaticPlanner()
	mustSetGraph(t, planner, `{p}`, &graph.Graph{
		Root: 1,
		Nodes: map[graph.NodeID]*graph.Node{
			1: {ID: 1, Kind: graph.Kind(99)},
		},
	})
	registry := NewMockRegistry(nil)
	store := entity.NewStore(nil)

	runQuery(t, New(planner, registry), `{p}`, store)

	if diff := cmp.Diff(map[string]any{}, store.Snapshot()); diff != "" {
		t.Fatalf("entity mismatch (-want +got):\n%s", diff)
	}
}
