package runner

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	entity "github.com/hanpama/attrgraph/internal/entity"
	graph "github.com/hanpama/attrgraph/internal/graph"
	shape "github.com/hanpama/attrgraph/internal/shape"
)

func TestNested_ListElementsRunIndependently(t *testing.T) {
	planner := NewStaticPlanner()
	mustSetGraph(t, planner, `{friends {name}}`, &graph.Graph{
		Root: 1,
		Nodes: map[graph.NodeID]*graph.Node{
			1: {ID: 1, Kind: graph.KindResolver, Resolver: "rfriends", Provides: shape.Shape{"friends": nil}},
		},
	})
	registry := NewMockRegistry(map[string]Resolver{
		"rfriends": NewValueResolver(map[string]any{
			"friends": []any{
				map[string]any{"name": "kim", "age": 1},
				map[string]any{"name": "lee", "age": 2},
				"dangling",
			},
		}),
	})
	store := entity.NewStore(nil)

	runQuery(t, New(planner, registry), `{friends {name}}`, store)

	want := map[string]any{
		"friends": []any{
			map[string]any{"name": "kim"},
			map[string]any{"name": "lee"},
			"dangling",
		},
	}
	if diff := cmp.Diff(want, store.Snapshot()); diff != "" {
		t.Fatalf("entity mismatch (-want +got):\n%s", diff)
	}
}

func TestNested_MapContainerAppliesQueryToValues(t *testing.T) {
	planner := NewStaticPlanner()
	mustSetGraph(t, planner, `{users {name}}`, &graph.Graph{
		Root: 1,
		Nodes: map[graph.NodeID]*graph.Node{
			1: {ID: 1, Kind: graph.KindResolver, Resolver: "rusers", Provides: shape.Shape{"users": nil}},
		},
	})
	registry := NewMockRegistry(map[string]Resolver{
		"rusers": NewValueResolver(map[string]any{
			"users": MapContainer{
				"u1": map[string]any{"name": "kim", "age": 1},
				"u2": map[string]any{"name": "lee"},
			},
		}),
	})
	store := entity.NewStore(nil)

	runQuery(t, New(planner, registry), `{users {name}}`, store)

	want := map[string]any{
		"users": map[string]any{
			"u1": map[string]any{"name": "kim"},
			"u2": map[string]any{"name": "lee"},
		},
	}
	if diff := cmp.Diff(want, store.Snapshot()); diff != "" {
		t.Fatalf("entity mismatch (-want +got):\n%s", diff)
	}
}

func TestNested_SubRunInvokesResolvers(t *testing.T) {
	// The nested value lacks a requested attribute; the nested run's planner
	// supplies a graph that resolves it from the seed data.
	planner := NewStaticPlanner()
	mustSetGraph(t, planner, `{user {id greeting}}`, &graph.Graph{
		Root: 1,
		Nodes: map[graph.NodeID]*graph.Node{
			1: {ID: 1, Kind: graph.KindResolver, Resolver: "ruser", Provides: shape.Shape{"user": nil}},
		},
	})
	mustSetGraph(t, planner, `{greeting id}`, &graph.Graph{
		Root: 1,
		Nodes: map[graph.NodeID]*graph.Node{
			1: {ID: 1, Kind: graph.KindResolver, Resolver: "rgreeting", Input: shape.Shape{"id": nil}},
		},
	})
	registry := NewMockRegistry(map[string]Resolver{
		"ruser": NewValueResolver(map[string]any{
			"user": map[string]any{"id": "u7"},
		}),
		"rgreeting": ResolverFunc(func(ctx context.Context, input map[string]any) (map[string]any, error) {
			return map[string]any{"greeting": "hello " + input["id"].(string)}, nil
		}),
	})
	store := entity.NewStore(nil)

	runQuery(t, New(planner, registry), `{user {id greeting}}`, store)

	want := map[string]any{
		"user": map[string]any{"id": "u7", "greeting": "hello u7"},
	}
	if diff := cmp.Diff(want, store.Snapshot()); diff != "" {
		t.Fatalf("entity mismatch (-want +got):\n%s", diff)
	}
}

func TestAvailableNested_FastPathProcessesExistingData(t *testing.T) {
	planner := NewStaticPlanner()
	mustSetGraph(t, planner, `{a {b}}`, &graph.Graph{
		AvailableNested: shape.Shape{"a": shape.Shape{"b": nil}},
	})
	registry := NewMockRegistry(nil)
	store := entity.NewStore(map[string]any{
		"a": map[string]any{"b": 1},
	})

	runQuery(t, New(planner, registry), `{a {b}}`, store)

	want := map[string]any{"a": map[string]any{"b": 1}}
	if diff := cmp.Diff(want, store.Snapshot()); diff != "" {
		t.Fatalf("entity mismatch (-want +got):\n%s", diff)
	}
	if len(registry.Calls()) != 0 {
		t.Fatalf("no resolver should run, got %v", registry.Calls())
	}
}
