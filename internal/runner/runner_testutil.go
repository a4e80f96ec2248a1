package runner

import (
	"context"
	"testing"

	entity "github.com/hanpama/attrgraph/internal/entity"
	graph "github.com/hanpama/attrgraph/internal/graph"
	language "github.com/hanpama/attrgraph/internal/language"
)

// mustParseQuery parses a query and fails the test on error.
func mustParseQuery(t *testing.T, q string) *language.QueryDocument {
	t.Helper()
	doc, err := language.ParseQuery(q)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return doc
}

// mustSetGraph registers g for query on the static planner.
func mustSetGraph(t *testing.T, p *StaticPlanner, query string, g *graph.Graph) {
	t.Helper()
	if err := p.Set(query, g); err != nil {
		t.Fatalf("set graph: %v", err)
	}
}

// runQuery runs query against store and fails the test on error.
func runQuery(t *testing.T, r *Runner, query string, store entity.Store) *RunSummary {
	t.Helper()
	doc := mustParseQuery(t, query)
	summary, err := r.RunGraph(context.Background(), doc.Operations[0].SelectionSet, doc.Fragments, store)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	return summary
}
