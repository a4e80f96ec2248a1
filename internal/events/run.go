package events

import (
	"time"

	graph "github.com/hanpama/attrgraph/internal/graph"
)

// RunStart is published before a resolution run begins. Nested is set for
// sub-query runs re-entering the runner.
type RunStart struct {
	Query  string
	Nested bool
}

// RunFinish is published after a resolution run completes or aborts.
type RunFinish struct {
	Query    string
	Nested   bool
	Duration time.Duration
	Err      error
}

// ResolverStart is published before a resolver node invokes its resolver.
type ResolverStart struct {
	Node     graph.NodeID
	Resolver string
	Input    map[string]any
}

// ResolverFinish is published after a resolver invocation returns.
type ResolverFinish struct {
	Node     graph.NodeID
	Resolver string
	Duration time.Duration
	Err      error
}
