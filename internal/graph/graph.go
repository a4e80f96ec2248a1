// Package graph defines the resolution graph produced by a planner and
// interpreted by the runner: a table of resolver/and/or nodes reachable from a
// single root, treated as read-only for the duration of one run.
package graph

import (
	language "github.com/hanpama/attrgraph/internal/language"
	shape "github.com/hanpama/attrgraph/internal/shape"
)

// NodeID identifies a node within one graph. Zero means "no node".
type NodeID uint64

// Kind is the closed set of node variants. The zero value is deliberately not
// a valid kind: the runner treats unknown kinds as a no-op.
type Kind int

const (
	KindResolver Kind = iota + 1
	KindAnd
	KindOr
)

func (k Kind) String() string {
	switch k {
	case KindResolver:
		return "resolver"
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	default:
		return "unknown"
	}
}

// Node is one step of the resolution plan.
//
// A resolver node names the resolver to invoke, the exact input attributes it
// consumes and the attributes it provides. An and node runs every id in Run
// unconditionally; an or node tries the ids in Run in order until Requires is
// satisfied. Next, when non-zero, runs after the node completes.
type Node struct {
	ID   NodeID
	Kind Kind

	// Resolver fields.
	Resolver string
	Input    shape.Shape
	Provides shape.Shape

	// And/Or children, in execution order.
	Run []NodeID

	// Requires is what this node's downstream consumer needs present in the
	// entity for the node's work to count as satisfied.
	Requires shape.Shape

	Next NodeID
}

// Graph is the executable plan for one run.
type Graph struct {
	// Root is the entry node, zero when the plan has nothing to execute.
	Root  NodeID
	Nodes map[NodeID]*Node

	// IndexAST records, per attribute, the query node that requested it. The
	// runner consults it to decide whether a resolved value needs nested
	// processing.
	IndexAST map[string]*language.Field

	// AvailableNested flags entity data the planner found already structurally
	// available; the runner merges it before executing any node. This is an
	// optimization only and never changes the final output.
	AvailableNested shape.Shape
}

// Node returns the node for id, or nil.
func (g *Graph) Node(id NodeID) *Node {
	if g == nil || id == 0 {
		return nil
	}
	return g.Nodes[id]
}
