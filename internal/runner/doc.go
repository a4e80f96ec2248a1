// Package runner executes planner-produced resolution graphs: it walks the
// graph depth-first from the root, invokes resolvers, recursively re-enters
// itself for nested sub-queries, merges results into the shared entity and
// collects per-node timing statistics.
//
// # Execution Model
//
// A run is a single-threaded, depth-first, synchronous interpretation of one
// graph. Nodes execute strictly in the order dictated by next pointers and
// child lists:
//
//   - Resolver node: skipped outright when its Requires shape is already
//     satisfied in the entity (a prior branch resolved it). Otherwise the
//     runner snapshots the entity, restricts it to the node's declared Input
//     attributes, invokes the resolver, records wall time and the input
//     snapshot under the node id, merges the response and proceeds to Next.
//   - And node: runs every child in listed order, then Next. Children each
//     carry their own exact input contract and are declared independent, so
//     concurrent execution is a valid optimization; the reference behavior
//     (all children complete before Next) is what this implementation does.
//   - Or node: tries children in listed order, re-checking the or node's own
//     Requires after each and stopping early once satisfied. Next runs
//     whether or not any alternative succeeded: an exhausted or node is not
//     an error, it just leaves requirements unsatisfied for downstream nodes
//     (or the final output) to surface.
//   - Any other kind is a no-op. The planner is trusted to emit only the
//     three known kinds.
//
// # Nested Sub-Queries
//
// A resolved value may itself need resolution against a nested query. For
// each response attribute the runner consults the graph's per-attribute query
// record (IndexAST). Leaf requests store the value verbatim. For a nested
// request the runner re-enters itself: the value becomes the seed of a fresh,
// independently owned entity store, the sub-query becomes the new target, and
// the filled result — projected down to the requested sub-shape — replaces
// the raw value. Slice values get this treatment element by element, order
// preserved. A MapContainer value applies the sub-query to each of the map's
// values instead of the map itself.
//
// # Entity and Statistics
//
// The entity store is the only state shared across node executions within a
// run. Every response is committed in one atomic read-modify-write, so
// concurrent observers never see a torn merge; data merged before a failing
// node stays merged (at-least-partial-progress, not whole-run atomicity).
// Per-node statistics are keyed by node id and surface in the RunSummary
// together with the graph and total wall time; the stats package re-feeds
// them through this same runner to derive summary metrics.
package runner
