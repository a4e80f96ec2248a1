// Package runid correlates all spans and events of one top-level run,
// including its nested sub-query runs, under a single random id.
package runid

import (
	"context"
	"math/rand"
)

type key struct{}

// NewContext returns ctx carrying a run id. If ctx already carries one it is
// returned unchanged, so nested runs inherit the parent's id.
func NewContext(ctx context.Context) (context.Context, int64) {
	if id, ok := FromContext(ctx); ok {
		return ctx, id
	}
	id := rand.Int63()
	return context.WithValue(ctx, key{}, id), id
}

// FromContext extracts the run id from ctx and whether it was present.
func FromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(key{}).(int64)
	return id, ok
}
