package runner

import (
	"context"
	"fmt"
	"sync"
)

// NewValueResolver returns a Resolver that always produces the given
// attributes.
func NewValueResolver(output map[string]any) Resolver {
	return ResolverFunc(func(ctx context.Context, input map[string]any) (map[string]any, error) {
		return output, nil
	})
}

// NewErrorResolver returns a Resolver that always fails with err.
func NewErrorResolver(err error) Resolver {
	return ResolverFunc(func(ctx context.Context, input map[string]any) (map[string]any, error) {
		return nil, err
	})
}

// ResolverCall records one resolver invocation made through a MockRegistry.
type ResolverCall struct {
	Resolver string
	Input    map[string]any
}

// MockRegistry implements Registry over a plain name→Resolver map and logs
// every invocation made through resolvers it hands out.
type MockRegistry struct {
	mu        sync.Mutex
	resolvers map[string]Resolver
	calls     []ResolverCall
}

func NewMockRegistry(resolvers map[string]Resolver) *MockRegistry {
	m := &MockRegistry{resolvers: make(map[string]Resolver, len(resolvers))}
	for k, v := range resolvers {
		m.resolvers[k] = v
	}
	return m
}

// Set registers or replaces a resolver.
func (m *MockRegistry) Set(name string, r Resolver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolvers[name] = r
}

func (m *MockRegistry) Lookup(name string) (Resolver, error) {
	m.mu.Lock()
	r, ok := m.resolvers[name]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown resolver %q", name)
	}
	return ResolverFunc(func(ctx context.Context, input map[string]any) (map[string]any, error) {
		m.mu.Lock()
		m.calls = append(m.calls, ResolverCall{Resolver: name, Input: input})
		m.mu.Unlock()
		return r.Resolve(ctx, input)
	}), nil
}

// Calls returns a copy of the recorded invocations in order.
func (m *MockRegistry) Calls() []ResolverCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ResolverCall, len(m.calls))
	copy(out, m.calls)
	return out
}
