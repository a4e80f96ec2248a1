package runner

import (
	entity "github.com/hanpama/attrgraph/internal/entity"
	language "github.com/hanpama/attrgraph/internal/language"
	shape "github.com/hanpama/attrgraph/internal/shape"
)

// mergeResponse processes every attribute of a resolver response against the
// query recorded for it and commits all of them in one atomic merge, so
// concurrent readers never observe a partially merged response.
//
// Nested runs happen before the commit: holding the store during resolver
// invocations would serialize independent branches against each other.
func (st *runState) mergeResponse(response map[string]any) error {
	if len(response) == 0 {
		return nil
	}
	processed := make(map[string]any, len(response))
	for k, v := range response {
		pv, err := st.processAttribute(k, v)
		if err != nil {
			return err
		}
		processed[k] = pv
	}
	st.store.AtomicMerge(func(cur map[string]any) map[string]any {
		for k, v := range processed {
			cur[k] = v
		}
		return cur
	})
	return nil
}

// processAttribute applies the attribute's recorded sub-query, if any, to the
// resolved value. Leaf requests and values a sub-query cannot apply to are
// stored verbatim.
func (st *runState) processAttribute(key string, value any) (any, error) {
	field := st.graph.IndexAST[key]
	if field == nil || len(field.SelectionSet) == 0 {
		return value, nil
	}

	switch v := value.(type) {
	case MapContainer:
		// The sub-query applies to each value of the container, not to the
		// container itself.
		out := make(map[string]any, len(v))
		for k, item := range v {
			pv, err := st.processItem(field, item)
			if err != nil {
				return nil, err
			}
			out[k] = pv
		}
		return out, nil
	case map[string]any:
		return st.runNested(field, v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			pv, err := st.processItem(field, item)
			if err != nil {
				return nil, err
			}
			out[i] = pv
		}
		return out, nil
	default:
		return value, nil
	}
}

func (st *runState) processItem(field *language.Field, item any) (any, error) {
	if m, ok := item.(map[string]any); ok {
		return st.runNested(field, m)
	}
	return item, nil
}

// runNested re-enters the runner for a nested sub-query: the value seeds a
// fresh, independently owned entity, the field's selection set becomes the
// target query, and the filled entity is projected down to the requested
// sub-shape. No mutable state crosses the recursion boundary.
func (st *runState) runNested(field *language.Field, value map[string]any) (map[string]any, error) {
	sub := entity.NewStore(value)
	if _, err := st.runner.RunGraph(st.ctx, field.SelectionSet, st.fragments, sub); err != nil {
		return nil, err
	}
	requested := shape.FromSelectionSet(field.SelectionSet, st.fragments)
	out, _ := shape.Select(sub.Snapshot(), requested).(map[string]any)
	return out, nil
}
