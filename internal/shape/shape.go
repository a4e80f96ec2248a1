// Package shape implements the recursive presence-tree used to describe which
// attributes (and nested attributes) of an entity are present or required,
// together with the set algebra the planner and runner depend on: union,
// difference, missing-part computation and data projection.
//
// A Shape maps an attribute key to the shape of its value. An empty (or nil)
// sub-shape marks a leaf attribute; a non-empty one describes the relevant
// sub-attributes of a nested object or collection. Shapes are never mutated in
// place: every operation returns a fresh value, so sub-shapes may be shared
// freely between results.
package shape

// Shape is a recursive attribute presence tree. Keys are unordered and
// equality is structural.
type Shape map[string]Shape

// Merge returns the deep union of a and b. Sub-shapes present on both sides
// are merged recursively; an empty sub-shape unions naturally with a non-empty
// one (leaf ∪ nested = nested).
func Merge(a, b Shape) Shape {
	if a == nil && b == nil {
		return nil
	}
	out := make(Shape, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if cur, ok := out[k]; ok {
			out[k] = Merge(cur, v)
		} else {
			out[k] = v
		}
	}
	return out
}

// FromValue builds the shape of an arbitrary nested value. Maps recurse key by
// key. Slices fold every element's shape together, so heterogeneous items
// contribute a combined shape describing the union of shapes seen across the
// collection. Scalars become leaves.
func FromValue(data any) Shape {
	switch v := data.(type) {
	case map[string]any:
		out := make(Shape, len(v))
		for k, item := range v {
			out[k] = FromValue(item)
		}
		return out
	case []any:
		var out Shape
		for _, item := range v {
			out = Merge(out, FromValue(item))
		}
		return out
	default:
		return nil
	}
}

// Missing reports which parts of required are not covered by available. A key
// absent from available is missing wholesale, with its full required
// sub-shape; a key present with a non-empty required sub-shape is kept with
// only its missing sub-part. A nil result means nothing is missing; callers
// short-circuit on it.
func Missing(available, required Shape) Shape {
	var out Shape
	for k, req := range required {
		avail, ok := available[k]
		if !ok {
			if out == nil {
				out = make(Shape)
			}
			out[k] = req
			continue
		}
		if len(req) == 0 {
			continue
		}
		if sub := Missing(avail, req); sub != nil {
			if out == nil {
				out = make(Shape)
			}
			out[k] = sub
		}
	}
	return out
}

// Diff returns the parts of a not covered by b. A key present in b with an
// empty sub-shape covers the whole key; when both sub-shapes are non-empty
// only a non-empty recursive difference is kept. Nil operands are empty
// shapes.
func Diff(a, b Shape) Shape {
	var out Shape
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			if out == nil {
				out = make(Shape)
			}
			out[k] = av
			continue
		}
		if len(av) == 0 || len(bv) == 0 {
			continue
		}
		if sub := Diff(av, bv); sub != nil {
			if out == nil {
				out = make(Shape)
			}
			out[k] = sub
		}
	}
	return out
}

// Select projects data down to the attributes named by s, the nested analogue
// of key projection. Keys in s absent from data are skipped; Select never
// invents keys. A leaf sub-shape copies the value verbatim; a non-empty
// sub-shape recurses into maps and maps the projection over slice elements.
// Values the sub-shape cannot apply to are copied verbatim.
func Select(data any, s Shape) any {
	m, ok := data.(map[string]any)
	if !ok {
		return data
	}
	out := make(map[string]any, len(s))
	for k, sub := range s {
		v, present := m[k]
		if !present {
			continue
		}
		if len(sub) == 0 {
			out[k] = v
			continue
		}
		switch vv := v.(type) {
		case map[string]any:
			out[k] = Select(vv, sub)
		case []any:
			items := make([]any, len(vv))
			for i, item := range vv {
				items[i] = Select(item, sub)
			}
			out[k] = items
		default:
			out[k] = v
		}
	}
	return out
}
