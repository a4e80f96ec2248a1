package shape

import (
	"sort"
	"strings"

	language "github.com/hanpama/attrgraph/internal/language"
)

// FromSelectionSet converts a query selection set into a shape. Plain fields
// become leaves, fields with selections become nested shapes, and inline
// fragments and fragment spreads merge their variant shapes into the current
// level: at presence-check time the concrete variant of a value is unknown, so
// the shape is the union across all possible variants.
func FromSelectionSet(sel language.SelectionSet, fragments language.FragmentDefinitionList) Shape {
	var out Shape
	for _, selection := range sel {
		switch node := selection.(type) {
		case *language.Field:
			var sub Shape
			if len(node.SelectionSet) > 0 {
				sub = FromSelectionSet(node.SelectionSet, fragments)
			}
			if out == nil {
				out = make(Shape)
			}
			if cur, ok := out[node.Name]; ok {
				out[node.Name] = Merge(cur, sub)
			} else {
				out[node.Name] = sub
			}
		case *language.InlineFragment:
			out = Merge(out, FromSelectionSet(node.SelectionSet, fragments))
		case *language.FragmentSpread:
			if def := fragments.ForName(node.Name); def != nil {
				out = Merge(out, FromSelectionSet(def.SelectionSet, fragments))
			}
		}
	}
	return out
}

// ToSelectionSet converts a shape back into a selection set: leaves become
// plain field requests, non-empty sub-shapes become joins. Keys are emitted in
// sorted order for determinism.
func ToSelectionSet(s Shape) language.SelectionSet {
	if len(s) == 0 {
		return nil
	}
	var sel language.SelectionSet
	for _, k := range sortedKeys(s) {
		sel = append(sel, &language.Field{
			Alias:        k,
			Name:         k,
			SelectionSet: ToSelectionSet(s[k]),
		})
	}
	return sel
}

// ToQuery renders a shape in query selection syntax, e.g. "{a {b} c}".
func ToQuery(s Shape) string {
	var b strings.Builder
	writeQuery(&b, s)
	return b.String()
}

func writeQuery(b *strings.Builder, s Shape) {
	b.WriteByte('{')
	for i, k := range sortedKeys(s) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		if sub := s[k]; len(sub) > 0 {
			b.WriteByte(' ')
			writeQuery(b, sub)
		}
	}
	b.WriteByte('}')
}

func sortedKeys(s Shape) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
