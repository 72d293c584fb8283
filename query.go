package promptdoc

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// Select evaluates a JSONPath expression against the JSON form of nodes and
// returns the matches in document order, e.g.
//
//	Select(nodes, "$.examples.positive[*]")
//
// Matches are plain values: map[string]any, []any or string.
func Select(nodes []Node, expr string) ([]any, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath %q: %w", expr, err)
	}
	return x.Get(ToPlain(ToJSON(nodes))), nil
}

// ToPlain converts ordered values into the generic map[string]any and []any
// shapes expected by most JSON tooling. Key order is lost.
func ToPlain(v any) any {
	if d, ok := objectEntries(v); ok {
		m := make(map[string]any, len(d))
		for _, e := range d {
			m[e.Key] = ToPlain(e.Value)
		}
		return m
	}
	if elems, ok := arrayElements(v); ok {
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = ToPlain(e)
		}
		return out
	}
	return v
}
