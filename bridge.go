package promptdoc

import (
	"encoding"
	"fmt"
	"math"
	"strconv"
)

// FromJSON converts a JSON-like object into nodes. The root must be an
// object (Document or map[string]any); anything else fails with
// ErrMalformedInput.
//
// Scalars become StringNode, arrays of scalars StringArrayNode and nested
// objects ObjectNode. Arrays holding objects or arrays are handled according
// to ArrayObjects.
func FromJSON(v any, opts ...Option) ([]Node, error) {
	entries, ok := objectEntries(v)
	if !ok {
		return nil, fmt.Errorf("%w: root must be an object, got %s", ErrMalformedInput, jsonKind(v))
	}
	cfg := newConfig(opts)
	w := cfg.recorder()
	nodes := fromEntries(entries, "", cfg, w)
	if err := w.finish(); err != nil {
		return nil, err
	}
	return nodes, nil
}

// ParseJSON decodes JSON text and converts it with FromJSON.
func ParseJSON(data []byte, opts ...Option) ([]Node, error) {
	v, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return FromJSON(v, opts...)
}

// FromJSONFlat is the flat-mode variant of FromJSON: nested objects are
// spliced into the result with dotted keys.
func FromJSONFlat(v any, opts ...Option) ([]FlatNode, error) {
	nodes, err := FromJSON(v, opts...)
	if err != nil {
		return nil, err
	}
	return Flatten(nodes, opts...)
}

func fromEntries(entries Document, prefix string, cfg *config, w *warnings) []Node {
	nodes := make([]Node, 0, len(entries))
	for _, e := range entries {
		nodes = appendValue(nodes, e.Key, e.Value, joinPath(prefix, e.Key), cfg, w)
	}
	return nodes
}

func appendValue(nodes []Node, key string, v any, path string, cfg *config, w *warnings) []Node {
	if entries, ok := objectEntries(v); ok {
		return append(nodes, ObjectNode{Key: key, Children: fromEntries(entries, path, cfg, w)})
	}
	if elems, ok := arrayElements(v); ok {
		if values, ok := scalarStrings(elems, path, w); ok {
			return append(nodes, StringArrayNode{Key: key, Values: values})
		}
		if cfg.arrayPolicy == SkipArrays {
			w.add(ArraySkipped, path, 0, "array contains objects or arrays")
			return nodes
		}
		w.add(ArrayUnpacked, path, 0, fmt.Sprintf("%d elements re-keyed by index", len(elems)))
		for i, elem := range elems {
			k := fmt.Sprintf("%s[%d]", key, i)
			nodes = appendValue(nodes, k, elem, joinPath(prefix(path), k), cfg, w)
		}
		return nodes
	}
	if v == nil {
		w.add(NullValue, path, 0, "null stored as empty string")
		return append(nodes, StringNode{Key: key})
	}
	s, stringified := stringify(v)
	if stringified {
		w.add(ScalarStringified, path, 0, fmt.Sprintf("%T stored as string", v))
	}
	return append(nodes, StringNode{Key: key, Value: s})
}

// prefix returns the parent portion of a dotted path.
func prefix(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return ""
}

// scalarStrings reports whether every element is a scalar and returns them
// stringified. An empty array qualifies.
func scalarStrings(elems []any, path string, w *warnings) ([]string, bool) {
	for _, e := range elems {
		if !isScalar(e) {
			return nil, false
		}
	}
	values := make([]string, len(elems))
	for i, e := range elems {
		s, stringified := stringify(e)
		if stringified {
			w.add(ScalarStringified, fmt.Sprintf("%s[%d]", path, i), 0, fmt.Sprintf("%T stored as string", e))
		}
		values[i] = s
	}
	return values, true
}

func isScalar(v any) bool {
	if v == nil {
		return true
	}
	if _, ok := objectEntries(v); ok {
		return false
	}
	_, ok := arrayElements(v)
	return !ok
}

// stringify renders a scalar the way a JavaScript String() call would. The
// second result is false only when v already was a string.
func stringify(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, false
	case nil:
		return "", true
	case bool:
		return strconv.FormatBool(s), true
	case float64:
		return formatFloat(s, 64), true
	case float32:
		return formatFloat(float64(s), 32), true
	case int:
		return strconv.FormatInt(int64(s), 10), true
	case int8:
		return strconv.FormatInt(int64(s), 10), true
	case int16:
		return strconv.FormatInt(int64(s), 10), true
	case int32:
		return strconv.FormatInt(int64(s), 10), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case uint:
		return strconv.FormatUint(uint64(s), 10), true
	case uint8:
		return strconv.FormatUint(uint64(s), 10), true
	case uint16:
		return strconv.FormatUint(uint64(s), 10), true
	case uint32:
		return strconv.FormatUint(uint64(s), 10), true
	case uint64:
		return strconv.FormatUint(s, 10), true
	case encoding.TextMarshaler:
		if b, err := s.MarshalText(); err == nil {
			return string(b), true
		}
	case fmt.Stringer:
		return s.String(), true
	}
	return fmt.Sprint(v), true
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	if _, ok := arrayElements(v); ok {
		return "array"
	}
	if isScalar(v) {
		return fmt.Sprintf("scalar %T", v)
	}
	return fmt.Sprintf("%T", v)
}

// ToJSON converts nodes into an ordered JSON-like object. String arrays
// become []string. When siblings share a key the last one wins.
func ToJSON(nodes []Node) Document {
	d := make(Document, 0, len(nodes))
	for _, n := range nodes {
		d.Set(n.NodeKey(), nodeValue(n))
	}
	return d
}

func nodeValue(n Node) any {
	switch v := n.(type) {
	case ObjectNode:
		return ToJSON(v.Children)
	case StringNode:
		return v.Value
	case StringArrayNode:
		values := make([]string, len(v.Values))
		copy(values, v.Values)
		return values
	}
	return nil
}
