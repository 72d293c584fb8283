package promptdoc

import (
	"maps"
	"slices"
)

// Document is an ordered JSON object: a sequence of key-value pairs whose
// order is the order they were decoded or built in.
type Document []Entry

// Array is a JSON array of arbitrary values.
type Array []any

// Entry is a single member of a Document.
type Entry struct {
	Key   string
	Value any
}

// Get returns the value stored under key.
func (d Document) Get(key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Set stores v under key. An existing key keeps its position and has its
// value replaced; a new key is appended.
func (d *Document) Set(key string, v any) {
	for i := range *d {
		if (*d)[i].Key == key {
			(*d)[i].Value = v
			return
		}
	}
	*d = append(*d, Entry{Key: key, Value: v})
}

// Keys returns the keys of d in order.
func (d Document) Keys() []string {
	keys := make([]string, len(d))
	for i, e := range d {
		keys[i] = e.Key
	}
	return keys
}

// objectEntries returns the ordered entries of an object-like value. Plain
// maps are visited in sorted key order so output is deterministic.
func objectEntries(v any) (Document, bool) {
	switch o := v.(type) {
	case Document:
		return o, true
	case *Document:
		if o == nil {
			return nil, false
		}
		return *o, true
	case map[string]any:
		d := make(Document, 0, len(o))
		for _, k := range slices.Sorted(maps.Keys(o)) {
			d = append(d, Entry{Key: k, Value: o[k]})
		}
		return d, true
	case map[string]string:
		d := make(Document, 0, len(o))
		for _, k := range slices.Sorted(maps.Keys(o)) {
			d = append(d, Entry{Key: k, Value: o[k]})
		}
		return d, true
	}
	return nil, false
}

// arrayElements returns the elements of an array-like value.
func arrayElements(v any) ([]any, bool) {
	switch a := v.(type) {
	case Array:
		return a, true
	case []any:
		return a, true
	case []string:
		out := make([]any, len(a))
		for i, s := range a {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}
