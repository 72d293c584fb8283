package promptdoc

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
)

// ApplyPatch applies an RFC 6902 JSON Patch to the JSON form of nodes and
// converts the result back into nodes. Members that survive the patch keep
// their original order; added members follow in the order the patched
// document lists them.
func ApplyPatch(nodes []Node, patch []byte, opts ...Option) ([]Node, error) {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, fmt.Errorf("%w: decode json patch: %w", ErrMalformedInput, err)
	}
	before := ToJSON(nodes)
	doc, err := EncodeJSON(before, false)
	if err != nil {
		return nil, err
	}
	out, err := ops.Apply(doc)
	if err != nil {
		return nil, fmt.Errorf("apply json patch: %w", err)
	}
	after, err := DecodeJSON(out)
	if err != nil {
		return nil, err
	}
	return FromJSON(keepOrder(before, after), opts...)
}

// keepOrder reorders the objects of after to follow the member order of
// before wherever both have an object at the same place.
func keepOrder(before, after any) any {
	b, ok := objectEntries(before)
	if !ok {
		return after
	}
	a, ok := objectEntries(after)
	if !ok {
		return after
	}
	out := make(Document, 0, len(a))
	for _, e := range b {
		if v, ok := a.Get(e.Key); ok {
			out = append(out, Entry{Key: e.Key, Value: keepOrder(e.Value, v)})
		}
	}
	for _, e := range a {
		if _, ok := b.Get(e.Key); !ok {
			out = append(out, e)
		}
	}
	return out
}
