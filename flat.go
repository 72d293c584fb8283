package promptdoc

import (
	"slices"
	"strings"
)

// FlatType is the variant of a FlatNode. There is no object variant: nesting
// lives in the dotted key.
type FlatType string

const (
	FlatString      FlatType = "string"
	FlatStringArray FlatType = "stringArray"
)

// FlatNode is the dotted-path representation used by list-style editors,
// e.g. {Key: "examples.positive", Type: "stringArray", Values: [...]}.
type FlatNode struct {
	Key    string   `json:"key"`
	Type   FlatType `json:"type"`
	Value  string   `json:"value,omitempty"`
	Values []string `json:"values,omitempty"`
}

// Flatten converts a tree into the flat representation. Keys are joined
// with ".". Empty objects have no flat form and are dropped.
func Flatten(nodes []Node, opts ...Option) ([]FlatNode, error) {
	w := newConfig(opts).recorder()
	out := flattenInto(nil, nodes, "", w)
	if err := w.finish(); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenInto(out []FlatNode, nodes []Node, prefix string, w *warnings) []FlatNode {
	for _, n := range nodes {
		key := joinPath(prefix, n.NodeKey())
		switch v := n.(type) {
		case ObjectNode:
			if len(v.Children) == 0 {
				w.add(FlatObjectDropped, key, 0, "empty object")
				continue
			}
			out = flattenInto(out, v.Children, key, w)
		case StringNode:
			out = append(out, FlatNode{Key: key, Type: FlatString, Value: v.Value})
		case StringArrayNode:
			out = append(out, FlatNode{Key: key, Type: FlatStringArray, Values: slices.Clone(v.Values)})
		}
	}
	return out
}

// Unflatten rebuilds a tree from flat nodes by splitting keys on ".".
// Entries sharing a prefix merge into one ObjectNode, in first-seen order.
// On collision the later entry wins, including when a leaf and an object
// claim the same path.
func Unflatten(flat []FlatNode) []Node {
	root := &builder{}
	for _, f := range flat {
		segs := strings.Split(f.Key, ".")
		b := root
		for _, seg := range segs[:len(segs)-1] {
			b = b.object(seg)
		}
		var leaf Node
		if f.Type == FlatStringArray {
			values := slices.Clone(f.Values)
			if values == nil {
				values = []string{}
			}
			leaf = StringArrayNode{Key: segs[len(segs)-1], Values: values}
		} else {
			leaf = StringNode{Key: segs[len(segs)-1], Value: f.Value}
		}
		b.leaf(leaf)
	}
	return root.nodes()
}

// FlatToJSON converts flat nodes straight to an ordered JSON-like object.
func FlatToJSON(flat []FlatNode) Document {
	return ToJSON(Unflatten(flat))
}

// builder is a mutable ObjectNode under construction.
type builder struct {
	slots []slot
}

// slot holds either a finished leaf or a nested builder.
type slot struct {
	key  string
	leaf Node
	obj  *builder
}

func (b *builder) find(key string) int {
	for i := range b.slots {
		if b.slots[i].key == key {
			return i
		}
	}
	return -1
}

func (b *builder) object(key string) *builder {
	i := b.find(key)
	if i >= 0 {
		if b.slots[i].obj == nil {
			b.slots[i] = slot{key: key, obj: &builder{}}
		}
		return b.slots[i].obj
	}
	nb := &builder{}
	b.slots = append(b.slots, slot{key: key, obj: nb})
	return nb
}

func (b *builder) leaf(n Node) {
	s := slot{key: n.NodeKey(), leaf: n}
	if i := b.find(s.key); i >= 0 {
		b.slots[i] = s
		return
	}
	b.slots = append(b.slots, s)
}

func (b *builder) nodes() []Node {
	out := make([]Node, 0, len(b.slots))
	for _, s := range b.slots {
		if s.obj != nil {
			out = append(out, ObjectNode{Key: s.key, Children: s.obj.nodes()})
			continue
		}
		out = append(out, s.leaf)
	}
	return out
}
