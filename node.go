// Package promptdoc implements the prompt document model: an ordered tree of
// keyed nodes built from JSON, plus writers for XML, Markdown, YAML and TOON
// (Token-Oriented Object Notation) and a TOON parser.
//
// Every scalar in the tree is a string. Nodes are immutable values; editors
// change a node by building a new one and replacing it in its parent.
package promptdoc

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Kind identifies the variant of a Node.
type Kind int

const (
	ObjectKind Kind = iota
	StringKind
	StringArrayKind
)

func (k Kind) String() string {
	switch k {
	case ObjectKind:
		return "object"
	case StringKind:
		return "string"
	case StringArrayKind:
		return "stringArray"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is one of ObjectNode, StringNode or StringArrayNode.
type Node interface {
	NodeKey() string
	NodeID() string
	Kind() Kind
	node()
}

// ObjectNode groups ordered children under a key.
type ObjectNode struct {
	Key      string
	Children []Node
	// ID is an opaque editor handle. It is never serialized.
	ID string
}

// StringNode is a scalar leaf.
type StringNode struct {
	Key   string
	Value string
	ID    string
}

// StringArrayNode is an ordered list of scalar strings.
type StringArrayNode struct {
	Key    string
	Values []string
	ID     string
}

func (n ObjectNode) NodeKey() string      { return n.Key }
func (n StringNode) NodeKey() string      { return n.Key }
func (n StringArrayNode) NodeKey() string { return n.Key }

func (n ObjectNode) NodeID() string      { return n.ID }
func (n StringNode) NodeID() string      { return n.ID }
func (n StringArrayNode) NodeID() string { return n.ID }

func (ObjectNode) Kind() Kind      { return ObjectKind }
func (StringNode) Kind() Kind      { return StringKind }
func (StringArrayNode) Kind() Kind { return StringArrayKind }

func (ObjectNode) node()      {}
func (StringNode) node()      {}
func (StringArrayNode) node() {}

func NewObject(key string, children ...Node) ObjectNode {
	return ObjectNode{Key: key, Children: children}
}

func NewString(key, value string) StringNode {
	return StringNode{Key: key, Value: value}
}

func NewStringArray(key string, values ...string) StringArrayNode {
	if values == nil {
		values = []string{}
	}
	return StringArrayNode{Key: key, Values: values}
}

// WithKey returns a copy of n carrying key.
func WithKey(n Node, key string) Node {
	switch v := n.(type) {
	case ObjectNode:
		v.Key = key
		return v
	case StringNode:
		v.Key = key
		return v
	case StringArrayNode:
		v.Key = key
		return v
	}
	return n
}

// WithID returns a copy of n carrying id.
func WithID(n Node, id string) Node {
	switch v := n.(type) {
	case ObjectNode:
		v.ID = id
		return v
	case StringNode:
		v.ID = id
		return v
	case StringArrayNode:
		v.ID = id
		return v
	}
	return n
}

// AssignIDs returns a copy of nodes in which every node lacking an ID, at
// any depth, carries a fresh random UUID. Existing IDs are kept.
func AssignIDs(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		if obj, ok := n.(ObjectNode); ok {
			obj.Children = AssignIDs(obj.Children)
			n = obj
		}
		if n.NodeID() == "" {
			n = WithID(n, uuid.NewString())
		}
		out[i] = n
	}
	return out
}

// PathByID returns the key path of the node carrying id.
func PathByID(nodes []Node, id string) ([]string, bool) {
	for _, n := range nodes {
		if n.NodeID() == id {
			return []string{n.NodeKey()}, true
		}
		if obj, ok := n.(ObjectNode); ok {
			if rest, ok := PathByID(obj.Children, id); ok {
				return append([]string{n.NodeKey()}, rest...), true
			}
		}
	}
	return nil, false
}

// Retype builds a fresh node of kind with the key and ID of n. The content
// carried over depends on the pair of kinds:
//
//	string      -> stringArray  one-element array (empty string gives no elements)
//	stringArray -> string       values joined with ", "
//	object      -> string/array empty
//	any         -> object       no children
func Retype(n Node, kind Kind) Node {
	if n.Kind() == kind {
		return n
	}
	key, id := n.NodeKey(), n.NodeID()
	switch kind {
	case ObjectKind:
		return ObjectNode{Key: key, ID: id, Children: []Node{}}
	case StringKind:
		var value string
		if a, ok := n.(StringArrayNode); ok {
			value = strings.Join(a.Values, ", ")
		}
		return StringNode{Key: key, ID: id, Value: value}
	case StringArrayKind:
		values := []string{}
		if s, ok := n.(StringNode); ok && s.Value != "" {
			values = append(values, s.Value)
		}
		return StringArrayNode{Key: key, ID: id, Values: values}
	}
	return n
}

// Find returns the node reached by following path through object children.
func Find(nodes []Node, path ...string) (Node, bool) {
	if len(path) == 0 {
		return nil, false
	}
	for {
		i := indexOfKey(nodes, path[0])
		if i < 0 {
			return nil, false
		}
		if len(path) == 1 {
			return nodes[i], true
		}
		obj, ok := nodes[i].(ObjectNode)
		if !ok {
			return nil, false
		}
		nodes, path = obj.Children, path[1:]
	}
}

// ReplaceAt returns a copy of nodes in which the node at path is replaced by
// n. Ancestors along the path are copied; everything else is shared. It
// reports false when the path does not resolve.
func ReplaceAt(nodes []Node, path []string, n Node) ([]Node, bool) {
	if len(path) == 0 {
		return nodes, false
	}
	i := indexOfKey(nodes, path[0])
	if i < 0 {
		return nodes, false
	}
	var repl Node = n
	if len(path) > 1 {
		obj, ok := nodes[i].(ObjectNode)
		if !ok {
			return nodes, false
		}
		children, ok := ReplaceAt(obj.Children, path[1:], n)
		if !ok {
			return nodes, false
		}
		obj.Children = children
		repl = obj
	}
	out := slices.Clone(nodes)
	out[i] = repl
	return out, true
}

// indexOfKey returns the last sibling carrying key, matching the
// last-write-wins rule used when nodes are exported.
func indexOfKey(nodes []Node, key string) int {
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodes[i].NodeKey() == key {
			return i
		}
	}
	return -1
}
