package promptdoc

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ToYAML renders nodes as a block-style YAML document.
func ToYAML(nodes []Node, opts ...Option) (string, error) {
	return YAMLFromJSON(ToJSON(nodes), opts...)
}

// YAMLFromJSON renders a JSON-like object as block-style YAML, keeping the
// key order of Document values. Strings are always emitted as strings, so
// "true" or "42" come back as strings on decode.
func YAMLFromJSON(v any, _ ...Option) (string, error) {
	if _, ok := objectEntries(v); !ok {
		return "", fmt.Errorf("%w: root must be an object, got %s", ErrMalformedInput, jsonKind(v))
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNode(v)); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	return buf.String(), nil
}

func yamlNode(v any) *yaml.Node {
	if d, ok := objectEntries(v); ok {
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, e := range d {
			n.Content = append(n.Content, yamlScalar("!!str", e.Key), yamlNode(e.Value))
		}
		return n
	}
	if elems, ok := arrayElements(v); ok {
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, e := range elems {
			n.Content = append(n.Content, yamlNode(e))
		}
		return n
	}
	switch s := v.(type) {
	case nil:
		return yamlScalar("", "null")
	case string:
		return yamlScalar("!!str", s)
	}
	// Untagged so the emitter writes numbers and booleans plain.
	str, _ := stringify(v)
	return yamlScalar("", str)
}

func yamlScalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// YAMLToJSON parses a YAML document into an ordered JSON-like object.
// Aliases are expanded and merge keys ("<<") are applied. The document root
// must be a mapping; an empty document yields an empty object.
func YAMLToJSON(data []byte) (Document, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode yaml: %w", ErrMalformedInput, err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return Document{}, nil
		}
		root = root.Content[0]
	}
	if root.Kind == 0 {
		return Document{}, nil
	}
	r := &yamlReader{active: map[*yaml.Node]bool{}}
	v, err := r.value(root)
	if err != nil {
		return nil, err
	}
	d, ok := v.(Document)
	if !ok {
		return nil, fmt.Errorf("%w: yaml root must be a mapping, got %s", ErrMalformedInput, jsonKind(v))
	}
	return d, nil
}

type yamlReader struct {
	// active holds the nodes on the current path so alias cycles are
	// rejected instead of recursing forever.
	active map[*yaml.Node]bool
}

func (r *yamlReader) value(n *yaml.Node) (any, error) {
	if r.active[n] {
		return nil, fmt.Errorf("%w: decode yaml: recursive alias at line %d", ErrMalformedInput, n.Line)
	}
	r.active[n] = true
	defer delete(r.active, n)

	switch n.Kind {
	case yaml.AliasNode:
		return r.value(n.Alias)
	case yaml.MappingNode:
		return r.mapping(n)
	case yaml.SequenceNode:
		arr := make(Array, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := r.value(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: decode yaml scalar at line %d: %w", ErrMalformedInput, n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: decode yaml: unexpected node kind %d at line %d", ErrMalformedInput, n.Kind, n.Line)
}

func (r *yamlReader) mapping(n *yaml.Node) (Document, error) {
	d := make(Document, 0, len(n.Content)/2)
	var merged []Document
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, vn := n.Content[i], n.Content[i+1]
		if k.Kind == yaml.AliasNode {
			k = k.Alias
		}
		v, err := r.value(vn)
		if err != nil {
			return nil, err
		}
		if k.ShortTag() == "!!merge" {
			switch m := v.(type) {
			case Document:
				merged = append(merged, m)
			case Array:
				for _, e := range m {
					if md, ok := e.(Document); ok {
						merged = append(merged, md)
					}
				}
			}
			continue
		}
		d.Set(k.Value, v)
	}
	for _, m := range merged {
		for _, e := range m {
			if _, ok := d.Get(e.Key); !ok {
				d = append(d, e)
			}
		}
	}
	return d, nil
}
