package promptdoc

import (
	"fmt"
	"slices"
	"sync"
)

// EncodeFunc renders nodes in a text format.
type EncodeFunc func(nodes []Node, opts ...Option) ([]byte, error)

// DecodeFunc parses a text format into nodes.
type DecodeFunc func(data []byte, opts ...Option) ([]Node, error)

// Format is a named codec. Either direction may be nil.
type Format struct {
	Name   string
	Encode EncodeFunc
	Decode DecodeFunc
}

// Registry maps format names to codecs. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Format
}

func newRegistry() *Registry {
	return &Registry{formats: make(map[string]Format)}
}

// Register adds f. Names must be unique and non-empty.
func (r *Registry) Register(f Format) error {
	if f.Name == "" {
		return fmt.Errorf("format name must not be empty")
	}
	if f.Encode == nil && f.Decode == nil {
		return fmt.Errorf("format %q has neither encoder nor decoder", f.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.formats[f.Name]; exists {
		return fmt.Errorf("format %q already registered", f.Name)
	}
	r.formats[f.Name] = f
	return nil
}

// Lookup returns the format registered under name.
func (r *Registry) Lookup(name string) (Format, bool) {
	r.mu.RLock()
	f, ok := r.formats[name]
	r.mu.RUnlock()
	return f, ok
}

// Names returns the registered format names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Encode renders nodes with the named format.
func (r *Registry) Encode(name string, nodes []Node, opts ...Option) ([]byte, error) {
	f, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, name)
	}
	if f.Encode == nil {
		return nil, fmt.Errorf("format %q: encode: %w", name, ErrUnsupported)
	}
	out, err := f.Encode(nodes, opts...)
	if err != nil {
		return nil, fmt.Errorf("format %q: encode: %w", name, err)
	}
	return out, nil
}

// Decode parses data with the named format.
func (r *Registry) Decode(name string, data []byte, opts ...Option) ([]Node, error) {
	f, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, name)
	}
	if f.Decode == nil {
		return nil, fmt.Errorf("format %q: decode: %w", name, ErrUnsupported)
	}
	nodes, err := f.Decode(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("format %q: decode: %w", name, err)
	}
	return nodes, nil
}

// Convert decodes data from one format and encodes it in another, passing
// opts to both sides.
func (r *Registry) Convert(from, to string, data []byte, opts ...Option) ([]byte, error) {
	nodes, err := r.Decode(from, data, opts...)
	if err != nil {
		return nil, err
	}
	return r.Encode(to, nodes, opts...)
}
