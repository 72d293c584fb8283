package promptdoc

// Registration is a deferred format registration. Format providers expose
// values of this type so callers opt in explicitly:
//
//	r, _ := promptdoc.NewRegistry(promptdoc.TOONFormat, promptdoc.JSONFormat)
type Registration func(r *Registry) error

// NewFormat wraps an encoder/decoder pair into a Registration. Either may be
// nil for a one-directional format.
func NewFormat(name string, enc EncodeFunc, dec DecodeFunc) Registration {
	return func(r *Registry) error {
		return r.Register(Format{Name: name, Encode: enc, Decode: dec})
	}
}

// Group groups multiple registrations into one:
//
//	promptdoc.NewRegistry(promptdoc.Group(promptdoc.JSONFormat, promptdoc.YAMLFormat), custom)
func Group(regs ...Registration) Registration {
	return func(r *Registry) error { return Apply(r, regs...) }
}

// Apply applies registrations to an existing registry, stopping at the
// first error.
func Apply(r *Registry, regs ...Registration) error {
	for _, reg := range regs {
		if err := reg(r); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry constructs a registry and applies the provided registrations.
func NewRegistry(regs ...Registration) (*Registry, error) {
	r := newRegistry()
	if err := Apply(r, regs...); err != nil {
		return nil, err
	}
	return r, nil
}
