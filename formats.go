package promptdoc

// Built-in format registrations under their canonical names.
var (
	// JSONFormat reads and writes ordered, indented JSON.
	JSONFormat = NewFormat("json", encodeJSON, ParseJSON)

	// XMLFormat writes <prompt>-rooted XML and reads it back.
	XMLFormat = NewFormat("xml", encodeXML, decodeXML)

	// MarkdownFormat is write-only.
	MarkdownFormat = NewFormat("markdown", encodeMarkdown, nil)

	// YAMLFormat reads and writes block-style YAML.
	YAMLFormat = NewFormat("yaml", encodeYAML, decodeYAML)

	// TOONFormat reads and writes Token-Oriented Object Notation.
	TOONFormat = NewFormat("toon", encodeTOON, decodeTOON)

	// FlatFormat reads and writes the JSON list of dotted-key flat nodes.
	FlatFormat = NewFormat("flat", encodeFlat, decodeFlat)
)

// Builtin groups every built-in format.
func Builtin() Registration {
	return Group(JSONFormat, XMLFormat, MarkdownFormat, YAMLFormat, TOONFormat, FlatFormat)
}

func encodeJSON(nodes []Node, _ ...Option) ([]byte, error) {
	return EncodeJSON(ToJSON(nodes), true)
}

func encodeXML(nodes []Node, opts ...Option) ([]byte, error) {
	return text(ToXML(nodes, opts...))
}

func decodeXML(data []byte, opts ...Option) ([]Node, error) {
	d, err := XMLToJSON(data)
	if err != nil {
		return nil, err
	}
	return FromJSON(d, opts...)
}

func encodeMarkdown(nodes []Node, opts ...Option) ([]byte, error) {
	return text(ToMarkdown(nodes, opts...))
}

func encodeYAML(nodes []Node, opts ...Option) ([]byte, error) {
	return text(ToYAML(nodes, opts...))
}

func decodeYAML(data []byte, opts ...Option) ([]Node, error) {
	d, err := YAMLToJSON(data)
	if err != nil {
		return nil, err
	}
	return FromJSON(d, opts...)
}

func encodeTOON(nodes []Node, opts ...Option) ([]byte, error) {
	return text(ToTOON(nodes, opts...))
}

func decodeTOON(data []byte, opts ...Option) ([]Node, error) {
	return ParseTOON(string(data), opts...)
}

func encodeFlat(nodes []Node, opts ...Option) ([]byte, error) {
	flat, err := Flatten(nodes, opts...)
	if err != nil {
		return nil, err
	}
	return EncodeFlat(flat)
}

func decodeFlat(data []byte, _ ...Option) ([]Node, error) {
	flat, err := ParseFlat(data)
	if err != nil {
		return nil, err
	}
	return Unflatten(flat), nil
}

func text(s string, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}
