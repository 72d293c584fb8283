package promptdoc

import (
	"fmt"
	"sync"

	"github.com/go-json-experiment/json"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FlatSchema is the JSON Schema of the flat interchange format: an array of
// {"key", "type", "value" | "values"} objects.
const FlatSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["key", "type"],
    "additionalProperties": false,
    "properties": {
      "key": {"type": "string", "minLength": 1},
      "type": {"enum": ["string", "stringArray"]},
      "value": {"type": "string"},
      "values": {"type": "array", "items": {"type": "string"}}
    },
    "if": {"properties": {"type": {"const": "string"}}},
    "then": {"not": {"required": ["values"]}},
    "else": {"not": {"required": ["value"]}}
  }
}`

var flatSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("flat.json", FlatSchema)
})

// ParseFlat decodes and validates a JSON array of flat nodes. Input that
// does not match FlatSchema fails with ErrMalformedInput.
func ParseFlat(data []byte) ([]FlatNode, error) {
	schema, err := flatSchema()
	if err != nil {
		return nil, fmt.Errorf("compile flat schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode flat nodes: %w", ErrMalformedInput, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: flat nodes do not match schema: %w", ErrMalformedInput, err)
	}
	var flat []FlatNode
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("%w: decode flat nodes: %w", ErrMalformedInput, err)
	}
	return flat, nil
}

// EncodeFlat renders flat nodes as a JSON array. String arrays always carry
// a "values" member, even when empty.
func EncodeFlat(flat []FlatNode) ([]byte, error) {
	type wire struct {
		Key    string    `json:"key"`
		Type   FlatType  `json:"type"`
		Value  *string   `json:"value,omitzero"`
		Values *[]string `json:"values,omitzero"`
	}
	out := make([]wire, len(flat))
	for i, f := range flat {
		out[i] = wire{Key: f.Key, Type: f.Type}
		if f.Type == FlatStringArray {
			values := f.Values
			if values == nil {
				values = []string{}
			}
			out[i].Values = &values
		} else {
			value := f.Value
			out[i].Value = &value
		}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode flat nodes: %w", err)
	}
	return b, nil
}
