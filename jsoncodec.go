package promptdoc

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Unmarshalers returns the unmarshalers that decode JSON objects as Document
// (preserving member order) and JSON arrays as Array. They apply when the
// target is *any, *Document or *Array.
func Unmarshalers() *json.Unmarshalers {
	return json.JoinUnmarshalers(
		unmarshalValue(),
		unmarshalDocument(),
		unmarshalArray(),
	)
}

// Marshalers returns the marshalers that encode Document as a JSON object in
// entry order.
func Marshalers() *json.Marshalers {
	return json.JoinMarshalers(
		json.MarshalToFunc(marshalDocument),
		json.MarshalToFunc(func(enc *jsontext.Encoder, d *Document) error {
			return marshalDocument(enc, *d)
		}),
	)
}

// DecodeJSON parses JSON text into ordered values: objects become Document,
// arrays become Array, numbers float64.
func DecodeJSON(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v, json.WithUnmarshalers(Unmarshalers())); err != nil {
		return nil, fmt.Errorf("%w: decode json: %w", ErrMalformedInput, err)
	}
	return v, nil
}

// EncodeJSON renders v as JSON, keeping Document order. Plain maps are
// emitted with sorted keys.
func EncodeJSON(v any, indent bool) ([]byte, error) {
	opts := []json.Options{
		json.WithMarshalers(Marshalers()),
		json.Deterministic(true),
	}
	if indent {
		opts = append(opts, jsontext.WithIndent("  "))
	}
	out, err := json.Marshal(v, opts...)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return out, nil
}

func marshalDocument(enc *jsontext.Encoder, d Document) error {
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	for _, e := range d {
		if err := enc.WriteToken(jsontext.String(e.Key)); err != nil {
			return fmt.Errorf("write key %q: %w", e.Key, err)
		}
		if err := json.MarshalEncode(enc, e.Value); err != nil {
			return fmt.Errorf("write value for key %q: %w", e.Key, err)
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

func unmarshalValue() *json.Unmarshalers {
	return json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *any) error {
		switch dec.PeekKind() {
		case '{':
			d, err := decodeObject(dec)
			if err != nil {
				return err
			}
			*v = d
			return nil
		case '[':
			a, err := decodeArray(dec)
			if err != nil {
				return err
			}
			*v = a
			return nil
		default:
			return json.SkipFunc
		}
	})
}

func unmarshalDocument() *json.Unmarshalers {
	return json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *Document) error {
		if dec.PeekKind() != '{' {
			return json.SkipFunc
		}
		d, err := decodeObject(dec)
		if err != nil {
			return err
		}
		*v = d
		return nil
	})
}

func unmarshalArray() *json.Unmarshalers {
	return json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *Array) error {
		if dec.PeekKind() != '[' {
			return json.SkipFunc
		}
		a, err := decodeArray(dec)
		if err != nil {
			return err
		}
		*v = a
		return nil
	})
}

// decodeObject decodes a JSON object into a Document. Duplicate member
// names are rejected by the decoder before they reach us.
func decodeObject(dec *jsontext.Decoder) (Document, error) {
	if _, err := dec.ReadToken(); err != nil { // '{'
		return nil, fmt.Errorf("read object open: %w", err)
	}
	res := Document{}
	for dec.PeekKind() != '}' {
		var k string
		if err := json.UnmarshalDecode(dec, &k); err != nil {
			return nil, fmt.Errorf("read object key: %w", err)
		}
		var v any
		if err := json.UnmarshalDecode(dec, &v); err != nil {
			return nil, fmt.Errorf("read value for key %q: %w", k, err)
		}
		res = append(res, Entry{Key: k, Value: v})
	}
	if _, err := dec.ReadToken(); err != nil { // '}'
		return nil, fmt.Errorf("read object close: %w", err)
	}
	return res, nil
}

func decodeArray(dec *jsontext.Decoder) (Array, error) {
	if _, err := dec.ReadToken(); err != nil { // '['
		return nil, fmt.Errorf("read array open: %w", err)
	}
	arr := Array{}
	for dec.PeekKind() != ']' {
		var elem any
		if err := json.UnmarshalDecode(dec, &elem); err != nil {
			return nil, fmt.Errorf("read array element: %w", err)
		}
		arr = append(arr, elem)
	}
	if _, err := dec.ReadToken(); err != nil { // ']'
		return nil, fmt.Errorf("read array close: %w", err)
	}
	return arr, nil
}
