package promptdoc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

const xmlItem = "item"

// ToXML renders nodes as an XML document wrapped in a single root element
// ("prompt" unless RootElement says otherwise). Text content is escaped.
func ToXML(nodes []Node, opts ...Option) (string, error) {
	return XMLFromJSON(ToJSON(nodes), opts...)
}

// XMLFromJSON renders a JSON-like object as XML. Each key becomes an
// element; array elements become <item> elements. Keys that are not valid
// XML names are rewritten and reported as KeyRenamed.
func XMLFromJSON(v any, opts ...Option) (string, error) {
	entries, ok := objectEntries(v)
	if !ok {
		return "", fmt.Errorf("%w: root must be an object, got %s", ErrMalformedInput, jsonKind(v))
	}
	cfg := newConfig(opts)
	w := cfg.recorder()

	type task struct {
		depth int
		name  string
		value any
		path  string
		close bool
	}
	var (
		b     strings.Builder
		stack = []task{{name: xmlName(cfg.rootElement, "", w), value: entries}}
	)
	line := func(depth int, s string) {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(s)
	}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if t.close {
			line(t.depth, "</"+t.name+">")
			continue
		}

		var children []task
		if d, ok := objectEntries(t.value); ok {
			if t.depth > 0 && len(d) > 0 && allItems(d) {
				w.add(ItemAmbiguous, t.path, 0, "object holding only <item> members reads back as an array")
			}
			for _, e := range d {
				p := joinPath(t.path, e.Key)
				children = append(children, task{depth: t.depth + 1, name: xmlName(e.Key, p, w), value: e.Value, path: p})
			}
		} else if elems, ok := arrayElements(t.value); ok {
			for i, e := range elems {
				children = append(children, task{depth: t.depth + 1, name: xmlItem, value: e, path: fmt.Sprintf("%s[%d]", t.path, i)})
			}
		} else {
			var text string
			if t.value != nil {
				text, _ = stringify(t.value)
			}
			line(t.depth, "<"+t.name+">"+escapeXML(xmlText(text, t.path, w))+"</"+t.name+">")
			continue
		}

		if len(children) == 0 {
			line(t.depth, "<"+t.name+"></"+t.name+">")
			continue
		}
		line(t.depth, "<"+t.name+">")
		stack = append(stack, task{depth: t.depth, name: t.name, close: true})
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	if err := w.finish(); err != nil {
		return "", err
	}
	return b.String(), nil
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
	"\r", "&#xD;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// xmlText replaces runes that XML 1.0 does not allow in character data
// with U+FFFD.
func xmlText(s, path string, w *warnings) string {
	if strings.IndexFunc(s, isXMLCharInvalid) < 0 {
		return s
	}
	var n int
	out := strings.Map(func(r rune) rune {
		if isXMLCharInvalid(r) {
			n++
			return unicode.ReplacementChar
		}
		return r
	}, s)
	w.add(CharReplaced, path, 0, fmt.Sprintf("%d characters not allowed in XML replaced by U+FFFD", n))
	return out
}

func isXMLCharInvalid(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20:
		return true
	case r >= 0xD800 && r <= 0xDFFF:
		return true
	case r == 0xFFFE || r == 0xFFFF:
		return true
	}
	return false
}

// xmlName maps key to a valid XML element name.
func xmlName(key, path string, w *warnings) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		case i == 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
			b.WriteByte('_')
		default:
			r = '_'
		}
		b.WriteRune(r)
	}
	name := b.String()
	if name == "" {
		name = "_"
	}
	if name != key {
		w.add(KeyRenamed, path, 0, fmt.Sprintf("%q written as <%s>", key, name))
	}
	return name
}

// XMLToJSON parses an XML document into an ordered JSON-like object. The
// root element becomes the returned object. Below it, an element holding
// only text is a string, an element whose children are all <item> is an
// array and any other element is an object. An object written with only
// "item" members therefore reads back as an array; XMLFromJSON reports
// those as ItemAmbiguous.
func XMLToJSON(data []byte) (Document, error) {
	type elem struct {
		name     string
		text     strings.Builder
		children []Entry
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		stack []*elem
		root  Document
		found bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: decode xml: %w", ErrMalformedInput, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && found {
				return nil, fmt.Errorf("%w: decode xml: multiple root elements", ErrMalformedInput)
			}
			stack = append(stack, &elem{name: t.Name.Local})
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		case xml.EndElement:
			e := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				root = xmlObject(e.children)
				found = true
				continue
			}
			var v any
			switch {
			case len(e.children) == 0:
				v = e.text.String()
			case allItems(e.children):
				v = xmlArray(e.children)
			default:
				v = xmlObject(e.children)
			}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, Entry{Key: e.name, Value: v})
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: decode xml: no root element", ErrMalformedInput)
	}
	return root, nil
}

func allItems(children []Entry) bool {
	for _, c := range children {
		if c.Key != xmlItem {
			return false
		}
	}
	return true
}

func xmlObject(children []Entry) Document {
	d := make(Document, 0, len(children))
	for _, c := range children {
		d.Set(c.Key, c.Value)
	}
	return d
}

// xmlArray returns []string when every item is text and Array otherwise.
func xmlArray(children []Entry) any {
	strs := make([]string, 0, len(children))
	for _, c := range children {
		s, ok := c.Value.(string)
		if !ok {
			arr := make(Array, len(children))
			for i, c := range children {
				arr[i] = c.Value
			}
			return arr
		}
		strs = append(strs, s)
	}
	return strs
}
