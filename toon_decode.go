package promptdoc

import (
	"fmt"
	"strconv"
	"strings"
)

// FromTOON parses TOON text into an ordered JSON-like object. Leaf values
// are always strings and arrays are []string.
//
// The parser is permissive: lines that do not fit the grammar are skipped
// and array length headers are not enforced. Both are reported as warnings,
// so FromTOON only fails in strict mode.
func FromTOON(text string, opts ...Option) (Document, error) {
	w := newConfig(opts).recorder()
	root := parseTOONDocument(text, w)
	if err := w.finish(); err != nil {
		return nil, err
	}
	return root, nil
}

// ParseTOON parses TOON text straight into nodes.
func ParseTOON(text string, opts ...Option) ([]Node, error) {
	d, err := FromTOON(text, opts...)
	if err != nil {
		return nil, err
	}
	return FromJSON(d, opts...)
}

type toonFrame struct {
	obj    *Document
	indent int
	// parent and key locate obj in the enclosing object; the finished
	// object is written back there when the frame is popped.
	parent *Document
	key    string
}

func (f toonFrame) close() {
	if f.parent != nil {
		f.parent.Set(f.key, *f.obj)
	}
}

func parseTOONDocument(text string, w *warnings) Document {
	root := Document{}
	stack := []toonFrame{{obj: &root, indent: -1}}

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSuffix(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln, ok := scanTOONLine(line)
		if !ok {
			w.add(LineSkipped, "", lineNo, fmt.Sprintf("no key/value separator in %q", strings.TrimSpace(line)))
			continue
		}
		for len(stack) > 1 && stack[len(stack)-1].indent >= ln.indent {
			stack[len(stack)-1].close()
			stack = stack[:len(stack)-1]
		}
		top := stack[len(stack)-1]

		switch {
		case ln.count >= 0:
			values := splitTOONValues(ln.value)
			if len(values) != ln.count {
				w.add(ArrayCountMismatch, ln.key, lineNo, fmt.Sprintf("header declares %d, found %d", ln.count, len(values)))
			}
			top.obj.Set(ln.key, values)
		case ln.value == "":
			child := &Document{}
			top.obj.Set(ln.key, *child)
			stack = append(stack, toonFrame{obj: child, indent: ln.indent, parent: top.obj, key: ln.key})
		default:
			top.obj.Set(ln.key, unquoteTOON(ln.value))
		}
	}
	for len(stack) > 1 {
		stack[len(stack)-1].close()
		stack = stack[:len(stack)-1]
	}
	return root
}

// toonLine is one line split as ^(\s*)(.*?)(?:\[(\d+)\])?:\s*(.*)$.
type toonLine struct {
	indent int
	key    string
	count  int // -1 when the line has no [N] header
	value  string
}

func scanTOONLine(line string) (toonLine, bool) {
	ln := toonLine{count: -1}
	for ln.indent < len(line) && isTOONSpace(line[ln.indent]) {
		ln.indent++
	}
	rest := line[ln.indent:]

	var head string
	if strings.HasPrefix(rest, `"`) {
		end := closingQuote(rest)
		if end < 0 {
			return ln, false
		}
		ln.key = unescapeTOON(rest[1:end])
		rest = rest[end+1:]
		colon := strings.IndexByte(rest, ':')
		if colon < 0 {
			return ln, false
		}
		head, rest = rest[:colon], rest[colon+1:]
		if head != "" {
			n, ok := arrayHeader(head)
			if !ok || n.prefix != "" {
				return ln, false
			}
			ln.count = n.count
		}
	} else {
		colon := strings.IndexByte(rest, ':')
		if colon < 0 {
			return ln, false
		}
		head, rest = rest[:colon], rest[colon+1:]
		ln.key = head
		if n, ok := arrayHeader(head); ok {
			ln.key, ln.count = n.prefix, n.count
		}
	}
	ln.value = strings.TrimLeft(rest, " \t\v\f")
	return ln, true
}

type header struct {
	prefix string
	count  int
}

// arrayHeader splits "key[N]" into key and N.
func arrayHeader(s string) (header, bool) {
	if !strings.HasSuffix(s, "]") {
		return header{}, false
	}
	open := strings.LastIndexByte(s, '[')
	if open < 0 {
		return header{}, false
	}
	digits := s[open+1 : len(s)-1]
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return header{}, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return header{}, false
	}
	return header{prefix: s[:open], count: n}, true
}

func isTOONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f'
}

// closingQuote returns the index of the quote closing the string that opens
// at s[0], or -1.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

// unquoteTOON strips the surrounding quotes of a scalar value and resolves
// its escapes. Unquoted values are returned verbatim.
func unquoteTOON(s string) string {
	if len(s) >= 2 && s[0] == '"' && closingQuote(s) == len(s)-1 {
		return unescapeTOON(s[1 : len(s)-1])
	}
	return s
}

func unescapeTOON(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		b.WriteString(toonEscape(s[i]))
	}
	return b.String()
}

func toonEscape(c byte) string {
	switch c {
	case 'n':
		return "\n"
	case 'r':
		return "\r"
	case 't':
		return "\t"
	case '"', '\\':
		return string(c)
	}
	return `\` + string(c)
}

// splitTOONValues splits the value list of an array line. Commas inside a
// double-quoted span do not split; unquoted fields are trimmed.
func splitTOONValues(s string) []string {
	values := []string{}
	if strings.TrimSpace(s) == "" {
		return values
	}
	var (
		cur    strings.Builder
		inQ    bool
		quoted bool
	)
	push := func() {
		v := cur.String()
		if !quoted {
			v = strings.TrimSpace(v)
		}
		values = append(values, v)
		cur.Reset()
		quoted = false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQ {
			switch {
			case c == '\\' && i+1 < len(s):
				i++
				cur.WriteString(toonEscape(s[i]))
			case c == '"':
				inQ = false
			default:
				cur.WriteByte(c)
			}
			continue
		}
		switch c {
		case '"':
			if !quoted && strings.TrimSpace(cur.String()) == "" {
				cur.Reset()
			}
			inQ, quoted = true, true
		case ',':
			push()
		default:
			if !quoted || c != ' ' {
				cur.WriteByte(c)
			}
		}
	}
	push()
	return values
}
