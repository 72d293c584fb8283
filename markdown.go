package promptdoc

import (
	"fmt"
	"strings"
)

// ToMarkdown renders nodes as Markdown: one heading per key, nested objects
// one heading level deeper (capped at 6), scalars as paragraphs and arrays
// as bullet lists.
func ToMarkdown(nodes []Node, opts ...Option) (string, error) {
	return MarkdownFromJSON(ToJSON(nodes), opts...)
}

// MarkdownFromJSON renders a JSON-like object as Markdown. Markdown has no
// syntax for nested objects inside lists, so an object or array found in an
// array is written as a fenced json block instead.
//
// Line breaks in keys become spaces. Text lines that Markdown would read as
// a heading, list, quote or fence are backslash-escaped.
func MarkdownFromJSON(v any, opts ...Option) (string, error) {
	entries, ok := objectEntries(v)
	if !ok {
		return "", fmt.Errorf("%w: root must be an object, got %s", ErrMalformedInput, jsonKind(v))
	}
	cfg := newConfig(opts)
	w := cfg.recorder()

	type task struct {
		level int
		key   string
		value any
		path  string
	}
	var (
		blocks []string
		stack  []task
	)
	push := func(level int, d Document, prefix string) {
		for i := len(d) - 1; i >= 0; i-- {
			stack = append(stack, task{level: level, key: d[i].Key, value: d[i].Value, path: joinPath(prefix, d[i].Key)})
		}
	}
	push(cfg.headingLevel, entries, "")

	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		blocks = append(blocks, strings.Repeat("#", min(t.level, 6))+" "+headingText(t.key, t.path, w))

		if d, ok := objectEntries(t.value); ok {
			push(t.level+1, d, t.path)
			continue
		}
		if elems, ok := arrayElements(t.value); ok {
			var bullets []string
			flush := func() {
				if len(bullets) > 0 {
					blocks = append(blocks, strings.Join(bullets, "\n"))
					bullets = nil
				}
			}
			for _, e := range elems {
				if isScalar(e) {
					s, _ := stringify(e)
					bullets = append(bullets, "- "+strings.ReplaceAll(markdownText(s), "\n", "\n  "))
					continue
				}
				flush()
				out, err := EncodeJSON(e, true)
				if err != nil {
					return "", fmt.Errorf("render %q element: %w", t.key, err)
				}
				blocks = append(blocks, "```json\n"+string(out)+"\n```")
			}
			flush()
			continue
		}
		if t.value == nil {
			continue
		}
		s, _ := stringify(t.value)
		if s != "" {
			blocks = append(blocks, markdownText(s))
		}
	}
	if err := w.finish(); err != nil {
		return "", err
	}
	return strings.Join(blocks, "\n\n"), nil
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func headingText(key, path string, w *warnings) string {
	s := lineBreaks.Replace(key)
	if s != key {
		w.add(KeyRenamed, path, 0, "line breaks in heading replaced by spaces")
	}
	return s
}

// markdownText escapes every line that would otherwise open a Markdown
// block.
func markdownText(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, l := range lines {
		if at := blockMarker(l); at >= 0 {
			lines[i] = l[:at] + `\` + l[at:]
		}
	}
	return strings.Join(lines, "\n")
}

// blockMarker returns the index of the character that makes l open a
// heading, quote, fence or list item, or -1.
func blockMarker(l string) int {
	indent := len(l) - len(strings.TrimLeft(l, " "))
	body := l[indent:]
	spaced := func(i int) bool {
		return i == len(body) || body[i] == ' ' || body[i] == '\t'
	}
	switch {
	case body == "":
		return -1
	case body[0] == '#' || body[0] == '>':
		return indent
	case strings.HasPrefix(body, "```") || strings.HasPrefix(body, "~~~"):
		return indent
	case body[0] == '-' || body[0] == '*' || body[0] == '+':
		if spaced(1) {
			return indent
		}
		return -1
	}
	n := len(body) - len(strings.TrimLeft(body, "0123456789"))
	if n > 0 && n < len(body) && (body[n] == '.' || body[n] == ')') && spaced(n+1) {
		return indent + n
	}
	return -1
}
