package promptdoc

import (
	"strconv"
	"strings"
)

const toonIndent = "  "

// ToTOON serializes nodes as TOON:
//
//	key: value
//	key[N]: v1,v2,...,vN
//	key:
//	  child: value
//
// Lines are joined with a single newline and there is no trailing newline.
// Values and keys that would not survive a parse are double-quoted.
func ToTOON(nodes []Node, _ ...Option) (string, error) {
	type frame struct {
		nodes []Node
		depth int
	}
	var (
		b     strings.Builder
		stack = []frame{{nodes: nodes}}
		first = true
	)
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if len(top.nodes) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		n := top.nodes[0]
		top.nodes = top.nodes[1:]
		depth := top.depth

		if !first {
			b.WriteByte('\n')
		}
		first = false
		b.WriteString(strings.Repeat(toonIndent, depth))
		b.WriteString(toonKey(n.NodeKey()))

		switch v := n.(type) {
		case ObjectNode:
			b.WriteByte(':')
			if len(v.Children) > 0 {
				stack = append(stack, frame{nodes: v.Children, depth: depth + 1})
			}
		case StringNode:
			b.WriteString(": ")
			b.WriteString(toonValue(v.Value))
		case StringArrayNode:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(len(v.Values)))
			b.WriteString("]:")
			for i, s := range v.Values {
				if i == 0 {
					b.WriteByte(' ')
				} else {
					b.WriteByte(',')
				}
				b.WriteString(toonValue(s))
			}
		}
	}
	return b.String(), nil
}

func toonValue(s string) string {
	if s == "" || strings.ContainsAny(s, ",\"\n\r") || hasOuterSpace(s) {
		return toonQuote(s)
	}
	return s
}

func toonKey(s string) string {
	if s == "" || strings.ContainsAny(s, ":[\"\n\r") || hasOuterSpace(s) {
		return toonQuote(s)
	}
	return s
}

func hasOuterSpace(s string) bool {
	return s != strings.TrimSpace(s)
}

var toonEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
)

func toonQuote(s string) string {
	return `"` + toonEscaper.Replace(s) + `"`
}
