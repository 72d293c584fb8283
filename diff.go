package promptdoc

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Diff compares the TOON renderings of two trees line by line. Every line of
// the result starts with "  " (unchanged), "- " (only in before) or "+ "
// (only in after).
func Diff(before, after []Node) (string, error) {
	from, err := ToTOON(before)
	if err != nil {
		return "", err
	}
	to, err := ToTOON(after)
	if err != nil {
		return "", err
	}
	return diffLines(from, to), nil
}

func diffLines(from, to string) string {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(terminate(from), terminate(to))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []string
	for _, d := range diffs {
		mark := "  "
		switch d.Type {
		case diffpatch.DiffDelete:
			mark = "- "
		case diffpatch.DiffInsert:
			mark = "+ "
		}
		for _, l := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			out = append(out, mark+l)
		}
	}
	return strings.Join(out, "\n")
}

// terminate ends s with a newline so the last line compares like the others.
func terminate(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
