package promptdoc

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedInput reports input that cannot be converted at all, such
	// as a JSON root that is not an object.
	ErrMalformedInput = errors.New("malformed input")

	// ErrLossyConversion is matched by the error returned in strict mode when
	// a conversion could not preserve its input exactly.
	ErrLossyConversion = errors.New("lossy conversion")

	// ErrUnknownFormat is returned by a Registry for unregistered names.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrUnsupported is returned when a format lacks the requested direction.
	ErrUnsupported = errors.New("unsupported")
)

// WarningKind classifies a lossy event.
type WarningKind int

const (
	ScalarStringified WarningKind = iota
	NullValue
	ArrayUnpacked
	ArraySkipped
	LineSkipped
	ArrayCountMismatch
	FlatObjectDropped
	KeyRenamed
	CharReplaced
	ItemAmbiguous
)

var warningKindNames = [...]string{
	ScalarStringified:  "scalar stringified",
	NullValue:          "null value",
	ArrayUnpacked:      "array unpacked",
	ArraySkipped:       "array skipped",
	LineSkipped:        "line skipped",
	ArrayCountMismatch: "array count mismatch",
	FlatObjectDropped:  "flat object dropped",
	KeyRenamed:         "key renamed",
	CharReplaced:       "character replaced",
	ItemAmbiguous:      "item key ambiguous",
}

func (k WarningKind) String() string {
	if k >= 0 && int(k) < len(warningKindNames) {
		return warningKindNames[k]
	}
	return fmt.Sprintf("WarningKind(%d)", int(k))
}

// Warning describes one lossy event. Path is the dotted key path of the
// affected value; Line is the 1-based source line for text parsers and zero
// otherwise.
type Warning struct {
	Kind   WarningKind
	Path   string
	Line   int
	Detail string
}

func (w Warning) String() string {
	var b strings.Builder
	b.WriteString(w.Kind.String())
	if w.Line > 0 {
		fmt.Fprintf(&b, " at line %d", w.Line)
	}
	if w.Path != "" {
		fmt.Fprintf(&b, " (%s)", w.Path)
	}
	if w.Detail != "" {
		b.WriteString(": ")
		b.WriteString(w.Detail)
	}
	return b.String()
}

// LossyError is returned in strict mode when at least one warning was
// recorded during a conversion.
type LossyError struct {
	Warnings []Warning
}

func (e *LossyError) Error() string {
	if len(e.Warnings) == 1 {
		return fmt.Sprintf("lossy conversion: %s", e.Warnings[0])
	}
	return fmt.Sprintf("lossy conversion: %s (and %d more)", e.Warnings[0], len(e.Warnings)-1)
}

func (e *LossyError) Unwrap() error { return ErrLossyConversion }
