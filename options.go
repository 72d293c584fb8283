package promptdoc

import (
	"context"
	"log/slog"
)

// ArrayPolicy controls how FromJSON treats arrays that contain objects or
// nested arrays, which the node tree cannot model directly.
type ArrayPolicy int

const (
	// UnpackArrays re-keys each element as "<key>[<index>]".
	UnpackArrays ArrayPolicy = iota
	// SkipArrays drops the whole entry.
	SkipArrays
)

const (
	defaultHeadingLevel = 2
	defaultRootElement  = "prompt"
)

// Option configures a conversion.
type Option func(*config)

type config struct {
	strict       bool
	logger       *slog.Logger
	sink         *[]Warning
	headingLevel int
	rootElement  string
	arrayPolicy  ArrayPolicy
}

// Strict turns lossy events into a *LossyError instead of silently
// degrading.
func Strict(v bool) Option {
	return func(c *config) { c.strict = v }
}

// WithLogger logs every lossy event at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// CollectWarnings appends every lossy event to dst.
func CollectWarnings(dst *[]Warning) Option {
	return func(c *config) { c.sink = dst }
}

// HeadingLevel sets the Markdown heading level used for top-level keys. It
// is clamped to 1..6.
func HeadingLevel(n int) Option {
	return func(c *config) { c.headingLevel = min(max(n, 1), 6) }
}

// RootElement sets the XML root element name.
func RootElement(name string) Option {
	return func(c *config) {
		if name != "" {
			c.rootElement = name
		}
	}
}

// ArrayObjects sets the policy for arrays of objects in FromJSON.
func ArrayObjects(p ArrayPolicy) Option {
	return func(c *config) { c.arrayPolicy = p }
}

func newConfig(opts []Option) *config {
	c := &config{
		logger:       slog.New(slog.DiscardHandler),
		headingLevel: defaultHeadingLevel,
		rootElement:  defaultRootElement,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// warnings accumulates the lossy events of a single conversion.
type warnings struct {
	cfg  *config
	list []Warning
}

func (c *config) recorder() *warnings {
	return &warnings{cfg: c}
}

func (w *warnings) add(kind WarningKind, path string, line int, detail string) {
	wr := Warning{Kind: kind, Path: path, Line: line, Detail: detail}
	w.list = append(w.list, wr)
	w.cfg.logger.LogAttrs(context.Background(), slog.LevelDebug, "lossy conversion",
		slog.String("kind", kind.String()),
		slog.String("path", path),
		slog.Int("line", line),
		slog.String("detail", detail),
	)
}

// finish hands the recorded warnings to the sink and, in strict mode,
// converts them into an error.
func (w *warnings) finish() error {
	if w.cfg.sink != nil {
		*w.cfg.sink = append(*w.cfg.sink, w.list...)
	}
	if w.cfg.strict && len(w.list) > 0 {
		return &LossyError{Warnings: w.list}
	}
	return nil
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
