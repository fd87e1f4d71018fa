// Package output renders command results as text or JSON and maps
// failures onto stable error codes.
package output

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Format selects text or JSON output.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

// Formatter writes results to one writer in one format.
type Formatter struct {
	format Format
	writer io.Writer
	pretty bool
}

// Option configures a Formatter.
type Option func(*Formatter)

// New returns a text Formatter on stdout, adjusted by opts.
func New(opts ...Option) *Formatter {
	f := &Formatter{writer: os.Stdout, pretty: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithFormat(format Format) Option { return func(f *Formatter) { f.format = format } }

func WithWriter(w io.Writer) Option { return func(f *Formatter) { f.writer = w } }

// WithPretty toggles indented JSON.
func WithPretty(pretty bool) Option { return func(f *Formatter) { f.pretty = pretty } }

// WithJSON is WithFormat(FormatJSON) when enabled.
func WithJSON(enabled bool) Option {
	if enabled {
		return WithFormat(FormatJSON)
	}
	return WithFormat(FormatText)
}

func (f *Formatter) IsJSON() bool { return f.format == FormatJSON }

// DetectFormat resolves --json, then GANTT_OUTPUT_FORMAT. A pipe alone
// never selects JSON since `render -o -` streams PNG bytes through one.
func DetectFormat(jsonFlag bool) Format {
	if jsonFlag || strings.EqualFold(strings.TrimSpace(os.Getenv("GANTT_OUTPUT_FORMAT")), "json") {
		return FormatJSON
	}
	return FormatText
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// useColor reports whether w is a terminal and NO_COLOR is unset.
func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f) && os.Getenv("NO_COLOR") == ""
}
