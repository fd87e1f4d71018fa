package output

import "io"

// Result represents a command result that can be output in multiple formats
type Result interface {
	// Text writes the text representation
	Text(w io.Writer) error
	// JSON returns the JSON-serializable data
	JSON() any
}

// Output writes a Result in the appropriate format
func (f *Formatter) Output(r Result) error {
	if f.IsJSON() {
		return f.JSON(r.JSON())
	}
	return r.Text(f.writer)
}

// OutputData outputs either JSON or calls the text function
func (f *Formatter) OutputData(jsonData any, textFn func(w io.Writer) error) error {
	if f.IsJSON() {
		return f.JSON(jsonData)
	}
	return textFn(f.writer)
}
