package output

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// JSON outputs data as JSON to the formatter's writer
func (f *Formatter) JSON(v any) error {
	return WriteJSON(f.writer, v, f.pretty)
}

// WriteJSON writes data as JSON to the given writer
func WriteJSON(w io.Writer, v any, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

// PrintJSON writes data as JSON to stdout
func PrintJSON(v any) error {
	return WriteJSON(os.Stdout, v, true)
}

// MarshalJSON marshals data to JSON bytes
func MarshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// Timestamp returns the current UTC time for JSON output
func Timestamp() time.Time {
	return time.Now().UTC()
}
