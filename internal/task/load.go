package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a task file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat is returned for file extensions other than .json,
// .yaml and .yml.
var ErrUnsupportedFormat = errors.New("unsupported task file format")

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Load reads a task file, choosing the decoder by extension.
func Load(path string) (*Dataset, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading task file: %w", err)
	}
	items, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return NewDataset(items), nil
}

// fileItem accepts both the startDate/endDate keys and the shorter
// start/end aliases.
type fileItem struct {
	ID           int64   `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	StartDate    *Date   `json:"startDate" yaml:"startDate"`
	EndDate      *Date   `json:"endDate" yaml:"endDate"`
	Start        *Date   `json:"start" yaml:"start"`
	End          *Date   `json:"end" yaml:"end"`
	Progress     float64 `json:"progress" yaml:"progress"`
	Dependencies []int64 `json:"dependencies" yaml:"dependencies"`
}

func (f fileItem) item(pos int) (Item, error) {
	it := Item{
		ID:           f.ID,
		Name:         f.Name,
		Progress:     min(max(f.Progress, 0), 100),
		Dependencies: f.Dependencies,
	}
	if it.Dependencies == nil {
		it.Dependencies = []int64{}
	}
	switch {
	case f.StartDate != nil:
		it.Start = *f.StartDate
	case f.Start != nil:
		it.Start = *f.Start
	default:
		return Item{}, fmt.Errorf("item %d (id %d): missing start date", pos, f.ID)
	}
	switch {
	case f.EndDate != nil:
		it.End = *f.EndDate
	case f.End != nil:
		it.End = *f.End
	default:
		it.End = it.Start
	}
	return it, nil
}

// Decode reads a list of items.
func Decode(r io.Reader, format Format) ([]Item, error) {
	var raw []fileItem
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&raw); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	items := make([]Item, 0, len(raw))
	for i, f := range raw {
		it, err := f.item(i)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// Encode writes items in format.
func Encode(w io.Writer, items []Item, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(items); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
