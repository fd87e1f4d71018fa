// Package task models the items drawn as bars and the dependency links
// between them, and loads them from JSON or YAML files.
package task

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DateLayout is the on-disk date format.
const DateLayout = "2006-01-02"

// Date is a calendar day serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate returns the Date for y-m-d in UTC.
func NewDate(y int, m time.Month, d int) Date {
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses YYYY-MM-DD, also accepting a full RFC 3339 timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return Date{t.UTC()}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	if node.Value == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = parsed
	return nil
}

// Item is one row of the chart.
type Item struct {
	ID           int64   `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	Start        Date    `json:"startDate" yaml:"start"`
	End          Date    `json:"endDate" yaml:"end"`
	Progress     float64 `json:"progress,omitempty" yaml:"progress,omitempty"`
	Dependencies []int64 `json:"dependencies" yaml:"dependencies,omitempty"`
}

// Days is the item duration in days.
func (it Item) Days() float64 {
	return it.End.Sub(it.Start.Time).Hours() / 24
}

// Dataset is an ordered list of items with id lookups. Row i of the chart
// shows Items[i].
type Dataset struct {
	Items []Item

	index      map[int64]int
	dependents map[int64][]int64
}

// NewDataset indexes items. Duplicate ids keep their first occurrence in
// the index.
func NewDataset(items []Item) *Dataset {
	d := &Dataset{
		Items:      items,
		index:      make(map[int64]int, len(items)),
		dependents: make(map[int64][]int64),
	}
	for i, it := range items {
		if _, dup := d.index[it.ID]; !dup {
			d.index[it.ID] = i
		}
		for _, dep := range it.Dependencies {
			d.dependents[dep] = append(d.dependents[dep], it.ID)
		}
	}
	return d
}

// Len is the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Items)
}

// Row returns the row index of id.
func (d *Dataset) Row(id int64) (int, bool) {
	if d == nil {
		return 0, false
	}
	i, ok := d.index[id]
	return i, ok
}

// ByID returns the item with id.
func (d *Dataset) ByID(id int64) (Item, bool) {
	i, ok := d.Row(id)
	if !ok {
		return Item{}, false
	}
	return d.Items[i], true
}

// Dependents returns the ids of items that depend on id.
func (d *Dataset) Dependents(id int64) []int64 {
	if d == nil {
		return nil
	}
	return d.dependents[id]
}

// Span returns the earliest start and latest end across all items.
func (d *Dataset) Span() (start, end time.Time, ok bool) {
	if d.Len() == 0 {
		return time.Time{}, time.Time{}, false
	}
	start, end = d.Items[0].Start.Time, d.Items[0].End.Time
	for _, it := range d.Items[1:] {
		if it.Start.Before(start) {
			start = it.Start.Time
		}
		if it.End.After(end) {
			end = it.End.Time
		}
	}
	return start, end, true
}

// MissingDependencies returns, sorted, every dependency id that names no
// item. Rendering skips these links.
func (d *Dataset) MissingDependencies() []int64 {
	seen := make(map[int64]bool)
	var missing []int64
	for _, it := range d.Items {
		for _, dep := range it.Dependencies {
			if _, ok := d.index[dep]; !ok && !seen[dep] {
				seen[dep] = true
				missing = append(missing, dep)
			}
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}
