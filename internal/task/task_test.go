package task

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2025-01-28", time.Date(2025, time.January, 28, 0, 0, 0, 0, time.UTC), false},
		{" 2025-02-03 ", time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC), false},
		{"2025-02-03T10:00:00Z", time.Date(2025, time.February, 3, 10, 0, 0, 0, time.UTC), false},
		{"28/01/2025", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

const sampleJSON = `[
  {"id": 1, "name": "Excavation", "startDate": "2025-01-06", "endDate": "2025-01-20", "dependencies": []},
  {"id": 2, "name": "Foundation Pour", "start": "2025-01-21", "end": "2025-02-04", "progress": 40, "dependencies": [1]},
  {"id": 3, "name": "Framing", "startDate": "2025-02-05", "endDate": "2025-03-05", "dependencies": [2, 99]}
]`

func TestDecodeJSON(t *testing.T) {
	items, err := Decode(strings.NewReader(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}
	if got := items[1].Start.String(); got != "2025-01-21" {
		t.Errorf("alias start = %q, want 2025-01-21", got)
	}
	if items[1].Progress != 40 {
		t.Errorf("Progress = %v, want 40", items[1].Progress)
	}
	if items[0].Days() != 14 {
		t.Errorf("Days() = %v, want 14", items[0].Days())
	}
}

func TestDecodeMissingStart(t *testing.T) {
	_, err := Decode(strings.NewReader(`[{"id": 7, "name": "x"}]`), FormatJSON)
	if err == nil || !strings.Contains(err.Error(), "id 7") {
		t.Errorf("Decode() error = %v, want missing start for id 7", err)
	}
}

func TestEncodeDecodeYAML(t *testing.T) {
	items, err := Decode(strings.NewReader(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, items, FormatYAML); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.Contains(buf.String(), "start: \"2025-01-06\"") && !strings.Contains(buf.String(), "start: 2025-01-06") {
		t.Errorf("yaml output missing start date:\n%s", buf.String())
	}

	back, err := Decode(&buf, FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !reflect.DeepEqual(items, back) {
		t.Errorf("yaml round trip changed items:\n got %+v\nwant %+v", back, items)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0644); err != nil {
		t.Fatal(err)
	}

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ds.Len())
	}

	if _, err := Load(filepath.Join(dir, "tasks.csv")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(.csv) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDataset(t *testing.T) {
	items, _ := Decode(strings.NewReader(sampleJSON), FormatJSON)
	ds := NewDataset(items)

	if row, ok := ds.Row(3); !ok || row != 2 {
		t.Errorf("Row(3) = %d, %v; want 2, true", row, ok)
	}
	if _, ok := ds.ByID(99); ok {
		t.Error("ByID(99) found a missing item")
	}
	if got := ds.Dependents(2); !reflect.DeepEqual(got, []int64{3}) {
		t.Errorf("Dependents(2) = %v, want [3]", got)
	}
	if got := ds.MissingDependencies(); !reflect.DeepEqual(got, []int64{99}) {
		t.Errorf("MissingDependencies() = %v, want [99]", got)
	}

	start, end, ok := ds.Span()
	if !ok || start.Format(DateLayout) != "2025-01-06" || end.Format(DateLayout) != "2025-03-05" {
		t.Errorf("Span() = %v, %v, %v", start, end, ok)
	}

	var empty *Dataset
	if empty.Len() != 0 {
		t.Error("nil dataset Len() != 0")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	opts := GenerateOptions{Count: 200, Seed: 42, Anchor: time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)}
	a := Generate(opts)
	b := Generate(opts)

	if len(a) != 200 {
		t.Fatalf("len(Generate()) = %d, want 200", len(a))
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("Generate() with the same seed produced different items")
	}

	for i := 1; i < len(a); i++ {
		if a[i].End.Before(a[i-1].End.Time) {
			t.Fatalf("items not sorted by end date at %d", i)
		}
	}
	for _, it := range a {
		if len(it.Dependencies) > 5 {
			t.Errorf("item %d has %d dependencies", it.ID, len(it.Dependencies))
		}
		if !it.End.After(it.Start.Time) {
			t.Errorf("item %d ends before it starts", it.ID)
		}
		if it.Progress < 0 || it.Progress > 100 {
			t.Errorf("item %d progress %v out of range", it.ID, it.Progress)
		}
	}
}

func TestReschedule(t *testing.T) {
	items := []Item{
		{ID: 1, Start: NewDate(2025, 1, 1), End: NewDate(2025, 1, 10)},
		{ID: 2, Start: NewDate(2025, 1, 5), End: NewDate(2025, 1, 8), Dependencies: []int64{1}},
		{ID: 3, Start: NewDate(2025, 3, 1), End: NewDate(2025, 3, 2), Dependencies: []int64{1}},
	}
	Reschedule(items)

	if got := items[1].Start.String(); got != "2025-01-11" {
		t.Errorf("dependent start = %s, want 2025-01-11", got)
	}
	if got := items[1].End.String(); got != "2025-01-14" {
		t.Errorf("dependent end = %s, want 2025-01-14", got)
	}
	if got := items[2].Start.String(); got != "2025-03-01" {
		t.Errorf("late dependent moved to %s", got)
	}
}
