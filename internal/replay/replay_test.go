package replay

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const growScript = `
name: grow
start_date: "2025-01-01"
viewport: {width: 800, height: 600}
generate: {count: 10, seed: 1}
events:
  - at: 100ms
    scroll: {x: 1400, y: 0}
  - after: 250ms
    scroll_by: {x: 40, y: 0}
`

func mustParse(t *testing.T, src string) *Script {
	t.Helper()
	s, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return s
}

func TestParse(t *testing.T) {
	s := mustParse(t, growScript)
	if s.Name != "grow" || len(s.Events) != 2 {
		t.Fatalf("Parse() = %+v", s)
	}
	if s.Events[0].At == nil || s.Events[0].At.Duration != 100*time.Millisecond {
		t.Errorf("event 0 at = %v, want 100ms", s.Events[0].At)
	}
	if s.Events[1].After.Duration != 250*time.Millisecond {
		t.Errorf("event 1 after = %v, want 250ms", s.Events[1].After)
	}
	if _, ok := s.Events[1].Command(); !ok {
		t.Error("scroll_by event has no command")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"no events", "name: x\n", "no events"},
		{"unknown key", "events:\n  - scrol: {x: 1}\n", "scrol"},
		{"two kinds", "events:\n  - zoom: 0.5\n    dpr: 2\n", "one kind per event"},
		{"backwards", "events:\n  - at: 50ms\n    zoom: 1\n  - at: 10ms\n    zoom: 1\n", "before the previous event"},
		{"bad duration", "events:\n  - at: soon\n    zoom: 1\n", "parsing replay script"},
		{"bad date", "start_date: tomorrow\nevents:\n  - zoom: 1\n", "start_date"},
		{"both sources", "tasks: a.json\ngenerate: {count: 1}\nevents:\n  - zoom: 1\n", "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestParseEmptyEventIsUnknown(t *testing.T) {
	_, err := Parse([]byte("events:\n  - after: 10ms\n"))
	if !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("Parse() error = %v, want ErrUnknownEvent", err)
	}
}

func TestRunGrowsColumns(t *testing.T) {
	rep, err := Run(mustParse(t, growScript), Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if rep.Items != 10 || rep.Batches != 2 {
		t.Errorf("items, batches = %d, %d, want 10, 2", rep.Items, rep.Batches)
	}
	if rep.Final.TotalColumns != 110 || rep.Expansions != 1 {
		t.Errorf("columns = %d after %d expansions, want 110 after 1", rep.Final.TotalColumns, rep.Expansions)
	}
	if rep.Timeline[0].Grew != 50 || rep.Timeline[1].Grew != 0 {
		t.Errorf("timeline growth = %d, %d, want 50, 0", rep.Timeline[0].Grew, rep.Timeline[1].Grew)
	}
	if rep.GrowthState != "idle" {
		t.Errorf("GrowthState = %q, want idle after settling", rep.GrowthState)
	}
	if rep.Final.ScrollLeft != 1440 || rep.Final.ScrollTop != 0 {
		t.Errorf("final scroll = %v,%v, want 1440,0", rep.Final.ScrollLeft, rep.Final.ScrollTop)
	}
	// Startup resize, the scroll and the scroll_by each paint once.
	if rep.Requests != 3 || rep.Frames != 3 || rep.Painted != 3 {
		t.Errorf("requests, frames, painted = %d, %d, %d, want 3, 3, 3", rep.Requests, rep.Frames, rep.Painted)
	}
	if rep.Elapsed != 850*time.Millisecond {
		t.Errorf("Elapsed = %v, want 850ms", rep.Elapsed)
	}
}

func TestRunCoalescesWithinAFrame(t *testing.T) {
	s := mustParse(t, `
viewport: {width: 400, height: 300}
generate: {count: 5}
settings: {frame_interval: 16ms}
events:
  - at: 20ms
    scroll_by: {x: 10, y: 0}
  - after: 5ms
    scroll_by: {x: 10, y: 0}
  - after: 5ms
    scroll_by: {x: 10, y: 0}
`)
	rep, err := Run(s, Options{})
	if err != nil {
		t.Fatal(err)
	}
	// Ticks at 16ms and 32ms: the three batches at 20, 25 and 30ms
	// share one frame.
	if rep.Batches != 3 || rep.Requests != 4 || rep.Coalesced != 2 || rep.Frames != 2 {
		t.Errorf("batches %d requests %d coalesced %d frames %d, want 3 4 2 2",
			rep.Batches, rep.Requests, rep.Coalesced, rep.Frames)
	}
	if rep.Final.ScrollLeft != 30 {
		t.Errorf("ScrollLeft = %v, want 30", rep.Final.ScrollLeft)
	}
}

func TestRunBatchesSameInstant(t *testing.T) {
	s := mustParse(t, `
viewport: {width: 400, height: 300}
generate: {count: 5}
events:
  - at: 10ms
    scroll: {x: 100, y: 0}
  - zoom: 1
  - wait: 100ms
  - dpr: 2
`)
	rep, err := Run(s, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Batches != 2 {
		t.Fatalf("Batches = %d, want 2: %+v", rep.Batches, rep.Timeline)
	}
	first := rep.Timeline[0]
	if first.At != 10*time.Millisecond || len(first.Commands) != 2 {
		t.Errorf("first batch = %+v, want scroll and zoom at 10ms", first)
	}
	if second := rep.Timeline[1]; second.At != 110*time.Millisecond || second.Commands[0] != "dpr(2)" {
		t.Errorf("second batch = %+v, want dpr(2) at 110ms", second)
	}
	if rep.Final.Zoom != 2 || rep.Final.DevicePixelRatio != 2 {
		t.Errorf("final zoom, dpr = %v, %v, want 2, 2", rep.Final.Zoom, rep.Final.DevicePixelRatio)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	a, err := Run(mustParse(t, growScript), Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(mustParse(t, growScript), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if a.Text() != b.Text() {
		t.Errorf("reports differ:\n%s\n---\n%s", a.Text(), b.Text())
	}
	for _, want := range []string{"replay: grow", "columns: 110 (1 expansions, growth idle)", "+50 columns -> 110"} {
		if !strings.Contains(a.Text(), want) {
			t.Errorf("Text() missing %q:\n%s", want, a.Text())
		}
	}
}

func TestLoadResolvesTasksRelativeToScript(t *testing.T) {
	dir := t.TempDir()
	tasks := `[{"id":1,"name":"A","startDate":"2025-01-02","endDate":"2025-01-05"},
{"id":2,"name":"B","startDate":"2025-01-06","endDate":"2025-01-08","dependencies":[1]}]`
	if err := os.WriteFile(filepath.Join(dir, "tasks.json"), []byte(tasks), 0o644); err != nil {
		t.Fatal(err)
	}
	script := filepath.Join(dir, "pan.yaml")
	src := "start_date: \"2025-01-01\"\nviewport: {width: 200, height: 100}\ntasks: tasks.json\nevents:\n  - scroll: {x: 40, y: 0}\n"
	if err := os.WriteFile(script, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(script)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Name != "pan" {
		t.Errorf("Name = %q, want file stem", s.Name)
	}
	rep, err := Run(s, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if rep.Items != 2 || rep.Final.TotalRows != 2 {
		t.Errorf("items %d rows %d, want 2 and 2", rep.Items, rep.Final.TotalRows)
	}
}
