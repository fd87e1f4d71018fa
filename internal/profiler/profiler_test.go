package profiler

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestEnableDisable(t *testing.T) {
	Disable()
	Reset()

	if IsEnabled() {
		t.Error("expected profiler to be disabled initially")
	}
	Enable()
	if !IsEnabled() {
		t.Error("expected profiler to be enabled after Enable()")
	}
	Disable()
	if IsEnabled() {
		t.Error("expected profiler to be disabled after Disable()")
	}
}

func TestDisabledSpansAreNotRecorded(t *testing.T) {
	Disable()
	Reset()

	s := Start("frame", PhaseFrame)
	s.Tag("bars", 3)
	s.End()
	if n := len(Spans()); n != 0 {
		t.Errorf("Spans() = %d, want 0 while disabled", n)
	}
}

func TestSpanDuration(t *testing.T) {
	Reset()
	Enable()
	defer Disable()

	s := Start("frame", PhaseFrame)
	time.Sleep(5 * time.Millisecond)
	s.End()
	d := s.Duration
	s.End()

	if d < 5*time.Millisecond {
		t.Errorf("Duration = %v, want >= 5ms", d)
	}
	if s.Duration != d {
		t.Error("second End() changed the duration")
	}
}

func TestPhaseSummary(t *testing.T) {
	Reset()
	Enable()
	defer Disable()

	for i := 1; i <= 20; i++ {
		s := Start("frame", PhaseFrame)
		s.StartTime = time.Now().Add(-time.Duration(i) * time.Millisecond)
		s.End()
	}
	Time("load", PhaseStartup, func() {})

	ph, ok := Phase(PhaseFrame)
	if !ok {
		t.Fatal("Phase(frame) missing")
	}
	if ph.Count != 20 {
		t.Errorf("Count = %d, want 20", ph.Count)
	}
	if ph.P50Ms < 10 || ph.P50Ms > 12 {
		t.Errorf("P50Ms = %.2f, want about 10", ph.P50Ms)
	}
	if ph.P95Ms < 19 || ph.MaxMs < 20 {
		t.Errorf("P95Ms = %.2f, MaxMs = %.2f", ph.P95Ms, ph.MaxMs)
	}

	p := GetProfile()
	if p.SpanCount != 21 {
		t.Errorf("SpanCount = %d, want 21", p.SpanCount)
	}
	if len(p.Phases) != 2 || p.Phases[0].Phase != PhaseFrame {
		t.Errorf("Phases = %+v, want frame and startup sorted", p.Phases)
	}
	if len(p.Slowest) != slowestLimit {
		t.Errorf("Slowest = %d, want %d", len(p.Slowest), slowestLimit)
	}
}

func TestPercentile(t *testing.T) {
	ds := []time.Duration{1, 2, 3, 4}
	tests := []struct {
		q    float64
		want time.Duration
	}{
		{0, 1},
		{0.5, 2},
		{0.95, 4},
		{1, 4},
	}
	for _, tt := range tests {
		if got := percentile(ds, tt.q); got != tt.want {
			t.Errorf("percentile(%v) = %v, want %v", tt.q, got, tt.want)
		}
	}
	if got := percentile(nil, 0.5); got != 0 {
		t.Errorf("percentile(nil) = %v, want 0", got)
	}
}

func TestWriteOutputs(t *testing.T) {
	Reset()
	Enable()
	defer Disable()
	Time("frame", PhaseFrame, func() {})

	var buf bytes.Buffer
	if err := WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	var p Profile
	if err := json.Unmarshal(buf.Bytes(), &p); err != nil {
		t.Fatalf("WriteJSON produced invalid JSON: %v", err)
	}
	if p.SpanCount != 1 {
		t.Errorf("SpanCount = %d, want 1", p.SpanCount)
	}

	buf.Reset()
	if err := WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "frame") {
		t.Errorf("WriteText() = %q, want frame phase", buf.String())
	}
}

func TestRecommendations(t *testing.T) {
	Reset()
	Enable()
	defer Disable()

	s := Start("frame", PhaseFrame)
	s.StartTime = time.Now().Add(-50 * time.Millisecond)
	s.End()

	r := GetReport()
	if r.Status != "critical" {
		t.Errorf("Status = %q, want critical for a 50ms frame", r.Status)
	}
	if len(r.Recommendations) == 0 || r.Recommendations[0].Category != "frame" {
		t.Errorf("Recommendations = %+v", r.Recommendations)
	}

	Reset()
	Time("frame", PhaseFrame, func() {})
	if got := GetReport().Status; got != "ok" {
		t.Errorf("Status = %q, want ok for a fast frame", got)
	}
}
