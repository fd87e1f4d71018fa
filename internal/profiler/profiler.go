// Package profiler records timing spans for startup, input batches and
// painted frames. It is disabled by default; disabled spans are no-ops.
package profiler

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// Phases used by the engine.
const (
	PhaseStartup = "startup"
	PhaseInput   = "input"
	PhaseFrame   = "frame"
)

// Profiler collects spans.
type Profiler struct {
	mu      sync.RWMutex
	spans   []*Span
	enabled bool
	start   time.Time
}

// Span is one timed operation.
type Span struct {
	Name      string        `json:"name"`
	Phase     string        `json:"phase,omitempty"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time,omitempty"`
	Duration  time.Duration `json:"duration_ns,omitempty"`
	Tags      Tags          `json:"tags,omitempty"`
	ended     bool
}

// Tags annotate spans.
type Tags map[string]any

var global = &Profiler{}

// Enable turns on profiling globally.
func Enable() {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.enabled = true
	global.start = time.Now()
}

// Disable turns off profiling.
func Disable() {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.enabled = false
}

// IsEnabled reports whether profiling is active.
func IsEnabled() bool {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.enabled
}

// Reset drops all collected spans.
func Reset() {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.spans = nil
	global.start = time.Now()
}

// Start begins a span in phase.
func Start(name, phase string) *Span {
	global.mu.Lock()
	defer global.mu.Unlock()

	if !global.enabled {
		return &Span{Name: name, Phase: phase, ended: true}
	}
	s := &Span{Name: name, Phase: phase, StartTime: time.Now()}
	global.spans = append(global.spans, s)
	return s
}

// End records the span duration. Ending twice is harmless.
func (s *Span) End() {
	global.mu.Lock()
	defer global.mu.Unlock()
	if s.ended {
		return
	}
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)
	s.ended = true
}

// Tag sets key on the span.
func (s *Span) Tag(key string, value any) *Span {
	global.mu.Lock()
	defer global.mu.Unlock()
	if s.Tags == nil {
		s.Tags = make(Tags)
	}
	s.Tags[key] = value
	return s
}

// Spans returns a copy of all recorded spans.
func Spans() []*Span {
	global.mu.RLock()
	defer global.mu.RUnlock()
	out := make([]*Span, len(global.spans))
	copy(out, global.spans)
	return out
}

// Time runs fn inside a span.
func Time(name, phase string, fn func()) {
	s := Start(name, phase)
	defer s.End()
	fn()
}

// Profile summarizes collected spans.
type Profile struct {
	TotalMs   float64       `json:"total_ms"`
	SpanCount int           `json:"span_count"`
	Phases    []PhaseReport `json:"phases,omitempty"`
	Slowest   []SpanReport  `json:"slowest,omitempty"`
}

// SpanReport is a span formatted for output.
type SpanReport struct {
	Name       string  `json:"name"`
	Phase      string  `json:"phase,omitempty"`
	DurationMs float64 `json:"duration_ms"`
	Tags       Tags    `json:"tags,omitempty"`
}

// PhaseReport aggregates one phase. Percentiles are over span durations.
type PhaseReport struct {
	Phase   string  `json:"phase"`
	Count   int     `json:"count"`
	TotalMs float64 `json:"total_ms"`
	MeanMs  float64 `json:"mean_ms"`
	P50Ms   float64 `json:"p50_ms"`
	P95Ms   float64 `json:"p95_ms"`
	MaxMs   float64 `json:"max_ms"`
}

const slowestLimit = 10

// GetProfile builds a summary of all ended spans.
func GetProfile() Profile {
	global.mu.RLock()
	defer global.mu.RUnlock()

	p := Profile{TotalMs: ms(time.Since(global.start))}
	byPhase := map[string][]time.Duration{}
	var reports []SpanReport
	for _, s := range global.spans {
		if !s.ended {
			continue
		}
		p.SpanCount++
		byPhase[s.Phase] = append(byPhase[s.Phase], s.Duration)
		reports = append(reports, SpanReport{Name: s.Name, Phase: s.Phase, DurationMs: ms(s.Duration), Tags: s.Tags})
	}

	for phase, ds := range byPhase {
		if phase == "" {
			continue
		}
		p.Phases = append(p.Phases, summarize(phase, ds))
	}
	sort.Slice(p.Phases, func(i, j int) bool { return p.Phases[i].Phase < p.Phases[j].Phase })

	sort.SliceStable(reports, func(i, j int) bool { return reports[i].DurationMs > reports[j].DurationMs })
	if len(reports) > slowestLimit {
		reports = reports[:slowestLimit]
	}
	p.Slowest = reports
	return p
}

// Phase returns the report for one phase, if any spans ended in it.
func Phase(name string) (PhaseReport, bool) {
	for _, ph := range GetProfile().Phases {
		if ph.Phase == name {
			return ph, true
		}
	}
	return PhaseReport{}, false
}

func summarize(phase string, ds []time.Duration) PhaseReport {
	sorted := append([]time.Duration(nil), ds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	var total time.Duration
	for _, d := range sorted {
		total += d
	}
	return PhaseReport{
		Phase:   phase,
		Count:   len(sorted),
		TotalMs: ms(total),
		MeanMs:  ms(total) / float64(len(sorted)),
		P50Ms:   ms(percentile(sorted, 0.50)),
		P95Ms:   ms(percentile(sorted, 0.95)),
		MaxMs:   ms(sorted[len(sorted)-1]),
	}
}

// percentile uses nearest rank over an ascending slice.
func percentile(sorted []time.Duration, q float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(q*float64(len(sorted))+0.5) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func ms(d time.Duration) float64 { return float64(d.Nanoseconds()) / 1e6 }

// WriteJSON writes the profile as indented JSON.
func WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(GetProfile())
}

// WriteText writes a human-readable summary.
func WriteText(w io.Writer) error {
	p := GetProfile()
	fmt.Fprintf(w, "=== gantt profile ===\n")
	fmt.Fprintf(w, "elapsed %.2fms, %d spans\n\n", p.TotalMs, p.SpanCount)

	if len(p.Phases) > 0 {
		fmt.Fprintf(w, "%-10s %6s %9s %8s %8s %8s\n", "phase", "count", "total", "p50", "p95", "max")
		for _, ph := range p.Phases {
			fmt.Fprintf(w, "%-10s %6d %7.2fms %6.2fms %6.2fms %6.2fms\n",
				ph.Phase, ph.Count, ph.TotalMs, ph.P50Ms, ph.P95Ms, ph.MaxMs)
		}
		fmt.Fprintln(w)
	}

	if len(p.Slowest) > 0 {
		fmt.Fprintln(w, "slowest:")
		for _, s := range p.Slowest {
			fmt.Fprintf(w, "  %7.2fms  %s", s.DurationMs, s.Name)
			if s.Phase != "" {
				fmt.Fprintf(w, " [%s]", s.Phase)
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}
