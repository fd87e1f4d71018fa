package profiler

import (
	"fmt"
	"time"
)

// Recommendation is a finding derived from the collected spans.
type Recommendation struct {
	Severity   Severity `json:"severity"`
	Category   string   `json:"category"`
	Message    string   `json:"message"`
	DurationMs float64  `json:"duration_ms,omitempty"`
	Suggestion string   `json:"suggestion"`
}

// Severity ranks a recommendation.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Thresholds for recommendations.
type Thresholds struct {
	// FrameBudgetMs is one display refresh: 60Hz by default.
	FrameBudgetMs float64
	// FrameCriticalMs marks frames that drop more than one refresh.
	FrameCriticalMs float64
	// InputMs is the longest acceptable input batch.
	InputMs float64
	// StartupMs is the longest acceptable startup.
	StartupMs float64
}

// DefaultThresholds targets a 60Hz display.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FrameBudgetMs:   1000.0 / 60,
		FrameCriticalMs: 2000.0 / 60,
		InputMs:         4,
		StartupMs:       500,
	}
}

// GetRecommendations checks the profile against t.
func GetRecommendations(t Thresholds) []Recommendation {
	var recs []Recommendation

	if ph, ok := Phase(PhaseFrame); ok {
		switch {
		case ph.P95Ms > t.FrameCriticalMs:
			recs = append(recs, Recommendation{
				Severity:   SeverityCritical,
				Category:   "frame",
				Message:    fmt.Sprintf("p95 frame time %.1fms drops frames", ph.P95Ms),
				DurationMs: ph.P95Ms,
				Suggestion: "Reduce the viewport size or device pixel ratio, or hide bar labels",
			})
		case ph.P95Ms > t.FrameBudgetMs:
			recs = append(recs, Recommendation{
				Severity:   SeverityWarning,
				Category:   "frame",
				Message:    fmt.Sprintf("p95 frame time %.1fms exceeds the %.1fms budget", ph.P95Ms, t.FrameBudgetMs),
				DurationMs: ph.P95Ms,
				Suggestion: "Check route counts; long dependency chains across the viewport are the usual cost",
			})
		}
	}

	if ph, ok := Phase(PhaseInput); ok && ph.MaxMs > t.InputMs {
		recs = append(recs, Recommendation{
			Severity:   SeverityWarning,
			Category:   "input",
			Message:    fmt.Sprintf("slowest input batch took %.1fms", ph.MaxMs),
			DurationMs: ph.MaxMs,
			Suggestion: "Input handling should only mutate state; move work into the frame",
		})
	}

	if ph, ok := Phase(PhaseStartup); ok && ph.TotalMs > t.StartupMs {
		recs = append(recs, Recommendation{
			Severity:   SeverityWarning,
			Category:   "startup",
			Message:    fmt.Sprintf("startup took %.0fms", ph.TotalMs),
			DurationMs: ph.TotalMs,
			Suggestion: "Large task files dominate startup; consider splitting the dataset",
		})
	}

	if len(recs) == 0 && IsEnabled() {
		recs = append(recs, Recommendation{
			Severity:   SeverityInfo,
			Category:   "performance",
			Message:    "all phases within budget",
			Suggestion: "none",
		})
	}
	return recs
}

// Report bundles recommendations for JSON output.
type Report struct {
	GeneratedAt     time.Time        `json:"generated_at"`
	Profile         Profile          `json:"profile"`
	Recommendations []Recommendation `json:"recommendations"`
	Status          string           `json:"status"`
}

// GetReport builds a Report with default thresholds.
func GetReport() Report {
	recs := GetRecommendations(DefaultThresholds())
	r := Report{
		GeneratedAt:     time.Now(),
		Profile:         GetProfile(),
		Recommendations: recs,
		Status:          "ok",
	}
	for _, rec := range recs {
		switch rec.Severity {
		case SeverityCritical:
			r.Status = "critical"
		case SeverityWarning:
			if r.Status == "ok" {
				r.Status = "warning"
			}
		}
	}
	return r
}
