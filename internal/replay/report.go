package replay

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Report summarizes a replay.
type Report struct {
	Name    string        `json:"name"`
	Items   int           `json:"items"`
	Events  int           `json:"events"`
	Batches int           `json:"batches"`
	Elapsed time.Duration `json:"elapsed_ns"`

	Requests    int    `json:"requests"`
	Coalesced   int    `json:"coalesced"`
	Frames      int    `json:"frames"`
	Painted     int    `json:"painted"`
	Skipped     int    `json:"skipped"`
	Expansions  int    `json:"expansions"`
	GrowthState string `json:"growth_state"`

	Final    Final  `json:"final"`
	Timeline []Step `json:"timeline"`
}

// Final is the viewport after the run settled.
type Final struct {
	ScrollLeft       float64 `json:"scroll_left"`
	ScrollTop        float64 `json:"scroll_top"`
	Width            float64 `json:"width"`
	Height           float64 `json:"height"`
	Zoom             float64 `json:"zoom"`
	DevicePixelRatio float64 `json:"device_pixel_ratio"`
	TotalRows        int     `json:"total_rows"`
	TotalColumns     int     `json:"total_columns"`
}

// Step is one applied batch.
type Step struct {
	At           time.Duration `json:"at_ns"`
	Commands     []string      `json:"commands"`
	Grew         int           `json:"grew,omitempty"`
	TotalColumns int           `json:"total_columns"`
}

// WriteText writes the report in a stable layout, suitable for golden
// files: it holds only virtual times and counts.
func (r *Report) WriteText(w io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "replay: %s\n", r.Name)
	fmt.Fprintf(&sb, "items: %d  events: %d  batches: %d  virtual time: %s\n", r.Items, r.Events, r.Batches, r.Elapsed)
	fmt.Fprintf(&sb, "frames: %d fired, %d painted, %d skipped\n", r.Frames, r.Painted, r.Skipped)
	fmt.Fprintf(&sb, "requests: %d (%d coalesced)\n", r.Requests, r.Coalesced)
	fmt.Fprintf(&sb, "columns: %d (%d expansions, growth %s)\n", r.Final.TotalColumns, r.Expansions, r.GrowthState)
	fmt.Fprintf(&sb, "viewport: scroll %s,%s  size %sx%s  zoom %s  dpr %s  rows %d\n",
		num(r.Final.ScrollLeft), num(r.Final.ScrollTop),
		num(r.Final.Width), num(r.Final.Height),
		num(r.Final.Zoom), num(r.Final.DevicePixelRatio), r.Final.TotalRows)

	if len(r.Timeline) > 0 {
		sb.WriteString("\ntimeline:\n")
	}
	for _, s := range r.Timeline {
		fmt.Fprintf(&sb, "  %-8s %s", s.At, strings.Join(s.Commands, " "))
		if s.Grew > 0 {
			fmt.Fprintf(&sb, "  +%d columns -> %d", s.Grew, s.TotalColumns)
		}
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Text renders WriteText into a string.
func (r *Report) Text() string {
	var sb strings.Builder
	_ = r.WriteText(&sb)
	return sb.String()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
