// Package layout splits the terminal into the viewer's regions.
package layout

import "github.com/mattn/go-runewidth"

// Width tiers. Below SplitViewThreshold the sidebar is hidden and the
// chart takes the full width; from WideViewThreshold the sidebar may grow
// to fit longer task names.
const (
	SplitViewThreshold = 60
	WideViewThreshold  = 160
)

// Tier describes the current width bucket.
type Tier int

const (
	TierNarrow Tier = iota
	TierSplit
	TierWide
)

func (t Tier) String() string {
	switch t {
	case TierSplit:
		return "split"
	case TierWide:
		return "wide"
	default:
		return "narrow"
	}
}

// TierForWidth maps a terminal width to a tier.
func TierForWidth(width int) Tier {
	switch {
	case width >= WideViewThreshold:
		return TierWide
	case width >= SplitViewThreshold:
		return TierSplit
	default:
		return TierNarrow
	}
}

// Regions is the cell geometry of one viewer frame.
type Regions struct {
	Tier Tier
	// Sidebar is the task-name column width, 0 when hidden.
	Sidebar int
	// ChartCols and ChartRows are the terminal cells showing the chart.
	ChartCols int
	ChartRows int
	// Footer is the number of lines below the chart.
	Footer int
}

// Compute lays out a width×height terminal. sidebar is the configured
// sidebar width; footer lines are reserved for the status bar and help.
func Compute(width, height, sidebar, footer int) Regions {
	r := Regions{Tier: TierForWidth(width), Footer: footer}
	switch r.Tier {
	case TierSplit:
		r.Sidebar = sidebar
	case TierWide:
		r.Sidebar = sidebar + sidebar/2
	}
	// One column separates sidebar and chart.
	if r.Sidebar > 0 && r.Sidebar+1 >= width {
		r.Sidebar = 0
	}
	r.ChartCols = width
	if r.Sidebar > 0 {
		r.ChartCols = width - r.Sidebar - 1
	}
	r.ChartRows = max(height-footer, 0)
	r.ChartCols = max(r.ChartCols, 0)
	return r
}

// Truncate trims s to at most width terminal cells, ending in "…" when
// shortened. Wide glyphs are never split.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// Pad truncates or right-pads s to exactly width cells.
func Pad(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}
