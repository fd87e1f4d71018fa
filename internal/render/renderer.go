// Package render paints one frame of the chart from a viewport snapshot:
// background, weekend shading, grid lines, the two-band date header, bars
// and dependency routes, restricted to what intersects the viewport.
package render

import (
	"math"
	"time"
	"unicode/utf8"

	"github.com/theirongolddev/gantt/internal/grid"
	"github.com/theirongolddev/gantt/internal/logging"
	"github.com/theirongolddev/gantt/internal/surface"
	"github.com/theirongolddev/gantt/internal/task"
	"github.com/theirongolddev/gantt/internal/viewport"
)

const (
	// BandHeight is the height of each header band (months, days).
	BandHeight = 22.0
	// HeaderHeight is the full header: one month band and one day band.
	HeaderHeight = 2 * BandHeight

	DefaultFontSize = 12.0

	// minLabelWidth is the narrowest bar that gets its name drawn.
	minLabelWidth = 40.0
	labelPadding  = 6.0
	arrowLength   = 6.0
	arrowHalf     = 4.0
	routeWidth    = 1.5
)

// Options configure a Renderer.
type Options struct {
	HeaderHeight float64
	FontSize     float64
	Palette      Palette
	// HideBarLabels turns off item names inside bars.
	HideBarLabels bool
	// OverscanRows and OverscanCols paint that many extra rows and
	// columns on each side of the visible window.
	OverscanRows int
	OverscanCols int
}

// FrameStats describes one painted frame.
type FrameStats struct {
	Range         grid.VisibleRange `json:"range"`
	Buffered      grid.VisibleRange `json:"buffered"`
	Ticks         int               `json:"ticks"`
	Bars          int               `json:"bars"`
	Routes        int               `json:"routes"`
	SkippedRoutes int               `json:"skipped_routes"`
	Duration      time.Duration     `json:"duration"`
}

// Renderer paints datasets. It holds no viewport state; every Paint call
// takes the snapshot to draw.
type Renderer struct {
	opts Options
	data *task.Dataset
}

// New returns a renderer. Zero options take defaults: 44px header, 12px
// text and the paper palette.
func New(opts Options) *Renderer {
	if opts.HeaderHeight <= 0 {
		opts.HeaderHeight = HeaderHeight
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}
	opts.OverscanRows = max(opts.OverscanRows, 0)
	opts.OverscanCols = max(opts.OverscanCols, 0)
	if opts.Palette == (Palette{}) {
		opts.Palette = DefaultPalette()
	}
	return &Renderer{opts: opts, data: task.NewDataset(nil)}
}

// Options returns the effective options.
func (r *Renderer) Options() Options { return r.opts }

// SetDataset replaces the items to draw.
func (r *Renderer) SetDataset(d *task.Dataset) {
	if d == nil {
		d = task.NewDataset(nil)
	}
	r.data = d
}

// SetPalette swaps colors, e.g. after a theme change.
func (r *Renderer) SetPalette(p Palette) { r.opts.Palette = p }

// Frame paints v into the offscreen surface of pair and blits it to the
// visible one. It reports false, doing nothing, when the offscreen surface
// has no drawing context.
func (r *Renderer) Frame(pair *surface.Pair, v viewport.Viewport) (FrameStats, bool) {
	ctx, ok := pair.Offscreen.Context()
	if !ok {
		logging.Logger().Debug("render skipped: no drawing context")
		return FrameStats{}, false
	}
	st := r.Paint(ctx, v)
	pair.Blit()
	return st, true
}

// Paint draws every layer of v into ctx in order. Everything after the
// background covers the visible window widened by the overscan options.
func (r *Renderer) Paint(ctx surface.Context2D, v viewport.Viewport) FrameStats {
	start := time.Now()
	p := r.opts.Palette
	hh := r.opts.HeaderHeight
	w, h := v.Width, v.Height

	br := grid.Buffered(v, r.opts.OverscanRows, r.opts.OverscanCols)
	ticks := grid.Ticks(v, br.StartCol, br.EndCol)
	st := FrameStats{Range: grid.Compute(v), Buffered: br, Ticks: len(ticks)}

	ctx.Clear(0, 0, w, h)
	ctx.FillRect(0, 0, w, h, p.Background)

	bodyH := math.Max(0, h-hh)
	ctx.ClipRect(0, hh, w, bodyH)

	for _, t := range ticks {
		if t.Weekend() {
			ctx.FillRect(t.PixelX-v.ScrollLeft, hh, v.ColumnWidth, bodyH, p.Weekend)
		}
	}

	for _, t := range ticks {
		x := crisp(t.PixelX - v.ScrollLeft)
		c := p.GridMinor
		if t.IsMonthStart {
			c = p.GridMajor
		}
		ctx.StrokeLine(x, hh, x, h, 1, c)
	}
	for row := br.StartRow; row < br.EndRow; row++ {
		y := crisp(hh + float64(row)*v.RowHeight - v.ScrollTop)
		if y < hh {
			continue
		}
		ctx.StrokeLine(0, y, w, y, 1, p.RowLine)
	}
	ctx.ResetClip()

	r.paintHeader(ctx, v, ticks)

	if r.data.Len() > 0 {
		ctx.ClipRect(0, hh, w, bodyH)
		st.Bars = r.paintBars(ctx, v, br)
		st.Routes, st.SkippedRoutes = r.paintRoutes(ctx, v, br)
		ctx.ResetClip()
	}

	st.Duration = time.Since(start)
	return st
}

func (r *Renderer) paintHeader(ctx surface.Context2D, v viewport.Viewport, ticks []grid.Tick) {
	p := r.opts.Palette
	hh := r.opts.HeaderHeight
	band := hh / 2
	w := v.Width

	ctx.FillRect(0, 0, w, hh, p.Header)

	for _, g := range grid.MonthGroups(ticks, v.ColumnWidth) {
		ctx.FillText(g.Label, g.CenterX-v.ScrollLeft, band/2, r.opts.FontSize, surface.AlignCenter, p.HeaderText)
	}
	ctx.StrokeLine(0, crisp(band), w, crisp(band), 1, p.HeaderLine)

	for _, t := range ticks {
		if !t.DayStart() {
			continue
		}
		x := t.PixelX - v.ScrollLeft + v.ColumnWidth/2
		ctx.FillText(t.DayLabel(), x, band+band/2, r.opts.FontSize, surface.AlignCenter, p.HeaderText)
	}
	ctx.StrokeLine(0, crisp(hh), w, crisp(hh), 1, p.HeaderLine)
}

func (r *Renderer) paintBars(ctx surface.Context2D, v viewport.Viewport, vr grid.VisibleRange) int {
	p := r.opts.Palette
	hh := r.opts.HeaderHeight
	bars := ComputeBars(r.data, v, vr)

	for _, b := range bars {
		x := b.X - v.ScrollLeft
		y := hh + b.Y - v.ScrollTop

		fill := p.Bar
		if b.Item.Progress >= 100 {
			fill = p.BarDone
		}
		ctx.FillRect(x, y, b.Width, b.Height, fill)
		if pr := b.Item.Progress; pr > 0 && pr < 100 {
			ctx.FillRect(x, y, b.Width*pr/100, b.Height, p.BarProgress)
		}

		if r.opts.HideBarLabels || y < hh {
			continue
		}
		// Keep the label inside the visible part of the bar.
		lx := math.Max(x, 0)
		avail := math.Min(x+b.Width, v.Width) - lx - 2*labelPadding
		if avail < minLabelWidth-2*labelPadding || b.Width < minLabelWidth {
			continue
		}
		size := r.opts.FontSize - 1
		if label := fitLabel(b.Item.Name, avail, size); label != "" {
			ctx.FillText(label, lx+labelPadding, y+b.Height/2, size, surface.AlignLeft, p.BarText)
		}
	}
	return len(bars)
}

func (r *Renderer) paintRoutes(ctx surface.Context2D, v viewport.Viewport, vr grid.VisibleRange) (int, int) {
	p := r.opts.Palette
	hh := r.opts.HeaderHeight
	routes, skipped := ComputeRoutes(r.data, v, vr)

	for _, rt := range routes {
		pts := make([]surface.Point, len(rt.Points))
		for i, pt := range rt.Points {
			pts[i] = surface.Point{X: pt.X - v.ScrollLeft, Y: hh + pt.Y - v.ScrollTop}
		}
		ctx.StrokePolyline(pts, routeWidth, p.Route)

		tip := pts[len(pts)-1]
		ctx.FillPolygon([]surface.Point{
			tip,
			{X: tip.X - arrowLength, Y: tip.Y - arrowHalf},
			{X: tip.X - arrowLength, Y: tip.Y + arrowHalf},
		}, p.Route)
	}
	return len(routes), skipped
}

// crisp snaps a line coordinate to the middle of a pixel so 1px strokes
// cover exactly one pixel column.
func crisp(f float64) float64 {
	return math.Round(f) + 0.5
}

// fitLabel truncates s with an ellipsis to fit width px at a font size,
// estimating glyph advance. It returns "" if not even one glyph fits.
func fitLabel(s string, width, size float64) string {
	advance := size * 0.6
	maxRunes := int(width / advance)
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	if maxRunes == 1 {
		return "…"
	}
	runes := []rune(s)
	return string(runes[:maxRunes-1]) + "…"
}
