// Package engine wires one chart instance: the viewport store, the growth
// policy, the frame scheduler, the surface pair, the renderer and the
// input pipeline. All calls are expected on a single goroutine.
package engine

import (
	"fmt"
	"image"
	"io"
	"time"

	"github.com/theirongolddev/gantt/internal/frame"
	"github.com/theirongolddev/gantt/internal/growth"
	"github.com/theirongolddev/gantt/internal/input"
	"github.com/theirongolddev/gantt/internal/logging"
	"github.com/theirongolddev/gantt/internal/profiler"
	"github.com/theirongolddev/gantt/internal/render"
	"github.com/theirongolddev/gantt/internal/surface"
	"github.com/theirongolddev/gantt/internal/task"
	"github.com/theirongolddev/gantt/internal/viewport"
)

// Config describes a chart instance. Zero fields take defaults.
type Config struct {
	// StartDate anchors column 0. Zero means today.
	StartDate   time.Time
	RowHeight   float64
	ColumnWidth float64
	// TotalRows fixes the row count. Zero means one row per item.
	TotalRows      int
	InitialColumns int
	InitialZoom    float64

	// Width, Height and DevicePixelRatio size the surfaces at startup.
	// With a zero size the chart stays unsized until a Resize command.
	Width            float64
	Height           float64
	DevicePixelRatio float64

	ZoomStep      float64
	ClampToExtent bool
	Growth        growth.Config
	Render        render.Options

	// Ticker drives frames. Nil installs a ManualTicker, advanced by Flush.
	Ticker frame.Ticker
	// Clock supplies the time for growth decisions. Nil means time.Now.
	Clock func() time.Time
	// Fonts is shared with the caller. Nil loads Go Regular for this
	// engine alone.
	Fonts *surface.Fonts
}

// Stats reports engine activity.
type Stats struct {
	Scheduler    frame.Stats       `json:"scheduler"`
	Painted      int               `json:"painted"`
	Skipped      int               `json:"skipped"`
	Expansions   int               `json:"expansions"`
	GrowthState  string            `json:"growth_state"`
	TotalColumns int               `json:"total_columns"`
	Version      uint64            `json:"version"`
	LastFrame    render.FrameStats `json:"last_frame"`
}

// Engine is one chart instance.
type Engine struct {
	cfg      Config
	clock    func() time.Time
	store    *viewport.Store
	policy   *growth.Policy
	sched    *frame.Scheduler
	manual   *frame.ManualTicker
	pair     *surface.Pair
	fonts    *surface.Fonts
	ownFonts bool
	renderer *render.Renderer
	pipe     *input.Pipeline
	data     *task.Dataset

	// painted is the store version of the last painted frame; dirty
	// forces the next frame to paint regardless.
	painted uint64
	dirty   bool
	last    render.FrameStats
	npaint  int
	nskip   int
	closed  bool
}

// New builds an engine for data. When cfg carries a size, the surfaces
// are sized and a first frame is requested.
func New(cfg Config, data *task.Dataset) (*Engine, error) {
	span := profiler.Start("engine.New", profiler.PhaseStartup)
	defer span.End()

	if data == nil {
		data = task.NewDataset(nil)
	}
	if cfg.StartDate.IsZero() {
		cfg.StartDate = time.Now()
	}
	if cfg.Growth == (growth.Config{}) {
		cfg.Growth = growth.DefaultConfig()
	}

	e := &Engine{cfg: cfg, clock: cfg.Clock, data: data, dirty: true}
	if e.clock == nil {
		e.clock = time.Now
	}

	e.fonts = cfg.Fonts
	if e.fonts == nil {
		f, err := surface.LoadFonts()
		if err != nil {
			return nil, fmt.Errorf("loading fonts: %w", err)
		}
		e.fonts, e.ownFonts = f, true
	}

	ticker := cfg.Ticker
	if ticker == nil {
		e.manual = frame.NewManualTicker()
		ticker = e.manual
	}
	e.sched = frame.NewScheduler(ticker)

	e.store = viewport.NewStore(cfg.StartDate)
	props := viewport.GridProps{TotalRows: viewport.Int(e.rowsFor(data))}
	if cfg.RowHeight > 0 {
		props.RowHeight = viewport.Float(cfg.RowHeight)
	}
	if cfg.ColumnWidth > 0 {
		props.ColumnWidth = viewport.Float(cfg.ColumnWidth)
	}
	if cfg.InitialColumns > 0 {
		props.TotalColumns = viewport.Int(cfg.InitialColumns)
	}
	e.store.SetGridProps(props)
	if cfg.InitialZoom > 0 {
		e.store.SetZoom(cfg.InitialZoom)
	}

	e.policy = growth.New(cfg.Growth)
	e.pair = surface.NewPair(e.fonts)
	e.renderer = render.New(cfg.Render)
	e.renderer.SetDataset(data)
	e.pipe = input.NewPipeline(e.store, e.policy, e.pair, e.RequestFrame, input.Options{
		ZoomStep:      cfg.ZoomStep,
		ClampToExtent: cfg.ClampToExtent,
		HeaderHeight:  e.renderer.Options().HeaderHeight,
	})

	if cfg.Width > 0 && cfg.Height > 0 {
		cmds := []input.Command{input.Resize{Width: cfg.Width, Height: cfg.Height}}
		if cfg.DevicePixelRatio > 0 {
			cmds = append(cmds, input.DevicePixelRatio{Ratio: cfg.DevicePixelRatio})
		}
		if _, err := e.Batch(cmds...); err != nil {
			e.Close()
			return nil, err
		}
	}

	if missing := data.MissingDependencies(); len(missing) > 0 {
		logging.Logger().Warn("dependencies reference unknown items", "ids", missing)
	}
	return e, nil
}

func (e *Engine) rowsFor(d *task.Dataset) int {
	if e.cfg.TotalRows > 0 {
		return e.cfg.TotalRows
	}
	return d.Len()
}

// Dispatch applies one input command.
func (e *Engine) Dispatch(cmd input.Command) (input.Result, error) {
	return e.Batch(cmd)
}

// Batch applies cmds as one unit and requests a single frame.
func (e *Engine) Batch(cmds ...input.Command) (input.Result, error) {
	if e.closed {
		return input.Result{}, nil
	}
	span := profiler.Start("input.batch", profiler.PhaseInput)
	defer span.End()

	res, err := e.pipe.Batch(e.clock(), cmds...)
	if res.Resized {
		e.dirty = true
	}
	span.Tag("commands", len(cmds)).Tag("grew", res.Grew)
	return res, err
}

// RequestFrame asks for a repaint at the next tick.
func (e *Engine) RequestFrame() {
	if e.closed {
		return
	}
	e.sched.Request(e.frame)
}

// Flush advances the built-in ticker: the growth lock sees the current
// time and any pending frame is painted. It returns the number of frame
// callbacks run, always 0 with an external ticker.
func (e *Engine) Flush() int {
	if e.closed {
		return 0
	}
	e.policy.Tick(e.clock())
	if e.manual == nil {
		return 0
	}
	return e.manual.Flush()
}

// RenderNow paints synchronously, dropping any pending frame.
func (e *Engine) RenderNow() (render.FrameStats, bool) {
	if e.closed {
		return render.FrameStats{}, false
	}
	e.sched.Cancel()
	e.dirty = true
	return e.paint()
}

func (e *Engine) frame() {
	if _, ok := e.paint(); !ok {
		logging.Logger().Debug("frame not painted")
	}
}

func (e *Engine) paint() (render.FrameStats, bool) {
	v := e.store.Snapshot()
	version := e.store.Version()
	if !e.dirty && version == e.painted {
		e.nskip++
		return e.last, true
	}

	span := profiler.Start("frame", profiler.PhaseFrame)
	st, ok := e.renderer.Frame(e.pair, v)
	span.Tag("rows", st.Range.Rows()).
		Tag("cols", st.Range.Cols()).
		Tag("bars", st.Bars).
		Tag("routes", st.Routes)
	span.End()
	if !ok {
		return st, false
	}

	e.painted, e.dirty = version, false
	e.last = st
	e.npaint++
	return st, true
}

// SetItems replaces the dataset. With an item-derived row count the grid
// is re-initialized to the new length.
func (e *Engine) SetItems(d *task.Dataset) {
	if e.closed {
		return
	}
	if d == nil {
		d = task.NewDataset(nil)
	}
	e.data = d
	e.renderer.SetDataset(d)
	e.store.SetGridProps(viewport.GridProps{TotalRows: viewport.Int(e.rowsFor(d))})
	e.dirty = true
	e.RequestFrame()
}

// SetPalette swaps chart colors and requests a repaint.
func (e *Engine) SetPalette(p render.Palette) {
	if e.closed {
		return
	}
	e.renderer.SetPalette(p)
	e.dirty = true
	e.RequestFrame()
}

// Dataset returns the items being drawn.
func (e *Engine) Dataset() *task.Dataset { return e.data }

// Snapshot returns the current viewport.
func (e *Engine) Snapshot() viewport.Viewport { return e.store.Snapshot() }

// HeaderHeight is the effective header height of the renderer.
func (e *Engine) HeaderHeight() float64 { return e.renderer.Options().HeaderHeight }

// Image returns the visible surface, or nil before the first resize.
func (e *Engine) Image() image.Image {
	if e.closed {
		return nil
	}
	return e.pair.Visible.Image()
}

// EncodePNG writes the visible surface as PNG.
func (e *Engine) EncodePNG(w io.Writer) error {
	if e.closed {
		return nil
	}
	return e.pair.Visible.EncodePNG(w)
}

// Stats returns counters for the engine and its parts.
func (e *Engine) Stats() Stats {
	v := e.store.Snapshot()
	return Stats{
		Scheduler:    e.sched.Stats(),
		Painted:      e.npaint,
		Skipped:      e.nskip,
		Expansions:   e.policy.Expansions(),
		GrowthState:  e.policy.State().String(),
		TotalColumns: v.TotalColumns,
		Version:      e.store.Version(),
		LastFrame:    e.last,
	}
}

// Close cancels the pending frame, releases the growth lock and frees
// the surfaces. Every later call is a no-op.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.sched.Cancel()
	e.policy.Release()
	err := e.pair.Close()
	if e.ownFonts {
		if ferr := e.fonts.Close(); ferr != nil && err == nil {
			err = ferr
		}
	}
	return err
}
