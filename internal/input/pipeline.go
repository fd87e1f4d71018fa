package input

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/theirongolddev/gantt/internal/grid"
	"github.com/theirongolddev/gantt/internal/growth"
	"github.com/theirongolddev/gantt/internal/logging"
	"github.com/theirongolddev/gantt/internal/viewport"
)

// Surfaces is resized whenever the CSS size or the device pixel ratio
// changes.
type Surfaces interface {
	Resize(cssW, cssH, dpr float64) error
}

// Options tune a Pipeline.
type Options struct {
	// ZoomStep is the ctrl+wheel zoom increment.
	ZoomStep float64
	// ClampToExtent bounds scrolling to the content size, as a native
	// scroll container would. Without it scroll is only kept >= 0.
	ClampToExtent bool
	// HeaderHeight is added to the vertical content extent.
	HeaderHeight float64
}

// Result summarizes what a batch changed.
type Result struct {
	Resized        bool
	Scrolled       bool
	Zoomed         bool
	Grew           bool
	TotalColumns   int
	FrameRequested bool
	Decision       growth.Decision
}

// Pipeline applies commands to the viewport store. It is the only path by
// which input reaches the store.
type Pipeline struct {
	store    *viewport.Store
	policy   *growth.Policy
	surfaces Surfaces
	request  func()
	opts     Options
}

// NewPipeline wires a pipeline. request is called once per non-empty
// batch to schedule a frame.
func NewPipeline(store *viewport.Store, policy *growth.Policy, surfaces Surfaces, request func(), opts Options) *Pipeline {
	if opts.ZoomStep <= 0 {
		opts.ZoomStep = WheelZoomStep
	}
	return &Pipeline{store: store, policy: policy, surfaces: surfaces, request: request, opts: opts}
}

// Dispatch applies a single command.
func (p *Pipeline) Dispatch(now time.Time, cmd Command) (Result, error) {
	return p.Batch(now, cmd)
}

// Batch applies cmds as one unit: size and ratio changes first, then zoom,
// then scroll, so scroll clamping sees the final geometry. Surfaces are
// resized at most once and the growth policy is consulted once after any
// scroll. One frame is requested per batch.
func (p *Pipeline) Batch(now time.Time, cmds ...Command) (Result, error) {
	var res Result
	if len(cmds) == 0 {
		return res, nil
	}
	ordered := append([]Command(nil), cmds...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].priority() < ordered[j].priority()
	})

	for _, cmd := range ordered {
		p.apply(cmd, &res)
	}

	var err error
	if res.Resized {
		v := p.store.Snapshot()
		if p.surfaces != nil {
			if rerr := p.surfaces.Resize(v.Width, v.Height, v.DevicePixelRatio); rerr != nil {
				err = fmt.Errorf("resizing surfaces: %w", rerr)
			}
		}
	}
	if res.Scrolled {
		res.Decision = p.policy.Check(now, p.store.Snapshot())
		if res.Decision.Expand {
			p.store.SetGridProps(viewport.GridProps{TotalColumns: viewport.Int(res.Decision.TotalColumns)})
			res.Grew = true
			logging.Logger().Debug("columns grown", "total", res.Decision.TotalColumns)
		}
	} else {
		p.policy.Tick(now)
	}

	res.TotalColumns = p.store.Snapshot().TotalColumns
	if p.request != nil {
		p.request()
		res.FrameRequested = true
	}
	return res, err
}

func (p *Pipeline) apply(cmd Command, res *Result) {
	v := p.store.Snapshot()
	switch c := cmd.(type) {
	case Resize:
		p.store.SetSize(c.Width, c.Height)
		res.Resized = true
		p.prime(res)
	case DevicePixelRatio:
		p.store.SetDevicePixelRatio(c.Ratio)
		res.Resized = true
	case Zoom:
		if finite(c.Delta) && c.Delta != 0 {
			p.store.SetZoom(v.Zoom + c.Delta)
			res.Zoomed = true
		}
	case Wheel:
		if c.Ctrl {
			if d := wheelZoomDelta(c.DY, p.opts.ZoomStep); d != 0 {
				p.store.SetZoom(v.Zoom + d)
				res.Zoomed = true
			}
			return
		}
		p.scrollTo(v.ScrollLeft+c.DX, v.ScrollTop+c.DY)
		res.Scrolled = true
	case ScrollBy:
		p.scrollTo(v.ScrollLeft+c.DX, v.ScrollTop+c.DY)
		res.Scrolled = true
	case Scroll:
		p.scrollTo(c.X, c.Y)
		res.Scrolled = true
	default:
		logging.Logger().Warn("ignoring unknown input command", "command", cmd)
	}
}

func (p *Pipeline) scrollTo(x, y float64) {
	if !finite(x) {
		x = 0
	}
	if !finite(y) {
		y = 0
	}
	if p.opts.ClampToExtent {
		mx, my := grid.MaxScroll(p.store.Snapshot(), p.opts.HeaderHeight)
		x, y = math.Min(x, mx), math.Min(y, my)
	}
	p.store.SetScroll(x, y)
}

// prime grows the column space to cover a resized viewport. Resizes are
// not scroll driven, so throttle and lock do not apply.
func (p *Pipeline) prime(res *Result) {
	v := p.store.Snapshot()
	if total := p.policy.Prime(v); total > v.TotalColumns {
		p.store.SetGridProps(viewport.GridProps{TotalColumns: viewport.Int(total)})
		res.Grew = true
	}
	if p.opts.ClampToExtent {
		p.scrollTo(v.ScrollLeft, v.ScrollTop)
	}
}
