// Package input turns scroll, wheel, resize and ratio signals into store
// mutations, growth checks and frame requests.
package input

import (
	"fmt"
	"math"
)

// Command is one input signal.
type Command interface {
	// priority orders commands inside a batch: lower applies first.
	priority() int
	fmt.Stringer
}

// Scroll reports the native absolute scroll offsets of the container.
type Scroll struct {
	X, Y float64
}

// ScrollBy pans by a relative offset, as keyboard navigation does.
type ScrollBy struct {
	DX, DY float64
}

// Wheel is a wheel or trackpad delta. With Ctrl held it zooms instead of
// panning.
type Wheel struct {
	DX, DY float64
	Ctrl   bool
}

// Resize reports a new CSS size of the scroll container.
type Resize struct {
	Width, Height float64
}

// DevicePixelRatio reports a changed backing scale.
type DevicePixelRatio struct {
	Ratio float64
}

// Zoom changes the zoom level by Delta.
type Zoom struct {
	Delta float64
}

const (
	prioResize = iota
	prioRatio
	prioZoom
	prioScroll
)

func (Resize) priority() int           { return prioResize }
func (DevicePixelRatio) priority() int { return prioRatio }
func (Zoom) priority() int             { return prioZoom }
func (Scroll) priority() int           { return prioScroll }
func (ScrollBy) priority() int         { return prioScroll }

func (w Wheel) priority() int {
	if w.Ctrl {
		return prioZoom
	}
	return prioScroll
}

func (c Scroll) String() string   { return fmt.Sprintf("scroll(%g,%g)", c.X, c.Y) }
func (c ScrollBy) String() string { return fmt.Sprintf("scroll-by(%g,%g)", c.DX, c.DY) }
func (c Resize) String() string   { return fmt.Sprintf("resize(%gx%g)", c.Width, c.Height) }
func (c Zoom) String() string     { return fmt.Sprintf("zoom(%+g)", c.Delta) }

func (c DevicePixelRatio) String() string { return fmt.Sprintf("dpr(%g)", c.Ratio) }

func (c Wheel) String() string {
	if c.Ctrl {
		return fmt.Sprintf("wheel+ctrl(%g,%g)", c.DX, c.DY)
	}
	return fmt.Sprintf("wheel(%g,%g)", c.DX, c.DY)
}

// WheelZoomStep is the zoom change per ctrl+wheel notch.
const WheelZoomStep = 0.25

// wheelZoomDelta is step * sign(-dy): wheel up zooms in.
func wheelZoomDelta(dy, step float64) float64 {
	switch {
	case dy < 0:
		return step
	case dy > 0:
		return -step
	default:
		return 0
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
