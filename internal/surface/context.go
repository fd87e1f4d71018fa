// Package surface provides the drawing surfaces a chart renders into: a
// gg-backed raster canvas sized for a device pixel ratio, a visible and
// offscreen pair for double buffering, and a recording context for tests.
package surface

import "github.com/gogpu/gg"

// Point is a position in CSS pixels.
type Point struct {
	X, Y float64
}

// Align is the horizontal anchor of a text run. Text is always vertically
// centered on its anchor.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) anchor() float64 {
	switch a {
	case AlignCenter:
		return 0.5
	case AlignRight:
		return 1
	default:
		return 0
	}
}

// Context2D is the drawing contract the renderer paints through. All
// coordinates are CSS pixels; implementations map them to device pixels.
type Context2D interface {
	// Clear resets a rectangle to fully transparent.
	Clear(x, y, w, h float64)
	FillRect(x, y, w, h float64, c gg.RGBA)
	StrokeLine(x1, y1, x2, y2, width float64, c gg.RGBA)
	StrokePolyline(pts []Point, width float64, c gg.RGBA)
	FillPolygon(pts []Point, c gg.RGBA)
	FillText(s string, x, y, size float64, align Align, c gg.RGBA)
	// ClipRect restricts subsequent shape drawing to a rectangle until
	// ResetClip.
	ClipRect(x, y, w, h float64)
	ResetClip()
}
