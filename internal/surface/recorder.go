package surface

import (
	"fmt"
	"strings"

	"github.com/gogpu/gg"
)

// OpKind names a recorded drawing call.
type OpKind string

const (
	OpClear     OpKind = "clear"
	OpFillRect  OpKind = "fill_rect"
	OpLine      OpKind = "line"
	OpPolyline  OpKind = "polyline"
	OpPolygon   OpKind = "polygon"
	OpText      OpKind = "text"
	OpClip      OpKind = "clip"
	OpResetClip OpKind = "reset_clip"
)

// Op is one recorded drawing call in CSS pixels.
type Op struct {
	Kind   OpKind
	X, Y   float64
	W, H   float64
	Points []Point
	Width  float64
	Text   string
	Size   float64
	Align  Align
	Color  gg.RGBA
}

func (o Op) String() string {
	switch o.Kind {
	case OpText:
		return fmt.Sprintf("%s %q @(%g,%g)", o.Kind, o.Text, o.X, o.Y)
	case OpPolyline, OpPolygon:
		return fmt.Sprintf("%s %v", o.Kind, o.Points)
	default:
		return fmt.Sprintf("%s (%g,%g %gx%g)", o.Kind, o.X, o.Y, o.W, o.H)
	}
}

// Recorder is a Context2D that records every call instead of drawing.
type Recorder struct {
	Ops []Op
}

func (r *Recorder) Clear(x, y, w, h float64) {
	r.Ops = append(r.Ops, Op{Kind: OpClear, X: x, Y: y, W: w, H: h})
}

func (r *Recorder) FillRect(x, y, w, h float64, c gg.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpFillRect, X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) StrokeLine(x1, y1, x2, y2, width float64, c gg.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, X: x1, Y: y1, W: x2 - x1, H: y2 - y1, Width: width, Color: c})
}

func (r *Recorder) StrokePolyline(pts []Point, width float64, c gg.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpPolyline, Points: append([]Point(nil), pts...), Width: width, Color: c})
}

func (r *Recorder) FillPolygon(pts []Point, c gg.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpPolygon, Points: append([]Point(nil), pts...), Color: c})
}

func (r *Recorder) FillText(s string, x, y, size float64, align Align, c gg.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Text: s, X: x, Y: y, Size: size, Align: align, Color: c})
}

func (r *Recorder) ClipRect(x, y, w, h float64) {
	r.Ops = append(r.Ops, Op{Kind: OpClip, X: x, Y: y, W: w, H: h})
}

func (r *Recorder) ResetClip() {
	r.Ops = append(r.Ops, Op{Kind: OpResetClip})
}

// Kinds returns the ops filtered to one kind.
func (r *Recorder) Kinds(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Texts returns the strings of all text ops in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Kinds(OpText) {
		out = append(out, op.Text)
	}
	return out
}

// Reset drops all recorded ops.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

func (r *Recorder) String() string {
	var sb strings.Builder
	for _, op := range r.Ops {
		sb.WriteString(op.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
