package surface

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"
)

// Canvas is a raster surface whose backing store is sized in device
// pixels while drawing happens in CSS pixels.
type Canvas struct {
	ctx    *gg.Context
	fonts  *Fonts
	cssW   float64
	cssH   float64
	dpr    float64
	closed bool
}

// NewCanvas returns an unsized canvas. It has no drawable context until
// the first Resize. fonts may be nil, in which case text is not drawn.
func NewCanvas(fonts *Fonts) *Canvas {
	return &Canvas{fonts: fonts, dpr: 1}
}

// BackingDims returns the device pixel size for a CSS size and ratio:
// ceil(css*dpr) on each axis, never less than one pixel.
func BackingDims(cssW, cssH, dpr float64) (int, int) {
	if dpr < 1 || math.IsNaN(dpr) {
		dpr = 1
	}
	w := int(math.Ceil(math.Max(0, cssW) * dpr))
	h := int(math.Ceil(math.Max(0, cssH) * dpr))
	return max(1, w), max(1, h)
}

// Resize sets the backing store for a CSS size at ratio dpr and resets the
// transform so one CSS unit maps to dpr device pixels.
func (c *Canvas) Resize(cssW, cssH, dpr float64) error {
	if c.closed {
		return fmt.Errorf("resize: canvas closed")
	}
	if dpr < 1 || math.IsNaN(dpr) {
		dpr = 1
	}
	bw, bh := BackingDims(cssW, cssH, dpr)
	if c.ctx == nil {
		c.ctx = gg.NewContext(bw, bh)
	} else if err := c.ctx.Resize(bw, bh); err != nil {
		return fmt.Errorf("resizing backing store to %dx%d: %w", bw, bh, err)
	}
	c.cssW, c.cssH, c.dpr = math.Max(0, cssW), math.Max(0, cssH), dpr

	// gg keeps the matrix across Resize; a ratio change must not compound.
	c.ctx.Identity()
	c.ctx.Scale(dpr, dpr)
	return nil
}

// BackingSize is the device pixel size, or 0x0 before the first Resize.
func (c *Canvas) BackingSize() (int, int) {
	if c.ctx == nil {
		return 0, 0
	}
	return c.ctx.Width(), c.ctx.Height()
}

// CSSSize is the logical size last passed to Resize.
func (c *Canvas) CSSSize() (float64, float64) { return c.cssW, c.cssH }

// DevicePixelRatio is the ratio last passed to Resize.
func (c *Canvas) DevicePixelRatio() float64 { return c.dpr }

// Context returns the drawing context, or ok=false when the canvas has
// never been sized or is closed.
func (c *Canvas) Context() (Context2D, bool) {
	if c.ctx == nil || c.closed {
		return nil, false
	}
	return &ggContext{c: c}, true
}

// Pixels returns the live RGBA backing buffer.
func (c *Canvas) Pixels() []uint8 {
	if c.ctx == nil {
		return nil
	}
	return c.ctx.ResizeTarget().Data()
}

// Pixel returns the color of one device pixel.
func (c *Canvas) Pixel(x, y int) gg.RGBA {
	if c.ctx == nil {
		return gg.Transparent
	}
	return c.ctx.ResizeTarget().GetPixel(x, y)
}

// Image returns a copy of the backing store.
func (c *Canvas) Image() image.Image {
	if c.ctx == nil {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	_ = c.ctx.FlushGPU()
	return c.ctx.Image()
}

// EncodePNG writes the backing store as a PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if c.ctx == nil {
		return fmt.Errorf("encode png: canvas not sized")
	}
	_ = c.ctx.FlushGPU()
	return c.ctx.EncodePNG(w)
}

// Close releases the drawing context. Further Context calls report !ok.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.ctx != nil {
		return c.ctx.Close()
	}
	return nil
}

// ggContext adapts a Canvas to Context2D.
type ggContext struct {
	c *Canvas
}

func (g *ggContext) Clear(x, y, w, h float64) {
	ctx := g.c.ctx
	x0, y0 := ctx.TransformPoint(x, y)
	x1, y1 := ctx.TransformPoint(x+w, y+h)
	px := ctx.ResizeTarget()
	ix0 := clampInt(int(math.Floor(x0)), 0, px.Width())
	iy0 := clampInt(int(math.Floor(y0)), 0, px.Height())
	ix1 := clampInt(int(math.Ceil(x1)), 0, px.Width())
	iy1 := clampInt(int(math.Ceil(y1)), 0, px.Height())
	if ix0 == 0 && iy0 == 0 && ix1 == px.Width() && iy1 == px.Height() {
		ctx.Clear()
		return
	}
	data := px.Data()
	stride := px.Width() * 4
	for row := iy0; row < iy1; row++ {
		clear(data[row*stride+ix0*4 : row*stride+ix1*4])
	}
}

func (g *ggContext) FillRect(x, y, w, h float64, c gg.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	ctx := g.c.ctx
	ctx.SetRGBA(c.R, c.G, c.B, c.A)
	ctx.DrawRectangle(x, y, w, h)
	_ = ctx.Fill()
}

func (g *ggContext) StrokeLine(x1, y1, x2, y2, width float64, c gg.RGBA) {
	ctx := g.c.ctx
	ctx.SetRGBA(c.R, c.G, c.B, c.A)
	ctx.SetLineWidth(width)
	ctx.DrawLine(x1, y1, x2, y2)
	_ = ctx.Stroke()
}

func (g *ggContext) StrokePolyline(pts []Point, width float64, c gg.RGBA) {
	if len(pts) < 2 {
		return
	}
	ctx := g.c.ctx
	ctx.SetRGBA(c.R, c.G, c.B, c.A)
	ctx.SetLineWidth(width)
	ctx.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		ctx.LineTo(p.X, p.Y)
	}
	_ = ctx.Stroke()
}

func (g *ggContext) FillPolygon(pts []Point, c gg.RGBA) {
	if len(pts) < 3 {
		return
	}
	ctx := g.c.ctx
	ctx.SetRGBA(c.R, c.G, c.B, c.A)
	ctx.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		ctx.LineTo(p.X, p.Y)
	}
	ctx.ClosePath()
	_ = ctx.Fill()
}

// FillText draws glyphs in device space: gg rasterizes text without the
// current matrix, so the anchor is transformed by hand and the face is
// sized for the device ratio.
func (g *ggContext) FillText(s string, x, y, size float64, align Align, c gg.RGBA) {
	if s == "" || g.c.fonts == nil || size <= 0 {
		return
	}
	ctx := g.c.ctx
	dx, dy := ctx.TransformPoint(x, y)
	ctx.SetFont(g.c.fonts.Face(size * g.c.dpr))
	ctx.SetRGBA(c.R, c.G, c.B, c.A)
	ctx.DrawStringAnchored(s, dx, dy, align.anchor(), 0.35)
}

func (g *ggContext) ClipRect(x, y, w, h float64) {
	g.c.ctx.ClipRect(x, y, w, h)
}

func (g *ggContext) ResetClip() {
	g.c.ctx.ResetClip()
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
