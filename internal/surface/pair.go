package surface

import (
	"errors"
	"fmt"
)

// Pair is a visible surface and its offscreen twin. Frames are painted
// into Offscreen and copied to Visible in one Blit, so a partially painted
// frame is never observable.
type Pair struct {
	Visible   *Canvas
	Offscreen *Canvas
}

// NewPair returns an unsized pair sharing fonts.
func NewPair(fonts *Fonts) *Pair {
	return &Pair{
		Visible:   NewCanvas(fonts),
		Offscreen: NewCanvas(fonts),
	}
}

// Resize resizes both surfaces identically. If the offscreen surface
// fails, the visible one is put back to its previous size. It panics if
// the backing sizes disagree afterwards, which would mean a blit could tear.
func (p *Pair) Resize(cssW, cssH, dpr float64) error {
	prevW, prevH := p.Visible.CSSSize()
	prevDPR := p.Visible.DevicePixelRatio()
	sized := p.Visible.ctx != nil

	if err := p.Visible.Resize(cssW, cssH, dpr); err != nil {
		return fmt.Errorf("visible surface: %w", err)
	}
	if err := p.Offscreen.Resize(cssW, cssH, dpr); err != nil {
		if sized {
			if rerr := p.Visible.Resize(prevW, prevH, prevDPR); rerr != nil {
				err = errors.Join(err, rerr)
			}
		}
		return fmt.Errorf("offscreen surface: %w", err)
	}
	vw, vh := p.Visible.BackingSize()
	ow, oh := p.Offscreen.BackingSize()
	if vw != ow || vh != oh {
		panic(fmt.Sprintf("surface: backing size mismatch after resize: visible %dx%d, offscreen %dx%d", vw, vh, ow, oh))
	}
	return nil
}

// Blit copies the offscreen backing store onto the visible one.
func (p *Pair) Blit() {
	dst := p.Visible.Pixels()
	src := p.Offscreen.Pixels()
	if len(dst) != len(src) {
		panic(fmt.Sprintf("surface: blit between buffers of %d and %d bytes", len(src), len(dst)))
	}
	if p.Offscreen.ctx != nil {
		_ = p.Offscreen.ctx.FlushGPU()
	}
	copy(dst, src)
}

// Close closes both surfaces.
func (p *Pair) Close() error {
	return errors.Join(p.Visible.Close(), p.Offscreen.Close())
}
