package surface

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/gogpu/gg"
)

func TestBackingDims(t *testing.T) {
	tests := []struct {
		name         string
		w, h, dpr    float64
		wantW, wantH int
	}{
		{"unit ratio", 800, 600, 1, 800, 600},
		{"retina", 800, 600, 2, 1600, 1200},
		{"fractional", 101, 33, 1.5, 152, 50},
		{"zero size", 0, 0, 2, 1, 1},
		{"ratio below one", 10, 10, 0.5, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := BackingDims(tt.w, tt.h, tt.dpr)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("BackingDims(%v, %v, %v) = %dx%d, want %dx%d",
					tt.w, tt.h, tt.dpr, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestCanvasContextBeforeResize(t *testing.T) {
	c := NewCanvas(nil)
	if _, ok := c.Context(); ok {
		t.Error("Context() ok before Resize, want !ok")
	}
	if w, h := c.BackingSize(); w != 0 || h != 0 {
		t.Errorf("BackingSize() = %dx%d before Resize", w, h)
	}
}

func TestCanvasContextAfterClose(t *testing.T) {
	c := NewCanvas(nil)
	if err := c.Resize(10, 10, 1); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, ok := c.Context(); ok {
		t.Error("Context() ok after Close")
	}
	if err := c.Resize(20, 20, 1); err == nil {
		t.Error("Resize() after Close should fail")
	}
}

func TestCSSToDeviceMapping(t *testing.T) {
	c := NewCanvas(nil)
	if err := c.Resize(800, 600, 2); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if w, h := c.BackingSize(); w != 1600 || h != 1200 {
		t.Fatalf("BackingSize() = %dx%d, want 1600x1200", w, h)
	}

	ctx, ok := c.Context()
	if !ok {
		t.Fatal("Context() !ok")
	}
	ctx.FillRect(10, 10, 50, 50, gg.RGB(1, 0, 0))

	inside := [][2]int{{21, 21}, {70, 70}, {118, 118}}
	for _, p := range inside {
		if px := c.Pixel(p[0], p[1]); px.A < 0.99 || px.R < 0.99 {
			t.Errorf("device pixel %v = %+v, want opaque red", p, px)
		}
	}
	outside := [][2]int{{18, 18}, {122, 122}, {60, 10}}
	for _, p := range outside {
		if px := c.Pixel(p[0], p[1]); px.A != 0 {
			t.Errorf("device pixel %v = %+v, want transparent", p, px)
		}
	}
}

func TestResizeDoesNotCompoundScale(t *testing.T) {
	c := NewCanvas(nil)
	for _, dpr := range []float64{2, 3, 2} {
		if err := c.Resize(100, 100, dpr); err != nil {
			t.Fatalf("Resize() error = %v", err)
		}
	}
	ctx, _ := c.Context()
	ctx.FillRect(10, 10, 10, 10, gg.RGB(0, 0, 1))

	if px := c.Pixel(25, 25); px.A < 0.99 {
		t.Errorf("pixel (25,25) = %+v, want filled at ratio 2", px)
	}
	if px := c.Pixel(45, 45); px.A != 0 {
		t.Errorf("pixel (45,45) = %+v, want empty at ratio 2", px)
	}
}

func TestClearRect(t *testing.T) {
	c := NewCanvas(nil)
	if err := c.Resize(20, 20, 1); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	ctx, _ := c.Context()
	ctx.FillRect(0, 0, 20, 20, gg.RGB(0, 1, 0))
	ctx.Clear(0, 0, 10, 20)

	if px := c.Pixel(5, 5); px.A != 0 {
		t.Errorf("cleared pixel = %+v, want transparent", px)
	}
	if px := c.Pixel(15, 5); px.A < 0.99 {
		t.Errorf("uncleared pixel = %+v, want green", px)
	}

	ctx.Clear(0, 0, 20, 20)
	if px := c.Pixel(15, 5); px.A != 0 {
		t.Errorf("pixel after full clear = %+v, want transparent", px)
	}
}

func TestTextUsesFonts(t *testing.T) {
	fonts, err := LoadFonts()
	if err != nil {
		t.Fatalf("LoadFonts() error = %v", err)
	}
	defer fonts.Close()

	c := NewCanvas(fonts)
	if err := c.Resize(120, 40, 2); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	ctx, _ := c.Context()
	ctx.FillText("January 2025", 60, 20, 12, AlignCenter, gg.Black)

	var painted int
	pix := c.Pixels()
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 0 {
			painted++
		}
	}
	if painted == 0 {
		t.Error("FillText() painted no pixels")
	}
}

func TestEncodePNG(t *testing.T) {
	c := NewCanvas(nil)
	if err := c.Resize(30, 20, 2); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 60 || b.Dy() != 40 {
		t.Errorf("PNG size = %dx%d, want 60x40", b.Dx(), b.Dy())
	}
}
