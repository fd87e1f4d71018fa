package viewer

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/muesli/termenv"
)

// upperHalf paints the top pixel of a cell in the foreground color and
// the bottom pixel in the background color.
const upperHalf = "▀"

// asciiRamp maps luminance to glyphs when the terminal has no colors.
const asciiRamp = " .:-=+*#%@"

// Encoder turns an image into terminal lines, two pixels per cell.
type Encoder struct {
	Profile termenv.Profile

	colors map[color.RGBA]termenv.Color
}

// NewEncoder returns an encoder for a color profile.
func NewEncoder(p termenv.Profile) *Encoder {
	return &Encoder{Profile: p, colors: make(map[color.RGBA]termenv.Color)}
}

// Encode scales img into cols×rows cells. Each cell averages the image
// area it covers, split into a top and a bottom half. A nil image gives
// blank lines.
func (e *Encoder) Encode(img image.Image, cols, rows int) []string {
	if rows <= 0 {
		return nil
	}
	lines := make([]string, rows)
	if img == nil || cols <= 0 || img.Bounds().Empty() {
		blank := strings.Repeat(" ", max(cols, 0))
		for i := range lines {
			lines[i] = blank
		}
		return lines
	}

	b := img.Bounds()
	var sb strings.Builder
	for r := 0; r < rows; r++ {
		sb.Reset()
		for c := 0; c < cols; c++ {
			top := average(img, box(b, c, 2*r, cols, 2*rows))
			bottom := average(img, box(b, c, 2*r+1, cols, 2*rows))
			sb.WriteString(e.cell(top, bottom))
		}
		lines[r] = sb.String()
	}
	return lines
}

func (e *Encoder) cell(top, bottom color.RGBA) string {
	if e.Profile == termenv.Ascii {
		l := (luminance(top) + luminance(bottom)) / 2
		i := int(l*float64(len(asciiRamp)-1) + 0.5)
		return string(asciiRamp[i])
	}
	if top == bottom {
		return e.Profile.String(" ").Background(e.color(bottom)).String()
	}
	return e.Profile.String(upperHalf).
		Foreground(e.color(top)).
		Background(e.color(bottom)).
		String()
}

func (e *Encoder) color(c color.RGBA) termenv.Color {
	if tc, ok := e.colors[c]; ok {
		return tc
	}
	if e.colors == nil {
		e.colors = make(map[color.RGBA]termenv.Color)
	}
	tc := e.Profile.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	e.colors[c] = tc
	return tc
}

// box is the pixel area of sub-cell (c, r) on a cols×rows grid over b.
func box(b image.Rectangle, c, r, cols, rows int) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	x0, x1 := b.Min.X+c*w/cols, b.Min.X+(c+1)*w/cols
	y0, y1 := b.Min.Y+r*h/rows, b.Min.Y+(r+1)*h/rows
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return image.Rect(x0, y0, x1, y1).Intersect(b)
}

func average(img image.Image, r image.Rectangle) color.RGBA {
	if r.Empty() {
		return color.RGBA{A: 0xff}
	}
	var sr, sg, sb, n uint64
	if rgba, ok := img.(*image.RGBA); ok {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			i := rgba.PixOffset(r.Min.X, y)
			for x := r.Min.X; x < r.Max.X; x++ {
				sr += uint64(rgba.Pix[i])
				sg += uint64(rgba.Pix[i+1])
				sb += uint64(rgba.Pix[i+2])
				i += 4
				n++
			}
		}
	} else {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				cr, cg, cb, _ := img.At(x, y).RGBA()
				sr += uint64(cr >> 8)
				sg += uint64(cg >> 8)
				sb += uint64(cb >> 8)
				n++
			}
		}
	}
	return color.RGBA{R: uint8(sr / n), G: uint8(sg / n), B: uint8(sb / n), A: 0xff}
}

func luminance(c color.RGBA) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}
