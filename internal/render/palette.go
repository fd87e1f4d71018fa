package render

import (
	"github.com/gogpu/gg"

	"github.com/theirongolddev/gantt/internal/tui/theme"
)

// Palette holds resolved colors for every chart layer.
type Palette struct {
	Background  gg.RGBA
	Header      gg.RGBA
	HeaderText  gg.RGBA
	HeaderLine  gg.RGBA
	Weekend     gg.RGBA
	GridMinor   gg.RGBA
	GridMajor   gg.RGBA
	RowLine     gg.RGBA
	Bar         gg.RGBA
	BarProgress gg.RGBA
	BarDone     gg.RGBA
	BarText     gg.RGBA
	Route       gg.RGBA
}

// NewPalette resolves a theme's chart roles.
func NewPalette(t theme.Theme) Palette {
	c := t.Chart()
	return Palette{
		Background:  gg.Hex(string(c.Background)),
		Header:      gg.Hex(string(c.Header)),
		HeaderText:  gg.Hex(string(c.HeaderText)),
		HeaderLine:  gg.Hex(string(c.HeaderLine)),
		Weekend:     gg.Hex(string(c.Weekend)),
		GridMinor:   gg.Hex(string(c.GridMinor)),
		GridMajor:   gg.Hex(string(c.GridMajor)),
		RowLine:     gg.Hex(string(c.RowLine)),
		Bar:         gg.Hex(string(c.Bar)),
		BarProgress: gg.Hex(string(c.BarProgress)),
		BarDone:     gg.Hex(string(c.BarDone)),
		BarText:     gg.Hex(string(c.BarText)),
		Route:       gg.Hex(string(c.Route)),
	}
}

// DefaultPalette is the paper look.
func DefaultPalette() Palette {
	return NewPalette(theme.Paper)
}
