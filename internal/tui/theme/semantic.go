// Package theme provides the color themes shared by the raster chart and
// the terminal viewer. This file maps theme colors onto chart roles.
package theme

import "github.com/charmbracelet/lipgloss"

// ChartPalette provides role-based colors for chart layers.
type ChartPalette struct {
	Background lipgloss.Color // Body background
	Header     lipgloss.Color // Header band
	HeaderText lipgloss.Color // Month and day labels
	HeaderLine lipgloss.Color // Separator between header rows
	Weekend    lipgloss.Color // Weekend column shading
	GridMinor  lipgloss.Color // Day lines
	GridMajor  lipgloss.Color // Month-start lines
	RowLine    lipgloss.Color // Row separators

	Bar         lipgloss.Color // Bar body
	BarProgress lipgloss.Color // Completed share of a bar
	BarDone     lipgloss.Color // Fully completed bar
	BarText     lipgloss.Color // Label drawn inside a bar
	Route       lipgloss.Color // Dependency link
}

// Chart returns the chart role mapping for a theme. The Plain theme has no
// colors, so it falls back to Paper: raster output always needs concrete
// colors.
func (t Theme) Chart() ChartPalette {
	if t.Base == "" {
		t = Paper
	}
	p := ChartPalette{
		Background:  t.Base,
		Header:      t.Mantle,
		HeaderText:  t.Text,
		HeaderLine:  t.Surface1,
		Weekend:     t.Surface0,
		GridMinor:   t.Surface1,
		GridMajor:   t.Surface2,
		RowLine:     t.Surface1,
		Bar:         t.Blue,
		BarProgress: t.Lavender,
		BarDone:     t.Green,
		BarText:     t.Base,
		Route:       t.Overlay,
	}
	if t.Name == Paper.Name {
		// Light canvas: dark row lines, darker progress and white bar text.
		p.RowLine = lipgloss.Color("#e5e7eb")
		p.BarProgress = lipgloss.Color("#1d4ed8")
		p.BarText = lipgloss.Color("#ffffff")
		p.Route = lipgloss.Color("#6b7280")
	}
	return p
}

// Chart returns the chart palette of the current theme.
func Chart() ChartPalette {
	return Current().Chart()
}
