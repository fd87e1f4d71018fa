// Package viewport holds the single source of truth for scroll, zoom and
// surface geometry of a chart. All mutations go through Store; readers get
// an immutable Viewport value.
package viewport

import (
	"math"
	"time"
)

const (
	// MinZoom and MaxZoom bound the columns-per-day factor.
	MinZoom = 0.25
	MaxZoom = 256.0

	// MinDevicePixelRatio is the smallest accepted backing scale.
	MinDevicePixelRatio = 1.0

	DefaultRowHeight    = 32.0
	DefaultColumnWidth  = 40.0
	DefaultTotalRows    = 100
	DefaultTotalColumns = 60
)

// Viewport is a snapshot of the store. It is passed by value to every
// layer of a frame so all layers agree on the same geometry.
type Viewport struct {
	ScrollLeft float64
	ScrollTop  float64
	Zoom       float64

	// Width and Height are CSS pixels.
	Width  float64
	Height float64

	DevicePixelRatio float64

	TotalRows    int
	TotalColumns int
	RowHeight    float64
	ColumnWidth  float64

	// StartDate is the calendar date of column 0, at midnight.
	StartDate time.Time
}

// DayWidth is the world width in pixels of one calendar day at the
// current zoom.
func (v Viewport) DayWidth() float64 {
	return v.Zoom * v.ColumnWidth
}

// DateAt returns the calendar date of a column index.
func (v Viewport) DateAt(col int) time.Time {
	days := float64(col) / v.Zoom
	whole := math.Floor(days)
	frac := days - whole
	d := v.StartDate.AddDate(0, 0, int(whole))
	if frac > 0 {
		d = d.Add(time.Duration(frac * float64(24*time.Hour)))
	}
	return d
}

// XForTime maps a point in time to a world x coordinate.
func (v Viewport) XForTime(t time.Time) float64 {
	return DaysBetween(v.StartDate, t) * v.DayWidth()
}

// DaysBetween returns the signed number of days from a to b, counting
// calendar days so DST shifts do not produce fractional results.
func DaysBetween(a, b time.Time) float64 {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	days := db.Sub(da).Hours() / 24

	// Sub-day offsets (zoomed-in ticks, timed items).
	days += sinceMidnight(b) - sinceMidnight(a)
	return days
}

func sinceMidnight(t time.Time) float64 {
	h, m, s := t.Clock()
	return (float64(h)*3600 + float64(m)*60 + float64(s) + float64(t.Nanosecond())/1e9) / 86400
}

// Midnight truncates t to the start of its calendar day in its own location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
