package grid

import (
	"fmt"
	"strconv"
	"time"

	"github.com/theirongolddev/gantt/internal/viewport"
)

// Tick marks one column of the time axis.
type Tick struct {
	ColumnIndex  int       `json:"column"`
	PixelX       float64   `json:"x"`
	Date         time.Time `json:"date"`
	IsMonthStart bool      `json:"month_start"`
}

// Weekend reports whether the tick falls on a Saturday or Sunday.
func (t Tick) Weekend() bool {
	wd := t.Date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DayStart reports whether the tick is the first column of its day. At
// zoom levels above 1 a day spans several columns and only the first one
// carries a day label.
func (t Tick) DayStart() bool {
	h, m, s := t.Date.Clock()
	return h == 0 && m == 0 && s == 0 && t.Date.Nanosecond() == 0
}

// DayLabel is the day-of-month text drawn in the header.
func (t Tick) DayLabel() string {
	return strconv.Itoa(t.Date.Day())
}

// Ticks returns one tick per column in [startCol, endCol).
func Ticks(v viewport.Viewport, startCol, endCol int) []Tick {
	if endCol <= startCol || v.Zoom <= 0 {
		return nil
	}
	ticks := make([]Tick, 0, endCol-startCol)
	for i := startCol; i < endCol; i++ {
		d := v.DateAt(i)
		ticks = append(ticks, Tick{
			ColumnIndex:  i,
			PixelX:       float64(i) * v.ColumnWidth,
			Date:         d,
			IsMonthStart: d.Day() == 1,
		})
	}
	return ticks
}

// MonthGroup is a contiguous run of ticks within one calendar month.
type MonthGroup struct {
	Month   time.Month `json:"month"`
	Year    int        `json:"year"`
	Label   string     `json:"label"`
	StartX  float64    `json:"start_x"`
	EndX    float64    `json:"end_x"`
	CenterX float64    `json:"center_x"`
	Ticks   int        `json:"ticks"`
}

// MonthGroups groups ticks by (month, year). Each group spans from its
// first tick's x to its last tick's x plus one column width, and its label
// is centered in that span.
func MonthGroups(ticks []Tick, columnWidth float64) []MonthGroup {
	var groups []MonthGroup
	for _, t := range ticks {
		y, m, _ := t.Date.Date()
		if n := len(groups); n > 0 && groups[n-1].Month == m && groups[n-1].Year == y {
			g := &groups[n-1]
			g.EndX = t.PixelX + columnWidth
			g.CenterX = (g.StartX + g.EndX) / 2
			g.Ticks++
			continue
		}
		groups = append(groups, MonthGroup{
			Month:   m,
			Year:    y,
			Label:   fmt.Sprintf("%s %d", m, y),
			StartX:  t.PixelX,
			EndX:    t.PixelX + columnWidth,
			CenterX: t.PixelX + columnWidth/2,
			Ticks:   1,
		})
	}
	return groups
}
