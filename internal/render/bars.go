package render

import (
	"math"

	"github.com/theirongolddev/gantt/internal/grid"
	"github.com/theirongolddev/gantt/internal/task"
	"github.com/theirongolddev/gantt/internal/viewport"
)

const (
	// BarInset is the vertical gap between a bar and its row edges.
	BarInset = 3.0
	// MinBarWidth keeps zero-length items visible.
	MinBarWidth = 2.0
)

// Bar is the world-space rectangle of one item. Y is relative to the top
// of the body, below the header.
type Bar struct {
	ID     int64
	Row    int
	X, Y   float64
	Width  float64
	Height float64
	Item   task.Item
}

// Right is the x of the bar's right edge.
func (b Bar) Right() float64 { return b.X + b.Width }

// CenterY is the vertical middle of the bar.
func (b Bar) CenterY() float64 { return b.Y + b.Height/2 }

// BarFor places item at row under viewport v.
func BarFor(it task.Item, row int, v viewport.Viewport) Bar {
	x := v.XForTime(it.Start.Time)
	w := math.Max(viewport.DaysBetween(it.Start.Time, it.End.Time)*v.DayWidth(), MinBarWidth)
	return Bar{
		ID:     it.ID,
		Row:    row,
		X:      x,
		Y:      float64(row)*v.RowHeight + BarInset,
		Width:  w,
		Height: math.Max(v.RowHeight-2*BarInset, 1),
		Item:   it,
	}
}

// ComputeBars returns the bars of rows in r that intersect the horizontal
// window of v.
func ComputeBars(d *task.Dataset, v viewport.Viewport, r grid.VisibleRange) []Bar {
	end := min(r.EndRow, d.Len())
	if r.StartRow >= end {
		return nil
	}
	left, right := v.ScrollLeft, v.ScrollLeft+v.Width
	bars := make([]Bar, 0, end-r.StartRow)
	for row := r.StartRow; row < end; row++ {
		b := BarFor(d.Items[row], row, v)
		if b.Right() < left || b.X > right {
			continue
		}
		bars = append(bars, b)
	}
	return bars
}
