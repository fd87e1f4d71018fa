// Package grid maps a viewport snapshot onto the rows and columns that
// intersect it, and generates the calendar ticks for those columns.
package grid

import (
	"fmt"
	"math"

	"github.com/theirongolddev/gantt/internal/viewport"
)

// VisibleRange is a half-open window of rows and columns:
// [StartRow, EndRow) x [StartCol, EndCol).
type VisibleRange struct {
	StartRow int `json:"start_row"`
	EndRow   int `json:"end_row"`
	StartCol int `json:"start_col"`
	EndCol   int `json:"end_col"`
}

// Rows is the number of rows in the range.
func (r VisibleRange) Rows() int { return r.EndRow - r.StartRow }

// Cols is the number of columns in the range.
func (r VisibleRange) Cols() int { return r.EndCol - r.StartCol }

// Empty reports whether the range covers no cells.
func (r VisibleRange) Empty() bool { return r.Rows() <= 0 || r.Cols() <= 0 }

// ContainsRow reports whether row lies inside the range.
func (r VisibleRange) ContainsRow(row int) bool {
	return row >= r.StartRow && row < r.EndRow
}

func (r VisibleRange) String() string {
	return fmt.Sprintf("rows [%d,%d) cols [%d,%d)", r.StartRow, r.EndRow, r.StartCol, r.EndCol)
}

// VisibleRows returns the inclusive row interval intersecting the vertical
// window [scrollTop, scrollTop+viewportHeight]. With no rows it returns
// (0, -1).
func VisibleRows(scrollTop, rowHeight, viewportHeight float64, totalRows int) (first, last int) {
	if totalRows <= 0 || rowHeight <= 0 {
		return 0, -1
	}
	first = max(0, floorInt(scrollTop/rowHeight))
	last = min(totalRows-1, floorInt((scrollTop+viewportHeight)/rowHeight))
	if first > last {
		first = last
	}
	return first, last
}

// VisibleCols returns the half-open column interval intersecting the
// horizontal window [scrollLeft, scrollLeft+viewportWidth).
func VisibleCols(scrollLeft, columnWidth, viewportWidth float64, totalColumns int) (start, end int) {
	if totalColumns <= 0 || columnWidth <= 0 {
		return 0, 0
	}
	end = min(ceilInt((scrollLeft+viewportWidth)/columnWidth), totalColumns)
	end = max(end, 0)
	start = min(max(0, floorInt(scrollLeft/columnWidth)), end)
	return start, end
}

// Compute derives the visible window of v.
func Compute(v viewport.Viewport) VisibleRange {
	var r VisibleRange
	first, last := VisibleRows(v.ScrollTop, v.RowHeight, v.Height, v.TotalRows)
	if last >= 0 {
		r.StartRow, r.EndRow = first, last+1
	}
	r.StartCol, r.EndCol = VisibleCols(v.ScrollLeft, v.ColumnWidth, v.Width, v.TotalColumns)
	return r
}

// Buffered widens the visible window of v by an overscan margin on each
// side, clamped to the grid.
func Buffered(v viewport.Viewport, overscanRows, overscanCols int) VisibleRange {
	r := Compute(v)
	if r.EndRow > r.StartRow {
		r.StartRow = max(0, r.StartRow-overscanRows)
		r.EndRow = min(v.TotalRows, r.EndRow+overscanRows)
	}
	r.StartCol = max(0, r.StartCol-overscanCols)
	r.EndCol = min(v.TotalColumns, r.EndCol+overscanCols)
	return r
}

// Extent is the scrollable content size: every column and row plus the
// header band.
func Extent(v viewport.Viewport, headerHeight float64) (width, height float64) {
	return float64(v.TotalColumns) * v.ColumnWidth, headerHeight + float64(v.TotalRows)*v.RowHeight
}

// MaxScroll returns the largest scroll offsets that keep the viewport
// inside the content extent.
func MaxScroll(v viewport.Viewport, headerHeight float64) (x, y float64) {
	w, h := Extent(v, headerHeight)
	return math.Max(0, w-v.Width), math.Max(0, h-v.Height)
}

// maxIndex bounds float indices before conversion so huge or infinite
// offsets saturate instead of wrapping.
const maxIndex = 1 << 53

func floorInt(f float64) int {
	return toIndex(math.Floor(f))
}

func ceilInt(f float64) int {
	return toIndex(math.Ceil(f))
}

func toIndex(f float64) int {
	if math.IsNaN(f) {
		return 0
	}
	return int(math.Max(-maxIndex, math.Min(maxIndex, f)))
}
