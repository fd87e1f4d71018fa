package grid

import (
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/gantt/internal/viewport"
)

func testViewport() viewport.Viewport {
	s := viewport.NewStore(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	s.SetSize(800, 600)
	s.SetGridProps(viewport.GridProps{TotalRows: viewport.Int(1000)})
	return s.Snapshot()
}

func TestComputeInitialWindow(t *testing.T) {
	v := testViewport()

	first, last := VisibleRows(v.ScrollTop, v.RowHeight, v.Height, v.TotalRows)
	if first != 0 || last != 18 {
		t.Errorf("VisibleRows() = (%d, %d), want (0, 18)", first, last)
	}

	start, end := VisibleCols(v.ScrollLeft, v.ColumnWidth, v.Width, v.TotalColumns)
	if start != 0 || end != 20 {
		t.Errorf("VisibleCols() = (%d, %d), want (0, 20)", start, end)
	}

	r := Compute(v)
	want := VisibleRange{StartRow: 0, EndRow: 19, StartCol: 0, EndCol: 20}
	if r != want {
		t.Errorf("Compute() = %v, want %v", r, want)
	}
}

func TestVisibleRows(t *testing.T) {
	tests := []struct {
		name      string
		top       float64
		height    float64
		total     int
		wantFirst int
		wantLast  int
	}{
		{"top", 0, 600, 1000, 0, 18},
		{"partial row", 40, 100, 1000, 1, 4},
		{"clamped at end", 32 * 995, 600, 1000, 995, 999},
		{"scrolled past extent", 1e9, 600, 1000, 999, 999},
		{"huge offset", 1e21, 600, 1000, 999, 999},
		{"infinite offset", math.Inf(1), 600, 1000, 999, 999},
		{"infinite height", 0, math.Inf(1), 1000, 0, 999},
		{"empty grid", 0, 600, 0, 0, -1},
		{"zero height", 64, 0, 10, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := VisibleRows(tt.top, 32, tt.height, tt.total)
			if first != tt.wantFirst || last != tt.wantLast {
				t.Errorf("VisibleRows(%v, 32, %v, %d) = (%d, %d), want (%d, %d)",
					tt.top, tt.height, tt.total, first, last, tt.wantFirst, tt.wantLast)
			}
		})
	}
}

func TestVisibleRowsMonotonic(t *testing.T) {
	prevFirst, prevLast := -1, -1
	for top := 0.0; top < 40000; top += 7 {
		first, last := VisibleRows(top, 32, 600, 1000)
		if first < prevFirst || last < prevLast {
			t.Fatalf("VisibleRows not monotonic at scrollTop=%v: (%d,%d) after (%d,%d)",
				top, first, last, prevFirst, prevLast)
		}
		if first < 0 || last > 999 || first > last {
			t.Fatalf("VisibleRows(%v) = (%d, %d) out of bounds", top, first, last)
		}
		prevFirst, prevLast = first, last
	}

	prevFirst, prevLast = -1, -1
	for _, top := range []float64{1e15, 1e18, 1e21, 1e300, math.MaxFloat64, math.Inf(1)} {
		first, last := VisibleRows(top, 32, 600, 100)
		if first < prevFirst || last < prevLast || first != 99 || last != 99 {
			t.Fatalf("VisibleRows(%v, 32, 600, 100) = (%d, %d), want (99, 99)", top, first, last)
		}
		prevFirst, prevLast = first, last
	}
}

func TestVisibleColsLinearInWidth(t *testing.T) {
	const total = 10000
	for w := 0.0; w <= 4000; w += 40 {
		start, end := VisibleCols(0, 40, w, total)
		if start != 0 {
			t.Fatalf("start = %d, want 0", start)
		}
		if want := int(w / 40); end-start != want {
			t.Errorf("width %v: %d columns, want %d", w, end-start, want)
		}
	}

	_, end := VisibleCols(0, 40, 1e6, 60)
	if end != 60 {
		t.Errorf("VisibleCols() end = %d, want clamp to 60", end)
	}
}

func TestVisibleColsPastExtent(t *testing.T) {
	for _, left := range []float64{1e6, 1e18, 1e21, math.Inf(1)} {
		start, end := VisibleCols(left, 40, 800, 60)
		if start != 60 || end != 60 {
			t.Errorf("VisibleCols(%v) = (%d, %d), want (60, 60)", left, start, end)
		}
	}
}

func TestBuffered(t *testing.T) {
	v := testViewport()
	v.ScrollTop = 32 * 100
	v.ScrollLeft = 40 * 10

	r := Buffered(v, 5, 10)
	want := VisibleRange{StartRow: 95, EndRow: 124, StartCol: 0, EndCol: 40}
	if r != want {
		t.Errorf("Buffered() = %v, want %v", r, want)
	}

	v.ScrollTop = 32 * 990
	r = Buffered(v, 5, 100)
	if r.EndRow != 1000 {
		t.Errorf("Buffered() EndRow = %d, want 1000", r.EndRow)
	}
	if r.EndCol != v.TotalColumns {
		t.Errorf("Buffered() EndCol = %d, want %d", r.EndCol, v.TotalColumns)
	}
}

func TestMaxScroll(t *testing.T) {
	v := testViewport()
	x, y := MaxScroll(v, 44)
	if x != 60*40-800 {
		t.Errorf("MaxScroll() x = %v, want %v", x, 60*40-800)
	}
	if y != 44+1000*32-600 {
		t.Errorf("MaxScroll() y = %v, want %v", y, 44+1000*32-600)
	}

	v.Width = 1e5
	if x, _ := MaxScroll(v, 44); x != 0 {
		t.Errorf("MaxScroll() x = %v, want 0 when viewport exceeds content", x)
	}
}
