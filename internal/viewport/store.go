package viewport

import (
	"math"
	"time"
)

// GridProps is a partial update of the grid shape. Nil fields are left
// unchanged.
type GridProps struct {
	TotalRows    *int
	TotalColumns *int
	RowHeight    *float64
	ColumnWidth  *float64
	StartDate    *time.Time
}

// Store is the only writer of viewport state. It is not safe for
// concurrent use; the engine drives it from a single goroutine.
type Store struct {
	v       Viewport
	version uint64
}

// NewStore returns a store populated with default geometry anchored at
// the given start date.
func NewStore(start time.Time) *Store {
	return &Store{v: Viewport{
		Zoom:             1,
		DevicePixelRatio: 1,
		TotalRows:        DefaultTotalRows,
		TotalColumns:     DefaultTotalColumns,
		RowHeight:        DefaultRowHeight,
		ColumnWidth:      DefaultColumnWidth,
		StartDate:        Midnight(start),
	}}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Viewport {
	return s.v
}

// Version increases on every mutation that changes state.
func (s *Store) Version() uint64 {
	return s.version
}

// SetScroll clamps both offsets to be non-negative. Non-finite offsets
// become 0.
func (s *Store) SetScroll(x, y float64) {
	s.apply(func(v *Viewport) {
		v.ScrollLeft = nonNegative(x)
		v.ScrollTop = nonNegative(y)
	})
}

// SetZoom clamps z into [MinZoom, MaxZoom]. NaN is ignored.
func (s *Store) SetZoom(z float64) {
	if math.IsNaN(z) {
		return
	}
	s.apply(func(v *Viewport) {
		v.Zoom = ClampZoom(z)
	})
}

// SetSize clamps the CSS size to be non-negative and finite.
func (s *Store) SetSize(w, h float64) {
	s.apply(func(v *Viewport) {
		v.Width = nonNegative(w)
		v.Height = nonNegative(h)
	})
}

// SetDevicePixelRatio clamps d to at least MinDevicePixelRatio. Non-finite
// ratios fall back to it too.
func (s *Store) SetDevicePixelRatio(d float64) {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < MinDevicePixelRatio {
		d = MinDevicePixelRatio
	}
	s.apply(func(v *Viewport) {
		v.DevicePixelRatio = d
	})
}

// SetGridProps merges the non-nil fields of p. TotalColumns never shrinks;
// a smaller value is ignored. Non-positive row heights and column widths
// are ignored.
func (s *Store) SetGridProps(p GridProps) {
	s.apply(func(v *Viewport) {
		if p.TotalRows != nil {
			v.TotalRows = max(*p.TotalRows, 0)
		}
		if p.TotalColumns != nil && *p.TotalColumns > v.TotalColumns {
			v.TotalColumns = *p.TotalColumns
		}
		if p.RowHeight != nil && *p.RowHeight > 0 {
			v.RowHeight = *p.RowHeight
		}
		if p.ColumnWidth != nil && *p.ColumnWidth > 0 {
			v.ColumnWidth = *p.ColumnWidth
		}
		if p.StartDate != nil && !p.StartDate.IsZero() {
			v.StartDate = Midnight(*p.StartDate)
		}
	})
}

func (s *Store) apply(fn func(v *Viewport)) {
	next := s.v
	fn(&next)
	if next != s.v {
		s.v = next
		s.version++
	}
}

// ClampZoom bounds z into [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	return math.Min(MaxZoom, math.Max(MinZoom, z))
}

func nonNegative(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// Int and Float return pointers for building GridProps literals.
func Int(n int) *int { return &n }

func Float(f float64) *float64 { return &f }
