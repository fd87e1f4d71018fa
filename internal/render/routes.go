package render

import (
	"fmt"
	"math"

	"github.com/theirongolddev/gantt/internal/grid"
	"github.com/theirongolddev/gantt/internal/logging"
	"github.com/theirongolddev/gantt/internal/surface"
	"github.com/theirongolddev/gantt/internal/task"
	"github.com/theirongolddev/gantt/internal/viewport"
)

// routeStub is the horizontal run leaving and entering a bar.
const routeStub = 8.0

// Route is a dependency link drawn as a polyline from the right-center of
// the dependency bar to the left-center of the dependent bar. Points are
// in world space with y relative to the body.
type Route struct {
	ID     string
	From   int64
	To     int64
	Points []surface.Point
}

// RouteID names the link from one item to another.
func RouteID(from, to int64) string {
	return fmt.Sprintf("%d->%d", from, to)
}

// RoutePoints lays out an elbow between two bars. When the dependent
// starts far enough right of the dependency the path is a single elbow;
// otherwise it wraps back around between the two rows.
func RoutePoints(from, to Bar) []surface.Point {
	sx, sy := from.Right(), from.CenterY()
	ex, ey := to.X, to.CenterY()

	if ex-sx >= 2*routeStub {
		mx := sx + routeStub
		return []surface.Point{{X: sx, Y: sy}, {X: mx, Y: sy}, {X: mx, Y: ey}, {X: ex, Y: ey}}
	}

	// Row boundary between the two bars.
	my := (sy + ey) / 2
	if from.Row != to.Row {
		if to.Row > from.Row {
			my = from.Y + from.Height + BarInset
		} else {
			my = from.Y - BarInset
		}
	}
	return []surface.Point{
		{X: sx, Y: sy},
		{X: sx + routeStub, Y: sy},
		{X: sx + routeStub, Y: my},
		{X: ex - routeStub, Y: my},
		{X: ex - routeStub, Y: ey},
		{X: ex, Y: ey},
	}
}

// ComputeRoutes returns the links touching rows in r: links into visible
// dependents, and links out of visible dependencies whose dependent is off
// screen. Links naming unknown items are skipped and counted.
func ComputeRoutes(d *task.Dataset, v viewport.Viewport, r grid.VisibleRange) (routes []Route, skipped int) {
	end := min(r.EndRow, d.Len())
	if r.StartRow >= end {
		return nil, 0
	}
	seen := make(map[string]bool)
	left, right := v.ScrollLeft, v.ScrollLeft+v.Width

	add := func(fromRow, toRow int) {
		fromItem, toItem := d.Items[fromRow], d.Items[toRow]
		id := RouteID(fromItem.ID, toItem.ID)
		if seen[id] {
			return
		}
		seen[id] = true
		pts := RoutePoints(BarFor(fromItem, fromRow, v), BarFor(toItem, toRow, v))
		minX, maxX := math.Inf(1), math.Inf(-1)
		for _, p := range pts {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		}
		if maxX < left || minX > right {
			return
		}
		routes = append(routes, Route{ID: id, From: fromItem.ID, To: toItem.ID, Points: pts})
	}

	for row := r.StartRow; row < end; row++ {
		it := d.Items[row]
		for _, depID := range it.Dependencies {
			depRow, ok := d.Row(depID)
			if !ok {
				skipped++
				logging.Logger().Debug("skipping link to unknown item", "from", depID, "to", it.ID)
				continue
			}
			add(depRow, row)
		}
		for _, childID := range d.Dependents(it.ID) {
			childRow, ok := d.Row(childID)
			if !ok || r.ContainsRow(childRow) {
				continue
			}
			add(row, childRow)
		}
	}
	return routes, skipped
}
