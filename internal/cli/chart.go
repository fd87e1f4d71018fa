package cli

import (
	"time"

	"github.com/theirongolddev/gantt/internal/config"
	"github.com/theirongolddev/gantt/internal/engine"
	"github.com/theirongolddev/gantt/internal/output"
	"github.com/theirongolddev/gantt/internal/render"
	"github.com/theirongolddev/gantt/internal/task"
	"github.com/theirongolddev/gantt/internal/tui/theme"
	"github.com/theirongolddev/gantt/internal/viewport"
)

// demoCount is the size of the generated schedule used without a task file.
const demoCount = 200

// now is replaced in tests.
var now = time.Now

// loadTasks reads path, or builds the demo schedule when path is empty.
func loadTasks(path string, anchor time.Time) (*task.Dataset, error) {
	if path == "" {
		return task.NewDataset(task.Generate(task.GenerateOptions{
			Count:  demoCount,
			Seed:   1,
			Anchor: anchor,
		})), nil
	}
	d, err := task.Load(path)
	if err != nil {
		return nil, output.TaskFileError(path, err)
	}
	return d, nil
}

// startDate resolves column 0: the configured date, else the earliest
// item start, else today.
func startDate(c *config.Config, d *task.Dataset) (time.Time, error) {
	t, ok, err := c.StartDate()
	if err != nil {
		return time.Time{}, output.ConfigError(err)
	}
	if ok {
		return t, nil
	}
	if start, _, ok := d.Span(); ok {
		return viewport.Midnight(start), nil
	}
	n := now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC), nil
}

// engineConfig maps settings onto a chart config. Size and ticker are
// left to the caller.
func engineConfig(c *config.Config, start time.Time) engine.Config {
	t := theme.Resolve(c.Render.Theme)
	return engine.Config{
		StartDate:        start,
		RowHeight:        c.Grid.RowHeight,
		ColumnWidth:      c.Grid.ColumnWidth,
		TotalRows:        c.Grid.TotalRows,
		InitialColumns:   c.Grid.InitialColumns,
		InitialZoom:      c.Zoom.Initial,
		DevicePixelRatio: c.Render.DevicePixelRatio,
		ZoomStep:         c.Zoom.Step,
		ClampToExtent:    true,
		Growth:           c.GrowthPolicy(),
		Render: render.Options{
			HeaderHeight:  c.Grid.HeaderHeight,
			FontSize:      c.Render.FontSize,
			Palette:       render.NewPalette(t),
			HideBarLabels: c.Render.HideBarLabels,
			OverscanRows:  c.Overscan.Rows,
			OverscanCols:  c.Overscan.Columns,
		},
	}
}

func viewportResponse(v viewport.Viewport) output.ViewportResponse {
	return output.ViewportResponse{
		ScrollLeft:       v.ScrollLeft,
		ScrollTop:        v.ScrollTop,
		Width:            v.Width,
		Height:           v.Height,
		Zoom:             v.Zoom,
		DevicePixelRatio: v.DevicePixelRatio,
		TotalRows:        v.TotalRows,
		TotalColumns:     v.TotalColumns,
		StartDate:        v.StartDate.Format(task.DateLayout),
	}
}
