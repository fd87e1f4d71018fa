package cli

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gantt/internal/grid"
	"github.com/theirongolddev/gantt/internal/output"
	"github.com/theirongolddev/gantt/internal/task"
	"github.com/theirongolddev/gantt/internal/util"
	"github.com/theirongolddev/gantt/internal/viewport"
)

type rangeOptions struct {
	size       string
	zoom       float64
	scrollLeft float64
	scrollTop  float64
	columns    int
}

func newRangeCmd() *cobra.Command {
	opts := rangeOptions{}
	cmd := &cobra.Command{
		Use:   "range [tasks-file]",
		Short: "Show the rows, columns and ticks visible at a scroll offset",
		Long: `Range computes what a viewport would draw without painting it: the
visible and overscan windows, the day ticks and the month bands.

Examples:
  gantt range tasks.json --scroll-left 4000
  gantt range tasks.json --size 800x400 --zoom 2 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return runRange(cmd.OutOrStdout(), path, opts)
		},
	}
	cmd.Flags().StringVar(&opts.size, "size", "1200x800", "viewport size in CSS pixels")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", 0, "columns per day (default from config)")
	cmd.Flags().Float64Var(&opts.scrollLeft, "scroll-left", 0, "horizontal scroll offset in pixels")
	cmd.Flags().Float64Var(&opts.scrollTop, "scroll-top", 0, "vertical scroll offset in pixels")
	cmd.Flags().IntVar(&opts.columns, "columns", 0, "total columns (default from config)")
	return cmd
}

func runRange(w io.Writer, path string, opts rangeOptions) error {
	c := settings()
	width, height, err := util.ParseSize(opts.size)
	if err != nil {
		return err
	}
	d, err := loadTasks(path, now())
	if err != nil {
		return err
	}
	start, err := startDate(c, d)
	if err != nil {
		return err
	}

	rows := c.Grid.TotalRows
	if rows == 0 {
		rows = d.Len()
	}
	cols := c.Grid.InitialColumns
	if opts.columns > 0 {
		cols = opts.columns
	}
	store := viewport.NewStore(start)
	store.SetGridProps(viewport.GridProps{
		TotalRows:    viewport.Int(rows),
		TotalColumns: viewport.Int(cols),
		RowHeight:    viewport.Float(c.Grid.RowHeight),
		ColumnWidth:  viewport.Float(c.Grid.ColumnWidth),
	})
	store.SetSize(width, height)
	zoom := c.Zoom.Initial
	if opts.zoom > 0 {
		zoom = opts.zoom
	}
	store.SetZoom(zoom)
	maxX, maxY := grid.MaxScroll(store.Snapshot(), c.Grid.HeaderHeight)
	store.SetScroll(math.Min(opts.scrollLeft, maxX), math.Min(opts.scrollTop, maxY))

	v := store.Snapshot()
	visible := grid.Compute(v)
	ticks := grid.Ticks(v, visible.StartCol, visible.EndCol)
	resp := output.RangeResponse{
		TimestampedResponse: output.NewTimestamped(),
		Viewport:            viewportResponse(v),
		Visible:             visible,
		Buffered:            grid.Buffered(v, c.Overscan.Rows, c.Overscan.Columns),
		Ticks:               ticks,
		Months:              grid.MonthGroups(ticks, v.ColumnWidth),
	}
	return formatter(w).OutputData(resp, func(w io.Writer) error {
		return writeRangeText(w, resp, d)
	})
}

func writeRangeText(w io.Writer, r output.RangeResponse, d *task.Dataset) error {
	vis := r.Visible
	fmt.Fprintf(w, "Viewport %gx%g at (%g, %g), zoom %g\n",
		r.Viewport.Width, r.Viewport.Height, r.Viewport.ScrollLeft, r.Viewport.ScrollTop, r.Viewport.Zoom)
	fmt.Fprintf(w, "Visible  %s\n", vis)
	fmt.Fprintf(w, "Buffered %s\n", r.Buffered)
	if len(r.Ticks) > 0 {
		first, last := r.Ticks[0], r.Ticks[len(r.Ticks)-1]
		fmt.Fprintf(w, "Dates    %s to %s", first.Date.Format("2 Jan 2006"), last.Date.Format("2 Jan 2006"))
		for _, m := range r.Months {
			fmt.Fprintf(w, "  [%s]", m.Label)
		}
		fmt.Fprintln(w)
	}
	if vis.Rows() <= 0 {
		return nil
	}

	fmt.Fprintln(w)
	t := output.NewTable(w, "ROW", "ID", "NAME", "START", "END")
	for row := vis.StartRow; row < vis.EndRow && row < d.Len(); row++ {
		it := d.Items[row]
		t.AddRow(fmt.Sprint(row), fmt.Sprint(it.ID), output.Truncate(it.Name, 40), it.Start.String(), it.End.String())
	}
	t.Render()
	return nil
}
