package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gantt/internal/engine"
	"github.com/theirongolddev/gantt/internal/input"
	"github.com/theirongolddev/gantt/internal/output"
	"github.com/theirongolddev/gantt/internal/render"
	"github.com/theirongolddev/gantt/internal/tui/theme"
	"github.com/theirongolddev/gantt/internal/util"
)

type renderOptions struct {
	output     string
	size       string
	dpr        float64
	zoom       float64
	scrollLeft float64
	scrollTop  float64
	theme      string
}

func newRenderCmd() *cobra.Command {
	opts := renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [tasks-file]",
		Short: "Paint one viewport of a schedule to PNG",
		Long: `Render paints the rows and columns visible at the given scroll offset
and writes the surface as PNG. Without a task file a demo schedule is
used.

Examples:
  gantt render tasks.json -o chart.png
  gantt render tasks.yaml --size 1600x900 --dpr 2 --scroll-left 2000
  gantt render -o - | kitty +kitten icat`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return runRender(cmd.OutOrStdout(), cmd.ErrOrStderr(), path, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "chart.png", "PNG file to write, - for stdout")
	cmd.Flags().StringVar(&opts.size, "size", "1200x800", "viewport size in CSS pixels")
	cmd.Flags().Float64Var(&opts.dpr, "dpr", 0, "device pixel ratio (default from config)")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", 0, "columns per day (default from config)")
	cmd.Flags().Float64Var(&opts.scrollLeft, "scroll-left", 0, "horizontal scroll offset in pixels")
	cmd.Flags().Float64Var(&opts.scrollTop, "scroll-top", 0, "vertical scroll offset in pixels")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "chart theme (default from config)")
	return cmd
}

func runRender(stdout, stderr io.Writer, path string, opts renderOptions) error {
	c := settings()
	w, h, err := util.ParseSize(opts.size)
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

	ec := engineConfig(c, start)
	ec.Width, ec.Height = w, h
	if opts.dpr > 0 {
		ec.DevicePixelRatio = opts.dpr
	}
	if opts.zoom > 0 {
		ec.InitialZoom = opts.zoom
	}
	if opts.theme != "" {
		ec.Render.Palette = render.NewPalette(theme.FromName(opts.theme))
	}
	eng, err := engine.New(ec, d)
	if err != nil {
		return err
	}
	defer eng.Close()

	if opts.scrollLeft != 0 || opts.scrollTop != 0 {
		if _, err := eng.Dispatch(input.Scroll{X: opts.scrollLeft, Y: opts.scrollTop}); err != nil {
			return err
		}
	}
	began := time.Now()
	st, ok := eng.RenderNow()
	if !ok {
		return fmt.Errorf("nothing to render at %s", opts.size)
	}
	elapsed := time.Since(began)

	// With the PNG on stdout the summary moves to stderr.
	summary := stdout
	if opts.output == "-" {
		summary = stderr
		if err := eng.EncodePNG(stdout); err != nil {
			return fmt.Errorf("writing PNG: %w", err)
		}
	} else if err := writePNG(eng, opts.output); err != nil {
		return err
	}

	b := eng.Image().Bounds()
	v := eng.Snapshot()
	f := formatter(summary)
	return f.OutputData(output.RenderResponse{
		TimestampedResponse: output.NewTimestamped(),
		Output:              opts.output,
		Width:               b.Dx(),
		Height:              b.Dy(),
		Viewport:            viewportResponse(v),
		Rows:                st.Range.Rows(),
		Columns:             st.Range.Cols(),
		Bars:                st.Bars,
		Routes:              st.Routes,
		Skipped:             st.SkippedRoutes,
		Millis:              float64(elapsed.Microseconds()) / 1000,
	}, func(w io.Writer) error {
		name := opts.output
		if name == "-" {
			name = "stdout"
		}
		output.PrintSuccessCheck(w, fmt.Sprintf("Rendered %dx%d px to %s", b.Dx(), b.Dy(), name))
		fmt.Fprintf(w, "  rows %d-%d, %s, %s\n",
			st.Range.StartRow, st.Range.EndRow,
			output.CountStr(st.Bars, "bar", "bars"),
			output.CountStr(st.Routes, "route", "routes"))
		if st.SkippedRoutes > 0 {
			fmt.Fprintf(w, "  %s skipped (unknown dependency)\n", output.CountStr(st.SkippedRoutes, "route", "routes"))
		}
		return nil
	})
}

func writePNG(eng *engine.Engine, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := eng.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("writing PNG: %w", err)
	}
	return f.Close()
}
