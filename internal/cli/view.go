package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/theirongolddev/gantt/internal/engine"
	"github.com/theirongolddev/gantt/internal/tui/theme"
	"github.com/theirongolddev/gantt/internal/tui/viewer"
)

func newViewCmd() *cobra.Command {
	var themeName string
	cmd := &cobra.Command{
		Use:     "view [tasks-file]",
		Aliases: []string{"v"},
		Short:   "Browse a schedule in the terminal",
		Long: `View opens an interactive chart. Arrow keys, the mouse wheel and
shift+wheel scroll; + and - or ctrl+wheel zoom; the timeline grows as you
approach its right edge. With tui.watch the task file is reloaded on every
change. Press ? for all keys.

Examples:
  gantt view tasks.json
  gantt view                 # demo schedule
  gantt view plan.yaml --theme paper`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return runView(path, themeName)
		},
	}
	cmd.Flags().StringVar(&themeName, "theme", "", "chart and chrome theme (default from config)")
	return cmd
}

func runView(path, themeName string) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("view needs a terminal; use 'gantt render' for files")
	}

	c := *settings()
	if themeName != "" {
		c.Render.Theme = themeName
	}
	d, err := loadTasks(path, now())
	if err != nil {
		return err
	}
	start, err := startDate(&c, d)
	if err != nil {
		return err
	}

	ec := engineConfig(&c, start)
	// Size the chart up front so the first frame is ready before the
	// program reports the window size.
	if cols, rows, err := term.GetSize(fd); err == nil {
		ec.Width = float64(cols) * c.TUI.CellWidth
		ec.Height = float64(rows) * c.TUI.CellHeight
	}
	// Ticker stays nil: the viewer flushes frames from its own tick.
	eng, err := engine.New(ec, d)
	if err != nil {
		return err
	}

	cwd, _ := os.Getwd()
	m, err := viewer.New(eng, viewer.Options{
		Config:   &c,
		TaskPath: path,
		Cwd:      cwd,
		Sources:  cfgSources,
		Theme:    theme.Resolve(c.Render.Theme),
		Profile:  termenv.NewOutput(os.Stdout).EnvColorProfile(),
	})
	if err != nil {
		eng.Close()
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
