// Package config loads gantt settings from TOML: a global file under the
// XDG config directory, an optional project file in .gantt/config.toml,
// and a few environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/gantt/internal/growth"
	"github.com/theirongolddev/gantt/internal/task"
	"github.com/theirongolddev/gantt/internal/util"
)

// Config is the full set of settings.
type Config struct {
	Grid     GridConfig     `toml:"grid"`
	Overscan OverscanConfig `toml:"overscan"`
	Growth   GrowthConfig   `toml:"growth"`
	Zoom     ZoomConfig     `toml:"zoom"`
	Render   RenderConfig   `toml:"render"`
	TUI      TUIConfig      `toml:"tui"`
}

// GridConfig sizes rows and columns.
type GridConfig struct {
	RowHeight   float64 `toml:"row_height"`
	ColumnWidth float64 `toml:"column_width"`
	// TotalRows of 0 means one row per item.
	TotalRows      int `toml:"total_rows"`
	InitialColumns int `toml:"initial_columns"`
	// StartDate is YYYY-MM-DD; empty means the earliest item start, or
	// today without items.
	StartDate    string  `toml:"start_date"`
	HeaderHeight float64 `toml:"header_height"`
}

// OverscanConfig widens the range used for ahead-of-time work.
type OverscanConfig struct {
	Rows    int `toml:"rows"`
	Columns int `toml:"columns"`
}

// GrowthConfig tunes column growth.
type GrowthConfig struct {
	Chunk      int `toml:"chunk"`
	Threshold  int `toml:"threshold"`
	ThrottleMs int `toml:"throttle_ms"`
	LockMs     int `toml:"lock_ms"`
}

// ZoomConfig sets the initial zoom and the keyboard/wheel step.
type ZoomConfig struct {
	Initial float64 `toml:"initial"`
	Step    float64 `toml:"step"`
}

// RenderConfig controls painting.
type RenderConfig struct {
	Theme            string  `toml:"theme"`
	FontSize         float64 `toml:"font_size"`
	DevicePixelRatio float64 `toml:"device_pixel_ratio"`
	HideBarLabels    bool    `toml:"hide_bar_labels"`
}

// TUIConfig controls the terminal viewer.
type TUIConfig struct {
	// CellWidth and CellHeight are the CSS pixels one terminal cell
	// stands for. Each cell shows two vertical pixels as a half block.
	CellWidth       float64 `toml:"cell_width"`
	CellHeight      float64 `toml:"cell_height"`
	FrameIntervalMs int     `toml:"frame_interval_ms"`
	SidebarWidth    int     `toml:"sidebar_width"`
	Watch           bool    `toml:"watch"`
}

// Default returns the built-in settings.
func Default() *Config {
	g := growth.DefaultConfig()
	return &Config{
		Grid: GridConfig{
			RowHeight:      32,
			ColumnWidth:    40,
			InitialColumns: 60,
			HeaderHeight:   44,
		},
		Overscan: OverscanConfig{Rows: 5, Columns: 10},
		Growth: GrowthConfig{
			Chunk:      g.Chunk,
			Threshold:  g.Threshold,
			ThrottleMs: int(g.Throttle / time.Millisecond),
			LockMs:     int(g.LockDuration / time.Millisecond),
		},
		Zoom: ZoomConfig{Initial: 1, Step: 0.25},
		Render: RenderConfig{
			FontSize:         12,
			DevicePixelRatio: 1,
		},
		TUI: TUIConfig{
			CellWidth:       8,
			CellHeight:      16,
			FrameIntervalMs: 16,
			SidebarWidth:    24,
			Watch:           true,
		},
	}
}

// DefaultPath returns the global config path: $GANTT_CONFIG, else
// $XDG_CONFIG_HOME/gantt/config.toml, else ~/.config/gantt/config.toml.
func DefaultPath() string {
	if env := os.Getenv("GANTT_CONFIG"); env != "" {
		return util.ExpandHome(env)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gantt", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gantt", "config.toml")
}

// Load reads the config at path (DefaultPath when empty) over the
// defaults, then applies environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()
	if err := decodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.fillZeros()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// decodeFile decodes path onto cfg. Keys absent from the file keep their
// current values, which is what makes layering work.
func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("parsing config %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

// fillZeros restores defaults for numeric fields explicitly set to zero.
func (c *Config) fillZeros() {
	d := Default()
	setF := func(v *float64, def float64) {
		if *v <= 0 || math.IsNaN(*v) {
			*v = def
		}
	}
	setI := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	setF(&c.Grid.RowHeight, d.Grid.RowHeight)
	setF(&c.Grid.ColumnWidth, d.Grid.ColumnWidth)
	setI(&c.Grid.InitialColumns, d.Grid.InitialColumns)
	setF(&c.Grid.HeaderHeight, d.Grid.HeaderHeight)
	setI(&c.Growth.Chunk, d.Growth.Chunk)
	setI(&c.Growth.Threshold, d.Growth.Threshold)
	setI(&c.Growth.ThrottleMs, d.Growth.ThrottleMs)
	setI(&c.Growth.LockMs, d.Growth.LockMs)
	setF(&c.Zoom.Initial, d.Zoom.Initial)
	setF(&c.Zoom.Step, d.Zoom.Step)
	setF(&c.Render.FontSize, d.Render.FontSize)
	setF(&c.Render.DevicePixelRatio, d.Render.DevicePixelRatio)
	setF(&c.TUI.CellWidth, d.TUI.CellWidth)
	setF(&c.TUI.CellHeight, d.TUI.CellHeight)
	setI(&c.TUI.FrameIntervalMs, d.TUI.FrameIntervalMs)
	setI(&c.TUI.SidebarWidth, d.TUI.SidebarWidth)
	if c.Overscan.Rows < 0 {
		c.Overscan.Rows = 0
	}
	if c.Overscan.Columns < 0 {
		c.Overscan.Columns = 0
	}
	if c.Grid.TotalRows < 0 {
		c.Grid.TotalRows = 0
	}
}

// applyEnv applies GANTT_THEME, GANTT_DPR and GANTT_START_DATE.
func (c *Config) applyEnv() error {
	if v := os.Getenv("GANTT_THEME"); v != "" {
		c.Render.Theme = v
	}
	if v := os.Getenv("GANTT_DPR"); v != "" {
		dpr, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("GANTT_DPR: %w", err)
		}
		c.Render.DevicePixelRatio = dpr
	}
	if v := os.Getenv("GANTT_START_DATE"); v != "" {
		c.Grid.StartDate = v
	}
	return nil
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	var errs []error
	if c.Grid.StartDate != "" {
		if _, err := task.ParseDate(c.Grid.StartDate); err != nil {
			errs = append(errs, fmt.Errorf("grid.start_date: %w", err))
		}
	}
	if c.Render.DevicePixelRatio < 1 {
		errs = append(errs, fmt.Errorf("render.device_pixel_ratio: %v is below 1", c.Render.DevicePixelRatio))
	}
	if c.Growth.Threshold >= c.Grid.InitialColumns+c.Growth.Chunk {
		errs = append(errs, fmt.Errorf("growth.threshold: %d leaves no room for a chunk of %d", c.Growth.Threshold, c.Growth.Chunk))
	}
	return errors.Join(errs...)
}

// StartDate resolves grid.start_date. ok is false when it is unset.
func (c *Config) StartDate() (t time.Time, ok bool, err error) {
	if c.Grid.StartDate == "" {
		return time.Time{}, false, nil
	}
	d, err := task.ParseDate(c.Grid.StartDate)
	if err != nil {
		return time.Time{}, false, err
	}
	return d.Time, true, nil
}

// GrowthPolicy converts the growth section.
func (c *Config) GrowthPolicy() growth.Config {
	g := growth.DefaultConfig()
	g.Chunk = c.Growth.Chunk
	g.Threshold = c.Growth.Threshold
	g.Throttle = time.Duration(c.Growth.ThrottleMs) * time.Millisecond
	g.LockDuration = time.Duration(c.Growth.LockMs) * time.Millisecond
	return g
}

// FrameInterval is the viewer tick.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.TUI.FrameIntervalMs) * time.Millisecond
}

// CreateDefault writes the default config to DefaultPath. It refuses to
// overwrite an existing file.
func CreateDefault() (string, error) {
	path := DefaultPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := Print(Default(), f); err != nil {
		return "", err
	}
	return path, nil
}

// tomlFloat formats f so TOML reads it back as a float.
func tomlFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// Print writes cfg as commented TOML.
func Print(cfg *Config, w io.Writer) error {
	fmt.Fprintln(w, "# gantt configuration")
	fmt.Fprintln(w, "# Environment overrides: GANTT_THEME, GANTT_DPR, GANTT_START_DATE")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[grid]")
	fmt.Fprintf(w, "row_height = %s\n", tomlFloat(cfg.Grid.RowHeight))
	fmt.Fprintf(w, "column_width = %s\n", tomlFloat(cfg.Grid.ColumnWidth))
	fmt.Fprintln(w, "# 0 means one row per task")
	fmt.Fprintf(w, "total_rows = %d\n", cfg.Grid.TotalRows)
	fmt.Fprintf(w, "initial_columns = %d\n", cfg.Grid.InitialColumns)
	if cfg.Grid.StartDate != "" {
		fmt.Fprintf(w, "start_date = %q\n", cfg.Grid.StartDate)
	} else {
		fmt.Fprintln(w, "# start_date = \"2025-01-01\"  # default: earliest task start")
	}
	fmt.Fprintf(w, "header_height = %s\n", tomlFloat(cfg.Grid.HeaderHeight))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[overscan]")
	fmt.Fprintf(w, "rows = %d\n", cfg.Overscan.Rows)
	fmt.Fprintf(w, "columns = %d\n", cfg.Overscan.Columns)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[growth]")
	fmt.Fprintln(w, "# Columns are added in chunks when scrolling nears the right edge")
	fmt.Fprintf(w, "chunk = %d\n", cfg.Growth.Chunk)
	fmt.Fprintf(w, "threshold = %d\n", cfg.Growth.Threshold)
	fmt.Fprintf(w, "throttle_ms = %d\n", cfg.Growth.ThrottleMs)
	fmt.Fprintf(w, "lock_ms = %d\n", cfg.Growth.LockMs)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[zoom]")
	fmt.Fprintf(w, "initial = %s\n", tomlFloat(cfg.Zoom.Initial))
	fmt.Fprintf(w, "step = %s\n", tomlFloat(cfg.Zoom.Step))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[render]")
	if cfg.Render.Theme != "" {
		fmt.Fprintf(w, "theme = %q\n", cfg.Render.Theme)
	} else {
		fmt.Fprintln(w, "# theme = \"mocha\"  # auto, mocha, macchiato, latte, nord, paper, plain")
	}
	fmt.Fprintf(w, "font_size = %s\n", tomlFloat(cfg.Render.FontSize))
	fmt.Fprintf(w, "device_pixel_ratio = %s\n", tomlFloat(cfg.Render.DevicePixelRatio))
	fmt.Fprintf(w, "hide_bar_labels = %t\n", cfg.Render.HideBarLabels)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[tui]")
	fmt.Fprintf(w, "cell_width = %s\n", tomlFloat(cfg.TUI.CellWidth))
	fmt.Fprintf(w, "cell_height = %s\n", tomlFloat(cfg.TUI.CellHeight))
	fmt.Fprintf(w, "frame_interval_ms = %d\n", cfg.TUI.FrameIntervalMs)
	fmt.Fprintf(w, "sidebar_width = %d\n", cfg.TUI.SidebarWidth)
	fmt.Fprintln(w, "# Reload the task file when it changes on disk")
	_, err := fmt.Fprintf(w, "watch = %t\n", cfg.TUI.Watch)
	return err
}
