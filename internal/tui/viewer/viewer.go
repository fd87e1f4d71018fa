// Package viewer is the interactive terminal chart. The terminal window is
// the scroll container: keys and the mouse wheel become input commands,
// the window size becomes the viewport size, and the painted surface is
// shown as half-block cells next to a task-name sidebar.
package viewer

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/gantt/internal/config"
	"github.com/theirongolddev/gantt/internal/engine"
	"github.com/theirongolddev/gantt/internal/grid"
	"github.com/theirongolddev/gantt/internal/input"
	"github.com/theirongolddev/gantt/internal/logging"
	"github.com/theirongolddev/gantt/internal/render"
	"github.com/theirongolddev/gantt/internal/task"
	"github.com/theirongolddev/gantt/internal/tui/layout"
	"github.com/theirongolddev/gantt/internal/tui/theme"
	"github.com/theirongolddev/gantt/internal/viewport"
	"github.com/theirongolddev/gantt/internal/watcher"
)

// frameMsg drives the engine's frame ticker.
type frameMsg time.Time

// reloadMsg carries a re-read task file.
type reloadMsg struct {
	data  *task.Dataset
	err   error
	watch bool
}

// configMsg carries a reloaded configuration.
type configMsg struct {
	cfg *config.Config
}

// Options configure the viewer.
type Options struct {
	Config *config.Config
	// TaskPath is re-read on "r" and, with tui.watch, on every change.
	TaskPath string
	// Cwd and Sources enable config reloads when Sources names a file.
	Cwd     string
	Sources config.Sources
	Theme   theme.Theme
	Profile termenv.Profile
	// Now is used for the "today" jump. Nil means time.Now.
	Now func() time.Time
}

// events fans watcher callbacks into the bubbletea loop. It is shared by
// every copy of the Model.
type events struct {
	ch   chan tea.Msg
	done chan struct{}
	once sync.Once
	stop []func()
}

func (ev *events) send(msg tea.Msg) {
	select {
	case ev.ch <- msg:
	case <-ev.done:
	}
}

// Model is the viewer model
type Model struct {
	eng    *engine.Engine
	cfg    config.Config
	opts   Options
	keys   KeyMap
	help   help.Model
	styles theme.Styles
	enc    *Encoder
	ev     *events

	width, height int
	regions       layout.Regions

	frame     []string
	painted   int
	frameCols int

	status   string
	err      error
	quitting bool
}

// New wires a viewer around eng. The engine is owned by the viewer from
// here on; Close releases it.
func New(eng *engine.Engine, opts Options) (Model, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Theme.Name == "" {
		opts.Theme = theme.Resolve(opts.Config.Render.Theme)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(opts.Theme.Text).Bold(true)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(opts.Theme.Overlay)
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.FullDesc = h.Styles.ShortDesc

	m := Model{
		eng:    eng,
		cfg:    *opts.Config,
		opts:   opts,
		keys:   DefaultKeyMap,
		help:   h,
		styles: theme.NewStyles(opts.Theme),
		enc:    NewEncoder(opts.Profile),
		ev:     &events{ch: make(chan tea.Msg, 4), done: make(chan struct{})},
	}
	eng.SetPalette(render.NewPalette(opts.Theme))

	ev := m.ev
	if opts.TaskPath != "" && m.cfg.TUI.Watch {
		path := opts.TaskPath
		w, err := watcher.New(func([]watcher.Event) {
			d, err := task.Load(path)
			ev.send(reloadMsg{data: d, err: err, watch: true})
		}, watcher.WithErrorHandler(func(err error) {
			logging.Logger().Debug("task watcher", "error", err)
		}))
		if err != nil {
			return Model{}, fmt.Errorf("watching tasks: %w", err)
		}
		if err := w.Add(path); err != nil {
			w.Close()
			return Model{}, fmt.Errorf("watching tasks: %w", err)
		}
		m.ev.stop = append(m.ev.stop, func() { w.Close() })
	}
	if opts.Sources.Global != "" || opts.Sources.Project != "" {
		stop, err := config.Watch(opts.Cwd, opts.Sources, func(c *config.Config) {
			ev.send(configMsg{cfg: c})
		})
		if err != nil {
			logging.Logger().Warn("config reload disabled", "error", err)
		} else {
			m.ev.stop = append(m.ev.stop, stop)
		}
	}
	return m, nil
}

// Close stops the watchers and releases the engine.
func (m Model) Close() error {
	var err error
	m.ev.once.Do(func() {
		close(m.ev.done)
		for _, stop := range m.ev.stop {
			stop()
		}
		err = m.eng.Close()
	})
	return err
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.wait())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.cfg.FrameInterval(), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// wait delivers the next watcher message.
func (m Model) wait() tea.Cmd {
	if len(m.ev.stop) == 0 {
		return nil
	}
	ev := m.ev
	return func() tea.Msg {
		select {
		case msg := <-ev.ch:
			return msg
		case <-ev.done:
			return nil
		}
	}
}

func (m Model) reload() tea.Cmd {
	if m.opts.TaskPath == "" {
		return nil
	}
	path := m.opts.TaskPath
	return func() tea.Msg {
		d, err := task.Load(path)
		return reloadMsg{data: d, err: err}
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m = m.relayout()
		return m, nil

	case frameMsg:
		m.eng.Flush()
		m = m.encode()
		return m, m.tick()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case reloadMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("reloading tasks: %w", msg.err)
		} else {
			m.err = nil
			m.eng.SetItems(msg.data)
			m.status = fmt.Sprintf("reloaded %d tasks", msg.data.Len())
		}
		m = m.relayout()
		if msg.watch {
			return m, m.wait()
		}
		return m, nil

	case configMsg:
		m = m.applyConfig(msg.cfg)
		return m, m.wait()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.eng.Snapshot()
	pageW := math.Max(v.Width-v.ColumnWidth, v.ColumnWidth)
	pageH := math.Max(v.Height-m.eng.HeaderHeight()-v.RowHeight, v.RowHeight)

	var cmd input.Command
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m.relayout(), nil
	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()
	case key.Matches(msg, m.keys.Left):
		cmd = input.ScrollBy{DX: -v.ColumnWidth}
	case key.Matches(msg, m.keys.Right):
		cmd = input.ScrollBy{DX: v.ColumnWidth}
	case key.Matches(msg, m.keys.Up):
		cmd = input.ScrollBy{DY: -v.RowHeight}
	case key.Matches(msg, m.keys.Down):
		cmd = input.ScrollBy{DY: v.RowHeight}
	case key.Matches(msg, m.keys.PageLeft):
		cmd = input.ScrollBy{DX: -pageW}
	case key.Matches(msg, m.keys.PageRight):
		cmd = input.ScrollBy{DX: pageW}
	case key.Matches(msg, m.keys.PageUp):
		cmd = input.ScrollBy{DY: -pageH}
	case key.Matches(msg, m.keys.PageDown):
		cmd = input.ScrollBy{DY: pageH}
	case key.Matches(msg, m.keys.Top):
		cmd = input.Scroll{X: v.ScrollLeft, Y: 0}
	case key.Matches(msg, m.keys.Bottom):
		cmd = input.Scroll{X: v.ScrollLeft, Y: float64(v.TotalRows) * v.RowHeight}
	case key.Matches(msg, m.keys.Today):
		cmd = input.Scroll{X: todayX(v, m.opts.Now()), Y: v.ScrollTop}
	case key.Matches(msg, m.keys.ZoomIn):
		cmd = input.Zoom{Delta: m.cfg.Zoom.Step}
	case key.Matches(msg, m.keys.ZoomOut):
		cmd = input.Zoom{Delta: -m.cfg.Zoom.Step}
	}
	if cmd != nil {
		m = m.dispatch(cmd)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if msg.Action != tea.MouseActionPress {
		return m
	}
	v := m.eng.Snapshot()
	var w input.Wheel
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		w.DY = -v.RowHeight
	case tea.MouseButtonWheelDown:
		w.DY = v.RowHeight
	case tea.MouseButtonWheelLeft:
		w.DX = -v.ColumnWidth
	case tea.MouseButtonWheelRight:
		w.DX = v.ColumnWidth
	default:
		return m
	}
	// Shift turns a vertical wheel into a horizontal pan.
	if msg.Shift && w.DX == 0 {
		w.DX, w.DY = math.Copysign(v.ColumnWidth, w.DY), 0
	}
	w.Ctrl = msg.Ctrl
	return m.dispatch(w)
}

func (m Model) dispatch(cmd input.Command) Model {
	if _, err := m.eng.Dispatch(cmd); err != nil {
		m.err = err
	}
	return m
}

// todayX is the scroll offset that puts today a third into the view.
func todayX(v viewport.Viewport, now time.Time) float64 {
	x := v.XForTime(viewport.Midnight(now))
	return math.Max(x-v.Width/3, 0)
}

func (m Model) applyConfig(c *config.Config) Model {
	m.cfg.Render.Theme = c.Render.Theme
	m.cfg.TUI.SidebarWidth = c.TUI.SidebarWidth
	m.cfg.Zoom.Step = c.Zoom.Step

	t := theme.Resolve(c.Render.Theme)
	m.opts.Theme = t
	m.styles = theme.NewStyles(t)
	m.eng.SetPalette(render.NewPalette(t))
	m.status = "configuration reloaded"
	return m.relayout()
}

// relayout recomputes the regions and resizes the chart to match.
func (m Model) relayout() Model {
	if m.width <= 0 || m.height <= 0 {
		return m
	}
	m.help.Width = m.width
	r := layout.Compute(m.width, m.height, m.cfg.TUI.SidebarWidth, m.footerHeight())
	if r == m.regions {
		return m
	}
	m.regions = r
	cw, ch := m.cfg.TUI.CellWidth, m.cfg.TUI.CellHeight
	return m.dispatch(input.Resize{Width: float64(r.ChartCols) * cw, Height: float64(r.ChartRows) * ch})
}

func (m Model) footerHeight() int {
	return 1 + lipgloss.Height(m.help.View(m.keys)) + len(m.errorLines())
}

func (m Model) errorLines() []string {
	if m.err == nil || m.width <= 0 {
		return nil
	}
	return strings.Split(wordwrap.String("Error: "+m.err.Error(), m.width), "\n")
}

// encode re-samples the surface when a new frame was painted or the chart
// area changed size.
func (m Model) encode() Model {
	painted := m.eng.Stats().Painted
	r := m.regions
	if painted == m.painted && len(m.frame) == r.ChartRows && m.frameCols == r.ChartCols {
		return m
	}
	m.frame = m.enc.Encode(m.eng.Image(), r.ChartCols, r.ChartRows)
	m.painted, m.frameCols = painted, r.ChartCols
	return m
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading…"
	}

	r := m.regions
	v := m.eng.Snapshot()
	var names []string
	if r.Sidebar > 0 {
		names = sidebarLines(v, m.eng.Dataset(), m.eng.HeaderHeight(), m.cfg.TUI.CellHeight, r.ChartRows)
	}

	var sb strings.Builder
	for i := 0; i < r.ChartRows; i++ {
		if r.Sidebar > 0 {
			cell := layout.Pad(names[i], r.Sidebar)
			if i == 0 {
				sb.WriteString(m.styles.Title.Render(cell))
			} else {
				sb.WriteString(m.styles.Sidebar.Render(cell))
			}
			sb.WriteString(" ")
		}
		if i < len(m.frame) {
			sb.WriteString(m.frame[i])
		}
		sb.WriteString("\n")
	}
	for _, line := range m.errorLines() {
		sb.WriteString(m.styles.Error.Render(line))
		sb.WriteString("\n")
	}
	sb.WriteString(m.styles.StatusBar.Render(layout.Pad(m.statusLine(v), m.width)))
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m Model) statusLine(v viewport.Viewport) string {
	vr := grid.Compute(v)
	st := m.eng.Stats()
	line := fmt.Sprintf(" %s → %s  rows %d-%d/%d  cols %d  zoom %g  %s",
		v.DateAt(vr.StartCol).Format("2 Jan 2006"),
		v.DateAt(max(vr.EndCol-1, vr.StartCol)).Format("2 Jan 2006"),
		min(vr.StartRow+1, vr.EndRow), vr.EndRow, v.TotalRows,
		v.TotalColumns, v.Zoom, st.GrowthState)
	if m.status != "" {
		line += "  · " + m.status
	}
	return line
}

// sidebarLines returns the name column for lines terminal rows of cellH
// pixels each. A name is shown on the first line its row covers.
func sidebarLines(v viewport.Viewport, d *task.Dataset, header, cellH float64, lines int) []string {
	out := make([]string, lines)
	last := -1
	for i := range out {
		y := (float64(i) + 0.5) * cellH
		if y < header {
			if i == 0 {
				out[i] = "Tasks"
			}
			continue
		}
		if v.RowHeight <= 0 {
			continue
		}
		row := int(math.Floor((y - header + v.ScrollTop) / v.RowHeight))
		if row == last || row < 0 || row >= d.Len() {
			continue
		}
		last = row
		out[i] = d.Items[row].Name
	}
	return out
}
