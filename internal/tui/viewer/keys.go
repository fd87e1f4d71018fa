package viewer

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines viewer keybindings
type KeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	PageLeft  key.Binding
	PageRight key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Top       key.Binding
	Bottom    key.Binding
	Today     key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap is the standard viewer keymap.
var DefaultKeyMap = KeyMap{
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous day")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous task")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next task")),
	PageLeft:  key.NewBinding(key.WithKeys("H", "shift+left"), key.WithHelp("H", "page left")),
	PageRight: key.NewBinding(key.WithKeys("L", "shift+right"), key.WithHelp("L", "page right")),
	PageUp:    key.NewBinding(key.WithKeys("pgup", "K"), key.WithHelp("pgup", "page up")),
	PageDown:  key.NewBinding(key.WithKeys("pgdown", "J", " "), key.WithHelp("pgdn", "page down")),
	Top:       key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first task")),
	Bottom:    key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last task")),
	Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
	ZoomIn:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut:   key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
	Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload tasks")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Down, k.ZoomIn, k.ZoomOut, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.PageLeft, k.PageRight, k.PageUp, k.PageDown},
		{k.Top, k.Bottom, k.Today},
		{k.ZoomIn, k.ZoomOut, k.Reload, k.Help, k.Quit},
	}
}
