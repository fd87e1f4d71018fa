package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/gantt/internal/tui/theme"
)

// level picks the icon and color of a status line.
type level int

const (
	levelSuccess level = iota
	levelWarning
	levelError
	levelInfo
)

var levelIcons = [...]string{"✓", "⚠", "✗", "ℹ"}

func (l level) color(t theme.Theme) lipgloss.Color {
	switch l {
	case levelSuccess:
		return t.Success
	case levelWarning:
		return t.Warning
	case levelError:
		return t.Error
	default:
		return t.Info
	}
}

// ProgressMsg prints one-line status messages, colored on a terminal.
type ProgressMsg struct {
	w      io.Writer
	color  bool
	indent string
}

// ProgressWriter returns a ProgressMsg writing to w.
func ProgressWriter(w io.Writer) *ProgressMsg {
	return &ProgressMsg{w: w, color: useColor(w)}
}

// SetIndent prefixes every line with indent.
func (p *ProgressMsg) SetIndent(indent string) *ProgressMsg {
	p.indent = indent
	return p
}

// Successf prints "✓ message".
func (p *ProgressMsg) Successf(format string, args ...any) { p.line(levelSuccess, format, args) }

// Warningf prints "⚠ message".
func (p *ProgressMsg) Warningf(format string, args ...any) { p.line(levelWarning, format, args) }

// Errorf prints "✗ message".
func (p *ProgressMsg) Errorf(format string, args ...any) { p.line(levelError, format, args) }

// Infof prints "ℹ message".
func (p *ProgressMsg) Infof(format string, args ...any) { p.line(levelInfo, format, args) }

func (p *ProgressMsg) line(l level, format string, args []any) {
	icon := levelIcons[l]
	if p.color {
		icon = lipgloss.NewStyle().Foreground(l.color(theme.Current())).Render(icon)
	}
	fmt.Fprintf(p.w, "%s%s %s\n", p.indent, icon, fmt.Sprintf(format, args...))
}
