package theme

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme defines a complete color palette for the chart and the TUI
type Theme struct {
	Name string

	// Base colors
	Base     lipgloss.Color // Background
	Mantle   lipgloss.Color // Slightly darker bg, header band
	Surface0 lipgloss.Color // Surface
	Surface1 lipgloss.Color // Surface highlight
	Surface2 lipgloss.Color // Surface bright

	// Text colors
	Text    lipgloss.Color // Primary text
	Subtext lipgloss.Color // Secondary text
	Overlay lipgloss.Color // Dimmed text

	// Accent colors
	Red      lipgloss.Color
	Peach    lipgloss.Color
	Yellow   lipgloss.Color
	Green    lipgloss.Color
	Teal     lipgloss.Color
	Blue     lipgloss.Color
	Mauve    lipgloss.Color
	Lavender lipgloss.Color

	// Semantic colors
	Primary lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color
}

// Catppuccin Mocha - the flagship dark theme
var CatppuccinMocha = Theme{
	Name:     "mocha",
	Base:     lipgloss.Color("#1e1e2e"),
	Mantle:   lipgloss.Color("#181825"),
	Surface0: lipgloss.Color("#313244"),
	Surface1: lipgloss.Color("#45475a"),
	Surface2: lipgloss.Color("#585b70"),

	Text:    lipgloss.Color("#cdd6f4"),
	Subtext: lipgloss.Color("#a6adc8"),
	Overlay: lipgloss.Color("#6c7086"),

	Red:      lipgloss.Color("#f38ba8"),
	Peach:    lipgloss.Color("#fab387"),
	Yellow:   lipgloss.Color("#f9e2af"),
	Green:    lipgloss.Color("#a6e3a1"),
	Teal:     lipgloss.Color("#94e2d5"),
	Blue:     lipgloss.Color("#89b4fa"),
	Mauve:    lipgloss.Color("#cba6f7"),
	Lavender: lipgloss.Color("#b4befe"),

	Primary: lipgloss.Color("#89b4fa"),
	Success: lipgloss.Color("#a6e3a1"),
	Warning: lipgloss.Color("#f9e2af"),
	Error:   lipgloss.Color("#f38ba8"),
	Info:    lipgloss.Color("#89dceb"),
}

// Catppuccin Macchiato - darker variant
var CatppuccinMacchiato = Theme{
	Name:     "macchiato",
	Base:     lipgloss.Color("#24273a"),
	Mantle:   lipgloss.Color("#1e2030"),
	Surface0: lipgloss.Color("#363a4f"),
	Surface1: lipgloss.Color("#494d64"),
	Surface2: lipgloss.Color("#5b6078"),

	Text:    lipgloss.Color("#cad3f5"),
	Subtext: lipgloss.Color("#a5adcb"),
	Overlay: lipgloss.Color("#6e738d"),

	Red:      lipgloss.Color("#ed8796"),
	Peach:    lipgloss.Color("#f5a97f"),
	Yellow:   lipgloss.Color("#eed49f"),
	Green:    lipgloss.Color("#a6da95"),
	Teal:     lipgloss.Color("#8bd5ca"),
	Blue:     lipgloss.Color("#8aadf4"),
	Mauve:    lipgloss.Color("#c6a0f6"),
	Lavender: lipgloss.Color("#b7bdf8"),

	Primary: lipgloss.Color("#8aadf4"),
	Success: lipgloss.Color("#a6da95"),
	Warning: lipgloss.Color("#eed49f"),
	Error:   lipgloss.Color("#ed8796"),
	Info:    lipgloss.Color("#91d7e3"),
}

// Catppuccin Latte - light theme for light terminals
var CatppuccinLatte = Theme{
	Name:     "latte",
	Base:     lipgloss.Color("#eff1f5"),
	Mantle:   lipgloss.Color("#e6e9ef"),
	Surface0: lipgloss.Color("#ccd0da"),
	Surface1: lipgloss.Color("#bcc0cc"),
	Surface2: lipgloss.Color("#acb0be"),

	Text:    lipgloss.Color("#4c4f69"),
	Subtext: lipgloss.Color("#6c6f85"),
	Overlay: lipgloss.Color("#9ca0b0"),

	Red:      lipgloss.Color("#d20f39"),
	Peach:    lipgloss.Color("#fe640b"),
	Yellow:   lipgloss.Color("#df8e1d"),
	Green:    lipgloss.Color("#40a02b"),
	Teal:     lipgloss.Color("#179299"),
	Blue:     lipgloss.Color("#1e66f5"),
	Mauve:    lipgloss.Color("#8839ef"),
	Lavender: lipgloss.Color("#7287fd"),

	Primary: lipgloss.Color("#1e66f5"),
	Success: lipgloss.Color("#40a02b"),
	Warning: lipgloss.Color("#df8e1d"),
	Error:   lipgloss.Color("#d20f39"),
	Info:    lipgloss.Color("#04a5e5"),
}

// Paper is the light white-canvas look: pale grid lines, grey weekends
// and blue bars.
var Paper = Theme{
	Name:     "paper",
	Base:     lipgloss.Color("#ffffff"),
	Mantle:   lipgloss.Color("#f9fafb"),
	Surface0: lipgloss.Color("#f5f5f5"),
	Surface1: lipgloss.Color("#eef2f7"),
	Surface2: lipgloss.Color("#e0e6ef"),

	Text:    lipgloss.Color("#000000"),
	Subtext: lipgloss.Color("#374151"),
	Overlay: lipgloss.Color("#9ca3af"),

	Red:      lipgloss.Color("#dc2626"),
	Peach:    lipgloss.Color("#f97316"),
	Yellow:   lipgloss.Color("#eab308"),
	Green:    lipgloss.Color("#16a34a"),
	Teal:     lipgloss.Color("#0d9488"),
	Blue:     lipgloss.Color("#3b82f6"),
	Mauve:    lipgloss.Color("#9333ea"),
	Lavender: lipgloss.Color("#6366f1"),

	Primary: lipgloss.Color("#3b82f6"),
	Success: lipgloss.Color("#16a34a"),
	Warning: lipgloss.Color("#eab308"),
	Error:   lipgloss.Color("#dc2626"),
	Info:    lipgloss.Color("#0ea5e9"),
}

// Plain is a no-color theme that uses empty/default colors.
// Used when NO_COLOR is set or for accessibility needs.
var Plain = Theme{Name: "plain"}

// Nord - popular arctic theme
var Nord = Theme{
	Name:     "nord",
	Base:     lipgloss.Color("#2e3440"),
	Mantle:   lipgloss.Color("#272c36"),
	Surface0: lipgloss.Color("#3b4252"),
	Surface1: lipgloss.Color("#434c5e"),
	Surface2: lipgloss.Color("#4c566a"),

	Text:    lipgloss.Color("#eceff4"),
	Subtext: lipgloss.Color("#d8dee9"),
	Overlay: lipgloss.Color("#4c566a"),

	Red:      lipgloss.Color("#bf616a"),
	Peach:    lipgloss.Color("#d08770"),
	Yellow:   lipgloss.Color("#ebcb8b"),
	Green:    lipgloss.Color("#a3be8c"),
	Teal:     lipgloss.Color("#8fbcbb"),
	Blue:     lipgloss.Color("#81a1c1"),
	Mauve:    lipgloss.Color("#b48ead"),
	Lavender: lipgloss.Color("#88c0d0"),

	Primary: lipgloss.Color("#88c0d0"),
	Success: lipgloss.Color("#a3be8c"),
	Warning: lipgloss.Color("#ebcb8b"),
	Error:   lipgloss.Color("#bf616a"),
	Info:    lipgloss.Color("#81a1c1"),
}

// Default is the currently active theme
var Default = CatppuccinMocha

// Names lists the accepted theme names.
func Names() []string {
	return []string{"auto", "mocha", "macchiato", "latte", "nord", "paper", "plain"}
}

// NoColorEnabled returns true if color output should be disabled.
// Respects the NO_COLOR standard (https://no-color.org/):
// - If NO_COLOR exists in environment (any value), colors are disabled
// - GANTT_NO_COLOR=1 also disables colors
// - GANTT_NO_COLOR=0 forces colors ON (overrides NO_COLOR)
func NoColorEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("GANTT_NO_COLOR"))) {
	case "0", "false", "no", "off":
		return false
	case "1", "true", "yes", "on":
		return true
	}

	_, noColorSet := os.LookupEnv("NO_COLOR")
	return noColorSet
}

// FromName returns a theme by name
func FromName(name string) Theme {
	if NoColorEnabled() {
		return Plain
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "plain", "none", "no-color", "nocolor":
		return Plain
	case "macchiato":
		return CatppuccinMacchiato
	case "nord":
		return Nord
	case "latte", "light":
		return CatppuccinLatte
	case "paper", "white":
		return Paper
	case "mocha", "dark":
		return CatppuccinMocha
	default:
		return autoTheme()
	}
}

// Current returns the theme named by GANTT_THEME, or the auto-detected one
func Current() Theme {
	return FromName(os.Getenv("GANTT_THEME"))
}

// Resolve prefers GANTT_THEME over a configured name.
func Resolve(configured string) Theme {
	if env := strings.TrimSpace(os.Getenv("GANTT_THEME")); env != "" {
		return FromName(env)
	}
	return FromName(configured)
}

// detectDarkBackground inspects the terminal to determine if a dark background is in use.
// It is defined as a variable for testability.
var detectDarkBackground = func() bool {
	output := termenv.NewOutput(os.Stdout)
	return output.HasDarkBackground()
}

var (
	cachedAutoTheme Theme
	autoThemeOnce   sync.Once
)

var resetAutoTheme = func() {
	autoThemeOnce = sync.Once{}
	cachedAutoTheme = Theme{}
}

func autoTheme() Theme {
	autoThemeOnce.Do(func() {
		cachedAutoTheme = CatppuccinMocha

		defer func() {
			if recover() != nil {
				cachedAutoTheme = CatppuccinMocha
			}
		}()

		if !detectDarkBackground() {
			cachedAutoTheme = CatppuccinLatte
		}
	})
	return cachedAutoTheme
}

// Styles contains pre-built lipgloss styles for the viewer chrome
type Styles struct {
	Title     lipgloss.Style
	Normal    lipgloss.Style
	Dim       lipgloss.Style
	Highlight lipgloss.Style
	Error     lipgloss.Style

	Sidebar         lipgloss.Style
	SidebarSelected lipgloss.Style

	Help      lipgloss.Style
	StatusBar lipgloss.Style
	Box       lipgloss.Style
}

// NewStyles creates a Styles instance from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),

		Normal: lipgloss.NewStyle().
			Foreground(t.Text),

		Dim: lipgloss.NewStyle().
			Foreground(t.Overlay),

		Highlight: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Lavender),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Error),

		Sidebar: lipgloss.NewStyle().
			Foreground(t.Subtext).
			Background(t.Mantle),

		SidebarSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Base).
			Background(t.Primary),

		Help: lipgloss.NewStyle().
			Foreground(t.Overlay),

		StatusBar: lipgloss.NewStyle().
			Foreground(t.Text).
			Background(t.Surface0).
			Padding(0, 1),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Surface2).
			Padding(1, 2),
	}
}
