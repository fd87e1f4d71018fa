package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/gantt/internal/tui/theme"
)

// Suggestion is one follow-up command shown after a successful write.
type Suggestion struct {
	Command     string
	Description string
}

func GenerateSuggestions(path string) []Suggestion {
	return []Suggestion{
		{Command: "gantt view " + path, Description: "Open the interactive viewer"},
		{Command: "gantt render " + path + " -o chart.png", Description: "Render a PNG"},
	}
}

func ConfigInitSuggestions(path string) []Suggestion {
	return []Suggestion{
		{Command: "gantt config show", Description: "Print the effective configuration"},
		{Command: "$EDITOR " + path, Description: "Adjust grid and theme settings"},
	}
}

// PrintSuccessCheck prints "✓ msg".
func PrintSuccessCheck(w io.Writer, msg string) {
	ProgressWriter(w).Successf("%s", msg)
}

// PrintSuccessFooter prints a "What's next?" block. Redirected files get
// nothing so scripted runs stay quiet.
func PrintSuccessFooter(w io.Writer, suggestions ...Suggestion) {
	if len(suggestions) == 0 {
		return
	}
	if f, ok := w.(*os.File); ok && !isTerminal(f) {
		return
	}
	if !useColor(w) {
		fmt.Fprintf(w, "\n%s\n\n", FormatSuggestions(suggestions))
		return
	}
	t := theme.Current()
	header := lipgloss.NewStyle().Foreground(t.Subtext).Bold(true)
	cmd := lipgloss.NewStyle().Foreground(t.Info)
	desc := lipgloss.NewStyle().Foreground(t.Overlay)
	fmt.Fprintf(w, "\n%s\n", header.Render("What's next?"))
	for _, s := range suggestions {
		fmt.Fprintf(w, "  %s  %s\n", cmd.Render(s.Command), desc.Render("# "+s.Description))
	}
	fmt.Fprintln(w)
}

// FormatSuggestions renders suggestions without styling.
func FormatSuggestions(suggestions []Suggestion) string {
	if len(suggestions) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("What's next?")
	for _, s := range suggestions {
		fmt.Fprintf(&sb, "\n  %s  # %s", s.Command, s.Description)
	}
	return sb.String()
}
