package output

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/gantt/internal/tui/theme"
)

// CLIError represents a structured CLI error with remediation hints.
type CLIError struct {
	Message string // What failed
	Cause   string // Why it failed (optional)
	Hint    string // Fastest command/action to fix it (optional)
	Code    string // Error code for programmatic handling (optional)

	err error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	if e.Cause != "" {
		return e.Message + ": " + e.Cause
	}
	return e.Message
}

// Unwrap returns the error the CLIError was built from, if any.
func (e *CLIError) Unwrap() error {
	return e.err
}

// NewCLIError creates a new CLI error with just a message.
func NewCLIError(msg string) *CLIError {
	return &CLIError{Message: msg}
}

// WithCause adds a cause to the error.
func (e *CLIError) WithCause(cause string) *CLIError {
	e.Cause = cause
	return e
}

// WithErr records err as the cause and keeps it for errors.Is.
func (e *CLIError) WithErr(err error) *CLIError {
	if err != nil {
		e.err = err
		e.Cause = err.Error()
	}
	return e
}

// WithHint adds a remediation hint to the error.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// WithCode adds an error code to the error.
func (e *CLIError) WithCode(code string) *CLIError {
	e.Code = code
	return e
}

// FormatCLIError formats a CLIError for terminal output.
func FormatCLIError(e *CLIError) string {
	return formatCLIError(e, useColor(os.Stderr))
}

func formatCLIError(e *CLIError, color bool) string {
	label := func(s string, _ lipgloss.Color) string { return s }
	if color {
		label = func(s string, c lipgloss.Color) string {
			return lipgloss.NewStyle().Foreground(c).Render(s)
		}
	}
	t := theme.Current()

	var sb strings.Builder
	if color {
		sb.WriteString(lipgloss.NewStyle().Foreground(t.Error).Bold(true).Render("Error: "))
	} else {
		sb.WriteString("Error: ")
	}
	sb.WriteString(e.Message)
	if e.Code != "" {
		sb.WriteString(" ")
		sb.WriteString(label("["+e.Code+"]", t.Overlay))
	}
	sb.WriteString("\n")
	if e.Cause != "" {
		sb.WriteString(label("  Cause: ", t.Subtext))
		sb.WriteString(e.Cause)
		sb.WriteString("\n")
	}
	if e.Hint != "" {
		sb.WriteString(label("  Hint: ", t.Info))
		sb.WriteString(e.Hint)
		sb.WriteString("\n")
	}
	return sb.String()
}

// PrintCLIError prints a CLIError to stderr with formatting.
func PrintCLIError(e *CLIError) {
	fmt.Fprint(os.Stderr, FormatCLIError(e))
}

// WriteError writes err to w as JSON (jsonMode) or formatted text.
// Plain errors are wrapped into a CLIError without a hint.
func WriteError(w io.Writer, err error, jsonMode bool) {
	var cliErr *CLIError
	if !errors.As(err, &cliErr) {
		cliErr = NewCLIError(err.Error())
	}
	if jsonMode {
		_ = WriteJSON(w, ErrorResponse{
			Error:   cliErr.Message,
			Code:    cliErr.Code,
			Details: cliErr.Cause,
			Hint:    cliErr.Hint,
		}, true)
		return
	}
	fmt.Fprint(w, formatCLIError(cliErr, useColor(w)))
}

// Common error hints for frequent scenarios
var (
	HintConfigNotFound = "Run 'gantt config init' to create a default configuration"
	HintConfigInvalid  = "Check config syntax with 'gantt config show' or edit ~/.config/gantt/config.toml"

	HintTaskFileNotFound = "Create one with 'gantt generate -o tasks.json'"
	HintTaskFileInvalid  = "Task files are JSON or YAML lists of {id, name, startDate, endDate}"

	HintReplayInvalid = "Replay events are scroll, scroll_by, wheel, resize, dpr, zoom or wait"
	HintGoldenUpdate  = "Re-run with --update to accept the new output"

	HintPermissionDenied = "Check file permissions or run with appropriate privileges"
)

// TaskFileError creates an error for a task file that could not be loaded.
func TaskFileError(path string, err error) *CLIError {
	e := NewCLIError(fmt.Sprintf("cannot load tasks from %s", path)).WithErr(err)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return e.WithCode("TASKS_NOT_FOUND").WithHint(HintTaskFileNotFound)
	case errors.Is(err, fs.ErrPermission):
		return e.WithCode("PERMISSION_DENIED").WithHint(HintPermissionDenied)
	default:
		return e.WithCode("TASKS_INVALID").WithHint(HintTaskFileInvalid)
	}
}

// ConfigError creates an error for a config file that could not be loaded.
func ConfigError(err error) *CLIError {
	e := NewCLIError("cannot load configuration").WithErr(err)
	if errors.Is(err, fs.ErrNotExist) {
		return e.WithCode("CONFIG_NOT_FOUND").WithHint(HintConfigNotFound)
	}
	return e.WithCode("CONFIG_INVALID").WithHint(HintConfigInvalid)
}

// ReplayError creates an error for a replay script that could not be run.
func ReplayError(path string, err error) *CLIError {
	return NewCLIError(fmt.Sprintf("cannot replay %s", path)).
		WithErr(err).
		WithCode("REPLAY_INVALID").
		WithHint(HintReplayInvalid)
}

// GoldenMismatchError reports a replay whose output differs from its golden file.
func GoldenMismatchError(path string, d *DiffResult) *CLIError {
	return NewCLIError(fmt.Sprintf("output differs from golden file %s", path)).
		WithCause(fmt.Sprintf("%d line(s) added, %d removed", d.Added, d.Removed)).
		WithCode("GOLDEN_MISMATCH").
		WithHint(HintGoldenUpdate)
}
