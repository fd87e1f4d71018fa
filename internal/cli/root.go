// Package cli implements the gantt command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gantt/internal/config"
	"github.com/theirongolddev/gantt/internal/logging"
	"github.com/theirongolddev/gantt/internal/output"
	"github.com/theirongolddev/gantt/internal/profiler"
)

var (
	cfgFile    string
	cfg        *config.Config
	cfgSources config.Sources

	// Global JSON output flag - inherited by all subcommands
	jsonOutput bool

	debug       bool
	logFile     string
	profileRun  bool
	closeLogger func() error

	// Build information - set by goreleaser via ldflags
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
	BuiltBy = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "gantt",
	Short: "Virtualized Gantt chart renderer and terminal viewer",
	Long: `gantt draws task schedules on a virtualized timeline. Only the rows and
columns in view are painted, and the timeline grows to the right as you
scroll toward its end.

Quick Start:
  gantt generate -o tasks.json          # Write a demo schedule
  gantt view tasks.json                 # Browse it in the terminal
  gantt render tasks.json -o chart.png  # Paint one viewport to PNG
  gantt replay scroll.yaml              # Run a scripted input session`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd.ErrOrStderr()); err != nil {
			return err
		}
		if profileRun {
			profiler.Enable()
		}
		if skipsConfig(cmd) {
			return nil
		}
		span := profiler.Start("config.load", profiler.PhaseStartup)
		defer span.End()

		var err error
		cfg, cfgSources, err = config.LoadMerged("", cfgFile)
		if err != nil {
			return output.ConfigError(err)
		}
		logging.Logger().Debug("config loaded", "global", cfgSources.Global, "project", cfgSources.Project)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if !profileRun {
			return nil
		}
		// Profiles go to stderr so they never mix with command output.
		return writeProfile(cmd.ErrOrStderr())
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/gantt/config.toml)")
	pf.BoolVar(&jsonOutput, "json", false, "output in JSON format")
	pf.BoolVar(&debug, "debug", false, "log debug messages to stderr or --log-file")
	pf.StringVar(&logFile, "log-file", "", "append logs to this file")
	pf.BoolVar(&profileRun, "profile", false, "print input and frame timings when the command exits")

	rootCmd.AddCommand(
		newRenderCmd(),
		newViewCmd(),
		newRangeCmd(),
		newGenerateCmd(),
		newReplayCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
}

// skipsConfig lists commands that never read settings.
func skipsConfig(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "path", "init", "help":
		return true
	}
	return false
}

// setupLogging installs a text logger when --debug or --log-file is set.
// Without either the logger stays silent.
func setupLogging(stderr io.Writer) error {
	if closeLogger != nil {
		closeLogger()
		closeLogger = nil
	}
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		closeLogger = f.Close
		logging.SetLogger(logging.NewText(f, level))
	case debug:
		logging.SetLogger(logging.NewText(stderr, level))
	default:
		logging.SetLogger(nil)
	}
	return nil
}

// settings returns the loaded config, or defaults for commands that
// skipped loading.
func settings() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

// Execute runs the root command and prints any error.
func Execute() error {
	err := rootCmd.Execute()
	if closeLogger != nil {
		closeLogger()
	}
	if err != nil {
		output.WriteError(os.Stderr, err, output.DetectFormat(jsonOutput) == output.FormatJSON)
	}
	return err
}

// formatter writes command results to w in the requested format.
func formatter(w io.Writer) *output.Formatter {
	return output.New(output.WithFormat(output.DetectFormat(jsonOutput)), output.WithWriter(w), output.WithPretty(true))
}

func writeProfile(w io.Writer) error {
	report := profiler.GetReport()
	if output.DetectFormat(jsonOutput) == output.FormatJSON {
		return output.WriteJSON(w, report, true)
	}
	if err := profiler.WriteText(w); err != nil {
		return err
	}
	p := output.ProgressWriter(w)
	for _, rec := range report.Recommendations {
		switch rec.Severity {
		case profiler.SeverityCritical:
			p.Errorf("%s: %s", rec.Message, rec.Suggestion)
		case profiler.SeverityWarning:
			p.Warningf("%s: %s", rec.Message, rec.Suggestion)
		default:
			p.Infof("%s: %s", rec.Message, rec.Suggestion)
		}
	}
	return nil
}
