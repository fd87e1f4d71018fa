package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gantt/internal/config"
	"github.com/theirongolddev/gantt/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage gantt configuration",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigInitCmd(), newConfigPathCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout())
		},
	}
}

type configShowResponse struct {
	Sources config.Sources `json:"sources"`
	Config  *config.Config `json:"config"`
}

func runConfigShow(w io.Writer) error {
	c := settings()
	return formatter(w).OutputData(configShowResponse{Sources: cfgSources, Config: c}, func(w io.Writer) error {
		for _, s := range []struct{ label, path string }{
			{"global", cfgSources.Global},
			{"project", cfgSources.Project},
		} {
			if s.path != "" {
				fmt.Fprintf(w, "# %s: %s\n", s.label, s.path)
			}
		}
		return config.Print(c, w)
	})
}

func newConfigInitCmd() *cobra.Command {
	var project bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file with the defaults",
		Long: `Init writes the global config file, or with --project a
.gantt/config.toml in the current directory whose keys override it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd.OutOrStdout(), project)
		},
	}
	cmd.Flags().BoolVar(&project, "project", false, "create .gantt/config.toml in the current directory")
	return cmd
}

func runConfigInit(w io.Writer, project bool) error {
	var (
		path string
		err  error
	)
	if project {
		cwd, werr := os.Getwd()
		if werr != nil {
			return werr
		}
		path, err = config.InitProjectConfig(cwd)
	} else if cfgFile != "" {
		path, err = cfgFile, writeDefaultConfig(cfgFile)
	} else {
		path, err = config.CreateDefault()
	}
	if err != nil {
		return err
	}

	return formatter(w).OutputData(output.SuccessResponse{Success: true, Message: "config created", Path: path}, func(w io.Writer) error {
		output.PrintSuccessCheck(w, fmt.Sprintf("Created %s", path))
		output.PrintSuccessFooter(w, output.ConfigInitSuggestions(path)...)
		return nil
	})
}

// writeDefaultConfig writes the defaults to an explicit --config path.
func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	if err := config.Print(config.Default(), f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the global config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			path := cfgFile
			if path == "" {
				path = config.DefaultPath()
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
		},
	}
}
