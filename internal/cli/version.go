package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gantt/internal/output"
)

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd.OutOrStdout(), short)
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "print only the version number")
	return cmd
}

func runVersion(w io.Writer, short bool) error {
	if short && !jsonOutput {
		fmt.Fprintln(w, Version)
		return nil
	}
	resp := output.VersionResponse{
		Version:   Version,
		Commit:    Commit,
		BuiltAt:   Date,
		BuiltBy:   BuiltBy,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	return formatter(w).OutputData(resp, func(w io.Writer) error {
		fmt.Fprintf(w, "gantt version %s\n", resp.Version)
		fmt.Fprintf(w, "  commit:     %s\n", resp.Commit)
		fmt.Fprintf(w, "  built:      %s\n", resp.BuiltAt)
		fmt.Fprintf(w, "  builder:    %s\n", resp.BuiltBy)
		fmt.Fprintf(w, "  go version: %s\n", resp.GoVersion)
		fmt.Fprintf(w, "  platform:   %s\n", resp.Platform)
		return nil
	})
}
