package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gantt/internal/output"
	"github.com/theirongolddev/gantt/internal/replay"
)

type replayOptions struct {
	golden string
	update bool
}

func newReplayCmd() *cobra.Command {
	opts := replayOptions{}
	cmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Run a scripted input session on a virtual clock",
		Long: `Replay feeds timed scroll, wheel, resize, zoom and dpr events through the
input pipeline. Time is virtual: frames fire on a fixed interval, so the
report of frames, coalesced requests and column growth is the same on
every run.

With --golden the text report is compared against a file and the command
fails on any difference; --update rewrites the file instead.

Examples:
  gantt replay testdata/fling.yaml
  gantt replay fling.yaml --golden fling.golden
  gantt replay fling.yaml --golden fling.golden --update`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.OutOrStdout(), args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.golden, "golden", "", "compare the text report against this file")
	cmd.Flags().BoolVar(&opts.update, "update", false, "write the report to the --golden file")
	return cmd
}

func runReplay(w io.Writer, path string, opts replayOptions) error {
	if opts.update && opts.golden == "" {
		return errors.New("--update needs --golden")
	}
	s, err := replay.Load(path)
	if err != nil {
		return output.ReplayError(path, err)
	}
	rep, err := replay.Run(s, replay.Options{Engine: engineConfig(settings(), time.Time{})})
	if err != nil {
		return output.ReplayError(path, err)
	}

	if opts.golden != "" {
		if err := checkGolden(w, opts.golden, rep.Text(), opts.update); err != nil {
			return err
		}
	}
	return formatter(w).OutputData(rep, rep.WriteText)
}

func checkGolden(w io.Writer, path, got string, update bool) error {
	if update {
		if err := os.WriteFile(path, []byte(got), 0o644); err != nil {
			return fmt.Errorf("writing golden file: %w", err)
		}
		output.ProgressWriter(w).Successf("Updated %s", path)
		return nil
	}
	want, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return output.NewCLIError(fmt.Sprintf("golden file %s does not exist", path)).
			WithCode("GOLDEN_MISSING").
			WithHint(output.HintGoldenUpdate)
	}
	if err != nil {
		return fmt.Errorf("reading golden file: %w", err)
	}
	if bytes.Equal(want, []byte(got)) {
		return nil
	}
	d := output.ComputeDiff(path, string(want), "replay", got)
	d.Write(w)
	return output.GoldenMismatchError(path, d)
}
