package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gantt/internal/output"
	"github.com/theirongolddev/gantt/internal/task"
)

type generateOptions struct {
	output string
	format string
	count  int
	seed   uint64
	anchor string
	deps   int
}

func newGenerateCmd() *cobra.Command {
	opts := generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a demo construction schedule",
		Long: `Generate writes a reproducible schedule of tasks with dependencies. The
same count, seed and anchor always produce the same file.

Examples:
  gantt generate -o tasks.json
  gantt generate --count 5000 --seed 7 -o big.yaml
  gantt generate --anchor 2025-01-01 -o - | jq length`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "tasks.json", "file to write, - for stdout")
	cmd.Flags().StringVar(&opts.format, "format", "", "json or yaml (default from the file extension)")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 200, "number of tasks")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "random seed")
	cmd.Flags().StringVar(&opts.anchor, "anchor", "", "YYYY-MM-DD the schedule is built around (default today)")
	cmd.Flags().IntVar(&opts.deps, "max-deps", 0, "maximum dependencies per task (default 5)")
	return cmd
}

func runGenerate(w io.Writer, opts generateOptions) error {
	if opts.count <= 0 {
		return fmt.Errorf("--count must be positive, got %d", opts.count)
	}
	format, err := generateFormat(opts)
	if err != nil {
		return err
	}
	anchor := now()
	if opts.anchor != "" {
		d, err := task.ParseDate(opts.anchor)
		if err != nil {
			return fmt.Errorf("invalid --anchor: %w", err)
		}
		anchor = d.Time
	}
	anchor = time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)

	items := task.Generate(task.GenerateOptions{
		Count:           opts.count,
		Seed:            opts.seed,
		Anchor:          anchor,
		MaxDependencies: opts.deps,
	})
	var buf bytes.Buffer
	if err := task.Encode(&buf, items, format); err != nil {
		return err
	}
	if opts.output == "-" {
		_, err := w.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(opts.output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", opts.output, err)
	}

	start, end, _ := task.NewDataset(items).Span()
	return formatter(w).OutputData(output.GenerateResponse{
		TimestampedResponse: output.NewTimestamped(),
		Output:              opts.output,
		Format:              string(format),
		Count:               len(items),
		Start:               start.Format(task.DateLayout),
		End:                 end.Format(task.DateLayout),
	}, func(w io.Writer) error {
		output.PrintSuccessCheck(w, fmt.Sprintf("Wrote %s to %s", output.CountStr(len(items), "task", "tasks"), opts.output))
		fmt.Fprintf(w, "  %s to %s\n", start.Format("2 Jan 2006"), end.Format("2 Jan 2006"))
		output.PrintSuccessFooter(w, output.GenerateSuggestions(opts.output)...)
		return nil
	})
}

func generateFormat(opts generateOptions) (task.Format, error) {
	if opts.format != "" {
		return task.ParseFormat(opts.format)
	}
	if opts.output == "-" {
		return task.FormatJSON, nil
	}
	return task.FormatFor(opts.output)
}
