package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gantt/internal/output"
	"github.com/theirongolddev/gantt/internal/profiler"
	"github.com/theirongolddev/gantt/internal/task"
)

// resetFlags resets global flags to default values between tests
func resetFlags(t *testing.T) {
	t.Helper()
	jsonOutput = false
	cfgFile = ""
	debug = false
	logFile = ""
	profileRun = false
	cfg = nil

	var reset func(c *cobra.Command)
	reset = func(c *cobra.Command) {
		if f := c.Flags().Lookup("help"); f != nil {
			f.Value.Set("false")
		}
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"GANTT_CONFIG", "GANTT_THEME", "GANTT_DPR", "GANTT_START_DATE", "GANTT_OUTPUT_FORMAT"} {
		t.Setenv(k, "")
	}
	fixed := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func writeTasks(t *testing.T, count int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	items := task.Generate(task.GenerateOptions{Count: count, Seed: 1, Anchor: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)})
	var buf bytes.Buffer
	if err := task.Encode(&buf, items, task.FormatJSON); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func cliCode(err error) string {
	var e *output.CLIError
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func TestExecuteHelp(t *testing.T) {
	resetFlags(t)
	out, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("Execute() with --help failed: %v", err)
	}
	for _, name := range []string{"render", "view", "range", "generate", "replay", "config", "version"} {
		if !strings.Contains(out, name) {
			t.Errorf("help output is missing %q", name)
		}
	}
}

func TestVersion(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short", []string{"version", "--short"}, Version + "\n"},
		{"text", []string{"version"}, "gantt version " + Version},
		{"json", []string{"--json", "version"}, `"go_version"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestGenerateWritesFile(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "plan.yaml")
	out, err := execute(t, "generate", "-o", path, "--count", "12", "--seed", "3", "--anchor", "2025-01-01", "--format", "")
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}
	if !strings.Contains(out, "Wrote 12 tasks") {
		t.Errorf("output = %q, want a success line", out)
	}
	d, err := task.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if d.Len() != 12 {
		t.Errorf("Len() = %d, want 12", d.Len())
	}
}

func TestGenerateStdout(t *testing.T) {
	resetFlags(t)
	out, err := execute(t, "generate", "-o", "-", "--format", "yaml", "--count", "3", "--seed", "1", "--anchor", "2025-01-01")
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}
	items, err := task.Decode(strings.NewReader(out), task.FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error = %v\n%s", err, out)
	}
	if len(items) != 3 {
		t.Errorf("decoded %d items, want 3", len(items))
	}
}

func TestGenerateRejectsBadCount(t *testing.T) {
	resetFlags(t)
	if _, err := execute(t, "generate", "-o", "-", "--count", "0", "--format", "json"); err == nil {
		t.Error("generate --count 0 succeeded")
	}
}

func TestRenderPNG(t *testing.T) {
	resetFlags(t)
	tasks := writeTasks(t, 20)
	png1 := filepath.Join(t.TempDir(), "chart.png")

	out, err := execute(t, "render", tasks, "-o", png1, "--size", "400x300", "--dpr", "2",
		"--scroll-left", "0", "--scroll-top", "0", "--zoom", "0", "--theme", "paper")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.Contains(out, "Rendered 800x600 px") {
		t.Errorf("output = %q, want the backing size", out)
	}

	f, err := os.Open(png1)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	pc, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("DecodeConfig() error = %v", err)
	}
	if pc.Width != 800 || pc.Height != 600 {
		t.Errorf("PNG = %dx%d, want 800x600", pc.Width, pc.Height)
	}
}

func TestRenderJSON(t *testing.T) {
	resetFlags(t)
	tasks := writeTasks(t, 20)
	out, err := execute(t, "--json", "render", tasks, "-o", filepath.Join(t.TempDir(), "c.png"),
		"--size", "400x300", "--dpr", "1", "--scroll-left", "0", "--scroll-top", "0", "--zoom", "0.25", "--theme", "")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	var resp output.RenderResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v\n%s", err, out)
	}
	if resp.Width != 400 || resp.Height != 300 || resp.Viewport.TotalRows != 20 {
		t.Errorf("RenderResponse = %+v", resp)
	}
	if resp.Bars == 0 {
		t.Error("Bars = 0, want some visible bars")
	}
}

func TestRenderMissingTasks(t *testing.T) {
	resetFlags(t)
	_, err := execute(t, "render", filepath.Join(t.TempDir(), "missing.json"), "-o", "-", "--size", "10x10")
	if got := cliCode(err); got != "TASKS_NOT_FOUND" {
		t.Errorf("error code = %q (%v), want TASKS_NOT_FOUND", got, err)
	}
}

func TestRangeJSON(t *testing.T) {
	resetFlags(t)
	tasks := writeTasks(t, 10)
	out, err := execute(t, "--json", "range", tasks, "--size", "800x600",
		"--scroll-left", "0", "--scroll-top", "0", "--zoom", "0", "--columns", "0")
	if err != nil {
		t.Fatalf("range error = %v", err)
	}
	var resp output.RangeResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v\n%s", err, out)
	}
	v := resp.Visible
	if v.StartRow != 0 || v.EndRow != 10 || v.StartCol != 0 || v.EndCol != 20 {
		t.Errorf("Visible = %+v, want rows [0,10) cols [0,20)", v)
	}
	if len(resp.Ticks) != 20 || len(resp.Months) == 0 {
		t.Errorf("got %d ticks and %d months, want 20 ticks", len(resp.Ticks), len(resp.Months))
	}
}

func TestRangeText(t *testing.T) {
	resetFlags(t)
	tasks := writeTasks(t, 10)
	out, err := execute(t, "range", tasks, "--size", "800x600",
		"--scroll-left", "0", "--scroll-top", "0", "--zoom", "0", "--columns", "0")
	if err != nil {
		t.Fatalf("range error = %v", err)
	}
	for _, want := range []string{"Visible  rows [0,10) cols [0,20)", "NAME", "START"} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}
}

const replayScript = `
name: fling
start_date: "2025-01-01"
viewport: {width: 800, height: 600}
generate: {count: 10, seed: 1}
events:
  - at: 100ms
    scroll: {x: 1400, y: 0}
  - after: 250ms
    scroll_by: {x: 40, y: 0}
`

func TestReplayGolden(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	script := filepath.Join(dir, "fling.yaml")
	golden := filepath.Join(dir, "fling.golden")
	if err := os.WriteFile(script, []byte(replayScript), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "replay", script, "--golden", golden, "--update"); err != nil {
		t.Fatalf("replay --update error = %v", err)
	}
	data, err := os.ReadFile(golden)
	if err != nil || !strings.Contains(string(data), "replay: fling") {
		t.Fatalf("golden = %q, %v", data, err)
	}

	out, err := execute(t, "replay", script, "--golden", golden, "--update=false")
	if err != nil {
		t.Fatalf("replay against golden error = %v", err)
	}
	if !strings.Contains(out, "columns: 110") {
		t.Errorf("report = %q, want 110 columns", out)
	}

	if err := os.WriteFile(golden, []byte(strings.Replace(string(data), "110", "60", 1)), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = execute(t, "replay", script, "--golden", golden, "--update=false")
	if got := cliCode(err); got != "GOLDEN_MISMATCH" {
		t.Errorf("error code = %q (%v), want GOLDEN_MISMATCH", got, err)
	}
	if !strings.Contains(out, "+columns: 110") {
		t.Errorf("diff = %q, want the changed line", out)
	}
}

func TestReplayErrors(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("events:\n  - jump: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"invalid script", []string{"replay", bad, "--golden", "", "--update=false"}, "REPLAY_INVALID"},
		{"missing golden", []string{"replay", writeScript(t, dir), "--golden", filepath.Join(dir, "none"), "--update=false"}, "GOLDEN_MISSING"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if got := cliCode(err); got != tt.code {
				t.Errorf("error code = %q (%v), want %s", got, err, tt.code)
			}
		})
	}
}

func writeScript(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "ok.yaml")
	if err := os.WriteFile(path, []byte(replayScript), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigInitAndShow(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "gantt.toml")

	out, err := execute(t, "--config", path, "config", "init", "--project=false")
	if err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if !strings.Contains(out, "Created "+path) {
		t.Errorf("init output = %q", out)
	}
	if _, err := execute(t, "--config", path, "config", "init", "--project=false"); err == nil {
		t.Error("second config init succeeded")
	}

	out, err = execute(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	for _, want := range []string{"# global: " + path, "[grid]", "row_height"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output is missing %q:\n%s", want, out)
		}
	}
}

func TestConfigPath(t *testing.T) {
	resetFlags(t)
	out, err := execute(t, "--config", "/etc/gantt.toml", "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "/etc/gantt.toml" {
		t.Errorf("config path = %q, want /etc/gantt.toml", out)
	}
}

func TestInvalidConfigIsReported(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[grid\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, "--config", path, "range", "--size", "10x10")
	if got := cliCode(err); got != "CONFIG_INVALID" {
		t.Errorf("error code = %q (%v), want CONFIG_INVALID", got, err)
	}
}

func TestLogFile(t *testing.T) {
	resetFlags(t)
	logPath := filepath.Join(t.TempDir(), "gantt.log")
	tasks := writeTasks(t, 3)
	if _, err := execute(t, "--debug", "--log-file", logPath, "range", tasks, "--size", "100x100",
		"--scroll-left", "0", "--scroll-top", "0", "--zoom", "0", "--columns", "0"); err != nil {
		t.Fatal(err)
	}
	if closeLogger != nil {
		closeLogger()
		closeLogger = nil
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "config loaded") {
		t.Errorf("log = %q, want the config debug line", data)
	}
}

func TestProfileGoesToStderr(t *testing.T) {
	resetFlags(t)
	defer profiler.Disable()
	tasks := writeTasks(t, 5)

	var out, errOut bytes.Buffer
	rootCmd.SetArgs([]string{"--profile", "render", tasks, "-o", filepath.Join(t.TempDir(), "p.png"),
		"--size", "200x100", "--dpr", "1", "--scroll-left", "0", "--scroll-top", "0", "--zoom", "0", "--theme", ""})
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errOut.String(), "=== gantt profile ===") {
		t.Errorf("stderr = %q, want the profile", errOut.String())
	}
	if strings.Contains(out.String(), "gantt profile") {
		t.Error("profile leaked into stdout")
	}
}
