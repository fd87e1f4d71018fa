package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProjectDir is the per-project settings directory.
const ProjectDir = ".gantt"

// FindProjectConfig searches for .gantt/config.toml starting at startDir
// and walking up. It returns the directory holding .gantt and the file
// path, or empty strings when none exists.
func FindProjectConfig(startDir string) (dir, path string, err error) {
	dir, err = filepath.Abs(startDir)
	if err != nil {
		return "", "", err
	}
	for {
		p := filepath.Join(dir, ProjectDir, "config.toml")
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return dir, p, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", nil
		}
		dir = parent
	}
}

const projectTemplate = `# Project gantt settings; keys here override the global config.

[grid]
# start_date = "2025-01-01"
# total_rows = 0

[render]
# theme = "paper"

[tui]
# watch = true
`

// InitProjectConfig creates .gantt/config.toml under dir.
func InitProjectConfig(dir string) (string, error) {
	gdir := filepath.Join(dir, ProjectDir)
	if err := os.MkdirAll(gdir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s directory: %w", ProjectDir, err)
	}
	path := filepath.Join(gdir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("project config already exists at %s", path)
	}
	if err := os.WriteFile(path, []byte(projectTemplate), 0o644); err != nil {
		return "", fmt.Errorf("writing project config: %w", err)
	}
	return path, nil
}
