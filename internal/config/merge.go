package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Sources lists the files a merged config was read from.
type Sources struct {
	Global  string `json:"global,omitempty"`
	Project string `json:"project,omitempty"`
}

// LoadMerged layers defaults, the global file (when present) and the
// project file found from cwd, then applies environment overrides. A
// missing global file is not an error; a malformed one is.
func LoadMerged(cwd, globalPath string) (*Config, Sources, error) {
	var src Sources
	if globalPath == "" {
		globalPath = DefaultPath()
	}

	cfg := Default()
	switch err := decodeFile(globalPath, cfg); {
	case err == nil:
		src.Global = globalPath
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, src, err
	}

	if cwd == "" {
		cwd, _ = os.Getwd()
	}
	_, projectPath, err := FindProjectConfig(cwd)
	if err != nil {
		return nil, src, fmt.Errorf("finding project config: %w", err)
	}
	if projectPath != "" {
		if err := decodeFile(projectPath, cfg); err != nil {
			return nil, src, fmt.Errorf("loading project config: %w", err)
		}
		src.Project = projectPath
	}

	cfg.fillZeros()
	if err := cfg.applyEnv(); err != nil {
		return nil, src, err
	}
	return cfg, src, cfg.Validate()
}
