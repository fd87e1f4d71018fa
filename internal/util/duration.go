// Package util holds small parsers shared by the CLI, config and replay.
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses human-friendly durations: 30s, 5m, 1h, 1d, 1w and
// anything time.ParseDuration accepts (250ms, 1h30m).
func ParseDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		if s == "0" {
			return 0, nil
		}
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	unit := s[len(s)-1]
	value, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return time.ParseDuration(s)
	}
	switch unit {
	case 'd':
		return time.Duration(value) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(value) * 7 * 24 * time.Hour, nil
	default:
		return time.ParseDuration(s)
	}
}

// ParseDurationWithDefault is ParseDuration that also accepts a bare
// number, read in defaultUnit.
func ParseDurationWithDefault(s string, defaultUnit time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, err := ParseDuration(s); err == nil {
		return d, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration: %q (use units like 250ms, 2s)", s)
	}
	return time.Duration(n * float64(defaultUnit)), nil
}

// ParseSize parses "WIDTHxHEIGHT" in CSS pixels, e.g. "800x600".
func ParseSize(s string) (float64, float64, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q: want WIDTHxHEIGHT", s)
	}
	w, err := strconv.ParseFloat(ws, 64)
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("invalid width in %q", s)
	}
	h, err := strconv.ParseFloat(hs, 64)
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("invalid height in %q", s)
	}
	return w, h, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
