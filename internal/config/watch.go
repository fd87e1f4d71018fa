package config

import (
	"fmt"
	"time"

	"github.com/theirongolddev/gantt/internal/logging"
	"github.com/theirongolddev/gantt/internal/watcher"
)

// Watch reloads the merged config whenever one of its source files
// changes and passes the result to onChange. Reload failures are logged
// and the previous config stays in effect. The returned function stops
// watching.
func Watch(cwd string, src Sources, onChange func(*Config)) (func(), error) {
	w, err := watcher.New(func(events []watcher.Event) {
		cfg, _, err := LoadMerged(cwd, src.Global)
		if err != nil {
			logging.Logger().Warn("config reload failed", "error", err)
			return
		}
		if onChange != nil {
			onChange(cfg)
		}
	},
		watcher.WithDebounceDuration(300*time.Millisecond),
		watcher.WithErrorHandler(func(err error) {
			logging.Logger().Debug("config watcher", "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}

	for _, p := range []string{src.Global, src.Project} {
		if p == "" {
			continue
		}
		if err := w.Add(p); err != nil {
			w.Close()
			return nil, fmt.Errorf("watching %s: %w", p, err)
		}
	}
	return func() { w.Close() }, nil
}
