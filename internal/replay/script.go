// Package replay drives an engine through a scripted sequence of input
// events on a virtual clock and reports what the engine did.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/gantt/internal/input"
	"github.com/theirongolddev/gantt/internal/task"
	"github.com/theirongolddev/gantt/internal/util"
)

// ErrUnknownEvent is returned for an event that names no known kind.
var ErrUnknownEvent = errors.New("unknown replay event")

// Duration is a time.Duration that decodes from "250ms", "2s" or "0".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for Duration
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := util.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler for Duration
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Script is a replay file.
type Script struct {
	Name string `yaml:"name"`

	// StartDate anchors column 0 and the virtual clock.
	StartDate string        `yaml:"start_date"`
	Viewport  ViewportSpec  `yaml:"viewport"`
	Tasks     string        `yaml:"tasks,omitempty"`
	Generate  *GenerateSpec `yaml:"generate,omitempty"`
	Settings  SettingsSpec  `yaml:"settings,omitempty"`
	Events    []Event       `yaml:"events"`

	// dir resolves a relative Tasks path.
	dir string
}

// ViewportSpec sizes the chart before the first event.
type ViewportSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	DPR    float64 `yaml:"dpr,omitempty"`
}

// GenerateSpec builds the demo dataset when no task file is given.
type GenerateSpec struct {
	Count int    `yaml:"count"`
	Seed  uint64 `yaml:"seed,omitempty"`
}

// SettingsSpec tunes the virtual frame loop.
type SettingsSpec struct {
	// FrameInterval is the spacing of ticks that flush pending frames.
	FrameInterval Duration `yaml:"frame_interval,omitempty"`
	// Settle keeps ticking after the last event so locks release and
	// the final frame is painted.
	Settle Duration `yaml:"settle,omitempty"`
	// Unclamped lets scroll run past the content extent.
	Unclamped bool `yaml:"unclamped,omitempty"`
}

// Event is one timed input. Exactly one kind field must be set. At is an
// offset from the start of the replay; After is relative to the previous
// event. Events that land on the same instant are applied as one batch.
type Event struct {
	At    *Duration `yaml:"at,omitempty"`
	After Duration  `yaml:"after,omitempty"`

	Scroll   *Point    `yaml:"scroll,omitempty"`
	ScrollBy *Point    `yaml:"scroll_by,omitempty"`
	Wheel    *Wheel    `yaml:"wheel,omitempty"`
	Resize   *Size     `yaml:"resize,omitempty"`
	DPR      *float64  `yaml:"dpr,omitempty"`
	Zoom     *float64  `yaml:"zoom,omitempty"`
	Wait     *Duration `yaml:"wait,omitempty"`
}

// Point is an absolute or relative scroll position.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Wheel is a wheel delta, zooming with ctrl.
type Wheel struct {
	DX   float64 `yaml:"dx"`
	DY   float64 `yaml:"dy"`
	Ctrl bool    `yaml:"ctrl,omitempty"`
}

// Size is a CSS size.
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// kinds lists the kind names set on e.
func (e Event) kinds() []string {
	var k []string
	if e.Scroll != nil {
		k = append(k, "scroll")
	}
	if e.ScrollBy != nil {
		k = append(k, "scroll_by")
	}
	if e.Wheel != nil {
		k = append(k, "wheel")
	}
	if e.Resize != nil {
		k = append(k, "resize")
	}
	if e.DPR != nil {
		k = append(k, "dpr")
	}
	if e.Zoom != nil {
		k = append(k, "zoom")
	}
	if e.Wait != nil {
		k = append(k, "wait")
	}
	return k
}

// Command converts e to an input command. Wait events have none.
func (e Event) Command() (input.Command, bool) {
	switch {
	case e.Scroll != nil:
		return input.Scroll{X: e.Scroll.X, Y: e.Scroll.Y}, true
	case e.ScrollBy != nil:
		return input.ScrollBy{DX: e.ScrollBy.X, DY: e.ScrollBy.Y}, true
	case e.Wheel != nil:
		return input.Wheel{DX: e.Wheel.DX, DY: e.Wheel.DY, Ctrl: e.Wheel.Ctrl}, true
	case e.Resize != nil:
		return input.Resize{Width: e.Resize.Width, Height: e.Resize.Height}, true
	case e.DPR != nil:
		return input.DevicePixelRatio{Ratio: *e.DPR}, true
	case e.Zoom != nil:
		return input.Zoom{Delta: *e.Zoom}, true
	}
	return nil, false
}

// Load reads and validates a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading replay script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.dir = filepath.Dir(path)
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes and validates a YAML script. Unknown keys are errors.
func Parse(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing replay script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks dates, sizes and that every event names one kind.
func (s *Script) Validate() error {
	var errs []error
	if s.StartDate != "" {
		if _, err := task.ParseDate(s.StartDate); err != nil {
			errs = append(errs, fmt.Errorf("start_date: %w", err))
		}
	}
	if s.Viewport.Width < 0 || s.Viewport.Height < 0 {
		errs = append(errs, fmt.Errorf("viewport: negative size %gx%g", s.Viewport.Width, s.Viewport.Height))
	}
	if s.Tasks != "" && s.Generate != nil {
		errs = append(errs, errors.New("tasks and generate are mutually exclusive"))
	}
	if s.Generate != nil && s.Generate.Count <= 0 {
		errs = append(errs, errors.New("generate.count must be positive"))
	}
	if len(s.Events) == 0 {
		errs = append(errs, errors.New("no events"))
	}

	var last time.Duration
	for i, e := range s.Events {
		switch k := e.kinds(); len(k) {
		case 0:
			errs = append(errs, fmt.Errorf("event %d: %w", i, ErrUnknownEvent))
		case 1:
		default:
			errs = append(errs, fmt.Errorf("event %d: sets %s; one kind per event", i, strings.Join(k, ", ")))
		}
		if e.At != nil && e.After.Duration != 0 {
			errs = append(errs, fmt.Errorf("event %d: at and after are mutually exclusive", i))
		}
		at := offset(e, last)
		if at < last {
			errs = append(errs, fmt.Errorf("event %d: at %s is before the previous event (%s)", i, at, last))
		}
		last = at
		if e.Wait != nil {
			last += e.Wait.Duration
		}
	}
	return errors.Join(errs...)
}

// offset is the time an event applies at, given the previous event's.
func offset(e Event, prev time.Duration) time.Duration {
	if e.At != nil {
		return e.At.Duration
	}
	return prev + e.After.Duration
}

// dataset loads or generates the items the script runs over.
func (s *Script) dataset(anchor time.Time) (*task.Dataset, error) {
	if s.Tasks != "" {
		path := util.ExpandHome(s.Tasks)
		if !filepath.IsAbs(path) && s.dir != "" {
			path = filepath.Join(s.dir, path)
		}
		d, err := task.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading tasks: %w", err)
		}
		return d, nil
	}
	g := GenerateSpec{Count: 100, Seed: 1}
	if s.Generate != nil {
		g = *s.Generate
	}
	return task.NewDataset(task.Generate(task.GenerateOptions{
		Count:  g.Count,
		Seed:   g.Seed,
		Anchor: anchor,
	})), nil
}
