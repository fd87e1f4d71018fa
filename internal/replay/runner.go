package replay

import (
	"fmt"
	"time"

	"github.com/theirongolddev/gantt/internal/engine"
	"github.com/theirongolddev/gantt/internal/input"
	"github.com/theirongolddev/gantt/internal/logging"
	"github.com/theirongolddev/gantt/internal/task"
)

const (
	defaultFrameInterval = 16 * time.Millisecond
	defaultSettle        = 500 * time.Millisecond
)

// Options configure a run.
type Options struct {
	// Engine is the base chart config. Size, start date, clock and
	// ticker are taken from the script.
	Engine engine.Config
}

// runner owns the virtual clock. Frames fire only on ticks, spaced by
// the frame interval, so requests between ticks coalesce.
type runner struct {
	eng      *engine.Engine
	start    time.Time
	now      time.Time
	next     time.Time
	interval time.Duration
}

func (r *runner) clock() time.Time { return r.now }

// advance ticks every frame boundary up to and including t.
func (r *runner) advance(t time.Time) {
	for !r.next.After(t) {
		r.now = r.next
		r.eng.Flush()
		r.next = r.next.Add(r.interval)
	}
	if t.After(r.now) {
		r.now = t
	}
}

// Run plays s against a fresh engine and reports the outcome. The run is
// deterministic: the same script and options give the same report.
func Run(s *Script, opts Options) (*Report, error) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	if s.StartDate != "" {
		d, err := task.ParseDate(s.StartDate)
		if err != nil {
			return nil, fmt.Errorf("start_date: %w", err)
		}
		start = d.Time
	}
	data, err := s.dataset(start)
	if err != nil {
		return nil, err
	}

	r := &runner{start: start, now: start, next: start}
	r.interval = s.Settings.FrameInterval.Duration
	if r.interval <= 0 {
		r.interval = defaultFrameInterval
	}
	settle := s.Settings.Settle.Duration
	if settle <= 0 {
		settle = defaultSettle
	}

	cfg := opts.Engine
	cfg.StartDate = start
	cfg.Clock = r.clock
	cfg.Ticker = nil
	cfg.ClampToExtent = !s.Settings.Unclamped
	cfg.Width, cfg.Height = s.Viewport.Width, s.Viewport.Height
	if s.Viewport.DPR > 0 {
		cfg.DevicePixelRatio = s.Viewport.DPR
	}

	eng, err := engine.New(cfg, data)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	defer eng.Close()
	r.eng = eng

	rep := &Report{Name: s.Name, Events: len(s.Events), Items: data.Len()}
	var (
		at      time.Duration
		batchAt time.Duration
		batch   []input.Command
	)
	flushBatch := func() error {
		if len(batch) == 0 {
			return nil
		}
		before := eng.Snapshot().TotalColumns
		res, err := eng.Batch(batch...)
		if err != nil {
			return fmt.Errorf("at %s: %w", batchAt, err)
		}
		step := Step{At: batchAt, TotalColumns: res.TotalColumns}
		for _, c := range batch {
			step.Commands = append(step.Commands, c.String())
		}
		if res.Grew {
			step.Grew = res.TotalColumns - before
		}
		rep.Timeline = append(rep.Timeline, step)
		batch = batch[:0]
		return nil
	}

	for i, e := range s.Events {
		at = offset(e, at)
		if len(batch) > 0 && at != batchAt {
			if err := flushBatch(); err != nil {
				return nil, err
			}
		}
		if len(batch) == 0 {
			r.advance(start.Add(at))
			batchAt = at
		}

		cmd, ok := e.Command()
		switch {
		case ok:
			batch = append(batch, cmd)
		case e.Wait != nil:
			if err := flushBatch(); err != nil {
				return nil, err
			}
			at += e.Wait.Duration
		default:
			return nil, fmt.Errorf("event %d: %w", i, ErrUnknownEvent)
		}
	}
	if err := flushBatch(); err != nil {
		return nil, err
	}
	end := start.Add(at + settle)
	r.advance(end)
	rep.Batches = len(rep.Timeline)
	rep.Elapsed = end.Sub(start)

	st := eng.Stats()
	v := eng.Snapshot()
	rep.Requests = st.Scheduler.Requests
	rep.Coalesced = st.Scheduler.Coalesced
	rep.Frames = st.Scheduler.Frames
	rep.Painted = st.Painted
	rep.Skipped = st.Skipped
	rep.Expansions = st.Expansions
	rep.GrowthState = st.GrowthState
	rep.Final = Final{
		ScrollLeft:       v.ScrollLeft,
		ScrollTop:        v.ScrollTop,
		Width:            v.Width,
		Height:           v.Height,
		Zoom:             v.Zoom,
		DevicePixelRatio: v.DevicePixelRatio,
		TotalRows:        v.TotalRows,
		TotalColumns:     v.TotalColumns,
	}
	logging.Logger().Debug("replay finished", "name", s.Name, "frames", rep.Frames, "columns", v.TotalColumns)
	return rep, nil
}
