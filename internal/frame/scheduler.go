// Package frame coalesces render requests into at most one pending frame
// per tick.
package frame

import "sync"

// Ticker schedules fn to run at the next frame boundary. The returned
// cancel function drops fn if it has not run yet.
type Ticker interface {
	Schedule(fn func()) (cancel func())
}

// Stats counts scheduler activity.
type Stats struct {
	Requests  int `json:"requests"`
	Coalesced int `json:"coalesced"`
	Frames    int `json:"frames"`
	Cancelled int `json:"cancelled"`
}

// Scheduler keeps a single pending-frame slot. Any number of requests
// made before the tick fires collapse into one invocation of the most
// recently supplied render function.
type Scheduler struct {
	ticker Ticker

	pending bool
	cancel  func()
	render  func()
	stats   Stats
}

// NewScheduler returns a scheduler driven by t.
func NewScheduler(t Ticker) *Scheduler {
	return &Scheduler{ticker: t}
}

// Request stores render as the latest frame function and schedules a
// tick if none is pending. It reports whether a new tick was scheduled.
func (s *Scheduler) Request(render func()) bool {
	s.stats.Requests++
	s.render = render
	if s.pending {
		s.stats.Coalesced++
		return false
	}
	s.pending = true
	s.cancel = s.ticker.Schedule(s.fire)
	return true
}

func (s *Scheduler) fire() {
	if !s.pending {
		return
	}
	s.pending = false
	s.cancel = nil
	render := s.render
	s.render = nil
	if render != nil {
		s.stats.Frames++
		render()
	}
}

// Pending reports whether a frame is scheduled.
func (s *Scheduler) Pending() bool { return s.pending }

// Cancel drops the pending frame, if any.
func (s *Scheduler) Cancel() {
	if !s.pending {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.pending = false
	s.cancel = nil
	s.render = nil
	s.stats.Cancelled++
}

// Stats returns a copy of the counters.
func (s *Scheduler) Stats() Stats { return s.stats }

// ManualTicker queues scheduled callbacks until Flush is called. The
// viewer flushes it on every frame message and tests flush it explicitly.
type ManualTicker struct {
	mu    sync.Mutex
	queue []*entry
}

type entry struct {
	fn        func()
	cancelled bool
}

// NewManualTicker returns an empty ticker.
func NewManualTicker() *ManualTicker {
	return &ManualTicker{}
}

// Schedule implements Ticker.
func (m *ManualTicker) Schedule(fn func()) func() {
	e := &entry{fn: fn}
	m.mu.Lock()
	m.queue = append(m.queue, e)
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		e.cancelled = true
		m.mu.Unlock()
	}
}

// Pending returns the number of callbacks waiting to run.
func (m *ManualTicker) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.queue {
		if !e.cancelled {
			n++
		}
	}
	return n
}

// Flush runs every callback queued before the call, in order, and returns
// how many ran. Callbacks scheduled while flushing wait for the next Flush.
func (m *ManualTicker) Flush() int {
	m.mu.Lock()
	queue := m.queue
	m.queue = nil
	m.mu.Unlock()

	ran := 0
	for _, e := range queue {
		m.mu.Lock()
		cancelled := e.cancelled
		m.mu.Unlock()
		if cancelled {
			continue
		}
		e.fn()
		ran++
	}
	return ran
}
