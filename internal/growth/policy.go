// Package growth decides when the addressable column space of a chart
// should be extended as the user scrolls toward its right edge.
//
// The policy is a two-state machine (Idle, Expanding) driven entirely by
// the caller's clock, so it behaves the same under a virtual clock in tests
// as under wall time in the viewer.
package growth

import (
	"math"
	"time"

	"github.com/theirongolddev/gantt/internal/viewport"
)

// State is the expansion lock state.
type State int

const (
	Idle State = iota
	Expanding
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Expanding:
		return "expanding"
	default:
		return "unknown"
	}
}

// Config tunes the policy.
type Config struct {
	// Chunk is the number of columns added per expansion.
	Chunk int
	// Threshold is how close (in columns) the right edge of the viewport
	// may come to the last column before an expansion triggers.
	Threshold int
	// Throttle is the minimum interval between two checks.
	Throttle time.Duration
	// LockDuration is how long the policy stays Expanding after growth.
	LockDuration time.Duration
	// MinScrollColumns is the horizontal scroll distance, in columns,
	// below which a check is skipped.
	MinScrollColumns float64
}

// DefaultConfig returns the standard tuning: 50 columns per chunk,
// threshold 20, 100ms throttle, 200ms lock, 3 columns of scroll.
func DefaultConfig() Config {
	return Config{
		Chunk:            50,
		Threshold:        20,
		Throttle:         100 * time.Millisecond,
		LockDuration:     200 * time.Millisecond,
		MinScrollColumns: 3,
	}
}

// Decision is the result of a Check.
type Decision struct {
	Expand       bool
	TotalColumns int
	// Reason names the rule that produced the decision.
	Reason string
}

// Policy holds the mutable state of the column-growth machine.
type Policy struct {
	cfg Config

	state     State
	lockedAt  time.Time
	lastCheck time.Time // zero means never
	lastLeft  float64

	expansions int
}

// New returns an Idle policy. A non-positive Chunk or LockDuration, and
// negative values elsewhere, take their defaults.
func New(cfg Config) *Policy {
	def := DefaultConfig()
	if cfg.Chunk <= 0 {
		cfg.Chunk = def.Chunk
	}
	if cfg.Threshold < 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.Throttle < 0 {
		cfg.Throttle = def.Throttle
	}
	if cfg.LockDuration <= 0 {
		cfg.LockDuration = def.LockDuration
	}
	if cfg.MinScrollColumns < 0 {
		cfg.MinScrollColumns = def.MinScrollColumns
	}
	return &Policy{cfg: cfg}
}

// Config returns the effective configuration.
func (p *Policy) Config() Config { return p.cfg }

// State returns the current lock state.
func (p *Policy) State() State { return p.state }

// Expansions counts how many times Check decided to grow.
func (p *Policy) Expansions() int { return p.expansions }

// Tick releases an Expanding lock whose duration has elapsed at now.
func (p *Policy) Tick(now time.Time) {
	if p.state == Expanding && now.Sub(p.lockedAt) >= p.cfg.LockDuration {
		p.state = Idle
	}
}

// Release forces the policy back to Idle. Used on teardown so a chart
// torn down mid-expansion never keeps a stale lock.
func (p *Policy) Release() {
	p.state = Idle
}

// Check evaluates a scroll-driven growth decision for v at now.
func (p *Policy) Check(now time.Time, v viewport.Viewport) Decision {
	p.Tick(now)
	if p.state == Expanding {
		return Decision{Reason: "locked"}
	}
	if !p.lastCheck.IsZero() && now.Sub(p.lastCheck) < p.cfg.Throttle {
		return Decision{Reason: "throttled"}
	}
	if math.Abs(v.ScrollLeft-p.lastLeft) < p.cfg.MinScrollColumns*v.ColumnWidth {
		return Decision{Reason: "scroll below minimum"}
	}

	p.lastCheck = now
	p.lastLeft = v.ScrollLeft

	if v.ColumnWidth <= 0 {
		return Decision{Reason: "no columns"}
	}
	endCol := math.Ceil((v.ScrollLeft + v.Width) / v.ColumnWidth)
	if !(endCol >= float64(v.TotalColumns-p.cfg.Threshold)) {
		return Decision{Reason: "within threshold"}
	}

	p.state = Expanding
	p.lockedAt = now
	p.expansions++
	return Decision{
		Expand:       true,
		TotalColumns: v.TotalColumns + p.cfg.Chunk,
		Reason:       "near right edge",
	}
}

// MaxColumns caps Prime for absurd viewport sizes.
const MaxColumns = 1 << 40

// Prime returns the column count needed for the viewport of v to be
// covered with Threshold columns to spare, grown in whole chunks from the
// current total. It is used at initialization and on resize, which are
// not scroll driven and therefore bypass throttle and lock.
func (p *Policy) Prime(v viewport.Viewport) int {
	total := v.TotalColumns
	if v.ColumnWidth <= 0 {
		return total
	}
	endCol := math.Ceil((v.ScrollLeft + v.Width) / v.ColumnWidth)
	short := endCol - float64(total-p.cfg.Threshold)
	if math.IsNaN(short) || short < 0 {
		return total
	}
	chunks := math.Floor(short/float64(p.cfg.Chunk)) + 1
	return int(math.Min(float64(total)+chunks*float64(p.cfg.Chunk), MaxColumns))
}
