package engine

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/theirongolddev/gantt/internal/growth"
	"github.com/theirongolddev/gantt/internal/input"
	"github.com/theirongolddev/gantt/internal/task"
)

var jan1 = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func items() *task.Dataset {
	return task.NewDataset([]task.Item{
		{ID: 1, Name: "Survey", Start: task.NewDate(2025, 1, 2), End: task.NewDate(2025, 1, 4)},
		{ID: 2, Name: "Excavation", Start: task.NewDate(2025, 1, 6), End: task.NewDate(2025, 1, 9), Dependencies: []int64{1}},
		{ID: 3, Name: "Footings", Start: task.NewDate(2025, 1, 10), End: task.NewDate(2025, 1, 14), Dependencies: []int64{2}},
	})
}

func newEngine(t *testing.T, cfg Config) (*Engine, *clock) {
	t.Helper()
	c := &clock{now: jan1.Add(9 * time.Hour)}
	cfg.StartDate = jan1
	cfg.Clock = c.Now
	e, err := New(cfg, items())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e, c
}

func TestNewSizesAndRequestsFrame(t *testing.T) {
	e, _ := newEngine(t, Config{Width: 400, Height: 300, DevicePixelRatio: 2})

	v := e.Snapshot()
	if v.TotalRows != 3 {
		t.Errorf("TotalRows = %d, want one row per item", v.TotalRows)
	}
	if n := e.Flush(); n != 1 {
		t.Fatalf("Flush() ran %d frames, want 1", n)
	}
	if got := e.Image().Bounds().Size(); got.X != 800 || got.Y != 600 {
		t.Errorf("image size = %v, want 800x600", got)
	}
	st := e.Stats()
	if st.Painted != 1 || st.LastFrame.Bars != 3 {
		t.Errorf("Stats() = %+v, want one painted frame with 3 bars", st)
	}
}

func TestFramesCoalesce(t *testing.T) {
	e, c := newEngine(t, Config{Width: 400, Height: 300})
	e.Flush()

	for i := 1; i <= 3; i++ {
		c.Advance(time.Second)
		e.Dispatch(input.Scroll{X: float64(i * 10)})
	}
	if n := e.Flush(); n != 1 {
		t.Errorf("Flush() ran %d frames, want 1", n)
	}
	st := e.Stats().Scheduler
	if st.Requests != 4 || st.Coalesced != 2 || st.Frames != 2 {
		t.Errorf("scheduler stats = %+v, want 4 requests, 2 coalesced, 2 frames", st)
	}
	if x := e.Snapshot().ScrollLeft; x != 30 {
		t.Errorf("ScrollLeft = %v, want the last scroll 30", x)
	}
}

func TestScrollGrowsColumns(t *testing.T) {
	e, c := newEngine(t, Config{Width: 400, Height: 300})

	res, err := e.Dispatch(input.Scroll{X: 1400})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Grew || e.Snapshot().TotalColumns != 110 {
		t.Fatalf("TotalColumns = %d, want 110", e.Snapshot().TotalColumns)
	}
	if s := e.Stats().GrowthState; s != growth.Expanding.String() {
		t.Errorf("GrowthState = %q, want expanding", s)
	}

	c.Advance(250 * time.Millisecond)
	e.Flush()
	if s := e.Stats().GrowthState; s != growth.Idle.String() {
		t.Errorf("GrowthState after lock expiry = %q, want idle", s)
	}
}

func TestUnchangedFrameIsSkipped(t *testing.T) {
	e, _ := newEngine(t, Config{Width: 200, Height: 100})
	e.Flush()

	e.RequestFrame()
	e.Flush()
	st := e.Stats()
	if st.Painted != 1 || st.Skipped != 1 {
		t.Errorf("Painted = %d, Skipped = %d; want 1, 1", st.Painted, st.Skipped)
	}

	e.SetPalette(e.renderer.Options().Palette)
	e.Flush()
	if got := e.Stats().Painted; got != 2 {
		t.Errorf("Painted after palette change = %d, want 2", got)
	}
}

func TestRenderNowDropsPendingFrame(t *testing.T) {
	e, _ := newEngine(t, Config{Width: 200, Height: 100})

	if _, ok := e.RenderNow(); !ok {
		t.Fatal("RenderNow() !ok")
	}
	if n := e.Flush(); n != 0 {
		t.Errorf("Flush() after RenderNow ran %d frames, want 0", n)
	}

	var buf bytes.Buffer
	if err := e.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("png bounds = %v, want 200x100", b)
	}
}

func TestRenderNowUnsized(t *testing.T) {
	e, _ := newEngine(t, Config{})
	if _, ok := e.RenderNow(); ok {
		t.Error("RenderNow() on an unsized engine reported ok")
	}
}

func TestSetItems(t *testing.T) {
	e, _ := newEngine(t, Config{Width: 200, Height: 100})
	e.Flush()

	more := append(items().Items, task.Item{ID: 4, Name: "Slab", Start: task.NewDate(2025, 1, 15), End: task.NewDate(2025, 1, 17)})
	e.SetItems(task.NewDataset(more))
	if got := e.Snapshot().TotalRows; got != 4 {
		t.Errorf("TotalRows = %d, want 4", got)
	}
	e.Flush()
	if got := e.Stats().Painted; got != 2 {
		t.Errorf("Painted = %d, want a repaint after SetItems", got)
	}
}

func TestFixedRowCount(t *testing.T) {
	e, _ := newEngine(t, Config{TotalRows: 500})
	e.SetItems(task.NewDataset(nil))
	if got := e.Snapshot().TotalRows; got != 500 {
		t.Errorf("TotalRows = %d, want the configured 500", got)
	}
}

func TestClose(t *testing.T) {
	e, _ := newEngine(t, Config{Width: 400, Height: 300})
	e.Dispatch(input.Scroll{X: 1400})

	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	st := e.Stats()
	if st.Scheduler.Cancelled != 1 {
		t.Errorf("Cancelled = %d, want the pending frame cancelled", st.Scheduler.Cancelled)
	}
	if st.GrowthState != growth.Idle.String() {
		t.Errorf("GrowthState = %q, want lock released", st.GrowthState)
	}

	before := e.Snapshot()
	if _, err := e.Dispatch(input.Scroll{X: 5}); err != nil {
		t.Errorf("Dispatch() after Close error = %v", err)
	}
	if e.Snapshot() != before {
		t.Error("Dispatch() after Close changed the viewport")
	}
	if n := e.Flush(); n != 0 {
		t.Errorf("Flush() after Close ran %d frames", n)
	}
	if _, ok := e.RenderNow(); ok {
		t.Error("RenderNow() after Close reported ok")
	}
	if err := e.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
