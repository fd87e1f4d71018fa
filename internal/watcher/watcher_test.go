package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func collect(t *testing.T, opts ...Option) (*Watcher, <-chan []Event) {
	t.Helper()
	ch := make(chan []Event, 8)
	opts = append([]Option{WithDebounceDuration(30 * time.Millisecond)}, opts...)
	w, err := New(func(events []Event) { ch <- events }, opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w, ch
}

func wait(t *testing.T, ch <-chan []Event) []Event {
	t.Helper()
	select {
	case evs := <-ch:
		return evs
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for events")
		return nil
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestAddRequiresExistingFile(t *testing.T) {
	dir := t.TempDir()
	w, _ := collect(t, WithPolling(10*time.Millisecond))

	if err := w.Add(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Add() of a missing file succeeded")
	}
	if err := w.Add(dir); err == nil {
		t.Error("Add() of a directory succeeded")
	}
}

func TestAddRemoveFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "[]")
	writeFile(t, b, "[]")

	w, _ := collect(t)
	for _, p := range []string{a, b, a} {
		if err := w.Add(p); err != nil {
			t.Fatalf("Add(%s) failed: %v", p, err)
		}
	}
	if got := w.Files(); len(got) != 2 {
		t.Errorf("Files() = %v, want 2 files", got)
	}
	if err := w.Remove(a); err != nil {
		t.Fatal(err)
	}
	if got := w.Files(); len(got) != 1 || filepath.Base(got[0]) != "b.yaml" {
		t.Errorf("Files() after Remove = %v", got)
	}
}

func TestPollingDetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.json")
	writeFile(t, path, "[]")

	w, ch := collect(t, WithPolling(10*time.Millisecond))
	if !w.Polling() {
		t.Fatal("Polling() = false with WithPolling")
	}
	if err := w.Add(path); err != nil {
		t.Fatal(err)
	}

	writeFile(t, path, `[{"id":1}]`)
	evs := wait(t, ch)
	if len(evs) != 1 || evs[0].Op != Changed || filepath.Base(evs[0].Path) != "tasks.json" {
		t.Errorf("events = %+v, want one change to tasks.json", evs)
	}
}

func TestPollingDetectsRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.json")
	writeFile(t, path, "[]")

	w, ch := collect(t, WithPolling(10*time.Millisecond))
	w.Add(path)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	evs := wait(t, ch)
	if len(evs) != 1 || evs[0].Op != Removed {
		t.Errorf("events = %+v, want one removal", evs)
	}
}

func TestFsnotifyAtomicSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.yaml")
	writeFile(t, path, "[]\n")

	w, ch := collect(t)
	if w.Polling() {
		t.Skip("fsnotify unavailable")
	}
	if err := w.Add(path); err != nil {
		t.Fatal(err)
	}

	tmp := filepath.Join(dir, ".tasks.yaml.swp")
	writeFile(t, tmp, "- id: 1\n")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	evs := wait(t, ch)
	if len(evs) != 1 || evs[0].Op != Changed {
		t.Errorf("events = %+v, want the replaced file reported as changed", evs)
	}
}

func TestUnwatchedSiblingIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.json")
	writeFile(t, path, "[]")

	w, ch := collect(t)
	w.Add(path)
	writeFile(t, filepath.Join(dir, "other.txt"), "x")

	select {
	case evs := <-ch:
		t.Errorf("unexpected events %+v", evs)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestClosed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.json")
	writeFile(t, path, "[]")

	w, _ := collect(t)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Add(path); !errors.Is(err, ErrClosed) {
		t.Errorf("Add() after Close = %v, want ErrClosed", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{Changed, "changed"},
		{Removed, "removed"},
		{Op(0), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}
