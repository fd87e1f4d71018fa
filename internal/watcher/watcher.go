// Package watcher reports changes to a set of files, such as a task file
// or a config file, coalescing bursts of writes into one callback.
//
// Files are watched through their parent directory so editors that save
// by writing a new file and renaming it over the old one keep being
// tracked. Where fsnotify is unavailable the watcher polls.
package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned by operations on a closed Watcher.
var ErrClosed = errors.New("watcher: watcher is closed")

// DefaultPollInterval is used in polling mode.
const DefaultPollInterval = time.Second

// Op is what happened to a watched file.
type Op uint8

const (
	// Changed means the file was written, created or replaced.
	Changed Op = iota + 1
	// Removed means the file no longer exists.
	Removed
)

func (o Op) String() string {
	switch o {
	case Changed:
		return "changed"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is one change to one watched file.
type Event struct {
	Path string
	Op   Op
}

// Handler receives the events coalesced during one quiet period, sorted
// by path, one per file.
type Handler func(events []Event)

// ErrorHandler receives watch errors.
type ErrorHandler func(err error)

type fileMeta struct {
	modTime time.Time
	size    int64
	exists  bool
}

// Watcher watches individual files.
type Watcher struct {
	handler   Handler
	onError   ErrorHandler
	debouncer *Debouncer

	fs           *fsnotify.Watcher
	poll         bool
	pollInterval time.Duration
	done         chan struct{}

	mu      sync.Mutex
	files   map[string]fileMeta
	dirs    map[string]int
	pending map[string]Op
	closed  bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the quiet period.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debouncer = NewDebouncer(d)
		}
	}
}

// WithPolling forces polling at interval.
func WithPolling(interval time.Duration) Option {
	return func(w *Watcher) {
		w.poll = true
		if interval > 0 {
			w.pollInterval = interval
		}
	}
}

// WithErrorHandler sets the error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(w *Watcher) { w.onError = h }
}

// New starts a watcher that calls handler after changes settle.
func New(handler Handler, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		handler:      handler,
		debouncer:    NewDebouncer(DefaultDebounceDuration),
		pollInterval: DefaultPollInterval,
		done:         make(chan struct{}),
		files:        make(map[string]fileMeta),
		dirs:         make(map[string]int),
		pending:      make(map[string]Op),
	}
	for _, opt := range opts {
		opt(w)
	}

	if !w.poll {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			w.reportError(fmt.Errorf("fsnotify unavailable, polling instead: %w", err))
			w.poll = true
		} else {
			w.fs = fsw
		}
	}

	if w.poll {
		go w.runPoll()
	} else {
		go w.run()
	}
	return w, nil
}

// Add starts watching the file at path. The file must exist.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("watch %s: is a directory", path)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if _, ok := w.files[abs]; ok {
		return nil
	}

	dir := filepath.Dir(abs)
	if w.fs != nil && w.dirs[dir] == 0 {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[abs] = metaOf(info)
	return nil
}

// Remove stops watching path.
func (w *Watcher) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if _, ok := w.files[abs]; !ok {
		return nil
	}
	delete(w.files, abs)
	delete(w.pending, abs)

	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		if w.fs != nil {
			return w.fs.Remove(dir)
		}
	}
	return nil
}

// Files returns the watched paths, sorted.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for p := range w.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Polling reports whether the watcher fell back to polling.
func (w *Watcher) Polling() bool { return w.poll }

// Close stops the watcher. Pending events are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	w.debouncer.Cancel()
	close(w.done)
	if w.fs != nil {
		return w.fs.Close()
	}
	return nil
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.reportError(err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}
	path := filepath.Clean(ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if _, ok := w.files[path]; !ok {
		return
	}

	// A rename or remove may be the first half of an atomic save; the
	// file state decides.
	info, err := os.Stat(path)
	if err != nil {
		w.files[path] = fileMeta{}
		w.queue(path, Removed)
		return
	}
	w.files[path] = metaOf(info)
	w.queue(path, Changed)
}

func (w *Watcher) runPoll() {
	t := time.NewTicker(w.pollInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			w.pollOnce()
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) pollOnce() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	for path, prev := range w.files {
		var cur fileMeta
		if info, err := os.Stat(path); err == nil {
			cur = metaOf(info)
		}
		if cur == prev {
			continue
		}
		w.files[path] = cur
		if cur.exists {
			w.queue(path, Changed)
		} else {
			w.queue(path, Removed)
		}
	}
}

// queue records op for path and restarts the quiet period. Must be
// called with w.mu held.
func (w *Watcher) queue(path string, op Op) {
	w.pending[path] = op
	w.debouncer.Trigger(w.deliver)
}

func (w *Watcher) deliver() {
	w.mu.Lock()
	if w.closed || len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	events := make([]Event, 0, len(w.pending))
	for p, op := range w.pending {
		events = append(events, Event{Path: p, Op: op})
	}
	w.pending = make(map[string]Op)
	w.mu.Unlock()

	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })
	if w.handler != nil {
		w.handler(events)
	}
}

func (w *Watcher) reportError(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}

func metaOf(info os.FileInfo) fileMeta {
	return fileMeta{modTime: info.ModTime(), size: info.Size(), exists: true}
}
