package fixture

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultWatchInterval is the default interval for fixture file polling.
const DefaultWatchInterval = 2 * time.Second

// WatchEvent represents a fixture file change.
type WatchEvent struct {
	File string
	Type string // "modified", "added", "deleted"
}

// Watcher polls the fixture files for modification-time changes so the
// server can reload without a restart.
type Watcher struct {
	dir      string
	interval time.Duration
	modTimes map[string]time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	eventCh  chan WatchEvent
	mu       sync.Mutex
	running  bool
}

// NewWatcher creates a watcher for the fixture files in dir.
// A non-positive interval falls back to DefaultWatchInterval.
func NewWatcher(dir string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	return &Watcher{
		dir:      dir,
		interval: interval,
		modTimes: make(map[string]time.Time),
		eventCh:  make(chan WatchEvent, 10),
	}
}

// Start primes the modification times and begins polling.
// Returns the channel change events are delivered on.
func (w *Watcher) Start() <-chan WatchEvent {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return w.eventCh
	}

	w.prime()
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true

	// Pass channels to avoid a race on the struct fields.
	stopCh := w.stopCh
	doneCh := w.doneCh
	go w.watchLoop(stopCh, doneCh)

	return w.eventCh
}

// Stop stops the watcher and waits for the polling goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	w.running = false
	doneCh := w.doneCh
	w.mu.Unlock()

	<-doneCh
}

// prime records the current modification times. Missing files are
// recorded as absent so their later appearance counts as a change.
func (w *Watcher) prime() {
	for _, name := range Files() {
		if info, err := os.Stat(filepath.Join(w.dir, name)); err == nil {
			w.modTimes[name] = info.ModTime()
		} else {
			delete(w.modTimes, name)
		}
	}
}

func (w *Watcher) watchLoop(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			for _, ev := range w.poll() {
				select {
				case w.eventCh <- ev:
				default:
					// Drop if the consumer is slow
				}
			}
		}
	}
}

// poll compares file modification times against the last observation and
// returns one event per changed file.
func (w *Watcher) poll() []WatchEvent {
	w.mu.Lock()
	defer w.mu.Unlock()

	var events []WatchEvent
	for _, name := range Files() {
		info, err := os.Stat(filepath.Join(w.dir, name))
		prev, seen := w.modTimes[name]

		switch {
		case err != nil && seen:
			delete(w.modTimes, name)
			events = append(events, WatchEvent{File: name, Type: "deleted"})
		case err == nil && !seen:
			w.modTimes[name] = info.ModTime()
			events = append(events, WatchEvent{File: name, Type: "added"})
		case err == nil && info.ModTime().After(prev):
			w.modTimes[name] = info.ModTime()
			events = append(events, WatchEvent{File: name, Type: "modified"})
		}
	}
	return events
}
