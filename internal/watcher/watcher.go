package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/rjeczalik/notify"

	"media-inspector/internal/analyzer"
	"media-inspector/internal/logging"
	"media-inspector/internal/mediakind"
	"media-inspector/internal/metrics"
	"media-inspector/internal/scan"
)

// DefaultDebounce is how long a path must stay quiet after its last event
// before reanalysis runs. Coalesces the event bursts a file copy produces.
const DefaultDebounce = 2 * time.Second

// Watcher keeps the store current by reanalyzing files as they are added or
// modified under the media root.
//
// Each raw event resets the path's debounce timer; only an uninterrupted
// timer triggers the pipeline. The analyzer's signature check then suppresses
// the reanalysis entirely if the file's (mtime, size) is unchanged, which
// filters the spurious events some platforms emit on reads.
type Watcher struct {
	root     *scan.Root
	analyzer *analyzer.Analyzer
	debounce time.Duration

	timersMu sync.Mutex
	timers   map[string]*time.Timer
}

// New creates a Watcher. A non-positive debounce defaults to
// DefaultDebounce.
func New(root *scan.Root, an *analyzer.Analyzer, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		root:     root,
		analyzer: an,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
	}
}

// Run watches the media tree until the context is canceled. Event handling
// errors are logged, never fatal; the watcher keeps running.
func (w *Watcher) Run(ctx context.Context) error {
	events := make(chan notify.EventInfo, 64)

	watchPath := filepath.Join(w.root.Dir(), "...")
	if err := notify.Watch(watchPath, events, notify.Create, notify.Write, notify.Rename); err != nil {
		return err
	}
	defer notify.Stop(events)

	logging.Info("Watching %s for changes (debounce %v)", w.root.Dir(), w.debounce)

	for {
		select {
		case ev := <-events:
			w.handleEvent(ev.Path())
		case <-ctx.Done():
			w.clearTimers()
			logging.Info("Watcher stopped")
			return nil
		}
	}
}

// handleEvent resets the debounce timer for one event path. Paths outside
// the media root are rejected outright, and non-media files are ignored.
func (w *Watcher) handleEvent(absPath string) {
	metrics.WatcherEventsTotal.Inc()

	if !w.root.Contains(absPath) {
		logging.Warn("ignoring event for path outside media root: %s", absPath)
		return
	}

	relPath, err := w.root.Rel(absPath)
	if err != nil {
		return
	}

	if !mediakind.IsMediaFile(relPath) {
		return
	}

	w.timersMu.Lock()
	defer w.timersMu.Unlock()

	if timer, ok := w.timers[relPath]; ok {
		timer.Reset(w.debounce)
		return
	}

	w.timers[relPath] = time.AfterFunc(w.debounce, func() {
		w.fire(relPath)
	})
	metrics.WatcherPendingPaths.Set(float64(len(w.timers)))
}

// fire runs the pipeline for one stabilized path. Each timer fires on its
// own goroutine, so one slow probe never delays other paths.
func (w *Watcher) fire(relPath string) {
	w.timersMu.Lock()
	delete(w.timers, relPath)
	metrics.WatcherPendingPaths.Set(float64(len(w.timers)))
	w.timersMu.Unlock()

	logging.Debug("change stabilized, reanalyzing %s", relPath)

	rec, err := w.analyzer.Analyze(context.Background(), relPath, false)
	if err != nil {
		metrics.WatcherReanalysesTotal.WithLabelValues("error").Inc()
		logging.Error("watcher reanalysis of %s failed: %v", relPath, err)
		return
	}

	if rec.OK() {
		metrics.WatcherReanalysesTotal.WithLabelValues("ok").Inc()
	} else {
		metrics.WatcherReanalysesTotal.WithLabelValues("error_record").Inc()
	}
}

// clearTimers stops all pending debounce timers during shutdown.
func (w *Watcher) clearTimers() {
	w.timersMu.Lock()
	defer w.timersMu.Unlock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
	metrics.WatcherPendingPaths.Set(0)
}

// PendingCount returns the number of paths currently waiting out the
// debounce window.
func (w *Watcher) PendingCount() int {
	w.timersMu.Lock()
	defer w.timersMu.Unlock()
	return len(w.timers)
}
