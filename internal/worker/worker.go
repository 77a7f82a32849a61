package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/exemplar-core/internal/core/ports/driven"
	"github.com/custodia-labs/exemplar-core/internal/core/ports/driving"
	"github.com/custodia-labs/exemplar-core/internal/runtime"
)

// Worker keeps the published corpus in sync with the raw corpus file.
// It watches the file for changes, rebuilds the enriched corpus, publishes
// it to the runtime registry and persists the enriched output.
type Worker struct {
	rawStore       driven.CorpusStore
	processedStore driven.CorpusStore
	builder        driving.CorpusBuilder
	services       *runtime.Services
	logger         *slog.Logger

	// Configuration
	watchPath string
	debounce  time.Duration
	interval  time.Duration

	// Internal state
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// WorkerConfig holds configuration for the rebuild worker.
type WorkerConfig struct {
	RawStore       driven.CorpusStore
	ProcessedStore driven.CorpusStore
	Builder        driving.CorpusBuilder
	Services       *runtime.Services
	Logger         *slog.Logger

	// WatchPath is the raw corpus file to watch. Empty disables watching.
	WatchPath string

	// Debounce coalesces bursts of file events into one rebuild.
	Debounce time.Duration

	// Interval triggers periodic rebuilds independent of file events.
	// Zero disables the ticker.
	Interval time.Duration
}

// NewWorker creates a new rebuild worker.
func NewWorker(cfg WorkerConfig) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	return &Worker{
		rawStore:       cfg.RawStore,
		processedStore: cfg.ProcessedStore,
		builder:        cfg.Builder,
		services:       cfg.Services,
		logger:         logger,
		watchPath:      cfg.WatchPath,
		debounce:       debounce,
		interval:       cfg.Interval,
	}
}

// Start begins watching for changes.
// It runs until Stop is called or the context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	var watcher *fsnotify.Watcher
	if w.watchPath != "" {
		var err error
		watcher, err = fsnotify.NewWatcher()
		if err != nil {
			w.markStopped()
			return fmt.Errorf("failed to create watcher: %w", err)
		}

		// Watch the directory, not the file: editors and atomic saves
		// replace the file, which would silently drop a file watch.
		if err := watcher.Add(filepath.Dir(w.watchPath)); err != nil {
			watcher.Close()
			w.markStopped()
			return fmt.Errorf("failed to watch %s: %w", w.watchPath, err)
		}
	}

	w.logger.Info("rebuild worker starting",
		"watch_path", w.watchPath,
		"debounce", w.debounce,
		"interval", w.interval,
	)

	go w.runLoop(ctx, watcher)

	return nil
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh

	w.markStopped()

	w.logger.Info("rebuild worker stopped")
}

// Running reports whether the worker loop is active.
func (w *Worker) Running() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// Rebuild loads the raw corpus, rebuilds and publishes it immediately,
// bypassing the watch loop. Safe to call whether or not the worker runs.
func (w *Worker) Rebuild(ctx context.Context) error {
	start := time.Now()

	raw, err := w.rawStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("load raw corpus: %w", err)
	}

	enriched, err := w.builder.Build(ctx, raw)
	if err != nil {
		return fmt.Errorf("build corpus: %w", err)
	}

	w.services.PublishCorpus(enriched)

	if w.processedStore != nil {
		if err := w.processedStore.Save(ctx, enriched); err != nil {
			// The published corpus is already live; a failed save only
			// affects the on-disk copy.
			w.logger.Error("failed to save enriched corpus", "error", err)
		}
	}

	w.logger.Info("corpus rebuilt",
		"posts", enriched.Len(),
		"took", time.Since(start),
	)

	return nil
}

// runLoop is the main event loop of the worker.
func (w *Worker) runLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer close(w.doneCh)
	if watcher != nil {
		defer watcher.Close()
	}

	var events <-chan fsnotify.Event
	var watchErrs <-chan error
	if watcher != nil {
		events = watcher.Events
		watchErrs = watcher.Errors
	}

	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	// Armed after a relevant file event; fires once the burst settles.
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("rebuild worker context cancelled")
			return

		case <-w.stopCh:
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			if !w.relevantEvent(event) {
				continue
			}
			w.logger.Debug("raw corpus changed", "op", event.Op.String())
			pending = time.After(w.debounce)

		case err, ok := <-watchErrs:
			if !ok {
				return
			}
			w.logger.Error("watch error", "error", err)

		case <-pending:
			pending = nil
			w.rebuildWithRecovery(ctx)

		case <-tick:
			w.rebuildWithRecovery(ctx)
		}
	}
}

// relevantEvent reports whether a directory event concerns the watched file.
func (w *Worker) relevantEvent(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(w.watchPath) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// rebuildWithRecovery runs a rebuild and keeps the loop alive on failure.
// The previously published corpus stays live until a rebuild succeeds.
func (w *Worker) rebuildWithRecovery(ctx context.Context) {
	if err := w.Rebuild(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		w.logger.Error("rebuild failed", "error", err)
	}
}

func (w *Worker) markStopped() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}
