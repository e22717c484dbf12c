// Package watch re-reads a single file whenever it settles after a change.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"promptvault/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Handler receives the contents of the watched file once writes have
// settled. It runs on the watcher goroutine, so calls never overlap.
type Handler func(ctx context.Context, path string, content []byte)

// DefaultDebounce is used when New is given a non-positive debounce.
const DefaultDebounce = 250 * time.Millisecond

// FileWatcher watches one file. It watches the parent directory so that
// editors that save by rename are still seen.
type FileWatcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	path        string
	dir         string
	handler     Handler
	pendingAt   time.Time
	pending     bool
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats Stats
}

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Deliveries    int
	Errors        int
	LastEventTime time.Time
	LastEventType string
}

// New creates a watcher for path. Nothing is watched until Start.
func New(path string, debounce time.Duration, handler Handler) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &FileWatcher{
		watcher:     w,
		path:        abs,
		dir:         filepath.Dir(abs),
		handler:     handler,
		debounceDur: debounce,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched.
func (fw *FileWatcher) Path() string { return fw.path }

// Start begins watching. It does not block; events are handled on a
// dedicated goroutine until Stop is called or ctx is done. A failed Start
// releases the underlying watcher, so the FileWatcher cannot be restarted.
func (fw *FileWatcher) Start(ctx context.Context) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return nil
	}
	fw.running = true
	fw.mu.Unlock()

	if err := fw.watcher.Add(fw.dir); err != nil {
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
		fw.watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", fw.dir, err)
	}
	logging.Watch("Watching %s", fw.path)
	logging.Audit().WatchStarted(fw.path)

	go fw.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event goroutine to exit.
func (fw *FileWatcher) Stop() {
	fw.mu.Lock()
	if !fw.running {
		fw.mu.Unlock()
		return
	}
	fw.running = false
	fw.mu.Unlock()

	close(fw.stopCh)
	<-fw.doneCh

	if err := fw.watcher.Close(); err != nil {
		logging.WatchError("error closing watcher: %v", err)
	}
	logging.Watch("Stopped watching %s", fw.path)
	stats := fw.Stats()
	logging.Audit().WatchStopped(fw.path, stats.Deliveries, stats.Errors)
}

// Done is closed once the event goroutine has exited.
func (fw *FileWatcher) Done() <-chan struct{} { return fw.doneCh }

// Stats returns a copy of the activity counters.
func (fw *FileWatcher) Stats() Stats {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.stats
}

func (fw *FileWatcher) run(ctx context.Context) {
	defer close(fw.doneCh)

	tick := max(fw.debounceDur/2, 10*time.Millisecond)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.WatchDebug("context cancelled")
			return

		case <-fw.stopCh:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.WatchError("watcher error: %v", err)
			fw.mu.Lock()
			fw.stats.Errors++
			fw.mu.Unlock()

		case <-ticker.C:
			fw.deliverSettled(ctx)
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != fw.path {
		return
	}

	var eventType string
	switch {
	case event.Op&fsnotify.Create != 0:
		eventType = "create"
	case event.Op&fsnotify.Write != 0:
		eventType = "modify"
	case event.Op&fsnotify.Remove != 0:
		eventType = "delete"
	case event.Op&fsnotify.Rename != 0:
		eventType = "rename"
	default:
		return
	}
	logging.WatchDebug("%s event for %s", eventType, event.Name)

	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.stats.Events++
	fw.stats.LastEventTime = time.Now()
	fw.stats.LastEventType = eventType
	fw.pending = true
	fw.pendingAt = time.Now()
}

func (fw *FileWatcher) deliverSettled(ctx context.Context) {
	fw.mu.Lock()
	if !fw.pending || time.Since(fw.pendingAt) < fw.debounceDur {
		fw.mu.Unlock()
		return
	}
	fw.pending = false
	fw.mu.Unlock()

	content, err := os.ReadFile(fw.path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.WatchDebug("file gone, skipping: %s", fw.path)
			return
		}
		logging.WatchError("failed to read %s: %v", fw.path, err)
		fw.mu.Lock()
		fw.stats.Errors++
		fw.mu.Unlock()
		return
	}

	fw.mu.Lock()
	fw.stats.Deliveries++
	fw.mu.Unlock()

	if fw.handler != nil {
		fw.handler(ctx, fw.path, content)
	}
}
