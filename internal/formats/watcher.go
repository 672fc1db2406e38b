package formats

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"debatekeeper/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a formats directory for changes to .xml files and
// revalidates files once they settle past a debounce window.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	manager     *Manager
	debounceMap map[string]time.Time
	debounceDur time.Duration
	onChange    func(result ValidationResult)
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats WatcherStats
}

// WatcherStats tracks watcher activity for debugging.
type WatcherStats struct {
	FilesCreated        int
	FilesModified       int
	FilesDeleted        int
	ValidationTriggered int
	Errors              int
	LastEventTime       time.Time
	LastEventPath       string
	LastEventType       string
}

// NewWatcher creates a Watcher over the manager's directory. onChange, if
// non-nil, is called with the validation result of each settled file.
func NewWatcher(manager *Manager, onChange func(result ValidationResult)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:     watcher,
		manager:     manager,
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond, // Debounce rapid saves
		onChange:    onChange,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}

	return w, nil
}

// Start begins watching the formats directory. Non-blocking; the event
// loop runs in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil // Already running
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.manager.Dir(), 0755); err != nil {
		logging.Get(logging.CategoryFormats).Warn("watcher: failed to create formats dir %s: %v (continuing anyway)", w.manager.Dir(), err)
	}

	if err := w.watcher.Add(w.manager.Dir()); err != nil {
		logging.Get(logging.CategoryFormats).Warn("watcher: initial watch failed (dir may not exist): %v", err)
	} else {
		logging.Formats("watcher: watching directory: %s", w.manager.Dir())
	}

	go w.run(ctx)

	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryFormats).Error("watcher: error closing watcher: %v", err)
	}
	logging.Formats("watcher: stopped")
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	debounceTicker := time.NewTicker(100 * time.Millisecond)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Formats("watcher: context cancelled")
			return

		case <-w.stopCh:
			logging.Formats("watcher: stop signal received")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				logging.Formats("watcher: event channel closed")
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				logging.Formats("watcher: error channel closed")
				return
			}
			logging.Get(logging.CategoryFormats).Error("watcher error: %v", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-debounceTicker.C:
			w.processDebouncedEvents()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".xml") {
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
		return // Ignore chmod, etc.
	}

	logging.Get(logging.CategoryFormats).Debug("watcher: %s event for %s", eventType, event.Name)

	w.mu.Lock()
	w.stats.LastEventTime = time.Now()
	w.stats.LastEventPath = event.Name
	w.stats.LastEventType = eventType

	switch eventType {
	case "create":
		w.stats.FilesCreated++
	case "modify":
		w.stats.FilesModified++
	case "delete", "rename":
		w.stats.FilesDeleted++
	}

	// Debounce: record the event for later processing
	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processDebouncedEvents() {
	w.mu.Lock()
	now := time.Now()
	toProcess := make([]string, 0)

	for path, eventTime := range w.debounceMap {
		if now.Sub(eventTime) >= w.debounceDur {
			toProcess = append(toProcess, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range toProcess {
		w.revalidate(path)
	}
}

// revalidate parses a settled file and reports the result.
func (w *Watcher) revalidate(path string) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			logging.Get(logging.CategoryFormats).Debug("watcher: file deleted, skipping: %s", path)
			return
		}
		logging.Get(logging.CategoryFormats).Error("watcher: failed to stat %s: %v", path, err)
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		return
	}

	name := strings.TrimSuffix(filepath.Base(path), ".xml")

	w.mu.Lock()
	w.stats.ValidationTriggered++
	w.mu.Unlock()

	res := ValidationResult{Info: FormatInfo{Name: name, Path: path}}
	df, errs, err := w.manager.Load(name)
	res.Errors = errs
	if err != nil {
		res.Err = err
		logging.Get(logging.CategoryFormats).Warn("watcher: %s is not a valid format: %v", path, err)
	} else {
		res.FormatName = df.Name()
		res.Speeches = df.SpeechCount()
		logging.Formats("watcher: revalidated %s (%q, %d speeches)", path, df.Name(), df.SpeechCount())
	}

	if w.onChange != nil {
		w.onChange(res)
	}
}

// Stats returns the current watcher statistics.
func (w *Watcher) Stats() WatcherStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// IsWatching returns true if the watcher is currently running.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}
