package snapshot

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/veskel/cityscan/internal/logger"
)

// EventType defines the type of watcher event.
type EventType int

const (
	// EventSnapshotWritten fires when a new or rewritten snapshot settles.
	EventSnapshotWritten EventType = iota
	// EventError fires for watcher failures.
	EventError
)

// Event is one watcher notification.
type Event struct {
	Type EventType
	Path string
	Err  error
}

// Watcher watches an input directory for city snapshot writes with
// debouncing, so a snapshot still being copied in does not trigger a
// half-read.
type Watcher struct {
	mu            sync.Mutex
	dir           string
	debounce      time.Duration
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	pendingPath   string
}

// NewWatcher creates a watcher for dir and starts it.
func NewWatcher(dir string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		dir:       dir,
		debounce:  debounce,
		watcher:   fsw,
		eventChan: make(chan Event, 16),
		stopChan:  make(chan struct{}),
	}

	go w.watchLoop()
	return w, nil
}

// Events returns the event channel for subscribing to snapshot writes.
func (w *Watcher) Events() <-chan Event {
	return w.eventChan
}

// watchLoop handles file system events with debouncing.
func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only care about snapshot files
			matched, err := filepath.Match(Pattern, filepath.Base(event.Name))
			if err != nil || !matched {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.scheduleEmit(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendEvent(Event{Type: EventError, Err: err})

		case <-w.stopChan:
			return
		}
	}
}

// scheduleEmit (re)arms the debounce timer for path.
func (w *Watcher) scheduleEmit(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pendingPath = path
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		pending := w.pendingPath
		w.mu.Unlock()

		w.sendEvent(Event{Type: EventSnapshotWritten, Path: pending})
	})
}

// sendEvent sends an event to the event channel non-blocking.
func (w *Watcher) sendEvent(event Event) {
	select {
	case w.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-w.eventChan:
		default:
		}
		select {
		case w.eventChan <- event:
		default:
		}
	}
}

// Close stops the watcher and cleans up resources.
func (w *Watcher) Close() error {
	close(w.stopChan)

	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()

	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
