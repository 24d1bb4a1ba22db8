package store

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler is called once per changed document after the debounce
// window has elapsed.
type ChangeHandler func(path string)

// Watcher monitors the movies directory for documents edited by external
// tools (dashboards, plain editors) so callers can revalidate and reload.
type Watcher struct {
	dir           string
	debounceDelay time.Duration
	handler       ChangeHandler
	watcher       *fsnotify.Watcher
	stopChan      chan struct{}
	doneChan      chan struct{}

	mu            sync.Mutex
	pendingTimers map[string]*time.Timer
}

// NewWatcher creates a watcher over the given movies directory.
func NewWatcher(dir string, debounceDelay time.Duration, handler ChangeHandler) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		dir:           dir,
		debounceDelay: debounceDelay,
		handler:       handler,
		watcher:       fsWatcher,
		stopChan:      make(chan struct{}),
		doneChan:      make(chan struct{}),
		pendingTimers: make(map[string]*time.Timer),
	}, nil
}

// Start begins watching the directory.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch movies directory: %w", err)
	}

	go w.processEvents()

	slog.Info("movies directory watcher started",
		"dir", w.dir,
		"debounce_seconds", w.debounceDelay.Seconds(),
	)
	return nil
}

// Stop stops watching and waits for the event loop to drain.
func (w *Watcher) Stop() error {
	close(w.stopChan)
	<-w.doneChan

	w.mu.Lock()
	for _, timer := range w.pendingTimers {
		timer.Stop()
	}
	w.mu.Unlock()

	return w.watcher.Close()
}

func (w *Watcher) processEvents() {
	defer close(w.doneChan)

	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, documentExt) {
		return
	}
	if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		slog.Debug("document event detected",
			"event", event.Op.String(),
			"file", filepath.Base(event.Name),
		)
		w.scheduleProcessing(event.Name)
	}
}

// scheduleProcessing debounces rapid successive events on the same
// document (editors typically fire several writes per save).
func (w *Watcher) scheduleProcessing(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.pendingTimers[path]; exists {
		timer.Stop()
	}
	w.pendingTimers[path] = time.AfterFunc(w.debounceDelay, func() {
		w.mu.Lock()
		delete(w.pendingTimers, path)
		w.mu.Unlock()
		w.handler(path)
	})
}
