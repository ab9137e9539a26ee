package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// sourceWatcher re-runs the split whenever the source document changes.
// Editors replace files with write+rename bursts, so runs are debounced.
type sourceWatcher struct {
	source   string
	watcher  *fsnotify.Watcher
	stopChan chan struct{}

	// Callback invoked after the debounce window
	onChange func() error

	// Debouncing for re-runs
	runTimer    *time.Timer
	runMu       sync.Mutex
	runDebounce time.Duration
	pendingRun  bool
}

func newSourceWatcher(source string) (*sourceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	sw := &sourceWatcher{
		source:   filepath.Clean(source),
		watcher:  watcher,
		stopChan: make(chan struct{}),

		// Wait for the editor to finish writing before re-splitting
		runDebounce: 500 * time.Millisecond,
	}

	// Watch the directory: the file itself disappears on atomic saves
	if err := watcher.Add(filepath.Dir(sw.source)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(sw.source), err)
	}

	slog.Info("File watcher initialized", "source", sw.source)

	return sw, nil
}

func (sw *sourceWatcher) setOnChange(callback func() error) {
	sw.onChange = callback
}

func (sw *sourceWatcher) start() {
	go sw.watch()
}

func (sw *sourceWatcher) stop() {
	sw.runMu.Lock()
	if sw.runTimer != nil {
		sw.runTimer.Stop()
		sw.runTimer = nil
	}
	sw.pendingRun = false
	sw.runMu.Unlock()

	close(sw.stopChan)
	defer func() { _ = sw.watcher.Close() }()
}

func (sw *sourceWatcher) watch() {
	for {
		select {
		case <-sw.stopChan:
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != sw.source {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			slog.Info("Source changed", "op", event.Op.String())
			sw.scheduleRun()

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Watcher error", "error", err)
		}
	}
}

// scheduleRun debounces change events: only this many quiet milliseconds
// after the last event does the split actually run.
func (sw *sourceWatcher) scheduleRun() {
	sw.runMu.Lock()
	defer sw.runMu.Unlock()

	sw.pendingRun = true

	if sw.runTimer != nil {
		sw.runTimer.Stop()
	}

	sw.runTimer = time.AfterFunc(sw.runDebounce, func() {
		sw.runMu.Lock()
		if !sw.pendingRun {
			sw.runMu.Unlock()
			return
		}
		sw.pendingRun = false
		sw.runMu.Unlock()

		if sw.onChange == nil {
			return
		}
		if err := sw.onChange(); err != nil {
			slog.Error("Re-split failed", "error", err)
		}
	})
}
