// Package watcher reloads the serving index when the snapshot file changes
// on disk, so a rebuild becomes visible without restarting the server.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// Watcher watches a snapshot file and invokes onReload after changes settle.
// The parent directory is watched rather than the file itself, because the
// build step replaces the snapshot via rename.
type Watcher struct {
	snapshotPath string
	onReload     func()
	debounce     time.Duration
	watcher      *fsnotify.Watcher
	mu           sync.Mutex
	timer        *time.Timer
	done         chan struct{}
	started      bool
	stopOnce     sync.Once
	logger       *zap.Logger
}

// NewWatcher creates a watcher for snapshotPath. onReload is called after a
// change to the snapshot has been quiet for the debounce interval.
func NewWatcher(snapshotPath string, onReload func(), logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		snapshotPath: filepath.Clean(snapshotPath),
		onReload:     onReload,
		debounce:     defaultDebounce,
		done:         make(chan struct{}),
		logger:       logger,
	}
}

// Start begins watching. It runs until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}

	dir := filepath.Dir(w.snapshotPath)
	if _, statErr := os.Stat(dir); os.IsNotExist(statErr) {
		if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
			_ = fsw.Close()
			w.mu.Unlock()
			return mkErr
		}
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		w.mu.Unlock()
		return err
	}

	w.watcher = fsw
	w.started = true
	w.logger.Debug("watching snapshot", zap.String("path", w.snapshotPath))
	w.mu.Unlock()

	go w.run(ctx)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.logger.Debug("watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.snapshotPath {
		return
	}
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}
	w.logger.Debug("snapshot changed", zap.String("op", ev.Op.String()))
	w.scheduleReload()
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.logger.Info("reloading snapshot", zap.String("path", w.snapshotPath))
		if w.onReload != nil {
			w.onReload()
		}
	})
}

// Stop stops the watcher and releases resources.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started || w.watcher == nil {
		w.mu.Unlock()
		return
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	_ = w.watcher.Close()
	w.watcher = nil
	w.started = false
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}
