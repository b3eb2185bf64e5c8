// Package watcher watches tenant document folders with fsnotify and triggers
// debounced full index rebuilds. The core provides no incremental updates, so
// every change to a tenant's folder rebuilds that tenant's whole index.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// Watcher watches one folder per tenant (non-recursive) and invokes the
// rebuild callback after changes settle.
type Watcher struct {
	tenantDirs map[string]string // tenant ID -> documents folder
	onRebuild  func(tenantID string)
	debounce   time.Duration
	watcher    *fsnotify.Watcher
	mu         sync.Mutex
	timers     map[string]*time.Timer // tenant ID -> pending rebuild timer
	done       chan struct{}
	started    bool
	stopOnce   sync.Once
	logger     *zap.Logger // optional; when set, logs debug events
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets a logger for debug output (file events, rebuild triggers).
func WithLogger(l *zap.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce overrides the debounce window before a rebuild fires.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher over tenantDirs. onRebuild is called with the
// tenant ID whose folder changed, after the debounce window passes without
// further events.
func NewWatcher(tenantDirs map[string]string, onRebuild func(tenantID string), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		tenantDirs: tenantDirs,
		onRebuild:  onRebuild,
		debounce:   defaultDebounce,
		timers:     make(map[string]*time.Timer),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start starts the watcher. It runs until ctx is cancelled or Stop is called.
// Every tenant folder must exist; a missing folder is an error, matching the
// index builder's hard startup dependency on the documents directory.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	for _, dir := range w.tenantDirs {
		if err := watcher.Add(filepath.Clean(dir)); err != nil {
			_ = watcher.Close()
			w.mu.Unlock()
			return err
		}
	}
	w.watcher = watcher
	w.started = true
	if w.logger != nil {
		w.logger.Debug("watcher starting", zap.Int("tenants", len(w.tenantDirs)))
	}
	w.mu.Unlock()
	go w.run(ctx, watcher)
	return nil
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if err != nil && w.logger != nil {
				w.logger.Debug("watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return
	}
	if !isTxt(ev.Name) {
		return
	}
	tenantID, ok := w.tenantFor(ev.Name)
	if !ok {
		return
	}
	if w.logger != nil {
		w.logger.Debug("watcher event",
			zap.String("op", ev.Op.String()),
			zap.String("path", ev.Name),
			zap.String("tenant", tenantID),
		)
	}
	w.scheduleRebuild(tenantID)
}

// tenantFor maps an event path to the tenant whose folder contains it.
func (w *Watcher) tenantFor(path string) (string, bool) {
	dir := filepath.Dir(filepath.Clean(path))
	for id, root := range w.tenantDirs {
		if filepath.Clean(root) == dir {
			return id, true
		}
	}
	return "", false
}

func isTxt(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}

// scheduleRebuild arms (or re-arms) the tenant's debounce timer.
func (w *Watcher) scheduleRebuild(tenantID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[tenantID]; ok {
		t.Stop()
	}
	w.timers[tenantID] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, tenantID)
		logger := w.logger
		w.mu.Unlock()
		if logger != nil {
			logger.Debug("watcher rebuild triggered", zap.String("tenant", tenantID))
		}
		if w.onRebuild != nil {
			w.onRebuild(tenantID)
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
	for id, t := range w.timers {
		t.Stop()
		delete(w.timers, id)
	}
	_ = w.watcher.Close()
	w.watcher = nil
	w.started = false
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}
