// Package watch monitors a drop directory for campaign briefs and
// triggers a pipeline run for each new or updated file.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/brandforge/brandforge/internal/logger"
)

// Handler is invoked with the path of a brief that settled after a
// write. It runs on the watcher goroutine, one brief at a time.
type Handler func(path string)

// Watcher debounces filesystem events on the drop directory so a brief
// being written in chunks fires exactly once.
type Watcher struct {
	dir      string
	debounce time.Duration
	handler  Handler
	logger   *logger.Logger
	fsw      *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
	done    chan struct{}
}

// New creates a watcher over dir. The directory is created when absent.
func New(dir string, debounce time.Duration, handler Handler, log *logger.Logger) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create watch dir: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		handler:  handler,
		logger:   log.WithComponent("watch"),
		fsw:      fsw,
		pending:  make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}, nil
}

// Start consumes filesystem events until Close is called.
func (w *Watcher) Start() {
	w.logger.Info("Watching for briefs",
		zap.String("dir", w.dir),
		zap.Duration("debounce", w.debounce))
	go w.loop()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isBrief(event.Name) {
				continue
			}
			w.schedule(event.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", zap.Error(err))
		case <-w.done:
			return
		}
	}
}

// schedule arms (or re-arms) the debounce timer for one path. Each
// write event pushes the fire time back, so a slow copy triggers once.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.logger.Info("Brief detected", zap.String("path", path))
		w.handler(path)
	})
}

// Close stops the watcher and cancels pending timers.
func (w *Watcher) Close() error {
	close(w.done)
	w.mu.Lock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()
	return w.fsw.Close()
}

func isBrief(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
