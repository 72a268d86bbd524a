package app

import (
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"chip-tracer/internal/config"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDebounce is how long the appearance file must be quiet
// before it is re-read.
const DefaultReloadDebounce = 300 * time.Millisecond

// HotReloader watches an appearance file and hands every successfully parsed
// revision to its callback. Parse failures go to the error callback and the
// previous appearance stays in effect.
type HotReloader struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	log      *slog.Logger

	onReload func(config.Appearance)
	onError  func(error)

	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// NewHotReloader creates a watcher for path. The containing directory is
// watched so that editors which save by rename are picked up.
func NewHotReloader(path string, debounce time.Duration, log *slog.Logger) (*HotReloader, error) {
	if debounce <= 0 {
		debounce = DefaultReloadDebounce
	}
	if log == nil {
		log = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}

	return &HotReloader{
		watcher:  w,
		path:     abs,
		debounce: debounce,
		log:      log,
	}, nil
}

// OnReload sets the callback receiving each new appearance. It is called
// from the watcher goroutine.
func (h *HotReloader) OnReload(callback func(config.Appearance)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onReload = callback
}

// OnError sets the callback receiving watch and parse errors.
func (h *HotReloader) OnError(callback func(error)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onError = callback
}

// Path returns the absolute path being watched.
func (h *HotReloader) Path() string {
	return h.path
}

// Start begins watching in a background goroutine.
func (h *HotReloader) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true
	h.stopCh = make(chan struct{})
	h.stoppedCh = make(chan struct{})
	go h.watchLoop(h.stopCh, h.stoppedCh)
}

// Stop stops the watcher and waits for its goroutine to exit. A stopped
// reloader cannot be restarted.
func (h *HotReloader) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		h.watcher.Close()
		return
	}
	h.running = false
	stopCh, stoppedCh := h.stopCh, h.stoppedCh
	h.mu.Unlock()

	close(stopCh)
	<-stoppedCh
}

func (h *HotReloader) watchLoop(stopCh <-chan struct{}, stoppedCh chan<- struct{}) {
	defer close(stoppedCh)
	defer h.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if abs, _ := filepath.Abs(event.Name); abs != h.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(h.debounce)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			h.reload()

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.fail(err)
		}
	}
}

func (h *HotReloader) reload() {
	a, err := config.Load(h.path)
	if err != nil {
		h.fail(err)
		return
	}
	h.log.Info("appearance reloaded", "path", h.path)

	h.mu.Lock()
	cb := h.onReload
	h.mu.Unlock()
	if cb != nil {
		cb(a)
	}
}

func (h *HotReloader) fail(err error) {
	if errors.Is(err, fsnotify.ErrEventOverflow) {
		h.log.Debug("watch event overflow", "path", h.path)
	} else {
		h.log.Warn("appearance reload failed", "path", h.path, "error", err)
	}

	h.mu.Lock()
	cb := h.onError
	h.mu.Unlock()
	if cb != nil {
		cb(err)
	}
}
