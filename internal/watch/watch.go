// Package watch reloads a network config file whenever it changes on disk.
package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/iburimskiy/knowledge-network/internal/config"
)

// DefaultPollInterval is used when fsnotify cannot watch the directory.
const DefaultPollInterval = 2 * time.Second

var (
	ErrFileRemoved    = errors.New("watched config was removed")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a Watcher.
type Option func(*Watcher)

func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) { w.debounceDuration = d }
}

func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithOnError sets the callback for watch and parse errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// WithLoader replaces config.LoadNetwork as the way the file is turned into a record.
func WithLoader(load func(path string) (config.Network, error)) Option {
	return func(w *Watcher) { w.load = load }
}

// WithForcePoll skips fsnotify entirely.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// Watcher delivers a freshly resolved config.Network after every change to
// the watched file. Files that fail to parse are reported and skipped.
type Watcher struct {
	path             string
	debounceDuration time.Duration
	pollInterval     time.Duration
	onError          func(error)
	load             func(string) (config.Network, error)
	forcePoll        bool

	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	polling   bool
	lastMtime time.Time
	lastSize  int64

	cancel  context.CancelFunc
	started bool
	mu      sync.Mutex
	updates chan config.Network
}

func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:             abs,
		debounceDuration: DefaultDebounceDuration,
		pollInterval:     DefaultPollInterval,
		onError:          func(error) {},
		load:             config.LoadNetwork,
		updates:          make(chan config.Network, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = NewDebouncer(w.debounceDuration)
	return w, nil
}

// Start begins watching until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return ErrAlreadyStarted
	}
	ctx, w.cancel = context.WithCancel(ctx)

	if info, err := os.Stat(w.path); err == nil {
		w.lastMtime, w.lastSize = info.ModTime(), info.Size()
	}

	w.polling = true
	if !w.forcePoll {
		if fsw, err := fsnotify.NewWatcher(); err == nil {
			// the directory survives editors that save by rename
			if err := fsw.Add(filepath.Dir(w.path)); err != nil {
				fsw.Close()
			} else {
				w.fsWatcher = fsw
				w.polling = false
				go w.watchEvents(ctx, fsw)
			}
		}
	}
	if w.polling {
		go w.watchPolling(ctx)
	}
	w.started = true
	return nil
}

// Stop ends watching. Updates is left open.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	w.cancel()
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}
	w.debouncer.Cancel()
	w.started = false
}

// Updates receives the latest config; a slow reader only sees the newest one.
func (w *Watcher) Updates() <-chan config.Network { return w.updates }

func (w *Watcher) Path() string { return w.path }

func (w *Watcher) IsPolling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

func (w *Watcher) watchEvents(ctx context.Context, fsw *fsnotify.Watcher) {
	target := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			switch {
			case event.Op&fsnotify.Remove != 0:
				w.onError(ErrFileRemoved)
			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.debouncer.Trigger(w.reload)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) watchPolling(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				if os.IsNotExist(err) {
					w.onError(ErrFileRemoved)
				} else {
					w.onError(err)
				}
				continue
			}
			w.mu.Lock()
			changed := info.ModTime().After(w.lastMtime) || info.Size() != w.lastSize
			w.lastMtime, w.lastSize = info.ModTime(), info.Size()
			w.mu.Unlock()
			if changed {
				w.debouncer.Trigger(w.reload)
			}
		}
	}
}

func (w *Watcher) reload() {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if !started {
		return
	}

	cfg, err := w.load(w.path)
	if err != nil {
		w.onError(err)
		return
	}
	// replace a stale value nobody has read yet
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- cfg:
	default:
	}
}
