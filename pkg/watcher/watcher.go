package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// TreeWatcher watches a preset tree for changes and triggers
// re-verification. It debounces to prevent verify storms while files
// are being edited.
type TreeWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   *Config
	debounce *Debouncer

	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Config contains configuration for the tree watcher.
type Config struct {
	// Root is the directory to watch recursively.
	Root string

	// DebounceInterval is the quiet period after the last event
	// before re-verification runs (default: 2s).
	DebounceInterval time.Duration

	// Extensions is the list of file extensions that trigger
	// re-verification.
	Extensions []string

	// SkipHidden controls whether hidden files and directories are
	// ignored.
	SkipHidden bool
}

// DefaultConfig returns the default watcher configuration.
func DefaultConfig() *Config {
	return &Config{
		DebounceInterval: 2 * time.Second,
		Extensions:       []string{".json"},
		SkipHidden:       true,
	}
}

// New creates a tree watcher.
func New(config *Config, logger *slog.Logger) (*TreeWatcher, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default().With("component", "watcher")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &TreeWatcher{
		watcher:  fsw,
		logger:   logger,
		config:   config,
		debounce: NewDebouncer(config.DebounceInterval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch starts watching and calls onChange after each debounced burst
// of relevant events. It blocks until the context is cancelled or
// Stop is called.
func (tw *TreeWatcher) Watch(ctx context.Context, onChange func() error) error {
	tw.mu.Lock()
	if tw.running {
		tw.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	tw.running = true
	tw.mu.Unlock()

	defer func() {
		tw.mu.Lock()
		tw.running = false
		tw.mu.Unlock()
		close(tw.doneCh)
	}()

	if err := tw.addTree(tw.config.Root); err != nil {
		return fmt.Errorf("failed to watch tree: %w", err)
	}

	tw.logger.Info("tree watcher started",
		"root", tw.config.Root,
		"debounce_ms", tw.config.DebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			tw.logger.Info("tree watcher stopped (context cancelled)")
			return nil

		case <-tw.stopCh:
			tw.logger.Info("tree watcher stopped")
			return nil

		case event, ok := <-tw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			// New subdirectories must be added to the watch set
			// before their contents produce events.
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := tw.addTree(event.Name); err != nil {
						tw.logger.Error("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}

			if !tw.shouldProcessEvent(event) {
				continue
			}

			tw.logger.Debug("file event detected",
				"path", event.Name,
				"op", event.Op.String(),
			)

			tw.debounce.Trigger(func() {
				tw.logger.Info("re-verifying after changes", "path", event.Name)
				if err := onChange(); err != nil {
					tw.logger.Error("re-verification failed", "error", err)
				}
			})

		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			tw.logger.Error("tree watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and cancels any pending re-verification.
func (tw *TreeWatcher) Stop() error {
	tw.mu.Lock()
	if !tw.running {
		tw.mu.Unlock()
		return nil
	}
	tw.mu.Unlock()

	close(tw.stopCh)
	<-tw.doneCh

	tw.debounce.Stop()

	if err := tw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// addTree adds a directory and all its subdirectories to the watch
// set.
func (tw *TreeWatcher) addTree(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if tw.config.SkipHidden && strings.HasPrefix(filepath.Base(path), ".") && path != dir {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			if err := tw.watcher.Add(path); err != nil {
				return fmt.Errorf("failed to watch directory %q: %w", path, err)
			}
			tw.logger.Debug("watching directory", "path", path)
		}

		return nil
	})
}

// shouldProcessEvent determines if an event should trigger
// re-verification.
func (tw *TreeWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}

	ext := strings.ToLower(filepath.Ext(event.Name))
	if !tw.hasValidExtension(ext) {
		return false
	}

	if tw.config.SkipHidden && strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}

	return true
}

func (tw *TreeWatcher) hasValidExtension(ext string) bool {
	for _, validExt := range tw.config.Extensions {
		if ext == strings.ToLower(validExt) {
			return true
		}
	}
	return false
}

// Debouncer collects rapid events and triggers the callback only
// after a quiet period.
type Debouncer struct {
	interval time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	callback func()
	stopCh   chan struct{}
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Trigger arms the debouncer with a new event. The callback runs
// after the interval elapses without further triggers.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.callback = callback

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		select {
		case <-d.stopCh:
			return
		default:
			d.mu.Lock()
			cb := d.callback
			d.mu.Unlock()

			if cb != nil {
				cb()
			}
		}
	})
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	close(d.stopCh)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
