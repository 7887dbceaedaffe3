// Package watch provides the debounced file watcher behind the dev loop
// that re-stages the web deployment bundle on source changes.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config contains configuration for the file watcher.
type Config struct {
	// Dir is the root directory to watch, recursively.
	Dir string

	// IgnoreDirs are directory names skipped entirely. Build outputs
	// must be listed here or the re-stage triggered by a change would
	// itself trigger the next re-stage.
	IgnoreDirs []string

	// Debounce is the quiet period collapsing bursts of events (editors
	// and build tools touch many files at once).
	Debounce time.Duration
}

// DefaultConfig returns the watcher configuration for a web source tree.
func DefaultConfig(dir string) *Config {
	return &Config{
		Dir:        dir,
		IgnoreDirs: []string{".git", "node_modules", "dist", "target"},
		Debounce:   300 * time.Millisecond,
	}
}

// Watcher emits one signal per debounced burst of file changes.
type Watcher struct {
	config  *Config
	watcher *fsnotify.Watcher
	changes chan struct{}
	errors  chan error
	done    chan struct{}

	mu      sync.Mutex
	running bool
	timer   *time.Timer
}

// NewWatcher creates a watcher for the configured directory.
func NewWatcher(config *Config) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		config:  config,
		watcher: fsWatcher,
		changes: make(chan struct{}, 1),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching for file changes.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addRecursive(w.config.Dir); err != nil {
		// leave the watcher restartable: nothing has been started yet
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}

	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	close(w.done)
	return w.watcher.Close()
}

// Changes returns the channel signalled after each debounced burst.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Errors returns the channel of watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// addRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		for _, name := range w.config.IgnoreDirs {
			if info.Name() == name {
				return filepath.SkipDir
			}
		}
		return w.watcher.Add(path)
	})
}

// processEvents collapses fsnotify events into debounced change signals.
func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
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
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if w.shouldIgnore(event.Name) {
		return
	}

	// Newly created directories need their own watch.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.config.Debounce, func() {
		select {
		case w.changes <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) shouldIgnore(path string) bool {
	for _, name := range w.config.IgnoreDirs {
		for _, part := range splitPath(path) {
			if part == name {
				return true
			}
		}
	}
	return false
}

func splitPath(path string) []string {
	return strings.Split(filepath.ToSlash(path), "/")
}
