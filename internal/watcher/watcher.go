// Package watcher feeds newly written audio files into a handler, one at a time.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/killallgit/rgain-analyzer/pkg/logging"
)

// Handler processes one settled file
type Handler func(ctx context.Context, path string) error

// Options configures the watcher behavior
type Options struct {
	// Extensions to pick up; empty means every file
	Extensions []string

	// MinFileAge is how long a file must go without events before it is handled
	MinFileAge time.Duration

	// ReprocessAfter suppresses repeat handling of the same path
	ReprocessAfter time.Duration

	// Recursive also watches subdirectories, including ones created later
	Recursive bool

	// QueueSize bounds files waiting for the handler
	QueueSize int
}

// Watcher monitors directories and hands settled files to a single
// sequential handler goroutine
type Watcher struct {
	fsw     *fsnotify.Watcher
	dirs    []string
	options Options
	handler Handler

	mu        sync.Mutex
	pending   map[string]time.Time
	processed map[string]time.Time
	queue     chan string
}

// New validates dirs and creates a watcher. Invalid directories are skipped
// with a warning; having none left is an error.
func New(dirs []string, options Options, handler Handler) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watcher handler is nil")
	}

	var validDirs []string
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil {
			logging.Warnf("Skipping invalid directory %s: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			logging.Warnf("Skipping non-directory path %s", dir)
			continue
		}
		validDirs = append(validDirs, dir)
	}
	if len(validDirs) == 0 {
		return nil, errors.New("no valid directories to watch")
	}

	if options.MinFileAge <= 0 {
		options.MinFileAge = 2 * time.Second
	}
	if options.ReprocessAfter <= 0 {
		options.ReprocessAfter = time.Minute
	}
	if options.QueueSize <= 0 {
		options.QueueSize = 64
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		fsw:       fsw,
		dirs:      validDirs,
		options:   options,
		handler:   handler,
		pending:   make(map[string]time.Time),
		processed: make(map[string]time.Time),
		queue:     make(chan string, options.QueueSize),
	}, nil
}

// Dirs returns the directories being watched
func (w *Watcher) Dirs() []string {
	return w.dirs
}

// Run watches until ctx is done, then waits for the file being handled to finish
func (w *Watcher) Run(ctx context.Context) error {
	for _, dir := range w.dirs {
		w.addDir(dir)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.drain(ctx)
	}()

	defer func() {
		if err := w.fsw.Close(); err != nil {
			logging.Warnf("Failed to close file watcher: %v", err)
		}
		close(w.queue)
		wg.Wait()
		logging.Infof("File watcher stopped")
	}()

	tick := w.options.MinFileAge / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	logging.Infof("Watching %s", strings.Join(w.dirs, ", "))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logging.Errorf("Watcher error: %v", err)

		case now := <-ticker.C:
			w.flushSettled(ctx, now)
		}
	}
}

// addDir registers dir, and its subdirectories when recursive
func (w *Watcher) addDir(dir string) {
	if !w.options.Recursive {
		if err := w.fsw.Add(dir); err != nil {
			logging.Warnf("Failed to watch directory %s: %v", dir, err)
			return
		}
		logging.Debugf("Watching directory: %s", dir)
		return
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logging.Warnf("Error accessing path %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			logging.Warnf("Failed to watch directory %s: %v", path, err)
		} else {
			logging.Debugf("Watching directory: %s", path)
		}
		return nil
	})
	if err != nil {
		logging.Errorf("Error walking directory %s: %v", dir, err)
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	path := event.Name
	if w.options.Recursive && event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.addDir(path)
			return
		}
	}

	if !w.matchesExtension(path) {
		return
	}

	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) matchesExtension(path string) bool {
	if len(w.options.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range w.options.Extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// flushSettled queues pending files that have been quiet for MinFileAge
func (w *Watcher) flushSettled(ctx context.Context, now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, seen := range w.processed {
		if now.Sub(seen) >= w.options.ReprocessAfter {
			delete(w.processed, path)
		}
	}

	for path, lastEvent := range w.pending {
		if now.Sub(lastEvent) < w.options.MinFileAge {
			continue
		}

		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			delete(w.pending, path)
			continue
		}
		if now.Sub(info.ModTime()) < w.options.MinFileAge {
			continue
		}

		if _, recent := w.processed[path]; recent {
			logging.Debugf("Skipping recently processed file: %s", path)
			delete(w.pending, path)
			continue
		}

		select {
		case w.queue <- path:
			delete(w.pending, path)
			w.processed[path] = now
		case <-ctx.Done():
			return
		default:
			// Queue full, retry on the next tick
			return
		}
	}
}

// drain runs the handler for each queued file in order
func (w *Watcher) drain(ctx context.Context) {
	for path := range w.queue {
		if ctx.Err() != nil {
			continue
		}

		logging.Debugf("Processing file: %s", path)
		if err := w.handler(ctx, path); err != nil {
			logging.Errorf("Failed to process file %s: %v", path, err)
			continue
		}
		logging.Debugf("Successfully processed file: %s", path)
	}
}
