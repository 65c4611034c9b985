// Package watcher reloads the knowledge base when its files change on disk.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sportscom/internal/logger"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 500 * time.Millisecond

// ErrNoPaths is returned when there is nothing to watch.
var ErrNoPaths = errors.New("watcher: no paths to watch")

// Reloader rebuilds state after a change. KnowledgeService satisfies it.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Options tunes the watcher.
type Options struct {
	// Debounce is the quiet period before a reload. Zero uses DefaultDebounce.
	Debounce time.Duration
}

// Watcher triggers a reload when any watched file is written, created,
// renamed or removed. Parent directories are watched so that editors
// which replace files atomically are still seen.
type Watcher struct {
	files    map[string]struct{}
	reloader Reloader
	debounce time.Duration
	fsw      *fsnotify.Watcher
	reloads  atomic.Int64
}

// New starts watching the directories holding paths. Empty paths are skipped.
func New(paths []string, reloader Reloader, opts Options) (*Watcher, error) {
	files := make(map[string]struct{})
	dirs := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	if len(files) == 0 {
		return nil, ErrNoPaths
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		logger.Debug("watching %s", dir)
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		files:    files,
		reloader: reloader,
		debounce: debounce,
		fsw:      fsw,
	}, nil
}

// Reloads returns how many reloads have been attempted.
func (w *Watcher) Reloads() int64 {
	return w.reloads.Load()
}

// Run processes events until ctx is cancelled. It closes the underlying
// watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("knowledge file changed: %s (%s)", event.Name, event.Op)
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: %v", err)

		case <-timer.C:
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	w.reloads.Add(1)
	if err := w.reloader.Reload(ctx); err != nil {
		logger.Error("reload failed, keeping previous knowledge base: %v", err)
		return
	}
	logger.Info("knowledge base reloaded")
}

// relevant reports whether event touches a watched file in a way that
// can change its content.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if _, ok := w.files[filepath.Clean(event.Name)]; !ok {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}
