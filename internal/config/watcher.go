package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/wesleyorama2/runcfg/internal/log"
)

// DefaultDebounce is how long the watcher waits after the last change
// before resolving again.
const DefaultDebounce = 200 * time.Millisecond

// Result is the outcome of one resolution triggered by the watcher.
type Result struct {
	Document *Document
	Err      error
}

// Watcher re-resolves a config file each time it changes. Every successful
// resolution yields a new frozen Document; documents already handed out
// are never modified.
type Watcher struct {
	opts     Options
	debounce time.Duration
	logger   zerolog.Logger

	mu      sync.RWMutex
	current *Document
}

// NewWatcher creates a watcher for opts.Path, which must be set.
func NewWatcher(opts Options, debounce time.Duration) (*Watcher, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("watcher requires a config file path")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		opts:     opts,
		debounce: debounce,
		logger:   log.WithComponent("watcher"),
	}, nil
}

// Current returns the last successfully resolved document, or nil.
func (w *Watcher) Current() *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Run resolves once, then again after every change to the file, sending
// each outcome on results until ctx is done. Run closes results before
// returning.
func (w *Watcher) Run(ctx context.Context, results chan<- Result) error {
	defer close(results)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory so editors that replace the file are followed.
	dir := filepath.Dir(w.opts.Path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(w.opts.Path)

	w.logger.Info().
		Str("event", "config.watcher_started").
		Str("path", target).
		Msg("watching config file for changes")

	if !w.publish(ctx, results) {
		return nil
	}

	trigger := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str("event", "config.watcher_stopped").Msg("config watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug().
				Str("event", "config.file_changed").
				Str("op", event.Op.String()).
				Msg("config file changed")

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case <-trigger:
			if !w.publish(ctx, results) {
				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().
				Err(err).
				Str("event", "config.watcher_error").
				Msg("config watcher error")
		}
	}
}

// publish resolves and sends the result. It returns false if ctx ended
// before the result could be delivered.
func (w *Watcher) publish(ctx context.Context, results chan<- Result) bool {
	doc, err := Resolve(w.opts)
	if err != nil {
		w.logger.Error().
			Err(err).
			Str("event", "config.reload_failed").
			Msg("configuration is invalid")
	} else {
		w.mu.Lock()
		w.current = doc
		w.mu.Unlock()
		w.logger.Info().
			Str("event", "config.reload_success").
			Msg("configuration resolved")
	}

	select {
	case results <- Result{Document: doc, Err: err}:
		return true
	case <-ctx.Done():
		return false
	}
}
