package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lucasvautier/planrun/internal/logger"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher observes a configuration file and reports coalesced change events.
// Editors typically produce several write/rename events per save, so changes
// are debounced before being reported.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	log      *logger.Logger
	events   chan struct{}
}

// NewWatcher creates a watcher for the given configuration file.
func NewWatcher(path string, debounce time.Duration, log *logger.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = defaultDebounce
	}

	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		watcher:  fsw,
		log:      log,
		events:   make(chan struct{}, 1),
	}, nil
}

// Events returns the channel of coalesced change notifications.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Start begins watching. The parent directory is watched rather than the
// file itself so that atomic save (write to temp, rename over) is observed.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	go w.loop(ctx)

	w.log.WithFields(map[string]any{"path": w.path, "debounce": w.debounce}).
		Debug("configuration watcher started")
	return nil
}

// Stop closes the underlying watcher. The events channel is closed by the
// processing goroutine when it exits.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.events)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			select {
			case w.events <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error(err, "configuration watcher error")
		}
	}
}
