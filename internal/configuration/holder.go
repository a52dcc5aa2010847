package configuration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ApplyFunc activates a newly loaded configuration. If it returns an error, the new configuration is discarded.
type ApplyFunc func(Presets) error

// A Holder holds the active preset configuration and reloads it from disk.
// A reload either fully succeeds, or the previous configuration remains active.
type Holder struct {
	path     string
	apply    ApplyFunc
	logger   *slog.Logger
	debounce time.Duration
	current  Presets
	lock     sync.RWMutex
	reload   sync.Mutex
}

// NewHolder loads the preset document at path. apply is called for every subsequent successful reload.
//
// If the document is invalid, the Holder starts with an empty, disabled configuration, so that a later reload can recover.
// Failing to read the document is an error.
func NewHolder(path string, apply ApplyFunc, logger *slog.Logger) (*Holder, error) {
	p, err := LoadFile(path, logger)
	if err != nil {
		if !errors.Is(err, ErrConfig) {
			return nil, err
		}
		logger.Error("invalid preset document. starting with no presets until it is fixed", "err", err)
		p = Presets{}
	}
	return &Holder{
		path:     filepath.Clean(path),
		apply:    apply,
		logger:   logger,
		debounce: 500 * time.Millisecond,
		current:  p,
	}, nil
}

// Get returns the active configuration.
func (h *Holder) Get() Presets {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return h.current
}

// Path returns the location of the preset document.
func (h *Holder) Path() string {
	return h.path
}

// Reload reads and validates the preset document and activates it.
func (h *Holder) Reload() (Presets, error) {
	h.reload.Lock()
	defer h.reload.Unlock()

	p, err := LoadFile(h.path, h.logger)
	if err != nil {
		h.logger.Error("reload failed. keeping current configuration", "err", err)
		return Presets{}, err
	}
	if h.apply != nil {
		if err = h.apply(p); err != nil {
			h.logger.Error("new configuration rejected. keeping current configuration", "err", err)
			return Presets{}, fmt.Errorf("apply: %w", err)
		}
	}

	h.lock.Lock()
	h.current = p
	h.lock.Unlock()
	h.logger.Info("configuration reloaded", "path", h.path)
	return p, nil
}

// Watch reloads the configuration whenever the preset document changes. It blocks until ctx is canceled.
func (h *Holder) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	// watch the directory: editors often replace the file rather than write to it
	if err = w.Add(filepath.Dir(h.path)); err != nil {
		return fmt.Errorf("watch %s: %w", h.path, err)
	}

	h.logger.Debug("watching preset file", "path", h.path)
	defer h.logger.Debug("stopped watching preset file")

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != h.path || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			h.logger.Debug("preset file changed", "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(h.debounce, func() {
				if ctx.Err() == nil {
					_, _ = h.Reload()
				}
			})
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			h.logger.Error("watcher error", "err", err)
		}
	}
}
