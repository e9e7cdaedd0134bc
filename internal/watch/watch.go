// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package watch calls back when a registry file changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last change event before
// the callback runs.
const DefaultDebounce = 200 * time.Millisecond

type Config struct {
	Path     string
	Debounce time.Duration
}

// Watcher watches a single file. Editors and downloaders often replace a
// file instead of writing it in place, so the parent directory is watched
// and events are filtered on the file name.
type Watcher struct {
	cfg    Config
	logger *slog.Logger
	fsw    *fsnotify.Watcher
	name   string
}

func New(cfg Config, logger *slog.Logger) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, errors.New("watch: no path")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", cfg.Path, err)
	}
	return &Watcher{cfg: cfg, logger: logger, fsw: fsw, name: abs}, nil
}

// Run blocks until ctx is done, calling onChange once per burst of changes
// to the watched file. Errors returned by onChange are logged and do not
// stop the watch. Run closes the watcher before returning.
func (w *Watcher) Run(ctx context.Context, onChange func() error) error {
	defer w.fsw.Close()

	w.logger.Info("watching registry file", "path", w.cfg.Path, "debounce", w.cfg.Debounce)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watch stopped")
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("file event", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.cfg.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.logger.Info("registry file changed", "path", w.cfg.Path)
			if err := onChange(); err != nil {
				w.logger.Error("reload failed", "error", err)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return abs == w.name
}
