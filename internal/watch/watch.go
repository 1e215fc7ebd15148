// Package watch re-runs the board conversion whenever the input file
// changes. Editors save through rename-and-replace, so the parent directory
// is watched rather than the file itself.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dgallion1/edgezone/internal/kicad"
	"github.com/dgallion1/edgezone/internal/pipeline"
)

const (
	pollInterval = 100 * time.Millisecond
	settleAfter  = 500 * time.Millisecond // debounce rapid saves
)

// Watch converts path once, then blocks, re-converting on every change until
// ctx is cancelled. Cancellation is a clean exit and returns nil.
func Watch(ctx context.Context, path string, opts pipeline.Options, log *slog.Logger) error {
	if !kicad.IsSupportedExtension(path) {
		return fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	log.Info("watching board", "path", target)

	convert := func() {
		res, err := pipeline.Convert(target, opts, log)
		if err != nil {
			log.Error("conversion failed", "path", target, "error", err)
			return
		}
		log.Info("board converted",
			"output", res.Output,
			"zone_id", res.ZoneID,
			"chained", res.Chained,
			"closed", res.Closed,
		)
	}
	convert()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var pending time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = time.Now()

		case err, ok := <-w.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			log.Error("watch error", "error", err)

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= settleAfter {
				pending = time.Time{}
				convert()
			}
		}
	}
}
