package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 200 * time.Millisecond

// Watch re-indexes a language directory whenever one of its articles is
// created, edited, renamed or removed, until ctx is cancelled. Each
// re-index is a full pass over the directory. Writes made by the indexer
// itself are recognised by checksum and ignored.
func (ix *Indexer) Watch(ctx context.Context, dirs []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer w.Close()

	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("watcher: resolve %s: %w", dir, err)
		}
		if err := w.Add(abs); err != nil {
			return fmt.Errorf("watcher: add %s: %w", abs, err)
		}
	}

	ix.logger.Info("watcher: started", slog.Any("dirs", dirs))

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func(dir string) {
		pending[dir] = struct{}{}
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			ix.logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			for _, dir := range slices.Sorted(maps.Keys(pending)) {
				posts, err := ix.IndexDir(dir)
				if err != nil {
					ix.logger.Warn("watcher: reindex failed",
						slog.String("dir", dir),
						slog.String("error", err.Error()))
					continue
				}
				ix.logger.Debug("watcher: reindexed",
					slog.String("dir", dir),
					slog.Int("posts", len(posts)))
			}
			clear(pending)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ix.opts.Extension) {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if ix.unchanged(ev.Name) {
					continue
				}
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				delete(ix.sums, ev.Name)
				delete(ix.posts, ev.Name)
			default:
				continue
			}
			ix.logger.Debug("watcher: change",
				slog.String("path", ev.Name),
				slog.String("op", ev.Op.String()))
			schedule(filepath.Dir(ev.Name))

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			ix.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
