package workload

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/turboinfra/turboinfra/pkg/types"
)

// Watch calls onChange with the freshly parsed workload each time the file
// at path is written or replaced. It returns nil once ctx is cancelled.
//
// A reload that fails (unreadable file, invalid JSON) is logged and skipped;
// onChange is not called for it.
func Watch(ctx context.Context, path string, onChange func(*types.Workload)) error {
	path = filepath.Clean(path)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("workload: watch: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("workload: watch: %w", err)
	}
	defer watcher.Close()

	// The parent directory is watched so a rename-over save, which swaps the
	// inode, keeps being observed.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("workload: watch: %w", err)
	}
	slog.Info("workload: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			reload(path, onChange)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("workload: watcher error", "err", err)
		}
	}
}

func reload(path string, onChange func(*types.Workload)) {
	w, err := Load(path)
	if err != nil {
		slog.Warn("workload: reload failed, waiting for next change", "path", path, "err", err)
		return
	}
	slog.Info("workload: reloaded", "path", path, "ops", len(w.Ops))
	onChange(w)
}
