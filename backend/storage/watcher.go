package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports changes made to a storage file by other processes or by the user, such as
// the file being deleted to reset progress.
//
// The parent directory is watched rather than the file itself because FileAdapter replaces
// the file by rename on every save.
type Watcher struct {
	watcher   *fsnotify.Watcher
	path      string
	logger    *zap.Logger
	debounce  time.Duration
	closeOnce sync.Once
}

func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve storage path: %w", err)
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		watcher:  w,
		path:     abs,
		logger:   logger.Named("watcher"),
		debounce: 100 * time.Millisecond,
	}, nil
}

// Run delivers change notifications to onChange until ctx is cancelled. Bursts of events for
// the file are coalesced into one call. Run closes the underlying watcher before returning.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer w.Close()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	w.logger.Debug("Watching storage file", zap.String("path", w.path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || event.Op == fsnotify.Chmod {
				continue
			}
			w.logger.Debug("Storage file event", zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Storage watcher error", zap.Error(err))

		case <-timer.C:
			onChange()
		}
	}
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
	})
	return err
}
