package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/randalmurphal/llmrouter/usage"
)

// DefaultDebounce is how long Watch waits after the last change before reloading.
const DefaultDebounce = 200 * time.Millisecond

// WatchOption configures Watch.
type WatchOption func(*watchOptions)

type watchOptions struct {
	logger   *zap.Logger
	debounce time.Duration
}

// WithWatchLogger sets the watcher's logger.
func WithWatchLogger(logger *zap.Logger) WatchOption {
	return func(o *watchOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// Watch reloads the config at path whenever the file changes and passes each
// valid result to onChange. Invalid edits are logged and skipped; the
// previous config stays in effect. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config), opts ...WatchOption) error {
	o := watchOptions{logger: zap.NewNop(), debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(&o)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files on save, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	base := filepath.Base(path)

	timer := time.NewTimer(o.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(o.debounce)

		case <-timer.C:
			cfg, err := Load(path)
			if err != nil {
				o.logger.Warn("config reload failed, keeping previous config",
					zap.String("path", path), zap.Error(err))
				continue
			}
			o.logger.Info("config reloaded", zap.String("path", path))
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			o.logger.Warn("config watcher error", zap.Error(err))
		}
	}
}

// BudgetUpdater returns an onChange func for Watch that applies the reloaded
// budget to ledger.
func BudgetUpdater(ledger *usage.Ledger, logger *zap.Logger) func(*Config) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(cfg *Config) {
		if err := ledger.SetBudget(cfg.Budget); err != nil {
			logger.Warn("budget not applied", zap.Error(err))
		}
	}
}
