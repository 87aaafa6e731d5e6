// Package watch recompiles a site whenever its sources change.
package watch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// RunFunc is called for the initial build and after every batch of changes
type RunFunc func(ctx context.Context) error

// Options configures the watcher
type Options struct {
	// Dirs are watched recursively
	Dirs []string

	// Files are watched individually, e.g. the config file
	Files []string

	// Debounce is the quiet period before a rebuild
	Debounce time.Duration

	Logger *zap.Logger

	// Out receives user-facing status lines
	Out io.Writer
}

// DefaultDebounce is used when Options.Debounce is zero
const DefaultDebounce = 300 * time.Millisecond

// Run builds once, then rebuilds after changes until ctx is cancelled or the
// process receives SIGINT/SIGTERM.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range opts.Dirs {
		if err := addRecursive(watcher, dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	for _, f := range opts.Files {
		if err := watcher.Add(f); err != nil {
			return fmt.Errorf("watching %s: %w", f, err)
		}
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(opts.Out, "watching %s (debounce=%s)\n", strings.Join(append(opts.Dirs, opts.Files...), ", "), opts.Debounce)

	var runMu sync.Mutex
	rebuild := func(trigger string, changed Batch) {
		runMu.Lock()
		defer runMu.Unlock()

		start := time.Now()
		if err := runFn(sigCtx); err != nil {
			opts.Logger.Error("rebuild failed",
				zap.String("trigger", trigger),
				zap.Strings("changed", changed),
				zap.Error(err))
			fmt.Fprintf(opts.Out, "rebuild failed: %v\n", err)
			return
		}
		opts.Logger.Info("rebuilt site",
			zap.String("trigger", trigger),
			zap.Strings("changed", changed),
			zap.Duration("took", time.Since(start)))
		fmt.Fprintf(opts.Out, "rebuilt in %s (%s)\n", time.Since(start).Round(time.Millisecond), trigger)
	}

	rebuild("initial", nil)

	debouncer := NewDebouncer(opts.Debounce, func(changed Batch) {
		rebuild(describe(changed), changed)
	}, opts.Logger)
	defer debouncer.Stop()

	for {
		select {
		case <-sigCtx.Done():
			debouncer.Stop()
			fmt.Fprintln(opts.Out, "stopped watching")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRelevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = addRecursive(watcher, event.Name)
				}
			}
			opts.Logger.Debug("source changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			debouncer.Trigger(event.Name)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			opts.Logger.Warn("watcher error", zap.Error(watchErr))
		}
	}
}

// describe summarizes a batch for the status line, e.g. "a.md" or
// "a.md and 2 more".
func describe(changed Batch) string {
	switch len(changed) {
	case 0:
		return "no changes"
	case 1:
		return changed[0]
	default:
		return fmt.Sprintf("%s and %d more", changed[0], len(changed)-1)
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// isRelevant drops chmod-only events and editor swap files.
func isRelevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	switch {
	case strings.HasPrefix(base, "."),
		strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".tmp"):
		return false
	}
	return true
}
