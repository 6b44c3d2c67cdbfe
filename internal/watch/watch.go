// Package watch reruns a callback when input files change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the bursts of events editors produce on save.
const DefaultDebounce = 100 * time.Millisecond

// Watcher observes directories and reports batches of changed files that
// pass Match.
type Watcher struct {
	fs       *fsnotify.Watcher
	match    func(path string) bool
	debounce time.Duration
}

// New watches every directory in dirs. A nil match accepts all files.
func New(dirs []string, match func(path string) bool, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %q: %w", dir, err)
		}
	}
	if match == nil {
		match = func(string) bool { return true }
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{fs: fw, match: match, debounce: debounce}, nil
}

// Run blocks until ctx is done, calling onChange with the sorted set of
// files changed since the previous call. onChange runs on the Run goroutine,
// so changes arriving meanwhile are batched into the next call.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, changed []string)) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			path := filepath.Clean(ev.Name)
			if !w.match(path) {
				continue
			}
			pending[path] = struct{}{}
			timer.Reset(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			slices.Sort(changed)
			clear(pending)
			onChange(ctx, changed)
		}
	}
}

func (w *Watcher) Close() error { return w.fs.Close() }

// MatchExt accepts files whose extension is one of exts (with the dot).
func MatchExt(exts ...string) func(string) bool {
	return func(path string) bool {
		return slices.Contains(exts, filepath.Ext(path))
	}
}
