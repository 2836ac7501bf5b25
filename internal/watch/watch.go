// Package watch re-runs a callback when scene files under a path change.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"scenec/internal/driver"
)

// DefaultDebounce is the quiet period before a batch of changes is reported.
const DefaultDebounce = 100 * time.Millisecond

// Options configures a Watch call.
type Options struct {
	Debounce time.Duration
	// Errors receives watcher errors; nil drops them.
	Errors func(error)
}

// Watch blocks until ctx is done, calling onChange with the sorted, unique
// scene paths touched during each debounce window. Directories created
// while watching are added on the fly.
func Watch(ctx context.Context, path string, opts Options, onChange func(changed []string)) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer w.Close()

	if err := addTree(w, path); err != nil {
		return fmt.Errorf("failed to watch %q: %w", path, err)
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !hidden(ev.Name) {
					_ = addTree(w, ev.Name)
				}
			}
			if !relevant(ev) {
				continue
			}
			pending[filepath.Clean(ev.Name)] = struct{}{}
			// каждое событие откладывает срабатывание
			timer.Reset(opts.Debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			slices.Sort(changed)
			onChange(changed)

		case err, ok := <-w.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			if opts.Errors != nil {
				opts.Errors(err)
			}
		}
	}
}

// addTree watches path itself, or every non-hidden directory below it.
func addTree(w *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		// файл: следим за каталогом, чтобы пережить атомарную замену редактором
		return w.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && hidden(p) {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}

func relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod || hidden(ev.Name) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(ev.Name))
	return slices.Contains(driver.SceneExtensions, ext)
}

func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
