// Package watch reports changes below local source roots.
package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/manifest"
)

const DefaultDebounce = 250 * time.Millisecond

// Watch calls onChange with the sorted, cleaned absolute paths that changed
// since the previous call. Events are batched until debounce passes without
// a new one. Directories created under a root are watched as well. Watch
// returns nil when ctx is done.
func Watch(ctx context.Context, roots []string, debounce time.Duration, onChange func(changed []string)) error {
	if len(roots) == 0 {
		return errors.New("nothing to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			abs = filepath.Dir(abs)
		}
		if err := addRecursive(watcher, filepath.Clean(abs)); err != nil {
			return err
		}
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	timer := time.NewTimer(time.Hour)
	stopTimer(timer)
	pending := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(event.Name)
			if ignored(name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(name); err == nil && info.IsDir() {
					if err := addRecursive(watcher, name); err != nil {
						log.Debug().Err(err).Str("dir", name).Msg("cannot watch new directory")
					}
				}
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			pending[name] = true
			stopTimer(timer)
			timer.Reset(debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			pending = map[string]bool{}
			onChange(changed)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(entry.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}

// ignored filters editor droppings.
func ignored(p string) bool {
	base := filepath.Base(p)
	return base == ".DS_Store" ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, "~") ||
		strings.HasPrefix(base, ".#")
}

// Entries returns the manifest entries whose source is among changed. The
// manifest must have a local root.
func Entries(m *manifest.Manifest, changed []string) []manifest.Entry {
	set := make(map[string]bool, len(changed))
	for _, c := range changed {
		set[filepath.Clean(c)] = true
	}

	var entries []manifest.Entry
	for _, e := range m.Entries {
		src, err := filepath.Abs(filepath.FromSlash(m.SourcePath(e).String()))
		if err != nil {
			continue
		}
		if set[src] {
			entries = append(entries, e)
		}
	}
	return entries
}
