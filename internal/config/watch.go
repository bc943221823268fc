package config

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher calls a function after changes to a set of files or directory
// trees. Files are watched through their directory, which survives editors
// that save by replacing the file.
type Watcher struct {
	// Debounce merges events arriving within the interval into one call.
	Debounce time.Duration
	Logger   *log.Logger

	files map[string]bool
	roots []string
	fsw   *fsnotify.Watcher
}

// NewWatcher watches paths. A directory is watched recursively.
func NewWatcher(paths []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		Debounce: 200 * time.Millisecond,
		Logger:   log.New(io.Discard),
		files:    make(map[string]bool),
		fsw:      fsw,
	}
	for _, p := range paths {
		if err := w.add(p); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		w.roots = append(w.roots, path)
		return w.addTree(path)
	case err == nil || os.IsNotExist(err):
		w.files[path] = true
		if err := w.fsw.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("watch directory: %w", err)
		}
		return nil
	default:
		return err
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch directory: %w", err)
		}
		return nil
	})
}

// relevant reports whether an event on name concerns a watched path.
func (w *Watcher) relevant(name string) bool {
	if w.files[name] {
		return true
	}
	for _, root := range w.roots {
		if name == root || strings.HasPrefix(name, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Run calls fn after each batch of changes until ctx is done. It closes
// the watcher on return.
func (w *Watcher) Run(ctx context.Context, fn func()) error {
	defer w.fsw.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.Logger.Warn("watch new directory", "path", event.Name, "err", err)
					}
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.Logger.Debug("file changed", "event", event.Op.String(), "file", event.Name)
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			fn()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Error("file watcher error", "err", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
