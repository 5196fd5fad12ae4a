package resource

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long a file must stay quiet before its change is reported. Editors
// often save in several writes; only the last one matters.
const watchDebounce = 100 * time.Millisecond

// Watcher reports changed material definitions and scripts under a resource directory.
//
// Events carries resource names such as "Materials/White.yaml". Both channels are closed
// once the watcher stops.
type Watcher struct {
	watcher *fsnotify.Watcher
	dir     string
	Events  chan string
	Errors  chan error
	settled chan string
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches dir and every directory below it at the time of the call.
//
// Parameters:
//   - dir: the resource directory
//
// Returns:
//   - *Watcher: the running watcher
//   - error: error if the directory cannot be watched
func NewWatcher(dir string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("resource: watch: %w", err)
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("resource: watch %s: %w", dir, err)
	}

	watcher := &Watcher{
		watcher: w,
		dir:     dir,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		settled: make(chan string),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Errors)
	defer close(w.Events)

	pending := make(map[string]*time.Timer)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !IsReloadable(event.Name) {
				continue
			}
			if t, ok := pending[event.Name]; ok {
				t.Reset(watchDebounce)
				continue
			}
			path := event.Name
			pending[path] = time.AfterFunc(watchDebounce, func() {
				select {
				case w.settled <- path:
				case <-w.closeCh:
				}
			})
		case path := <-w.settled:
			delete(pending, path)
			name := w.resourceName(path)
			if name == "" {
				continue
			}
			select {
			case w.Events <- name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// resourceName converts a watched path to a resource name.
func (w *Watcher) resourceName(path string) string {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		return ""
	}
	return CleanName(rel)
}

// IsReloadable reports whether a file is a material definition or a script.
//
// Parameters:
//   - path: a file path or resource name
//
// Returns:
//   - bool: true for .yaml, .yml and .tengo files
func IsReloadable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".tengo":
		return true
	}
	return false
}
