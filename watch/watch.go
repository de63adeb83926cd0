// Package watch reports debounced file changes for `schemagen watch`.
//
// Directories are watched non-recursively, matching the schema loader. Events
// are collected until the debounce period passes without a new one, then the
// callback receives every changed path of the burst. The callback runs on the
// watch goroutine, so two runs never overlap; events arriving meanwhile start
// the next burst.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
)

// DefaultDebounce is used when New is given a zero period
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches directories and single files
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      *zap.SugaredLogger

	mu       sync.Mutex
	suffixes map[string][]string       // dir -> extensions
	files    map[string]map[string]bool // dir -> exact paths
}

// New creates a watcher. Call AddDir/AddFile, then Run.
func New(debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		watcher:  fw,
		debounce: debounce,
		log:      logger.ComponentLogger("watch"),
		suffixes: make(map[string][]string),
		files:    make(map[string]map[string]bool),
	}, nil
}

// AddDir reports changes to files in dir ending in ext
func (w *Watcher) AddDir(dir, ext string) error {
	dir = filepath.Clean(dir)
	if err := w.add(dir); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.suffixes[dir] = append(w.suffixes[dir], ext)
	return nil
}

// AddFile reports changes to a single file. Its directory is watched so that
// editors replacing the file by rename are noticed.
func (w *Watcher) AddFile(path string) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)
	if err := w.add(dir); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.files[dir] == nil {
		w.files[dir] = make(map[string]bool)
	}
	w.files[dir][path] = true
	return nil
}

func (w *Watcher) add(dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "failed to watch %s", dir)
	}
	w.log.Debugw("watching", logger.FieldDir, dir)
	return nil
}

// relevant reports whether an event on path should trigger a run
func (w *Watcher) relevant(path string) bool {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.files[dir][path] {
		return true
	}
	for _, ext := range w.suffixes[dir] {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Run blocks until ctx is done or the watcher is closed, calling fn once per
// debounced burst with the sorted changed paths.
func (w *Watcher) Run(ctx context.Context, fn func(changed []string)) error {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending = make(map[string]bool)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod || !w.relevant(event.Name) {
				continue
			}
			w.log.Debugw("change detected", logger.FieldFile, event.Name, "op", event.Op.String())

			pending[filepath.Clean(event.Name)] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("watcher error", logger.FieldError, err)

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			pending = make(map[string]bool)

			fn(changed)
		}
	}
}

// Close stops watching. A running Run returns.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
