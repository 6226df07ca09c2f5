// Package watch re-runs a solve whenever one of its input files changes,
// for the --watch convenience flag. It is grounded on
// vanderheijden86-beadwork/pkg/watcher's functional-options construction and
// fsnotify usage, trimmed to this module's single need (re-run on change,
// no polling fallback or filesystem-type detection).
package watch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period after a change before OnChange fires,
// coalescing the burst of events a single save can produce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithOnError sets the callback invoked when the underlying fsnotify watcher
// reports an error.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// Watcher watches a fixed set of files and invokes a callback, debounced,
// whenever any of them changes.
type Watcher struct {
	paths    []string
	debounce time.Duration
	onError  func(error)

	fsw *fsnotify.Watcher
}

// New builds a Watcher over paths. Paths need not exist yet.
func New(paths []string, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		paths:    paths,
		debounce: 150 * time.Millisecond,
		onError:  func(error) {},
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.fsw = fsw

	dirs := map[string]struct{}{}
	for _, p := range paths {
		dirs[filepath.Dir(p)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Run blocks, invoking onChange (debounced) each time a watched file is
// written, created, or renamed, until stop is closed.
func (w *Watcher) Run(stop <-chan struct{}, onChange func()) {
	watched := map[string]struct{}{}
	for _, p := range w.paths {
		watched[filepath.Base(p)] = struct{}{}
	}

	var timer *time.Timer
	fire := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, onChange)
	}

	for {
		select {
		case <-stop:
			w.fsw.Close()
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if _, relevant := watched[filepath.Base(ev.Name)]; !relevant {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				fire()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}
