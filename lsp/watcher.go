package lsp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change is one debounced file event. Removed is set when the file no
// longer exists.
type Change struct {
	Path    string
	Removed bool
}

// Watcher watches a workspace root for changes to .logic files and
// rescans them. Rapid events are coalesced by a Debouncer.
type Watcher struct {
	workspace *Workspace
	watcher   *fsnotify.Watcher
	debounce  *Debouncer

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewWatcher(ws *Workspace, interval time.Duration) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		workspace: ws,
		watcher:   watcher,
		debounce:  NewDebouncer(interval),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}, nil
}

// Watch blocks until ctx is cancelled or Stop is called. After every quiet
// period the changed files are rescanned or removed from the workspace and
// onChange receives them in path order.
func (w *Watcher) Watch(ctx context.Context, onChange func([]Change)) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	if err := w.addDirectory(w.workspace.RootDir()); err != nil {
		return fmt.Errorf("watch %s: %w", w.workspace.RootDir(), err)
	}
	log.Infof("watching %s", w.workspace.RootDir())

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-w.stopCh:
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.handleEvent(event, onChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Errorf("file watcher: %s", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event, onChange func([]Change)) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDirectory(event.Name); err != nil {
				log.Warningf("watch new directory %s: %s", event.Name, err)
			}
			return
		}
	}

	if !shouldProcess(event) {
		return
	}
	log.Debugf("file event %s %s", event.Op, event.Name)

	w.debounce.Trigger(event.Name, func(paths []string) {
		changes := w.apply(paths)
		if onChange != nil && len(changes) > 0 {
			onChange(changes)
		}
	})
}

// apply brings the workspace in line with the files on disk.
func (w *Watcher) apply(paths []string) []Change {
	changes := make([]Change, 0, len(paths))
	for _, path := range paths {
		if _, err := w.workspace.ScanFile(path); err != nil {
			w.workspace.RemoveFile(path)
			changes = append(changes, Change{Path: path, Removed: true})
			continue
		}
		changes = append(changes, Change{Path: path})
	}
	return changes
}

func (w *Watcher) Stop() error {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}

	w.debounce.Stop()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}
	return nil
}

func (w *Watcher) addDirectory(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch directory %q: %w", path, err)
		}
		return nil
	})
}

func shouldProcess(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if filepath.Ext(event.Name) != Extension {
		return false
	}
	return !strings.HasPrefix(filepath.Base(event.Name), ".")
}

// Debouncer collects paths and hands them to the latest callback once no
// new path has arrived for the interval.
type Debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	pending  map[string]bool
	callback func([]string)
	stopped  bool
}

func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		pending:  make(map[string]bool),
	}
}

func (d *Debouncer) Trigger(path string, callback func([]string)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending[path] = true
	d.callback = callback

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(d.pending))
	for path := range d.pending {
		paths = append(paths, path)
	}
	d.pending = make(map[string]bool)
	cb := d.callback
	d.mu.Unlock()

	sort.Strings(paths)
	if cb != nil {
		cb(paths)
	}
}

// Stop cancels any pending callback. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = make(map[string]bool)
	d.callback = nil
}
