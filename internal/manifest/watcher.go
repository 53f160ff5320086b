package manifest

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher signals when a manifest appears in the test-output directory or
// its step structure changes. Used by watch mode to trigger brief
// re-authoring between verification sessions.
type Watcher struct {
	manifestPath string

	mu   sync.Mutex
	last *Manifest

	watcher *fsnotify.Watcher
	changes chan *Manifest
	done    chan struct{}
}

// NewWatcher creates a watcher for the manifest at the given path.
// The parent directory must exist; the manifest itself may not yet.
func NewWatcher(manifestPath string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(manifestPath)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		manifestPath: manifestPath,
		watcher:      fw,
		changes:      make(chan *Manifest, 1),
		done:         make(chan struct{}),
	}

	// Seed from whatever is on disk so only structural changes fire.
	if m, err := Load(manifestPath); err == nil {
		w.last = m
	}

	go w.loop()
	return w, nil
}

// Changes delivers the new manifest each time the step structure changes.
func (w *Watcher) Changes() <-chan *Manifest {
	return w.changes
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	// Debounce: producers write the manifest in several syscalls.
	var pending *time.Timer
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.manifestPath) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(200*time.Millisecond, w.reload)
		case <-w.watcher.Errors:
			// Keep watching; the caller can always re-run by hand.
		}
	}
}

func (w *Watcher) reload() {
	m, err := Load(w.manifestPath)
	if err != nil {
		return
	}

	w.mu.Lock()
	changed := StructureChanged(w.last, m)
	if changed {
		w.last = m
	}
	w.mu.Unlock()

	if !changed {
		return
	}

	select {
	case w.changes <- m:
	case <-w.done:
	}
}
