package state

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long the file must stay quiet before a reload.
const DefaultSettle = 250 * time.Millisecond

// Watcher reloads the state file when it is edited by hand while the widget
// runs. Documents written by the Store itself are ignored.
type Watcher struct {
	store    *Store
	onChange func(PersistedState)
	log      *slog.Logger
	settle   time.Duration

	watcher *fsnotify.Watcher
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher creates a watcher for store. onChange runs on the watcher
// goroutine with the freshly loaded document.
func NewWatcher(store *Store, onChange func(PersistedState), logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		store:    store,
		onChange: onChange,
		log:      logger.With("component", "state-watcher"),
		settle:   DefaultSettle,
	}
}

// Start begins watching the directory holding the state file. Editors often
// replace files instead of writing them, so the directory is watched rather
// than the file.
func (w *Watcher) Start() error {
	if w.watcher != nil {
		return nil // already running
	}

	dir := filepath.Dir(w.store.Path())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	w.watcher = fw
	w.stop = make(chan struct{})
	w.wg.Add(1)
	go w.loop()
	w.log.Debug("watching state file", "path", w.store.Path())
	return nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	debounced := debounce.New(w.settle)
	target := filepath.Clean(w.store.Path())

	for {
		select {
		case <-w.stop:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			debounced(w.reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch state file", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	select {
	case <-w.stop:
		return
	default:
	}

	data, err := os.ReadFile(w.store.Path())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.log.Warn("read edited state", "error", err)
		}
		return
	}
	if w.store.wroteLast(data) {
		return
	}

	// A half-written or mistyped edit keeps the live state as it is.
	st, err := w.store.adopt(data)
	if err != nil {
		w.log.Warn("edited state is not valid, keeping current state", "path", w.store.Path(), "error", err)
		return
	}
	w.log.Info("state file changed on disk, reloaded", "path", w.store.Path())
	if w.onChange != nil {
		w.onChange(st)
	}
}

// Stop ends the watch and waits for the loop to exit.
func (w *Watcher) Stop() {
	if w.watcher == nil {
		return
	}
	close(w.stop)
	w.watcher.Close()
	w.wg.Wait()
	w.watcher = nil
}
