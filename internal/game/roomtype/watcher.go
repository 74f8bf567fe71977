package roomtype

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher holds the current catalog loaded from a file and reloads it when
// the file changes. Graphs built from an earlier catalog keep their type
// references; only newly created nodes see the reloaded types.
type Watcher struct {
	path   string
	logger *zap.Logger

	mu       sync.RWMutex
	current  *Catalog
	onChange []func(*Catalog)
}

// NewWatcher loads path and returns a Watcher holding the result.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a Watcher with a valid current catalog, or a non-nil error.
func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	c, err := LoadCatalogFromFile(path)
	if err != nil {
		return nil, err
	}
	return &Watcher{path: path, logger: logger, current: c}, nil
}

// Catalog returns the most recently loaded valid catalog.
func (w *Watcher) Catalog() *Catalog {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers fn to be called with each successfully reloaded catalog.
func (w *Watcher) OnChange(fn func(*Catalog)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Reload re-reads the catalog file. An invalid file leaves the current
// catalog in place and returns the error.
//
// Postcondition: On success the new catalog is current and callbacks have run.
func (w *Watcher) Reload() (*Catalog, error) {
	c, err := LoadCatalogFromFile(w.path)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	w.current = c
	callbacks := make([]func(*Catalog), len(w.onChange))
	copy(callbacks, w.onChange)
	w.mu.Unlock()

	for _, fn := range callbacks {
		fn(c)
	}
	return c, nil
}

// Watch starts a goroutine that reloads the catalog when the file is written
// or replaced. The parent directory is watched so saves that rename a
// temporary file over the catalog are seen.
// Call the returned stop function to release the underlying watcher.
func (w *Watcher) Watch() (stop func(), err error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("catalog watcher: %w", err)
	}
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("catalog watcher add %s: %w", dir, err)
	}
	target := filepath.Clean(w.path)

	done := make(chan struct{})
	go func() {
		defer fw.Close()
		for {
			select {
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				c, err := w.Reload()
				if err != nil {
					w.logger.Warn("room type catalog reload rejected",
						zap.String("path", w.path),
						zap.Error(err),
					)
					continue
				}
				w.logger.Info("room type catalog reloaded",
					zap.String("path", w.path),
					zap.Int("types", c.Len()),
				)
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				w.logger.Warn("room type catalog watcher error", zap.Error(err))
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }, nil
}
