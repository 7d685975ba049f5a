package batch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"scanrag/internal/contextutil"
	"scanrag/internal/pdfdoc"
)

// DefaultDebounce is how long a file must stay quiet before it is ingested.
const DefaultDebounce = 2 * time.Second

// Watcher reports PDFs created or rewritten under a directory tree, once each
// file has stopped changing.
type Watcher struct {
	root     string
	debounce time.Duration
	handle   func(ctx context.Context, f ScannedFile)

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending sync.WaitGroup
}

// NewWatcher creates a Watcher. handle runs on its own goroutine per settled file;
// calls for different files may overlap.
func NewWatcher(root string, debounce time.Duration, handle func(ctx context.Context, f ScannedFile)) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		root:     root,
		debounce: debounce,
		handle:   handle,
		timers:   make(map[string]*time.Timer),
	}
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		_ = fw.Close()
	}()

	if err := w.addTree(fw, w.root); err != nil {
		return err
	}
	logger.InfoContext(ctx, "watching for new PDFs", "root", w.root, "debounce", w.debounce)

	defer func() {
		w.stopTimers()
		w.pending.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.WarnContext(ctx, "file watcher error", "error", err)
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}

			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
				if !strings.HasPrefix(filepath.Base(ev.Name), ".") {
					if err := w.addTree(fw, ev.Name); err != nil {
						logger.WarnContext(ctx, "failed to watch new directory", "dir", ev.Name, "error", err)
					}
				}
				continue
			}
			if !pdfdoc.HasPDFExtension(ev.Name) {
				continue
			}
			w.schedule(ctx, ev.Name)
		}
	}
}

// schedule (re)starts the quiet-period timer for path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok && t.Stop() {
		t.Reset(w.debounce)
		return
	}

	w.pending.Add(1)
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() {
		defer w.pending.Done()

		w.mu.Lock()
		if w.timers[path] == t {
			delete(w.timers, path)
		}
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		w.handle(ctx, ScannedFile{
			RelPath: filepath.ToSlash(rel),
			AbsPath: path,
			Name:    filepath.Base(path),
		})
	})
	w.timers[path] = t
}

// stopTimers cancels pending timers. A stopped timer's callback never runs,
// so its pending slot is released here.
func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		if t.Stop() {
			w.pending.Done()
		}
		delete(w.timers, path)
	}
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
