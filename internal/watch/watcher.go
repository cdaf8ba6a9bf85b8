// Package watch re-runs the export whenever the input tree changes.
package watch

import (
	"context"
	"fmt"
	"github.com/fsnotify/fsnotify"
	"gmi/internal/build"
	"gmi/internal/domain/config"
	"gmi/internal/logger"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Exporter interface {
	Fingerprint() (build.Fingerprint, error)
	Run(ctx context.Context) (*build.Result, error)
}

type Watcher struct {
	dir       string
	recursive bool
	debounce  time.Duration
	exp       Exporter

	// OnResult is called after every export that actually ran.
	OnResult func(*build.Result)

	watcher   *fsnotify.Watcher
	mu        sync.Mutex
	last      string
	closeOnce sync.Once
}

func New(cfg config.Config, exp Exporter) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	wt := &Watcher{
		dir:       cfg.Input.Dir,
		recursive: cfg.Input.Recursive,
		debounce:  cfg.Watch.Debounce,
		exp:       exp,
		watcher:   w,
	}
	if wt.debounce <= 0 {
		wt.debounce = 300 * time.Millisecond
	}
	if err := wt.addTree(wt.dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", wt.dir, err)
	}
	return wt, nil
}

// Seed records the fingerprint of an export that already ran, so an
// unchanged tree does not trigger a second one.
func (w *Watcher) Seed(fp build.Fingerprint) {
	w.mu.Lock()
	w.last = fp.RunHash
	w.mu.Unlock()
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) addTree(root string) error {
	if !w.recursive {
		return w.watcher.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

// Run blocks until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	logger.Info("Watching for changes", map[string]interface{}{
		"dir":       w.dir,
		"recursive": w.recursive,
		"debounce":  w.debounce.String(),
	})

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	trigger := func() {
		if !debounce.Stop() {
			select {
			case <-debounce.C:
			default:
			}
		}
		debounce.Reset(w.debounce)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// 新建的子目录也要监听
			if w.recursive && ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						logger.Warn("Cannot watch new directory", map[string]interface{}{"path": ev.Name, "error": err.Error()})
					}
				}
			}
			trigger()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", map[string]interface{}{"error": err.Error()})
		case <-debounce.C:
			if _, err := w.rebuild(ctx); err != nil {
				logger.Error("Export failed", err)
			}
		}
	}
}

// rebuild runs the export unless the inputs are unchanged since the last
// successful run. It reports whether an export ran.
func (w *Watcher) rebuild(ctx context.Context) (bool, error) {
	fp, err := w.exp.Fingerprint()
	if err != nil {
		return false, err
	}

	w.mu.Lock()
	same := fp.RunHash == w.last
	w.mu.Unlock()
	if same {
		logger.Debug("Sources unchanged, skipping export", map[string]interface{}{"fingerprint": fp.RunHash})
		return false, nil
	}

	res, err := w.exp.Run(ctx)
	if err != nil {
		return true, err
	}

	w.mu.Lock()
	w.last = res.Fingerprint.RunHash
	w.mu.Unlock()
	if w.OnResult != nil {
		w.OnResult(res)
	}
	return true, nil
}
