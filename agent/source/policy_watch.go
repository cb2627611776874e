package source

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// WatchedPolicy caches a PolicyFile and drops the cache whenever the file
// is written, created, renamed or removed. The directory is watched rather
// than the file so editors that replace the file are still seen.
type WatchedPolicy struct {
	file    *PolicyFile
	watcher *fsnotify.Watcher
	target  string

	mu     sync.Mutex
	cached string
	valid  bool

	done chan struct{}
}

var _ PolicySource = (*WatchedPolicy)(nil)

func NewWatchedPolicy(file *PolicyFile) (*WatchedPolicy, error) {
	target, err := filepath.Abs(file.Path())
	if err != nil {
		return nil, fmt.Errorf("resolve policy path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create policy watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch policy dir: %w", err)
	}

	wp := &WatchedPolicy{
		file:    file,
		watcher: w,
		target:  target,
		done:    make(chan struct{}),
	}
	go wp.loop()
	return wp, nil
}

func (w *WatchedPolicy) LoadPolicy(ctx context.Context) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.valid {
		return w.cached, nil
	}
	text, err := w.file.LoadPolicy(ctx)
	if err != nil {
		return "", err
	}
	w.cached = text
	w.valid = true
	return text, nil
}

func (w *WatchedPolicy) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *WatchedPolicy) loop() {
	defer close(w.done)
	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&relevant == 0 {
				continue
			}
			if abs, err := filepath.Abs(event.Name); err != nil || abs != w.target {
				continue
			}
			w.invalidate()
			log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("policy changed, cache dropped")
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("policy watcher error")
		}
	}
}

func (w *WatchedPolicy) invalidate() {
	w.mu.Lock()
	w.valid = false
	w.cached = ""
	w.mu.Unlock()
}
