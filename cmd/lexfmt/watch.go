package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the multiple write events an editor typically
// fires for a single save.
const watchDebounce = 150 * time.Millisecond

// WatchCmd re-parses Path and re-prints its diagnostics every time the
// file changes on disk, debouncing rapid-fire editor writes the way the
// teacher's internal/track.Watcher does.
type WatchCmd struct {
	Path string `arg:"" help:"Path to the source document" type:"path"`
}

func (c *WatchCmd) Run(env *Env) error {
	absPath, err := filepath.Abs(c.Path)
	if err != nil {
		return fmt.Errorf("resolve absolute path for %q: %w", c.Path, err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("stat %s: %w", absPath, err)
	}

	w := &fileWatcher{filePath: absPath, debounce: watchDebounce}
	if err := w.start(); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintf(env.Stderr, "watching %s (ctrl-c to stop)\n", absPath)

	diag := &DiagnoseCmd{Path: c.Path}
	if err := diag.Run(env); err != nil {
		fmt.Fprintf(env.Stderr, "%v\n", err)
	}

	for {
		select {
		case <-w.Events():
			fmt.Fprintf(env.Stdout, "\n--- re-parsed %s ---\n", absPath)
			if err := diag.Run(env); err != nil {
				fmt.Fprintf(env.Stderr, "%v\n", err)
			}
		case err := <-w.Errors():
			fmt.Fprintf(env.Stderr, "watch error: %v\n", err)
		}
	}
}

// fileWatcher is a single-file debounced fsnotify wrapper, adapted from
// the teacher's internal/track.Watcher for use under cmd/lexfmt's CLI
// loop instead of a commit-tracking daemon.
type fileWatcher struct {
	watcher  *fsnotify.Watcher
	filePath string
	events   chan struct{}
	errors   chan error
	done     chan struct{}
	debounce time.Duration
	mu       sync.Mutex
	closed   bool
}

func (w *fileWatcher) start() error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(w.filePath)
	if err := fsWatcher.Add(dir); err != nil {
		_ = fsWatcher.Close()

		return err
	}

	w.watcher = fsWatcher
	w.events = make(chan struct{}, 1)
	w.errors = make(chan error, 1)
	w.done = make(chan struct{})

	go w.loop()

	return nil
}

func (w *fileWatcher) Events() <-chan struct{} { return w.events }
func (w *fileWatcher) Errors() <-chan error    { return w.errors }

func (w *fileWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()

		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)

	return w.watcher.Close()
}

func (w *fileWatcher) loop() {
	var (
		timer     *time.Timer
		timerChan <-chan time.Time
	)

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}

			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			timer, timerChan = w.handleEvent(event, timer, timerChan)

		case <-timerChan:
			w.sendEvent()
			timer = nil
			timerChan = nil

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

func (w *fileWatcher) handleEvent(
	event fsnotify.Event,
	timer *time.Timer,
	timerChan <-chan time.Time,
) (*time.Timer, <-chan time.Time) {
	if !w.isWatchedFile(event.Name) {
		return timer, timerChan
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return timer, timerChan
	}

	if timer == nil {
		timer = time.NewTimer(w.debounce)

		return timer, timer.C
	}
	w.resetTimer(timer)

	return timer, timerChan
}

func (w *fileWatcher) resetTimer(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(w.debounce)
}

func (w *fileWatcher) isWatchedFile(eventPath string) bool {
	absEventPath, err := filepath.Abs(eventPath)
	if err != nil {
		return false
	}

	return absEventPath == w.filePath
}

func (w *fileWatcher) sendEvent() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}

func (w *fileWatcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}
