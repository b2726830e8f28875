package backend

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindSettings Kind = iota
)

// Event conveys a freshly loaded value or the error loading it.
type Event struct {
	Kind Kind
	Path string
	Data interface{}
	Err  error
}

// Loader reads the watched file.
type Loader func(path string) (interface{}, error)

// Watcher reloads a file whenever it changes on disk and publishes the
// result. The parent directory is watched so that editors which replace the
// file instead of writing it in place are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	load     Loader
	fs       *fsnotify.Watcher
	throttle *throttle

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher starts watching path. Bursts of filesystem events are collapsed
// into one reload once debounce has passed without further changes.
func NewWatcher(path string, debounce time.Duration, load Loader) (*Watcher, error) {
	if load == nil {
		return nil, errors.New("backend: nil loader")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     abs,
		debounce: debounce,
		load:     load,
		fs:       fsw,
		throttle: newThrottle(debounce),
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 4),
	}
	w.wg.Add(1)
	go w.run()
	go func() {
		w.wg.Wait()
		close(w.events)
	}()
	return w, nil
}

// Events returns a channel of reload events. It is closed after Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the watcher goroutine has exited and the events channel
// is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) run() {
	defer w.wg.Done()
	defer w.fs.Close()

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if !w.emit(Event{Kind: KindSettings, Path: w.path, Err: err}) {
				return
			}
		case <-pending:
			pending = nil
			if d := w.throttle.delay(); d > 0 {
				timer.Reset(d)
				pending = timer.C
				continue
			}
			w.throttle.mark()
			data, err := w.load(w.path)
			if !w.emit(Event{Kind: KindSettings, Path: w.path, Data: data, Err: err}) {
				return
			}
		}
	}
}

func (w *Watcher) emit(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}
