// Package loop provides the headless state owner: one goroutine draining a
// queue of closures. It serves the same role the terminal program's update
// loop plays when a UI is attached.
package loop

import (
	"context"
	"errors"
	"sync"

	"github.com/atomicstack/popup-launcher/internal/sched"
)

// ErrStopped is returned by Call once the loop has shut down.
var ErrStopped = errors.New("event loop stopped")

// Loop serialises closures onto the goroutine that calls Run.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

// New returns a Loop with a buffered queue.
func New() *Loop {
	return &Loop{queue: make(chan func(), 64), done: make(chan struct{})}
}

// Post enqueues fn. After Stop it is dropped.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
		return
	default:
	}
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Run drains the queue until Stop or ctx cancellation.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-l.done:
			return nil
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		}
	}
}

// Stop ends Run. Safe to call from any goroutine, including the owner.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.done) })
}

// Done is closed once the loop stops.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Stopper is implemented by owners that can report shutdown.
type Stopper interface {
	Done() <-chan struct{}
}

// Call runs fn on exec's owner and waits for its result. It must not be
// called from the owner itself.
func Call(ctx context.Context, exec sched.Executor, fn func() error) error {
	result := make(chan error, 1)
	go exec.Post(func() { result <- fn() })
	var stopped <-chan struct{}
	if s, ok := exec.(Stopper); ok {
		stopped = s.Done()
	}
	select {
	case err := <-result:
		return err
	case <-stopped:
		select {
		case err := <-result:
			return err
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}
