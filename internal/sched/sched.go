// Package sched defers work back onto the single goroutine that owns launcher
// state. Timers fire on their own goroutines; they never touch state
// directly, they post a closure to the owner instead.
package sched

import (
	"sync"
	"time"
)

// Executor runs fn on the state owner. Post must be safe to call from any
// goroutine except the owner itself.
type Executor interface {
	Post(fn func())
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(fn func())

func (f ExecutorFunc) Post(fn func()) { f(fn) }

// Timer is a pending delayed task.
type Timer interface {
	Stop() bool
}

// Scheduler arms delayed tasks and background work that report back to the
// owner.
type Scheduler interface {
	// After runs fn on the owner once d has elapsed.
	After(d time.Duration, fn func()) Timer
	// Go runs work off the owner and posts done (if non-nil) back with its
	// result.
	Go(work func() error, done func(error))
}

// New returns a Scheduler backed by the runtime timer heap.
func New(exec Executor) Scheduler {
	return &scheduler{exec: exec}
}

type scheduler struct {
	exec Executor
}

func (s *scheduler) After(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, func() { s.exec.Post(fn) })
}

func (s *scheduler) Go(work func() error, done func(error)) {
	go func() {
		err := work()
		if done != nil {
			s.exec.Post(func() { done(err) })
		}
	}()
}

// Manual is a Scheduler driven by explicit Advance calls. Tasks run inline
// on the caller, which is expected to be the owner.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	pending []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (m *Manual) After(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{at: m.now + d, fn: fn}
	m.pending = append(m.pending, t)
	return t
}

func (m *Manual) Go(work func() error, done func(error)) {
	err := work()
	if done != nil {
		done(err)
	}
}

// Advance moves the clock forward and runs every task that came due, in
// deadline order.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	now := m.now
	m.mu.Unlock()
	for {
		t := m.nextDue(now)
		if t == nil {
			return
		}
		t.fn()
	}
}

// Pending counts armed tasks that have neither fired nor been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (m *Manual) nextDue(now time.Duration) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *manualTimer
	for _, t := range m.pending {
		if t.stopped || t.fired || t.at > now {
			continue
		}
		if best == nil || t.at < best.at {
			best = t
		}
	}
	if best != nil {
		best.fired = true
	}
	return best
}
