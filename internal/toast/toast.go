// Package toast tracks the single transient notification a view shows.
package toast

import (
	"time"

	"github.com/atomicstack/popup-launcher/internal/logging/events"
	"github.com/atomicstack/popup-launcher/internal/sched"
)

// Kind enumerates notification states.
type Kind int

const (
	Idle Kind = iota
	Loading
	Success
	Error
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return "idle"
}

const (
	DefaultSuccess = 3 * time.Second
	DefaultError   = 4 * time.Second
)

// State is a snapshot of the current notification. Expires is zero for
// Idle and Loading.
type State struct {
	Kind    Kind
	Message string
	Started time.Time
	Expires time.Time
}

// Durations configures how long terminal notifications stay visible.
type Durations struct {
	Success time.Duration
	Error   time.Duration
}

// Toast holds one notification. A newer notification replaces the current
// one outright; there is no queue. All methods must be called on the owner.
type Toast struct {
	sched     sched.Scheduler
	durations func() Durations
	now       func() time.Time
	state     State
	gen       uint64
	onChange  func(State)
}

// Option customises a Toast.
type Option func(*Toast)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Toast) { t.now = now }
}

// WithDurations supplies expiry durations, read at the time each
// notification is set so live config changes apply to the next one.
func WithDurations(fn func() Durations) Option {
	return func(t *Toast) { t.durations = fn }
}

// OnChange registers a callback fired after every transition.
func OnChange(fn func(State)) Option {
	return func(t *Toast) { t.onChange = fn }
}

// New returns an idle Toast.
func New(s sched.Scheduler, opts ...Option) *Toast {
	t := &Toast{
		sched:     s,
		now:       time.Now,
		durations: func() Durations { return Durations{Success: DefaultSuccess, Error: DefaultError} },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// State returns the current notification.
func (t *Toast) State() State { return t.state }

// Loading shows msg until something replaces it.
func (t *Toast) Loading(msg string) {
	t.set(Loading, msg, 0)
}

// Success shows msg for the configured success duration.
func (t *Toast) Success(msg string) {
	t.set(Success, msg, t.durationFor(Success))
}

// Error shows msg for the configured error duration.
func (t *Toast) Error(msg string) {
	t.set(Error, msg, t.durationFor(Error))
}

// Clear returns to Idle immediately.
func (t *Toast) Clear() {
	t.gen++
	t.state = State{}
	t.notify()
}

func (t *Toast) durationFor(k Kind) time.Duration {
	d := t.durations()
	switch k {
	case Success:
		if d.Success > 0 {
			return d.Success
		}
		return DefaultSuccess
	case Error:
		if d.Error > 0 {
			return d.Error
		}
		return DefaultError
	}
	return 0
}

func (t *Toast) set(kind Kind, msg string, ttl time.Duration) {
	t.gen++
	gen := t.gen
	now := t.now()
	t.state = State{Kind: kind, Message: msg, Started: now}
	if ttl > 0 {
		t.state.Expires = now.Add(ttl)
		t.sched.After(ttl, func() { t.expire(gen) })
	}
	events.Toast.Set(kind.String(), msg)
	t.notify()
}

// expire runs on the owner once a timer fires. A newer notification bumps
// the generation, so a stale timer is ignored.
func (t *Toast) expire(gen uint64) {
	if gen != t.gen {
		return
	}
	events.Toast.Expired(t.state.Kind.String())
	t.state = State{}
	t.notify()
}

func (t *Toast) notify() {
	if t.onChange != nil {
		t.onChange(t.state)
	}
}
