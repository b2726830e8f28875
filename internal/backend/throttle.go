package backend

import "time"

// throttle spaces reloads at least interval apart. It is owned by the
// watcher goroutine.
type throttle struct {
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

func newThrottle(interval time.Duration) *throttle {
	return &throttle{interval: interval, now: time.Now}
}

// delay reports how long to hold off before the next reload may run.
func (t *throttle) delay() time.Duration {
	if t.interval <= 0 || t.last.IsZero() {
		return 0
	}
	if wait := t.last.Add(t.interval).Sub(t.now()); wait > 0 {
		return wait
	}
	return 0
}

func (t *throttle) mark() {
	t.last = t.now()
}
