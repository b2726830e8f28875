package toast

import (
	"testing"
	"time"

	"github.com/atomicstack/popup-launcher/internal/sched"
)

func newToast(m *sched.Manual) *Toast {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return New(m, WithClock(func() time.Time { return base }))
}

func TestSuccessExpiresAfterThreeSeconds(t *testing.T) {
	var m sched.Manual
	ts := newToast(&m)
	ts.Success("Saved")
	st := ts.State()
	if st.Kind != Success || st.Message != "Saved" {
		t.Fatalf("state = %+v", st)
	}
	if got := st.Expires.Sub(st.Started); got != 3*time.Second {
		t.Fatalf("expiry window = %v", got)
	}
	m.Advance(2999 * time.Millisecond)
	if ts.State().Kind != Success {
		t.Fatal("expired early")
	}
	m.Advance(time.Millisecond)
	if ts.State().Kind != Idle {
		t.Fatalf("expected idle, got %v", ts.State().Kind)
	}
}

func TestErrorPreemptsAndStaleTimerIsIgnored(t *testing.T) {
	var m sched.Manual
	ts := newToast(&m)
	ts.Success("a")
	m.Advance(2 * time.Second)
	ts.Error("b")

	// The success timer fires at 3s and must leave the error alone.
	m.Advance(time.Second)
	if st := ts.State(); st.Kind != Error || st.Message != "b" {
		t.Fatalf("stale expiry clobbered state: %+v", st)
	}
	m.Advance(3 * time.Second)
	if ts.State().Kind != Idle {
		t.Fatalf("error should expire 4s after it was set, got %v", ts.State().Kind)
	}
}

func TestLoadingNeverExpires(t *testing.T) {
	var m sched.Manual
	ts := newToast(&m)
	ts.Loading("Working")
	if m.Pending() != 0 {
		t.Fatalf("loading armed %d timers", m.Pending())
	}
	m.Advance(time.Hour)
	if ts.State().Kind != Loading {
		t.Fatalf("loading expired: %+v", ts.State())
	}
	if !ts.State().Expires.IsZero() {
		t.Fatal("loading must not carry an expiry")
	}
}

func TestDurationsAreReadPerNotification(t *testing.T) {
	var m sched.Manual
	d := Durations{Success: time.Second}
	ts := New(&m, WithDurations(func() Durations { return d }))
	ts.Success("x")
	d.Success = 10 * time.Second
	m.Advance(time.Second)
	if ts.State().Kind != Idle {
		t.Fatal("first notification should use the duration in force when set")
	}
	ts.Success("y")
	m.Advance(9 * time.Second)
	if ts.State().Kind != Success {
		t.Fatal("second notification should use the updated duration")
	}
}

func TestOnChangeFires(t *testing.T) {
	var m sched.Manual
	var kinds []Kind
	ts := New(&m, OnChange(func(s State) { kinds = append(kinds, s.Kind) }))
	ts.Loading("l")
	ts.Success("s")
	m.Advance(DefaultSuccess)
	ts.Error("e")
	ts.Clear()
	want := []Kind{Loading, Success, Idle, Error, Idle}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}
}
