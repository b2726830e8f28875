// Package settings holds the tunable timings shared by the control plane.
// They are read from config at startup and may be swapped at runtime when
// the config file changes.
package settings

import "time"

// Timings groups every duration the resident consults.
type Timings struct {
	// HideResetAfter is the grace period after hiding before the stack resets.
	HideResetAfter time.Duration
	// ToastSuccess and ToastError are the notification lifetimes.
	ToastSuccess time.Duration
	ToastError   time.Duration
	// ReadTimeout bounds a single dispatch connection.
	ReadTimeout time.Duration
}

// Defaults mirrors the reference behaviour.
func Defaults() Timings {
	return Timings{
		HideResetAfter: 90 * time.Second,
		ToastSuccess:   3 * time.Second,
		ToastError:     4 * time.Second,
		ReadTimeout:    5 * time.Second,
	}
}

// Normalize replaces non-positive values with defaults.
func (t Timings) Normalize() Timings {
	d := Defaults()
	if t.HideResetAfter <= 0 {
		t.HideResetAfter = d.HideResetAfter
	}
	if t.ToastSuccess <= 0 {
		t.ToastSuccess = d.ToastSuccess
	}
	if t.ToastError <= 0 {
		t.ToastError = d.ToastError
	}
	if t.ReadTimeout <= 0 {
		t.ReadTimeout = d.ReadTimeout
	}
	return t
}
