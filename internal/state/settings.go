// Package state holds live, mutable settings shared between the control
// plane and the goroutines that serve clients.
package state

import (
	"sync"

	"github.com/atomicstack/popup-launcher/internal/settings"
)

type TimingsStore interface {
	Timings() settings.Timings
	SetTimings(settings.Timings)
}

type timingsStore struct {
	mu      sync.RWMutex
	timings settings.Timings
}

// NewTimingsStore returns a store seeded with t, normalised.
func NewTimingsStore(t settings.Timings) TimingsStore {
	return &timingsStore{timings: t.Normalize()}
}

func (s *timingsStore) Timings() settings.Timings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timings
}

func (s *timingsStore) SetTimings(t settings.Timings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timings = t.Normalize()
}
