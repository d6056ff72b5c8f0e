package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/five82/rentdesk/internal/catalog"
)

// offlineThreshold is the number of consecutive transport failures after
// which the API is shown as offline.
const offlineThreshold = 2

// Snapshot is the connectivity view the header renders.
type Snapshot struct {
	LastSuccess         time.Time
	LastFailure         time.Time
	LastError           error
	ConsecutiveFailures int // consecutive transport failures
	Requests            int
	ServerErrors        int
}

// IsOffline returns true when the API has been unreachable for multiple calls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= offlineThreshold
}

// Seen reports whether any call has completed.
func (s Snapshot) Seen() bool {
	return !s.LastSuccess.IsZero() || !s.LastFailure.IsZero()
}

// Store accumulates the outcome of every catalog call. It implements
// catalog.Observer.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	now      func() time.Time
}

var _ catalog.Observer = (*Store)(nil)

// Observe records one call outcome. Server-reported errors prove the API is
// reachable and reset the failure streak; cancellations say nothing about
// the API and are ignored.
func (s *Store) Observe(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	s.snapshot.Requests++

	switch {
	case err == nil:
		s.snapshot.LastSuccess = now()
		s.snapshot.ConsecutiveFailures = 0
	case catalog.IsTransport(err):
		s.snapshot.LastFailure = now()
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
	default:
		// The server answered.
		s.snapshot.LastSuccess = now()
		s.snapshot.LastError = err
		s.snapshot.ServerErrors++
		s.snapshot.ConsecutiveFailures = 0
	}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// IsOffline is shorthand for Snapshot().IsOffline().
func (s *Store) IsOffline() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.IsOffline()
}
