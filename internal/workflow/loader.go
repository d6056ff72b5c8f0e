package workflow

import (
	"sync/atomic"

	"github.com/five82/rentdesk/internal/catalog"
)

// Phase is the state of a Loader.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Ticket identifies one load. Tickets are unique for the life of the process,
// so a ticket from a previous page visit never matches a new loader.
type Ticket uint64

var lastTicket atomic.Uint64

func nextTicket() Ticket {
	return Ticket(lastTicket.Add(1))
}

// Loader tracks one page's fetch: Idle, Loading, then Loaded or Failed.
// Only the most recently issued ticket may resolve it.
//
// Loader is not safe for concurrent use; it lives inside the UI model.
type Loader[T any] struct {
	fallback string
	phase    Phase
	data     T
	message  string
	latest   Ticket
}

// NewLoader returns an idle loader. fallback is shown when a failure carries
// no message of its own.
func NewLoader[T any](fallback string) *Loader[T] {
	return &Loader[T]{fallback: fallback}
}

// Begin enters Loading and issues the ticket the result must carry. Any
// earlier ticket becomes stale.
func (l *Loader[T]) Begin() Ticket {
	l.latest = nextTicket()
	l.phase = PhaseLoading
	l.message = ""
	return l.latest
}

// Resolve applies a result. It returns false and changes nothing when the
// ticket has been superseded.
func (l *Loader[T]) Resolve(t Ticket, data T, err error) bool {
	if t == 0 || t != l.latest || l.phase != PhaseLoading {
		return false
	}
	if err != nil {
		var zero T
		l.data = zero
		l.message = catalog.Message(err, l.fallback)
		l.phase = PhaseFailed
		return true
	}
	l.data = data
	l.message = ""
	l.phase = PhaseLoaded
	return true
}

// Reset returns to Idle and invalidates any outstanding ticket.
func (l *Loader[T]) Reset() {
	var zero T
	l.data = zero
	l.message = ""
	l.latest = 0
	l.phase = PhaseIdle
}

func (l *Loader[T]) Phase() Phase    { return l.phase }
func (l *Loader[T]) Loading() bool   { return l.phase == PhaseLoading }
func (l *Loader[T]) Loaded() bool    { return l.phase == PhaseLoaded }
func (l *Loader[T]) Failed() bool    { return l.phase == PhaseFailed }
func (l *Loader[T]) Data() T         { return l.data }
func (l *Loader[T]) Message() string { return l.message }
