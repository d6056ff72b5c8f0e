// Package workflow holds the page state machines that sit between the
// catalog client and the UI.
//
// # Overview
//
// Nothing here performs I/O. Each type records what a page has asked for and
// what came back, and decides what the page may do next. The UI issues the
// catalog calls in tea.Cmd goroutines and feeds the results back in.
//
// # Components
//
//   - loader.go: Loader[T], the Idle/Loading/Loaded/Failed fetch state every
//     page uses, with tickets that drop superseded responses
//   - form.go: CustomerForm validation (validator/v10) and the Submission
//     state of a create or update
//   - deletion.go: Deletion, the active-rental check and confirmation that
//     guard a customer delete
//   - rental.go: RentalGate, the availability gate of the rent controls
//   - countries.go: the shared fallback country list
//
// # Superseded Loads
//
// Every Loader.Begin issues a new Ticket and only the latest ticket may
// resolve the loader:
//
//	t1 := films.Begin()        // search "alien"
//	t2 := films.Begin()        // search "alien king"
//	films.Resolve(t2, r2, nil) // applied
//	films.Resolve(t1, r1, nil) // ignored, returns false
//
// Tickets are unique process wide, so results addressed to a page the
// operator already left can never resolve the loader of a new visit.
//
// # Delays
//
// SaveDelay, DeleteDelay and RentalNoticeDelay are how long a confirmation
// stays on screen before the page navigates, reloads or clears it.
package workflow
