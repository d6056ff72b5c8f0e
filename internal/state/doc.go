// Package state tracks whether the catalog API is reachable.
//
// # Overview
//
// The catalog client reports the outcome of every request to an Observer.
// Store is that observer. Page loads, mutations and the background probe
// all feed the same Store, and the UI header reads a Snapshot on each render
// to show the API as online or offline.
//
//	Producers:                      Consumer (UI):
//	┌──────────────────┐           ┌──────────────────┐
//	│ page tea.Cmds    │           │                  │
//	│ probe goroutine  │──Observe─→│ store.Snapshot() │
//	│  (catalog.Client)│  (mutex)  │  render header   │
//	└──────────────────┘           └──────────────────┘
//
// # Observe Semantics
//
//	store.Observe(nil)              success: streak reset
//	store.Observe(transport error)  streak + 1, error recorded
//	store.Observe(*catalog.Error)   server answered: streak reset,
//	                                ServerErrors + 1
//	store.Observe(context.Canceled) ignored
//
// Two or more consecutive transport failures mark the API offline.
//
// # Concurrency Model
//
// Observe takes the write lock; Snapshot and IsOffline take the read lock.
// The lock is never held during network I/O. Snapshot returns a copy with
// the error re-wrapped so callers cannot share the stored instance.
//
// The zero Store is ready to use.
package state
