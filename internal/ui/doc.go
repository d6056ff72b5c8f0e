// Package ui provides the terminal user interface for rentdesk.
//
// # Architecture Overview
//
// The UI is a single Bubble Tea program. Model holds the state of every
// page; Update is the only place state changes. Catalog calls run inside
// tea.Cmds and come back as typed messages.
//
// # Package Structure
//
//   - app.go: Model, Init/Update/View, global keys and the Run function
//   - navigation.go: pages, the back trail and page visits
//   - header.go: status bar and command hints
//   - render.go: boxes, loading/failure/not-found views, list rows
//   - home.go, films.go, film.go, actor.go: catalog pages
//   - customers.go, customer_form.go, rentals.go: customer pages
//   - diagnostics.go: tail of the zap log and the connectivity counters
//   - modal.go, help.go: overlays
//   - theme.go, style_helpers.go, keys.go, layout.go, strings.go: shared
//
// # Pages and Visits
//
// Each time a page is entered a new visit starts. The visit owns a context
// that is cancelled when the page is left, and an id stamped onto every
// message the page's commands produce:
//
//	navigate(route) -> closeVisit (cancel ctx) -> openVisit (id+1) -> reload
//
// Update drops any stamped message whose visit id is not current, so a slow
// response or a delayed follow-up (the 2 s redirect after a save, say)
// never lands on a page the operator has left. Within a visit each
// workflow.Loader drops responses superseded by a later load.
//
// # Page Flow
//
//	Home ──enter──> Film ──enter──> Actor ──enter──> Film ...
//	 │2              ^
//	 v               │enter
//	Films ───────────┘
//	 3
//	Customers ──a──> Add form
//	          ──e──> Edit form ──ctrl+d──> check rentals ──> confirm ──> delete
//	          ──enter──> Rental history ──R──> return film
//
// esc walks back along the trail; 1 jumps home and clears it.
//
// # Key Bindings
//
//   - 1/2/3: Home, Films, Customers
//   - l: Diagnostics log
//   - esc: Back (or leave the focused input)
//   - r: Retry the current page
//   - /: Focus the page search
//   - t: Cycle film search type (title/actor/genre)
//   - a/e: Add or edit a customer
//   - R: Rent (film detail) or return (rental history)
//   - T: Cycle theme
//   - h or ?: Help
//   - q or Ctrl+C: Quit
//
// While a text input has focus every printable key goes to it; only esc,
// enter and ctrl keys keep their page meaning. A loaded customer form keeps
// the keyboard on every field, the country picker and checkbox included.
package ui
