// Package app provides the orchestration layer for the rentdesk application.
//
// # Overview
//
// This package wires together configuration, diagnostics, the catalog
// client, the connectivity store, the background probe and the UI. It is
// the composition root where all dependencies are initialized and connected.
//
// # Architecture
//
//  1. Load config from ~/.config/rentdesk/config.toml plus .env/env overrides
//  2. Apply the -api override, if any
//  3. Open the zap diagnostics log (falls back to a no-op logger)
//  4. Create the shared state.Store and a catalog.Client reporting to it
//  5. Launch the probe goroutine
//  6. Start the TUI and block until the user exits or the context cancels
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read config + env
//	       ├─────> diag.New()           Open log file
//	       ├─────> state.Store{}        Connectivity store
//	       ├─────> catalog.NewClient()  HTTP client, observer = store
//	       ├─────> StartProbe()         Periodic Ping
//	       └─────> ui.Run()             Start TUI (blocks)
//
// # Probe Behavior
//
// The UI only talks to the API when the operator does something, so an
// offline indicator would never clear on an idle screen. The probe pings
// the API every 30 seconds by default (-poll N to change, -poll 0 to
// disable). It never touches the store directly: the client reports each
// ping to its observer like any other request.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Invalid config file or duration
//   - Unparseable API URL
//
// Everything else (log file unavailable, API unreachable, failed pings) is
// reported and the application keeps running.
package app
