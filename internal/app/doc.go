// Package app provides the orchestration layer for the Roster application.
//
// # Overview
//
// This package wires together configuration, logging, the directory client,
// the state stores, and the UI to create the complete Roster TUI. It is the
// composition root: every dependency is created and connected here, and no
// business logic lives here.
//
// # Architecture
//
// Run follows a simple initialization sequence:
//
//  1. Load config from ~/.config/roster/config.toml, apply flag overrides
//  2. Install the file-backed zap logger (the TUI owns the terminal)
//  3. Load user preferences (theme, sticky include-inactive filter)
//  4. Build the directory HTTP client and fetch the role catalog
//  5. Create the query, list, and editor stores and wire query changes
//     to list reloads
//  6. Launch the background refresher and the initial page fetch
//  7. Start the TUI and block until the user quits or the context cancels
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read roster config
//	       ├─────> logging.Setup()      File-backed zap global
//	       ├─────> prefs.Load()         Theme + filter preferences
//	       ├─────> directory.NewClient  HTTP gateway
//	       ├─────> state.New*()         Query/list/editor stores
//	       ├─────> StartRefresher()     Periodic list reloads
//	       └─────> ui.Run()             Start TUI (blocks)
//
//	Background refresher loop:
//	┌─────────────────────────────────────────┐
//	│ StartRefresher() goroutine              │
//	│  ├─> list.Load(ctx)                     │
//	│  │     └─> commit gate vs. current query│
//	│  └─> wait interval (backoff on failure) │
//	└─────────────────────────────────────────┘
//
// # Refresh Behavior
//
// The refresher reloads the current page at a fixed cadence so edits made
// elsewhere become visible without a manual reload. On consecutive failures
// the cadence backs off exponentially up to two minutes, never dropping
// below the configured interval. A refresh that completes after the user
// changed the query is discarded by the list store's commit gate, never by
// the refresher itself.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Config file present but malformed
//   - Directory client construction failure (unparseable address)
//
// Recoverable (logged, startup continues):
//   - Log file cannot be opened (logging disabled, noted on stderr)
//   - Preferences unreadable (defaults used)
//   - Role catalog unavailable (configured fallback used)
//   - Any individual list fetch failure (error shown over retained data)
//
// An unreachable directory service is deliberately not fatal: the UI starts,
// shows the failure, and the refresher keeps probing until the service
// comes back.
package app
