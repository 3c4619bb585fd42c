// Package ui provides the terminal user interface for roster.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program following the Elm architecture: a single
// Model value, an Update function that folds messages into it, and a View
// function that renders it. All directory data comes from the state stores
// (state.Queries, state.List, state.Editor); the UI holds no truth of its
// own beyond cursor positions, focus, and theme.
//
// # Package Structure
//
// The package is organized into focused modules:
//
//   - app.go: Model, Update, key dispatch, messages/commands, and Run
//   - list.go: User table rendering, selection tracking, pagination footer
//   - detail.go: Edit form rendering, role checklist, validation display
//   - header.go: Status bar and command bar
//   - theme.go: Color themes and pre-built styles
//   - keys.go: Key bindings
//   - help.go: Help overlay
//
// # View Types
//
// Two views are available:
//
//   - List View: Paginated user table with search, filters, and paging
//   - Edit View: Form for one user's editable fields and role assignments
//
// # Event Flow
//
//  1. Run() builds the Model and starts the Bubble Tea program
//  2. Store callbacks post storesChangedMsg; Update re-reads the snapshots
//  3. Key input patches the query store or calls editor operations
//  4. Blocking store operations (load, open, save, toggle) run as commands
//  5. A one-second tick keeps relative timestamps fresh
//
// Reads from the stores are snapshot copies and never block; only the
// commands issued for loads and writes touch the network.
//
// # External Dependencies
//
//   - state: Query, list, and editor stores
//   - directory: Record types and typed errors surfaced in the views
//   - prefs: Persists theme and filter choices across runs
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context:   ctx,
//		Queries:   queries,
//		List:      list,
//		Editor:    editor,
//		APIAddr:   cfg.APIAddr,
//		ThemeName: userPrefs.Theme,
//	})
//
// # Key Bindings
//
//   - j/k, g/G: Move the cursor, jump to top/bottom
//   - n/p or arrows: Next/previous page
//   - /: Search by name, username, or email
//   - a: Include or exclude inactive users
//   - r: Reload the current page
//   - Enter: Open the selected user for editing
//   - Tab/Shift+Tab: Cycle form fields
//   - Space: Toggle the focused role
//   - Ctrl+S: Save changes
//   - A / X: Activate / deactivate the open user
//   - ESC: Back out (clear filters in the list, close the editor)
//   - T: Cycle theme
//   - ?: Help overlay
//   - q or Ctrl+C: Exit
//
// # Design Principles
//
//   - Stores own the data: the UI renders snapshots and issues operations
//   - Stale responses never repaint the screen; the stores gate commits
//   - Errors keep the last good page on screen with a visible indicator
//   - Single operator: no multi-user coordination in the client
package ui
