// Package state provides thread-safe state management for the Roster application.
//
// # Overview
//
// This package keeps the client's view of the directory consistent with the
// user's latest intent while requests overlap in flight. It owns three
// stores: Queries (the current list query), List (the cached page for that
// query), and Editor (the one detail-editing session). Everything the UI
// renders comes out of these stores as immutable snapshots.
//
// # Architecture
//
// The stores form a small pipeline between user gestures and the service:
//
//	Gestures (keys):              Service (gateway):
//	┌────────────────┐            ┌────────────────┐
//	│ queries.Patch()│──change───→│ list.Load()    │
//	│ editor.Open()  │            │ editor.Open()  │
//	│ editor.Save()  │            │ editor.Save()  │
//	└────────────────┘            └───────┬────────┘
//	                                      ↓ commit gate
//	                              ┌────────────────┐
//	                              │   snapshots    │→ render UI
//	                              └────────────────┘
//
// The commit gate is the heart of the package: every completion is checked
// against the intent that is current at completion time, and committed only
// when they still agree.
//
// # Ordering Without Cancellation
//
// In-flight requests are never cancelled when a newer one is issued; they
// run to completion and lose at the gate instead:
//
//   - List captures the Query it was issued for. On completion it commits
//     only if that query still equals Queries.Current(). A page for an
//     abandoned query, however late it lands, changes nothing.
//   - Editor stamps each session with a counter that Open and Close
//     increment. A completion whose stamp no longer matches is discarded,
//     which also covers reopening the same user.
//
// A discarded completion never commits data or an error. Its one visible
// trace is the list's loading flag, which stays set until every in-flight
// fetch has drained, stale ones included. Beyond that it surfaces only as a
// debug log line.
//
// # Write Discipline
//
// The Editor accepts writes only in PhaseReady:
//
//	Idle → Loading → Ready → Saving ──→ Ready
//	          │        │  └→ Toggling ─→ Ready
//	          ↓        ↓
//	      LoadFailed  (Close → Idle)
//
// Save and SetActive called in any other phase return ErrBusy and change
// nothing. That single rule is what makes double-submitting a toggle
// impossible: the second press lands in PhaseToggling and is refused.
//
// The Editor also owns the edit buffer: SetFullName, SetPhoneNumber, and
// SetRole mutate the draft in PhaseReady and are ignored otherwise. Save
// takes no payload; it submits the buffer as a full replacement of the
// editable fields, complete role list included. On success the submitted
// values are folded into the local record without a refetch (optimistic);
// on failure both record and draft are kept so the user can correct and
// retry. SetActive is pessimistic: the local status flips only after the
// service confirms.
//
// # Error Retention
//
// A failed list fetch for a still-current query keeps the previous page and
// records the error alongside it. Stale-but-real data plus a visible error
// reads better in a terminal than a blank screen, and the next successful
// fetch clears both the error and the failure counter.
//
// # Concurrency Model
//
// Each store guards its snapshot with a sync.RWMutex. The lock is never
// held across a gateway call: Load, Open, Save, and SetActive lock to
// record intent, unlock for the network round trip, then relock to pass the
// commit gate. Snapshots are returned by value with slices cloned and
// errors rewrapped, so the UI can hold one across renders without racing
// the stores.
//
// Change notification is a single callback per store (SetOnChange), invoked
// after the lock is released. The application wires these to the UI's event
// loop; tests leave them unset.
//
// # Usage Example
//
//	queries := state.NewQueries(directory.Query{PageNumber: 1, PageSize: 20})
//	list := state.NewList(client, queries)
//	editor := state.NewEditor(client, roles)
//
//	// A filter gesture: patch, then refetch for the new query.
//	search := "doe"
//	queries.Patch(state.QueryPatch{Search: &search})
//	go list.Load(ctx)
//
//	// Render whatever is current.
//	snap := list.Snapshot()
//	if snap.LastError != nil {
//		showBanner(snap.LastError)
//	}
//	renderPage(snap.Page)
//
// # Testing Considerations
//
// The stores take the gateway as an interface, so tests drive them with
// scripted fakes whose completions are released by channels. That makes the
// interesting interleavings (slow response overtaken by a fast one, failure
// after success, toggle during toggle) deterministic without sleeps.
//
// # Design Rationale
//
// This package intentionally avoids:
//   - Request cancellation (discarding at commit is simpler and sufficient)
//   - Response versioning or queues (only the latest intent matters)
//   - Retry policy (reissuing a query is the user's gesture, not the store's)
//   - Multiple listeners per store (one consumer, the UI event loop)
//
// The design prioritizes a single, checkable rule for what may touch the
// cache over cleverness in flight management. This is appropriate for
// Roster's scale: one operator, one service, pages of a few dozen rows.
package state
