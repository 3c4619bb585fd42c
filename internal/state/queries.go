package state

import (
	"strings"
	"sync"

	"github.com/kestrad/roster/internal/directory"
)

const fallbackPageSize = 20

// QueryPatch is a partial update to the current list query. Nil fields are
// left unchanged; this is how callers express "omitted" without a sentinel
// value colliding with a real one.
type QueryPatch struct {
	PageNumber      *int
	PageSize        *int
	Search          *string
	IncludeInactive *bool
}

// Queries holds the single current list query and applies patches to it.
// Changing a filter field without an explicit page jumps back to page one so
// a narrowed result set is never viewed from a page that no longer exists.
type Queries struct {
	mu       sync.RWMutex
	current  directory.Query
	defaults directory.Query
	onChange func(directory.Query)
}

// NewQueries builds a query store seeded with initial, floored to sane
// values: page numbers start at one and a non-positive page size falls back
// to the default.
func NewQueries(initial directory.Query) *Queries {
	if initial.PageNumber < 1 {
		initial.PageNumber = 1
	}
	if initial.PageSize < 1 {
		initial.PageSize = fallbackPageSize
	}
	initial.Search = strings.TrimSpace(initial.Search)
	return &Queries{
		current:  initial,
		defaults: directory.Query{PageNumber: 1, PageSize: initial.PageSize},
	}
}

// SetOnChange registers a callback invoked after every patch that actually
// changed the query. The callback runs without the store lock held.
func (q *Queries) SetOnChange(fn func(directory.Query)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.onChange = fn
}

// Current returns the query list fetches should be issued for.
func (q *Queries) Current() directory.Query {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.current
}

// Patch applies the non-nil fields of patch and returns the resulting query.
//
// Rules, in order:
//   - Search is trimmed before comparison and storage.
//   - A patch that touches a filter field (Search, IncludeInactive) without
//     an explicit PageNumber resets the page to one.
//   - An explicit PageNumber is clamped to a minimum of one.
//   - A non-positive PageSize is ignored.
//
// A patch that produces an identical query is a no-op and does not notify.
func (q *Queries) Patch(patch QueryPatch) directory.Query {
	q.mu.Lock()

	next := q.current
	if patch.Search != nil {
		next.Search = strings.TrimSpace(*patch.Search)
	}
	if patch.IncludeInactive != nil {
		next.IncludeInactive = *patch.IncludeInactive
	}
	if patch.PageSize != nil && *patch.PageSize > 0 {
		next.PageSize = *patch.PageSize
	}
	switch {
	case patch.PageNumber != nil:
		next.PageNumber = *patch.PageNumber
		if next.PageNumber < 1 {
			next.PageNumber = 1
		}
	case patch.Search != nil || patch.IncludeInactive != nil:
		next.PageNumber = 1
	}

	changed := next != q.current
	q.current = next
	onChange := q.onChange
	q.mu.Unlock()

	if changed && onChange != nil {
		onChange(next)
	}
	return next
}

// Reset restores the built-in defaults: page one, the configured page size,
// no search, active users only.
func (q *Queries) Reset() directory.Query {
	q.mu.Lock()
	next := q.defaults
	changed := next != q.current
	q.current = next
	onChange := q.onChange
	q.mu.Unlock()

	if changed && onChange != nil {
		onChange(next)
	}
	return next
}
