package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kestrad/roster/internal/directory"
)

// ListSnapshot represents the latest list data available to the UI.
type ListSnapshot struct {
	Page                directory.Page[directory.User]
	HasPage             bool
	Query               directory.Query // query the cached page belongs to
	Loading             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when fetches have failed repeatedly in a row.
func (s ListSnapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// List caches the most recently fetched page of users and keeps it
// consistent with the current query.
//
// Load may be called from any goroutine and any number of times
// concurrently. Completions are committed only when the query they were
// issued for still equals the current one; everything else is discarded
// without touching the cache, so the visible page always matches the latest
// intent regardless of response ordering.
type List struct {
	mu       sync.RWMutex
	gateway  directory.Gateway
	queries  *Queries
	snapshot ListSnapshot
	pending  int
	onChange func()
}

// NewList builds a list cache that fetches through gateway for whatever
// query queries currently holds.
func NewList(gateway directory.Gateway, queries *Queries) *List {
	return &List{gateway: gateway, queries: queries}
}

// SetOnChange registers a callback invoked after every visible change. The
// callback runs without the store lock held.
func (l *List) SetOnChange(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

// Load fetches the page for the current query and commits the result if the
// query is still current when the response arrives.
//
// Issuing a load clears the recorded error: the pending state the UI sees is
// "trying again", not "still broken". On failure for a still-current query
// the previous page is kept and the error is recorded; the next success
// leaves it cleared. The call blocks until the fetch completes, so run it
// from its own goroutine.
func (l *List) Load(ctx context.Context) {
	query := l.queries.Current()

	l.mu.Lock()
	l.pending++
	l.snapshot.Loading = true
	l.snapshot.LastError = nil
	l.mu.Unlock()
	l.notify()

	page, err := l.gateway.FetchPage(ctx, query)

	l.mu.Lock()
	l.pending--
	l.snapshot.Loading = l.pending > 0

	if query != l.queries.Current() {
		l.mu.Unlock()
		zap.S().Debugw("stale list response discarded",
			"pageNumber", query.PageNumber,
			"search", query.Search)
		l.notify()
		return
	}

	if err != nil {
		l.snapshot.LastError = err
		l.snapshot.LastUpdated = time.Now()
		l.snapshot.ConsecutiveFailures++
		failures := l.snapshot.ConsecutiveFailures
		l.mu.Unlock()
		zap.S().Errorw("list fetch failed",
			"pageNumber", query.PageNumber,
			"search", query.Search,
			"failures", failures,
			"error", err)
		l.notify()
		return
	}

	l.snapshot.Page = page
	l.snapshot.HasPage = true
	l.snapshot.Query = query
	l.snapshot.LastError = nil
	l.snapshot.LastUpdated = time.Now()
	l.snapshot.ConsecutiveFailures = 0
	l.mu.Unlock()
	l.notify()
}

// Snapshot returns a copy of the current snapshot.
func (l *List) Snapshot() ListSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := l.snapshot
	snap.Page.Items = cloneUsers(l.snapshot.Page.Items)
	if l.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", l.snapshot.LastError)
	}
	return snap
}

func (l *List) notify() {
	l.mu.RLock()
	onChange := l.onChange
	l.mu.RUnlock()
	if onChange != nil {
		onChange()
	}
}

func cloneUsers(items []directory.User) []directory.User {
	if len(items) == 0 {
		return nil
	}
	dup := make([]directory.User, len(items))
	copy(dup, items)
	return dup
}
