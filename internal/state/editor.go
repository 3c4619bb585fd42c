package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kestrad/roster/internal/directory"
)

// ErrBusy reports that the editor refused an operation because a write or
// load is already in flight. Callers treat it as a no-op, not a failure.
var ErrBusy = errors.New("editor is busy")

// Phase is the editor lifecycle state. Writes are accepted only in
// PhaseReady; everything else refuses them.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseSaving
	PhaseToggling
	PhaseLoadFailed
)

// String returns a short lower-case label for display and logging.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseSaving:
		return "saving"
	case PhaseToggling:
		return "toggling"
	case PhaseLoadFailed:
		return "load failed"
	default:
		return "unknown"
	}
}

// RolePair is one row of the role checklist: a role name and whether the
// open user holds it. Pair order is stable for the whole session: catalog
// roles first, in catalog order, then any roles on the record the catalog
// does not know, so saving can never silently drop an assignment.
type RolePair struct {
	Name    string
	Enabled bool
}

// EditBuffer holds the editable fields of the open record as the user is
// changing them. Every field is explicitly present; an optional field the
// wire omitted becomes its empty value here, never a gap.
type EditBuffer struct {
	FullName    string
	PhoneNumber string
	Roles       []RolePair
}

// EditorSnapshot represents the current editing session as the UI sees it.
// Session identifies the load session the snapshot belongs to; Open and
// Close start a new one.
type EditorSnapshot struct {
	Phase     Phase
	Session   uint64
	UserID    string
	Detail    directory.UserDetail
	HasDetail bool
	Buffer    EditBuffer
	LastError error
}

// Editor owns one detail-editing session at a time: which user is open,
// the authoritative copy of their record, the draft the user is editing,
// and whether a load or write is in flight.
//
// Each call to Open (and Close) starts a new session and invalidates the
// previous one. Completions carry the session they were issued under and
// are discarded when a newer session has started, so an abandoned load can
// never clobber the record the user is now looking at.
type Editor struct {
	mu       sync.RWMutex
	gateway  directory.Gateway
	catalog  []string
	session  uint64
	snapshot EditorSnapshot
	onChange func()
}

// NewEditor builds an editor that loads and writes through gateway. The
// catalog fixes the order of the role checklist for every session.
func NewEditor(gateway directory.Gateway, catalog []string) *Editor {
	return &Editor{gateway: gateway, catalog: catalog}
}

// SetOnChange registers a callback invoked after every visible change. The
// callback runs without the store lock held.
func (e *Editor) SetOnChange(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = fn
}

// Open starts a new session for the given user and fetches their full
// record. Any previous session, including one still loading, is abandoned.
//
// On success the phase becomes PhaseReady and the edit buffer is seeded
// from the record; on failure PhaseLoadFailed with the typed error
// preserved, so callers can distinguish a vanished record
// (directory.ErrNotFound) from a transport problem. The call blocks until
// the fetch completes, so run it from its own goroutine.
func (e *Editor) Open(ctx context.Context, id string) {
	e.mu.Lock()
	e.session++
	session := e.session
	e.snapshot = EditorSnapshot{Phase: PhaseLoading, Session: session, UserID: id}
	e.mu.Unlock()
	e.notify()

	detail, err := e.gateway.FetchUser(ctx, id)

	e.mu.Lock()
	if e.session != session {
		e.mu.Unlock()
		zap.S().Debugw("stale detail response discarded", "user", id)
		return
	}
	if err != nil {
		e.snapshot.Phase = PhaseLoadFailed
		e.snapshot.LastError = err
		e.mu.Unlock()
		zap.S().Errorw("detail load failed", "user", id, "error", err)
	} else {
		e.snapshot.Phase = PhaseReady
		e.snapshot.Detail = detail
		e.snapshot.HasDetail = true
		e.snapshot.Buffer = newEditBuffer(detail, e.catalog)
		e.snapshot.LastError = nil
		e.mu.Unlock()
	}
	e.notify()
}

// SetFullName updates the draft full name. Ignored outside PhaseReady.
func (e *Editor) SetFullName(value string) {
	e.mutateBuffer(func(buf *EditBuffer) bool {
		if buf.FullName == value {
			return false
		}
		buf.FullName = value
		return true
	})
}

// SetPhoneNumber updates the draft phone number. Ignored outside PhaseReady.
func (e *Editor) SetPhoneNumber(value string) {
	e.mutateBuffer(func(buf *EditBuffer) bool {
		if buf.PhoneNumber == value {
			return false
		}
		buf.PhoneNumber = value
		return true
	})
}

// SetRole flips one checklist entry by index. Ignored outside PhaseReady
// and for indexes outside the checklist.
func (e *Editor) SetRole(index int, enabled bool) {
	e.mutateBuffer(func(buf *EditBuffer) bool {
		if index < 0 || index >= len(buf.Roles) {
			return false
		}
		if buf.Roles[index].Enabled == enabled {
			return false
		}
		buf.Roles[index].Enabled = enabled
		return true
	})
}

func (e *Editor) mutateBuffer(apply func(*EditBuffer) bool) {
	e.mu.Lock()
	if e.snapshot.Phase != PhaseReady {
		e.mu.Unlock()
		return
	}
	changed := apply(&e.snapshot.Buffer)
	e.mu.Unlock()
	if changed {
		e.notify()
	}
}

// Save submits the edit buffer as a full-replacement update for the open
// user. The update always carries every editable field, including the
// complete role list, because the service replaces the whole editable
// record rather than merging. Save refuses with ErrBusy unless the phase
// is PhaseReady, so a second save cannot start while one is in flight.
//
// On success the submitted values are committed into the local record
// without a refetch; on failure the record and the buffer are left as they
// were and the typed error is recorded. Either way the phase returns to
// PhaseReady.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.snapshot.Phase != PhaseReady {
		e.mu.Unlock()
		return ErrBusy
	}
	session := e.session
	id := e.snapshot.UserID
	update := directory.UserUpdate{
		ID:          id,
		FullName:    strings.TrimSpace(e.snapshot.Buffer.FullName),
		PhoneNumber: strings.TrimSpace(e.snapshot.Buffer.PhoneNumber),
		Roles:       enabledRoles(e.snapshot.Buffer.Roles),
	}
	e.snapshot.Phase = PhaseSaving
	e.snapshot.LastError = nil
	e.mu.Unlock()
	e.notify()

	err := e.gateway.UpdateUser(ctx, id, update)

	e.mu.Lock()
	if e.session != session {
		e.mu.Unlock()
		zap.S().Debugw("save completion for abandoned session", "user", id)
		return err
	}
	e.snapshot.Phase = PhaseReady
	if err != nil {
		e.snapshot.LastError = err
		e.mu.Unlock()
		zap.S().Errorw("save failed", "user", id, "error", err)
	} else {
		e.snapshot.Detail.FullName = update.FullName
		e.snapshot.Detail.PhoneNumber = update.PhoneNumber
		e.snapshot.Detail.Roles = update.Roles
		e.snapshot.Buffer.FullName = update.FullName
		e.snapshot.Buffer.PhoneNumber = update.PhoneNumber
		e.snapshot.LastError = nil
		e.mu.Unlock()
	}
	e.notify()
	return err
}

// SetActive flips the activation status of the open user. It refuses with
// ErrBusy unless the phase is PhaseReady, which is what makes a double
// submission impossible.
//
// The change is pessimistic: the local record is updated only after the
// service confirms. On failure the record keeps its previous status.
func (e *Editor) SetActive(ctx context.Context, active bool) error {
	e.mu.Lock()
	if e.snapshot.Phase != PhaseReady {
		e.mu.Unlock()
		return ErrBusy
	}
	session := e.session
	id := e.snapshot.UserID
	e.snapshot.Phase = PhaseToggling
	e.snapshot.LastError = nil
	e.mu.Unlock()
	e.notify()

	err := e.gateway.SetUserActive(ctx, id, active)

	e.mu.Lock()
	if e.session != session {
		e.mu.Unlock()
		zap.S().Debugw("toggle completion for abandoned session", "user", id)
		return err
	}
	e.snapshot.Phase = PhaseReady
	if err != nil {
		e.snapshot.LastError = err
		e.mu.Unlock()
		zap.S().Errorw("status toggle failed", "user", id, "active", active, "error", err)
	} else {
		e.snapshot.Detail.IsActive = active
		e.snapshot.LastError = nil
		e.mu.Unlock()
	}
	e.notify()
	return err
}

// Close abandons the current session and returns the editor to PhaseIdle.
// A completion from the abandoned session is discarded when it arrives.
func (e *Editor) Close() {
	e.mu.Lock()
	e.session++
	e.snapshot = EditorSnapshot{}
	e.mu.Unlock()
	e.notify()
}

// Snapshot returns a copy of the current snapshot.
func (e *Editor) Snapshot() EditorSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := e.snapshot
	snap.Detail.Roles = cloneRoles(e.snapshot.Detail.Roles)
	snap.Buffer.Roles = cloneRolePairs(e.snapshot.Buffer.Roles)
	if e.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", e.snapshot.LastError)
	}
	return snap
}

func (e *Editor) notify() {
	e.mu.RLock()
	onChange := e.onChange
	e.mu.RUnlock()
	if onChange != nil {
		onChange()
	}
}

// newEditBuffer seeds the draft from a freshly loaded record. Every
// editable field is given an explicit value up front.
func newEditBuffer(detail directory.UserDetail, catalog []string) EditBuffer {
	return EditBuffer{
		FullName:    detail.FullName,
		PhoneNumber: detail.PhoneNumber,
		Roles:       rolePairs(catalog, detail.Roles),
	}
}

// rolePairs builds the ordered role checklist: the catalog in its own
// order, then roles held by the record that the catalog is missing.
func rolePairs(catalog, assigned []string) []RolePair {
	held := make(map[string]bool, len(assigned))
	for _, role := range assigned {
		held[role] = true
	}
	pairs := make([]RolePair, 0, len(catalog))
	seen := make(map[string]bool, len(catalog))
	for _, role := range catalog {
		if role == "" || seen[role] {
			continue
		}
		seen[role] = true
		pairs = append(pairs, RolePair{Name: role, Enabled: held[role]})
	}
	for _, role := range assigned {
		if role == "" || seen[role] {
			continue
		}
		seen[role] = true
		pairs = append(pairs, RolePair{Name: role, Enabled: true})
	}
	return pairs
}

// enabledRoles flattens the checklist back into the complete assignment
// list the update payload carries.
func enabledRoles(pairs []RolePair) []string {
	roles := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		if pair.Enabled {
			roles = append(roles, pair.Name)
		}
	}
	return roles
}

func cloneRoles(roles []string) []string {
	if len(roles) == 0 {
		return nil
	}
	dup := make([]string, len(roles))
	copy(dup, roles)
	return dup
}

func cloneRolePairs(pairs []RolePair) []RolePair {
	if len(pairs) == 0 {
		return nil
	}
	dup := make([]RolePair, len(pairs))
	copy(dup, pairs)
	return dup
}
