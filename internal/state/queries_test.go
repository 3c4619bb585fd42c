package state

import (
	"testing"

	"github.com/kestrad/roster/internal/directory"
)

func TestNewQueries_FloorsInitialValues(t *testing.T) {
	q := NewQueries(directory.Query{})
	got := q.Current()
	if got.PageNumber != 1 {
		t.Fatalf("PageNumber = %d, want 1", got.PageNumber)
	}
	if got.PageSize != fallbackPageSize {
		t.Fatalf("PageSize = %d, want %d", got.PageSize, fallbackPageSize)
	}

	q = NewQueries(directory.Query{PageNumber: 4, PageSize: 50, Search: "  ada  "})
	got = q.Current()
	if got.PageNumber != 4 || got.PageSize != 50 {
		t.Fatalf("query = %+v, want provided values kept", got)
	}
	if got.Search != "ada" {
		t.Fatalf("Search = %q, want trimmed", got.Search)
	}
}

func TestQueries_FilterPatchResetsPage(t *testing.T) {
	q := NewQueries(directory.Query{PageNumber: 3, PageSize: 20})

	got := q.Patch(QueryPatch{Search: strp("john")})
	want := directory.Query{PageNumber: 1, PageSize: 20, Search: "john"}
	if got != want {
		t.Fatalf("Patch(search) = %+v, want %+v", got, want)
	}

	q = NewQueries(directory.Query{PageNumber: 5, PageSize: 20})
	got = q.Patch(QueryPatch{IncludeInactive: boolp(true)})
	if got.PageNumber != 1 || !got.IncludeInactive {
		t.Fatalf("Patch(includeInactive) = %+v, want page reset to 1", got)
	}
}

func TestQueries_ExplicitPageSuppressesReset(t *testing.T) {
	q := NewQueries(directory.Query{PageNumber: 3, PageSize: 20})

	got := q.Patch(QueryPatch{Search: strp("doe"), PageNumber: intp(2)})
	if got.PageNumber != 2 || got.Search != "doe" {
		t.Fatalf("Patch(search+page) = %+v, want explicit page honored", got)
	}
}

func TestQueries_PageOnlyPatchKeepsFilters(t *testing.T) {
	q := NewQueries(directory.Query{PageNumber: 1, PageSize: 20, Search: "doe", IncludeInactive: true})

	got := q.Patch(QueryPatch{PageNumber: intp(3)})
	want := directory.Query{PageNumber: 3, PageSize: 20, Search: "doe", IncludeInactive: true}
	if got != want {
		t.Fatalf("Patch(page only) = %+v, want filters kept: %+v", got, want)
	}
}

func TestQueries_PageNumberClamped(t *testing.T) {
	q := NewQueries(directory.Query{PageNumber: 3, PageSize: 20})

	for _, page := range []int{0, -5} {
		got := q.Patch(QueryPatch{PageNumber: intp(page)})
		if got.PageNumber != 1 {
			t.Fatalf("Patch(page=%d) PageNumber = %d, want clamped to 1", page, got.PageNumber)
		}
	}
}

func TestQueries_PageSizeRules(t *testing.T) {
	q := NewQueries(directory.Query{PageNumber: 3, PageSize: 20})

	got := q.Patch(QueryPatch{PageSize: intp(0)})
	if got.PageSize != 20 {
		t.Fatalf("Patch(pageSize=0) PageSize = %d, want unchanged", got.PageSize)
	}
	got = q.Patch(QueryPatch{PageSize: intp(-1)})
	if got.PageSize != 20 {
		t.Fatalf("Patch(pageSize=-1) PageSize = %d, want unchanged", got.PageSize)
	}

	// A page size change alone is not a filter change and keeps the page.
	got = q.Patch(QueryPatch{PageSize: intp(50)})
	if got.PageSize != 50 || got.PageNumber != 3 {
		t.Fatalf("Patch(pageSize=50) = %+v, want size applied and page kept", got)
	}
}

func TestQueries_SearchTrimmed(t *testing.T) {
	q := NewQueries(directory.Query{PageNumber: 1, PageSize: 20})

	got := q.Patch(QueryPatch{Search: strp("  doe ")})
	if got.Search != "doe" {
		t.Fatalf("Search = %q, want trimmed", got.Search)
	}
}

func TestQueries_ResetRestoresDefaults(t *testing.T) {
	q := NewQueries(directory.Query{PageNumber: 1, PageSize: 50, IncludeInactive: true})
	q.Patch(QueryPatch{Search: strp("doe"), PageNumber: intp(4)})

	got := q.Reset()
	want := directory.Query{PageNumber: 1, PageSize: 50}
	if got != want {
		t.Fatalf("Reset() = %+v, want %+v", got, want)
	}
	if q.Current() != want {
		t.Fatalf("Current() = %+v after reset, want %+v", q.Current(), want)
	}
}

func TestQueries_ResetNotifiesOnlyWhenChanged(t *testing.T) {
	q := NewQueries(directory.Query{PageNumber: 1, PageSize: 20})

	var calls int
	q.SetOnChange(func(directory.Query) { calls++ })

	// Already at defaults: nothing to announce.
	q.Reset()
	if calls != 0 {
		t.Fatalf("notified %d times resetting defaults, want 0", calls)
	}

	q.Patch(QueryPatch{Search: strp("doe")})
	q.Reset()
	if calls != 2 {
		t.Fatalf("notified %d times, want 2 (patch, reset)", calls)
	}
}

func TestQueries_NotifiesOnlyOnRealChange(t *testing.T) {
	q := NewQueries(directory.Query{PageNumber: 1, PageSize: 20, Search: "doe"})

	var notified []directory.Query
	q.SetOnChange(func(next directory.Query) {
		notified = append(notified, next)
	})

	// Identical values, including a search that trims to the current one.
	q.Patch(QueryPatch{Search: strp(" doe ")})
	q.Patch(QueryPatch{PageNumber: intp(1)})
	if len(notified) != 0 {
		t.Fatalf("notified %d times for no-op patches, want 0", len(notified))
	}

	got := q.Patch(QueryPatch{PageNumber: intp(2)})
	if len(notified) != 1 {
		t.Fatalf("notified %d times, want 1", len(notified))
	}
	if notified[0] != got {
		t.Fatalf("notification carried %+v, want %+v", notified[0], got)
	}
}
