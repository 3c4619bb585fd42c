package directory

import (
	"testing"
	"time"
)

func TestPageNormalize_DerivedFields(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		pageNumber int
		pageSize   int
		totalCount int
		wantPages  int
		wantNext   bool
		wantPrev   bool
	}{
		{name: "first of three", pageNumber: 1, pageSize: 20, totalCount: 45, wantPages: 3, wantNext: true, wantPrev: false},
		{name: "middle of three", pageNumber: 2, pageSize: 20, totalCount: 45, wantPages: 3, wantNext: true, wantPrev: true},
		{name: "last of three", pageNumber: 3, pageSize: 20, totalCount: 45, wantPages: 3, wantNext: false, wantPrev: true},
		{name: "exact multiple", pageNumber: 2, pageSize: 10, totalCount: 20, wantPages: 2, wantNext: false, wantPrev: true},
		{name: "single short page", pageNumber: 1, pageSize: 20, totalCount: 5, wantPages: 1, wantNext: false, wantPrev: false},
		{name: "empty result", pageNumber: 1, pageSize: 20, totalCount: 0, wantPages: 0, wantNext: false, wantPrev: false},
		{name: "zero page size", pageNumber: 1, pageSize: 0, totalCount: 45, wantPages: 0, wantNext: false, wantPrev: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := NewPage[User](nil, tc.pageNumber, tc.pageSize, tc.totalCount)
			if page.TotalPages != tc.wantPages {
				t.Fatalf("TotalPages = %d, want %d", page.TotalPages, tc.wantPages)
			}
			if page.HasNextPage != tc.wantNext {
				t.Fatalf("HasNextPage = %v, want %v", page.HasNextPage, tc.wantNext)
			}
			if page.HasPreviousPage != tc.wantPrev {
				t.Fatalf("HasPreviousPage = %v, want %v", page.HasPreviousPage, tc.wantPrev)
			}
			if page.Items == nil {
				t.Fatalf("Items = nil, want non-nil slice")
			}
		})
	}
}

func TestPageNormalize_OverridesBackendValues(t *testing.T) {
	t.Parallel()

	page := Page[User]{
		PageNumber:      2,
		PageSize:        20,
		TotalCount:      45,
		TotalPages:      99,
		HasNextPage:     false,
		HasPreviousPage: false,
	}
	page.Normalize()

	if page.TotalPages != 3 {
		t.Fatalf("TotalPages = %d, want 3 recomputed from counts", page.TotalPages)
	}
	if !page.HasNextPage || !page.HasPreviousPage {
		t.Fatalf("paging flags = next=%v prev=%v, want both true on page 2 of 3",
			page.HasNextPage, page.HasPreviousPage)
	}
}

func TestUserDetailNormalize_FillsAbsentOptionals(t *testing.T) {
	t.Parallel()

	detail := UserDetail{}
	detail.normalize()
	if detail.Roles == nil {
		t.Fatalf("Roles = nil, want empty slice")
	}
}

func TestParseTime_AcceptedLayoutsAndFallback(t *testing.T) {
	t.Parallel()

	if got := parseTime("2026-03-14T09:26:53.5897Z"); got.IsZero() {
		t.Fatalf("parseTime rejected RFC3339Nano input")
	}
	if got := parseTime("2026-03-14T09:26:53Z"); got.IsZero() {
		t.Fatalf("parseTime rejected RFC3339 input")
	}
	if got := parseTime(""); !got.Equal(time.Time{}) {
		t.Fatalf("parseTime(\"\") = %v, want zero time", got)
	}
	if got := parseTime("yesterday"); !got.IsZero() {
		t.Fatalf("parseTime(garbage) = %v, want zero time", got)
	}
}

func TestUserDetailParsedTimestamps(t *testing.T) {
	t.Parallel()

	detail := UserDetail{
		CreatedAt:   "2025-11-02T08:00:00Z",
		UpdatedAt:   "2026-01-15T12:30:00Z",
		LastLoginAt: "",
	}
	if detail.ParsedCreatedAt().IsZero() {
		t.Fatalf("ParsedCreatedAt returned zero time for valid input")
	}
	if !detail.ParsedUpdatedAt().After(detail.ParsedCreatedAt()) {
		t.Fatalf("ParsedUpdatedAt not after ParsedCreatedAt")
	}
	if !detail.ParsedLastLoginAt().IsZero() {
		t.Fatalf("ParsedLastLoginAt = %v for never-logged-in user, want zero",
			detail.ParsedLastLoginAt())
	}
}
