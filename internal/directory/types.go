package directory

import (
	"time"
)

// Query is the user-controlled half of a list request: which page to fetch,
// how large a page, and which filters apply. An empty Search means no text
// filter; IncludeInactive false means only active users are returned.
//
// Query is a plain comparable value. The state layer depends on that: a
// completed fetch is committed only when its originating Query still equals
// the current one (compared with ==).
type Query struct {
	PageNumber      int
	PageSize        int
	Search          string
	IncludeInactive bool
}

// Page mirrors the paginated list payload returned by the directory service.
// Items preserve server order. The derived fields (TotalPages, HasNextPage,
// HasPreviousPage) are recomputed locally after decode so the paging
// invariants hold even against a backend that omits them.
type Page[T any] struct {
	Items           []T  `json:"items"`
	PageNumber      int  `json:"pageNumber"`
	PageSize        int  `json:"pageSize"`
	TotalCount      int  `json:"totalCount"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// NewPage assembles a page with the derived paging fields filled in.
func NewPage[T any](items []T, pageNumber, pageSize, totalCount int) Page[T] {
	p := Page[T]{
		Items:      items,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
	p.Normalize()
	return p
}

// Normalize recomputes TotalPages, HasNextPage and HasPreviousPage from the
// counted fields, and guarantees Items is non-nil.
func (p *Page[T]) Normalize() {
	if p.Items == nil {
		p.Items = []T{}
	}
	if p.PageSize > 0 {
		p.TotalPages = (p.TotalCount + p.PageSize - 1) / p.PageSize
	} else {
		p.TotalPages = 0
	}
	p.HasNextPage = p.PageNumber < p.TotalPages
	p.HasPreviousPage = p.PageNumber > 1
}

// User is the summary form of a directory record, as it appears in list
// responses.
type User struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	IsActive bool   `json:"isActive"`
}

// UserDetail is the full form of a directory record: the summary fields plus
// the editable fields (phone number, role assignments) and read-only audit
// timestamps.
type UserDetail struct {
	User
	PhoneNumber string   `json:"phoneNumber"`
	Roles       []string `json:"roles"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
	LastLoginAt string   `json:"lastLoginAt,omitempty"`
}

// normalize gives absent optional fields their explicit empty values so that
// nothing downstream has to distinguish "missing" from "empty".
func (d *UserDetail) normalize() {
	if d.Roles == nil {
		d.Roles = []string{}
	}
}

// UserUpdate is the full-replacement update payload. The service replaces the
// whole editable record with it, so every editable field is always present:
// Roles carries the complete assignment list even when the caller changed
// something else.
type UserUpdate struct {
	ID          string   `json:"id"`
	FullName    string   `json:"fullName"`
	PhoneNumber string   `json:"phoneNumber"`
	Roles       []string `json:"roles"`
}

// RolesResponse mirrors the role catalog payload.
type RolesResponse struct {
	Items []string `json:"items"`
}

// ParsedCreatedAt returns the creation timestamp as time.Time when possible.
func (d UserDetail) ParsedCreatedAt() time.Time {
	return parseTime(d.CreatedAt)
}

// ParsedUpdatedAt returns the last-modified timestamp as time.Time when possible.
func (d UserDetail) ParsedUpdatedAt() time.Time {
	return parseTime(d.UpdatedAt)
}

// ParsedLastLoginAt returns the last-login timestamp, zero when the user has
// never signed in.
func (d UserDetail) ParsedLastLoginAt() time.Time {
	return parseTime(d.LastLoginAt)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
