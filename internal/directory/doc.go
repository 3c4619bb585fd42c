// Package directory provides an HTTP client for the directory service API.
//
// # Overview
//
// This package defines the API client for communicating with the directory
// service that owns the user records. It handles HTTP communication, JSON
// serialization, typed error mapping, and type-safe representation of user
// summaries, full records, and the role catalog.
//
// # Architecture
//
// The package is split into three files:
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: Data structures mirroring the directory API schema
//   - errors.go: Typed errors callers match on with errors.Is / errors.As
//
// # Client Usage
//
// Create a client using the API bind address and token from configuration:
//
//	client, err := directory.NewClient("127.0.0.1:7428", token)
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	// Fetch one page of the user list
//	page, err := client.FetchPage(ctx, directory.Query{PageNumber: 1, PageSize: 20})
//	if err != nil {
//		log.Printf("page fetch failed: %v", err)
//	}
//
//	// Fetch one full record
//	detail, err := client.FetchUser(ctx, "usr_000042")
//	if errors.Is(err, directory.ErrNotFound) {
//		log.Printf("user is gone")
//	}
//
// # API Endpoints
//
// The client supports the five operations the application needs:
//
//   - GET /api/v1/users: Paginated, filterable user list
//   - GET /api/v1/users/{id}: Full record for one user
//   - PUT /api/v1/users/{id}: Full replacement of the editable fields
//   - POST /api/v1/users/{id}/activate (and /deactivate): Idempotent status flips
//   - GET /api/v1/roles: Role catalog in canonical order
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json (and Content-Type on writes)
//   - Include User-Agent: roster/0.1 and a bearer token when configured
//   - Have a 10-second timeout (configurable via http.Client)
//   - Return wrapped errors with context about what failed
//
// # Error Handling
//
// Non-2xx responses are mapped onto typed errors:
//
//   - 404 becomes ErrNotFound (match with errors.Is)
//   - 422 becomes *ValidationError with per-field messages
//   - anything else becomes *APIError carrying status, code, and message
//
// Network failures and decode failures stay plain wrapped errors:
//
//   - "execute request: dial tcp: connection refused"
//   - "decode response: unexpected end of JSON input"
//
// UpdateUser additionally validates its payload before dispatch, so a blank
// full name never leaves the process.
//
// # Pagination
//
// List responses use the generic Page[T] shape. After decoding, the client
// renormalizes the derived fields (TotalPages, HasNextPage, HasPreviousPage)
// from TotalCount and PageSize, so the paging invariants hold even when the
// backend omits or miscomputes them. TotalPages is the ceiling of
// TotalCount/PageSize: 45 records at page size 20 yield 3 pages.
//
// # Thread Safety
//
// The Client struct is safe for concurrent use. The underlying http.Client
// handles connection pooling and concurrent requests internally.
//
// # Design Rationale
//
// The package is intentionally minimal:
//   - No caching (the state layer owns what is current)
//   - No retries (reissuing a query is the user's gesture)
//   - No request sequencing (the state layer discards stale completions)
//
// This keeps the client a thin, predictable transport while the interesting
// ordering decisions live in one place, internal/state.
package directory
