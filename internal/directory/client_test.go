package directory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIBind {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIBind)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_FetchesEndpointsAndEncodesQueries(t *testing.T) {
	t.Parallel()

	var gotListQuery url.Values
	var gotUserAgent string
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/v1/users":
			gotListQuery = r.URL.Query()
			// TotalPages deliberately wrong so the client has to recompute it.
			_ = json.NewEncoder(w).Encode(Page[User]{
				Items:      []User{{ID: "usr_000001", UserName: "jdoe", FullName: "Jane Doe"}},
				PageNumber: 2,
				PageSize:   20,
				TotalCount: 45,
				TotalPages: 99,
			})
		case "/api/v1/users/usr_000007":
			_, _ = w.Write([]byte(`{"id":"usr_000007","userName":"kprice","fullName":"Kay Price","isActive":true,"roles":null}`))
		case "/api/v1/roles":
			_ = json.NewEncoder(w).Encode(RolesResponse{Items: []string{"admin", "editor", "viewer"}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "sekrit")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	page, err := c.FetchPage(ctx, Query{
		PageNumber:      2,
		PageSize:        20,
		Search:          "  doe ",
		IncludeInactive: true,
	})
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	if gotListQuery.Get("pageNumber") != "2" ||
		gotListQuery.Get("pageSize") != "20" ||
		gotListQuery.Get("search") != "doe" ||
		gotListQuery.Get("includeInactive") != "true" {
		t.Fatalf("FetchPage query = %v, want params encoded with search trimmed", gotListQuery)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "usr_000001" {
		t.Fatalf("FetchPage items = %#v, want 1 item usr_000001", page.Items)
	}
	if page.TotalPages != 3 || !page.HasNextPage || !page.HasPreviousPage {
		t.Fatalf("FetchPage paging = pages=%d next=%v prev=%v, want 3/true/true",
			page.TotalPages, page.HasNextPage, page.HasPreviousPage)
	}

	detail, err := c.FetchUser(ctx, "usr_000007")
	if err != nil {
		t.Fatalf("FetchUser returned error: %v", err)
	}
	if detail.FullName != "Kay Price" {
		t.Fatalf("FetchUser detail = %#v, want Kay Price", detail)
	}
	if detail.Roles == nil {
		t.Fatalf("FetchUser roles = nil, want empty slice after normalize")
	}

	roles, err := c.ListRoles(ctx)
	if err != nil {
		t.Fatalf("ListRoles returned error: %v", err)
	}
	if len(roles) != 3 || roles[0] != "admin" {
		t.Fatalf("ListRoles = %v, want catalog order starting with admin", roles)
	}

	if gotUserAgent == "" || !strings.HasPrefix(gotUserAgent, "roster/") {
		t.Fatalf("User-Agent = %q, want roster/*", gotUserAgent)
	}
	if gotAuth != "Bearer sekrit" {
		t.Fatalf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestClient_UpdateUserSendsFullReplacement(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath, gotContentType string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	err = c.UpdateUser(context.Background(), "usr_000002", UserUpdate{
		ID:       "usr_000002",
		FullName: "Robin Venn",
	})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}

	if gotMethod != http.MethodPut || gotPath != "/api/v1/users/usr_000002" {
		t.Fatalf("request = %s %s, want PUT /api/v1/users/usr_000002", gotMethod, gotPath)
	}
	if gotContentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", gotContentType)
	}
	roles, ok := gotBody["roles"].([]any)
	if !ok {
		t.Fatalf("body roles = %#v, want explicit empty array", gotBody["roles"])
	}
	if len(roles) != 0 {
		t.Fatalf("body roles = %v, want empty", roles)
	}
	if gotBody["fullName"] != "Robin Venn" || gotBody["phoneNumber"] != "" {
		t.Fatalf("body = %#v, want every editable field present", gotBody)
	}
}

func TestClient_UpdateUserValidatesBeforeDispatch(t *testing.T) {
	t.Parallel()

	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	err = c.UpdateUser(context.Background(), "usr_000002", UserUpdate{
		ID:       "usr_000002",
		FullName: "   ",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("UpdateUser error = %v, want ValidationError", err)
	}
	if _, ok := verr.Fields["fullName"]; !ok {
		t.Fatalf("ValidationError fields = %v, want fullName entry", verr.Fields)
	}

	err = c.UpdateUser(context.Background(), "usr_000002", UserUpdate{
		ID:       "usr_000009",
		FullName: "Robin Venn",
	})
	if !errors.As(err, &verr) {
		t.Fatalf("UpdateUser error = %v, want ValidationError for id mismatch", err)
	}

	if hits != 0 {
		t.Fatalf("server hits = %d, want 0 for locally rejected payloads", hits)
	}
}

func TestClient_SetUserActiveTargetsActionEndpoints(t *testing.T) {
	t.Parallel()

	var gotPaths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		gotPaths = append(gotPaths, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if err := c.SetUserActive(context.Background(), "usr_000003", true); err != nil {
		t.Fatalf("SetUserActive(true) returned error: %v", err)
	}
	if err := c.SetUserActive(context.Background(), "usr_000003", false); err != nil {
		t.Fatalf("SetUserActive(false) returned error: %v", err)
	}

	want := []string{"/api/v1/users/usr_000003/activate", "/api/v1/users/usr_000003/deactivate"}
	if len(gotPaths) != 2 || gotPaths[0] != want[0] || gotPaths[1] != want[1] {
		t.Fatalf("paths = %v, want %v", gotPaths, want)
	}
}

func TestClient_MapsTypedErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/users/gone":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":"not_found","message":"no such user"}}`))
		case "/api/v1/users/bad":
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error":{"code":"validation_failed","message":"validation failed","fields":{"fullName":"must not be empty"}}}`))
		case "/api/v1/users/boom":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"code":"internal","message":"storage offline"}}`))
		case "/api/v1/roles":
			_, _ = w.Write([]byte("{not-json"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	_, err = c.FetchUser(ctx, "gone")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("FetchUser(gone) error = %v, want ErrNotFound", err)
	}

	err = c.UpdateUser(ctx, "bad", UserUpdate{ID: "bad", FullName: "x"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("UpdateUser(bad) error = %v, want ValidationError", err)
	}
	if verr.Fields["fullName"] != "must not be empty" {
		t.Fatalf("ValidationError fields = %v, want service message preserved", verr.Fields)
	}

	_, err = c.FetchUser(ctx, "boom")
	var aerr *APIError
	if !errors.As(err, &aerr) {
		t.Fatalf("FetchUser(boom) error = %v, want APIError", err)
	}
	if aerr.Status != http.StatusInternalServerError || aerr.Message != "storage offline" {
		t.Fatalf("APIError = %#v, want status 500 with message", aerr)
	}

	_, err = c.ListRoles(ctx)
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("ListRoles error = %v, want decode response error", err)
	}
}
