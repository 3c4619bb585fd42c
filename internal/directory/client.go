package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Gateway defines the directory operations the state layer depends on.
// This interface is implemented by *Client and by scripted fakes in tests.
type Gateway interface {
	FetchPage(ctx context.Context, query Query) (Page[User], error)
	FetchUser(ctx context.Context, id string) (UserDetail, error)
	UpdateUser(ctx context.Context, id string, update UserUpdate) error
	SetUserActive(ctx context.Context, id string, active bool) error
	ListRoles(ctx context.Context) ([]string, error)
}

// Ensure Client implements Gateway at compile time.
var _ Gateway = (*Client)(nil)

// Client talks to the directory service HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	token     string
	userAgent string
}

const (
	defaultAPIBind   = "127.0.0.1:7428"
	defaultUserAgent = "roster/0.1"
	requestTimeout   = 10 * time.Second

	maxErrorBody = 64 << 10
)

// NewClient builds a Client using the provided apiBind host:port value.
// token is attached as a bearer token when non-empty.
func NewClient(apiBind, token string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		token:     token,
		userAgent: defaultUserAgent,
	}, nil
}

// FetchPage retrieves one page of the user list for the given query.
func (c *Client) FetchPage(ctx context.Context, query Query) (Page[User], error) {
	if c == nil {
		return Page[User]{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("pageNumber", strconv.Itoa(query.PageNumber))
	values.Set("pageSize", strconv.Itoa(query.PageSize))
	if search := strings.TrimSpace(query.Search); search != "" {
		values.Set("search", search)
	}
	if query.IncludeInactive {
		values.Set("includeInactive", "true")
	}

	var page Page[User]
	if err := c.do(ctx, http.MethodGet, "/api/v1/users?"+values.Encode(), nil, &page); err != nil {
		return Page[User]{}, err
	}
	page.Normalize()
	return page, nil
}

// FetchUser retrieves the full record for one user. It returns ErrNotFound
// when the id does not exist on the service.
func (c *Client) FetchUser(ctx context.Context, id string) (UserDetail, error) {
	if c == nil {
		return UserDetail{}, fmt.Errorf("client is nil")
	}
	var detail UserDetail
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/"+id, nil, &detail); err != nil {
		return UserDetail{}, err
	}
	detail.normalize()
	return detail, nil
}

// UpdateUser replaces the editable fields of a user with the given payload.
// Malformed payloads are rejected locally before any request is dispatched.
func (c *Client) UpdateUser(ctx context.Context, id string, update UserUpdate) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	fields := map[string]string{}
	if update.ID != id {
		fields["id"] = "does not match requested user"
	}
	if strings.TrimSpace(update.FullName) == "" {
		fields["fullName"] = "must not be empty"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	if update.Roles == nil {
		update.Roles = []string{}
	}
	return c.do(ctx, http.MethodPut, "/api/v1/users/"+id, update, nil)
}

// SetUserActive activates or deactivates a user. The service treats both
// directions as idempotent.
func (c *Client) SetUserActive(ctx context.Context, id string, active bool) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	action := "deactivate"
	if active {
		action = "activate"
	}
	return c.do(ctx, http.MethodPost, "/api/v1/users/"+id+"/"+action, nil, nil)
}

// ListRoles retrieves the role catalog in its canonical order.
func (c *Client) ListRoles(ctx context.Context) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload RolesResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/roles", nil, &payload); err != nil {
		return nil, err
	}
	if payload.Items == nil {
		payload.Items = []string{}
	}
	return payload.Items, nil
}

func (c *Client) do(ctx context.Context, method, pathAndQuery string, body, out any) error {
	rel, err := url.Parse(pathAndQuery)
	if err != nil {
		return fmt.Errorf("parse request path: %w", err)
	}
	u := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()
	zap.S().Debugw("directory request",
		"method", method,
		"path", u.Path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errorFromResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type errorEnvelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields,omitempty"`
	} `json:"error"`
}

// errorFromResponse maps a non-2xx response onto the typed errors callers
// match on: 404 to ErrNotFound, 422 to ValidationError, everything else to
// APIError. A body that fails to decode leaves the envelope empty, which
// still yields a usable status-only error.
func errorFromResponse(resp *http.Response) error {
	var envelope errorEnvelope
	_ = json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&envelope)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnprocessableEntity:
		fields := envelope.Error.Fields
		if len(fields) == 0 {
			message := envelope.Error.Message
			if message == "" {
				message = "rejected by service"
			}
			fields = map[string]string{"request": message}
		}
		return &ValidationError{Fields: fields}
	}
	return &APIError{
		Status:  resp.StatusCode,
		Code:    envelope.Error.Code,
		Message: envelope.Error.Message,
	}
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_addr %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
