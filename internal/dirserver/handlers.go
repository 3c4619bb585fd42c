// Package dirserver implements an in-memory directory service speaking the
// same HTTP API the roster client consumes. It exists so the TUI can be
// demonstrated and integration-tested without a real directory deployment.
package dirserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kestrad/roster/internal/directory"
)

// Handler holds the service state: the user records, the role catalog, and
// the optional bearer token requests must present.
type Handler struct {
	records *Store[directory.UserDetail]
	roles   []string
	token   string
}

// NewHandler creates a handler around the given record store and role
// catalog. An empty token disables authentication.
func NewHandler(records *Store[directory.UserDetail], roles []string, token string) *Handler {
	return &Handler{records: records, roles: roles, token: token}
}

// Router returns the fully mounted chi router for the service.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLog)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.authMiddleware)

		r.Get("/users", h.ListUsers)
		r.Get("/users/{id}", h.GetUser)
		r.Put("/users/{id}", h.UpdateUser)
		r.Post("/users/{id}/activate", h.Activate)
		r.Post("/users/{id}/deactivate", h.Deactivate)

		r.Get("/roles", h.ListRoles)
	})
	return r
}

// ListUsers handles GET /api/v1/users.
// Supports query params: pageNumber, pageSize, search, includeInactive.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	pageNumber := intParam(r, "pageNumber", 1)
	if pageNumber < 1 {
		pageNumber = 1
	}
	pageSize := intParam(r, "pageSize", 20)
	if pageSize < 1 {
		pageSize = 20
	}
	search := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))
	includeInactive := r.URL.Query().Get("includeInactive") == "true"

	matched := h.records.Filter(func(record directory.UserDetail) bool {
		if !includeInactive && !record.IsActive {
			return false
		}
		if search == "" {
			return true
		}
		return strings.Contains(strings.ToLower(record.UserName), search) ||
			strings.Contains(strings.ToLower(record.FullName), search) ||
			strings.Contains(strings.ToLower(record.Email), search)
	})

	total := len(matched)
	start := (pageNumber - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	users := make([]directory.User, 0, end-start)
	for _, record := range matched[start:end] {
		users = append(users, record.User)
	}

	writeJSON(w, http.StatusOK, directory.NewPage(users, pageNumber, pageSize, total))
}

// GetUser handles GET /api/v1/users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, ok := h.records.Get(id)
	if !ok {
		writeNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// UpdateUser handles PUT /api/v1/users/{id}. The payload replaces every
// editable field of the record; omitted fields become their empty values.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, ok := h.records.Get(id)
	if !ok {
		writeNotFound(w, id)
		return
	}

	var req directory.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	fields := map[string]string{}
	if req.ID != "" && req.ID != id {
		fields["id"] = "does not match requested user"
	}
	if strings.TrimSpace(req.FullName) == "" {
		fields["fullName"] = "must not be empty"
	}
	roles := make([]string, 0, len(req.Roles))
	for _, role := range req.Roles {
		trimmed := strings.TrimSpace(role)
		if trimmed == "" {
			fields["roles"] = "role names must not be empty"
			continue
		}
		roles = append(roles, trimmed)
	}
	if len(fields) > 0 {
		writeValidationErr(w, fields)
		return
	}

	record.FullName = strings.TrimSpace(req.FullName)
	record.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	record.Roles = roles
	record.UpdatedAt = now()
	h.records.Set(id, record)

	writeJSON(w, http.StatusOK, record)
}

// Activate handles POST /api/v1/users/{id}/activate.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

// Deactivate handles POST /api/v1/users/{id}/deactivate.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

// setActive flips IsActive. Both directions are idempotent: repeating a
// request leaves the record in the same state and still succeeds.
func (h *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id := chi.URLParam(r, "id")

	record, ok := h.records.Get(id)
	if !ok {
		writeNotFound(w, id)
		return
	}

	if record.IsActive != active {
		record.IsActive = active
		record.UpdatedAt = now()
		h.records.Set(id, record)
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRoles handles GET /api/v1/roles.
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	items := make([]string, len(h.roles))
	copy(items, h.roles)
	writeJSON(w, http.StatusOK, directory.RolesResponse{Items: items})
}

// authMiddleware enforces the bearer token when one is configured.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.token == "" {
			next.ServeHTTP(w, r)
			return
		}
		auth := r.Header.Get("Authorization")
		key := strings.TrimPrefix(auth, "Bearer ")
		if auth == "" || key == auth || key != h.token {
			writeErr(w, http.StatusUnauthorized, "authentication_invalid",
				"a valid bearer token is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		zap.S().Debugw("request",
			"method", r.Method,
			"path", r.URL.Path,
			"elapsed", time.Since(start))
	})
}

func intParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields,omitempty"`
	} `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeErr(w http.ResponseWriter, status int, code, message string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	writeJSON(w, status, body)
}

func writeNotFound(w http.ResponseWriter, id string) {
	writeErr(w, http.StatusNotFound, "not_found", "no user with id "+id)
}

func writeValidationErr(w http.ResponseWriter, fields map[string]string) {
	var body errorBody
	body.Error.Code = "validation_failed"
	body.Error.Message = "validation failed"
	body.Error.Fields = fields
	writeJSON(w, http.StatusUnprocessableEntity, body)
}
