package directory

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound reports that the requested user does not exist on the service.
// Callers match it with errors.Is.
var ErrNotFound = errors.New("user not found")

// ValidationError reports a rejected write: either caught locally before the
// request is dispatched, or returned by the service with status 422. Fields
// maps field names to human-readable messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// APIError is a non-2xx response from the service that is not otherwise
// typed, carrying whatever the error envelope contained.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api returned status %d", e.Status)
}
