package ui

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestClassifyConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{errors.New("dial tcp 127.0.0.1:8080: connect: connection refused"), "OFFLINE"},
		{errors.New("dial tcp: lookup rosterd.internal: no such host"), "HOST NOT FOUND"},
		{errors.New(`Get "http://localhost:8080/api/users": context deadline exceeded`), "TIMEOUT"},
		{errors.New("read tcp 10.0.0.2:51304: i/o timeout"), "TIMEOUT"},
		{errors.New("unexpected EOF"), "ERROR"},
	}
	for _, tt := range tests {
		if got := classifyConnectionError(tt.err); got != tt.want {
			t.Fatalf("classifyConnectionError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	var m Model

	if got := m.formatTimestamp(); got != "" {
		t.Fatalf("formatTimestamp() with no update = %q, want empty", got)
	}

	m.listSnap.LastUpdated = time.Now().Add(-30 * time.Second)
	if got := m.formatTimestamp(); !strings.HasSuffix(got, "(now)") {
		t.Fatalf("formatTimestamp() = %q, want (now) suffix", got)
	}

	m.listSnap.LastUpdated = time.Now().Add(-5 * time.Minute)
	if got := m.formatTimestamp(); !strings.HasSuffix(got, "(5m ago)") {
		t.Fatalf("formatTimestamp() = %q, want (5m ago) suffix", got)
	}

	m.listSnap.LastUpdated = time.Now().Add(-3 * time.Hour)
	if got := m.formatTimestamp(); !strings.HasSuffix(got, "(3h ago)") {
		t.Fatalf("formatTimestamp() = %q, want (3h ago) suffix", got)
	}

	// Updates older than a day show the bare clock time.
	m.listSnap.LastUpdated = time.Now().Add(-48 * time.Hour)
	if got := m.formatTimestamp(); strings.Contains(got, "ago") || strings.Contains(got, "now") {
		t.Fatalf("formatTimestamp() = %q, want bare clock time", got)
	}
}
