package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestSetup_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "roster.log")

	cleanup, err := Setup(path, "info")
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}

	zap.S().Infow("hello from test", "component", "logging_test")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello from test") {
		t.Fatalf("log file missing message: %q", content)
	}
	if !strings.Contains(content, `"component":"logging_test"`) {
		t.Fatalf("log file missing structured field: %q", content)
	}
}

func TestSetup_LevelFiltersDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.log")

	cleanup, err := Setup(path, "info")
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}

	zap.S().Debugw("too quiet to ship")
	zap.S().Warnw("loud enough")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(data)
	if strings.Contains(content, "too quiet to ship") {
		t.Fatalf("debug message leaked through info level: %q", content)
	}
	if !strings.Contains(content, "loud enough") {
		t.Fatalf("warn message missing: %q", content)
	}
}

func TestSetup_EmptyPathInstallsNop(t *testing.T) {
	cleanup, err := Setup("", "debug")
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	// Must not panic with the no-op global installed.
	zap.S().Infow("goes nowhere")
	cleanup()
}

func TestSetup_UnopenableFileDegrades(t *testing.T) {
	dir := t.TempDir()
	// A directory at the target path makes OpenFile fail.
	path := filepath.Join(dir, "taken")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	cleanup, err := Setup(path, "info")
	if err == nil {
		t.Fatalf("Setup returned nil error for unopenable file")
	}
	zap.S().Infow("still must not panic")
	cleanup()
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "debug",
		"  WARN ": "warn",
		"warning": "warn",
		"error":   "error",
		"info":    "info",
		"":        "info",
		"bogus":   "info",
	}
	for input, want := range cases {
		if got := parseLevel(input).String(); got != want {
			t.Fatalf("parseLevel(%q) = %s, want %s", input, got, want)
		}
	}
}
