// Package logging configures the process-wide zap logger.
//
// Roster is a full-screen terminal program, so logs go to a file rather than
// stdout; writing to the terminal would corrupt the rendered UI. Setup
// installs the configured logger with zap.ReplaceGlobals and the rest of the
// code logs through zap.S(). Rosterd owns its terminal and uses Console
// instead.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Setup opens the log file (creating parent directories as needed), builds a
// JSON logger at the given level, and installs it as the zap global.
//
// The returned cleanup flushes and closes the file; it is always safe to
// call. When the file cannot be opened a no-op logger is installed instead
// and the error is returned for optional reporting: losing logs must never
// take the UI down.
func Setup(path, level string) (func(), error) {
	noop := func() {}

	if strings.TrimSpace(path) == "" {
		zap.ReplaceGlobals(zap.NewNop())
		return noop, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		zap.ReplaceGlobals(zap.NewNop())
		return noop, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		zap.ReplaceGlobals(zap.NewNop())
		return noop, fmt.Errorf("open log file: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(file),
		parseLevel(level),
	)
	logger := zap.New(core, zap.AddCaller())
	zap.ReplaceGlobals(logger)

	return func() {
		_ = logger.Sync()
		_ = file.Close()
	}, nil
}

// Console builds a human-readable logger on stderr and installs it as the
// zap global. The returned cleanup flushes buffered entries.
func Console(level string) func() {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		parseLevel(level),
	)
	logger := zap.New(core)
	zap.ReplaceGlobals(logger)
	return func() { _ = logger.Sync() }
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zap.DebugLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
