package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields Roster needs to reach and render the directory.
type Config struct {
	APIAddr  string
	APIToken string
	PageSize int
	Roles    []string
	LogFile  string
	LogLevel string
}

const (
	defaultConfigPath = "~/.config/roster/config.toml"
	defaultAPIAddr    = "127.0.0.1:7428"
	defaultPageSize   = 20
	defaultLogFile    = "~/.local/state/roster/roster.log"
	defaultLogLevel   = "info"
)

// defaultRoles is the fallback role catalog used when the directory service
// does not answer the catalog request and the config file names none.
var defaultRoles = []string{"admin", "editor", "viewer"}

// Load locates and parses the roster config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIAddr  string   `toml:"api_addr"`
		APIToken string   `toml:"api_token"`
		PageSize int      `toml:"page_size"`
		Roles    []string `toml:"roles"`
		LogFile  string   `toml:"log_file"`
		LogLevel string   `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIAddr = strings.TrimSpace(raw.APIAddr)
	if cfg.APIAddr == "" {
		cfg.APIAddr = defaultAPIAddr
	}

	cfg.APIToken = strings.TrimSpace(raw.APIToken)

	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}

	if roles := cleanRoles(raw.Roles); len(roles) > 0 {
		cfg.Roles = roles
	}

	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = logFile
	}
	cfg.LogFile = mustExpand(cfg.LogFile)

	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		cfg.LogLevel = level
	}

	return cfg, nil
}

func defaults() Config {
	roles := make([]string, len(defaultRoles))
	copy(roles, defaultRoles)
	return Config{
		APIAddr:  defaultAPIAddr,
		PageSize: defaultPageSize,
		Roles:    roles,
		LogFile:  mustExpand(defaultLogFile),
		LogLevel: defaultLogLevel,
	}
}

func cleanRoles(roles []string) []string {
	cleaned := make([]string, 0, len(roles))
	for _, role := range roles {
		if trimmed := strings.TrimSpace(role); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
