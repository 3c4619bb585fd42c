// Package config handles loading and parsing Roster configuration files.
//
// # Overview
//
// This package reads Roster's TOML configuration to discover the directory
// service endpoint, credentials, paging defaults, and logging destination.
// Everything has a sensible default, so Roster runs without any config file
// against a service on localhost.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/roster/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/roster/config.toml
//   - API endpoint: 127.0.0.1:7428
//   - API token: none (requests carry no Authorization header)
//   - Page size: 20
//   - Roles fallback: admin, editor, viewer
//   - Log file: ~/.local/state/roster/roster.log
//   - Log level: info
//
// # TOML Format
//
// Example roster config.toml:
//
//	api_addr = "127.0.0.1:7428"
//	api_token = "s3cret"
//	page_size = 25
//	roles = ["admin", "editor", "viewer", "auditor"]
//	log_file = "~/.local/state/roster/roster.log"
//	log_level = "debug"
//
// All fields are optional. Tilde expansion is performed automatically on
// paths. The roles list is only a fallback: at startup Roster asks the
// service for the live catalog and uses this list when that request fails.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//
// Missing config files are NOT an error - defaults are used instead.
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//		log.Fatalf("failed to load config: %v", err)
//	}
//	client, err := directory.NewClient(cfg.APIAddr, cfg.APIToken)
//
// # Design Philosophy
//
// The config package is read-only and stateless - it loads configuration
// once at startup and returns an immutable Config struct. No global state
// or singleton patterns are used.
package config
