package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kestrad/roster/internal/config"
	"github.com/kestrad/roster/internal/directory"
	"github.com/kestrad/roster/internal/logging"
	"github.com/kestrad/roster/internal/prefs"
	"github.com/kestrad/roster/internal/state"
	"github.com/kestrad/roster/internal/ui"
)

// Options configure the Roster application.
type Options struct {
	ConfigPath   string
	PrefsPath    string // empty uses default ~/.config/roster/prefs.toml
	APIAddr      string // overrides config when non-empty
	PageSize     int    // overrides config when positive
	RefreshEvery int    // seconds between background list refreshes; non-positive disables
	LogLevel     string // overrides config when non-empty
}

// Run boots the Roster TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load roster config: %w", err)
	}
	if opts.APIAddr != "" {
		cfg.APIAddr = opts.APIAddr
	}
	if opts.PageSize > 0 {
		cfg.PageSize = opts.PageSize
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	cleanup, logErr := logging.Setup(cfg.LogFile, cfg.LogLevel)
	defer cleanup()
	if logErr != nil {
		// The TUI owns the terminal from here on; stderr is the one place
		// this can still be seen, after exit if nothing else.
		fmt.Fprintf(os.Stderr, "roster: logging disabled: %v\n", logErr)
	}
	zap.S().Infow("roster starting", "api", cfg.APIAddr, "pageSize", cfg.PageSize)
	defer zap.S().Infow("roster stopped")

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := directory.NewClient(cfg.APIAddr, cfg.APIToken)
	if err != nil {
		return fmt.Errorf("init directory client: %w", err)
	}

	queries := state.NewQueries(directory.Query{
		PageNumber:      1,
		PageSize:        cfg.PageSize,
		IncludeInactive: userPrefs.IncludeInactive,
	})
	list := state.NewList(client, queries)
	editor := state.NewEditor(client, roleCatalog(ctx, client, cfg.Roles))

	// Every committed query change refetches. The commit gate inside the
	// list store keeps late responses for older queries out of the cache.
	queries.SetOnChange(func(directory.Query) {
		go list.Load(ctx)
	})

	StartRefresher(ctx, list, time.Duration(opts.RefreshEvery)*time.Second)

	// First page in flight before the UI draws; the list view shows its
	// loading state until the response lands.
	go list.Load(ctx)

	return ui.Run(ui.Options{
		Context:   ctx,
		Queries:   queries,
		List:      list,
		Editor:    editor,
		APIAddr:   cfg.APIAddr,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	})
}

// roleCatalog asks the service for its role catalog and falls back to the
// configured list when the request fails or comes back empty.
func roleCatalog(ctx context.Context, client *directory.Client, configured []string) []string {
	fetched, err := client.ListRoles(ctx)
	if err != nil {
		zap.S().Warnw("role catalog unavailable, using configured roles", "error", err)
		return configured
	}
	if len(fetched) == 0 {
		return configured
	}
	return fetched
}
