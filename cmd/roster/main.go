package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/kestrad/roster/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override roster config path")
	apiAddr := flag.String("api", "", "directory service host:port (overrides config)")
	pageSize := flag.Int("page-size", 0, "users per page (overrides config)")
	refreshSeconds := flag.Int("refresh", 30, "background refresh interval in seconds (0 disables)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath:   *configPath,
		APIAddr:      *apiAddr,
		PageSize:     *pageSize,
		RefreshEvery: *refreshSeconds,
		LogLevel:     *logLevel,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "roster: %v\n", err)
		return 1
	}
	return 0
}
