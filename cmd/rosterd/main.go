// Command rosterd runs an in-memory directory service speaking the roster
// API. It is meant for demos and end-to-end testing, not production use:
// every record lives in memory and disappears on exit.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/kestrad/roster/internal/directory"
	"github.com/kestrad/roster/internal/dirserver"
	"github.com/kestrad/roster/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", "127.0.0.1:7428", "listen address")
	token := flag.String("token", "", "require this bearer token (empty disables auth)")
	seedCount := flag.Int("seed", 45, "number of generated demo users")
	seedFile := flag.String("seed-file", "", "JSON fixture of user records to load instead")
	roles := flag.StringSlice("roles", []string{"admin", "editor", "viewer"}, "role catalog")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	cleanup := logging.Console(*logLevel)
	defer cleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	records := dirserver.NewStore[directory.UserDetail]("usr")
	if *seedFile != "" {
		if err := dirserver.LoadSeed(records, *seedFile); err != nil {
			fmt.Fprintf(os.Stderr, "rosterd: %v\n", err)
			return 1
		}
	} else {
		dirserver.Seed(records, *roles, *seedCount)
	}

	handler := dirserver.NewHandler(records, *roles, *token)
	if err := dirserver.Serve(ctx, *addr, handler.Router()); err != nil {
		fmt.Fprintf(os.Stderr, "rosterd: %v\n", err)
		return 1
	}
	return 0
}
