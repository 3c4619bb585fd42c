package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kestrad/roster/internal/state"
)

// maxBackoff caps the retry spacing when the directory keeps failing.
const maxBackoff = 2 * time.Minute

// StartRefresher launches a background goroutine that reloads the user list
// at a fixed cadence, so the visible page tracks directory changes made
// elsewhere. It returns immediately; a non-positive interval disables the
// refresher entirely.
//
// While fetches are failing the cadence stretches exponentially up to
// maxBackoff, probing an unreachable service gently instead of hammering it.
// Stale results from refreshes that overlap a user gesture are discarded by
// the list store itself.
func StartRefresher(ctx context.Context, list *state.List, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			list.Load(ctx)

			wait := interval
			if failures := list.Snapshot().ConsecutiveFailures; failures > 0 {
				wait = calculateBackoff(failures, interval)
				zap.S().Debugw("list refresh failing, backing off",
					"failures", failures,
					"next", wait)
			}
			timer.Reset(wait)
		}
	}()
}

// calculateBackoff doubles base once per consecutive failure and caps the
// result at maxBackoff. It never returns less than base, so a failing
// service is not probed more often than a healthy one.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base >= maxBackoff {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
