package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kestrad/roster/internal/directory"
	"github.com/kestrad/roster/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 30 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 30 * time.Second},
		{"negative failures", -1, 30 * time.Second},
		{"one failure", 1, time.Minute},
		{"two failures capped", 2, 2 * time.Minute},
		{"three failures capped", 3, 2 * time.Minute},
		{"many failures capped", 10, 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_ShortBaseDoubles(t *testing.T) {
	base := 2 * time.Second
	want := []time.Duration{
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		32 * time.Second,
		64 * time.Second,
		2 * time.Minute, // 128s capped
	}
	for i, w := range want {
		if got := calculateBackoff(i+1, base); got != w {
			t.Errorf("calculateBackoff(%d, %v) = %v, want %v", i+1, base, got, w)
		}
	}
}

func TestCalculateBackoff_NeverBelowBaseOrAboveCap(t *testing.T) {
	for _, base := range []time.Duration{2 * time.Second, 30 * time.Second, 5 * time.Minute} {
		for failures := 0; failures <= 20; failures++ {
			got := calculateBackoff(failures, base)
			if got < base {
				t.Errorf("calculateBackoff(%d, %v) = %v, shrank below the base interval", failures, base, got)
			}
			if base < maxBackoff && got > maxBackoff {
				t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, base, got, maxBackoff)
			}
		}
	}
}

func TestCalculateBackoff_BaseAboveCapStaysPut(t *testing.T) {
	// An interval already slower than the cap is left alone.
	for _, failures := range []int{0, 3} {
		if got := calculateBackoff(failures, 5*time.Minute); got != 5*time.Minute {
			t.Errorf("calculateBackoff(%d, 5m) = %v, want 5m", failures, got)
		}
	}
}

// countingGateway serves empty pages and counts how many were asked for.
type countingGateway struct {
	pages atomic.Int64
}

func (g *countingGateway) FetchPage(ctx context.Context, query directory.Query) (directory.Page[directory.User], error) {
	g.pages.Add(1)
	return directory.NewPage[directory.User](nil, query.PageNumber, query.PageSize, 0), nil
}

func (g *countingGateway) FetchUser(context.Context, string) (directory.UserDetail, error) {
	return directory.UserDetail{}, errors.New("not scripted")
}

func (g *countingGateway) UpdateUser(context.Context, string, directory.UserUpdate) error {
	return errors.New("not scripted")
}

func (g *countingGateway) SetUserActive(context.Context, string, bool) error {
	return errors.New("not scripted")
}

func (g *countingGateway) ListRoles(context.Context) ([]string, error) {
	return nil, errors.New("not scripted")
}

func TestStartRefresher_NonPositiveIntervalDisables(t *testing.T) {
	gw := &countingGateway{}
	queries := state.NewQueries(directory.Query{PageNumber: 1, PageSize: 20})
	list := state.NewList(gw, queries)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartRefresher(ctx, list, 0)
	StartRefresher(ctx, list, -time.Second)

	time.Sleep(30 * time.Millisecond)
	if got := gw.pages.Load(); got != 0 {
		t.Fatalf("fetches = %d with the refresher disabled, want 0", got)
	}
}

func TestStartRefresher_ReloadsUntilCancelled(t *testing.T) {
	gw := &countingGateway{}
	queries := state.NewQueries(directory.Query{PageNumber: 1, PageSize: 20})
	list := state.NewList(gw, queries)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartRefresher(ctx, list, 5*time.Millisecond)

	deadline := time.After(2 * time.Second)
	for gw.pages.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("refresher issued %d fetches, want at least 2", gw.pages.Load())
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	// A fetch already past the select may still land; wait it out, then
	// confirm the count has stopped moving.
	time.Sleep(50 * time.Millisecond)
	settled := gw.pages.Load()
	time.Sleep(50 * time.Millisecond)
	if got := gw.pages.Load(); got != settled {
		t.Fatalf("fetches kept arriving after cancel: %d then %d", settled, got)
	}
}
