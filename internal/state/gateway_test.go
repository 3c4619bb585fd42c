package state

import (
	"context"
	"errors"

	"github.com/kestrad/roster/internal/directory"
)

// scriptedGateway implements directory.Gateway with per-test function
// fields. Unset operations fail loudly so a test cannot silently exercise a
// path it did not script.
type scriptedGateway struct {
	fetchPage     func(ctx context.Context, query directory.Query) (directory.Page[directory.User], error)
	fetchUser     func(ctx context.Context, id string) (directory.UserDetail, error)
	updateUser    func(ctx context.Context, id string, update directory.UserUpdate) error
	setUserActive func(ctx context.Context, id string, active bool) error
	listRoles     func(ctx context.Context) ([]string, error)
}

var _ directory.Gateway = (*scriptedGateway)(nil)

func (g *scriptedGateway) FetchPage(ctx context.Context, query directory.Query) (directory.Page[directory.User], error) {
	if g.fetchPage == nil {
		return directory.Page[directory.User]{}, errors.New("unscripted FetchPage call")
	}
	return g.fetchPage(ctx, query)
}

func (g *scriptedGateway) FetchUser(ctx context.Context, id string) (directory.UserDetail, error) {
	if g.fetchUser == nil {
		return directory.UserDetail{}, errors.New("unscripted FetchUser call")
	}
	return g.fetchUser(ctx, id)
}

func (g *scriptedGateway) UpdateUser(ctx context.Context, id string, update directory.UserUpdate) error {
	if g.updateUser == nil {
		return errors.New("unscripted UpdateUser call")
	}
	return g.updateUser(ctx, id, update)
}

func (g *scriptedGateway) SetUserActive(ctx context.Context, id string, active bool) error {
	if g.setUserActive == nil {
		return errors.New("unscripted SetUserActive call")
	}
	return g.setUserActive(ctx, id, active)
}

func (g *scriptedGateway) ListRoles(ctx context.Context) ([]string, error) {
	if g.listRoles == nil {
		return nil, errors.New("unscripted ListRoles call")
	}
	return g.listRoles(ctx)
}

func intp(v int) *int { return &v }

func strp(v string) *string { return &v }

func boolp(v bool) *bool { return &v }
