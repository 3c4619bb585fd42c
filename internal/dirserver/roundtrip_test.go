package dirserver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrad/roster/internal/directory"
)

// These tests drive the service through directory.Client instead of raw
// requests, covering the whole wire contract end to end: query encoding,
// envelope decoding, typed errors, and the shared page math.

func TestClientRoundTrip(t *testing.T) {
	srv, records := newServer(t, 45, "sekrit")

	client, err := directory.NewClient(srv.URL, "sekrit")
	require.NoError(t, err)
	ctx := context.Background()

	page, err := client.FetchPage(ctx, directory.Query{
		PageNumber:      2,
		PageSize:        20,
		IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Len(t, page.Items, 20)
	assert.Equal(t, 45, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNextPage)
	assert.True(t, page.HasPreviousPage)

	detail, err := client.FetchUser(ctx, page.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, page.Items[0].ID, detail.ID)
	assert.NotNil(t, detail.Roles)

	require.NoError(t, client.UpdateUser(ctx, detail.ID, directory.UserUpdate{
		ID:          detail.ID,
		FullName:    "Round Tripper",
		PhoneNumber: "555-0000",
		Roles:       []string{"viewer"},
	}))
	stored, ok := records.Get(detail.ID)
	require.True(t, ok)
	assert.Equal(t, "Round Tripper", stored.FullName)
	assert.Equal(t, "555-0000", stored.PhoneNumber)
	assert.Equal(t, []string{"viewer"}, stored.Roles)

	require.NoError(t, client.SetUserActive(ctx, detail.ID, false))
	stored, _ = records.Get(detail.ID)
	assert.False(t, stored.IsActive)
	require.NoError(t, client.SetUserActive(ctx, detail.ID, true))
	stored, _ = records.Get(detail.ID)
	assert.True(t, stored.IsActive)

	roles, err := client.ListRoles(ctx)
	require.NoError(t, err)
	assert.Equal(t, testRoles, roles)
}

func TestClientRoundTrip_TypedErrors(t *testing.T) {
	srv, _ := newServer(t, 5, "")

	client, err := directory.NewClient(srv.URL, "")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = client.FetchUser(ctx, "usr_999999")
	assert.ErrorIs(t, err, directory.ErrNotFound)

	// A blank role name passes the client's local checks and must come back
	// as the service's 422 with the field message intact.
	err = client.UpdateUser(ctx, "usr_000001", directory.UserUpdate{
		ID:       "usr_000001",
		FullName: "Fine Name",
		Roles:    []string{"admin", "   "},
	})
	var verr *directory.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "roles")
}

func TestClientRoundTrip_AuthFailure(t *testing.T) {
	srv, _ := newServer(t, 3, "sekrit")

	client, err := directory.NewClient(srv.URL, "wrong")
	require.NoError(t, err)

	_, err = client.FetchPage(context.Background(), directory.Query{PageNumber: 1, PageSize: 20})
	var aerr *directory.APIError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, 401, aerr.Status)
}
