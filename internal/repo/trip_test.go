package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmapper/backend/internal/domain"
)

func TestTripRepo_Create(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	got, err := r.Trips.Create(ctx, domain.Trip{
		Title:       "Alps 2026",
		Description: "Two weeks in the Bernese Oberland",
		DateFrom:    &from,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated")
	assert.Equal(t, "Alps 2026", got.Title)
	require.NotNil(t, got.DateFrom)
	assert.True(t, got.DateFrom.Equal(from))
	assert.Len(t, got.RowVersion, 16, "row_version should be a fresh uuid")
	assert.False(t, got.CreatedAt.IsZero())
}

func TestTripRepo_GetByTitle_ScopedToOwner(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	alice := createUser(t, r)
	bob := createUser(t, r)
	createOwnedTrip(t, r, alice, "Alps 2026")

	// Case-insensitive hit for the owner.
	got, err := r.Trips.GetByTitle(ctx, alice.ID, "alps 2026")
	require.NoError(t, err)
	assert.Equal(t, "Alps 2026", got.Title)

	// The same title is free for a different user.
	_, err = r.Trips.GetByTitle(ctx, bob.ID, "alps 2026")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_ListForUser_IncludesSharedTrips(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	alice := createUser(t, r)
	bob := createUser(t, r)
	own := createOwnedTrip(t, r, alice, "Own Trip")
	shared := createOwnedTrip(t, r, bob, "Shared Trip")
	require.NoError(t, r.Access.Grant(ctx, domain.Access{TripID: shared.ID, UserID: alice.ID, Level: domain.AccessView}))
	createOwnedTrip(t, r, bob, "Private Trip")

	trips, err := r.Trips.ListForUser(ctx, alice.ID, domain.TripFilter{})

	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(trips))
	for _, tr := range trips {
		ids = append(ids, tr.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{own.ID, shared.ID}, ids)
}

func TestTripRepo_ListForUser_TitleFilter(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	alice := createUser(t, r)
	createOwnedTrip(t, r, alice, "Alps 2026")
	createOwnedTrip(t, r, alice, "Coastal Ride")

	trips, err := r.Trips.ListForUser(ctx, alice.ID, domain.TripFilter{Title: "alps"})

	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "Alps 2026", trips[0].Title)
}

func TestTripRepo_UpdateVersioned(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	alice := createUser(t, r)
	trip := createOwnedTrip(t, r, alice, "Alps 2026")

	trip.Title = "Alps, renamed"
	updated, err := r.Trips.UpdateVersioned(ctx, trip, trip.RowVersion)

	require.NoError(t, err)
	assert.Equal(t, "Alps, renamed", updated.Title)
	assert.NotEqual(t, trip.RowVersion, updated.RowVersion, "row_version must rotate on every guarded write")

	// The original token is now stale.
	_, err = r.Trips.UpdateVersioned(ctx, trip, trip.RowVersion)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	// The fresh token works.
	updated.Title = "Alps, again"
	_, err = r.Trips.UpdateVersioned(ctx, updated, updated.RowVersion)
	assert.NoError(t, err)
}

func TestTripRepo_UpdateVersioned_MalformedToken(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	alice := createUser(t, r)
	trip := createOwnedTrip(t, r, alice, "Alps 2026")

	_, err := r.Trips.UpdateVersioned(ctx, trip, []byte("short"))

	// A token of the wrong shape can never match; it reads as a conflict.
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
}

func TestTripRepo_DeleteVersioned(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	alice := createUser(t, r)
	trip := createOwnedTrip(t, r, alice, "Alps 2026")

	// Stale token first.
	err := r.Trips.DeleteVersioned(ctx, trip.ID, []byte("0123456789abcdef"))
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	// Real token succeeds and the row is gone.
	require.NoError(t, r.Trips.DeleteVersioned(ctx, trip.ID, trip.RowVersion))
	_, err = r.Trips.GetByID(ctx, trip.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
