package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmapper/backend/internal/domain"
)

func TestPinRepo_CreateAndGetByTitle(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	alice := createUser(t, r)
	pin := createPin(t, r, alice, "Zytglogge")

	got, err := r.Pins.GetByTitle(ctx, alice.ID, "zytglogge")
	require.NoError(t, err)
	assert.Equal(t, pin.ID, got.ID)
	assert.Nil(t, got.TripID)

	// Another user's namespace is separate.
	bob := createUser(t, r)
	_, err = r.Pins.GetByTitle(ctx, bob.ID, "zytglogge")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPinRepo_ListForReconcile(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	alice := createUser(t, r)
	trip := createOwnedTrip(t, r, alice, "Alps 2026")

	linked := createPin(t, r, alice, "Eiger")
	require.NoError(t, r.Pins.SetTrip(ctx, linked.ID, &trip.ID))
	byTitle := createPin(t, r, alice, "Jungfrau")
	createPin(t, r, alice, "Unrelated")

	// Union of {linked to the trip} and {matching a target title}.
	pins, err := r.Pins.ListForReconcile(ctx, alice.ID, &trip.ID, []string{"jungfrau"})

	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(pins))
	for _, p := range pins {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{linked.ID, byTitle.ID}, ids)
}

func TestPinRepo_ListForReconcile_NilTripMatchesTitlesOnly(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	alice := createUser(t, r)
	trip := createOwnedTrip(t, r, alice, "Alps 2026")
	linked := createPin(t, r, alice, "Eiger")
	require.NoError(t, r.Pins.SetTrip(ctx, linked.ID, &trip.ID))
	byTitle := createPin(t, r, alice, "Jungfrau")

	pins, err := r.Pins.ListForReconcile(ctx, alice.ID, nil, []string{"jungfrau"})

	require.NoError(t, err)
	require.Len(t, pins, 1)
	assert.Equal(t, byTitle.ID, pins[0].ID)
}

func TestPinRepo_ListForReconcile_ScopedToUser(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	alice := createUser(t, r)
	bob := createUser(t, r)
	createPin(t, r, bob, "Eiger")

	pins, err := r.Pins.ListForReconcile(ctx, alice.ID, nil, []string{"eiger"})

	require.NoError(t, err)
	assert.Empty(t, pins, "another user's pins must never enter the working set")
}

func TestPinRepo_SetTripAndDetachAll(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	alice := createUser(t, r)
	trip := createOwnedTrip(t, r, alice, "Alps 2026")
	a := createPin(t, r, alice, "Eiger")
	b := createPin(t, r, alice, "Jungfrau")

	require.NoError(t, r.Pins.SetTrip(ctx, a.ID, &trip.ID))
	require.NoError(t, r.Pins.SetTrip(ctx, b.ID, &trip.ID))

	linked, err := r.Pins.ListByTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Len(t, linked, 2)

	require.NoError(t, r.Pins.DetachAllFromTrip(ctx, trip.ID))

	linked, err = r.Pins.ListByTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Empty(t, linked)

	// Pins themselves survive the detach.
	got, err := r.Pins.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.TripID)
}

func TestPinRepo_ListForUser_Paged(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	alice := createUser(t, r)
	for _, title := range []string{"Eiger", "Jungfrau", "Zytglogge"} {
		createPin(t, r, alice, title)
	}

	page := 1
	limit := 2
	pins, total, err := r.Pins.ListForUser(ctx, alice.ID, domain.PinFilter{},
		domain.NewPaginationParams(&page, &limit))

	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, pins, 2)
}

func TestPinRepo_Delete_ScopedToOwner(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	alice := createUser(t, r)
	bob := createUser(t, r)
	pin := createPin(t, r, alice, "Eiger")

	// Bob cannot delete Alice's pin.
	err := r.Pins.Delete(ctx, pin.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, r.Pins.Delete(ctx, pin.ID, alice.ID))
	_, err = r.Pins.GetByID(ctx, pin.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
