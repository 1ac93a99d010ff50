package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"github.com/tripmapper/backend/internal/domain"
	"github.com/tripmapper/backend/internal/repo"
	"github.com/tripmapper/backend/migrations"
	"github.com/tripmapper/backend/testutil"
)

// TestMain runs before any test in the repo_test package.
// It applies all pending migrations to the test database so individual tests
// never need to think about schema state.
func TestMain(m *testing.M) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		// No test DB configured; every test skips via testutil.NewPool.
		os.Exit(m.Run())
	}

	// goose needs database/sql, not a pgx pool.
	db := testutil.MustOpenSQLDB(os.Getenv("TEST_DATABASE_URL"))
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		log.Fatalf("TestMain: create goose provider: %v", err)
	}

	if _, err := provider.Up(context.Background()); err != nil {
		log.Fatalf("TestMain: run migrations: %v", err)
	}

	os.Exit(m.Run())
}

// newTestTx opens a transaction against the test database. The transaction is
// rolled back when the test finishes, giving free per-test isolation.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})
	return tx
}

// newTestRepos returns a full repository bundle bound to one rollback-on-exit
// transaction.
func newTestRepos(t *testing.T) repo.Repos {
	t.Helper()
	return repo.NewRepos(newTestTx(t))
}

// createUser inserts a user with a unique username and returns it.
func createUser(t *testing.T, r repo.Repos) domain.User {
	t.Helper()
	u, err := r.Users.Create(context.Background(), domain.User{
		Username: "user-" + uuid.NewString()[:8],
	})
	require.NoError(t, err)
	return u
}

// createOwnedTrip inserts a trip plus its Owner access row for the user.
func createOwnedTrip(t *testing.T, r repo.Repos, owner domain.User, title string) domain.Trip {
	t.Helper()
	ctx := context.Background()

	trip, err := r.Trips.Create(ctx, domain.Trip{Title: title})
	require.NoError(t, err)

	err = r.Access.Grant(ctx, domain.Access{TripID: trip.ID, UserID: owner.ID, Level: domain.AccessOwner})
	require.NoError(t, err)
	return trip
}

// createPin inserts a pin owned by the user, with a category created on the fly.
func createPin(t *testing.T, r repo.Repos, owner domain.User, title string) domain.Pin {
	t.Helper()
	ctx := context.Background()

	cat, err := r.Categories.Create(ctx, domain.Category{
		Name:      "cat-" + uuid.NewString()[:8],
		ColorCode: "#336699",
		UserID:    owner.ID,
	})
	require.NoError(t, err)

	pin, err := r.Pins.Create(ctx, domain.Pin{
		Title:      title,
		CategoryID: cat.ID,
		UserID:     owner.ID,
	})
	require.NoError(t, err)
	return pin
}
