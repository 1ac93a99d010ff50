// Package repo contains all database access logic for the TripMapper backend.
// Each entity has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly lets the unit of
// work bind every repository to one transaction, and lets integration tests
// pass a transaction that is rolled back after each test for free isolation.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scanX
// helpers to be reused for QueryRow and Query calls alike.
type scanner interface {
	Scan(dest ...any) error
}

// Repos bundles every repository bound to a single db handle. Services
// receive a Repos inside a unit-of-work callback and never see the handle.
type Repos struct {
	Trips      TripRepo
	Pins       PinRepo
	Photos     PhotoRepo
	Access     AccessRepo
	Users      UserRepo
	Categories CategoryRepo
}

// NewRepos constructs the full repository bundle over one db handle.
func NewRepos(db db) Repos {
	return Repos{
		Trips:      NewTripRepo(db),
		Pins:       NewPinRepo(db),
		Photos:     NewPhotoRepo(db),
		Access:     NewAccessRepo(db),
		Users:      NewUserRepo(db),
		Categories: NewCategoryRepo(db),
	}
}
