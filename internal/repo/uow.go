package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UnitOfWork is the single persistence port consumed by the service layer.
// Do runs fn against a repository bundle bound to one database transaction:
// the transaction commits iff fn returns nil, otherwise every write made
// through the bundle is rolled back. Each public service operation runs as
// exactly one Do call, which is what makes trip mutations all-or-nothing.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(r Repos) error) error
}

// pgUnitOfWork is the pgx implementation of UnitOfWork.
type pgUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork constructs a UnitOfWork over the given connection pool.
func NewUnitOfWork(pool *pgxpool.Pool) UnitOfWork {
	return &pgUnitOfWork{pool: pool}
}

func (u *pgUnitOfWork) Do(ctx context.Context, fn func(r Repos) error) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.UnitOfWork.Do: begin: %w", err)
	}
	// Rollback after a successful commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.UnitOfWork.Do: commit: %w", err)
	}
	return nil
}
