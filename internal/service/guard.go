package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tripmapper/backend/internal/domain"
	"github.com/tripmapper/backend/internal/repo"
)

// ConcurrencyGuard performs the final, version-checked trip write of a
// mutating transaction. The caller supplies the version token it read before
// mutating; the write applies only if the stored token still matches,
// atomically with the write itself. Because the guarded statement runs last
// inside the unit of work, a mismatch rolls back every reconciliation write
// that preceded it. The contract is all-or-nothing across the whole logical
// transaction, not per row.
type ConcurrencyGuard struct{}

// CommitUpdate writes the trip's scalar fields under the token check and
// returns the stored record with its freshly generated version token.
// Returns domain.ErrVersionConflict when the token is stale; the caller must
// re-read and retry.
func (ConcurrencyGuard) CommitUpdate(ctx context.Context, r repo.Repos, trip domain.Trip, token []byte) (domain.Trip, error) {
	updated, err := r.Trips.UpdateVersioned(ctx, trip, token)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.ConcurrencyGuard.CommitUpdate: %w", err)
	}
	return updated, nil
}

// CommitDelete removes the trip row under the token check.
// Returns domain.ErrVersionConflict when the token is stale.
func (ConcurrencyGuard) CommitDelete(ctx context.Context, r repo.Repos, id uuid.UUID, token []byte) error {
	if err := r.Trips.DeleteVersioned(ctx, id, token); err != nil {
		return fmt.Errorf("service.ConcurrencyGuard.CommitDelete: %w", err)
	}
	return nil
}
