package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tripmapper/backend/internal/domain"
	"github.com/tripmapper/backend/internal/repo"
)

// AccessService maintains a trip's sharing list: exactly one Owner row,
// written at creation and never replaced, plus zero or more View rows.
// All methods operate on the repository bundle of the surrounding
// transaction, so access changes commit or roll back with the rest of the
// trip mutation.
type AccessService struct{}

// NewAccessService constructs an AccessService.
func NewAccessService() *AccessService {
	return &AccessService{}
}

// GrantOwner inserts the single Owner row at trip creation. It is never
// called again for the same trip.
func (s *AccessService) GrantOwner(ctx context.Context, r repo.Repos, tripID, userID uuid.UUID) error {
	err := r.Access.Grant(ctx, domain.Access{TripID: tripID, UserID: userID, Level: domain.AccessOwner})
	if err != nil {
		return fmt.Errorf("service.AccessService.GrantOwner: %w", err)
	}
	return nil
}

// ReplaceShared rebuilds the trip's non-owner sharing list from scratch:
// every access row except the caller's own is deleted, then one View row is
// inserted per resolved username. Unknown usernames and the caller's own
// username are silently skipped. This is deliberately a full replace, not a
// diff: even an unchanged target list is deleted and recreated.
func (s *AccessService) ReplaceShared(ctx context.Context, r repo.Repos, tripID, callerID uuid.UUID, usernames []string) error {
	if err := r.Access.DeleteAllExcept(ctx, tripID, callerID); err != nil {
		return fmt.Errorf("service.AccessService.ReplaceShared: %w", err)
	}

	granted := map[uuid.UUID]struct{}{}
	for _, username := range usernames {
		username = strings.TrimSpace(username)
		if username == "" {
			continue
		}

		user, err := r.Users.GetByUsername(ctx, username)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("service.AccessService.ReplaceShared: %w", err)
		}
		if user.ID == callerID {
			continue
		}
		if _, ok := granted[user.ID]; ok {
			continue
		}
		granted[user.ID] = struct{}{}

		grant := domain.Access{TripID: tripID, UserID: user.ID, Level: domain.AccessView}
		if err := r.Access.Grant(ctx, grant); err != nil {
			return fmt.Errorf("service.AccessService.ReplaceShared: %w", err)
		}
	}
	return nil
}

// RequireOwner verifies the user holds the Owner row on the trip.
// Returns domain.ErrForbidden otherwise, including when no access row exists.
func (s *AccessService) RequireOwner(ctx context.Context, r repo.Repos, tripID, userID uuid.UUID) error {
	access, err := r.Access.Get(ctx, tripID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("service.AccessService.RequireOwner: %w", domain.ErrForbidden)
	}
	if err != nil {
		return fmt.Errorf("service.AccessService.RequireOwner: %w", err)
	}
	if access.Level != domain.AccessOwner {
		return fmt.Errorf("service.AccessService.RequireOwner: %w", domain.ErrForbidden)
	}
	return nil
}

// RequireAny verifies the user holds any access row (Owner or View) on the
// trip. Returns domain.ErrForbidden otherwise.
func (s *AccessService) RequireAny(ctx context.Context, r repo.Repos, tripID, userID uuid.UUID) error {
	_, err := r.Access.Get(ctx, tripID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("service.AccessService.RequireAny: %w", domain.ErrForbidden)
	}
	if err != nil {
		return fmt.Errorf("service.AccessService.RequireAny: %w", err)
	}
	return nil
}
