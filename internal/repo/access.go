package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripmapper/backend/internal/domain"
)

// AccessRepo defines the persistence operations for a trip's sharing list.
type AccessRepo interface {
	// Grant inserts an access row. The composite primary key rejects
	// duplicate (trip, user) grants.
	Grant(ctx context.Context, a domain.Access) error

	// Get retrieves the access row for (tripID, userID).
	// Returns domain.ErrNotFound when the user has no access to the trip.
	Get(ctx context.Context, tripID, userID uuid.UUID) (domain.Access, error)

	// ListByTrip returns every access row for the trip, Owner first.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Access, error)

	// DeleteAllExcept removes every access row for the trip except the given
	// user's own row. Used by the full-replace sharing update.
	DeleteAllExcept(ctx context.Context, tripID, userID uuid.UUID) error
}

// pgAccessRepo is the Postgres implementation of AccessRepo.
type pgAccessRepo struct {
	db db
}

// NewAccessRepo constructs an AccessRepo backed by the provided db connection.
func NewAccessRepo(db db) AccessRepo {
	return &pgAccessRepo{db: db}
}

func (r *pgAccessRepo) Grant(ctx context.Context, a domain.Access) error {
	const q = `
		INSERT INTO trip_access (trip_id, user_id, level)
		VALUES (@trip_id, @user_id, @level)`

	args := pgx.NamedArgs{
		"trip_id": a.TripID,
		"user_id": a.UserID,
		"level":   string(a.Level),
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.AccessRepo.Grant: %w", err)
	}
	return nil
}

func (r *pgAccessRepo) Get(ctx context.Context, tripID, userID uuid.UUID) (domain.Access, error) {
	const q = `
		SELECT trip_id, user_id, level
		FROM trip_access
		WHERE trip_id = @trip_id AND user_id = @user_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	result, err := scanAccess(row)
	if err != nil {
		return domain.Access{}, fmt.Errorf("repo.AccessRepo.Get: %w", err)
	}
	return result, nil
}

func (r *pgAccessRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Access, error) {
	const q = `
		SELECT trip_id, user_id, level
		FROM trip_access
		WHERE trip_id = @trip_id
		ORDER BY level, user_id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.AccessRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	list := []domain.Access{}
	for rows.Next() {
		a, err := scanAccess(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.AccessRepo.ListByTrip: scan: %w", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AccessRepo.ListByTrip: rows: %w", err)
	}
	return list, nil
}

func (r *pgAccessRepo) DeleteAllExcept(ctx context.Context, tripID, userID uuid.UUID) error {
	const q = `
		DELETE FROM trip_access
		WHERE trip_id = @trip_id
		  AND user_id <> @user_id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID}); err != nil {
		return fmt.Errorf("repo.AccessRepo.DeleteAllExcept: %w", err)
	}
	return nil
}

// scanAccess maps a single database row into a domain.Access.
func scanAccess(s scanner) (domain.Access, error) {
	var (
		a      domain.Access
		tripID pgtype.UUID
		userID pgtype.UUID
		level  string
	)

	err := s.Scan(&tripID, &userID, &level)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Access{}, domain.ErrNotFound
		}
		return domain.Access{}, err
	}

	a.TripID = uuid.UUID(tripID.Bytes)
	a.UserID = uuid.UUID(userID.Bytes)
	a.Level = domain.AccessLevel(level)

	return a, nil
}
