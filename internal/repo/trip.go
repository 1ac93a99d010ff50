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

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
//
// UpdateVersioned and DeleteVersioned are the guarded writes: they apply only
// if the stored row_version still equals the supplied token, atomically with
// the write itself, and return domain.ErrVersionConflict otherwise. Callers
// must have verified the trip exists earlier in the same transaction so that
// a zero-row result is unambiguously a conflict.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record with the
	// DB-generated id, row_version, and timestamps populated.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// GetByTitle retrieves the trip owned by ownerID whose normalized title
	// equals titleNorm. Returns domain.ErrNotFound when the title is free.
	GetByTitle(ctx context.Context, ownerID uuid.UUID, titleNorm string) (domain.Trip, error)

	// ListForUser returns all trips the user holds any access row on,
	// narrowed by the filter, ordered by creation time descending.
	ListForUser(ctx context.Context, userID uuid.UUID, f domain.TripFilter) ([]domain.Trip, error)

	// UpdateVersioned overwrites the trip's scalar fields and regenerates
	// row_version, but only if the stored row_version equals token.
	// Returns domain.ErrVersionConflict if the token is stale.
	UpdateVersioned(ctx context.Context, trip domain.Trip, token []byte) (domain.Trip, error)

	// DeleteVersioned removes the trip row under the same token check.
	// Returns domain.ErrVersionConflict if the token is stale.
	DeleteVersioned(ctx context.Context, id uuid.UUID, token []byte) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (title, description, date_from, date_visited)
		VALUES (@title, @description, @date_from, @date_visited)
		RETURNING id, title, description, date_from, date_visited, row_version, created_at, updated_at`

	args := pgx.NamedArgs{
		"title":        trip.Title,
		"description":  trip.Description,
		"date_from":    trip.DateFrom, // nil becomes NULL
		"date_visited": trip.DateVisited,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT id, title, description, date_from, date_visited, row_version, created_at, updated_at
		FROM trips
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetByTitle scopes the lookup to trips the owner holds the Owner row on;
// title uniqueness is per owning user, not global.
func (r *pgTripRepo) GetByTitle(ctx context.Context, ownerID uuid.UUID, titleNorm string) (domain.Trip, error) {
	const q = `
		SELECT t.id, t.title, t.description, t.date_from, t.date_visited, t.row_version, t.created_at, t.updated_at
		FROM trips t
		JOIN trip_access a ON a.trip_id = t.id AND a.level = 'Owner'
		WHERE a.user_id = @owner_id
		  AND lower(t.title) = @title`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "title": titleNorm})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByTitle: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) ListForUser(ctx context.Context, userID uuid.UUID, f domain.TripFilter) ([]domain.Trip, error) {
	const q = `
		SELECT t.id, t.title, t.description, t.date_from, t.date_visited, t.row_version, t.created_at, t.updated_at
		FROM trips t
		JOIN trip_access a ON a.trip_id = t.id
		WHERE a.user_id = @user_id
		  AND (@title = '' OR t.title ILIKE '%' || @title || '%')
		  AND (@date_from::date IS NULL OR t.date_from >= @date_from)
		  AND (@date_to::date IS NULL OR t.date_from <= @date_to)
		ORDER BY t.created_at DESC`

	args := pgx.NamedArgs{
		"user_id":   userID,
		"title":     f.Title,
		"date_from": f.DateFrom,
		"date_to":   f.DateTo,
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListForUser: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListForUser: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListForUser: rows: %w", err)
	}
	return trips, nil
}

func (r *pgTripRepo) UpdateVersioned(ctx context.Context, trip domain.Trip, token []byte) (domain.Trip, error) {
	expected, err := versionToken(token)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.UpdateVersioned: %w", err)
	}

	const q = `
		UPDATE trips
		SET title        = @title,
		    description  = @description,
		    date_from    = @date_from,
		    date_visited = @date_visited,
		    row_version  = gen_random_uuid(),
		    updated_at   = now()
		WHERE id = @id
		  AND row_version = @row_version
		RETURNING id, title, description, date_from, date_visited, row_version, created_at, updated_at`

	args := pgx.NamedArgs{
		"id":           trip.ID,
		"title":        trip.Title,
		"description":  trip.Description,
		"date_from":    trip.DateFrom,
		"date_visited": trip.DateVisited,
		"row_version":  expected,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if errors.Is(err, domain.ErrNotFound) {
		// The caller read this trip earlier in the same transaction, so a
		// zero-row update means the token is stale, not that the trip vanished.
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.UpdateVersioned: %w", domain.ErrVersionConflict)
	}
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.UpdateVersioned: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) DeleteVersioned(ctx context.Context, id uuid.UUID, token []byte) error {
	expected, err := versionToken(token)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.DeleteVersioned: %w", err)
	}

	const q = `
		DELETE FROM trips
		WHERE id = @id
		  AND row_version = @row_version`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "row_version": expected})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.DeleteVersioned: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.DeleteVersioned: %w", domain.ErrVersionConflict)
	}
	return nil
}

// versionToken converts the caller's opaque token back to the uuid the
// row_version column holds. A token of the wrong shape can never match any
// stored version, so it is reported as a conflict rather than a scan error.
func versionToken(token []byte) (uuid.UUID, error) {
	v, err := uuid.FromBytes(token)
	if err != nil {
		return uuid.UUID{}, domain.ErrVersionConflict
	}
	return v, nil
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID conversions and the nullable date columns.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t           domain.Trip
		id          pgtype.UUID
		dateFrom    pgtype.Date
		dateVisited pgtype.Date
		rowVersion  pgtype.UUID
	)

	err := s.Scan(&id, &t.Title, &t.Description, &dateFrom, &dateVisited, &rowVersion, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	if dateFrom.Valid {
		df := dateFrom.Time
		t.DateFrom = &df
	}
	if dateVisited.Valid {
		dv := dateVisited.Time
		t.DateVisited = &dv
	}
	rv := rowVersion.Bytes
	t.RowVersion = rv[:]

	return t, nil
}
