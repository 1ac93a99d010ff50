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

// PhotoRepo defines the persistence operations for Photos.
// Linkage rules (at-most-one parent at creation, trip tagging of pin photos)
// are enforced by the service layer; this interface only reads and writes rows.
type PhotoRepo interface {
	// Create inserts a new photo and returns the persisted record.
	Create(ctx context.Context, photo domain.Photo) (domain.Photo, error)

	// GetByID retrieves a single photo by primary key.
	// Returns domain.ErrNotFound if no photo with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Photo, error)

	// ListByTrip returns all photos carrying the trip's id, both trip-bound
	// photos and pin photos tagged with the trip.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Photo, error)

	// ListByPins returns all photos bound to any of the given pins.
	ListByPins(ctx context.Context, pinIDs []uuid.UUID) ([]domain.Photo, error)

	// ListByPinsOrTrip returns the union of {photos of the given pins} and
	// {photos carrying the trip's id}, the working set for reconciliation.
	ListByPinsOrTrip(ctx context.Context, pinIDs []uuid.UUID, tripID uuid.UUID) ([]domain.Photo, error)

	// SetTrip tags the photo with a trip id, or clears the tag when nil.
	// Returns domain.ErrNotFound if the photo does not exist.
	SetTrip(ctx context.Context, photoID uuid.UUID, tripID *uuid.UUID) error

	// Delete removes a photo row. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgPhotoRepo is the Postgres implementation of PhotoRepo.
type pgPhotoRepo struct {
	db db
}

// NewPhotoRepo constructs a PhotoRepo backed by the provided db connection.
func NewPhotoRepo(db db) PhotoRepo {
	return &pgPhotoRepo{db: db}
}

func (r *pgPhotoRepo) Create(ctx context.Context, photo domain.Photo) (domain.Photo, error) {
	const q = `
		INSERT INTO photos (url, pin_id, trip_id, uploaded_at)
		VALUES (@url, @pin_id, @trip_id, now())
		RETURNING id, url, pin_id, trip_id, uploaded_at`

	args := pgx.NamedArgs{
		"url":     photo.URL,
		"pin_id":  photo.PinID,
		"trip_id": photo.TripID,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanPhoto(row)
	if err != nil {
		return domain.Photo{}, fmt.Errorf("repo.PhotoRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPhotoRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Photo, error) {
	const q = `SELECT id, url, pin_id, trip_id, uploaded_at FROM photos WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanPhoto(row)
	if err != nil {
		return domain.Photo{}, fmt.Errorf("repo.PhotoRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgPhotoRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Photo, error) {
	const q = `
		SELECT id, url, pin_id, trip_id, uploaded_at
		FROM photos
		WHERE trip_id = @trip_id
		ORDER BY uploaded_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.PhotoRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	photos, err := collectPhotos(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.PhotoRepo.ListByTrip: %w", err)
	}
	return photos, nil
}

func (r *pgPhotoRepo) ListByPins(ctx context.Context, pinIDs []uuid.UUID) ([]domain.Photo, error) {
	if len(pinIDs) == 0 {
		return []domain.Photo{}, nil
	}

	const q = `
		SELECT id, url, pin_id, trip_id, uploaded_at
		FROM photos
		WHERE pin_id = ANY(@pin_ids)
		ORDER BY uploaded_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"pin_ids": pinIDs})
	if err != nil {
		return nil, fmt.Errorf("repo.PhotoRepo.ListByPins: %w", err)
	}
	defer rows.Close()

	photos, err := collectPhotos(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.PhotoRepo.ListByPins: %w", err)
	}
	return photos, nil
}

func (r *pgPhotoRepo) ListByPinsOrTrip(ctx context.Context, pinIDs []uuid.UUID, tripID uuid.UUID) ([]domain.Photo, error) {
	const q = `
		SELECT id, url, pin_id, trip_id, uploaded_at
		FROM photos
		WHERE pin_id = ANY(@pin_ids)
		   OR trip_id = @trip_id
		ORDER BY uploaded_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"pin_ids": pinIDs, "trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.PhotoRepo.ListByPinsOrTrip: %w", err)
	}
	defer rows.Close()

	photos, err := collectPhotos(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.PhotoRepo.ListByPinsOrTrip: %w", err)
	}
	return photos, nil
}

func (r *pgPhotoRepo) SetTrip(ctx context.Context, photoID uuid.UUID, tripID *uuid.UUID) error {
	const q = `UPDATE photos SET trip_id = @trip_id WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": photoID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.PhotoRepo.SetTrip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PhotoRepo.SetTrip: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgPhotoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM photos WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.PhotoRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PhotoRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// collectPhotos drains rows into a slice, propagating scan and iteration errors.
func collectPhotos(rows pgx.Rows) ([]domain.Photo, error) {
	photos := []domain.Photo{}
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return photos, nil
}

// scanPhoto maps a single database row into a domain.Photo.
func scanPhoto(s scanner) (domain.Photo, error) {
	var (
		p      domain.Photo
		id     pgtype.UUID
		pinID  pgtype.UUID
		tripID pgtype.UUID
	)

	err := s.Scan(&id, &p.URL, &pinID, &tripID, &p.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Photo{}, domain.ErrNotFound
		}
		return domain.Photo{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	if pinID.Valid {
		v := uuid.UUID(pinID.Bytes)
		p.PinID = &v
	}
	if tripID.Valid {
		v := uuid.UUID(tripID.Bytes)
		p.TripID = &v
	}

	return p, nil
}
