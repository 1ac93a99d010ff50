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

// PinRepo defines the persistence operations for Pins.
// All writes and single reads are scoped by the owning user where the
// business rules require ownership.
type PinRepo interface {
	// Create inserts a new pin and returns the persisted record.
	Create(ctx context.Context, pin domain.Pin) (domain.Pin, error)

	// GetByID retrieves a single pin by primary key.
	// Returns domain.ErrNotFound if no pin with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Pin, error)

	// GetByTitle retrieves the pin owned by userID whose normalized title
	// equals titleNorm. Returns domain.ErrNotFound when the title is free.
	GetByTitle(ctx context.Context, userID uuid.UUID, titleNorm string) (domain.Pin, error)

	// ListForUser returns one page of the user's pins matching the filter,
	// ordered by creation time descending, plus the total match count.
	ListForUser(ctx context.Context, userID uuid.UUID, f domain.PinFilter, p domain.PaginationParams) ([]domain.Pin, int64, error)

	// ListByTrip returns all pins currently linked to the trip.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Pin, error)

	// ListForReconcile returns the union of {the user's pins linked to
	// tripID} and {the user's pins whose normalized title is in titlesNorm}.
	// This is the working set for attach/detach reconciliation; pass a nil
	// tripID during trip creation, when no pin is linked yet.
	ListForReconcile(ctx context.Context, userID uuid.UUID, tripID *uuid.UUID, titlesNorm []string) ([]domain.Pin, error)

	// SetTrip points the pin at a trip, or detaches it when tripID is nil.
	// Returns domain.ErrNotFound if the pin does not exist.
	SetTrip(ctx context.Context, pinID uuid.UUID, tripID *uuid.UUID) error

	// DetachAllFromTrip clears the trip reference on every pin of the trip.
	DetachAllFromTrip(ctx context.Context, tripID uuid.UUID) error

	// Delete removes a pin owned by userID.
	// Returns domain.ErrNotFound if no such pin exists under that owner.
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// pgPinRepo is the Postgres implementation of PinRepo.
type pgPinRepo struct {
	db db
}

// NewPinRepo constructs a PinRepo backed by the provided db connection.
func NewPinRepo(db db) PinRepo {
	return &pgPinRepo{db: db}
}

const pinColumns = `id, title, description, date_visited, latitude, longitude,
		city, state, country, category_id, user_id, trip_id, created_at`

func (r *pgPinRepo) Create(ctx context.Context, pin domain.Pin) (domain.Pin, error) {
	const q = `
		INSERT INTO pins (title, description, date_visited, latitude, longitude,
		                  city, state, country, category_id, user_id)
		VALUES (@title, @description, @date_visited, @latitude, @longitude,
		        @city, @state, @country, @category_id, @user_id)
		RETURNING ` + pinColumns

	args := pgx.NamedArgs{
		"title":        pin.Title,
		"description":  pin.Description,
		"date_visited": pin.DateVisited,
		"latitude":     pin.Latitude,
		"longitude":    pin.Longitude,
		"city":         pin.City,
		"state":        pin.State,
		"country":      pin.Country,
		"category_id":  pin.CategoryID,
		"user_id":      pin.UserID,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanPin(row)
	if err != nil {
		return domain.Pin{}, fmt.Errorf("repo.PinRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPinRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Pin, error) {
	const q = `SELECT ` + pinColumns + ` FROM pins WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanPin(row)
	if err != nil {
		return domain.Pin{}, fmt.Errorf("repo.PinRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgPinRepo) GetByTitle(ctx context.Context, userID uuid.UUID, titleNorm string) (domain.Pin, error) {
	const q = `
		SELECT ` + pinColumns + `
		FROM pins
		WHERE user_id = @user_id
		  AND lower(title) = @title`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID, "title": titleNorm})
	result, err := scanPin(row)
	if err != nil {
		return domain.Pin{}, fmt.Errorf("repo.PinRepo.GetByTitle: %w", err)
	}
	return result, nil
}

func (r *pgPinRepo) ListForUser(ctx context.Context, userID uuid.UUID, f domain.PinFilter, p domain.PaginationParams) ([]domain.Pin, int64, error) {
	const where = `
		FROM pins p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.user_id = @user_id
		  AND (@title = '' OR p.title ILIKE '%' || @title || '%')
		  AND (@category = '' OR lower(c.name) = lower(@category))
		  AND (@visited_from::date IS NULL OR p.date_visited >= @visited_from)
		  AND (@created_from::timestamptz IS NULL OR p.created_at >= @created_from)`

	args := pgx.NamedArgs{
		"user_id":      userID,
		"title":        f.Title,
		"category":     f.Category,
		"visited_from": f.VisitedFrom,
		"created_from": f.CreatedFrom,
		"limit":        p.Limit,
		"offset":       p.Offset(),
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) `+where, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.PinRepo.ListForUser: count: %w", err)
	}

	q := `SELECT ` + qualifiedPinColumns + where + `
		ORDER BY p.created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.PinRepo.ListForUser: %w", err)
	}
	defer rows.Close()

	pins, err := collectPins(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.PinRepo.ListForUser: %w", err)
	}
	return pins, total, nil
}

const qualifiedPinColumns = `p.id, p.title, p.description, p.date_visited, p.latitude, p.longitude,
		p.city, p.state, p.country, p.category_id, p.user_id, p.trip_id, p.created_at`

func (r *pgPinRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Pin, error) {
	const q = `
		SELECT ` + pinColumns + `
		FROM pins
		WHERE trip_id = @trip_id
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.PinRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	pins, err := collectPins(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.PinRepo.ListByTrip: %w", err)
	}
	return pins, nil
}

func (r *pgPinRepo) ListForReconcile(ctx context.Context, userID uuid.UUID, tripID *uuid.UUID, titlesNorm []string) ([]domain.Pin, error) {
	const q = `
		SELECT ` + pinColumns + `
		FROM pins
		WHERE user_id = @user_id
		  AND (trip_id = @trip_id OR lower(title) = ANY(@titles))
		ORDER BY created_at`

	args := pgx.NamedArgs{
		"user_id": userID,
		"trip_id": tripID, // nil matches no rows, leaving only title matches
		"titles":  titlesNorm,
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.PinRepo.ListForReconcile: %w", err)
	}
	defer rows.Close()

	pins, err := collectPins(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.PinRepo.ListForReconcile: %w", err)
	}
	return pins, nil
}

func (r *pgPinRepo) SetTrip(ctx context.Context, pinID uuid.UUID, tripID *uuid.UUID) error {
	const q = `UPDATE pins SET trip_id = @trip_id WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": pinID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.PinRepo.SetTrip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PinRepo.SetTrip: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgPinRepo) DetachAllFromTrip(ctx context.Context, tripID uuid.UUID) error {
	const q = `UPDATE pins SET trip_id = NULL WHERE trip_id = @trip_id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID}); err != nil {
		return fmt.Errorf("repo.PinRepo.DetachAllFromTrip: %w", err)
	}
	return nil
}

func (r *pgPinRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	const q = `DELETE FROM pins WHERE id = @id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.PinRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PinRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// collectPins drains rows into a slice, propagating scan and iteration errors.
func collectPins(rows pgx.Rows) ([]domain.Pin, error) {
	pins := []domain.Pin{}
	for rows.Next() {
		p, err := scanPin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		pins = append(pins, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return pins, nil
}

// scanPin maps a single database row into a domain.Pin.
func scanPin(s scanner) (domain.Pin, error) {
	var (
		p           domain.Pin
		id          pgtype.UUID
		dateVisited pgtype.Date
		lat, lon    pgtype.Float8
		city        pgtype.Text
		state       pgtype.Text
		country     pgtype.Text
		categoryID  pgtype.UUID
		userID      pgtype.UUID
		tripID      pgtype.UUID
	)

	err := s.Scan(&id, &p.Title, &p.Description, &dateVisited, &lat, &lon,
		&city, &state, &country, &categoryID, &userID, &tripID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Pin{}, domain.ErrNotFound
		}
		return domain.Pin{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	p.CategoryID = uuid.UUID(categoryID.Bytes)
	p.UserID = uuid.UUID(userID.Bytes)
	if dateVisited.Valid {
		dv := dateVisited.Time
		p.DateVisited = &dv
	}
	if lat.Valid {
		v := lat.Float64
		p.Latitude = &v
	}
	if lon.Valid {
		v := lon.Float64
		p.Longitude = &v
	}
	p.City = city.String
	p.State = state.String
	p.Country = country.String
	if tripID.Valid {
		tid := uuid.UUID(tripID.Bytes)
		p.TripID = &tid
	}

	return p, nil
}
