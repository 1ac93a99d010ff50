package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/tripmapper/backend/internal/domain"
	"github.com/tripmapper/backend/internal/geo"
	"github.com/tripmapper/backend/internal/repo"
)

// PinService manages the user's pins. Pins are strictly owned: every read and
// write is scoped to the calling user, and a pin belonging to someone else is
// indistinguishable from a missing one.
type PinService struct {
	uow repo.UnitOfWork
	geo geo.Reverser
	log *slog.Logger
}

// NewPinService constructs a PinService. The reverser may be nil to disable
// reverse geocoding entirely.
func NewPinService(uow repo.UnitOfWork, rev geo.Reverser, log *slog.Logger) *PinService {
	return &PinService{uow: uow, geo: rev, log: log}
}

// List returns one page of the user's pins matching the filter, plus the
// total match count.
func (s *PinService) List(ctx context.Context, userID uuid.UUID, f domain.PinFilter, p domain.PaginationParams) ([]domain.Pin, int64, error) {
	var (
		pins  []domain.Pin
		total int64
	)
	err := s.uow.Do(ctx, func(r repo.Repos) error {
		var err error
		pins, total, err = r.Pins.ListForUser(ctx, userID, f, p)
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("service.PinService.List: %w", err)
	}
	return pins, total, nil
}

// Get returns the user's pin by id. A pin owned by a different user comes
// back as ErrNotFound, not ErrForbidden, so ids cannot be probed.
func (s *PinService) Get(ctx context.Context, id, userID uuid.UUID) (domain.Pin, error) {
	var pin domain.Pin
	err := s.uow.Do(ctx, func(r repo.Repos) error {
		var err error
		pin, err = r.Pins.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if pin.UserID != userID {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return domain.Pin{}, fmt.Errorf("service.PinService.Get: %w", err)
	}
	return pin, nil
}

// Create validates and persists a new pin for the user. When both coordinates
// are present the address fields are filled by reverse geocoding; lookup
// failures are logged and the pin is stored without address data.
func (s *PinService) Create(ctx context.Context, pin domain.Pin, userID uuid.UUID) (domain.Pin, error) {
	if strings.TrimSpace(pin.Title) == "" {
		return domain.Pin{}, fmt.Errorf("service.PinService.Create: %w: title is required", domain.ErrValidation)
	}
	pin.Title = strings.TrimSpace(pin.Title)
	pin.UserID = userID
	pin.TripID = nil

	if s.geo != nil && pin.Latitude != nil && pin.Longitude != nil {
		loc, err := s.geo.Reverse(ctx, *pin.Latitude, *pin.Longitude)
		if err != nil {
			s.log.WarnContext(ctx, "reverse geocode failed, storing pin without address",
				slog.String("error", err.Error()))
		} else {
			pin.City = loc.City
			pin.State = loc.State
			pin.Country = loc.Country
		}
	}

	var created domain.Pin
	err := s.uow.Do(ctx, func(r repo.Repos) error {
		_, err := r.Pins.GetByTitle(ctx, userID, domain.NormalizeTitle(pin.Title))
		if err == nil {
			return domain.ErrDuplicateTitle
		}
		if !errIsNotFound(err) {
			return err
		}

		created, err = r.Pins.Create(ctx, pin)
		return err
	})
	if err != nil {
		return domain.Pin{}, fmt.Errorf("service.PinService.Create: %w", err)
	}
	return created, nil
}

// Delete removes the user's pin. Photos bound to the pin keep their rows and
// remote objects; the pin_id reference is nulled by the schema.
func (s *PinService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	err := s.uow.Do(ctx, func(r repo.Repos) error {
		return r.Pins.Delete(ctx, id, userID)
	})
	if err != nil {
		return fmt.Errorf("service.PinService.Delete: %w", err)
	}
	return nil
}
