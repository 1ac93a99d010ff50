// Package service contains the business logic for the TripMapper backend.
// Services validate inputs, enforce the aggregate consistency rules, and
// orchestrate repo calls inside a single unit of work per public operation.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tripmapper/backend/internal/domain"
	"github.com/tripmapper/backend/internal/repo"
)

// TripService orchestrates the trip aggregate: the trip row, its linked pins,
// their photos, and its sharing list move together through every mutating
// operation. Each public method runs as one transaction that either commits
// everything or leaves no trace; Update and Delete additionally pass through
// the ConcurrencyGuard so a stale version token rolls the whole thing back.
type TripService struct {
	uow    repo.UnitOfWork
	photos *PhotoService
	access *AccessService
	guard  ConcurrencyGuard
}

// NewTripService constructs a TripService with its collaborators.
func NewTripService(uow repo.UnitOfWork, photos *PhotoService, access *AccessService) *TripService {
	return &TripService{uow: uow, photos: photos, access: access}
}

// List returns the trips the user holds any access on, narrowed by filter.
func (s *TripService) List(ctx context.Context, userID uuid.UUID, f domain.TripFilter) ([]domain.Trip, error) {
	var trips []domain.Trip
	err := s.uow.Do(ctx, func(r repo.Repos) error {
		var err error
		trips, err = r.Trips.ListForUser(ctx, userID, f)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	return trips, nil
}

// Get returns the full aggregate for a trip the user can access.
// Any access level suffices for reading; no access at all is ErrForbidden.
func (s *TripService) Get(ctx context.Context, id, userID uuid.UUID) (domain.TripDetail, error) {
	var detail domain.TripDetail
	err := s.uow.Do(ctx, func(r repo.Repos) error {
		if err := s.access.RequireAny(ctx, r, id, userID); err != nil {
			return err
		}

		trip, err := r.Trips.GetByID(ctx, id)
		if err != nil {
			return err
		}
		pins, err := r.Pins.ListByTrip(ctx, id)
		if err != nil {
			return err
		}
		photos, err := r.Photos.ListByTrip(ctx, id)
		if err != nil {
			return err
		}
		accessList, err := r.Access.ListByTrip(ctx, id)
		if err != nil {
			return err
		}

		detail = domain.TripDetail{Trip: trip, Pins: pins, Photos: photos, Access: accessList}
		return nil
	})
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return detail, nil
}

// ListAccess returns the trip's sharing list, Owner row first. Any access
// level suffices, same as Get.
func (s *TripService) ListAccess(ctx context.Context, tripID, callerID uuid.UUID) ([]domain.Access, error) {
	var list []domain.Access
	err := s.uow.Do(ctx, func(r repo.Repos) error {
		if err := s.access.RequireAny(ctx, r, tripID, callerID); err != nil {
			return err
		}
		var err error
		list, err = r.Access.ListByTrip(ctx, tripID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListAccess: %w", err)
	}
	return list, nil
}

// Create validates and persists a new trip aggregate: the trip row, pin
// linkage for every resolved pin title, trip tags on those pins' photos, the
// Owner access row, and View rows for resolved shared usernames, all in one
// transaction. Validation failures happen before any write.
func (s *TripService) Create(ctx context.Context, spec domain.TripSpec, ownerID uuid.UUID) (domain.Trip, error) {
	if strings.TrimSpace(spec.Title) == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: title is required", domain.ErrValidation)
	}

	var trip domain.Trip
	err := s.uow.Do(ctx, func(r repo.Repos) error {
		// Title uniqueness is per owner. Two concurrent creates with the same
		// title can both pass this check; the loser surfaces a low-level
		// persistence error instead of ErrDuplicateTitle. Known race, not
		// worth a lock here.
		_, err := r.Trips.GetByTitle(ctx, ownerID, domain.NormalizeTitle(spec.Title))
		if err == nil {
			return domain.ErrDuplicateTitle
		}
		if !errIsNotFound(err) {
			return err
		}

		targetTitles := domain.NormalizeTitleSet(spec.PinTitles)
		pins, err := r.Pins.ListForReconcile(ctx, ownerID, nil, targetTitles)
		if err != nil {
			return err
		}

		// Validate the whole target set before writing anything.
		for _, pin := range pins {
			if pin.TripID != nil {
				return &domain.PinAssignedError{Title: pin.Title}
			}
		}

		trip, err = r.Trips.Create(ctx, domain.Trip{
			Title:       strings.TrimSpace(spec.Title),
			Description: spec.Description,
			DateFrom:    spec.DateFrom,
			DateVisited: spec.DateVisited,
		})
		if err != nil {
			return err
		}

		pinIDs := make([]uuid.UUID, 0, len(pins))
		for _, pin := range pins {
			if err := r.Pins.SetTrip(ctx, pin.ID, &trip.ID); err != nil {
				return err
			}
			pinIDs = append(pinIDs, pin.ID)
		}

		if err := s.photos.AdoptPinPhotos(ctx, r, trip.ID, pinIDs); err != nil {
			return err
		}
		if err := s.access.GrantOwner(ctx, r, trip.ID, ownerID); err != nil {
			return err
		}
		return s.access.ReplaceShared(ctx, r, trip.ID, ownerID, spec.SharedUsernames)
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return trip, nil
}

// Update applies a partial update to the trip and reconciles its pin set,
// photo tags, and sharing list against the new target sets, then commits
// through the ConcurrencyGuard. A stale version token aborts the whole
// transaction with ErrVersionConflict; nothing above the guard persists.
func (s *TripService) Update(ctx context.Context, upd domain.TripUpdate, callerID uuid.UUID) (domain.Trip, error) {
	var updated domain.Trip
	err := s.uow.Do(ctx, func(r repo.Repos) error {
		if err := s.access.RequireOwner(ctx, r, upd.ID, callerID); err != nil {
			return err
		}

		trip, err := r.Trips.GetByID(ctx, upd.ID)
		if err != nil {
			return err
		}

		targetTitles := domain.NormalizeTitleSet(upd.PinTitles)
		inTarget := make(map[string]struct{}, len(targetTitles))
		for _, t := range targetTitles {
			inTarget[t] = struct{}{}
		}

		// Working set: pins currently on this trip plus pins matching a
		// target title. Unrelated pins never enter the loop.
		pins, err := r.Pins.ListForReconcile(ctx, callerID, &trip.ID, targetTitles)
		if err != nil {
			return err
		}

		// Re-validate before touching anything: a target pin claimed by a
		// different trip fails the whole update.
		for _, pin := range pins {
			_, wanted := inTarget[domain.NormalizeTitle(pin.Title)]
			if wanted && pin.TripID != nil && *pin.TripID != trip.ID {
				return &domain.PinAssignedError{Title: pin.Title}
			}
		}

		finalPinIDs := make([]uuid.UUID, 0, len(pins))
		for _, pin := range pins {
			_, wanted := inTarget[domain.NormalizeTitle(pin.Title)]
			linked := pin.TripID != nil && *pin.TripID == trip.ID

			switch {
			case wanted && !linked:
				if err := r.Pins.SetTrip(ctx, pin.ID, &trip.ID); err != nil {
					return err
				}
			case !wanted && linked:
				if err := r.Pins.SetTrip(ctx, pin.ID, nil); err != nil {
					return err
				}
			}
			if wanted {
				finalPinIDs = append(finalPinIDs, pin.ID)
			}
		}

		if err := s.photos.ReconcilePinPhotos(ctx, r, trip.ID, finalPinIDs); err != nil {
			return err
		}

		// Partial update: only fields present in the request replace stored
		// values; empty strings count as absent, matching the API contract.
		if upd.Title != nil && strings.TrimSpace(*upd.Title) != "" {
			trip.Title = strings.TrimSpace(*upd.Title)
		}
		if upd.Description != nil && *upd.Description != "" {
			trip.Description = *upd.Description
		}
		if upd.DateFrom != nil {
			trip.DateFrom = upd.DateFrom
		}
		if upd.DateVisited != nil {
			trip.DateVisited = upd.DateVisited
		}

		if err := s.access.ReplaceShared(ctx, r, trip.ID, callerID, upd.SharedUsernames); err != nil {
			return err
		}

		updated, err = s.guard.CommitUpdate(ctx, r, trip, upd.RowVersion)
		return err
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes the trip aggregate: pins are detached (never deleted),
// pin-linked photos lose their trip tag, trip-only photos are deleted along
// with their remote objects, and the trip row goes last under the version
// token check. A stale token aborts with ErrVersionConflict and no database
// write survives. Remote objects already deleted stay deleted; that is the
// accepted inconsistency window of this design.
func (s *TripService) Delete(ctx context.Context, id, callerID uuid.UUID, token []byte) error {
	err := s.uow.Do(ctx, func(r repo.Repos) error {
		if err := s.access.RequireOwner(ctx, r, id, callerID); err != nil {
			return err
		}
		if _, err := r.Trips.GetByID(ctx, id); err != nil {
			return err
		}

		if err := r.Pins.DetachAllFromTrip(ctx, id); err != nil {
			return err
		}
		if err := s.photos.DetachAllForTrip(ctx, r, id); err != nil {
			return err
		}

		return s.guard.CommitDelete(ctx, r, id, token)
	})
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}
