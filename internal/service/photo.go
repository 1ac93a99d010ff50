package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/tripmapper/backend/internal/blob"
	"github.com/tripmapper/backend/internal/domain"
	"github.com/tripmapper/backend/internal/repo"
)

// PhotoService owns the photo-linkage rules: a photo is created bound to
// exactly one parent (pin or trip), pin photos are tagged with a trip id
// while their pin is attached to that trip, and orphans are cleaned up with
// their remote objects. The tx-scoped methods (AdoptPinPhotos,
// ReconcilePinPhotos, DetachAllForTrip) are called by TripService inside its
// own transaction; the public methods run their own.
type PhotoService struct {
	uow    repo.UnitOfWork
	access *AccessService
	blobs  blob.Store
}

// NewPhotoService constructs a PhotoService.
func NewPhotoService(uow repo.UnitOfWork, access *AccessService, blobs blob.Store) *PhotoService {
	return &PhotoService{uow: uow, access: access, blobs: blobs}
}

// UploadForPin stores the file in the blob store and creates a photo bound
// only to the pin. The caller must own the pin.
func (s *PhotoService) UploadForPin(ctx context.Context, pinID uuid.UUID, filename, contentType string, body io.Reader, callerID uuid.UUID) (domain.Photo, error) {
	var photo domain.Photo
	err := s.uow.Do(ctx, func(r repo.Repos) error {
		pin, err := r.Pins.GetByID(ctx, pinID)
		if err != nil {
			return err
		}
		if pin.UserID != callerID {
			return domain.ErrForbidden
		}

		url, err := s.blobs.Upload(ctx, filename, contentType, body)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrStorage, err)
		}

		photo, err = r.Photos.Create(ctx, domain.Photo{URL: url, PinID: &pinID})
		return err
	})
	if err != nil {
		return domain.Photo{}, fmt.Errorf("service.PhotoService.UploadForPin: %w", err)
	}
	return photo, nil
}

// UploadForTrip stores the file in the blob store and creates a photo bound
// only to the trip. The caller must hold Owner access on the trip.
func (s *PhotoService) UploadForTrip(ctx context.Context, tripID uuid.UUID, filename, contentType string, body io.Reader, callerID uuid.UUID) (domain.Photo, error) {
	var photo domain.Photo
	err := s.uow.Do(ctx, func(r repo.Repos) error {
		if _, err := r.Trips.GetByID(ctx, tripID); err != nil {
			return err
		}
		if err := s.access.RequireOwner(ctx, r, tripID, callerID); err != nil {
			return err
		}

		url, err := s.blobs.Upload(ctx, filename, contentType, body)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrStorage, err)
		}

		photo, err = r.Photos.Create(ctx, domain.Photo{URL: url, TripID: &tripID})
		return err
	})
	if err != nil {
		return domain.Photo{}, fmt.Errorf("service.PhotoService.UploadForTrip: %w", err)
	}
	return photo, nil
}

// Delete removes a photo, remote object first. Authorization follows the
// photo's current linkage: the pin's owner when pin-linked, otherwise the
// trip's Owner when trip-linked. An orphan photo cannot be deleted through
// this path. If the row delete fails after the remote delete succeeded, the
// row survives pointing at a missing object; there is no compensating retry.
func (s *PhotoService) Delete(ctx context.Context, photoID, callerID uuid.UUID) error {
	err := s.uow.Do(ctx, func(r repo.Repos) error {
		photo, err := r.Photos.GetByID(ctx, photoID)
		if err != nil {
			return err
		}

		switch {
		case photo.PinID != nil:
			pin, err := r.Pins.GetByID(ctx, *photo.PinID)
			if err != nil {
				return err
			}
			if pin.UserID != callerID {
				return domain.ErrForbidden
			}
		case photo.TripID != nil:
			if err := s.access.RequireOwner(ctx, r, *photo.TripID, callerID); err != nil {
				return err
			}
		default:
			return domain.ErrForbidden
		}

		if err := s.blobs.Delete(ctx, photo.URL); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrStorage, err)
		}
		return r.Photos.Delete(ctx, photoID)
	})
	if err != nil {
		return fmt.Errorf("service.PhotoService.Delete: %w", err)
	}
	return nil
}

// AdoptPinPhotos tags every photo of the given pins with the trip id.
// Idempotent: photos already carrying the id are skipped. Used when pins
// are newly attached to a trip.
func (s *PhotoService) AdoptPinPhotos(ctx context.Context, r repo.Repos, tripID uuid.UUID, pinIDs []uuid.UUID) error {
	photos, err := r.Photos.ListByPins(ctx, pinIDs)
	if err != nil {
		return fmt.Errorf("service.PhotoService.AdoptPinPhotos: %w", err)
	}

	for _, ph := range photos {
		if ph.TripID != nil && *ph.TripID == tripID {
			continue
		}
		if err := r.Photos.SetTrip(ctx, ph.ID, &tripID); err != nil {
			return fmt.Errorf("service.PhotoService.AdoptPinPhotos: %w", err)
		}
	}
	return nil
}

// ReconcilePinPhotos aligns photo trip tags with the trip's pin set after an
// update. Over the union of {photos of pinIDs} and {photos tagged with the
// trip}: a photo whose pin is in pinIDs gets the trip id; a photo whose pin
// left the trip loses it. Photos bound directly to the trip (no pin) and
// photos of unrelated pins are untouched.
func (s *PhotoService) ReconcilePinPhotos(ctx context.Context, r repo.Repos, tripID uuid.UUID, pinIDs []uuid.UUID) error {
	photos, err := r.Photos.ListByPinsOrTrip(ctx, pinIDs, tripID)
	if err != nil {
		return fmt.Errorf("service.PhotoService.ReconcilePinPhotos: %w", err)
	}

	inTrip := make(map[uuid.UUID]struct{}, len(pinIDs))
	for _, id := range pinIDs {
		inTrip[id] = struct{}{}
	}

	for _, ph := range photos {
		pinned := ph.PinID != nil
		keep := false
		if pinned {
			_, keep = inTrip[*ph.PinID]
		}

		switch {
		case pinned && keep:
			if ph.TripID == nil || *ph.TripID != tripID {
				if err := r.Photos.SetTrip(ctx, ph.ID, &tripID); err != nil {
					return fmt.Errorf("service.PhotoService.ReconcilePinPhotos: %w", err)
				}
			}
		case pinned && !keep:
			if ph.TripID != nil && *ph.TripID == tripID {
				if err := r.Photos.SetTrip(ctx, ph.ID, nil); err != nil {
					return fmt.Errorf("service.PhotoService.ReconcilePinPhotos: %w", err)
				}
			}
		}
	}
	return nil
}

// DetachAllForTrip clears the trip tag on every photo of the trip. A photo
// left with neither reference would be an unreachable orphan, so trip-only
// photos are deleted outright, remote object first, then the row.
func (s *PhotoService) DetachAllForTrip(ctx context.Context, r repo.Repos, tripID uuid.UUID) error {
	photos, err := r.Photos.ListByTrip(ctx, tripID)
	if err != nil {
		return fmt.Errorf("service.PhotoService.DetachAllForTrip: %w", err)
	}

	for _, ph := range photos {
		if ph.PinID != nil {
			// Pin-linked photo: stays visible through its pin.
			if err := r.Photos.SetTrip(ctx, ph.ID, nil); err != nil {
				return fmt.Errorf("service.PhotoService.DetachAllForTrip: %w", err)
			}
			continue
		}
		if err := s.blobs.Delete(ctx, ph.URL); err != nil {
			return fmt.Errorf("service.PhotoService.DetachAllForTrip: %w: %w", domain.ErrStorage, err)
		}
		if err := r.Photos.Delete(ctx, ph.ID); err != nil {
			return fmt.Errorf("service.PhotoService.DetachAllForTrip: %w", err)
		}
	}
	return nil
}

// errIsNotFound reports whether err is the domain not-found sentinel.
// Small helper kept local to the service package.
func errIsNotFound(err error) bool { return errors.Is(err, domain.ErrNotFound) }
