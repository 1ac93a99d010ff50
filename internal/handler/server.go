// Package handler implements the HTTP handlers for the TripMapper API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, pin.go, etc.) but all share the same Server struct so they
// can access its dependencies.
package handler

import (
	"context"
	"io"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripmapper/backend/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	List(ctx context.Context, userID uuid.UUID, f domain.TripFilter) ([]domain.Trip, error)
	Get(ctx context.Context, id, userID uuid.UUID) (domain.TripDetail, error)
	Create(ctx context.Context, spec domain.TripSpec, ownerID uuid.UUID) (domain.Trip, error)
	Update(ctx context.Context, upd domain.TripUpdate, callerID uuid.UUID) (domain.Trip, error)
	Delete(ctx context.Context, id, callerID uuid.UUID, token []byte) error
	ListAccess(ctx context.Context, tripID, callerID uuid.UUID) ([]domain.Access, error)
}

// PinServicer defines the business operations the pin handlers depend on.
type PinServicer interface {
	List(ctx context.Context, userID uuid.UUID, f domain.PinFilter, p domain.PaginationParams) ([]domain.Pin, int64, error)
	Get(ctx context.Context, id, userID uuid.UUID) (domain.Pin, error)
	Create(ctx context.Context, pin domain.Pin, userID uuid.UUID) (domain.Pin, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// PhotoServicer defines the business operations the photo handlers depend on.
type PhotoServicer interface {
	UploadForPin(ctx context.Context, pinID uuid.UUID, filename, contentType string, body io.Reader, callerID uuid.UUID) (domain.Photo, error)
	UploadForTrip(ctx context.Context, tripID uuid.UUID, filename, contentType string, body io.Reader, callerID uuid.UUID) (domain.Photo, error)
	Delete(ctx context.Context, photoID, callerID uuid.UUID) error
}

// CategoryServicer defines the business operations the category handlers depend on.
type CategoryServicer interface {
	List(ctx context.Context, userID uuid.UUID) ([]domain.Category, error)
	Create(ctx context.Context, c domain.Category, userID uuid.UUID) (domain.Category, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// Server holds the handler dependencies for all API endpoints.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	trips      TripServicer
	pins       PinServicer
	photos     PhotoServicer
	categories CategoryServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, pins PinServicer, photos PhotoServicer, categories CategoryServicer) *Server {
	return &Server{trips: trips, pins: pins, photos: photos, categories: categories}
}

// Routes mounts every endpoint on a fresh chi router. The identity middleware
// is applied by the caller around everything except /healthz.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)
			r.Get("/access", s.GetTripAccess)
			r.Post("/photos", s.UploadTripPhotos)
		})
	})

	r.Route("/pins", func(r chi.Router) {
		r.Get("/", s.ListPins)
		r.Post("/", s.CreatePin)
		r.Route("/{pinID}", func(r chi.Router) {
			r.Get("/", s.GetPin)
			r.Delete("/", s.DeletePin)
			r.Post("/photos", s.UploadPinPhotos)
		})
	})

	r.Delete("/photos/{photoID}", s.DeletePhoto)

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", s.ListCategories)
		r.Post("/", s.CreateCategory)
		r.Delete("/{categoryID}", s.DeleteCategory)
	})

	return r
}
