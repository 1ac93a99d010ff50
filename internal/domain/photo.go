package domain

import (
	"time"

	"github.com/google/uuid"
)

// Photo is an uploaded image stored in the remote blob store, referenced by URL.
// A photo is created bound to exactly one parent, a pin or a trip. While its
// pin is attached to a trip the photo additionally carries that trip's id, so
// it shows up in the trip view; the reconciliation logic in the service layer
// keeps that tag consistent. A photo with neither reference is an orphan and
// is eligible for cleanup.
type Photo struct {
	ID         uuid.UUID  `json:"id"`
	URL        string     `json:"url"`
	PinID      *uuid.UUID `json:"pin_id,omitempty"`
	TripID     *uuid.UUID `json:"trip_id,omitempty"`
	UploadedAt time.Time  `json:"uploaded_at"`
}

// Orphan reports whether the photo is linked to neither a pin nor a trip.
func (p Photo) Orphan() bool { return p.PinID == nil && p.TripID == nil }
