package domain

import "github.com/google/uuid"

// AccessLevel is the permission a user holds on a trip.
type AccessLevel string

const (
	// AccessOwner grants full mutation rights. Exactly one Owner row exists
	// per trip, written at creation and never replaced afterwards.
	AccessOwner AccessLevel = "Owner"

	// AccessView is a read-only sharing grant.
	AccessView AccessLevel = "View"
)

// Access is one row of a trip's sharing list, keyed by (TripID, UserID).
type Access struct {
	TripID uuid.UUID   `json:"trip_id"`
	UserID uuid.UUID   `json:"user_id"`
	Level  AccessLevel `json:"level"`
}
