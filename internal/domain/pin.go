package domain

import (
	"time"

	"github.com/google/uuid"
)

// Pin is a geotagged point of interest owned by a single user.
// TripID is nil while the pin is not part of any trip; a pin belongs to at
// most one trip at a time.
type Pin struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DateVisited *time.Time `json:"date_visited,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	City        string     `json:"city,omitempty"`
	State       string     `json:"state,omitempty"`
	Country     string     `json:"country,omitempty"`
	CategoryID  uuid.UUID  `json:"category_id"`
	UserID      uuid.UUID  `json:"user_id"`
	TripID      *uuid.UUID `json:"trip_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// PinFilter narrows pin listings. Zero values mean "no filter".
type PinFilter struct {
	Title       string     // substring match, case-insensitive
	Category    string     // exact category name, case-insensitive
	VisitedFrom *time.Time // pins visited on or after this date
	CreatedFrom *time.Time // pins created on or after this instant
}
