// Package domain contains the core data types for the TripMapper backend.
// This package has no dependencies on other internal packages and is imported
// by every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the top-level aggregate: a titled collection of pins, photos, and
// access grants. RowVersion is an opaque token regenerated by the persistence
// layer on every successful guarded write; it is what detects lost updates.
type Trip struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DateFrom    *time.Time `json:"date_from,omitempty"`
	DateVisited *time.Time `json:"date_visited,omitempty"`
	RowVersion  []byte     `json:"row_version"` // base64 over JSON
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TripSpec is the input for creating a trip. PinTitles and SharedUsernames
// are full target sets, matched case-insensitively after normalization.
type TripSpec struct {
	Title           string
	Description     string
	DateFrom        *time.Time
	DateVisited     *time.Time
	PinTitles       []string
	SharedUsernames []string
}

// TripUpdate is the input for updating a trip. Nil scalar pointers leave the
// stored value unchanged (partial update). PinTitles and SharedUsernames are
// always full target sets: an empty list detaches every pin and revokes
// every non-owner grant.
type TripUpdate struct {
	ID              uuid.UUID
	RowVersion      []byte
	Title           *string
	Description     *string
	DateFrom        *time.Time
	DateVisited     *time.Time
	PinTitles       []string
	SharedUsernames []string
}

// TripFilter narrows trip listings. Zero values mean "no filter".
type TripFilter struct {
	Title    string     // substring match, case-insensitive
	DateFrom *time.Time // trips starting on or after this date
	DateTo   *time.Time // trips starting on or before this date
}

// TripDetail is a trip together with everything the aggregate owns,
// as returned by a single authorized read.
type TripDetail struct {
	Trip   Trip     `json:"trip"`
	Pins   []Pin    `json:"pins"`
	Photos []Photo  `json:"photos"`
	Access []Access `json:"access"`
}
