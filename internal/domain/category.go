package domain

import "github.com/google/uuid"

// Category is a user-defined pin grouping (e.g. "Restaurants", "Hikes").
// IsDefault marks the category pre-seeded for new users.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ColorCode string    `json:"color_code,omitempty"`
	IsDefault bool      `json:"is_default"`
	UserID    uuid.UUID `json:"user_id"`
}
