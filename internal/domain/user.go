package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is referenced, not owned, by this backend's core: the engine resolves
// usernames to ids when building sharing lists and checks pin/photo ownership
// against user ids supplied by the authenticated caller.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
