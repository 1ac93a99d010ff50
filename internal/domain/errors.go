package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. duplicate title, malformed field). Nothing has been
// written when this error is returned.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the caller lacks the access level a mutating
// operation requires (e.g. a non-Owner updating a trip). Nothing is written.
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrVersionConflict is returned when the version token supplied by the caller
// no longer matches the stored one at commit time. The whole transaction is
// rolled back; the caller must re-read the trip and retry.
// Handlers should map this to HTTP 409 Conflict.
var ErrVersionConflict = errors.New("trip was modified by another user")

// ErrStorage is returned when a remote blob-storage operation fails.
// There is no compensating action; the error propagates to the caller.
var ErrStorage = errors.New("storage error")

// ErrDuplicateTitle is returned when a trip or pin title is already taken by
// another record of the same owner. It unwraps to ErrValidation.
var ErrDuplicateTitle = fmt.Errorf("%w: title already in use", ErrValidation)

// PinAssignedError is returned when a pin named in a trip's target set is
// already linked to a different trip. It carries the offending title so the
// caller can see which pin blocked the operation.
type PinAssignedError struct {
	Title string
}

func (e *PinAssignedError) Error() string {
	return fmt.Sprintf("validation error: pin %q already belongs to another trip", e.Title)
}

// Unwrap makes errors.Is(err, ErrValidation) hold for PinAssignedError.
func (e *PinAssignedError) Unwrap() error { return ErrValidation }
