package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tripmapper/backend/internal/domain"
)

// ErrorResponse is the JSON error envelope every non-2xx response carries.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail holds a stable machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps a domain error to its HTTP status and writes the error
// envelope. Order matters: PinAssignedError and ErrDuplicateTitle unwrap to
// ErrValidation, so the more specific checks come first only where the code
// differs.
func writeError(w http.ResponseWriter, err error) {
	var assigned *domain.PinAssignedError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: ErrorDetail{
			Code: "not_found", Message: unwrapMessage(err),
		}})
	case errors.As(err, &assigned):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Code: "pin_already_assigned", Message: assigned.Error(),
		}})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Code: "validation_error", Message: unwrapMessage(err),
		}})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: ErrorDetail{
			Code: "forbidden", Message: "insufficient access",
		}})
	case errors.Is(err, domain.ErrVersionConflict):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: ErrorDetail{
			Code: "version_conflict", Message: domain.ErrVersionConflict.Error(),
		}})
	case errors.Is(err, domain.ErrStorage):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: ErrorDetail{
			Code: "storage_error", Message: "photo storage unavailable",
		}})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
			Code: "internal_error", Message: "internal server error",
		}})
	}
}

// writeRequestError rejects a request before it reaches the service layer
// (e.g. malformed body or path parameter).
func writeRequestError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
		Code: "validation_error", Message: message,
	}})
}

// writeJSON serializes v with the given status. Encoding failures at this
// point cannot be reported to the client anymore, so they are ignored.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.TripService.Create: validation error: title is required"
// becomes "title is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, marker := range []string{"validation error: ", "not found: "} {
		if i := strings.LastIndex(msg, marker); i >= 0 {
			return msg[i+len(marker):]
		}
	}
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
