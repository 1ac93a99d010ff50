package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tripmapper/backend/internal/domain"
	"github.com/tripmapper/backend/internal/middleware"
)

// tripCreateRequest is the JSON body for POST /trips. Date fields use the
// date-only wire format (2006-01-02). PinTitles and SharedUsernames are full
// target sets; absent lists mean "none".
type tripCreateRequest struct {
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	DateFrom        *openapi_types.Date `json:"date_from"`
	DateVisited     *openapi_types.Date `json:"date_visited"`
	PinTitles       []string            `json:"pin_titles"`
	SharedUsernames []string            `json:"shared_usernames"`
}

// tripUpdateRequest is the JSON body for PUT /trips/{tripID}. Scalar fields
// are pointers so "absent" and "set" can be told apart; RowVersion is the
// base64 version token returned by the last read and is required.
type tripUpdateRequest struct {
	Title           *string             `json:"title"`
	Description     *string             `json:"description"`
	DateFrom        *openapi_types.Date `json:"date_from"`
	DateVisited     *openapi_types.Date `json:"date_visited"`
	PinTitles       []string            `json:"pin_titles"`
	SharedUsernames []string            `json:"shared_usernames"`
	RowVersion      []byte              `json:"row_version"`
}

// ListTrips handles GET /trips.
// Supports ?title=, ?from= and ?to= (date-only) query parameters.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	f := domain.TripFilter{Title: r.URL.Query().Get("title")}
	var err error
	if f.DateFrom, err = parseDateParam(r, "from"); err != nil {
		writeRequestError(w, "invalid 'from' date, expected YYYY-MM-DD")
		return
	}
	if f.DateTo, err = parseDateParam(r, "to"); err != nil {
		writeRequestError(w, "invalid 'to' date, expected YYYY-MM-DD")
		return
	}

	trips, err := s.trips.List(r.Context(), userID, f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// GetTrip handles GET /trips/{tripID}. Returns the full aggregate: trip,
// pins, photos, and access list.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}

	detail, err := s.trips.Get(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// GetTripAccess handles GET /trips/{tripID}/access. Returns the sharing list
// on its own, without the rest of the aggregate.
func (s *Server) GetTripAccess(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}

	list, err := s.trips.ListAccess(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req tripCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}

	spec := domain.TripSpec{
		Title:           req.Title,
		Description:     req.Description,
		DateFrom:        dateToTime(req.DateFrom),
		DateVisited:     dateToTime(req.DateVisited),
		PinTitles:       req.PinTitles,
		SharedUsernames: req.SharedUsernames,
	}

	trip, err := s.trips.Create(r.Context(), spec, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

// UpdateTrip handles PUT /trips/{tripID}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}

	var req tripUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}
	if len(req.RowVersion) == 0 {
		writeRequestError(w, "row_version is required")
		return
	}

	upd := domain.TripUpdate{
		ID:              id,
		RowVersion:      req.RowVersion,
		Title:           req.Title,
		Description:     req.Description,
		DateFrom:        dateToTime(req.DateFrom),
		DateVisited:     dateToTime(req.DateVisited),
		PinTitles:       req.PinTitles,
		SharedUsernames: req.SharedUsernames,
	}

	trip, err := s.trips.Update(r.Context(), upd, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// DeleteTrip handles DELETE /trips/{tripID}. The version token travels in the
// If-Match header as base64, since DELETE carries no body.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		writeRequestError(w, "invalid trip id")
		return
	}

	token, err := base64.StdEncoding.DecodeString(r.Header.Get("If-Match"))
	if err != nil || len(token) == 0 {
		writeRequestError(w, "If-Match header with the trip's version token is required")
		return
	}

	if err := s.trips.Delete(r.Context(), id, userID, token); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseDateParam reads an optional date-only query parameter.
func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// dateToTime converts an optional wire date to the domain's *time.Time.
func dateToTime(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
