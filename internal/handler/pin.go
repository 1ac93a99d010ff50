package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tripmapper/backend/internal/domain"
	"github.com/tripmapper/backend/internal/middleware"
)

// pinCreateRequest is the JSON body for POST /pins. City, state, and country
// are not accepted from the client; they are resolved by reverse geocoding
// when coordinates are present.
type pinCreateRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	DateVisited *openapi_types.Date `json:"date_visited"`
	Latitude    *float64            `json:"latitude"`
	Longitude   *float64            `json:"longitude"`
	CategoryID  uuid.UUID           `json:"category_id"`
}

// pinListResponse is the paged envelope for GET /pins.
type pinListResponse struct {
	Data       []domain.Pin `json:"data"`
	Pagination pagination   `json:"pagination"`
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// ListPins handles GET /pins.
// Supports ?title=, ?category=, ?visited_from=, ?created_from=, ?page= and
// ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListPins(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	f := domain.PinFilter{
		Title:    r.URL.Query().Get("title"),
		Category: r.URL.Query().Get("category"),
	}
	var err error
	if f.VisitedFrom, err = parseDateParam(r, "visited_from"); err != nil {
		writeRequestError(w, "invalid 'visited_from' date, expected YYYY-MM-DD")
		return
	}
	if f.CreatedFrom, err = parseDateParam(r, "created_from"); err != nil {
		writeRequestError(w, "invalid 'created_from' date, expected YYYY-MM-DD")
		return
	}

	params := domain.NewPaginationParams(parseIntParam(r, "page"), parseIntParam(r, "limit"))

	pins, total, err := s.pins.List(r.Context(), userID, f, params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pinListResponse{
		Data: pins,
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// GetPin handles GET /pins/{pinID}.
func (s *Server) GetPin(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "pinID"))
	if err != nil {
		writeRequestError(w, "invalid pin id")
		return
	}

	pin, err := s.pins.Get(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pin)
}

// CreatePin handles POST /pins.
func (s *Server) CreatePin(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req pinCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		writeRequestError(w, "latitude and longitude must be set together")
		return
	}

	pin := domain.Pin{
		Title:       req.Title,
		Description: req.Description,
		DateVisited: dateToTime(req.DateVisited),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		CategoryID:  req.CategoryID,
	}

	created, err := s.pins.Create(r.Context(), pin, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeletePin handles DELETE /pins/{pinID}.
func (s *Server) DeletePin(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "pinID"))
	if err != nil {
		writeRequestError(w, "invalid pin id")
		return
	}

	if err := s.pins.Delete(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseIntParam reads an optional integer query parameter, returning nil when
// absent or unparsable.
func parseIntParam(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
