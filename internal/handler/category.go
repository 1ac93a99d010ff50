package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripmapper/backend/internal/domain"
	"github.com/tripmapper/backend/internal/middleware"
)

// categoryCreateRequest is the JSON body for POST /categories.
type categoryCreateRequest struct {
	Name      string `json:"name"`
	ColorCode string `json:"color_code"`
}

// ListCategories handles GET /categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	list, err := s.categories.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateCategory handles POST /categories.
func (s *Server) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req categoryCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}

	created, err := s.categories.Create(r.Context(), domain.Category{
		Name:      req.Name,
		ColorCode: req.ColorCode,
	}, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteCategory handles DELETE /categories/{categoryID}.
func (s *Server) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "categoryID"))
	if err != nil {
		writeRequestError(w, "invalid category id")
		return
	}

	if err := s.categories.Delete(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
