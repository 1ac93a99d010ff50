package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripmapper/backend/internal/domain"
	"github.com/tripmapper/backend/internal/middleware"
)

// maxPhotosPerUpload caps the number of files accepted in one multipart batch.
const maxPhotosPerUpload = 5

// maxUploadMemory is the in-memory buffer for multipart parsing; larger files
// spill to temp files.
const maxUploadMemory = 10 << 20 // 10 MiB

// UploadPinPhotos handles POST /pins/{pinID}/photos (multipart/form-data,
// field name "photos", at most 5 files per request).
func (s *Server) UploadPinPhotos(w http.ResponseWriter, r *http.Request) {
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

	s.uploadPhotos(w, r, func(filename, contentType string, file multipart.File) (domain.Photo, error) {
		return s.photos.UploadForPin(r.Context(), id, filename, contentType, file, userID)
	})
}

// UploadTripPhotos handles POST /trips/{tripID}/photos (multipart/form-data,
// field name "photos", at most 5 files per request). Caller must hold Owner
// access on the trip.
func (s *Server) UploadTripPhotos(w http.ResponseWriter, r *http.Request) {
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

	s.uploadPhotos(w, r, func(filename, contentType string, file multipart.File) (domain.Photo, error) {
		return s.photos.UploadForTrip(r.Context(), id, filename, contentType, file, userID)
	})
}

// uploadPhotos parses the multipart batch and runs the per-file upload
// function. The batch is not atomic: files already stored stay stored if a
// later one fails, and the error of the failing file is returned.
func (s *Server) uploadPhotos(w http.ResponseWriter, r *http.Request, upload func(filename, contentType string, file multipart.File) (domain.Photo, error)) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeRequestError(w, "invalid multipart body")
		return
	}
	files := r.MultipartForm.File["photos"]
	if len(files) == 0 {
		writeRequestError(w, "no files in 'photos' field")
		return
	}
	if len(files) > maxPhotosPerUpload {
		writeRequestError(w, "at most 5 photos per upload")
		return
	}

	created := make([]domain.Photo, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeRequestError(w, "unreadable file in 'photos' field")
			return
		}
		photo, err := upload(fh.Filename, fh.Header.Get("Content-Type"), f)
		f.Close()
		if err != nil {
			writeError(w, err)
			return
		}
		created = append(created, photo)
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeletePhoto handles DELETE /photos/{photoID}.
func (s *Server) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "photoID"))
	if err != nil {
		writeRequestError(w, "invalid photo id")
		return
	}

	if err := s.photos.Delete(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
