package handler_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmapper/backend/internal/domain"
	"github.com/tripmapper/backend/internal/handler"
)

// mockPhotoServicer is a test double for handler.PhotoServicer.
type mockPhotoServicer struct {
	uploadForPin  func(ctx context.Context, pinID uuid.UUID, filename, contentType string, body io.Reader, callerID uuid.UUID) (domain.Photo, error)
	uploadForTrip func(ctx context.Context, tripID uuid.UUID, filename, contentType string, body io.Reader, callerID uuid.UUID) (domain.Photo, error)
	delete        func(ctx context.Context, photoID, callerID uuid.UUID) error
}

func (m *mockPhotoServicer) UploadForPin(ctx context.Context, pinID uuid.UUID, filename, contentType string, body io.Reader, callerID uuid.UUID) (domain.Photo, error) {
	return m.uploadForPin(ctx, pinID, filename, contentType, body, callerID)
}
func (m *mockPhotoServicer) UploadForTrip(ctx context.Context, tripID uuid.UUID, filename, contentType string, body io.Reader, callerID uuid.UUID) (domain.Photo, error) {
	return m.uploadForTrip(ctx, tripID, filename, contentType, body, callerID)
}
func (m *mockPhotoServicer) Delete(ctx context.Context, photoID, callerID uuid.UUID) error {
	return m.delete(ctx, photoID, callerID)
}

var _ handler.PhotoServicer = (*mockPhotoServicer)(nil)

// multipartBody builds a multipart body with n files in the "photos" field.
func multipartBody(t *testing.T, n int) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for i := 0; i < n; i++ {
		fw, err := w.CreateFormFile("photos", fmt.Sprintf("photo-%d.jpg", i))
		require.NoError(t, err)
		_, err = fw.Write([]byte("jpeg-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

// ---- POST /pins/{id}/photos ------------------------------------------------

func TestUploadPinPhotos_201(t *testing.T) {
	caller := uuid.New()
	pinID := uuid.New()

	var uploaded []string
	photos := &mockPhotoServicer{
		uploadForPin: func(_ context.Context, pID uuid.UUID, filename, _ string, _ io.Reader, cID uuid.UUID) (domain.Photo, error) {
			assert.Equal(t, pinID, pID)
			assert.Equal(t, caller, cID)
			uploaded = append(uploaded, filename)
			return domain.Photo{ID: uuid.New(), PinID: &pID}, nil
		},
	}

	body, contentType := multipartBody(t, 2)
	req := httptest.NewRequest(http.MethodPost, "/pins/"+pinID.String()+"/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := doRequest(newHTTPHandler(nil, nil, photos, nil), req, caller)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, uploaded, 2)
	resp := decodeBody[[]domain.Photo](t, rec.Body)
	assert.Len(t, resp, 2)
}

func TestUploadPinPhotos_422_TooManyFiles(t *testing.T) {
	body, contentType := multipartBody(t, 6)
	req := httptest.NewRequest(http.MethodPost, "/pins/"+uuid.New().String()+"/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := doRequest(newHTTPHandler(nil, nil, &mockPhotoServicer{}, nil), req, uuid.New())

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUploadPinPhotos_422_NoFiles(t *testing.T) {
	body, contentType := multipartBody(t, 0)
	req := httptest.NewRequest(http.MethodPost, "/pins/"+uuid.New().String()+"/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := doRequest(newHTTPHandler(nil, nil, &mockPhotoServicer{}, nil), req, uuid.New())

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- POST /trips/{id}/photos -----------------------------------------------

func TestUploadTripPhotos_502_StorageDown(t *testing.T) {
	photos := &mockPhotoServicer{
		uploadForTrip: func(context.Context, uuid.UUID, string, string, io.Reader, uuid.UUID) (domain.Photo, error) {
			return domain.Photo{}, fmt.Errorf("service.PhotoService.UploadForTrip: %w: bucket unreachable", domain.ErrStorage)
		},
	}

	body, contentType := multipartBody(t, 1)
	req := httptest.NewRequest(http.MethodPost, "/trips/"+uuid.New().String()+"/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := doRequest(newHTTPHandler(nil, nil, photos, nil), req, uuid.New())

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	resp := decodeBody[handler.ErrorResponse](t, rec.Body)
	assert.Equal(t, "storage_error", resp.Error.Code)
}

func TestUploadTripPhotos_403_NotOwner(t *testing.T) {
	photos := &mockPhotoServicer{
		uploadForTrip: func(context.Context, uuid.UUID, string, string, io.Reader, uuid.UUID) (domain.Photo, error) {
			return domain.Photo{}, fmt.Errorf("service.PhotoService.UploadForTrip: %w", domain.ErrForbidden)
		},
	}

	body, contentType := multipartBody(t, 1)
	req := httptest.NewRequest(http.MethodPost, "/trips/"+uuid.New().String()+"/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := doRequest(newHTTPHandler(nil, nil, photos, nil), req, uuid.New())

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// ---- DELETE /photos/{id} ---------------------------------------------------

func TestDeletePhoto_204(t *testing.T) {
	caller := uuid.New()
	photoID := uuid.New()
	photos := &mockPhotoServicer{
		delete: func(_ context.Context, pID, cID uuid.UUID) error {
			assert.Equal(t, photoID, pID)
			assert.Equal(t, caller, cID)
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/photos/"+photoID.String(), nil)
	rec := doRequest(newHTTPHandler(nil, nil, photos, nil), req, caller)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeletePhoto_403(t *testing.T) {
	photos := &mockPhotoServicer{
		delete: func(context.Context, uuid.UUID, uuid.UUID) error {
			return fmt.Errorf("service.PhotoService.Delete: %w", domain.ErrForbidden)
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/photos/"+uuid.New().String(), nil)
	rec := doRequest(newHTTPHandler(nil, nil, photos, nil), req, uuid.New())

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
