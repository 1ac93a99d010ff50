package service_test

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/tripmapper/backend/internal/blob"
	"github.com/tripmapper/backend/internal/domain"
	"github.com/tripmapper/backend/internal/geo"
	"github.com/tripmapper/backend/internal/repo"
)

// mockUOW is a UnitOfWork that runs the callback against a fixed repo bundle
// with no transaction underneath. Tests assert on the mock repos inside the
// bundle.
type mockUOW struct {
	repos repo.Repos
}

func (m *mockUOW) Do(_ context.Context, fn func(r repo.Repos) error) error {
	return fn(m.repos)
}

var _ repo.UnitOfWork = (*mockUOW)(nil)

// mockTripRepo is a test double for repo.TripRepo.
// Set only the method fields your test needs.
type mockTripRepo struct {
	create          func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID         func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	getByTitle      func(ctx context.Context, ownerID uuid.UUID, titleNorm string) (domain.Trip, error)
	listForUser     func(ctx context.Context, userID uuid.UUID, f domain.TripFilter) ([]domain.Trip, error)
	updateVersioned func(ctx context.Context, trip domain.Trip, token []byte) (domain.Trip, error)
	deleteVersioned func(ctx context.Context, id uuid.UUID, token []byte) error
}

func (m *mockTripRepo) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) GetByTitle(ctx context.Context, ownerID uuid.UUID, titleNorm string) (domain.Trip, error) {
	return m.getByTitle(ctx, ownerID, titleNorm)
}
func (m *mockTripRepo) ListForUser(ctx context.Context, userID uuid.UUID, f domain.TripFilter) ([]domain.Trip, error) {
	return m.listForUser(ctx, userID, f)
}
func (m *mockTripRepo) UpdateVersioned(ctx context.Context, t domain.Trip, token []byte) (domain.Trip, error) {
	return m.updateVersioned(ctx, t, token)
}
func (m *mockTripRepo) DeleteVersioned(ctx context.Context, id uuid.UUID, token []byte) error {
	return m.deleteVersioned(ctx, id, token)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

// mockPinRepo is a test double for repo.PinRepo.
type mockPinRepo struct {
	create            func(ctx context.Context, pin domain.Pin) (domain.Pin, error)
	getByID           func(ctx context.Context, id uuid.UUID) (domain.Pin, error)
	getByTitle        func(ctx context.Context, userID uuid.UUID, titleNorm string) (domain.Pin, error)
	listForUser       func(ctx context.Context, userID uuid.UUID, f domain.PinFilter, p domain.PaginationParams) ([]domain.Pin, int64, error)
	listByTrip        func(ctx context.Context, tripID uuid.UUID) ([]domain.Pin, error)
	listForReconcile  func(ctx context.Context, userID uuid.UUID, tripID *uuid.UUID, titlesNorm []string) ([]domain.Pin, error)
	setTrip           func(ctx context.Context, pinID uuid.UUID, tripID *uuid.UUID) error
	detachAllFromTrip func(ctx context.Context, tripID uuid.UUID) error
	delete            func(ctx context.Context, id, userID uuid.UUID) error
}

func (m *mockPinRepo) Create(ctx context.Context, p domain.Pin) (domain.Pin, error) {
	return m.create(ctx, p)
}
func (m *mockPinRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Pin, error) {
	return m.getByID(ctx, id)
}
func (m *mockPinRepo) GetByTitle(ctx context.Context, userID uuid.UUID, titleNorm string) (domain.Pin, error) {
	return m.getByTitle(ctx, userID, titleNorm)
}
func (m *mockPinRepo) ListForUser(ctx context.Context, userID uuid.UUID, f domain.PinFilter, p domain.PaginationParams) ([]domain.Pin, int64, error) {
	return m.listForUser(ctx, userID, f, p)
}
func (m *mockPinRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Pin, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockPinRepo) ListForReconcile(ctx context.Context, userID uuid.UUID, tripID *uuid.UUID, titlesNorm []string) ([]domain.Pin, error) {
	return m.listForReconcile(ctx, userID, tripID, titlesNorm)
}
func (m *mockPinRepo) SetTrip(ctx context.Context, pinID uuid.UUID, tripID *uuid.UUID) error {
	return m.setTrip(ctx, pinID, tripID)
}
func (m *mockPinRepo) DetachAllFromTrip(ctx context.Context, tripID uuid.UUID) error {
	return m.detachAllFromTrip(ctx, tripID)
}
func (m *mockPinRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return m.delete(ctx, id, userID)
}

var _ repo.PinRepo = (*mockPinRepo)(nil)

// mockPhotoRepo is a test double for repo.PhotoRepo.
type mockPhotoRepo struct {
	create           func(ctx context.Context, photo domain.Photo) (domain.Photo, error)
	getByID          func(ctx context.Context, id uuid.UUID) (domain.Photo, error)
	listByTrip       func(ctx context.Context, tripID uuid.UUID) ([]domain.Photo, error)
	listByPins       func(ctx context.Context, pinIDs []uuid.UUID) ([]domain.Photo, error)
	listByPinsOrTrip func(ctx context.Context, pinIDs []uuid.UUID, tripID uuid.UUID) ([]domain.Photo, error)
	setTrip          func(ctx context.Context, photoID uuid.UUID, tripID *uuid.UUID) error
	delete           func(ctx context.Context, id uuid.UUID) error
}

func (m *mockPhotoRepo) Create(ctx context.Context, p domain.Photo) (domain.Photo, error) {
	return m.create(ctx, p)
}
func (m *mockPhotoRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Photo, error) {
	return m.getByID(ctx, id)
}
func (m *mockPhotoRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Photo, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockPhotoRepo) ListByPins(ctx context.Context, pinIDs []uuid.UUID) ([]domain.Photo, error) {
	return m.listByPins(ctx, pinIDs)
}
func (m *mockPhotoRepo) ListByPinsOrTrip(ctx context.Context, pinIDs []uuid.UUID, tripID uuid.UUID) ([]domain.Photo, error) {
	return m.listByPinsOrTrip(ctx, pinIDs, tripID)
}
func (m *mockPhotoRepo) SetTrip(ctx context.Context, photoID uuid.UUID, tripID *uuid.UUID) error {
	return m.setTrip(ctx, photoID, tripID)
}
func (m *mockPhotoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.PhotoRepo = (*mockPhotoRepo)(nil)

// mockAccessRepo is a test double for repo.AccessRepo.
type mockAccessRepo struct {
	grant           func(ctx context.Context, a domain.Access) error
	get             func(ctx context.Context, tripID, userID uuid.UUID) (domain.Access, error)
	listByTrip      func(ctx context.Context, tripID uuid.UUID) ([]domain.Access, error)
	deleteAllExcept func(ctx context.Context, tripID, userID uuid.UUID) error
}

func (m *mockAccessRepo) Grant(ctx context.Context, a domain.Access) error {
	return m.grant(ctx, a)
}
func (m *mockAccessRepo) Get(ctx context.Context, tripID, userID uuid.UUID) (domain.Access, error) {
	return m.get(ctx, tripID, userID)
}
func (m *mockAccessRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Access, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockAccessRepo) DeleteAllExcept(ctx context.Context, tripID, userID uuid.UUID) error {
	return m.deleteAllExcept(ctx, tripID, userID)
}

var _ repo.AccessRepo = (*mockAccessRepo)(nil)

// mockUserRepo is a test double for repo.UserRepo.
type mockUserRepo struct {
	getByID       func(ctx context.Context, id uuid.UUID) (domain.User, error)
	getByUsername func(ctx context.Context, username string) (domain.User, error)
	create        func(ctx context.Context, u domain.User) (domain.User, error)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return m.getByUsername(ctx, username)
}
func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

// mockCategoryRepo is a test double for repo.CategoryRepo.
type mockCategoryRepo struct {
	create      func(ctx context.Context, c domain.Category) (domain.Category, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Category, error)
	listForUser func(ctx context.Context, userID uuid.UUID) ([]domain.Category, error)
	delete      func(ctx context.Context, id, userID uuid.UUID) error
}

func (m *mockCategoryRepo) Create(ctx context.Context, c domain.Category) (domain.Category, error) {
	return m.create(ctx, c)
}
func (m *mockCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Category, error) {
	return m.getByID(ctx, id)
}
func (m *mockCategoryRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Category, error) {
	return m.listForUser(ctx, userID)
}
func (m *mockCategoryRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return m.delete(ctx, id, userID)
}

var _ repo.CategoryRepo = (*mockCategoryRepo)(nil)

// mockBlobStore is a test double for blob.Store.
type mockBlobStore struct {
	upload func(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
	delete func(ctx context.Context, url string) error
}

func (m *mockBlobStore) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if m.upload == nil {
		return "https://blob.test/bucket/" + filename, nil
	}
	return m.upload(ctx, filename, contentType, body)
}
func (m *mockBlobStore) Delete(ctx context.Context, url string) error {
	if m.delete == nil {
		return nil
	}
	return m.delete(ctx, url)
}

var _ blob.Store = (*mockBlobStore)(nil)

// mockReverser is a test double for geo.Reverser.
type mockReverser struct {
	reverse func(ctx context.Context, lat, lon float64) (geo.Location, error)
}

func (m *mockReverser) Reverse(ctx context.Context, lat, lon float64) (geo.Location, error) {
	return m.reverse(ctx, lat, lon)
}

var _ geo.Reverser = (*mockReverser)(nil)

// usersByName returns a UserRepo that knows the given username/id pairs and
// answers ErrNotFound for everything else.
func usersByName(known map[string]uuid.UUID) *mockUserRepo {
	return &mockUserRepo{
		getByUsername: func(_ context.Context, username string) (domain.User, error) {
			id, ok := known[username]
			if !ok {
				return domain.User{}, domain.ErrNotFound
			}
			return domain.User{ID: id, Username: username}, nil
		},
	}
}

// ownerAccess returns an AccessRepo whose Get answers Owner for (tripID,
// userID) and ErrNotFound for everyone else.
func ownerAccess(tripID, userID uuid.UUID) *mockAccessRepo {
	return &mockAccessRepo{
		get: func(_ context.Context, t, u uuid.UUID) (domain.Access, error) {
			if t == tripID && u == userID {
				return domain.Access{TripID: t, UserID: u, Level: domain.AccessOwner}, nil
			}
			return domain.Access{}, domain.ErrNotFound
		},
	}
}

// failCreate is a Trip create func that fails the test if reached.
func failCreateTrip(msg string) func(context.Context, domain.Trip) (domain.Trip, error) {
	return func(context.Context, domain.Trip) (domain.Trip, error) {
		return domain.Trip{}, fmt.Errorf("unexpected call: %s", msg)
	}
}
