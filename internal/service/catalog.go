package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"carcatalog/internal/model"
	"carcatalog/internal/repository"
	"carcatalog/internal/storage"
)

var (
	ErrNotFound           = errors.New("car not found")
	ErrForbidden          = errors.New("operation requires administrator role")
	ErrValidation         = errors.New("invalid car")
	ErrIDRequired         = errors.New("id is required")
	ErrReaderNil          = errors.New("reader is nil")
	ErrNoImage            = errors.New("car has no stored image")
	ErrStorageUnavailable = errors.New("image storage is not configured")
)

// The fallback creator recorded when a car is added without a session.
const anonymousCreator = "Unknown"

const imagePresignExpiry = 15 * time.Minute

// CatalogStats aggregates the active catalog.
type CatalogStats struct {
	TotalCars    int      `json:"total_cars"`
	AveragePrice float64  `json:"average_price"`
	Makes        []string `json:"makes"`
}

// CatalogService defines the catalog use cases. Reads are open; every
// mutation is gated on the session holding the administrator role, which is
// enforced here rather than left to caller convention.
type CatalogService interface {
	// GetAllCars returns the active listings, newest first.
	GetAllCars(ctx context.Context) ([]model.Car, error)

	// GetCarByID returns one active listing or ErrNotFound.
	GetCarByID(ctx context.Context, id int64) (*model.Car, error)

	// AddCar stores a new listing attributed to the session user ("Unknown"
	// when anonymous) and returns the assigned identifier.
	AddCar(ctx context.Context, car *model.Car) (int64, error)

	// UpdateCar overwrites the listing matching car.ID. ErrNotFound when
	// the identifier does not match an existing row.
	UpdateCar(ctx context.Context, car *model.Car) (int64, error)

	// DeleteCar soft-deletes a listing. ErrNotFound when the id is absent
	// or already deleted.
	DeleteCar(ctx context.Context, id int64) (int64, error)

	// SearchCars free-text matches make, model, or year; blank text returns
	// everything.
	SearchCars(ctx context.Context, text string) ([]model.Car, error)

	// FilterCars narrows by optional text and a category label. Unknown
	// labels behave as "All".
	FilterCars(ctx context.Context, category, text string) ([]model.Car, error)

	// Stats returns count, average price, and distinct makes over active
	// listings.
	Stats(ctx context.Context) (*CatalogStats, error)

	// UploadImage streams a listing image to object storage and records its
	// key on the car, rolling the object back if the record update fails.
	UploadImage(ctx context.Context, id int64, r io.Reader, originalFilename, contentType string, size int64) (*model.Car, error)

	// ImageURL returns a presigned download URL for a listing's stored
	// image, ErrNoImage when it only has the placeholder.
	ImageURL(ctx context.Context, id int64) (string, error)
}

type catalogService struct {
	repo  repository.CarRepository
	store storage.Storage
	gate  AuthService
}

// NewCatalogService constructs the catalog service. store may be nil when
// image storage is not configured; image operations then fail with
// ErrStorageUnavailable while the rest of the catalog keeps working.
func NewCatalogService(repo repository.CarRepository, store storage.Storage, gate AuthService) CatalogService {
	return &catalogService{repo: repo, store: store, gate: gate}
}

func (s *catalogService) GetAllCars(ctx context.Context) ([]model.Car, error) {
	return s.repo.GetAll(ctx)
}

func (s *catalogService) GetCarByID(ctx context.Context, id int64) (*model.Car, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	car, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return car, nil
}

func (s *catalogService) AddCar(ctx context.Context, car *model.Car) (int64, error) {
	if !s.gate.IsAdmin() {
		return 0, ErrForbidden
	}
	if err := validateCar(car); err != nil {
		return 0, err
	}

	car.CreatedBy = anonymousCreator
	if u := s.gate.CurrentUser(); u != nil {
		car.CreatedBy = u.Username
	}
	return s.repo.Insert(ctx, car)
}

func (s *catalogService) UpdateCar(ctx context.Context, car *model.Car) (int64, error) {
	if !s.gate.IsAdmin() {
		return 0, ErrForbidden
	}
	if car.ID <= 0 {
		return 0, ErrIDRequired
	}
	if err := validateCar(car); err != nil {
		return 0, err
	}

	rows, err := s.repo.Update(ctx, car)
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, ErrNotFound
	}
	return rows, nil
}

func (s *catalogService) DeleteCar(ctx context.Context, id int64) (int64, error) {
	if !s.gate.IsAdmin() {
		return 0, ErrForbidden
	}
	if id <= 0 {
		return 0, ErrIDRequired
	}

	rows, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, ErrNotFound
	}
	return rows, nil
}

func (s *catalogService) SearchCars(ctx context.Context, text string) ([]model.Car, error) {
	return s.repo.Search(ctx, text)
}

func (s *catalogService) FilterCars(ctx context.Context, category, text string) ([]model.Car, error) {
	return s.repo.Filter(ctx, repository.ParseCategory(category), text)
}

func (s *catalogService) Stats(ctx context.Context) (*CatalogStats, error) {
	count, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	avg, err := s.repo.AveragePrice(ctx)
	if err != nil {
		return nil, err
	}
	makes, err := s.repo.UniqueMakes(ctx)
	if err != nil {
		return nil, err
	}
	return &CatalogStats{TotalCars: count, AveragePrice: avg, Makes: makes}, nil
}

func (s *catalogService) UploadImage(ctx context.Context, id int64, r io.Reader, originalFilename, contentType string, size int64) (*model.Car, error) {
	if !s.gate.IsAdmin() {
		return nil, ErrForbidden
	}
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	if r == nil {
		return nil, ErrReaderNil
	}

	car, err := s.GetCarByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := filepath.ToSlash(filepath.Join("cars", uuid.New().String()+filepath.Ext(originalFilename)))
	if _, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": originalFilename},
	}); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	previous := car.ImageName
	car.ImageName = key
	if _, err := s.repo.Update(ctx, car); err != nil {
		// Roll the fresh object back so storage does not accumulate
		// orphans the record never pointed at.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	// Best effort: drop the replaced object. Bundled placeholder names are
	// not stored objects and are left alone.
	if strings.HasPrefix(previous, "cars/") {
		_ = s.store.Delete(ctx, previous)
	}
	return car, nil
}

func (s *catalogService) ImageURL(ctx context.Context, id int64) (string, error) {
	if s.store == nil {
		return "", ErrStorageUnavailable
	}
	car, err := s.GetCarByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(car.ImageName, "cars/") {
		return "", ErrNoImage
	}
	return s.store.PresignGet(ctx, car.ImageName, imagePresignExpiry)
}

func validateCar(car *model.Car) error {
	switch {
	case car == nil:
		return fmt.Errorf("%w: nil car", ErrValidation)
	case strings.TrimSpace(car.Make) == "":
		return fmt.Errorf("%w: make is required", ErrValidation)
	case strings.TrimSpace(car.Model) == "":
		return fmt.Errorf("%w: model is required", ErrValidation)
	case car.Year <= 0:
		return fmt.Errorf("%w: year is required", ErrValidation)
	case car.Price < 0:
		return fmt.Errorf("%w: price must be non-negative", ErrValidation)
	case strings.TrimSpace(car.Color) == "":
		return fmt.Errorf("%w: color is required", ErrValidation)
	}
	return nil
}
