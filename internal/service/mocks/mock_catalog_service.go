package mocks

import (
	"context"
	"io"

	"carcatalog/internal/model"
	"carcatalog/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockCatalogService struct {
	mock.Mock
}

var _ service.CatalogService = (*MockCatalogService)(nil)

func (m *MockCatalogService) GetAllCars(ctx context.Context) ([]model.Car, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Car), args.Error(1)
}

func (m *MockCatalogService) GetCarByID(ctx context.Context, id int64) (*model.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Car), args.Error(1)
}

func (m *MockCatalogService) AddCar(ctx context.Context, car *model.Car) (int64, error) {
	args := m.Called(ctx, car)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogService) UpdateCar(ctx context.Context, car *model.Car) (int64, error) {
	args := m.Called(ctx, car)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogService) DeleteCar(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogService) SearchCars(ctx context.Context, text string) ([]model.Car, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Car), args.Error(1)
}

func (m *MockCatalogService) FilterCars(ctx context.Context, category, text string) ([]model.Car, error) {
	args := m.Called(ctx, category, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Car), args.Error(1)
}

func (m *MockCatalogService) Stats(ctx context.Context) (*service.CatalogStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CatalogStats), args.Error(1)
}

func (m *MockCatalogService) UploadImage(ctx context.Context, id int64, r io.Reader, originalFilename, contentType string, size int64) (*model.Car, error) {
	args := m.Called(ctx, id, r, originalFilename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Car), args.Error(1)
}

func (m *MockCatalogService) ImageURL(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
