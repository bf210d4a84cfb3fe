package mocks

import (
	"context"

	"carcatalog/internal/model"
	"carcatalog/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockCarRepository struct {
	mock.Mock
}

var _ repository.CarRepository = (*MockCarRepository)(nil)

func (m *MockCarRepository) GetAll(ctx context.Context) ([]model.Car, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Car), args.Error(1)
}

func (m *MockCarRepository) GetByID(ctx context.Context, id int64) (*model.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Car), args.Error(1)
}

func (m *MockCarRepository) Insert(ctx context.Context, car *model.Car) (int64, error) {
	args := m.Called(ctx, car)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCarRepository) Update(ctx context.Context, car *model.Car) (int64, error) {
	args := m.Called(ctx, car)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCarRepository) SoftDelete(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCarRepository) Search(ctx context.Context, text string) ([]model.Car, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Car), args.Error(1)
}

func (m *MockCarRepository) Filter(ctx context.Context, category repository.FilterCategory, text string) ([]model.Car, error) {
	args := m.Called(ctx, category, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Car), args.Error(1)
}

func (m *MockCarRepository) CountActive(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCarRepository) AveragePrice(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockCarRepository) UniqueMakes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
