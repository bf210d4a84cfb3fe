package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"carcatalog/internal/model"
	"carcatalog/internal/repository"
	repoMocks "carcatalog/internal/repository/mocks"
	"carcatalog/internal/storage"
	storeMocks "carcatalog/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func adminGate(t *testing.T) AuthService {
	t.Helper()
	gate := NewAuthService(DefaultUsers(testAuthConfig()))
	_, ok := gate.Login("admin", "admin123")
	require.True(t, ok)
	return gate
}

func standardGate(t *testing.T) AuthService {
	t.Helper()
	gate := NewAuthService(DefaultUsers(testAuthConfig()))
	_, ok := gate.Login("john", "user123")
	require.True(t, ok)
	return gate
}

func anonymousGate() AuthService {
	return NewAuthService(DefaultUsers(testAuthConfig()))
}

func validCar() *model.Car {
	return &model.Car{Make: "Toyota", Model: "Camry", Year: 2022, Price: 25000, Color: "Silver"}
}

func TestCatalogService_GetCarByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         int64
		setupMocks func(mRepo *repoMocks.MockCarRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   1,
			setupMocks: func(mRepo *repoMocks.MockCarRepository) {
				mRepo.On("GetByID", ctx, int64(1)).Return(&model.Car{ID: 1, Make: "Toyota"}, nil)
			},
		},
		{
			name:       "validation - zero id",
			id:         0,
			setupMocks: func(mRepo *repoMocks.MockCarRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found - mapping sql.ErrNoRows",
			id:   42,
			setupMocks: func(mRepo *repoMocks.MockCarRepository) {
				mRepo.On("GetByID", ctx, int64(42)).Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "generic repository error",
			id:   7,
			setupMocks: func(mRepo *repoMocks.MockCarRepository) {
				mRepo.On("GetByID", ctx, int64(7)).Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockCarRepository)
			svc := NewCatalogService(mRepo, nil, anonymousGate())

			tt.setupMocks(mRepo)

			car, err := svc.GetCarByID(ctx, tt.id)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrIDRequired) || errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Error(t, err)
				}
				assert.Nil(t, car)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, car)
				assert.Equal(t, tt.id, car.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_AddCar(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous session is forbidden", func(t *testing.T) {
		mRepo := new(repoMocks.MockCarRepository)
		svc := NewCatalogService(mRepo, nil, anonymousGate())

		id, err := svc.AddCar(ctx, validCar())

		assert.ErrorIs(t, err, ErrForbidden)
		assert.Zero(t, id)
		mRepo.AssertNotCalled(t, "Insert")
	})

	t.Run("standard user is forbidden", func(t *testing.T) {
		mRepo := new(repoMocks.MockCarRepository)
		svc := NewCatalogService(mRepo, nil, standardGate(t))

		_, err := svc.AddCar(ctx, validCar())

		assert.ErrorIs(t, err, ErrForbidden)
		mRepo.AssertNotCalled(t, "Insert")
	})

	t.Run("admin insert stamps creator from session", func(t *testing.T) {
		mRepo := new(repoMocks.MockCarRepository)
		svc := NewCatalogService(mRepo, nil, adminGate(t))

		mRepo.On("Insert", ctx, mock.MatchedBy(func(car *model.Car) bool {
			return car.CreatedBy == "admin"
		})).Return(int64(6), nil)

		id, err := svc.AddCar(ctx, validCar())

		assert.NoError(t, err)
		assert.Equal(t, int64(6), id)
		mRepo.AssertExpectations(t)
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := map[string]*model.Car{
			"missing make":   {Model: "Camry", Year: 2022, Price: 1, Color: "Silver"},
			"missing model":  {Make: "Toyota", Year: 2022, Price: 1, Color: "Silver"},
			"missing year":   {Make: "Toyota", Model: "Camry", Price: 1, Color: "Silver"},
			"negative price": {Make: "Toyota", Model: "Camry", Year: 2022, Price: -1, Color: "Silver"},
			"missing color":  {Make: "Toyota", Model: "Camry", Year: 2022, Price: 1},
		}
		for name, car := range cases {
			t.Run(name, func(t *testing.T) {
				mRepo := new(repoMocks.MockCarRepository)
				svc := NewCatalogService(mRepo, nil, adminGate(t))

				_, err := svc.AddCar(ctx, car)

				assert.ErrorIs(t, err, ErrValidation)
				mRepo.AssertNotCalled(t, "Insert")
			})
		}
	})
}

func TestCatalogService_UpdateCar(t *testing.T) {
	ctx := context.Background()

	t.Run("forbidden without admin", func(t *testing.T) {
		svc := NewCatalogService(new(repoMocks.MockCarRepository), nil, standardGate(t))

		car := validCar()
		car.ID = 1
		_, err := svc.UpdateCar(ctx, car)

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("id required", func(t *testing.T) {
		svc := NewCatalogService(new(repoMocks.MockCarRepository), nil, adminGate(t))

		_, err := svc.UpdateCar(ctx, validCar())

		assert.ErrorIs(t, err, ErrIDRequired)
	})

	t.Run("zero affected rows maps to not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockCarRepository)
		svc := NewCatalogService(mRepo, nil, adminGate(t))

		car := validCar()
		car.ID = 42
		mRepo.On("Update", ctx, car).Return(int64(0), nil)

		_, err := svc.UpdateCar(ctx, car)

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("happy path returns affected count", func(t *testing.T) {
		mRepo := new(repoMocks.MockCarRepository)
		svc := NewCatalogService(mRepo, nil, adminGate(t))

		car := validCar()
		car.ID = 3
		mRepo.On("Update", ctx, car).Return(int64(1), nil)

		rows, err := svc.UpdateCar(ctx, car)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), rows)
	})
}

func TestCatalogService_DeleteCar(t *testing.T) {
	ctx := context.Background()

	t.Run("forbidden without admin", func(t *testing.T) {
		mRepo := new(repoMocks.MockCarRepository)
		svc := NewCatalogService(mRepo, nil, anonymousGate())

		_, err := svc.DeleteCar(ctx, 1)

		assert.ErrorIs(t, err, ErrForbidden)
		mRepo.AssertNotCalled(t, "SoftDelete")
	})

	t.Run("soft delete of active listing", func(t *testing.T) {
		mRepo := new(repoMocks.MockCarRepository)
		svc := NewCatalogService(mRepo, nil, adminGate(t))

		mRepo.On("SoftDelete", ctx, int64(4)).Return(int64(1), nil)

		rows, err := svc.DeleteCar(ctx, 4)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), rows)
	})

	t.Run("absent or already-deleted id maps to not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockCarRepository)
		svc := NewCatalogService(mRepo, nil, adminGate(t))

		mRepo.On("SoftDelete", ctx, int64(42)).Return(int64(0), nil)

		_, err := svc.DeleteCar(ctx, 42)

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCatalogService_FilterCars(t *testing.T) {
	ctx := context.Background()

	t.Run("label parses to its category", func(t *testing.T) {
		mRepo := new(repoMocks.MockCarRepository)
		svc := NewCatalogService(mRepo, nil, anonymousGate())

		mRepo.On("Filter", ctx, repository.CategoryElectric, "model").
			Return([]model.Car{{ID: 5, Make: "Tesla"}}, nil)

		cars, err := svc.FilterCars(ctx, "Electric", "model")

		assert.NoError(t, err)
		require.Len(t, cars, 1)
		assert.Equal(t, "Tesla", cars[0].Make)
	})

	t.Run("unknown label behaves as All", func(t *testing.T) {
		mRepo := new(repoMocks.MockCarRepository)
		svc := NewCatalogService(mRepo, nil, anonymousGate())

		mRepo.On("Filter", ctx, repository.CategoryAll, "").
			Return([]model.Car{{ID: 1}, {ID: 2}}, nil)

		cars, err := svc.FilterCars(ctx, "nonexistent-key", "")

		assert.NoError(t, err)
		assert.Len(t, cars, 2)
	})
}

func TestCatalogService_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates the three queries", func(t *testing.T) {
		mRepo := new(repoMocks.MockCarRepository)
		svc := NewCatalogService(mRepo, nil, anonymousGate())

		mRepo.On("CountActive", ctx).Return(5, nil)
		mRepo.On("AveragePrice", ctx).Return(36400.0, nil)
		mRepo.On("UniqueMakes", ctx).Return([]string{"BMW", "Ford", "Honda", "Tesla", "Toyota"}, nil)

		stats, err := svc.Stats(ctx)

		assert.NoError(t, err)
		require.NotNil(t, stats)
		assert.Equal(t, 5, stats.TotalCars)
		assert.Equal(t, 36400.0, stats.AveragePrice)
		assert.Len(t, stats.Makes, 5)
	})

	t.Run("empty catalog reports zero average, not an error", func(t *testing.T) {
		mRepo := new(repoMocks.MockCarRepository)
		svc := NewCatalogService(mRepo, nil, anonymousGate())

		mRepo.On("CountActive", ctx).Return(0, nil)
		mRepo.On("AveragePrice", ctx).Return(0.0, nil)
		mRepo.On("UniqueMakes", ctx).Return([]string{}, nil)

		stats, err := svc.Stats(ctx)

		assert.NoError(t, err)
		assert.Zero(t, stats.TotalCars)
		assert.Zero(t, stats.AveragePrice)
		assert.Empty(t, stats.Makes)
	})
}

func TestCatalogService_UploadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("forbidden without admin", func(t *testing.T) {
		svc := NewCatalogService(new(repoMocks.MockCarRepository), new(storeMocks.MockStorage), standardGate(t))

		_, err := svc.UploadImage(ctx, 1, strings.NewReader("img"), "photo.png", "image/png", 3)

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("nil storage degrades explicitly", func(t *testing.T) {
		svc := NewCatalogService(new(repoMocks.MockCarRepository), nil, adminGate(t))

		_, err := svc.UploadImage(ctx, 1, strings.NewReader("img"), "photo.png", "image/png", 3)

		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})

	t.Run("nil reader", func(t *testing.T) {
		svc := NewCatalogService(new(repoMocks.MockCarRepository), new(storeMocks.MockStorage), adminGate(t))

		_, err := svc.UploadImage(ctx, 1, nil, "photo.png", "image/png", 3)

		assert.ErrorIs(t, err, ErrReaderNil)
	})

	t.Run("happy path stores under cars/ and updates the record", func(t *testing.T) {
		mRepo := new(repoMocks.MockCarRepository)
		mStore := new(storeMocks.MockStorage)
		svc := NewCatalogService(mRepo, mStore, adminGate(t))

		r := strings.NewReader("image-bytes")
		mRepo.On("GetByID", ctx, int64(2)).Return(&model.Car{ID: 2, Make: "Honda", ImageName: "car_civic.png"}, nil)
		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "cars/") && strings.HasSuffix(key, ".png")
		}), r, storage.PutObjectOptions{
			Size:        11,
			ContentType: "image/png",
			Metadata:    map[string]string{"original-filename": "photo.png"},
		}).Return(storage.ObjectInfo{Key: "cars/k.png", Size: 11}, nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(car *model.Car) bool {
			return strings.HasPrefix(car.ImageName, "cars/")
		})).Return(int64(1), nil)

		car, err := svc.UploadImage(ctx, 2, r, "photo.png", "image/png", 11)

		assert.NoError(t, err)
		require.NotNil(t, car)
		assert.True(t, strings.HasPrefix(car.ImageName, "cars/"))
		mRepo.AssertExpectations(t)
		mStore.AssertExpectations(t)
	})

	t.Run("db failure rolls the object back", func(t *testing.T) {
		mRepo := new(repoMocks.MockCarRepository)
		mStore := new(storeMocks.MockStorage)
		svc := NewCatalogService(mRepo, mStore, adminGate(t))

		r := strings.NewReader("image-bytes")
		mRepo.On("GetByID", ctx, int64(2)).Return(&model.Car{ID: 2, Make: "Honda"}, nil)
		mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
			Return(storage.ObjectInfo{}, nil)
		mRepo.On("Update", ctx, mock.Anything).Return(int64(0), errors.New("db fail"))
		mStore.On("Delete", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "cars/")
		})).Return(nil)

		_, err := svc.UploadImage(ctx, 2, r, "photo.png", "image/png", 11)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "db save failed")
		mStore.AssertExpectations(t)
	})
}

func TestCatalogService_ImageURL(t *testing.T) {
	ctx := context.Background()

	t.Run("presigns a stored image", func(t *testing.T) {
		mRepo := new(repoMocks.MockCarRepository)
		mStore := new(storeMocks.MockStorage)
		svc := NewCatalogService(mRepo, mStore, anonymousGate())

		mRepo.On("GetByID", ctx, int64(3)).Return(&model.Car{ID: 3, ImageName: "cars/abc.png"}, nil)
		mStore.On("PresignGet", ctx, "cars/abc.png", imagePresignExpiry).
			Return("https://example.test/cars/abc.png?sig=x", nil)

		url, err := svc.ImageURL(ctx, 3)

		assert.NoError(t, err)
		assert.Contains(t, url, "cars/abc.png")
	})

	t.Run("placeholder-only listing has no image", func(t *testing.T) {
		mRepo := new(repoMocks.MockCarRepository)
		mStore := new(storeMocks.MockStorage)
		svc := NewCatalogService(mRepo, mStore, anonymousGate())

		mRepo.On("GetByID", ctx, int64(4)).Return(&model.Car{ID: 4, ImageName: "car_x5.png"}, nil)

		_, err := svc.ImageURL(ctx, 4)

		assert.ErrorIs(t, err, ErrNoImage)
	})
}
