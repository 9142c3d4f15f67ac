package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockHouseRepository struct {
	mock.Mock
}

func (m *MockHouseRepository) List(ctx context.Context) ([]domain.House, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.House), args.Error(1)
}

func (m *MockHouseRepository) GetByID(ctx context.Context, id int64) (*domain.House, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.House), args.Error(1)
}

func (m *MockHouseRepository) CreateBatch(ctx context.Context, houses []domain.House) ([]domain.House, error) {
	args := m.Called(ctx, houses)
	return args.Get(0).([]domain.House), args.Error(1)
}

func (m *MockHouseRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) GetByID(ctx context.Context, id int64) (*domain.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}

func (m *MockUnitRepository) ListByHouse(ctx context.Context, houseID int64) ([]domain.Unit, error) {
	args := m.Called(ctx, houseID)
	return args.Get(0).([]domain.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindAndReserve(ctx context.Context, houseID int64, size domain.UnitSize, userID int64, start, end time.Time) (*domain.Unit, error) {
	args := m.Called(ctx, houseID, size, userID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}

func (m *MockUnitRepository) Release(ctx context.Context, unitID int64) error {
	args := m.Called(ctx, unitID)
	return args.Error(0)
}

func (m *MockUnitRepository) Activate(ctx context.Context, unitID int64) error {
	args := m.Called(ctx, unitID)
	return args.Error(0)
}

func (m *MockUnitRepository) MarkPendingCheckOut(ctx context.Context, unitID, userID int64) error {
	args := m.Called(ctx, unitID, userID)
	return args.Error(0)
}

func (m *MockUnitRepository) ResumeUse(ctx context.Context, unitID int64) error {
	args := m.Called(ctx, unitID)
	return args.Error(0)
}

func (m *MockUnitRepository) CreateBatch(ctx context.Context, units []domain.Unit) error {
	args := m.Called(ctx, units)
	return args.Error(0)
}

func (m *MockUnitRepository) CountByHouse(ctx context.Context, houseID int64) (int64, error) {
	args := m.Called(ctx, houseID)
	return args.Get(0).(int64), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetHouses(ctx context.Context) ([]domain.House, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.House), args.Error(1)
}

func (m *MockCache) SetHouses(ctx context.Context, houses []domain.House) error {
	args := m.Called(ctx, houses)
	return args.Error(0)
}

func (m *MockCache) GetUnits(ctx context.Context, houseID int64) ([]domain.Unit, error) {
	args := m.Called(ctx, houseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Unit), args.Error(1)
}

func (m *MockCache) SetUnits(ctx context.Context, houseID int64, units []domain.Unit) error {
	args := m.Called(ctx, houseID, units)
	return args.Error(0)
}

// Тест: список домов - кэш пустой, идем в репозиторий
func TestCatalogService_ListHouses_CacheMiss(t *testing.T) {
	mockHouseRepo := &MockHouseRepository{}
	mockUnitRepo := &MockUnitRepository{}
	mockCache := &MockCache{}

	service := NewCatalogService(mockHouseRepo, mockUnitRepo, mockCache)

	ctx := context.Background()
	houses := []domain.House{{ID: 1, Address: "Seoul"}, {ID: 2, Address: "Busan"}}

	mockCache.On("GetHouses", ctx).Return(nil, errors.New("cache miss")).Once()
	mockHouseRepo.On("List", ctx).Return(houses, nil).Once()
	mockCache.On("SetHouses", ctx, houses).Return(nil).Once()

	result, err := service.ListHouses(ctx)

	assert.NoError(t, err)
	assert.Equal(t, houses, result)

	mockHouseRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

// Тест: список домов - отдаем из кэша
func TestCatalogService_ListHouses_CacheHit(t *testing.T) {
	mockHouseRepo := &MockHouseRepository{}
	mockUnitRepo := &MockUnitRepository{}
	mockCache := &MockCache{}

	service := NewCatalogService(mockHouseRepo, mockUnitRepo, mockCache)

	ctx := context.Background()
	houses := []domain.House{{ID: 1, Address: "Seoul"}}

	mockCache.On("GetHouses", ctx).Return(houses, nil).Once()

	result, err := service.ListHouses(ctx)

	assert.NoError(t, err)
	assert.Equal(t, houses, result)

	mockHouseRepo.AssertNotCalled(t, "List")
	mockCache.AssertExpectations(t)
}

// Тест: список домов - без кэша работает напрямую
func TestCatalogService_ListHouses_NoCache(t *testing.T) {
	mockHouseRepo := &MockHouseRepository{}
	mockUnitRepo := &MockUnitRepository{}

	service := NewCatalogService(mockHouseRepo, mockUnitRepo, nil)

	ctx := context.Background()
	houses := []domain.House{{ID: 1}}

	mockHouseRepo.On("List", ctx).Return(houses, nil).Once()

	result, err := service.ListHouses(ctx)

	assert.NoError(t, err)
	assert.Equal(t, houses, result)
}

// Тест: юниты дома аннотируются ценой по размеру
func TestCatalogService_ListUnitsByHouse_PriceAnnotation(t *testing.T) {
	mockHouseRepo := &MockHouseRepository{}
	mockUnitRepo := &MockUnitRepository{}
	mockCache := &MockCache{}

	service := NewCatalogService(mockHouseRepo, mockUnitRepo, mockCache)

	ctx := context.Background()
	house := &domain.House{ID: 2, PriceS: 40000, PriceM: 50000, PriceL: 90000}
	units := []domain.Unit{
		{ID: 10, HouseID: 2, Size: domain.UnitSizeS, Status: domain.UnitStatusAvailable},
		{ID: 11, HouseID: 2, Size: domain.UnitSizeL, Status: domain.UnitStatusInUse},
	}

	mockHouseRepo.On("GetByID", ctx, int64(2)).Return(house, nil).Once()
	mockCache.On("GetUnits", ctx, int64(2)).Return(nil, errors.New("cache miss")).Once()
	mockUnitRepo.On("ListByHouse", ctx, int64(2)).Return(units, nil).Once()
	mockCache.On("SetUnits", ctx, int64(2), units).Return(nil).Once()

	views, err := service.ListUnitsByHouse(ctx, 2)

	assert.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, int64(40000), views[0].Price)
	assert.Equal(t, int64(90000), views[1].Price)

	mockUnitRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

// Тест: юниты дома - дом не найден
func TestCatalogService_ListUnitsByHouse_HouseNotFound(t *testing.T) {
	mockHouseRepo := &MockHouseRepository{}
	mockUnitRepo := &MockUnitRepository{}

	service := NewCatalogService(mockHouseRepo, mockUnitRepo, nil)

	ctx := context.Background()
	expectedErr := &domain.NotFoundError{Kind: "house", ID: 42}
	mockHouseRepo.On("GetByID", ctx, int64(42)).Return(nil, expectedErr).Once()

	views, err := service.ListUnitsByHouse(ctx, 42)

	assert.Error(t, err)
	assert.Nil(t, views)
	assert.Equal(t, expectedErr, err)

	mockUnitRepo.AssertNotCalled(t, "ListByHouse")
}

// Тест: получение юнита с ценой
func TestCatalogService_GetUnit_Success(t *testing.T) {
	mockHouseRepo := &MockHouseRepository{}
	mockUnitRepo := &MockUnitRepository{}

	service := NewCatalogService(mockHouseRepo, mockUnitRepo, nil)

	ctx := context.Background()
	unit := &domain.Unit{ID: 11, HouseID: 2, Size: domain.UnitSizeM, Status: domain.UnitStatusAvailable}
	house := &domain.House{ID: 2, PriceM: 50000}

	mockUnitRepo.On("GetByID", ctx, int64(11)).Return(unit, nil).Once()
	mockHouseRepo.On("GetByID", ctx, int64(2)).Return(house, nil).Once()

	view, err := service.GetUnit(ctx, 11)

	assert.NoError(t, err)
	assert.Equal(t, int64(11), view.ID)
	assert.Equal(t, int64(50000), view.Price)
}

// Тест: юнит без дома - целостность данных нарушена
func TestCatalogService_GetUnit_MissingHouse(t *testing.T) {
	mockHouseRepo := &MockHouseRepository{}
	mockUnitRepo := &MockUnitRepository{}

	service := NewCatalogService(mockHouseRepo, mockUnitRepo, nil)

	ctx := context.Background()
	unit := &domain.Unit{ID: 11, HouseID: 404, Size: domain.UnitSizeM}

	mockUnitRepo.On("GetByID", ctx, int64(11)).Return(unit, nil).Once()
	mockHouseRepo.On("GetByID", ctx, int64(404)).Return(nil, &domain.NotFoundError{Kind: "house", ID: 404}).Once()

	view, err := service.GetUnit(ctx, 11)

	assert.Error(t, err)
	assert.Nil(t, view)

	var fault *domain.DataIntegrityError
	assert.ErrorAs(t, err, &fault)
}
