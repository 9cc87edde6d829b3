package warehouseservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/service/warehouseservice"
)

// MockWarehouseRepository é uma implementação mock da interface WarehouseRepository
type MockWarehouseRepository struct {
	mock.Mock
}

func (m *MockWarehouseRepository) CreateWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error) {
	args := m.Called(ctx, warehouse)
	return args.Get(0).(domain.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) GetWarehouseByID(ctx context.Context, id string) (domain.Warehouse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) GetAllWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) UpdateWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error) {
	args := m.Called(ctx, warehouse)
	return args.Get(0).(domain.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) DeleteWarehouse(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWarehouseRepository) AddWarehouseUser(ctx context.Context, member domain.WarehouseUser) (domain.WarehouseUser, error) {
	args := m.Called(ctx, member)
	return args.Get(0).(domain.WarehouseUser), args.Error(1)
}

func (m *MockWarehouseRepository) ListWarehouseUsers(ctx context.Context, warehouseID string) ([]domain.WarehouseUser, error) {
	args := m.Called(ctx, warehouseID)
	return args.Get(0).([]domain.WarehouseUser), args.Error(1)
}

func newTestLogger() logger.Logger {
	return logger.NewLogger("error")
}

// --- Testes para CreateWarehouse ---

func TestCreateWarehouse_Success_DerivesSlug(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := warehouseservice.NewService(mockRepo, newTestLogger())

	expected := domain.Warehouse{Name: "Depósito São Paulo", Slug: "deposito-sao-paulo", IsActive: true}
	created := expected
	created.ID = uuid.New().String()
	created.CreatedAt = time.Now()

	mockRepo.On("CreateWarehouse", mock.Anything, expected).Return(created, nil)

	result, err := svc.CreateWarehouse(context.Background(), domain.Warehouse{Name: "  Depósito São Paulo "})

	assert.NoError(t, err)
	assert.Equal(t, created.ID, result.ID)
	assert.Equal(t, "deposito-sao-paulo", result.Slug)
	mockRepo.AssertExpectations(t)
}

func TestCreateWarehouse_Fail_InvalidName(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := warehouseservice.NewService(mockRepo, newTestLogger())

	_, err := svc.CreateWarehouse(context.Background(), domain.Warehouse{Name: ""})

	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "não pode ser vazio")
	mockRepo.AssertNotCalled(t, "CreateWarehouse")
}

func TestCreateWarehouse_Fail_SlugConflict(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := warehouseservice.NewService(mockRepo, newTestLogger())

	mockRepo.On("CreateWarehouse", mock.Anything, mock.Anything).
		Return(domain.Warehouse{}, apperror.NewConflictError("slug em uso"))

	_, err := svc.CreateWarehouse(context.Background(), domain.Warehouse{Name: "Central", Slug: "central"})

	assert.IsType(t, &apperror.ConflictError{}, err)
	mockRepo.AssertExpectations(t)
}

// --- Testes para GetWarehouseByID ---

func TestGetWarehouseByID_Success(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := warehouseservice.NewService(mockRepo, newTestLogger())

	warehouseID := uuid.New().String()
	expected := domain.Warehouse{ID: warehouseID, Name: "Warehouse Gamma"}
	mockRepo.On("GetWarehouseByID", mock.Anything, warehouseID).Return(expected, nil)

	result, err := svc.GetWarehouseByID(context.Background(), warehouseID)

	assert.NoError(t, err)
	assert.Equal(t, expected, result)
	mockRepo.AssertExpectations(t)
}

func TestGetWarehouseByID_Fail_InvalidID(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := warehouseservice.NewService(mockRepo, newTestLogger())

	_, err := svc.GetWarehouseByID(context.Background(), "invalid-uuid")

	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "UUID válido")
	mockRepo.AssertNotCalled(t, "GetWarehouseByID")
}

func TestGetWarehouseByID_Fail_NotFound(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := warehouseservice.NewService(mockRepo, newTestLogger())

	warehouseID := uuid.New().String()
	mockRepo.On("GetWarehouseByID", mock.Anything, warehouseID).
		Return(domain.Warehouse{}, apperror.NewNotFoundError("Armazém não encontrado"))

	_, err := svc.GetWarehouseByID(context.Background(), warehouseID)

	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertExpectations(t)
}

// --- Testes para UpdateWarehouse e DeleteWarehouse ---

func TestUpdateWarehouse_Success(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := warehouseservice.NewService(mockRepo, newTestLogger())

	id := uuid.New().String()
	input := domain.Warehouse{ID: id, Name: "Norte", Slug: "Norte 2", Location: "Manaus", IsActive: false}
	expected := input
	expected.Slug = "norte-2"
	mockRepo.On("UpdateWarehouse", mock.Anything, expected).Return(expected, nil)

	result, err := svc.UpdateWarehouse(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, "norte-2", result.Slug)
	assert.False(t, result.IsActive)
	mockRepo.AssertExpectations(t)
}

func TestDeleteWarehouse_Fail_InvalidID(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := warehouseservice.NewService(mockRepo, newTestLogger())

	err := svc.DeleteWarehouse(context.Background(), "x")

	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "DeleteWarehouse")
}

func TestDeleteWarehouse_Success(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := warehouseservice.NewService(mockRepo, newTestLogger())

	id := uuid.New().String()
	mockRepo.On("DeleteWarehouse", mock.Anything, id).Return(nil)

	assert.NoError(t, svc.DeleteWarehouse(context.Background(), id))
	mockRepo.AssertExpectations(t)
}

// --- Testes para membros ---

func TestAddMember_NormalizesRole(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := warehouseservice.NewService(mockRepo, newTestLogger())

	member := domain.WarehouseUser{WarehouseID: uuid.New().String(), UserID: uuid.New().String(), Role: "manager"}
	expected := member
	expected.Role = domain.WarehouseManager
	mockRepo.On("AddWarehouseUser", mock.Anything, expected).Return(expected, nil)

	result, err := svc.AddMember(context.Background(), member)

	assert.NoError(t, err)
	assert.Equal(t, domain.WarehouseManager, result.Role)
	mockRepo.AssertExpectations(t)
}

func TestAddMember_Fail_InvalidRole(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := warehouseservice.NewService(mockRepo, newTestLogger())

	_, err := svc.AddMember(context.Background(), domain.WarehouseUser{
		WarehouseID: uuid.New().String(), UserID: uuid.New().String(), Role: "OWNER",
	})

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Equal(t, "role", validation.Field)
	mockRepo.AssertNotCalled(t, "AddWarehouseUser")
}

func TestListMembers_Fail_UnknownWarehouse(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := warehouseservice.NewService(mockRepo, newTestLogger())

	id := uuid.New().String()
	mockRepo.On("GetWarehouseByID", mock.Anything, id).Return(domain.Warehouse{}, apperror.NewNotFoundError("x"))

	_, err := svc.ListMembers(context.Background(), id)

	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertNotCalled(t, "ListWarehouseUsers")
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Depósito Central":   "deposito-central",
		"  Loja 01 -- Sul  ": "loja-01-sul",
		"Açaí & Cia!":        "acai-cia",
		"***":                "",
	}
	for in, want := range tests {
		assert.Equal(t, want, warehouseservice.Slugify(in), in)
	}
}
