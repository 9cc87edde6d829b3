package productservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/service/productservice"
)

// MockProductRepository é uma implementação mock da interface ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) SaveProduct(ctx context.Context, product domain.Product, variants []domain.Variant) (domain.Product, error) {
	args := m.Called(ctx, product, variants)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindProductByID(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func newService(repo productservice.ProductRepository) *productservice.Service {
	return productservice.NewService(repo, logger.NewLogger("error"))
}

func TestCreateProduct_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := newService(mockRepo)

	var saved []domain.Variant
	mockRepo.On("SaveProduct", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(2).([]domain.Variant) }).
		Return(domain.Product{Name: "Camiseta"}, nil)

	_, err := svc.CreateProduct(context.Background(),
		domain.Product{Name: "Camiseta", SKU: "cam-01", Price: decimal.RequireFromString("49.90")},
		[]domain.Variant{
			{Attribute: "cor", Value: "azul", LowStockThreshold: 5},
			{Attribute: "cor", Value: "preta", SKU: "cam-01-pt", PriceDiff: decimal.RequireFromString("5")},
		})

	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "CAM-01-1", saved[0].SKU)
	assert.Equal(t, "CAM-01-PT", saved[1].SKU)
	assert.Equal(t, 5, saved[0].LowStockThreshold)
	assert.Equal(t, saved[0].ProductID, saved[1].ProductID)
	mockRepo.AssertExpectations(t)
}

func TestCreateProduct_Fail_Validation(t *testing.T) {
	price := decimal.RequireFromString("10")
	variant := []domain.Variant{{Attribute: "tam", Value: "M"}}

	tests := []struct {
		name     string
		product  domain.Product
		variants []domain.Variant
	}{
		{"sem nome", domain.Product{SKU: "X", Price: price}, variant},
		{"preço zero", domain.Product{Name: "P", SKU: "X"}, variant},
		{"sem variantes", domain.Product{Name: "P", SKU: "X", Price: price}, nil},
		{"variante incompleta", domain.Product{Name: "P", SKU: "X", Price: price}, []domain.Variant{{Attribute: "tam"}}},
		{"preço final negativo", domain.Product{Name: "P", SKU: "X", Price: price}, []domain.Variant{{Attribute: "tam", Value: "M", PriceDiff: decimal.RequireFromString("-11")}}},
		{"sku repetido", domain.Product{Name: "P", SKU: "X", Price: price}, []domain.Variant{{Attribute: "a", Value: "1", SKU: "v"}, {Attribute: "a", Value: "2", SKU: "V"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			_, err := newService(mockRepo).CreateProduct(context.Background(), tt.product, tt.variants)
			assert.IsType(t, &apperror.ValidationError{}, err)
			mockRepo.AssertNotCalled(t, "SaveProduct")
		})
	}
}

func TestGetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := newService(mockRepo)

	_, err := svc.GetProductByID(context.Background(), "abc")
	assert.IsType(t, &apperror.ValidationError{}, err)

	id := uuid.New().String()
	mockRepo.On("FindProductByID", mock.Anything, id).Return(domain.Product{}, apperror.NewNotFoundError("x"))
	_, err = svc.GetProductByID(context.Background(), id)
	assert.IsType(t, &apperror.NotFoundError{}, err)
}

// TestGetProducts_LimitSafeguard testa o limite máximo de itens por página.
func TestGetProducts_LimitSafeguard(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := newService(mockRepo)

	mockRepo.On("FindAllProducts", mock.Anything, domain.ProductFilter{Limit: domain.MaxPageSize, Offset: 0, Name: "cam"}).
		Return([]domain.Product(nil), nil)

	products, err := svc.GetProducts(context.Background(), domain.ProductFilter{Limit: 150, Offset: -3, Name: " cam "})

	assert.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
	mockRepo.AssertExpectations(t)
}

func TestGetProducts_Fail_RepoError(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := newService(mockRepo)

	mockRepo.On("FindAllProducts", mock.Anything, mock.Anything).Return([]domain.Product(nil), errors.New("db down"))

	_, err := svc.GetProducts(context.Background(), domain.ProductFilter{})
	assert.Error(t, err)
}
