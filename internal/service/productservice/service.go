package productservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/pkg/logger"
)

// ProductRepository define o contrato que este Serviço espera da camada de Persistência.
type ProductRepository interface {
	SaveProduct(ctx context.Context, product domain.Product, variants []domain.Variant) (domain.Product, error)
	FindProductByID(ctx context.Context, id string) (domain.Product, error)
	FindAllProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
}

// Service implementa as regras do catálogo de produtos.
type Service struct {
	repo   ProductRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Produto.
func NewService(repo ProductRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateProduct valida e grava um produto com suas variantes.
// Variantes sem SKU recebem "<SKU do produto>-<n>".
func (s *Service) CreateProduct(ctx context.Context, product domain.Product, variants []domain.Variant) (domain.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	product.SKU = strings.ToUpper(strings.TrimSpace(product.SKU))
	if product.Name == "" || product.SKU == "" {
		return domain.Product{}, apperror.NewValidationError("Nome e SKU são obrigatórios para o produto.")
	}
	if !product.Price.IsPositive() {
		return domain.Product{}, apperror.NewFieldValidationError("price", "O preço do produto deve ser positivo.")
	}
	if len(variants) == 0 {
		return domain.Product{}, apperror.NewFieldValidationError("variants", "O produto precisa de pelo menos uma variante.")
	}

	product.ID = uuid.New().String()
	product.IsActive = true
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	seen := make(map[string]struct{}, len(variants))
	for i := range variants {
		v := &variants[i]
		if v.Attribute == "" || v.Value == "" {
			return domain.Product{}, apperror.NewFieldValidationError("variants", fmt.Sprintf("Variante %d requer Atributo e Valor.", i+1))
		}
		if v.LowStockThreshold < 0 {
			return domain.Product{}, apperror.NewFieldValidationError("variants", fmt.Sprintf("Variante %d tem limite de estoque negativo.", i+1))
		}
		if product.Price.Add(v.PriceDiff).LessThan(decimal.Zero) {
			return domain.Product{}, apperror.NewFieldValidationError("variants", fmt.Sprintf("Variante %d resulta em preço negativo.", i+1))
		}
		v.ID = uuid.New().String()
		v.ProductID = product.ID
		v.SKU = strings.ToUpper(strings.TrimSpace(v.SKU))
		if v.SKU == "" {
			v.SKU = fmt.Sprintf("%s-%d", product.SKU, i+1)
		}
		if _, dup := seen[v.SKU]; dup {
			return domain.Product{}, apperror.NewFieldValidationError("variants", fmt.Sprintf("SKU de variante repetido: %s.", v.SKU))
		}
		seen[v.SKU] = struct{}{}
	}

	created, err := s.repo.SaveProduct(ctx, product, variants)
	if err != nil {
		s.logger.Warn("Falha ao salvar produto.", map[string]interface{}{"sku": product.SKU, "error": err.Error()})
		return domain.Product{}, err
	}

	s.logger.Info("Produto criado com sucesso.", map[string]interface{}{"id": created.ID, "variants": len(variants)})
	return created, nil
}

// GetProductByID busca um produto pelo ID.
func (s *Service) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Product{}, apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}
	return s.repo.FindProductByID(ctx, id)
}

// GetProducts lista produtos aplicando os limites de paginação.
func (s *Service) GetProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	page := domain.ListFilter{Limit: filter.Limit, Offset: filter.Offset}.Normalize()
	filter.Limit, filter.Offset = page.Limit, page.Offset
	filter.Name = strings.TrimSpace(filter.Name)

	products, err := s.repo.FindAllProducts(ctx, filter)
	if err != nil {
		s.logger.Error("Falha ao listar produtos.", err)
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}
