package supplierservice

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/pkg/logger"
)

// SupplierRepository define o contrato que este Serviço espera da camada de Persistência.
type SupplierRepository interface {
	CreateSupplier(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error)
	GetSupplierByID(ctx context.Context, id string) (domain.Supplier, error)
	ListSuppliers(ctx context.Context, filter domain.ListFilter) ([]domain.Supplier, error)
	UpdateSupplier(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error
	AddSupplierProduct(ctx context.Context, sp domain.SupplierProduct) (domain.SupplierProduct, error)
	UpdateSupplierProduct(ctx context.Context, sp domain.SupplierProduct) (domain.SupplierProduct, error)
	ListSupplierProducts(ctx context.Context, supplierID string) ([]domain.SupplierProduct, error)
	RemoveSupplierProduct(ctx context.Context, supplierID, variantID string) error
}

// Limites das colunas de fornecedores.
const (
	maxTextLen  = 255
	maxPhoneLen = 20
)

// maxPrice é o primeiro valor que não cabe em NUMERIC(10, 2).
var maxPrice = decimal.New(1, 8)

// Service implementa as regras de fornecedores e de seus preços por variante.
type Service struct {
	repo   SupplierRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Fornecedores.
func NewService(repo SupplierRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateSupplier valida e grava um fornecedor; authorID é o usuário autenticado.
func (s *Service) CreateSupplier(ctx context.Context, supplier domain.Supplier, authorID string) (domain.Supplier, error) {
	if strings.TrimSpace(authorID) == "" {
		return domain.Supplier{}, apperror.NewUnauthorizedError("Autor do fornecedor não identificado.")
	}
	if err := prepare(&supplier); err != nil {
		return domain.Supplier{}, err
	}
	supplier.ID = uuid.New().String()
	supplier.AuthorID = authorID

	created, err := s.repo.CreateSupplier(ctx, supplier)
	if err != nil {
		s.logger.Warn("Falha ao criar fornecedor.", map[string]interface{}{"business_name": supplier.BusinessName, "error": err.Error()})
		return domain.Supplier{}, err
	}
	s.logger.Info("Fornecedor criado.", map[string]interface{}{"id": created.ID, "author_id": authorID})
	return created, nil
}

// GetSupplier busca um fornecedor pelo ID.
func (s *Service) GetSupplier(ctx context.Context, id string) (domain.Supplier, error) {
	if err := validateID("id", id); err != nil {
		return domain.Supplier{}, err
	}
	return s.repo.GetSupplierByID(ctx, id)
}

// ListSuppliers lista fornecedores com paginação.
func (s *Service) ListSuppliers(ctx context.Context, filter domain.ListFilter) ([]domain.Supplier, error) {
	suppliers, err := s.repo.ListSuppliers(ctx, filter.Normalize())
	if err != nil {
		return nil, err
	}
	if suppliers == nil {
		suppliers = []domain.Supplier{}
	}
	return suppliers, nil
}

// UpdateSupplier atualiza os dados cadastrais do fornecedor.
func (s *Service) UpdateSupplier(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	if err := validateID("id", supplier.ID); err != nil {
		return domain.Supplier{}, err
	}
	if err := prepare(&supplier); err != nil {
		return domain.Supplier{}, err
	}
	return s.repo.UpdateSupplier(ctx, supplier)
}

// DeleteSupplier remove o fornecedor e seus preços.
func (s *Service) DeleteSupplier(ctx context.Context, id string) error {
	if err := validateID("id", id); err != nil {
		return err
	}
	if err := s.repo.DeleteSupplier(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Fornecedor removido.", map[string]interface{}{"id": id})
	return nil
}

// AddProduct registra o preço de compra de uma variante junto ao fornecedor.
func (s *Service) AddProduct(ctx context.Context, sp domain.SupplierProduct) (domain.SupplierProduct, error) {
	if err := validateLink(sp); err != nil {
		return domain.SupplierProduct{}, err
	}
	sp.ID = uuid.New().String()
	created, err := s.repo.AddSupplierProduct(ctx, sp)
	if err != nil {
		return domain.SupplierProduct{}, err
	}
	s.logger.Info("Variante vinculada ao fornecedor.", map[string]interface{}{
		"supplier_id": created.SupplierID, "variant_id": created.VariantID, "price": created.Price.StringFixed(2),
	})
	return created, nil
}

// UpdateProductPrice altera o preço de uma variante já vinculada.
func (s *Service) UpdateProductPrice(ctx context.Context, sp domain.SupplierProduct) (domain.SupplierProduct, error) {
	if err := validateLink(sp); err != nil {
		return domain.SupplierProduct{}, err
	}
	return s.repo.UpdateSupplierProduct(ctx, sp)
}

// ListProducts lista os preços de um fornecedor existente.
func (s *Service) ListProducts(ctx context.Context, supplierID string) ([]domain.SupplierProduct, error) {
	if err := validateID("id", supplierID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetSupplierByID(ctx, supplierID); err != nil {
		return nil, err
	}
	return s.repo.ListSupplierProducts(ctx, supplierID)
}

// RemoveProduct desfaz o vínculo entre fornecedor e variante.
func (s *Service) RemoveProduct(ctx context.Context, supplierID, variantID string) error {
	if err := validateID("id", supplierID); err != nil {
		return err
	}
	if err := validateID("variant_id", variantID); err != nil {
		return err
	}
	return s.repo.RemoveSupplierProduct(ctx, supplierID, variantID)
}

func prepare(supplier *domain.Supplier) error {
	supplier.BusinessName = strings.TrimSpace(supplier.BusinessName)
	supplier.ContactPerson = strings.TrimSpace(supplier.ContactPerson)
	supplier.Email = strings.ToLower(strings.TrimSpace(supplier.Email))
	supplier.Phone = strings.TrimSpace(supplier.Phone)
	supplier.Country = strings.TrimSpace(supplier.Country)
	supplier.City = strings.TrimSpace(supplier.City)

	if supplier.BusinessName == "" {
		return apperror.NewFieldValidationError("business_name", "A razão social é obrigatória.")
	}
	for field, value := range map[string]string{
		"business_name":  supplier.BusinessName,
		"contact_person": supplier.ContactPerson,
		"country":        supplier.Country,
		"city":           supplier.City,
	} {
		if len(value) > maxTextLen {
			return apperror.NewFieldValidationError(field, fmt.Sprintf("%s excede %d caracteres.", field, maxTextLen))
		}
	}
	if len(supplier.Phone) > maxPhoneLen {
		return apperror.NewFieldValidationError("phone", fmt.Sprintf("O telefone excede %d caracteres.", maxPhoneLen))
	}
	if supplier.Email != "" {
		addr, err := mail.ParseAddress(supplier.Email)
		if err != nil || addr.Address != supplier.Email {
			return apperror.NewFieldValidationError("email", "E-mail do fornecedor inválido.")
		}
	}
	return nil
}

func validateLink(sp domain.SupplierProduct) error {
	if err := validateID("id", sp.SupplierID); err != nil {
		return err
	}
	if err := validateID("variant_id", sp.VariantID); err != nil {
		return err
	}
	if sp.Price.IsNegative() {
		return apperror.NewFieldValidationError("price", "O preço não pode ser negativo.")
	}
	if !sp.Price.Equal(sp.Price.Round(2)) {
		return apperror.NewFieldValidationError("price", "O preço aceita no máximo duas casas decimais.")
	}
	if sp.Price.GreaterThanOrEqual(maxPrice) {
		return apperror.NewFieldValidationError("price", "O preço excede o valor máximo permitido.")
	}
	return nil
}

func validateID(field, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewFieldValidationError(field, fmt.Sprintf("%s deve ser um UUID válido.", field))
	}
	return nil
}
