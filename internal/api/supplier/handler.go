package supplier

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"stockledger/internal/api/response"
	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/pkg/middleware"
)

// SupplierService define o contrato que o Handler espera da camada de Serviço.
type SupplierService interface {
	CreateSupplier(ctx context.Context, supplier domain.Supplier, authorID string) (domain.Supplier, error)
	GetSupplier(ctx context.Context, id string) (domain.Supplier, error)
	ListSuppliers(ctx context.Context, filter domain.ListFilter) ([]domain.Supplier, error)
	UpdateSupplier(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error
	AddProduct(ctx context.Context, sp domain.SupplierProduct) (domain.SupplierProduct, error)
	UpdateProductPrice(ctx context.Context, sp domain.SupplierProduct) (domain.SupplierProduct, error)
	ListProducts(ctx context.Context, supplierID string) ([]domain.SupplierProduct, error)
	RemoveProduct(ctx context.Context, supplierID, variantID string) error
}

// ProductRequest é o payload de POST /v1/suppliers/{id}/products.
type ProductRequest struct {
	VariantID string          `json:"variant_id"`
	Price     decimal.Decimal `json:"price" swaggertype:"string" example:"19.90"`
}

// PriceRequest é o payload de PUT /v1/suppliers/{id}/products/{variant_id}.
type PriceRequest struct {
	Price decimal.Decimal `json:"price" swaggertype:"string" example:"21.50"`
}

// Handler agrupa todos os métodos de Handler de fornecedores.
type Handler struct {
	Service SupplierService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc SupplierService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateSupplierHandler lida com a requisição POST /v1/suppliers.
// @Summary Cadastra um fornecedor
// @Description O autor é o usuário do token.
// @Tags suppliers
// @Accept json
// @Produce json
// @Param supplier body domain.Supplier true "Dados do fornecedor"
// @Success 201 {object} domain.Supplier
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Token ausente"
// @Security ApiKeyAuth
// @Router /suppliers [post]
func (h *Handler) CreateSupplierHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.Logger, apperror.NewUnauthorizedError("Usuário não autenticado."))
		return
	}

	var supplier domain.Supplier
	if err := response.Decode(r, &supplier); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.CreateSupplier(r.Context(), supplier, claims.UserID)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusCreated, created)
}

// ListSuppliersHandler lida com a requisição GET /v1/suppliers.
// @Summary Lista fornecedores
// @Tags suppliers
// @Produce json
// @Param limit query int false "Tamanho da página"
// @Param offset query int false "Deslocamento"
// @Success 200 {array} domain.Supplier
// @Failure 400 {object} domain.ErrorResponse "Paginação inválida"
// @Security ApiKeyAuth
// @Router /suppliers [get]
func (h *Handler) ListSuppliersHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := response.ListFilter(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	suppliers, err := h.Service.ListSuppliers(r.Context(), filter)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, suppliers)
}

// GetSupplierHandler lida com a requisição GET /v1/suppliers/{id}.
// @Summary Obtém um fornecedor por ID
// @Tags suppliers
// @Produce json
// @Param id path string true "ID do Fornecedor"
// @Success 200 {object} domain.Supplier
// @Failure 404 {object} domain.ErrorResponse "Fornecedor não encontrado"
// @Security ApiKeyAuth
// @Router /suppliers/{id} [get]
func (h *Handler) GetSupplierHandler(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.Service.GetSupplier(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, supplier)
}

// UpdateSupplierHandler lida com a requisição PUT /v1/suppliers/{id}.
// @Summary Atualiza um fornecedor
// @Tags suppliers
// @Accept json
// @Produce json
// @Param id path string true "ID do Fornecedor"
// @Param supplier body domain.Supplier true "Novos dados"
// @Success 200 {object} domain.Supplier
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Fornecedor não encontrado"
// @Security ApiKeyAuth
// @Router /suppliers/{id} [put]
func (h *Handler) UpdateSupplierHandler(w http.ResponseWriter, r *http.Request) {
	var supplier domain.Supplier
	if err := response.Decode(r, &supplier); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	supplier.ID = r.PathValue("id")

	updated, err := h.Service.UpdateSupplier(r.Context(), supplier)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, updated)
}

// DeleteSupplierHandler lida com a requisição DELETE /v1/suppliers/{id}.
// @Summary Remove um fornecedor e seus preços
// @Tags suppliers
// @Param id path string true "ID do Fornecedor"
// @Success 204 "Fornecedor removido"
// @Failure 404 {object} domain.ErrorResponse "Fornecedor não encontrado"
// @Security ApiKeyAuth
// @Router /suppliers/{id} [delete]
func (h *Handler) DeleteSupplierHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteSupplier(r.Context(), r.PathValue("id")); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListProductsHandler lida com a requisição GET /v1/suppliers/{id}/products.
// @Summary Lista os preços de compra do fornecedor
// @Tags suppliers
// @Produce json
// @Param id path string true "ID do Fornecedor"
// @Success 200 {array} domain.SupplierProduct
// @Failure 404 {object} domain.ErrorResponse "Fornecedor não encontrado"
// @Security ApiKeyAuth
// @Router /suppliers/{id}/products [get]
func (h *Handler) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.ListProducts(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, products)
}

// AddProductHandler lida com a requisição POST /v1/suppliers/{id}/products.
// @Summary Vincula uma variante ao fornecedor com preço de compra
// @Tags suppliers
// @Accept json
// @Produce json
// @Param id path string true "ID do Fornecedor"
// @Param product body ProductRequest true "Variante e preço"
// @Success 201 {object} domain.SupplierProduct
// @Failure 400 {object} domain.ErrorResponse "Preço inválido"
// @Failure 404 {object} domain.ErrorResponse "Fornecedor ou variante não encontrados"
// @Failure 409 {object} domain.ErrorResponse "Variante já vinculada"
// @Security ApiKeyAuth
// @Router /suppliers/{id}/products [post]
func (h *Handler) AddProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.AddProduct(r.Context(), domain.SupplierProduct{
		SupplierID: r.PathValue("id"),
		VariantID:  req.VariantID,
		Price:      req.Price,
	})
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusCreated, created)
}

// UpdateProductPriceHandler lida com a requisição PUT /v1/suppliers/{id}/products/{variant_id}.
// @Summary Altera o preço de compra de uma variante
// @Tags suppliers
// @Accept json
// @Produce json
// @Param id path string true "ID do Fornecedor"
// @Param variant_id path string true "ID da Variante"
// @Param price body PriceRequest true "Novo preço"
// @Success 200 {object} domain.SupplierProduct
// @Failure 400 {object} domain.ErrorResponse "Preço inválido"
// @Failure 404 {object} domain.ErrorResponse "Vínculo não encontrado"
// @Security ApiKeyAuth
// @Router /suppliers/{id}/products/{variant_id} [put]
func (h *Handler) UpdateProductPriceHandler(w http.ResponseWriter, r *http.Request) {
	var req PriceRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	updated, err := h.Service.UpdateProductPrice(r.Context(), domain.SupplierProduct{
		SupplierID: r.PathValue("id"),
		VariantID:  r.PathValue("variant_id"),
		Price:      req.Price,
	})
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, updated)
}

// RemoveProductHandler lida com a requisição DELETE /v1/suppliers/{id}/products/{variant_id}.
// @Summary Desvincula uma variante do fornecedor
// @Tags suppliers
// @Param id path string true "ID do Fornecedor"
// @Param variant_id path string true "ID da Variante"
// @Success 204 "Vínculo removido"
// @Failure 404 {object} domain.ErrorResponse "Vínculo não encontrado"
// @Security ApiKeyAuth
// @Router /suppliers/{id}/products/{variant_id} [delete]
func (h *Handler) RemoveProductHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.RemoveProduct(r.Context(), r.PathValue("id"), r.PathValue("variant_id")); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
