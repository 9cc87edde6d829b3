package product

import (
	"context"
	"net/http"

	"stockledger/internal/api/response"
	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/pkg/middleware"
)

// ProductService define o contrato que o Handler espera da camada de Serviço.
type ProductService interface {
	CreateProduct(ctx context.Context, product domain.Product, variants []domain.Variant) (domain.Product, error)
	GetProductByID(ctx context.Context, id string) (domain.Product, error)
	GetProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
}

// CreateProductRequest é o payload de POST /v1/products.
type CreateProductRequest struct {
	Product  domain.Product   `json:"product"`
	Variants []domain.Variant `json:"variants"`
}

// Handler agrupa todos os métodos de Handler de produtos.
type Handler struct {
	Service ProductService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ProductService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateProductHandler lida com a requisição POST /v1/products.
// @Summary Cria um produto com variantes
// @Description low_stock_threshold da variante vira o limite dos novos registros de estoque.
// @Tags products
// @Accept json
// @Produce json
// @Param product body CreateProductRequest true "Produto e variantes"
// @Success 201 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "SKU já utilizado"
// @Security ApiKeyAuth
// @Router /products [post]
func (h *Handler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	if claims, ok := middleware.GetUserClaimsFromContext(r.Context()); ok {
		h.Logger.Info("Criação de produto solicitada.", map[string]interface{}{"user_id": claims.UserID, "sku": req.Product.SKU})
	}

	created, err := h.Service.CreateProduct(r.Context(), req.Product, req.Variants)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusCreated, created)
}

// GetProductByIDHandler lida com a requisição GET /v1/products/{id}.
// @Summary Obtém um produto por ID
// @Tags products
// @Produce json
// @Param id path string true "ID do Produto"
// @Success 200 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse "ID inválido"
// @Failure 404 {object} domain.ErrorResponse "Produto não encontrado"
// @Security ApiKeyAuth
// @Router /products/{id} [get]
func (h *Handler) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetProductByID(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, p)
}

// GetProductsHandler lida com a requisição GET /v1/products.
// @Summary Lista produtos
// @Tags products
// @Produce json
// @Param name query string false "Filtro por nome"
// @Param active query bool false "Somente ativos"
// @Param limit query int false "Itens por página (padrão 10, máximo 100)"
// @Param offset query int false "Deslocamento"
// @Success 200 {array} domain.Product
// @Security ApiKeyAuth
// @Router /products [get]
func (h *Handler) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	page, err := response.ListFilter(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	q := r.URL.Query()
	filter := domain.ProductFilter{Limit: page.Limit, Offset: page.Offset, Name: q.Get("name")}
	switch q.Get("active") {
	case "", "false":
	case "true":
		filter.ActiveOnly = true
	default:
		response.Error(w, r, h.Logger, apperror.NewFieldValidationError("active", "active deve ser true ou false."))
		return
	}

	products, err := h.Service.GetProducts(r.Context(), filter)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, products)
}
