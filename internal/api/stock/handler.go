package stock

import (
	"context"
	"net/http"

	"stockledger/internal/api/response"
	"stockledger/internal/domain"
	"stockledger/internal/pkg/logger"
)

// StockService define o contrato que o Handler espera da camada de Serviço.
type StockService interface {
	GetStock(ctx context.Context, warehouseID, variantID string) (domain.StockRecord, error)
}

// Handler agrupa todos os métodos de Handler de estoque.
type Handler struct {
	Service StockService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc StockService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// GetStockHandler lida com a requisição GET /v1/stock/{warehouse_id}/{variant_id}.
// @Summary Consulta o saldo de uma variante em um armazém
// @Description Leitura sem lock do último estado confirmado; pode vir do cache por até STOCK_CACHE_TTL_SEC.
// @Tags stock
// @Produce json
// @Param warehouse_id path string true "ID do Armazém"
// @Param variant_id path string true "ID da Variante"
// @Success 200 {object} domain.StockRecord
// @Failure 404 {object} domain.ErrorResponse "Registro de estoque inexistente"
// @Security ApiKeyAuth
// @Router /stock/{warehouse_id}/{variant_id} [get]
func (h *Handler) GetStockHandler(w http.ResponseWriter, r *http.Request) {
	record, err := h.Service.GetStock(r.Context(), r.PathValue("warehouse_id"), r.PathValue("variant_id"))
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, record)
}
