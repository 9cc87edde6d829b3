package adjustment

import (
	"context"
	"net/http"

	"stockledger/internal/api/response"
	"stockledger/internal/domain"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/pkg/middleware"
)

// AdjustmentService define o contrato que o Handler espera da camada de Serviço.
type AdjustmentService interface {
	ExecuteAdjustment(ctx context.Context, req domain.AdjustmentRequest) (domain.AdjustmentRecord, error)
	ListAdjustments(ctx context.Context, filter domain.ListFilter) ([]domain.AdjustmentRecord, error)
}

// Handler agrupa os handlers de ajustes de estoque.
type Handler struct {
	Service AdjustmentService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(svc AdjustmentService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// ExecuteAdjustmentHandler lida com a requisição POST /v1/adjustments.
// @Summary Ajusta manualmente o estoque
// @Description Aplica um delta com motivo (DAMAGE, LOSS, EXPIRY, AUDIT_CORRECTION).
// @Tags adjustments
// @Accept json
// @Produce json
// @Param adjustment body domain.AdjustmentRequest true "Dados do ajuste"
// @Success 201 {object} domain.AdjustmentRecord
// @Failure 400 {object} domain.ErrorResponse "Ajuste inválido"
// @Failure 409 {object} domain.ErrorResponse "Estoque insuficiente"
// @Failure 503 {object} domain.ErrorResponse "Lock indisponível; tente novamente"
// @Security ApiKeyAuth
// @Router /adjustments [post]
func (h *Handler) ExecuteAdjustmentHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.AdjustmentRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	if claims, ok := middleware.GetUserClaimsFromContext(r.Context()); ok {
		req.Actor = claims.UserID
	}

	record, err := h.Service.ExecuteAdjustment(r.Context(), req)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusCreated, record)
}

// ListAdjustmentsHandler lida com a requisição GET /v1/adjustments.
// @Summary Lista ajustes de estoque
// @Tags adjustments
// @Produce json
// @Param warehouse_id query string false "Filtra por armazém"
// @Param limit query int false "Itens por página (padrão 10, máximo 100)"
// @Param offset query int false "Deslocamento"
// @Success 200 {array} domain.AdjustmentRecord
// @Security ApiKeyAuth
// @Router /adjustments [get]
func (h *Handler) ListAdjustmentsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := response.ListFilter(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	records, err := h.Service.ListAdjustments(r.Context(), filter)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, records)
}
