package alert

import (
	"context"
	"net/http"

	"stockledger/internal/api/response"
	"stockledger/internal/domain"
	"stockledger/internal/pkg/logger"
)

// AlertService define o contrato que o Handler espera da camada de Serviço.
type AlertService interface {
	ListActiveAlerts(ctx context.Context, filter domain.ListFilter) ([]domain.StockAlert, error)
}

// Handler expõe os alertas de estoque baixo.
type Handler struct {
	Service AlertService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(svc AlertService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// ListActiveAlertsHandler lida com a requisição GET /v1/alerts.
// @Summary Lista alertas de estoque ativos
// @Tags alerts
// @Produce json
// @Param warehouse_id query string false "Filtra por armazém"
// @Param limit query int false "Itens por página (padrão 10, máximo 100)"
// @Param offset query int false "Deslocamento"
// @Success 200 {array} domain.StockAlert
// @Security ApiKeyAuth
// @Router /alerts [get]
func (h *Handler) ListActiveAlertsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := response.ListFilter(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	alerts, err := h.Service.ListActiveAlerts(r.Context(), filter)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, alerts)
}
