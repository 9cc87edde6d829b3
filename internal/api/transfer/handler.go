package transfer

import (
	"context"
	"net/http"

	"stockledger/internal/api/response"
	"stockledger/internal/domain"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/pkg/middleware"
)

// TransferService define o contrato que o Handler espera da camada de Serviço.
type TransferService interface {
	ExecuteTransfer(ctx context.Context, req domain.TransferRequest) (domain.TransferRecord, error)
	GetTransfer(ctx context.Context, reference string) (domain.TransferRecord, error)
	ListTransfers(ctx context.Context, filter domain.ListFilter) ([]domain.TransferRecord, error)
}

// Handler agrupa os handlers de transferências.
type Handler struct {
	Service TransferService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc TransferService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// ExecuteTransferHandler lida com a requisição POST /v1/transfers.
// @Summary Transfere estoque entre armazéns
// @Description Debita a origem e credita o destino atomicamente. O usuário autenticado é registrado como iniciador.
// @Tags transfers
// @Accept json
// @Produce json
// @Param transfer body domain.TransferRequest true "Dados da transferência"
// @Success 201 {object} domain.TransferRecord "Transferência concluída"
// @Failure 400 {object} domain.ErrorResponse "Transferência inválida"
// @Failure 404 {object} domain.ErrorResponse "Armazém ou variante inexistente"
// @Failure 409 {object} domain.ErrorResponse "Estoque insuficiente"
// @Failure 503 {object} domain.ErrorResponse "Lock indisponível; tente novamente"
// @Security ApiKeyAuth
// @Router /transfers [post]
func (h *Handler) ExecuteTransferHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.TransferRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	if claims, ok := middleware.GetUserClaimsFromContext(r.Context()); ok {
		req.InitiatedBy = claims.UserID
	}

	record, err := h.Service.ExecuteTransfer(r.Context(), req)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusCreated, record)
}

// GetTransferHandler lida com a requisição GET /v1/transfers/{reference}.
// @Summary Obtém uma transferência pelo código de referência
// @Tags transfers
// @Produce json
// @Param reference path string true "Código TRF-XXXXXXXXXXXXXXXX"
// @Success 200 {object} domain.TransferRecord
// @Failure 400 {object} domain.ErrorResponse "Código inválido"
// @Failure 404 {object} domain.ErrorResponse "Transferência não encontrada"
// @Security ApiKeyAuth
// @Router /transfers/{reference} [get]
func (h *Handler) GetTransferHandler(w http.ResponseWriter, r *http.Request) {
	record, err := h.Service.GetTransfer(r.Context(), r.PathValue("reference"))
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, record)
}

// ListTransfersHandler lida com a requisição GET /v1/transfers.
// @Summary Lista transferências
// @Tags transfers
// @Produce json
// @Param warehouse_id query string false "Filtra por origem ou destino"
// @Param limit query int false "Itens por página (padrão 10, máximo 100)"
// @Param offset query int false "Deslocamento"
// @Success 200 {array} domain.TransferRecord
// @Security ApiKeyAuth
// @Router /transfers [get]
func (h *Handler) ListTransfersHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := response.ListFilter(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	records, err := h.Service.ListTransfers(r.Context(), filter)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, records)
}
