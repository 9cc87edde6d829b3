package warehouse

import (
	"context"
	"net/http"

	"stockledger/internal/api/response"
	"stockledger/internal/domain"
	"stockledger/internal/pkg/logger"
)

// WarehouseService define o contrato que o Handler espera da camada de Serviço.
type WarehouseService interface {
	CreateWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error)
	GetWarehouseByID(ctx context.Context, id string) (domain.Warehouse, error)
	GetAllWarehouses(ctx context.Context) ([]domain.Warehouse, error)
	UpdateWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error)
	DeleteWarehouse(ctx context.Context, id string) error
	AddMember(ctx context.Context, member domain.WarehouseUser) (domain.WarehouseUser, error)
	ListMembers(ctx context.Context, warehouseID string) ([]domain.WarehouseUser, error)
}

// MemberRequest é o payload de POST /v1/warehouses/{id}/managers.
type MemberRequest struct {
	UserID string               `json:"user_id"`
	Role   domain.WarehouseRole `json:"role" example:"MANAGER"`
}

// Handler agrupa todos os métodos de Handler de armazéns.
type Handler struct {
	Service WarehouseService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc WarehouseService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateWarehouseHandler lida com a requisição POST /v1/warehouses.
// @Summary Cria um novo armazém
// @Description Sem slug informado, ele é derivado do nome.
// @Tags warehouses
// @Accept json
// @Produce json
// @Param warehouse body domain.Warehouse true "Dados do armazém para criação"
// @Success 201 {object} domain.Warehouse "Armazém criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Slug já utilizado"
// @Security ApiKeyAuth
// @Router /warehouses [post]
func (h *Handler) CreateWarehouseHandler(w http.ResponseWriter, r *http.Request) {
	var warehouse domain.Warehouse
	if err := response.Decode(r, &warehouse); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.CreateWarehouse(r.Context(), warehouse)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusCreated, created)
}

// GetWarehouseByIDHandler lida com a requisição GET /v1/warehouses/{id}.
// @Summary Obtém um armazém por ID
// @Tags warehouses
// @Produce json
// @Param id path string true "ID do Armazém"
// @Success 200 {object} domain.Warehouse "Armazém encontrado"
// @Failure 404 {object} domain.ErrorResponse "Armazém não encontrado"
// @Security ApiKeyAuth
// @Router /warehouses/{id} [get]
func (h *Handler) GetWarehouseByIDHandler(w http.ResponseWriter, r *http.Request) {
	warehouse, err := h.Service.GetWarehouseByID(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, warehouse)
}

// GetAllWarehousesHandler lida com a requisição GET /v1/warehouses.
// @Summary Lista todos os armazéns
// @Tags warehouses
// @Produce json
// @Success 200 {array} domain.Warehouse
// @Security ApiKeyAuth
// @Router /warehouses [get]
func (h *Handler) GetAllWarehousesHandler(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.Service.GetAllWarehouses(r.Context())
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, warehouses)
}

// UpdateWarehouseHandler lida com a requisição PUT /v1/warehouses/{id}.
// @Summary Atualiza um armazém
// @Tags warehouses
// @Accept json
// @Produce json
// @Param id path string true "ID do Armazém"
// @Param warehouse body domain.Warehouse true "Novos dados"
// @Success 200 {object} domain.Warehouse
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Armazém não encontrado"
// @Security ApiKeyAuth
// @Router /warehouses/{id} [put]
func (h *Handler) UpdateWarehouseHandler(w http.ResponseWriter, r *http.Request) {
	var warehouse domain.Warehouse
	if err := response.Decode(r, &warehouse); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	warehouse.ID = r.PathValue("id")

	updated, err := h.Service.UpdateWarehouse(r.Context(), warehouse)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, updated)
}

// DeleteWarehouseHandler lida com a requisição DELETE /v1/warehouses/{id}.
// @Summary Remove um armazém
// @Tags warehouses
// @Param id path string true "ID do Armazém"
// @Success 204 "Armazém removido"
// @Failure 404 {object} domain.ErrorResponse "Armazém não encontrado"
// @Failure 409 {object} domain.ErrorResponse "Armazém possui estoque ou histórico"
// @Security ApiKeyAuth
// @Router /warehouses/{id} [delete]
func (h *Handler) DeleteWarehouseHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteWarehouse(r.Context(), r.PathValue("id")); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddMemberHandler lida com a requisição POST /v1/warehouses/{id}/managers.
// @Summary Vincula um usuário ao armazém
// @Description Gerentes (MANAGER) recebem as notificações de estoque baixo do armazém.
// @Tags warehouses
// @Accept json
// @Produce json
// @Param id path string true "ID do Armazém"
// @Param member body MemberRequest true "Usuário e papel"
// @Success 201 {object} domain.WarehouseUser
// @Failure 400 {object} domain.ErrorResponse "Papel inválido"
// @Failure 404 {object} domain.ErrorResponse "Armazém ou usuário não encontrado"
// @Security ApiKeyAuth
// @Router /warehouses/{id}/managers [post]
func (h *Handler) AddMemberHandler(w http.ResponseWriter, r *http.Request) {
	var req MemberRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	if req.Role == "" {
		req.Role = domain.WarehouseManager
	}

	member, err := h.Service.AddMember(r.Context(), domain.WarehouseUser{
		WarehouseID: r.PathValue("id"),
		UserID:      req.UserID,
		Role:        req.Role,
	})
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusCreated, member)
}

// ListMembersHandler lida com a requisição GET /v1/warehouses/{id}/managers.
// @Summary Lista os usuários vinculados ao armazém
// @Tags warehouses
// @Produce json
// @Param id path string true "ID do Armazém"
// @Success 200 {array} domain.WarehouseUser
// @Failure 404 {object} domain.ErrorResponse "Armazém não encontrado"
// @Security ApiKeyAuth
// @Router /warehouses/{id}/managers [get]
func (h *Handler) ListMembersHandler(w http.ResponseWriter, r *http.Request) {
	members, err := h.Service.ListMembers(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, members)
}
