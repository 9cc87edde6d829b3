package adjustmentservice

import (
	"context"
	"strings"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/ledger"
	"stockledger/internal/pkg/logger"
)

// StockLedger é a parte do ledger usada pelo orquestrador.
type StockLedger interface {
	Atomically(ctx context.Context, fn func(w *ledger.Work) error) error
}

// AdjustmentReader consulta ajustes já confirmados.
type AdjustmentReader interface {
	ListAdjustments(ctx context.Context, filter domain.ListFilter) ([]domain.AdjustmentRecord, error)
}

// Service orquestra ajustes manuais de estoque.
type Service struct {
	ledger StockLedger
	reader AdjustmentReader
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Ajustes.
func NewService(l StockLedger, reader AdjustmentReader, logger logger.Logger) *Service {
	return &Service{ledger: l, reader: reader, logger: logger}
}

// ExecuteAdjustment aplica delta ao estoque (crédito se positivo, débito se negativo)
// e grava o AdjustmentRecord na mesma unidade de trabalho.
func (s *Service) ExecuteAdjustment(ctx context.Context, req domain.AdjustmentRequest) (domain.AdjustmentRecord, error) {
	s.logger.Debug("Iniciando ajuste de estoque no serviço.", map[string]interface{}{
		"warehouse_id": req.WarehouseID,
		"variant_id":   req.VariantID,
		"delta":        req.Delta,
		"reason":       req.Reason,
	})

	if err := validate(req); err != nil {
		s.logger.Warn("Ajuste rejeitado na validação.", map[string]interface{}{"error": err.Error()})
		return domain.AdjustmentRecord{}, err
	}

	key := ledger.NewKey(req.WarehouseID, req.VariantID)
	var created domain.AdjustmentRecord
	err := s.ledger.Atomically(ctx, func(w *ledger.Work) error {
		var (
			rec domain.StockRecord
			err error
		)
		if req.Delta > 0 {
			rec, err = w.Credit(key, req.Delta)
		} else {
			rec, err = w.Debit(key, -req.Delta)
		}
		if err != nil {
			return err
		}
		created, err = w.Adjustments().CreateAdjustment(ctx, domain.AdjustmentRecord{
			WarehouseID:   req.WarehouseID,
			VariantID:     req.VariantID,
			Delta:         req.Delta,
			Reason:        req.Reason,
			Actor:         req.Actor,
			QuantityAfter: rec.Quantity,
		})
		return err
	})
	if err != nil {
		s.logger.Warn("Ajuste não concluído.", map[string]interface{}{"variant_id": req.VariantID, "error": err.Error()})
		return domain.AdjustmentRecord{}, err
	}

	s.logger.Info("Estoque ajustado com sucesso.", map[string]interface{}{
		"warehouse_id":   created.WarehouseID,
		"variant_id":     created.VariantID,
		"delta":          created.Delta,
		"quantity_after": created.QuantityAfter,
	})
	return created, nil
}

// ListAdjustments lista ajustes com paginação.
func (s *Service) ListAdjustments(ctx context.Context, filter domain.ListFilter) ([]domain.AdjustmentRecord, error) {
	return s.reader.ListAdjustments(ctx, filter.Normalize())
}

func validate(req domain.AdjustmentRequest) error {
	switch {
	case strings.TrimSpace(req.WarehouseID) == "":
		return apperror.NewFieldValidationError("warehouse_id", "O ID do armazém é obrigatório.")
	case strings.TrimSpace(req.VariantID) == "":
		return apperror.NewFieldValidationError("variant_id", "O ID da variante é obrigatório.")
	case req.Delta == 0:
		return apperror.NewFieldValidationError("delta", "O ajuste de estoque (delta) não pode ser zero.")
	case !req.Reason.Valid():
		return apperror.NewFieldValidationError("reason", "Motivo inválido. Use DAMAGE, LOSS, EXPIRY ou AUDIT_CORRECTION.")
	}
	return nil
}
