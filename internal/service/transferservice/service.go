package transferservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/ledger"
	"stockledger/internal/pkg/logger"
)

// StockLedger é a parte do ledger usada pelo orquestrador.
type StockLedger interface {
	Atomically(ctx context.Context, fn func(w *ledger.Work) error) error
}

// TransferReader consulta transferências já confirmadas.
type TransferReader interface {
	FindTransferByReference(ctx context.Context, reference string) (domain.TransferRecord, error)
	ListTransfers(ctx context.Context, filter domain.ListFilter) ([]domain.TransferRecord, error)
}

// Service orquestra transferências entre armazéns.
type Service struct {
	ledger StockLedger
	reader TransferReader
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Transferências.
func NewService(l StockLedger, reader TransferReader, logger logger.Logger) *Service {
	return &Service{ledger: l, reader: reader, logger: logger}
}

// ExecuteTransfer move quantity unidades da variante da origem para o destino.
// Débito, crédito e o TransferRecord são confirmados juntos ou nada muda.
func (s *Service) ExecuteTransfer(ctx context.Context, req domain.TransferRequest) (domain.TransferRecord, error) {
	s.logger.Debug("Iniciando transferência no serviço.", map[string]interface{}{
		"source_warehouse_id":      req.SourceWarehouseID,
		"destination_warehouse_id": req.DestinationWarehouseID,
		"variant_id":               req.VariantID,
		"quantity":                 req.Quantity,
	})

	if err := validate(req); err != nil {
		s.logger.Warn("Transferência rejeitada na validação.", map[string]interface{}{"error": err.Error()})
		return domain.TransferRecord{}, err
	}

	source := ledger.NewKey(req.SourceWarehouseID, req.VariantID)
	destination := ledger.NewKey(req.DestinationWarehouseID, req.VariantID)

	var created domain.TransferRecord
	err := s.ledger.Atomically(ctx, func(w *ledger.Work) error {
		if err := w.Lock(source, destination); err != nil {
			return err
		}
		if _, err := w.Debit(source, req.Quantity); err != nil {
			return err
		}
		if _, err := w.Credit(destination, req.Quantity); err != nil {
			return err
		}
		var err error
		created, err = w.Transfers().CreateTransfer(ctx, domain.TransferRecord{
			ReferenceCode:          NewReferenceCode(),
			SourceWarehouseID:      req.SourceWarehouseID,
			DestinationWarehouseID: req.DestinationWarehouseID,
			VariantID:              req.VariantID,
			Quantity:               req.Quantity,
			InitiatedBy:            req.InitiatedBy,
		})
		return err
	})
	if err != nil {
		s.logger.Warn("Transferência não concluída.", map[string]interface{}{"variant_id": req.VariantID, "error": err.Error()})
		return domain.TransferRecord{}, err
	}

	s.logger.Info("Transferência concluída com sucesso.", map[string]interface{}{
		"reference_code": created.ReferenceCode,
		"quantity":       created.Quantity,
		"initiated_by":   created.InitiatedBy,
	})
	return created, nil
}

// GetTransfer busca uma transferência pelo código de referência.
func (s *Service) GetTransfer(ctx context.Context, reference string) (domain.TransferRecord, error) {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	if !ValidReferenceCode(reference) {
		return domain.TransferRecord{}, apperror.NewFieldValidationError("reference", "Código de referência inválido.")
	}
	return s.reader.FindTransferByReference(ctx, reference)
}

// ListTransfers lista transferências com paginação.
func (s *Service) ListTransfers(ctx context.Context, filter domain.ListFilter) ([]domain.TransferRecord, error) {
	return s.reader.ListTransfers(ctx, filter.Normalize())
}

func validate(req domain.TransferRequest) error {
	switch {
	case strings.TrimSpace(req.SourceWarehouseID) == "":
		return apperror.NewInvalidTransferError("source_warehouse_id", "O armazém de origem é obrigatório.")
	case strings.TrimSpace(req.DestinationWarehouseID) == "":
		return apperror.NewInvalidTransferError("destination_warehouse_id", "O armazém de destino é obrigatório.")
	case strings.TrimSpace(req.VariantID) == "":
		return apperror.NewInvalidTransferError("variant_id", "A variante é obrigatória.")
	case req.SourceWarehouseID == req.DestinationWarehouseID:
		return apperror.NewInvalidTransferError("destination_warehouse_id", "Os armazéns de origem e destino devem ser diferentes.")
	case req.Quantity <= 0:
		return apperror.NewInvalidTransferError("quantity", "A quantidade deve ser um inteiro positivo.")
	}
	return nil
}

const referencePrefix = "TRF-"

// NewReferenceCode gera o código legível da transferência: TRF- seguido de 16 hexadecimais maiúsculos.
func NewReferenceCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return referencePrefix + strings.ToUpper(raw[:16])
}

// ValidReferenceCode confere o formato do código de referência.
func ValidReferenceCode(code string) bool {
	if len(code) != len(referencePrefix)+16 || !strings.HasPrefix(code, referencePrefix) {
		return false
	}
	for _, c := range code[len(referencePrefix):] {
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
