package memstore

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
)

// FindTransferByReference busca uma transferência confirmada pelo código de referência.
func (s *Store) FindTransferByReference(ctx context.Context, reference string) (domain.TransferRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.references[reference]
	if !ok {
		return domain.TransferRecord{}, apperror.NewNotFoundError("Transferência " + reference + " não encontrada.")
	}
	return s.transfers[i], nil
}

// ListTransfers lista transferências da mais recente para a mais antiga.
// O filtro por armazém casa com a origem ou o destino.
func (s *Store) ListTransfers(ctx context.Context, filter domain.ListFilter) ([]domain.TransferRecord, error) {
	filter = filter.Normalize()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.TransferRecord
	for i := len(s.transfers) - 1; i >= 0; i-- {
		t := s.transfers[i]
		if filter.WarehouseID != "" && t.SourceWarehouseID != filter.WarehouseID && t.DestinationWarehouseID != filter.WarehouseID {
			continue
		}
		matched = append(matched, t)
	}
	return page(matched, filter), nil
}

// ListAdjustments lista ajustes do mais recente para o mais antigo.
func (s *Store) ListAdjustments(ctx context.Context, filter domain.ListFilter) ([]domain.AdjustmentRecord, error) {
	filter = filter.Normalize()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.AdjustmentRecord
	for i := len(s.adjustments) - 1; i >= 0; i-- {
		a := s.adjustments[i]
		if filter.WarehouseID != "" && a.WarehouseID != filter.WarehouseID {
			continue
		}
		matched = append(matched, a)
	}
	return page(matched, filter), nil
}

// CreateIfNoneActive grava o alerta se o registro ainda não tem alerta ativo.
// O booleano indica se o alerta foi criado.
func (s *Store) CreateIfNoneActive(ctx context.Context, alert domain.StockAlert) (domain.StockAlert, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.activeAlert[alert.StockRecordID]; ok {
		return s.alerts[i], false, nil
	}
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	alert.IsActive = true
	alert.CreatedAt = s.now()
	s.activeAlert[alert.StockRecordID] = len(s.alerts)
	s.alerts = append(s.alerts, alert)
	return alert, true, nil
}

// ListActiveAlerts lista alertas ativos, opcionalmente de um armazém.
func (s *Store) ListActiveAlerts(ctx context.Context, filter domain.ListFilter) ([]domain.StockAlert, error) {
	filter = filter.Normalize()
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := make([]int, 0, len(s.activeAlert))
	for _, i := range s.activeAlert {
		idx = append(idx, i)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(idx)))

	var matched []domain.StockAlert
	for _, i := range idx {
		a := s.alerts[i]
		if filter.WarehouseID != "" && a.WarehouseID != filter.WarehouseID {
			continue
		}
		matched = append(matched, a)
	}
	return page(matched, filter), nil
}

func page[T any](items []T, filter domain.ListFilter) []T {
	if filter.Offset >= len(items) {
		return []T{}
	}
	end := filter.Offset + filter.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[filter.Offset:end]
}
