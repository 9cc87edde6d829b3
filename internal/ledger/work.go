package ledger

import (
	"context"
	"fmt"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
)

// Work é a visão de uma unidade de trabalho em andamento.
// Só é válido dentro da função passada a Ledger.Atomically.
type Work struct {
	ctx     context.Context
	repos   Repositories
	held    map[Key]domain.StockRecord
	highest *Key
	mutated []Key
}

func newWork(ctx context.Context, repos Repositories) *Work {
	return &Work{ctx: ctx, repos: repos, held: make(map[Key]domain.StockRecord)}
}

// Lock bloqueia as chaves na ordem global. Chaves já bloqueadas são ignoradas.
// Uma chave nova que ordena antes de outra já mantida quebraria a ordem e é rejeitada.
func (w *Work) Lock(keys ...Key) error {
	for _, k := range SortKeys(keys) {
		if _, ok := w.held[k]; ok {
			continue
		}
		if w.highest != nil && k.Less(*w.highest) {
			return apperror.NewInternalError(fmt.Sprintf("ordem de lock violada: %s depois de %s", k, *w.highest), nil)
		}
		rec, err := w.repos.Stock.LockStock(w.ctx, k)
		if err != nil {
			return err
		}
		w.held[k] = rec
		key := k
		w.highest = &key
	}
	return nil
}

// Record devolve o estado atual de um registro bloqueado nesta unidade de trabalho.
func (w *Work) Record(key Key) (domain.StockRecord, bool) {
	rec, ok := w.held[key]
	return rec, ok
}

// Debit subtrai amount do registro. Falha com InsufficientStockError se a quantidade não cobre o débito.
func (w *Work) Debit(key Key, amount int) (domain.StockRecord, error) {
	rec, err := w.prepare(key, amount)
	if err != nil {
		return domain.StockRecord{}, err
	}
	if rec.Quantity < amount {
		return domain.StockRecord{}, apperror.NewInsufficientStockError(key.WarehouseID, key.VariantID, rec.Quantity, amount)
	}
	return w.set(key, rec.Quantity-amount)
}

// Credit soma amount ao registro, criando-o se necessário.
func (w *Work) Credit(key Key, amount int) (domain.StockRecord, error) {
	rec, err := w.prepare(key, amount)
	if err != nil {
		return domain.StockRecord{}, err
	}
	return w.set(key, rec.Quantity+amount)
}

// Transfers devolve o repositório de transferências da transação corrente.
func (w *Work) Transfers() TransferStore { return w.repos.Transfers }

// Adjustments devolve o repositório de ajustes da transação corrente.
func (w *Work) Adjustments() AdjustmentStore { return w.repos.Adjustments }

func (w *Work) prepare(key Key, amount int) (domain.StockRecord, error) {
	if amount <= 0 {
		return domain.StockRecord{}, apperror.NewFieldValidationError("quantity", "A quantidade deve ser um inteiro positivo.")
	}
	if err := w.Lock(key); err != nil {
		return domain.StockRecord{}, err
	}
	return w.held[key], nil
}

func (w *Work) set(key Key, quantity int) (domain.StockRecord, error) {
	rec, err := w.repos.Stock.SetQuantity(w.ctx, key, quantity)
	if err != nil {
		return domain.StockRecord{}, err
	}
	if rec.Quantity < 0 {
		return domain.StockRecord{}, apperror.NewInternalError(fmt.Sprintf("quantidade negativa em %s", key), nil)
	}
	w.held[key] = rec
	for _, k := range w.mutated {
		if k == key {
			return rec, nil
		}
	}
	w.mutated = append(w.mutated, key)
	return rec, nil
}

func (w *Work) mutatedRecords() []domain.StockRecord {
	out := make([]domain.StockRecord, 0, len(w.mutated))
	for _, k := range w.mutated {
		out = append(out, w.held[k])
	}
	return out
}
