package ledger

import (
	"context"
	"strings"
	"sync"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/pkg/logger"
)

// Ledger é o único ponto de escrita de StockRecord.Quantity.
// Operações na mesma chave são serializadas pelo lock exclusivo do armazenamento;
// chaves diferentes seguem em paralelo.
type Ledger struct {
	uow    UnitOfWork
	reader StockReader
	logger logger.Logger

	mu    sync.RWMutex
	hooks []PostCommitHook
}

// New cria o ledger sobre uma unidade de trabalho e um leitor sem lock.
func New(uow UnitOfWork, reader StockReader, log logger.Logger) *Ledger {
	return &Ledger{uow: uow, reader: reader, logger: log}
}

// OnCommit registra um hook chamado após cada unidade de trabalho confirmada que alterou quantidades.
func (l *Ledger) OnCommit(hook PostCommitHook) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks = append(l.hooks, hook)
}

// Atomically executa fn em uma única unidade de trabalho.
// Em caso de erro nada é persistido e nenhum hook é chamado.
func (l *Ledger) Atomically(ctx context.Context, fn func(w *Work) error) error {
	var committed []domain.StockRecord
	err := l.uow.Run(ctx, func(repos Repositories) error {
		w := newWork(ctx, repos)
		if err := fn(w); err != nil {
			return err
		}
		committed = w.mutatedRecords()
		return nil
	})
	if err != nil {
		return err
	}
	l.fire(ctx, committed)
	return nil
}

// GetOrCreate devolve o registro da chave, criando-o com quantidade zero.
func (l *Ledger) GetOrCreate(ctx context.Context, warehouseID, variantID string) (domain.StockRecord, error) {
	key, err := validKey(warehouseID, variantID)
	if err != nil {
		return domain.StockRecord{}, err
	}
	var rec domain.StockRecord
	err = l.Atomically(ctx, func(w *Work) error {
		if err := w.Lock(key); err != nil {
			return err
		}
		rec, _ = w.Record(key)
		return nil
	})
	return rec, err
}

// Debit subtrai amount em sua própria unidade de trabalho.
func (l *Ledger) Debit(ctx context.Context, warehouseID, variantID string, amount int) (domain.StockRecord, error) {
	return l.single(ctx, warehouseID, variantID, func(w *Work, key Key) (domain.StockRecord, error) {
		return w.Debit(key, amount)
	})
}

// Credit soma amount em sua própria unidade de trabalho.
func (l *Ledger) Credit(ctx context.Context, warehouseID, variantID string, amount int) (domain.StockRecord, error) {
	return l.single(ctx, warehouseID, variantID, func(w *Work, key Key) (domain.StockRecord, error) {
		return w.Credit(key, amount)
	})
}

// Snapshot lê o último estado confirmado, sem lock. NotFoundError se o registro não existe.
func (l *Ledger) Snapshot(ctx context.Context, warehouseID, variantID string) (domain.StockRecord, error) {
	key, err := validKey(warehouseID, variantID)
	if err != nil {
		return domain.StockRecord{}, err
	}
	return l.reader.GetStock(ctx, key)
}

func (l *Ledger) single(ctx context.Context, warehouseID, variantID string, op func(*Work, Key) (domain.StockRecord, error)) (domain.StockRecord, error) {
	key, err := validKey(warehouseID, variantID)
	if err != nil {
		return domain.StockRecord{}, err
	}
	var rec domain.StockRecord
	err = l.Atomically(ctx, func(w *Work) error {
		var opErr error
		rec, opErr = op(w, key)
		return opErr
	})
	if err != nil {
		return domain.StockRecord{}, err
	}
	return rec, nil
}

func (l *Ledger) fire(ctx context.Context, records []domain.StockRecord) {
	if len(records) == 0 {
		return
	}
	l.mu.RLock()
	hooks := make([]PostCommitHook, len(l.hooks))
	copy(hooks, l.hooks)
	l.mu.RUnlock()

	// O commit já ocorreu: o cancelamento do cliente não deve interromper os hooks.
	hookCtx := context.WithoutCancel(ctx)
	for _, hook := range hooks {
		l.runHook(hookCtx, hook, records)
	}
}

func (l *Ledger) runHook(ctx context.Context, hook PostCommitHook, records []domain.StockRecord) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Warn("Hook pós-commit entrou em pânico.", map[string]interface{}{"panic": r})
		}
	}()
	hook(ctx, records)
}

func validKey(warehouseID, variantID string) (Key, error) {
	if strings.TrimSpace(warehouseID) == "" {
		return Key{}, apperror.NewFieldValidationError("warehouse_id", "O ID do armazém é obrigatório.")
	}
	if strings.TrimSpace(variantID) == "" {
		return Key{}, apperror.NewFieldValidationError("variant_id", "O ID da variante é obrigatório.")
	}
	return NewKey(warehouseID, variantID), nil
}
