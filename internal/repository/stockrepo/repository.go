package stockrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/ledger"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/repository/pgerr"
)

// Options configura o comportamento transacional do repositório.
type Options struct {
	DBTimeout        time.Duration
	LockTimeout      time.Duration
	MaxRetries       int
	DefaultThreshold int
	RetryBase        time.Duration
}

// StockRepository implementa ledger.UnitOfWork e ledger.StockReader sobre o PostgreSQL,
// além das consultas de transferências e ajustes.
type StockRepository struct {
	DB     *sql.DB
	opts   Options
	logger logger.Logger
}

// NewStockRepository cria e retorna uma nova instância do Repositório de Estoque.
func NewStockRepository(db *sql.DB, opts Options, logger logger.Logger) *StockRepository {
	if opts.RetryBase <= 0 {
		opts.RetryBase = 20 * time.Millisecond
	}
	return &StockRepository{DB: db, opts: opts, logger: logger}
}

// Run executa fn numa transação. Deadlocks e falhas de serialização repetem fn
// do início até MaxRetries vezes; esgotadas as tentativas, vira TransientError.
func (r *StockRepository) Run(ctx context.Context, fn func(repos ledger.Repositories) error) error {
	backoff := retry.WithMaxRetries(uint64(r.opts.MaxRetries), retry.NewExponential(r.opts.RetryBase))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := r.runOnce(ctx, fn)
		if err != nil && pgerr.IsRetryable(err) {
			r.logger.Warn("Transação de estoque abortada pelo banco; repetindo.", map[string]interface{}{
				"attempt":  attempt,
				"sqlstate": pgerr.Code(err),
			})
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil && pgerr.IsRetryable(err) {
		return pgerr.Map("transação de estoque", err)
	}
	return err
}

func (r *StockRepository) runOnce(ctx context.Context, fn func(repos ledger.Repositories) error) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.opts.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return apperror.NewTransientError("falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	lockTimeout := fmt.Sprintf("%dms", r.opts.LockTimeout.Milliseconds())
	if _, err := tx.ExecContext(ctxTimeout, `SELECT set_config('lock_timeout', $1, true)`, lockTimeout); err != nil {
		return pgerr.Map("falha ao configurar lock_timeout", err)
	}

	pt := &pgTx{tx: tx, defaultThreshold: r.opts.DefaultThreshold}
	if err := fn(ledger.Repositories{Stock: pt, Transfers: pt, Adjustments: pt}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		if pgerr.IsRetryable(err) {
			return err
		}
		return apperror.NewTransientError("falha ao commitar transação", err)
	}
	return nil
}

const stockColumns = `id, warehouse_id, variant_id, quantity, low_stock_threshold, created_at, updated_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStock(row scanner) (domain.StockRecord, error) {
	var s domain.StockRecord
	err := row.Scan(&s.ID, &s.WarehouseID, &s.VariantID, &s.Quantity, &s.LowStockThreshold, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// GetStock implementa ledger.StockReader.
func (r *StockRepository) GetStock(ctx context.Context, key ledger.Key) (domain.StockRecord, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.opts.DBTimeout)
	defer cancel()

	query := `SELECT ` + stockColumns + ` FROM stock_records WHERE warehouse_id = $1 AND variant_id = $2`
	rec, err := scanStock(r.DB.QueryRowContext(ctxTimeout, query, key.WarehouseID, key.VariantID))
	if err == sql.ErrNoRows {
		return domain.StockRecord{}, apperror.NewNotFoundError(fmt.Sprintf("Estoque para variante %s no armazém %s não encontrado.", key.VariantID, key.WarehouseID))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar registro de estoque no DB.", err)
		return domain.StockRecord{}, pgerr.Map("Falha ao buscar registro de estoque", err)
	}
	return rec, nil
}

const transferColumns = `id, reference_code, source_warehouse_id, destination_warehouse_id, variant_id, quantity, initiated_by, created_at, updated_at`

func scanTransfer(row scanner) (domain.TransferRecord, error) {
	var t domain.TransferRecord
	err := row.Scan(&t.ID, &t.ReferenceCode, &t.SourceWarehouseID, &t.DestinationWarehouseID, &t.VariantID, &t.Quantity, &t.InitiatedBy, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// FindTransferByReference busca uma transferência pelo código de referência.
func (r *StockRepository) FindTransferByReference(ctx context.Context, reference string) (domain.TransferRecord, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.opts.DBTimeout)
	defer cancel()

	query := `SELECT ` + transferColumns + ` FROM stock_transfers WHERE reference_code = $1`
	t, err := scanTransfer(r.DB.QueryRowContext(ctxTimeout, query, reference))
	if err == sql.ErrNoRows {
		return domain.TransferRecord{}, apperror.NewNotFoundError(fmt.Sprintf("Transferência %s não encontrada.", reference))
	}
	if err != nil {
		return domain.TransferRecord{}, pgerr.Map("Falha ao buscar transferência", err)
	}
	return t, nil
}

// ListTransfers lista transferências (mais recentes primeiro); o filtro por armazém casa origem ou destino.
func (r *StockRepository) ListTransfers(ctx context.Context, filter domain.ListFilter) ([]domain.TransferRecord, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.opts.DBTimeout)
	defer cancel()

	query := `
        SELECT ` + transferColumns + `
        FROM stock_transfers
        WHERE $1 = '' OR source_warehouse_id::text = $1 OR destination_warehouse_id::text = $1
        ORDER BY created_at DESC, id
        LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctxTimeout, query, filter.WarehouseID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, pgerr.Map("Falha ao listar transferências", err)
	}
	defer rows.Close()

	transfers := []domain.TransferRecord{}
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, pgerr.Map("Falha ao ler transferência", err)
		}
		transfers = append(transfers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Map("Falha ao iterar transferências", err)
	}
	return transfers, nil
}

const adjustmentColumns = `id, warehouse_id, variant_id, delta, reason, actor, quantity_after, created_at`

func scanAdjustment(row scanner) (domain.AdjustmentRecord, error) {
	var a domain.AdjustmentRecord
	err := row.Scan(&a.ID, &a.WarehouseID, &a.VariantID, &a.Delta, &a.Reason, &a.Actor, &a.QuantityAfter, &a.CreatedAt)
	return a, err
}

// ListAdjustments lista ajustes (mais recentes primeiro), opcionalmente de um armazém.
func (r *StockRepository) ListAdjustments(ctx context.Context, filter domain.ListFilter) ([]domain.AdjustmentRecord, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.opts.DBTimeout)
	defer cancel()

	query := `
        SELECT ` + adjustmentColumns + `
        FROM stock_adjustments
        WHERE $1 = '' OR warehouse_id::text = $1
        ORDER BY created_at DESC, id
        LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctxTimeout, query, filter.WarehouseID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, pgerr.Map("Falha ao listar ajustes", err)
	}
	defer rows.Close()

	adjustments := []domain.AdjustmentRecord{}
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, pgerr.Map("Falha ao ler ajuste", err)
		}
		adjustments = append(adjustments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Map("Falha ao iterar ajustes", err)
	}
	return adjustments, nil
}
