package stockrepo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/ledger"
	"stockledger/internal/repository/pgerr"
)

// pgTx implementa os stores do ledger sobre uma *sql.Tx aberta por Run.
type pgTx struct {
	tx               *sql.Tx
	defaultThreshold int
}

// LockStock cria o registro com quantidade zero se necessário e o bloqueia com FOR UPDATE.
// O limite vem da variante quando configurado, senão do padrão do serviço.
func (p *pgTx) LockStock(ctx context.Context, key ledger.Key) (domain.StockRecord, error) {
	insert := `
        INSERT INTO stock_records (id, warehouse_id, variant_id, quantity, low_stock_threshold)
        SELECT $1, $2, $3, 0, COALESCE(
            (SELECT low_stock_threshold FROM variants WHERE id = $3 AND low_stock_threshold > 0), $4)
        ON CONFLICT (warehouse_id, variant_id) DO NOTHING`
	if _, err := p.tx.ExecContext(ctx, insert, uuid.NewString(), key.WarehouseID, key.VariantID, p.defaultThreshold); err != nil {
		return domain.StockRecord{}, pgerr.Map("Falha ao criar registro de estoque "+key.String(), err)
	}

	query := `SELECT ` + stockColumns + ` FROM stock_records WHERE warehouse_id = $1 AND variant_id = $2 FOR UPDATE`
	rec, err := scanStock(p.tx.QueryRowContext(ctx, query, key.WarehouseID, key.VariantID))
	if err != nil {
		return domain.StockRecord{}, pgerr.Map("Falha ao bloquear estoque "+key.String(), err)
	}
	return rec, nil
}

// SetQuantity grava a quantidade de um registro bloqueado nesta transação.
func (p *pgTx) SetQuantity(ctx context.Context, key ledger.Key, quantity int) (domain.StockRecord, error) {
	if quantity < 0 {
		return domain.StockRecord{}, apperror.NewInternalError("quantidade negativa rejeitada: "+key.String(), nil)
	}
	query := `
        UPDATE stock_records SET quantity = $3, updated_at = NOW()
        WHERE warehouse_id = $1 AND variant_id = $2
        RETURNING ` + stockColumns
	rec, err := scanStock(p.tx.QueryRowContext(ctx, query, key.WarehouseID, key.VariantID, quantity))
	if err != nil {
		return domain.StockRecord{}, pgerr.Map("Falha ao atualizar estoque "+key.String(), err)
	}
	return rec, nil
}

// CreateTransfer insere a transferência; código de referência repetido vira ConflictError.
func (p *pgTx) CreateTransfer(ctx context.Context, t domain.TransferRecord) (domain.TransferRecord, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	query := `
        INSERT INTO stock_transfers (id, reference_code, source_warehouse_id, destination_warehouse_id, variant_id, quantity, initiated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at, updated_at`
	err := p.tx.QueryRowContext(ctx, query,
		t.ID, t.ReferenceCode, t.SourceWarehouseID, t.DestinationWarehouseID, t.VariantID, t.Quantity, t.InitiatedBy,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.TransferRecord{}, pgerr.Map("Falha ao registrar transferência", err)
	}
	return t, nil
}

// CreateAdjustment insere o registro do ajuste.
func (p *pgTx) CreateAdjustment(ctx context.Context, a domain.AdjustmentRecord) (domain.AdjustmentRecord, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	query := `
        INSERT INTO stock_adjustments (id, warehouse_id, variant_id, delta, reason, actor, quantity_after)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at`
	err := p.tx.QueryRowContext(ctx, query,
		a.ID, a.WarehouseID, a.VariantID, a.Delta, a.Reason, a.Actor, a.QuantityAfter,
	).Scan(&a.CreatedAt)
	if err != nil {
		return domain.AdjustmentRecord{}, pgerr.Map("Falha ao registrar ajuste", err)
	}
	return a, nil
}
