package alertrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"stockledger/internal/domain"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/repository/pgerr"
)

// AlertRepository persiste alertas de estoque no PostgreSQL.
// O índice parcial stock_alerts_one_active_idx garante um alerta ativo por registro.
type AlertRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewAlertRepository cria e retorna uma nova instância do Repositório de Alertas.
func NewAlertRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *AlertRepository {
	return &AlertRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

const alertSelect = `
        SELECT a.id, a.stock_record_id, s.warehouse_id, s.variant_id, a.alert_type, a.quantity, a.threshold, a.is_active, a.created_at
        FROM stock_alerts a
        JOIN stock_records s ON s.id = a.stock_record_id`

func scanAlert(row interface{ Scan(...interface{}) error }) (domain.StockAlert, error) {
	var a domain.StockAlert
	err := row.Scan(&a.ID, &a.StockRecordID, &a.WarehouseID, &a.VariantID, &a.AlertType, &a.Quantity, &a.Threshold, &a.IsActive, &a.CreatedAt)
	return a, err
}

// CreateIfNoneActive grava o alerta se o registro ainda não tem alerta ativo.
// Se já existir, devolve o alerta ativo e false.
func (r *AlertRepository) CreateIfNoneActive(ctx context.Context, alert domain.StockAlert) (domain.StockAlert, bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	alert.IsActive = true

	insert := `
        INSERT INTO stock_alerts (id, stock_record_id, alert_type, quantity, threshold, is_active)
        VALUES ($1, $2, $3, $4, $5, TRUE)
        ON CONFLICT (stock_record_id) WHERE is_active DO NOTHING
        RETURNING created_at`
	err := r.DB.QueryRowContext(ctxTimeout, insert,
		alert.ID, alert.StockRecordID, alert.AlertType, alert.Quantity, alert.Threshold,
	).Scan(&alert.CreatedAt)
	if err == nil {
		return alert, true, nil
	}
	if err != sql.ErrNoRows {
		r.logger.Error("Falha ao inserir alerta de estoque.", err)
		return domain.StockAlert{}, false, pgerr.Map("Falha ao criar alerta", err)
	}

	existing, err := scanAlert(r.DB.QueryRowContext(ctxTimeout, alertSelect+` WHERE a.stock_record_id = $1 AND a.is_active`, alert.StockRecordID))
	if err != nil {
		return domain.StockAlert{}, false, pgerr.Map("Falha ao buscar alerta ativo", err)
	}
	return existing, false, nil
}

// ListActiveAlerts lista alertas ativos (mais recentes primeiro), opcionalmente de um armazém.
func (r *AlertRepository) ListActiveAlerts(ctx context.Context, filter domain.ListFilter) ([]domain.StockAlert, error) {
	filter = filter.Normalize()
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := alertSelect + `
        WHERE a.is_active AND ($1 = '' OR s.warehouse_id::text = $1)
        ORDER BY a.created_at DESC, a.id
        LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctxTimeout, query, filter.WarehouseID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, pgerr.Map("Falha ao listar alertas", err)
	}
	defer rows.Close()

	alerts := []domain.StockAlert{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, pgerr.Map("Falha ao ler alerta", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Map("Falha ao iterar alertas", err)
	}
	return alerts, nil
}
