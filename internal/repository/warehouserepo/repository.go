package warehouserepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/repository/pgerr"
)

// WarehouseRepository implementa as operações de armazéns e de seus usuários.
type WarehouseRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewWarehouseRepository cria e retorna uma nova instância do Repositório de Armazéns.
func NewWarehouseRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *WarehouseRepository {
	return &WarehouseRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const warehouseColumns = `id, name, slug, location, is_active, created_at, updated_at`

func scanWarehouse(row interface{ Scan(...interface{}) error }) (domain.Warehouse, error) {
	var w domain.Warehouse
	err := row.Scan(&w.ID, &w.Name, &w.Slug, &w.Location, &w.IsActive, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

// CreateWarehouse insere um novo armazém. Slug repetido gera ConflictError.
func (r *WarehouseRepository) CreateWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error) {
	r.logger.Debug("Iniciando CreateWarehouse no repositório.", map[string]interface{}{"name": warehouse.Name, "slug": warehouse.Slug})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if warehouse.ID == "" {
		warehouse.ID = uuid.New().String()
	}

	query := `
        INSERT INTO warehouses (id, name, slug, location, is_active)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + warehouseColumns

	created, err := scanWarehouse(r.DB.QueryRowContext(ctxTimeout, query,
		warehouse.ID, warehouse.Name, warehouse.Slug, warehouse.Location, warehouse.IsActive,
	))
	if err != nil {
		if pgerr.Code(err) == pgerr.UniqueViolation {
			return domain.Warehouse{}, apperror.NewConflictError(fmt.Sprintf("O slug '%s' já está em uso.", warehouse.Slug))
		}
		r.logger.Error("Falha ao inserir armazém no DB.", err)
		return domain.Warehouse{}, pgerr.Map("Falha ao criar armazém", err)
	}

	r.logger.Info("Armazém criado com sucesso.", map[string]interface{}{"id": created.ID, "slug": created.Slug})
	return created, nil
}

// GetWarehouseByID busca um armazém pelo ID.
func (r *WarehouseRepository) GetWarehouseByID(ctx context.Context, id string) (domain.Warehouse, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE id = $1`
	warehouse, err := scanWarehouse(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err == sql.ErrNoRows {
		r.logger.Info("Armazém não encontrado.", map[string]interface{}{"id": id})
		return domain.Warehouse{}, apperror.NewNotFoundError(fmt.Sprintf("Armazém com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar armazém no DB.", err)
		return domain.Warehouse{}, pgerr.Map("Falha ao buscar armazém", err)
	}
	return warehouse, nil
}

// GetAllWarehouses busca todos os armazéns ordenados por nome.
func (r *WarehouseRepository) GetAllWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+warehouseColumns+` FROM warehouses ORDER BY name`)
	if err != nil {
		r.logger.Error("Falha ao executar GetAllWarehouses query.", err)
		return nil, pgerr.Map("Falha ao buscar todos os armazéns", err)
	}
	defer rows.Close()

	warehouses := []domain.Warehouse{}
	for rows.Next() {
		warehouse, err := scanWarehouse(rows)
		if err != nil {
			return nil, pgerr.Map("Falha ao mapear armazéns do DB", err)
		}
		warehouses = append(warehouses, warehouse)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Map("Erro após iteração de armazéns", err)
	}

	r.logger.Debug("GetAllWarehouses concluído com sucesso.", map[string]interface{}{"total_warehouses": len(warehouses)})
	return warehouses, nil
}

// UpdateWarehouse atualiza um armazém existente.
func (r *WarehouseRepository) UpdateWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE warehouses
        SET name = $1, slug = $2, location = $3, is_active = $4, updated_at = NOW()
        WHERE id = $5
        RETURNING ` + warehouseColumns

	updated, err := scanWarehouse(r.DB.QueryRowContext(ctxTimeout, query,
		warehouse.Name, warehouse.Slug, warehouse.Location, warehouse.IsActive, warehouse.ID,
	))
	if err == sql.ErrNoRows {
		return domain.Warehouse{}, apperror.NewNotFoundError(fmt.Sprintf("Armazém com ID %s não encontrado para atualização.", warehouse.ID))
	}
	if err != nil {
		if pgerr.Code(err) == pgerr.UniqueViolation {
			return domain.Warehouse{}, apperror.NewConflictError(fmt.Sprintf("O slug '%s' já está em uso.", warehouse.Slug))
		}
		r.logger.Error("Falha ao atualizar armazém no DB.", err)
		return domain.Warehouse{}, pgerr.Map("Falha ao atualizar armazém", err)
	}

	r.logger.Info("Armazém atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// DeleteWarehouse remove um armazém. Armazéns com estoque ou histórico não podem ser removidos.
func (r *WarehouseRepository) DeleteWarehouse(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM warehouses WHERE id = $1`, id)
	if err != nil {
		if pgerr.Code(err) == pgerr.ForeignKeyViolation {
			return apperror.NewConflictError(fmt.Sprintf("Armazém %s possui estoque ou movimentações registradas.", id))
		}
		r.logger.Error("Falha ao deletar armazém do DB.", err)
		return pgerr.Map("Falha ao deletar armazém", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return pgerr.Map("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Armazém com ID %s não encontrado para exclusão.", id))
	}

	r.logger.Info("Armazém deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// AddWarehouseUser vincula um usuário ao armazém, substituindo o papel anterior.
func (r *WarehouseRepository) AddWarehouseUser(ctx context.Context, member domain.WarehouseUser) (domain.WarehouseUser, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO warehouse_users (warehouse_id, user_id, role)
        VALUES ($1, $2, $3)
        ON CONFLICT (warehouse_id, user_id) DO UPDATE SET role = EXCLUDED.role
        RETURNING created_at`
	err := r.DB.QueryRowContext(ctxTimeout, query, member.WarehouseID, member.UserID, member.Role).Scan(&member.CreatedAt)
	if err != nil {
		if pgerr.Code(err) == pgerr.ForeignKeyViolation {
			return domain.WarehouseUser{}, apperror.NewNotFoundError("Armazém ou usuário não encontrado.")
		}
		return domain.WarehouseUser{}, pgerr.Map("Falha ao vincular usuário ao armazém", err)
	}
	return member, nil
}

// ListWarehouseUsers lista os vínculos de um armazém.
func (r *WarehouseRepository) ListWarehouseUsers(ctx context.Context, warehouseID string) ([]domain.WarehouseUser, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT warehouse_id, user_id, role, created_at
        FROM warehouse_users
        WHERE warehouse_id = $1
        ORDER BY created_at`
	rows, err := r.DB.QueryContext(ctxTimeout, query, warehouseID)
	if err != nil {
		return nil, pgerr.Map("Falha ao listar usuários do armazém", err)
	}
	defer rows.Close()

	members := []domain.WarehouseUser{}
	for rows.Next() {
		var m domain.WarehouseUser
		if err := rows.Scan(&m.WarehouseID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
			return nil, pgerr.Map("Falha ao ler vínculo", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Map("Falha ao iterar vínculos", err)
	}
	return members, nil
}

// ManagerEmails devolve os e-mails dos gerentes do armazém, destinatários dos alertas.
func (r *WarehouseRepository) ManagerEmails(ctx context.Context, warehouseID string) ([]string, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT u.email
        FROM warehouse_users wu
        JOIN users u ON u.id = wu.user_id
        WHERE wu.warehouse_id = $1 AND wu.role = $2
        ORDER BY u.email`
	rows, err := r.DB.QueryContext(ctxTimeout, query, warehouseID, domain.WarehouseManager)
	if err != nil {
		return nil, pgerr.Map("Falha ao buscar gerentes do armazém", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, pgerr.Map("Falha ao ler e-mail", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
