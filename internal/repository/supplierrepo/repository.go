package supplierrepo

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

// SupplierRepository implementa fornecedores e seus preços por variante no PostgreSQL.
type SupplierRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewSupplierRepository cria e retorna uma nova instância do Repositório de Fornecedores.
func NewSupplierRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *SupplierRepository {
	return &SupplierRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

const supplierColumns = `s.id, s.author_id, s.business_name, s.contact_person, s.email, s.phone, s.country, s.city,
        (SELECT COUNT(*) FROM supplier_products sp WHERE sp.supplier_id = s.id), s.created_at, s.updated_at`

func scanSupplier(row interface{ Scan(...interface{}) error }) (domain.Supplier, error) {
	var s domain.Supplier
	err := row.Scan(&s.ID, &s.AuthorID, &s.BusinessName, &s.ContactPerson, &s.Email, &s.Phone,
		&s.Country, &s.City, &s.ProductCount, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

const supplierProductColumns = `id, supplier_id, variant_id, price, created_at, updated_at`

func scanSupplierProduct(row interface{ Scan(...interface{}) error }) (domain.SupplierProduct, error) {
	var sp domain.SupplierProduct
	err := row.Scan(&sp.ID, &sp.SupplierID, &sp.VariantID, &sp.Price, &sp.CreatedAt, &sp.UpdatedAt)
	return sp, err
}

// CreateSupplier insere um fornecedor. Autor inexistente gera NotFoundError.
func (r *SupplierRepository) CreateSupplier(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if supplier.ID == "" {
		supplier.ID = uuid.New().String()
	}
	query := `
        INSERT INTO suppliers (id, author_id, business_name, contact_person, email, phone, country, city)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at, updated_at`
	err := r.DB.QueryRowContext(ctxTimeout, query,
		supplier.ID, supplier.AuthorID, supplier.BusinessName, supplier.ContactPerson,
		supplier.Email, supplier.Phone, supplier.Country, supplier.City,
	).Scan(&supplier.CreatedAt, &supplier.UpdatedAt)
	if err != nil {
		if pgerr.Code(err) == pgerr.ForeignKeyViolation {
			return domain.Supplier{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não encontrado.", supplier.AuthorID))
		}
		r.logger.Error("Falha ao inserir fornecedor no DB.", err)
		return domain.Supplier{}, pgerr.Map("Falha ao criar fornecedor", err)
	}

	r.logger.Info("Fornecedor criado com sucesso.", map[string]interface{}{"id": supplier.ID})
	supplier.ProductCount = 0
	return supplier, nil
}

// GetSupplierByID busca um fornecedor pelo ID.
func (r *SupplierRepository) GetSupplierByID(ctx context.Context, id string) (domain.Supplier, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	supplier, err := scanSupplier(r.DB.QueryRowContext(ctxTimeout, `SELECT `+supplierColumns+` FROM suppliers s WHERE s.id = $1`, id))
	if err == sql.ErrNoRows {
		return domain.Supplier{}, apperror.NewNotFoundError(fmt.Sprintf("Fornecedor com ID %s não encontrado.", id))
	}
	if err != nil {
		return domain.Supplier{}, pgerr.Map("Falha ao buscar fornecedor", err)
	}
	return supplier, nil
}

// ListSuppliers lista fornecedores por razão social com paginação.
func (r *SupplierRepository) ListSuppliers(ctx context.Context, filter domain.ListFilter) ([]domain.Supplier, error) {
	filter = filter.Normalize()
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + supplierColumns + ` FROM suppliers s ORDER BY s.business_name, s.id LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctxTimeout, query, filter.Limit, filter.Offset)
	if err != nil {
		r.logger.Error("Falha ao executar ListSuppliers query.", err)
		return nil, pgerr.Map("Falha ao listar fornecedores", err)
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		supplier, err := scanSupplier(rows)
		if err != nil {
			return nil, pgerr.Map("Falha ao mapear fornecedores do DB", err)
		}
		suppliers = append(suppliers, supplier)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Map("Erro após iteração de fornecedores", err)
	}
	return suppliers, nil
}

// UpdateSupplier atualiza os dados cadastrais; o autor não muda.
func (r *SupplierRepository) UpdateSupplier(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE suppliers s
        SET business_name = $2, contact_person = $3, email = $4, phone = $5, country = $6, city = $7, updated_at = NOW()
        WHERE s.id = $1
        RETURNING ` + supplierColumns
	updated, err := scanSupplier(r.DB.QueryRowContext(ctxTimeout, query,
		supplier.ID, supplier.BusinessName, supplier.ContactPerson, supplier.Email,
		supplier.Phone, supplier.Country, supplier.City,
	))
	if err == sql.ErrNoRows {
		return domain.Supplier{}, apperror.NewNotFoundError(fmt.Sprintf("Fornecedor com ID %s não encontrado para atualização.", supplier.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar fornecedor no DB.", err)
		return domain.Supplier{}, pgerr.Map("Falha ao atualizar fornecedor", err)
	}
	return updated, nil
}

// DeleteSupplier remove o fornecedor; os preços vinculados saem em cascata.
func (r *SupplierRepository) DeleteSupplier(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return pgerr.Map("Falha ao deletar fornecedor", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return pgerr.Map("Falha ao verificar linhas afetadas", err)
	}
	if n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Fornecedor com ID %s não encontrado para exclusão.", id))
	}
	r.logger.Info("Fornecedor deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// AddSupplierProduct vincula uma variante ao fornecedor. Par repetido gera ConflictError.
func (r *SupplierRepository) AddSupplierProduct(ctx context.Context, sp domain.SupplierProduct) (domain.SupplierProduct, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if sp.ID == "" {
		sp.ID = uuid.New().String()
	}
	query := `
        INSERT INTO supplier_products (id, supplier_id, variant_id, price)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + supplierProductColumns
	created, err := scanSupplierProduct(r.DB.QueryRowContext(ctxTimeout, query, sp.ID, sp.SupplierID, sp.VariantID, sp.Price))
	if err != nil {
		switch pgerr.Code(err) {
		case pgerr.UniqueViolation:
			return domain.SupplierProduct{}, apperror.NewConflictError(fmt.Sprintf("O fornecedor já fornece a variante %s.", sp.VariantID))
		case pgerr.ForeignKeyViolation:
			return domain.SupplierProduct{}, apperror.NewNotFoundError("Fornecedor ou variante não encontrado.")
		}
		return domain.SupplierProduct{}, pgerr.Map("Falha ao vincular variante ao fornecedor", err)
	}
	return created, nil
}

// UpdateSupplierProduct altera o preço de um vínculo existente.
func (r *SupplierRepository) UpdateSupplierProduct(ctx context.Context, sp domain.SupplierProduct) (domain.SupplierProduct, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE supplier_products SET price = $3, updated_at = NOW()
        WHERE supplier_id = $1 AND variant_id = $2
        RETURNING ` + supplierProductColumns
	updated, err := scanSupplierProduct(r.DB.QueryRowContext(ctxTimeout, query, sp.SupplierID, sp.VariantID, sp.Price))
	if err == sql.ErrNoRows {
		return domain.SupplierProduct{}, apperror.NewNotFoundError(fmt.Sprintf("Variante %s não vinculada ao fornecedor %s.", sp.VariantID, sp.SupplierID))
	}
	if err != nil {
		return domain.SupplierProduct{}, pgerr.Map("Falha ao atualizar preço do fornecedor", err)
	}
	return updated, nil
}

// ListSupplierProducts lista os preços de um fornecedor na ordem de cadastro.
func (r *SupplierRepository) ListSupplierProducts(ctx context.Context, supplierID string) ([]domain.SupplierProduct, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + supplierProductColumns + ` FROM supplier_products WHERE supplier_id = $1 ORDER BY created_at, id`
	rows, err := r.DB.QueryContext(ctxTimeout, query, supplierID)
	if err != nil {
		return nil, pgerr.Map("Falha ao listar preços do fornecedor", err)
	}
	defer rows.Close()

	products := []domain.SupplierProduct{}
	for rows.Next() {
		sp, err := scanSupplierProduct(rows)
		if err != nil {
			return nil, pgerr.Map("Falha ao ler preço do fornecedor", err)
		}
		products = append(products, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Map("Falha ao iterar preços do fornecedor", err)
	}
	return products, nil
}

// RemoveSupplierProduct desfaz o vínculo entre fornecedor e variante.
func (r *SupplierRepository) RemoveSupplierProduct(ctx context.Context, supplierID, variantID string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout,
		`DELETE FROM supplier_products WHERE supplier_id = $1 AND variant_id = $2`, supplierID, variantID)
	if err != nil {
		return pgerr.Map("Falha ao desvincular variante do fornecedor", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return pgerr.Map("Falha ao verificar linhas afetadas", err)
	}
	if n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Variante %s não vinculada ao fornecedor %s.", variantID, supplierID))
	}
	return nil
}
