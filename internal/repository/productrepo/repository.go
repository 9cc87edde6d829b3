package productrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/pkg/cache"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/repository/pgerr"
)

// productCacheKey é a chave de cache de um produto com suas variantes.
const productCacheKey = "product:%s"

// ProductRepository persiste produtos e variantes no PostgreSQL.
// Cache é opcional; quando presente, FindProductByID usa cache-aside.
type ProductRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	CacheTTL  time.Duration
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewProductRepository cria e retorna uma nova instância do Repositório.
func NewProductRepository(db *sql.DB, cacheClient cache.Client, cacheTTL, dbTimeout time.Duration, logger logger.Logger) *ProductRepository {
	return &ProductRepository{
		DB:        db,
		Cache:     cacheClient,
		CacheTTL:  cacheTTL,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// SaveProduct grava o produto e suas variantes numa única transação.
func (r *ProductRepository) SaveProduct(ctx context.Context, product domain.Product, variants []domain.Variant) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Product{}, pgerr.Map("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	const productSQL = `
        INSERT INTO products (id, sku, name, description, price, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = tx.ExecContext(ctxTimeout, productSQL,
		product.ID, product.SKU, product.Name, product.Description, product.Price,
		product.IsActive, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if pgerr.Code(err) == pgerr.UniqueViolation {
			return domain.Product{}, apperror.NewConflictError(fmt.Sprintf("Já existe um produto com o SKU '%s'.", product.SKU))
		}
		r.logger.Error("Falha ao inserir produto.", err)
		return domain.Product{}, pgerr.Map("Falha ao inserir produto", err)
	}

	const variantSQL = `
        INSERT INTO variants (id, product_id, sku, attribute, value, barcode, price_diff, low_stock_threshold)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, v := range variants {
		_, err = tx.ExecContext(ctxTimeout, variantSQL,
			v.ID, v.ProductID, v.SKU, v.Attribute, v.Value, v.Barcode, v.PriceDiff, v.LowStockThreshold,
		)
		if err != nil {
			if pgerr.Code(err) == pgerr.UniqueViolation {
				return domain.Product{}, apperror.NewConflictError(fmt.Sprintf("Já existe uma variante com o SKU '%s'.", v.SKU))
			}
			return domain.Product{}, pgerr.Map("Falha ao inserir variantes", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.Product{}, pgerr.Map("Falha ao commitar produto", err)
	}

	product.Variants = variants
	return product, nil
}

// FindProductByID busca um produto com suas variantes.
func (r *ProductRepository) FindProductByID(ctx context.Context, id string) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(productCacheKey, id)
	if r.Cache != nil {
		cached, err := r.Cache.Get(ctxTimeout, key)
		if err == nil {
			var product domain.Product
			if json.Unmarshal([]byte(cached), &product) == nil {
				return product, nil
			}
		} else if err != cache.ErrCacheMiss {
			r.logger.Warn("Falha ao ler produto do cache.", map[string]interface{}{"id": id, "error": err.Error()})
		}
	}

	const productSQL = `
        SELECT id, sku, name, description, price, is_active, created_at, updated_at
        FROM products
        WHERE id = $1`
	product, err := scanProduct(r.DB.QueryRowContext(ctxTimeout, productSQL, id))
	if err == sql.ErrNoRows {
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		return domain.Product{}, pgerr.Map("Falha ao buscar produto no DB", err)
	}

	if product.Variants, err = r.variantsOf(ctxTimeout, product.ID); err != nil {
		return domain.Product{}, err
	}

	if r.Cache != nil {
		if data, err := json.Marshal(product); err == nil {
			if err := r.Cache.Set(ctxTimeout, key, data, r.CacheTTL); err != nil {
				r.logger.Warn("Falha ao gravar produto no cache.", map[string]interface{}{"id": id, "error": err.Error()})
			}
		}
	}
	return product, nil
}

// FindAllProducts lista produtos por nome, com filtros e paginação.
func (r *ProductRepository) FindAllProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	page := domain.ListFilter{Limit: filter.Limit, Offset: filter.Offset}.Normalize()
	const query = `
        SELECT id, sku, name, description, price, is_active, created_at, updated_at
        FROM products
        WHERE ($1 = '' OR name ILIKE '%' || $1 || '%') AND (NOT $2 OR is_active)
        ORDER BY name
        LIMIT $3 OFFSET $4`
	rows, err := r.DB.QueryContext(ctxTimeout, query, filter.Name, filter.ActiveOnly, page.Limit, page.Offset)
	if err != nil {
		return nil, pgerr.Map("Falha ao listar produtos", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, pgerr.Map("Falha ao ler produto", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Map("Falha ao iterar produtos", err)
	}

	for i := range products {
		if products[i].Variants, err = r.variantsOf(ctxTimeout, products[i].ID); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (r *ProductRepository) variantsOf(ctx context.Context, productID string) ([]domain.Variant, error) {
	const query = `
        SELECT id, product_id, sku, attribute, value, barcode, price_diff, low_stock_threshold
        FROM variants
        WHERE product_id = $1
        ORDER BY sku`
	rows, err := r.DB.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, pgerr.Map("Falha ao buscar variantes", err)
	}
	defer rows.Close()

	variants := []domain.Variant{}
	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Attribute, &v.Value, &v.Barcode, &v.PriceDiff, &v.LowStockThreshold); err != nil {
			return nil, pgerr.Map("Falha ao ler variante", err)
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

func scanProduct(row interface{ Scan(...interface{}) error }) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
