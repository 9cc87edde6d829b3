package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa o item principal do catálogo.
type Product struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"19.90"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Variants []Variant `json:"variants"`
}

// Variant representa as variações de um Produto (cor, tamanho).
// O estoque é controlado por variante; LowStockThreshold vira o limite padrão dos novos StockRecords.
type Variant struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	SKU               string          `json:"sku"`
	Attribute         string          `json:"attribute"`
	Value             string          `json:"value"`
	Barcode           string          `json:"barcode"`
	PriceDiff         decimal.Decimal `json:"price_diff" swaggertype:"string" example:"0"`
	LowStockThreshold int             `json:"low_stock_threshold"`
}

// ProductFilter define os parâmetros de busca e paginação.
type ProductFilter struct {
	Limit      int
	Offset     int
	Name       string
	ActiveOnly bool
}
