package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier é um fornecedor de variantes do catálogo.
type Supplier struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"author_id"`
	BusinessName  string    `json:"business_name"`
	ContactPerson string    `json:"contact_person"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Country       string    `json:"country"`
	City          string    `json:"city"`
	ProductCount  int       `json:"product_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SupplierProduct é o preço de compra de uma variante junto a um fornecedor.
// Cada par (fornecedor, variante) aparece uma única vez.
type SupplierProduct struct {
	ID         string          `json:"id"`
	SupplierID string          `json:"supplier_id"`
	VariantID  string          `json:"variant_id"`
	Price      decimal.Decimal `json:"price" swaggertype:"string" example:"12.50"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
