package domain

import (
	"time"
)

// Warehouse representa um armazém físico ou lógico no sistema.
type Warehouse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Location  string    `json:"location"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WarehouseRole é o papel de um usuário dentro de um armazém.
type WarehouseRole string

const (
	WarehouseManager WarehouseRole = "MANAGER"
	WarehouseStaff   WarehouseRole = "STAFF"
)

// WarehouseUser vincula um usuário a um armazém. Gerentes recebem os alertas de estoque.
type WarehouseUser struct {
	WarehouseID string        `json:"warehouse_id"`
	UserID      string        `json:"user_id"`
	Role        WarehouseRole `json:"role"`
	CreatedAt   time.Time     `json:"created_at"`
}
