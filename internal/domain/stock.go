package domain

import "time"

// StockRecord é o contador de quantidade de uma variante em um armazém.
// A chave natural é (WarehouseID, VariantID); Quantity nunca fica negativa.
type StockRecord struct {
	ID                string    `json:"id"`
	WarehouseID       string    `json:"warehouse_id"`
	VariantID         string    `json:"variant_id"`
	Quantity          int       `json:"quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsLow indica se a quantidade atingiu o limite de estoque baixo.
func (s StockRecord) IsLow() bool {
	return s.Quantity <= s.LowStockThreshold
}

// TransferRecord registra uma movimentação concluída entre dois armazéns.
type TransferRecord struct {
	ID                     string    `json:"id"`
	ReferenceCode          string    `json:"reference_code"`
	SourceWarehouseID      string    `json:"source_warehouse_id"`
	DestinationWarehouseID string    `json:"destination_warehouse_id"`
	VariantID              string    `json:"variant_id"`
	Quantity               int       `json:"quantity"`
	InitiatedBy            string    `json:"initiated_by"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// TransferRequest é o payload de entrada de POST /v1/transfers.
type TransferRequest struct {
	SourceWarehouseID      string `json:"source_warehouse_id"`
	DestinationWarehouseID string `json:"destination_warehouse_id"`
	VariantID              string `json:"variant_id"`
	Quantity               int    `json:"quantity"`
	InitiatedBy            string `json:"-"`
}

// AdjustmentReason é o motivo de um ajuste manual de estoque.
type AdjustmentReason string

const (
	ReasonDamage          AdjustmentReason = "DAMAGE"
	ReasonLoss            AdjustmentReason = "LOSS"
	ReasonExpiry          AdjustmentReason = "EXPIRY"
	ReasonAuditCorrection AdjustmentReason = "AUDIT_CORRECTION"
)

// Valid informa se o motivo pertence à enumeração aceita.
func (r AdjustmentReason) Valid() bool {
	switch r {
	case ReasonDamage, ReasonLoss, ReasonExpiry, ReasonAuditCorrection:
		return true
	}
	return false
}

// AdjustmentRecord registra um ajuste concluído, com a quantidade resultante.
type AdjustmentRecord struct {
	ID            string           `json:"id"`
	WarehouseID   string           `json:"warehouse_id"`
	VariantID     string           `json:"variant_id"`
	Delta         int              `json:"delta"`
	Reason        AdjustmentReason `json:"reason"`
	Actor         string           `json:"actor"`
	QuantityAfter int              `json:"quantity_after"`
	CreatedAt     time.Time        `json:"created_at"`
}

// AdjustmentRequest é o payload de entrada de POST /v1/adjustments.
type AdjustmentRequest struct {
	WarehouseID string           `json:"warehouse_id"`
	VariantID   string           `json:"variant_id"`
	Delta       int              `json:"delta"`
	Reason      AdjustmentReason `json:"reason"`
	Actor       string           `json:"-"`
}

// AlertType classifica um alerta de estoque.
type AlertType string

const (
	AlertLowStock   AlertType = "LOW_STOCK"
	AlertOutOfStock AlertType = "OUT_OF_STOCK"
)

// StockAlert sinaliza que um StockRecord ficou em ou abaixo do seu limite.
// Existe no máximo um alerta ativo por StockRecord.
type StockAlert struct {
	ID            string    `json:"id"`
	StockRecordID string    `json:"stock_record_id"`
	WarehouseID   string    `json:"warehouse_id"`
	VariantID     string    `json:"variant_id"`
	AlertType     AlertType `json:"alert_type"`
	Quantity      int       `json:"quantity"`
	Threshold     int       `json:"threshold"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListFilter define paginação limit/offset e o filtro opcional por armazém.
type ListFilter struct {
	WarehouseID string
	Limit       int
	Offset      int
}

// DefaultPageSize é o tamanho de página quando o cliente não informa limit.
const DefaultPageSize = 10

// MaxPageSize limita o tamanho de página aceito.
const MaxPageSize = 100

// Normalize aplica os limites de paginação.
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
