// Package memstore implementa os repositórios do serviço em memória.
// É usado nos testes e com STORAGE_DRIVER=memory; a semântica de lock e
// atomicidade é a mesma do backend PostgreSQL.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/ledger"
)

// Store é o banco em memória. Os mapas guardam apenas estado confirmado.
type Store struct {
	mu sync.RWMutex

	stock       map[ledger.Key]domain.StockRecord
	transfers   []domain.TransferRecord
	references  map[string]int
	adjustments []domain.AdjustmentRecord
	alerts      []domain.StockAlert
	activeAlert map[string]int

	users      map[string]domain.User
	warehouses map[string]domain.Warehouse
	members    map[string][]domain.WarehouseUser
	products   map[string]domain.Product
	variants   map[string]domain.Variant

	suppliers        map[string]domain.Supplier
	supplierProducts map[string][]domain.SupplierProduct

	locks            *lockTable
	lockTimeout      time.Duration
	defaultThreshold int
	now              func() time.Time
}

// New cria um Store vazio.
func New(lockTimeout time.Duration, defaultThreshold int) *Store {
	return &Store{
		stock:            make(map[ledger.Key]domain.StockRecord),
		references:       make(map[string]int),
		activeAlert:      make(map[string]int),
		users:            make(map[string]domain.User),
		warehouses:       make(map[string]domain.Warehouse),
		members:          make(map[string][]domain.WarehouseUser),
		products:         make(map[string]domain.Product),
		variants:         make(map[string]domain.Variant),
		suppliers:        make(map[string]domain.Supplier),
		supplierProducts: make(map[string][]domain.SupplierProduct),
		locks:            newLockTable(),
		lockTimeout:      lockTimeout,
		defaultThreshold: defaultThreshold,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// Run implementa ledger.UnitOfWork. As escritas ficam em staging até fn retornar sem erro;
// os locks são liberados só depois da aplicação do commit.
func (s *Store) Run(ctx context.Context, fn func(repos ledger.Repositories) error) error {
	tx := &memTx{
		store: s,
		stock: make(map[ledger.Key]domain.StockRecord),
		refs:  make(map[string]struct{}),
	}
	defer tx.releaseAll()

	if err := fn(ledger.Repositories{Stock: tx, Transfers: tx, Adjustments: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return apperror.NewTransientError("unidade de trabalho cancelada antes do commit", err)
	}
	s.commit(tx)
	return nil
}

// GetStock implementa ledger.StockReader.
func (s *Store) GetStock(ctx context.Context, key ledger.Key) (domain.StockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.stock[key]
	if !ok {
		return domain.StockRecord{}, apperror.NewNotFoundError("Estoque para variante " + key.VariantID + " no armazém " + key.WarehouseID + " não encontrado.")
	}
	return rec, nil
}

func (s *Store) commit(tx *memTx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, rec := range tx.stock {
		s.stock[k] = rec
	}
	for _, t := range tx.transfers {
		s.references[t.ReferenceCode] = len(s.transfers)
		s.transfers = append(s.transfers, t)
	}
	s.adjustments = append(s.adjustments, tx.adjustments...)
}

func (s *Store) thresholdFor(variantID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.variants[variantID]; ok && v.LowStockThreshold > 0 {
		return v.LowStockThreshold
	}
	return s.defaultThreshold
}

// memTx é uma unidade de trabalho em andamento.
type memTx struct {
	store       *Store
	held        []ledger.Key
	stock       map[ledger.Key]domain.StockRecord
	transfers   []domain.TransferRecord
	refs        map[string]struct{}
	adjustments []domain.AdjustmentRecord
}

func (tx *memTx) releaseAll() {
	for i := len(tx.held) - 1; i >= 0; i-- {
		tx.store.locks.release(tx.held[i])
	}
	tx.held = nil
}

func (tx *memTx) holds(key ledger.Key) bool {
	for _, k := range tx.held {
		if k == key {
			return true
		}
	}
	return false
}

// LockStock implementa ledger.StockStore.
func (tx *memTx) LockStock(ctx context.Context, key ledger.Key) (domain.StockRecord, error) {
	if !tx.holds(key) {
		if err := tx.store.locks.acquire(ctx, key, tx.store.lockTimeout); err != nil {
			return domain.StockRecord{}, err
		}
		tx.held = append(tx.held, key)
	}
	if rec, ok := tx.stock[key]; ok {
		return rec, nil
	}

	tx.store.mu.RLock()
	rec, ok := tx.store.stock[key]
	tx.store.mu.RUnlock()
	if ok {
		return rec, nil
	}

	now := tx.store.now()
	rec = domain.StockRecord{
		ID:                uuid.NewString(),
		WarehouseID:       key.WarehouseID,
		VariantID:         key.VariantID,
		Quantity:          0,
		LowStockThreshold: tx.store.thresholdFor(key.VariantID),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	tx.stock[key] = rec
	return rec, nil
}

// SetQuantity implementa ledger.StockStore.
func (tx *memTx) SetQuantity(ctx context.Context, key ledger.Key, quantity int) (domain.StockRecord, error) {
	if !tx.holds(key) {
		return domain.StockRecord{}, apperror.NewInternalError("escrita em registro sem lock: "+key.String(), nil)
	}
	if quantity < 0 {
		return domain.StockRecord{}, apperror.NewInternalError("quantidade negativa rejeitada: "+key.String(), nil)
	}
	rec, err := tx.LockStock(ctx, key)
	if err != nil {
		return domain.StockRecord{}, err
	}
	rec.Quantity = quantity
	rec.UpdatedAt = tx.store.now()
	tx.stock[key] = rec
	return rec, nil
}

// CreateTransfer implementa ledger.TransferStore.
func (tx *memTx) CreateTransfer(ctx context.Context, t domain.TransferRecord) (domain.TransferRecord, error) {
	tx.store.mu.RLock()
	_, exists := tx.store.references[t.ReferenceCode]
	tx.store.mu.RUnlock()
	if _, staged := tx.refs[t.ReferenceCode]; exists || staged {
		return domain.TransferRecord{}, apperror.NewConflictError("Código de referência já utilizado: " + t.ReferenceCode)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := tx.store.now()
	t.CreatedAt, t.UpdatedAt = now, now
	tx.refs[t.ReferenceCode] = struct{}{}
	tx.transfers = append(tx.transfers, t)
	return t, nil
}

// CreateAdjustment implementa ledger.AdjustmentStore.
func (tx *memTx) CreateAdjustment(ctx context.Context, a domain.AdjustmentRecord) (domain.AdjustmentRecord, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = tx.store.now()
	tx.adjustments = append(tx.adjustments, a)
	return a, nil
}
