package ledger

import (
	"fmt"
	"sort"
)

// Key identifica um StockRecord: o par (armazém, variante).
type Key struct {
	WarehouseID string
	VariantID   string
}

// NewKey monta a chave de um registro de estoque.
func NewKey(warehouseID, variantID string) Key {
	return Key{WarehouseID: warehouseID, VariantID: variantID}
}

// Less define a ordem global de aquisição de locks: armazém, depois variante.
func (k Key) Less(other Key) bool {
	if k.WarehouseID != other.WarehouseID {
		return k.WarehouseID < other.WarehouseID
	}
	return k.VariantID < other.VariantID
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.WarehouseID, k.VariantID)
}

// SortKeys devolve as chaves sem repetição, na ordem global de lock.
func SortKeys(keys []Key) []Key {
	seen := make(map[Key]struct{}, len(keys))
	out := make([]Key, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
