package stockservice

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"stockledger/internal/domain"
	"stockledger/internal/pkg/cache"
	"stockledger/internal/pkg/logger"
)

// StockReader é a leitura sem lock oferecida pelo ledger.
type StockReader interface {
	Snapshot(ctx context.Context, warehouseID, variantID string) (domain.StockRecord, error)
}

const stockCacheKey = "stock:%s:%s"

// CacheKey devolve a chave de cache do snapshot de um registro.
func CacheKey(warehouseID, variantID string) string {
	return fmt.Sprintf(stockCacheKey, warehouseID, variantID)
}

// Service atende consultas de saldo com cache-aside no Redis.
// O cache é opcional: sem cliente, toda leitura vai ao ledger.
//
// Cada chave tem uma geração incrementada pela invalidação. Um snapshot lido
// numa geração anterior nunca fica gravado no cache.
type Service struct {
	reader StockReader
	cache  cache.Client
	ttl    time.Duration
	group  singleflight.Group
	logger logger.Logger

	mu          sync.Mutex
	generations map[string]uint64
}

// NewService cria e retorna uma nova instância do Serviço de Estoque.
func NewService(reader StockReader, cacheClient cache.Client, ttl time.Duration, logger logger.Logger) *Service {
	return &Service{
		reader:      reader,
		cache:       cacheClient,
		ttl:         ttl,
		logger:      logger,
		generations: make(map[string]uint64),
	}
}

// GetStock devolve o snapshot do registro (armazém, variante).
func (s *Service) GetStock(ctx context.Context, warehouseID, variantID string) (domain.StockRecord, error) {
	key := CacheKey(warehouseID, variantID)

	if s.cache != nil {
		if rec, ok := s.fromCache(ctx, key); ok {
			return rec, nil
		}
	}

	// Leituras concorrentes da mesma chave compartilham uma única ida ao ledger.
	// O cancelamento de quem abriu o voo não deve derrubar os demais.
	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		gen := s.generation(key)
		rec, err := s.reader.Snapshot(flightCtx, warehouseID, variantID)
		if err != nil {
			return domain.StockRecord{}, err
		}
		s.fill(flightCtx, key, gen, rec)
		return rec, nil
	})
	if err != nil {
		return domain.StockRecord{}, err
	}
	return v.(domain.StockRecord), nil
}

// InvalidateStock é registrado como hook pós-commit: remove do cache os registros alterados.
func (s *Service) InvalidateStock(ctx context.Context, records []domain.StockRecord) {
	if len(records) == 0 {
		return
	}
	keys := make([]string, 0, len(records))
	s.mu.Lock()
	for _, rec := range records {
		key := CacheKey(rec.WarehouseID, rec.VariantID)
		s.generations[key]++
		keys = append(keys, key)
	}
	s.mu.Unlock()
	for _, key := range keys {
		s.group.Forget(key)
	}
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Error("Falha ao invalidar cache de estoque.", err)
	}
}

func (s *Service) fromCache(ctx context.Context, key string) (domain.StockRecord, bool) {
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		if err != cache.ErrCacheMiss {
			s.logger.Warn("Falha ao ler do cache Redis.", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return domain.StockRecord{}, false
	}
	var rec domain.StockRecord
	if err := json.Unmarshal([]byte(cached), &rec); err != nil {
		s.logger.Warn("Entrada de cache inválida.", map[string]interface{}{"key": key})
		return domain.StockRecord{}, false
	}
	return rec, true
}

func (s *Service) generation(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[key]
}

// fill grava rec só se nenhuma invalidação ocorreu desde a leitura. Se uma
// invalidação chegar durante o Set, a entrada recém-gravada é removida.
func (s *Service) fill(ctx context.Context, key string, gen uint64, rec domain.StockRecord) {
	if s.cache == nil || s.generation(key) != gen {
		return
	}
	s.toCache(ctx, key, rec)
	if s.generation(key) != gen {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("Falha ao descartar snapshot obsoleto do cache.", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
}

func (s *Service) toCache(ctx context.Context, key string, rec domain.StockRecord) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("Falha ao gravar no cache Redis.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
