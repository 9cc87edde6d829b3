package memstore

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	apperror "stockledger/internal/errors"
	"stockledger/internal/ledger"
)

const lockShards = 32

// lockTable guarda um mutex por chave. Cada mutex é um canal de capacidade 1,
// o que permite desistir da espera por timeout ou cancelamento do contexto.
// A entrada vive enquanto houver quem segure ou espere o lock.
type lockTable struct {
	shards [lockShards]lockShard
}

type lockShard struct {
	mu    sync.Mutex
	locks map[ledger.Key]*lockEntry
}

type lockEntry struct {
	ch   chan struct{}
	refs int
}

func newLockTable() *lockTable {
	t := &lockTable{}
	for i := range t.shards {
		t.shards[i].locks = make(map[ledger.Key]*lockEntry)
	}
	return t
}

func (t *lockTable) shard(key ledger.Key) *lockShard {
	h := fnv.New32a()
	h.Write([]byte(key.WarehouseID))
	h.Write([]byte{0})
	h.Write([]byte(key.VariantID))
	return &t.shards[h.Sum32()%lockShards]
}

// ref devolve a entrada da chave, criando-a, e registra mais um interessado.
func (t *lockTable) ref(key ledger.Key) chan struct{} {
	shard := t.shard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	e, ok := shard.locks[key]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		shard.locks[key] = e
	}
	e.refs++
	return e.ch
}

// unref remove um interessado; release indica que ele segurava o lock.
func (t *lockTable) unref(key ledger.Key, release bool) {
	shard := t.shard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	e, ok := shard.locks[key]
	if !ok {
		return
	}
	if release {
		<-e.ch
	}
	e.refs--
	if e.refs == 0 {
		delete(shard.locks, key)
	}
}

// size conta as chaves com entrada viva.
func (t *lockTable) size() int {
	n := 0
	for i := range t.shards {
		t.shards[i].mu.Lock()
		n += len(t.shards[i].locks)
		t.shards[i].mu.Unlock()
	}
	return n
}

// acquire espera pelo lock da chave até timeout.
func (t *lockTable) acquire(ctx context.Context, key ledger.Key, timeout time.Duration) error {
	ch := t.ref(key)
	select {
	case ch <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		return nil
	case <-timer.C:
		t.unref(key, false)
		return apperror.NewLockTimeoutError(key.String(), nil)
	case <-ctx.Done():
		t.unref(key, false)
		return apperror.NewLockTimeoutError(key.String(), ctx.Err())
	}
}

func (t *lockTable) release(key ledger.Key) {
	t.unref(key, true)
}
