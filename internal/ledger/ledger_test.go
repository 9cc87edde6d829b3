package ledger_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/ledger"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/repository/memstore"
)

func newLedger(t *testing.T, lockTimeout time.Duration) (*ledger.Ledger, *memstore.Store) {
	t.Helper()
	store := memstore.New(lockTimeout, 10)
	return ledger.New(store, store, logger.NewLogger("error")), store
}

func TestKeySort_DedupAndOrder(t *testing.T) {
	a := ledger.NewKey("wh-a", "v-2")
	b := ledger.NewKey("wh-a", "v-1")
	c := ledger.NewKey("wh-b", "v-0")

	sorted := ledger.SortKeys([]ledger.Key{c, a, b, a})

	assert.Equal(t, []ledger.Key{b, a, c}, sorted)
}

func TestCredit_CreatesRecordWithDefaultThreshold(t *testing.T) {
	l, _ := newLedger(t, time.Second)
	ctx := context.Background()

	rec, err := l.Credit(ctx, "wh-1", "v-1", 5)

	require.NoError(t, err)
	assert.Equal(t, 5, rec.Quantity)
	assert.Equal(t, 10, rec.LowStockThreshold)
	assert.NotEmpty(t, rec.ID)

	snap, err := l.Snapshot(ctx, "wh-1", "v-1")
	require.NoError(t, err)
	assert.Equal(t, rec, snap)
}

func TestGetOrCreate_IsIdempotent(t *testing.T) {
	l, _ := newLedger(t, time.Second)
	ctx := context.Background()

	first, err := l.GetOrCreate(ctx, "wh-1", "v-1")
	require.NoError(t, err)
	second, err := l.GetOrCreate(ctx, "wh-1", "v-1")
	require.NoError(t, err)

	assert.Equal(t, 0, first.Quantity)
	assert.Equal(t, first.ID, second.ID)
}

func TestDebit_Fail_InsufficientStockLeavesQuantity(t *testing.T) {
	l, _ := newLedger(t, time.Second)
	ctx := context.Background()
	_, err := l.Credit(ctx, "wh-1", "v-1", 10)
	require.NoError(t, err)

	_, err = l.Debit(ctx, "wh-1", "v-1", 11)

	var insufficient *apperror.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 10, insufficient.Available)
	assert.Equal(t, 11, insufficient.Requested)

	snap, err := l.Snapshot(ctx, "wh-1", "v-1")
	require.NoError(t, err)
	assert.Equal(t, 10, snap.Quantity)
}

func TestDebit_Fail_NonPositiveAmount(t *testing.T) {
	l, _ := newLedger(t, time.Second)

	for _, amount := range []int{0, -3} {
		_, err := l.Debit(context.Background(), "wh-1", "v-1", amount)
		assert.IsType(t, &apperror.ValidationError{}, err)
		_, err = l.Credit(context.Background(), "wh-1", "v-1", amount)
		assert.IsType(t, &apperror.ValidationError{}, err)
	}
}

func TestSnapshot_Fail_NotFound(t *testing.T) {
	l, _ := newLedger(t, time.Second)

	_, err := l.Snapshot(context.Background(), "wh-x", "v-x")

	assert.IsType(t, &apperror.NotFoundError{}, err)
}

// Dez débitos concorrentes de 30 sobre 100: exatamente três passam e o saldo final é 10.
func TestDebit_ConcurrentSameKeyNeverOversells(t *testing.T) {
	l, _ := newLedger(t, 5*time.Second)
	ctx := context.Background()
	_, err := l.Credit(ctx, "wh-1", "v-1", 100)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var ok, insufficient int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Debit(ctx, "wh-1", "v-1", 30)
			var ise *apperror.InsufficientStockError
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case errors.As(err, &ise):
				atomic.AddInt32(&insufficient, 1)
			default:
				t.Errorf("erro inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 3, ok)
	assert.EqualValues(t, 7, insufficient)
	snap, err := l.Snapshot(ctx, "wh-1", "v-1")
	require.NoError(t, err)
	assert.Equal(t, 10, snap.Quantity)
}

func TestCredit_ConcurrentNoLostUpdates(t *testing.T) {
	l, _ := newLedger(t, 5*time.Second)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Credit(ctx, "wh-1", "v-1", 2)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap, err := l.Snapshot(ctx, "wh-1", "v-1")
	require.NoError(t, err)
	assert.Equal(t, 100, snap.Quantity)
}

func TestAtomically_RollbackDiscardsEverything(t *testing.T) {
	l, _ := newLedger(t, time.Second)
	ctx := context.Background()
	_, err := l.Credit(ctx, "wh-1", "v-1", 10)
	require.NoError(t, err)

	var hookCalls int32
	l.OnCommit(func(ctx context.Context, records []domain.StockRecord) { atomic.AddInt32(&hookCalls, 1) })

	boom := errors.New("falha depois do débito")
	err = l.Atomically(ctx, func(w *ledger.Work) error {
		if err := w.Lock(ledger.NewKey("wh-1", "v-1"), ledger.NewKey("wh-2", "v-1")); err != nil {
			return err
		}
		if _, err := w.Debit(ledger.NewKey("wh-1", "v-1"), 4); err != nil {
			return err
		}
		if _, err := w.Credit(ledger.NewKey("wh-2", "v-1"), 4); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	snap, err := l.Snapshot(ctx, "wh-1", "v-1")
	require.NoError(t, err)
	assert.Equal(t, 10, snap.Quantity)
	_, err = l.Snapshot(ctx, "wh-2", "v-1")
	assert.IsType(t, &apperror.NotFoundError{}, err)
	assert.Zero(t, atomic.LoadInt32(&hookCalls))
}

func TestAtomically_HooksReceiveOnlyMutatedRecords(t *testing.T) {
	l, _ := newLedger(t, time.Second)
	ctx := context.Background()
	_, err := l.Credit(ctx, "wh-1", "v-1", 10)
	require.NoError(t, err)

	var got []domain.StockRecord
	l.OnCommit(func(ctx context.Context, records []domain.StockRecord) { got = records })

	err = l.Atomically(ctx, func(w *ledger.Work) error {
		if err := w.Lock(ledger.NewKey("wh-1", "v-1"), ledger.NewKey("wh-1", "v-2")); err != nil {
			return err
		}
		if _, err := w.Debit(ledger.NewKey("wh-1", "v-1"), 3); err != nil {
			return err
		}
		_, err := w.Debit(ledger.NewKey("wh-1", "v-1"), 2)
		return err
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "v-1", got[0].VariantID)
	assert.Equal(t, 5, got[0].Quantity)
}

func TestAtomically_HookPanicDoesNotFailOperation(t *testing.T) {
	l, _ := newLedger(t, time.Second)
	var second int32
	l.OnCommit(func(ctx context.Context, records []domain.StockRecord) { panic("hook quebrado") })
	l.OnCommit(func(ctx context.Context, records []domain.StockRecord) { atomic.AddInt32(&second, 1) })

	_, err := l.Credit(context.Background(), "wh-1", "v-1", 1)

	assert.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&second))
}

func TestWorkLock_Fail_OrderViolation(t *testing.T) {
	l, _ := newLedger(t, time.Second)

	err := l.Atomically(context.Background(), func(w *ledger.Work) error {
		if err := w.Lock(ledger.NewKey("wh-b", "v-1")); err != nil {
			return err
		}
		return w.Lock(ledger.NewKey("wh-a", "v-1"))
	})

	assert.IsType(t, &apperror.InternalError{}, err)
}

func TestDebit_Fail_LockTimeout(t *testing.T) {
	l, _ := newLedger(t, 50*time.Millisecond)
	ctx := context.Background()
	_, err := l.Credit(ctx, "wh-1", "v-1", 10)
	require.NoError(t, err)

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error)
	go func() {
		done <- l.Atomically(ctx, func(w *ledger.Work) error {
			if err := w.Lock(ledger.NewKey("wh-1", "v-1")); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	_, err = l.Debit(ctx, "wh-1", "v-1", 1)
	close(release)

	assert.IsType(t, &apperror.LockTimeoutError{}, err)
	assert.True(t, apperror.IsRetryable(err))
	require.NoError(t, <-done)
}

func TestDebit_DifferentKeysDoNotBlock(t *testing.T) {
	l, _ := newLedger(t, 50*time.Millisecond)
	ctx := context.Background()
	variant := uuid.NewString()

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error)
	go func() {
		done <- l.Atomically(ctx, func(w *ledger.Work) error {
			if err := w.Lock(ledger.NewKey("wh-1", variant)); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	_, err := l.Credit(ctx, "wh-2", variant, 1)
	close(release)

	assert.NoError(t, err)
	require.NoError(t, <-done)
}
