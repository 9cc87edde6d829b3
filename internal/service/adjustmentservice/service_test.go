package adjustmentservice_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/ledger"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/repository/memstore"
	"stockledger/internal/service/adjustmentservice"
)

func newService(t *testing.T) (*adjustmentservice.Service, *ledger.Ledger) {
	t.Helper()
	store := memstore.New(2*time.Second, 10)
	log := logger.NewLogger("error")
	l := ledger.New(store, store, log)
	return adjustmentservice.NewService(l, store, log), l
}

func adjustment(delta int, reason domain.AdjustmentReason) domain.AdjustmentRequest {
	return domain.AdjustmentRequest{WarehouseID: "wh-1", VariantID: "v-7", Delta: delta, Reason: reason, Actor: "user-1"}
}

func TestExecuteAdjustment_Success_Credit(t *testing.T) {
	svc, l := newService(t)
	ctx := context.Background()

	rec, err := svc.ExecuteAdjustment(ctx, adjustment(15, domain.ReasonAuditCorrection))

	require.NoError(t, err)
	assert.Equal(t, 15, rec.QuantityAfter)
	assert.Equal(t, "user-1", rec.Actor)
	snap, err := l.Snapshot(ctx, "wh-1", "v-7")
	require.NoError(t, err)
	assert.Equal(t, 15, snap.Quantity)
}

func TestExecuteAdjustment_Success_DebitToZero(t *testing.T) {
	svc, l := newService(t)
	ctx := context.Background()
	_, err := l.Credit(ctx, "wh-1", "v-7", 5)
	require.NoError(t, err)

	rec, err := svc.ExecuteAdjustment(ctx, adjustment(-5, domain.ReasonLoss))

	require.NoError(t, err)
	assert.Equal(t, 0, rec.QuantityAfter)
	assert.Equal(t, -5, rec.Delta)
}

func TestExecuteAdjustment_Fail_InsufficientStock(t *testing.T) {
	svc, l := newService(t)
	ctx := context.Background()
	_, err := l.Credit(ctx, "wh-1", "v-7", 3)
	require.NoError(t, err)

	_, err = svc.ExecuteAdjustment(ctx, adjustment(-4, domain.ReasonDamage))

	assert.IsType(t, &apperror.InsufficientStockError{}, err)
	snap, err := l.Snapshot(ctx, "wh-1", "v-7")
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Quantity)
	list, err := svc.ListAdjustments(ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestExecuteAdjustment_Fail_ZeroDelta(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.ExecuteAdjustment(context.Background(), adjustment(0, domain.ReasonLoss))

	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "delta", verr.Field)
	assert.Contains(t, err.Error(), "não pode ser zero")
}

func TestExecuteAdjustment_Fail_UnknownReason(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.ExecuteAdjustment(context.Background(), adjustment(1, "THEFT"))

	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "reason", verr.Field)
}

func TestExecuteAdjustment_ConcurrentMixedDeltas(t *testing.T) {
	svc, l := newService(t)
	ctx := context.Background()
	_, err := l.Credit(ctx, "wh-1", "v-7", 20)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.ExecuteAdjustment(ctx, adjustment(-1, domain.ReasonExpiry))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := svc.ExecuteAdjustment(ctx, adjustment(2, domain.ReasonAuditCorrection))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap, err := l.Snapshot(ctx, "wh-1", "v-7")
	require.NoError(t, err)
	assert.Equal(t, 40, snap.Quantity)
	list, err := svc.ListAdjustments(ctx, domain.ListFilter{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, list, 40)
}
