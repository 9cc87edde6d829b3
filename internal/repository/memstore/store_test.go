package memstore_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/ledger"
	"stockledger/internal/repository/memstore"
)

func TestRun_StagedWritesInvisibleUntilCommit(t *testing.T) {
	store := memstore.New(time.Second, 10)
	ctx := context.Background()
	key := ledger.NewKey("wh-1", "v-1")

	err := store.Run(ctx, func(repos ledger.Repositories) error {
		_, err := repos.Stock.LockStock(ctx, key)
		require.NoError(t, err)
		_, err = repos.Stock.SetQuantity(ctx, key, 7)
		require.NoError(t, err)

		_, err = store.GetStock(ctx, key)
		assert.IsType(t, &apperror.NotFoundError{}, err)
		return nil
	})
	require.NoError(t, err)

	rec, err := store.GetStock(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 7, rec.Quantity)
}

func TestRun_ErrorDiscardsStagedRecords(t *testing.T) {
	store := memstore.New(time.Second, 10)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Run(ctx, func(repos ledger.Repositories) error {
		_, err := repos.Transfers.CreateTransfer(ctx, domain.TransferRecord{ReferenceCode: "TRF-0000000000000001"})
		require.NoError(t, err)
		_, err = repos.Adjustments.CreateAdjustment(ctx, domain.AdjustmentRecord{WarehouseID: "wh-1", Delta: 1})
		require.NoError(t, err)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	_, err = store.FindTransferByReference(ctx, "TRF-0000000000000001")
	assert.IsType(t, &apperror.NotFoundError{}, err)
	adjustments, err := store.ListAdjustments(ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, adjustments)
}

func TestSetQuantity_Fail_WithoutLock(t *testing.T) {
	store := memstore.New(time.Second, 10)
	ctx := context.Background()

	err := store.Run(ctx, func(repos ledger.Repositories) error {
		_, err := repos.Stock.SetQuantity(ctx, ledger.NewKey("wh-1", "v-1"), 3)
		return err
	})

	assert.IsType(t, &apperror.InternalError{}, err)
}

func TestCreateTransfer_Fail_DuplicateReference(t *testing.T) {
	store := memstore.New(time.Second, 10)
	ctx := context.Background()
	ref := "TRF-00000000000000AA"

	require.NoError(t, store.Run(ctx, func(repos ledger.Repositories) error {
		_, err := repos.Transfers.CreateTransfer(ctx, domain.TransferRecord{ReferenceCode: ref})
		return err
	}))

	err := store.Run(ctx, func(repos ledger.Repositories) error {
		_, err := repos.Transfers.CreateTransfer(ctx, domain.TransferRecord{ReferenceCode: ref})
		return err
	})
	assert.IsType(t, &apperror.ConflictError{}, err)
}

func TestLockStock_ReleasedAfterContextCancel(t *testing.T) {
	store := memstore.New(time.Second, 10)
	key := ledger.NewKey("wh-1", "v-1")

	ctx, cancel := context.WithCancel(context.Background())
	err := store.Run(ctx, func(repos ledger.Repositories) error {
		if _, err := repos.Stock.LockStock(ctx, key); err != nil {
			return err
		}
		cancel()
		return nil
	})
	assert.IsType(t, &apperror.TransientError{}, err)

	err = store.Run(context.Background(), func(repos ledger.Repositories) error {
		_, err := repos.Stock.LockStock(context.Background(), key)
		return err
	})
	assert.NoError(t, err)
}

func TestLockStock_UsesVariantThreshold(t *testing.T) {
	store := memstore.New(time.Second, 10)
	ctx := context.Background()
	_, err := store.SaveProduct(ctx, domain.Product{ID: "p-1", SKU: "CAM-01", Name: "Camiseta"},
		[]domain.Variant{{ID: "v-1", ProductID: "p-1", LowStockThreshold: 3}})
	require.NoError(t, err)

	var rec domain.StockRecord
	require.NoError(t, store.Run(ctx, func(repos ledger.Repositories) error {
		var err error
		rec, err = repos.Stock.LockStock(ctx, ledger.NewKey("wh-1", "v-1"))
		return err
	}))

	assert.Equal(t, 3, rec.LowStockThreshold)
}

func TestCreateIfNoneActive_Dedup(t *testing.T) {
	store := memstore.New(time.Second, 10)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := store.CreateIfNoneActive(ctx, domain.StockAlert{StockRecordID: "s-1", WarehouseID: "wh-1", AlertType: domain.AlertLowStock})
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	alerts, err := store.ListActiveAlerts(ctx, domain.ListFilter{WarehouseID: "wh-1"})
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}

func TestManagerEmails_OnlyManagers(t *testing.T) {
	store := memstore.New(time.Second, 10)
	ctx := context.Background()
	wh, err := store.CreateWarehouse(ctx, domain.Warehouse{Name: "Central", Slug: "central"})
	require.NoError(t, err)
	manager, err := store.Save(ctx, domain.User{Email: "gerente@example.com"})
	require.NoError(t, err)
	staff, err := store.Save(ctx, domain.User{Email: "staff@example.com"})
	require.NoError(t, err)

	_, err = store.AddWarehouseUser(ctx, domain.WarehouseUser{WarehouseID: wh.ID, UserID: manager.ID, Role: domain.WarehouseManager})
	require.NoError(t, err)
	_, err = store.AddWarehouseUser(ctx, domain.WarehouseUser{WarehouseID: wh.ID, UserID: staff.ID, Role: domain.WarehouseStaff})
	require.NoError(t, err)

	emails, err := store.ManagerEmails(ctx, wh.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"gerente@example.com"}, emails)
}

func TestListTransfers_FilterAndPaging(t *testing.T) {
	store := memstore.New(time.Second, 10)
	ctx := context.Background()
	require.NoError(t, store.Run(ctx, func(repos ledger.Repositories) error {
		for i, pair := range [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}} {
			ref := "TRF-000000000000000" + string(rune('1'+i))
			if _, err := repos.Transfers.CreateTransfer(ctx, domain.TransferRecord{ReferenceCode: ref, SourceWarehouseID: pair[0], DestinationWarehouseID: pair[1]}); err != nil {
				return err
			}
		}
		return nil
	}))

	got, err := store.ListTransfers(ctx, domain.ListFilter{WarehouseID: "b"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "TRF-0000000000000002", got[0].ReferenceCode)

	got, err = store.ListTransfers(ctx, domain.ListFilter{Limit: 1, Offset: 2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "TRF-0000000000000001", got[0].ReferenceCode)

	got, err = store.ListTransfers(ctx, domain.ListFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, got)
}
