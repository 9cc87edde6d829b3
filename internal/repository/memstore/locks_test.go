package memstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperror "stockledger/internal/errors"
	"stockledger/internal/ledger"
)

func TestLockTable_EntriesRemovedAfterRelease(t *testing.T) {
	store := New(time.Second, 10)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		key := ledger.NewKey("wh-1", fmt.Sprintf("v-%d", i))
		err := store.Run(ctx, func(repos ledger.Repositories) error {
			_, err := repos.Stock.LockStock(ctx, key)
			return err
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 0, store.locks.size())
}

func TestLockTable_TimedOutWaiterLeavesNoEntry(t *testing.T) {
	table := newLockTable()
	key := ledger.NewKey("wh-1", "v-1")
	ctx := context.Background()

	require.NoError(t, table.acquire(ctx, key, time.Second))
	err := table.acquire(ctx, key, 10*time.Millisecond)
	assert.IsType(t, &apperror.LockTimeoutError{}, err)
	assert.Equal(t, 1, table.size())

	table.release(key)
	assert.Equal(t, 0, table.size())

	require.NoError(t, table.acquire(ctx, key, time.Second))
	table.release(key)
	assert.Equal(t, 0, table.size())
}
