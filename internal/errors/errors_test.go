package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperror "stockledger/internal/errors"
)

func TestMapToHTTPStatus_InvalidTransfer(t *testing.T) {
	resp := apperror.MapToHTTPStatus(apperror.NewInvalidTransferError("destination_warehouse_id", "Origem e destino devem ser diferentes."))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "INVALID_TRANSFER", resp.Category)
	assert.Equal(t, "destination_warehouse_id", resp.Field)
	assert.Contains(t, resp.Message, "diferentes")
}

func TestMapToHTTPStatus_InsufficientStock(t *testing.T) {
	err := fmt.Errorf("debit: %w", apperror.NewInsufficientStockError("wh-1", "v-7", 10, 50))
	resp := apperror.MapToHTTPStatus(err)

	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.Category)
	assert.Equal(t, "quantity", resp.Field)
}

func TestMapToHTTPStatus_HidesInternalCause(t *testing.T) {
	cause := errors.New(`pq: relation "stock_records" does not exist`)
	resp := apperror.MapToHTTPStatus(apperror.NewDBError("Falha ao bloquear estoque", cause))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.NotContains(t, resp.Message, "stock_records")
}

func TestMapToHTTPStatus_LockTimeoutIsRetryable(t *testing.T) {
	err := apperror.NewLockTimeoutError("wh-1/v-7", errors.New("canceling statement due to lock timeout"))
	resp := apperror.MapToHTTPStatus(err)

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, "LOCK_TIMEOUT", resp.Category)
	assert.NotContains(t, resp.Message, "canceling")
	assert.True(t, apperror.IsRetryable(err))
	assert.False(t, apperror.IsRetryable(apperror.NewInsufficientStockError("wh-1", "v-7", 0, 1)))
}

func TestMapToHTTPStatus_UntypedError(t *testing.T) {
	resp := apperror.MapToHTTPStatus(errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "UNKNOWN_ERROR", resp.Category)
}
