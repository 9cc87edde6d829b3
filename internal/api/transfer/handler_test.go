package transfer_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"stockledger/internal/api/transfer"
	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/pkg/middleware"
)

type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) ExecuteTransfer(ctx context.Context, req domain.TransferRequest) (domain.TransferRecord, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.TransferRecord), args.Error(1)
}

func (m *MockTransferService) GetTransfer(ctx context.Context, reference string) (domain.TransferRecord, error) {
	args := m.Called(ctx, reference)
	return args.Get(0).(domain.TransferRecord), args.Error(1)
}

func (m *MockTransferService) ListTransfers(ctx context.Context, filter domain.ListFilter) ([]domain.TransferRecord, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.TransferRecord), args.Error(1)
}

const body = `{"source_warehouse_id":"wh-a","destination_warehouse_id":"wh-b","variant_id":"v-1","quantity":4}`

func newRequest(payload string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/transfers", strings.NewReader(payload))
	ctx := middleware.WithUserClaims(req.Context(), middleware.UserClaims{UserID: "user-42", Role: domain.RoleUser})
	return req.WithContext(ctx)
}

func TestExecuteTransferHandler_Success(t *testing.T) {
	svc := new(MockTransferService)
	h := transfer.NewHandler(svc, logger.NewWithWriter(io.Discard, "error"))

	expected := domain.TransferRequest{
		SourceWarehouseID: "wh-a", DestinationWarehouseID: "wh-b", VariantID: "v-1", Quantity: 4, InitiatedBy: "user-42",
	}
	svc.On("ExecuteTransfer", mock.Anything, expected).
		Return(domain.TransferRecord{ReferenceCode: "TRF-0123456789ABCDEF", Quantity: 4, InitiatedBy: "user-42"}, nil).Once()

	rr := httptest.NewRecorder()
	h.ExecuteTransferHandler(rr, newRequest(body))

	assert.Equal(t, http.StatusCreated, rr.Code)
	var got domain.TransferRecord
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, "TRF-0123456789ABCDEF", got.ReferenceCode)
	svc.AssertExpectations(t)
}

func TestExecuteTransferHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		status     int
		category   string
		retryAfter string
	}{
		{"saldo insuficiente", apperror.NewInsufficientStockError("wh-a", "v-1", 2, 4), http.StatusConflict, "INSUFFICIENT_STOCK", ""},
		{"lock timeout", apperror.NewLockTimeoutError("lock", errors.New("55P03")), http.StatusServiceUnavailable, "LOCK_TIMEOUT", "1"},
		{"falha transitória", apperror.NewTransientError("deadlock", errors.New("40P01")), http.StatusServiceUnavailable, "TRANSIENT_STORAGE_FAILURE", "1"},
		{"inexistente", apperror.NewNotFoundError("armazém"), http.StatusNotFound, "NOT_FOUND", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockTransferService)
			h := transfer.NewHandler(svc, logger.NewWithWriter(io.Discard, "error"))
			svc.On("ExecuteTransfer", mock.Anything, mock.Anything).Return(domain.TransferRecord{}, tt.err).Once()

			rr := httptest.NewRecorder()
			h.ExecuteTransferHandler(rr, newRequest(body))

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.retryAfter, rr.Header().Get("Retry-After"))
			var resp domain.ErrorResponse
			assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tt.category, resp.Category)
		})
	}
}

func TestExecuteTransferHandler_UnknownFieldRejected(t *testing.T) {
	svc := new(MockTransferService)
	h := transfer.NewHandler(svc, logger.NewWithWriter(io.Discard, "error"))

	rr := httptest.NewRecorder()
	h.ExecuteTransferHandler(rr, newRequest(`{"quantity":1,"initiated_by":"outro"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "ExecuteTransfer", mock.Anything, mock.Anything)
}
