package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/api/response"
	apperror "stockledger/internal/errors"
	"stockledger/internal/pkg/logger"
)

func TestError_LockTimeoutSetsRetryAfter(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/transfers", nil)

	response.Error(rr, req, logger.NewLogger("error"), apperror.NewLockTimeoutError("wh-1/v-1", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
	var body apperror.HTTPError
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "LOCK_TIMEOUT", body.Category)
}

func TestError_ValidationCarriesField(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/adjustments", nil)

	response.Error(rr, req, nil, apperror.NewFieldValidationError("delta", "não pode ser zero"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, rr.Header().Get("Retry-After"))
	assert.Contains(t, rr.Body.String(), `"field":"delta"`)
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	var dst struct {
		Quantity int `json:"quantity"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":1,"extra":true}`))

	err := response.Decode(req, &dst)

	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestListFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/transfers?limit=500&offset=20&warehouse_id=wh-1", nil)
	filter, err := response.ListFilter(req)
	require.NoError(t, err)
	assert.Equal(t, 100, filter.Limit)
	assert.Equal(t, 20, filter.Offset)
	assert.Equal(t, "wh-1", filter.WarehouseID)

	filter, err = response.ListFilter(httptest.NewRequest(http.MethodGet, "/v1/transfers", nil))
	require.NoError(t, err)
	assert.Equal(t, 10, filter.Limit)

	_, err = response.ListFilter(httptest.NewRequest(http.MethodGet, "/v1/transfers?limit=dez", nil))
	assert.IsType(t, &apperror.ValidationError{}, err)
}
