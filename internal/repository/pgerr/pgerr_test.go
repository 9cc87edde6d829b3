package pgerr_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	apperror "stockledger/internal/errors"
	"stockledger/internal/repository/pgerr"
)

func TestMap(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want interface{}
	}{
		{"lock timeout", &pq.Error{Code: pgerr.LockNotAvailable}, &apperror.LockTimeoutError{}},
		{"deadlock", &pq.Error{Code: pgerr.DeadlockDetected}, &apperror.TransientError{}},
		{"serialização", fmt.Errorf("commit: %w", &pq.Error{Code: pgerr.SerializationFailure}), &apperror.TransientError{}},
		{"fk", &pq.Error{Code: pgerr.ForeignKeyViolation}, &apperror.NotFoundError{}},
		{"unique", &pq.Error{Code: pgerr.UniqueViolation}, &apperror.ConflictError{}},
		{"uuid inválido", &pq.Error{Code: pgerr.InvalidTextRepr}, &apperror.ValidationError{}},
		{"check", &pq.Error{Code: pgerr.CheckViolation}, &apperror.InternalError{}},
		{"sem linhas", sql.ErrNoRows, &apperror.NotFoundError{}},
		{"genérico", errors.New("conexão recusada"), &apperror.InternalError{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.IsType(t, tt.want, pgerr.Map("op", tt.err))
		})
	}
}

func TestMap_KeepsAppErrors(t *testing.T) {
	orig := apperror.NewInsufficientStockError("wh", "v", 1, 2)
	assert.Same(t, orig, pgerr.Map("op", orig))
	assert.Nil(t, pgerr.Map("op", nil))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, pgerr.IsRetryable(&pq.Error{Code: pgerr.DeadlockDetected}))
	assert.True(t, pgerr.IsRetryable(apperror.NewTransientError("x", &pq.Error{Code: pgerr.SerializationFailure})))
	assert.False(t, pgerr.IsRetryable(&pq.Error{Code: pgerr.LockNotAvailable}))
	assert.False(t, pgerr.IsRetryable(errors.New("x")))
}
