// Package pgerr traduz erros do driver lib/pq para os erros da aplicação.
package pgerr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	apperror "stockledger/internal/errors"
)

// Códigos SQLSTATE tratados.
const (
	DeadlockDetected     = "40P01"
	SerializationFailure = "40001"
	LockNotAvailable     = "55P03"
	ForeignKeyViolation  = "23503"
	UniqueViolation      = "23505"
	CheckViolation       = "23514"
	InvalidTextRepr      = "22P02"
)

// Code devolve o SQLSTATE de err, ou "" se não for um erro do PostgreSQL.
func Code(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsRetryable informa se a transação pode ser repetida do início.
func IsRetryable(err error) bool {
	switch Code(err) {
	case DeadlockDetected, SerializationFailure:
		return true
	}
	return false
}

// Map converte err num AppError; op descreve a operação para logs e mensagens.
func Map(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.NewNotFoundError(op)
	}

	switch Code(err) {
	case LockNotAvailable:
		return apperror.NewLockTimeoutError(op, err)
	case DeadlockDetected, SerializationFailure:
		return apperror.NewTransientError(op, err)
	case ForeignKeyViolation:
		return apperror.NewNotFoundError(fmt.Sprintf("%s: referência inexistente", op))
	case UniqueViolation:
		return apperror.NewConflictError(fmt.Sprintf("%s: registro duplicado", op))
	case InvalidTextRepr:
		return apperror.NewValidationError(fmt.Sprintf("%s: identificador inválido", op))
	case CheckViolation:
		return apperror.NewInternalError(op, err)
	}
	return apperror.NewDBError(op, err)
}
