package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados do serviço.
// O Handler usa Categoria e Status para montar a resposta sem conhecer o tipo concreto.
type AppError interface {
	Error() string
	Category() string
	HTTPStatus() int
	Unwrap() error
}

// Retryable é implementado pelos erros transitórios (o cliente pode repetir a operação).
type Retryable interface {
	Retryable() bool
}

// --- Erros de Domínio ---

// ValidationError representa entrada malformada (InvalidArgument / InvalidTransfer).
// Field aponta o campo do payload que causou a rejeição, quando conhecido.
type ValidationError struct {
	Msg   string
	Field string
	Code  string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string {
	if e.Code != "" {
		return e.Code
	}
	return "VALIDATION_ERROR"
}
func (e *ValidationError) HTTPStatus() int { return http.StatusBadRequest }
func (e *ValidationError) Unwrap() error   { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NewFieldValidationError cria um erro de validação associado a um campo do payload.
func NewFieldValidationError(field, msg string) AppError {
	return &ValidationError{Msg: msg, Field: field}
}

// NewInvalidTransferError rejeita uma transferência malformada (mesma origem/destino, quantidade <= 0).
func NewInvalidTransferError(field, msg string) AppError {
	return &ValidationError{Msg: msg, Field: field, Code: "INVALID_TRANSFER"}
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound }
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// ConflictError representa um conflito na regra de negócio (recurso duplicado, etc.).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("Conflito de estado: %s", e.Msg) }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict }
func (e *ConflictError) Unwrap() error    { return nil }

// NewConflictError cria um novo erro de conflito.
func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// InsufficientStockError indica que o débito excede a quantidade disponível no momento da execução.
// É uma condição de negócio: repetir a mesma requisição não muda o resultado.
type InsufficientStockError struct {
	WarehouseID string
	VariantID   string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Estoque insuficiente: disponível %d, solicitado %d.", e.Available, e.Requested)
}
func (e *InsufficientStockError) Category() string { return "INSUFFICIENT_STOCK" }
func (e *InsufficientStockError) HTTPStatus() int  { return http.StatusConflict }
func (e *InsufficientStockError) Unwrap() error    { return nil }

// NewInsufficientStockError cria o erro de estoque insuficiente para a chave (armazém, variante).
func NewInsufficientStockError(warehouseID, variantID string, available, requested int) AppError {
	return &InsufficientStockError{WarehouseID: warehouseID, VariantID: variantID, Available: available, Requested: requested}
}

// UnauthorizedError representa falha de autenticação (token ausente, credenciais inválidas).
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return fmt.Sprintf("Não autorizado: %s", e.Msg) }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized }
func (e *UnauthorizedError) Unwrap() error    { return nil }

// NewUnauthorizedError cria um novo erro de autenticação.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// ForbiddenError representa um usuário autenticado sem a permissão necessária.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string    { return fmt.Sprintf("Acesso negado: %s", e.Msg) }
func (e *ForbiddenError) Category() string { return "FORBIDDEN" }
func (e *ForbiddenError) HTTPStatus() int  { return http.StatusForbidden }
func (e *ForbiddenError) Unwrap() error    { return nil }

// NewForbiddenError cria um novo erro de autorização.
func NewForbiddenError(msg string) AppError {
	return &ForbiddenError{Msg: msg}
}

// --- Erros de Infraestrutura ---

// LockTimeoutError indica que o lock por chave (armazém, variante) não foi obtido dentro do prazo.
type LockTimeoutError struct {
	Msg string
	Err error
}

func (e *LockTimeoutError) Error() string {
	return fmt.Sprintf("Tempo de espera pelo lock esgotado: %s", e.Msg)
}
func (e *LockTimeoutError) Category() string { return "LOCK_TIMEOUT" }
func (e *LockTimeoutError) HTTPStatus() int  { return http.StatusServiceUnavailable }
func (e *LockTimeoutError) Unwrap() error    { return e.Err }
func (e *LockTimeoutError) Retryable() bool  { return true }

// NewLockTimeoutError cria um erro de timeout de lock.
func NewLockTimeoutError(msg string, err error) AppError {
	return &LockTimeoutError{Msg: msg, Err: err}
}

// TransientError representa uma falha passageira de armazenamento (deadlock, serialização, conexão).
type TransientError struct {
	Msg string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("Falha transitória de armazenamento: %s", e.Msg)
}
func (e *TransientError) Category() string { return "TRANSIENT_STORAGE_FAILURE" }
func (e *TransientError) HTTPStatus() int  { return http.StatusServiceUnavailable }
func (e *TransientError) Unwrap() error    { return e.Err }
func (e *TransientError) Retryable() bool  { return true }

// NewTransientError cria um erro transitório de armazenamento.
func NewTransientError(msg string, err error) AppError {
	return &TransientError{Msg: msg, Err: err}
}

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error
}

func (e *InternalError) Error() string    { return fmt.Sprintf("Erro Interno: %s", e.Msg) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError }
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(fmt.Sprintf("%s (DB)", msg), err)
}

// IsRetryable informa se algum erro da cadeia é transitório.
func IsRetryable(err error) bool {
	var r Retryable
	return errors.As(err, &r) && r.Retryable()
}

// --- Helper para o Handler (Tradução Final) ---

// HTTPError é o corpo de erro devolvido ao cliente.
type HTTPError struct {
	Code     int    `json:"code"`
	Category string `json:"category"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP e corpo de resposta.
// Erros 5xx nunca expõem a causa subjacente (driver SQL, rede).
func MapToHTTPStatus(err error) HTTPError {
	var appErr AppError
	if !errors.As(err, &appErr) {
		return HTTPError{Code: http.StatusInternalServerError, Category: "UNKNOWN_ERROR", Message: "Ocorreu um erro inesperado."}
	}

	resp := HTTPError{Code: appErr.HTTPStatus(), Category: appErr.Category(), Message: appErr.Error()}

	var validation *ValidationError
	if errors.As(err, &validation) {
		resp.Field = validation.Field
	}
	var insufficient *InsufficientStockError
	if errors.As(err, &insufficient) {
		resp.Field = "quantity"
	}

	switch resp.Code {
	case http.StatusServiceUnavailable:
		resp.Message = "Recurso temporariamente indisponível. Tente novamente."
	case http.StatusInternalServerError:
		resp.Message = "Ocorreu um erro inesperado."
	}
	return resp
}
