package ledger

import (
	"context"

	"stockledger/internal/domain"
)

// StockStore é o acesso aos registros de estoque dentro de uma unidade de trabalho.
type StockStore interface {
	// LockStock obtém o registro da chave, criando-o com quantidade zero se não existir,
	// e mantém o lock exclusivo até o fim da unidade de trabalho.
	LockStock(ctx context.Context, key Key) (domain.StockRecord, error)
	// SetQuantity grava a nova quantidade de um registro já bloqueado.
	SetQuantity(ctx context.Context, key Key, quantity int) (domain.StockRecord, error)
}

// StockReader lê registros sem bloquear (visão do último commit).
type StockReader interface {
	GetStock(ctx context.Context, key Key) (domain.StockRecord, error)
}

// TransferStore persiste TransferRecords na mesma unidade de trabalho do débito e crédito.
type TransferStore interface {
	CreateTransfer(ctx context.Context, transfer domain.TransferRecord) (domain.TransferRecord, error)
}

// AdjustmentStore persiste AdjustmentRecords na mesma unidade de trabalho da mutação.
type AdjustmentStore interface {
	CreateAdjustment(ctx context.Context, adjustment domain.AdjustmentRecord) (domain.AdjustmentRecord, error)
}

// Repositories agrupa os repositórios ligados a uma mesma transação.
type Repositories struct {
	Stock       StockStore
	Transfers   TransferStore
	Adjustments AdjustmentStore
}

// UnitOfWork executa fn de forma atômica: tudo é confirmado ou nada é.
// Implementações podem repetir fn em falhas transitórias; fn não deve ter efeitos fora de repos.
type UnitOfWork interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}

// PostCommitHook recebe o estado final de cada registro alterado por uma unidade de trabalho confirmada.
// Erros são tratados pelo próprio hook.
type PostCommitHook func(ctx context.Context, records []domain.StockRecord)
