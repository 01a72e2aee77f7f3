package wallet

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, w *Wallet) error
	Save(ctx context.Context, w *Wallet) error
	GetByID(ctx context.Context, id uint64) (*Wallet, error)
	GetByUserID(ctx context.Context, userID uint64) (*Wallet, error)
	// GetByIDForUpdate locks the wallet row so concurrent credits/debits on
	// the same wallet serialize inside their transactions.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Wallet, error)

	AppendTransaction(ctx context.Context, t *Transaction) error
	ListTransactions(ctx context.Context, walletID uint64, limit, offset int) ([]Transaction, error)
	// SumByType returns Σ(amount) over the wallet's transactions of one type.
	SumByType(ctx context.Context, walletID uint64, typ TransactionType) (decimal.Decimal, error)
}
