package walletmock

import (
	"context"

	domain "lendops-backend/internal/domain/wallet"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock satisfying wallet.Repository.
type Repo struct {
	CreateFn            func(ctx context.Context, w *domain.Wallet) error
	SaveFn              func(ctx context.Context, w *domain.Wallet) error
	GetByIDFn           func(ctx context.Context, id uint64) (*domain.Wallet, error)
	GetByUserIDFn       func(ctx context.Context, userID uint64) (*domain.Wallet, error)
	GetByIDForUpdateFn  func(ctx context.Context, id uint64) (*domain.Wallet, error)
	AppendTransactionFn func(ctx context.Context, t *domain.Transaction) error
	ListTransactionsFn  func(ctx context.Context, walletID uint64, limit, offset int) ([]domain.Transaction, error)
	SumByTypeFn         func(ctx context.Context, walletID uint64, typ domain.TransactionType) (decimal.Decimal, error)
}

func (m *Repo) Create(ctx context.Context, w *domain.Wallet) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, w)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, w *domain.Wallet) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, w)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Wallet, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByUserID(ctx context.Context, userID uint64) (*domain.Wallet, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Wallet, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) AppendTransaction(ctx context.Context, t *domain.Transaction) error {
	if m.AppendTransactionFn != nil {
		return m.AppendTransactionFn(ctx, t)
	}
	return nil
}

func (m *Repo) ListTransactions(ctx context.Context, walletID uint64, limit, offset int) ([]domain.Transaction, error) {
	if m.ListTransactionsFn != nil {
		return m.ListTransactionsFn(ctx, walletID, limit, offset)
	}
	return nil, nil
}

func (m *Repo) SumByType(ctx context.Context, walletID uint64, typ domain.TransactionType) (decimal.Decimal, error) {
	if m.SumByTypeFn != nil {
		return m.SumByTypeFn(ctx, walletID, typ)
	}
	return decimal.Zero, nil
}
