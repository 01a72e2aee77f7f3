package mysql

import (
	"context"

	domain "lendops-backend/internal/domain/wallet"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WalletRepository struct{ db *gorm.DB }

func NewWalletRepository(db *gorm.DB) *WalletRepository { return &WalletRepository{db: db} }

func (r *WalletRepository) Create(ctx context.Context, w *domain.Wallet) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *WalletRepository) Save(ctx context.Context, w *domain.Wallet) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *WalletRepository) GetByID(ctx context.Context, id uint64) (*domain.Wallet, error) {
	var out domain.Wallet
	res := r.db.WithContext(ctx).First(&out, "id = ?", id)
	return &out, res.Error
}

func (r *WalletRepository) GetByUserID(ctx context.Context, userID uint64) (*domain.Wallet, error) {
	var out domain.Wallet
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	return &out, res.Error
}

// GetByIDForUpdate takes the row lock that serializes concurrent credits
// and debits on one wallet.
func (r *WalletRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Wallet, error) {
	var out domain.Wallet
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&out, "id = ?", id)
	return &out, res.Error
}

func (r *WalletRepository) AppendTransaction(ctx context.Context, t *domain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *WalletRepository) ListTransactions(ctx context.Context, walletID uint64, limit, offset int) ([]domain.Transaction, error) {
	q := r.db.WithContext(ctx).Where("wallet_id = ?", walletID).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	var out []domain.Transaction
	err := q.Find(&out).Error
	return out, err
}

func (r *WalletRepository) SumByType(ctx context.Context, walletID uint64, typ domain.TransactionType) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("wallet_id = ? AND type = ?", walletID, typ).
		Select("SUM(amount)").Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}
