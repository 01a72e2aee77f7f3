package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "lendops-backend/internal/domain/wallet"
	"lendops-backend/internal/domain/uow"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Usecase struct {
	repo domain.Repository
	uow  uow.UnitOfWork
}

func NewUsecase(repo domain.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: repo, uow: tx}
}

// MutationInput tags a credit/debit with the business event behind it.
type MutationInput struct {
	Amount        decimal.Decimal
	ReferenceID   string
	ReferenceType string
	Description   string
}

type TransactionDTO struct {
	ID            uint64          `json:"id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// IntegrityReport compares the cached balance against the re-summed log.
type IntegrityReport struct {
	WalletID       uint64          `json:"wallet_id"`
	StoredBalance  decimal.Decimal `json:"stored_balance"`
	DerivedBalance decimal.Decimal `json:"derived_balance"`
	Consistent     bool            `json:"consistent"`
}

// GetOrCreateWallet lazily creates the user's wallet with zero balance.
// Safe to call repeatedly.
func (u *Usecase) GetOrCreateWallet(ctx context.Context, userID uint64) (*domain.Wallet, error) {
	w, err := u.repo.GetByUserID(ctx, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	w = &domain.Wallet{UserID: userID, Balance: decimal.Zero}
	if err := u.repo.Create(ctx, w); err != nil {
		// lost a creation race: the unique user_id index rejected us, so
		// return the row that won
		if existing, gerr := u.repo.GetByUserID(ctx, userID); gerr == nil {
			return existing, nil
		}
		return nil, err
	}
	return w, nil
}

// Credit appends a CREDIT row and moves the cached balance, as one
// transaction holding the wallet row lock.
func (u *Usecase) Credit(ctx context.Context, walletID uint64, in MutationInput) (*TransactionDTO, error) {
	return u.mutate(ctx, walletID, domain.TypeCredit, in)
}

// Debit is Credit's mirror; it additionally fails with
// ErrInsufficientBalance inside the same transaction when the amount
// exceeds the current balance, so concurrent debits cannot overdraw.
func (u *Usecase) Debit(ctx context.Context, walletID uint64, in MutationInput) (*TransactionDTO, error) {
	return u.mutate(ctx, walletID, domain.TypeDebit, in)
}

func (u *Usecase) mutate(ctx context.Context, walletID uint64, typ domain.TransactionType, in MutationInput) (*TransactionDTO, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	var dto *TransactionDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		w, err := r.Wallets.GetByIDForUpdate(ctx, walletID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		var next decimal.Decimal
		switch typ {
		case domain.TypeCredit:
			next = w.Balance.Add(in.Amount)
		case domain.TypeDebit:
			if in.Amount.GreaterThan(w.Balance) {
				return fmt.Errorf("%w: have %s, want %s", domain.ErrInsufficientBalance, w.Balance, in.Amount)
			}
			next = w.Balance.Sub(in.Amount)
		}

		t := &domain.Transaction{
			WalletID:      w.ID,
			Type:          typ,
			Amount:        in.Amount,
			BalanceAfter:  next,
			ReferenceID:   in.ReferenceID,
			ReferenceType: in.ReferenceType,
			Description:   in.Description,
		}
		if err := r.Wallets.AppendTransaction(ctx, t); err != nil {
			return err
		}

		w.Balance = next
		if err := r.Wallets.Save(ctx, w); err != nil {
			return err
		}

		dto = &TransactionDTO{
			ID:            t.ID,
			Type:          string(t.Type),
			Amount:        t.Amount,
			BalanceAfter:  t.BalanceAfter,
			ReferenceID:   t.ReferenceID,
			ReferenceType: t.ReferenceType,
			Description:   t.Description,
			CreatedAt:     t.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) GetBalance(ctx context.Context, userID uint64) (decimal.Decimal, error) {
	w, err := u.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return w.Balance, nil
}

func (u *Usecase) ListTransactions(ctx context.Context, walletID uint64, limit, offset int) ([]TransactionDTO, error) {
	ts, err := u.repo.ListTransactions(ctx, walletID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]TransactionDTO, 0, len(ts))
	for _, t := range ts {
		out = append(out, TransactionDTO{
			ID:            t.ID,
			Type:          string(t.Type),
			Amount:        t.Amount,
			BalanceAfter:  t.BalanceAfter,
			ReferenceID:   t.ReferenceID,
			ReferenceType: t.ReferenceType,
			Description:   t.Description,
			CreatedAt:     t.CreatedAt,
		})
	}
	return out, nil
}

// CalculateDerivedBalance independently re-sums the full transaction log:
// Σ(CREDIT) − Σ(DEBIT).
func (u *Usecase) CalculateDerivedBalance(ctx context.Context, walletID uint64) (decimal.Decimal, error) {
	credits, err := u.repo.SumByType(ctx, walletID, domain.TypeCredit)
	if err != nil {
		return decimal.Zero, err
	}
	debits, err := u.repo.SumByType(ctx, walletID, domain.TypeDebit)
	if err != nil {
		return decimal.Zero, err
	}
	return credits.Sub(debits), nil
}

// VerifyWalletIntegrity flags drift between the cached balance and the
// derived one, for reconciliation and audits.
func (u *Usecase) VerifyWalletIntegrity(ctx context.Context, walletID uint64) (*IntegrityReport, error) {
	w, err := u.repo.GetByID(ctx, walletID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	derived, err := u.CalculateDerivedBalance(ctx, walletID)
	if err != nil {
		return nil, err
	}
	return &IntegrityReport{
		WalletID:       w.ID,
		StoredBalance:  w.Balance,
		DerivedBalance: derived,
		Consistent:     w.Balance.Equal(derived),
	}, nil
}
