package wallet

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound            = errors.New("wallet not found")
	ErrInvalidAmount       = errors.New("transaction amount must be positive")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

type TransactionType string

const (
	TypeCredit TransactionType = "CREDIT"
	TypeDebit  TransactionType = "DEBIT"
)

// Wallet holds a cached balance that must always equal the signed sum of its
// transaction log: balance == Σ(CREDIT) − Σ(DEBIT).
type Wallet struct {
	ID        uint64          `gorm:"primaryKey;column:id" json:"id"`
	UserID    uint64          `gorm:"not null;uniqueIndex:ux_wallets_user" json:"user_id"`
	Balance   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"balance"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Wallet) TableName() string { return "wallets" }

// Transaction is one immutable row of the append-only ledger. Reference
// fields link back to the business event that moved the money.
type Transaction struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"id"`
	WalletID      uint64          `gorm:"not null;index" json:"wallet_id"`
	Type          TransactionType `gorm:"size:8;not null" json:"type"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"balance_after"`
	ReferenceID   string          `gorm:"size:64;index" json:"reference_id,omitempty"`
	ReferenceType string          `gorm:"size:40;index" json:"reference_type,omitempty"`
	Description   string          `gorm:"type:text" json:"description,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string { return "wallet_transactions" }
