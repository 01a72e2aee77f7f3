package contract

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RevenueTotals is a read-only reporting aggregate over contracts.
type RevenueTotals struct {
	Contracts      int64
	TotalDisbursed decimal.Decimal
	TotalRevenue   decimal.Decimal
}

// ListFilter drives the owner / creator / admin listing views.
type ListFilter struct {
	UserID    *uint64 // contracts owned by this user
	CreatorID *uint64 // contracts created by this user for someone else
	ServiceID *uint64
	StageID   *uint64
	// Search matches against contract_number; OwnerIDs carries the user ids
	// an external directory lookup resolved for the same query, so one
	// admin search covers number, email, phone and name.
	Search   string
	OwnerIDs []uint64
	Limit    int
	Offset   int
}

type Repository interface {
	Create(ctx context.Context, c *Contract) error
	Save(ctx context.Context, c *Contract) error
	GetByID(ctx context.Context, id uint64) (*Contract, error)
	// GetByIDForUpdate locks the contract row for the enclosing transaction.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Contract, error)
	GetByNumber(ctx context.Context, number string) (*Contract, error)
	// LatestNumberWithPrefix returns the lexically greatest contract_number
	// starting with prefix, or "" when none exist.
	LatestNumberWithPrefix(ctx context.Context, prefix string) (string, error)
	List(ctx context.Context, f ListFilter) ([]Contract, error)
	// CountByStage reports how many contracts currently occupy a stage.
	CountByStage(ctx context.Context, stageID uint64) (int64, error)

	CreateDocument(ctx context.Context, d *Document) error
	SaveDocument(ctx context.Context, d *Document) error
	ListDocuments(ctx context.Context, contractID uint64) ([]Document, error)
	CreateFile(ctx context.Context, f *File) error

	// UpsertAnswer inserts or overwrites the answer keyed by (contract, question).
	UpsertAnswer(ctx context.Context, a *Answer) error
	ListAnswers(ctx context.Context, contractID uint64) ([]Answer, error)

	AppendHistory(ctx context.Context, h *StageHistory) error
	ListHistory(ctx context.Context, contractID uint64) ([]StageHistory, error)

	// SumRevenueBetween aggregates contract count, disbursed amount and
	// total revenue over contracts created in [from, to].
	SumRevenueBetween(ctx context.Context, from, to time.Time) (RevenueTotals, error)
	// SumRevenueByCreator is SumRevenueBetween restricted to one creator.
	SumRevenueByCreator(ctx context.Context, creatorID uint64, from, to time.Time) (RevenueTotals, error)
}
