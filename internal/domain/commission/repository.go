package commission

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodTotals aggregates a user's CREDITED records inside one time window.
type PeriodTotals struct {
	Contracts         int
	TotalDisbursement decimal.Decimal
	BaseCommission    decimal.Decimal
}

type Repository interface {
	CreateRecord(ctx context.Context, r *Record) error
	SaveRecord(ctx context.Context, r *Record) error
	GetRecord(ctx context.Context, id uint64) (*Record, error)
	GetRecordByContract(ctx context.Context, contractID uint64) (*Record, error)
	ListRecordsByReferrer(ctx context.Context, referrerID uint64, limit, offset int) ([]Record, error)
	// AggregateCredited sums a user's CREDITED records within [from, to).
	AggregateCredited(ctx context.Context, userID uint64, from, to time.Time) (PeriodTotals, error)
	// DistinctReferrersWithRecords lists user ids holding records credited in
	// [from, to), the same window AggregateCredited sums over.
	DistinctReferrersWithRecords(ctx context.Context, from, to time.Time) ([]uint64, error)

	CreateSnapshot(ctx context.Context, s *Snapshot) error
	SaveSnapshot(ctx context.Context, s *Snapshot) error
	GetSnapshot(ctx context.Context, id uint64) (*Snapshot, error)
	GetSnapshotByPeriod(ctx context.Context, userID uint64, year, month int) (*Snapshot, error)
	ListSnapshots(ctx context.Context, userID uint64) ([]Snapshot, error)
	// CountSnapshotsByTier reports how many snapshots reference a tier.
	CountSnapshotsByTier(ctx context.Context, tierID uint64) (int64, error)

	CreateTier(ctx context.Context, t *KpiTier) error
	SaveTier(ctx context.Context, t *KpiTier) error
	GetTier(ctx context.Context, id uint64) (*KpiTier, error)
	// ListActiveTiers returns a role's active tiers ordered by tier_order descending.
	ListActiveTiers(ctx context.Context, roleCode string) ([]KpiTier, error)
	DeleteTier(ctx context.Context, id uint64) error

	// GetActiveConfig returns the active commission config for a role.
	GetActiveConfig(ctx context.Context, roleCode string) (*Config, error)
	CreateConfig(ctx context.Context, c *Config) error
	SaveConfig(ctx context.Context, c *Config) error
}
