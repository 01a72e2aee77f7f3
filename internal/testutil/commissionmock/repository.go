package commissionmock

import (
	"context"
	"time"

	domain "lendops-backend/internal/domain/commission"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock satisfying commission.Repository.
type Repo struct {
	CreateRecordFn                 func(ctx context.Context, r *domain.Record) error
	SaveRecordFn                   func(ctx context.Context, r *domain.Record) error
	GetRecordFn                    func(ctx context.Context, id uint64) (*domain.Record, error)
	GetRecordByContractFn          func(ctx context.Context, contractID uint64) (*domain.Record, error)
	ListRecordsByReferrerFn        func(ctx context.Context, referrerID uint64, limit, offset int) ([]domain.Record, error)
	AggregateCreditedFn            func(ctx context.Context, userID uint64, from, to time.Time) (domain.PeriodTotals, error)
	DistinctReferrersWithRecordsFn func(ctx context.Context, from, to time.Time) ([]uint64, error)
	CreateSnapshotFn               func(ctx context.Context, s *domain.Snapshot) error
	SaveSnapshotFn                 func(ctx context.Context, s *domain.Snapshot) error
	GetSnapshotFn                  func(ctx context.Context, id uint64) (*domain.Snapshot, error)
	GetSnapshotByPeriodFn          func(ctx context.Context, userID uint64, year, month int) (*domain.Snapshot, error)
	ListSnapshotsFn                func(ctx context.Context, userID uint64) ([]domain.Snapshot, error)
	CountSnapshotsByTierFn         func(ctx context.Context, tierID uint64) (int64, error)
	CreateTierFn                   func(ctx context.Context, t *domain.KpiTier) error
	SaveTierFn                     func(ctx context.Context, t *domain.KpiTier) error
	GetTierFn                      func(ctx context.Context, id uint64) (*domain.KpiTier, error)
	ListActiveTiersFn              func(ctx context.Context, roleCode string) ([]domain.KpiTier, error)
	DeleteTierFn                   func(ctx context.Context, id uint64) error
	GetActiveConfigFn              func(ctx context.Context, roleCode string) (*domain.Config, error)
	CreateConfigFn                 func(ctx context.Context, c *domain.Config) error
	SaveConfigFn                   func(ctx context.Context, c *domain.Config) error
}

func (m *Repo) CreateRecord(ctx context.Context, r *domain.Record) error {
	if m.CreateRecordFn != nil {
		return m.CreateRecordFn(ctx, r)
	}
	return nil
}

func (m *Repo) SaveRecord(ctx context.Context, r *domain.Record) error {
	if m.SaveRecordFn != nil {
		return m.SaveRecordFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetRecord(ctx context.Context, id uint64) (*domain.Record, error) {
	if m.GetRecordFn != nil {
		return m.GetRecordFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetRecordByContract(ctx context.Context, contractID uint64) (*domain.Record, error) {
	if m.GetRecordByContractFn != nil {
		return m.GetRecordByContractFn(ctx, contractID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListRecordsByReferrer(ctx context.Context, referrerID uint64, limit, offset int) ([]domain.Record, error) {
	if m.ListRecordsByReferrerFn != nil {
		return m.ListRecordsByReferrerFn(ctx, referrerID, limit, offset)
	}
	return nil, nil
}

func (m *Repo) AggregateCredited(ctx context.Context, userID uint64, from, to time.Time) (domain.PeriodTotals, error) {
	if m.AggregateCreditedFn != nil {
		return m.AggregateCreditedFn(ctx, userID, from, to)
	}
	return domain.PeriodTotals{}, nil
}

func (m *Repo) DistinctReferrersWithRecords(ctx context.Context, from, to time.Time) ([]uint64, error) {
	if m.DistinctReferrersWithRecordsFn != nil {
		return m.DistinctReferrersWithRecordsFn(ctx, from, to)
	}
	return nil, nil
}

func (m *Repo) CreateSnapshot(ctx context.Context, s *domain.Snapshot) error {
	if m.CreateSnapshotFn != nil {
		return m.CreateSnapshotFn(ctx, s)
	}
	return nil
}

func (m *Repo) SaveSnapshot(ctx context.Context, s *domain.Snapshot) error {
	if m.SaveSnapshotFn != nil {
		return m.SaveSnapshotFn(ctx, s)
	}
	return nil
}

func (m *Repo) GetSnapshot(ctx context.Context, id uint64) (*domain.Snapshot, error) {
	if m.GetSnapshotFn != nil {
		return m.GetSnapshotFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetSnapshotByPeriod(ctx context.Context, userID uint64, year, month int) (*domain.Snapshot, error) {
	if m.GetSnapshotByPeriodFn != nil {
		return m.GetSnapshotByPeriodFn(ctx, userID, year, month)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListSnapshots(ctx context.Context, userID uint64) ([]domain.Snapshot, error) {
	if m.ListSnapshotsFn != nil {
		return m.ListSnapshotsFn(ctx, userID)
	}
	return nil, nil
}

func (m *Repo) CountSnapshotsByTier(ctx context.Context, tierID uint64) (int64, error) {
	if m.CountSnapshotsByTierFn != nil {
		return m.CountSnapshotsByTierFn(ctx, tierID)
	}
	return 0, nil
}

func (m *Repo) CreateTier(ctx context.Context, t *domain.KpiTier) error {
	if m.CreateTierFn != nil {
		return m.CreateTierFn(ctx, t)
	}
	return nil
}

func (m *Repo) SaveTier(ctx context.Context, t *domain.KpiTier) error {
	if m.SaveTierFn != nil {
		return m.SaveTierFn(ctx, t)
	}
	return nil
}

func (m *Repo) GetTier(ctx context.Context, id uint64) (*domain.KpiTier, error) {
	if m.GetTierFn != nil {
		return m.GetTierFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListActiveTiers(ctx context.Context, roleCode string) ([]domain.KpiTier, error) {
	if m.ListActiveTiersFn != nil {
		return m.ListActiveTiersFn(ctx, roleCode)
	}
	return nil, nil
}

func (m *Repo) DeleteTier(ctx context.Context, id uint64) error {
	if m.DeleteTierFn != nil {
		return m.DeleteTierFn(ctx, id)
	}
	return nil
}

func (m *Repo) GetActiveConfig(ctx context.Context, roleCode string) (*domain.Config, error) {
	if m.GetActiveConfigFn != nil {
		return m.GetActiveConfigFn(ctx, roleCode)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) CreateConfig(ctx context.Context, c *domain.Config) error {
	if m.CreateConfigFn != nil {
		return m.CreateConfigFn(ctx, c)
	}
	return nil
}

func (m *Repo) SaveConfig(ctx context.Context, c *domain.Config) error {
	if m.SaveConfigFn != nil {
		return m.SaveConfigFn(ctx, c)
	}
	return nil
}
