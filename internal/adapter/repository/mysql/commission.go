package mysql

import (
	"context"
	"time"

	domain "lendops-backend/internal/domain/commission"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CommissionRepository struct{ db *gorm.DB }

func NewCommissionRepository(db *gorm.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

func (r *CommissionRepository) CreateRecord(ctx context.Context, rec *domain.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *CommissionRepository) SaveRecord(ctx context.Context, rec *domain.Record) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *CommissionRepository) GetRecord(ctx context.Context, id uint64) (*domain.Record, error) {
	var out domain.Record
	res := r.db.WithContext(ctx).First(&out, "id = ?", id)
	return &out, res.Error
}

func (r *CommissionRepository) GetRecordByContract(ctx context.Context, contractID uint64) (*domain.Record, error) {
	var out domain.Record
	res := r.db.WithContext(ctx).Where("contract_id = ?", contractID).First(&out)
	return &out, res.Error
}

func (r *CommissionRepository) ListRecordsByReferrer(ctx context.Context, referrerID uint64, limit, offset int) ([]domain.Record, error) {
	q := r.db.WithContext(ctx).Where("referrer_id = ?", referrerID).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	var out []domain.Record
	err := q.Find(&out).Error
	return out, err
}

type creditedRow struct {
	Contracts         int
	TotalDisbursement decimal.Decimal
	BaseCommission    decimal.Decimal
}

func (r *CommissionRepository) AggregateCredited(ctx context.Context, userID uint64, from, to time.Time) (domain.PeriodTotals, error) {
	var row creditedRow
	err := r.db.WithContext(ctx).Model(&domain.Record{}).
		Where("referrer_id = ? AND status = ? AND credited_at >= ? AND credited_at < ?", userID, domain.RecordCredited, from, to).
		Select("COUNT(*) AS contracts, COALESCE(SUM(disbursement_amount), 0) AS total_disbursement, COALESCE(SUM(amount), 0) AS base_commission").
		Scan(&row).Error
	if err != nil {
		return domain.PeriodTotals{}, err
	}
	return domain.PeriodTotals{
		Contracts:         row.Contracts,
		TotalDisbursement: row.TotalDisbursement,
		BaseCommission:    row.BaseCommission,
	}, nil
}

func (r *CommissionRepository) DistinctReferrersWithRecords(ctx context.Context, from, to time.Time) ([]uint64, error) {
	// credited_at, not created_at: the snapshot aggregation counts by
	// crediting time, and the sweep must select by the same clock
	var out []uint64
	err := r.db.WithContext(ctx).Model(&domain.Record{}).
		Where("status = ? AND credited_at >= ? AND credited_at < ?", domain.RecordCredited, from, to).
		Distinct().
		Pluck("referrer_id", &out).Error
	return out, err
}

func (r *CommissionRepository) CreateSnapshot(ctx context.Context, s *domain.Snapshot) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *CommissionRepository) SaveSnapshot(ctx context.Context, s *domain.Snapshot) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *CommissionRepository) GetSnapshot(ctx context.Context, id uint64) (*domain.Snapshot, error) {
	var out domain.Snapshot
	res := r.db.WithContext(ctx).First(&out, "id = ?", id)
	return &out, res.Error
}

func (r *CommissionRepository) GetSnapshotByPeriod(ctx context.Context, userID uint64, year, month int) (*domain.Snapshot, error) {
	var out domain.Snapshot
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		First(&out)
	return &out, res.Error
}

func (r *CommissionRepository) ListSnapshots(ctx context.Context, userID uint64) ([]domain.Snapshot, error) {
	var out []domain.Snapshot
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("year DESC, month DESC").
		Find(&out).Error
	return out, err
}

func (r *CommissionRepository) CountSnapshotsByTier(ctx context.Context, tierID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Snapshot{}).
		Where("kpi_tier_id = ?", tierID).
		Count(&n).Error
	return n, err
}

func (r *CommissionRepository) CreateTier(ctx context.Context, t *domain.KpiTier) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *CommissionRepository) SaveTier(ctx context.Context, t *domain.KpiTier) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *CommissionRepository) GetTier(ctx context.Context, id uint64) (*domain.KpiTier, error) {
	var out domain.KpiTier
	res := r.db.WithContext(ctx).First(&out, "id = ?", id)
	return &out, res.Error
}

func (r *CommissionRepository) ListActiveTiers(ctx context.Context, roleCode string) ([]domain.KpiTier, error) {
	var out []domain.KpiTier
	err := r.db.WithContext(ctx).
		Where("role_code = ? AND is_active = ?", roleCode, true).
		Order("tier_order DESC").
		Find(&out).Error
	return out, err
}

func (r *CommissionRepository) DeleteTier(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.KpiTier{}, "id = ?", id).Error
}

func (r *CommissionRepository) GetActiveConfig(ctx context.Context, roleCode string) (*domain.Config, error) {
	var out domain.Config
	res := r.db.WithContext(ctx).
		Where("role_code = ? AND is_active = ?", roleCode, true).
		First(&out)
	return &out, res.Error
}

func (r *CommissionRepository) CreateConfig(ctx context.Context, c *domain.Config) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CommissionRepository) SaveConfig(ctx context.Context, c *domain.Config) error {
	return r.db.WithContext(ctx).Save(c).Error
}
