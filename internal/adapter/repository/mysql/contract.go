package mysql

import (
	"context"
	"time"

	domain "lendops-backend/internal/domain/contract"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContractRepository struct{ db *gorm.DB }

func NewContractRepository(db *gorm.DB) *ContractRepository { return &ContractRepository{db: db} }

func (r *ContractRepository) Create(ctx context.Context, c *domain.Contract) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ContractRepository) Save(ctx context.Context, c *domain.Contract) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ContractRepository) GetByID(ctx context.Context, id uint64) (*domain.Contract, error) {
	var out domain.Contract
	res := r.db.WithContext(ctx).First(&out, "id = ?", id)
	return &out, res.Error
}

func (r *ContractRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Contract, error) {
	var out domain.Contract
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&out, "id = ?", id)
	return &out, res.Error
}

func (r *ContractRepository) GetByNumber(ctx context.Context, number string) (*domain.Contract, error) {
	var out domain.Contract
	res := r.db.WithContext(ctx).Where("contract_number = ?", number).First(&out)
	return &out, res.Error
}

func (r *ContractRepository) LatestNumberWithPrefix(ctx context.Context, prefix string) (string, error) {
	var out domain.Contract
	res := r.db.WithContext(ctx).
		Where("contract_number LIKE ?", prefix+"%").
		Order("contract_number DESC").
		First(&out)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", res.Error
	}
	return out.ContractNumber, nil
}

func (r *ContractRepository) List(ctx context.Context, f domain.ListFilter) ([]domain.Contract, error) {
	q := r.db.WithContext(ctx).Model(&domain.Contract{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.CreatorID != nil {
		q = q.Where("creator_id = ?", *f.CreatorID)
	}
	if f.ServiceID != nil {
		q = q.Where("service_id = ?", *f.ServiceID)
	}
	if f.StageID != nil {
		q = q.Where("current_stage_id = ?", *f.StageID)
	}
	if f.Search != "" {
		if len(f.OwnerIDs) > 0 {
			q = q.Where("contract_number LIKE ? OR user_id IN ?", "%"+f.Search+"%", f.OwnerIDs)
		} else {
			q = q.Where("contract_number LIKE ?", "%"+f.Search+"%")
		}
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	var out []domain.Contract
	err := q.Order("id DESC").Find(&out).Error
	return out, err
}

func (r *ContractRepository) CountByStage(ctx context.Context, stageID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Contract{}).
		Where("current_stage_id = ?", stageID).
		Count(&n).Error
	return n, err
}

func (r *ContractRepository) CreateDocument(ctx context.Context, d *domain.Document) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *ContractRepository) SaveDocument(ctx context.Context, d *domain.Document) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *ContractRepository) ListDocuments(ctx context.Context, contractID uint64) ([]domain.Document, error) {
	var out []domain.Document
	err := r.db.WithContext(ctx).
		Preload("Files").
		Where("contract_id = ?", contractID).
		Find(&out).Error
	return out, err
}

func (r *ContractRepository) CreateFile(ctx context.Context, f *domain.File) error {
	return r.db.WithContext(ctx).Create(f).Error
}

// UpsertAnswer relies on the unique (contract_id, question_id) index: an
// insert conflict overwrites the value instead.
func (r *ContractRepository) UpsertAnswer(ctx context.Context, a *domain.Answer) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "contract_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(a).Error
}

func (r *ContractRepository) ListAnswers(ctx context.Context, contractID uint64) ([]domain.Answer, error) {
	var out []domain.Answer
	err := r.db.WithContext(ctx).Where("contract_id = ?", contractID).Find(&out).Error
	return out, err
}

func (r *ContractRepository) AppendHistory(ctx context.Context, h *domain.StageHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *ContractRepository) ListHistory(ctx context.Context, contractID uint64) ([]domain.StageHistory, error) {
	var out []domain.StageHistory
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

type revenueRow struct {
	Contracts      int64
	TotalDisbursed decimal.Decimal
	TotalRevenue   decimal.Decimal
}

func (r *ContractRepository) SumRevenueBetween(ctx context.Context, from, to time.Time) (domain.RevenueTotals, error) {
	return r.sumRevenue(ctx, r.db.WithContext(ctx).Model(&domain.Contract{}).
		Where("created_at BETWEEN ? AND ?", from, to))
}

func (r *ContractRepository) SumRevenueByCreator(ctx context.Context, creatorID uint64, from, to time.Time) (domain.RevenueTotals, error) {
	return r.sumRevenue(ctx, r.db.WithContext(ctx).Model(&domain.Contract{}).
		Where("creator_id = ? AND created_at BETWEEN ? AND ?", creatorID, from, to))
}

func (r *ContractRepository) sumRevenue(_ context.Context, q *gorm.DB) (domain.RevenueTotals, error) {
	var row revenueRow
	err := q.Select(
		"COUNT(*) AS contracts, COALESCE(SUM(disbursed_amount), 0) AS total_disbursed, COALESCE(SUM(total_revenue), 0) AS total_revenue",
	).Scan(&row).Error
	if err != nil {
		return domain.RevenueTotals{}, err
	}
	return domain.RevenueTotals{
		Contracts:      row.Contracts,
		TotalDisbursed: row.TotalDisbursed,
		TotalRevenue:   row.TotalRevenue,
	}, nil
}
