package commission

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrRecordNotFound      = errors.New("commission record not found")
	ErrSnapshotNotFound    = errors.New("commission snapshot not found")
	ErrSnapshotProcessed   = errors.New("snapshot already processed")
	ErrTierNotFound        = errors.New("kpi tier not found")
	ErrTierReferenced      = errors.New("kpi tier is referenced by a snapshot")
	ErrDuplicateSnapshot   = errors.New("snapshot already exists for period")
	ErrConfigNotFound      = errors.New("commission config not found")
	ErrConfigAlreadyActive = errors.New("active commission config already exists for role")
)

type RecordStatus string

const (
	RecordPending  RecordStatus = "PENDING"
	RecordCredited RecordStatus = "CREDITED"
)

type SnapshotStatus string

const (
	SnapshotPending   SnapshotStatus = "PENDING"
	SnapshotProcessed SnapshotStatus = "PROCESSED"
	SnapshotPaid      SnapshotStatus = "PAID"
)

// Record is one referral payout owed for one contract. At most one record
// exists per contract; that uniqueness is the idempotency guard against
// duplicate stage-transition triggers.
type Record struct {
	ID                 uint64          `gorm:"primaryKey;column:id" json:"id"`
	ContractID         uint64          `gorm:"not null;uniqueIndex:ux_commission_contract" json:"contract_id"`
	ReferrerID         uint64          `gorm:"not null;index" json:"referrer_id"`
	Amount             decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Rate               decimal.Decimal `gorm:"type:decimal(6,4);not null" json:"rate"`
	DisbursementAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"disbursement_amount"`
	RevenuePercentage  decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"revenue_percentage"`
	TotalRevenue       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_revenue"`
	Status             RecordStatus    `gorm:"size:16;not null;default:'PENDING'" json:"status"`
	CreditedAt         *time.Time      `json:"credited_at,omitempty"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Record) TableName() string { return "commission_records" }

// Snapshot is the monthly rollup of a user's credited commissions, used to
// compute and pay KPI bonuses. Unique per (user, year, month).
type Snapshot struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"id"`
	UserID            uint64          `gorm:"not null;uniqueIndex:ux_snapshots_user_period,priority:1" json:"user_id"`
	Year              int             `gorm:"not null;uniqueIndex:ux_snapshots_user_period,priority:2" json:"year"`
	Month             int             `gorm:"not null;uniqueIndex:ux_snapshots_user_period,priority:3" json:"month"`
	TotalContracts    int             `gorm:"not null" json:"total_contracts"`
	TotalDisbursement decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_disbursement"`
	BaseCommission    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"base_commission"`
	KpiTierID         *uint64         `gorm:"index" json:"kpi_tier_id,omitempty"`
	BonusCommission   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"bonus_commission"`
	TotalCommission   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_commission"`
	Status            SnapshotStatus  `gorm:"size:16;not null;default:'PENDING'" json:"status"`
	ProcessedAt       *time.Time      `json:"processed_at,omitempty"`
	ProcessedBy       *uint64         `json:"processed_by,omitempty"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Snapshot) TableName() string { return "commission_snapshots" }

// RewardKind tags how a KPI tier pays its bonus.
type RewardKind string

const (
	RewardByRate      RewardKind = "RATE"
	RewardFixedAmount RewardKind = "FIXED"
)

// Reward is the resolved bonus policy of one tier: either a fraction of the
// month's disbursement volume or a fixed amount.
type Reward struct {
	Kind   RewardKind
	Rate   decimal.Decimal // set when Kind == RewardByRate
	Amount decimal.Decimal // set when Kind == RewardFixedAmount
}

// Evaluate computes the bonus for a month's disbursement volume.
func (r Reward) Evaluate(totalDisbursement decimal.Decimal) decimal.Decimal {
	if r.Kind == RewardFixedAmount {
		return r.Amount
	}
	return totalDisbursement.Mul(r.Rate)
}

// KpiTier is a threshold-based bonus bracket for one role, scanned in
// descending tier_order (best tier first). A nil threshold is automatically
// satisfied.
type KpiTier struct {
	ID              uint64           `gorm:"primaryKey;column:id" json:"id"`
	RoleCode        string           `gorm:"size:32;not null;index" json:"role_code"`
	Name            string           `gorm:"size:120;not null" json:"name"`
	TierOrder       int              `gorm:"not null" json:"tier_order"`
	MinContracts    *int             `json:"min_contracts,omitempty"`
	MinDisbursement *decimal.Decimal `gorm:"type:decimal(18,2)" json:"min_disbursement,omitempty"`
	BonusRate       *decimal.Decimal `gorm:"type:decimal(6,4)" json:"bonus_rate,omitempty"`
	BonusAmount     *decimal.Decimal `gorm:"type:decimal(18,2)" json:"bonus_amount,omitempty"`
	IsActive        bool             `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (KpiTier) TableName() string { return "kpi_commission_tiers" }

// Qualifies reports whether the month's totals clear every threshold the
// tier defines.
func (t *KpiTier) Qualifies(totalContracts int, totalDisbursement decimal.Decimal) bool {
	if t.MinContracts != nil && totalContracts < *t.MinContracts {
		return false
	}
	if t.MinDisbursement != nil && totalDisbursement.LessThan(*t.MinDisbursement) {
		return false
	}
	return true
}

// Reward resolves the tier's bonus variant. A fixed amount takes precedence
// over a rate when both columns are populated.
func (t *KpiTier) Reward() Reward {
	if t.BonusAmount != nil {
		return Reward{Kind: RewardFixedAmount, Amount: *t.BonusAmount}
	}
	if t.BonusRate != nil {
		return Reward{Kind: RewardByRate, Rate: *t.BonusRate}
	}
	return Reward{Kind: RewardByRate, Rate: decimal.Zero}
}

// Config is the per-role referral rate. Rate is a fraction in [0,1].
type Config struct {
	ID        uint64          `gorm:"primaryKey;column:id" json:"id"`
	RoleCode  string          `gorm:"size:32;not null;index" json:"role_code"`
	Rate      decimal.Decimal `gorm:"type:decimal(6,4);not null" json:"rate"`
	IsActive  bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Config) TableName() string { return "commission_configs" }
