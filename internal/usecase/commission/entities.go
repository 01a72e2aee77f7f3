package commission

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet transaction reference types written by this engine.
const (
	RefTypeCommission = "commission"
	RefTypeKpiBonus   = "kpi_bonus"
)

type RecordDTO struct {
	ID                 uint64          `json:"id"`
	ContractID         uint64          `json:"contract_id"`
	ReferrerID         uint64          `json:"referrer_id"`
	Amount             decimal.Decimal `json:"amount"`
	Rate               decimal.Decimal `json:"rate"`
	DisbursementAmount decimal.Decimal `json:"disbursement_amount"`
	RevenuePercentage  decimal.Decimal `json:"revenue_percentage"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	Status             string          `json:"status"`
	CreditedAt         *time.Time      `json:"credited_at,omitempty"`
}

type SnapshotDTO struct {
	ID                uint64          `json:"id"`
	UserID            uint64          `json:"user_id"`
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	TotalContracts    int             `json:"total_contracts"`
	TotalDisbursement decimal.Decimal `json:"total_disbursement"`
	BaseCommission    decimal.Decimal `json:"base_commission"`
	KpiTierID         *uint64         `json:"kpi_tier_id,omitempty"`
	BonusCommission   decimal.Decimal `json:"bonus_commission"`
	TotalCommission   decimal.Decimal `json:"total_commission"`
	Status            string          `json:"status"`
	ProcessedAt       *time.Time      `json:"processed_at,omitempty"`
}

// TierEvaluation is the outcome of a KPI tier scan: the qualifying tier and
// its evaluated bonus. CalculateKpiTier returns nil when no tier qualifies.
type TierEvaluation struct {
	TierID uint64          `json:"tier_id"`
	Name   string          `json:"name"`
	Bonus  decimal.Decimal `json:"bonus"`
}

// RevenueStatsInput selects a reporting window: either an explicit period
// bucket around At, or a creator-restricted view.
type RevenueStatsInput struct {
	Period    string    `json:"period"` // day, week, month, year
	At        time.Time `json:"at"`
	CreatorID *uint64   `json:"creator_id,omitempty"`
}

type RevenueStatsDTO struct {
	PeriodStart    time.Time       `json:"period_start"`
	PeriodEnd      time.Time       `json:"period_end"`
	Contracts      int64           `json:"contracts"`
	TotalDisbursed decimal.Decimal `json:"total_disbursed"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
}
