package contract

import (
	"time"

	"lendops-backend/internal/domain/storage"

	"github.com/shopspring/decimal"
)

type AnswerInput struct {
	QuestionID uint64 `json:"question_id"`
	Value      string `json:"value"`
}

type CreateContractInput struct {
	// UserID is the beneficiary. Zero means the actor applies for themselves;
	// a different user makes this an agent-on-behalf creation and records
	// the actor as creator.
	UserID          uint64          `json:"user_id,omitempty"`
	ServiceID       uint64          `json:"service_id"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	Answers         []AnswerInput   `json:"answers,omitempty"`
}

// FileUpload pairs an incoming file with the document requirement it fills.
type FileUpload struct {
	RequirementID uint64
	Upload        storage.Upload
}

type SubmitInput struct {
	Answers []AnswerInput
	Files   []FileUpload
}

type TransitionInput struct {
	ToStageID          uint64           `json:"to_stage_id"`
	Note               string           `json:"note,omitempty"`
	DisbursementAmount *decimal.Decimal `json:"disbursement_amount,omitempty"`
	RevenuePercentage  *decimal.Decimal `json:"revenue_percentage,omitempty"`
}

// ListInput drives the three listing views: owner, creator and admin search.
type ListInput struct {
	OwnerID   *uint64
	CreatorID *uint64
	ServiceID *uint64
	StageID   *uint64
	Search    string
	Limit     int
	Offset    int
}

type StageRef struct {
	ID   uint64 `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type ContractDTO struct {
	ID                uint64          `json:"id"`
	ContractNumber    string          `json:"contract_number"`
	UserID            uint64          `json:"user_id"`
	CreatorID         *uint64         `json:"creator_id,omitempty"`
	ServiceID         uint64          `json:"service_id"`
	CurrentStage      StageRef        `json:"current_stage"`
	RequestedAmount   decimal.Decimal `json:"requested_amount"`
	DisbursedAmount   decimal.Decimal `json:"disbursed_amount"`
	RevenuePercentage decimal.Decimal `json:"revenue_percentage"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	CreatedAt         time.Time       `json:"created_at"`
}

type HistoryDTO struct {
	FromStage *StageRef `json:"from_stage,omitempty"`
	ToStage   StageRef  `json:"to_stage"`
	ChangedBy uint64    `json:"changed_by"`
	Note      string    `json:"note,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}
