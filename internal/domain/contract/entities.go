package contract

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound            = errors.New("contract not found")
	ErrNotOwner            = errors.New("caller is neither owner nor creator of contract")
	ErrAlreadySubmitted    = errors.New("contract already submitted")
	ErrAmountOutOfRange    = errors.New("requested amount outside service loan bounds")
	ErrInvalidDisbursement = errors.New("disbursement amount must be positive")
	ErrInvalidRevenuePct   = errors.New("revenue percentage must be in (0, 100]")
	ErrDisbursementLocked  = errors.New("disbursed amount can no longer be changed")
)

// ContractNumberPrefix is the fixed prefix of generated contract numbers:
// HD-{4-digit year}-{6-digit zero-padded sequence}, sequence resets per year.
const ContractNumberPrefix = "HD"

type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "PENDING"
	DocumentApproved DocumentStatus = "APPROVED"
	DocumentRejected DocumentStatus = "REJECTED"
)

// Contract is one loan application. CurrentStageID is the state-machine
// cursor into the service workflow's stages.
type Contract struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"id"`
	ContractNumber    string          `gorm:"size:20;uniqueIndex:ux_contracts_number" json:"contract_number"`
	UserID            uint64          `gorm:"not null;index" json:"user_id"`
	CreatorID         *uint64         `gorm:"index" json:"creator_id,omitempty"`
	ServiceID         uint64          `gorm:"not null;index" json:"service_id"`
	CurrentStageID    uint64          `gorm:"not null;index" json:"current_stage_id"`
	RequestedAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"requested_amount"`
	DisbursedAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"disbursed_amount"`
	RevenuePercentage decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0" json:"revenue_percentage"`
	TotalRevenue      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_revenue"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Documents []Document     `gorm:"foreignKey:ContractID" json:"documents,omitempty"`
	Answers   []Answer       `gorm:"foreignKey:ContractID" json:"answers,omitempty"`
	History   []StageHistory `gorm:"foreignKey:ContractID" json:"history,omitempty"`
}

func (Contract) TableName() string { return "contracts" }

// CanBeMutatedBy reports whether the actor owns the contract or created it
// on the owner's behalf.
func (c *Contract) CanBeMutatedBy(actorID uint64) bool {
	if c.UserID == actorID {
		return true
	}
	return c.CreatorID != nil && *c.CreatorID == actorID
}

// Document is one slot per service document requirement, holding the
// uploaded files and an admin review status.
type Document struct {
	ID            uint64         `gorm:"primaryKey;column:id" json:"id"`
	ContractID    uint64         `gorm:"not null;index;uniqueIndex:ux_contract_requirement,priority:1" json:"contract_id"`
	RequirementID uint64         `gorm:"not null;uniqueIndex:ux_contract_requirement,priority:2" json:"requirement_id"`
	Status        DocumentStatus `gorm:"size:16;not null;default:'PENDING'" json:"status"`
	ReviewNote    string         `gorm:"type:text" json:"review_note,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Files []File `gorm:"foreignKey:DocumentID" json:"files,omitempty"`
}

func (Document) TableName() string { return "contract_documents" }

// File holds only the metadata of an uploaded file; bytes live in external
// storage and are referenced by URL.
type File struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"id"`
	DocumentID uint64    `gorm:"not null;index" json:"document_id"`
	URL        string    `gorm:"type:text;not null" json:"url"`
	FileName   string    `gorm:"size:255;not null" json:"file_name"`
	FileSize   int64     `gorm:"not null" json:"file_size"`
	MimeType   string    `gorm:"size:120" json:"mime_type"`
	UploadedBy uint64    `gorm:"not null" json:"uploaded_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (File) TableName() string { return "contract_files" }

// Answer is the contract's answer to one service question. Upsertable:
// last write wins, no edit history.
type Answer struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"id"`
	ContractID uint64    `gorm:"not null;index;uniqueIndex:ux_contract_question,priority:1" json:"contract_id"`
	QuestionID uint64    `gorm:"not null;uniqueIndex:ux_contract_question,priority:2" json:"question_id"`
	Value      string    `gorm:"type:text" json:"value"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Answer) TableName() string { return "contract_answers" }

// StageHistory is the append-only audit trail of the state machine's path.
// Rows are never mutated or deleted. FromStageID is nil on the creation row.
type StageHistory struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"id"`
	ContractID  uint64    `gorm:"not null;index" json:"contract_id"`
	FromStageID *uint64   `json:"from_stage_id,omitempty"`
	ToStageID   uint64    `gorm:"not null" json:"to_stage_id"`
	ChangedBy   uint64    `gorm:"not null" json:"changed_by"`
	Note        string    `gorm:"type:text" json:"note,omitempty"`
	Metadata    string    `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (StageHistory) TableName() string { return "contract_stage_history" }
