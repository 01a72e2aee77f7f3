package service

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("service not found")
	ErrInactive = errors.New("service is not active")
)

// Service is a loan product. It references the active workflow its contracts
// move through and bounds the amounts borrowers may request.
type Service struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"id"`
	Name              string          `gorm:"size:160;not null" json:"name"`
	Description       string          `gorm:"type:text" json:"description"`
	WorkflowID        uint64          `gorm:"not null;index" json:"workflow_id"`
	MinLoanAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"min_loan_amount"`
	MaxLoanAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"max_loan_amount"`
	CommissionEnabled bool            `gorm:"not null;default:false" json:"commission_enabled"`
	IsActive          bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	DocumentRequirements []DocumentRequirement `gorm:"foreignKey:ServiceID" json:"document_requirements,omitempty"`
	Questions            []Question            `gorm:"foreignKey:ServiceID" json:"questions,omitempty"`
}

func (Service) TableName() string { return "services" }

// DocumentConfig is the typed form of document_requirements.config. The raw
// column is JSON; consumers parse it once at the boundary instead of passing
// untyped maps around.
type DocumentConfig struct {
	MinFiles     int      `json:"min_files"`
	MaxFiles     int      `json:"max_files"`
	AllowedTypes []string `json:"allowed_types,omitempty"`
	MaxSizeBytes int64    `json:"max_size_bytes,omitempty"`
}

type DocumentRequirement struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"id"`
	ServiceID  uint64    `gorm:"not null;index" json:"service_id"`
	Name       string    `gorm:"size:160;not null" json:"name"`
	IsRequired bool      `gorm:"not null;default:true" json:"is_required"`
	SortOrder  int       `gorm:"not null;default:0" json:"sort_order"`
	Config     string    `gorm:"type:json" json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DocumentRequirement) TableName() string { return "document_requirements" }

// ParseConfig decodes the JSON config column. An empty column yields the
// zero config (no file-count or size limits).
func (d *DocumentRequirement) ParseConfig() (DocumentConfig, error) {
	var cfg DocumentConfig
	if d.Config == "" {
		return cfg, nil
	}
	if err := json.Unmarshal([]byte(d.Config), &cfg); err != nil {
		return DocumentConfig{}, err
	}
	return cfg, nil
}

type Question struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"id"`
	ServiceID  uint64    `gorm:"not null;index" json:"service_id"`
	Label      string    `gorm:"size:240;not null" json:"label"`
	FieldType  string    `gorm:"size:32;not null;default:'text'" json:"field_type"`
	IsRequired bool      `gorm:"not null;default:false" json:"is_required"`
	SortOrder  int       `gorm:"not null;default:0" json:"sort_order"`
	Config     string    `gorm:"type:json" json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Question) TableName() string { return "questions" }
