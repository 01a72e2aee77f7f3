package workflow

import (
	"errors"
	"time"
)

var (
	ErrNotFound            = errors.New("workflow not found")
	ErrStageNotFound       = errors.New("stage not found")
	ErrDuplicateStageCode  = errors.New("stage code already exists in workflow")
	ErrDuplicateTransition = errors.New("transition already exists for stage pair")
	ErrStageOccupied       = errors.New("stage has contracts parked on it")
	ErrTransitionForbidden = errors.New("transition forbidden")
)

// Stage codes every workflow must define when a stage list is supplied at
// creation time. Checked case-insensitively.
var RequiredStageCodes = []string{"DRAFT", "SUBMITTED", "COMPLETED"}

const (
	StageCodeDraft     = "DRAFT"
	StageCodeSubmitted = "SUBMITTED"
	StageCodeCompleted = "COMPLETED"
)

// Workflow is a named, versioned stage graph. Only one version per name is
// active at a time; creating a new version deactivates the prior ones.
type Workflow struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"size:120;index:idx_workflows_name" json:"name"`
	Version   int       `gorm:"not null" json:"version"`
	IsActive  bool      `gorm:"not null;default:false" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Stages      []Stage      `gorm:"foreignKey:WorkflowID" json:"stages,omitempty"`
	Transitions []Transition `gorm:"foreignKey:WorkflowID" json:"transitions,omitempty"`
}

func (Workflow) TableName() string { return "workflows" }

// Stage is one node of a workflow's state machine. A contract occupies
// exactly one stage at a time, via contract.CurrentStageID.
type Stage struct {
	ID                 uint64    `gorm:"primaryKey;column:id" json:"id"`
	WorkflowID         uint64    `gorm:"not null;index;uniqueIndex:ux_stages_workflow_code,priority:1" json:"workflow_id"`
	Code               string    `gorm:"size:60;not null;uniqueIndex:ux_stages_workflow_code,priority:2" json:"code"`
	Name               string    `gorm:"size:120;not null" json:"name"`
	StageOrder         int       `gorm:"not null" json:"stage_order"`
	Color              string    `gorm:"size:16" json:"color"`
	IsRequired         bool      `gorm:"not null;default:false" json:"is_required"`
	TriggersCommission bool      `gorm:"not null;default:false" json:"triggers_commission"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Stage) TableName() string { return "workflow_stages" }

// Transition is a directed edge between two stages of one workflow,
// optionally gated by a permission code.
type Transition struct {
	ID                 uint64    `gorm:"primaryKey;column:id" json:"id"`
	WorkflowID         uint64    `gorm:"not null;index;uniqueIndex:ux_transitions_edge,priority:1" json:"workflow_id"`
	FromStageID        uint64    `gorm:"not null;uniqueIndex:ux_transitions_edge,priority:2" json:"from_stage_id"`
	ToStageID          uint64    `gorm:"not null;uniqueIndex:ux_transitions_edge,priority:3" json:"to_stage_id"`
	RequiredPermission string    `gorm:"size:120" json:"required_permission,omitempty"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`

	ToStage *Stage `gorm:"foreignKey:ToStageID" json:"to_stage,omitempty"`
}

func (Transition) TableName() string { return "workflow_transitions" }
