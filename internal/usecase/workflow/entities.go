package workflow

type StageInput struct {
	Code               string `json:"code"`
	Name               string `json:"name"`
	StageOrder         int    `json:"stage_order"`
	Color              string `json:"color"`
	IsRequired         bool   `json:"is_required"`
	TriggersCommission bool   `json:"triggers_commission"`
}

type TransitionInput struct {
	FromCode           string `json:"from_code"`
	ToCode             string `json:"to_code"`
	RequiredPermission string `json:"required_permission,omitempty"`
}

type CreateWorkflowInput struct {
	Name        string            `json:"name"`
	Stages      []StageInput      `json:"stages,omitempty"`
	Transitions []TransitionInput `json:"transitions,omitempty"`
}

type StageDTO struct {
	ID                 uint64 `json:"id"`
	Code               string `json:"code"`
	Name               string `json:"name"`
	StageOrder         int    `json:"stage_order"`
	Color              string `json:"color,omitempty"`
	IsRequired         bool   `json:"is_required"`
	TriggersCommission bool   `json:"triggers_commission"`
}

type TransitionDTO struct {
	ID                 uint64    `json:"id"`
	FromStageID        uint64    `json:"from_stage_id"`
	ToStageID          uint64    `json:"to_stage_id"`
	RequiredPermission string    `json:"required_permission,omitempty"`
	ToStage            *StageDTO `json:"to_stage,omitempty"`
}

type WorkflowDTO struct {
	ID       uint64     `json:"id"`
	Name     string     `json:"name"`
	Version  int        `json:"version"`
	IsActive bool       `json:"is_active"`
	Stages   []StageDTO `json:"stages,omitempty"`
}

// Decision is the outcome of a transition check. Reason is set exactly when
// Allowed is false and names what blocked the move.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}
