package http

import (
	"net/http"

	"lendops-backend/internal/usecase/workflow"

	"github.com/labstack/echo/v4"
)

type WorkflowHandler struct{ uc *workflow.Usecase }

func NewWorkflowHandler(uc *workflow.Usecase) *WorkflowHandler { return &WorkflowHandler{uc: uc} }

type stageReq struct {
	Code               string `json:"code"        validate:"required,stagecode"`
	Name               string `json:"name"        validate:"required"`
	StageOrder         int    `json:"stage_order" validate:"gte=0"`
	Color              string `json:"color"`
	IsRequired         bool   `json:"is_required"`
	TriggersCommission bool   `json:"triggers_commission"`
}

type transitionDefReq struct {
	FromCode           string `json:"from_code" validate:"required,stagecode"`
	ToCode             string `json:"to_code"   validate:"required,stagecode"`
	RequiredPermission string `json:"required_permission"`
}

type createWorkflowReq struct {
	Name        string             `json:"name" validate:"required"`
	Stages      []stageReq         `json:"stages" validate:"omitempty,dive"`
	Transitions []transitionDefReq `json:"transitions" validate:"omitempty,dive"`
}

// Create publishes a new workflow version. Republishing an existing name
// bumps the version and deactivates the predecessor.
func (h *WorkflowHandler) Create(c echo.Context) error {
	var req createWorkflowReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	in := workflow.CreateWorkflowInput{Name: req.Name}
	for _, s := range req.Stages {
		in.Stages = append(in.Stages, workflow.StageInput{
			Code:               s.Code,
			Name:               s.Name,
			StageOrder:         s.StageOrder,
			Color:              s.Color,
			IsRequired:         s.IsRequired,
			TriggersCommission: s.TriggersCommission,
		})
	}
	for _, t := range req.Transitions {
		in.Transitions = append(in.Transitions, workflow.TransitionInput{
			FromCode:           t.FromCode,
			ToCode:             t.ToCode,
			RequiredPermission: t.RequiredPermission,
		})
	}

	dto, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *WorkflowHandler) List(c echo.Context) error {
	dtos, err := h.uc.List(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *WorkflowHandler) Get(c echo.Context) error {
	id, err := pathID(c, "workflow_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	dto, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// AvailableTransitions lists the outgoing edges of a stage, target stage
// included, so clients can render next-step choices.
func (h *WorkflowHandler) AvailableTransitions(c echo.Context) error {
	workflowID, err := pathID(c, "workflow_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	stageID, err := pathID(c, "stage_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	dtos, err := h.uc.AvailableTransitions(c.Request().Context(), workflowID, stageID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *WorkflowHandler) CreateStage(c echo.Context) error {
	workflowID, err := pathID(c, "workflow_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req stageReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.uc.CreateStage(c.Request().Context(), workflowID, workflow.StageInput{
		Code:               req.Code,
		Name:               req.Name,
		StageOrder:         req.StageOrder,
		Color:              req.Color,
		IsRequired:         req.IsRequired,
		TriggersCommission: req.TriggersCommission,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *WorkflowHandler) DeleteStage(c echo.Context) error {
	stageID, err := pathID(c, "stage_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.uc.DeleteStage(c.Request().Context(), stageID); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type createTransitionReq struct {
	FromStageID        uint64 `json:"from_stage_id" validate:"required"`
	ToStageID          uint64 `json:"to_stage_id"   validate:"required"`
	RequiredPermission string `json:"required_permission"`
}

func (h *WorkflowHandler) CreateTransition(c echo.Context) error {
	workflowID, err := pathID(c, "workflow_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req createTransitionReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.uc.CreateTransition(c.Request().Context(), workflowID,
		workflow.TransitionInput{RequiredPermission: req.RequiredPermission},
		req.FromStageID, req.ToStageID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *WorkflowHandler) DeleteTransition(c echo.Context) error {
	id, err := pathID(c, "transition_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.uc.DeleteTransition(c.Request().Context(), id); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
