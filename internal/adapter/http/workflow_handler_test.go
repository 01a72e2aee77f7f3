package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"lendops-backend/internal/domain/uow"
	domain "lendops-backend/internal/domain/workflow"
	"lendops-backend/internal/testutil/contractmock"
	"lendops-backend/internal/testutil/identitymock"
	"lendops-backend/internal/testutil/uowmock"
	"lendops-backend/internal/testutil/workflowmock"
	uc "lendops-backend/internal/usecase/workflow"

	"github.com/labstack/echo/v4"
)

func newWorkflowHandler(wfRepo *workflowmock.Repo, ctRepo *contractmock.Repo) *WorkflowHandler {
	if ctRepo == nil {
		ctRepo = &contractmock.Repo{}
	}
	tx := uowmock.Passthrough(uow.Repos{Workflows: wfRepo, Contracts: ctRepo})
	return NewWorkflowHandler(uc.NewUsecase(wfRepo, ctRepo, &identitymock.RBAC{}, tx))
}

func TestWorkflowHandler_Create_Success(t *testing.T) {
	e := newEchoWithValidator()
	var nextStageID uint64
	wfRepo := &workflowmock.Repo{
		MaxVersionFn: func(ctx context.Context, name string) (int, error) { return 0, nil },
		CreateFn: func(ctx context.Context, w *domain.Workflow) error {
			w.ID = 10
			return nil
		},
		CreateStageFn: func(ctx context.Context, s *domain.Stage) error {
			nextStageID++
			s.ID = nextStageID
			return nil
		},
	}
	h := newWorkflowHandler(wfRepo, nil)

	body := mustJSON(map[string]any{
		"name": "lending",
		"stages": []map[string]any{
			{"code": "DRAFT", "name": "Draft", "stage_order": 1},
			{"code": "SUBMITTED", "name": "Submitted", "stage_order": 2},
			{"code": "COMPLETED", "name": "Completed", "stage_order": 3, "triggers_commission": true},
		},
		"transitions": []map[string]any{
			{"from_code": "DRAFT", "to_code": "SUBMITTED"},
			{"from_code": "SUBMITTED", "to_code": "COMPLETED", "required_permission": "contract.approve"},
		},
	})
	c, rec := postJSON(e, "/workflows", body, "")

	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
	}
	var got uc.WorkflowDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.ID != 10 || got.Version != 1 || !got.IsActive || len(got.Stages) != 3 {
		t.Fatalf("unexpected dto: %+v", got)
	}
}

func TestWorkflowHandler_Create_InvalidStageCode(t *testing.T) {
	e := newEchoWithValidator()
	h := newWorkflowHandler(&workflowmock.Repo{}, nil)

	body := mustJSON(map[string]any{
		"name": "lending",
		"stages": []map[string]any{
			{"code": "draft stage", "name": "Draft", "stage_order": 1},
		},
	})
	c, rec := postJSON(e, "/workflows", body, "")

	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body: %s", rec.Code, rec.Body.String())
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !containsFieldMsg(resp.Details, "Code", "uppercase stage code") {
		t.Fatalf("missing stage code detail: %+v", resp.Details)
	}
}

func TestWorkflowHandler_DeleteStage_Occupied(t *testing.T) {
	e := newEchoWithValidator()
	wfRepo := &workflowmock.Repo{
		GetStageFn: func(ctx context.Context, id uint64) (*domain.Stage, error) {
			return &domain.Stage{ID: id, WorkflowID: 5, Code: "DRAFT"}, nil
		},
	}
	ctRepo := &contractmock.Repo{
		CountByStageFn: func(ctx context.Context, stageID uint64) (int64, error) { return 3, nil },
	}
	h := newWorkflowHandler(wfRepo, ctRepo)

	req := httptest.NewRequest(stdhttp.MethodDelete, "/workflows/stages/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/workflows/stages/:stage_id")
	c.SetParamNames("stage_id")
	c.SetParamValues("1")

	if err := h.DeleteStage(c); err != nil {
		t.Fatalf("DeleteStage error: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409, body: %s", rec.Code, rec.Body.String())
	}
}

func TestWorkflowHandler_CreateTransition_Duplicate(t *testing.T) {
	e := newEchoWithValidator()
	wfRepo := &workflowmock.Repo{
		GetStageFn: func(ctx context.Context, id uint64) (*domain.Stage, error) {
			return &domain.Stage{ID: id, WorkflowID: 5}, nil
		},
		GetTransitionFn: func(ctx context.Context, workflowID, fromStageID, toStageID uint64) (*domain.Transition, error) {
			return &domain.Transition{ID: 1, WorkflowID: workflowID, FromStageID: fromStageID, ToStageID: toStageID}, nil
		},
	}
	h := newWorkflowHandler(wfRepo, nil)

	req := httptest.NewRequest(stdhttp.MethodPost, "/workflows/5/transitions",
		mustJSON(map[string]any{"from_stage_id": 1, "to_stage_id": 2}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/workflows/:workflow_id/transitions")
	c.SetParamNames("workflow_id")
	c.SetParamValues("5")

	if err := h.CreateTransition(c); err != nil {
		t.Fatalf("CreateTransition error: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409, body: %s", rec.Code, rec.Body.String())
	}
}
