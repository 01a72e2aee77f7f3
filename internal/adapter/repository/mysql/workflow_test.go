package mysql

import (
	"context"
	"testing"

	domain "lendops-backend/internal/domain/workflow"

	"gorm.io/gorm"
)

func seedWorkflow(t *testing.T, db *gorm.DB, name string, version int, active bool) *domain.Workflow {
	t.Helper()
	w := &domain.Workflow{Name: name, Version: version, IsActive: active}
	if err := db.Create(w).Error; err != nil {
		t.Fatalf("seed workflow: %v", err)
	}
	return w
}

func seedStage(t *testing.T, db *gorm.DB, workflowID uint64, code string, order int) *domain.Stage {
	t.Helper()
	s := &domain.Stage{WorkflowID: workflowID, Code: code, Name: code, StageOrder: order}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("seed stage %s: %v", code, err)
	}
	return s
}

func TestWorkflowRepository_Versioning(t *testing.T) {
	db := openTestDB(t)
	repo := NewWorkflowRepository(db)
	ctx := context.Background()

	seedWorkflow(t, db, "consumer-loan", 1, false)
	seedWorkflow(t, db, "consumer-loan", 2, true)
	seedWorkflow(t, db, "sme-loan", 1, true)

	max, err := repo.MaxVersion(ctx, "consumer-loan")
	if err != nil {
		t.Fatalf("MaxVersion: %v", err)
	}
	if max != 2 {
		t.Fatalf("max version %d, want 2", max)
	}

	max, err = repo.MaxVersion(ctx, "unknown")
	if err != nil {
		t.Fatalf("MaxVersion unknown: %v", err)
	}
	if max != 0 {
		t.Fatalf("max version %d, want 0 for unknown name", max)
	}

	active, err := repo.GetActiveByName(ctx, "consumer-loan")
	if err != nil {
		t.Fatalf("GetActiveByName: %v", err)
	}
	if active.Version != 2 {
		t.Fatalf("active version %d, want 2", active.Version)
	}

	if err := repo.DeactivateByName(ctx, "consumer-loan"); err != nil {
		t.Fatalf("DeactivateByName: %v", err)
	}
	if _, err := repo.GetActiveByName(ctx, "consumer-loan"); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected no active workflow, got %v", err)
	}
	// other names untouched
	if _, err := repo.GetActiveByName(ctx, "sme-loan"); err != nil {
		t.Fatalf("sme-loan should stay active: %v", err)
	}
}

func TestWorkflowRepository_StagesOrdered(t *testing.T) {
	db := openTestDB(t)
	repo := NewWorkflowRepository(db)
	ctx := context.Background()

	w := seedWorkflow(t, db, "consumer-loan", 1, true)
	seedStage(t, db, w.ID, "COMPLETED", 3)
	seedStage(t, db, w.ID, "DRAFT", 1)
	seedStage(t, db, w.ID, "SUBMITTED", 2)

	stages, err := repo.ListStages(ctx, w.ID)
	if err != nil {
		t.Fatalf("ListStages: %v", err)
	}
	got := make([]string, 0, len(stages))
	for _, s := range stages {
		got = append(got, s.Code)
	}
	want := []string{"DRAFT", "SUBMITTED", "COMPLETED"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stage order %v, want %v", got, want)
		}
	}
}

func TestWorkflowRepository_DuplicateStageCode(t *testing.T) {
	db := openTestDB(t)
	repo := NewWorkflowRepository(db)
	ctx := context.Background()

	w := seedWorkflow(t, db, "consumer-loan", 1, true)
	seedStage(t, db, w.ID, "DRAFT", 1)

	err := repo.CreateStage(ctx, &domain.Stage{WorkflowID: w.ID, Code: "DRAFT", Name: "Draft again", StageOrder: 9})
	if err == nil {
		t.Fatal("expected unique index violation on (workflow_id, code)")
	}

	// the same code is fine in another workflow
	other := seedWorkflow(t, db, "sme-loan", 1, true)
	if err := repo.CreateStage(ctx, &domain.Stage{WorkflowID: other.ID, Code: "DRAFT", Name: "Draft", StageOrder: 1}); err != nil {
		t.Fatalf("CreateStage in other workflow: %v", err)
	}
}

func TestWorkflowRepository_Transitions(t *testing.T) {
	db := openTestDB(t)
	repo := NewWorkflowRepository(db)
	ctx := context.Background()

	w := seedWorkflow(t, db, "consumer-loan", 1, true)
	draft := seedStage(t, db, w.ID, "DRAFT", 1)
	submitted := seedStage(t, db, w.ID, "SUBMITTED", 2)
	completed := seedStage(t, db, w.ID, "COMPLETED", 3)

	edges := []domain.Transition{
		{WorkflowID: w.ID, FromStageID: draft.ID, ToStageID: submitted.ID},
		{WorkflowID: w.ID, FromStageID: submitted.ID, ToStageID: completed.ID, RequiredPermission: "contract.approve"},
		{WorkflowID: w.ID, FromStageID: submitted.ID, ToStageID: draft.ID},
	}
	for i := range edges {
		if err := repo.CreateTransition(ctx, &edges[i]); err != nil {
			t.Fatalf("CreateTransition: %v", err)
		}
	}

	got, err := repo.GetTransition(ctx, w.ID, submitted.ID, completed.ID)
	if err != nil {
		t.Fatalf("GetTransition: %v", err)
	}
	if got.RequiredPermission != "contract.approve" {
		t.Fatalf("transition: %+v", got)
	}

	from, err := repo.ListTransitionsFrom(ctx, w.ID, submitted.ID)
	if err != nil {
		t.Fatalf("ListTransitionsFrom: %v", err)
	}
	if len(from) != 2 {
		t.Fatalf("transitions from SUBMITTED: %+v", from)
	}
	for _, tr := range from {
		if tr.ToStage == nil {
			t.Fatalf("ToStage not preloaded: %+v", tr)
		}
	}

	// deleting a stage's edges clears both directions
	if err := repo.DeleteTransitionsTouching(ctx, submitted.ID); err != nil {
		t.Fatalf("DeleteTransitionsTouching: %v", err)
	}
	var n int64
	if err := db.Model(&domain.Transition{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("%d transitions remain, want 0", n)
	}
}
