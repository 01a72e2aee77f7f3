package workflowmock

import (
	"context"

	domain "lendops-backend/internal/domain/workflow"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies workflow.Repository.
// Fill in the function fields a test needs; unfilled getters report
// gorm.ErrRecordNotFound, unfilled writes succeed.
type Repo struct {
	CreateFn                    func(ctx context.Context, w *domain.Workflow) error
	SaveFn                      func(ctx context.Context, w *domain.Workflow) error
	GetByIDFn                   func(ctx context.Context, id uint64) (*domain.Workflow, error)
	GetActiveByNameFn           func(ctx context.Context, name string) (*domain.Workflow, error)
	MaxVersionFn                func(ctx context.Context, name string) (int, error)
	DeactivateByNameFn          func(ctx context.Context, name string) error
	ListFn                      func(ctx context.Context) ([]domain.Workflow, error)
	CreateStageFn               func(ctx context.Context, s *domain.Stage) error
	SaveStageFn                 func(ctx context.Context, s *domain.Stage) error
	GetStageFn                  func(ctx context.Context, id uint64) (*domain.Stage, error)
	ListStagesFn                func(ctx context.Context, workflowID uint64) ([]domain.Stage, error)
	DeleteStageFn               func(ctx context.Context, id uint64) error
	CreateTransitionFn          func(ctx context.Context, t *domain.Transition) error
	GetTransitionFn             func(ctx context.Context, workflowID, fromStageID, toStageID uint64) (*domain.Transition, error)
	ListTransitionsFromFn       func(ctx context.Context, workflowID, fromStageID uint64) ([]domain.Transition, error)
	DeleteTransitionFn          func(ctx context.Context, id uint64) error
	DeleteTransitionsTouchingFn func(ctx context.Context, stageID uint64) error
}

func (m *Repo) Create(ctx context.Context, w *domain.Workflow) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, w)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, w *domain.Workflow) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, w)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Workflow, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetActiveByName(ctx context.Context, name string) (*domain.Workflow, error) {
	if m.GetActiveByNameFn != nil {
		return m.GetActiveByNameFn(ctx, name)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) MaxVersion(ctx context.Context, name string) (int, error) {
	if m.MaxVersionFn != nil {
		return m.MaxVersionFn(ctx, name)
	}
	return 0, nil
}

func (m *Repo) DeactivateByName(ctx context.Context, name string) error {
	if m.DeactivateByNameFn != nil {
		return m.DeactivateByNameFn(ctx, name)
	}
	return nil
}

func (m *Repo) List(ctx context.Context) ([]domain.Workflow, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *Repo) CreateStage(ctx context.Context, s *domain.Stage) error {
	if m.CreateStageFn != nil {
		return m.CreateStageFn(ctx, s)
	}
	return nil
}

func (m *Repo) SaveStage(ctx context.Context, s *domain.Stage) error {
	if m.SaveStageFn != nil {
		return m.SaveStageFn(ctx, s)
	}
	return nil
}

func (m *Repo) GetStage(ctx context.Context, id uint64) (*domain.Stage, error) {
	if m.GetStageFn != nil {
		return m.GetStageFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListStages(ctx context.Context, workflowID uint64) ([]domain.Stage, error) {
	if m.ListStagesFn != nil {
		return m.ListStagesFn(ctx, workflowID)
	}
	return nil, nil
}

func (m *Repo) DeleteStage(ctx context.Context, id uint64) error {
	if m.DeleteStageFn != nil {
		return m.DeleteStageFn(ctx, id)
	}
	return nil
}

func (m *Repo) CreateTransition(ctx context.Context, t *domain.Transition) error {
	if m.CreateTransitionFn != nil {
		return m.CreateTransitionFn(ctx, t)
	}
	return nil
}

func (m *Repo) GetTransition(ctx context.Context, workflowID, fromStageID, toStageID uint64) (*domain.Transition, error) {
	if m.GetTransitionFn != nil {
		return m.GetTransitionFn(ctx, workflowID, fromStageID, toStageID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListTransitionsFrom(ctx context.Context, workflowID, fromStageID uint64) ([]domain.Transition, error) {
	if m.ListTransitionsFromFn != nil {
		return m.ListTransitionsFromFn(ctx, workflowID, fromStageID)
	}
	return nil, nil
}

func (m *Repo) DeleteTransition(ctx context.Context, id uint64) error {
	if m.DeleteTransitionFn != nil {
		return m.DeleteTransitionFn(ctx, id)
	}
	return nil
}

func (m *Repo) DeleteTransitionsTouching(ctx context.Context, stageID uint64) error {
	if m.DeleteTransitionsTouchingFn != nil {
		return m.DeleteTransitionsTouchingFn(ctx, stageID)
	}
	return nil
}
