package mysql

import (
	"context"

	domain "lendops-backend/internal/domain/workflow"

	"gorm.io/gorm"
)

type WorkflowRepository struct{ db *gorm.DB }

func NewWorkflowRepository(db *gorm.DB) *WorkflowRepository { return &WorkflowRepository{db: db} }

func (r *WorkflowRepository) Create(ctx context.Context, w *domain.Workflow) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *WorkflowRepository) Save(ctx context.Context, w *domain.Workflow) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *WorkflowRepository) GetByID(ctx context.Context, id uint64) (*domain.Workflow, error) {
	var out domain.Workflow
	res := r.db.WithContext(ctx).First(&out, "id = ?", id)
	return &out, res.Error
}

func (r *WorkflowRepository) GetActiveByName(ctx context.Context, name string) (*domain.Workflow, error) {
	var out domain.Workflow
	res := r.db.WithContext(ctx).Where("name = ? AND is_active = ?", name, true).First(&out)
	return &out, res.Error
}

func (r *WorkflowRepository) MaxVersion(ctx context.Context, name string) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).Model(&domain.Workflow{}).
		Where("name = ?", name).
		Select("MAX(version)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *WorkflowRepository) DeactivateByName(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Model(&domain.Workflow{}).
		Where("name = ? AND is_active = ?", name, true).
		Update("is_active", false).Error
}

func (r *WorkflowRepository) List(ctx context.Context) ([]domain.Workflow, error) {
	var out []domain.Workflow
	err := r.db.WithContext(ctx).Order("name, version DESC").Find(&out).Error
	return out, err
}

func (r *WorkflowRepository) CreateStage(ctx context.Context, s *domain.Stage) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *WorkflowRepository) SaveStage(ctx context.Context, s *domain.Stage) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *WorkflowRepository) GetStage(ctx context.Context, id uint64) (*domain.Stage, error) {
	var out domain.Stage
	res := r.db.WithContext(ctx).First(&out, "id = ?", id)
	return &out, res.Error
}

func (r *WorkflowRepository) ListStages(ctx context.Context, workflowID uint64) ([]domain.Stage, error) {
	var out []domain.Stage
	err := r.db.WithContext(ctx).
		Where("workflow_id = ?", workflowID).
		Order("stage_order ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *WorkflowRepository) DeleteStage(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.Stage{}, "id = ?", id).Error
}

func (r *WorkflowRepository) CreateTransition(ctx context.Context, t *domain.Transition) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *WorkflowRepository) GetTransition(ctx context.Context, workflowID, fromStageID, toStageID uint64) (*domain.Transition, error) {
	var out domain.Transition
	res := r.db.WithContext(ctx).
		Where("workflow_id = ? AND from_stage_id = ? AND to_stage_id = ?", workflowID, fromStageID, toStageID).
		First(&out)
	return &out, res.Error
}

func (r *WorkflowRepository) ListTransitionsFrom(ctx context.Context, workflowID, fromStageID uint64) ([]domain.Transition, error) {
	var out []domain.Transition
	err := r.db.WithContext(ctx).
		Preload("ToStage").
		Where("workflow_id = ? AND from_stage_id = ?", workflowID, fromStageID).
		Find(&out).Error
	return out, err
}

func (r *WorkflowRepository) DeleteTransition(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.Transition{}, "id = ?", id).Error
}

func (r *WorkflowRepository) DeleteTransitionsTouching(ctx context.Context, stageID uint64) error {
	return r.db.WithContext(ctx).
		Where("from_stage_id = ? OR to_stage_id = ?", stageID, stageID).
		Delete(&domain.Transition{}).Error
}
