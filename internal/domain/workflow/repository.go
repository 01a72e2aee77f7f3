package workflow

import "context"

type Repository interface {
	Create(ctx context.Context, w *Workflow) error
	Save(ctx context.Context, w *Workflow) error
	GetByID(ctx context.Context, id uint64) (*Workflow, error)
	// GetActiveByName returns the single active version for a name.
	GetActiveByName(ctx context.Context, name string) (*Workflow, error)
	// MaxVersion returns the highest version for a name, 0 when none exist.
	MaxVersion(ctx context.Context, name string) (int, error)
	// DeactivateByName clears is_active on every version of a name.
	DeactivateByName(ctx context.Context, name string) error
	List(ctx context.Context) ([]Workflow, error)

	CreateStage(ctx context.Context, s *Stage) error
	SaveStage(ctx context.Context, s *Stage) error
	GetStage(ctx context.Context, id uint64) (*Stage, error)
	// ListStages returns a workflow's stages ordered by stage_order.
	ListStages(ctx context.Context, workflowID uint64) ([]Stage, error)
	DeleteStage(ctx context.Context, id uint64) error

	CreateTransition(ctx context.Context, t *Transition) error
	GetTransition(ctx context.Context, workflowID, fromStageID, toStageID uint64) (*Transition, error)
	// ListTransitionsFrom returns all edges out of a stage, destination stage preloaded.
	ListTransitionsFrom(ctx context.Context, workflowID, fromStageID uint64) ([]Transition, error)
	DeleteTransition(ctx context.Context, id uint64) error
	// DeleteTransitionsTouching removes every edge into or out of a stage.
	DeleteTransitionsTouching(ctx context.Context, stageID uint64) error
}
