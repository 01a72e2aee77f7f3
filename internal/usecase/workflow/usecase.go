package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "lendops-backend/internal/domain/workflow"
	"lendops-backend/internal/domain/contract"
	"lendops-backend/internal/domain/identity"
	"lendops-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type Usecase struct {
	repo      domain.Repository
	contracts contract.Repository
	rbac      identity.RBAC
	uow       uow.UnitOfWork
}

func NewUsecase(repo domain.Repository, contracts contract.Repository, rbac identity.RBAC, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: repo, contracts: contracts, rbac: rbac, uow: tx}
}

// Create allocates the next version for the name, creates stages and
// transitions in one transaction and deactivates all prior versions.
func (u *Usecase) Create(ctx context.Context, in CreateWorkflowInput) (*WorkflowDTO, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("workflow name is required")
	}
	if len(in.Stages) > 0 {
		if missing := missingRequiredCodes(in.Stages); len(missing) > 0 {
			return nil, fmt.Errorf("workflow must define required stages: missing %s", strings.Join(missing, ", "))
		}
	}

	var dto *WorkflowDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		maxVer, err := r.Workflows.MaxVersion(ctx, in.Name)
		if err != nil {
			return err
		}
		if err := r.Workflows.DeactivateByName(ctx, in.Name); err != nil {
			return err
		}

		w := &domain.Workflow{Name: in.Name, Version: maxVer + 1, IsActive: true}
		if err := r.Workflows.Create(ctx, w); err != nil {
			return err
		}

		byCode := make(map[string]uint64, len(in.Stages))
		stages := make([]StageDTO, 0, len(in.Stages))
		for _, si := range in.Stages {
			code := strings.ToUpper(strings.TrimSpace(si.Code))
			if code == "" {
				return errors.New("stage code is required")
			}
			if _, dup := byCode[code]; dup {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateStageCode, code)
			}
			s := &domain.Stage{
				WorkflowID:         w.ID,
				Code:               code,
				Name:               si.Name,
				StageOrder:         si.StageOrder,
				Color:              si.Color,
				IsRequired:         si.IsRequired,
				TriggersCommission: si.TriggersCommission,
			}
			if err := r.Workflows.CreateStage(ctx, s); err != nil {
				return err
			}
			byCode[code] = s.ID
			stages = append(stages, stageDTO(s))
		}

		for _, ti := range in.Transitions {
			from, ok := byCode[strings.ToUpper(strings.TrimSpace(ti.FromCode))]
			if !ok {
				return fmt.Errorf("transition references unknown stage code %q", ti.FromCode)
			}
			to, ok := byCode[strings.ToUpper(strings.TrimSpace(ti.ToCode))]
			if !ok {
				return fmt.Errorf("transition references unknown stage code %q", ti.ToCode)
			}
			t := &domain.Transition{
				WorkflowID:         w.ID,
				FromStageID:        from,
				ToStageID:          to,
				RequiredPermission: ti.RequiredPermission,
			}
			if err := r.Workflows.CreateTransition(ctx, t); err != nil {
				return err
			}
		}

		dto = &WorkflowDTO{ID: w.ID, Name: w.Name, Version: w.Version, IsActive: w.IsActive, Stages: stages}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// missingRequiredCodes returns the required stage codes absent from the
// supplied list, compared case-insensitively.
func missingRequiredCodes(stages []StageInput) []string {
	seen := make(map[string]bool, len(stages))
	for _, s := range stages {
		seen[strings.ToUpper(strings.TrimSpace(s.Code))] = true
	}
	var missing []string
	for _, code := range domain.RequiredStageCodes {
		if !seen[code] {
			missing = append(missing, code)
		}
	}
	return missing
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*WorkflowDTO, error) {
	w, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	stages, err := u.repo.ListStages(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	dto := &WorkflowDTO{ID: w.ID, Name: w.Name, Version: w.Version, IsActive: w.IsActive}
	for i := range stages {
		dto.Stages = append(dto.Stages, stageDTO(&stages[i]))
	}
	return dto, nil
}

func (u *Usecase) List(ctx context.Context) ([]WorkflowDTO, error) {
	ws, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]WorkflowDTO, 0, len(ws))
	for _, w := range ws {
		out = append(out, WorkflowDTO{ID: w.ID, Name: w.Name, Version: w.Version, IsActive: w.IsActive})
	}
	return out, nil
}

// AvailableTransitions lists every edge out of the current stage with its
// destination, to drive UI and validate requested moves.
func (u *Usecase) AvailableTransitions(ctx context.Context, workflowID, currentStageID uint64) ([]TransitionDTO, error) {
	ts, err := u.repo.ListTransitionsFrom(ctx, workflowID, currentStageID)
	if err != nil {
		return nil, err
	}
	out := make([]TransitionDTO, 0, len(ts))
	for _, t := range ts {
		dto := TransitionDTO{
			ID:                 t.ID,
			FromStageID:        t.FromStageID,
			ToStageID:          t.ToStageID,
			RequiredPermission: t.RequiredPermission,
		}
		if t.ToStage != nil {
			s := stageDTO(t.ToStage)
			dto.ToStage = &s
		}
		out = append(out, dto)
	}
	return out, nil
}

// CanTransition checks whether actorID may move a contract along the
// (from, to) edge. A missing edge or a missing required permission both
// yield a disallowed decision with a reason; neither is an error.
func (u *Usecase) CanTransition(ctx context.Context, workflowID, fromStageID, toStageID, actorID uint64) (Decision, error) {
	t, err := u.repo.GetTransition(ctx, workflowID, fromStageID, toStageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Decision{Allowed: false, Reason: "invalid transition"}, nil
		}
		return Decision{}, err
	}
	if t.RequiredPermission != "" {
		ok, err := u.rbac.HasPermission(ctx, actorID, t.RequiredPermission)
		if err != nil {
			return Decision{}, err
		}
		if !ok {
			return Decision{Allowed: false, Reason: fmt.Sprintf("missing permission %s", t.RequiredPermission)}, nil
		}
	}
	return Decision{Allowed: true}, nil
}

// ValidateTransition is the guard form of CanTransition: a disallowed move
// becomes an ErrTransitionForbidden carrying the reason.
func (u *Usecase) ValidateTransition(ctx context.Context, workflowID, fromStageID, toStageID, actorID uint64) error {
	d, err := u.CanTransition(ctx, workflowID, fromStageID, toStageID, actorID)
	if err != nil {
		return err
	}
	if !d.Allowed {
		return fmt.Errorf("%w: %s", domain.ErrTransitionForbidden, d.Reason)
	}
	return nil
}

func (u *Usecase) CreateStage(ctx context.Context, workflowID uint64, in StageInput) (*StageDTO, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		return nil, errors.New("stage code is required")
	}
	if _, err := u.repo.GetByID(ctx, workflowID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	existing, err := u.repo.ListStages(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	for _, s := range existing {
		if s.Code == code {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateStageCode, code)
		}
	}
	s := &domain.Stage{
		WorkflowID:         workflowID,
		Code:               code,
		Name:               in.Name,
		StageOrder:         in.StageOrder,
		Color:              in.Color,
		IsRequired:         in.IsRequired,
		TriggersCommission: in.TriggersCommission,
	}
	if err := u.repo.CreateStage(ctx, s); err != nil {
		return nil, err
	}
	dto := stageDTO(s)
	return &dto, nil
}

// DeleteStage refuses while any contract occupies the stage, then removes
// the stage and every transition touching it in one transaction.
func (u *Usecase) DeleteStage(ctx context.Context, stageID uint64) error {
	if _, err := u.repo.GetStage(ctx, stageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrStageNotFound
		}
		return err
	}
	n, err := u.contracts.CountByStage(ctx, stageID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %d contract(s)", domain.ErrStageOccupied, n)
	}
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Workflows.DeleteTransitionsTouching(ctx, stageID); err != nil {
			return err
		}
		return r.Workflows.DeleteStage(ctx, stageID)
	})
}

func (u *Usecase) CreateTransition(ctx context.Context, workflowID uint64, in TransitionInput, fromStageID, toStageID uint64) (*TransitionDTO, error) {
	from, err := u.repo.GetStage(ctx, fromStageID)
	if err != nil || from.WorkflowID != workflowID {
		return nil, domain.ErrStageNotFound
	}
	to, err := u.repo.GetStage(ctx, toStageID)
	if err != nil || to.WorkflowID != workflowID {
		return nil, domain.ErrStageNotFound
	}
	if _, err := u.repo.GetTransition(ctx, workflowID, fromStageID, toStageID); err == nil {
		return nil, domain.ErrDuplicateTransition
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	t := &domain.Transition{
		WorkflowID:         workflowID,
		FromStageID:        fromStageID,
		ToStageID:          toStageID,
		RequiredPermission: in.RequiredPermission,
	}
	if err := u.repo.CreateTransition(ctx, t); err != nil {
		return nil, err
	}
	return &TransitionDTO{ID: t.ID, FromStageID: t.FromStageID, ToStageID: t.ToStageID, RequiredPermission: t.RequiredPermission}, nil
}

func (u *Usecase) DeleteTransition(ctx context.Context, id uint64) error {
	return u.repo.DeleteTransition(ctx, id)
}

func stageDTO(s *domain.Stage) StageDTO {
	return StageDTO{
		ID:                 s.ID,
		Code:               s.Code,
		Name:               s.Name,
		StageOrder:         s.StageOrder,
		Color:              s.Color,
		IsRequired:         s.IsRequired,
		TriggersCommission: s.TriggersCommission,
	}
}
