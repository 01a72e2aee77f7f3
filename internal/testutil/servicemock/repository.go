package servicemock

import (
	"context"

	domain "lendops-backend/internal/domain/service"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock satisfying service.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, s *domain.Service) error
	SaveFn             func(ctx context.Context, s *domain.Service) error
	GetByIDFn          func(ctx context.Context, id uint64) (*domain.Service, error)
	ListFn             func(ctx context.Context, activeOnly bool) ([]domain.Service, error)
	GetRequirementFn   func(ctx context.Context, id uint64) (*domain.DocumentRequirement, error)
	ListRequirementsFn func(ctx context.Context, serviceID uint64) ([]domain.DocumentRequirement, error)
	ListQuestionsFn    func(ctx context.Context, serviceID uint64) ([]domain.Question, error)
}

func (m *Repo) Create(ctx context.Context, s *domain.Service) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, s *domain.Service) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Service, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) List(ctx context.Context, activeOnly bool) ([]domain.Service, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, activeOnly)
	}
	return nil, nil
}

func (m *Repo) GetRequirement(ctx context.Context, id uint64) (*domain.DocumentRequirement, error) {
	if m.GetRequirementFn != nil {
		return m.GetRequirementFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListRequirements(ctx context.Context, serviceID uint64) ([]domain.DocumentRequirement, error) {
	if m.ListRequirementsFn != nil {
		return m.ListRequirementsFn(ctx, serviceID)
	}
	return nil, nil
}

func (m *Repo) ListQuestions(ctx context.Context, serviceID uint64) ([]domain.Question, error) {
	if m.ListQuestionsFn != nil {
		return m.ListQuestionsFn(ctx, serviceID)
	}
	return nil, nil
}
