package service

import "context"

type Repository interface {
	Create(ctx context.Context, s *Service) error
	Save(ctx context.Context, s *Service) error
	// GetByID loads the service with its document requirements and questions.
	GetByID(ctx context.Context, id uint64) (*Service, error)
	List(ctx context.Context, activeOnly bool) ([]Service, error)

	GetRequirement(ctx context.Context, id uint64) (*DocumentRequirement, error)
	ListRequirements(ctx context.Context, serviceID uint64) ([]DocumentRequirement, error)
	ListQuestions(ctx context.Context, serviceID uint64) ([]Question, error)
}
