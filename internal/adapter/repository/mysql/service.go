package mysql

import (
	"context"

	domain "lendops-backend/internal/domain/service"

	"gorm.io/gorm"
)

type ServiceRepository struct{ db *gorm.DB }

func NewServiceRepository(db *gorm.DB) *ServiceRepository { return &ServiceRepository{db: db} }

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ServiceRepository) Save(ctx context.Context, s *domain.Service) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *ServiceRepository) GetByID(ctx context.Context, id uint64) (*domain.Service, error) {
	var out domain.Service
	res := r.db.WithContext(ctx).
		Preload("DocumentRequirements", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&out, "id = ?", id)
	return &out, res.Error
}

func (r *ServiceRepository) List(ctx context.Context, activeOnly bool) ([]domain.Service, error) {
	var out []domain.Service
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("id ASC").Find(&out).Error
	return out, err
}

func (r *ServiceRepository) GetRequirement(ctx context.Context, id uint64) (*domain.DocumentRequirement, error) {
	var out domain.DocumentRequirement
	res := r.db.WithContext(ctx).First(&out, "id = ?", id)
	return &out, res.Error
}

func (r *ServiceRepository) ListRequirements(ctx context.Context, serviceID uint64) ([]domain.DocumentRequirement, error) {
	var out []domain.DocumentRequirement
	err := r.db.WithContext(ctx).
		Where("service_id = ?", serviceID).
		Order("sort_order ASC").
		Find(&out).Error
	return out, err
}

func (r *ServiceRepository) ListQuestions(ctx context.Context, serviceID uint64) ([]domain.Question, error) {
	var out []domain.Question
	err := r.db.WithContext(ctx).
		Where("service_id = ?", serviceID).
		Order("sort_order ASC").
		Find(&out).Error
	return out, err
}
