package contractmock

import (
	"context"
	"time"

	domain "lendops-backend/internal/domain/contract"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock satisfying contract.Repository. Unfilled
// getters report gorm.ErrRecordNotFound, unfilled writes succeed.
type Repo struct {
	CreateFn                 func(ctx context.Context, c *domain.Contract) error
	SaveFn                   func(ctx context.Context, c *domain.Contract) error
	GetByIDFn                func(ctx context.Context, id uint64) (*domain.Contract, error)
	GetByIDForUpdateFn       func(ctx context.Context, id uint64) (*domain.Contract, error)
	GetByNumberFn            func(ctx context.Context, number string) (*domain.Contract, error)
	LatestNumberWithPrefixFn func(ctx context.Context, prefix string) (string, error)
	ListFn                   func(ctx context.Context, f domain.ListFilter) ([]domain.Contract, error)
	CountByStageFn           func(ctx context.Context, stageID uint64) (int64, error)
	CreateDocumentFn         func(ctx context.Context, d *domain.Document) error
	SaveDocumentFn           func(ctx context.Context, d *domain.Document) error
	ListDocumentsFn          func(ctx context.Context, contractID uint64) ([]domain.Document, error)
	CreateFileFn             func(ctx context.Context, f *domain.File) error
	UpsertAnswerFn           func(ctx context.Context, a *domain.Answer) error
	ListAnswersFn            func(ctx context.Context, contractID uint64) ([]domain.Answer, error)
	AppendHistoryFn          func(ctx context.Context, h *domain.StageHistory) error
	ListHistoryFn            func(ctx context.Context, contractID uint64) ([]domain.StageHistory, error)
	SumRevenueBetweenFn      func(ctx context.Context, from, to time.Time) (domain.RevenueTotals, error)
	SumRevenueByCreatorFn    func(ctx context.Context, creatorID uint64, from, to time.Time) (domain.RevenueTotals, error)
}

func (m *Repo) Create(ctx context.Context, c *domain.Contract) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, c *domain.Contract) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Contract, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Contract, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByNumber(ctx context.Context, number string) (*domain.Contract, error) {
	if m.GetByNumberFn != nil {
		return m.GetByNumberFn(ctx, number)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) LatestNumberWithPrefix(ctx context.Context, prefix string) (string, error) {
	if m.LatestNumberWithPrefixFn != nil {
		return m.LatestNumberWithPrefixFn(ctx, prefix)
	}
	return "", nil
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Contract, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) CountByStage(ctx context.Context, stageID uint64) (int64, error) {
	if m.CountByStageFn != nil {
		return m.CountByStageFn(ctx, stageID)
	}
	return 0, nil
}

func (m *Repo) CreateDocument(ctx context.Context, d *domain.Document) error {
	if m.CreateDocumentFn != nil {
		return m.CreateDocumentFn(ctx, d)
	}
	return nil
}

func (m *Repo) SaveDocument(ctx context.Context, d *domain.Document) error {
	if m.SaveDocumentFn != nil {
		return m.SaveDocumentFn(ctx, d)
	}
	return nil
}

func (m *Repo) ListDocuments(ctx context.Context, contractID uint64) ([]domain.Document, error) {
	if m.ListDocumentsFn != nil {
		return m.ListDocumentsFn(ctx, contractID)
	}
	return nil, nil
}

func (m *Repo) CreateFile(ctx context.Context, f *domain.File) error {
	if m.CreateFileFn != nil {
		return m.CreateFileFn(ctx, f)
	}
	return nil
}

func (m *Repo) UpsertAnswer(ctx context.Context, a *domain.Answer) error {
	if m.UpsertAnswerFn != nil {
		return m.UpsertAnswerFn(ctx, a)
	}
	return nil
}

func (m *Repo) ListAnswers(ctx context.Context, contractID uint64) ([]domain.Answer, error) {
	if m.ListAnswersFn != nil {
		return m.ListAnswersFn(ctx, contractID)
	}
	return nil, nil
}

func (m *Repo) AppendHistory(ctx context.Context, h *domain.StageHistory) error {
	if m.AppendHistoryFn != nil {
		return m.AppendHistoryFn(ctx, h)
	}
	return nil
}

func (m *Repo) ListHistory(ctx context.Context, contractID uint64) ([]domain.StageHistory, error) {
	if m.ListHistoryFn != nil {
		return m.ListHistoryFn(ctx, contractID)
	}
	return nil, nil
}

func (m *Repo) SumRevenueBetween(ctx context.Context, from, to time.Time) (domain.RevenueTotals, error) {
	if m.SumRevenueBetweenFn != nil {
		return m.SumRevenueBetweenFn(ctx, from, to)
	}
	return domain.RevenueTotals{}, nil
}

func (m *Repo) SumRevenueByCreator(ctx context.Context, creatorID uint64, from, to time.Time) (domain.RevenueTotals, error) {
	if m.SumRevenueByCreatorFn != nil {
		return m.SumRevenueByCreatorFn(ctx, creatorID, from, to)
	}
	return domain.RevenueTotals{}, nil
}
