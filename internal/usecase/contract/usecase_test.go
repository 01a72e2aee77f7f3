package contract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	domain "lendops-backend/internal/domain/contract"
	svc "lendops-backend/internal/domain/service"
	"lendops-backend/internal/domain/storage"
	"lendops-backend/internal/domain/uow"
	wf "lendops-backend/internal/domain/workflow"
	"lendops-backend/internal/testutil/collabmock"
	"lendops-backend/internal/testutil/contractmock"
	"lendops-backend/internal/testutil/identitymock"
	"lendops-backend/internal/testutil/servicemock"
	"lendops-backend/internal/testutil/uowmock"
	"lendops-backend/internal/testutil/workflowmock"
	commissionuc "lendops-backend/internal/usecase/commission"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decp(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

type validatorFunc func(ctx context.Context, workflowID, fromStageID, toStageID, actorID uint64) error

func (f validatorFunc) ValidateTransition(ctx context.Context, workflowID, fromStageID, toStageID, actorID uint64) error {
	return f(ctx, workflowID, fromStageID, toStageID, actorID)
}

func allowAll(context.Context, uint64, uint64, uint64, uint64) error { return nil }

type commissionCall struct {
	contractID, userID                     uint64
	disbursement, revenuePct, totalRevenue decimal.Decimal
}

type commissionSpy struct {
	calls []commissionCall
	err   error
}

func (s *commissionSpy) ProcessContractCompletion(_ context.Context, contractID, userID uint64, disbursement, revenuePct, totalRevenue decimal.Decimal) (*commissionuc.RecordDTO, error) {
	s.calls = append(s.calls, commissionCall{contractID, userID, disbursement, revenuePct, totalRevenue})
	return nil, s.err
}

var (
	draftStage     = wf.Stage{ID: 1, WorkflowID: 5, Code: wf.StageCodeDraft, Name: "Draft", StageOrder: 1}
	submittedStage = wf.Stage{ID: 2, WorkflowID: 5, Code: wf.StageCodeSubmitted, Name: "Submitted", StageOrder: 2}
	completedStage = wf.Stage{ID: 3, WorkflowID: 5, Code: wf.StageCodeCompleted, Name: "Completed", StageOrder: 3, TriggersCommission: true}
)

func testService() *svc.Service {
	return &svc.Service{
		ID:                7,
		Name:              "Home loan",
		WorkflowID:        5,
		MinLoanAmount:     dec("1000000"),
		MaxLoanAmount:     dec("100000000"),
		CommissionEnabled: true,
		IsActive:          true,
		DocumentRequirements: []svc.DocumentRequirement{
			{ID: 11, ServiceID: 7, Name: "ID card", IsRequired: true},
			{ID: 12, ServiceID: 7, Name: "Payslip", IsRequired: false},
		},
	}
}

func stageLookup() *workflowmock.Repo {
	return &workflowmock.Repo{
		GetStageFn: func(_ context.Context, id uint64) (*wf.Stage, error) {
			for _, s := range []wf.Stage{draftStage, submittedStage, completedStage} {
				if s.ID == id {
					st := s
					return &st, nil
				}
			}
			return nil, gorm.ErrRecordNotFound
		},
		ListStagesFn: func(context.Context, uint64) ([]wf.Stage, error) {
			return []wf.Stage{draftStage, submittedStage, completedStage}, nil
		},
	}
}

func TestUsecase_Create(t *testing.T) {
	services := &servicemock.Repo{
		GetByIDFn: func(_ context.Context, id uint64) (*svc.Service, error) {
			if id != 7 {
				return nil, gorm.ErrRecordNotFound
			}
			return testService(), nil
		},
	}

	t.Run("unknown service", func(t *testing.T) {
		uc := NewUsecase(&contractmock.Repo{}, services, stageLookup(), validatorFunc(allowAll), &commissionSpy{}, &identitymock.Users{}, &collabmock.Storage{}, &collabmock.Audit{}, uowmock.New())
		_, err := uc.Create(context.Background(), 9, CreateContractInput{ServiceID: 404, RequestedAmount: dec("2000000")})
		if !errors.Is(err, svc.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("inactive service", func(t *testing.T) {
		inactive := testService()
		inactive.IsActive = false
		services := &servicemock.Repo{
			GetByIDFn: func(context.Context, uint64) (*svc.Service, error) { return inactive, nil },
		}
		uc := NewUsecase(&contractmock.Repo{}, services, stageLookup(), validatorFunc(allowAll), &commissionSpy{}, &identitymock.Users{}, &collabmock.Storage{}, &collabmock.Audit{}, uowmock.New())
		_, err := uc.Create(context.Background(), 9, CreateContractInput{ServiceID: 7, RequestedAmount: dec("2000000")})
		if !errors.Is(err, svc.ErrInactive) {
			t.Fatalf("expected ErrInactive, got %v", err)
		}
	})

	t.Run("amount outside bounds", func(t *testing.T) {
		for _, amount := range []string{"500", "999999.99", "100000000.01"} {
			uc := NewUsecase(&contractmock.Repo{}, services, stageLookup(), validatorFunc(allowAll), &commissionSpy{}, &identitymock.Users{}, &collabmock.Storage{}, &collabmock.Audit{}, uowmock.New())
			_, err := uc.Create(context.Background(), 9, CreateContractInput{ServiceID: 7, RequestedAmount: dec(amount)})
			if !errors.Is(err, domain.ErrAmountOutOfRange) {
				t.Fatalf("amount %s: expected ErrAmountOutOfRange, got %v", amount, err)
			}
			if !strings.Contains(err.Error(), "not in [1000000, 100000000]") {
				t.Fatalf("amount %s: error should carry the bounds, got %q", amount, err)
			}
		}
	})

	t.Run("happy path seeds documents, answers and history", func(t *testing.T) {
		var createdDocs []domain.Document
		var answers []domain.Answer
		var history []domain.StageHistory
		repo := &contractmock.Repo{
			CreateFn: func(_ context.Context, c *domain.Contract) error {
				c.ID = 100
				return nil
			},
			CreateDocumentFn: func(_ context.Context, d *domain.Document) error {
				createdDocs = append(createdDocs, *d)
				return nil
			},
			UpsertAnswerFn: func(_ context.Context, a *domain.Answer) error {
				answers = append(answers, *a)
				return nil
			},
			AppendHistoryFn: func(_ context.Context, h *domain.StageHistory) error {
				history = append(history, *h)
				return nil
			},
		}
		tx := uowmock.Passthrough(uow.Repos{Contracts: repo})
		uc := NewUsecase(repo, services, stageLookup(), validatorFunc(allowAll), &commissionSpy{}, &identitymock.Users{}, &collabmock.Storage{}, &collabmock.Audit{}, tx)

		dto, err := uc.Create(context.Background(), 9, CreateContractInput{
			ServiceID:       7,
			RequestedAmount: dec("2000000"),
			Answers:         []AnswerInput{{QuestionID: 31, Value: "self-employed"}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(dto.ContractNumber, "HD-") || !strings.HasSuffix(dto.ContractNumber, "-000001") {
			t.Fatalf("contract number %q", dto.ContractNumber)
		}
		if dto.CurrentStage.Code != wf.StageCodeDraft {
			t.Fatalf("initial stage %s, want DRAFT", dto.CurrentStage.Code)
		}
		if dto.UserID != 9 || dto.CreatorID != nil {
			t.Fatalf("ownership: user=%d creator=%v", dto.UserID, dto.CreatorID)
		}
		if len(createdDocs) != 2 {
			t.Fatalf("document slots: %d, want one per requirement", len(createdDocs))
		}
		if len(answers) != 1 || answers[0].QuestionID != 31 {
			t.Fatalf("answers: %+v", answers)
		}
		if len(history) != 1 || history[0].FromStageID != nil || history[0].ToStageID != draftStage.ID {
			t.Fatalf("history: %+v", history)
		}
	})

	t.Run("number continues the year sequence", func(t *testing.T) {
		repo := &contractmock.Repo{
			LatestNumberWithPrefixFn: func(_ context.Context, prefix string) (string, error) {
				return prefix + "000123", nil
			},
		}
		tx := uowmock.Passthrough(uow.Repos{Contracts: repo})
		uc := NewUsecase(repo, services, stageLookup(), validatorFunc(allowAll), &commissionSpy{}, &identitymock.Users{}, &collabmock.Storage{}, &collabmock.Audit{}, tx)
		dto, err := uc.Create(context.Background(), 9, CreateContractInput{ServiceID: 7, RequestedAmount: dec("2000000")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasSuffix(dto.ContractNumber, "-000124") {
			t.Fatalf("contract number %q, want suffix -000124", dto.ContractNumber)
		}
	})

	t.Run("agent creation records the creator", func(t *testing.T) {
		repo := &contractmock.Repo{}
		tx := uowmock.Passthrough(uow.Repos{Contracts: repo})
		uc := NewUsecase(repo, services, stageLookup(), validatorFunc(allowAll), &commissionSpy{}, &identitymock.Users{}, &collabmock.Storage{}, &collabmock.Audit{}, tx)
		dto, err := uc.Create(context.Background(), 9, CreateContractInput{UserID: 55, ServiceID: 7, RequestedAmount: dec("2000000")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dto.UserID != 55 || dto.CreatorID == nil || *dto.CreatorID != 9 {
			t.Fatalf("ownership: user=%d creator=%v", dto.UserID, dto.CreatorID)
		}
	})
}

func TestNextContractNumber(t *testing.T) {
	tests := []struct {
		name   string
		latest string
		want   string
	}{
		{"first of the year", "", "HD-2026-000001"},
		{"continues sequence", "HD-2026-000041", "HD-2026-000042"},
		{"unparseable suffix restarts", "HD-2026-XXXXXX", "HD-2026-000001"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &contractmock.Repo{
				LatestNumberWithPrefixFn: func(_ context.Context, prefix string) (string, error) {
					if prefix != "HD-2026-" {
						t.Fatalf("prefix %q", prefix)
					}
					return tc.latest, nil
				},
			}
			got, err := nextContractNumber(context.Background(), repo, 2026)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

// submitFixture wires a draft contract owned by user 9 with one required
// document slot still empty.
type submitFixture struct {
	uc      *Usecase
	repo    *contractmock.Repo
	store   *collabmock.Storage
	service *svc.Service
	files   []domain.File
	history []domain.StageHistory
	saved   *domain.Contract
}

func newSubmitFixture(t *testing.T, stageID uint64, existingFiles int) *submitFixture {
	t.Helper()
	f := &submitFixture{store: &collabmock.Storage{}, service: testService()}

	contract := domain.Contract{ID: 100, ContractNumber: "HD-2026-000001", UserID: 9, ServiceID: 7, CurrentStageID: stageID}
	f.repo = &contractmock.Repo{
		GetByIDFn: func(context.Context, uint64) (*domain.Contract, error) {
			c := contract
			return &c, nil
		},
		ListDocumentsFn: func(context.Context, uint64) ([]domain.Document, error) {
			files := make([]domain.File, existingFiles)
			return []domain.Document{
				{ID: 21, ContractID: 100, RequirementID: 11, Status: domain.DocumentPending, Files: files},
				{ID: 22, ContractID: 100, RequirementID: 12, Status: domain.DocumentPending},
			}, nil
		},
		CreateFileFn: func(_ context.Context, file *domain.File) error {
			f.files = append(f.files, *file)
			return nil
		},
		AppendHistoryFn: func(_ context.Context, h *domain.StageHistory) error {
			f.history = append(f.history, *h)
			return nil
		},
		SaveFn: func(_ context.Context, c *domain.Contract) error {
			f.saved = c
			return nil
		},
	}

	services := &servicemock.Repo{
		GetByIDFn: func(context.Context, uint64) (*svc.Service, error) { return f.service, nil },
	}
	tx := &uowmock.UoW{
		WithinContractTxFn: func(ctx context.Context, _ uint64, fn func(r uow.Repos, c *domain.Contract) error) error {
			locked := contract
			return fn(uow.Repos{Contracts: f.repo, Workflows: stageLookup()}, &locked)
		},
	}
	f.uc = NewUsecase(f.repo, services, stageLookup(), validatorFunc(allowAll), &commissionSpy{}, &identitymock.Users{}, f.store, &collabmock.Audit{}, tx)
	return f
}

func TestUsecase_Submit(t *testing.T) {
	idCard := FileUpload{
		RequirementID: 11,
		Upload:        storage.Upload{FileName: "id.pdf", MimeType: "application/pdf", Size: 2048},
	}

	t.Run("stranger rejected", func(t *testing.T) {
		f := newSubmitFixture(t, draftStage.ID, 0)
		_, err := f.uc.Submit(context.Background(), 77, 100, SubmitInput{Files: []FileUpload{idCard}})
		if !errors.Is(err, domain.ErrNotOwner) {
			t.Fatalf("expected ErrNotOwner, got %v", err)
		}
	})

	t.Run("past draft rejected", func(t *testing.T) {
		f := newSubmitFixture(t, submittedStage.ID, 1)
		_, err := f.uc.Submit(context.Background(), 9, 100, SubmitInput{})
		if !errors.Is(err, domain.ErrAlreadySubmitted) {
			t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
		}
	})

	t.Run("missing required document names the requirement", func(t *testing.T) {
		f := newSubmitFixture(t, draftStage.ID, 0)
		_, err := f.uc.Submit(context.Background(), 9, 100, SubmitInput{})
		if err == nil || !strings.Contains(err.Error(), `required document "ID card" is missing`) {
			t.Fatalf("got %v", err)
		}
		if f.store.Uploads != 0 || len(f.history) != 0 {
			t.Fatal("failed validation must not upload or move the contract")
		}
	})

	t.Run("existing files satisfy the requirement", func(t *testing.T) {
		f := newSubmitFixture(t, draftStage.ID, 1)
		dto, err := f.uc.Submit(context.Background(), 9, 100, SubmitInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dto.CurrentStage.Code != wf.StageCodeSubmitted {
			t.Fatalf("stage %s, want SUBMITTED", dto.CurrentStage.Code)
		}
	})

	t.Run("uploads files and moves one stage forward", func(t *testing.T) {
		f := newSubmitFixture(t, draftStage.ID, 0)
		dto, err := f.uc.Submit(context.Background(), 9, 100, SubmitInput{
			Answers: []AnswerInput{{QuestionID: 31, Value: "updated"}},
			Files:   []FileUpload{idCard},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dto.CurrentStage.ID != submittedStage.ID {
			t.Fatalf("stage %d, want %d", dto.CurrentStage.ID, submittedStage.ID)
		}
		if f.store.Uploads != 1 || len(f.files) != 1 {
			t.Fatalf("uploads=%d files=%d", f.store.Uploads, len(f.files))
		}
		if f.files[0].DocumentID != 21 || f.files[0].UploadedBy != 9 || f.files[0].URL == "" {
			t.Fatalf("file row: %+v", f.files[0])
		}
		if len(f.history) != 1 || f.history[0].Note != "submitted" || *f.history[0].FromStageID != draftStage.ID {
			t.Fatalf("history: %+v", f.history)
		}
		if f.saved == nil || f.saved.CurrentStageID != submittedStage.ID {
			t.Fatalf("saved contract: %+v", f.saved)
		}
	})
}

func TestUsecase_Submit_RequirementConfig(t *testing.T) {
	idCard := FileUpload{
		RequirementID: 11,
		Upload:        storage.Upload{FileName: "id.pdf", MimeType: "application/pdf", Size: 2048},
	}

	t.Run("max files counts existing and incoming together", func(t *testing.T) {
		f := newSubmitFixture(t, draftStage.ID, 1)
		f.service.DocumentRequirements[0].Config = `{"max_files":1}`
		_, err := f.uc.Submit(context.Background(), 9, 100, SubmitInput{Files: []FileUpload{idCard}})
		if err == nil || !strings.Contains(err.Error(), `document "ID card" allows at most 1 file(s), has 2`) {
			t.Fatalf("got %v", err)
		}
		if f.store.Uploads != 0 || len(f.history) != 0 {
			t.Fatal("failed validation must not upload or move the contract")
		}
	})

	t.Run("min files enforced on a partly filled requirement", func(t *testing.T) {
		f := newSubmitFixture(t, draftStage.ID, 1)
		f.service.DocumentRequirements[0].Config = `{"min_files":2}`
		_, err := f.uc.Submit(context.Background(), 9, 100, SubmitInput{})
		if err == nil || !strings.Contains(err.Error(), `document "ID card" needs at least 2 file(s), has 1`) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("optional requirement with no files skips the minimum", func(t *testing.T) {
		f := newSubmitFixture(t, draftStage.ID, 1)
		f.service.DocumentRequirements[1].Config = `{"min_files":2}` // Payslip, optional
		dto, err := f.uc.Submit(context.Background(), 9, 100, SubmitInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dto.CurrentStage.Code != wf.StageCodeSubmitted {
			t.Fatalf("stage %s, want SUBMITTED", dto.CurrentStage.Code)
		}
	})

	t.Run("mime and size limits reach the storage backend", func(t *testing.T) {
		f := newSubmitFixture(t, draftStage.ID, 0)
		f.service.DocumentRequirements[0].Config = `{"allowed_types":["application/pdf"],"max_size_bytes":1048576}`

		var gotOpts storage.UploadOptions
		f.store.UploadFilesFn = func(_ context.Context, files []storage.Upload, opts storage.UploadOptions) ([]storage.Uploaded, error) {
			gotOpts = opts
			out := make([]storage.Uploaded, 0, len(files))
			for _, up := range files {
				out = append(out, storage.Uploaded{URL: "https://files.test/" + up.FileName, FileName: up.FileName, FileSize: up.Size, MimeType: up.MimeType})
			}
			return out, nil
		}

		if _, err := f.uc.Submit(context.Background(), 9, 100, SubmitInput{Files: []FileUpload{idCard}}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotOpts.Folder != "contracts/HD-2026-000001" {
			t.Fatalf("folder %q", gotOpts.Folder)
		}
		if len(gotOpts.AllowedMimeTypes) != 1 || gotOpts.AllowedMimeTypes[0] != "application/pdf" {
			t.Fatalf("allowed types %v", gotOpts.AllowedMimeTypes)
		}
		if gotOpts.MaxSizeBytes != 1048576 {
			t.Fatalf("max size %d", gotOpts.MaxSizeBytes)
		}
	})

	t.Run("disallowed upload fails before any metadata lands", func(t *testing.T) {
		f := newSubmitFixture(t, draftStage.ID, 0)
		f.service.DocumentRequirements[0].Config = `{"allowed_types":["application/pdf"]}`
		f.store.UploadFilesFn = func(_ context.Context, files []storage.Upload, opts storage.UploadOptions) ([]storage.Uploaded, error) {
			return nil, fmt.Errorf("file %q has disallowed type %s", files[0].FileName, files[0].MimeType)
		}
		exe := FileUpload{RequirementID: 11, Upload: storage.Upload{FileName: "id.exe", MimeType: "application/x-msdownload", Size: 64}}
		_, err := f.uc.Submit(context.Background(), 9, 100, SubmitInput{Files: []FileUpload{exe}})
		if err == nil || !strings.Contains(err.Error(), "disallowed type") {
			t.Fatalf("got %v", err)
		}
		if len(f.files) != 0 || len(f.history) != 0 {
			t.Fatal("rejected upload must leave no rows behind")
		}
	})

	t.Run("malformed config fails the submit", func(t *testing.T) {
		f := newSubmitFixture(t, draftStage.ID, 1)
		f.service.DocumentRequirements[0].Config = `{"max_files":`
		_, err := f.uc.Submit(context.Background(), 9, 100, SubmitInput{})
		if err == nil || !strings.Contains(err.Error(), `document "ID card" config`) {
			t.Fatalf("got %v", err)
		}
	})
}

type transitionFixture struct {
	uc         *Usecase
	commission *commissionSpy
	auditor    *collabmock.Audit
	history    []domain.StageHistory
	saved      *domain.Contract
}

func newTransitionFixture(t *testing.T, validator TransitionValidator, commissionErr error) *transitionFixture {
	t.Helper()
	f := &transitionFixture{commission: &commissionSpy{err: commissionErr}, auditor: &collabmock.Audit{}}

	contract := domain.Contract{ID: 100, ContractNumber: "HD-2026-000001", UserID: 9, ServiceID: 7, CurrentStageID: submittedStage.ID,
		DisbursedAmount: decimal.Zero, RevenuePercentage: decimal.Zero, TotalRevenue: decimal.Zero}
	repo := &contractmock.Repo{
		GetByIDFn: func(context.Context, uint64) (*domain.Contract, error) {
			c := contract
			return &c, nil
		},
		SaveFn: func(_ context.Context, c *domain.Contract) error {
			f.saved = c
			return nil
		},
		AppendHistoryFn: func(_ context.Context, h *domain.StageHistory) error {
			f.history = append(f.history, *h)
			return nil
		},
	}
	services := &servicemock.Repo{
		GetByIDFn: func(context.Context, uint64) (*svc.Service, error) { return testService(), nil },
	}
	tx := &uowmock.UoW{
		WithinContractTxFn: func(ctx context.Context, _ uint64, fn func(r uow.Repos, c *domain.Contract) error) error {
			locked := contract
			return fn(uow.Repos{Contracts: repo, Workflows: stageLookup()}, &locked)
		},
	}
	f.uc = NewUsecase(repo, services, stageLookup(), validator, f.commission, &identitymock.Users{}, &collabmock.Storage{}, f.auditor, tx)
	return f
}

func TestUsecase_TransitionStage(t *testing.T) {
	t.Run("validator decision is final", func(t *testing.T) {
		deny := validatorFunc(func(context.Context, uint64, uint64, uint64, uint64) error {
			return wf.ErrTransitionForbidden
		})
		f := newTransitionFixture(t, deny, nil)
		_, err := f.uc.TransitionStage(context.Background(), 9, 100, TransitionInput{ToStageID: completedStage.ID})
		if !errors.Is(err, wf.ErrTransitionForbidden) {
			t.Fatalf("expected ErrTransitionForbidden, got %v", err)
		}
		if f.saved != nil {
			t.Fatal("denied transition must not save")
		}
	})

	t.Run("commissioning transition needs financials", func(t *testing.T) {
		tests := []struct {
			name string
			in   TransitionInput
			want error
		}{
			{"missing disbursement", TransitionInput{ToStageID: completedStage.ID, RevenuePercentage: decp("10")}, domain.ErrInvalidDisbursement},
			{"zero disbursement", TransitionInput{ToStageID: completedStage.ID, DisbursementAmount: decp("0"), RevenuePercentage: decp("10")}, domain.ErrInvalidDisbursement},
			{"missing percentage", TransitionInput{ToStageID: completedStage.ID, DisbursementAmount: decp("2000000")}, domain.ErrInvalidRevenuePct},
			{"percentage above 100", TransitionInput{ToStageID: completedStage.ID, DisbursementAmount: decp("2000000"), RevenuePercentage: decp("150")}, domain.ErrInvalidRevenuePct},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				f := newTransitionFixture(t, validatorFunc(allowAll), nil)
				_, err := f.uc.TransitionStage(context.Background(), 9, 100, tc.in)
				if !errors.Is(err, tc.want) {
					t.Fatalf("got %v, want %v", err, tc.want)
				}
			})
		}
	})

	t.Run("completion sets revenue and triggers commission", func(t *testing.T) {
		f := newTransitionFixture(t, validatorFunc(allowAll), nil)
		dto, err := f.uc.TransitionStage(context.Background(), 9, 100, TransitionInput{
			ToStageID:          completedStage.ID,
			Note:               "disbursed",
			DisbursementAmount: decp("2000000"),
			RevenuePercentage:  decp("10"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !dto.TotalRevenue.Equal(dec("200000")) {
			t.Fatalf("total revenue %s, want 200000", dto.TotalRevenue)
		}
		if f.saved == nil || !f.saved.DisbursedAmount.Equal(dec("2000000")) || f.saved.CurrentStageID != completedStage.ID {
			t.Fatalf("saved: %+v", f.saved)
		}
		if len(f.history) != 1 || f.history[0].Note != "disbursed" {
			t.Fatalf("history: %+v", f.history)
		}
		if len(f.commission.calls) != 1 {
			t.Fatalf("commission calls: %d", len(f.commission.calls))
		}
		call := f.commission.calls[0]
		if call.contractID != 100 || call.userID != 9 || !call.totalRevenue.Equal(dec("200000")) {
			t.Fatalf("commission call: %+v", call)
		}
		if len(f.auditor.Entries) != 1 || f.auditor.Entries[0].Action != "contract.stage_transition" {
			t.Fatalf("audit: %+v", f.auditor.Entries)
		}
	})

	t.Run("commission failure does not undo the transition", func(t *testing.T) {
		f := newTransitionFixture(t, validatorFunc(allowAll), errors.New("wallet service down"))
		dto, err := f.uc.TransitionStage(context.Background(), 9, 100, TransitionInput{
			ToStageID:          completedStage.ID,
			DisbursementAmount: decp("2000000"),
			RevenuePercentage:  decp("10"),
		})
		if err != nil {
			t.Fatalf("transition must survive commission failure, got %v", err)
		}
		if dto.CurrentStage.ID != completedStage.ID {
			t.Fatalf("stage %d", dto.CurrentStage.ID)
		}
		if len(f.commission.calls) != 1 {
			t.Fatalf("commission calls: %d", len(f.commission.calls))
		}
	})

	t.Run("plain transition skips commission entirely", func(t *testing.T) {
		f := newTransitionFixture(t, validatorFunc(allowAll), nil)
		_, err := f.uc.TransitionStage(context.Background(), 9, 100, TransitionInput{ToStageID: draftStage.ID, Note: "returned for edits"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.commission.calls) != 0 {
			t.Fatal("commission ran on a non-triggering stage")
		}
	})
}

func TestUsecase_UpdateDisbursedAmount(t *testing.T) {
	setup := func(stageID uint64) (*Usecase, **domain.Contract, *collabmock.Audit) {
		var saved *domain.Contract
		repo := &contractmock.Repo{
			SaveFn: func(_ context.Context, c *domain.Contract) error {
				saved = c
				return nil
			},
		}
		auditor := &collabmock.Audit{}
		tx := &uowmock.UoW{
			WithinContractTxFn: func(ctx context.Context, _ uint64, fn func(r uow.Repos, c *domain.Contract) error) error {
				locked := domain.Contract{ID: 100, UserID: 9, ServiceID: 7, CurrentStageID: stageID, DisbursedAmount: decimal.Zero}
				return fn(uow.Repos{Contracts: repo, Workflows: stageLookup()}, &locked)
			},
		}
		uc := NewUsecase(repo, &servicemock.Repo{}, stageLookup(), validatorFunc(allowAll), &commissionSpy{}, &identitymock.Users{}, &collabmock.Storage{}, auditor, tx)
		return uc, &saved, auditor
	}

	t.Run("non-positive amount", func(t *testing.T) {
		uc, _, _ := setup(submittedStage.ID)
		if err := uc.UpdateDisbursedAmount(context.Background(), 1, 100, dec("0")); !errors.Is(err, domain.ErrInvalidDisbursement) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("locked in draft", func(t *testing.T) {
		uc, saved, _ := setup(draftStage.ID)
		err := uc.UpdateDisbursedAmount(context.Background(), 1, 100, dec("500000"))
		if !errors.Is(err, domain.ErrDisbursementLocked) {
			t.Fatalf("got %v", err)
		}
		if *saved != nil {
			t.Fatal("locked update must not save")
		}
	})

	t.Run("locked on commission-triggering stage", func(t *testing.T) {
		uc, saved, _ := setup(completedStage.ID)
		err := uc.UpdateDisbursedAmount(context.Background(), 1, 100, dec("500000"))
		if !errors.Is(err, domain.ErrDisbursementLocked) {
			t.Fatalf("got %v", err)
		}
		if *saved != nil {
			t.Fatal("locked update must not save")
		}
	})

	t.Run("updates between submit and completion", func(t *testing.T) {
		uc, saved, auditor := setup(submittedStage.ID)
		if err := uc.UpdateDisbursedAmount(context.Background(), 1, 100, dec("500000")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *saved == nil || !(*saved).DisbursedAmount.Equal(dec("500000")) {
			t.Fatalf("saved: %+v", *saved)
		}
		if len(auditor.Entries) != 1 || auditor.Entries[0].Action != "contract.disbursed_amount_updated" {
			t.Fatalf("audit: %+v", auditor.Entries)
		}
	})
}

func TestUsecase_List_AdminSearch(t *testing.T) {
	var gotFilter domain.ListFilter
	repo := &contractmock.Repo{
		ListFn: func(_ context.Context, f domain.ListFilter) ([]domain.Contract, error) {
			gotFilter = f
			return []domain.Contract{{ID: 100, ContractNumber: "HD-2026-000001", UserID: 3, ServiceID: 7, CurrentStageID: draftStage.ID}}, nil
		},
	}
	users := &identitymock.Users{
		SearchUserIDsFn: func(_ context.Context, query string) ([]uint64, error) {
			if query != "jane" {
				t.Fatalf("query %q", query)
			}
			return []uint64{3, 4}, nil
		},
	}
	uc := NewUsecase(repo, &servicemock.Repo{}, stageLookup(), validatorFunc(allowAll), &commissionSpy{}, users, &collabmock.Storage{}, &collabmock.Audit{}, uowmock.New())

	out, err := uc.List(context.Background(), ListInput{Search: "jane", Limit: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].CurrentStage.Code != wf.StageCodeDraft {
		t.Fatalf("out: %+v", out)
	}
	if gotFilter.Search != "jane" || len(gotFilter.OwnerIDs) != 2 {
		t.Fatalf("filter: %+v", gotFilter)
	}
}
