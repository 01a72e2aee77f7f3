package contract

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"lendops-backend/internal/domain/audit"
	domain "lendops-backend/internal/domain/contract"
	"lendops-backend/internal/domain/identity"
	svc "lendops-backend/internal/domain/service"
	"lendops-backend/internal/domain/storage"
	"lendops-backend/internal/domain/uow"
	wf "lendops-backend/internal/domain/workflow"
	commissionuc "lendops-backend/internal/usecase/commission"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransitionValidator is the piece of the workflow engine this usecase
// consumes: the permission-gated edge check.
type TransitionValidator interface {
	ValidateTransition(ctx context.Context, workflowID, fromStageID, toStageID, actorID uint64) error
}

// CommissionProcessor runs as a post-commit hook after commission-triggering
// transitions. Its failures are logged, never propagated.
type CommissionProcessor interface {
	ProcessContractCompletion(ctx context.Context, contractID, userID uint64, disbursement, revenuePct, totalRevenue decimal.Decimal) (*commissionuc.RecordDTO, error)
}

type Usecase struct {
	repo       domain.Repository
	services   svc.Repository
	workflows  wf.Repository
	validator  TransitionValidator
	commission CommissionProcessor
	users      identity.Users
	store      storage.Storage
	auditor    audit.Sink
	uow        uow.UnitOfWork
}

func NewUsecase(repo domain.Repository, services svc.Repository, workflows wf.Repository, validator TransitionValidator, commission CommissionProcessor, users identity.Users, store storage.Storage, auditor audit.Sink, tx uow.UnitOfWork) *Usecase {
	return &Usecase{
		repo:       repo,
		services:   services,
		workflows:  workflows,
		validator:  validator,
		commission: commission,
		users:      users,
		store:      store,
		auditor:    auditor,
		uow:        tx,
	}
}

// Create validates the service and amount bounds, then atomically creates
// the contract in the workflow's first stage, one empty document slot per
// requirement, the initial answers and the first history row.
func (u *Usecase) Create(ctx context.Context, actorID uint64, in CreateContractInput) (*ContractDTO, error) {
	s, err := u.services.GetByID(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svc.ErrNotFound
		}
		return nil, err
	}
	if !s.IsActive {
		return nil, svc.ErrInactive
	}
	if in.RequestedAmount.LessThan(s.MinLoanAmount) || in.RequestedAmount.GreaterThan(s.MaxLoanAmount) {
		return nil, fmt.Errorf("%w: %s not in [%s, %s]",
			domain.ErrAmountOutOfRange, in.RequestedAmount, s.MinLoanAmount, s.MaxLoanAmount)
	}

	stages, err := u.workflows.ListStages(ctx, s.WorkflowID)
	if err != nil {
		return nil, err
	}
	if len(stages) == 0 {
		return nil, fmt.Errorf("service %d workflow has no stages", s.ID)
	}
	initial := stages[0] // ListStages orders by stage_order

	ownerID := actorID
	var creatorID *uint64
	if in.UserID != 0 && in.UserID != actorID {
		ownerID = in.UserID
		creatorID = &actorID
	}

	var created *domain.Contract
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		number, err := nextContractNumber(ctx, r.Contracts, time.Now().UTC().Year())
		if err != nil {
			return err
		}

		c := &domain.Contract{
			ContractNumber:    number,
			UserID:            ownerID,
			CreatorID:         creatorID,
			ServiceID:         s.ID,
			CurrentStageID:    initial.ID,
			RequestedAmount:   in.RequestedAmount,
			DisbursedAmount:   decimal.Zero,
			RevenuePercentage: decimal.Zero,
			TotalRevenue:      decimal.Zero,
		}
		if err := r.Contracts.Create(ctx, c); err != nil {
			return err
		}

		for _, req := range s.DocumentRequirements {
			d := &domain.Document{ContractID: c.ID, RequirementID: req.ID, Status: domain.DocumentPending}
			if err := r.Contracts.CreateDocument(ctx, d); err != nil {
				return err
			}
		}
		for _, a := range in.Answers {
			if err := r.Contracts.UpsertAnswer(ctx, &domain.Answer{ContractID: c.ID, QuestionID: a.QuestionID, Value: a.Value}); err != nil {
				return err
			}
		}

		h := &domain.StageHistory{ContractID: c.ID, FromStageID: nil, ToStageID: initial.ID, ChangedBy: actorID}
		if err := r.Contracts.AppendHistory(ctx, h); err != nil {
			return err
		}

		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.dto(created, &initial), nil
}

// nextContractNumber generates HD-{year}-{6-digit sequence}. The sequence
// is the latest suffix for the year plus one; parse failures and absence
// both start at 1. Runs inside the creation transaction.
func nextContractNumber(ctx context.Context, repo domain.Repository, year int) (string, error) {
	prefix := fmt.Sprintf("%s-%04d-", domain.ContractNumberPrefix, year)
	latest, err := repo.LatestNumberWithPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	seq := 1
	if latest != "" {
		if n, err := strconv.Atoi(strings.TrimPrefix(latest, prefix)); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%06d", prefix, seq), nil
}

func (u *Usecase) Get(ctx context.Context, actorID, contractID uint64) (*ContractDTO, error) {
	c, err := u.getAuthorized(ctx, actorID, contractID)
	if err != nil {
		return nil, err
	}
	stage, err := u.workflows.GetStage(ctx, c.CurrentStageID)
	if err != nil {
		return nil, err
	}
	return u.dto(c, stage), nil
}

func (u *Usecase) getAuthorized(ctx context.Context, actorID, contractID uint64) (*domain.Contract, error) {
	c, err := u.repo.GetByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !c.CanBeMutatedBy(actorID) {
		return nil, domain.ErrNotOwner
	}
	return c, nil
}

// UpdateAnswers upserts answers keyed by (contract, question). Last write
// wins; no edit history is kept.
func (u *Usecase) UpdateAnswers(ctx context.Context, actorID, contractID uint64, answers []AnswerInput) error {
	if _, err := u.getAuthorized(ctx, actorID, contractID); err != nil {
		return err
	}
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		for _, a := range answers {
			if err := r.Contracts.UpsertAnswer(ctx, &domain.Answer{ContractID: contractID, QuestionID: a.QuestionID, Value: a.Value}); err != nil {
				return err
			}
		}
		return nil
	})
}

// Submit moves a DRAFT contract one stage forward. Every required document
// must hold at least one file, counting both existing uploads and the ones
// arriving with this call; a miss fails with the requirement's name. Each
// requirement's stored config bounds the file count and carries the mime and
// size limits the storage backend enforces per upload. File bytes go to
// external storage before the transaction; only metadata is persisted
// inside it.
func (u *Usecase) Submit(ctx context.Context, actorID, contractID uint64, in SubmitInput) (*ContractDTO, error) {
	c, err := u.getAuthorized(ctx, actorID, contractID)
	if err != nil {
		return nil, err
	}

	current, err := u.workflows.GetStage(ctx, c.CurrentStageID)
	if err != nil {
		return nil, err
	}
	if current.Code != wf.StageCodeDraft {
		return nil, domain.ErrAlreadySubmitted
	}

	s, err := u.services.GetByID(ctx, c.ServiceID)
	if err != nil {
		return nil, err
	}
	docs, err := u.repo.ListDocuments(ctx, contractID)
	if err != nil {
		return nil, err
	}

	docByReq := make(map[uint64]*domain.Document, len(docs))
	fileCount := make(map[uint64]int, len(docs))
	for i := range docs {
		docByReq[docs[i].RequirementID] = &docs[i]
		fileCount[docs[i].RequirementID] = len(docs[i].Files)
	}
	for _, f := range in.Files {
		fileCount[f.RequirementID]++
	}
	cfgByReq := make(map[uint64]svc.DocumentConfig, len(s.DocumentRequirements))
	for _, req := range s.DocumentRequirements {
		cfg, err := req.ParseConfig()
		if err != nil {
			return nil, fmt.Errorf("document %q config: %w", req.Name, err)
		}
		cfgByReq[req.ID] = cfg

		n := fileCount[req.ID]
		if req.IsRequired && n == 0 {
			return nil, fmt.Errorf("required document %q is missing", req.Name)
		}
		// an optional requirement with no files skips the minimum
		if n > 0 && cfg.MinFiles > 0 && n < cfg.MinFiles {
			return nil, fmt.Errorf("document %q needs at least %d file(s), has %d", req.Name, cfg.MinFiles, n)
		}
		if cfg.MaxFiles > 0 && n > cfg.MaxFiles {
			return nil, fmt.Errorf("document %q allows at most %d file(s), has %d", req.Name, cfg.MaxFiles, n)
		}
	}

	next, err := nextOrderedStage(ctx, u.workflows, s.WorkflowID, current)
	if err != nil {
		return nil, err
	}

	// upload before the tx; a failed upload leaves no metadata row behind
	uploaded := make([]struct {
		reqID uint64
		meta  storage.Uploaded
	}, 0, len(in.Files))
	for _, f := range in.Files {
		cfg := cfgByReq[f.RequirementID]
		opts := storage.UploadOptions{
			Folder:           fmt.Sprintf("contracts/%s", c.ContractNumber),
			AllowedMimeTypes: cfg.AllowedTypes,
			MaxSizeBytes:     cfg.MaxSizeBytes,
		}
		metas, err := u.store.UploadFiles(ctx, []storage.Upload{f.Upload}, opts)
		if err != nil {
			return nil, fmt.Errorf("upload %q: %w", f.Upload.FileName, err)
		}
		uploaded = append(uploaded, struct {
			reqID uint64
			meta  storage.Uploaded
		}{f.RequirementID, metas[0]})
	}

	err = u.uow.WithinContractTx(ctx, contractID, func(r uow.Repos, locked *domain.Contract) error {
		if locked.CurrentStageID != current.ID {
			return domain.ErrAlreadySubmitted
		}
		for _, a := range in.Answers {
			if err := r.Contracts.UpsertAnswer(ctx, &domain.Answer{ContractID: contractID, QuestionID: a.QuestionID, Value: a.Value}); err != nil {
				return err
			}
		}
		for _, up := range uploaded {
			doc := docByReq[up.reqID]
			if doc == nil {
				return fmt.Errorf("no document slot for requirement %d", up.reqID)
			}
			f := &domain.File{
				DocumentID: doc.ID,
				URL:        up.meta.URL,
				FileName:   up.meta.FileName,
				FileSize:   up.meta.FileSize,
				MimeType:   up.meta.MimeType,
				UploadedBy: actorID,
			}
			if err := r.Contracts.CreateFile(ctx, f); err != nil {
				return err
			}
		}

		from := locked.CurrentStageID
		locked.CurrentStageID = next.ID
		if err := r.Contracts.Save(ctx, locked); err != nil {
			return err
		}
		return r.Contracts.AppendHistory(ctx, &domain.StageHistory{
			ContractID:  contractID,
			FromStageID: &from,
			ToStageID:   next.ID,
			ChangedBy:   actorID,
			Note:        "submitted",
		})
	})
	if err != nil {
		// uploads already landed in storage; surface the mismatch for
		// manual reconciliation, storage offers no rollback
		if len(uploaded) > 0 {
			log.Printf("contract %d: %d uploaded file(s) have no metadata rows after failed submit: %v", contractID, len(uploaded), err)
		}
		return nil, err
	}

	c.CurrentStageID = next.ID
	return u.dto(c, next), nil
}

// nextOrderedStage returns the stage that follows current in stage_order.
func nextOrderedStage(ctx context.Context, repo wf.Repository, workflowID uint64, current *wf.Stage) (*wf.Stage, error) {
	stages, err := repo.ListStages(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	for i := range stages {
		if stages[i].StageOrder > current.StageOrder {
			return &stages[i], nil
		}
	}
	return nil, fmt.Errorf("no stage after %s in workflow %d", current.Code, workflowID)
}

// TransitionStage moves the contract along a validated edge. The stage
// update and its history row are one atomic unit; commission processing for
// triggering stages runs after commit and its failure is only logged.
func (u *Usecase) TransitionStage(ctx context.Context, actorID, contractID uint64, in TransitionInput) (*ContractDTO, error) {
	c, err := u.repo.GetByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	s, err := u.services.GetByID(ctx, c.ServiceID)
	if err != nil {
		return nil, err
	}
	dest, err := u.workflows.GetStage(ctx, in.ToStageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wf.ErrStageNotFound
		}
		return nil, err
	}

	if err := u.validator.ValidateTransition(ctx, s.WorkflowID, c.CurrentStageID, dest.ID, actorID); err != nil {
		return nil, err
	}

	commissioning := dest.TriggersCommission && s.CommissionEnabled
	var disbursement, revenuePct, totalRevenue decimal.Decimal
	if commissioning {
		if in.DisbursementAmount == nil || !in.DisbursementAmount.IsPositive() {
			return nil, domain.ErrInvalidDisbursement
		}
		if in.RevenuePercentage == nil || !in.RevenuePercentage.IsPositive() || in.RevenuePercentage.GreaterThan(decimal.NewFromInt(100)) {
			return nil, domain.ErrInvalidRevenuePct
		}
		disbursement = *in.DisbursementAmount
		revenuePct = *in.RevenuePercentage
		totalRevenue = disbursement.Mul(revenuePct).Div(decimal.NewFromInt(100))
	}

	err = u.uow.WithinContractTx(ctx, contractID, func(r uow.Repos, locked *domain.Contract) error {
		if locked.CurrentStageID != c.CurrentStageID {
			return fmt.Errorf("%w: contract moved concurrently", wf.ErrTransitionForbidden)
		}
		from := locked.CurrentStageID
		locked.CurrentStageID = dest.ID
		if commissioning {
			locked.DisbursedAmount = disbursement
			locked.RevenuePercentage = revenuePct
			locked.TotalRevenue = totalRevenue
		}
		if err := r.Contracts.Save(ctx, locked); err != nil {
			return err
		}
		if err := r.Contracts.AppendHistory(ctx, &domain.StageHistory{
			ContractID:  contractID,
			FromStageID: &from,
			ToStageID:   dest.ID,
			ChangedBy:   actorID,
			Note:        in.Note,
		}); err != nil {
			return err
		}
		c = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logAudit(ctx, actorID, "contract.stage_transition", contractID, map[string]any{
		"to_stage": dest.Code,
		"note":     in.Note,
	})

	// post-commit hook: the transition is already durable, commission
	// crediting is best-effort and independently retryable
	if commissioning {
		if _, err := u.commission.ProcessContractCompletion(ctx, contractID, c.UserID, disbursement, revenuePct, totalRevenue); err != nil {
			log.Printf("contract %d: commission processing failed (transition kept): %v", contractID, err)
		}
	}

	return u.dto(c, dest), nil
}

// UpdateDisbursedAmount is the admin correction path. It is closed once the
// contract sits on a commission-triggering stage, and before it leaves DRAFT.
func (u *Usecase) UpdateDisbursedAmount(ctx context.Context, actorID, contractID uint64, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidDisbursement
	}
	return u.uow.WithinContractTx(ctx, contractID, func(r uow.Repos, c *domain.Contract) error {
		stage, err := r.Workflows.GetStage(ctx, c.CurrentStageID)
		if err != nil {
			return err
		}
		if stage.Code == wf.StageCodeDraft {
			return fmt.Errorf("%w: contract still in draft", domain.ErrDisbursementLocked)
		}
		if stage.TriggersCommission {
			return fmt.Errorf("%w: stage %s triggers commission", domain.ErrDisbursementLocked, stage.Code)
		}
		c.DisbursedAmount = amount
		if err := r.Contracts.Save(ctx, c); err != nil {
			return err
		}
		u.logAudit(ctx, actorID, "contract.disbursed_amount_updated", contractID, map[string]any{"amount": amount.String()})
		return nil
	})
}

// List serves the owner view, the agent created-for-others view, and the
// admin search over contract number and owner email/phone/name.
func (u *Usecase) List(ctx context.Context, in ListInput) ([]ContractDTO, error) {
	f := domain.ListFilter{
		UserID:    in.OwnerID,
		CreatorID: in.CreatorID,
		ServiceID: in.ServiceID,
		StageID:   in.StageID,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	if in.Search != "" {
		f.Search = in.Search
		ids, err := u.users.SearchUserIDs(ctx, in.Search)
		if err != nil {
			return nil, err
		}
		f.OwnerIDs = ids
	}
	cs, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]ContractDTO, 0, len(cs))
	for i := range cs {
		stage, err := u.workflows.GetStage(ctx, cs[i].CurrentStageID)
		if err != nil {
			return nil, err
		}
		out = append(out, *u.dto(&cs[i], stage))
	}
	return out, nil
}

func (u *Usecase) History(ctx context.Context, actorID, contractID uint64) ([]HistoryDTO, error) {
	if _, err := u.getAuthorized(ctx, actorID, contractID); err != nil {
		return nil, err
	}
	hs, err := u.repo.ListHistory(ctx, contractID)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryDTO, 0, len(hs))
	for _, h := range hs {
		dto := HistoryDTO{ChangedBy: h.ChangedBy, Note: h.Note, ChangedAt: h.CreatedAt}
		to, err := u.workflows.GetStage(ctx, h.ToStageID)
		if err != nil {
			return nil, err
		}
		dto.ToStage = StageRef{ID: to.ID, Code: to.Code, Name: to.Name}
		if h.FromStageID != nil {
			from, err := u.workflows.GetStage(ctx, *h.FromStageID)
			if err != nil {
				return nil, err
			}
			dto.FromStage = &StageRef{ID: from.ID, Code: from.Code, Name: from.Name}
		}
		out = append(out, dto)
	}
	return out, nil
}

func (u *Usecase) logAudit(ctx context.Context, actorID uint64, action string, contractID uint64, meta map[string]any) {
	if u.auditor == nil {
		return
	}
	err := u.auditor.Log(ctx, audit.Entry{
		UserID:     actorID,
		Action:     action,
		TargetType: "contract",
		TargetID:   strconv.FormatUint(contractID, 10),
		Metadata:   meta,
	})
	if err != nil {
		log.Printf("audit: %s for contract %d failed: %v", action, contractID, err)
	}
}

func (u *Usecase) dto(c *domain.Contract, stage *wf.Stage) *ContractDTO {
	return &ContractDTO{
		ID:                c.ID,
		ContractNumber:    c.ContractNumber,
		UserID:            c.UserID,
		CreatorID:         c.CreatorID,
		ServiceID:         c.ServiceID,
		CurrentStage:      StageRef{ID: stage.ID, Code: stage.Code, Name: stage.Name},
		RequestedAmount:   c.RequestedAmount,
		DisbursedAmount:   c.DisbursedAmount,
		RevenuePercentage: c.RevenuePercentage,
		TotalRevenue:      c.TotalRevenue,
		CreatedAt:         c.CreatedAt,
	}
}
