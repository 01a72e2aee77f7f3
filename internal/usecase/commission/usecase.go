package commission

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	domain "lendops-backend/internal/domain/commission"
	"lendops-backend/internal/domain/contract"
	"lendops-backend/internal/domain/identity"
	"lendops-backend/internal/domain/sysconfig"
	"lendops-backend/internal/domain/uow"
	"lendops-backend/internal/domain/wallet"
	"lendops-backend/pkg/period"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const rateCacheTTL = 5 * time.Minute

type Usecase struct {
	repo      domain.Repository
	contracts contract.Repository
	users     identity.Users
	rbac      identity.RBAC
	syscfg    sysconfig.Store
	uow       uow.UnitOfWork
	// rdb caches referrer rates; nil disables caching.
	rdb *redis.Client
}

func NewUsecase(repo domain.Repository, contracts contract.Repository, users identity.Users, rbac identity.RBAC, syscfg sysconfig.Store, tx uow.UnitOfWork, rdb *redis.Client) *Usecase {
	return &Usecase{repo: repo, contracts: contracts, users: users, rbac: rbac, syscfg: syscfg, uow: tx, rdb: rdb}
}

// GetReferrerCommissionRate resolves the fraction in [0,1] a referrer earns:
// CTV role config first, then USER, then zero.
func (u *Usecase) GetReferrerCommissionRate(ctx context.Context, referrerID uint64) (decimal.Decimal, error) {
	cacheKey := "commission_rate:" + strconv.FormatUint(referrerID, 10)
	if u.rdb != nil {
		if cached, err := u.rdb.Get(ctx, cacheKey).Result(); err == nil {
			if rate, perr := decimal.NewFromString(cached); perr == nil {
				return rate, nil
			}
		}
	}

	roles, err := u.rbac.GetUserRoles(ctx, referrerID)
	if err != nil {
		return decimal.Zero, err
	}

	rate := decimal.Zero
	for _, role := range []string{identity.RoleCTV, identity.RoleUser} {
		if !identity.HoldsRole(roles, role) {
			continue
		}
		cfg, err := u.repo.GetActiveConfig(ctx, role)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return decimal.Zero, err
		}
		rate = cfg.Rate
		break
	}

	if u.rdb != nil {
		// best effort; a cache miss later just re-resolves
		if err := u.rdb.Set(ctx, cacheKey, rate.String(), rateCacheTTL).Err(); err != nil {
			log.Printf("commission: rate cache set failed: %v", err)
		}
	}
	return rate, nil
}

// ProcessContractCompletion creates the commission record for a contract
// and credits the referrer's wallet. Idempotent per contract: a second
// invocation finds the existing record and does nothing. Returns nil (no
// error) when there is nothing to pay: no referrer, or zero rate.
func (u *Usecase) ProcessContractCompletion(ctx context.Context, contractID, userID uint64, disbursement, revenuePct, totalRevenue decimal.Decimal) (*RecordDTO, error) {
	referrerID, err := u.users.GetReferrerID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if referrerID == nil {
		return nil, nil
	}

	if _, err := u.repo.GetRecordByContract(ctx, contractID); err == nil {
		log.Printf("commission: record already exists for contract %d, skipping", contractID)
		return nil, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rate, err := u.GetReferrerCommissionRate(ctx, *referrerID)
	if err != nil {
		return nil, err
	}
	if rate.IsZero() {
		return nil, nil
	}

	amount := totalRevenue.Mul(rate)

	var dto *RecordDTO
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		// re-check under the tx; the unique index on contract_id backs this up
		if _, err := r.Commissions.GetRecordByContract(ctx, contractID); err == nil {
			log.Printf("commission: record already exists for contract %d, skipping", contractID)
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		rec := &domain.Record{
			ContractID:         contractID,
			ReferrerID:         *referrerID,
			Amount:             amount,
			Rate:               rate,
			DisbursementAmount: disbursement,
			RevenuePercentage:  revenuePct,
			TotalRevenue:       totalRevenue,
			Status:             domain.RecordPending,
		}
		if err := r.Commissions.CreateRecord(ctx, rec); err != nil {
			return err
		}

		if err := creditWallet(ctx, r, *referrerID, amount,
			strconv.FormatUint(rec.ID, 10), RefTypeCommission,
			fmt.Sprintf("referral commission for contract %d", contractID)); err != nil {
			return err
		}

		now := time.Now().UTC()
		rec.Status = domain.RecordCredited
		rec.CreditedAt = &now
		if err := r.Commissions.SaveRecord(ctx, rec); err != nil {
			return err
		}

		dto = recordDTO(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// creditWallet lazily creates the user's wallet, then appends a CREDIT row
// and moves the cached balance, all within the caller's transaction.
func creditWallet(ctx context.Context, r uow.Repos, userID uint64, amount decimal.Decimal, refID, refType, description string) error {
	w, err := r.Wallets.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		w = &wallet.Wallet{UserID: userID, Balance: decimal.Zero}
		if err := r.Wallets.Create(ctx, w); err != nil {
			return err
		}
	}
	w, err = r.Wallets.GetByIDForUpdate(ctx, w.ID)
	if err != nil {
		return err
	}

	next := w.Balance.Add(amount)
	t := &wallet.Transaction{
		WalletID:      w.ID,
		Type:          wallet.TypeCredit,
		Amount:        amount,
		BalanceAfter:  next,
		ReferenceID:   refID,
		ReferenceType: refType,
		Description:   description,
	}
	if err := r.Wallets.AppendTransaction(ctx, t); err != nil {
		return err
	}
	w.Balance = next
	return r.Wallets.Save(ctx, w)
}

// CalculateKpiTier scans the role's active tiers best-first and returns the
// evaluation of the first one whose thresholds are all satisfied. No
// qualifying tier yields nil.
func (u *Usecase) CalculateKpiTier(ctx context.Context, roleCode string, totalContracts int, totalDisbursement decimal.Decimal) (*TierEvaluation, error) {
	tiers, err := u.repo.ListActiveTiers(ctx, roleCode)
	if err != nil {
		return nil, err
	}
	for i := range tiers {
		t := &tiers[i]
		if t.Qualifies(totalContracts, totalDisbursement) {
			return &TierEvaluation{
				TierID: t.ID,
				Name:   t.Name,
				Bonus:  t.Reward().Evaluate(totalDisbursement),
			}, nil
		}
	}
	return nil, nil
}

// CreateMonthlySnapshot materializes the (user, year, month) rollup.
// Idempotent: an existing snapshot is returned unchanged. Snapshot creation
// never moves money; ProcessSnapshotBonus does.
func (u *Usecase) CreateMonthlySnapshot(ctx context.Context, userID uint64, year, month int) (*SnapshotDTO, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d", month)
	}

	if existing, err := u.repo.GetSnapshotByPeriod(ctx, userID, year, month); err == nil {
		return snapshotDTO(existing), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	from, to := period.MonthWindow(year, month, time.UTC)
	totals, err := u.repo.AggregateCredited(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	roles, err := u.rbac.GetUserRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	roleCode := identity.RoleUser
	if identity.HoldsRole(roles, identity.RoleCTV) {
		roleCode = identity.RoleCTV
	}

	var tierID *uint64
	bonus := decimal.Zero
	if u.syscfg.GetBool(ctx, sysconfig.KeyKpiEvaluationEnabled, true) {
		eval, err := u.CalculateKpiTier(ctx, roleCode, totals.Contracts, totals.TotalDisbursement)
		if err != nil {
			return nil, err
		}
		if eval != nil {
			tierID = &eval.TierID
			bonus = eval.Bonus
		}
	}

	snap := &domain.Snapshot{
		UserID:            userID,
		Year:              year,
		Month:             month,
		TotalContracts:    totals.Contracts,
		TotalDisbursement: totals.TotalDisbursement,
		BaseCommission:    totals.BaseCommission,
		KpiTierID:         tierID,
		BonusCommission:   bonus,
		TotalCommission:   totals.BaseCommission.Add(bonus),
		Status:            domain.SnapshotPending,
	}
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Commissions.CreateSnapshot(ctx, snap)
	})
	if err != nil {
		// lost a creation race: the unique (user, period) index rejected us,
		// so return the row that won
		if existing, gerr := u.repo.GetSnapshotByPeriod(ctx, userID, year, month); gerr == nil {
			return snapshotDTO(existing), nil
		}
		return nil, err
	}
	return snapshotDTO(snap), nil
}

// ProcessSnapshotBonus pays out a snapshot's bonus. This is the only point
// bonus money moves. Rejected when the snapshot was already processed.
func (u *Usecase) ProcessSnapshotBonus(ctx context.Context, snapshotID, adminID uint64) (*SnapshotDTO, error) {
	var dto *SnapshotDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		snap, err := r.Commissions.GetSnapshot(ctx, snapshotID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrSnapshotNotFound
			}
			return err
		}
		if snap.Status != domain.SnapshotPending {
			return fmt.Errorf("%w: status %s", domain.ErrSnapshotProcessed, snap.Status)
		}

		if snap.BonusCommission.IsPositive() {
			refID := strconv.FormatUint(snap.ID, 10)
			desc := fmt.Sprintf("KPI bonus %d-%02d", snap.Year, snap.Month)
			if err := creditWallet(ctx, r, snap.UserID, snap.BonusCommission, refID, RefTypeKpiBonus, desc); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		snap.Status = domain.SnapshotProcessed
		snap.ProcessedAt = &now
		snap.ProcessedBy = &adminID
		if err := r.Commissions.SaveSnapshot(ctx, snap); err != nil {
			return err
		}
		dto = snapshotDTO(snap)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) GetSnapshot(ctx context.Context, id uint64) (*SnapshotDTO, error) {
	snap, err := u.repo.GetSnapshot(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, err
	}
	return snapshotDTO(snap), nil
}

func (u *Usecase) ListSnapshots(ctx context.Context, userID uint64) ([]SnapshotDTO, error) {
	snaps, err := u.repo.ListSnapshots(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]SnapshotDTO, 0, len(snaps))
	for i := range snaps {
		out = append(out, *snapshotDTO(&snaps[i]))
	}
	return out, nil
}

func (u *Usecase) ListRecords(ctx context.Context, referrerID uint64, limit, offset int) ([]RecordDTO, error) {
	recs, err := u.repo.ListRecordsByReferrer(ctx, referrerID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]RecordDTO, 0, len(recs))
	for i := range recs {
		out = append(out, *recordDTO(&recs[i]))
	}
	return out, nil
}

// DeleteTier refuses once any snapshot references the tier.
func (u *Usecase) DeleteTier(ctx context.Context, tierID uint64) error {
	if _, err := u.repo.GetTier(ctx, tierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTierNotFound
		}
		return err
	}
	n, err := u.repo.CountSnapshotsByTier(ctx, tierID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %d snapshot(s)", domain.ErrTierReferenced, n)
	}
	return u.repo.DeleteTier(ctx, tierID)
}

// RevenueStats is read-only reporting over contract revenue for one period
// bucket, optionally restricted to an agent's created contracts.
func (u *Usecase) RevenueStats(ctx context.Context, in RevenueStatsInput) (*RevenueStatsDTO, error) {
	at := in.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	rng, err := period.Bucket(at, period.Kind(in.Period))
	if err != nil {
		return nil, err
	}

	var totals contract.RevenueTotals
	if in.CreatorID != nil {
		totals, err = u.contracts.SumRevenueByCreator(ctx, *in.CreatorID, rng.Start, rng.End)
	} else {
		totals, err = u.contracts.SumRevenueBetween(ctx, rng.Start, rng.End)
	}
	if err != nil {
		return nil, err
	}
	return &RevenueStatsDTO{
		PeriodStart:    rng.Start,
		PeriodEnd:      rng.End,
		Contracts:      totals.Contracts,
		TotalDisbursed: totals.TotalDisbursed,
		TotalRevenue:   totals.TotalRevenue,
	}, nil
}

func recordDTO(r *domain.Record) *RecordDTO {
	return &RecordDTO{
		ID:                 r.ID,
		ContractID:         r.ContractID,
		ReferrerID:         r.ReferrerID,
		Amount:             r.Amount,
		Rate:               r.Rate,
		DisbursementAmount: r.DisbursementAmount,
		RevenuePercentage:  r.RevenuePercentage,
		TotalRevenue:       r.TotalRevenue,
		Status:             string(r.Status),
		CreditedAt:         r.CreditedAt,
	}
}

func snapshotDTO(s *domain.Snapshot) *SnapshotDTO {
	return &SnapshotDTO{
		ID:                s.ID,
		UserID:            s.UserID,
		Year:              s.Year,
		Month:             s.Month,
		TotalContracts:    s.TotalContracts,
		TotalDisbursement: s.TotalDisbursement,
		BaseCommission:    s.BaseCommission,
		KpiTierID:         s.KpiTierID,
		BonusCommission:   s.BonusCommission,
		TotalCommission:   s.TotalCommission,
		Status:            string(s.Status),
		ProcessedAt:       s.ProcessedAt,
	}
}
