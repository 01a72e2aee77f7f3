// Package scheduler runs the monthly commission-snapshot batch. The cron
// wiring lives outside; this is the trigger check and the sweep itself.
package scheduler

import (
	"context"
	"log"
	"time"

	"lendops-backend/internal/domain/audit"
	"lendops-backend/internal/domain/commission"
	"lendops-backend/internal/domain/identity"
	"lendops-backend/internal/domain/sysconfig"
	commissionuc "lendops-backend/internal/usecase/commission"
	"lendops-backend/pkg/id"
	"lendops-backend/pkg/period"
)

// SnapshotCreator is the slice of the commission engine the batch invokes.
type SnapshotCreator interface {
	CreateMonthlySnapshot(ctx context.Context, userID uint64, year, month int) (*commissionuc.SnapshotDTO, error)
}

type UserResult struct {
	UserID uint64 `json:"user_id"`
	Err    string `json:"error,omitempty"`
}

type BatchResult struct {
	BatchID   string       `json:"batch_id"`
	Year      int          `json:"year"`
	Month     int          `json:"month"`
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Users     []UserResult `json:"users"`
}

type Scheduler struct {
	snapshots SnapshotCreator
	repo      commission.Repository
	syscfg    sysconfig.Store
	auditor   audit.Sink
	// now is replaceable in tests
	now func() time.Time
}

func New(snapshots SnapshotCreator, repo commission.Repository, syscfg sysconfig.Store, auditor audit.Sink) *Scheduler {
	return &Scheduler{snapshots: snapshots, repo: repo, syscfg: syscfg, auditor: auditor, now: time.Now}
}

// RunDaily fires the previous month's sweep when today matches the
// configured snapshot day-of-month. Any other day is a no-op.
func (s *Scheduler) RunDaily(ctx context.Context) (*BatchResult, error) {
	today := s.now().UTC()
	day := s.syscfg.GetInt(ctx, sysconfig.KeySnapshotDay, 1)
	if today.Day() != day {
		return nil, nil
	}
	year, month := period.PreviousMonth(today)
	return s.Run(ctx, year, month)
}

// Run sweeps every user holding commission records in the given month. One
// failing user is counted and skipped, never aborting the batch. The manual
// entry point for backfills.
func (s *Scheduler) Run(ctx context.Context, year, month int) (*BatchResult, error) {
	from, to := period.MonthWindow(year, month, time.UTC)
	users, err := s.repo.DistinctReferrersWithRecords(ctx, from, to)
	if err != nil {
		return nil, err
	}

	res := &BatchResult{BatchID: id.NewID32(), Year: year, Month: month, Total: len(users)}
	for _, userID := range users {
		if _, err := s.snapshots.CreateMonthlySnapshot(ctx, userID, year, month); err != nil {
			log.Printf("scheduler: snapshot for user %d %d-%02d failed: %v", userID, year, month, err)
			res.Failed++
			res.Users = append(res.Users, UserResult{UserID: userID, Err: err.Error()})
			continue
		}
		res.Succeeded++
		res.Users = append(res.Users, UserResult{UserID: userID})
	}

	if s.auditor != nil {
		err := s.auditor.Log(ctx, audit.Entry{
			UserID:     identity.SystemActorID,
			Action:     "commission.snapshot_batch",
			TargetType: "commission_snapshot",
			TargetID:   res.BatchID,
			Metadata: map[string]any{
				"year":      year,
				"month":     month,
				"total":     res.Total,
				"succeeded": res.Succeeded,
				"failed":    res.Failed,
			},
		})
		if err != nil {
			log.Printf("scheduler: audit entry for batch %s failed: %v", res.BatchID, err)
		}
	}
	return res, nil
}
