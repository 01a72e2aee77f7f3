package http

import (
	"net/http"
	"time"

	"lendops-backend/internal/scheduler"
	"lendops-backend/internal/usecase/commission"

	"github.com/labstack/echo/v4"
)

type CommissionHandler struct {
	uc    *commission.Usecase
	batch *scheduler.Scheduler
}

func NewCommissionHandler(uc *commission.Usecase, batch *scheduler.Scheduler) *CommissionHandler {
	return &CommissionHandler{uc: uc, batch: batch}
}

func (h *CommissionHandler) ListRecords(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	dtos, err := h.uc.ListRecords(c.Request().Context(), actor,
		queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *CommissionHandler) ListSnapshots(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	dtos, err := h.uc.ListSnapshots(c.Request().Context(), actor)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *CommissionHandler) GetSnapshot(c echo.Context) error {
	id, err := pathID(c, "snapshot_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	dto, err := h.uc.GetSnapshot(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// ProcessSnapshot pays out a pending snapshot's bonus. Idempotent at the
// usecase level; a second call answers 409.
func (h *CommissionHandler) ProcessSnapshot(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	id, err := pathID(c, "snapshot_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	dto, err := h.uc.ProcessSnapshotBonus(c.Request().Context(), id, actor)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type runBatchReq struct {
	Year  int `json:"year"  validate:"required,gte=2000,lte=2100"`
	Month int `json:"month" validate:"required,gte=1,lte=12"`
}

// RunBatch is the manual backfill trigger for a month's snapshot sweep.
func (h *CommissionHandler) RunBatch(c echo.Context) error {
	var req runBatchReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	res, err := h.batch.Run(c.Request().Context(), req.Year, req.Month)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CommissionHandler) DeleteTier(c echo.Context) error {
	id, err := pathID(c, "tier_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.uc.DeleteTier(c.Request().Context(), id); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RevenueStats reports contract and revenue totals for the period bucket
// around `at` (default now). period is one of day, week, month, year.
func (h *CommissionHandler) RevenueStats(c echo.Context) error {
	period := c.QueryParam("period")
	switch period {
	case "day", "week", "month", "year":
	default:
		return badRequest(c, "period must be one of: day, week, month, year")
	}

	at := time.Now().UTC()
	if raw := c.QueryParam("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return badRequest(c, "at must be RFC3339")
		}
		at = parsed
	}

	dto, err := h.uc.RevenueStats(c.Request().Context(), commission.RevenueStatsInput{
		Period:    period,
		At:        at,
		CreatorID: queryUint64Ptr(c, "creator_id"),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
