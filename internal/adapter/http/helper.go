package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	commission "lendops-backend/internal/domain/commission"
	contract "lendops-backend/internal/domain/contract"
	svc "lendops-backend/internal/domain/service"
	wallet "lendops-backend/internal/domain/wallet"
	wf "lendops-backend/internal/domain/workflow"

	"github.com/labstack/echo/v4"
)

// HeaderActorID carries the authenticated user id, set by the gateway in
// front of this service.
const HeaderActorID = "X-Actor-Id"

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func actorID(c echo.Context) (uint64, error) {
	raw := strings.TrimSpace(c.Request().Header.Get(HeaderActorID))
	if raw == "" {
		return 0, errors.New("missing " + HeaderActorID + " header")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + HeaderActorID + " header")
	}
	return id, nil
}

func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name + " path param")
	}
	return id, nil
}

func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func queryUint64Ptr(c echo.Context, name string) *uint64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

var errStatuses = []struct {
	err    error
	status int
}{
	{contract.ErrNotFound, http.StatusNotFound},
	{wallet.ErrNotFound, http.StatusNotFound},
	{wf.ErrNotFound, http.StatusNotFound},
	{wf.ErrStageNotFound, http.StatusNotFound},
	{svc.ErrNotFound, http.StatusNotFound},
	{commission.ErrRecordNotFound, http.StatusNotFound},
	{commission.ErrSnapshotNotFound, http.StatusNotFound},
	{commission.ErrTierNotFound, http.StatusNotFound},
	{commission.ErrConfigNotFound, http.StatusNotFound},

	{contract.ErrNotOwner, http.StatusForbidden},
	{wf.ErrTransitionForbidden, http.StatusForbidden},

	{contract.ErrAlreadySubmitted, http.StatusConflict},
	{contract.ErrDisbursementLocked, http.StatusConflict},
	{wf.ErrDuplicateStageCode, http.StatusConflict},
	{wf.ErrDuplicateTransition, http.StatusConflict},
	{wf.ErrStageOccupied, http.StatusConflict},
	{commission.ErrSnapshotProcessed, http.StatusConflict},
	{commission.ErrDuplicateSnapshot, http.StatusConflict},
	{commission.ErrTierReferenced, http.StatusConflict},
	{commission.ErrConfigAlreadyActive, http.StatusConflict},

	{contract.ErrAmountOutOfRange, http.StatusUnprocessableEntity},
	{contract.ErrInvalidDisbursement, http.StatusUnprocessableEntity},
	{contract.ErrInvalidRevenuePct, http.StatusUnprocessableEntity},
	{wallet.ErrInvalidAmount, http.StatusUnprocessableEntity},
	{wallet.ErrInsufficientBalance, http.StatusUnprocessableEntity},
	{svc.ErrInactive, http.StatusUnprocessableEntity},
}

// domainError maps sentinel errors to HTTP codes. Unknown errors become an
// opaque 500 so internals never leak to callers.
func domainError(c echo.Context, err error) error {
	for _, m := range errStatuses {
		if errors.Is(err, m.err) {
			return c.JSON(m.status, ErrorResponse{Error: err.Error()})
		}
	}
	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func unauthorized(c echo.Context, err error) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}
