package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Handler bundles the per-domain handlers and owns route registration.
type Handler struct {
	Workflows   *WorkflowHandler
	Contracts   *ContractHandler
	Wallets     *WalletHandler
	Commissions *CommissionHandler
}

func NewHandler(wf *WorkflowHandler, ct *ContractHandler, wl *WalletHandler, cm *CommissionHandler) *Handler {
	return &Handler{Workflows: wf, Contracts: ct, Wallets: wl, Commissions: cm}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Register wires every route. idem guards mutating endpoints against
// client retries; read-only routes skip it.
func (h *Handler) Register(e *echo.Echo, idem echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	wf := e.Group("/workflows")
	wf.POST("", h.Workflows.Create, idem)
	wf.GET("", h.Workflows.List)
	wf.GET("/:workflow_id", h.Workflows.Get)
	wf.GET("/:workflow_id/stages/:stage_id/transitions", h.Workflows.AvailableTransitions)
	wf.POST("/:workflow_id/stages", h.Workflows.CreateStage, idem)
	wf.DELETE("/stages/:stage_id", h.Workflows.DeleteStage)
	wf.POST("/:workflow_id/transitions", h.Workflows.CreateTransition, idem)
	wf.DELETE("/transitions/:transition_id", h.Workflows.DeleteTransition)

	ct := e.Group("/contracts")
	ct.POST("", h.Contracts.Create, idem)
	ct.GET("", h.Contracts.List)
	ct.GET("/:contract_id", h.Contracts.Get)
	ct.PUT("/:contract_id/answers", h.Contracts.UpdateAnswers)
	ct.POST("/:contract_id/submit", h.Contracts.Submit, idem)
	ct.POST("/:contract_id/transition", h.Contracts.Transition, idem)
	ct.PATCH("/:contract_id/disbursed-amount", h.Contracts.UpdateDisbursedAmount, idem)
	ct.GET("/:contract_id/history", h.Contracts.History)
	e.GET("/admin/contracts", h.Contracts.AdminList)

	e.GET("/wallet", h.Wallets.Get)
	e.GET("/wallet/transactions", h.Wallets.ListTransactions)
	wl := e.Group("/admin/wallets")
	wl.POST("/:wallet_id/credit", h.Wallets.Credit, idem)
	wl.POST("/:wallet_id/debit", h.Wallets.Debit, idem)
	wl.GET("/:wallet_id/integrity", h.Wallets.VerifyIntegrity)

	cm := e.Group("/commissions")
	cm.GET("/records", h.Commissions.ListRecords)
	cm.GET("/snapshots", h.Commissions.ListSnapshots)
	cm.GET("/snapshots/:snapshot_id", h.Commissions.GetSnapshot)
	cm.POST("/snapshots/:snapshot_id/process", h.Commissions.ProcessSnapshot, idem)
	cm.POST("/snapshots/run", h.Commissions.RunBatch, idem)
	cm.DELETE("/tiers/:tier_id", h.Commissions.DeleteTier)
	cm.GET("/revenue-stats", h.Commissions.RevenueStats)
}
