package http

import (
	"net/http"

	"lendops-backend/internal/usecase/wallet"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type WalletHandler struct{ uc *wallet.Usecase }

func NewWalletHandler(uc *wallet.Usecase) *WalletHandler { return &WalletHandler{uc: uc} }

type walletResp struct {
	ID      uint64          `json:"id"`
	UserID  uint64          `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
}

// Get returns the actor's wallet, creating it on first touch.
func (h *WalletHandler) Get(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	w, err := h.uc.GetOrCreateWallet(c.Request().Context(), actor)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, walletResp{ID: w.ID, UserID: w.UserID, Balance: w.Balance})
}

func (h *WalletHandler) ListTransactions(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	w, err := h.uc.GetOrCreateWallet(c.Request().Context(), actor)
	if err != nil {
		return domainError(c, err)
	}
	dtos, err := h.uc.ListTransactions(c.Request().Context(), w.ID,
		queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

type mutationReq struct {
	Amount        decimal.Decimal `json:"amount"`
	ReferenceID   string          `json:"reference_id"`
	ReferenceType string          `json:"reference_type"`
	Description   string          `json:"description"`
}

func (in mutationReq) toInput() wallet.MutationInput {
	return wallet.MutationInput{
		Amount:        in.Amount,
		ReferenceID:   in.ReferenceID,
		ReferenceType: in.ReferenceType,
		Description:   in.Description,
	}
}

// Credit is the back-office adjustment entry point; organic credits come
// from the commission engine.
func (h *WalletHandler) Credit(c echo.Context) error {
	id, err := pathID(c, "wallet_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req mutationReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	dto, err := h.uc.Credit(c.Request().Context(), id, req.toInput())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *WalletHandler) Debit(c echo.Context) error {
	id, err := pathID(c, "wallet_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req mutationReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	dto, err := h.uc.Debit(c.Request().Context(), id, req.toInput())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// VerifyIntegrity re-sums the transaction log and reports drift against the
// cached balance.
func (h *WalletHandler) VerifyIntegrity(c echo.Context) error {
	id, err := pathID(c, "wallet_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	report, err := h.uc.VerifyWalletIntegrity(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}
