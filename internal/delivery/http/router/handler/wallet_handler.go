package handler

import (
	"log/slog"
	"net/http"

	"citysim/internal/delivery/http/response"
	"citysim/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// WalletHandlerParams holds dependencies for WalletHandler, injected by Fx.
type WalletHandlerParams struct {
	fx.In

	WalletUC usecase.WalletUsecase
	Logger   *slog.Logger
}

// WalletHandler serves the player side of deposits and withdrawals.
type WalletHandler struct {
	walletUC usecase.WalletUsecase
	logger   *slog.Logger
}

// NewWalletHandler is the constructor for WalletHandler
func NewWalletHandler(params WalletHandlerParams) *WalletHandler {
	return &WalletHandler{
		walletUC: params.WalletUC,
		logger:   params.Logger,
	}
}

// WithdrawRequest represents the request body for a payout
type WithdrawRequest struct {
	Amount    string `json:"amount" validate:"required,positive_decimal"`
	ToAddress string `json:"to_address" validate:"omitempty,max=128"`
}

// RequestWithdrawal queues a payout for review
func (h *WalletHandler) RequestWithdrawal(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}

	var req WithdrawRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respond(err)
	}
	amount, err := parseAmount(c, req.Amount)
	if err != nil {
		return respond(err)
	}

	tx, err := h.walletUC.RequestWithdrawal(c.Request().Context(), playerID, &usecase.WithdrawalRequest{
		Amount:    amount,
		ToAddress: req.ToAddress,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusAccepted, tx, "Withdrawal requested")
}

// ListTransactions lists the ledger of the authenticated player
func (h *WalletHandler) ListTransactions(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}

	limit, offset := pagination(c)
	txs, err := h.walletUC.ListTransactions(c.Request().Context(), playerID, limit, offset)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, txs, "")
}

// DepositQR returns the deposit QR code as a PNG
func (h *WalletHandler) DepositQR(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}

	png, err := h.walletUC.DepositQR(c.Request().Context(), playerID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
