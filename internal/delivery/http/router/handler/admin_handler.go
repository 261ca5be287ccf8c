package handler

import (
	"log/slog"
	"net/http"
	"time"

	"citysim/internal/delivery/http/response"
	"citysim/internal/domain/entity"
	"citysim/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AdminHandlerParams holds dependencies for AdminHandler, injected by Fx.
type AdminHandlerParams struct {
	fx.In

	TreasuryUC usecase.TreasuryUsecase
	WalletUC   usecase.WalletUsecase
	SweepUC    usecase.SweepUsecase
	PlayerUC   usecase.PlayerUsecase
	Logger     *slog.Logger
}

// AdminHandler serves the operator endpoints.
type AdminHandler struct {
	treasuryUC usecase.TreasuryUsecase
	walletUC   usecase.WalletUsecase
	sweepUC    usecase.SweepUsecase
	playerUC   usecase.PlayerUsecase
	logger     *slog.Logger
}

// NewAdminHandler is the constructor for AdminHandler
func NewAdminHandler(params AdminHandlerParams) *AdminHandler {
	return &AdminHandler{
		treasuryUC: params.TreasuryUC,
		walletUC:   params.WalletUC,
		sweepUC:    params.SweepUC,
		playerUC:   params.PlayerUC,
		logger:     params.Logger,
	}
}

// CreditDepositRequest represents an on-chain deposit reported by the wallet watcher
type CreditDepositRequest struct {
	TxHash   string    `json:"tx_hash" validate:"required,max=128"`
	PlayerID uuid.UUID `json:"player_id" validate:"required"`
	Amount   string    `json:"amount" validate:"required,positive_decimal"`
}

// Treasury returns the revenue totals
func (h *AdminHandler) Treasury(c echo.Context) error {
	stats, err := h.treasuryUC.Stats(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, stats, "")
}

// TreasuryHealth returns the solvency report
func (h *AdminHandler) TreasuryHealth(c echo.Context) error {
	health, err := h.treasuryUC.Health(c.Request().Context(), time.Time{})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, health, "")
}

// ListPlayers pages through every registered player
func (h *AdminHandler) ListPlayers(c echo.Context) error {
	limit, offset := pagination(c)

	page, err := h.playerUC.ListPlayers(c.Request().Context(), limit, offset)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, page, "")
}

// ListTransactions pages through the whole ledger, filtered by ?type
func (h *AdminHandler) ListTransactions(c echo.Context) error {
	limit, offset := pagination(c)
	txType := entity.TransactionType(c.QueryParam("type"))

	page, err := h.walletUC.ListAllTransactions(c.Request().Context(), txType, limit, offset)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, page, "")
}

// ListWithdrawals lists withdrawals, filtered by ?status
func (h *AdminHandler) ListWithdrawals(c echo.Context) error {
	limit, offset := pagination(c)
	status := entity.TransactionStatus(c.QueryParam("status"))

	txs, err := h.walletUC.ListWithdrawals(c.Request().Context(), status, limit, offset)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, txs, "")
}

// ApproveWithdrawal settles a pending payout
func (h *AdminHandler) ApproveWithdrawal(c echo.Context) error {
	txID, err := uuidParam(c, "id")
	if err != nil {
		return respond(err)
	}

	tx, err := h.walletUC.ApproveWithdrawal(c.Request().Context(), txID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, tx, "Withdrawal approved")
}

// RejectWithdrawal refunds a pending payout
func (h *AdminHandler) RejectWithdrawal(c echo.Context) error {
	txID, err := uuidParam(c, "id")
	if err != nil {
		return respond(err)
	}

	tx, err := h.walletUC.RejectWithdrawal(c.Request().Context(), txID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, tx, "Withdrawal rejected")
}

// CreditDeposit credits an observed on-chain deposit
func (h *AdminHandler) CreditDeposit(c echo.Context) error {
	var req CreditDepositRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respond(err)
	}
	amount, err := parseAmount(c, req.Amount)
	if err != nil {
		return respond(err)
	}

	tx, err := h.walletUC.CreditDeposit(c.Request().Context(), &usecase.DepositInput{
		TxHash:   req.TxHash,
		PlayerID: req.PlayerID,
		Amount:   amount,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, tx, "Deposit credited")
}

// RunSweep triggers an automatic collection pass now
func (h *AdminHandler) RunSweep(c echo.Context) error {
	report, err := h.sweepUC.RunSweep(c.Request().Context(), time.Time{})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, report, "Sweep completed")
}
