package handler

import (
	"log/slog"
	"net/http"
	"time"

	"citysim/internal/delivery/http/response"
	"citysim/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// IncomeHandlerParams holds dependencies for IncomeHandler, injected by Fx.
type IncomeHandlerParams struct {
	fx.In

	IncomeUC usecase.IncomeUsecase
	Logger   *slog.Logger
}

// IncomeHandler serves collection and the income projections.
type IncomeHandler struct {
	incomeUC usecase.IncomeUsecase
	logger   *slog.Logger
}

// NewIncomeHandler is the constructor for IncomeHandler
func NewIncomeHandler(params IncomeHandlerParams) *IncomeHandler {
	return &IncomeHandler{
		incomeUC: params.IncomeUC,
		logger:   params.Logger,
	}
}

// CollectIncome collects one business. The use case reads the clock.
func (h *IncomeHandler) CollectIncome(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}
	businessID, err := uuidParam(c, "id")
	if err != nil {
		return respond(err)
	}

	receipt, err := h.incomeUC.CollectIncome(c.Request().Context(), playerID, businessID, time.Time{})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	message := "Income collected"
	if !receipt.Collected {
		message = "Nothing to collect yet"
	}

	return response.Success(c, http.StatusOK, receipt, message)
}

// CollectAll collects every operational business of the player
func (h *IncomeHandler) CollectAll(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}

	result, err := h.incomeUC.CollectAll(c.Request().Context(), playerID, time.Time{})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result, "Income collected")
}

// PendingIncome shows what a collection now would pay
func (h *IncomeHandler) PendingIncome(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}

	pending, err := h.incomeUC.PendingIncome(c.Request().Context(), playerID, time.Time{})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, pending, "")
}

// IncomeTable returns the projections, optionally for one ?type
func (h *IncomeHandler) IncomeTable(c echo.Context) error {
	rows, err := h.incomeUC.IncomeTable(c.Request().Context(), c.QueryParam("type"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, rows, "")
}
