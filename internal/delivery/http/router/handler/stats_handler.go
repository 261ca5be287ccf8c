package handler

import (
	"log/slog"
	"net/http"

	"citysim/internal/delivery/http/response"
	"citysim/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// StatsHandlerParams holds dependencies for StatsHandler, injected by Fx.
type StatsHandlerParams struct {
	fx.In

	TreasuryUC usecase.TreasuryUsecase
	Logger     *slog.Logger
}

// StatsHandler serves the public city dashboard.
type StatsHandler struct {
	treasuryUC usecase.TreasuryUsecase
	logger     *slog.Logger
}

// NewStatsHandler is the constructor for StatsHandler
func NewStatsHandler(params StatsHandlerParams) *StatsHandler {
	return &StatsHandler{
		treasuryUC: params.TreasuryUC,
		logger:     params.Logger,
	}
}

// GameStats returns plot, player and business counts with the traded volume
func (h *StatsHandler) GameStats(c echo.Context) error {
	stats, err := h.treasuryUC.GameStats(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, stats, "")
}
