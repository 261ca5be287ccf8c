package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"citysim/internal/delivery/http/response"
	"citysim/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const defaultLeaderboardSize = 10

// PlayerHandlerParams holds dependencies for PlayerHandler, injected by Fx.
type PlayerHandlerParams struct {
	fx.In

	PlayerUC usecase.PlayerUsecase
	Logger   *slog.Logger
}

// PlayerHandler serves player registration, profile and leaderboard.
type PlayerHandler struct {
	playerUC usecase.PlayerUsecase
	logger   *slog.Logger
}

// NewPlayerHandler is the constructor for PlayerHandler
func NewPlayerHandler(params PlayerHandlerParams) *PlayerHandler {
	return &PlayerHandler{
		playerUC: params.PlayerUC,
		logger:   params.Logger,
	}
}

// RegisterPlayerRequest represents the request body for joining the game
type RegisterPlayerRequest struct {
	WalletAddress string `json:"wallet_address" validate:"omitempty,max=128"`
	DisplayName   string `json:"display_name" validate:"required,max=64"`
}

// RegisterPlayer creates the game account of the authenticated player
func (h *PlayerHandler) RegisterPlayer(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}

	var req RegisterPlayerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respond(err)
	}

	player, err := h.playerUC.RegisterPlayer(c.Request().Context(), &usecase.RegisterPlayerInput{
		PlayerID:      playerID,
		WalletAddress: req.WalletAddress,
		DisplayName:   req.DisplayName,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, player, "Player registered successfully")
}

// GetMe returns the profile of the authenticated player
func (h *PlayerHandler) GetMe(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}

	profile, err := h.playerUC.GetProfile(c.Request().Context(), playerID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, profile, "")
}

// Leaderboard lists the top earners
func (h *PlayerHandler) Leaderboard(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}

	standings, err := h.playerUC.Leaderboard(c.Request().Context(), limit)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, standings, "")
}
