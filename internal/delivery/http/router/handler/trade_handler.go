package handler

import (
	"log/slog"
	"net/http"

	"citysim/internal/delivery/http/response"
	"citysim/internal/domain/economy"
	"citysim/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// TradeHandlerParams holds dependencies for TradeHandler, injected by Fx.
type TradeHandlerParams struct {
	fx.In

	TradeUC usecase.TradeUsecase
	Logger  *slog.Logger
}

// TradeHandler serves spot trades and supply contracts.
type TradeHandler struct {
	tradeUC usecase.TradeUsecase
	logger  *slog.Logger
}

// NewTradeHandler is the constructor for TradeHandler
func NewTradeHandler(params TradeHandlerParams) *TradeHandler {
	return &TradeHandler{
		tradeUC: params.TradeUC,
		logger:  params.Logger,
	}
}

// SpotTradeRequest represents the request body for a one-off resource sale
type SpotTradeRequest struct {
	SellerBusinessID uuid.UUID `json:"seller_business_id" validate:"required"`
	BuyerBusinessID  uuid.UUID `json:"buyer_business_id" validate:"required"`
	Resource         string    `json:"resource" validate:"required"`
	Amount           int64     `json:"amount" validate:"required,gt=0"`
}

// ContractRequest represents the request body for offering a supply contract
type ContractRequest struct {
	SellerBusinessID uuid.UUID `json:"seller_business_id" validate:"required"`
	BuyerBusinessID  uuid.UUID `json:"buyer_business_id" validate:"required"`
	Resource         string    `json:"resource" validate:"required"`
	AmountPerDay     int64     `json:"amount_per_day" validate:"required,gt=0"`
	PricePerUnit     string    `json:"price_per_unit" validate:"required,positive_decimal"`
	DurationDays     int       `json:"duration_days" validate:"required,gt=0,lte=365"`
}

// SpotTrade settles a resource sale at the reference price
func (h *TradeHandler) SpotTrade(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}

	var req SpotTradeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respond(err)
	}

	receipt, err := h.tradeUC.SpotTrade(c.Request().Context(), playerID, &usecase.SpotTradeInput{
		SellerBusinessID: req.SellerBusinessID,
		BuyerBusinessID:  req.BuyerBusinessID,
		Resource:         economy.ResourceType(req.Resource),
		Amount:           req.Amount,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, receipt, "Trade settled")
}

// CreateContract offers a supply contract
func (h *TradeHandler) CreateContract(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}

	var req ContractRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respond(err)
	}
	price, err := parseAmount(c, req.PricePerUnit)
	if err != nil {
		return respond(err)
	}

	contract, err := h.tradeUC.CreateContract(c.Request().Context(), playerID, &usecase.ContractInput{
		SellerBusinessID: req.SellerBusinessID,
		BuyerBusinessID:  req.BuyerBusinessID,
		Resource:         economy.ResourceType(req.Resource),
		AmountPerDay:     req.AmountPerDay,
		PricePerUnit:     price,
		DurationDays:     req.DurationDays,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, contract, "Contract offered")
}

// AcceptContract activates a contract on behalf of the buyer
func (h *TradeHandler) AcceptContract(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}
	contractID, err := uuidParam(c, "id")
	if err != nil {
		return respond(err)
	}

	contract, err := h.tradeUC.AcceptContract(c.Request().Context(), playerID, contractID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, contract, "Contract accepted")
}

// ListContracts lists the contracts of the authenticated player
func (h *TradeHandler) ListContracts(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}

	contracts, err := h.tradeUC.ListContracts(c.Request().Context(), playerID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, contracts, "")
}
