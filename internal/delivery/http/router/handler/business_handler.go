package handler

import (
	"log/slog"
	"net/http"

	"citysim/internal/delivery/http/response"
	"citysim/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// BusinessHandlerParams holds dependencies for BusinessHandler, injected by Fx.
type BusinessHandlerParams struct {
	fx.In

	BusinessUC usecase.BusinessUsecase
	Logger     *slog.Logger
}

// BusinessHandler serves construction and demolition.
type BusinessHandler struct {
	businessUC usecase.BusinessUsecase
	logger     *slog.Logger
}

// NewBusinessHandler is the constructor for BusinessHandler
func NewBusinessHandler(params BusinessHandlerParams) *BusinessHandler {
	return &BusinessHandler{
		businessUC: params.BusinessUC,
		logger:     params.Logger,
	}
}

// BuildBusinessRequest represents the request body for constructing a business
type BuildBusinessRequest struct {
	PlotID       uuid.UUID `json:"plot_id" validate:"required"`
	BusinessType string    `json:"business_type" validate:"required"`
}

// ListTypes returns the business catalog
func (h *BusinessHandler) ListTypes(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.businessUC.ListTypes(c.Request().Context()), "")
}

// BuildBusiness constructs a business on an owned plot
func (h *BusinessHandler) BuildBusiness(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}

	var req BuildBusinessRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respond(err)
	}

	receipt, err := h.businessUC.BuildBusiness(c.Request().Context(), playerID, req.PlotID, req.BusinessType)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, receipt, "Business built successfully")
}

// DemolishBusiness removes a business
func (h *BusinessHandler) DemolishBusiness(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}
	businessID, err := uuidParam(c, "id")
	if err != nil {
		return respond(err)
	}

	receipt, err := h.businessUC.DemolishBusiness(c.Request().Context(), playerID, businessID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, receipt, "Business demolished")
}

// ListMyBusinesses lists the businesses of the authenticated player
func (h *BusinessHandler) ListMyBusinesses(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}

	businesses, err := h.businessUC.ListPlayerBusinesses(c.Request().Context(), playerID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, businesses, "")
}

// GetBusiness returns one business
func (h *BusinessHandler) GetBusiness(c echo.Context) error {
	businessID, err := uuidParam(c, "id")
	if err != nil {
		return respond(err)
	}

	business, err := h.businessUC.GetBusiness(c.Request().Context(), businessID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, business, "")
}
