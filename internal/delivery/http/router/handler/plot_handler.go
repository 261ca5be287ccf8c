package handler

import (
	"log/slog"
	"net/http"

	"citysim/internal/delivery/http/response"
	"citysim/internal/domain/economy"
	"citysim/internal/domain/entity"
	"citysim/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PlotHandlerParams holds dependencies for PlotHandler, injected by Fx.
type PlotHandlerParams struct {
	fx.In

	PlotUC usecase.PlotUsecase
	Logger *slog.Logger
}

// PlotHandler serves the map and the plot market.
type PlotHandler struct {
	plotUC usecase.PlotUsecase
	logger *slog.Logger
}

// NewPlotHandler is the constructor for PlotHandler
func NewPlotHandler(params PlotHandlerParams) *PlotHandler {
	return &PlotHandler{
		plotUC: params.PlotUC,
		logger: params.Logger,
	}
}

// PurchasePlotRequest represents the request body for buying a plot from the city
type PurchasePlotRequest struct {
	X *int `json:"x" validate:"required,min=0"`
	Y *int `json:"y" validate:"required,min=0"`
}

// ListResaleRequest represents the request body for offering a plot
type ListResaleRequest struct {
	PlotID uuid.UUID `json:"plot_id" validate:"required"`
	Price  string    `json:"price" validate:"required,positive_decimal"`
}

func (h *PlotHandler) coordinates(c echo.Context) (int, int, error) {
	x, err := intParam(c, "x")
	if err != nil {
		return 0, 0, err
	}
	y, err := intParam(c, "y")
	if err != nil {
		return 0, 0, err
	}

	return x, y, nil
}

// Quote prices a tile
func (h *PlotHandler) Quote(c echo.Context) error {
	x, y, err := h.coordinates(c)
	if err != nil {
		return respond(err)
	}

	quote, err := h.plotUC.Quote(c.Request().Context(), x, y)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, quote, "")
}

// GetPlot returns the tile at the given coordinates
func (h *PlotHandler) GetPlot(c echo.Context) error {
	x, y, err := h.coordinates(c)
	if err != nil {
		return respond(err)
	}

	plot, err := h.plotUC.GetPlot(c.Request().Context(), x, y)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, plot, "")
}

// ListPlots lists stored tiles, filtered by zone, owner, availability or resale
func (h *PlotHandler) ListPlots(c echo.Context) error {
	limit, offset := pagination(c)
	filter := entity.PlotFilter{
		Zone:          economy.Zone(c.QueryParam("zone")),
		AvailableOnly: c.QueryParam("available") == "true",
		ResaleOnly:    c.QueryParam("resale") == "true",
		Limit:         limit,
		Offset:        offset,
	}
	if owner := c.QueryParam("owner"); owner != "" {
		ownerID, err := uuid.Parse(owner)
		if err != nil {
			return response.BadRequest(c, "INVALID_ID", "Invalid owner")
		}
		filter.OwnerID = &ownerID
	}

	plots, err := h.plotUC.ListPlots(c.Request().Context(), filter)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, plots, "")
}

// PurchasePlot buys a tile from the city
func (h *PlotHandler) PurchasePlot(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}

	var req PurchasePlotRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respond(err)
	}

	receipt, err := h.plotUC.PurchasePlot(c.Request().Context(), playerID, *req.X, *req.Y)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, receipt, "Plot purchased successfully")
}

// ListResale offers an owned plot to other players
func (h *PlotHandler) ListResale(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}

	var req ListResaleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respond(err)
	}
	price, err := parseAmount(c, req.Price)
	if err != nil {
		return respond(err)
	}

	plot, err := h.plotUC.ListResale(c.Request().Context(), playerID, req.PlotID, price)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, plot, "Plot listed for resale")
}

// CancelResale withdraws a resale offer
func (h *PlotHandler) CancelResale(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}
	plotID, err := uuidParam(c, "id")
	if err != nil {
		return respond(err)
	}

	plot, err := h.plotUC.CancelResale(c.Request().Context(), playerID, plotID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, plot, "Resale cancelled")
}

// BuyResale buys a listed plot with its business
func (h *PlotHandler) BuyResale(c echo.Context) error {
	playerID, err := currentPlayer(c)
	if err != nil {
		return respond(err)
	}
	plotID, err := uuidParam(c, "id")
	if err != nil {
		return respond(err)
	}

	receipt, err := h.plotUC.BuyResale(c.Request().Context(), playerID, plotID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, receipt, "Plot bought successfully")
}
