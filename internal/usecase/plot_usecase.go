package usecase

import (
	"context"

	"citysim/internal/domain/economy"
	"citysim/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlotQuote is the city price of a tile.
type PlotQuote struct {
	X     int             `json:"x"`
	Y     int             `json:"y"`
	Zone  economy.Zone    `json:"zone"`
	Price decimal.Decimal `json:"price"`
}

// PlotPurchaseReceipt describes a completed purchase from the city.
type PlotPurchaseReceipt struct {
	Plot        *entity.Plot        `json:"plot"`
	Transaction *entity.Transaction `json:"transaction"`
	Balance     decimal.Decimal     `json:"balance"`
}

// ResaleReceipt describes a completed purchase from another player.
type ResaleReceipt struct {
	Plot        *entity.Plot        `json:"plot"`
	Transaction *entity.Transaction `json:"transaction"`
	Price       decimal.Decimal     `json:"price"`
	Commission  decimal.Decimal     `json:"commission"`
	SellerNet   decimal.Decimal     `json:"seller_net"`
	BusinessID  *uuid.UUID          `json:"business_id,omitempty"` // Business transferred with the plot.
}

// PlotUsecase defines the interface for the plot lifecycle
type PlotUsecase interface {
	// Quote prices a tile without touching storage
	Quote(ctx context.Context, x, y int) (*PlotQuote, error)

	// GetPlot returns the tile at (x, y), creating it on first access
	GetPlot(ctx context.Context, x, y int) (*entity.Plot, error)

	// ListPlots lists stored tiles
	ListPlots(ctx context.Context, filter entity.PlotFilter) ([]*entity.Plot, error)

	// PurchasePlot buys a tile from the city
	PurchasePlot(ctx context.Context, playerID uuid.UUID, x, y int) (*PlotPurchaseReceipt, error)

	// ListResale offers an owned plot to other players
	ListResale(ctx context.Context, playerID, plotID uuid.UUID, price decimal.Decimal) (*entity.Plot, error)

	// CancelResale withdraws a resale offer
	CancelResale(ctx context.Context, playerID, plotID uuid.UUID) (*entity.Plot, error)

	// BuyResale buys a listed plot together with its business
	BuyResale(ctx context.Context, buyerID, plotID uuid.UUID) (*ResaleReceipt, error)
}
