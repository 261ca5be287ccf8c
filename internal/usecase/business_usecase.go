package usecase

import (
	"context"

	"citysim/internal/domain/economy"
	"citysim/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BusinessTypeInfo is a catalog entry with its total construction cost.
type BusinessTypeInfo struct {
	economy.BusinessType
	ConstructionCost decimal.Decimal `json:"construction_cost"`
}

// BusinessReceipt describes a completed construction.
type BusinessReceipt struct {
	Business    *entity.Business    `json:"business"`
	Transaction *entity.Transaction `json:"transaction"`
	Connected   []uuid.UUID         `json:"connected"` // Businesses linked during construction.
	Balance     decimal.Decimal     `json:"balance"`
}

// DemolishReceipt describes a completed demolition.
type DemolishReceipt struct {
	BusinessID   uuid.UUID           `json:"business_id"`
	PlotID       uuid.UUID           `json:"plot_id"`
	Fee          decimal.Decimal     `json:"fee"`
	Disconnected []uuid.UUID         `json:"disconnected"`
	Transaction  *entity.Transaction `json:"transaction"`
	Balance      decimal.Decimal     `json:"balance"`
}

// BusinessUsecase defines the interface for constructing and removing businesses
type BusinessUsecase interface {
	// ListTypes returns the catalog in display order
	ListTypes(ctx context.Context) []BusinessTypeInfo

	// BuildBusiness constructs a business on an owned, empty plot
	BuildBusiness(ctx context.Context, playerID, plotID uuid.UUID, businessType string) (*BusinessReceipt, error)

	// DemolishBusiness removes a business and charges the demolish fee
	DemolishBusiness(ctx context.Context, playerID, businessID uuid.UUID) (*DemolishReceipt, error)

	// GetBusiness returns a business by id
	GetBusiness(ctx context.Context, businessID uuid.UUID) (*entity.Business, error)

	// ListPlayerBusinesses lists the businesses a player owns
	ListPlayerBusinesses(ctx context.Context, playerID uuid.UUID) ([]*entity.Business, error)
}
