// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"citysim/internal/domain/economy"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Plot is one tile of the city map. A plot is created on first access and
// never deleted.
type Plot struct {
	ID          uuid.UUID       `json:"id"`                    // Stable identifier of the tile.
	X           int             `json:"x"`                     // Column on the map.
	Y           int             `json:"y"`                     // Row on the map.
	Zone        economy.Zone    `json:"zone"`                  // Zone derived from the distance to the center.
	BasePrice   decimal.Decimal `json:"base_price"`            // Price computed from the coordinates.
	Price       decimal.Decimal `json:"price"`                 // Current asking price; differs from BasePrice while listed for resale.
	OwnerID     *uuid.UUID      `json:"owner_id,omitempty"`    // Player owning the plot, if any.
	BusinessID  *uuid.UUID      `json:"business_id,omitempty"` // Business standing on the plot, if any.
	IsAvailable bool            `json:"is_available"`          // Whether the plot can be bought.
	IsResale    bool            `json:"is_resale"`             // Whether the plot is offered by a player rather than the city.
	PurchasedAt *time.Time      `json:"purchased_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IsOwnedBy reports whether playerID owns the plot.
func (p *Plot) IsOwnedBy(playerID uuid.UUID) bool {
	return p.OwnerID != nil && *p.OwnerID == playerID
}

// HasBusiness reports whether a business occupies the plot.
func (p *Plot) HasBusiness() bool {
	return p.BusinessID != nil
}

// PlotFilter narrows plot listings. Zero values are ignored.
type PlotFilter struct {
	Zone          economy.Zone
	OwnerID       *uuid.UUID
	AvailableOnly bool
	ResaleOnly    bool
	Limit         int
	Offset        int
}
