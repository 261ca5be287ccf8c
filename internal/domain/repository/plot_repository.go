package repository

import (
	"context"

	"citysim/internal/domain/economy"
	"citysim/internal/domain/entity"

	"github.com/google/uuid"
)

// PlotRepository defines the persistence operations for map plots.
type PlotRepository interface {
	// Create persists a new plot. It fails with ErrDuplicatePlot when the
	// coordinates are already taken.
	Create(ctx context.Context, plot *entity.Plot) error

	// FindByID retrieves a plot by id.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Plot, error)

	// FindByCoordinates retrieves the plot at (x, y).
	FindByCoordinates(ctx context.Context, x, y int) (*entity.Plot, error)

	// ClaimAvailable hands an available plot to ownerID. It fails with
	// ErrStaleWrite when the plot is no longer available.
	ClaimAvailable(ctx context.Context, plot *entity.Plot, ownerID uuid.UUID) error

	// Update saves listing and business fields of an existing plot.
	Update(ctx context.Context, plot *entity.Plot) error

	// List returns plots matching the filter ordered by coordinates.
	List(ctx context.Context, filter entity.PlotFilter) ([]*entity.Plot, error)

	// CountByOwner counts plots owned by a player.
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// CountByOwnerAndZone counts plots a player owns in one zone.
	CountByOwnerAndZone(ctx context.Context, ownerID uuid.UUID, zone economy.Zone) (int64, error)
	// CountOwned counts plots that have an owner.
	CountOwned(ctx context.Context) (int64, error)
}
