package repository

import (
	"context"
	"time"

	"citysim/internal/domain/economy"
	"citysim/internal/domain/entity"

	"github.com/google/uuid"
)

// BusinessRepository defines the persistence operations for businesses and
// their supply-chain links.
type BusinessRepository interface {
	// Create persists a new business.
	Create(ctx context.Context, business *entity.Business) error

	// FindByID retrieves a business with its connections.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Business, error)

	// FindByOwner returns all businesses of a player.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Business, error)

	// FindActiveWithin returns active businesses inside the tile window.
	FindActiveWithin(ctx context.Context, window economy.Window) ([]*entity.Business, error)

	// ListActive pages through active businesses ordered by id, starting after the given id.
	ListActive(ctx context.Context, after uuid.UUID, limit int) ([]*entity.Business, error)

	// CountByOwnerAndType counts a player's businesses of one type.
	CountByOwnerAndType(ctx context.Context, ownerID uuid.UUID, businessType string) (int64, error)

	// CountByType counts businesses of one type across all players.
	CountByType(ctx context.Context, businessType string) (int64, error)
	// Count counts every business on the map.
	Count(ctx context.Context) (int64, error)

	// UpdateAfterCollection stores the new level, xp, last collection and
	// income. The write only applies when last_collection still equals
	// prevLastCollection, otherwise ErrStaleWrite is returned.
	UpdateAfterCollection(ctx context.Context, business *entity.Business, prevLastCollection time.Time) error

	// TransferOwner moves a business to a new owner.
	TransferOwner(ctx context.Context, id, newOwnerID uuid.UUID) error

	// AddConnection links two businesses in both directions. Existing links are kept.
	AddConnection(ctx context.Context, a, b uuid.UUID) error

	// RemoveConnections drops every link of id and returns the former neighbours.
	RemoveConnections(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)

	// Delete removes a business.
	Delete(ctx context.Context, id uuid.UUID) error
}
