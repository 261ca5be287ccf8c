package repository

import (
	"context"
	"time"

	"citysim/internal/domain/entity"

	"github.com/google/uuid"
)

// ContractRepository stores supply contracts.
type ContractRepository interface {
	// Create persists a new contract.
	Create(ctx context.Context, contract *entity.Contract) error

	// FindByID retrieves a contract.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Contract, error)

	// Activate moves a pending contract to active. It fails with ErrStaleWrite
	// when the contract is no longer pending.
	Activate(ctx context.Context, id uuid.UUID, at time.Time) error

	// ListByPlayer returns contracts where the player is seller or buyer.
	ListByPlayer(ctx context.Context, playerID uuid.UUID) ([]*entity.Contract, error)
}
