package repository

import (
	"context"

	"citysim/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlayerRepository defines the persistence operations for players.
type PlayerRepository interface {
	// Create persists a new player.
	Create(ctx context.Context, player *entity.Player) error

	// FindByID retrieves a player by id.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Player, error)

	// FindByWallet retrieves a player by wallet address.
	FindByWallet(ctx context.Context, wallet string) (*entity.Player, error)

	// AdjustBalance adds delta to the balance and returns the new value.
	// It fails with ErrInsufficientBalance instead of going below zero.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)

	// AddTurnover increases the lifetime turnover.
	AddTurnover(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error

	// AddIncome increases the lifetime collected income.
	AddIncome(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error

	// TopByIncome returns players ordered by total income, highest first.
	TopByIncome(ctx context.Context, limit int) ([]*entity.Player, error)

	// SumBalances returns the total balance held by all players.
	SumBalances(ctx context.Context) (decimal.Decimal, error)
	// List pages through players in registration order.
	List(ctx context.Context, limit, offset int) ([]*entity.Player, error)
	// Count returns the number of registered players.
	Count(ctx context.Context) (int64, error)
}
