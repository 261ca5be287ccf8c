package usecase

import (
	"context"

	"citysim/internal/domain/economy"
	"citysim/internal/domain/entity"

	"github.com/google/uuid"
)

// RegisterPlayerInput carries the identity of a player issued by the account service.
type RegisterPlayerInput struct {
	PlayerID      uuid.UUID
	WalletAddress string
	DisplayName   string
}

// PlayerProfile is a player with the figures derived from ownership.
type PlayerProfile struct {
	Player          *entity.Player `json:"player"`
	Tier            economy.Tier   `json:"tier"`
	PlotsOwned      int64          `json:"plots_owned"`
	BusinessesOwned int64          `json:"businesses_owned"`
}

// PlayerPage is one page of the player directory.
type PlayerPage struct {
	Players []*entity.Player `json:"players"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// PlayerUsecase defines the interface for player accounts
type PlayerUsecase interface {
	// RegisterPlayer creates the player or returns the existing one with the same id or wallet
	RegisterPlayer(ctx context.Context, input *RegisterPlayerInput) (*entity.Player, error)

	// GetProfile returns balance, tier and holdings
	GetProfile(ctx context.Context, playerID uuid.UUID) (*PlayerProfile, error)

	// Leaderboard lists the players with the highest lifetime income
	Leaderboard(ctx context.Context, limit int) ([]*entity.PlayerStanding, error)

	// ListPlayers pages through all players for operators
	ListPlayers(ctx context.Context, limit, offset int) (*PlayerPage, error)
}
