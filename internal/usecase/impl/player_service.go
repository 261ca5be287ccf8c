package impl

import (
	"context"
	"log/slog"
	"strings"

	"citysim/internal/domain/entity"
	domainerrors "citysim/internal/domain/errors"
	"citysim/internal/domain/repository"
	"citysim/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const maxLeaderboardSize = 100

type playerService struct {
	gameBase
}

// NewPlayerService creates a new player service instance
func NewPlayerService(params GameParams) usecase.PlayerUsecase {
	return &playerService{gameBase: newGameBase(params)}
}

// RegisterPlayer creates the player unless one with the same id or wallet exists.
func (s *playerService) RegisterPlayer(ctx context.Context, input *usecase.RegisterPlayerInput) (*entity.Player, error) {
	if input == nil || input.PlayerID == uuid.Nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("player id is required")
	}
	wallet := strings.TrimSpace(input.WalletAddress)

	var player *entity.Player
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		playerRepo := repoFactory.NewPlayerRepository()

		existing, err := playerRepo.FindByID(ctx, input.PlayerID)
		if err == nil {
			player = existing
			return nil
		}
		if !errors.Is(err, repository.ErrPlayerNotFound) {
			return err
		}

		if wallet != "" {
			existing, err = playerRepo.FindByWallet(ctx, wallet)
			if err == nil {
				player = existing
				return nil
			}
			if !errors.Is(err, repository.ErrPlayerNotFound) {
				return err
			}
		}

		now := s.now()
		player = &entity.Player{
			ID:            input.PlayerID,
			WalletAddress: wallet,
			DisplayName:   input.DisplayName,
			Balance:       decimal.Zero,
			TotalTurnover: decimal.Zero,
			TotalIncome:   decimal.Zero,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		return playerRepo.Create(ctx, player)
	})
	if err != nil {
		return nil, translateError(err)
	}

	s.log(ctx).Debug("Player registered", slog.String("playerID", player.ID.String()))

	return player, nil
}

// GetProfile returns the player with tier and holdings.
func (s *playerService) GetProfile(ctx context.Context, playerID uuid.UUID) (*usecase.PlayerProfile, error) {
	var profile *usecase.PlayerProfile
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		player, err := repoFactory.NewPlayerRepository().FindByID(ctx, playerID)
		if err != nil {
			return err
		}
		plots, err := repoFactory.NewPlotRepository().CountByOwner(ctx, playerID)
		if err != nil {
			return err
		}
		businesses, err := repoFactory.NewBusinessRepository().FindByOwner(ctx, playerID)
		if err != nil {
			return err
		}

		profile = &usecase.PlayerProfile{
			Player:          player,
			Tier:            s.engine.TierFor(player.TotalTurnover),
			PlotsOwned:      plots,
			BusinessesOwned: int64(len(businesses)),
		}

		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}

	return profile, nil
}

// Leaderboard lists the top earners.
func (s *playerService) Leaderboard(ctx context.Context, limit int) ([]*entity.PlayerStanding, error) {
	if limit <= 0 || limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}

	var standings []*entity.PlayerStanding
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		players, err := repoFactory.NewPlayerRepository().TopByIncome(ctx, limit)
		if err != nil {
			return err
		}

		plotRepo := repoFactory.NewPlotRepository()
		businessRepo := repoFactory.NewBusinessRepository()
		standings = make([]*entity.PlayerStanding, 0, len(players))
		for _, p := range players {
			plots, err := plotRepo.CountByOwner(ctx, p.ID)
			if err != nil {
				return err
			}
			businesses, err := businessRepo.FindByOwner(ctx, p.ID)
			if err != nil {
				return err
			}
			standings = append(standings, &entity.PlayerStanding{
				Player:          p,
				PlotsOwned:      int(plots),
				BusinessesOwned: len(businesses),
			})
		}

		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}

	return standings, nil
}

// ListPlayers pages through all players in registration order.
func (s *playerService) ListPlayers(ctx context.Context, limit, offset int) (*usecase.PlayerPage, error) {
	page := &usecase.PlayerPage{Limit: pageSize(limit), Offset: max(offset, 0)}
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		playerRepo := repoFactory.NewPlayerRepository()

		var err error
		if page.Players, err = playerRepo.List(ctx, page.Limit, page.Offset); err != nil {
			return err
		}
		page.Total, err = playerRepo.Count(ctx)

		return err
	})
	if err != nil {
		return nil, translateError(err)
	}

	return page, nil
}
