package impl

import (
	"context"
	"time"

	"citysim/internal/domain/entity"
	"citysim/internal/domain/repository"
	"citysim/internal/usecase"

	"github.com/shopspring/decimal"
)

const hoursPerDay = 24

type treasuryService struct {
	gameBase
}

// NewTreasuryService creates a new treasury service instance
func NewTreasuryService(params GameParams) usecase.TreasuryUsecase {
	return &treasuryService{gameBase: newGameBase(params)}
}

// Stats returns the per-category totals.
func (s *treasuryService) Stats(ctx context.Context) (*entity.TreasuryStats, error) {
	var stats *entity.TreasuryStats
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		stats, err = treasuryStats(ctx, repoFactory.NewTreasuryRepository())

		return err
	})
	if err != nil {
		return nil, translateError(err)
	}

	return stats, nil
}

// Health reports the treasury together with the outstanding obligations.
func (s *treasuryService) Health(ctx context.Context, now time.Time) (*entity.TreasuryHealth, error) {
	if now.IsZero() {
		now = s.now()
	}

	health := &entity.TreasuryHealth{AverageDailyRevenue: decimal.Zero}
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		stats, err := treasuryStats(ctx, repoFactory.NewTreasuryRepository())
		if err != nil {
			return err
		}
		health.Stats = *stats

		ledgerRepo := repoFactory.NewLedgerRepository()
		health.PendingWithdrawals, health.PendingWithdrawalCount, err = ledgerRepo.SumPending(ctx, entity.TxWithdrawal)
		if err != nil {
			return err
		}
		health.TotalPlayerBalances, err = repoFactory.NewPlayerRepository().SumBalances(ctx)
		if err != nil {
			return err
		}

		first, err := ledgerRepo.FirstCreatedAt(ctx)
		if err != nil {
			return err
		}
		if first != nil {
			health.DaysActive = max(1, int(now.Sub(*first).Hours()/hoursPerDay)+1)
			health.AverageDailyRevenue = stats.Revenue.
				Div(decimal.NewFromInt(int64(health.DaysActive))).
				Round(2)
		}

		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}

	return health, nil
}

// GameStats summarizes the city for the public dashboard.
func (s *treasuryService) GameStats(ctx context.Context) (*entity.GameStats, error) {
	stats := &entity.GameStats{TotalPlots: s.engine.Map().PlotCount()}
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		if stats.OwnedPlots, err = repoFactory.NewPlotRepository().CountOwned(ctx); err != nil {
			return err
		}
		if stats.TotalBusinesses, err = repoFactory.NewBusinessRepository().Count(ctx); err != nil {
			return err
		}
		if stats.TotalPlayers, err = repoFactory.NewPlayerRepository().Count(ctx); err != nil {
			return err
		}
		if stats.TotalVolume, err = repoFactory.NewLedgerRepository().SumCompleted(ctx); err != nil {
			return err
		}
		treasury, err := treasuryStats(ctx, repoFactory.NewTreasuryRepository())
		if err != nil {
			return err
		}
		stats.Treasury = *treasury

		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	stats.AvailablePlots = max(0, stats.TotalPlots-stats.OwnedPlots)

	return stats, nil
}

func treasuryStats(ctx context.Context, treasuryRepo repository.TreasuryRepository) (*entity.TreasuryStats, error) {
	entries, err := treasuryRepo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[entity.TreasuryCategory]entity.TreasuryEntry, len(entries))
	for _, e := range entries {
		byCategory[e.Category] = e
	}

	// Every category is reported, including those never booked.
	stats := &entity.TreasuryStats{
		Entries: make([]entity.TreasuryEntry, 0, len(entity.TreasuryCategories)),
		Revenue: decimal.Zero,
	}
	for _, category := range entity.TreasuryCategories {
		e, ok := byCategory[category]
		if !ok {
			e = entity.TreasuryEntry{Category: category, Amount: decimal.Zero}
		}
		stats.Entries = append(stats.Entries, e)
		if category.IsRevenue() {
			stats.Revenue = stats.Revenue.Add(e.Amount)
		}
	}

	return stats, nil
}
