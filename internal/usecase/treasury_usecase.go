package usecase

import (
	"context"
	"time"

	"citysim/internal/domain/entity"
)

// TreasuryUsecase defines the interface for platform revenue reporting
type TreasuryUsecase interface {
	// Stats returns the per-category totals
	Stats(ctx context.Context) (*entity.TreasuryStats, error)

	// Health adds solvency figures to Stats
	Health(ctx context.Context, now time.Time) (*entity.TreasuryHealth, error)

	// GameStats summarizes plots, players, businesses and traded volume
	GameStats(ctx context.Context) (*entity.GameStats, error)
}
