package repository

import (
	"context"
	"time"

	"citysim/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// TreasuryRepository accumulates platform revenue per category.
type TreasuryRepository interface {
	// Increment atomically adds amount to a category and bumps its counter.
	Increment(ctx context.Context, category entity.TreasuryCategory, amount decimal.Decimal, at time.Time) error

	// Snapshot returns all categories that have been touched.
	Snapshot(ctx context.Context) ([]entity.TreasuryEntry, error)
}
