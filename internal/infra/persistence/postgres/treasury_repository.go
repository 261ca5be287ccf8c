package postgres

import (
	"context"
	"time"

	"citysim/internal/domain/entity"
	domainerrors "citysim/internal/domain/errors"
	"citysim/internal/domain/repository"
	"citysim/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// treasuryRepository implements the repository.TreasuryRepository interface.
type treasuryRepository struct {
	db *gorm.DB
}

// NewTreasuryRepository is the constructor for treasuryRepository.
func NewTreasuryRepository(db *gorm.DB) repository.TreasuryRepository {
	return &treasuryRepository{db: db}
}

// Increment adds amount to a category with a single upsert.
func (repo *treasuryRepository) Increment(ctx context.Context, category entity.TreasuryCategory, amount decimal.Decimal, at time.Time) error {
	row := &model.TreasuryModel{
		Category:  string(category),
		Amount:    amount,
		Count:     1,
		UpdatedAt: at,
	}

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "category"}},
			DoUpdates: clause.Assignments(map[string]any{
				"amount":     gorm.Expr("treasury.amount + excluded.amount"),
				"count":      gorm.Expr("treasury.count + 1"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
		}).
		Create(row).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update treasury")
	}

	return nil
}

// Snapshot returns the recorded categories in reporting order.
func (repo *treasuryRepository) Snapshot(ctx context.Context) ([]entity.TreasuryEntry, error) {
	var rows []*model.TreasuryModel

	if err := repo.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to read treasury")
	}

	byCategory := make(map[entity.TreasuryCategory]*model.TreasuryModel, len(rows))
	for _, row := range rows {
		byCategory[entity.TreasuryCategory(row.Category)] = row
	}

	entries := make([]entity.TreasuryEntry, 0, len(rows))
	for _, category := range entity.TreasuryCategories {
		row, ok := byCategory[category]
		if !ok {
			continue
		}
		entries = append(entries, entity.TreasuryEntry{
			Category:  category,
			Amount:    row.Amount,
			Count:     row.Count,
			UpdatedAt: row.UpdatedAt,
		})
	}

	return entries, nil
}
