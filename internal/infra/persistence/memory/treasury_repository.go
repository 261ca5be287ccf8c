package memory

import (
	"context"
	"time"

	"citysim/internal/domain/entity"

	"github.com/shopspring/decimal"
)

type treasuryRepository struct {
	access accessor
}

func (r *treasuryRepository) Increment(_ context.Context, category entity.TreasuryCategory, amount decimal.Decimal, at time.Time) error {
	return r.access(func(s *state) error {
		keep(s, s.treasury, category, copyTreasuryEntry)
		entry, ok := s.treasury[category]
		if !ok {
			entry = &entity.TreasuryEntry{Category: category, Amount: decimal.Zero}
			s.treasury[category] = entry
		}
		entry.Amount = entry.Amount.Add(amount)
		entry.Count++
		entry.UpdatedAt = at

		return nil
	})
}

func (r *treasuryRepository) Snapshot(_ context.Context) ([]entity.TreasuryEntry, error) {
	var out []entity.TreasuryEntry
	err := r.access(func(s *state) error {
		for _, category := range entity.TreasuryCategories {
			if entry, ok := s.treasury[category]; ok {
				out = append(out, *entry)
			}
		}

		return nil
	})

	return out, err
}
