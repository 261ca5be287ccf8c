package impl

import (
	"context"
	"time"

	"citysim/internal/domain/economy"
	"citysim/internal/domain/entity"
	domainerrors "citysim/internal/domain/errors"
	"citysim/internal/domain/repository"
	"citysim/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accrue computes the income of business at now without writing anything.
func (b *gameBase) accrue(
	ctx context.Context,
	businessRepo repository.BusinessRepository,
	business *entity.Business,
	now time.Time,
	bonus economy.BonusContext,
) (economy.Accrual, error) {
	share := decimal.Zero
	if b.engine.Rules().ProgressiveTax {
		var err error
		share, err = marketShare(ctx, businessRepo, business)
		if err != nil {
			return economy.Accrual{}, err
		}
	}

	return b.engine.Accrue(economy.AccrualInput{
		TypeKey:        business.Type,
		Level:          business.Level,
		Zone:           business.Zone,
		Connections:    len(business.ConnectedBusinesses),
		LastCollection: business.LastCollection,
		Now:            now,
		Context:        bonus,
		MarketShare:    share,
	})
}

// marketShare is the owner's share of all businesses of the same type.
func marketShare(ctx context.Context, businessRepo repository.BusinessRepository, business *entity.Business) (decimal.Decimal, error) {
	total, err := businessRepo.CountByType(ctx, business.Type)
	if err != nil || total == 0 {
		return decimal.Zero, err
	}
	owned, err := businessRepo.CountByOwnerAndType(ctx, business.OwnerID, business.Type)
	if err != nil {
		return decimal.Zero, err
	}

	return decimal.NewFromInt(owned).Div(decimal.NewFromInt(total)), nil
}

// collect settles the income of business at now inside the caller's
// transaction. The last_collection write is conditional, so a concurrent
// collection of the same business surfaces as repository.ErrStaleWrite.
func (b *gameBase) collect(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	business *entity.Business,
	now time.Time,
	bonus economy.BonusContext,
	txType entity.TransactionType,
) (*usecase.IncomeReceipt, error) {
	if !business.IsOperational() {
		return nil, domainerrors.ErrConstructionIncomplete
	}

	businessRepo := repoFactory.NewBusinessRepository()
	a, err := b.accrue(ctx, businessRepo, business, now, bonus)
	if err != nil {
		return nil, err
	}

	receipt := &usecase.IncomeReceipt{
		BusinessID:    business.ID,
		Hours:         decimal.Zero,
		Gross:         decimal.Zero,
		OperatingCost: decimal.Zero,
		Tax:           decimal.Zero,
		Net:           decimal.Zero,
		Level:         business.Level,
	}
	if !a.Eligible {
		return receipt, nil
	}

	prev := business.LastCollection
	level, xp := b.engine.ApplyXP(business.Level, business.XP, a.XPGain)
	business.Level = level
	business.XP = xp
	business.LastCollection = now
	business.TotalIncome = business.TotalIncome.Add(a.Net)
	business.UpdatedAt = now
	if err := businessRepo.UpdateAfterCollection(ctx, business, prev); err != nil {
		return nil, err
	}

	if a.Net.IsPositive() {
		playerRepo := repoFactory.NewPlayerRepository()
		if _, err := playerRepo.AdjustBalance(ctx, business.OwnerID, a.Net); err != nil {
			return nil, err
		}
		if err := playerRepo.AddIncome(ctx, business.OwnerID, a.Net); err != nil {
			return nil, err
		}
	}
	if a.Tax.IsPositive() {
		if err := repoFactory.NewTreasuryRepository().Increment(ctx, entity.TreasuryTax, a.Tax, now); err != nil {
			return nil, err
		}
	}

	record := &entity.Transaction{
		ID:          uuid.New(),
		Type:        txType,
		ToPlayerID:  uuidPtr(business.OwnerID),
		Amount:      a.Gross,
		Commission:  decimal.Zero,
		Tax:         a.Tax,
		Net:         a.Net,
		PlotID:      uuidPtr(business.PlotID),
		BusinessID:  uuidPtr(business.ID),
		Status:      entity.TxStatusCompleted,
		CreatedAt:   now,
		CompletedAt: timePtr(now),
	}
	if err := repoFactory.NewLedgerRepository().Create(ctx, record); err != nil {
		return nil, err
	}

	receipt.Collected = true
	receipt.Hours = a.Hours
	receipt.Gross = a.Gross
	receipt.OperatingCost = a.OperatingCost
	receipt.Tax = a.Tax
	receipt.Net = a.Net
	receipt.XPGain = a.XPGain
	receipt.LeveledUp = level > receipt.Level
	receipt.Level = level
	receipt.Transaction = record

	return receipt, nil
}
