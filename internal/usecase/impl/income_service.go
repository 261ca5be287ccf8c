package impl

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"citysim/internal/domain/economy"
	"citysim/internal/domain/entity"
	domainerrors "citysim/internal/domain/errors"
	"citysim/internal/domain/repository"
	"citysim/internal/domain/service"
	"citysim/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type incomeService struct {
	gameBase
}

// NewIncomeService creates a new income service instance
func NewIncomeService(params GameParams) usecase.IncomeUsecase {
	return &incomeService{gameBase: newGameBase(params)}
}

// CollectIncome collects one business of playerID. A zero now means the
// service clock.
func (s *incomeService) CollectIncome(ctx context.Context, playerID, businessID uuid.UUID, now time.Time) (*usecase.IncomeReceipt, error) {
	now = s.at(now)

	var receipt *usecase.IncomeReceipt
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		business, err := repoFactory.NewBusinessRepository().FindByID(ctx, businessID)
		if err != nil {
			return err
		}
		if business.OwnerID != playerID {
			return domainerrors.ErrNotOwner
		}

		receipt, err = s.collect(ctx, repoFactory, business, now, economy.BonusOnDemand, entity.TxCollectIncome)

		return err
	})
	if err != nil {
		return nil, translateError(err)
	}

	if receipt.Collected {
		s.log(ctx).Debug("Income collected",
			slog.String("businessID", businessID.String()),
			slog.String("net", receipt.Net.String()),
			slog.Int("level", receipt.Level),
		)
		s.publishIncome(ctx, playerID, receipt.Net, 1, receipt)
	}

	return receipt, nil
}

// CollectAll collects every operational business of playerID in one
// transaction. Businesses still under construction are left out.
func (s *incomeService) CollectAll(ctx context.Context, playerID uuid.UUID, now time.Time) (*usecase.CollectAllResult, error) {
	now = s.at(now)

	result := &usecase.CollectAllResult{TotalNet: decimal.Zero, TotalTax: decimal.Zero}
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		playerRepo := repoFactory.NewPlayerRepository()
		if _, err := playerRepo.FindByID(ctx, playerID); err != nil {
			return err
		}

		businesses, err := repoFactory.NewBusinessRepository().FindByOwner(ctx, playerID)
		if err != nil {
			return err
		}
		for _, business := range businesses {
			if !business.IsOperational() {
				continue
			}
			receipt, err := s.collect(ctx, repoFactory, business, now, economy.BonusOnDemand, entity.TxCollectIncome)
			if err != nil {
				return err
			}
			result.Receipts = append(result.Receipts, receipt)
			result.TotalNet = result.TotalNet.Add(receipt.Net)
			result.TotalTax = result.TotalTax.Add(receipt.Tax)
		}

		player, err := playerRepo.FindByID(ctx, playerID)
		if err != nil {
			return err
		}
		result.Balance = player.Balance

		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}

	collected := 0
	for _, r := range result.Receipts {
		if r.Collected {
			collected++
		}
	}
	if collected > 0 {
		s.publishIncome(ctx, playerID, result.TotalNet, collected, nil)
	}

	return result, nil
}

// PendingIncome projects a collection at now for each business of playerID.
func (s *incomeService) PendingIncome(ctx context.Context, playerID uuid.UUID, now time.Time) ([]*usecase.PendingIncome, error) {
	now = s.at(now)

	var pending []*usecase.PendingIncome
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.NewPlayerRepository().FindByID(ctx, playerID); err != nil {
			return err
		}

		businessRepo := repoFactory.NewBusinessRepository()
		businesses, err := businessRepo.FindByOwner(ctx, playerID)
		if err != nil {
			return err
		}
		for _, business := range businesses {
			row := &usecase.PendingIncome{
				BusinessID: business.ID,
				Type:       business.Type,
				Hours:      decimal.Zero,
				Net:        decimal.Zero,
			}
			if business.IsOperational() {
				a, err := s.accrue(ctx, businessRepo, business, now, economy.BonusOnDemand)
				if err != nil {
					return err
				}
				row.Eligible = a.Eligible
				row.Hours = a.Hours
				row.Net = a.Net
			}
			pending = append(pending, row)
		}

		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}

	return pending, nil
}

// IncomeTable returns the projections of every type, or of typeKey only.
func (s *incomeService) IncomeTable(_ context.Context, typeKey string) ([]economy.IncomeProjection, error) {
	if typeKey == "" {
		return s.engine.IncomeTable(), nil
	}

	rows := s.engine.TypeIncomeTable(typeKey)
	if rows == nil {
		return nil, domainerrors.ErrUnknownBusinessType.WithDetails(typeKey)
	}

	return rows, nil
}

// Project returns a single projection row.
func (s *incomeService) Project(_ context.Context, typeKey string, level int, zone economy.Zone, connections int) (*economy.IncomeProjection, error) {
	if connections < 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("connections must not be negative")
	}

	p, err := s.engine.Project(typeKey, level, zone, connections)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (s *incomeService) at(now time.Time) time.Time {
	if now.IsZero() {
		return s.now()
	}

	return now.UTC()
}

func (s *incomeService) publishIncome(ctx context.Context, playerID uuid.UUID, net decimal.Decimal, count int, receipt *usecase.IncomeReceipt) {
	event := &service.GameEvent{
		Type:      service.EventIncomeCollected,
		PlayerIDs: []string{playerID.String()},
		Amount:    net.String(),
		Attributes: map[string]string{
			"businesses": strconv.Itoa(count),
		},
	}
	if receipt != nil {
		event.BusinessID = receipt.BusinessID.String()
		if receipt.LeveledUp {
			event.Attributes["level"] = strconv.Itoa(receipt.Level)
		}
	}

	s.publish(ctx, event)
}
