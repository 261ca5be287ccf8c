package impl

import (
	"context"
	"log/slog"

	"citysim/internal/domain/economy"
	"citysim/internal/domain/entity"
	domainerrors "citysim/internal/domain/errors"
	"citysim/internal/domain/repository"
	"citysim/internal/domain/service"
	"citysim/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type businessService struct {
	gameBase
}

// NewBusinessService creates a new business service instance
func NewBusinessService(params GameParams) usecase.BusinessUsecase {
	return &businessService{gameBase: newGameBase(params)}
}

// ListTypes returns the catalog with construction costs.
func (s *businessService) ListTypes(_ context.Context) []usecase.BusinessTypeInfo {
	types := s.engine.Catalog().Types()
	infos := make([]usecase.BusinessTypeInfo, 0, len(types))
	for _, t := range types {
		infos = append(infos, usecase.BusinessTypeInfo{
			BusinessType:     t,
			ConstructionCost: s.engine.ConstructionCost(t),
		})
	}

	return infos
}

// BuildBusiness constructs a business of businessType on plotID. Construction
// completes immediately and the new business is linked to every compatible
// neighbour inside the connection radius.
func (s *businessService) BuildBusiness(ctx context.Context, playerID, plotID uuid.UUID, businessType string) (*usecase.BusinessReceipt, error) {
	bt, ok := s.engine.Catalog().Lookup(businessType)
	if !ok {
		return nil, domainerrors.ErrUnknownBusinessType.WithDetails(businessType)
	}
	cost := s.engine.ConstructionCost(bt)

	receipt := &usecase.BusinessReceipt{}
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		playerRepo := repoFactory.NewPlayerRepository()
		plotRepo := repoFactory.NewPlotRepository()
		businessRepo := repoFactory.NewBusinessRepository()

		player, err := playerRepo.FindByID(ctx, playerID)
		if err != nil {
			return err
		}
		plot, err := plotRepo.FindByID(ctx, plotID)
		if err != nil {
			return err
		}
		if err := s.checkBuild(ctx, businessRepo, player, plot, bt, cost); err != nil {
			return err
		}

		now := s.now()
		balance, err := playerRepo.AdjustBalance(ctx, playerID, cost.Neg())
		if err != nil {
			return err
		}

		business := &entity.Business{
			ID:               uuid.New(),
			PlotID:           plot.ID,
			OwnerID:          playerID,
			Type:             bt.Key,
			X:                plot.X,
			Y:                plot.Y,
			Zone:             plot.Zone,
			Level:            1,
			LastCollection:   now,
			BuildingProgress: 100,
			IsActive:         true,
			Investment:       cost,
			TotalIncome:      decimal.Zero,
			SchemaVersion:    entity.BusinessSchemaVersion,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := businessRepo.Create(ctx, business); err != nil {
			return err
		}

		plot.BusinessID = uuidPtr(business.ID)
		plot.UpdatedAt = now
		if err := plotRepo.Update(ctx, plot); err != nil {
			return err
		}

		connected, err := s.connectNeighbours(ctx, businessRepo, business, bt)
		if err != nil {
			return err
		}

		record := &entity.Transaction{
			ID:           uuid.New(),
			Type:         entity.TxBuildBusiness,
			FromPlayerID: uuidPtr(playerID),
			Amount:       cost,
			Commission:   decimal.Zero,
			Tax:          decimal.Zero,
			Net:          cost,
			PlotID:       uuidPtr(plot.ID),
			BusinessID:   uuidPtr(business.ID),
			Status:       entity.TxStatusCompleted,
			CreatedAt:    now,
			CompletedAt:  timePtr(now),
		}
		if err := repoFactory.NewLedgerRepository().Create(ctx, record); err != nil {
			return err
		}
		if err := repoFactory.NewTreasuryRepository().Increment(ctx, entity.TreasuryConstructionSales, cost, now); err != nil {
			return err
		}
		if err := playerRepo.AddTurnover(ctx, playerID, cost); err != nil {
			return err
		}

		receipt.Business = business
		receipt.Transaction = record
		receipt.Connected = connected
		receipt.Balance = balance

		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}

	s.log(ctx).Info("Business built",
		slog.String("playerID", playerID.String()),
		slog.String("businessID", receipt.Business.ID.String()),
		slog.String("type", businessType),
		slog.Int("connections", len(receipt.Connected)),
	)
	s.publish(ctx, &service.GameEvent{
		Type:       service.EventBusinessBuilt,
		PlayerIDs:  []string{playerID.String()},
		PlotID:     plotID.String(),
		BusinessID: receipt.Business.ID.String(),
		Amount:     cost.String(),
		Attributes: map[string]string{"type": businessType},
	})

	return receipt, nil
}

func (s *businessService) checkBuild(
	ctx context.Context,
	businessRepo repository.BusinessRepository,
	player *entity.Player,
	plot *entity.Plot,
	bt economy.BusinessType,
	cost decimal.Decimal,
) error {
	if !plot.IsOwnedBy(player.ID) {
		return domainerrors.ErrNotOwner
	}
	if plot.HasBusiness() {
		return domainerrors.ErrPlotOccupied
	}
	if plot.IsResale {
		return domainerrors.ErrPlotUnavailable.WithDetails("plot is listed for resale")
	}
	if !bt.AllowedIn(plot.Zone) {
		return domainerrors.ErrZoneNotAllowed.WithDetails(string(plot.Zone))
	}

	owned, err := businessRepo.CountByOwnerAndType(ctx, player.ID, bt.Key)
	if err != nil {
		return err
	}
	if owned >= int64(bt.MaxPerPlayer) {
		return domainerrors.ErrBusinessLimitReached.WithDetails(bt.Key)
	}
	if bt.MaxTotal > 0 {
		total, err := businessRepo.CountByType(ctx, bt.Key)
		if err != nil {
			return err
		}
		if total >= int64(bt.MaxTotal) {
			return domainerrors.ErrGlobalBusinessLimitReached.WithDetails(bt.Key)
		}
	}

	return requireBalance(player.Balance, cost)
}

// connectNeighbours links business to compatible active businesses around it.
func (s *businessService) connectNeighbours(
	ctx context.Context,
	businessRepo repository.BusinessRepository,
	business *entity.Business,
	bt economy.BusinessType,
) ([]uuid.UUID, error) {
	nearby, err := businessRepo.FindActiveWithin(ctx, s.engine.ConnectionWindow(business.X, business.Y))
	if err != nil {
		return nil, err
	}

	var connected []uuid.UUID
	for _, other := range nearby {
		if other.ID == business.ID {
			continue
		}
		otherType, ok := s.engine.Catalog().Lookup(other.Type)
		if !ok {
			continue
		}
		if !s.engine.CanConnect(bt, business.X, business.Y, otherType, other.X, other.Y) {
			continue
		}
		if err := businessRepo.AddConnection(ctx, business.ID, other.ID); err != nil {
			return nil, err
		}
		business.Connect(other.ID)
		connected = append(connected, other.ID)
	}

	return connected, nil
}

// DemolishBusiness removes a business, charging a fee on its investment. Its
// neighbours lose the link and the plot becomes empty.
func (s *businessService) DemolishBusiness(ctx context.Context, playerID, businessID uuid.UUID) (*usecase.DemolishReceipt, error) {
	receipt := &usecase.DemolishReceipt{BusinessID: businessID}
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		playerRepo := repoFactory.NewPlayerRepository()
		plotRepo := repoFactory.NewPlotRepository()
		businessRepo := repoFactory.NewBusinessRepository()

		business, err := businessRepo.FindByID(ctx, businessID)
		if err != nil {
			return err
		}
		if business.OwnerID != playerID {
			return domainerrors.ErrNotOwner
		}
		player, err := playerRepo.FindByID(ctx, playerID)
		if err != nil {
			return err
		}
		fee := s.engine.DemolishFee(business.Investment)
		if err := requireBalance(player.Balance, fee); err != nil {
			return err
		}

		now := s.now()
		balance, err := playerRepo.AdjustBalance(ctx, playerID, fee.Neg())
		if err != nil {
			return err
		}
		disconnected, err := businessRepo.RemoveConnections(ctx, businessID)
		if err != nil {
			return err
		}
		if err := businessRepo.Delete(ctx, businessID); err != nil {
			return err
		}

		plot, err := plotRepo.FindByID(ctx, business.PlotID)
		if err != nil {
			return err
		}
		plot.BusinessID = nil
		plot.UpdatedAt = now
		if err := plotRepo.Update(ctx, plot); err != nil {
			return err
		}

		record := &entity.Transaction{
			ID:           uuid.New(),
			Type:         entity.TxDemolishBusiness,
			FromPlayerID: uuidPtr(playerID),
			Amount:       fee,
			Commission:   fee,
			Tax:          decimal.Zero,
			Net:          decimal.Zero,
			PlotID:       uuidPtr(plot.ID),
			BusinessID:   uuidPtr(businessID),
			Status:       entity.TxStatusCompleted,
			CreatedAt:    now,
			CompletedAt:  timePtr(now),
		}
		if err := repoFactory.NewLedgerRepository().Create(ctx, record); err != nil {
			return err
		}
		if fee.IsPositive() {
			if err := repoFactory.NewTreasuryRepository().Increment(ctx, entity.TreasuryDemolishFees, fee, now); err != nil {
				return err
			}
		}

		receipt.PlotID = plot.ID
		receipt.Fee = fee
		receipt.Disconnected = disconnected
		receipt.Transaction = record
		receipt.Balance = balance

		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}

	s.log(ctx).Info("Business demolished",
		slog.String("playerID", playerID.String()),
		slog.String("businessID", businessID.String()),
		slog.String("fee", receipt.Fee.String()),
	)
	s.publish(ctx, &service.GameEvent{
		Type:       service.EventBusinessDemolished,
		PlayerIDs:  []string{playerID.String()},
		PlotID:     receipt.PlotID.String(),
		BusinessID: businessID.String(),
		Amount:     receipt.Fee.String(),
	})

	return receipt, nil
}

// GetBusiness returns a business by id.
func (s *businessService) GetBusiness(ctx context.Context, businessID uuid.UUID) (*entity.Business, error) {
	business, err := s.repos.NewBusinessRepository().FindByID(ctx, businessID)
	if err != nil {
		return nil, translateError(err)
	}

	return business, nil
}

// ListPlayerBusinesses lists the businesses of a player.
func (s *businessService) ListPlayerBusinesses(ctx context.Context, playerID uuid.UUID) ([]*entity.Business, error) {
	if _, err := s.repos.NewPlayerRepository().FindByID(ctx, playerID); err != nil {
		return nil, translateError(err)
	}

	businesses, err := s.repos.NewBusinessRepository().FindByOwner(ctx, playerID)
	if err != nil {
		return nil, translateError(err)
	}

	return businesses, nil
}
