package impl

import (
	"context"
	"log/slog"

	"citysim/internal/domain/entity"
	domainerrors "citysim/internal/domain/errors"
	"citysim/internal/domain/repository"
	"citysim/internal/domain/service"
	"citysim/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	defaultPlotPageSize = 100
	maxPlotPageSize     = 500
)

type plotService struct {
	gameBase
}

// NewPlotService creates a new plot service instance
func NewPlotService(params GameParams) usecase.PlotUsecase {
	return &plotService{gameBase: newGameBase(params)}
}

// Quote prices a tile.
func (s *plotService) Quote(_ context.Context, x, y int) (*usecase.PlotQuote, error) {
	price, zone, err := s.engine.PriceAndZone(x, y)
	if err != nil {
		return nil, err
	}

	return &usecase.PlotQuote{X: x, Y: y, Zone: zone, Price: price}, nil
}

// GetPlot returns the tile at (x, y), creating it on first access.
func (s *plotService) GetPlot(ctx context.Context, x, y int) (*entity.Plot, error) {
	if _, _, err := s.engine.PriceAndZone(x, y); err != nil {
		return nil, err
	}

	var plot *entity.Plot
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		plot, err = s.plotAt(ctx, repoFactory.NewPlotRepository(), x, y)

		return err
	})
	if err != nil {
		return nil, translateError(err)
	}

	return plot, nil
}

// plotAt loads the tile at (x, y) or creates it as an unowned city plot.
func (s *plotService) plotAt(ctx context.Context, plotRepo repository.PlotRepository, x, y int) (*entity.Plot, error) {
	plot, err := plotRepo.FindByCoordinates(ctx, x, y)
	if err == nil {
		return plot, nil
	}
	if !errors.Is(err, repository.ErrPlotNotFound) {
		return nil, err
	}

	price, zone, err := s.engine.PriceAndZone(x, y)
	if err != nil {
		return nil, err
	}
	now := s.now()
	plot = &entity.Plot{
		ID:          uuid.New(),
		X:           x,
		Y:           y,
		Zone:        zone,
		BasePrice:   price,
		Price:       price,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := plotRepo.Create(ctx, plot); err != nil {
		return nil, err
	}

	return plot, nil
}

// ListPlots lists stored tiles.
func (s *plotService) ListPlots(ctx context.Context, filter entity.PlotFilter) ([]*entity.Plot, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPlotPageSize
	}
	filter.Limit = min(filter.Limit, maxPlotPageSize)
	filter.Offset = max(filter.Offset, 0)

	plots, err := s.repos.NewPlotRepository().List(ctx, filter)
	if err != nil {
		return nil, translateError(err)
	}

	return plots, nil
}

// PurchasePlot buys a tile from the city. Every precondition is checked
// before the first write.
func (s *plotService) PurchasePlot(ctx context.Context, playerID uuid.UUID, x, y int) (*usecase.PlotPurchaseReceipt, error) {
	if _, _, err := s.engine.PriceAndZone(x, y); err != nil {
		return nil, err
	}

	receipt := &usecase.PlotPurchaseReceipt{}
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		playerRepo := repoFactory.NewPlayerRepository()
		plotRepo := repoFactory.NewPlotRepository()

		player, err := playerRepo.FindByID(ctx, playerID)
		if err != nil {
			return err
		}
		plot, err := s.plotAt(ctx, plotRepo, x, y)
		if err != nil {
			return err
		}
		if err := s.checkPurchase(ctx, plotRepo, player, plot); err != nil {
			return err
		}

		now := s.now()
		price := plot.Price
		balance, err := playerRepo.AdjustBalance(ctx, playerID, price.Neg())
		if err != nil {
			return err
		}
		plot.UpdatedAt = now
		if err := plotRepo.ClaimAvailable(ctx, plot, playerID); err != nil {
			return err
		}

		record := &entity.Transaction{
			ID:           uuid.New(),
			Type:         entity.TxPurchasePlot,
			FromPlayerID: uuidPtr(playerID),
			Amount:       price,
			Commission:   decimal.Zero,
			Tax:          decimal.Zero,
			Net:          price,
			PlotID:       uuidPtr(plot.ID),
			Status:       entity.TxStatusCompleted,
			CreatedAt:    now,
			CompletedAt:  timePtr(now),
		}
		if err := repoFactory.NewLedgerRepository().Create(ctx, record); err != nil {
			return err
		}
		if err := repoFactory.NewTreasuryRepository().Increment(ctx, entity.TreasuryPlotSales, price, now); err != nil {
			return err
		}
		if err := playerRepo.AddTurnover(ctx, playerID, price); err != nil {
			return err
		}

		receipt.Plot = plot
		receipt.Transaction = record
		receipt.Balance = balance

		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}

	s.log(ctx).Info("Plot purchased",
		slog.String("playerID", playerID.String()),
		slog.Int("x", x), slog.Int("y", y),
		slog.String("price", receipt.Transaction.Amount.String()),
	)
	s.publish(ctx, &service.GameEvent{
		Type:      service.EventPlotSold,
		PlayerIDs: []string{playerID.String()},
		PlotID:    receipt.Plot.ID.String(),
		Amount:    receipt.Transaction.Amount.String(),
	})

	return receipt, nil
}

// checkPurchase enforces availability, the tier cap, the zone cap and the
// balance, in that order.
func (s *plotService) checkPurchase(ctx context.Context, plotRepo repository.PlotRepository, player *entity.Player, plot *entity.Plot) error {
	if !plot.IsAvailable || plot.OwnerID != nil {
		return domainerrors.ErrPlotUnavailable
	}
	if plot.IsResale {
		return domainerrors.ErrPlotUnavailable.WithDetails("plot is listed for resale")
	}
	if err := s.checkPlotCaps(ctx, plotRepo, player, plot); err != nil {
		return err
	}

	return requireBalance(player.Balance, plot.Price)
}

// checkPlotCaps rejects a player who already holds as many plots as their
// tier, or the plot's zone, allows.
func (s *plotService) checkPlotCaps(ctx context.Context, plotRepo repository.PlotRepository, player *entity.Player, plot *entity.Plot) error {
	tier := s.engine.TierFor(player.TotalTurnover)
	owned, err := plotRepo.CountByOwner(ctx, player.ID)
	if err != nil {
		return err
	}
	if owned >= int64(tier.MaxPlots) {
		return domainerrors.ErrPlotLimitReached.WithDetails(tier.Name)
	}

	if spec, ok := s.engine.Map().ZoneSpec(plot.Zone); ok && spec.PlotLimit > 0 {
		inZone, err := plotRepo.CountByOwnerAndZone(ctx, player.ID, plot.Zone)
		if err != nil {
			return err
		}
		if inZone >= int64(spec.PlotLimit) {
			return domainerrors.ErrZonePlotLimitReached.WithDetails(string(plot.Zone))
		}
	}

	return nil
}

// checkResaleCaps applies the caps a direct purchase or construction would:
// the buyer's plot limits and, when a business comes with the plot, that
// type's per-player limit.
func (s *plotService) checkResaleCaps(ctx context.Context, repoFactory repository.RepositoryFactory, buyer *entity.Player, plot *entity.Plot) error {
	if err := s.checkPlotCaps(ctx, repoFactory.NewPlotRepository(), buyer, plot); err != nil {
		return err
	}
	if !plot.HasBusiness() {
		return nil
	}

	businessRepo := repoFactory.NewBusinessRepository()
	business, err := businessRepo.FindByID(ctx, *plot.BusinessID)
	if err != nil {
		return err
	}
	bt, ok := s.engine.Catalog().Lookup(business.Type)
	if !ok {
		return domainerrors.ErrUnknownBusinessType.WithDetails(business.Type)
	}
	owned, err := businessRepo.CountByOwnerAndType(ctx, buyer.ID, bt.Key)
	if err != nil {
		return err
	}
	if owned >= int64(bt.MaxPerPlayer) {
		return domainerrors.ErrBusinessLimitReached.WithDetails(bt.Key)
	}

	return nil
}

// ListResale offers an owned plot at price, which must reach the resale floor.
func (s *plotService) ListResale(ctx context.Context, playerID, plotID uuid.UUID, price decimal.Decimal) (*entity.Plot, error) {
	if !price.IsPositive() {
		return nil, domainerrors.ErrInvalidAmount.WithDetails("price must be positive")
	}

	var plot *entity.Plot
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		plotRepo := repoFactory.NewPlotRepository()

		var err error
		plot, err = plotRepo.FindByID(ctx, plotID)
		if err != nil {
			return err
		}
		if !plot.IsOwnedBy(playerID) {
			return domainerrors.ErrNotOwner
		}

		investment := decimal.Zero
		if plot.HasBusiness() {
			business, err := repoFactory.NewBusinessRepository().FindByID(ctx, *plot.BusinessID)
			if err != nil {
				return err
			}
			investment = business.Investment
		}
		floor := s.engine.ResaleFloor(plot.BasePrice, investment, plot.HasBusiness())
		if price.LessThan(floor) {
			return domainerrors.ErrResaleBelowFloor.WithDetails("minimum price " + floor.String())
		}

		plot.Price = price
		plot.IsAvailable = true
		plot.IsResale = true
		plot.UpdatedAt = s.now()

		return plotRepo.Update(ctx, plot)
	})
	if err != nil {
		return nil, translateError(err)
	}

	s.publish(ctx, &service.GameEvent{
		Type:      service.EventPlotListed,
		PlayerIDs: []string{playerID.String()},
		PlotID:    plot.ID.String(),
		Amount:    price.String(),
	})

	return plot, nil
}

// CancelResale takes a listed plot off the market.
func (s *plotService) CancelResale(ctx context.Context, playerID, plotID uuid.UUID) (*entity.Plot, error) {
	var plot *entity.Plot
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		plotRepo := repoFactory.NewPlotRepository()

		var err error
		plot, err = plotRepo.FindByID(ctx, plotID)
		if err != nil {
			return err
		}
		if !plot.IsOwnedBy(playerID) {
			return domainerrors.ErrNotOwner
		}
		if !plot.IsResale {
			return domainerrors.ErrPlotNotForSale
		}

		plot.Price = plot.BasePrice
		plot.IsAvailable = false
		plot.IsResale = false
		plot.UpdatedAt = s.now()

		return plotRepo.Update(ctx, plot)
	})
	if err != nil {
		return nil, translateError(err)
	}

	return plot, nil
}

// BuyResale transfers a listed plot and its business to buyerID. The buyer
// pays the full price and the seller receives it less the commission.
func (s *plotService) BuyResale(ctx context.Context, buyerID, plotID uuid.UUID) (*usecase.ResaleReceipt, error) {
	receipt := &usecase.ResaleReceipt{}
	var sellerID uuid.UUID

	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		playerRepo := repoFactory.NewPlayerRepository()
		plotRepo := repoFactory.NewPlotRepository()

		plot, err := plotRepo.FindByID(ctx, plotID)
		if err != nil {
			return err
		}
		if !plot.IsResale || !plot.IsAvailable || plot.OwnerID == nil {
			return domainerrors.ErrPlotNotForSale
		}
		sellerID = *plot.OwnerID
		if sellerID == buyerID {
			return domainerrors.ErrSelfPurchase
		}
		buyer, err := playerRepo.FindByID(ctx, buyerID)
		if err != nil {
			return err
		}
		if err := s.checkResaleCaps(ctx, repoFactory, buyer, plot); err != nil {
			return err
		}
		if err := requireBalance(buyer.Balance, plot.Price); err != nil {
			return err
		}

		now := s.now()
		split := s.engine.SplitResale(plot.Price)

		if _, err := playerRepo.AdjustBalance(ctx, buyerID, split.Gross.Neg()); err != nil {
			return err
		}
		if _, err := playerRepo.AdjustBalance(ctx, sellerID, split.Net); err != nil {
			return err
		}

		plot.OwnerID = uuidPtr(buyerID)
		plot.Price = plot.BasePrice
		plot.IsAvailable = false
		plot.IsResale = false
		plot.PurchasedAt = timePtr(now)
		plot.UpdatedAt = now
		if err := plotRepo.Update(ctx, plot); err != nil {
			return err
		}
		if plot.HasBusiness() {
			if err := repoFactory.NewBusinessRepository().TransferOwner(ctx, *plot.BusinessID, buyerID); err != nil {
				return err
			}
		}

		record := &entity.Transaction{
			ID:           uuid.New(),
			Type:         entity.TxResalePlot,
			FromPlayerID: uuidPtr(buyerID),
			ToPlayerID:   uuidPtr(sellerID),
			Amount:       split.Gross,
			Commission:   split.Commission,
			Tax:          decimal.Zero,
			Net:          split.Net,
			PlotID:       uuidPtr(plot.ID),
			BusinessID:   plot.BusinessID,
			Status:       entity.TxStatusCompleted,
			CreatedAt:    now,
			CompletedAt:  timePtr(now),
		}
		if err := repoFactory.NewLedgerRepository().Create(ctx, record); err != nil {
			return err
		}
		if err := repoFactory.NewTreasuryRepository().Increment(ctx, entity.TreasuryResaleCommission, split.Commission, now); err != nil {
			return err
		}
		if err := playerRepo.AddTurnover(ctx, buyerID, split.Gross); err != nil {
			return err
		}

		receipt.Plot = plot
		receipt.Transaction = record
		receipt.Price = split.Gross
		receipt.Commission = split.Commission
		receipt.SellerNet = split.Net
		receipt.BusinessID = plot.BusinessID

		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}

	s.log(ctx).Info("Plot resold",
		slog.String("plotID", plotID.String()),
		slog.String("buyerID", buyerID.String()),
		slog.String("sellerID", sellerID.String()),
		slog.String("price", receipt.Price.String()),
	)
	s.publish(ctx, &service.GameEvent{
		Type:       service.EventPlotSold,
		PlayerIDs:  []string{buyerID.String(), sellerID.String()},
		PlotID:     plotID.String(),
		Amount:     receipt.Price.String(),
		Attributes: map[string]string{"commission": receipt.Commission.String(), "resale": "true"},
	})

	return receipt, nil
}
