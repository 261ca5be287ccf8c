package impl

import (
	"context"
	"testing"

	"citysim/internal/domain/economy"
	"citysim/internal/domain/entity"
	domainerrors "citysim/internal/domain/errors"
	"citysim/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlotService_Quote(t *testing.T) {
	fx := newGameFixtures(t)
	svc := NewPlotService(fx.params)

	quote, err := svc.Quote(context.Background(), 50, 50)
	require.NoError(t, err)
	assert.Equal(t, economy.ZoneCenter, quote.Zone)
	assertDecimal(t, "100", quote.Price, "price")

	_, err = svc.Quote(context.Background(), -1, 0)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCoordinates)
}

func TestPlotService_GetPlot_CreatesOnFirstAccess(t *testing.T) {
	fx := newGameFixtures(t)
	svc := NewPlotService(fx.params)
	ctx := context.Background()

	first, err := svc.GetPlot(ctx, 0, 0)
	require.NoError(t, err)
	assert.True(t, first.IsAvailable)
	assert.Nil(t, first.OwnerID)
	assertDecimal(t, "10", first.BasePrice, "base price")

	again, err := svc.GetPlot(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
}

func TestPlotService_PurchasePlot(t *testing.T) {
	fx := newGameFixtures(t)
	svc := NewPlotService(fx.params)
	ctx := context.Background()
	player := fx.seedPlayer(t, "100")

	receipt, err := svc.PurchasePlot(ctx, player.ID, 0, 0)
	require.NoError(t, err)

	assert.True(t, receipt.Plot.IsOwnedBy(player.ID))
	assert.False(t, receipt.Plot.IsAvailable)
	assertDecimal(t, "90", receipt.Balance, "balance")
	assert.Equal(t, entity.TxPurchasePlot, receipt.Transaction.Type)
	assert.Equal(t, entity.TxStatusCompleted, receipt.Transaction.Status)

	stored := fx.player(t, player.ID)
	assertDecimal(t, "90", stored.Balance, "stored balance")
	assertDecimal(t, "10", stored.TotalTurnover, "turnover")
	assertDecimal(t, "10", fx.treasury(t, entity.TreasuryPlotSales), "plot sales")

	events := fx.publisher.EventsOfType(service.EventPlotSold)
	require.Len(t, events, 1)
	assert.Equal(t, []string{player.ID.String()}, events[0].PlayerIDs)
}

func TestPlotService_PurchasePlot_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, fx gameFixtures) (uuid.UUID, int, int)
		wantErr error
	}{
		{
			name: "out of bounds",
			setup: func(t *testing.T, fx gameFixtures) (uuid.UUID, int, int) {
				return fx.seedPlayer(t, "100").ID, 101, 0
			},
			wantErr: domainerrors.ErrInvalidCoordinates,
		},
		{
			name: "unknown player",
			setup: func(t *testing.T, fx gameFixtures) (uuid.UUID, int, int) {
				return uuid.New(), 0, 0
			},
			wantErr: domainerrors.ErrPlayerNotFound,
		},
		{
			name: "already owned",
			setup: func(t *testing.T, fx gameFixtures) (uuid.UUID, int, int) {
				fx.buyPlot(t, fx.seedPlayer(t, "100").ID, 0, 0)
				return fx.seedPlayer(t, "100").ID, 0, 0
			},
			wantErr: domainerrors.ErrPlotUnavailable,
		},
		{
			name: "insufficient funds",
			setup: func(t *testing.T, fx gameFixtures) (uuid.UUID, int, int) {
				return fx.seedPlayer(t, "9.99").ID, 0, 0
			},
			wantErr: domainerrors.ErrInsufficientFunds,
		},
		{
			name: "tier plot limit",
			setup: func(t *testing.T, fx gameFixtures) (uuid.UUID, int, int) {
				p := fx.seedPlayer(t, "1000")
				fx.buyPlot(t, p.ID, 0, 0)
				fx.buyPlot(t, p.ID, 0, 1)
				fx.buyPlot(t, p.ID, 1, 0)
				return p.ID, 100, 100
			},
			wantErr: domainerrors.ErrPlotLimitReached,
		},
		{
			name: "zone plot limit",
			setup: func(t *testing.T, fx gameFixtures) (uuid.UUID, int, int) {
				p := fx.seedPlayer(t, "1000")
				fx.buyPlot(t, p.ID, 50, 50)
				fx.buyPlot(t, p.ID, 50, 51)
				fx.buyPlot(t, p.ID, 51, 50)
				return p.ID, 51, 51
			},
			wantErr: domainerrors.ErrZonePlotLimitReached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newGameFixtures(t)
			playerID, x, y := tt.setup(t, fx)

			_, err := NewPlotService(fx.params).PurchasePlot(context.Background(), playerID, x, y)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPlotService_PurchasePlot_FailureLeavesNoTrace(t *testing.T) {
	fx := newGameFixtures(t)
	ctx := context.Background()
	player := fx.seedPlayer(t, "5")

	_, err := NewPlotService(fx.params).PurchasePlot(ctx, player.ID, 0, 0)
	require.ErrorIs(t, err, domainerrors.ErrInsufficientFunds)

	assertDecimal(t, "5", fx.player(t, player.ID).Balance, "balance")
	assert.True(t, fx.treasury(t, entity.TreasuryPlotSales).IsZero())
	records, err := fx.store.Repositories().NewLedgerRepository().List(ctx, entity.TransactionFilter{PlayerID: &player.ID})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPlotService_Resale(t *testing.T) {
	fx := newGameFixtures(t)
	svc := NewPlotService(fx.params)
	ctx := context.Background()

	seller := fx.seedPlayer(t, "10")
	buyer := fx.seedPlayer(t, "50")
	plot := fx.buyPlot(t, seller.ID, 0, 0)

	_, err := svc.ListResale(ctx, buyer.ID, plot.ID, dec("20"))
	assert.ErrorIs(t, err, domainerrors.ErrNotOwner)

	_, err = svc.ListResale(ctx, seller.ID, plot.ID, dec("4.99"))
	assert.ErrorIs(t, err, domainerrors.ErrResaleBelowFloor)

	listed, err := svc.ListResale(ctx, seller.ID, plot.ID, dec("20"))
	require.NoError(t, err)
	assert.True(t, listed.IsResale)
	assert.True(t, listed.IsAvailable)
	assertDecimal(t, "20", listed.Price, "listed price")

	_, err = NewPlotService(fx.params).PurchasePlot(ctx, buyer.ID, 0, 0)
	assert.ErrorIs(t, err, domainerrors.ErrPlotUnavailable)

	_, err = svc.BuyResale(ctx, seller.ID, plot.ID)
	assert.ErrorIs(t, err, domainerrors.ErrSelfPurchase)

	receipt, err := svc.BuyResale(ctx, buyer.ID, plot.ID)
	require.NoError(t, err)
	assertDecimal(t, "20", receipt.Price, "price")
	assertDecimal(t, "3", receipt.Commission, "commission")
	assertDecimal(t, "17", receipt.SellerNet, "seller net")
	assert.True(t, receipt.Plot.IsOwnedBy(buyer.ID))
	assert.False(t, receipt.Plot.IsResale)
	assert.False(t, receipt.Plot.IsAvailable)

	assertDecimal(t, "30", fx.player(t, buyer.ID).Balance, "buyer balance")
	assertDecimal(t, "17", fx.player(t, seller.ID).Balance, "seller balance")
	assertDecimal(t, "3", fx.treasury(t, entity.TreasuryResaleCommission), "commission")

	_, err = svc.BuyResale(ctx, buyer.ID, plot.ID)
	assert.ErrorIs(t, err, domainerrors.ErrPlotNotForSale)
}

func TestPlotService_BuyResale_TransfersBusiness(t *testing.T) {
	fx := newGameFixtures(t)
	svc := NewPlotService(fx.params)
	ctx := context.Background()

	seller := fx.seedPlayer(t, "100")
	buyer := fx.seedPlayer(t, "100")
	business := fx.build(t, seller.ID, 0, 0, "farm")

	floor := fx.engine.ResaleFloor(dec("10"), business.Investment, true)
	_, err := svc.ListResale(ctx, seller.ID, business.PlotID, floor.Sub(dec("0.01")))
	require.ErrorIs(t, err, domainerrors.ErrResaleBelowFloor)
	_, err = svc.ListResale(ctx, seller.ID, business.PlotID, floor)
	require.NoError(t, err)

	receipt, err := svc.BuyResale(ctx, buyer.ID, business.PlotID)
	require.NoError(t, err)
	require.NotNil(t, receipt.BusinessID)
	assert.Equal(t, business.ID, *receipt.BusinessID)

	moved, err := fx.store.Repositories().NewBusinessRepository().FindByID(ctx, business.ID)
	require.NoError(t, err)
	assert.Equal(t, buyer.ID, moved.OwnerID)
}

func TestPlotService_BuyResale_RespectsBuyerCaps(t *testing.T) {
	t.Run("tier plot limit", func(t *testing.T) {
		fx := newGameFixtures(t)
		svc := NewPlotService(fx.params)
		ctx := context.Background()

		seller := fx.seedPlayer(t, "10")
		buyer := fx.seedPlayer(t, "100")
		fx.buyPlot(t, buyer.ID, 0, 0)
		fx.buyPlot(t, buyer.ID, 0, 1)
		fx.buyPlot(t, buyer.ID, 1, 0)
		plot := fx.buyPlot(t, seller.ID, 2, 0)
		_, err := svc.ListResale(ctx, seller.ID, plot.ID, dec("20"))
		require.NoError(t, err)

		_, err = svc.BuyResale(ctx, buyer.ID, plot.ID)
		assert.ErrorIs(t, err, domainerrors.ErrPlotLimitReached)
		assertDecimal(t, "70", fx.player(t, buyer.ID).Balance, "buyer balance")
		assert.True(t, fx.treasury(t, entity.TreasuryResaleCommission).IsZero())

		still, err := fx.store.Repositories().NewPlotRepository().FindByID(ctx, plot.ID)
		require.NoError(t, err)
		assert.True(t, still.IsOwnedBy(seller.ID))
		assert.True(t, still.IsResale)
	})

	t.Run("business type limit", func(t *testing.T) {
		fx := newGameFixtures(t)
		svc := NewPlotService(fx.params)
		ctx := context.Background()

		seller := fx.seedPlayer(t, "100000")
		buyer := fx.seedPlayer(t, "100000")
		fx.build(t, buyer.ID, 50, 50, "university")
		listed := fx.build(t, seller.ID, 52, 50, "university")
		_, err := svc.ListResale(ctx, seller.ID, listed.PlotID, dec("5000"))
		require.NoError(t, err)
		before := fx.player(t, buyer.ID).Balance

		_, err = svc.BuyResale(ctx, buyer.ID, listed.PlotID)
		assert.ErrorIs(t, err, domainerrors.ErrBusinessLimitReached)
		assertDecimal(t, before.String(), fx.player(t, buyer.ID).Balance, "buyer balance")

		kept, err := fx.store.Repositories().NewBusinessRepository().FindByID(ctx, listed.ID)
		require.NoError(t, err)
		assert.Equal(t, seller.ID, kept.OwnerID)
	})
}

func TestPlotService_CancelResale(t *testing.T) {
	fx := newGameFixtures(t)
	svc := NewPlotService(fx.params)
	ctx := context.Background()

	seller := fx.seedPlayer(t, "10")
	plot := fx.buyPlot(t, seller.ID, 0, 0)

	_, err := svc.CancelResale(ctx, seller.ID, plot.ID)
	assert.ErrorIs(t, err, domainerrors.ErrPlotNotForSale)

	_, err = svc.ListResale(ctx, seller.ID, plot.ID, dec("30"))
	require.NoError(t, err)

	cancelled, err := svc.CancelResale(ctx, seller.ID, plot.ID)
	require.NoError(t, err)
	assert.False(t, cancelled.IsResale)
	assert.False(t, cancelled.IsAvailable)
	assert.True(t, cancelled.IsOwnedBy(seller.ID))
	assertDecimal(t, "10", cancelled.Price, "price")
}

func TestPlotService_ListPlots(t *testing.T) {
	fx := newGameFixtures(t)
	svc := NewPlotService(fx.params)
	ctx := context.Background()

	owner := fx.seedPlayer(t, "100")
	fx.buyPlot(t, owner.ID, 0, 0)
	_, err := svc.GetPlot(ctx, 100, 100)
	require.NoError(t, err)

	all, err := svc.ListPlots(ctx, entity.PlotFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	owned, err := svc.ListPlots(ctx, entity.PlotFilter{OwnerID: &owner.ID})
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, 0, owned[0].X)

	available, err := svc.ListPlots(ctx, entity.PlotFilter{AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, 100, available[0].X)
}
