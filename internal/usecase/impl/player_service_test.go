package impl

import (
	"context"
	"testing"
	"time"

	domainerrors "citysim/internal/domain/errors"
	"citysim/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerService_RegisterPlayer(t *testing.T) {
	fx := newGameFixtures(t)
	svc := NewPlayerService(fx.params)
	ctx := context.Background()

	id := uuid.New()
	created, err := svc.RegisterPlayer(ctx, &usecase.RegisterPlayerInput{PlayerID: id, WalletAddress: "EQwallet", DisplayName: "alice"})
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)
	assert.True(t, created.Balance.IsZero())

	again, err := svc.RegisterPlayer(ctx, &usecase.RegisterPlayerInput{PlayerID: id, DisplayName: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "alice", again.DisplayName)

	byWallet, err := svc.RegisterPlayer(ctx, &usecase.RegisterPlayerInput{PlayerID: uuid.New(), WalletAddress: "EQwallet"})
	require.NoError(t, err)
	assert.Equal(t, id, byWallet.ID)

	_, err = svc.RegisterPlayer(ctx, &usecase.RegisterPlayerInput{})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestPlayerService_GetProfile(t *testing.T) {
	fx := newGameFixtures(t)
	svc := NewPlayerService(fx.params)
	ctx := context.Background()

	player := fx.seedPlayer(t, "1000")
	fx.buyPlot(t, player.ID, 50, 50)
	fx.build(t, player.ID, 0, 0, "farm")

	profile, err := svc.GetProfile(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), profile.PlotsOwned)
	assert.Equal(t, int64(1), profile.BusinessesOwned)
	assert.Equal(t, "entrepreneur", profile.Tier.Key)

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrPlayerNotFound)
}

func TestPlayerService_Leaderboard(t *testing.T) {
	fx := newGameFixtures(t)
	ctx := context.Background()

	rich := fx.seedPlayer(t, "100")
	poor := fx.seedPlayer(t, "100")
	richFarm := fx.build(t, rich.ID, 0, 0, "farm")
	poorFarm := fx.build(t, poor.ID, 100, 100, "farm")

	income := NewIncomeService(fx.params)
	_, err := income.CollectIncome(ctx, rich.ID, richFarm.ID, epoch.Add(48*time.Hour))
	require.NoError(t, err)
	_, err = income.CollectIncome(ctx, poor.ID, poorFarm.ID, epoch.Add(2*time.Hour))
	require.NoError(t, err)

	standings, err := NewPlayerService(fx.params).Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, standings, 2)
	assert.Equal(t, rich.ID, standings[0].Player.ID)
	assert.Equal(t, 1, standings[0].PlotsOwned)
	assert.Equal(t, 1, standings[0].BusinessesOwned)
	assert.Equal(t, poor.ID, standings[1].Player.ID)
}

func TestPlayerService_ListPlayers(t *testing.T) {
	fx := newGameFixtures(t)
	ctx := context.Background()
	svc := NewPlayerService(fx.params)

	for range 3 {
		fx.seedPlayer(t, "1")
	}

	page, err := svc.ListPlayers(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Players, 2)
	assert.Equal(t, 2, page.Limit)

	rest, err := svc.ListPlayers(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest.Players, 1)
	assert.NotContains(t, []uuid.UUID{page.Players[0].ID, page.Players[1].ID}, rest.Players[0].ID)
}
