package impl

import (
	"context"
	"testing"
	"time"

	"citysim/config"
	"citysim/internal/domain/entity"
	"citysim/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepService_RunSweep(t *testing.T) {
	fx := newGameFixtures(t)
	ctx := context.Background()

	alice := fx.seedPlayer(t, "100")
	bob := fx.seedPlayer(t, "100")
	fx.build(t, alice.ID, 0, 0, "farm")
	fx.build(t, alice.ID, 100, 100, "farm")
	fx.build(t, bob.ID, 0, 100, "farm")

	cfg := &config.Config{}
	cfg.Sweep.BatchSize = 2
	svc := NewSweepService(fx.params, cfg)
	now := epoch.Add(24 * time.Hour)

	report, err := svc.RunSweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 3, report.Collected)
	assert.Zero(t, report.Skipped)
	assert.Zero(t, report.Failed)
	assertDecimal(t, "5.481", report.TotalNet, "total net")
	assertDecimal(t, "0.819", report.TotalTax, "total tax")

	records, err := fx.store.Repositories().NewLedgerRepository().List(ctx, entity.TransactionFilter{Type: entity.TxAutoCollectIncome})
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assertDecimal(t, "0.819", fx.treasury(t, entity.TreasuryTax), "treasury tax")

	again, err := svc.RunSweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Scanned)
	assert.Zero(t, again.Collected)
	assert.Equal(t, 3, again.Skipped)

	assert.Len(t, fx.publisher.EventsOfType(service.EventSweepCompleted), 2)
}

func TestSweepService_ManualCollectionWinsRace(t *testing.T) {
	fx := newGameFixtures(t)
	ctx := context.Background()

	player := fx.seedPlayer(t, "100")
	farm := fx.build(t, player.ID, 0, 0, "farm")
	now := epoch.Add(24 * time.Hour)

	_, err := NewIncomeService(fx.params).CollectIncome(ctx, player.ID, farm.ID, now)
	require.NoError(t, err)
	balance := fx.player(t, player.ID).Balance

	report, err := NewSweepService(fx.params, nil).RunSweep(ctx, now.Add(10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.True(t, fx.player(t, player.ID).Balance.Equal(balance))
}

func TestSweepService_EmptyWorld(t *testing.T) {
	fx := newGameFixtures(t)

	report, err := NewSweepService(fx.params, nil).RunSweep(context.Background(), epoch)
	require.NoError(t, err)
	assert.Zero(t, report.Scanned)
	assert.True(t, report.TotalNet.IsZero())
}
