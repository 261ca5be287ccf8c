package impl

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"citysim/internal/domain/economy"
	"citysim/internal/domain/entity"
	domainerrors "citysim/internal/domain/errors"
	"citysim/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncomeService_CollectIncome(t *testing.T) {
	fx := newGameFixtures(t)
	svc := NewIncomeService(fx.params)
	ctx := context.Background()

	player := fx.seedPlayer(t, "100")
	farm := fx.build(t, player.ID, 0, 0, "farm")
	balance := fx.player(t, player.ID).Balance

	receipt, err := svc.CollectIncome(ctx, player.ID, farm.ID, epoch.Add(24*time.Hour))
	require.NoError(t, err)

	assert.True(t, receipt.Collected)
	assertDecimal(t, "24", receipt.Hours, "hours")
	assertDecimal(t, "2.4", receipt.Gross, "gross")
	assertDecimal(t, "0.3", receipt.OperatingCost, "operating cost")
	assertDecimal(t, "0.273", receipt.Tax, "tax")
	assertDecimal(t, "1.827", receipt.Net, "net")
	assert.Equal(t, int64(24), receipt.XPGain)
	assert.Equal(t, 1, receipt.Level)
	assert.False(t, receipt.LeveledUp)
	require.NotNil(t, receipt.Transaction)
	assert.Equal(t, entity.TxCollectIncome, receipt.Transaction.Type)

	stored := fx.player(t, player.ID)
	assert.True(t, stored.Balance.Equal(balance.Add(dec("1.827"))))
	assertDecimal(t, "1.827", stored.TotalIncome, "player income")
	assertDecimal(t, "0.273", fx.treasury(t, entity.TreasuryTax), "treasury tax")

	business, err := fx.store.Repositories().NewBusinessRepository().FindByID(ctx, farm.ID)
	require.NoError(t, err)
	assert.Equal(t, epoch.Add(24*time.Hour), business.LastCollection)
	assert.Equal(t, int64(24), business.XP)
	assertDecimal(t, "1.827", business.TotalIncome, "business income")

	assert.Len(t, fx.publisher.EventsOfType(service.EventIncomeCollected), 1)
}

func TestIncomeService_CollectIncome_Debounced(t *testing.T) {
	fx := newGameFixtures(t)
	svc := NewIncomeService(fx.params)
	ctx := context.Background()

	player := fx.seedPlayer(t, "100")
	farm := fx.build(t, player.ID, 0, 0, "farm")
	now := epoch.Add(24 * time.Hour)

	_, err := svc.CollectIncome(ctx, player.ID, farm.ID, now)
	require.NoError(t, err)
	balance := fx.player(t, player.ID).Balance

	again, err := svc.CollectIncome(ctx, player.ID, farm.ID, now.Add(30*time.Minute))
	require.NoError(t, err)
	assert.False(t, again.Collected)
	assert.True(t, again.Net.IsZero())
	assert.Nil(t, again.Transaction)
	assert.True(t, fx.player(t, player.ID).Balance.Equal(balance))
}

func TestIncomeService_ConcurrentCollectAndSweepCreditOnce(t *testing.T) {
	fx := newGameFixtures(t)
	incomeSvc := NewIncomeService(fx.params)
	sweepSvc := NewSweepService(fx.params, nil)
	ctx := context.Background()

	player := fx.seedPlayer(t, "100")
	farm := fx.build(t, player.ID, 0, 0, "farm")
	balance := fx.player(t, player.ID).Balance
	now := epoch.Add(24 * time.Hour)

	const collectors = 16
	var (
		wg        sync.WaitGroup
		credited  atomic.Int32
		sweptOnce atomic.Int32
		errs      = make(chan error, collectors+1)
		start     = make(chan struct{})
	)
	wg.Add(collectors + 1)
	for range collectors {
		go func() {
			defer wg.Done()
			<-start
			receipt, err := incomeSvc.CollectIncome(ctx, player.ID, farm.ID, now)
			if err != nil {
				errs <- err
				return
			}
			if receipt.Collected {
				credited.Add(1)
			}
		}()
	}
	go func() {
		defer wg.Done()
		<-start
		report, err := sweepSvc.RunSweep(ctx, now)
		if err != nil {
			errs <- err
			return
		}
		sweptOnce.Add(int32(report.Collected))
	}()
	close(start)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), credited.Load()+sweptOnce.Load())

	stored := fx.player(t, player.ID)
	assert.True(t, stored.Balance.Equal(balance.Add(dec("1.827"))), "balance = %s", stored.Balance)
	assertDecimal(t, "1.827", stored.TotalIncome, "player income")
	assertDecimal(t, "0.273", fx.treasury(t, entity.TreasuryTax), "treasury tax")

	ledger := fx.store.Repositories().NewLedgerRepository()
	manual, err := ledger.List(ctx, entity.TransactionFilter{Type: entity.TxCollectIncome})
	require.NoError(t, err)
	auto, err := ledger.List(ctx, entity.TransactionFilter{Type: entity.TxAutoCollectIncome})
	require.NoError(t, err)
	assert.Len(t, append(manual, auto...), 1)
}

func TestIncomeService_CollectIncome_Rejections(t *testing.T) {
	fx := newGameFixtures(t)
	svc := NewIncomeService(fx.params)
	ctx := context.Background()

	owner := fx.seedPlayer(t, "100")
	other := fx.seedPlayer(t, "100")
	farm := fx.build(t, owner.ID, 0, 0, "farm")

	_, err := svc.CollectIncome(ctx, other.ID, farm.ID, epoch.Add(24*time.Hour))
	assert.ErrorIs(t, err, domainerrors.ErrNotOwner)

	_, err = svc.CollectIncome(ctx, owner.ID, other.ID, epoch.Add(24*time.Hour))
	assert.ErrorIs(t, err, domainerrors.ErrBusinessNotFound)
}

func TestIncomeService_LevelsUpOverTime(t *testing.T) {
	fx := newGameFixtures(t)
	svc := NewIncomeService(fx.params)
	ctx := context.Background()

	player := fx.seedPlayer(t, "100")
	farm := fx.build(t, player.ID, 0, 0, "farm")

	receipt, err := svc.CollectIncome(ctx, player.ID, farm.ID, epoch.Add(5*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(120), receipt.XPGain)
	assert.Equal(t, 2, receipt.Level)
	assert.True(t, receipt.LeveledUp)
}

func TestIncomeService_CollectAll(t *testing.T) {
	fx := newGameFixtures(t)
	svc := NewIncomeService(fx.params)
	ctx := context.Background()

	player := fx.seedPlayer(t, "100")
	fx.build(t, player.ID, 0, 0, "farm")
	fx.build(t, player.ID, 100, 100, "farm")

	result, err := svc.CollectAll(ctx, player.ID, epoch.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, result.Receipts, 2)
	assertDecimal(t, "3.654", result.TotalNet, "total net")
	assertDecimal(t, "0.546", result.TotalTax, "total tax")
	assert.True(t, result.Balance.Equal(fx.player(t, player.ID).Balance))
}

func TestIncomeService_PendingIncome(t *testing.T) {
	fx := newGameFixtures(t)
	svc := NewIncomeService(fx.params)
	ctx := context.Background()

	player := fx.seedPlayer(t, "100")
	farm := fx.build(t, player.ID, 0, 0, "farm")
	balance := fx.player(t, player.ID).Balance

	pending, err := svc.PendingIncome(ctx, player.ID, epoch.Add(12*time.Hour))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, farm.ID, pending[0].BusinessID)
	assert.True(t, pending[0].Eligible)
	assertDecimal(t, "0.9135", pending[0].Net, "pending net")

	assert.True(t, fx.player(t, player.ID).Balance.Equal(balance))
}

func TestIncomeService_IncomeTableAndProject(t *testing.T) {
	fx := newGameFixtures(t)
	svc := NewIncomeService(fx.params)
	ctx := context.Background()

	all, err := svc.IncomeTable(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, len(fx.engine.IncomeTable()))

	farm, err := svc.IncomeTable(ctx, "farm")
	require.NoError(t, err)
	assert.NotEmpty(t, farm)

	_, err = svc.IncomeTable(ctx, "castle")
	assert.ErrorIs(t, err, domainerrors.ErrUnknownBusinessType)

	p, err := svc.Project(ctx, "farm", 1, economy.ZoneOutskirts, 0)
	require.NoError(t, err)
	assertDecimal(t, "1.827", p.Net, "projected net")

	_, err = svc.Project(ctx, "farm", 1, economy.ZoneOutskirts, -1)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}
