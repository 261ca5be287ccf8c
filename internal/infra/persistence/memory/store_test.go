package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"citysim/internal/domain/economy"
	"citysim/internal/domain/entity"
	"citysim/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func seedPlayer(t *testing.T, st *Store, balance string) *entity.Player {
	t.Helper()

	p := &entity.Player{
		ID:            uuid.New(),
		WalletAddress: "EQ" + uuid.NewString(),
		Balance:       decimal.RequireFromString(balance),
		CreatedAt:     epoch,
	}
	require.NoError(t, st.Repositories().NewPlayerRepository().Create(context.Background(), p))

	return p
}

func TestStore_ExecuteCommitsOnSuccess(t *testing.T) {
	t.Parallel()

	st := NewStore()
	p := seedPlayer(t, st, "10")

	err := st.Execute(context.Background(), func(f repository.RepositoryFactory) error {
		_, err := f.NewPlayerRepository().AdjustBalance(context.Background(), p.ID, decimal.NewFromInt(-4))
		return err
	})
	require.NoError(t, err)

	got, err := st.Repositories().NewPlayerRepository().FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(6)))
}

func TestStore_ExecuteRollsBackOnError(t *testing.T) {
	t.Parallel()

	st := NewStore()
	p := seedPlayer(t, st, "10")
	boom := errors.New("boom")

	err := st.Execute(context.Background(), func(f repository.RepositoryFactory) error {
		ctx := context.Background()
		if _, err := f.NewPlayerRepository().AdjustBalance(ctx, p.ID, decimal.NewFromInt(-4)); err != nil {
			return err
		}
		if err := f.NewLedgerRepository().Create(ctx, &entity.Transaction{Type: entity.TxPurchasePlot, CreatedAt: epoch}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	repos := st.Repositories()
	got, err := repos.NewPlayerRepository().FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(10)))

	txs, err := repos.NewLedgerRepository().List(context.Background(), entity.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestStore_ExecuteRollbackRestoresEveryTable(t *testing.T) {
	t.Parallel()

	st := NewStore()
	ctx := context.Background()
	repos := st.Repositories()
	owner := seedPlayer(t, st, "10")

	plot := &entity.Plot{ID: uuid.New(), X: 3, Y: 4, IsAvailable: true, CreatedAt: epoch}
	require.NoError(t, repos.NewPlotRepository().Create(ctx, plot))
	left := &entity.Business{ID: uuid.New(), OwnerID: owner.ID, X: 10, Y: 10, IsActive: true}
	right := &entity.Business{ID: uuid.New(), OwnerID: owner.ID, X: 12, Y: 10, IsActive: true}
	require.NoError(t, repos.NewBusinessRepository().Create(ctx, left))
	require.NoError(t, repos.NewBusinessRepository().Create(ctx, right))
	require.NoError(t, repos.NewBusinessRepository().AddConnection(ctx, left.ID, right.ID))
	pending := &entity.Transaction{Type: entity.TxWithdrawal, Status: entity.TxStatusPending, CreatedAt: epoch}
	require.NoError(t, repos.NewLedgerRepository().Create(ctx, pending))
	require.NoError(t, repos.NewTreasuryRepository().Increment(ctx, entity.TreasuryTax, decimal.NewFromInt(1), epoch))

	boom := errors.New("boom")
	err := st.Execute(ctx, func(f repository.RepositoryFactory) error {
		claim := &entity.Plot{ID: plot.ID, PurchasedAt: &epoch, UpdatedAt: epoch}
		require.NoError(t, f.NewPlotRepository().ClaimAvailable(ctx, claim, owner.ID))
		require.NoError(t, f.NewPlotRepository().Create(ctx, &entity.Plot{X: 7, Y: 7, CreatedAt: epoch}))

		businesses := f.NewBusinessRepository()
		_, err := businesses.RemoveConnections(ctx, left.ID)
		require.NoError(t, err)
		require.NoError(t, businesses.Delete(ctx, left.ID))
		require.NoError(t, businesses.Create(ctx, &entity.Business{X: 11, Y: 11, IsActive: true}))

		ledger := f.NewLedgerRepository()
		require.NoError(t, ledger.Create(ctx, &entity.Transaction{Type: entity.TxDeposit, ExternalRef: "hash-1", CreatedAt: epoch}))
		require.NoError(t, ledger.UpdateStatus(ctx, pending.ID, entity.TxStatusPending, entity.TxStatusCompleted, epoch))

		require.NoError(t, f.NewTreasuryRepository().Increment(ctx, entity.TreasuryTax, decimal.NewFromInt(5), epoch))
		require.NoError(t, f.NewTreasuryRepository().Increment(ctx, entity.TreasuryDeposits, decimal.NewFromInt(5), epoch))
		_, err = f.NewPlayerRepository().AdjustBalance(ctx, owner.ID, decimal.NewFromInt(-3))
		require.NoError(t, err)

		return boom
	})
	require.ErrorIs(t, err, boom)

	gotPlot, err := repos.NewPlotRepository().FindByID(ctx, plot.ID)
	require.NoError(t, err)
	assert.True(t, gotPlot.IsAvailable)
	assert.Nil(t, gotPlot.OwnerID)
	_, err = repos.NewPlotRepository().FindByCoordinates(ctx, 7, 7)
	assert.ErrorIs(t, err, repository.ErrPlotNotFound)

	businesses := repos.NewBusinessRepository()
	gotLeft, err := businesses.FindByID(ctx, left.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{right.ID}, gotLeft.ConnectedBusinesses)
	gotRight, err := businesses.FindByID(ctx, right.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{left.ID}, gotRight.ConnectedBusinesses)
	nearby, err := businesses.FindActiveWithin(ctx, economy.Window{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20})
	require.NoError(t, err)
	assert.Len(t, nearby, 2)

	ledger := repos.NewLedgerRepository()
	txs, err := ledger.List(ctx, entity.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, entity.TxStatusPending, txs[0].Status)
	_, err = ledger.FindByExternalRef(ctx, "hash-1")
	assert.ErrorIs(t, err, repository.ErrTransactionNotFound)

	entries, err := repos.NewTreasuryRepository().Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, int64(1), entries[0].Count)

	gotOwner, err := repos.NewPlayerRepository().FindByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, gotOwner.Balance.Equal(decimal.NewFromInt(10)))

	// The ledger keeps accepting writes after a rollback.
	require.NoError(t, ledger.Create(ctx, &entity.Transaction{Type: entity.TxDeposit, ExternalRef: "hash-1", CreatedAt: epoch}))
}

func TestStore_ExecuteRollsBackOnPanic(t *testing.T) {
	t.Parallel()

	st := NewStore()
	p := seedPlayer(t, st, "10")

	assert.Panics(t, func() {
		_ = st.Execute(context.Background(), func(f repository.RepositoryFactory) error {
			_, err := f.NewPlayerRepository().AdjustBalance(context.Background(), p.ID, decimal.NewFromInt(-4))
			require.NoError(t, err)
			panic("boom")
		})
	})

	got, err := st.Repositories().NewPlayerRepository().FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(10)))
}

func TestStore_ExecuteJournalsOnlyTouchedRows(t *testing.T) {
	t.Parallel()

	st := NewStore()
	ctx := context.Background()
	p := seedPlayer(t, st, "10")
	ledger := st.Repositories().NewLedgerRepository()
	for range 10_000 {
		require.NoError(t, ledger.Create(ctx, &entity.Transaction{Type: entity.TxCollectIncome, CreatedAt: epoch}))
	}

	var undo int
	err := st.Execute(ctx, func(f repository.RepositoryFactory) error {
		if _, err := f.NewPlayerRepository().AdjustBalance(ctx, p.ID, decimal.NewFromInt(1)); err != nil {
			return err
		}
		undo = len(st.committed.journal.undo)

		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, undo)
	assert.Nil(t, st.committed.journal)
}

func TestStore_ExecuteHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	st := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := st.Execute(ctx, func(repository.RepositoryFactory) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestPlayerRepository_AdjustBalanceNeverNegative(t *testing.T) {
	t.Parallel()

	st := NewStore()
	p := seedPlayer(t, st, "1")
	repo := st.Repositories().NewPlayerRepository()

	_, err := repo.AdjustBalance(context.Background(), p.ID, decimal.RequireFromString("-1.000000001"))
	assert.ErrorIs(t, err, repository.ErrInsufficientBalance)

	balance, err := repo.AdjustBalance(context.Background(), p.ID, decimal.NewFromInt(-1))
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	_, err = repo.AdjustBalance(context.Background(), uuid.New(), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, repository.ErrPlayerNotFound)
}

func TestPlayerRepository_WalletIsUniqueAndCaseInsensitive(t *testing.T) {
	t.Parallel()

	st := NewStore()
	repo := st.Repositories().NewPlayerRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Player{ID: uuid.New(), WalletAddress: "EQAbc"}))
	err := repo.Create(ctx, &entity.Player{ID: uuid.New(), WalletAddress: "eqabc"})
	assert.ErrorIs(t, err, repository.ErrDuplicatePlayer)

	found, err := repo.FindByWallet(ctx, "EQABC")
	require.NoError(t, err)
	assert.Equal(t, "EQAbc", found.WalletAddress)
}

func TestPlotRepository_ClaimAvailable(t *testing.T) {
	t.Parallel()

	st := NewStore()
	repo := st.Repositories().NewPlotRepository()
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	plot := &entity.Plot{X: 3, Y: 4, Zone: economy.ZoneOutskirts, IsAvailable: true, CreatedAt: epoch}
	require.NoError(t, repo.Create(ctx, plot))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Plot{X: 3, Y: 4}), repository.ErrDuplicatePlot)

	plot.UpdatedAt = epoch.Add(time.Minute)
	require.NoError(t, repo.ClaimAvailable(ctx, plot, owner))
	assert.True(t, plot.IsOwnedBy(owner))
	assert.False(t, plot.IsAvailable)

	assert.ErrorIs(t, repo.ClaimAvailable(ctx, plot, other), repository.ErrStaleWrite)

	n, err := repo.CountByOwnerAndZone(ctx, owner, economy.ZoneOutskirts)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestBusinessRepository_FindActiveWithin(t *testing.T) {
	t.Parallel()

	st := NewStore()
	repo := st.Repositories().NewBusinessRepository()
	ctx := context.Background()

	inside := &entity.Business{ID: uuid.New(), X: 10, Y: 10, IsActive: true}
	edge := &entity.Business{ID: uuid.New(), X: 15, Y: 5, IsActive: true}
	outside := &entity.Business{ID: uuid.New(), X: 16, Y: 10, IsActive: true}
	inactive := &entity.Business{ID: uuid.New(), X: 11, Y: 11}
	for _, b := range []*entity.Business{inside, edge, outside, inactive} {
		require.NoError(t, repo.Create(ctx, b))
	}

	got, err := repo.FindActiveWithin(ctx, economy.Window{MinX: 5, MinY: 5, MaxX: 15, MaxY: 15})
	require.NoError(t, err)

	ids := make([]uuid.UUID, 0, len(got))
	for _, b := range got {
		ids = append(ids, b.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{inside.ID, edge.ID}, ids)

	require.NoError(t, repo.Delete(ctx, inside.ID))
	got, err = repo.FindActiveWithin(ctx, economy.Window{MinX: 5, MinY: 5, MaxX: 15, MaxY: 15})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestBusinessRepository_Connections(t *testing.T) {
	t.Parallel()

	st := NewStore()
	repo := st.Repositories().NewBusinessRepository()
	ctx := context.Background()

	a := &entity.Business{ID: uuid.New(), IsActive: true}
	b := &entity.Business{ID: uuid.New(), IsActive: true}
	c := &entity.Business{ID: uuid.New(), IsActive: true}
	for _, x := range []*entity.Business{a, b, c} {
		require.NoError(t, repo.Create(ctx, x))
	}

	require.NoError(t, repo.AddConnection(ctx, a.ID, b.ID))
	require.NoError(t, repo.AddConnection(ctx, a.ID, c.ID))
	require.NoError(t, repo.AddConnection(ctx, b.ID, a.ID))

	stored, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, stored.ConnectedBusinesses, 2)

	neighbours, err := repo.RemoveConnections(ctx, a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{b.ID, c.ID}, neighbours)

	for _, id := range []uuid.UUID{b.ID, c.ID} {
		n, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, n.ConnectedBusinesses)
	}
}

func TestBusinessRepository_UpdateAfterCollectionDetectsStaleWrite(t *testing.T) {
	t.Parallel()

	st := NewStore()
	repo := st.Repositories().NewBusinessRepository()
	ctx := context.Background()

	b := &entity.Business{ID: uuid.New(), Level: 1, LastCollection: epoch, IsActive: true}
	require.NoError(t, repo.Create(ctx, b))

	first := *b
	first.LastCollection = epoch.Add(2 * time.Hour)
	first.XP = 5
	require.NoError(t, repo.UpdateAfterCollection(ctx, &first, epoch))

	second := *b
	second.LastCollection = epoch.Add(3 * time.Hour)
	assert.ErrorIs(t, repo.UpdateAfterCollection(ctx, &second, epoch), repository.ErrStaleWrite)

	stored, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, stored.LastCollection.Equal(first.LastCollection))
	assert.Equal(t, int64(5), stored.XP)
}

func TestBusinessRepository_ListActivePages(t *testing.T) {
	t.Parallel()

	st := NewStore()
	repo := st.Repositories().NewBusinessRepository()
	ctx := context.Background()

	for range 5 {
		require.NoError(t, repo.Create(ctx, &entity.Business{IsActive: true}))
	}

	var seen []uuid.UUID
	after := uuid.Nil
	for {
		page, err := repo.ListActive(ctx, after, 2)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		for _, b := range page {
			seen = append(seen, b.ID)
		}
		after = page[len(page)-1].ID
	}
	assert.Len(t, seen, 5)
}

func TestLedgerRepository(t *testing.T) {
	t.Parallel()

	st := NewStore()
	repo := st.Repositories().NewLedgerRepository()
	ctx := context.Background()
	player := uuid.New()

	deposit := &entity.Transaction{Type: entity.TxDeposit, ToPlayerID: &player, Amount: decimal.NewFromInt(5),
		Status: entity.TxStatusCompleted, ExternalRef: "tx-1", CreatedAt: epoch}
	require.NoError(t, repo.Create(ctx, deposit))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Transaction{ExternalRef: "tx-1"}), repository.ErrDuplicateExternalRef)

	withdrawal := &entity.Transaction{Type: entity.TxWithdrawal, FromPlayerID: &player, Amount: decimal.NewFromInt(2),
		Status: entity.TxStatusPending, CreatedAt: epoch.Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, withdrawal))

	list, err := repo.List(ctx, entity.TransactionFilter{PlayerID: &player})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, withdrawal.ID, list[0].ID)

	sum, count, err := repo.SumPending(ctx, entity.TxWithdrawal)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.UpdateStatus(ctx, withdrawal.ID, entity.TxStatusPending, entity.TxStatusCompleted, epoch.Add(2*time.Hour)))
	assert.ErrorIs(t,
		repo.UpdateStatus(ctx, withdrawal.ID, entity.TxStatusPending, entity.TxStatusRejected, epoch),
		repository.ErrStaleWrite)

	first, err := repo.FirstCreatedAt(ctx)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, first.Equal(epoch))

	byRef, err := repo.FindByExternalRef(ctx, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, deposit.ID, byRef.ID)
}

func TestTreasuryRepository_Snapshot(t *testing.T) {
	t.Parallel()

	st := NewStore()
	repo := st.Repositories().NewTreasuryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Increment(ctx, entity.TreasuryTax, decimal.RequireFromString("0.273"), epoch))
	require.NoError(t, repo.Increment(ctx, entity.TreasuryTax, decimal.RequireFromString("0.027"), epoch))
	require.NoError(t, repo.Increment(ctx, entity.TreasuryPlotSales, decimal.NewFromInt(10), epoch))

	entries, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.TreasuryPlotSales, entries[0].Category)
	assert.Equal(t, entity.TreasuryTax, entries[1].Category)
	assert.True(t, entries[1].Amount.Equal(decimal.RequireFromString("0.3")))
	assert.Equal(t, int64(2), entries[1].Count)
}
