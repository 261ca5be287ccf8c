package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"citysim/internal/domain/economy"
	"citysim/internal/domain/entity"
	"citysim/internal/infra/persistence/memory"
	mockService "citysim/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// manualClock is a service.Clock the test moves by hand.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// gameFixtures holds the shared dependencies of the game service tests.
type gameFixtures struct {
	params    GameParams
	store     *memory.Store
	clock     *manualClock
	publisher *mockService.MockEventPublisher
	engine    *economy.Engine
}

func newGameFixtures(t *testing.T) gameFixtures {
	t.Helper()

	return newGameFixturesWithEngine(t, economy.MustDefaultEngine())
}

func newGameFixturesWithEngine(t *testing.T, engine *economy.Engine) gameFixtures {
	t.Helper()

	store := memory.NewStore()
	clock := &manualClock{now: epoch}
	publisher := mockService.NewMockEventPublisher(t).AcceptAll()

	return gameFixtures{
		params: GameParams{
			TxManager: memory.NewTransactionManager(store),
			Repos:     store.Repositories(),
			Engine:    engine,
			Clock:     clock,
			Publisher: publisher,
		},
		store:     store,
		clock:     clock,
		publisher: publisher,
		engine:    engine,
	}
}

func (f gameFixtures) seedPlayer(t *testing.T, balance string) *entity.Player {
	t.Helper()

	p := &entity.Player{
		ID:            uuid.New(),
		WalletAddress: "EQ" + uuid.NewString()[:8],
		DisplayName:   "player",
		Balance:       dec(balance),
		TotalTurnover: decimal.Zero,
		TotalIncome:   decimal.Zero,
		CreatedAt:     epoch,
		UpdatedAt:     epoch,
	}
	require.NoError(t, f.store.Repositories().NewPlayerRepository().Create(context.Background(), p))

	return p
}

func (f gameFixtures) player(t *testing.T, id uuid.UUID) *entity.Player {
	t.Helper()

	p, err := f.store.Repositories().NewPlayerRepository().FindByID(context.Background(), id)
	require.NoError(t, err)

	return p
}

func (f gameFixtures) treasury(t *testing.T, category entity.TreasuryCategory) decimal.Decimal {
	t.Helper()

	entries, err := f.store.Repositories().NewTreasuryRepository().Snapshot(context.Background())
	require.NoError(t, err)
	for _, e := range entries {
		if e.Category == category {
			return e.Amount
		}
	}

	return decimal.Zero
}

// buyPlot purchases (x, y) for playerID through the plot service.
func (f gameFixtures) buyPlot(t *testing.T, playerID uuid.UUID, x, y int) *entity.Plot {
	t.Helper()

	receipt, err := NewPlotService(f.params).PurchasePlot(context.Background(), playerID, x, y)
	require.NoError(t, err)

	return receipt.Plot
}

// build buys (x, y) and builds businessType on it.
func (f gameFixtures) build(t *testing.T, playerID uuid.UUID, x, y int, businessType string) *entity.Business {
	t.Helper()

	plot := f.buyPlot(t, playerID, x, y)
	receipt, err := NewBusinessService(f.params).BuildBusiness(context.Background(), playerID, plot.ID, businessType)
	require.NoError(t, err)

	return receipt.Business
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "%s = %s, want %s", field, got, want)
}
