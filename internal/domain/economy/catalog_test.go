package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	c, err := NewCatalog(DefaultBusinessTypes(), DefaultResourcePrices())
	require.NoError(t, err)

	types := c.Types()
	require.Len(t, types, 22)
	assert.Equal(t, "farm", types[0].Key)
	assert.Equal(t, "insurance", types[len(types)-1].Key)

	exchange, ok := c.Lookup("exchange")
	require.True(t, ok)
	assert.Equal(t, 5, exchange.MaxTotal)
	assert.Equal(t, []Zone{ZoneCenter}, exchange.Zones)

	_, ok = c.Lookup("castle")
	assert.False(t, ok)

	price, ok := c.ResourcePrice(ResourceRefinedFuel)
	require.True(t, ok)
	assertDecimal(t, "0.015", price, "refined fuel price")

	_, ok = c.ResourcePrice(ResourceRetail)
	assert.False(t, ok)
}

func TestNewCatalog_Validation(t *testing.T) {
	t.Parallel()

	valid := BusinessType{Key: "farm", Zones: []Zone{ZoneOutskirts}, MaxPerPlayer: 1}

	tests := []struct {
		name  string
		types []BusinessType
	}{
		{name: "missing key", types: []BusinessType{{Zones: []Zone{ZoneOutskirts}, MaxPerPlayer: 1}}},
		{name: "duplicate key", types: []BusinessType{valid, valid}},
		{name: "no zones", types: []BusinessType{{Key: "a", MaxPerPlayer: 1}}},
		{name: "no per-player cap", types: []BusinessType{{Key: "a", Zones: []Zone{ZoneCenter}}}},
		{name: "negative cost", types: []BusinessType{{Key: "a", Zones: []Zone{ZoneCenter}, MaxPerPlayer: 1, Cost: dec("-1")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewCatalog(tt.types, nil)
			assert.Error(t, err)
		})
	}
}

func TestBusinessType_ZoneMultiplier(t *testing.T) {
	t.Parallel()

	c, err := NewCatalog(DefaultBusinessTypes(), nil)
	require.NoError(t, err)

	shop, _ := c.Lookup("shop")
	assertDecimal(t, "1", shop.ZoneMultiplier(ZoneCenter), "shop center")
	assertDecimal(t, "0.6", shop.ZoneMultiplier(ZoneBusiness), "shop business")
	assertDecimal(t, "0.4", shop.ZoneMultiplier(ZoneResidential), "shop residential")

	farm, _ := c.Lookup("farm")
	assertDecimal(t, "1", farm.ZoneMultiplier(ZoneOutskirts), "farm outskirts")

	noCenter := BusinessType{CustomerFlow: map[Zone]int{ZoneBusiness: 50, ZoneResidential: 25}}
	assertDecimal(t, "1", noCenter.ZoneMultiplier(ZoneBusiness), "busiest zone")
	assertDecimal(t, "0.5", noCenter.ZoneMultiplier(ZoneResidential), "half traffic")
}

func TestBusinessType_AllowedIn(t *testing.T) {
	t.Parallel()

	c, err := NewCatalog(DefaultBusinessTypes(), nil)
	require.NoError(t, err)

	farm, _ := c.Lookup("farm")
	assert.True(t, farm.AllowedIn(ZoneOutskirts))
	assert.False(t, farm.AllowedIn(ZoneCenter))
}

func TestEngine_ConstructionCost(t *testing.T) {
	t.Parallel()

	e := MustDefaultEngine()

	farm, _ := e.Catalog().Lookup("farm")
	assertDecimal(t, "5.25", e.ConstructionCost(farm), "farm")

	exchange, _ := e.Catalog().Lookup("exchange")
	assertDecimal(t, "105", e.ConstructionCost(exchange), "exchange")
}

func TestNewEngine_RejectsUnknownZoneInCatalog(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Zones = opts.Zones[:1]

	_, err := NewEngine(opts)
	assert.Error(t, err)
}

func TestLevelTable(t *testing.T) {
	t.Parallel()

	table, err := NewLevelTable(DefaultLevels())
	require.NoError(t, err)
	assert.Equal(t, 10, table.MaxLevel())

	tests := []struct {
		xp   int64
		want int
	}{
		{xp: 0, want: 1},
		{xp: 99, want: 1},
		{xp: 100, want: 2},
		{xp: 2199, want: 6},
		{xp: 5499, want: 9},
		{xp: 5500, want: 10},
		{xp: 1_000_000, want: 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, table.LevelFor(tt.xp), "xp %d", tt.xp)
	}

	assertDecimal(t, "1", table.Spec(0).IncomeMultiplier, "clamped low")
	assertDecimal(t, "6.5", table.Spec(42).IncomeMultiplier, "clamped high")

	levels := table.Levels()
	for i := 1; i < len(levels); i++ {
		assert.Greater(t, levels[i].XPRequired, levels[i-1].XPRequired)
		assert.True(t, levels[i].IncomeMultiplier.GreaterThan(levels[i-1].IncomeMultiplier))
	}
}

func TestNewLevelTable_Validation(t *testing.T) {
	t.Parallel()

	levels := DefaultLevels()
	levels[3].XPRequired = levels[2].XPRequired
	_, err := NewLevelTable(levels)
	assert.Error(t, err)

	levels = DefaultLevels()
	levels[0].XPRequired = 5
	_, err = NewLevelTable(levels)
	assert.Error(t, err)

	_, err = NewLevelTable(nil)
	assert.Error(t, err)
}

func TestTiers_TierFor(t *testing.T) {
	t.Parallel()

	tiers, err := NewTiers(DefaultTiers())
	require.NoError(t, err)

	tests := []struct {
		turnover string
		want     string
		maxPlots int
	}{
		{turnover: "0", want: "novice", maxPlots: 3},
		{turnover: "99.99", want: "novice", maxPlots: 3},
		{turnover: "100", want: "entrepreneur", maxPlots: 7},
		{turnover: "1999", want: "businessman", maxPlots: 15},
		{turnover: "2000", want: "magnate", maxPlots: 30},
		{turnover: "250000", want: "oligarch", maxPlots: 50},
	}
	for _, tt := range tests {
		tier := tiers.TierFor(dec(tt.turnover))
		assert.Equal(t, tt.want, tier.Key, "turnover %s", tt.turnover)
		assert.Equal(t, tt.maxPlots, tier.MaxPlots)
	}
}
