package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_ResaleFloor(t *testing.T) {
	t.Parallel()

	e := MustDefaultEngine()

	tests := []struct {
		name        string
		base        string
		investment  string
		hasBusiness bool
		want        string
	}{
		{name: "empty plot", base: "40", investment: "0", hasBusiness: false, want: "20"},
		{name: "investment ignored without business", base: "40", investment: "10", hasBusiness: false, want: "20"},
		{name: "with business", base: "40", investment: "10.25", hasBusiness: true, want: "45.125"},
		{name: "business with no investment", base: "40", investment: "0", hasBusiness: true, want: "40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := e.ResaleFloor(dec(tt.base), dec(tt.investment), tt.hasBusiness)
			assertDecimal(t, tt.want, got, "floor")
		})
	}
}

func TestEngine_Splits(t *testing.T) {
	t.Parallel()

	e := MustDefaultEngine()

	resale := e.SplitResale(dec("100"))
	assertDecimal(t, "15", resale.Commission, "resale commission")
	assertDecimal(t, "85", resale.Net, "resale net")

	withdrawal := e.SplitWithdrawal(dec("10"))
	assertDecimal(t, "0.3", withdrawal.Commission, "withdrawal commission")
	assertDecimal(t, "9.7", withdrawal.Net, "withdrawal net")

	trade := e.SplitSpotTrade(dec("1"))
	assertDecimal(t, "0", trade.Commission, "trade commission")
	assertDecimal(t, "0.13", trade.Tax, "trade tax")
	assertDecimal(t, "0.87", trade.Net, "trade net")

	assertDecimal(t, "0.2625", e.DemolishFee(dec("5.25")), "demolish fee")
}

func TestCompatible(t *testing.T) {
	t.Parallel()

	c, err := NewCatalog(DefaultBusinessTypes(), nil)
	require.NoError(t, err)
	get := func(key string) BusinessType {
		bt, ok := c.Lookup(key)
		require.True(t, ok, key)
		return bt
	}

	tests := []struct {
		a, b string
		want bool
	}{
		{a: "factory", b: "farm", want: true},
		{a: "farm", b: "factory", want: true},
		{a: "refinery", b: "gas_station", want: true},
		{a: "farm", b: "power_plant", want: false},
		{a: "bank", b: "hotel", want: false},
		{a: "factory", b: "textile_factory", want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Compatible(get(tt.a), get(tt.b)), "%s <-> %s", tt.a, tt.b)
		assert.Equal(t, Compatible(get(tt.a), get(tt.b)), Compatible(get(tt.b), get(tt.a)), "symmetry %s %s", tt.a, tt.b)
	}
}

func TestEngine_ConnectionGeometry(t *testing.T) {
	t.Parallel()

	e := MustDefaultEngine()
	farm, _ := e.Catalog().Lookup("farm")
	factory, _ := e.Catalog().Lookup("factory")

	assert.True(t, WithinRadius(10, 10, 15, 15, 5))
	assert.False(t, WithinRadius(10, 10, 16, 10, 5))

	assert.True(t, e.CanConnect(farm, 10, 10, factory, 15, 12))
	assert.False(t, e.CanConnect(farm, 10, 10, factory, 10, 16))
	assert.False(t, e.CanConnect(farm, 10, 10, factory, 10, 10))

	assert.Equal(t, Window{MinX: 0, MinY: 93, MaxX: 7, MaxY: 100}, e.ConnectionWindow(2, 98))
}

func TestEngine_Project(t *testing.T) {
	t.Parallel()

	e := MustDefaultEngine()

	p, err := e.Project("farm", 1, ZoneOutskirts, 0)
	require.NoError(t, err)
	assertDecimal(t, "1.827", p.Net, "net")
	assertDecimal(t, "54.81", p.Monthly, "monthly")
	assertDecimal(t, "2.9", p.ROIDays, "roi")

	_, err = e.Project("farm", 11, ZoneOutskirts, 0)
	assert.Error(t, err)
	_, err = e.Project("castle", 1, ZoneOutskirts, 0)
	assert.Error(t, err)
}

func TestEngine_IncomeTable(t *testing.T) {
	t.Parallel()

	e := MustDefaultEngine()

	want := 0
	for _, bt := range e.Catalog().Types() {
		want += e.Levels().MaxLevel() * len(bt.Zones) * len(ProjectionConnections)
	}

	rows := e.IncomeTable()
	assert.Len(t, rows, want)

	farmRows := e.TypeIncomeTable("farm")
	assert.Len(t, farmRows, 10*3*5)
	for _, r := range farmRows {
		assert.Equal(t, "farm", r.Type)
		assert.False(t, r.Net.IsNegative())
	}

	assert.Nil(t, e.TypeIncomeTable("castle"))
}
