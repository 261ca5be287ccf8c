package economy

import (
	"testing"
	"time"

	domainerrors "citysim/internal/domain/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "%s = %s, want %s", field, got, want)
}

func TestEngine_Accrue_FarmScenario(t *testing.T) {
	t.Parallel()

	e := MustDefaultEngine()

	a, err := e.Accrue(AccrualInput{
		TypeKey:        "farm",
		Level:          1,
		Zone:           ZoneOutskirts,
		LastCollection: epoch,
		Now:            epoch.Add(24 * time.Hour),
		Context:        BonusOnDemand,
	})
	require.NoError(t, err)

	assert.True(t, a.Eligible)
	assertDecimal(t, "1", a.Days, "days")
	assertDecimal(t, "2.4", a.Gross, "gross")
	assertDecimal(t, "0.3", a.OperatingCost, "operating cost")
	assertDecimal(t, "0.273", a.Tax, "tax")
	assertDecimal(t, "1.827", a.Net, "net")
	assert.Equal(t, int64(24), a.XPGain)
}

func TestEngine_Accrue_Debounce(t *testing.T) {
	t.Parallel()

	e := MustDefaultEngine()

	tests := []struct {
		name         string
		elapsed      time.Duration
		wantEligible bool
	}{
		{name: "same instant", elapsed: 0, wantEligible: false},
		{name: "clock moved backwards", elapsed: -time.Hour, wantEligible: false},
		{name: "just under an hour", elapsed: 59 * time.Minute, wantEligible: false},
		{name: "exactly one hour", elapsed: time.Hour, wantEligible: true},
		{name: "several days", elapsed: 72 * time.Hour, wantEligible: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, err := e.Accrue(AccrualInput{
				TypeKey:        "farm",
				Level:          1,
				Zone:           ZoneOutskirts,
				LastCollection: epoch,
				Now:            epoch.Add(tt.elapsed),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantEligible, a.Eligible)
			if !tt.wantEligible {
				assert.True(t, a.Net.IsZero())
				assert.True(t, a.Gross.IsZero())
				assert.Zero(t, a.XPGain)
			} else {
				assert.True(t, a.Net.IsPositive())
			}
		})
	}
}

func TestEngine_Accrue_Multipliers(t *testing.T) {
	t.Parallel()

	e := MustDefaultEngine()

	tests := []struct {
		name        string
		typeKey     string
		level       int
		zone        Zone
		connections int
		wantGross   string
	}{
		{name: "zone insensitive type", typeKey: "farm", level: 1, zone: ZoneResidential, wantGross: "2.4"},
		{name: "shop in center", typeKey: "shop", level: 1, zone: ZoneCenter, wantGross: "4.8"},
		{name: "shop in residential", typeKey: "shop", level: 1, zone: ZoneResidential, wantGross: "1.92"},
		{name: "restaurant in residential", typeKey: "restaurant", level: 1, zone: ZoneResidential, wantGross: "2.025"},
		{name: "level multiplier", typeKey: "farm", level: 3, zone: ZoneOutskirts, wantGross: "3.6"},
		{name: "two connections", typeKey: "farm", level: 1, zone: ZoneOutskirts, connections: 2, wantGross: "2.64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, err := e.Accrue(AccrualInput{
				TypeKey:        tt.typeKey,
				Level:          tt.level,
				Zone:           tt.zone,
				Connections:    tt.connections,
				LastCollection: epoch,
				Now:            epoch.Add(24 * time.Hour),
				Context:        BonusOnDemand,
			})
			require.NoError(t, err)
			assertDecimal(t, tt.wantGross, a.Gross, "gross")
		})
	}
}

func TestEngine_Accrue_ScalesWithElapsedTime(t *testing.T) {
	t.Parallel()

	e := MustDefaultEngine()

	a, err := e.Accrue(AccrualInput{
		TypeKey:        "farm",
		Level:          1,
		Zone:           ZoneOutskirts,
		LastCollection: epoch,
		Now:            epoch.Add(12 * time.Hour),
	})
	require.NoError(t, err)

	assertDecimal(t, "0.5", a.Days, "days")
	assertDecimal(t, "1.2", a.Gross, "gross")
	assertDecimal(t, "0.9135", a.Net, "net")
	assert.Equal(t, int64(12), a.XPGain)
}

func TestEngine_Accrue_BonusContext(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Rules.ConnectionBonus[BonusAutoCollect] = dec("0.20")
	e, err := NewEngine(opts)
	require.NoError(t, err)

	in := AccrualInput{
		TypeKey:        "farm",
		Level:          1,
		Zone:           ZoneOutskirts,
		Connections:    1,
		LastCollection: epoch,
		Now:            epoch.Add(24 * time.Hour),
	}

	in.Context = BonusOnDemand
	onDemand, err := e.Accrue(in)
	require.NoError(t, err)

	in.Context = BonusAutoCollect
	auto, err := e.Accrue(in)
	require.NoError(t, err)

	assertDecimal(t, "1.05", onDemand.ConnectionMult, "on demand multiplier")
	assertDecimal(t, "1.2", auto.ConnectionMult, "auto collect multiplier")
	assertDecimal(t, "2.88", auto.Gross, "auto collect gross")
}

func TestEngine_Accrue_ProgressiveTax(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Rules.ProgressiveTax = true
	e, err := NewEngine(opts)
	require.NoError(t, err)

	in := AccrualInput{
		TypeKey:        "farm",
		Level:          1,
		Zone:           ZoneOutskirts,
		LastCollection: epoch,
		Now:            epoch.Add(24 * time.Hour),
	}

	in.MarketShare = dec("0.10")
	low, err := e.Accrue(in)
	require.NoError(t, err)
	assertDecimal(t, "0.13", low.TaxRate, "low share rate")

	in.MarketShare = dec("0.22")
	high, err := e.Accrue(in)
	require.NoError(t, err)
	assertDecimal(t, "0.25", high.TaxRate, "high share rate")
	assertDecimal(t, "0.525", high.Tax, "high share tax")
}

func TestEngine_Accrue_NetNeverNegative(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.BusinessTypes = append(opts.BusinessTypes, BusinessType{
		Key:           "money_pit",
		Name:          "Money Pit",
		Sector:        SectorTertiary,
		Cost:          dec("1"),
		BaseIncome:    dec("1"),
		OperatingCost: dec("3"),
		Zones:         []Zone{ZoneOutskirts},
		MaxPerPlayer:  1,
	})
	e, err := NewEngine(opts)
	require.NoError(t, err)

	a, err := e.Accrue(AccrualInput{
		TypeKey:        "money_pit",
		Level:          1,
		Zone:           ZoneOutskirts,
		LastCollection: epoch,
		Now:            epoch.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.True(t, a.Tax.IsZero())
	assert.True(t, a.Net.IsZero())
}

func TestEngine_Accrue_UnknownType(t *testing.T) {
	t.Parallel()

	_, err := MustDefaultEngine().Accrue(AccrualInput{TypeKey: "castle", Now: epoch})
	assert.ErrorIs(t, err, domainerrors.ErrUnknownBusinessType)
}

func TestEngine_ApplyXP(t *testing.T) {
	t.Parallel()

	e := MustDefaultEngine()

	tests := []struct {
		name      string
		level     int
		xp        int64
		gain      int64
		wantLevel int
		wantXP    int64
	}{
		{name: "no level up", level: 1, xp: 10, gain: 24, wantLevel: 1, wantXP: 34},
		{name: "crosses threshold", level: 1, xp: 90, gain: 15, wantLevel: 2, wantXP: 105},
		{name: "skips levels", level: 1, xp: 0, gain: 1000, wantLevel: 5, wantXP: 1000},
		{name: "caps at max", level: 10, xp: 6000, gain: 500, wantLevel: 10, wantXP: 6500},
		{name: "negative gain ignored", level: 2, xp: 150, gain: -50, wantLevel: 2, wantXP: 150},
		{name: "never lowers stored level", level: 4, xp: 0, gain: 1, wantLevel: 4, wantXP: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			level, xp := e.ApplyXP(tt.level, tt.xp, tt.gain)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantXP, xp)
		})
	}
}

func TestEngine_RepeatedCollectionsKeepLevelMonotonic(t *testing.T) {
	t.Parallel()

	e := MustDefaultEngine()
	level, xp := 1, int64(0)
	last := epoch

	for day := 1; day <= 60; day++ {
		now := epoch.Add(time.Duration(day) * 24 * time.Hour)
		a, err := e.Accrue(AccrualInput{
			TypeKey:        "shop",
			Level:          level,
			Zone:           ZoneCenter,
			LastCollection: last,
			Now:            now,
		})
		require.NoError(t, err)

		newLevel, newXP := e.ApplyXP(level, xp, a.XPGain)
		require.GreaterOrEqual(t, newLevel, level)
		require.GreaterOrEqual(t, newXP, xp)
		level, xp, last = newLevel, newXP, now
	}

	assert.Greater(t, level, 1)
}
