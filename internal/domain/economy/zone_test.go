package economy

import (
	"testing"

	domainerrors "citysim/internal/domain/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_PriceAndZone(t *testing.T) {
	t.Parallel()

	m, err := NewMap(100, DefaultZones())
	require.NoError(t, err)

	tests := []struct {
		name      string
		x, y      int
		wantPrice string
		wantZone  Zone
	}{
		{name: "map center", x: 50, y: 50, wantPrice: "100", wantZone: ZoneCenter},
		{name: "origin corner", x: 0, y: 0, wantPrice: "10", wantZone: ZoneOutskirts},
		{name: "far corner", x: 100, y: 100, wantPrice: "10", wantZone: ZoneOutskirts},
		{name: "center ring edge", x: 50, y: 60, wantPrice: "87.27", wantZone: ZoneCenter},
		{name: "just outside center", x: 50, y: 61, wantPrice: "86", wantZone: ZoneBusiness},
		{name: "edge midpoint", x: 50, y: 0, wantPrice: "36.36", wantZone: ZoneIndustrial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			price, zone, err := m.PriceAndZone(tt.x, tt.y)
			require.NoError(t, err)
			assert.Equal(t, tt.wantZone, zone)
			assert.True(t, price.Equal(decimal.RequireFromString(tt.wantPrice)), "price %s, want %s", price, tt.wantPrice)
		})
	}
}

func TestMap_PriceAndZone_OutOfBounds(t *testing.T) {
	t.Parallel()

	m, err := NewMap(100, DefaultZones())
	require.NoError(t, err)

	for _, pt := range [][2]int{{-1, 0}, {0, -1}, {101, 50}, {50, 101}} {
		_, _, err := m.PriceAndZone(pt[0], pt[1])
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCoordinates)
		assert.Equal(t, domainerrors.KindValidation, domainerrors.KindOf(err))
	}
}

func TestMap_EveryTileResolves(t *testing.T) {
	t.Parallel()

	m, err := NewMap(100, DefaultZones())
	require.NoError(t, err)

	known := map[Zone]bool{}
	for _, z := range DefaultZones() {
		known[z.Zone] = true
	}
	low, high := decimal.NewFromInt(10), decimal.NewFromInt(100)

	for x := 0; x <= 100; x++ {
		for y := 0; y <= 100; y++ {
			price, zone, err := m.PriceAndZone(x, y)
			require.NoError(t, err)
			require.True(t, known[zone], "unknown zone %q at (%d, %d)", zone, x, y)
			require.True(t, price.GreaterThanOrEqual(low) && price.LessThanOrEqual(high),
				"price %s out of range at (%d, %d)", price, x, y)
		}
	}
}

func TestMap_FallsBackToOutermostZone(t *testing.T) {
	t.Parallel()

	zones := []ZoneSpec{
		{Zone: ZoneCenter, RadiusMax: 5, PlotLimit: 1},
		{Zone: ZoneOutskirts, RadiusMax: 10, PlotLimit: 1},
	}
	m, err := NewMap(100, zones)
	require.NoError(t, err)

	_, zone, err := m.PriceAndZone(0, 0)
	require.NoError(t, err)
	assert.Equal(t, ZoneOutskirts, zone)
}

func TestNewMap_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewMap(0, DefaultZones())
	assert.Error(t, err)

	_, err = NewMap(100, nil)
	assert.Error(t, err)

	_, err = NewMap(100, []ZoneSpec{
		{Zone: ZoneCenter, RadiusMax: 20, PlotLimit: 1},
		{Zone: ZoneBusiness, RadiusMax: 10, PlotLimit: 1},
	})
	assert.Error(t, err)
}
