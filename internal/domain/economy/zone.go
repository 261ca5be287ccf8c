// Package economy holds the deterministic rules of the city economy:
// plot pricing and zoning, the business catalog, level progression, income
// accrual and supply-chain compatibility. Nothing here touches storage.
package economy

import (
	"fmt"
	"math"

	domainerrors "citysim/internal/domain/errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/shopspring/decimal"
)

// Zone is a distance-based classification of a map coordinate.
type Zone string

const (
	ZoneCenter      Zone = "center"
	ZoneBusiness    Zone = "business"
	ZoneResidential Zone = "residential"
	ZoneIndustrial  Zone = "industrial"
	ZoneOutskirts   Zone = "outskirts"
)

// ZoneSpec describes one ring of the map.
type ZoneSpec struct {
	Zone            Zone
	RadiusMax       float64
	PlotLimit       int
	PriceMultiplier float64
}

// DefaultZones returns the zones in priority order, innermost first.
func DefaultZones() []ZoneSpec {
	return []ZoneSpec{
		{Zone: ZoneCenter, RadiusMax: 10, PlotLimit: 3, PriceMultiplier: 1.0},
		{Zone: ZoneBusiness, RadiusMax: 25, PlotLimit: 10, PriceMultiplier: 0.7},
		{Zone: ZoneResidential, RadiusMax: 40, PlotLimit: 15, PriceMultiplier: 0.45},
		{Zone: ZoneIndustrial, RadiusMax: 50, PlotLimit: 20, PriceMultiplier: 0.25},
		{Zone: ZoneOutskirts, RadiusMax: 100, PlotLimit: 30, PriceMultiplier: 0.12},
	}
}

const (
	minPlotPrice   = 10.0
	plotPriceRange = 90.0
	pricePlaces    = 2
)

// Map resolves coordinates on a square grid of size x size.
type Map struct {
	size        int
	center      orb.Point
	bound       orb.Bound
	maxDistance float64
	zones       []ZoneSpec
}

// NewMap builds a map with the given side length and zone rings.
func NewMap(size int, zones []ZoneSpec) (*Map, error) {
	if size <= 0 {
		return nil, fmt.Errorf("map size must be positive, got %d", size)
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("at least one zone is required")
	}

	seen := make(map[Zone]struct{}, len(zones))
	for i, z := range zones {
		if _, dup := seen[z.Zone]; dup {
			return nil, fmt.Errorf("duplicate zone %q", z.Zone)
		}
		seen[z.Zone] = struct{}{}
		if i > 0 && z.RadiusMax <= zones[i-1].RadiusMax {
			return nil, fmt.Errorf("zone %q radius must exceed %q", z.Zone, zones[i-1].Zone)
		}
		if z.PlotLimit <= 0 {
			return nil, fmt.Errorf("zone %q plot limit must be positive", z.Zone)
		}
	}

	half := float64(size) / 2
	bound := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{float64(size), float64(size)}}
	center := orb.Point{half, half}

	return &Map{
		size:        size,
		center:      center,
		bound:       bound,
		maxDistance: planar.Distance(center, bound.Min),
		zones:       append([]ZoneSpec(nil), zones...),
	}, nil
}

// Size returns the side length of the map.
func (m *Map) Size() int { return m.size }

// PlotCount returns the number of plots on the map, edges included.
func (m *Map) PlotCount() int64 {
	side := int64(m.size) + 1
	return side * side
}

// Zones returns a copy of the zone rings in priority order.
func (m *Map) Zones() []ZoneSpec { return append([]ZoneSpec(nil), m.zones...) }

// Contains reports whether (x, y) lies inside the map, edges included.
func (m *Map) Contains(x, y int) bool {
	return m.bound.Contains(orb.Point{float64(x), float64(y)})
}

// Distance returns the Euclidean distance of (x, y) from the map center.
func (m *Map) Distance(x, y int) float64 {
	return planar.Distance(m.center, orb.Point{float64(x), float64(y)})
}

// ZoneSpec returns the ring definition for z.
func (m *Map) ZoneSpec(z Zone) (ZoneSpec, bool) {
	for _, spec := range m.zones {
		if spec.Zone == z {
			return spec, true
		}
	}

	return ZoneSpec{}, false
}

// zoneForDistance picks the first ring that reaches d, falling back to the outermost.
func (m *Map) zoneForDistance(d float64) Zone {
	for _, spec := range m.zones {
		if spec.RadiusMax >= d {
			return spec.Zone
		}
	}

	return m.zones[len(m.zones)-1].Zone
}

// PriceAndZone returns the base price and zone of a coordinate.
func (m *Map) PriceAndZone(x, y int) (decimal.Decimal, Zone, error) {
	if !m.Contains(x, y) {
		return decimal.Zero, "", domainerrors.ErrInvalidCoordinates.WithDetails(
			fmt.Sprintf("(%d, %d) is outside 0..%d", x, y, m.size))
	}

	d := m.Distance(x, y)
	factor := math.Max(0, 1-d/m.maxDistance)
	price := decimal.NewFromFloat(minPlotPrice + plotPriceRange*factor).Round(pricePlaces)

	return price, m.zoneForDistance(d), nil
}
