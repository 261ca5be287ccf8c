package economy

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// ResourceType is a good produced or consumed by a business.
type ResourceType string

const (
	ResourceNone                ResourceType = ""
	ResourceCrops               ResourceType = "crops"
	ResourceEnergy              ResourceType = "energy"
	ResourceMaterials           ResourceType = "materials"
	ResourceFuel                ResourceType = "fuel"
	ResourceOre                 ResourceType = "ore"
	ResourceGoods               ResourceType = "goods"
	ResourceRefinedFuel         ResourceType = "refined_fuel"
	ResourceSteel               ResourceType = "steel"
	ResourceTextiles            ResourceType = "textiles"
	ResourceConstructionService ResourceType = "construction_service"
	ResourceRetail              ResourceType = "retail"
	ResourceFoodService         ResourceType = "food_service"
	ResourceAccommodation       ResourceType = "accommodation"
	ResourceHealthcare          ResourceType = "healthcare"
	ResourceEducation           ResourceType = "education"
	ResourceLogistics           ResourceType = "logistics"
	ResourceFuelRetail          ResourceType = "fuel_retail"
	ResourceFinance             ResourceType = "finance"
	ResourceTrading             ResourceType = "trading"
	ResourceTechService         ResourceType = "tech_service"
	ResourceDataService         ResourceType = "data_service"
	ResourceInsurance           ResourceType = "insurance"
)

// Sector is the economic tier a business belongs to.
type Sector string

const (
	SectorPrimary    Sector = "primary"
	SectorSecondary  Sector = "secondary"
	SectorTertiary   Sector = "tertiary"
	SectorQuaternary Sector = "quaternary"
)

// BusinessType is one catalog entry. Money amounts are per day.
type BusinessType struct {
	Key               string          `json:"key"`
	Name              string          `json:"name"`
	Sector            Sector          `json:"sector"`
	Cost              decimal.Decimal `json:"cost"`
	BuildTimeHours    int             `json:"build_time_hours"`
	MaterialsRequired int             `json:"materials_required"`
	Produces          ResourceType    `json:"produces"`
	Requires          ResourceType    `json:"requires"`
	BaseIncome        decimal.Decimal `json:"base_income"`
	OperatingCost     decimal.Decimal `json:"operating_cost"`
	Zones             []Zone          `json:"zones"`
	MaxPerPlayer      int             `json:"max_per_player"`
	// MaxTotal of zero means no global cap.
	MaxTotal     int          `json:"max_total"`
	CustomerFlow map[Zone]int `json:"customer_flow"`
}

// AllowedIn reports whether the type may be built in z.
func (t BusinessType) AllowedIn(z Zone) bool {
	return slices.Contains(t.Zones, z)
}

// ZoneMultiplier scales income by customer flow relative to the busiest zone.
// Types without flow weights, or zones missing from them, get 1.
func (t BusinessType) ZoneMultiplier(z Zone) decimal.Decimal {
	if len(t.CustomerFlow) == 0 {
		return decimal.NewFromInt(1)
	}
	flow, ok := t.CustomerFlow[z]
	if !ok {
		return decimal.NewFromInt(1)
	}

	reference, ok := t.CustomerFlow[ZoneCenter]
	if !ok {
		for _, f := range t.CustomerFlow {
			reference = max(reference, f)
		}
	}
	if reference <= 0 {
		return decimal.NewFromInt(1)
	}

	return decimal.NewFromInt(int64(flow)).Div(decimal.NewFromInt(int64(reference)))
}

// Catalog is the immutable set of buildable business types.
type Catalog struct {
	order          []string
	types          map[string]BusinessType
	resourcePrices map[ResourceType]decimal.Decimal
}

// NewCatalog validates and indexes the given types.
func NewCatalog(types []BusinessType, resourcePrices map[ResourceType]decimal.Decimal) (*Catalog, error) {
	c := &Catalog{
		order:          make([]string, 0, len(types)),
		types:          make(map[string]BusinessType, len(types)),
		resourcePrices: make(map[ResourceType]decimal.Decimal, len(resourcePrices)),
	}

	for _, t := range types {
		if t.Key == "" {
			return nil, fmt.Errorf("business type without key")
		}
		if _, dup := c.types[t.Key]; dup {
			return nil, fmt.Errorf("duplicate business type %q", t.Key)
		}
		if t.Cost.IsNegative() || t.BaseIncome.IsNegative() || t.OperatingCost.IsNegative() {
			return nil, fmt.Errorf("business type %q has negative amounts", t.Key)
		}
		if len(t.Zones) == 0 {
			return nil, fmt.Errorf("business type %q has no eligible zones", t.Key)
		}
		if t.MaxPerPlayer <= 0 {
			return nil, fmt.Errorf("business type %q needs a positive per-player cap", t.Key)
		}
		t.Zones = slices.Clone(t.Zones)
		c.order = append(c.order, t.Key)
		c.types[t.Key] = t
	}
	for r, p := range resourcePrices {
		c.resourcePrices[r] = p
	}

	return c, nil
}

// Lookup returns the type registered under key.
func (c *Catalog) Lookup(key string) (BusinessType, bool) {
	t, ok := c.types[key]
	return t, ok
}

// Types returns all types in catalog order.
func (c *Catalog) Types() []BusinessType {
	out := make([]BusinessType, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.types[key])
	}

	return out
}

// ResourcePrice returns the spot price of one unit of r.
func (c *Catalog) ResourcePrice(r ResourceType) (decimal.Decimal, bool) {
	p, ok := c.resourcePrices[r]
	return p, ok
}
