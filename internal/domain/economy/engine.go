package economy

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BonusContext names the caller of the accrual so each one can carry its own
// connection bonus rate.
type BonusContext string

const (
	BonusOnDemand    BonusContext = "onDemand"
	BonusAutoCollect BonusContext = "autoCollect"
	BonusProjection  BonusContext = "projection"
)

// Rules holds the tunable rates of the economy.
type Rules struct {
	TaxRate                       decimal.Decimal
	ProgressiveTax                bool
	ResaleCommission              decimal.Decimal
	DemolishFeeRate               decimal.Decimal
	WithdrawalCommission          decimal.Decimal
	MinWithdrawal                 decimal.Decimal
	TradeCommission               decimal.Decimal
	MaterialUnitPrice             decimal.Decimal
	ConnectionRadius              int
	ConnectionBonus               map[BonusContext]decimal.Decimal
	CollectDebounce               time.Duration
	ResaleFloorBaseFraction       decimal.Decimal
	ResaleFloorInvestmentFraction decimal.Decimal
}

// DefaultRules returns the reference rates.
func DefaultRules() Rules {
	bonus := decimal.RequireFromString("0.05")

	return Rules{
		TaxRate:              decimal.RequireFromString("0.13"),
		ResaleCommission:     decimal.RequireFromString("0.15"),
		DemolishFeeRate:      decimal.RequireFromString("0.05"),
		WithdrawalCommission: decimal.RequireFromString("0.03"),
		MinWithdrawal:        decimal.NewFromInt(1),
		TradeCommission:      decimal.Zero,
		MaterialUnitPrice:    decimal.RequireFromString("0.005"),
		ConnectionRadius:     5,
		ConnectionBonus: map[BonusContext]decimal.Decimal{
			BonusOnDemand:    bonus,
			BonusAutoCollect: bonus,
			BonusProjection:  bonus,
		},
		CollectDebounce:               time.Hour,
		ResaleFloorBaseFraction:       decimal.RequireFromString("0.5"),
		ResaleFloorInvestmentFraction: decimal.RequireFromString("0.5"),
	}
}

// Options is everything needed to build an Engine.
type Options struct {
	MapSize        int
	Zones          []ZoneSpec
	BusinessTypes  []BusinessType
	ResourcePrices map[ResourceType]decimal.Decimal
	Levels         []LevelSpec
	Tiers          []Tier
	TaxBrackets    []TaxBracket
	Rules          Rules
}

// DefaultOptions returns the reference economy on a 100x100 map.
func DefaultOptions() Options {
	return Options{
		MapSize:        100,
		Zones:          DefaultZones(),
		BusinessTypes:  DefaultBusinessTypes(),
		ResourcePrices: DefaultResourcePrices(),
		Levels:         DefaultLevels(),
		Tiers:          DefaultTiers(),
		TaxBrackets:    DefaultTaxBrackets(),
		Rules:          DefaultRules(),
	}
}

// Engine bundles the static economy data. It is immutable after construction
// and safe for concurrent use.
type Engine struct {
	gameMap *Map
	catalog *Catalog
	levels  *LevelTable
	tiers   Tiers
	tax     TaxPolicy
	rules   Rules
}

// NewEngine validates opts and builds an Engine.
func NewEngine(opts Options) (*Engine, error) {
	gameMap, err := NewMap(opts.MapSize, opts.Zones)
	if err != nil {
		return nil, fmt.Errorf("map: %w", err)
	}

	catalog, err := NewCatalog(opts.BusinessTypes, opts.ResourcePrices)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	for _, t := range catalog.Types() {
		for _, z := range t.Zones {
			if _, ok := gameMap.ZoneSpec(z); !ok {
				return nil, fmt.Errorf("catalog: type %q references unknown zone %q", t.Key, z)
			}
		}
	}

	levels, err := NewLevelTable(opts.Levels)
	if err != nil {
		return nil, fmt.Errorf("levels: %w", err)
	}

	tiers, err := NewTiers(opts.Tiers)
	if err != nil {
		return nil, fmt.Errorf("tiers: %w", err)
	}

	rules := opts.Rules
	if rules.TaxRate.IsNegative() || rules.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("tax rate must be in [0, 1)")
	}
	if rules.ConnectionRadius < 0 {
		return nil, fmt.Errorf("connection radius must not be negative")
	}
	if rules.CollectDebounce < 0 {
		return nil, fmt.Errorf("collect debounce must not be negative")
	}
	bonus := make(map[BonusContext]decimal.Decimal, len(rules.ConnectionBonus))
	for k, v := range rules.ConnectionBonus {
		bonus[k] = v
	}
	rules.ConnectionBonus = bonus

	return &Engine{
		gameMap: gameMap,
		catalog: catalog,
		levels:  levels,
		tiers:   tiers,
		tax:     NewTaxPolicy(rules.TaxRate, rules.ProgressiveTax, opts.TaxBrackets),
		rules:   rules,
	}, nil
}

// MustDefaultEngine builds the reference engine and panics on failure.
func MustDefaultEngine() *Engine {
	e, err := NewEngine(DefaultOptions())
	if err != nil {
		panic(err)
	}

	return e
}

// Map returns the pricing and zoning model.
func (e *Engine) Map() *Map { return e.gameMap }

// Catalog returns the business catalog.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Levels returns the level progression table.
func (e *Engine) Levels() *LevelTable { return e.levels }

// Tiers returns the player tier ladder.
func (e *Engine) Tiers() Tiers { return e.tiers }

// Rules returns the configured rates.
func (e *Engine) Rules() Rules { return e.rules }

// TierFor returns the tier for a player's turnover.
func (e *Engine) TierFor(turnover decimal.Decimal) Tier {
	return e.tiers.TierFor(turnover)
}

// PriceAndZone delegates to the map.
func (e *Engine) PriceAndZone(x, y int) (decimal.Decimal, Zone, error) {
	return e.gameMap.PriceAndZone(x, y)
}

// ConstructionCost is the catalog cost plus the materials bill.
func (e *Engine) ConstructionCost(t BusinessType) decimal.Decimal {
	materials := decimal.NewFromInt(int64(t.MaterialsRequired)).Mul(e.rules.MaterialUnitPrice)
	return t.Cost.Add(materials)
}

// BonusRate returns the per-connection bonus for ctx.
func (e *Engine) BonusRate(ctx BonusContext) decimal.Decimal {
	if rate, ok := e.rules.ConnectionBonus[ctx]; ok {
		return rate
	}

	return e.rules.ConnectionBonus[BonusOnDemand]
}
