package economy

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Tier is a player rank derived from total turnover.
type Tier struct {
	Key            string          `json:"key"`
	Name           string          `json:"name"`
	MinTurnover    decimal.Decimal `json:"min_turnover"`
	MaxPlots       int             `json:"max_plots"`
	MaxMarketShare decimal.Decimal `json:"max_market_share"`
}

// DefaultTiers returns the reference tiers, lowest first.
func DefaultTiers() []Tier {
	return []Tier{
		{Key: "novice", Name: "Novice", MinTurnover: decimal.Zero, MaxPlots: 3, MaxMarketShare: decimal.RequireFromString("0.05")},
		{Key: "entrepreneur", Name: "Entrepreneur", MinTurnover: decimal.NewFromInt(100), MaxPlots: 7, MaxMarketShare: decimal.RequireFromString("0.10")},
		{Key: "businessman", Name: "Businessman", MinTurnover: decimal.NewFromInt(500), MaxPlots: 15, MaxMarketShare: decimal.RequireFromString("0.15")},
		{Key: "magnate", Name: "Magnate", MinTurnover: decimal.NewFromInt(2000), MaxPlots: 30, MaxMarketShare: decimal.RequireFromString("0.20")},
		{Key: "oligarch", Name: "Oligarch", MinTurnover: decimal.NewFromInt(10000), MaxPlots: 50, MaxMarketShare: decimal.RequireFromString("0.25")},
	}
}

// Tiers is an ordered tier ladder.
type Tiers []Tier

// NewTiers validates that thresholds start at zero and increase.
func NewTiers(tiers []Tier) (Tiers, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("tier list is empty")
	}
	if !tiers[0].MinTurnover.IsZero() {
		return nil, fmt.Errorf("first tier must start at zero turnover")
	}
	for i := 1; i < len(tiers); i++ {
		if !tiers[i].MinTurnover.GreaterThan(tiers[i-1].MinTurnover) {
			return nil, fmt.Errorf("tier %q threshold does not increase", tiers[i].Key)
		}
	}

	return append(Tiers(nil), tiers...), nil
}

// TierFor returns the highest tier whose threshold the turnover reaches.
func (ts Tiers) TierFor(turnover decimal.Decimal) Tier {
	current := ts[0]
	for _, t := range ts {
		if turnover.GreaterThanOrEqual(t.MinTurnover) {
			current = t
		}
	}

	return current
}
