package economy

import (
	"slices"

	"github.com/shopspring/decimal"
)

// TaxBracket raises the rate once a player's market share reaches Share.
type TaxBracket struct {
	Share decimal.Decimal
	Rate  decimal.Decimal
}

// DefaultTaxBrackets returns the progressive brackets of the reference economy.
func DefaultTaxBrackets() []TaxBracket {
	return []TaxBracket{
		{Share: decimal.RequireFromString("0.15"), Rate: decimal.RequireFromString("0.18")},
		{Share: decimal.RequireFromString("0.20"), Rate: decimal.RequireFromString("0.25")},
		{Share: decimal.RequireFromString("0.25"), Rate: decimal.RequireFromString("0.35")},
	}
}

// TaxPolicy resolves the income tax rate.
type TaxPolicy struct {
	Base        decimal.Decimal
	Progressive bool
	Brackets    []TaxBracket
}

// NewTaxPolicy sorts brackets by share.
func NewTaxPolicy(base decimal.Decimal, progressive bool, brackets []TaxBracket) TaxPolicy {
	sorted := slices.Clone(brackets)
	slices.SortFunc(sorted, func(a, b TaxBracket) int { return a.Share.Cmp(b.Share) })

	return TaxPolicy{Base: base, Progressive: progressive, Brackets: sorted}
}

// Rate returns the rate for a player holding marketShare of a business type.
func (p TaxPolicy) Rate(marketShare decimal.Decimal) decimal.Decimal {
	rate := p.Base
	if !p.Progressive {
		return rate
	}
	for _, b := range p.Brackets {
		if marketShare.GreaterThanOrEqual(b.Share) {
			rate = b.Rate
		}
	}

	return rate
}
