package economy

import "github.com/shopspring/decimal"

// Split is the breakdown of a payment that passes through the platform.
type Split struct {
	Gross      decimal.Decimal
	Commission decimal.Decimal
	Tax        decimal.Decimal
	Net        decimal.Decimal
}

// ResaleFloor is the lowest price a plot may be listed at.
func (e *Engine) ResaleFloor(base, investment decimal.Decimal, hasBusiness bool) decimal.Decimal {
	floor := base.Mul(e.rules.ResaleFloorBaseFraction)
	if hasBusiness {
		withInvestment := base.Add(investment.Mul(e.rules.ResaleFloorInvestmentFraction))
		floor = decimal.Max(floor, withInvestment)
	}

	return floor
}

// DemolishFee is charged to tear down a business.
func (e *Engine) DemolishFee(investment decimal.Decimal) decimal.Decimal {
	return investment.Mul(e.rules.DemolishFeeRate).Round(MoneyPlaces)
}

// SplitResale divides a resale price into the seller's proceeds and the platform commission.
func (e *Engine) SplitResale(price decimal.Decimal) Split {
	commission := price.Mul(e.rules.ResaleCommission).Round(MoneyPlaces)

	return Split{Gross: price, Commission: commission, Tax: decimal.Zero, Net: price.Sub(commission)}
}

// SplitWithdrawal divides a withdrawal into the amount paid out and the fee.
func (e *Engine) SplitWithdrawal(amount decimal.Decimal) Split {
	commission := amount.Mul(e.rules.WithdrawalCommission).Round(MoneyPlaces)

	return Split{Gross: amount, Commission: commission, Tax: decimal.Zero, Net: amount.Sub(commission)}
}

// SplitSpotTrade divides a trade value into the seller's proceeds, the trade
// commission and the income tax.
func (e *Engine) SplitSpotTrade(value decimal.Decimal) Split {
	commission := value.Mul(e.rules.TradeCommission).Round(MoneyPlaces)
	tax := value.Mul(e.rules.TaxRate).Round(MoneyPlaces)

	return Split{Gross: value, Commission: commission, Tax: tax, Net: value.Sub(commission).Sub(tax)}
}
