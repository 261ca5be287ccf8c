package economy

import (
	"time"

	domainerrors "citysim/internal/domain/errors"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the precision money amounts are rounded to after accrual.
const MoneyPlaces = 9

var xpPerCoin = decimal.NewFromInt(10)

// AccrualInput is the business state the accrual depends on.
type AccrualInput struct {
	TypeKey        string
	Level          int
	Zone           Zone
	Connections    int
	LastCollection time.Time
	Now            time.Time
	Context        BonusContext
	// MarketShare only matters when progressive tax is enabled.
	MarketShare decimal.Decimal
}

// Accrual is the income owed for one interval.
type Accrual struct {
	Eligible       bool
	Elapsed        time.Duration
	Hours          decimal.Decimal
	Days           decimal.Decimal
	LevelMult      decimal.Decimal
	ZoneMult       decimal.Decimal
	ConnectionMult decimal.Decimal
	Gross          decimal.Decimal
	OperatingCost  decimal.Decimal
	TaxRate        decimal.Decimal
	Tax            decimal.Decimal
	Net            decimal.Decimal
	XPGain         int64
}

// Accrue computes the income of a business between its last collection and
// in.Now. Intervals shorter than the debounce are not eligible and yield zero.
func (e *Engine) Accrue(in AccrualInput) (Accrual, error) {
	t, ok := e.catalog.Lookup(in.TypeKey)
	if !ok {
		return Accrual{}, domainerrors.ErrUnknownBusinessType.WithDetails(in.TypeKey)
	}

	elapsed := in.Now.Sub(in.LastCollection)
	out := Accrual{
		Elapsed:        elapsed,
		Hours:          decimal.Zero,
		Days:           decimal.Zero,
		LevelMult:      e.levels.Spec(in.Level).IncomeMultiplier,
		ZoneMult:       t.ZoneMultiplier(in.Zone),
		ConnectionMult: e.connectionMultiplier(in.Connections, in.Context),
		Gross:          decimal.Zero,
		OperatingCost:  decimal.Zero,
		TaxRate:        e.tax.Rate(in.MarketShare),
		Tax:            decimal.Zero,
		Net:            decimal.Zero,
	}
	if elapsed < e.rules.CollectDebounce || elapsed <= 0 {
		return out, nil
	}

	out.Eligible = true
	out.Hours = decimal.NewFromFloat(elapsed.Hours())
	out.Days = decimal.NewFromInt(int64(elapsed)).Div(decimal.NewFromInt(int64(24 * time.Hour)))

	return e.settle(out, t), nil
}

// settle fills the money fields of a for the already computed interval.
func (e *Engine) settle(a Accrual, t BusinessType) Accrual {
	grossDaily := t.BaseIncome.Mul(a.LevelMult).Mul(a.ZoneMult).Mul(a.ConnectionMult)
	a.Gross = grossDaily.Mul(a.Days).Round(MoneyPlaces)
	a.OperatingCost = t.OperatingCost.Mul(a.LevelMult).Mul(a.Days).Round(MoneyPlaces)

	taxable := a.Gross.Sub(a.OperatingCost)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	a.Tax = taxable.Mul(a.TaxRate).Round(MoneyPlaces)
	a.Net = taxable.Sub(a.Tax)
	a.XPGain = a.Gross.Mul(xpPerCoin).Floor().IntPart()

	return a
}

func (e *Engine) connectionMultiplier(connections int, ctx BonusContext) decimal.Decimal {
	n := decimal.NewFromInt(int64(max(connections, 0)))
	return decimal.NewFromInt(1).Add(n.Mul(e.BonusRate(ctx)))
}

// ApplyXP adds gain to xp and recomputes the level. Neither value ever
// decreases.
func (e *Engine) ApplyXP(level int, xp, gain int64) (int, int64) {
	newXP := xp + max(gain, 0)
	return max(e.levels.LevelFor(newXP), level), newXP
}
