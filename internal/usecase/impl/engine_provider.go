package impl

import (
	"citysim/config"
	"citysim/internal/domain/economy"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// NewEconomyEngine builds the economy engine from the configured rates. The
// catalog, zones, levels and tiers are the compiled-in reference data.
func NewEconomyEngine(cfg *config.Config) (*economy.Engine, error) {
	opts := economy.DefaultOptions()
	if cfg.Economy == nil {
		return economy.NewEngine(opts)
	}

	merged := *cfg.Economy
	ec := merged.WithDefaults()
	opts.MapSize = ec.MapSize

	opts.Rules = economy.Rules{
		TaxRate:              decimal.NewFromFloat(ec.TaxRate),
		ProgressiveTax:       ec.ProgressiveTax.Enabled,
		ResaleCommission:     decimal.NewFromFloat(ec.ResaleCommission),
		DemolishFeeRate:      decimal.NewFromFloat(ec.DemolishFeeRate),
		WithdrawalCommission: decimal.NewFromFloat(ec.WithdrawalCommission),
		MinWithdrawal:        decimal.NewFromFloat(ec.MinWithdrawal),
		TradeCommission:      decimal.NewFromFloat(ec.TradeCommission),
		MaterialUnitPrice:    decimal.NewFromFloat(ec.MaterialUnitPrice),
		ConnectionRadius:     ec.ConnectionRadius,
		ConnectionBonus: map[economy.BonusContext]decimal.Decimal{
			economy.BonusOnDemand:    decimal.NewFromFloat(ec.ConnectionBonus.OnDemand),
			economy.BonusAutoCollect: decimal.NewFromFloat(ec.ConnectionBonus.AutoCollect),
			economy.BonusProjection:  decimal.NewFromFloat(ec.ConnectionBonus.Projection),
		},
		CollectDebounce:               ec.CollectDebounce,
		ResaleFloorBaseFraction:       decimal.NewFromFloat(ec.ResaleFloor.BaseFraction),
		ResaleFloorInvestmentFraction: decimal.NewFromFloat(ec.ResaleFloor.InvestmentFraction),
	}

	if len(ec.ProgressiveTax.Brackets) > 0 {
		brackets := make([]economy.TaxBracket, 0, len(ec.ProgressiveTax.Brackets))
		for _, b := range ec.ProgressiveTax.Brackets {
			brackets = append(brackets, economy.TaxBracket{
				Share: decimal.NewFromFloat(b.Share),
				Rate:  decimal.NewFromFloat(b.Rate),
			})
		}
		opts.TaxBrackets = brackets
	}

	engine, err := economy.NewEngine(opts)
	if err != nil {
		return nil, errors.Wrap(err, "build economy engine")
	}

	return engine, nil
}
