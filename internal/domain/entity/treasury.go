package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TreasuryCategory is a bucket of platform revenue.
type TreasuryCategory string

const (
	TreasuryPlotSales         TreasuryCategory = "plot_sales"
	TreasuryConstructionSales TreasuryCategory = "construction_sales"
	TreasuryTax               TreasuryCategory = "tax"
	TreasuryResaleCommission  TreasuryCategory = "resale_commission"
	TreasuryTradeCommission   TreasuryCategory = "trade_commission"
	TreasuryDemolishFees      TreasuryCategory = "demolish_fees"
	TreasuryWithdrawalFees    TreasuryCategory = "withdrawal_fees"
	TreasuryWithdrawals       TreasuryCategory = "withdrawals"
	TreasuryDeposits          TreasuryCategory = "deposits"
)

// TreasuryCategories lists every category in reporting order.
var TreasuryCategories = []TreasuryCategory{
	TreasuryPlotSales,
	TreasuryConstructionSales,
	TreasuryTax,
	TreasuryResaleCommission,
	TreasuryTradeCommission,
	TreasuryDemolishFees,
	TreasuryWithdrawalFees,
	TreasuryWithdrawals,
	TreasuryDeposits,
}

// TreasuryEntry is the accumulated total of one category.
type TreasuryEntry struct {
	Category  TreasuryCategory `json:"category"`
	Amount    decimal.Decimal  `json:"amount"`
	Count     int64            `json:"count"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// TreasuryStats is a snapshot of all categories.
type TreasuryStats struct {
	Entries []TreasuryEntry `json:"entries"`
	// Revenue sums the categories that are platform income.
	Revenue decimal.Decimal `json:"revenue"`
}

// IsRevenue reports whether the category counts as platform income rather
// than money moving through the platform.
func (c TreasuryCategory) IsRevenue() bool {
	switch c {
	case TreasuryWithdrawals, TreasuryDeposits:
		return false
	default:
		return true
	}
}

// TreasuryHealth is the solvency view for operators.
type TreasuryHealth struct {
	Stats                  TreasuryStats   `json:"stats"`
	PendingWithdrawals     decimal.Decimal `json:"pending_withdrawals"`
	PendingWithdrawalCount int64           `json:"pending_withdrawal_count"`
	TotalPlayerBalances    decimal.Decimal `json:"total_player_balances"`
	DaysActive             int             `json:"days_active"`
	AverageDailyRevenue    decimal.Decimal `json:"average_daily_revenue"`
}

// GameStats is the public summary of the city.
type GameStats struct {
	TotalPlots      int64           `json:"total_plots"`
	OwnedPlots      int64           `json:"owned_plots"`
	AvailablePlots  int64           `json:"available_plots"`
	TotalBusinesses int64           `json:"total_businesses"`
	TotalPlayers    int64           `json:"total_players"`
	TotalVolume     decimal.Decimal `json:"total_volume"`
	Treasury        TreasuryStats   `json:"treasury"`
}
