package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Player is an account taking part in the economy.
type Player struct {
	ID            uuid.UUID       `json:"id"`
	WalletAddress string          `json:"wallet_address,omitempty"`
	DisplayName   string          `json:"display_name"`
	Balance       decimal.Decimal `json:"balance"`        // Never negative after a commit.
	TotalTurnover decimal.Decimal `json:"total_turnover"` // Only grows; drives the tier.
	TotalIncome   decimal.Decimal `json:"total_income"`   // Net income collected so far.
	IsAdmin       bool            `json:"is_admin"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// PlayerStanding is a leaderboard row.
type PlayerStanding struct {
	Player          *Player `json:"player"`
	PlotsOwned      int     `json:"plots_owned"`
	BusinessesOwned int     `json:"businesses_owned"`
}
