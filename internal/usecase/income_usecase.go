package usecase

import (
	"context"
	"time"

	"citysim/internal/domain/economy"
	"citysim/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IncomeReceipt is the outcome of one collection. A collection inside the
// debounce window yields a receipt with Collected false and zero amounts.
type IncomeReceipt struct {
	BusinessID    uuid.UUID           `json:"business_id"`
	Collected     bool                `json:"collected"`
	Hours         decimal.Decimal     `json:"hours"`
	Gross         decimal.Decimal     `json:"gross"`
	OperatingCost decimal.Decimal     `json:"operating_cost"`
	Tax           decimal.Decimal     `json:"tax"`
	Net           decimal.Decimal     `json:"net"`
	XPGain        int64               `json:"xp_gain"`
	Level         int                 `json:"level"`
	LeveledUp     bool                `json:"leveled_up"`
	Transaction   *entity.Transaction `json:"transaction,omitempty"`
}

// CollectAllResult sums the collections of one player.
type CollectAllResult struct {
	Receipts []*IncomeReceipt `json:"receipts"`
	TotalNet decimal.Decimal  `json:"total_net"`
	TotalTax decimal.Decimal  `json:"total_tax"`
	Balance  decimal.Decimal  `json:"balance"`
}

// PendingIncome is the uncollected income of one business.
type PendingIncome struct {
	BusinessID uuid.UUID       `json:"business_id"`
	Type       string          `json:"type"`
	Eligible   bool            `json:"eligible"`
	Hours      decimal.Decimal `json:"hours"`
	Net        decimal.Decimal `json:"net"`
}

// IncomeUsecase defines the interface for accruing and collecting income
type IncomeUsecase interface {
	// CollectIncome credits the income accrued since the last collection
	CollectIncome(ctx context.Context, playerID, businessID uuid.UUID, now time.Time) (*IncomeReceipt, error)

	// CollectAll collects every operational business of a player
	CollectAll(ctx context.Context, playerID uuid.UUID, now time.Time) (*CollectAllResult, error)

	// PendingIncome projects what a collection at now would pay, without writing
	PendingIncome(ctx context.Context, playerID uuid.UUID, now time.Time) ([]*PendingIncome, error)

	// IncomeTable returns the projections for every type, optionally one type only
	IncomeTable(ctx context.Context, typeKey string) ([]economy.IncomeProjection, error)

	// Project returns the projection for one combination
	Project(ctx context.Context, typeKey string, level int, zone economy.Zone, connections int) (*economy.IncomeProjection, error)
}
