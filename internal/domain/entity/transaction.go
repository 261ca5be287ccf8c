package entity

import (
	"time"

	"citysim/internal/domain/economy"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType classifies ledger records.
type TransactionType string

const (
	TxPurchasePlot      TransactionType = "purchase_plot"
	TxBuildBusiness     TransactionType = "build_business"
	TxCollectIncome     TransactionType = "collect_income"
	TxAutoCollectIncome TransactionType = "auto_collect_income"
	TxDemolishBusiness  TransactionType = "demolish_business"
	TxResalePlot        TransactionType = "resale_plot"
	TxTradeResource     TransactionType = "trade_resource"
	TxWithdrawal        TransactionType = "withdrawal"
	TxDeposit           TransactionType = "deposit"
)

// TransactionStatus is the settlement state of a ledger record.
type TransactionStatus string

const (
	TxStatusPending   TransactionStatus = "pending"
	TxStatusCompleted TransactionStatus = "completed"
	TxStatusRejected  TransactionStatus = "rejected"
	TxStatusFailed    TransactionStatus = "failed"
)

// CanTransitionTo reports whether a record in status s may move to next.
// Only pending records change, and only to a final status.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	if s != TxStatusPending {
		return false
	}
	switch next {
	case TxStatusCompleted, TxStatusRejected, TxStatusFailed:
		return true
	default:
		return false
	}
}

// Transaction is an audit record of a balance-affecting event. Only Status
// and CompletedAt change after creation.
type Transaction struct {
	ID             uuid.UUID            `json:"id"`
	Type           TransactionType      `json:"type"`
	FromPlayerID   *uuid.UUID           `json:"from_player_id,omitempty"`
	ToPlayerID     *uuid.UUID           `json:"to_player_id,omitempty"`
	ToAddress      string               `json:"to_address,omitempty"` // Wallet address for withdrawals.
	Amount         decimal.Decimal      `json:"amount"`
	Commission     decimal.Decimal      `json:"commission"`
	Tax            decimal.Decimal      `json:"tax"`
	Net            decimal.Decimal      `json:"net"`
	PlotID         *uuid.UUID           `json:"plot_id,omitempty"`
	BusinessID     *uuid.UUID           `json:"business_id,omitempty"`
	ResourceType   economy.ResourceType `json:"resource_type,omitempty"`
	ResourceAmount int64                `json:"resource_amount,omitempty"`
	Status         TransactionStatus    `json:"status"`
	ExternalRef    string               `json:"external_ref,omitempty"` // On-chain hash for deposits.
	CreatedAt      time.Time            `json:"created_at"`
	CompletedAt    *time.Time           `json:"completed_at,omitempty"`
}

// TransactionFilter narrows ledger listings. Zero values are ignored.
type TransactionFilter struct {
	PlayerID *uuid.UUID
	Type     TransactionType
	Status   TransactionStatus
	Limit    int
	Offset   int
}
