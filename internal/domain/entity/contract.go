package entity

import (
	"time"

	"citysim/internal/domain/economy"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractStatus is the lifecycle state of a supply contract.
type ContractStatus string

const (
	ContractPendingAcceptance ContractStatus = "pending_acceptance"
	ContractActive            ContractStatus = "active"
)

// Contract is a standing agreement to deliver a resource between two businesses.
type Contract struct {
	ID               uuid.UUID            `json:"id"`
	SellerID         uuid.UUID            `json:"seller_id"`
	BuyerID          uuid.UUID            `json:"buyer_id"`
	SellerBusinessID uuid.UUID            `json:"seller_business_id"`
	BuyerBusinessID  uuid.UUID            `json:"buyer_business_id"`
	ResourceType     economy.ResourceType `json:"resource_type"`
	AmountPerDay     int64                `json:"amount_per_day"`
	PricePerUnit     decimal.Decimal      `json:"price_per_unit"`
	DurationDays     int                  `json:"duration_days"`
	Status           ContractStatus       `json:"status"`
	AcceptedAt       *time.Time           `json:"accepted_at,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}
