package usecase

import (
	"context"

	"citysim/internal/domain/economy"
	"citysim/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SpotTradeInput is a one-off resource sale between two businesses.
type SpotTradeInput struct {
	SellerBusinessID uuid.UUID
	BuyerBusinessID  uuid.UUID
	Resource         economy.ResourceType
	Amount           int64
}

// SpotTradeReceipt describes a settled spot trade.
type SpotTradeReceipt struct {
	Transaction *entity.Transaction `json:"transaction"`
	Value       decimal.Decimal     `json:"value"`
	Tax         decimal.Decimal     `json:"tax"`
	SellerNet   decimal.Decimal     `json:"seller_net"`
}

// ContractInput offers a standing supply agreement.
type ContractInput struct {
	SellerBusinessID uuid.UUID
	BuyerBusinessID  uuid.UUID
	Resource         economy.ResourceType
	AmountPerDay     int64
	PricePerUnit     decimal.Decimal
	DurationDays     int
}

// TradeUsecase defines the interface for resource trading
type TradeUsecase interface {
	// SpotTrade sells resources at the reference price
	SpotTrade(ctx context.Context, callerID uuid.UUID, input *SpotTradeInput) (*SpotTradeReceipt, error)

	// CreateContract offers a supply contract to the buyer business
	CreateContract(ctx context.Context, callerID uuid.UUID, input *ContractInput) (*entity.Contract, error)

	// AcceptContract activates a contract on behalf of the buyer
	AcceptContract(ctx context.Context, callerID, contractID uuid.UUID) (*entity.Contract, error)

	// ListContracts lists the contracts a player takes part in
	ListContracts(ctx context.Context, playerID uuid.UUID) ([]*entity.Contract, error)
}
