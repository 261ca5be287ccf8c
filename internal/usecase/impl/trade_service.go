package impl

import (
	"context"
	"log/slog"

	"citysim/internal/domain/entity"
	domainerrors "citysim/internal/domain/errors"
	"citysim/internal/domain/repository"
	"citysim/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type tradeService struct {
	gameBase
}

// NewTradeService creates a new trade service instance
func NewTradeService(params GameParams) usecase.TradeUsecase {
	return &tradeService{gameBase: newGameBase(params)}
}

// SpotTrade buys resources for a business the caller owns from another
// business at the reference price. The buyer pays the full value and the
// seller receives it net of tax.
func (s *tradeService) SpotTrade(ctx context.Context, callerID uuid.UUID, input *usecase.SpotTradeInput) (*usecase.SpotTradeReceipt, error) {
	if input == nil || input.Amount <= 0 {
		return nil, domainerrors.ErrInvalidAmount.WithDetails("amount must be positive")
	}
	if input.SellerBusinessID == input.BuyerBusinessID {
		return nil, domainerrors.ErrValidationFailed.WithDetails("a business cannot trade with itself")
	}
	unitPrice, ok := s.engine.Catalog().ResourcePrice(input.Resource)
	if !ok {
		return nil, domainerrors.ErrResourceMismatch.WithDetails("no reference price for " + string(input.Resource))
	}
	split := s.engine.SplitSpotTrade(unitPrice.Mul(decimal.NewFromInt(input.Amount)))

	receipt := &usecase.SpotTradeReceipt{Value: split.Gross, Tax: split.Tax, SellerNet: split.Net}
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		seller, buyer, err := s.tradingPair(ctx, repoFactory.NewBusinessRepository(), input.SellerBusinessID, input.BuyerBusinessID)
		if err != nil {
			return err
		}
		// The paying side must initiate the trade.
		if buyer.OwnerID != callerID {
			return domainerrors.ErrNotOwner.WithDetails("only the buyer can initiate a spot trade")
		}
		sellerType, _ := s.engine.Catalog().Lookup(seller.Type)
		if sellerType.Produces != input.Resource {
			return domainerrors.ErrResourceMismatch.WithDetails(seller.Type + " does not produce " + string(input.Resource))
		}
		buyerType, _ := s.engine.Catalog().Lookup(buyer.Type)
		if buyerType.Requires != input.Resource {
			return domainerrors.ErrResourceMismatch.WithDetails(buyer.Type + " does not consume " + string(input.Resource))
		}

		playerRepo := repoFactory.NewPlayerRepository()
		buyerPlayer, err := playerRepo.FindByID(ctx, buyer.OwnerID)
		if err != nil {
			return err
		}
		if err := requireBalance(buyerPlayer.Balance, split.Gross); err != nil {
			return err
		}

		now := s.now()
		if _, err := playerRepo.AdjustBalance(ctx, buyer.OwnerID, split.Gross.Neg()); err != nil {
			return err
		}
		if _, err := playerRepo.AdjustBalance(ctx, seller.OwnerID, split.Net); err != nil {
			return err
		}

		treasuryRepo := repoFactory.NewTreasuryRepository()
		if split.Tax.IsPositive() {
			if err := treasuryRepo.Increment(ctx, entity.TreasuryTax, split.Tax, now); err != nil {
				return err
			}
		}
		if split.Commission.IsPositive() {
			if err := treasuryRepo.Increment(ctx, entity.TreasuryTradeCommission, split.Commission, now); err != nil {
				return err
			}
		}

		receipt.Transaction = &entity.Transaction{
			ID:             uuid.New(),
			Type:           entity.TxTradeResource,
			FromPlayerID:   uuidPtr(buyer.OwnerID),
			ToPlayerID:     uuidPtr(seller.OwnerID),
			Amount:         split.Gross,
			Commission:     split.Commission,
			Tax:            split.Tax,
			Net:            split.Net,
			BusinessID:     uuidPtr(seller.ID),
			ResourceType:   input.Resource,
			ResourceAmount: input.Amount,
			Status:         entity.TxStatusCompleted,
			CreatedAt:      now,
			CompletedAt:    timePtr(now),
		}

		return repoFactory.NewLedgerRepository().Create(ctx, receipt.Transaction)
	})
	if err != nil {
		return nil, translateError(err)
	}

	s.log(ctx).Info("Spot trade settled",
		slog.String("sellerBusinessID", input.SellerBusinessID.String()),
		slog.String("buyerBusinessID", input.BuyerBusinessID.String()),
		slog.String("resource", string(input.Resource)),
		slog.Int64("amount", input.Amount),
		slog.String("value", split.Gross.String()),
	)

	return receipt, nil
}

func (s *tradeService) tradingPair(ctx context.Context, businessRepo repository.BusinessRepository, sellerID, buyerID uuid.UUID) (*entity.Business, *entity.Business, error) {
	seller, err := businessRepo.FindByID(ctx, sellerID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "seller business")
	}
	buyer, err := businessRepo.FindByID(ctx, buyerID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "buyer business")
	}

	return seller, buyer, nil
}

// CreateContract offers a supply contract from a business the caller owns.
func (s *tradeService) CreateContract(ctx context.Context, callerID uuid.UUID, input *usecase.ContractInput) (*entity.Contract, error) {
	if input == nil || input.AmountPerDay <= 0 || input.DurationDays <= 0 {
		return nil, domainerrors.ErrInvalidAmount.WithDetails("amount per day and duration must be positive")
	}
	if !input.PricePerUnit.IsPositive() {
		return nil, domainerrors.ErrInvalidAmount.WithDetails("price per unit must be positive")
	}
	if input.SellerBusinessID == input.BuyerBusinessID {
		return nil, domainerrors.ErrValidationFailed.WithDetails("a business cannot contract with itself")
	}

	var contract *entity.Contract
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		seller, buyer, err := s.tradingPair(ctx, repoFactory.NewBusinessRepository(), input.SellerBusinessID, input.BuyerBusinessID)
		if err != nil {
			return err
		}
		if seller.OwnerID != callerID {
			return domainerrors.ErrNotOwner
		}
		sellerType, _ := s.engine.Catalog().Lookup(seller.Type)
		buyerType, _ := s.engine.Catalog().Lookup(buyer.Type)
		if sellerType.Produces != input.Resource || buyerType.Requires != input.Resource {
			return domainerrors.ErrResourceMismatch.WithDetails(string(input.Resource))
		}

		contract = &entity.Contract{
			ID:               uuid.New(),
			SellerID:         seller.OwnerID,
			BuyerID:          buyer.OwnerID,
			SellerBusinessID: seller.ID,
			BuyerBusinessID:  buyer.ID,
			ResourceType:     input.Resource,
			AmountPerDay:     input.AmountPerDay,
			PricePerUnit:     input.PricePerUnit,
			DurationDays:     input.DurationDays,
			Status:           entity.ContractPendingAcceptance,
			CreatedAt:        s.now(),
		}

		return repoFactory.NewContractRepository().Create(ctx, contract)
	})
	if err != nil {
		return nil, translateError(err)
	}

	return contract, nil
}

// AcceptContract activates a pending contract. Only the owner of the buyer
// business may accept.
func (s *tradeService) AcceptContract(ctx context.Context, callerID, contractID uuid.UUID) (*entity.Contract, error) {
	var contract *entity.Contract
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		contractRepo := repoFactory.NewContractRepository()

		var err error
		contract, err = contractRepo.FindByID(ctx, contractID)
		if err != nil {
			return err
		}
		if contract.BuyerID != callerID {
			return domainerrors.ErrNotOwner.WithDetails("only the buyer can accept")
		}
		if contract.Status != entity.ContractPendingAcceptance {
			return domainerrors.ErrNotPending
		}

		now := s.now()
		if err := contractRepo.Activate(ctx, contractID, now); err != nil {
			if errors.Is(err, repository.ErrStaleWrite) {
				return domainerrors.ErrNotPending
			}

			return err
		}
		contract.Status = entity.ContractActive
		contract.AcceptedAt = timePtr(now)

		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}

	return contract, nil
}

// ListContracts lists the contracts of a player.
func (s *tradeService) ListContracts(ctx context.Context, playerID uuid.UUID) ([]*entity.Contract, error) {
	contracts, err := s.repos.NewContractRepository().ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, translateError(err)
	}

	return contracts, nil
}
