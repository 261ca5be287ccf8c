package impl

import (
	"context"
	"log/slog"
	"strings"

	"citysim/internal/domain/entity"
	domainerrors "citysim/internal/domain/errors"
	"citysim/internal/domain/repository"
	"citysim/internal/domain/service"
	"citysim/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	defaultLedgerPageSize = 50
	maxLedgerPageSize     = 200
)

type walletService struct {
	gameBase
	qrCode service.QRCodeService
}

// NewWalletService creates a new wallet service instance
func NewWalletService(params GameParams, qrCode service.QRCodeService) usecase.WalletUsecase {
	return &walletService{
		gameBase: newGameBase(params),
		qrCode:   qrCode,
	}
}

// RequestWithdrawal debits the full amount and records a pending payout of
// the amount less commission.
func (s *walletService) RequestWithdrawal(ctx context.Context, playerID uuid.UUID, req *usecase.WithdrawalRequest) (*entity.Transaction, error) {
	if req == nil || !req.Amount.IsPositive() {
		return nil, domainerrors.ErrInvalidAmount
	}
	minimum := s.engine.Rules().MinWithdrawal
	if req.Amount.LessThan(minimum) {
		return nil, domainerrors.ErrWithdrawalBelowMinimum.WithDetails("minimum " + minimum.String())
	}

	var record *entity.Transaction
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		playerRepo := repoFactory.NewPlayerRepository()
		player, err := playerRepo.FindByID(ctx, playerID)
		if err != nil {
			return err
		}
		toAddress := strings.TrimSpace(req.ToAddress)
		if toAddress == "" {
			toAddress = player.WalletAddress
		}
		if toAddress == "" {
			return domainerrors.ErrValidationFailed.WithDetails("no wallet address to pay out to")
		}
		if err := requireBalance(player.Balance, req.Amount); err != nil {
			return err
		}

		if _, err := playerRepo.AdjustBalance(ctx, playerID, req.Amount.Neg()); err != nil {
			return err
		}

		split := s.engine.SplitWithdrawal(req.Amount)
		record = &entity.Transaction{
			ID:           uuid.New(),
			Type:         entity.TxWithdrawal,
			FromPlayerID: uuidPtr(playerID),
			ToAddress:    toAddress,
			Amount:       split.Gross,
			Commission:   split.Commission,
			Tax:          decimal.Zero,
			Net:          split.Net,
			Status:       entity.TxStatusPending,
			CreatedAt:    s.now(),
		}

		return repoFactory.NewLedgerRepository().Create(ctx, record)
	})
	if err != nil {
		return nil, translateError(err)
	}

	s.log(ctx).Info("Withdrawal requested",
		slog.String("playerID", playerID.String()),
		slog.String("transactionID", record.ID.String()),
		slog.String("amount", record.Amount.String()),
	)
	s.publish(ctx, &service.GameEvent{
		Type:       service.EventWithdrawalRequested,
		PlayerIDs:  []string{playerID.String()},
		Amount:     record.Amount.String(),
		Attributes: map[string]string{"transaction_id": record.ID.String()},
	})

	return record, nil
}

// ApproveWithdrawal completes a pending payout and books the commission.
func (s *walletService) ApproveWithdrawal(ctx context.Context, txID uuid.UUID) (*entity.Transaction, error) {
	return s.settleWithdrawal(ctx, txID, entity.TxStatusCompleted)
}

// RejectWithdrawal cancels a pending payout and refunds the full amount.
func (s *walletService) RejectWithdrawal(ctx context.Context, txID uuid.UUID) (*entity.Transaction, error) {
	return s.settleWithdrawal(ctx, txID, entity.TxStatusRejected)
}

func (s *walletService) settleWithdrawal(ctx context.Context, txID uuid.UUID, to entity.TransactionStatus) (*entity.Transaction, error) {
	var record *entity.Transaction
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		ledgerRepo := repoFactory.NewLedgerRepository()

		var err error
		record, err = ledgerRepo.FindByID(ctx, txID)
		if err != nil {
			return err
		}
		if record.Type != entity.TxWithdrawal {
			return domainerrors.ErrTransactionNotFound.WithDetails("not a withdrawal")
		}
		if !record.Status.CanTransitionTo(to) {
			return domainerrors.ErrNotPending
		}

		now := s.now()
		if err := ledgerRepo.UpdateStatus(ctx, txID, entity.TxStatusPending, to, now); err != nil {
			if errors.Is(err, repository.ErrStaleWrite) {
				return domainerrors.ErrNotPending
			}

			return err
		}
		record.Status = to
		record.CompletedAt = timePtr(now)

		if to == entity.TxStatusRejected {
			if record.FromPlayerID == nil {
				return domainerrors.ErrInternalError.WithDetails("withdrawal without player")
			}
			_, err := repoFactory.NewPlayerRepository().AdjustBalance(ctx, *record.FromPlayerID, record.Amount)

			return err
		}

		treasuryRepo := repoFactory.NewTreasuryRepository()
		if record.Commission.IsPositive() {
			if err := treasuryRepo.Increment(ctx, entity.TreasuryWithdrawalFees, record.Commission, now); err != nil {
				return err
			}
		}

		return treasuryRepo.Increment(ctx, entity.TreasuryWithdrawals, record.Net, now)
	})
	if err != nil {
		return nil, translateError(err)
	}

	s.log(ctx).Info("Withdrawal processed",
		slog.String("transactionID", txID.String()),
		slog.String("status", string(to)),
	)
	event := &service.GameEvent{
		Type:       service.EventWithdrawalProcessed,
		Amount:     record.Amount.String(),
		Attributes: map[string]string{"transaction_id": txID.String(), "status": string(to)},
	}
	if record.FromPlayerID != nil {
		event.PlayerIDs = []string{record.FromPlayerID.String()}
	}
	s.publish(ctx, event)

	return record, nil
}

// CreditDeposit credits an observed on-chain transfer. A hash is credited at
// most once.
func (s *walletService) CreditDeposit(ctx context.Context, input *usecase.DepositInput) (*entity.Transaction, error) {
	if input == nil || strings.TrimSpace(input.TxHash) == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("transaction hash is required")
	}
	if !input.Amount.IsPositive() {
		return nil, domainerrors.ErrInvalidAmount
	}
	hash := strings.TrimSpace(input.TxHash)

	var record *entity.Transaction
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		ledgerRepo := repoFactory.NewLedgerRepository()
		if _, err := ledgerRepo.FindByExternalRef(ctx, hash); err == nil {
			return domainerrors.ErrDepositAlreadyCredited
		} else if !errors.Is(err, repository.ErrTransactionNotFound) {
			return err
		}

		playerRepo := repoFactory.NewPlayerRepository()
		if _, err := playerRepo.FindByID(ctx, input.PlayerID); err != nil {
			return err
		}

		now := s.now()
		if _, err := playerRepo.AdjustBalance(ctx, input.PlayerID, input.Amount); err != nil {
			return err
		}
		record = &entity.Transaction{
			ID:          uuid.New(),
			Type:        entity.TxDeposit,
			ToPlayerID:  uuidPtr(input.PlayerID),
			Amount:      input.Amount,
			Commission:  decimal.Zero,
			Tax:         decimal.Zero,
			Net:         input.Amount,
			Status:      entity.TxStatusCompleted,
			ExternalRef: hash,
			CreatedAt:   now,
			CompletedAt: timePtr(now),
		}
		if err := ledgerRepo.Create(ctx, record); err != nil {
			return err
		}

		return repoFactory.NewTreasuryRepository().Increment(ctx, entity.TreasuryDeposits, input.Amount, now)
	})
	if err != nil {
		return nil, translateError(err)
	}

	s.log(ctx).Info("Deposit credited",
		slog.String("playerID", input.PlayerID.String()),
		slog.String("txHash", hash),
		slog.String("amount", input.Amount.String()),
	)
	s.publish(ctx, &service.GameEvent{
		Type:      service.EventDepositCredited,
		PlayerIDs: []string{input.PlayerID.String()},
		Amount:    input.Amount.String(),
	})

	return record, nil
}

// ListTransactions lists the ledger records of a player.
func (s *walletService) ListTransactions(ctx context.Context, playerID uuid.UUID, limit, offset int) ([]*entity.Transaction, error) {
	if _, err := s.repos.NewPlayerRepository().FindByID(ctx, playerID); err != nil {
		return nil, translateError(err)
	}

	records, err := s.repos.NewLedgerRepository().List(ctx, entity.TransactionFilter{
		PlayerID: uuidPtr(playerID),
		Limit:    pageSize(limit),
		Offset:   max(offset, 0),
	})
	if err != nil {
		return nil, translateError(err)
	}

	return records, nil
}

// ListWithdrawals lists withdrawals for review. An empty status lists all.
func (s *walletService) ListWithdrawals(ctx context.Context, status entity.TransactionStatus, limit, offset int) ([]*entity.Transaction, error) {
	records, err := s.repos.NewLedgerRepository().List(ctx, entity.TransactionFilter{
		Type:   entity.TxWithdrawal,
		Status: status,
		Limit:  pageSize(limit),
		Offset: max(offset, 0),
	})
	if err != nil {
		return nil, translateError(err)
	}

	return records, nil
}

// ListAllTransactions lists ledger records of every player, newest first.
func (s *walletService) ListAllTransactions(ctx context.Context, txType entity.TransactionType, limit, offset int) (*usecase.TransactionPage, error) {
	filter := entity.TransactionFilter{
		Type:   txType,
		Limit:  pageSize(limit),
		Offset: max(offset, 0),
	}

	page := &usecase.TransactionPage{}
	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		ledgerRepo := repoFactory.NewLedgerRepository()

		var err error
		if page.Transactions, err = ledgerRepo.List(ctx, filter); err != nil {
			return err
		}
		page.Total, err = ledgerRepo.Count(ctx, filter)

		return err
	})
	if err != nil {
		return nil, translateError(err)
	}

	return page, nil
}

// DepositQR renders the deposit link of a player.
func (s *walletService) DepositQR(ctx context.Context, playerID uuid.UUID) ([]byte, error) {
	if s.qrCode == nil {
		return nil, domainerrors.ErrInternalError.WithDetails("qr code generation is not configured")
	}
	if _, err := s.repos.NewPlayerRepository().FindByID(ctx, playerID); err != nil {
		return nil, translateError(err)
	}

	png, err := s.qrCode.GenerateDepositQR(playerID)
	if err != nil {
		return nil, errors.Wrap(err, "generate deposit qr")
	}

	return png, nil
}

func pageSize(limit int) int {
	if limit <= 0 {
		return defaultLedgerPageSize
	}

	return min(limit, maxLedgerPageSize)
}
