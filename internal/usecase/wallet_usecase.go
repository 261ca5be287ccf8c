package usecase

import (
	"context"

	"citysim/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WithdrawalRequest asks to pay out part of a balance.
type WithdrawalRequest struct {
	Amount    decimal.Decimal
	ToAddress string
}

// DepositInput is an on-chain transfer observed by the wallet watcher.
type DepositInput struct {
	TxHash   string
	PlayerID uuid.UUID
	Amount   decimal.Decimal
}

// TransactionPage is one page of the ledger with the total matching count.
type TransactionPage struct {
	Transactions []*entity.Transaction `json:"transactions"`
	Total        int64                 `json:"total"`
}

// WalletUsecase defines the interface for moving value in and out of the game
type WalletUsecase interface {
	// RequestWithdrawal debits the full amount and queues the payout for review
	RequestWithdrawal(ctx context.Context, playerID uuid.UUID, req *WithdrawalRequest) (*entity.Transaction, error)

	// ApproveWithdrawal settles a pending payout
	ApproveWithdrawal(ctx context.Context, txID uuid.UUID) (*entity.Transaction, error)

	// RejectWithdrawal cancels a pending payout and refunds the player
	RejectWithdrawal(ctx context.Context, txID uuid.UUID) (*entity.Transaction, error)

	// CreditDeposit credits an on-chain deposit once per hash
	CreditDeposit(ctx context.Context, input *DepositInput) (*entity.Transaction, error)

	// ListTransactions lists a player's ledger records, newest first
	ListTransactions(ctx context.Context, playerID uuid.UUID, limit, offset int) ([]*entity.Transaction, error)

	// ListWithdrawals lists withdrawals, optionally by status
	ListWithdrawals(ctx context.Context, status entity.TransactionStatus, limit, offset int) ([]*entity.Transaction, error)

	// ListAllTransactions lists the whole ledger for operators, optionally by type
	ListAllTransactions(ctx context.Context, txType entity.TransactionType, limit, offset int) (*TransactionPage, error)

	// DepositQR renders the deposit link of a player as a PNG
	DepositQR(ctx context.Context, playerID uuid.UUID) ([]byte, error)
}
