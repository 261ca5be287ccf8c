package repository

import (
	"context"
	"time"

	"citysim/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerRepository stores the transaction audit trail.
type LedgerRepository interface {
	// Create appends a record. Records carrying an external reference are
	// unique by it and fail with ErrDuplicateExternalRef.
	Create(ctx context.Context, tx *entity.Transaction) error

	// FindByID retrieves a record.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByExternalRef retrieves the record holding an external reference.
	FindByExternalRef(ctx context.Context, ref string) (*entity.Transaction, error)

	// List returns records matching the filter, newest first.
	List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, error)
	// Count returns how many records match the filter. Limit and Offset are ignored.
	Count(ctx context.Context, filter entity.TransactionFilter) (int64, error)
	// SumCompleted totals the amount of every completed record.
	SumCompleted(ctx context.Context) (decimal.Decimal, error)

	// UpdateStatus moves a record from one status to another. It fails with
	// ErrStaleWrite when the record is not in status from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.TransactionStatus, at time.Time) error

	// SumPending returns the total amount and count of pending records of a type.
	SumPending(ctx context.Context, txType entity.TransactionType) (decimal.Decimal, int64, error)

	// FirstCreatedAt returns the time of the oldest record, or nil for an empty ledger.
	FirstCreatedAt(ctx context.Context) (*time.Time, error)
}
