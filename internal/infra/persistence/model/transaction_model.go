package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionModel is the GORM-specific struct for the 'transactions' table,
// the append-only ledger.
type TransactionModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	Type           string          `gorm:"type:varchar(32);not null;index:idx_transactions_type_status"`
	FromPlayerID   *uuid.UUID      `gorm:"type:uuid;index"`
	ToPlayerID     *uuid.UUID      `gorm:"type:uuid;index"`
	ToAddress      string          `gorm:"type:varchar(128);not null;default:''"`
	Amount         decimal.Decimal `gorm:"type:numeric(30,9);not null"`
	Commission     decimal.Decimal `gorm:"type:numeric(30,9);not null;default:0"`
	Tax            decimal.Decimal `gorm:"type:numeric(30,9);not null;default:0"`
	Net            decimal.Decimal `gorm:"type:numeric(30,9);not null;default:0"`
	PlotID         *uuid.UUID      `gorm:"type:uuid"`
	BusinessID     *uuid.UUID      `gorm:"type:uuid"`
	ResourceType   string          `gorm:"type:varchar(32);not null;default:''"`
	ResourceAmount int64           `gorm:"not null;default:0"`
	Status         string          `gorm:"type:varchar(16);not null;index:idx_transactions_type_status"`
	ExternalRef    *string         `gorm:"type:varchar(128);uniqueIndex"`
	CreatedAt      time.Time       `gorm:"not null;index"`
	CompletedAt    *time.Time
}

// TableName explicitly sets the table name for GORM.
func (TransactionModel) TableName() string {
	return "transactions"
}
