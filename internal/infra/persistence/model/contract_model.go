package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractModel is the GORM-specific struct for the 'contracts' table.
type ContractModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	SellerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	BuyerID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellerBusinessID uuid.UUID       `gorm:"type:uuid;not null"`
	BuyerBusinessID  uuid.UUID       `gorm:"type:uuid;not null"`
	ResourceType     string          `gorm:"type:varchar(32);not null"`
	AmountPerDay     int64           `gorm:"not null"`
	PricePerUnit     decimal.Decimal `gorm:"type:numeric(30,9);not null"`
	DurationDays     int             `gorm:"not null"`
	Status           string          `gorm:"type:varchar(32);not null"`
	AcceptedAt       *time.Time
	CreatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (ContractModel) TableName() string {
	return "contracts"
}
