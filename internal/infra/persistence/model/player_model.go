package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlayerModel is the GORM-specific struct for the 'players' table.
type PlayerModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	WalletAddress *string         `gorm:"type:varchar(128);uniqueIndex"`
	DisplayName   string          `gorm:"type:varchar(100);not null;default:''"`
	Balance       decimal.Decimal `gorm:"type:numeric(30,9);not null;default:0;check:balance >= 0"`
	TotalTurnover decimal.Decimal `gorm:"type:numeric(30,9);not null;default:0"`
	TotalIncome   decimal.Decimal `gorm:"type:numeric(30,9);not null;default:0;index"`
	IsAdmin       bool            `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (PlayerModel) TableName() string {
	return "players"
}
