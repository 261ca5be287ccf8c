package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TreasuryModel is the GORM-specific struct for the 'treasury' table. There
// is one row per category.
type TreasuryModel struct {
	Category  string          `gorm:"type:varchar(32);primaryKey"`
	Amount    decimal.Decimal `gorm:"type:numeric(30,9);not null;default:0"`
	Count     int64           `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (TreasuryModel) TableName() string {
	return "treasury"
}
