package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlotModel is the GORM-specific struct for the 'plots' table. A tile exists
// at most once.
type PlotModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	X           int             `gorm:"not null;uniqueIndex:idx_plots_xy"`
	Y           int             `gorm:"not null;uniqueIndex:idx_plots_xy"`
	Zone        string          `gorm:"type:varchar(32);not null;index"`
	BasePrice   decimal.Decimal `gorm:"type:numeric(30,9);not null"`
	Price       decimal.Decimal `gorm:"type:numeric(30,9);not null"`
	OwnerID     *uuid.UUID      `gorm:"type:uuid;index"`
	BusinessID  *uuid.UUID      `gorm:"type:uuid"`
	IsAvailable bool            `gorm:"not null;default:true"`
	IsResale    bool            `gorm:"not null;default:false"`
	PurchasedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (PlotModel) TableName() string {
	return "plots"
}
